package http

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"kakeibo/internal/core"
	"kakeibo/internal/storage"
)

// formPage carries everything the add/edit forms need to render,
// including previously entered values on validation failure.
type formPage struct {
	Users        core.Users
	Categories   []core.Category
	PaymentTypes []core.PaymentType
	Form         transactionForm
	Errors       []string
	EditID       int64
}

type dashboardPage struct {
	Users        core.Users
	Balance      core.Balance
	Recent       []core.Transaction
	Categories   []core.CategoryTotal
	MonthSummary core.MonthSummary
}

type historyPage struct {
	Users    core.Users
	Page     storage.Page
	PrevPage int
	NextPage int
}

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	ctx := r.Context()

	balance, err := s.ledger.Balance(ctx)
	if err != nil {
		s.renderError(w, r, err)
		return
	}
	recent, err := s.ledger.Recent(ctx, 5)
	if err != nil {
		s.renderError(w, r, err)
		return
	}
	categories, err := s.ledger.CategoryTotals(ctx)
	if err != nil {
		s.renderError(w, r, err)
		return
	}
	summary, err := s.ledger.MonthSummary(ctx, core.Today(s.location))
	if err != nil {
		s.renderError(w, r, err)
		return
	}

	s.render(w, r, "dashboard.html", dashboardPage{
		Users:        s.ledger.Users(),
		Balance:      balance,
		Recent:       recent,
		Categories:   categories,
		MonthSummary: summary,
	})
}

func (s *Server) handleAdd(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		s.render(w, r, "add_transaction.html", s.newFormPage(transactionForm{
			Date:        core.Today(s.location).String(),
			Payer:       s.ledger.Users().A,
			Category:    "other",
			PaymentType: string(core.PaySplit),
		}, nil, 0))

	case http.MethodPost:
		form, tx, err := parseTransactionForm(r, s.ledger.Users())
		if err != nil {
			w.WriteHeader(http.StatusUnprocessableEntity)
			s.render(w, r, "add_transaction.html", s.newFormPage(form, err, 0))
			return
		}

		created, err := s.ledger.CreateTransaction(r.Context(), tx)
		if err != nil {
			s.renderError(w, r, err)
			return
		}

		slog.InfoContext(r.Context(), "Transaction added via web", "id", created.ID)
		http.Redirect(w, r, "/", http.StatusSeeOther)

	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

func (s *Server) handleEdit(w http.ResponseWriter, r *http.Request) {
	id, err := idFromPath(r.URL.Path, "/edit/")
	if err != nil {
		http.NotFound(w, r)
		return
	}

	switch r.Method {
	case http.MethodGet:
		tx, err := s.ledger.GetTransaction(r.Context(), id)
		if errors.Is(err, storage.ErrTransactionNotFound) {
			http.NotFound(w, r)
			return
		}
		if err != nil {
			s.renderError(w, r, err)
			return
		}
		s.render(w, r, "edit_transaction.html", s.newFormPage(formFromTransaction(tx), nil, id))

	case http.MethodPost:
		form, tx, err := parseTransactionForm(r, s.ledger.Users())
		if err != nil {
			w.WriteHeader(http.StatusUnprocessableEntity)
			s.render(w, r, "edit_transaction.html", s.newFormPage(form, err, id))
			return
		}

		if _, err := s.ledger.UpdateTransaction(r.Context(), id, tx); err != nil {
			if errors.Is(err, storage.ErrTransactionNotFound) {
				http.NotFound(w, r)
				return
			}
			s.renderError(w, r, err)
			return
		}

		slog.InfoContext(r.Context(), "Transaction updated via web", "id", id)
		http.Redirect(w, r, "/history", http.StatusSeeOther)

	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	id, err := idFromPath(r.URL.Path, "/delete/")
	if err != nil {
		http.NotFound(w, r)
		return
	}

	if err := s.ledger.DeleteTransaction(r.Context(), id); err != nil {
		if errors.Is(err, storage.ErrTransactionNotFound) {
			http.NotFound(w, r)
			return
		}
		s.renderError(w, r, err)
		return
	}

	slog.InfoContext(r.Context(), "Transaction deleted via web", "id", id)
	http.Redirect(w, r, "/history", http.StatusSeeOther)
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	page := 1
	if raw := r.URL.Query().Get("page"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 {
			page = n
		}
	}

	p, err := s.ledger.History(r.Context(), page, s.pageSize)
	if err != nil {
		s.renderError(w, r, err)
		return
	}

	s.render(w, r, "history.html", historyPage{
		Users:    s.ledger.Users(),
		Page:     p,
		PrevPage: page - 1,
		NextPage: page + 1,
	})
}

func (s *Server) newFormPage(form transactionForm, validationErr error, editID int64) formPage {
	return formPage{
		Users:        s.ledger.Users(),
		Categories:   core.Categories(),
		PaymentTypes: core.PaymentTypes(),
		Form:         form,
		Errors:       validationMessages(validationErr),
		EditID:       editID,
	}
}

func (s *Server) render(w http.ResponseWriter, r *http.Request, name string, data any) {
	if s.templates == nil {
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	if err := s.templates.ExecuteTemplate(w, name, data); err != nil {
		slog.ErrorContext(r.Context(), "Failed to render template", "template", name, "error", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
	}
}

func (s *Server) renderError(w http.ResponseWriter, r *http.Request, err error) {
	slog.ErrorContext(r.Context(), "Request failed", "url", r.URL.Path, "error", err)
	http.Error(w, "Internal server error", http.StatusInternalServerError)
}

// idFromPath extracts the numeric id from paths like /edit/42.
func idFromPath(path, prefix string) (int64, error) {
	raw := strings.TrimPrefix(path, prefix)
	raw = strings.TrimSuffix(raw, "/")
	return strconv.ParseInt(raw, 10, 64)
}
