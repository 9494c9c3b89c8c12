package http

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"kakeibo/internal/core"
	"kakeibo/internal/services"
	"kakeibo/internal/storage/memory"
)

var testUsers = core.Users{A: "太郎", B: "花子"}

func newTestServer(t *testing.T) (*Server, *services.LedgerService) {
	t.Helper()
	svc := services.NewLedgerService(memory.New(testUsers), nil, testUsers)
	s := NewServer(":0", svc, 20, time.UTC)
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		_ = s.Shutdown(ctx)
	})
	return s, svc
}

func seedTransaction(t *testing.T, svc *services.LedgerService, day int, yen int64) core.Transaction {
	t.Helper()
	created, err := svc.CreateTransaction(context.Background(), core.Transaction{
		Date:        core.NewDate(2026, 8, day),
		Title:       "スーパー",
		Amount:      core.Money{Yen: yen},
		Payer:       testUsers.A,
		Category:    "food",
		PaymentType: core.PaySplit,
	})
	if err != nil {
		t.Fatalf("seed transaction: %v", err)
	}
	return created
}

func validForm() url.Values {
	return url.Values{
		"date":         {"2026-08-30"},
		"title":        {"スーパー"},
		"amount":       {"1200"},
		"payer":        {testUsers.A},
		"category":     {"food"},
		"payment_type": {"split"},
	}
}

func postForm(s *Server, path string, form url.Values) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	s.Handler.ServeHTTP(rec, req)
	return rec
}

func get(s *Server, path string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	rec := httptest.NewRecorder()
	s.Handler.ServeHTTP(rec, req)
	return rec
}

func TestDashboard(t *testing.T) {
	s, svc := newTestServer(t)
	seedTransaction(t, svc, 30, 3000)

	rec := get(s, "/")
	if rec.Code != http.StatusOK {
		t.Fatalf("GET / status = %d, want 200", rec.Code)
	}
	body := rec.Body.String()
	if !strings.Contains(body, "太郎") || !strings.Contains(body, "花子") {
		t.Errorf("dashboard missing user names")
	}
	if !strings.Contains(body, "1,500") {
		t.Errorf("dashboard missing settled half amount, body:\n%s", body)
	}
	if got := rec.Header().Get("X-Content-Type-Options"); got != "nosniff" {
		t.Errorf("X-Content-Type-Options = %q, want nosniff", got)
	}
}

func TestDashboardUnknownPath(t *testing.T) {
	s, _ := newTestServer(t)
	if rec := get(s, "/nonexistent"); rec.Code != http.StatusNotFound {
		t.Fatalf("GET /nonexistent status = %d, want 404", rec.Code)
	}
}

func TestAddTransaction(t *testing.T) {
	s, svc := newTestServer(t)

	if rec := get(s, "/add"); rec.Code != http.StatusOK {
		t.Fatalf("GET /add status = %d, want 200", rec.Code)
	}

	rec := postForm(s, "/add", validForm())
	if rec.Code != http.StatusSeeOther {
		t.Fatalf("POST /add status = %d, want 303", rec.Code)
	}
	if loc := rec.Header().Get("Location"); loc != "/" {
		t.Errorf("redirect location = %q, want /", loc)
	}

	recent, err := svc.Recent(context.Background(), 5)
	if err != nil || len(recent) != 1 {
		t.Fatalf("recent after add = %v, %v", recent, err)
	}
	if recent[0].Title != "スーパー" || recent[0].Amount.Yen != 1200 {
		t.Errorf("stored transaction = %+v", recent[0])
	}
}

func TestAddValidationErrors(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(url.Values)
		message string
	}{
		{"empty title", func(f url.Values) { f.Set("title", "  ") }, "品目を入力してください。"},
		{"zero amount", func(f url.Values) { f.Set("amount", "0") }, "金額は1円以上"},
		{"non-numeric amount", func(f url.Values) { f.Set("amount", "abc") }, "金額は1円以上"},
		{"bad date", func(f url.Values) { f.Set("date", "30-08-2026") }, "日付を正しく"},
		{"unknown payer", func(f url.Values) { f.Set("payer", "次郎") }, "支払った人を選択"},
		{"unknown category", func(f url.Values) { f.Set("category", "crypto") }, "カテゴリを選択"},
		{"unknown payment type", func(f url.Values) { f.Set("payment_type", "iou") }, "支払い区分を選択"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, svc := newTestServer(t)

			form := validForm()
			tt.mutate(form)
			rec := postForm(s, "/add", form)
			if rec.Code != http.StatusUnprocessableEntity {
				t.Fatalf("POST /add status = %d, want 422", rec.Code)
			}
			if !strings.Contains(rec.Body.String(), tt.message) {
				t.Errorf("response missing message %q", tt.message)
			}

			recent, err := svc.Recent(context.Background(), 5)
			if err != nil || len(recent) != 0 {
				t.Errorf("invalid form must not create rows, got %v, %v", recent, err)
			}
		})
	}
}

func TestAddFormKeepsInput(t *testing.T) {
	s, _ := newTestServer(t)

	form := validForm()
	form.Set("amount", "0")
	rec := postForm(s, "/add", form)
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d, want 422", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "スーパー") {
		t.Errorf("re-rendered form lost the submitted title")
	}
}

func TestEditTransaction(t *testing.T) {
	s, svc := newTestServer(t)
	created := seedTransaction(t, svc, 10, 500)

	rec := get(s, "/edit/1")
	if rec.Code != http.StatusOK {
		t.Fatalf("GET /edit/1 status = %d, want 200", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "スーパー") {
		t.Errorf("edit form missing current title")
	}

	form := validForm()
	form.Set("title", "コンビニ")
	form.Set("amount", "700")
	rec = postForm(s, "/edit/1", form)
	if rec.Code != http.StatusSeeOther {
		t.Fatalf("POST /edit/1 status = %d, want 303", rec.Code)
	}

	updated, err := svc.GetTransaction(context.Background(), created.ID)
	if err != nil {
		t.Fatalf("GetTransaction: %v", err)
	}
	if updated.Title != "コンビニ" || updated.Amount.Yen != 700 {
		t.Errorf("updated transaction = %+v", updated)
	}
}

func TestEditNotFound(t *testing.T) {
	s, _ := newTestServer(t)

	if rec := get(s, "/edit/99"); rec.Code != http.StatusNotFound {
		t.Fatalf("GET /edit/99 status = %d, want 404", rec.Code)
	}
	if rec := postForm(s, "/edit/99", validForm()); rec.Code != http.StatusNotFound {
		t.Fatalf("POST /edit/99 status = %d, want 404", rec.Code)
	}
	if rec := get(s, "/edit/abc"); rec.Code != http.StatusNotFound {
		t.Fatalf("GET /edit/abc status = %d, want 404", rec.Code)
	}
}

func TestDeleteTransaction(t *testing.T) {
	s, svc := newTestServer(t)
	created := seedTransaction(t, svc, 10, 500)

	rec := postForm(s, "/delete/1", nil)
	if rec.Code != http.StatusSeeOther {
		t.Fatalf("POST /delete/1 status = %d, want 303", rec.Code)
	}
	if _, err := svc.GetTransaction(context.Background(), created.ID); err == nil {
		t.Errorf("transaction still present after delete")
	}

	if rec := postForm(s, "/delete/1", nil); rec.Code != http.StatusNotFound {
		t.Fatalf("second POST /delete/1 status = %d, want 404", rec.Code)
	}
	if rec := get(s, "/delete/1"); rec.Code != http.StatusMethodNotAllowed {
		t.Fatalf("GET /delete/1 status = %d, want 405", rec.Code)
	}
}

func TestHistoryPaging(t *testing.T) {
	s, svc := newTestServer(t)
	for day := 1; day <= 25; day++ {
		seedTransaction(t, svc, day, 100)
	}

	rec := get(s, "/history")
	if rec.Code != http.StatusOK {
		t.Fatalf("GET /history status = %d, want 200", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "2026-08-25") {
		t.Errorf("first page missing newest row")
	}

	rec = get(s, "/history?page=2")
	if rec.Code != http.StatusOK {
		t.Fatalf("GET /history?page=2 status = %d, want 200", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "2026-08-01") {
		t.Errorf("second page missing oldest row")
	}

	// Junk page values fall back to page 1.
	if rec := get(s, "/history?page=abc"); rec.Code != http.StatusOK {
		t.Fatalf("GET /history?page=abc status = %d, want 200", rec.Code)
	}
}

func TestHealthEndpoints(t *testing.T) {
	s, _ := newTestServer(t)

	for _, path := range []string{"/healthz", "/readyz"} {
		if rec := get(s, path); rec.Code != http.StatusOK {
			t.Errorf("GET %s status = %d, want 200", path, rec.Code)
		}
	}
}

func TestFormatYen(t *testing.T) {
	tests := []struct {
		yen  int64
		want string
	}{
		{0, "0"},
		{999, "999"},
		{1000, "1,000"},
		{12345, "12,345"},
		{1234567, "1,234,567"},
		{-4500, "-4,500"},
	}
	for _, tt := range tests {
		if got := formatYen(tt.yen); got != tt.want {
			t.Errorf("formatYen(%d) = %q, want %q", tt.yen, got, tt.want)
		}
	}
}
