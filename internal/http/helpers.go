package http

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"kakeibo/internal/core"
)

// transactionForm mirrors the add/edit form fields as submitted, so a
// failed validation can re-render exactly what the user typed.
type transactionForm struct {
	Date        string
	Title       string
	Amount      string
	Payer       string
	Category    string
	PaymentType string
}

// parseTransactionForm builds a transaction from form input. The returned
// form always reflects the submitted values; the error, if any, joins all
// field violations.
func parseTransactionForm(r *http.Request, users core.Users) (transactionForm, core.Transaction, error) {
	if err := r.ParseForm(); err != nil {
		return transactionForm{}, core.Transaction{}, err
	}

	form := transactionForm{
		Date:        strings.TrimSpace(r.FormValue("date")),
		Title:       sanitizeInput(r.FormValue("title")),
		Amount:      strings.TrimSpace(r.FormValue("amount")),
		Payer:       strings.TrimSpace(r.FormValue("payer")),
		Category:    strings.TrimSpace(r.FormValue("category")),
		PaymentType: strings.TrimSpace(r.FormValue("payment_type")),
	}

	tx := core.Transaction{
		Title:       form.Title,
		Payer:       form.Payer,
		Category:    core.Category(form.Category),
		PaymentType: core.PaymentType(form.PaymentType),
	}

	var errs []error

	date, err := core.ParseDate(form.Date)
	if err != nil {
		errs = append(errs, err)
	}
	tx.Date = date

	yen, err := strconv.ParseInt(form.Amount, 10, 64)
	if err != nil {
		errs = append(errs, core.ErrInvalidAmount)
	}
	tx.Amount = core.Money{Yen: yen}

	if err := tx.Validate(users); err != nil {
		errs = append(errs, err)
	}

	if joined := errors.Join(errs...); joined != nil {
		return form, core.Transaction{}, joined
	}
	return form, tx, nil
}

func formFromTransaction(tx core.Transaction) transactionForm {
	return transactionForm{
		Date:        tx.Date.String(),
		Title:       tx.Title,
		Amount:      strconv.FormatInt(tx.Amount.Yen, 10),
		Payer:       tx.Payer,
		Category:    string(tx.Category),
		PaymentType: string(tx.PaymentType),
	}
}

// validationMessages maps field violations onto user-facing text. Each
// sentinel appears at most once even when wrapped several layers deep.
func validationMessages(err error) []string {
	if err == nil {
		return nil
	}

	var msgs []string
	for _, m := range []struct {
		sentinel error
		text     string
	}{
		{core.ErrInvalidDate, "日付を正しく入力してください。"},
		{core.ErrEmptyTitle, "品目を入力してください。"},
		{core.ErrInvalidAmount, "金額は1円以上の整数で入力してください。"},
		{core.ErrUnknownPayer, "支払った人を選択してください。"},
		{core.ErrUnknownCategory, "カテゴリを選択してください。"},
		{core.ErrUnknownPaymentType, "支払い区分を選択してください。"},
	} {
		if errors.Is(err, m.sentinel) {
			msgs = append(msgs, m.text)
		}
	}
	if len(msgs) == 0 {
		msgs = append(msgs, "入力内容を確認してください。")
	}
	return msgs
}

// sanitizeInput strips control characters and trims whitespace.
func sanitizeInput(s string) string {
	s = strings.TrimSpace(s)
	return strings.Map(func(r rune) rune {
		if r < 32 && r != '\t' {
			return -1
		}
		return r
	}, s)
}

// formatYen renders an amount with comma grouping, e.g. 12345 -> "12,345".
func formatYen(yen int64) string {
	neg := yen < 0
	if neg {
		yen = -yen
	}

	digits := strconv.FormatInt(yen, 10)
	var b strings.Builder
	if neg {
		b.WriteByte('-')
	}
	for i, d := range digits {
		if i > 0 && (len(digits)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(d)
	}
	return b.String()
}
