package core

import (
	"errors"
	"strings"
	"time"
)

const (
	PaySelf    PaymentType = "self"    // excluded from settlement
	PayPartner PaymentType = "partner" // payer covered the whole cost for the other user
	PaySplit   PaymentType = "split"   // shared equally between the two users
)

type (
	PaymentType string

	Category string

	// Date is a calendar date without a time component.
	Date struct {
		time.Time
	}

	// Money is an amount in whole yen.
	Money struct {
		Yen int64
	}

	// Users holds the two fixed participants of the ledger.
	Users struct {
		A string
		B string
	}

	// Transaction is a single recorded expense.
	Transaction struct {
		ID          int64
		Date        Date
		Title       string
		Amount      Money
		Payer       string
		Category    Category
		PaymentType PaymentType
		CreatedAt   time.Time
		UpdatedAt   time.Time
	}
)

const DateLayout = "2006-01-02"

var (
	ErrInvalidDate        = errors.New("invalid date")
	ErrEmptyTitle         = errors.New("empty title")
	ErrInvalidAmount      = errors.New("invalid amount")
	ErrUnknownPayer       = errors.New("unknown payer")
	ErrUnknownCategory    = errors.New("unknown category")
	ErrUnknownPaymentType = errors.New("unknown payment type")
)

// categoryLabels maps category keys to their display labels.
var categoryLabels = map[Category]string{
	"food":          "🍽️ 食費",
	"utility":       "💡 光熱費",
	"housing":       "🏠 住居費",
	"transport":     "🚃 交通費",
	"travel":        "✈️ 旅行",
	"entertainment": "🎉 娯楽",
	"health":        "💊 医療・健康",
	"shopping":      "🛍️ 日用品",
	"other":         "📌 その他",
}

// categoryOrder fixes the presentation order of the category set.
var categoryOrder = []Category{
	"food", "utility", "housing", "transport", "travel",
	"entertainment", "health", "shopping", "other",
}

var paymentTypeLabels = map[PaymentType]string{
	PaySelf:    "自分用",
	PayPartner: "相手用",
	PaySplit:   "割り勘",
}

// Categories returns the closed category set in presentation order.
func Categories() []Category {
	out := make([]Category, len(categoryOrder))
	copy(out, categoryOrder)
	return out
}

// PaymentTypes returns the three payment kinds in presentation order.
func PaymentTypes() []PaymentType {
	return []PaymentType{PaySelf, PayPartner, PaySplit}
}

// Label returns the display label for the category. Unknown keys display
// as their raw value so stale rows still render.
func (c Category) Label() string {
	if l, ok := categoryLabels[c]; ok {
		return l
	}
	return string(c)
}

func (c Category) Valid() bool {
	_, ok := categoryLabels[c]
	return ok
}

// Label returns the display label for the payment type, falling back to
// the raw value for unknown kinds.
func (p PaymentType) Label() string {
	if l, ok := paymentTypeLabels[p]; ok {
		return l
	}
	return string(p)
}

func (p PaymentType) Valid() bool {
	_, ok := paymentTypeLabels[p]
	return ok
}

// NewDate creates a Date from year, month, day.
func NewDate(year, month, day int) Date {
	return Date{Time: time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)}
}

// ParseDate parses a YYYY-MM-DD string.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(DateLayout, strings.TrimSpace(s))
	if err != nil {
		return Date{}, ErrInvalidDate
	}
	return Date{Time: t}, nil
}

func (d Date) Validate() error {
	if d.IsZero() {
		return ErrInvalidDate
	}
	return nil
}

// String formats the date as YYYY-MM-DD.
func (d Date) String() string {
	return d.Format(DateLayout)
}

func (m Money) Validate() error {
	if m.Yen <= 0 {
		return ErrInvalidAmount
	}
	return nil
}

// Contains reports whether name is one of the two users.
func (u Users) Contains(name string) bool {
	return name == u.A || name == u.B
}

// Other returns the partner of the given user, or "" for an unknown name.
func (u Users) Other(name string) string {
	switch name {
	case u.A:
		return u.B
	case u.B:
		return u.A
	}
	return ""
}

// Validate checks every invariant of the transaction against the
// configured user pair. All violations are reported in one joined error.
func (t Transaction) Validate(users Users) error {
	var errs []error
	if err := t.Date.Validate(); err != nil {
		errs = append(errs, err)
	}
	if strings.TrimSpace(t.Title) == "" {
		errs = append(errs, ErrEmptyTitle)
	}
	if err := t.Amount.Validate(); err != nil {
		errs = append(errs, err)
	}
	if !users.Contains(t.Payer) {
		errs = append(errs, ErrUnknownPayer)
	}
	if !t.Category.Valid() {
		errs = append(errs, ErrUnknownCategory)
	}
	if !t.PaymentType.Valid() {
		errs = append(errs, ErrUnknownPaymentType)
	}
	return errors.Join(errs...)
}
