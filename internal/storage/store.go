package storage

import (
	"context"
	"errors"

	"kakeibo/internal/core"
)

var ErrTransactionNotFound = errors.New("transaction not found")

// Page is one window of the ledger history, newest first.
type Page struct {
	Items    []core.Transaction
	Page     int
	PageSize int
	Total    int
}

// TotalPages returns how many pages the full history spans.
func (p Page) TotalPages() int {
	if p.PageSize <= 0 {
		return 0
	}
	return (p.Total + p.PageSize - 1) / p.PageSize
}

func (p Page) HasPrev() bool { return p.Page > 1 }

func (p Page) HasNext() bool { return p.Page < p.TotalPages() }

// Store persists the ledger's transactions. Create and Update validate the
// record against the configured user pair before touching state; both fail
// without persisting anything when a field is invalid.
type Store interface {
	Create(ctx context.Context, tx core.Transaction) (core.Transaction, error)
	Update(ctx context.Context, id int64, tx core.Transaction) (core.Transaction, error)
	Delete(ctx context.Context, id int64) error
	Get(ctx context.Context, id int64) (core.Transaction, error)

	// ListAll returns the full ledger ordered by (date desc, id desc).
	// Settlement and aggregation always run over this snapshot.
	ListAll(ctx context.Context) ([]core.Transaction, error)

	// ListPage returns one window of the ListAll ordering plus the total
	// count. An out-of-range page yields an empty page, not an error.
	ListPage(ctx context.Context, page, pageSize int) (Page, error)
}
