package sheets

import (
	"context"

	"kakeibo/internal/core"
)

// RowWriter appends one ledger row to the backup spreadsheet and returns
// a reference to the written range.
type RowWriter interface {
	AppendRow(ctx context.Context, tx core.Transaction) (rowRef string, err error)
}
