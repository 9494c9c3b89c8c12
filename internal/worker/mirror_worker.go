// Package worker exports ledger rows to the backup spreadsheet.
package worker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"kakeibo/internal/amqp"
	"kakeibo/internal/core"
	"kakeibo/internal/sheets"
	"kakeibo/internal/storage"
)

// MirrorWorker copies ledger rows from SQLite into the backup sheet. It
// is driven by AMQP messages, with a periodic pending scan as backstop
// for messages lost while the worker was down.
type MirrorWorker struct {
	storage   *storage.SQLiteRepository
	writer    sheets.RowWriter
	batchSize int
}

func NewMirrorWorker(storage *storage.SQLiteRepository, writer sheets.RowWriter, batchSize int) *MirrorWorker {
	return &MirrorWorker{
		storage:   storage,
		writer:    writer,
		batchSize: batchSize,
	}
}

// HandleMessage processes a single mirror message from AMQP.
func (w *MirrorWorker) HandleMessage(ctx context.Context, msg *amqp.MirrorMessage) error {
	switch msg.Kind {
	case amqp.KindSync:
		return w.handleSync(ctx, msg.ID)
	case amqp.KindDelete:
		// The sheet is an append-only log, so a deleted row simply stops
		// being re-exported. Record the fact for the audit trail.
		slog.InfoContext(ctx, "Ledger row deleted, mirror row kept",
			"id", msg.ID, "timestamp", msg.Timestamp)
		return nil
	default:
		slog.WarnContext(ctx, "Unknown mirror message kind, dropping",
			"kind", msg.Kind, "id", msg.ID)
		return nil
	}
}

func (w *MirrorWorker) handleSync(ctx context.Context, id int64) error {
	tx, err := w.storage.Get(ctx, id)
	if errors.Is(err, storage.ErrTransactionNotFound) {
		// Deleted between publish and consume; nothing to export.
		slog.WarnContext(ctx, "Row gone before mirror, dropping message", "id", id)
		return nil
	}
	if err != nil {
		return fmt.Errorf("get transaction: %w", err)
	}

	return w.export(ctx, tx)
}

// ProcessPending exports rows the message flow missed.
func (w *MirrorWorker) ProcessPending(ctx context.Context) error {
	pending, err := w.storage.ListMirrorPending(ctx, w.batchSize)
	if err != nil {
		return fmt.Errorf("list pending rows: %w", err)
	}
	if len(pending) == 0 {
		return nil
	}

	slog.InfoContext(ctx, "Processing pending mirror rows", "count", len(pending))

	for _, tx := range pending {
		if err := w.export(ctx, tx); err != nil {
			slog.ErrorContext(ctx, "Failed to mirror row", "id", tx.ID, "error", err)
		}
	}
	return nil
}

// StartupCheck drains a larger pending backlog once at worker start,
// recovering from downtime or lost messages.
func (w *MirrorWorker) StartupCheck(ctx context.Context) error {
	pending, err := w.storage.ListMirrorPending(ctx, w.batchSize*5)
	if err != nil {
		return fmt.Errorf("list pending rows for startup check: %w", err)
	}
	if len(pending) == 0 {
		slog.InfoContext(ctx, "No pending mirror rows on startup")
		return nil
	}

	slog.InfoContext(ctx, "Found pending mirror rows on startup", "count", len(pending))

	exported := 0
	failed := 0
	for _, tx := range pending {
		if err := w.export(ctx, tx); err != nil {
			slog.ErrorContext(ctx, "Failed to mirror row during startup", "id", tx.ID, "error", err)
			failed++
			continue
		}
		exported++
	}

	slog.InfoContext(ctx, "Startup mirror check completed",
		"total", len(pending),
		"exported", exported,
		"failed", failed)

	return nil
}

func (w *MirrorWorker) export(ctx context.Context, tx core.Transaction) error {
	ref, err := w.writer.AppendRow(ctx, tx)
	if err != nil {
		if markErr := w.storage.MarkMirrorError(ctx, tx.ID); markErr != nil {
			slog.ErrorContext(ctx, "Failed to mark mirror error", "id", tx.ID, "error", markErr)
		}
		return fmt.Errorf("append to sheet: %w", err)
	}

	if err := w.storage.MarkMirrored(ctx, tx.ID); err != nil {
		// The export itself worked, so don't bounce the message.
		slog.ErrorContext(ctx, "Failed to mark row as mirrored", "id", tx.ID, "error", err)
	}

	slog.InfoContext(ctx, "Mirrored ledger row",
		"id", tx.ID,
		"sheet_ref", ref,
		"title", tx.Title,
		"amount_yen", tx.Amount.Yen)

	return nil
}
