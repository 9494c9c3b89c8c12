package services

import (
	"context"
	"fmt"
	"log/slog"

	"kakeibo/internal/amqp"
	"kakeibo/internal/core"
	"kakeibo/internal/storage"
)

// LedgerService orchestrates transaction CRUD across the store and the
// mirror queue, and runs the settlement and aggregation engines over a
// fresh snapshot per call.
type LedgerService struct {
	store      storage.Store
	amqpClient *amqp.Client
	users      core.Users
}

func NewLedgerService(store storage.Store, amqpClient *amqp.Client, users core.Users) *LedgerService {
	return &LedgerService{
		store:      store,
		amqpClient: amqpClient,
		users:      users,
	}
}

// Users returns the configured participant pair.
func (s *LedgerService) Users() core.Users {
	return s.users
}

// CreateTransaction persists the record and queues it for the spreadsheet
// mirror. A publish failure never fails the request; the worker's pending
// scan picks the row up later.
func (s *LedgerService) CreateTransaction(ctx context.Context, tx core.Transaction) (core.Transaction, error) {
	created, err := s.store.Create(ctx, tx)
	if err != nil {
		return core.Transaction{}, fmt.Errorf("create transaction: %w", err)
	}

	s.publishSync(ctx, created.ID)
	return created, nil
}

func (s *LedgerService) UpdateTransaction(ctx context.Context, id int64, tx core.Transaction) (core.Transaction, error) {
	updated, err := s.store.Update(ctx, id, tx)
	if err != nil {
		return core.Transaction{}, fmt.Errorf("update transaction: %w", err)
	}

	s.publishSync(ctx, id)
	return updated, nil
}

func (s *LedgerService) DeleteTransaction(ctx context.Context, id int64) error {
	if err := s.store.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete transaction: %w", err)
	}

	if s.amqpClient != nil {
		if err := s.amqpClient.PublishDelete(ctx, id); err != nil {
			slog.ErrorContext(ctx, "Failed to publish delete message", "id", id, "error", err)
		}
	}
	return nil
}

func (s *LedgerService) GetTransaction(ctx context.Context, id int64) (core.Transaction, error) {
	return s.store.Get(ctx, id)
}

// Recent returns the n most recent transactions for the dashboard.
func (s *LedgerService) Recent(ctx context.Context, n int) ([]core.Transaction, error) {
	p, err := s.store.ListPage(ctx, 1, n)
	if err != nil {
		return nil, fmt.Errorf("list recent transactions: %w", err)
	}
	return p.Items, nil
}

// History returns one page of the full ledger, newest first.
func (s *LedgerService) History(ctx context.Context, page, pageSize int) (storage.Page, error) {
	return s.store.ListPage(ctx, page, pageSize)
}

// Balance settles the whole ledger between the two users.
func (s *LedgerService) Balance(ctx context.Context) (core.Balance, error) {
	txs, err := s.store.ListAll(ctx)
	if err != nil {
		return core.Balance{}, fmt.Errorf("load snapshot: %w", err)
	}
	return core.ComputeBalance(txs, s.users), nil
}

// CategoryTotals aggregates all spending by category display label.
func (s *LedgerService) CategoryTotals(ctx context.Context) ([]core.CategoryTotal, error) {
	txs, err := s.store.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("load snapshot: %w", err)
	}
	return core.CategoryTotals(txs), nil
}

// MonthSummary totals spending for the month containing ref.
func (s *LedgerService) MonthSummary(ctx context.Context, ref core.Date) (core.MonthSummary, error) {
	txs, err := s.store.ListAll(ctx)
	if err != nil {
		return core.MonthSummary{}, fmt.Errorf("load snapshot: %w", err)
	}
	return core.SummarizeMonth(txs, ref), nil
}

func (s *LedgerService) publishSync(ctx context.Context, id int64) {
	if s.amqpClient == nil {
		return
	}
	if err := s.amqpClient.PublishSync(ctx, id); err != nil {
		slog.ErrorContext(ctx, "Failed to publish sync message", "id", id, "error", err)
	}
}
