// Package memory provides an in-memory Store for development and tests.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"kakeibo/internal/core"
	"kakeibo/internal/storage"
)

type Store struct {
	mu     sync.Mutex
	users  core.Users
	nextID int64
	items  map[int64]core.Transaction
}

var _ storage.Store = (*Store)(nil)

func New(users core.Users) *Store {
	return &Store{
		users:  users,
		nextID: 1,
		items:  make(map[int64]core.Transaction),
	}
}

func (s *Store) Create(_ context.Context, tx core.Transaction) (core.Transaction, error) {
	if err := tx.Validate(s.users); err != nil {
		return core.Transaction{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now().UTC()
	tx.ID = s.nextID
	tx.CreatedAt = now
	tx.UpdatedAt = now
	s.nextID++
	s.items[tx.ID] = tx
	return tx, nil
}

func (s *Store) Update(_ context.Context, id int64, tx core.Transaction) (core.Transaction, error) {
	if err := tx.Validate(s.users); err != nil {
		return core.Transaction{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	old, ok := s.items[id]
	if !ok {
		return core.Transaction{}, storage.ErrTransactionNotFound
	}

	tx.ID = id
	tx.CreatedAt = old.CreatedAt
	tx.UpdatedAt = time.Now().UTC()
	s.items[id] = tx
	return tx, nil
}

func (s *Store) Delete(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.items[id]; !ok {
		return storage.ErrTransactionNotFound
	}
	delete(s.items, id)
	return nil
}

func (s *Store) Get(_ context.Context, id int64) (core.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, ok := s.items[id]
	if !ok {
		return core.Transaction{}, storage.ErrTransactionNotFound
	}
	return tx, nil
}

func (s *Store) ListAll(_ context.Context) ([]core.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshot(), nil
}

func (s *Store) ListPage(_ context.Context, page, pageSize int) (storage.Page, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	all := s.snapshot()
	p := storage.Page{Page: page, PageSize: pageSize, Total: len(all)}

	if page < 1 || pageSize < 1 {
		return p, nil
	}
	start := (page - 1) * pageSize
	if start >= len(all) {
		return p, nil
	}
	end := start + pageSize
	if end > len(all) {
		end = len(all)
	}
	p.Items = all[start:end]
	return p, nil
}

// snapshot returns all transactions ordered by (date desc, id desc).
// Callers must hold s.mu.
func (s *Store) snapshot() []core.Transaction {
	out := make([]core.Transaction, 0, len(s.items))
	for _, tx := range s.items {
		out = append(out, tx)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].Date.Equal(out[j].Date.Time) {
			return out[i].Date.After(out[j].Date.Time)
		}
		return out[i].ID > out[j].ID
	})
	return out
}
