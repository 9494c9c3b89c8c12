package memory

import (
	"context"
	"errors"
	"testing"

	"kakeibo/internal/core"
	"kakeibo/internal/storage"
)

var testUsers = core.Users{A: "太郎", B: "花子"}

func sampleTx(day int) core.Transaction {
	return core.Transaction{
		Date:        core.NewDate(2026, 8, day),
		Title:       "ランチ",
		Amount:      core.Money{Yen: 900},
		Payer:       testUsers.B,
		Category:    "food",
		PaymentType: core.PaySplit,
	}
}

func TestCRUDContract(t *testing.T) {
	s := New(testUsers)
	ctx := context.Background()

	created, err := s.Create(ctx, sampleTx(10))
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if created.ID != 1 {
		t.Fatalf("first id = %d", created.ID)
	}

	got, err := s.Get(ctx, created.ID)
	if err != nil || got.Title != "ランチ" {
		t.Fatalf("Get = %+v, %v", got, err)
	}

	edited := sampleTx(11)
	edited.Title = "ディナー"
	updated, err := s.Update(ctx, created.ID, edited)
	if err != nil || updated.Title != "ディナー" {
		t.Fatalf("Update = %+v, %v", updated, err)
	}
	if updated.CreatedAt != created.CreatedAt {
		t.Fatalf("CreatedAt changed on update")
	}

	if err := s.Delete(ctx, created.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := s.Get(ctx, created.ID); !errors.Is(err, storage.ErrTransactionNotFound) {
		t.Fatalf("Get after delete = %v", err)
	}
}

func TestValidationAndNotFound(t *testing.T) {
	s := New(testUsers)
	ctx := context.Background()

	bad := sampleTx(1)
	bad.Amount.Yen = 0
	if _, err := s.Create(ctx, bad); !errors.Is(err, core.ErrInvalidAmount) {
		t.Fatalf("Create invalid = %v", err)
	}

	if _, err := s.Update(ctx, 42, sampleTx(1)); !errors.Is(err, storage.ErrTransactionNotFound) {
		t.Fatalf("Update missing = %v", err)
	}
	if err := s.Delete(ctx, 42); !errors.Is(err, storage.ErrTransactionNotFound) {
		t.Fatalf("Delete missing = %v", err)
	}
	all, _ := s.ListAll(ctx)
	if len(all) != 0 {
		t.Fatalf("failed operations persisted state: %+v", all)
	}
}

func TestOrderingAndPaging(t *testing.T) {
	s := New(testUsers)
	ctx := context.Background()

	for _, day := range []int{3, 28, 3, 15} {
		if _, err := s.Create(ctx, sampleTx(day)); err != nil {
			t.Fatalf("Create: %v", err)
		}
	}

	all, err := s.ListAll(ctx)
	if err != nil {
		t.Fatalf("ListAll: %v", err)
	}
	days := []int{28, 15, 3, 3}
	for i, want := range days {
		if all[i].Date.Day() != want {
			t.Fatalf("order[%d] = day %d, want %d", i, all[i].Date.Day(), want)
		}
	}
	if all[2].ID < all[3].ID {
		t.Fatalf("same-date rows must order by id desc")
	}

	p, err := s.ListPage(ctx, 2, 3)
	if err != nil {
		t.Fatalf("ListPage: %v", err)
	}
	if p.Total != 4 || len(p.Items) != 1 {
		t.Fatalf("page 2: total=%d len=%d", p.Total, len(p.Items))
	}

	p, err = s.ListPage(ctx, 0, 3)
	if err != nil || len(p.Items) != 0 {
		t.Fatalf("page 0 must be empty: %+v, %v", p, err)
	}
}
