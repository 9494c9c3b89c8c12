package core

import "testing"

func tx(payer string, yen int64, pt PaymentType) Transaction {
	return Transaction{
		Date:        NewDate(2026, 8, 1),
		Title:       "t",
		Amount:      Money{Yen: yen},
		Payer:       payer,
		Category:    "other",
		PaymentType: pt,
	}
}

func TestComputeBalanceEmpty(t *testing.T) {
	b := ComputeBalance(nil, testUsers)
	if b.Value != 0 || b.Abs != 0 {
		t.Fatalf("empty set: value=%d abs=%d, want 0", b.Value, b.Abs)
	}
	if b.APaidForB != 0 || b.ASplitHalf != 0 || b.BPaidForA != 0 || b.BSplitHalf != 0 || b.ATotal != 0 || b.BTotal != 0 {
		t.Fatalf("empty set: subtotals must all be zero: %+v", b)
	}
	if !b.Settled() || b.Creditor() != "" || b.Debtor() != "" {
		t.Fatalf("empty set must be settled: %+v", b)
	}
}

func TestComputeBalancePartnerAndSplitCancelOut(t *testing.T) {
	txs := []Transaction{
		tx(testUsers.A, 1000, PayPartner),
		tx(testUsers.B, 2000, PaySplit),
	}
	b := ComputeBalance(txs, testUsers)
	if b.APaidForB != 1000 || b.ASplitHalf != 0 || b.BPaidForA != 0 || b.BSplitHalf != 1000 {
		t.Fatalf("subtotals wrong: %+v", b)
	}
	if b.Value != 0 {
		t.Fatalf("value = %d, want 0", b.Value)
	}
}

func TestComputeBalanceSplitHalf(t *testing.T) {
	b := ComputeBalance([]Transaction{tx(testUsers.A, 3000, PaySplit)}, testUsers)
	if b.ASplitHalf != 1500 {
		t.Fatalf("ASplitHalf = %d, want 1500", b.ASplitHalf)
	}
	if b.Value != 1500 || b.Abs != 1500 {
		t.Fatalf("value = %d abs = %d, want 1500", b.Value, b.Abs)
	}
	if b.Creditor() != testUsers.A || b.Debtor() != testUsers.B {
		t.Fatalf("B should owe A: %+v", b)
	}
}

// Split sums are divided after summing, so two odd amounts lose nothing
// while a single odd amount truncates one yen.
func TestComputeBalanceSumsBeforeDividing(t *testing.T) {
	txs := []Transaction{
		tx(testUsers.A, 101, PaySplit),
		tx(testUsers.A, 101, PaySplit),
	}
	b := ComputeBalance(txs, testUsers)
	if b.ASplitHalf != 101 {
		t.Fatalf("ASplitHalf = %d, want 101 (202/2, not 50+50)", b.ASplitHalf)
	}

	b = ComputeBalance([]Transaction{tx(testUsers.B, 101, PaySplit)}, testUsers)
	if b.BSplitHalf != 50 {
		t.Fatalf("BSplitHalf = %d, want 50 (truncated)", b.BSplitHalf)
	}
	if b.Value != -50 || b.Abs != 50 {
		t.Fatalf("value = %d, want -50", b.Value)
	}
}

func TestComputeBalanceSelfNeverContributes(t *testing.T) {
	base := []Transaction{
		tx(testUsers.A, 1200, PayPartner),
		tx(testUsers.B, 800, PaySplit),
	}
	want := ComputeBalance(base, testUsers)

	withSelf := append(append([]Transaction(nil), base...),
		tx(testUsers.A, 99999, PaySelf),
		tx(testUsers.B, 1, PaySelf),
		tx(testUsers.B, 123456, PaySelf),
	)
	got := ComputeBalance(withSelf, testUsers)
	if got != want {
		t.Fatalf("self transactions changed the result:\n got %+v\nwant %+v", got, want)
	}
}

func TestComputeBalanceSignSymmetry(t *testing.T) {
	txs := []Transaction{
		tx(testUsers.A, 1000, PayPartner),
		tx(testUsers.A, 333, PaySplit),
		tx(testUsers.B, 4500, PayPartner),
		tx(testUsers.B, 777, PaySplit),
		tx(testUsers.A, 50, PaySelf),
	}
	fwd := ComputeBalance(txs, testUsers)
	rev := ComputeBalance(txs, Users{A: testUsers.B, B: testUsers.A})

	if rev.Value != -fwd.Value {
		t.Fatalf("swapped users: value = %d, want %d", rev.Value, -fwd.Value)
	}
	if rev.APaidForB != fwd.BPaidForA || rev.BPaidForA != fwd.APaidForB {
		t.Fatalf("partner subtotals not swapped: fwd=%+v rev=%+v", fwd, rev)
	}
	if rev.ASplitHalf != fwd.BSplitHalf || rev.BSplitHalf != fwd.ASplitHalf {
		t.Fatalf("split subtotals not swapped: fwd=%+v rev=%+v", fwd, rev)
	}
	if rev.ATotal != fwd.BTotal || rev.BTotal != fwd.ATotal {
		t.Fatalf("totals not swapped: fwd=%+v rev=%+v", fwd, rev)
	}
}
