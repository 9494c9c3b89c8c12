package core

// Balance is the outcome of settling all recorded transactions between
// the two users.
//
// Value > 0 means B owes A Value yen, Value < 0 means A owes B |Value|
// yen, and Value == 0 means the couple is settled.
type Balance struct {
	Value int64
	Abs   int64

	UserA string
	UserB string

	// APaidForB is the sum A paid entirely on B's behalf (partner).
	APaidForB int64
	// ASplitHalf is half of everything A paid as a split expense.
	ASplitHalf int64
	BPaidForA  int64
	BSplitHalf int64

	// ATotal and BTotal are each user's credited amount (partner + split half).
	ATotal int64
	BTotal int64
}

// Settled reports whether nothing is owed either way.
func (b Balance) Settled() bool {
	return b.Value == 0
}

// Creditor returns the user who is owed money, or "" when settled.
func (b Balance) Creditor() string {
	switch {
	case b.Value > 0:
		return b.UserA
	case b.Value < 0:
		return b.UserB
	}
	return ""
}

// Debtor returns the user who owes money, or "" when settled.
func (b Balance) Debtor() string {
	switch {
	case b.Value > 0:
		return b.UserB
	case b.Value < 0:
		return b.UserA
	}
	return ""
}

// ComputeBalance settles the full transaction snapshot between the two
// users.
//
// Each user is credited with what they paid on the partner's behalf plus
// half of what they paid as split expenses. Split sums are divided by two
// only after summing, with the odd yen truncated. Transactions of type
// self never contribute.
func ComputeBalance(txs []Transaction, users Users) Balance {
	var aPartner, aSplit, bPartner, bSplit int64
	for _, t := range txs {
		switch t.PaymentType {
		case PayPartner:
			switch t.Payer {
			case users.A:
				aPartner += t.Amount.Yen
			case users.B:
				bPartner += t.Amount.Yen
			}
		case PaySplit:
			switch t.Payer {
			case users.A:
				aSplit += t.Amount.Yen
			case users.B:
				bSplit += t.Amount.Yen
			}
		}
	}

	aHalf := aSplit / 2
	bHalf := bSplit / 2
	value := (aPartner + aHalf) - (bPartner + bHalf)

	abs := value
	if abs < 0 {
		abs = -abs
	}

	return Balance{
		Value:      value,
		Abs:        abs,
		UserA:      users.A,
		UserB:      users.B,
		APaidForB:  aPartner,
		ASplitHalf: aHalf,
		BPaidForA:  bPartner,
		BSplitHalf: bHalf,
		ATotal:     aPartner + aHalf,
		BTotal:     bPartner + bHalf,
	}
}
