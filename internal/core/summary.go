package core

import (
	"fmt"
	"sort"
	"time"
)

// CategoryTotal is the spending total for one category display label.
type CategoryTotal struct {
	Label string
	Total int64
}

// MonthSummary is the spending overview for one calendar month.
type MonthSummary struct {
	Total int64
	Count int
	Label string
}

// CategoryTotals sums transaction amounts grouped by the resolved category
// label, sorted by total descending. Equal totals keep the order in which
// their categories were first encountered, so the result is deterministic
// for a given snapshot.
func CategoryTotals(txs []Transaction) []CategoryTotal {
	totals := make(map[string]int64)
	var order []string
	for _, t := range txs {
		label := t.Category.Label()
		if _, seen := totals[label]; !seen {
			order = append(order, label)
		}
		totals[label] += t.Amount.Yen
	}

	out := make([]CategoryTotal, 0, len(order))
	for _, label := range order {
		out = append(out, CategoryTotal{Label: label, Total: totals[label]})
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Total > out[j].Total
	})
	return out
}

// SummarizeMonth totals transactions dated on or after the first day of
// ref's month. There is deliberately no upper bound: a future-dated row
// counts as soon as it exists.
func SummarizeMonth(txs []Transaction, ref Date) MonthSummary {
	first := NewDate(ref.Year(), int(ref.Month()), 1)
	s := MonthSummary{
		Label: fmt.Sprintf("%d年%02d月", ref.Year(), int(ref.Month())),
	}
	for _, t := range txs {
		if t.Date.Before(first.Time) {
			continue
		}
		s.Total += t.Amount.Yen
		s.Count++
	}
	return s
}

// Today returns the current date in the given location, truncated to a
// calendar date.
func Today(loc *time.Location) Date {
	now := time.Now().In(loc)
	return NewDate(now.Year(), int(now.Month()), now.Day())
}
