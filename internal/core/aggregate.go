package core

import "sort"

// MonthTotals holds the income and expense sums for one calendar month.
type MonthTotals struct {
	Income  Money
	Expense Money
}

// TotalsForMonth sums income and expense for transactions whose resolved
// month equals the target key. Transactions without a resolvable month are
// skipped, never rejected.
func TotalsForMonth(txs []Transaction, month string) MonthTotals {
	var t MonthTotals
	for _, tx := range txs {
		if tx.ResolvedMonth() != month {
			continue
		}
		switch tx.Type {
		case Income:
			t.Income.Cents += tx.Amount.Cents
		case Expense:
			t.Expense.Cents += tx.Amount.Cents
		}
	}
	return t
}

// TotalsByMonth groups the whole ledger by month key.
func TotalsByMonth(txs []Transaction) map[string]MonthTotals {
	out := make(map[string]MonthTotals)
	for _, tx := range txs {
		m := tx.ResolvedMonth()
		if m == "" {
			continue
		}
		t := out[m]
		switch tx.Type {
		case Income:
			t.Income.Cents += tx.Amount.Cents
		case Expense:
			t.Expense.Cents += tx.Amount.Cents
		}
		out[m] = t
	}
	return out
}

// ExpensesByCategory sums expense transactions per normalized category for
// one month. Income transactions never appear in the result.
func ExpensesByCategory(txs []Transaction, month string) map[string]Money {
	out := make(map[string]Money)
	for _, tx := range txs {
		if tx.Type != Expense || tx.ResolvedMonth() != month {
			continue
		}
		cat := NormalizeCategory(tx.Category)
		m := out[cat]
		m.Cents += tx.Amount.Cents
		out[cat] = m
	}
	return out
}

// SignedBalance is the all-time signed sum of the ledger (income positive,
// expense negative). It approximates the liquid cash position and feeds the
// reserve sub-score. Manual invested capital is deliberately excluded.
func SignedBalance(txs []Transaction) Money {
	var b Money
	for _, tx := range txs {
		switch tx.Type {
		case Income:
			b.Cents += tx.Amount.Cents
		case Expense:
			b.Cents -= tx.Amount.Cents
		}
	}
	return b
}

// CategoryAmount represents an amount aggregated by category.
type CategoryAmount struct {
	Category string
	Amount   Money
}

// MonthOverview is a compact report summary for a specific month.
type MonthOverview struct {
	Month      string
	Income     Money
	Expense    Money
	ByCategory []CategoryAmount
}

// BuildMonthOverview assembles the per-month report figure set: totals plus
// the category breakdown sorted by amount (largest first, category id as
// tie-breaker so output is stable).
func BuildMonthOverview(txs []Transaction, month string) MonthOverview {
	totals := TotalsForMonth(txs, month)
	byCat := ExpensesByCategory(txs, month)

	cats := make([]CategoryAmount, 0, len(byCat))
	for cat, amount := range byCat {
		cats = append(cats, CategoryAmount{Category: cat, Amount: amount})
	}
	sort.Slice(cats, func(i, j int) bool {
		if cats[i].Amount.Cents != cats[j].Amount.Cents {
			return cats[i].Amount.Cents > cats[j].Amount.Cents
		}
		return cats[i].Category < cats[j].Category
	})

	return MonthOverview{
		Month:      month,
		Income:     totals.Income,
		Expense:    totals.Expense,
		ByCategory: cats,
	}
}
