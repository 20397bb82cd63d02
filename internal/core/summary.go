package core

import "time"

// FinancialHealthSummary is the trailing-3-month income/expense picture with
// manual-config overrides applied, producing disposable income.
type FinancialHealthSummary struct {
	AverageIncome          Money
	AverageExpenses        Money
	TotalEstimatedExpenses Money
	DisposableIncome       Money
	HasData                bool
	IsManual               bool
}

// summaryWindowMonths is the trailing window the averages are taken over.
const summaryWindowMonths = 3

// Summarize computes the financial health summary from the ledger and the
// manual configuration. Manual income overrides the computed average income
// wholesale; manual fixed+variable expenses override the computed average
// expense wholesale. The window is [now - 3 months, now], inclusive, by
// transaction date.
func Summarize(txs []Transaction, cfg *ManualConfig, now time.Time) FinancialHealthSummary {
	from := now.AddDate(0, -summaryWindowMonths, 0)

	var totalIncome, totalExpense int64
	months := make(map[string]struct{})
	for _, tx := range txs {
		if tx.Date.IsZero() {
			continue
		}
		d := tx.Date.Time
		if d.Before(from) || d.After(now) {
			continue
		}
		months[tx.Date.MonthKey()] = struct{}{}
		switch tx.Type {
		case Income:
			totalIncome += tx.Amount.Cents
		case Expense:
			totalExpense += tx.Amount.Cents
		}
	}

	// Minimum divisor of 1 keeps an empty window from dividing by zero.
	divisor := int64(len(months))
	if divisor < 1 {
		divisor = 1
	}

	s := FinancialHealthSummary{
		AverageIncome:   Money{Cents: totalIncome / divisor},
		AverageExpenses: Money{Cents: totalExpense / divisor},
		HasData:         len(months) > 0,
		IsManual:        cfg != nil,
	}

	if cfg != nil && cfg.Income.Cents > 0 {
		s.AverageIncome = cfg.Income
		s.HasData = true
	}
	if cfg != nil && cfg.FixedExpenses.Cents+cfg.VariableEstimate.Cents > 0 {
		s.AverageExpenses = Money{Cents: cfg.FixedExpenses.Cents + cfg.VariableEstimate.Cents}
	}

	s.TotalEstimatedExpenses = s.AverageExpenses
	s.DisposableIncome = Money{Cents: s.AverageIncome.Cents - s.TotalEstimatedExpenses.Cents}
	return s
}
