package core

import "time"

// DefaultProjectionHorizon is the number of future months projected when the
// caller does not ask for a specific horizon.
const DefaultProjectionHorizon = 6

// MaxProjectionHorizon bounds a caller-supplied horizon.
const MaxProjectionHorizon = 24

// ProjectionPoint is one projected month of committed spend against the flat
// income assumption. Balance = Income - Committed, always.
type ProjectionPoint struct {
	Month     string
	Income    Money
	Committed Money
	Balance   Money
}

// Project forward-simulates committed spend for horizon months starting at
// the current month. Committed spend per month is the manual fixed-expense
// figure plus expense rows already materialized for that month (installments
// and pre-generated fixed expenses). The projection never parses
// descriptions and never mutates the ledger; it trusts the ingestion layer
// to have written future installment rows with correct month keys.
func Project(txs []Transaction, cfg *ManualConfig, now time.Time, horizon int) []ProjectionPoint {
	if horizon <= 0 {
		horizon = DefaultProjectionHorizon
	}
	if horizon > MaxProjectionHorizon {
		horizon = MaxProjectionHorizon
	}

	var income, fixed Money
	if cfg != nil {
		income = cfg.Income
		fixed = cfg.FixedExpenses
	}

	points := make([]ProjectionPoint, 0, horizon)
	for i := 0; i < horizon; i++ {
		month := time.Date(now.Year(), now.Month()+time.Month(i), 1, 0, 0, 0, 0, now.Location()).
			Format("2006-01")

		committed := fixed
		for _, tx := range txs {
			if tx.Type == Expense && tx.ResolvedMonth() == month {
				committed.Cents += tx.Amount.Cents
			}
		}

		points = append(points, ProjectionPoint{
			Month:     month,
			Income:    income,
			Committed: committed,
			Balance:   Money{Cents: income.Cents - committed.Cents},
		})
	}
	return points
}
