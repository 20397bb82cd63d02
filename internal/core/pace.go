package core

import (
	"fmt"
	"sort"
	"time"
)

// AlertSeverity tags how urgent a pace alert is.
type AlertSeverity string

const (
	AlertWarning AlertSeverity = "warning"
	AlertDanger  AlertSeverity = "danger"
)

// paceTolerance is the slack factor over linear month progress before a
// warning fires. With linear pro-ration, expected usage on day d of an n-day
// month is d/n; spend above that times the tolerance implies overshoot by
// month end.
const paceTolerance = 1.15

// PaceAlert flags a category whose current-month spend is over budget or on
// pace to go over.
type PaceAlert struct {
	Category string
	Severity AlertSeverity
	Usage    float64
	Message  string
}

// BudgetPaceAlerts compares current-month category spend against configured
// monthly budgets, pro-rated by day of month. Categories under budget at a
// sustainable pace produce no alert. Output is sorted by category id.
func BudgetPaceAlerts(txs []Transaction, cfg *ManualConfig, now time.Time) []PaceAlert {
	if cfg == nil || len(cfg.CategoryBudgets) == 0 {
		return nil
	}

	month := now.Format("2006-01")
	spendByCat := ExpensesByCategory(txs, month)

	daysInMonth := time.Date(now.Year(), now.Month()+1, 0, 0, 0, 0, 0, now.Location()).Day()
	expectedUsage := float64(now.Day()) / float64(daysInMonth)

	// Distinct budget keys can normalize to the same category; merge them so
	// each category yields at most one alert
	budgets := make(map[string]int64, len(cfg.CategoryBudgets))
	for cat, budget := range cfg.CategoryBudgets {
		if budget.Cents <= 0 {
			continue
		}
		budgets[NormalizeCategory(cat)] += budget.Cents
	}

	var alerts []PaceAlert
	for cat, budgetCents := range budgets {
		spend := spendByCat[cat]
		usage := float64(spend.Cents) / float64(budgetCents)

		switch {
		case usage > 1.0:
			alerts = append(alerts, PaceAlert{
				Category: cat,
				Severity: AlertDanger,
				Usage:    usage,
				Message: fmt.Sprintf("Orçamento de %s estourado: %.0f%% do limite mensal usado",
					cat, usage*100),
			})
		case usage > expectedUsage*paceTolerance:
			alerts = append(alerts, PaceAlert{
				Category: cat,
				Severity: AlertWarning,
				Usage:    usage,
				Message: fmt.Sprintf("Ritmo de gastos em %s acima do esperado: %.0f%% do orçamento no dia %d de %d",
					cat, usage*100, now.Day(), daysInMonth),
			})
		}
	}

	sort.Slice(alerts, func(i, j int) bool { return alerts[i].Category < alerts[j].Category })
	return alerts
}
