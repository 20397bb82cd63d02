package http

import (
	"fmt"
	"strconv"

	"grana/internal/core"
)

// moneyDTO carries both the exact cents and a display string so clients do
// not re-implement currency formatting.
type moneyDTO struct {
	Cents   int64  `json:"cents"`
	Display string `json:"display"`
}

func toMoneyDTO(m core.Money) moneyDTO {
	return moneyDTO{Cents: m.Cents, Display: formatReais(m.Cents)}
}

// formatReais formats cents as a Brazilian currency string (e.g. "R$ 12,34").
func formatReais(cents int64) string {
	neg := cents < 0
	if neg {
		cents = -cents
	}
	reais := cents / 100
	rem := cents % 100
	s := strconv.FormatInt(reais, 10) + "," + fmt.Sprintf("%02d", rem)
	if neg {
		return "-R$ " + s
	}
	return "R$ " + s
}

type scoreFiguresDTO struct {
	MonthIncome    moneyDTO `json:"month_income"`
	MonthExpense   moneyDTO `json:"month_expense"`
	NecessityShare float64  `json:"necessity_share"`
	DesireShare    float64  `json:"desire_share"`
	Balance        moneyDTO `json:"balance"`
	FixedBaseline  moneyDTO `json:"fixed_baseline"`
	MonthsCovered  float64  `json:"months_covered"`
}

type scoreBreakdownDTO struct {
	Performance float64         `json:"performance"`
	Allocation  float64         `json:"allocation"`
	Reserve     float64         `json:"reserve"`
	Figures     scoreFiguresDTO `json:"figures"`
}

type scoreResponse struct {
	Score      int               `json:"score"`
	Feedback   string            `json:"feedback"`
	Color      string            `json:"color"`
	Background string            `json:"background"`
	Breakdown  scoreBreakdownDTO `json:"breakdown"`
}

func toScoreResponse(result core.HealthScoreResult) scoreResponse {
	return scoreResponse{
		Score:      result.Score,
		Feedback:   result.Feedback,
		Color:      string(result.Color),
		Background: string(result.Background),
		Breakdown: scoreBreakdownDTO{
			Performance: result.Breakdown.Performance,
			Allocation:  result.Breakdown.Allocation,
			Reserve:     result.Breakdown.Reserve,
			Figures: scoreFiguresDTO{
				MonthIncome:    toMoneyDTO(result.Breakdown.Data.MonthIncome),
				MonthExpense:   toMoneyDTO(result.Breakdown.Data.MonthExpense),
				NecessityShare: result.Breakdown.Data.NecessityShare,
				DesireShare:    result.Breakdown.Data.DesireShare,
				Balance:        toMoneyDTO(result.Breakdown.Data.Balance),
				FixedBaseline:  toMoneyDTO(result.Breakdown.Data.FixedBaseline),
				MonthsCovered:  result.Breakdown.Data.MonthsCovered,
			},
		},
	}
}

type summaryResponse struct {
	AverageIncome          moneyDTO `json:"average_income"`
	AverageExpenses        moneyDTO `json:"average_expenses"`
	TotalEstimatedExpenses moneyDTO `json:"total_estimated_expenses"`
	DisposableIncome       moneyDTO `json:"disposable_income"`
	HasData                bool     `json:"has_data"`
	IsManual               bool     `json:"is_manual"`
}

func toSummaryResponse(s core.FinancialHealthSummary) summaryResponse {
	return summaryResponse{
		AverageIncome:          toMoneyDTO(s.AverageIncome),
		AverageExpenses:        toMoneyDTO(s.AverageExpenses),
		TotalEstimatedExpenses: toMoneyDTO(s.TotalEstimatedExpenses),
		DisposableIncome:       toMoneyDTO(s.DisposableIncome),
		HasData:                s.HasData,
		IsManual:               s.IsManual,
	}
}

type alertDTO struct {
	Category string  `json:"category"`
	Severity string  `json:"severity"`
	Usage    float64 `json:"usage"`
	Message  string  `json:"message"`
}

type alertsResponse struct {
	Alerts []alertDTO `json:"alerts"`
}

func toAlertsResponse(alerts []core.PaceAlert) alertsResponse {
	out := alertsResponse{Alerts: make([]alertDTO, 0, len(alerts))}
	for _, a := range alerts {
		out.Alerts = append(out.Alerts, alertDTO{
			Category: a.Category,
			Severity: string(a.Severity),
			Usage:    a.Usage,
			Message:  a.Message,
		})
	}
	return out
}

type projectionPointDTO struct {
	Month     string   `json:"month"`
	Income    moneyDTO `json:"income"`
	Committed moneyDTO `json:"committed"`
	Balance   moneyDTO `json:"balance"`
}

type projectionResponse struct {
	Points []projectionPointDTO `json:"points"`
}

func toProjectionResponse(points []core.ProjectionPoint) projectionResponse {
	out := projectionResponse{Points: make([]projectionPointDTO, 0, len(points))}
	for _, p := range points {
		out.Points = append(out.Points, projectionPointDTO{
			Month:     p.Month,
			Income:    toMoneyDTO(p.Income),
			Committed: toMoneyDTO(p.Committed),
			Balance:   toMoneyDTO(p.Balance),
		})
	}
	return out
}

type netWorthResponse struct {
	Total moneyDTO `json:"total"`
}

type categoryAmountDTO struct {
	Category string   `json:"category"`
	Amount   moneyDTO `json:"amount"`
}

type overviewResponse struct {
	Month      string              `json:"month"`
	Income     moneyDTO            `json:"income"`
	Expense    moneyDTO            `json:"expense"`
	ByCategory []categoryAmountDTO `json:"by_category"`
}

func toOverviewResponse(ov core.MonthOverview) overviewResponse {
	out := overviewResponse{
		Month:      ov.Month,
		Income:     toMoneyDTO(ov.Income),
		Expense:    toMoneyDTO(ov.Expense),
		ByCategory: make([]categoryAmountDTO, 0, len(ov.ByCategory)),
	}
	for _, c := range ov.ByCategory {
		out.ByCategory = append(out.ByCategory, categoryAmountDTO{
			Category: c.Category,
			Amount:   toMoneyDTO(c.Amount),
		})
	}
	return out
}

type advisorContextResponse struct {
	Context string `json:"context"`
}

type transactionDTO struct {
	ID          string   `json:"id"`
	Type        string   `json:"type"`
	Category    string   `json:"category"`
	Amount      moneyDTO `json:"amount"`
	Date        string   `json:"date"`
	Month       string   `json:"month"`
	IsFixed     bool     `json:"is_fixed"`
	Description string   `json:"description"`
}

type transactionsResponse struct {
	Transactions []transactionDTO `json:"transactions"`
}

func toTransactionsResponse(txs []core.Transaction) transactionsResponse {
	out := transactionsResponse{Transactions: make([]transactionDTO, 0, len(txs))}
	for _, tx := range txs {
		out.Transactions = append(out.Transactions, transactionDTO{
			ID:          tx.ID,
			Type:        string(tx.Type),
			Category:    tx.Category,
			Amount:      toMoneyDTO(tx.Amount),
			Date:        tx.Date.Format("2006-01-02"),
			Month:       tx.ResolvedMonth(),
			IsFixed:     tx.IsFixed,
			Description: tx.Description,
		})
	}
	return out
}

type transactionCreatedResponse struct {
	IDs []string `json:"ids"`
}

type configResponse struct {
	Income           moneyDTO            `json:"income"`
	FixedExpenses    moneyDTO            `json:"fixed_expenses"`
	VariableEstimate moneyDTO            `json:"variable_estimate"`
	Invested         moneyDTO            `json:"invested"`
	CategoryBudgets  map[string]moneyDTO `json:"category_budgets"`
}

func toConfigResponse(cfg *core.ManualConfig) configResponse {
	out := configResponse{
		Income:           toMoneyDTO(cfg.Income),
		FixedExpenses:    toMoneyDTO(cfg.FixedExpenses),
		VariableEstimate: toMoneyDTO(cfg.VariableEstimate),
		Invested:         toMoneyDTO(cfg.Invested),
		CategoryBudgets:  make(map[string]moneyDTO, len(cfg.CategoryBudgets)),
	}
	for category, budget := range cfg.CategoryBudgets {
		out.CategoryBudgets[category] = toMoneyDTO(budget)
	}
	return out
}
