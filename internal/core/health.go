package core

import (
	"math"
	"time"
)

// Sub-score weights. Fixed by design, not configurable.
const (
	maxPerformanceScore = 20.0
	maxAllocationScore  = 30.0
	maxReserveScore     = 50.0

	// Emergency-reserve target runway, in months of fixed expenses.
	reserveTargetMonths = 6.0

	// Neutral fallback when no fixed-expense baseline exists but the
	// ledger balance is positive.
	reserveNeutralScore = 25.0
)

// ColorTag and BackgroundTag identify the presentation treatment of a
// feedback band. They are opaque enum tags; mapping them to actual styles is
// the UI's problem.
type (
	ColorTag      string
	BackgroundTag string
)

const (
	ColorGreen  ColorTag = "green"
	ColorTeal   ColorTag = "teal"
	ColorYellow ColorTag = "yellow"
	ColorOrange ColorTag = "orange"
	ColorGray   ColorTag = "gray"

	BgGreen  BackgroundTag = "green-soft"
	BgTeal   BackgroundTag = "teal-soft"
	BgYellow BackgroundTag = "yellow-soft"
	BgOrange BackgroundTag = "orange-soft"
	BgGray   BackgroundTag = "gray-soft"
)

// HealthFigures are the raw inputs behind the sub-scores, exposed so the
// score is explainable without recomputing anything.
type HealthFigures struct {
	MonthIncome    Money
	MonthExpense   Money
	NecessityShare float64
	DesireShare    float64
	Balance        Money
	FixedBaseline  Money
	MonthsCovered  float64
}

// HealthBreakdown carries the three sub-scores plus their raw figures.
type HealthBreakdown struct {
	Performance float64
	Allocation  float64
	Reserve     float64
	Data        HealthFigures
}

// HealthScoreResult is the 0-100 health score with qualitative feedback.
type HealthScoreResult struct {
	Score      int
	Feedback   string
	Color      ColorTag
	Background BackgroundTag
	Breakdown  HealthBreakdown
}

// EvaluateHealth computes the weighted health score from the full ledger and
// the manual configuration (nil means unset). now anchors the current
// calendar month.
func EvaluateHealth(txs []Transaction, cfg *ManualConfig, now time.Time) HealthScoreResult {
	month := now.Format("2006-01")
	totals := TotalsForMonth(txs, month)
	necessityShare, desireShare := allocationShares(txs, month)
	balance := SignedBalance(txs)

	var baseline Money
	if cfg != nil {
		baseline = cfg.FixedExpenses
	}

	performance := performanceScore(totals)
	allocation := allocationScore(totals.Expense, necessityShare, desireShare)
	reserve, monthsCovered := reserveScore(balance, baseline)

	total := int(math.Round(performance + allocation + reserve))
	if total < 0 {
		total = 0
	}
	if total > 100 {
		total = 100
	}

	feedback, color, bg := feedbackBand(total)

	return HealthScoreResult{
		Score:      total,
		Feedback:   feedback,
		Color:      color,
		Background: bg,
		Breakdown: HealthBreakdown{
			Performance: performance,
			Allocation:  allocation,
			Reserve:     reserve,
			Data: HealthFigures{
				MonthIncome:    totals.Income,
				MonthExpense:   totals.Expense,
				NecessityShare: necessityShare,
				DesireShare:    desireShare,
				Balance:        balance,
				FixedBaseline:  baseline,
				MonthsCovered:  monthsCovered,
			},
		},
	}
}

// performanceScore awards up to 20 points for the current month's savings
// rate. Zero income scores zero; spending more than earning scores zero.
func performanceScore(t MonthTotals) float64 {
	if t.Income.Cents <= 0 {
		return 0
	}
	saved := t.Income.Cents - t.Expense.Cents
	if saved < 0 {
		saved = 0
	}
	score := float64(saved) / float64(t.Income.Cents) * 100 * 0.2
	if score > maxPerformanceScore {
		score = maxPerformanceScore
	}
	return score
}

// allocationShares computes the necessity and desire shares of the month's
// total expense. Neutral categories inflate the denominator but join neither
// group, so the two shares can never sum past 100%.
func allocationShares(txs []Transaction, month string) (necessity, desire float64) {
	byCat := ExpensesByCategory(txs, month)

	var total, nec, des int64
	for cat, amount := range byCat {
		total += amount.Cents
		switch Classify(cat) {
		case Necessity:
			nec += amount.Cents
		case Desire:
			des += amount.Cents
		}
	}
	if total <= 0 {
		return 0, 0
	}
	return float64(nec) / float64(total), float64(des) / float64(total)
}

// allocationScore awards up to 30 points against the 50/30/20 model:
// 15 for a contained necessity share, 15 for a contained desire share.
func allocationScore(monthExpense Money, necessityShare, desireShare float64) float64 {
	if monthExpense.Cents <= 0 {
		return 0
	}
	var score float64
	switch {
	case necessityShare <= 0.60:
		score += 15
	case necessityShare <= 0.70:
		score += 10
	}
	switch {
	case desireShare <= 0.35:
		score += 15
	case desireShare <= 0.45:
		score += 10
	}
	return score
}

// reserveScore awards up to 50 points for emergency-reserve coverage. The
// balance here is the transaction-derived signed sum only; manual invested
// capital belongs to net worth, not to the reserve.
func reserveScore(balance, baseline Money) (score, monthsCovered float64) {
	if baseline.Cents > 0 {
		monthsCovered = float64(balance.Cents) / float64(baseline.Cents)
		score = monthsCovered / reserveTargetMonths * maxReserveScore
		if score > maxReserveScore {
			score = maxReserveScore
		}
		if score < 0 {
			score = 0
		}
		return score, monthsCovered
	}
	if balance.Cents > 0 {
		return reserveNeutralScore, 0
	}
	return 0, 0
}

func feedbackBand(score int) (string, ColorTag, BackgroundTag) {
	switch {
	case score >= 90:
		return "Excelente! Você está no caminho da independência financeira.", ColorGreen, BgGreen
	case score >= 70:
		return "Muito bom! Sua saúde financeira é sólida.", ColorTeal, BgTeal
	case score >= 50:
		return "Razoável. Reduza os desejos e fortaleça sua reserva.", ColorYellow, BgYellow
	case score > 0:
		return "Alerta! Priorize a construção da sua reserva de emergência.", ColorOrange, BgOrange
	default:
		return "Comece registrando suas receitas e despesas.", ColorGray, BgGray
	}
}
