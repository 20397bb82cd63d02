package http

import (
	"testing"

	"grana/internal/core"
)

func TestFormatReais(t *testing.T) {
	tests := []struct {
		cents int64
		want  string
	}{
		{0, "R$ 0,00"},
		{1, "R$ 0,01"},
		{100, "R$ 1,00"},
		{123456, "R$ 1234,56"},
		{-9950, "-R$ 99,50"},
	}
	for _, tt := range tests {
		if got := formatReais(tt.cents); got != tt.want {
			t.Errorf("formatReais(%d) = %q, want %q", tt.cents, got, tt.want)
		}
	}
}

func TestToScoreResponse(t *testing.T) {
	result := core.HealthScoreResult{
		Score:      85,
		Feedback:   "Excelente! Sua saúde financeira está ótima",
		Color:      core.ColorGreen,
		Background: core.BgGreen,
		Breakdown: core.HealthBreakdown{
			Performance: 18.5,
			Allocation:  25,
			Reserve:     41.5,
			Data: core.HealthFigures{
				MonthIncome:  core.Money{Cents: 500000},
				MonthExpense: core.Money{Cents: 300000},
			},
		},
	}

	resp := toScoreResponse(result)
	if resp.Score != 85 || resp.Color != "green" {
		t.Errorf("unexpected response: %+v", resp)
	}
	if resp.Breakdown.Figures.MonthIncome.Display != "R$ 5000,00" {
		t.Errorf("income display = %q", resp.Breakdown.Figures.MonthIncome.Display)
	}
}

func TestToTransactionsResponse(t *testing.T) {
	txs := []core.Transaction{
		{
			ID:       "abc",
			Type:     core.Expense,
			Category: "food",
			Amount:   core.Money{Cents: 4550},
			Date:     core.NewDate(2025, 6, 10),
		},
	}

	resp := toTransactionsResponse(txs)
	if len(resp.Transactions) != 1 {
		t.Fatalf("expected 1 transaction, got %d", len(resp.Transactions))
	}
	tx := resp.Transactions[0]
	if tx.Date != "2025-06-10" || tx.Month != "2025-06" {
		t.Errorf("date/month = %q/%q", tx.Date, tx.Month)
	}
	if tx.Amount.Display != "R$ 45,50" {
		t.Errorf("display = %q", tx.Amount.Display)
	}
}

func TestToOverviewResponse_EmptyCategories(t *testing.T) {
	resp := toOverviewResponse(core.MonthOverview{Month: "2025-06"})
	if resp.ByCategory == nil {
		t.Error("by_category should serialize as [], not null")
	}
}
