package core

import (
	"math"
	"testing"
	"time"
)

func TestBudgetPaceAlertsDanger(t *testing.T) {
	// Budget R$800, spend R$850 on day 20 of a 30-day month -> danger, 1.0625.
	now := time.Date(2025, 6, 20, 10, 0, 0, 0, time.UTC)
	txs := []Transaction{
		{Type: Expense, Category: CategoryFood, Amount: Money{Cents: 85000}, Date: NewDate(2025, 6, 18)},
	}
	cfg := &ManualConfig{CategoryBudgets: map[string]Money{
		CategoryFood: {Cents: 80000},
	}}

	alerts := BudgetPaceAlerts(txs, cfg, now)
	if len(alerts) != 1 {
		t.Fatalf("expected 1 alert, got %d", len(alerts))
	}
	a := alerts[0]
	if a.Severity != AlertDanger {
		t.Fatalf("severity: got %v", a.Severity)
	}
	if a.Category != CategoryFood {
		t.Fatalf("category: got %v", a.Category)
	}
	if math.Abs(a.Usage-1.0625) > 1e-9 {
		t.Fatalf("usage: got %v, want 1.0625", a.Usage)
	}
	if a.Message == "" {
		t.Fatal("alert must carry a message")
	}
}

func TestBudgetPaceAlertsWarning(t *testing.T) {
	// Day 10 of 30: expected usage 33%, tolerance 1.15 -> warn above ~38.3%.
	now := time.Date(2025, 6, 10, 10, 0, 0, 0, time.UTC)
	txs := []Transaction{
		{Type: Expense, Category: CategoryLeisure, Amount: Money{Cents: 50000}, Date: NewDate(2025, 6, 5)},
	}
	cfg := &ManualConfig{CategoryBudgets: map[string]Money{
		CategoryLeisure: {Cents: 100000},
	}}

	alerts := BudgetPaceAlerts(txs, cfg, now)
	if len(alerts) != 1 {
		t.Fatalf("expected 1 alert, got %d", len(alerts))
	}
	if alerts[0].Severity != AlertWarning {
		t.Fatalf("severity: got %v", alerts[0].Severity)
	}
	if alerts[0].Usage != 0.5 {
		t.Fatalf("usage: got %v", alerts[0].Usage)
	}
}

func TestBudgetPaceAlertsSustainablePaceIsQuiet(t *testing.T) {
	// Day 20 of 30: expected 66.7%, tolerance lifts threshold to ~76.7%.
	// Spending half the budget raises nothing.
	now := time.Date(2025, 6, 20, 10, 0, 0, 0, time.UTC)
	txs := []Transaction{
		{Type: Expense, Category: CategoryFood, Amount: Money{Cents: 40000}, Date: NewDate(2025, 6, 10)},
	}
	cfg := &ManualConfig{CategoryBudgets: map[string]Money{
		CategoryFood: {Cents: 80000},
	}}

	if alerts := BudgetPaceAlerts(txs, cfg, now); len(alerts) != 0 {
		t.Fatalf("expected no alerts, got %v", alerts)
	}
}

func TestBudgetPaceAlertsDeterministicOrder(t *testing.T) {
	now := time.Date(2025, 6, 25, 10, 0, 0, 0, time.UTC)
	txs := []Transaction{
		{Type: Expense, Category: CategoryShopping, Amount: Money{Cents: 90000}, Date: NewDate(2025, 6, 5)},
		{Type: Expense, Category: CategoryFood, Amount: Money{Cents: 90000}, Date: NewDate(2025, 6, 6)},
		{Type: Expense, Category: CategoryLeisure, Amount: Money{Cents: 90000}, Date: NewDate(2025, 6, 7)},
	}
	cfg := &ManualConfig{CategoryBudgets: map[string]Money{
		CategoryShopping: {Cents: 50000},
		CategoryFood:     {Cents: 50000},
		CategoryLeisure:  {Cents: 50000},
	}}

	for run := 0; run < 5; run++ {
		alerts := BudgetPaceAlerts(txs, cfg, now)
		if len(alerts) != 3 {
			t.Fatalf("expected 3 alerts, got %d", len(alerts))
		}
		if alerts[0].Category != CategoryFood ||
			alerts[1].Category != CategoryLeisure ||
			alerts[2].Category != CategoryShopping {
			t.Fatalf("run %d: order not stable: %+v", run, alerts)
		}
	}
}

func TestBudgetPaceAlertsMergesUnknownBudgetKeys(t *testing.T) {
	// Both unknown keys fall back to "other"; their budgets combine into one
	// limit and the category alerts at most once.
	now := time.Date(2025, 6, 20, 10, 0, 0, 0, time.UTC)
	txs := []Transaction{
		{Type: Expense, Category: "streaming", Amount: Money{Cents: 90000}, Date: NewDate(2025, 6, 5)},
	}
	cfg := &ManualConfig{CategoryBudgets: map[string]Money{
		"streaming": {Cents: 40000},
		"games":     {Cents: 40000},
	}}

	alerts := BudgetPaceAlerts(txs, cfg, now)
	if len(alerts) != 1 {
		t.Fatalf("expected 1 merged alert, got %d: %+v", len(alerts), alerts)
	}
	a := alerts[0]
	if a.Category != CategoryOther {
		t.Fatalf("category: got %v, want %v", a.Category, CategoryOther)
	}
	if a.Severity != AlertDanger {
		t.Fatalf("severity: got %v", a.Severity)
	}
	if math.Abs(a.Usage-1.125) > 1e-9 {
		t.Fatalf("usage: got %v, want 1.125 against the combined budget", a.Usage)
	}
}

func TestBudgetPaceAlertsNoConfig(t *testing.T) {
	if alerts := BudgetPaceAlerts(ledgerFixture(), nil, june20); alerts != nil {
		t.Fatalf("nil config: expected nil, got %v", alerts)
	}
}
