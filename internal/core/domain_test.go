package core

import (
	"testing"
	"time"
)

func TestDateValidate(t *testing.T) {
	cases := []struct {
		d  Date
		ok bool
	}{
		{NewDate(2025, 1, 1), true},
		{NewDate(2025, 12, 31), true},
		{Date{Time: time.Time{}}, false}, // zero time
	}
	for i, tc := range cases {
		err := tc.d.Validate()
		if tc.ok && err != nil {
			t.Fatalf("case %d expected ok, got %v", i, err)
		}
		if !tc.ok && err == nil {
			t.Fatalf("case %d expected error", i)
		}
	}
}

func TestResolvedMonth(t *testing.T) {
	cases := []struct {
		name string
		tx   Transaction
		want string
	}{
		{"cached month wins", Transaction{Month: "2025-03", Date: NewDate(2025, 6, 1)}, "2025-03"},
		{"full date string trimmed", Transaction{Month: "2025-03-15"}, "2025-03"},
		{"fallback to date", Transaction{Date: NewDate(2025, 6, 12)}, "2025-06"},
		{"garbage month falls back", Transaction{Month: "junho/25", Date: NewDate(2025, 6, 12)}, "2025-06"},
		{"nothing resolvable", Transaction{}, ""},
		{"short month string", Transaction{Month: "2025"}, ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.tx.ResolvedMonth(); got != tc.want {
				t.Fatalf("got %q, want %q", got, tc.want)
			}
		})
	}
}

func TestTransactionValidate(t *testing.T) {
	good := Transaction{
		Type:     Expense,
		Category: CategoryFood,
		Amount:   Money{Cents: 1500},
		Date:     NewDate(2025, 6, 1),
	}
	if err := good.Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}

	bads := []Transaction{
		{Type: "transfer", Category: CategoryFood, Amount: Money{Cents: 1}, Date: NewDate(2025, 6, 1)},
		{Type: Expense, Category: CategoryFood, Amount: Money{Cents: 0}, Date: NewDate(2025, 6, 1)},
		{Type: Expense, Category: "", Amount: Money{Cents: 1}, Date: NewDate(2025, 6, 1)},
		{Type: Expense, Category: CategoryFood, Amount: Money{Cents: 1}},
	}
	for i, tx := range bads {
		if err := tx.Validate(); err == nil {
			t.Fatalf("case %d expected error", i)
		}
	}
}

func TestManualConfigBudget(t *testing.T) {
	var nilCfg *ManualConfig
	if _, ok := nilCfg.Budget(CategoryFood); ok {
		t.Fatal("nil config should have no budgets")
	}

	cfg := &ManualConfig{CategoryBudgets: map[string]Money{
		CategoryFood: {Cents: 80000},
		CategoryPets: {Cents: 0},
	}}
	if b, ok := cfg.Budget(CategoryFood); !ok || b.Cents != 80000 {
		t.Fatalf("expected food budget 80000, got %v ok=%v", b.Cents, ok)
	}
	if _, ok := cfg.Budget(CategoryPets); ok {
		t.Fatal("zero budget should count as unset")
	}
	if _, ok := cfg.Budget(CategoryHousing); ok {
		t.Fatal("missing key should count as unset")
	}
}
