package services

import (
	"testing"
	"time"

	"grana/internal/core"
)

func TestPlanInstallments(t *testing.T) {
	tx := core.Transaction{
		Type:        core.Expense,
		Category:    "shopping",
		Amount:      core.Money{Cents: 10000},
		Date:        core.NewDate(2025, 1, 31),
		Description: "notebook",
	}

	plan, err := PlanInstallments(tx, 3)
	if err != nil {
		t.Fatalf("PlanInstallments() error = %v", err)
	}
	if len(plan) != 3 {
		t.Fatalf("got %d parts, want 3", len(plan))
	}

	wantMonths := []string{"2025-01", "2025-02", "2025-03"}
	wantCents := []int64{3334, 3333, 3333}
	for i, part := range plan {
		if part.ID != "" {
			t.Errorf("part %d: id should be blank, got %q", i, part.ID)
		}
		if part.Month != wantMonths[i] {
			t.Errorf("part %d: month = %q, want %q", i, part.Month, wantMonths[i])
		}
		if part.Amount.Cents != wantCents[i] {
			t.Errorf("part %d: cents = %d, want %d", i, part.Amount.Cents, wantCents[i])
		}
	}
	if plan[0].Description != "notebook (1/3)" {
		t.Errorf("description = %q", plan[0].Description)
	}

	if _, err := PlanInstallments(tx, 1); err == nil {
		t.Error("expected error for a single part")
	}
}

func TestSplitInstallments(t *testing.T) {
	tests := []struct {
		name     string
		total    int64
		parts    int
		expected []int64
	}{
		{"even split", 30000, 3, []int64{10000, 10000, 10000}},
		{"remainder goes first", 10000, 3, []int64{3334, 3333, 3333}},
		{"two parts odd cents", 9999, 2, []int64{5000, 4999}},
		{"twelve parts", 120011, 12, []int64{10011, 10000, 10000, 10000, 10000, 10000, 10000, 10000, 10000, 10000, 10000, 10000}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			amounts := splitInstallments(core.Money{Cents: tt.total}, tt.parts)

			if len(amounts) != tt.parts {
				t.Fatalf("got %d parts, want %d", len(amounts), tt.parts)
			}

			var sum int64
			for i, a := range amounts {
				if a.Cents != tt.expected[i] {
					t.Errorf("part %d = %d, want %d", i, a.Cents, tt.expected[i])
				}
				sum += a.Cents
			}
			if sum != tt.total {
				t.Errorf("parts sum to %d, want %d", sum, tt.total)
			}
		})
	}
}

func TestInstallmentDate(t *testing.T) {
	tests := []struct {
		name     string
		start    core.Date
		offset   int
		expected string
	}{
		{"offset zero keeps date", core.NewDate(2025, 6, 15), 0, "2025-06-15"},
		{"one month later", core.NewDate(2025, 6, 15), 1, "2025-07-15"},
		{"jan 31 clamps to feb 28", core.NewDate(2025, 1, 31), 1, "2025-02-28"},
		{"jan 31 clamps to leap feb 29", core.NewDate(2024, 1, 31), 1, "2024-02-29"},
		{"jan 31 to march stays 31", core.NewDate(2025, 1, 31), 2, "2025-03-31"},
		{"year rollover", core.NewDate(2025, 11, 10), 3, "2026-02-10"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := installmentDate(tt.start, tt.offset)
			if got.Format("2006-01-02") != tt.expected {
				t.Errorf("installmentDate(%s, %d) = %s, want %s",
					tt.start.Format("2006-01-02"), tt.offset, got.Format("2006-01-02"), tt.expected)
			}
		})
	}
}

func TestInstallmentDatesAreMonotonic(t *testing.T) {
	start := core.NewDate(2025, 1, 31)

	prev := time.Time{}
	for i := 0; i < 12; i++ {
		d := installmentDate(start, i)
		if !d.After(prev) {
			t.Fatalf("installment %d (%s) not after previous (%s)",
				i, d.Format("2006-01-02"), prev.Format("2006-01-02"))
		}
		prev = d.Time
	}
}
