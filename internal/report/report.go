// Package report builds monthly summaries for export. The Google Sheets
// sink pushes them to a spreadsheet the household already reads.
package report

import (
	"context"
	"fmt"
	"time"

	"grana/internal/core"
	"grana/internal/ledger"
)

// MonthlyReport is one month of the ledger flattened for export.
type MonthlyReport struct {
	Month       string
	Income      core.Money
	Expense     core.Money
	Balance     core.Money
	Score       int
	Feedback    string
	ByCategory  []core.CategoryAmount
	GeneratedAt time.Time
}

// Sink pushes a finished report somewhere outside the process.
type Sink interface {
	Push(ctx context.Context, r MonthlyReport) error
}

// Builder assembles reports from ledger snapshots.
type Builder struct {
	snapshots ledger.SnapshotReader
}

func NewBuilder(snapshots ledger.SnapshotReader) *Builder {
	return &Builder{snapshots: snapshots}
}

// Build assembles the report for one YYYY-MM month. The health score is
// evaluated as of the end of that month so late exports stay reproducible.
func (b *Builder) Build(ctx context.Context, month string) (MonthlyReport, error) {
	asOf, err := monthEnd(month)
	if err != nil {
		return MonthlyReport{}, err
	}

	snap, err := b.snapshots.ReadSnapshot(ctx)
	if err != nil {
		return MonthlyReport{}, fmt.Errorf("read snapshot: %w", err)
	}

	overview := core.BuildMonthOverview(snap.Transactions, month)
	health := core.EvaluateHealth(snap.Transactions, snap.Config, asOf)

	return MonthlyReport{
		Month:       month,
		Income:      overview.Income,
		Expense:     overview.Expense,
		Balance:     core.Money{Cents: overview.Income.Cents - overview.Expense.Cents},
		Score:       health.Score,
		Feedback:    health.Feedback,
		ByCategory:  overview.ByCategory,
		GeneratedAt: time.Now(),
	}, nil
}

// monthEnd returns noon on the last day of a YYYY-MM month.
func monthEnd(month string) (time.Time, error) {
	t, err := time.Parse("2006-01", month)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid month %q: %w", month, err)
	}
	return time.Date(t.Year(), t.Month()+1, 0, 12, 0, 0, 0, time.UTC), nil
}
