package report

import (
	"context"
	"log/slog"
)

// LogSink writes reports to the log instead of an external sheet. Used when
// no spreadsheet is configured so the export pipeline stays observable in
// development.
type LogSink struct{}

var _ Sink = LogSink{}

func (LogSink) Push(ctx context.Context, r MonthlyReport) error {
	slog.InfoContext(ctx, "Monthly report",
		"month", r.Month,
		"income_cents", r.Income.Cents,
		"expense_cents", r.Expense.Cents,
		"balance_cents", r.Balance.Cents,
		"score", r.Score,
		"feedback", r.Feedback,
		"categories", len(r.ByCategory))
	return nil
}
