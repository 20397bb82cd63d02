// Package worker exports monthly reports from the durable outbox and the
// message stream to the configured sink.
package worker

import (
	"context"
	"fmt"
	"log/slog"

	"grana/internal/amqp"
	"grana/internal/report"
	"grana/internal/storage"
)

// maxExportAttempts is how often an outbox entry is retried before it is
// parked as failed.
const maxExportAttempts = 5

// Outbox is the slice of the repository the worker drains. Satisfied by
// storage.SQLiteRepository.
type Outbox interface {
	ListPendingReports(ctx context.Context, limit int) ([]storage.PendingReport, error)
	MarkReportDone(ctx context.Context, id int64) error
	MarkReportError(ctx context.Context, id int64, cause string, maxAttempts int) error
}

// ReportWorker builds monthly reports and pushes them to the sink. AMQP
// messages trigger immediate exports; the outbox drain catches anything the
// broker lost.
type ReportWorker struct {
	storage   Outbox
	builder   *report.Builder
	sink      report.Sink
	batchSize int
}

func NewReportWorker(storage Outbox, builder *report.Builder, sink report.Sink, batchSize int) *ReportWorker {
	if batchSize <= 0 {
		batchSize = 10
	}
	return &ReportWorker{
		storage:   storage,
		builder:   builder,
		sink:      sink,
		batchSize: batchSize,
	}
}

// HandleReportRequest processes one report request message. The outbox entry
// for the month is settled by the next drain pass; exporting twice is
// harmless because the sink appends a fresh row set.
func (w *ReportWorker) HandleReportRequest(ctx context.Context, msg *amqp.ReportRequestMessage) error {
	slog.InfoContext(ctx, "Processing report request", "month", msg.Month)
	return w.export(ctx, msg.Month)
}

// DrainOutbox exports pending outbox entries, oldest first. Errors on one
// entry do not stop the batch.
func (w *ReportWorker) DrainOutbox(ctx context.Context) error {
	pending, err := w.storage.ListPendingReports(ctx, w.batchSize)
	if err != nil {
		return fmt.Errorf("list pending reports: %w", err)
	}
	if len(pending) == 0 {
		return nil
	}

	slog.InfoContext(ctx, "Draining report outbox", "count", len(pending))

	for _, entry := range pending {
		if err := w.export(ctx, entry.Month); err != nil {
			slog.ErrorContext(ctx, "Report export failed",
				"id", entry.ID, "month", entry.Month, "attempt", entry.Attempts+1, "error", err)
			if markErr := w.storage.MarkReportError(ctx, entry.ID, err.Error(), maxExportAttempts); markErr != nil {
				slog.ErrorContext(ctx, "Failed to mark report error", "id", entry.ID, "error", markErr)
			}
			continue
		}
		if err := w.storage.MarkReportDone(ctx, entry.ID); err != nil {
			slog.ErrorContext(ctx, "Failed to mark report done", "id", entry.ID, "error", err)
		}
	}

	return nil
}

// StartupCheck drains a larger backlog once, recovering from downtime.
func (w *ReportWorker) StartupCheck(ctx context.Context) error {
	pending, err := w.storage.ListPendingReports(ctx, w.batchSize*5)
	if err != nil {
		return fmt.Errorf("list pending reports for startup check: %w", err)
	}
	if len(pending) == 0 {
		slog.InfoContext(ctx, "No pending reports found on startup")
		return nil
	}

	slog.InfoContext(ctx, "Found pending reports on startup, processing...", "count", len(pending))

	var done, failed int
	for _, entry := range pending {
		if err := w.export(ctx, entry.Month); err != nil {
			failed++
			if markErr := w.storage.MarkReportError(ctx, entry.ID, err.Error(), maxExportAttempts); markErr != nil {
				slog.ErrorContext(ctx, "Failed to mark report error", "id", entry.ID, "error", markErr)
			}
			continue
		}
		if err := w.storage.MarkReportDone(ctx, entry.ID); err != nil {
			slog.ErrorContext(ctx, "Failed to mark report done", "id", entry.ID, "error", err)
		}
		done++
	}

	slog.InfoContext(ctx, "Startup report check completed",
		"total", len(pending), "exported", done, "errors", failed)
	return nil
}

func (w *ReportWorker) export(ctx context.Context, month string) error {
	rep, err := w.builder.Build(ctx, month)
	if err != nil {
		return fmt.Errorf("build report for %s: %w", month, err)
	}

	if err := w.sink.Push(ctx, rep); err != nil {
		return fmt.Errorf("push report for %s: %w", month, err)
	}

	slog.InfoContext(ctx, "Report exported",
		"month", month,
		"score", rep.Score,
		"income_cents", rep.Income.Cents,
		"expense_cents", rep.Expense.Cents,
		"categories", len(rep.ByCategory))
	return nil
}
