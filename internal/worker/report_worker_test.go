package worker

import (
	"context"
	"errors"
	"testing"

	"grana/internal/amqp"
	"grana/internal/core"
	"grana/internal/ledger/memory"
	"grana/internal/report"
	"grana/internal/storage"
)

type fakeOutbox struct {
	pending []storage.PendingReport
	done    []int64
	errored []int64
}

func (f *fakeOutbox) ListPendingReports(_ context.Context, limit int) ([]storage.PendingReport, error) {
	if len(f.pending) > limit {
		return f.pending[:limit], nil
	}
	return f.pending, nil
}

func (f *fakeOutbox) MarkReportDone(_ context.Context, id int64) error {
	f.done = append(f.done, id)
	return nil
}

func (f *fakeOutbox) MarkReportError(_ context.Context, id int64, _ string, _ int) error {
	f.errored = append(f.errored, id)
	return nil
}

type fakeSink struct {
	pushed []report.MonthlyReport
	fail   error
}

func (f *fakeSink) Push(_ context.Context, r report.MonthlyReport) error {
	if f.fail != nil {
		return f.fail
	}
	f.pushed = append(f.pushed, r)
	return nil
}

func seededBuilder() *report.Builder {
	store := memory.New()
	store.Seed([]core.Transaction{
		{ID: "i1", Type: core.Income, Category: "other", Amount: core.Money{Cents: 500000}, Date: core.NewDate(2025, 6, 1)},
		{ID: "e1", Type: core.Expense, Category: "housing", Amount: core.Money{Cents: 180000}, Date: core.NewDate(2025, 6, 5)},
	}, nil, nil)
	return report.NewBuilder(store)
}

func TestReportWorker_HandleReportRequest(t *testing.T) {
	sink := &fakeSink{}
	w := NewReportWorker(&fakeOutbox{}, seededBuilder(), sink, 10)

	msg := amqp.NewReportRequestMessage("2025-06")
	if err := w.HandleReportRequest(context.Background(), msg); err != nil {
		t.Fatalf("HandleReportRequest() error = %v", err)
	}

	if len(sink.pushed) != 1 {
		t.Fatalf("expected 1 push, got %d", len(sink.pushed))
	}
	rep := sink.pushed[0]
	if rep.Month != "2025-06" {
		t.Errorf("month = %q", rep.Month)
	}
	if rep.Income.Cents != 500000 || rep.Expense.Cents != 180000 {
		t.Errorf("totals = %d/%d", rep.Income.Cents, rep.Expense.Cents)
	}
}

func TestReportWorker_DrainOutbox(t *testing.T) {
	outbox := &fakeOutbox{pending: []storage.PendingReport{
		{ID: 1, Month: "2025-05"},
		{ID: 2, Month: "2025-06"},
	}}
	sink := &fakeSink{}
	w := NewReportWorker(outbox, seededBuilder(), sink, 10)

	if err := w.DrainOutbox(context.Background()); err != nil {
		t.Fatalf("DrainOutbox() error = %v", err)
	}
	if len(outbox.done) != 2 {
		t.Errorf("done = %v", outbox.done)
	}
	if len(sink.pushed) != 2 {
		t.Errorf("pushed %d reports", len(sink.pushed))
	}
}

func TestReportWorker_DrainOutbox_SinkFailure(t *testing.T) {
	outbox := &fakeOutbox{pending: []storage.PendingReport{{ID: 7, Month: "2025-06"}}}
	sink := &fakeSink{fail: errors.New("sheet unavailable")}
	w := NewReportWorker(outbox, seededBuilder(), sink, 10)

	if err := w.DrainOutbox(context.Background()); err != nil {
		t.Fatalf("DrainOutbox() should not fail the batch, got %v", err)
	}
	if len(outbox.errored) != 1 || outbox.errored[0] != 7 {
		t.Errorf("errored = %v", outbox.errored)
	}
	if len(outbox.done) != 0 {
		t.Errorf("done should be empty, got %v", outbox.done)
	}
}

func TestReportWorker_DrainOutbox_BadMonth(t *testing.T) {
	outbox := &fakeOutbox{pending: []storage.PendingReport{{ID: 3, Month: "junho"}}}
	w := NewReportWorker(outbox, seededBuilder(), &fakeSink{}, 10)

	if err := w.DrainOutbox(context.Background()); err != nil {
		t.Fatalf("DrainOutbox() error = %v", err)
	}
	if len(outbox.errored) != 1 {
		t.Errorf("bad month should mark an error, got %v", outbox.errored)
	}
}

func TestReportWorker_DrainOutbox_Empty(t *testing.T) {
	w := NewReportWorker(&fakeOutbox{}, seededBuilder(), &fakeSink{}, 10)
	if err := w.DrainOutbox(context.Background()); err != nil {
		t.Fatalf("DrainOutbox() error = %v", err)
	}
}
