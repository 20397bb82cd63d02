package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"grana/internal/core"
	"grana/internal/storage"
)

// Materializer turns recurring fixed-expense schedules into real transaction
// rows. Each schedule yields at most one row per month, dated at its
// configured day clamped to the month's length. Projections then see
// committed spending without special-casing schedules.
type Materializer struct {
	storage *storage.SQLiteRepository
	ledger  *LedgerService
}

func NewMaterializer(storage *storage.SQLiteRepository, ledger *LedgerService) *Materializer {
	return &Materializer{
		storage: storage,
		ledger:  ledger,
	}
}

// MaterializeMonth creates this month's rows for every schedule that does
// not have them yet. Returns how many rows were created.
func (m *Materializer) MaterializeMonth(ctx context.Context, now time.Time) (int, error) {
	if m.storage == nil || m.ledger == nil {
		return 0, fmt.Errorf("materializer not properly initialized")
	}

	schedules, err := m.storage.ListActiveSchedules(ctx)
	if err != nil {
		return 0, fmt.Errorf("list active schedules: %w", err)
	}

	month := now.Format("2006-01")
	slog.InfoContext(ctx, "Materializing schedules",
		"total_active", len(schedules),
		"month", month)

	created := 0
	for _, schedule := range schedules {
		if !scheduleDue(schedule.LastMaterializedMonth, month) {
			continue
		}

		day := clampDay(now.Year(), now.Month(), schedule.DayOfMonth)
		tx := core.Transaction{
			Type:        core.Expense,
			Category:    schedule.Category,
			Amount:      schedule.Amount,
			Date:        core.Date{Time: time.Date(now.Year(), now.Month(), day, 0, 0, 0, 0, time.UTC)},
			IsFixed:     true,
			Description: schedule.Description,
		}

		if _, err := m.ledger.CreateTransaction(ctx, tx); err != nil {
			slog.ErrorContext(ctx, "Failed to materialize schedule",
				"schedule_id", schedule.ID,
				"category", schedule.Category,
				"error", err)
			continue
		}

		if err := m.storage.MarkScheduleMaterialized(ctx, schedule.ID, month); err != nil {
			slog.ErrorContext(ctx, "Failed to mark schedule materialized",
				"schedule_id", schedule.ID,
				"error", err)
			// Row exists already, the next run would duplicate it, so stop here
			return created, fmt.Errorf("mark schedule materialized: %w", err)
		}

		created++
		slog.InfoContext(ctx, "Schedule materialized",
			"schedule_id", schedule.ID,
			"category", schedule.Category,
			"amount_cents", schedule.Amount.Cents,
			"day", day)
	}

	slog.InfoContext(ctx, "Materialization complete",
		"created", created,
		"total_checked", len(schedules))

	return created, nil
}

// scheduleDue reports whether a schedule still lacks rows for month.
// Month keys are zero-padded so string comparison orders correctly.
func scheduleDue(lastMaterialized, month string) bool {
	return lastMaterialized < month
}

// clampDay pins day to the last day of the given month, so a schedule on
// the 31st still fires in February.
func clampDay(year int, month time.Month, day int) int {
	lastDay := time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
	if day > lastDay {
		return lastDay
	}
	return day
}
