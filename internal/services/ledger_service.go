package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"grana/internal/amqp"
	"grana/internal/core"
	"grana/internal/log"
	"grana/internal/storage"
)

// LedgerService orchestrates ledger writes across SQLite and AMQP.
type LedgerService struct {
	storage    *storage.SQLiteRepository
	amqpClient *amqp.Client
	onChange   func()
	logs       *log.StructuredLogger
}

func NewLedgerService(storage *storage.SQLiteRepository, amqpClient *amqp.Client) *LedgerService {
	return &LedgerService{
		storage:    storage,
		amqpClient: amqpClient,
		logs:       log.NewStructuredLogger(log.New(log.Config{Component: log.ComponentLedger})),
	}
}

// OnChange registers a callback invoked after every successful write. The
// insight cache hangs off this.
func (s *LedgerService) OnChange(fn func()) {
	s.onChange = fn
}

// CreateTransaction validates and saves one transaction, then publishes a
// change message. Publishing is best effort; the local save already
// succeeded and workers catch up from the database.
func (s *LedgerService) CreateTransaction(ctx context.Context, tx core.Transaction) (string, error) {
	tx.Category = core.NormalizeCategory(tx.Category)
	if err := tx.Validate(); err != nil {
		return "", err
	}

	tx.ID = uuid.NewString()
	tx.Month = tx.ResolvedMonth()

	if err := s.storage.CreateTransaction(ctx, tx); err != nil {
		return "", fmt.Errorf("save transaction: %w", err)
	}

	s.notifyChange()
	s.publishChange(ctx, amqp.OpCreated, tx.ID, tx.Month)
	s.logs.LogTransactionCreated(ctx, tx.ID, string(tx.Type), tx.Category, tx.Amount.Cents, tx.Month)

	return tx.ID, nil
}

// CreateInstallments fans a purchase out into monthly installment rows. The
// first installment lands on the given date, the rest one month apart with
// end-of-month clamping. Cents that do not divide evenly go to the first
// installment so the parts always sum back to the total.
func (s *LedgerService) CreateInstallments(ctx context.Context, tx core.Transaction, parts int) ([]string, error) {
	plan, err := PlanInstallments(tx, parts)
	if err != nil {
		return nil, err
	}

	ids := make([]string, 0, parts)
	for i, part := range plan {
		part.ID = uuid.NewString()

		if err := s.storage.CreateTransaction(ctx, part); err != nil {
			return ids, fmt.Errorf("save installment %d/%d: %w", i+1, parts, err)
		}
		ids = append(ids, part.ID)

		s.publishChange(ctx, amqp.OpCreated, part.ID, part.Month)
	}

	s.notifyChange()
	slog.InfoContext(ctx, "Installments created",
		"parts", parts,
		"total_cents", tx.Amount.Cents,
		"first_month", installmentDate(tx.Date, 0).MonthKey())

	return ids, nil
}

// DeleteTransaction soft deletes a row and publishes the change.
func (s *LedgerService) DeleteTransaction(ctx context.Context, id string) error {
	tx, err := s.storage.GetTransaction(ctx, id)
	if err != nil {
		return err
	}

	if err := s.storage.SoftDeleteTransaction(ctx, id); err != nil {
		return fmt.Errorf("delete transaction: %w", err)
	}

	s.notifyChange()
	s.publishChange(ctx, amqp.OpDeleted, id, tx.ResolvedMonth())

	return nil
}

// SaveConfig replaces the manual configuration snapshot.
func (s *LedgerService) SaveConfig(ctx context.Context, cfg core.ManualConfig) error {
	if err := s.storage.SaveConfig(ctx, cfg); err != nil {
		return err
	}
	s.notifyChange()
	return nil
}

// RequestReport queues a monthly report export, both in the durable outbox
// and on the broker for immediate pickup.
func (s *LedgerService) RequestReport(ctx context.Context, month string) error {
	if err := s.storage.EnqueueReport(ctx, month); err != nil {
		return err
	}

	if s.amqpClient == nil {
		slog.WarnContext(ctx, "AMQP client not available, report stays queued", "month", month)
		return nil
	}
	if err := s.amqpClient.PublishReportRequest(ctx, month); err != nil {
		slog.ErrorContext(ctx, "Failed to publish report request, outbox will retry",
			"month", month, "error", err)
	}
	return nil
}

func (s *LedgerService) notifyChange() {
	if s.onChange != nil {
		s.onChange()
	}
}

func (s *LedgerService) publishChange(ctx context.Context, op, id, month string) {
	if s.amqpClient == nil {
		slog.WarnContext(ctx, "AMQP client not available, skipping change message")
		return
	}
	if err := s.amqpClient.PublishLedgerChanged(ctx, op, id, month); err != nil {
		// The write already landed locally, do not fail the request
		s.logs.LogError(ctx, "Failed to publish ledger change", err, op,
			log.LogFields{log.FieldTxID: id, log.FieldMonth: month})
	}
}

// Close closes both storage and AMQP connections.
func (s *LedgerService) Close() error {
	var errs []error

	if s.storage != nil {
		if err := s.storage.Close(); err != nil {
			errs = append(errs, fmt.Errorf("storage: %w", err))
		}
	}
	if s.amqpClient != nil {
		if err := s.amqpClient.Close(); err != nil {
			errs = append(errs, fmt.Errorf("amqp: %w", err))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("close ledger service: %v", errs)
	}
	return nil
}

// PlanInstallments fans a purchase out into per-month installment rows
// without persisting anything. IDs are left blank for the writer to assign.
func PlanInstallments(tx core.Transaction, parts int) ([]core.Transaction, error) {
	if parts < 2 {
		return nil, fmt.Errorf("%w: installments need at least 2 parts", core.ErrInvalidAmount)
	}
	tx.Category = core.NormalizeCategory(tx.Category)
	if err := tx.Validate(); err != nil {
		return nil, err
	}

	amounts := splitInstallments(tx.Amount, parts)
	plan := make([]core.Transaction, parts)
	for i := range plan {
		part := tx
		part.ID = ""
		part.Amount = amounts[i]
		part.Date = installmentDate(tx.Date, i)
		part.Month = part.Date.MonthKey()
		part.Description = fmt.Sprintf("%s (%d/%d)", tx.Description, i+1, parts)
		plan[i] = part
	}
	return plan, nil
}

// splitInstallments divides total into parts equal shares, pushing the
// remainder cents onto the first share.
func splitInstallments(total core.Money, parts int) []core.Money {
	base := total.Cents / int64(parts)
	remainder := total.Cents % int64(parts)

	amounts := make([]core.Money, parts)
	for i := range amounts {
		amounts[i] = core.Money{Cents: base}
	}
	amounts[0].Cents += remainder
	return amounts
}

// installmentDate advances start by offset months, clamping to the last day
// of shorter months so Jan 31 becomes Feb 28 rather than Mar 3.
func installmentDate(start core.Date, offset int) core.Date {
	if offset == 0 {
		return start
	}
	year, month, day := start.Date()
	target := time.Date(year, month+time.Month(offset), 1, 0, 0, 0, 0, start.Location())
	lastDay := time.Date(target.Year(), target.Month()+1, 0, 0, 0, 0, 0, start.Location()).Day()
	if day > lastDay {
		day = lastDay
	}
	return core.Date{Time: time.Date(target.Year(), target.Month(), day, 0, 0, 0, 0, start.Location())}
}
