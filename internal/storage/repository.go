package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"grana/internal/core"
	"grana/internal/ledger"

	_ "modernc.org/sqlite"
)

// ErrNotFound is returned when a requested row does not exist or was
// soft-deleted.
var ErrNotFound = ledger.ErrNotFound

type SQLiteRepository struct {
	db *sql.DB
}

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteRepository{db: db}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// CreateTransaction inserts one ledger row. The caller supplies the id
// (uuid) so installment fan-out can pre-assign related ids.
func (r *SQLiteRepository) CreateTransaction(ctx context.Context, tx core.Transaction) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO transactions (id, type, category, amount_cents, date, month, is_fixed, description)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		tx.ID, string(tx.Type), tx.Category, tx.Amount.Cents,
		tx.Date.Format("2006-01-02"), tx.ResolvedMonth(), boolToInt(tx.IsFixed), tx.Description,
	)
	if err != nil {
		return fmt.Errorf("insert transaction: %w", err)
	}

	slog.InfoContext(ctx, "Transaction saved",
		"id", tx.ID,
		"type", tx.Type,
		"category", tx.Category,
		"amount_cents", tx.Amount.Cents,
		"month", tx.ResolvedMonth())

	return nil
}

// SoftDeleteTransaction marks a row deleted without removing it.
func (r *SQLiteRepository) SoftDeleteTransaction(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE transactions SET deleted_at = CURRENT_TIMESTAMP WHERE id = ? AND deleted_at IS NULL`, id)
	if err != nil {
		return fmt.Errorf("soft delete transaction: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}

	slog.InfoContext(ctx, "Transaction soft-deleted", "id", id)
	return nil
}

// ListTransactions returns the full live ledger, oldest first.
func (r *SQLiteRepository) ListTransactions(ctx context.Context) ([]core.Transaction, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, type, category, amount_cents, date, month, is_fixed, description
		FROM transactions
		WHERE deleted_at IS NULL
		ORDER BY date, id`)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	defer rows.Close()

	var txs []core.Transaction
	for rows.Next() {
		var (
			tx      core.Transaction
			txType  string
			date    string
			isFixed int64
		)
		if err := rows.Scan(&tx.ID, &txType, &tx.Category, &tx.Amount.Cents,
			&date, &tx.Month, &isFixed, &tx.Description); err != nil {
			return nil, fmt.Errorf("scan transaction: %w", err)
		}
		tx.Type = core.TransactionType(txType)
		tx.IsFixed = isFixed != 0
		if d, err := time.Parse("2006-01-02", date); err == nil {
			tx.Date = core.Date{Time: d}
		}
		txs = append(txs, tx)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate transactions: %w", err)
	}
	return txs, nil
}

// GetTransaction fetches a single live row by id.
func (r *SQLiteRepository) GetTransaction(ctx context.Context, id string) (core.Transaction, error) {
	var (
		tx      core.Transaction
		txType  string
		date    string
		isFixed int64
	)
	err := r.db.QueryRowContext(ctx, `
		SELECT id, type, category, amount_cents, date, month, is_fixed, description
		FROM transactions
		WHERE id = ? AND deleted_at IS NULL`, id).
		Scan(&tx.ID, &txType, &tx.Category, &tx.Amount.Cents, &date, &tx.Month, &isFixed, &tx.Description)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Transaction{}, ErrNotFound
	}
	if err != nil {
		return core.Transaction{}, fmt.Errorf("get transaction: %w", err)
	}
	tx.Type = core.TransactionType(txType)
	tx.IsFixed = isFixed != 0
	if d, err := time.Parse("2006-01-02", date); err == nil {
		tx.Date = core.Date{Time: d}
	}
	return tx, nil
}

// ReadConfig loads the manual-configuration snapshot; nil means the user
// never saved one.
func (r *SQLiteRepository) ReadConfig(ctx context.Context) (*core.ManualConfig, error) {
	var cfg core.ManualConfig
	err := r.db.QueryRowContext(ctx, `
		SELECT income_cents, fixed_expenses_cents, variable_estimate_cents, invested_cents
		FROM manual_config WHERE id = 1`).
		Scan(&cfg.Income.Cents, &cfg.FixedExpenses.Cents, &cfg.VariableEstimate.Cents, &cfg.Invested.Cents)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read manual config: %w", err)
	}

	rows, err := r.db.QueryContext(ctx, `SELECT category, budget_cents FROM category_budgets`)
	if err != nil {
		return nil, fmt.Errorf("read category budgets: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			category string
			cents    int64
		)
		if err := rows.Scan(&category, &cents); err != nil {
			return nil, fmt.Errorf("scan category budget: %w", err)
		}
		if cfg.CategoryBudgets == nil {
			cfg.CategoryBudgets = make(map[string]core.Money)
		}
		cfg.CategoryBudgets[category] = core.Money{Cents: cents}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate category budgets: %w", err)
	}
	return &cfg, nil
}

// SaveConfig replaces the manual configuration wholesale, budgets included.
// The hosting UI saves the whole settings form at once, so partial updates
// are not a thing.
func (r *SQLiteRepository) SaveConfig(ctx context.Context, cfg core.ManualConfig) error {
	dbTx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin save config: %w", err)
	}
	defer dbTx.Rollback()

	_, err = dbTx.ExecContext(ctx, `
		INSERT INTO manual_config (id, income_cents, fixed_expenses_cents, variable_estimate_cents, invested_cents, updated_at)
		VALUES (1, ?, ?, ?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT (id) DO UPDATE SET
			income_cents = excluded.income_cents,
			fixed_expenses_cents = excluded.fixed_expenses_cents,
			variable_estimate_cents = excluded.variable_estimate_cents,
			invested_cents = excluded.invested_cents,
			updated_at = CURRENT_TIMESTAMP`,
		cfg.Income.Cents, cfg.FixedExpenses.Cents, cfg.VariableEstimate.Cents, cfg.Invested.Cents)
	if err != nil {
		return fmt.Errorf("upsert manual config: %w", err)
	}

	if _, err := dbTx.ExecContext(ctx, `DELETE FROM category_budgets`); err != nil {
		return fmt.Errorf("clear category budgets: %w", err)
	}
	for category, budget := range cfg.CategoryBudgets {
		if _, err := dbTx.ExecContext(ctx,
			`INSERT INTO category_budgets (category, budget_cents) VALUES (?, ?)`,
			core.NormalizeCategory(category), budget.Cents); err != nil {
			return fmt.Errorf("insert category budget: %w", err)
		}
	}

	if err := dbTx.Commit(); err != nil {
		return fmt.Errorf("commit save config: %w", err)
	}

	slog.InfoContext(ctx, "Manual config saved",
		"income_cents", cfg.Income.Cents,
		"fixed_expenses_cents", cfg.FixedExpenses.Cents,
		"budgets", len(cfg.CategoryBudgets))
	return nil
}

// ListGoals returns every savings goal.
func (r *SQLiteRepository) ListGoals(ctx context.Context) ([]core.Goal, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, name, target_cents, current_cents, status FROM goals ORDER BY created_at, id`)
	if err != nil {
		return nil, fmt.Errorf("list goals: %w", err)
	}
	defer rows.Close()

	var goals []core.Goal
	for rows.Next() {
		var (
			g      core.Goal
			status string
		)
		if err := rows.Scan(&g.ID, &g.Name, &g.Target.Cents, &g.Current.Cents, &status); err != nil {
			return nil, fmt.Errorf("scan goal: %w", err)
		}
		g.Status = core.GoalStatus(status)
		goals = append(goals, g)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate goals: %w", err)
	}
	return goals, nil
}

// Schedule is a recurring fixed-expense template; the materializer turns it
// into real future-dated transaction rows ahead of time.
type Schedule struct {
	ID                    string
	Category              string
	Amount                core.Money
	DayOfMonth            int
	Description           string
	Active                bool
	LastMaterializedMonth string
}

// ListActiveSchedules returns schedules that still generate rows.
func (r *SQLiteRepository) ListActiveSchedules(ctx context.Context) ([]Schedule, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, category, amount_cents, day_of_month, description, last_materialized_month
		FROM schedules WHERE active = 1 ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list schedules: %w", err)
	}
	defer rows.Close()

	var schedules []Schedule
	for rows.Next() {
		var s Schedule
		if err := rows.Scan(&s.ID, &s.Category, &s.Amount.Cents, &s.DayOfMonth,
			&s.Description, &s.LastMaterializedMonth); err != nil {
			return nil, fmt.Errorf("scan schedule: %w", err)
		}
		s.Active = true
		schedules = append(schedules, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate schedules: %w", err)
	}
	return schedules, nil
}

// CreateSchedule inserts a recurring fixed-expense template.
func (r *SQLiteRepository) CreateSchedule(ctx context.Context, s Schedule) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO schedules (id, category, amount_cents, day_of_month, description, active)
		VALUES (?, ?, ?, ?, ?, 1)`,
		s.ID, s.Category, s.Amount.Cents, s.DayOfMonth, s.Description)
	if err != nil {
		return fmt.Errorf("insert schedule: %w", err)
	}
	return nil
}

// MarkScheduleMaterialized records the latest month a schedule has rows for.
func (r *SQLiteRepository) MarkScheduleMaterialized(ctx context.Context, id, month string) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE schedules SET last_materialized_month = ? WHERE id = ?`, month, id)
	if err != nil {
		return fmt.Errorf("mark schedule materialized: %w", err)
	}
	return nil
}

// EnqueueReport adds a month to the export outbox.
func (r *SQLiteRepository) EnqueueReport(ctx context.Context, month string) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO report_queue (month, status) VALUES (?, 'pending')`, month)
	if err != nil {
		return fmt.Errorf("enqueue report: %w", err)
	}
	slog.InfoContext(ctx, "Report enqueued", "month", month)
	return nil
}

// PendingReport is one outbox entry awaiting export.
type PendingReport struct {
	ID       int64
	Month    string
	Attempts int
}

// ListPendingReports returns outbox entries to retry, oldest first.
func (r *SQLiteRepository) ListPendingReports(ctx context.Context, limit int) ([]PendingReport, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, month, attempts FROM report_queue
		WHERE status = 'pending' ORDER BY created_at LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("list pending reports: %w", err)
	}
	defer rows.Close()

	var pending []PendingReport
	for rows.Next() {
		var p PendingReport
		if err := rows.Scan(&p.ID, &p.Month, &p.Attempts); err != nil {
			return nil, fmt.Errorf("scan pending report: %w", err)
		}
		pending = append(pending, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate pending reports: %w", err)
	}
	return pending, nil
}

// MarkReportDone finishes an outbox entry.
func (r *SQLiteRepository) MarkReportDone(ctx context.Context, id int64) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE report_queue SET status = 'done', updated_at = CURRENT_TIMESTAMP WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("mark report done: %w", err)
	}
	return nil
}

// MarkReportError bumps the attempt counter; after maxAttempts the entry is
// parked as failed so the drain loop stops retrying it.
func (r *SQLiteRepository) MarkReportError(ctx context.Context, id int64, cause string, maxAttempts int) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE report_queue SET
			attempts = attempts + 1,
			last_error = ?,
			status = CASE WHEN attempts + 1 >= ? THEN 'failed' ELSE 'pending' END,
			updated_at = CURRENT_TIMESTAMP
		WHERE id = ?`, cause, maxAttempts, id)
	if err != nil {
		return fmt.Errorf("mark report error: %w", err)
	}
	slog.WarnContext(ctx, "Report export attempt failed", "id", id, "cause", cause)
	return nil
}

func boolToInt(b bool) int64 {
	if b {
		return 1
	}
	return 0
}
