package adapters

import (
	"context"

	"grana/internal/core"
	"grana/internal/ledger"
	"grana/internal/services"
	"grana/internal/storage"
)

// SQLiteAdapter adapts SQLiteRepository and LedgerService to the ledger
// ports so the HTTP handlers and workers depend on interfaces only.
type SQLiteAdapter struct {
	storage *storage.SQLiteRepository
	service *services.LedgerService
}

func NewSQLiteAdapter(storage *storage.SQLiteRepository, service *services.LedgerService) *SQLiteAdapter {
	return &SQLiteAdapter{
		storage: storage,
		service: service,
	}
}

// AppendTransaction implements ledger.TransactionWriter
func (a *SQLiteAdapter) AppendTransaction(ctx context.Context, tx core.Transaction) (string, error) {
	return a.service.CreateTransaction(ctx, tx)
}

// DeleteTransaction implements ledger.TransactionWriter
func (a *SQLiteAdapter) DeleteTransaction(ctx context.Context, id string) error {
	return a.service.DeleteTransaction(ctx, id)
}

// ListTransactions implements ledger.TransactionReader
func (a *SQLiteAdapter) ListTransactions(ctx context.Context) ([]core.Transaction, error) {
	return a.storage.ListTransactions(ctx)
}

// ReadConfig implements ledger.ConfigStore
func (a *SQLiteAdapter) ReadConfig(ctx context.Context) (*core.ManualConfig, error) {
	return a.storage.ReadConfig(ctx)
}

// SaveConfig implements ledger.ConfigStore
func (a *SQLiteAdapter) SaveConfig(ctx context.Context, cfg core.ManualConfig) error {
	return a.service.SaveConfig(ctx, cfg)
}

// ListGoals implements ledger.GoalReader
func (a *SQLiteAdapter) ListGoals(ctx context.Context) ([]core.Goal, error) {
	return a.storage.ListGoals(ctx)
}

// ReadSnapshot implements ledger.SnapshotReader
func (a *SQLiteAdapter) ReadSnapshot(ctx context.Context) (ledger.Snapshot, error) {
	txs, err := a.storage.ListTransactions(ctx)
	if err != nil {
		return ledger.Snapshot{}, err
	}
	cfg, err := a.storage.ReadConfig(ctx)
	if err != nil {
		return ledger.Snapshot{}, err
	}
	goals, err := a.storage.ListGoals(ctx)
	if err != nil {
		return ledger.Snapshot{}, err
	}
	return ledger.Snapshot{
		Transactions: txs,
		Config:       cfg,
		Goals:        goals,
	}, nil
}
