// Package memory is an in-process ledger backend. It backs the dev setup
// and handler tests; nothing here survives a restart.
package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"grana/internal/core"
	"grana/internal/ledger"
)

type Store struct {
	mu    sync.Mutex
	txs   []core.Transaction
	cfg   *core.ManualConfig
	goals []core.Goal
}

func New() *Store {
	return &Store{}
}

// Seed pre-loads transactions and goals, mostly for tests.
func (s *Store) Seed(txs []core.Transaction, cfg *core.ManualConfig, goals []core.Goal) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.txs = append([]core.Transaction(nil), txs...)
	s.cfg = cfg
	s.goals = append([]core.Goal(nil), goals...)
}

// AppendTransaction implements ledger.TransactionWriter
func (s *Store) AppendTransaction(_ context.Context, tx core.Transaction) (string, error) {
	tx.Category = core.NormalizeCategory(tx.Category)
	if err := tx.Validate(); err != nil {
		return "", err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	tx.ID = uuid.NewString()
	tx.Month = tx.ResolvedMonth()
	s.txs = append(s.txs, tx)
	return tx.ID, nil
}

// DeleteTransaction implements ledger.TransactionWriter
func (s *Store) DeleteTransaction(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, tx := range s.txs {
		if tx.ID == id {
			s.txs = append(s.txs[:i], s.txs[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("transaction %s: %w", id, ledger.ErrNotFound)
}

// ListTransactions implements ledger.TransactionReader
func (s *Store) ListTransactions(_ context.Context) ([]core.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]core.Transaction(nil), s.txs...), nil
}

// ReadConfig implements ledger.ConfigStore
func (s *Store) ReadConfig(_ context.Context) (*core.ManualConfig, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cfg == nil {
		return nil, nil
	}
	copied := *s.cfg
	return &copied, nil
}

// SaveConfig implements ledger.ConfigStore
func (s *Store) SaveConfig(_ context.Context, cfg core.ManualConfig) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cfg = &cfg
	return nil
}

// ListGoals implements ledger.GoalReader
func (s *Store) ListGoals(_ context.Context) ([]core.Goal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]core.Goal(nil), s.goals...), nil
}

// ReadSnapshot implements ledger.SnapshotReader
func (s *Store) ReadSnapshot(ctx context.Context) (ledger.Snapshot, error) {
	txs, err := s.ListTransactions(ctx)
	if err != nil {
		return ledger.Snapshot{}, err
	}
	cfg, err := s.ReadConfig(ctx)
	if err != nil {
		return ledger.Snapshot{}, err
	}
	goals, err := s.ListGoals(ctx)
	if err != nil {
		return ledger.Snapshot{}, err
	}
	return ledger.Snapshot{Transactions: txs, Config: cfg, Goals: goals}, nil
}
