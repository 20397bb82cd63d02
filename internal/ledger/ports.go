// Package ledger defines the outbound ports the application depends on.
// The engine itself never touches storage; everything it consumes arrives
// through these interfaces as point-in-time snapshots.
package ledger

import (
	"context"
	"errors"

	"grana/internal/core"
)

// ErrNotFound is returned by any port when a requested entity does not
// exist or was already deleted.
var ErrNotFound = errors.New("not found")

type (
	// TransactionReader supplies the deduplicated transaction snapshot for
	// the current user. Access control happens upstream.
	TransactionReader interface {
		ListTransactions(ctx context.Context) ([]core.Transaction, error)
	}

	TransactionWriter interface {
		AppendTransaction(ctx context.Context, tx core.Transaction) (id string, err error)
		DeleteTransaction(ctx context.Context, id string) error
	}

	// ConfigStore reads and replaces the single manual-configuration
	// snapshot. Read returns nil when the user never saved one.
	ConfigStore interface {
		ReadConfig(ctx context.Context) (*core.ManualConfig, error)
		SaveConfig(ctx context.Context, cfg core.ManualConfig) error
	}

	GoalReader interface {
		ListGoals(ctx context.Context) ([]core.Goal, error)
	}

	// Snapshot bundles everything the engine needs for one computation.
	Snapshot struct {
		Transactions []core.Transaction
		Config       *core.ManualConfig
		Goals        []core.Goal
	}

	// SnapshotReader loads a consistent point-in-time snapshot.
	SnapshotReader interface {
		ReadSnapshot(ctx context.Context) (Snapshot, error)
	}
)
