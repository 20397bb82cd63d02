package backend

import (
	"context"

	"grana/internal/ledger"
)

// Backend bundles every ledger port the HTTP layer and workers need.
type Backend interface {
	ledger.TransactionReader
	ledger.TransactionWriter
	ledger.ConfigStore
	ledger.GoalReader
	ledger.SnapshotReader
}

// CleanupFunc represents a cleanup function for resources
type CleanupFunc func() error

// BackendResult contains the backend instance and optional cleanup function
type BackendResult struct {
	Backend Backend
	Cleanup CleanupFunc

	// Ledger is set for backends that orchestrate writes through the
	// ledger service (report requests, change notifications). Nil for the
	// memory backend.
	Ledger *LedgerHooks
}

// LedgerHooks exposes write-side orchestration to callers that need more
// than the ports.
type LedgerHooks struct {
	RequestReport func(ctx context.Context, month string) error
	OnChange      func(fn func())
}

// Factory creates backends based on configuration
type Factory interface {
	CreateBackend(ctx context.Context, config Config) (*BackendResult, error)
}

// Config holds configuration for backend creation
type Config struct {
	Type BackendType

	// SQLite specific
	SQLiteDBPath string
	AMQPURL      string
	AMQPExchange string
	LedgerQueue  string
	ReportQueue  string
}

// BackendType represents the type of backend
type BackendType string

const (
	SQLiteBackend BackendType = "sqlite"
	MemoryBackend BackendType = "memory"
)

// String implements fmt.Stringer
func (bt BackendType) String() string {
	return string(bt)
}

// IsValid returns true if the backend type is valid
func (bt BackendType) IsValid() bool {
	switch bt {
	case SQLiteBackend, MemoryBackend:
		return true
	default:
		return false
	}
}
