// Package store persists run history and the set of already-processed
// Dodge report numbers across runs, behind a driver-agnostic interface.
package store

import (
	"context"

	"github.com/sells-group/leads-cli/internal/model"
)

// Store is the persistence interface for the lead sync pipeline.
//
// The seen set is durable, append-only, and read whole at run start; the
// pipeline mutates an in-memory copy and hands new identifiers back via
// AddSeen at its commit point.
type Store interface {
	// Seen identifiers
	LoadSeen(ctx context.Context) ([]string, error)
	AddSeen(ctx context.Context, ids []string) error

	// Run history
	CreateRun(ctx context.Context) (*model.Run, error)
	CompleteRun(ctx context.Context, runID string, result *model.RunResult) error
	FailRun(ctx context.Context, runID string, result *model.RunResult) error
	ListRuns(ctx context.Context, limit int) ([]model.Run, error)

	// Lifecycle
	Migrate(ctx context.Context) error
	Close() error
}
