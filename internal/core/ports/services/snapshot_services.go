package services

import (
	"context"

	"github.com/icodeninjaX/coop-tracker-sub000/internal/core/domain"
)

// MutateFunc applies one state transition to a snapshot. Returning an error
// aborts the call and nothing is persisted; the function runs against live
// state, so it must validate before it writes.
type MutateFunc func(*domain.Snapshot) error

// SnapshotSvc owns the in-memory snapshot per user and its persistence.
// Mutations are serialized per user and fully applied one at a time; the
// save after a committed mutation is best-effort and never blocks or fails
// the mutation itself.
type SnapshotSvc interface {
	// Get returns a detached copy of the user's snapshot, loading it from
	// the remote store (or the local cache as fallback) on first access. A
	// fresh snapshot is returned for users with no persisted state. The
	// copy stays valid while later mutations run.
	Get(ctx context.Context, userID string) (*domain.Snapshot, error)

	// Mutate applies fn to the user's snapshot, recomputes derived state,
	// and schedules a best-effort save. A detached copy of the updated
	// snapshot is returned.
	Mutate(ctx context.Context, userID string, fn MutateFunc) (*domain.Snapshot, error)

	// FlushDirty retries remote persistence for snapshots that only made it
	// to the local cache.
	FlushDirty(ctx context.Context) error

	// ActiveUserIDs lists users with a snapshot currently held in memory.
	ActiveUserIDs() []string
}
