package repositories

import (
	"context"

	"github.com/icodeninjaX/coop-tracker-sub000/internal/core/domain"
)

// SnapshotReader defines read operations for persisted state snapshots.
type SnapshotReader interface {
	// LoadSnapshot retrieves the persisted snapshot for a user, or
	// apperrors.ErrNotFound when the user has never saved one.
	LoadSnapshot(ctx context.Context, userID string) (*domain.Snapshot, error)
}

// SnapshotWriter defines write operations for persisted state snapshots.
type SnapshotWriter interface {
	// SaveSnapshot persists the full snapshot for a user, replacing any
	// previous one (last write wins at blob granularity).
	SaveSnapshot(ctx context.Context, userID string, snapshot *domain.Snapshot) error
}

// SnapshotRepositoryFacade combines all snapshot repository interfaces.
type SnapshotRepositoryFacade interface {
	SnapshotReader
	SnapshotWriter
}

// SnapshotCache is the local fallback store used when the remote repository
// is unreachable. Dirty entries are flushed opportunistically later.
type SnapshotCache interface {
	SnapshotRepositoryFacade

	// MarkDirty flags a locally cached snapshot as not yet persisted remotely.
	MarkDirty(ctx context.Context, userID string, dirty bool) error

	// DirtyUserIDs lists users whose cached snapshot still awaits a remote save.
	DirtyUserIDs(ctx context.Context) ([]string, error)
}
