package pgsql

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/icodeninjaX/coop-tracker-sub000/internal/apperrors"
	"github.com/icodeninjaX/coop-tracker-sub000/internal/core/domain"
	portsrepo "github.com/icodeninjaX/coop-tracker-sub000/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PgxSnapshotRepository persists each user's snapshot as one JSONB blob.
// Last write wins at blob granularity; there is no row-level merging.
type PgxSnapshotRepository struct {
	db *pgxpool.Pool
}

func newPgxSnapshotRepository(db *pgxpool.Pool) portsrepo.SnapshotRepositoryFacade {
	return &PgxSnapshotRepository{db: db}
}

// Ensure PgxSnapshotRepository implements portsrepo.SnapshotRepositoryFacade
var _ portsrepo.SnapshotRepositoryFacade = (*PgxSnapshotRepository)(nil)

func (r *PgxSnapshotRepository) LoadSnapshot(ctx context.Context, userID string) (*domain.Snapshot, error) {
	query := `
        SELECT data
        FROM snapshots
        WHERE user_id = $1;
    `
	var raw []byte
	err := r.db.QueryRow(ctx, query, userID).Scan(&raw)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to load snapshot for user %s: %w", userID, err)
	}

	var snap domain.Snapshot
	if err := json.Unmarshal(raw, &snap); err != nil {
		return nil, fmt.Errorf("failed to decode snapshot for user %s: %w", userID, err)
	}
	return &snap, nil
}

func (r *PgxSnapshotRepository) SaveSnapshot(ctx context.Context, userID string, snapshot *domain.Snapshot) error {
	raw, err := json.Marshal(snapshot)
	if err != nil {
		return fmt.Errorf("failed to encode snapshot for user %s: %w", userID, err)
	}

	query := `
        INSERT INTO snapshots (user_id, data, updated_at)
        VALUES ($1, $2, $3)
        ON CONFLICT (user_id) DO UPDATE SET
            data = EXCLUDED.data,
            updated_at = EXCLUDED.updated_at;
    `
	if _, err := r.db.Exec(ctx, query, userID, raw, time.Now().UTC()); err != nil {
		return fmt.Errorf("failed to save snapshot for user %s: %w", userID, err)
	}
	return nil
}
