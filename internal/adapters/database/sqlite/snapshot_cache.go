package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/icodeninjaX/coop-tracker-sub000/internal/apperrors"
	"github.com/icodeninjaX/coop-tracker-sub000/internal/core/domain"
	portsrepo "github.com/icodeninjaX/coop-tracker-sub000/internal/core/ports/repositories"
	_ "github.com/mattn/go-sqlite3"
)

const schema = `
CREATE TABLE IF NOT EXISTS snapshots (
    user_id    TEXT PRIMARY KEY,
    data       BLOB NOT NULL,
    dirty      INTEGER NOT NULL DEFAULT 0,
    updated_at TEXT NOT NULL
);`

// SnapshotCache is the sqlite-backed local fallback store. It keeps working
// when the remote database is down and flags entries that still need a
// remote save.
type SnapshotCache struct {
	db *sql.DB
}

// NewSnapshotCache opens (or creates) the cache database at path.
func NewSnapshotCache(path string) (*SnapshotCache, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open snapshot cache at %s: %w", path, err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize snapshot cache schema: %w", err)
	}
	return &SnapshotCache{db: db}, nil
}

// Ensure SnapshotCache implements portsrepo.SnapshotCache
var _ portsrepo.SnapshotCache = (*SnapshotCache)(nil)

func (c *SnapshotCache) LoadSnapshot(ctx context.Context, userID string) (*domain.Snapshot, error) {
	var raw []byte
	err := c.db.QueryRowContext(ctx, `SELECT data FROM snapshots WHERE user_id = ?`, userID).Scan(&raw)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to load cached snapshot for user %s: %w", userID, err)
	}

	var snap domain.Snapshot
	if err := json.Unmarshal(raw, &snap); err != nil {
		return nil, fmt.Errorf("failed to decode cached snapshot for user %s: %w", userID, err)
	}
	return &snap, nil
}

func (c *SnapshotCache) SaveSnapshot(ctx context.Context, userID string, snapshot *domain.Snapshot) error {
	raw, err := json.Marshal(snapshot)
	if err != nil {
		return fmt.Errorf("failed to encode snapshot for user %s: %w", userID, err)
	}

	query := `
        INSERT INTO snapshots (user_id, data, updated_at)
        VALUES (?, ?, ?)
        ON CONFLICT (user_id) DO UPDATE SET
            data = excluded.data,
            updated_at = excluded.updated_at;
    `
	if _, err := c.db.ExecContext(ctx, query, userID, raw, time.Now().UTC().Format(time.RFC3339)); err != nil {
		return fmt.Errorf("failed to cache snapshot for user %s: %w", userID, err)
	}
	return nil
}

func (c *SnapshotCache) MarkDirty(ctx context.Context, userID string, dirty bool) error {
	flag := 0
	if dirty {
		flag = 1
	}
	if _, err := c.db.ExecContext(ctx, `UPDATE snapshots SET dirty = ? WHERE user_id = ?`, flag, userID); err != nil {
		return fmt.Errorf("failed to update dirty flag for user %s: %w", userID, err)
	}
	return nil
}

func (c *SnapshotCache) DirtyUserIDs(ctx context.Context) ([]string, error) {
	rows, err := c.db.QueryContext(ctx, `SELECT user_id FROM snapshots WHERE dirty = 1`)
	if err != nil {
		return nil, fmt.Errorf("failed to query dirty snapshots: %w", err)
	}
	defer rows.Close()

	var userIDs []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan dirty snapshot row: %w", err)
		}
		userIDs = append(userIDs, id)
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("error iterating dirty snapshot rows: %w", rows.Err())
	}
	return userIDs, nil
}

// Close releases the underlying database handle.
func (c *SnapshotCache) Close() error {
	return c.db.Close()
}
