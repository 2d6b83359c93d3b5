package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/icodeninjaX/coop-tracker-sub000/internal/apperrors"
	"github.com/icodeninjaX/coop-tracker-sub000/internal/core/domain"
	"github.com/icodeninjaX/coop-tracker-sub000/internal/core/finance"
	portsrepo "github.com/icodeninjaX/coop-tracker-sub000/internal/core/ports/repositories"
	portssvc "github.com/icodeninjaX/coop-tracker-sub000/internal/core/ports/services"
)

const saveTimeout = 10 * time.Second

// snapshotService owns one in-memory snapshot per user. Mutations are
// serialized per user; persistence after a committed mutation is
// fire-and-forget and falls back to the local cache when the remote store
// is unreachable.
type snapshotService struct {
	remote portsrepo.SnapshotRepositoryFacade
	cache  portsrepo.SnapshotCache
	logger *slog.Logger

	mu      sync.Mutex
	entries map[string]*snapshotEntry
}

type snapshotEntry struct {
	mu   sync.Mutex
	snap *domain.Snapshot
}

// NewSnapshotService creates the snapshot store backing all coop services.
// cache may be nil, in which case failed remote saves are only logged.
func NewSnapshotService(remote portsrepo.SnapshotRepositoryFacade, cache portsrepo.SnapshotCache, logger *slog.Logger) portssvc.SnapshotSvc {
	return &snapshotService{
		remote:  remote,
		cache:   cache,
		logger:  logger,
		entries: make(map[string]*snapshotEntry),
	}
}

var _ portssvc.SnapshotSvc = (*snapshotService)(nil)

func (s *snapshotService) entry(userID string) *snapshotEntry {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.entries[userID]
	if !ok {
		e = &snapshotEntry{}
		s.entries[userID] = e
	}
	return e
}

// load fetches the user's snapshot from the remote store, falling back to
// the local cache, then to a fresh snapshot. The derived fields are always
// recomputed; persisted values are never trusted.
func (s *snapshotService) load(ctx context.Context, userID string) (*domain.Snapshot, error) {
	snap, err := s.remote.LoadSnapshot(ctx, userID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.logger.Warn("Remote snapshot load failed, trying local cache",
				slog.String("user_id", userID), slog.String("error", err.Error()))
			if s.cache != nil {
				if cached, cacheErr := s.cache.LoadSnapshot(ctx, userID); cacheErr == nil {
					finance.Recompute(cached)
					return cached, nil
				}
			}
			return nil, fmt.Errorf("%w: loading snapshot for user %s: %v", apperrors.ErrPersistence, userID, err)
		}
		snap = domain.NewSnapshot()
	}
	finance.Recompute(snap)
	return snap, nil
}

func (s *snapshotService) Get(ctx context.Context, userID string) (*domain.Snapshot, error) {
	e := s.entry(userID)
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.snap == nil {
		snap, err := s.load(ctx, userID)
		if err != nil {
			return nil, err
		}
		e.snap = snap
	}

	// Hand out a detached copy. The live snapshot is only ever touched under
	// the entry lock, so readers must not keep a pointer into it after the
	// lock is released.
	snap, err := cloneSnapshot(e.snap)
	if err != nil {
		return nil, fmt.Errorf("%w: detaching snapshot for user %s: %v", apperrors.ErrPersistence, userID, err)
	}
	return snap, nil
}

func (s *snapshotService) Mutate(ctx context.Context, userID string, fn portssvc.MutateFunc) (*domain.Snapshot, error) {
	e := s.entry(userID)
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.snap == nil {
		snap, err := s.load(ctx, userID)
		if err != nil {
			return nil, err
		}
		e.snap = snap
	}

	if err := fn(e.snap); err != nil {
		return nil, err
	}

	e.snap.LastUpdatedAt = time.Now().UTC()
	finance.Recompute(e.snap)

	// Detach a copy for the caller and the persistence goroutine: both only
	// read it, and neither may hold a pointer into the live snapshot once
	// the entry lock is released. The save never gates the mutation; a
	// failure is logged and the local cache keeps the data until the next
	// flush.
	copySnap, err := cloneSnapshot(e.snap)
	if err != nil {
		return nil, fmt.Errorf("%w: detaching snapshot for user %s: %v", apperrors.ErrPersistence, userID, err)
	}
	go s.persist(userID, copySnap)

	return copySnap, nil
}

// persist is the best-effort save path: remote first, local cache as
// fallback, dirty flag tracking what still awaits a remote write.
func (s *snapshotService) persist(userID string, snap *domain.Snapshot) {
	ctx, cancel := context.WithTimeout(context.Background(), saveTimeout)
	defer cancel()

	remoteErr := s.remote.SaveSnapshot(ctx, userID, snap)
	if remoteErr != nil {
		s.logger.Warn("Remote snapshot save failed, keeping local copy",
			slog.String("user_id", userID), slog.String("error", remoteErr.Error()))
	}

	if s.cache == nil {
		return
	}
	if err := s.cache.SaveSnapshot(ctx, userID, snap); err != nil {
		s.logger.Error("Local snapshot cache save failed",
			slog.String("user_id", userID), slog.String("error", err.Error()))
		return
	}
	if err := s.cache.MarkDirty(ctx, userID, remoteErr != nil); err != nil {
		s.logger.Error("Failed to update snapshot dirty flag",
			slog.String("user_id", userID), slog.String("error", err.Error()))
	}
}

func (s *snapshotService) FlushDirty(ctx context.Context) error {
	if s.cache == nil {
		return nil
	}
	userIDs, err := s.cache.DirtyUserIDs(ctx)
	if err != nil {
		return fmt.Errorf("listing dirty snapshots: %w", err)
	}

	for _, userID := range userIDs {
		snap, err := s.cache.LoadSnapshot(ctx, userID)
		if err != nil {
			s.logger.Error("Failed to load dirty snapshot from cache",
				slog.String("user_id", userID), slog.String("error", err.Error()))
			continue
		}
		if err := s.remote.SaveSnapshot(ctx, userID, snap); err != nil {
			s.logger.Warn("Retry of remote snapshot save failed",
				slog.String("user_id", userID), slog.String("error", err.Error()))
			continue
		}
		if err := s.cache.MarkDirty(ctx, userID, false); err != nil {
			s.logger.Error("Failed to clear snapshot dirty flag",
				slog.String("user_id", userID), slog.String("error", err.Error()))
			continue
		}
		s.logger.Info("Flushed locally cached snapshot to remote store", slog.String("user_id", userID))
	}
	return nil
}

func (s *snapshotService) ActiveUserIDs() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	ids := make([]string, 0, len(s.entries))
	for id, e := range s.entries {
		if e.snap != nil {
			ids = append(ids, id)
		}
	}
	return ids
}

// cloneSnapshot deep-copies a snapshot through its JSON form, the same
// representation the stores persist.
func cloneSnapshot(s *domain.Snapshot) (*domain.Snapshot, error) {
	raw, err := json.Marshal(s)
	if err != nil {
		return nil, err
	}
	var out domain.Snapshot
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
