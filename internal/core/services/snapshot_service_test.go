package services_test

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"testing"

	"github.com/icodeninjaX/coop-tracker-sub000/internal/apperrors"
	"github.com/icodeninjaX/coop-tracker-sub000/internal/core/domain"
	portssvc "github.com/icodeninjaX/coop-tracker-sub000/internal/core/ports/services"
	"github.com/icodeninjaX/coop-tracker-sub000/internal/core/services"
	"github.com/stretchr/testify/suite"
)

// stubSnapshotRepo is an in-memory remote store for snapshot service tests.
// Saves arrive from the async persistence path, so access is locked.
type stubSnapshotRepo struct {
	mu    sync.Mutex
	saved map[string]*domain.Snapshot
}

func newStubSnapshotRepo() *stubSnapshotRepo {
	return &stubSnapshotRepo{saved: make(map[string]*domain.Snapshot)}
}

func (r *stubSnapshotRepo) LoadSnapshot(ctx context.Context, userID string) (*domain.Snapshot, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	snap, ok := r.saved[userID]
	if !ok {
		return nil, fmt.Errorf("%w: snapshot for user %s", apperrors.ErrNotFound, userID)
	}
	return snap, nil
}

func (r *stubSnapshotRepo) SaveSnapshot(ctx context.Context, userID string, snapshot *domain.Snapshot) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.saved[userID] = snapshot
	return nil
}

type SnapshotServiceTestSuite struct {
	suite.Suite
	repo    *stubSnapshotRepo
	service portssvc.SnapshotSvc
}

func (suite *SnapshotServiceTestSuite) SetupTest() {
	suite.repo = newStubSnapshotRepo()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	suite.service = services.NewSnapshotService(suite.repo, nil, logger)
}

func addMemberFn(id int) portssvc.MutateFunc {
	return func(snap *domain.Snapshot) error {
		snap.Members = append(snap.Members, domain.Member{MemberID: id, Name: "Member", CommittedShares: dec("10")})
		return nil
	}
}

func (suite *SnapshotServiceTestSuite) TestGet_ReturnsDetachedCopy() {
	ctx := context.Background()

	before, err := suite.service.Get(ctx, "user-1")
	suite.Require().NoError(err)
	suite.Empty(before.Members)

	_, err = suite.service.Mutate(ctx, "user-1", addMemberFn(1))
	suite.Require().NoError(err)

	// The earlier view is frozen; only a fresh Get sees the mutation.
	suite.Empty(before.Members)
	after, err := suite.service.Get(ctx, "user-1")
	suite.Require().NoError(err)
	suite.Len(after.Members, 1)
}

func (suite *SnapshotServiceTestSuite) TestMutate_ReturnsDetachedCopy() {
	ctx := context.Background()

	first, err := suite.service.Mutate(ctx, "user-1", addMemberFn(1))
	suite.Require().NoError(err)
	suite.Len(first.Members, 1)

	_, err = suite.service.Mutate(ctx, "user-1", addMemberFn(2))
	suite.Require().NoError(err)

	suite.Len(first.Members, 1)
}

func (suite *SnapshotServiceTestSuite) TestConcurrentReadsDuringMutations() {
	ctx := context.Background()
	const writes = 200

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := 1; i <= writes; i++ {
			_, err := suite.service.Mutate(ctx, "user-1", addMemberFn(i))
			suite.NoError(err)
		}
	}()

	// Readers walk their snapshot while the writer keeps appending; the
	// race detector flags this if Get ever hands out live state.
	for i := 0; i < writes; i++ {
		snap, err := suite.service.Get(ctx, "user-1")
		suite.Require().NoError(err)
		total := dec("0")
		for _, m := range snap.Members {
			total = total.Add(m.CommittedShares)
		}
		suite.False(total.IsNegative())
	}
	wg.Wait()

	final, err := suite.service.Get(ctx, "user-1")
	suite.Require().NoError(err)
	suite.Len(final.Members, writes)
}

func (suite *SnapshotServiceTestSuite) TestMutate_ErrorPropagates() {
	ctx := context.Background()

	_, err := suite.service.Mutate(ctx, "user-1", func(snap *domain.Snapshot) error {
		return fmt.Errorf("%w: rejected", apperrors.ErrValidation)
	})
	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)

	snap, err := suite.service.Get(ctx, "user-1")
	suite.Require().NoError(err)
	suite.Empty(snap.Members)
}

func TestSnapshotServiceTestSuite(t *testing.T) {
	suite.Run(t, new(SnapshotServiceTestSuite))
}
