package services_test

import (
	"context"
	"time"

	"github.com/icodeninjaX/coop-tracker-sub000/internal/core/domain"
	"github.com/icodeninjaX/coop-tracker-sub000/internal/core/finance"
	portssvc "github.com/icodeninjaX/coop-tracker-sub000/internal/core/ports/services"
	"github.com/shopspring/decimal"
)

// fakeSnapshotStore is a synchronous, in-memory SnapshotSvc for service
// tests. It applies mutations directly and recomputes derived state the way
// the real store does, without any persistence.
type fakeSnapshotStore struct {
	snap *domain.Snapshot
}

func newFakeSnapshotStore() *fakeSnapshotStore {
	return &fakeSnapshotStore{snap: domain.NewSnapshot()}
}

var _ portssvc.SnapshotSvc = (*fakeSnapshotStore)(nil)

func (f *fakeSnapshotStore) Get(ctx context.Context, userID string) (*domain.Snapshot, error) {
	return f.snap, nil
}

func (f *fakeSnapshotStore) Mutate(ctx context.Context, userID string, fn portssvc.MutateFunc) (*domain.Snapshot, error) {
	if err := fn(f.snap); err != nil {
		return nil, err
	}
	f.snap.LastUpdatedAt = time.Now().UTC()
	finance.Recompute(f.snap)
	return f.snap, nil
}

func (f *fakeSnapshotStore) FlushDirty(ctx context.Context) error { return nil }

func (f *fakeSnapshotStore) ActiveUserIDs() []string { return []string{"test-user"} }

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 12, 0, 0, 0, time.UTC)
}

func addMember(store *fakeSnapshotStore, id int, shares string) {
	store.snap.Members = append(store.snap.Members, domain.Member{
		MemberID:        id,
		Name:            "Member",
		CommittedShares: dec(shares),
	})
}

func addPeriod(store *fakeSnapshotStore, d time.Time) string {
	periodID := domain.PeriodIDForDate(d)
	store.snap.Periods = append(store.snap.Periods, domain.CollectionPeriod{
		PeriodID:            periodID,
		Date:                d,
		TotalCollected:      decimal.Zero,
		DefaultContribution: dec("100"),
	})
	return periodID
}
