package services

import (
	"log/slog"

	portsrepo "github.com/icodeninjaX/coop-tracker-sub000/internal/core/ports/repositories"
	portssvc "github.com/icodeninjaX/coop-tracker-sub000/internal/core/ports/services"
)

// NewServiceContainer wires every service over the shared snapshot store and
// returns the container the handlers depend on.
func NewServiceContainer(repos *portsrepo.RepositoryProvider, logger *slog.Logger) *portssvc.ServiceContainer {
	snapshots := NewSnapshotService(repos.SnapshotRepo, repos.SnapshotCache, logger)

	return &portssvc.ServiceContainer{
		User:       NewUserService(repos.UserRepo),
		Snapshot:   snapshots,
		Member:     NewMemberService(snapshots),
		Collection: NewCollectionService(snapshots),
		Loan:       NewLoanService(snapshots),
		Dividend:   NewDividendService(snapshots),
		Archive:    NewArchiveService(snapshots),
		Summary:    NewSummaryService(snapshots),
	}
}
