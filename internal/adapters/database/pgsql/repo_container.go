package pgsql

import (
	portsrepo "github.com/icodeninjaX/coop-tracker-sub000/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5/pgxpool"
)

// NewRepositoryProvider wires the postgres-backed repositories. The snapshot
// cache slot is filled separately by the caller since it is sqlite-backed.
func NewRepositoryProvider(dbPool *pgxpool.Pool) portsrepo.RepositoryProvider {
	return portsrepo.RepositoryProvider{
		UserRepo:     newPgxUserRepository(dbPool),
		SnapshotRepo: newPgxSnapshotRepository(dbPool),
	}
}
