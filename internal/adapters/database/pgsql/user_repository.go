package pgsql

import (
	"context"
	"errors"
	"fmt"

	"github.com/icodeninjaX/coop-tracker-sub000/internal/apperrors"
	"github.com/icodeninjaX/coop-tracker-sub000/internal/core/domain"
	portsrepo "github.com/icodeninjaX/coop-tracker-sub000/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PgxUserRepository struct {
	db *pgxpool.Pool
}

func newPgxUserRepository(db *pgxpool.Pool) portsrepo.UserRepositoryFacade {
	return &PgxUserRepository{db: db}
}

// Ensure PgxUserRepository implements portsrepo.UserRepositoryFacade
var _ portsrepo.UserRepositoryFacade = (*PgxUserRepository)(nil)

func (r *PgxUserRepository) SaveUser(ctx context.Context, user domain.User) error {
	query := `
        INSERT INTO users (user_id, username, password_hash, name, created_at, created_by, last_updated_at, last_updated_by)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
        ON CONFLICT (user_id) DO UPDATE SET
            name = EXCLUDED.name,
            password_hash = EXCLUDED.password_hash,
            last_updated_at = EXCLUDED.last_updated_at,
            last_updated_by = EXCLUDED.last_updated_by;
    `
	_, err := r.db.Exec(ctx, query,
		user.UserID,
		user.Username,
		user.PasswordHash,
		user.Name,
		user.CreatedAt,
		user.CreatedBy,
		user.LastUpdatedAt,
		user.LastUpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to save user: %w", err)
	}
	return nil
}

func (r *PgxUserRepository) FindUserByID(ctx context.Context, userID string) (*domain.User, error) {
	query := `
        SELECT user_id, username, password_hash, name, created_at, created_by, last_updated_at, last_updated_by
        FROM users
        WHERE user_id = $1;
    `
	return r.scanUser(r.db.QueryRow(ctx, query, userID))
}

func (r *PgxUserRepository) FindUserByUsername(ctx context.Context, username string) (*domain.User, error) {
	query := `
        SELECT user_id, username, password_hash, name, created_at, created_by, last_updated_at, last_updated_by
        FROM users
        WHERE username = $1;
    `
	return r.scanUser(r.db.QueryRow(ctx, query, username))
}

func (r *PgxUserRepository) scanUser(row pgx.Row) (*domain.User, error) {
	var user domain.User
	err := row.Scan(
		&user.UserID,
		&user.Username,
		&user.PasswordHash,
		&user.Name,
		&user.CreatedAt,
		&user.CreatedBy,
		&user.LastUpdatedAt,
		&user.LastUpdatedBy,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to scan user row: %w", err)
	}
	return &user, nil
}
