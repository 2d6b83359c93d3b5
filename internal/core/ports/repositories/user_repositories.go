package repositories

import (
	"context"

	"github.com/icodeninjaX/coop-tracker-sub000/internal/core/domain"
)

// UserReader defines read operations for user data.
type UserReader interface {
	// FindUserByID retrieves a specific user by their ID.
	FindUserByID(ctx context.Context, userID string) (*domain.User, error)

	// FindUserByUsername retrieves a specific user by username.
	FindUserByUsername(ctx context.Context, username string) (*domain.User, error)
}

// UserWriter defines write operations for user data.
type UserWriter interface {
	// SaveUser persists a new user.
	SaveUser(ctx context.Context, user domain.User) error
}

// UserRepositoryFacade combines all user-related repository interfaces.
type UserRepositoryFacade interface {
	UserReader
	UserWriter
}
