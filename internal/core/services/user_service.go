package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/icodeninjaX/coop-tracker-sub000/internal/apperrors"
	"github.com/icodeninjaX/coop-tracker-sub000/internal/core/domain"
	portsrepo "github.com/icodeninjaX/coop-tracker-sub000/internal/core/ports/repositories"
	portssvc "github.com/icodeninjaX/coop-tracker-sub000/internal/core/ports/services"
	"github.com/icodeninjaX/coop-tracker-sub000/internal/dto"
	"github.com/icodeninjaX/coop-tracker-sub000/internal/middleware"
	"github.com/icodeninjaX/coop-tracker-sub000/internal/utils"
)

// userService provides user account management and authentication.
type userService struct {
	users portsrepo.UserRepositoryFacade
}

// NewUserService creates a new UserService.
func NewUserService(users portsrepo.UserRepositoryFacade) portssvc.UserSvcFacade {
	return &userService{users: users}
}

var _ portssvc.UserSvcFacade = (*userService)(nil)

func (s *userService) CreateUser(ctx context.Context, req dto.CreateUserRequest) (*domain.User, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	existing, err := s.users.FindUserByUsername(ctx, req.Username)
	if err != nil && !errors.Is(err, apperrors.ErrNotFound) {
		return nil, fmt.Errorf("checking username availability: %w", err)
	}
	if existing != nil {
		return nil, fmt.Errorf("%w: username %s is taken", apperrors.ErrDuplicate, req.Username)
	}

	hash, err := utils.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("hashing password: %w", err)
	}

	now := time.Now().UTC()
	user := domain.User{
		UserID:       uuid.NewString(),
		Username:     req.Username,
		Name:         req.Name,
		PasswordHash: hash,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			LastUpdatedAt: now,
		},
	}
	user.CreatedBy = user.UserID
	user.LastUpdatedBy = user.UserID

	if err := s.users.SaveUser(ctx, user); err != nil {
		return nil, fmt.Errorf("saving user: %w", err)
	}

	logger.Info("User registered", slog.String("user_id", user.UserID), slog.String("username", user.Username))
	return &user, nil
}

func (s *userService) GetUserByID(ctx context.Context, userID string) (*domain.User, error) {
	return s.users.FindUserByID(ctx, userID)
}

func (s *userService) GetUserByUsername(ctx context.Context, username string) (*domain.User, error) {
	return s.users.FindUserByUsername(ctx, username)
}

// AuthenticateUser verifies credentials. Both an unknown username and a bad
// password return ErrNotFound so callers cannot probe for valid usernames.
func (s *userService) AuthenticateUser(ctx context.Context, username, password string) (*domain.User, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	user, err := s.users.FindUserByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("%w: invalid credentials", apperrors.ErrNotFound)
		}
		return nil, fmt.Errorf("looking up user: %w", err)
	}

	if !utils.CheckPasswordHash(password, user.PasswordHash) {
		logger.Warn("Failed login attempt", slog.String("username", username))
		return nil, fmt.Errorf("%w: invalid credentials", apperrors.ErrNotFound)
	}
	return user, nil
}
