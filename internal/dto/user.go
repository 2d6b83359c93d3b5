package dto

import (
	"github.com/icodeninjaX/coop-tracker-sub000/internal/core/domain"
)

// CreateUserRequest defines the data needed to register a user.
type CreateUserRequest struct {
	Username string `json:"username" binding:"required,min=3"`
	Password string `json:"password" binding:"required,min=8"`
	Name     string `json:"name" binding:"required"`
}

// LoginRequest defines the credentials for a login attempt.
type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// UserResponse defines the data returned for a user.
type UserResponse struct {
	UserID   string `json:"userID"`
	Username string `json:"username"`
	Name     string `json:"name"`
}

// ToUserResponse converts a domain.User to UserResponse DTO.
func ToUserResponse(user *domain.User) UserResponse {
	return UserResponse{
		UserID:   user.UserID,
		Username: user.Username,
		Name:     user.Name,
	}
}
