package dto

import (
	"github.com/mustafajawed/Budget-Manager/internal/core/domain"
)

// RegisterRequest defines the data needed to create a new account.
type RegisterRequest struct {
	Email       string `json:"email" binding:"required,email"`
	Password    string `json:"password" binding:"required,min=6"`
	DisplayName string `json:"displayName" binding:"required"`
}

// LoginRequest defines the login credentials.
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// UserResponse defines the identity data returned to clients.
type UserResponse struct {
	UserID      string `json:"userID"`
	Email       string `json:"email"`
	DisplayName string `json:"displayName"`
}

// LoginResponse is returned on successful login.
type LoginResponse struct {
	Token string       `json:"token"`
	User  UserResponse `json:"user"`
}

// ToUserResponse converts a domain.User to UserResponse DTO
func ToUserResponse(u *domain.User) UserResponse {
	return UserResponse{
		UserID:      u.UserID,
		Email:       u.Email,
		DisplayName: u.DisplayName,
	}
}
