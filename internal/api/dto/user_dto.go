package dto

import "github.com/spec-kit/incident-portal/internal/domain"

// LoginRequest payload. Identity is selected by username only.
type LoginRequest struct {
	Username string `json:"username" form:"username"`
}

// UserResponse response.
type UserResponse struct {
	ID       int64       `json:"id"`
	Username string      `json:"username"`
	Role     domain.Role `json:"role"`
}
