package auth

import (
	"time"

	"github.com/slashroll/slashroll/internal/access"
	"github.com/slashroll/slashroll/internal/models"
)

type LoginRequest struct {
	Username string `json:"username" binding:"required" example:"nova"`
	Password string `json:"password" binding:"required" example:"password123"`
}

// StatusResponse describes the current session to the frontend.
type StatusResponse struct {
	Authenticated bool              `json:"authenticated"`
	User          *access.Principal `json:"user"`
	Teams         []models.Team     `json:"teams,omitempty"`
	ExpiresAt     *time.Time        `json:"expires_at,omitempty"`
}
