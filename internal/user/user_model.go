package user

import (
	"time"

	"github.com/slashroll/slashroll/internal/models"
)

type CreateUserRequest struct {
	Username string `json:"username" binding:"required,min=3,max=80"`
	Password string `json:"password" binding:"required,min=8"`
	TeamIDs  []uint `json:"team_ids"`
}

type UpdateUserRequest struct {
	Username *string `json:"username" binding:"omitempty,min=3,max=80"`
	Password *string `json:"password" binding:"omitempty,min=8"`
}

type AssignTeamRequest struct {
	TeamID uint `json:"team_id" binding:"required"`
}

// UserResponse is a user with the teams it is assigned to.
type UserResponse struct {
	ID          uint          `json:"id"`
	Username    string        `json:"username"`
	DateCreated time.Time     `json:"date_created"`
	Teams       []models.Team `json:"teams"`
}

func toResponse(u *models.User, teams []models.Team) UserResponse {
	if teams == nil {
		teams = []models.Team{}
	}
	return UserResponse{ID: u.ID, Username: u.Username, DateCreated: u.CreatedAt, Teams: teams}
}
