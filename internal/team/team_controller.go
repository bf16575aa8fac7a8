package team

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/slashroll/slashroll/internal/access"
	"github.com/slashroll/slashroll/internal/common"
	"github.com/slashroll/slashroll/internal/middleware"
	"github.com/slashroll/slashroll/internal/models"
	"github.com/slashroll/slashroll/pkg/responses"
)

const teamNameTaken = "Team name already exists"

// TeamController handles team-related HTTP requests
type TeamController struct {
	repo      TeamRepository
	accessSvc *access.Service
}

// NewTeamController creates a new team controller
func NewTeamController(repo TeamRepository, accessSvc *access.Service) *TeamController {
	return &TeamController{repo: repo, accessSvc: accessSvc}
}

// GetTeams godoc
// @Summary List permitted teams
// @Description Every team for the superadmin, the assigned teams for a member.
// @Tags Teams
// @Produce json
// @Success 200 {array} models.Team
// @Failure 401 {object} responses.ErrorResponse
// @Router /teams [get]
func (tc *TeamController) GetTeams(c *gin.Context) {
	principal, ok := middleware.CurrentPrincipal(c)
	if !ok {
		responses.Unauthorized(c, "")
		return
	}
	teams, err := tc.accessSvc.PermittedTeams(c.Request.Context(), principal)
	if err != nil {
		responses.Fail(c, err)
		return
	}
	c.JSON(http.StatusOK, teams)
}

// GetTeamByID godoc
// @Summary Get a team
// @Tags Teams
// @Produce json
// @Param id path int true "Team ID"
// @Success 200 {object} models.Team
// @Failure 403 {object} responses.ErrorResponse
// @Failure 404 {object} responses.ErrorResponse
// @Router /teams/{id} [get]
func (tc *TeamController) GetTeamByID(c *gin.Context) {
	team, ok := tc.loadTeam(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, team)
}

// CreateTeam godoc
// @Summary Create a team
// @Tags Teams
// @Accept json
// @Produce json
// @Param request body CreateTeamRequest true "Team"
// @Success 201 {object} models.Team
// @Failure 400 {object} responses.ErrorResponse
// @Failure 403 {object} responses.ErrorResponse
// @Router /teams [post]
func (tc *TeamController) CreateTeam(c *gin.Context) {
	var req CreateTeamRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.BindError(c, err)
		return
	}
	name := strings.TrimSpace(req.Name)
	if name == "" {
		responses.BadRequest(c, "Name is required")
		return
	}

	ctx := c.Request.Context()
	existing, err := tc.repo.GetTeamByName(ctx, name)
	if err != nil {
		responses.Fail(c, common.FromDB(err, "check team name", ""))
		return
	}
	if existing != nil {
		responses.Fail(c, common.Conflict(teamNameTaken))
		return
	}

	team := models.Team{Name: name, Description: strings.TrimSpace(req.Description)}
	if err := tc.repo.CreateTeam(ctx, &team); err != nil {
		responses.Fail(c, common.FromDB(err, "create team", teamNameTaken))
		return
	}
	c.JSON(http.StatusCreated, team)
}

// UpdateTeam godoc
// @Summary Update a team
// @Tags Teams
// @Accept json
// @Produce json
// @Param id path int true "Team ID"
// @Param request body UpdateTeamRequest true "Fields to change"
// @Success 200 {object} models.Team
// @Failure 400 {object} responses.ErrorResponse
// @Failure 403 {object} responses.ErrorResponse
// @Router /teams/{id} [put]
func (tc *TeamController) UpdateTeam(c *gin.Context) {
	team, ok := tc.loadTeam(c)
	if !ok {
		return
	}

	var req UpdateTeamRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.BindError(c, err)
		return
	}

	ctx := c.Request.Context()
	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			responses.BadRequest(c, "Name cannot be empty")
			return
		}
		if name != team.Name {
			existing, err := tc.repo.GetTeamByName(ctx, name)
			if err != nil {
				responses.Fail(c, common.FromDB(err, "check team name", ""))
				return
			}
			if existing != nil {
				responses.Fail(c, common.Conflict(teamNameTaken))
				return
			}
		}
		team.Name = name
	}
	if req.Description != nil {
		team.Description = strings.TrimSpace(*req.Description)
	}

	if err := tc.repo.UpdateTeam(ctx, team); err != nil {
		responses.Fail(c, common.FromDB(err, "update team", teamNameTaken))
		return
	}
	c.JSON(http.StatusOK, team)
}

// DeleteTeam godoc
// @Summary Delete a team
// @Description Refused while users are assigned to the team. Otherwise removes its seasons, players and battles.
// @Tags Teams
// @Produce json
// @Param id path int true "Team ID"
// @Success 200 {object} responses.MessageResponse
// @Failure 400 {object} responses.ErrorResponse
// @Failure 404 {object} responses.ErrorResponse
// @Router /teams/{id} [delete]
func (tc *TeamController) DeleteTeam(c *gin.Context) {
	id, ok := common.ParseID(c.Param("id"))
	if !ok {
		responses.BadRequest(c, "Invalid team ID")
		return
	}

	ctx := c.Request.Context()
	team, err := tc.repo.GetTeamByID(ctx, id)
	if err != nil {
		responses.Fail(c, common.FromDB(err, "load team", ""))
		return
	}
	if team == nil {
		responses.NotFound(c, "Team")
		return
	}

	err = tc.repo.WithTransaction(ctx, func(tx TeamRepository) error {
		assigned, err := tx.CountAssignedUsers(ctx, team.ID)
		if err != nil {
			return err
		}
		if assigned > 0 {
			return common.Conflict("Cannot delete team: %d user(s) are still assigned to it", assigned)
		}
		return tx.DeleteTeam(ctx, team.ID)
	})
	if err != nil {
		responses.Fail(c, common.FromDB(err, "delete team", ""))
		return
	}
	responses.SendMessage(c, http.StatusOK, "Team deleted successfully")
}

// loadTeam reads the team authorized by the team guard.
func (tc *TeamController) loadTeam(c *gin.Context) (*models.Team, bool) {
	team, err := tc.repo.GetTeamByID(c.Request.Context(), middleware.TeamID(c))
	if err != nil {
		responses.Fail(c, common.FromDB(err, "load team", ""))
		return nil, false
	}
	if team == nil {
		responses.NotFound(c, "Team")
		return nil, false
	}
	return team, true
}
