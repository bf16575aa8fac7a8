package user

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/slashroll/slashroll/config"
	"github.com/slashroll/slashroll/internal/common"
	"github.com/slashroll/slashroll/internal/models"
	"github.com/slashroll/slashroll/pkg/responses"
	"github.com/slashroll/slashroll/utils"
)

const usernameTaken = "Username already exists"

// UserController manages team member accounts. Every route is superadmin only.
type UserController struct {
	repo      UserRepository
	appConfig *config.Config
}

func NewUserController(repo UserRepository, appConfig *config.Config) *UserController {
	return &UserController{repo: repo, appConfig: appConfig}
}

// GetUsers godoc
// @Summary List users
// @Tags Users
// @Produce json
// @Success 200 {array} UserResponse
// @Failure 403 {object} responses.ErrorResponse
// @Router /users [get]
func (uc *UserController) GetUsers(c *gin.Context) {
	ctx := c.Request.Context()
	users, err := uc.repo.List(ctx)
	if err != nil {
		responses.Fail(c, common.FromDB(err, "list users", ""))
		return
	}

	result := make([]UserResponse, 0, len(users))
	for i := range users {
		teams, err := uc.repo.TeamsOf(ctx, users[i].ID)
		if err != nil {
			responses.Fail(c, common.FromDB(err, "list user teams", ""))
			return
		}
		result = append(result, toResponse(&users[i], teams))
	}
	c.JSON(http.StatusOK, result)
}

// GetUser godoc
// @Summary Get a user
// @Tags Users
// @Produce json
// @Param id path int true "User ID"
// @Success 200 {object} UserResponse
// @Failure 404 {object} responses.ErrorResponse
// @Router /users/{id} [get]
func (uc *UserController) GetUser(c *gin.Context) {
	user, ok := uc.loadUser(c)
	if !ok {
		return
	}
	teams, err := uc.repo.TeamsOf(c.Request.Context(), user.ID)
	if err != nil {
		responses.Fail(c, common.FromDB(err, "list user teams", ""))
		return
	}
	c.JSON(http.StatusOK, toResponse(user, teams))
}

// CreateUser godoc
// @Summary Create a user
// @Tags Users
// @Accept json
// @Produce json
// @Param request body CreateUserRequest true "User"
// @Success 201 {object} UserResponse
// @Failure 400 {object} responses.ErrorResponse
// @Router /users [post]
func (uc *UserController) CreateUser(c *gin.Context) {
	var req CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.BindError(c, err)
		return
	}
	username := strings.TrimSpace(req.Username)
	if len(username) < 3 {
		responses.BadRequest(c, "Username must be at least 3 characters")
		return
	}

	ctx := c.Request.Context()
	if err := uc.checkUsername(ctx, username); err != nil {
		responses.Fail(c, err)
		return
	}

	hash, err := utils.HashPassword(req.Password, uc.appConfig.Session.BcryptCost)
	if err != nil {
		responses.Fail(c, err)
		return
	}

	user := models.User{Username: username, PasswordHash: hash}
	var teams []models.Team
	err = uc.repo.WithTransaction(ctx, func(tx UserRepository) error {
		if err := tx.Create(ctx, &user); err != nil {
			return common.FromDB(err, "create user", usernameTaken)
		}
		seen := map[uint]bool{}
		for _, teamID := range req.TeamIDs {
			if seen[teamID] {
				continue
			}
			seen[teamID] = true
			exists, err := tx.TeamExists(ctx, teamID)
			if err != nil {
				return err
			}
			if !exists {
				return common.NotFound("Team")
			}
			if err := tx.AssignTeam(ctx, user.ID, teamID); err != nil {
				return err
			}
		}
		assigned, err := tx.TeamsOf(ctx, user.ID)
		teams = assigned
		return err
	})
	if err != nil {
		responses.Fail(c, common.FromDB(err, "create user", usernameTaken))
		return
	}
	c.JSON(http.StatusCreated, toResponse(&user, teams))
}

// UpdateUser godoc
// @Summary Rename a user or reset its password
// @Tags Users
// @Accept json
// @Produce json
// @Param id path int true "User ID"
// @Param request body UpdateUserRequest true "Fields to change"
// @Success 200 {object} UserResponse
// @Failure 400 {object} responses.ErrorResponse
// @Failure 404 {object} responses.ErrorResponse
// @Router /users/{id} [put]
func (uc *UserController) UpdateUser(c *gin.Context) {
	user, ok := uc.loadUser(c)
	if !ok {
		return
	}

	var req UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.BindError(c, err)
		return
	}

	ctx := c.Request.Context()
	if req.Username != nil {
		username := strings.TrimSpace(*req.Username)
		if len(username) < 3 {
			responses.BadRequest(c, "Username must be at least 3 characters")
			return
		}
		if username != user.Username {
			if err := uc.checkUsername(ctx, username); err != nil {
				responses.Fail(c, err)
				return
			}
		}
		user.Username = username
	}
	if req.Password != nil {
		hash, err := utils.HashPassword(*req.Password, uc.appConfig.Session.BcryptCost)
		if err != nil {
			responses.Fail(c, err)
			return
		}
		user.PasswordHash = hash
	}

	if err := uc.repo.Update(ctx, user); err != nil {
		responses.Fail(c, common.FromDB(err, "update user", usernameTaken))
		return
	}
	teams, err := uc.repo.TeamsOf(ctx, user.ID)
	if err != nil {
		responses.Fail(c, common.FromDB(err, "list user teams", ""))
		return
	}
	c.JSON(http.StatusOK, toResponse(user, teams))
}

// DeleteUser godoc
// @Summary Delete a user
// @Tags Users
// @Produce json
// @Param id path int true "User ID"
// @Success 200 {object} responses.MessageResponse
// @Failure 404 {object} responses.ErrorResponse
// @Router /users/{id} [delete]
func (uc *UserController) DeleteUser(c *gin.Context) {
	user, ok := uc.loadUser(c)
	if !ok {
		return
	}
	ctx := c.Request.Context()
	err := uc.repo.WithTransaction(ctx, func(tx UserRepository) error {
		return tx.Delete(ctx, user.ID)
	})
	if err != nil {
		responses.Fail(c, common.FromDB(err, "delete user", ""))
		return
	}
	responses.SendMessage(c, http.StatusOK, "User deleted successfully")
}

// GetUserTeams godoc
// @Summary Teams assigned to a user
// @Tags Users
// @Produce json
// @Param id path int true "User ID"
// @Success 200 {array} models.Team
// @Failure 404 {object} responses.ErrorResponse
// @Router /users/{id}/teams [get]
func (uc *UserController) GetUserTeams(c *gin.Context) {
	user, ok := uc.loadUser(c)
	if !ok {
		return
	}
	teams, err := uc.repo.TeamsOf(c.Request.Context(), user.ID)
	if err != nil {
		responses.Fail(c, common.FromDB(err, "list user teams", ""))
		return
	}
	c.JSON(http.StatusOK, teams)
}

// AssignTeam godoc
// @Summary Assign a user to a team
// @Tags Users
// @Accept json
// @Produce json
// @Param id path int true "User ID"
// @Param request body AssignTeamRequest true "Team"
// @Success 201 {array} models.Team
// @Failure 400 {object} responses.ErrorResponse
// @Failure 404 {object} responses.ErrorResponse
// @Router /users/{id}/teams [post]
func (uc *UserController) AssignTeam(c *gin.Context) {
	user, ok := uc.loadUser(c)
	if !ok {
		return
	}

	var req AssignTeamRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.BindError(c, err)
		return
	}

	ctx := c.Request.Context()
	exists, err := uc.repo.TeamExists(ctx, req.TeamID)
	if err != nil {
		responses.Fail(c, common.FromDB(err, "check team", ""))
		return
	}
	if !exists {
		responses.NotFound(c, "Team")
		return
	}

	teams, err := uc.repo.TeamsOf(ctx, user.ID)
	if err != nil {
		responses.Fail(c, common.FromDB(err, "list user teams", ""))
		return
	}
	for _, t := range teams {
		if t.ID == req.TeamID {
			responses.Fail(c, common.Conflict("User is already assigned to this team"))
			return
		}
	}

	if err := uc.repo.AssignTeam(ctx, user.ID, req.TeamID); err != nil {
		responses.Fail(c, common.FromDB(err, "assign team", "User is already assigned to this team"))
		return
	}
	teams, err = uc.repo.TeamsOf(ctx, user.ID)
	if err != nil {
		responses.Fail(c, common.FromDB(err, "list user teams", ""))
		return
	}
	c.JSON(http.StatusCreated, teams)
}

// UnassignTeam godoc
// @Summary Remove a user from a team
// @Tags Users
// @Produce json
// @Param id path int true "User ID"
// @Param team_id path int true "Team ID"
// @Success 200 {object} responses.MessageResponse
// @Failure 404 {object} responses.ErrorResponse
// @Router /users/{id}/teams/{team_id} [delete]
func (uc *UserController) UnassignTeam(c *gin.Context) {
	user, ok := uc.loadUser(c)
	if !ok {
		return
	}
	teamID, ok := common.ParseID(c.Param("team_id"))
	if !ok {
		responses.BadRequest(c, "Invalid team ID")
		return
	}

	removed, err := uc.repo.UnassignTeam(c.Request.Context(), user.ID, teamID)
	if err != nil {
		responses.Fail(c, common.FromDB(err, "unassign team", ""))
		return
	}
	if !removed {
		responses.NotFound(c, "Team assignment")
		return
	}
	responses.SendMessage(c, http.StatusOK, "User removed from team")
}

// checkUsername rejects names held by another member or by an admin account,
// since login resolves admins first.
func (uc *UserController) checkUsername(ctx context.Context, username string) error {
	existing, err := uc.repo.GetByUsername(ctx, username)
	if err != nil {
		return common.FromDB(err, "check username", "")
	}
	if existing != nil {
		return common.Conflict(usernameTaken)
	}
	adminTaken, err := uc.repo.AdminUsernameExists(ctx, username)
	if err != nil {
		return common.FromDB(err, "check username", "")
	}
	if adminTaken {
		return common.Conflict(usernameTaken)
	}
	return nil
}

func (uc *UserController) loadUser(c *gin.Context) (*models.User, bool) {
	id, ok := common.ParseID(c.Param("id"))
	if !ok {
		responses.BadRequest(c, "Invalid user ID")
		return nil, false
	}
	user, err := uc.repo.GetByID(c.Request.Context(), id)
	if err != nil {
		responses.Fail(c, common.FromDB(err, "load user", ""))
		return nil, false
	}
	if user == nil {
		responses.NotFound(c, "User")
		return nil, false
	}
	return user, true
}
