package player

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/slashroll/slashroll/internal/common"
	"github.com/slashroll/slashroll/internal/middleware"
	"github.com/slashroll/slashroll/internal/models"
	"github.com/slashroll/slashroll/pkg/responses"
)

// PlayerController handles player-related HTTP requests
type PlayerController struct {
	repo PlayerRepository
}

// NewPlayerController creates a new player controller
func NewPlayerController(repo PlayerRepository) *PlayerController {
	return &PlayerController{repo: repo}
}

// --- DTOs for requests ---

type CreatePlayerRequest struct {
	Name   string              `json:"name" binding:"required,min=1,max=100"`
	GameID *string             `json:"game_id" binding:"omitempty,max=100"`
	Status models.PlayerStatus `json:"status" binding:"omitempty,oneof=active inactive"`
}

type UpdatePlayerRequest struct {
	Name   *string `json:"name" binding:"omitempty,min=1,max=100"`
	GameID *string `json:"game_id" binding:"omitempty,max=100"`
}

type UpdateStatusRequest struct {
	Status models.PlayerStatus `json:"status" binding:"required,oneof=active inactive"`
}

// PlayerWithSeasons is the management view of a player.
type PlayerWithSeasons struct {
	models.Player
	Seasons []SeasonRef `json:"seasons"`
}

// normalizeGameID trims the id; blank ids are stored as NULL.
func normalizeGameID(gameID *string) *string {
	if gameID == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*gameID)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}

// checkGameID rejects a game id already used by another player of the team.
func (pc *PlayerController) checkGameID(c *gin.Context, teamID uint, gameID *string, selfID uint) error {
	if gameID == nil {
		return nil
	}
	existing, err := pc.repo.GetByGameID(c.Request.Context(), teamID, *gameID)
	if err != nil {
		return common.FromDB(err, "check game id", "")
	}
	if existing != nil && existing.ID != selfID {
		return common.Conflict("Game ID is already used by player: %s", existing.Name)
	}
	return nil
}

func (pc *PlayerController) loadPlayer(c *gin.Context) (*models.Player, bool) {
	id, ok := common.ParseID(c.Param("id"))
	if !ok {
		responses.BadRequest(c, "Invalid player ID")
		return nil, false
	}
	player, err := pc.repo.GetByID(c.Request.Context(), middleware.TeamID(c), id)
	if err != nil {
		responses.Fail(c, common.FromDB(err, "load player", ""))
		return nil, false
	}
	if player == nil {
		responses.NotFound(c, "Player")
		return nil, false
	}
	return player, true
}

// GetPlayers godoc
// @Summary List players
// @Description Players of the team. status defaults to active; "all" adds the seasons each player is tied to.
// @Tags Players
// @Produce json
// @Param team_id query int true "Team ID"
// @Param status query string false "active, inactive or all"
// @Param season_id query int false "Season ID"
// @Success 200 {array} models.Player
// @Failure 400 {object} responses.ErrorResponse
// @Failure 403 {object} responses.ErrorResponse
// @Router /players [get]
func (pc *PlayerController) GetPlayers(c *gin.Context) {
	seasonID, ok := common.ParseOptionalID(c.Query("season_id"))
	if !ok {
		responses.BadRequest(c, "Invalid season_id")
		return
	}

	filter := PlayerFilter{SeasonID: seasonID}
	status := c.DefaultQuery("status", string(models.PlayerActive))
	if status != "all" {
		st := models.PlayerStatus(status)
		if !st.Valid() {
			responses.BadRequest(c, "Status must be active, inactive or all")
			return
		}
		filter.Status = &st
	}

	ctx := c.Request.Context()
	players, err := pc.repo.List(ctx, middleware.TeamID(c), filter)
	if err != nil {
		responses.Fail(c, common.FromDB(err, "list players", ""))
		return
	}

	if filter.Status != nil {
		c.JSON(http.StatusOK, players)
		return
	}

	result := make([]PlayerWithSeasons, 0, len(players))
	for i := range players {
		seasons, err := pc.repo.SeasonsOf(ctx, &players[i])
		if err != nil {
			responses.Fail(c, common.FromDB(err, "list player seasons", ""))
			return
		}
		result = append(result, PlayerWithSeasons{Player: players[i], Seasons: seasons})
	}
	c.JSON(http.StatusOK, result)
}

// CreatePlayer godoc
// @Summary Add a player
// @Tags Players
// @Accept json
// @Produce json
// @Param team_id query int true "Team ID"
// @Param request body CreatePlayerRequest true "Player"
// @Success 201 {object} models.Player
// @Failure 400 {object} responses.ErrorResponse
// @Router /players [post]
func (pc *PlayerController) CreatePlayer(c *gin.Context) {
	var req CreatePlayerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.BindError(c, err)
		return
	}
	name := strings.TrimSpace(req.Name)
	if name == "" {
		responses.BadRequest(c, "Name is required")
		return
	}

	teamID := middleware.TeamID(c)
	gameID := normalizeGameID(req.GameID)
	if err := pc.checkGameID(c, teamID, gameID, 0); err != nil {
		responses.Fail(c, err)
		return
	}

	status := req.Status
	if status == "" {
		status = models.PlayerActive
	}
	player := models.Player{Name: name, GameID: gameID, Status: status, TeamID: teamID}
	if err := pc.repo.Create(c.Request.Context(), &player); err != nil {
		responses.Fail(c, common.FromDB(err, "create player", "Game ID is already used by another player"))
		return
	}
	c.JSON(http.StatusCreated, player)
}

// UpdatePlayer godoc
// @Summary Update a player
// @Tags Players
// @Accept json
// @Produce json
// @Param id path int true "Player ID"
// @Param team_id query int true "Team ID"
// @Param request body UpdatePlayerRequest true "Fields to change"
// @Success 200 {object} models.Player
// @Failure 400 {object} responses.ErrorResponse
// @Failure 404 {object} responses.ErrorResponse
// @Router /players/{id} [put]
func (pc *PlayerController) UpdatePlayer(c *gin.Context) {
	player, ok := pc.loadPlayer(c)
	if !ok {
		return
	}

	var req UpdatePlayerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.BindError(c, err)
		return
	}

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			responses.BadRequest(c, "Name cannot be empty")
			return
		}
		player.Name = name
	}
	if req.GameID != nil {
		gameID := normalizeGameID(req.GameID)
		if err := pc.checkGameID(c, player.TeamID, gameID, player.ID); err != nil {
			responses.Fail(c, err)
			return
		}
		player.GameID = gameID
	}

	if err := pc.repo.Update(c.Request.Context(), player); err != nil {
		responses.Fail(c, common.FromDB(err, "update player", "Game ID is already used by another player"))
		return
	}
	c.JSON(http.StatusOK, player)
}

// DeletePlayer godoc
// @Summary Delete a player
// @Description Removes the player together with its roster slots and battle participations.
// @Tags Players
// @Produce json
// @Param id path int true "Player ID"
// @Param team_id query int true "Team ID"
// @Success 200 {object} responses.MessageResponse
// @Failure 404 {object} responses.ErrorResponse
// @Router /players/{id} [delete]
func (pc *PlayerController) DeletePlayer(c *gin.Context) {
	player, ok := pc.loadPlayer(c)
	if !ok {
		return
	}

	err := pc.repo.WithTransaction(c.Request.Context(), func(tx PlayerRepository) error {
		return tx.Delete(c.Request.Context(), player.ID)
	})
	if err != nil {
		responses.Fail(c, common.FromDB(err, "delete player", ""))
		return
	}
	responses.SendMessage(c, http.StatusOK, "Player deleted successfully")
}

// UpdatePlayerStatus godoc
// @Summary Activate or deactivate a player
// @Description Deactivating a player frees every roster slot it holds.
// @Tags Players
// @Accept json
// @Produce json
// @Param id path int true "Player ID"
// @Param team_id query int true "Team ID"
// @Param request body UpdateStatusRequest true "New status"
// @Success 200 {object} models.Player
// @Failure 400 {object} responses.ErrorResponse
// @Failure 404 {object} responses.ErrorResponse
// @Router /players/{id}/status [put]
func (pc *PlayerController) UpdatePlayerStatus(c *gin.Context) {
	player, ok := pc.loadPlayer(c)
	if !ok {
		return
	}

	var req UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.BadRequest(c, "Status must be active or inactive")
		return
	}

	ctx := c.Request.Context()
	err := pc.repo.WithTransaction(ctx, func(tx PlayerRepository) error {
		if err := tx.SetStatus(ctx, player.ID, req.Status); err != nil {
			return err
		}
		if req.Status == models.PlayerInactive {
			return tx.ClearRoster(ctx, player.ID)
		}
		return nil
	})
	if err != nil {
		responses.Fail(c, common.FromDB(err, "update player status", ""))
		return
	}

	player.Status = req.Status
	if req.Status == models.PlayerInactive {
		player.RosterPosition = nil
	}
	c.JSON(http.StatusOK, player)
}

// GetBattleStats godoc
// @Summary Player battle totals
// @Tags Players
// @Produce json
// @Param id path int true "Player ID"
// @Param team_id query int true "Team ID"
// @Param season_id query int false "Season ID"
// @Success 200 {object} BattleStats
// @Failure 404 {object} responses.ErrorResponse
// @Router /players/{id}/battle-stats [get]
func (pc *PlayerController) GetBattleStats(c *gin.Context) {
	seasonID, ok := common.ParseOptionalID(c.Query("season_id"))
	if !ok {
		responses.BadRequest(c, "Invalid season_id")
		return
	}
	player, ok := pc.loadPlayer(c)
	if !ok {
		return
	}

	stats, err := pc.repo.BattleStats(c.Request.Context(), player, seasonID)
	if err != nil {
		responses.Fail(c, common.FromDB(err, "player battle stats", ""))
		return
	}
	c.JSON(http.StatusOK, stats)
}
