package roster

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/slashroll/slashroll/internal/common"
	"github.com/slashroll/slashroll/internal/middleware"
	"github.com/slashroll/slashroll/pkg/responses"
)

// RosterController handles slot assignment requests.
type RosterController struct {
	svc *Service
}

func NewRosterController(svc *Service) *RosterController {
	return &RosterController{svc: svc}
}

// AssignRosterRequest sets (position) or clears (null position) a slot.
type AssignRosterRequest struct {
	Position *int  `json:"position"`
	SeasonID *uint `json:"season_id"`
}

type SwapRosterRequest struct {
	Player1ID uint `json:"player1_id" binding:"required"`
	Player2ID uint `json:"player2_id" binding:"required"`
	SeasonID  uint `json:"season_id" binding:"required"`
}

// UpdateRosterPosition godoc
// @Summary Assign or clear a roster slot
// @Description Moves the player into position for the season, displacing the previous holder. A null position removes the player's slot; without season_id the legacy position is cleared.
// @Tags Roster
// @Accept json
// @Produce json
// @Param id path int true "Player ID"
// @Param team_id query int true "Team ID"
// @Param request body AssignRosterRequest true "Slot"
// @Success 200 {object} models.Player
// @Failure 400 {object} responses.ErrorResponse
// @Failure 403 {object} responses.ErrorResponse
// @Failure 404 {object} responses.ErrorResponse
// @Router /players/{id}/roster [put]
func (rc *RosterController) UpdateRosterPosition(c *gin.Context) {
	playerID, ok := common.ParseID(c.Param("id"))
	if !ok {
		responses.BadRequest(c, "Invalid player ID")
		return
	}

	var req AssignRosterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.BindError(c, err)
		return
	}

	teamID := middleware.TeamID(c)
	if req.Position == nil {
		player, err := rc.svc.Unassign(c.Request.Context(), teamID, playerID, req.SeasonID)
		if err != nil {
			responses.Fail(c, err)
			return
		}
		c.JSON(http.StatusOK, player)
		return
	}

	if req.SeasonID == nil {
		responses.BadRequest(c, "season_id is required")
		return
	}
	player, err := rc.svc.Assign(c.Request.Context(), teamID, playerID, *req.SeasonID, *req.Position)
	if err != nil {
		responses.Fail(c, err)
		return
	}
	c.JSON(http.StatusOK, player)
}

// SwapRosterPositions godoc
// @Summary Swap two roster slots
// @Tags Roster
// @Accept json
// @Produce json
// @Param team_id query int true "Team ID"
// @Param request body SwapRosterRequest true "Players to swap"
// @Success 200 {object} SwapResult
// @Failure 400 {object} responses.ErrorResponse
// @Failure 404 {object} responses.ErrorResponse
// @Router /players/swap-roster [put]
func (rc *RosterController) SwapRosterPositions(c *gin.Context) {
	var req SwapRosterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.BindError(c, err)
		return
	}

	result, err := rc.svc.Swap(c.Request.Context(), middleware.TeamID(c), req.Player1ID, req.Player2ID, req.SeasonID)
	if err != nil {
		responses.Fail(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// GetRoster godoc
// @Summary Season roster
// @Description Active players holding a slot in the season, ordered by position.
// @Tags Roster
// @Produce json
// @Param team_id query int true "Team ID"
// @Param season_id query int true "Season ID"
// @Success 200 {array} models.Player
// @Failure 400 {object} responses.ErrorResponse
// @Failure 404 {object} responses.ErrorResponse
// @Router /players/roster [get]
func (rc *RosterController) GetRoster(c *gin.Context) {
	seasonID, ok := common.ParseID(c.Query("season_id"))
	if !ok {
		responses.BadRequest(c, "season_id is required")
		return
	}

	players, err := rc.svc.Roster(c.Request.Context(), middleware.TeamID(c), seasonID)
	if err != nil {
		responses.Fail(c, err)
		return
	}
	c.JSON(http.StatusOK, players)
}
