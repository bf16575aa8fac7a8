package season

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/slashroll/slashroll/internal/common"
	"github.com/slashroll/slashroll/internal/middleware"
	"github.com/slashroll/slashroll/internal/models"
	"github.com/slashroll/slashroll/pkg/responses"
)

// SeasonController handles season-related HTTP requests
type SeasonController struct {
	repo SeasonRepository
}

func NewSeasonController(repo SeasonRepository) *SeasonController {
	return &SeasonController{repo: repo}
}

type SeasonRequest struct {
	Name string `json:"name" binding:"required,min=1,max=100"`
}

// GetSeasons godoc
// @Summary List a team's seasons
// @Tags Seasons
// @Produce json
// @Param team_id query int true "Team ID"
// @Success 200 {array} models.Season
// @Failure 403 {object} responses.ErrorResponse
// @Router /seasons [get]
func (sc *SeasonController) GetSeasons(c *gin.Context) {
	seasons, err := sc.repo.ListByTeam(c.Request.Context(), middleware.TeamID(c))
	if err != nil {
		responses.Fail(c, common.FromDB(err, "list seasons", ""))
		return
	}
	c.JSON(http.StatusOK, seasons)
}

// GetCurrentSeason godoc
// @Summary Newest season
// @Description With team_id the team's newest season, otherwise the newest season overall.
// @Tags Seasons
// @Produce json
// @Param team_id query int false "Team ID"
// @Success 200 {object} models.Season
// @Failure 404 {object} responses.ErrorResponse
// @Router /seasons/current [get]
func (sc *SeasonController) GetCurrentSeason(c *gin.Context) {
	var teamID *uint
	if id := middleware.TeamID(c); id != 0 {
		teamID = &id
	}

	season, err := sc.repo.Newest(c.Request.Context(), teamID)
	if err != nil {
		responses.Fail(c, common.FromDB(err, "load current season", ""))
		return
	}
	if season == nil {
		responses.SendError(c, http.StatusNotFound, "No seasons found")
		return
	}
	c.JSON(http.StatusOK, season)
}

// CreateSeason godoc
// @Summary Create a season
// @Tags Seasons
// @Accept json
// @Produce json
// @Param team_id query int true "Team ID"
// @Param request body SeasonRequest true "Season"
// @Success 201 {object} models.Season
// @Failure 400 {object} responses.ErrorResponse
// @Router /seasons [post]
func (sc *SeasonController) CreateSeason(c *gin.Context) {
	var req SeasonRequest
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
	season := models.Season{Name: name, TeamID: &teamID}
	if err := sc.repo.Create(c.Request.Context(), &season); err != nil {
		responses.Fail(c, common.FromDB(err, "create season", ""))
		return
	}
	c.JSON(http.StatusCreated, season)
}

// UpdateSeason godoc
// @Summary Rename a season
// @Tags Seasons
// @Accept json
// @Produce json
// @Param id path int true "Season ID"
// @Param team_id query int true "Team ID"
// @Param request body SeasonRequest true "Season"
// @Success 200 {object} models.Season
// @Failure 400 {object} responses.ErrorResponse
// @Failure 404 {object} responses.ErrorResponse
// @Router /seasons/{id} [put]
func (sc *SeasonController) UpdateSeason(c *gin.Context) {
	season, ok := sc.loadSeason(c)
	if !ok {
		return
	}

	var req SeasonRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.BindError(c, err)
		return
	}
	name := strings.TrimSpace(req.Name)
	if name == "" {
		responses.BadRequest(c, "Name is required")
		return
	}

	season.Name = name
	if err := sc.repo.Rename(c.Request.Context(), season); err != nil {
		responses.Fail(c, common.FromDB(err, "update season", ""))
		return
	}
	c.JSON(http.StatusOK, season)
}

// DeleteSeason godoc
// @Summary Delete a season
// @Description Deletes the season's battles, participants and roster slots, and unlinks players.
// @Tags Seasons
// @Produce json
// @Param id path int true "Season ID"
// @Param team_id query int true "Team ID"
// @Success 200 {object} responses.MessageResponse
// @Failure 404 {object} responses.ErrorResponse
// @Router /seasons/{id} [delete]
func (sc *SeasonController) DeleteSeason(c *gin.Context) {
	season, ok := sc.loadSeason(c)
	if !ok {
		return
	}

	err := sc.repo.WithTransaction(c.Request.Context(), func(tx SeasonRepository) error {
		return tx.Delete(c.Request.Context(), season.ID)
	})
	if err != nil {
		responses.Fail(c, common.FromDB(err, "delete season", ""))
		return
	}
	responses.SendMessage(c, http.StatusOK, "Season deleted successfully")
}

func (sc *SeasonController) loadSeason(c *gin.Context) (*models.Season, bool) {
	id, ok := common.ParseID(c.Param("id"))
	if !ok {
		responses.BadRequest(c, "Invalid season ID")
		return nil, false
	}
	season, err := sc.repo.GetByID(c.Request.Context(), middleware.TeamID(c), id)
	if err != nil {
		responses.Fail(c, common.FromDB(err, "load season", ""))
		return nil, false
	}
	if season == nil {
		responses.NotFound(c, "Season")
		return nil, false
	}
	return season, true
}
