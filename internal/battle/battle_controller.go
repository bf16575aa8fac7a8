package battle

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/slashroll/slashroll/internal/common"
	"github.com/slashroll/slashroll/internal/middleware"
	"github.com/slashroll/slashroll/internal/models"
	"github.com/slashroll/slashroll/pkg/responses"
)

// BattleController handles battle-related HTTP requests
type BattleController struct {
	repo BattleRepository
}

func NewBattleController(repo BattleRepository) *BattleController {
	return &BattleController{repo: repo}
}

// --- DTOs ---

type ParticipantRequest struct {
	PlayerID      uint `json:"player_id" binding:"required"`
	DamageDone    int  `json:"damage_done" binding:"gte=0"`
	ShieldsBroken int  `json:"shields_broken" binding:"gte=0"`
}

type CreateBattleRequest struct {
	EnemyName         string               `json:"enemy_name" binding:"required,min=1,max=100"`
	EnemyPowerRanking *int                 `json:"enemy_power_ranking" binding:"required,gte=0"`
	OurScore          *int                 `json:"our_score" binding:"required,gte=0"`
	TheirScore        *int                 `json:"their_score" binding:"required,gte=0"`
	SeasonID          *uint                `json:"season_id"`
	Participants      []ParticipantRequest `json:"participants" binding:"required,dive"`
}

// UpdateBattleRequest changes only the fields present. A participants list
// replaces the existing one.
type UpdateBattleRequest struct {
	EnemyName         *string              `json:"enemy_name" binding:"omitempty,min=1,max=100"`
	EnemyPowerRanking *int                 `json:"enemy_power_ranking" binding:"omitempty,gte=0"`
	OurScore          *int                 `json:"our_score" binding:"omitempty,gte=0"`
	TheirScore        *int                 `json:"their_score" binding:"omitempty,gte=0"`
	SeasonID          *uint                `json:"season_id"`
	Participants      []ParticipantRequest `json:"participants" binding:"omitempty,dive"`
}

// --- Responses ---

type ParticipantResponse struct {
	ID            uint   `json:"id"`
	BattleID      uint   `json:"battle_id"`
	PlayerID      uint   `json:"player_id"`
	PlayerName    string `json:"player_name"`
	DamageDone    int    `json:"damage_done"`
	ShieldsBroken int    `json:"shields_broken"`
}

type BattleResponse struct {
	ID                uint                  `json:"id"`
	EnemyName         string                `json:"enemy_name"`
	EnemyPowerRanking int                   `json:"enemy_power_ranking"`
	OurScore          int                   `json:"our_score"`
	TheirScore        int                   `json:"their_score"`
	DateCreated       time.Time             `json:"date_created"`
	TotalDamage       int                   `json:"total_damage"`
	SeasonID          *uint                 `json:"season_id"`
	TeamID            uint                  `json:"team_id"`
	Participants      []ParticipantResponse `json:"participants,omitempty"`
}

func toResponse(b *models.Battle, withParticipants bool) BattleResponse {
	resp := BattleResponse{
		ID:                b.ID,
		EnemyName:         b.EnemyName,
		EnemyPowerRanking: b.EnemyPowerRanking,
		OurScore:          b.OurScore,
		TheirScore:        b.TheirScore,
		DateCreated:       b.DateCreated,
		TotalDamage:       b.TotalDamage(),
		SeasonID:          b.SeasonID,
		TeamID:            b.TeamID,
	}
	if withParticipants {
		resp.Participants = make([]ParticipantResponse, 0, len(b.Participants))
		for _, p := range b.Participants {
			pr := ParticipantResponse{
				ID:            p.ID,
				BattleID:      p.BattleID,
				PlayerID:      p.PlayerID,
				DamageDone:    p.DamageDone,
				ShieldsBroken: p.ShieldsBroken,
			}
			if p.Player != nil {
				pr.PlayerName = p.Player.Name
			}
			resp.Participants = append(resp.Participants, pr)
		}
	}
	return resp
}

// validateRefs checks that the season and every participant belong to the team.
func (bc *BattleController) validateRefs(ctx context.Context, teamID uint, seasonID *uint, participants []ParticipantRequest) error {
	if seasonID != nil {
		ok, err := bc.repo.SeasonBelongsToTeam(ctx, *seasonID, teamID)
		if err != nil {
			return common.FromDB(err, "check season", "")
		}
		if !ok {
			return common.Validation("Season does not belong to this team")
		}
	}

	if len(participants) == 0 {
		return nil
	}
	seen := make(map[uint]bool, len(participants))
	ids := make([]uint, 0, len(participants))
	for _, p := range participants {
		if seen[p.PlayerID] {
			return common.Validation("Player %d is listed more than once", p.PlayerID)
		}
		seen[p.PlayerID] = true
		ids = append(ids, p.PlayerID)
	}
	count, err := bc.repo.CountTeamPlayers(ctx, teamID, ids)
	if err != nil {
		return common.FromDB(err, "check participants", "")
	}
	if count != int64(len(ids)) {
		return common.Validation("All participants must belong to the battle's team")
	}
	return nil
}

func toParticipants(reqs []ParticipantRequest) []models.BattleParticipant {
	participants := make([]models.BattleParticipant, 0, len(reqs))
	for _, p := range reqs {
		participants = append(participants, models.BattleParticipant{
			PlayerID:      p.PlayerID,
			DamageDone:    p.DamageDone,
			ShieldsBroken: p.ShieldsBroken,
		})
	}
	return participants
}

// GetBattles godoc
// @Summary List battles
// @Description Team battles, newest first, optionally limited to one season.
// @Tags Battles
// @Produce json
// @Param team_id query int true "Team ID"
// @Param season_id query int false "Season ID"
// @Success 200 {array} BattleResponse
// @Failure 403 {object} responses.ErrorResponse
// @Router /battles [get]
func (bc *BattleController) GetBattles(c *gin.Context) {
	seasonID, ok := common.ParseOptionalID(c.Query("season_id"))
	if !ok {
		responses.BadRequest(c, "Invalid season_id")
		return
	}

	battles, err := bc.repo.List(c.Request.Context(), middleware.TeamID(c), seasonID)
	if err != nil {
		responses.Fail(c, common.FromDB(err, "list battles", ""))
		return
	}
	result := make([]BattleResponse, 0, len(battles))
	for i := range battles {
		result = append(result, toResponse(&battles[i], false))
	}
	c.JSON(http.StatusOK, result)
}

// GetBattle godoc
// @Summary Battle with participants
// @Tags Battles
// @Produce json
// @Param id path int true "Battle ID"
// @Param team_id query int true "Team ID"
// @Success 200 {object} BattleResponse
// @Failure 404 {object} responses.ErrorResponse
// @Router /battles/{id} [get]
func (bc *BattleController) GetBattle(c *gin.Context) {
	battle, ok := bc.loadBattle(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, toResponse(battle, true))
}

// CreateBattle godoc
// @Summary Record a battle
// @Tags Battles
// @Accept json
// @Produce json
// @Param team_id query int true "Team ID"
// @Param request body CreateBattleRequest true "Battle"
// @Success 201 {object} BattleResponse
// @Failure 400 {object} responses.ErrorResponse
// @Router /battles [post]
func (bc *BattleController) CreateBattle(c *gin.Context) {
	var req CreateBattleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.BindError(c, err)
		return
	}
	enemy := strings.TrimSpace(req.EnemyName)
	if enemy == "" {
		responses.BadRequest(c, "enemy_name is required")
		return
	}

	ctx := c.Request.Context()
	teamID := middleware.TeamID(c)
	if err := bc.validateRefs(ctx, teamID, req.SeasonID, req.Participants); err != nil {
		responses.Fail(c, err)
		return
	}

	battle := models.Battle{
		EnemyName:         enemy,
		EnemyPowerRanking: *req.EnemyPowerRanking,
		OurScore:          *req.OurScore,
		TheirScore:        *req.TheirScore,
		SeasonID:          req.SeasonID,
		TeamID:            teamID,
		Participants:      toParticipants(req.Participants),
	}
	err := bc.repo.WithTransaction(ctx, func(tx BattleRepository) error {
		return tx.Create(ctx, &battle)
	})
	if err != nil {
		responses.Fail(c, common.FromDB(err, "create battle", ""))
		return
	}
	c.JSON(http.StatusCreated, toResponse(&battle, false))
}

// UpdateBattle godoc
// @Summary Update a battle
// @Tags Battles
// @Accept json
// @Produce json
// @Param id path int true "Battle ID"
// @Param team_id query int true "Team ID"
// @Param request body UpdateBattleRequest true "Fields to change"
// @Success 200 {object} BattleResponse
// @Failure 400 {object} responses.ErrorResponse
// @Failure 404 {object} responses.ErrorResponse
// @Router /battles/{id} [put]
func (bc *BattleController) UpdateBattle(c *gin.Context) {
	battle, ok := bc.loadBattle(c)
	if !ok {
		return
	}

	var req UpdateBattleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.BindError(c, err)
		return
	}

	if req.EnemyName != nil {
		enemy := strings.TrimSpace(*req.EnemyName)
		if enemy == "" {
			responses.BadRequest(c, "enemy_name cannot be empty")
			return
		}
		battle.EnemyName = enemy
	}
	if req.EnemyPowerRanking != nil {
		battle.EnemyPowerRanking = *req.EnemyPowerRanking
	}
	if req.OurScore != nil {
		battle.OurScore = *req.OurScore
	}
	if req.TheirScore != nil {
		battle.TheirScore = *req.TheirScore
	}
	if req.SeasonID != nil {
		battle.SeasonID = req.SeasonID
	}

	ctx := c.Request.Context()
	teamID := middleware.TeamID(c)
	if err := bc.validateRefs(ctx, teamID, req.SeasonID, req.Participants); err != nil {
		responses.Fail(c, err)
		return
	}

	err := bc.repo.WithTransaction(ctx, func(tx BattleRepository) error {
		if err := tx.UpdateFields(ctx, battle); err != nil {
			return err
		}
		if req.Participants != nil {
			return tx.ReplaceParticipants(ctx, battle.ID, toParticipants(req.Participants))
		}
		return nil
	})
	if err != nil {
		responses.Fail(c, common.FromDB(err, "update battle", ""))
		return
	}

	updated, err := bc.repo.GetByID(ctx, teamID, battle.ID)
	if err != nil || updated == nil {
		responses.Fail(c, common.FromDB(err, "reload battle", ""))
		return
	}
	c.JSON(http.StatusOK, toResponse(updated, true))
}

// DeleteBattle godoc
// @Summary Delete a battle
// @Tags Battles
// @Produce json
// @Param id path int true "Battle ID"
// @Param team_id query int true "Team ID"
// @Success 200 {object} responses.MessageResponse
// @Failure 404 {object} responses.ErrorResponse
// @Router /battles/{id} [delete]
func (bc *BattleController) DeleteBattle(c *gin.Context) {
	battle, ok := bc.loadBattle(c)
	if !ok {
		return
	}

	ctx := c.Request.Context()
	err := bc.repo.WithTransaction(ctx, func(tx BattleRepository) error {
		return tx.Delete(ctx, battle.ID)
	})
	if err != nil {
		responses.Fail(c, common.FromDB(err, "delete battle", ""))
		return
	}
	responses.SendMessage(c, http.StatusOK, "Battle deleted successfully")
}

func (bc *BattleController) loadBattle(c *gin.Context) (*models.Battle, bool) {
	id, ok := common.ParseID(c.Param("id"))
	if !ok {
		responses.BadRequest(c, "Invalid battle ID")
		return nil, false
	}
	battle, err := bc.repo.GetByID(c.Request.Context(), middleware.TeamID(c), id)
	if err != nil {
		responses.Fail(c, common.FromDB(err, "load battle", ""))
		return nil, false
	}
	if battle == nil {
		responses.NotFound(c, "Battle")
		return nil, false
	}
	return battle, true
}
