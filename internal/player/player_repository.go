package player

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/slashroll/slashroll/internal/models"
)

// PlayerFilter narrows a team's player list.
type PlayerFilter struct {
	Status   *models.PlayerStatus // nil lists every status
	SeasonID *uint
}

// SeasonRef is the short season form used in player listings.
type SeasonRef struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
}

// BattleStats aggregates a player's battle participation.
type BattleStats struct {
	PlayerID            uint   `json:"player_id"`
	PlayerName          string `json:"player_name"`
	TotalDamage         int64  `json:"total_damage"`
	TotalShieldsBroken  int64  `json:"total_shields_broken"`
	BattlesParticipated int64  `json:"battles_participated"`
}

// PlayerRepository defines player data operations. Every lookup is scoped to
// a team; a player of another team is reported as absent.
type PlayerRepository interface {
	List(ctx context.Context, teamID uint, filter PlayerFilter) ([]models.Player, error)
	GetByID(ctx context.Context, teamID, id uint) (*models.Player, error)
	GetByGameID(ctx context.Context, teamID uint, gameID string) (*models.Player, error)
	Create(ctx context.Context, player *models.Player) error
	Update(ctx context.Context, player *models.Player) error
	SetStatus(ctx context.Context, id uint, status models.PlayerStatus) error
	ClearRoster(ctx context.Context, id uint) error
	Delete(ctx context.Context, id uint) error
	SeasonsOf(ctx context.Context, player *models.Player) ([]SeasonRef, error)
	BattleStats(ctx context.Context, player *models.Player, seasonID *uint) (*BattleStats, error)
	WithTransaction(ctx context.Context, txFunc func(PlayerRepository) error) error
}

type playerRepository struct {
	db *gorm.DB
}

func NewPlayerRepository(db *gorm.DB) PlayerRepository {
	return &playerRepository{db: db}
}

func (r *playerRepository) List(ctx context.Context, teamID uint, filter PlayerFilter) ([]models.Player, error) {
	players := []models.Player{}
	query := r.db.WithContext(ctx).Where("team_id = ?", teamID)
	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}
	if filter.SeasonID != nil {
		sid := *filter.SeasonID
		query = query.Where(
			"season_id = ? OR id IN (?) OR id IN (?)",
			sid,
			r.db.Model(&models.SeasonRoster{}).Select("player_id").Where("season_id = ?", sid),
			r.db.Model(&models.BattleParticipant{}).Select("battle_participants.player_id").
				Joins("JOIN battles ON battles.id = battle_participants.battle_id").
				Where("battles.season_id = ?", sid),
		)
	}
	err := query.Order("name").Order("id").Find(&players).Error
	return players, err
}

func (r *playerRepository) GetByID(ctx context.Context, teamID, id uint) (*models.Player, error) {
	var player models.Player
	if err := r.db.WithContext(ctx).Where("id = ? AND team_id = ?", id, teamID).First(&player).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &player, nil
}

func (r *playerRepository) GetByGameID(ctx context.Context, teamID uint, gameID string) (*models.Player, error) {
	var player models.Player
	if err := r.db.WithContext(ctx).Where("team_id = ? AND game_id = ?", teamID, gameID).First(&player).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &player, nil
}

func (r *playerRepository) Create(ctx context.Context, player *models.Player) error {
	return r.db.WithContext(ctx).Create(player).Error
}

func (r *playerRepository) Update(ctx context.Context, player *models.Player) error {
	return r.db.WithContext(ctx).Model(player).
		Updates(map[string]interface{}{"name": player.Name, "game_id": player.GameID}).Error
}

func (r *playerRepository) SetStatus(ctx context.Context, id uint, status models.PlayerStatus) error {
	return r.db.WithContext(ctx).Model(&models.Player{}).Where("id = ?", id).
		Update("status", status).Error
}

// ClearRoster drops every slot the player holds and the legacy position.
func (r *playerRepository) ClearRoster(ctx context.Context, id uint) error {
	db := r.db.WithContext(ctx)
	if err := db.Where("player_id = ?", id).Delete(&models.SeasonRoster{}).Error; err != nil {
		return err
	}
	return db.Model(&models.Player{}).Where("id = ?", id).Update("roster_position", nil).Error
}

// Delete removes the player with its slots and battle participations.
func (r *playerRepository) Delete(ctx context.Context, id uint) error {
	db := r.db.WithContext(ctx)
	if err := db.Where("player_id = ?", id).Delete(&models.SeasonRoster{}).Error; err != nil {
		return err
	}
	if err := db.Where("player_id = ?", id).Delete(&models.BattleParticipant{}).Error; err != nil {
		return err
	}
	return db.Delete(&models.Player{}, id).Error
}

// SeasonsOf lists the seasons a player is tied to through the legacy column,
// roster slots or battle participation.
func (r *playerRepository) SeasonsOf(ctx context.Context, player *models.Player) ([]SeasonRef, error) {
	var legacy interface{}
	if player.SeasonID != nil {
		legacy = *player.SeasonID
	}

	db := r.db.WithContext(ctx)
	seasons := []SeasonRef{}
	err := db.Model(&models.Season{}).
		Select("id", "name").
		Where("id = ? OR id IN (?) OR id IN (?)",
			legacy,
			db.Model(&models.SeasonRoster{}).Select("season_id").Where("player_id = ?", player.ID),
			db.Model(&models.BattleParticipant{}).Select("battles.season_id").
				Joins("JOIN battles ON battles.id = battle_participants.battle_id").
				Where("battle_participants.player_id = ? AND battles.season_id IS NOT NULL", player.ID),
		).
		Order("date_created").Order("id").
		Scan(&seasons).Error
	return seasons, err
}

func (r *playerRepository) BattleStats(ctx context.Context, player *models.Player, seasonID *uint) (*BattleStats, error) {
	var totals struct {
		Damage  int64
		Shields int64
		Battles int64
	}
	query := r.db.WithContext(ctx).Model(&models.BattleParticipant{}).
		Select("COALESCE(SUM(battle_participants.damage_done), 0) AS damage, " +
			"COALESCE(SUM(battle_participants.shields_broken), 0) AS shields, " +
			"COUNT(battle_participants.id) AS battles").
		Where("battle_participants.player_id = ?", player.ID)
	if seasonID != nil {
		query = query.Joins("JOIN battles ON battles.id = battle_participants.battle_id").
			Where("battles.season_id = ?", *seasonID)
	}
	if err := query.Scan(&totals).Error; err != nil {
		return nil, err
	}
	return &BattleStats{
		PlayerID:            player.ID,
		PlayerName:          player.Name,
		TotalDamage:         totals.Damage,
		TotalShieldsBroken:  totals.Shields,
		BattlesParticipated: totals.Battles,
	}, nil
}

func (r *playerRepository) WithTransaction(ctx context.Context, txFunc func(PlayerRepository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return txFunc(&playerRepository{db: tx})
	})
}
