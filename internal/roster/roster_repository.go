package roster

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/slashroll/slashroll/internal/models"
)

// RosterRepository is the storage side of slot assignment. Lookups return
// (nil, nil) when nothing matches.
type RosterRepository interface {
	FindPlayer(ctx context.Context, teamID, playerID uint) (*models.Player, error)
	FindSeason(ctx context.Context, seasonID uint) (*models.Season, error)
	FindSlot(ctx context.Context, seasonID, playerID uint) (*models.SeasonRoster, error)
	DeletePlayerSlot(ctx context.Context, seasonID, playerID uint) error
	DeletePositionSlot(ctx context.Context, seasonID uint, position int) error
	CreateSlot(ctx context.Context, slot *models.SeasonRoster) error
	MoveSlot(ctx context.Context, slotID uint, position int) error
	ClearLegacyPosition(ctx context.Context, playerID uint) error
	ListSlots(ctx context.Context, teamID, seasonID uint) ([]models.SeasonRoster, error)
	WithTransaction(ctx context.Context, txFunc func(RosterRepository) error) error
}

type rosterRepository struct {
	db *gorm.DB
}

func NewRosterRepository(db *gorm.DB) RosterRepository {
	return &rosterRepository{db: db}
}

func (r *rosterRepository) FindPlayer(ctx context.Context, teamID, playerID uint) (*models.Player, error) {
	var player models.Player
	err := r.db.WithContext(ctx).Where("id = ? AND team_id = ?", playerID, teamID).First(&player).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &player, nil
}

func (r *rosterRepository) FindSeason(ctx context.Context, seasonID uint) (*models.Season, error) {
	var season models.Season
	if err := r.db.WithContext(ctx).First(&season, seasonID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &season, nil
}

func (r *rosterRepository) FindSlot(ctx context.Context, seasonID, playerID uint) (*models.SeasonRoster, error) {
	var slot models.SeasonRoster
	err := r.db.WithContext(ctx).
		Where("season_id = ? AND player_id = ?", seasonID, playerID).
		First(&slot).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &slot, nil
}

func (r *rosterRepository) DeletePlayerSlot(ctx context.Context, seasonID, playerID uint) error {
	return r.db.WithContext(ctx).
		Where("season_id = ? AND player_id = ?", seasonID, playerID).
		Delete(&models.SeasonRoster{}).Error
}

func (r *rosterRepository) DeletePositionSlot(ctx context.Context, seasonID uint, position int) error {
	return r.db.WithContext(ctx).
		Where("season_id = ? AND roster_position = ?", seasonID, position).
		Delete(&models.SeasonRoster{}).Error
}

func (r *rosterRepository) CreateSlot(ctx context.Context, slot *models.SeasonRoster) error {
	return r.db.WithContext(ctx).Create(slot).Error
}

func (r *rosterRepository) MoveSlot(ctx context.Context, slotID uint, position int) error {
	return r.db.WithContext(ctx).Model(&models.SeasonRoster{}).
		Where("id = ?", slotID).
		Update("roster_position", position).Error
}

func (r *rosterRepository) ClearLegacyPosition(ctx context.Context, playerID uint) error {
	return r.db.WithContext(ctx).Model(&models.Player{}).
		Where("id = ?", playerID).
		Update("roster_position", nil).Error
}

// ListSlots returns the valid slots of a season held by active players of
// the team, ordered by position.
func (r *rosterRepository) ListSlots(ctx context.Context, teamID, seasonID uint) ([]models.SeasonRoster, error) {
	var slots []models.SeasonRoster
	err := r.db.WithContext(ctx).
		Joins("JOIN players ON players.id = season_roster.player_id").
		Where("season_roster.season_id = ?", seasonID).
		Where("season_roster.roster_position BETWEEN ? AND ?", models.MinRosterPosition, models.MaxRosterPosition).
		Where("players.team_id = ? AND players.status = ?", teamID, models.PlayerActive).
		Order("season_roster.roster_position").
		Preload("Player").
		Find(&slots).Error
	return slots, err
}

func (r *rosterRepository) WithTransaction(ctx context.Context, txFunc func(RosterRepository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return txFunc(&rosterRepository{db: tx})
	})
}
