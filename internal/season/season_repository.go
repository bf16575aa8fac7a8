package season

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/slashroll/slashroll/internal/models"
)

// SeasonRepository defines season data operations
type SeasonRepository interface {
	ListByTeam(ctx context.Context, teamID uint) ([]models.Season, error)
	GetByID(ctx context.Context, teamID, id uint) (*models.Season, error)
	Newest(ctx context.Context, teamID *uint) (*models.Season, error)
	Create(ctx context.Context, season *models.Season) error
	Rename(ctx context.Context, season *models.Season) error
	Delete(ctx context.Context, id uint) error
	WithTransaction(ctx context.Context, txFunc func(SeasonRepository) error) error
}

type seasonRepository struct {
	db *gorm.DB
}

func NewSeasonRepository(db *gorm.DB) SeasonRepository {
	return &seasonRepository{db: db}
}

func (r *seasonRepository) ListByTeam(ctx context.Context, teamID uint) ([]models.Season, error) {
	seasons := []models.Season{}
	err := r.db.WithContext(ctx).Where("team_id = ?", teamID).
		Order("date_created DESC").Order("id DESC").
		Find(&seasons).Error
	return seasons, err
}

func (r *seasonRepository) GetByID(ctx context.Context, teamID, id uint) (*models.Season, error) {
	var season models.Season
	if err := r.db.WithContext(ctx).Where("id = ? AND team_id = ?", id, teamID).First(&season).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &season, nil
}

// Newest returns the most recently created season, of one team or overall.
func (r *seasonRepository) Newest(ctx context.Context, teamID *uint) (*models.Season, error) {
	query := r.db.WithContext(ctx).Order("date_created DESC").Order("id DESC")
	if teamID != nil {
		query = query.Where("team_id = ?", *teamID)
	}
	var season models.Season
	if err := query.First(&season).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &season, nil
}

func (r *seasonRepository) Create(ctx context.Context, season *models.Season) error {
	return r.db.WithContext(ctx).Create(season).Error
}

func (r *seasonRepository) Rename(ctx context.Context, season *models.Season) error {
	return r.db.WithContext(ctx).Model(season).Update("name", season.Name).Error
}

// Delete removes a season and everything hanging off it, children first:
// battle participants, battles, roster slots, then the legacy player link.
func (r *seasonRepository) Delete(ctx context.Context, id uint) error {
	db := r.db.WithContext(ctx)

	battleIDs := db.Model(&models.Battle{}).Select("id").Where("season_id = ?", id)
	if err := db.Where("battle_id IN (?)", battleIDs).Delete(&models.BattleParticipant{}).Error; err != nil {
		return err
	}
	if err := db.Where("season_id = ?", id).Delete(&models.Battle{}).Error; err != nil {
		return err
	}
	if err := db.Where("season_id = ?", id).Delete(&models.SeasonRoster{}).Error; err != nil {
		return err
	}
	if err := db.Model(&models.Player{}).Where("season_id = ?", id).Update("season_id", nil).Error; err != nil {
		return err
	}
	return db.Delete(&models.Season{}, id).Error
}

func (r *seasonRepository) WithTransaction(ctx context.Context, txFunc func(SeasonRepository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return txFunc(&seasonRepository{db: tx})
	})
}
