package team

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/slashroll/slashroll/internal/models"
)

// TeamRepository defines the interface for team data operations
type TeamRepository interface {
	CreateTeam(ctx context.Context, team *models.Team) error
	GetTeamByID(ctx context.Context, id uint) (*models.Team, error)
	GetTeamByName(ctx context.Context, name string) (*models.Team, error)
	UpdateTeam(ctx context.Context, team *models.Team) error
	CountAssignedUsers(ctx context.Context, teamID uint) (int64, error)
	DeleteTeam(ctx context.Context, id uint) error
	WithTransaction(ctx context.Context, txFunc func(TeamRepository) error) error
}

type teamRepository struct {
	db *gorm.DB
}

// NewTeamRepository creates a new instance of TeamRepository
func NewTeamRepository(db *gorm.DB) TeamRepository {
	return &teamRepository{db: db}
}

func (r *teamRepository) CreateTeam(ctx context.Context, team *models.Team) error {
	return r.db.WithContext(ctx).Create(team).Error
}

func (r *teamRepository) GetTeamByID(ctx context.Context, id uint) (*models.Team, error) {
	var team models.Team
	if err := r.db.WithContext(ctx).First(&team, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &team, nil
}

func (r *teamRepository) GetTeamByName(ctx context.Context, name string) (*models.Team, error) {
	var team models.Team
	if err := r.db.WithContext(ctx).Where("name = ?", name).First(&team).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &team, nil
}

func (r *teamRepository) UpdateTeam(ctx context.Context, team *models.Team) error {
	return r.db.WithContext(ctx).Model(team).Updates(map[string]interface{}{
		"name":        team.Name,
		"description": team.Description,
	}).Error
}

func (r *teamRepository) CountAssignedUsers(ctx context.Context, teamID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.UserTeam{}).Where("team_id = ?", teamID).Count(&count).Error
	return count, err
}

// DeleteTeam removes the team and everything it owns. Children go first so
// the delete also works where foreign keys are enforced.
func (r *teamRepository) DeleteTeam(ctx context.Context, id uint) error {
	db := r.db.WithContext(ctx)

	battleIDs := db.Model(&models.Battle{}).Select("id").Where("team_id = ?", id)
	seasonIDs := db.Model(&models.Season{}).Select("id").Where("team_id = ?", id)
	playerIDs := db.Model(&models.Player{}).Select("id").Where("team_id = ?", id)

	steps := []func() error{
		func() error {
			return db.Where("battle_id IN (?) OR player_id IN (?)", battleIDs, playerIDs).
				Delete(&models.BattleParticipant{}).Error
		},
		func() error { return db.Where("team_id = ?", id).Delete(&models.Battle{}).Error },
		func() error {
			return db.Where("season_id IN (?) OR player_id IN (?)", seasonIDs, playerIDs).
				Delete(&models.SeasonRoster{}).Error
		},
		func() error { return db.Where("team_id = ?", id).Delete(&models.Player{}).Error },
		func() error { return db.Where("team_id = ?", id).Delete(&models.Season{}).Error },
		func() error { return db.Delete(&models.Team{}, id).Error },
	}
	for _, step := range steps {
		if err := step(); err != nil {
			return err
		}
	}
	return nil
}

func (r *teamRepository) WithTransaction(ctx context.Context, txFunc func(TeamRepository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return txFunc(&teamRepository{db: tx})
	})
}
