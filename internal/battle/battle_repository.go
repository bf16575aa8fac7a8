package battle

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/slashroll/slashroll/internal/models"
)

// BattleRepository defines battle data operations. Battles are always
// looked up within a team.
type BattleRepository interface {
	List(ctx context.Context, teamID uint, seasonID *uint) ([]models.Battle, error)
	GetByID(ctx context.Context, teamID, id uint) (*models.Battle, error)
	Create(ctx context.Context, battle *models.Battle) error
	UpdateFields(ctx context.Context, battle *models.Battle) error
	ReplaceParticipants(ctx context.Context, battleID uint, participants []models.BattleParticipant) error
	Delete(ctx context.Context, id uint) error
	CountTeamPlayers(ctx context.Context, teamID uint, playerIDs []uint) (int64, error)
	SeasonBelongsToTeam(ctx context.Context, seasonID, teamID uint) (bool, error)
	WithTransaction(ctx context.Context, txFunc func(BattleRepository) error) error
}

type battleRepository struct {
	db *gorm.DB
}

func NewBattleRepository(db *gorm.DB) BattleRepository {
	return &battleRepository{db: db}
}

func (r *battleRepository) List(ctx context.Context, teamID uint, seasonID *uint) ([]models.Battle, error) {
	battles := []models.Battle{}
	query := r.db.WithContext(ctx).Where("team_id = ?", teamID)
	if seasonID != nil {
		query = query.Where("season_id = ?", *seasonID)
	}
	err := query.Preload("Participants").
		Order("date_created DESC").Order("id DESC").
		Find(&battles).Error
	return battles, err
}

func (r *battleRepository) GetByID(ctx context.Context, teamID, id uint) (*models.Battle, error) {
	var battle models.Battle
	err := r.db.WithContext(ctx).
		Preload("Participants", func(db *gorm.DB) *gorm.DB { return db.Order("id") }).
		Preload("Participants.Player").
		Where("id = ? AND team_id = ?", id, teamID).
		First(&battle).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &battle, nil
}

func (r *battleRepository) Create(ctx context.Context, battle *models.Battle) error {
	return r.db.WithContext(ctx).Create(battle).Error
}

func (r *battleRepository) UpdateFields(ctx context.Context, battle *models.Battle) error {
	return r.db.WithContext(ctx).Model(battle).Updates(map[string]interface{}{
		"enemy_name":          battle.EnemyName,
		"enemy_power_ranking": battle.EnemyPowerRanking,
		"our_score":           battle.OurScore,
		"their_score":         battle.TheirScore,
		"season_id":           battle.SeasonID,
	}).Error
}

func (r *battleRepository) ReplaceParticipants(ctx context.Context, battleID uint, participants []models.BattleParticipant) error {
	db := r.db.WithContext(ctx)
	if err := db.Where("battle_id = ?", battleID).Delete(&models.BattleParticipant{}).Error; err != nil {
		return err
	}
	if len(participants) == 0 {
		return nil
	}
	for i := range participants {
		participants[i].ID = 0
		participants[i].BattleID = battleID
	}
	return db.Create(&participants).Error
}

func (r *battleRepository) Delete(ctx context.Context, id uint) error {
	db := r.db.WithContext(ctx)
	if err := db.Where("battle_id = ?", id).Delete(&models.BattleParticipant{}).Error; err != nil {
		return err
	}
	return db.Delete(&models.Battle{}, id).Error
}

// CountTeamPlayers counts how many of playerIDs belong to the team.
func (r *battleRepository) CountTeamPlayers(ctx context.Context, teamID uint, playerIDs []uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Player{}).
		Where("team_id = ? AND id IN ?", teamID, playerIDs).
		Count(&count).Error
	return count, err
}

func (r *battleRepository) SeasonBelongsToTeam(ctx context.Context, seasonID, teamID uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Season{}).
		Where("id = ? AND team_id = ?", seasonID, teamID).
		Count(&count).Error
	return count > 0, err
}

func (r *battleRepository) WithTransaction(ctx context.Context, txFunc func(BattleRepository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return txFunc(&battleRepository{db: tx})
	})
}
