package database

import (
	"fmt"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/slashroll/slashroll/internal/models"
	"github.com/slashroll/slashroll/utils"
)

// Migrate creates or updates the schema and moves legacy roster data into
// season_roster. Safe to run on every start.
func Migrate(db *gorm.DB) error {
	err := db.AutoMigrate(
		&models.Team{},
		&models.Season{},
		&models.Player{},
		&models.SeasonRoster{},
		&models.Battle{},
		&models.BattleParticipant{},
		&models.User{},
		&models.UserTeam{},
		&models.AdminUser{},
		&models.RevokedSession{},
	)
	if err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}

	if err := db.Model(&models.Player{}).Where("status IS NULL OR status = ''").
		Update("status", models.PlayerActive).Error; err != nil {
		return fmt.Errorf("backfill player status: %w", err)
	}

	moved, err := MigrateLegacyRoster(db)
	if err != nil {
		return err
	}
	if moved > 0 {
		log.Info().Int64("rows", moved).Msg("migrated legacy roster positions")
	}
	return nil
}

// MigrateLegacyRoster copies player.roster_position/season_id pairs into
// season_roster and clears the legacy columns it copied. Slots that are
// already taken in season_roster win; the legacy value is dropped.
func MigrateLegacyRoster(db *gorm.DB) (int64, error) {
	var legacy []models.Player
	err := db.Where("roster_position IS NOT NULL AND season_id IS NOT NULL").
		Order("id").Find(&legacy).Error
	if err != nil {
		return 0, fmt.Errorf("load legacy roster: %w", err)
	}
	if len(legacy) == 0 {
		return 0, nil
	}

	var moved int64
	err = db.Transaction(func(tx *gorm.DB) error {
		for _, p := range legacy {
			if p.Status != models.PlayerActive || !models.ValidRosterPosition(*p.RosterPosition) {
				continue
			}
			var existing int64
			if err := tx.Model(&models.SeasonRoster{}).
				Where("season_id = ? AND player_id = ?", *p.SeasonID, p.ID).
				Count(&existing).Error; err != nil {
				return err
			}
			if existing == 0 {
				res := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&models.SeasonRoster{
					SeasonID:       *p.SeasonID,
					PlayerID:       p.ID,
					RosterPosition: *p.RosterPosition,
				})
				if res.Error != nil {
					return res.Error
				}
				moved += res.RowsAffected
			}
		}
		ids := make([]uint, 0, len(legacy))
		for _, p := range legacy {
			ids = append(ids, p.ID)
		}
		return tx.Model(&models.Player{}).Where("id IN ?", ids).
			Update("roster_position", nil).Error
	})
	if err != nil {
		return 0, fmt.Errorf("migrate legacy roster: %w", err)
	}
	return moved, nil
}

// SeedSuperadmin makes the admin named username the only superadmin. Every
// other admin loses the flag. When password is set and no admin has that
// name yet, the account is created.
func SeedSuperadmin(db *gorm.DB, username, password string, bcryptCost int) error {
	return db.Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.AdminUser{}).Where("username = ?", username).Count(&count).Error; err != nil {
			return fmt.Errorf("look up superadmin: %w", err)
		}
		if count == 0 && username != "" && password != "" {
			hash, err := utils.HashPassword(password, bcryptCost)
			if err != nil {
				return fmt.Errorf("hash superadmin password: %w", err)
			}
			admin := models.AdminUser{Username: username, PasswordHash: hash, IsSuperadmin: true}
			if err := tx.Create(&admin).Error; err != nil {
				return fmt.Errorf("create superadmin: %w", err)
			}
			log.Info().Str("username", username).Msg("seeded superadmin account")
		}

		err := tx.Model(&models.AdminUser{}).Where("1 = 1").
			Update("is_superadmin", gorm.Expr("username = ?", username)).Error
		if err != nil {
			return fmt.Errorf("sync superadmin flag: %w", err)
		}
		return nil
	})
}
