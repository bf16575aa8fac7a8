package user

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/slashroll/slashroll/internal/models"
)

// UserRepository defines team member account operations
type UserRepository interface {
	List(ctx context.Context) ([]models.User, error)
	GetByID(ctx context.Context, id uint) (*models.User, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	AdminUsernameExists(ctx context.Context, username string) (bool, error)
	Create(ctx context.Context, user *models.User) error
	Update(ctx context.Context, user *models.User) error
	Delete(ctx context.Context, id uint) error
	TeamsOf(ctx context.Context, userID uint) ([]models.Team, error)
	TeamExists(ctx context.Context, teamID uint) (bool, error)
	AssignTeam(ctx context.Context, userID, teamID uint) error
	UnassignTeam(ctx context.Context, userID, teamID uint) (bool, error)
	WithTransaction(ctx context.Context, txFunc func(UserRepository) error) error
}

type userRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) List(ctx context.Context) ([]models.User, error) {
	users := []models.User{}
	err := r.db.WithContext(ctx).Order("username").Find(&users).Error
	return users, err
}

func (r *userRepository) GetByID(ctx context.Context, id uint) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).Where("username = ?", username).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &user, nil
}

// AdminUsernameExists reports whether an admin account already uses the name.
func (r *userRepository) AdminUsernameExists(ctx context.Context, username string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.AdminUser{}).Where("username = ?", username).Count(&count).Error
	return count > 0, err
}

func (r *userRepository) Create(ctx context.Context, user *models.User) error {
	return r.db.WithContext(ctx).Create(user).Error
}

func (r *userRepository) Update(ctx context.Context, user *models.User) error {
	return r.db.WithContext(ctx).Model(user).Updates(map[string]interface{}{
		"username":      user.Username,
		"password_hash": user.PasswordHash,
	}).Error
}

func (r *userRepository) Delete(ctx context.Context, id uint) error {
	db := r.db.WithContext(ctx)
	if err := db.Where("user_id = ?", id).Delete(&models.UserTeam{}).Error; err != nil {
		return err
	}
	return db.Delete(&models.User{}, id).Error
}

func (r *userRepository) TeamsOf(ctx context.Context, userID uint) ([]models.Team, error) {
	teams := []models.Team{}
	err := r.db.WithContext(ctx).
		Joins("JOIN user_teams ON user_teams.team_id = teams.id").
		Where("user_teams.user_id = ?", userID).
		Order("teams.name").
		Find(&teams).Error
	return teams, err
}

func (r *userRepository) TeamExists(ctx context.Context, teamID uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Team{}).Where("id = ?", teamID).Count(&count).Error
	return count > 0, err
}

// AssignTeam links the user to the team. A repeated link is a
// gorm.ErrDuplicatedKey.
func (r *userRepository) AssignTeam(ctx context.Context, userID, teamID uint) error {
	return r.db.WithContext(ctx).Create(&models.UserTeam{UserID: userID, TeamID: teamID}).Error
}

// UnassignTeam reports whether a link existed.
func (r *userRepository) UnassignTeam(ctx context.Context, userID, teamID uint) (bool, error) {
	res := r.db.WithContext(ctx).
		Where("user_id = ? AND team_id = ?", userID, teamID).
		Delete(&models.UserTeam{})
	return res.RowsAffected > 0, res.Error
}

func (r *userRepository) WithTransaction(ctx context.Context, txFunc func(UserRepository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return txFunc(&userRepository{db: tx})
	})
}
