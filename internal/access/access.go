package access

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/slashroll/slashroll/internal/common"
	"github.com/slashroll/slashroll/internal/models"
)

// Service answers which teams a principal may touch. It keeps no state of its
// own: everything is a query over user_teams plus the superadmin flag.
type Service struct {
	db *gorm.DB
}

func NewService(db *gorm.DB) *Service {
	return &Service{db: db}
}

// LoadPrincipal resolves a session subject to a Principal. A subject whose
// row no longer exists yields a NotFoundError.
func (s *Service) LoadPrincipal(ctx context.Context, kind Kind, id uint) (Principal, error) {
	db := s.db.WithContext(ctx)
	switch kind {
	case KindAdmin:
		var admin models.AdminUser
		if err := db.First(&admin, id).Error; err != nil {
			return Principal{}, lookupErr(err, "Admin user")
		}
		return Admin(admin.ID, admin.Username, admin.IsSuperadmin), nil
	case KindMember:
		var user models.User
		if err := db.First(&user, id).Error; err != nil {
			return Principal{}, lookupErr(err, "User")
		}
		return Member(user.ID, user.Username), nil
	default:
		return Principal{}, common.Validation("unknown principal kind %q", kind)
	}
}

// PermittedTeams returns every team for the superadmin, the assigned teams
// for a member and nothing for any other admin.
func (s *Service) PermittedTeams(ctx context.Context, p Principal) ([]models.Team, error) {
	teams := []models.Team{}
	db := s.db.WithContext(ctx)

	switch {
	case p.IsSuperadmin():
		if err := db.Order("name").Find(&teams).Error; err != nil {
			return nil, common.FromDB(err, "list teams", "")
		}
	case p.IsMember():
		err := db.Joins("JOIN user_teams ON user_teams.team_id = teams.id").
			Where("user_teams.user_id = ?", p.ID).
			Order("teams.name").
			Find(&teams).Error
		if err != nil {
			return nil, common.FromDB(err, "list user teams", "")
		}
	}
	return teams, nil
}

// AuthorizeTeam is the membership test against PermittedTeams. It returns an
// AccessDeniedError when teamID is outside the permitted set.
func (s *Service) AuthorizeTeam(ctx context.Context, p Principal, teamID uint) error {
	if teamID == 0 {
		return common.AccessDenied("")
	}

	var count int64
	db := s.db.WithContext(ctx)
	switch {
	case p.IsSuperadmin():
		if err := db.Model(&models.Team{}).Where("id = ?", teamID).Count(&count).Error; err != nil {
			return common.FromDB(err, "authorize team", "")
		}
	case p.IsMember():
		err := db.Model(&models.UserTeam{}).
			Where("user_id = ? AND team_id = ?", p.ID, teamID).
			Count(&count).Error
		if err != nil {
			return common.FromDB(err, "authorize team", "")
		}
	}

	if count == 0 {
		return common.AccessDenied("")
	}
	return nil
}

func lookupErr(err error, resource string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return common.NotFound(resource)
	}
	return common.FromDB(err, "load "+resource, "")
}
