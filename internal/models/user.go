package models

import "time"

// User is a team member login. Team access comes from UserTeam rows.
type User struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Username     string    `gorm:"size:80;not null;uniqueIndex" json:"username"`
	PasswordHash string    `gorm:"not null" json:"-"`
	CreatedAt    time.Time `json:"date_created"`
}

type UserTeam struct {
	UserID     uint      `gorm:"primaryKey" json:"user_id"`
	TeamID     uint      `gorm:"primaryKey" json:"team_id"`
	AssignedAt time.Time `gorm:"not null;autoCreateTime" json:"assigned_at"`

	User *User `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	Team *Team `gorm:"foreignKey:TeamID" json:"-"`
}

// AdminUser lives outside the team model. Only the superadmin has team access.
type AdminUser struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Username     string    `gorm:"size:80;not null;uniqueIndex" json:"username"`
	PasswordHash string    `gorm:"not null" json:"-"`
	IsSuperadmin bool      `gorm:"not null;default:false" json:"is_superadmin"`
	CreatedAt    time.Time `json:"date_created"`
}

// RevokedSession is the database-backed logout denylist.
type RevokedSession struct {
	JTI       string    `gorm:"primaryKey;size:64"`
	ExpiresAt time.Time `gorm:"not null;index"`
}
