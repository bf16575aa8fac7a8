package models

import "time"

// Team is the tenancy root. Seasons, players and battles each belong to one team.
type Team struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Name        string    `gorm:"size:100;not null;uniqueIndex" json:"name"`
	Description string    `gorm:"size:500" json:"description"`
	CreatedAt   time.Time `json:"date_created"`
}

type Season struct {
	ID   uint   `gorm:"primaryKey" json:"id"`
	Name string `gorm:"size:100;not null" json:"name"`
	// TeamID is nil only for seasons created before teams existed.
	TeamID      *uint     `gorm:"index" json:"team_id"`
	DateCreated time.Time `gorm:"not null;autoCreateTime" json:"date_created"`

	Team *Team `gorm:"foreignKey:TeamID" json:"-"`
}
