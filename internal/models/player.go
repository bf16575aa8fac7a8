package models

// Player is a clan member. GameID is unique within a team.
type Player struct {
	ID     uint         `gorm:"primaryKey" json:"id"`
	Name   string       `gorm:"size:100;not null" json:"name"`
	GameID *string      `gorm:"size:100;uniqueIndex:idx_player_team_game,priority:2" json:"game_id"`
	Status PlayerStatus `gorm:"size:20;not null;default:active" json:"status"`
	TeamID uint         `gorm:"not null;index;uniqueIndex:idx_player_team_game,priority:1" json:"team_id"`

	// Deprecated: SeasonRoster is the slot assignment. Kept so older rows load.
	SeasonID *uint `gorm:"index" json:"season_id"`
	// Deprecated: see SeasonRoster.
	RosterPosition *int `json:"roster_position"`

	Team   *Team   `gorm:"foreignKey:TeamID" json:"-"`
	Season *Season `gorm:"foreignKey:SeasonID" json:"-"`
}

// SeasonRoster assigns a player to a numbered slot in a season.
// (season_id, roster_position) is unique; one row per (season_id, player_id)
// is kept by the roster service.
type SeasonRoster struct {
	ID             uint `gorm:"primaryKey" json:"id"`
	SeasonID       uint `gorm:"not null;uniqueIndex:unique_season_position,priority:1" json:"season_id"`
	PlayerID       uint `gorm:"not null;index" json:"player_id"`
	RosterPosition int  `gorm:"not null;uniqueIndex:unique_season_position,priority:2" json:"roster_position"`

	Season *Season `gorm:"foreignKey:SeasonID;constraint:OnDelete:CASCADE" json:"-"`
	Player *Player `gorm:"foreignKey:PlayerID;constraint:OnDelete:CASCADE" json:"-"`
}

func (SeasonRoster) TableName() string {
	return "season_roster"
}
