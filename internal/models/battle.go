package models

import "time"

type Battle struct {
	ID                uint      `gorm:"primaryKey" json:"id"`
	EnemyName         string    `gorm:"size:100;not null" json:"enemy_name"`
	EnemyPowerRanking int       `gorm:"not null" json:"enemy_power_ranking"`
	OurScore          int       `gorm:"not null" json:"our_score"`
	TheirScore        int       `gorm:"not null" json:"their_score"`
	DateCreated       time.Time `gorm:"not null;autoCreateTime" json:"date_created"`
	SeasonID          *uint     `gorm:"index" json:"season_id"`
	TeamID            uint      `gorm:"not null;index" json:"team_id"`

	Participants []BattleParticipant `gorm:"foreignKey:BattleID;constraint:OnDelete:CASCADE" json:"-"`
	Season       *Season             `gorm:"foreignKey:SeasonID" json:"-"`
	Team         *Team               `gorm:"foreignKey:TeamID" json:"-"`
}

// TotalDamage sums the damage of the loaded participants.
func (b *Battle) TotalDamage() int {
	total := 0
	for _, p := range b.Participants {
		total += p.DamageDone
	}
	return total
}

type BattleParticipant struct {
	ID            uint `gorm:"primaryKey" json:"id"`
	BattleID      uint `gorm:"not null;index" json:"battle_id"`
	PlayerID      uint `gorm:"not null;index" json:"player_id"`
	DamageDone    int  `gorm:"not null;default:0" json:"damage_done"`
	ShieldsBroken int  `gorm:"not null;default:0" json:"shields_broken"`

	Player *Player `gorm:"foreignKey:PlayerID;constraint:OnDelete:CASCADE" json:"-"`
}
