package models

import "time"

// Player is the destination copy of an upstream player row.
type Player struct {
	PlayerID  int64     `json:"player_id" gorm:"column:player_id;primaryKey"`
	TeamID    int64     `json:"team_id" gorm:"column:team_id;index"`
	Number    int       `json:"number" gorm:"column:number"`
	Name      string    `json:"name" gorm:"column:name;type:varchar(100);not null"`
	Position  *string   `json:"position,omitempty" gorm:"column:position;type:varchar(30)"`
	Active    bool      `json:"active" gorm:"column:active"`
	CreatedAt time.Time `json:"created_at" gorm:"column:created_at"`
}

// TableName specifies the table name for Player
func (Player) TableName() string {
	return "players"
}
