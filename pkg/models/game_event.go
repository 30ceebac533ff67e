package models

import "time"

// GameEvent is the destination copy of an upstream scoreboard event
// (points, fouls, timeouts...). Events are append-only upstream but can be
// deleted there (corrections), so the scoped resync reconciles deletions.
type GameEvent struct {
	EventID      int64     `json:"event_id" gorm:"column:event_id;primaryKey"`
	GameID       int64     `json:"game_id" gorm:"column:game_id;index"`
	Quarter      int       `json:"quarter" gorm:"column:quarter"`
	Team         string    `json:"team" gorm:"column:team;type:varchar(10)"`
	EventType    string    `json:"event_type" gorm:"column:event_type;type:varchar(30);not null"`
	PlayerNumber *int      `json:"player_number,omitempty" gorm:"column:player_number"`
	PlayerID     *int64    `json:"player_id,omitempty" gorm:"column:player_id"`
	FoulType     *string   `json:"foul_type,omitempty" gorm:"column:foul_type;type:varchar(30)"`
	CreatedAt    time.Time `json:"created_at" gorm:"column:created_at"`
}

// TableName specifies the table name for GameEvent
func (GameEvent) TableName() string {
	return "game_events"
}
