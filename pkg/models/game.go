package models

import "time"

type GameStatus string

const (
	GameStatusScheduled  GameStatus = "SCHEDULED"
	GameStatusInProgress GameStatus = "IN_PROGRESS"
	GameStatusSuspended  GameStatus = "SUSPENDED"
	GameStatusFinished   GameStatus = "FINISHED"
	GameStatusCancelled  GameStatus = "CANCELLED"
)

// Game is the destination copy of an upstream game row.
//
// Unlike teams/players, games are written by two parties: the upstream
// scoreboard owns the row, but the reporting service also updates the live
// fields (quarter, home_score, away_score, status) directly in the
// destination. The games syncer protects those four columns once a
// destination row has left SCHEDULED state.
type Game struct {
	GameID     int64     `json:"game_id" gorm:"column:game_id;primaryKey"`
	HomeTeam   string    `json:"home_team" gorm:"column:home_team;type:varchar(100);not null"`
	AwayTeam   string    `json:"away_team" gorm:"column:away_team;type:varchar(100);not null"`
	HomeTeamID *int64    `json:"home_team_id,omitempty" gorm:"column:home_team_id;index"`
	AwayTeamID *int64    `json:"away_team_id,omitempty" gorm:"column:away_team_id;index"`
	Quarter    int       `json:"quarter" gorm:"column:quarter"`
	HomeScore  int       `json:"home_score" gorm:"column:home_score"`
	AwayScore  int       `json:"away_score" gorm:"column:away_score"`
	Status     string    `json:"status" gorm:"column:status;type:varchar(20);not null"`
	CreatedAt  time.Time `json:"created_at" gorm:"column:created_at"`
}

// TableName specifies the table name for Game
func (Game) TableName() string {
	return "games"
}
