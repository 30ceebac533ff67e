package models

import "time"

// Team is the destination copy of an upstream team row. The upstream
// operational database assigns team_id; this service never generates ids.
type Team struct {
	TeamID    int64     `json:"team_id" gorm:"column:team_id;primaryKey"`
	Name      string    `json:"name" gorm:"column:name;type:varchar(100);not null"`
	City      string    `json:"city" gorm:"column:city;type:varchar(100)"`
	LogoURL   *string   `json:"logo_url,omitempty" gorm:"column:logo_url;type:varchar(500)"`
	CreatedAt time.Time `json:"created_at" gorm:"column:created_at"`
}

// TableName specifies the table name for Team
func (Team) TableName() string {
	return "teams"
}
