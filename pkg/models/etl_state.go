package models

import "time"

// EtlState stores per-table sync checkpoints as key/value pairs
// (key "<table>_last_id", value = highest upstream id processed).
// A missing row means "never synced".
type EtlState struct {
	CheckpointKey   string    `json:"checkpoint_key" gorm:"column:checkpoint_key;primaryKey;type:varchar(100)"`
	CheckpointValue string    `json:"checkpoint_value" gorm:"column:checkpoint_value;type:varchar(100);not null"`
	UpdatedAt       time.Time `json:"updated_at" gorm:"column:updated_at"`
}

// TableName specifies the table name for EtlState
func (EtlState) TableName() string {
	return "etl_state"
}
