package models

import (
	"time"

	"github.com/google/uuid"
)

type SyncStatus string

const (
	SyncStatusSuccess SyncStatus = "SUCCESS"
	SyncStatusError   SyncStatus = "ERROR"
)

// EtlLog is one row per table-sync attempt, append-only. Operators read it;
// the syncers only ever insert.
type EtlLog struct {
	ID               int64      `json:"id" gorm:"column:id;primaryKey;autoIncrement"`
	CycleID          uuid.UUID  `json:"cycle_id" gorm:"column:cycle_id;type:uuid;index"`
	Table            string     `json:"table_name" gorm:"column:table_name;type:varchar(50);not null;index"`
	Status           SyncStatus `json:"status" gorm:"column:status;type:varchar(10);not null"`
	RecordsProcessed int        `json:"records_processed" gorm:"column:records_processed"`
	DurationSeconds  float64    `json:"duration_seconds" gorm:"column:duration_seconds"`
	ErrorMessage     *string    `json:"error_message,omitempty" gorm:"column:error_message;type:text"`
	ExecutedAt       time.Time  `json:"executed_at" gorm:"column:executed_at;index"`
}

// TableName specifies the table name for EtlLog
func (EtlLog) TableName() string {
	return "etl_logs"
}
