package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// EtlValidation is one row per post-cycle count validation, with the
// per-table source/destination counts serialized as JSON.
type EtlValidation struct {
	ID         int64          `json:"id" gorm:"column:id;primaryKey;autoIncrement"`
	CycleID    uuid.UUID      `json:"cycle_id" gorm:"column:cycle_id;type:uuid;index"`
	Results    datatypes.JSON `json:"results" gorm:"column:results;type:jsonb"`
	Mismatches int            `json:"mismatches" gorm:"column:mismatches"`
	ExecutedAt time.Time      `json:"executed_at" gorm:"column:executed_at;index"`
}

// TableName specifies the table name for EtlValidation
func (EtlValidation) TableName() string {
	return "etl_validations"
}
