// internal/sync/runlog.go
package sync

import (
	"log"
	"time"

	"etl-service/pkg/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// RunLogger appends one etl_logs row per table-sync attempt. A failure to
// write the log is swallowed: observability must never take down the sync
// it is observing.
type RunLogger struct {
	db      *gorm.DB
	cycleID uuid.UUID
}

func NewRunLogger(db *gorm.DB, cycleID uuid.UUID) *RunLogger {
	return &RunLogger{db: db, cycleID: cycleID}
}

func (l *RunLogger) Log(table string, status models.SyncStatus, records int, duration float64, errMsg string) {
	entry := models.EtlLog{
		CycleID:          l.cycleID,
		Table:            table,
		Status:           status,
		RecordsProcessed: records,
		DurationSeconds:  duration,
		ExecutedAt:       time.Now().UTC(),
	}
	if errMsg != "" {
		entry.ErrorMessage = &errMsg
	}
	if err := l.db.Create(&entry).Error; err != nil {
		log.Printf("⚠️ [SYNC] Could not write run log for %s: %v", table, err)
	}
}

// RecentLogs returns the newest run-log entries, for the operator endpoint.
func RecentLogs(db *gorm.DB, limit int) ([]models.EtlLog, error) {
	var logs []models.EtlLog
	err := db.Order("executed_at DESC, id DESC").Limit(limit).Find(&logs).Error
	return logs, err
}
