// internal/sync/syncer.go
package sync

import (
	"log"
	"math"
	"time"

	"etl-service/internal/storage"
	"etl-service/pkg/models"
)

// Result is what one table-sync attempt produced. Aggregated by the
// orchestrator and returned by the on-demand endpoint.
type Result struct {
	Table    string            `json:"table"`
	Count    int               `json:"count"`
	Duration float64           `json:"duration"`
	LastID   int64             `json:"last_id"`
	Status   models.SyncStatus `json:"status"`
	Error    string            `json:"error,omitempty"`
}

// Syncer copies new rows for one table from source to destination
// (incremental, checkpoint-driven). Errors never escape: a failed sync is
// reported through the Result and the run log, so one broken table cannot
// abort its siblings.
type Syncer interface {
	Name() string
	Sync(conns *storage.Conns, rlog *RunLogger) Result
}

// Resyncer is a Syncer that also supports checkpoint-ignoring
// reconciliation, optionally scoped to a set of game ids. Only games and
// game_events implement it.
type Resyncer interface {
	Syncer
	Resync(conns *storage.Conns, rlog *RunLogger, gameIDs []int64) Result
}

func round2(seconds float64) float64 {
	return math.Round(seconds*100) / 100
}

func failResult(rlog *RunLogger, table string, start time.Time, lastID int64, err error) Result {
	duration := round2(time.Since(start).Seconds())
	log.Printf("❌ [SYNC] %s failed after %.2fs: %v", table, duration, err)
	rlog.Log(table, models.SyncStatusError, 0, duration, err.Error())
	return Result{
		Table:    table,
		Count:    0,
		Duration: duration,
		LastID:   lastID,
		Status:   models.SyncStatusError,
		Error:    err.Error(),
	}
}

func okResult(rlog *RunLogger, table string, start time.Time, count int, lastID int64) Result {
	duration := round2(time.Since(start).Seconds())
	rlog.Log(table, models.SyncStatusSuccess, count, duration, "")
	return Result{
		Table:    table,
		Count:    count,
		Duration: duration,
		LastID:   lastID,
		Status:   models.SyncStatusSuccess,
	}
}

// advanceCheckpoint moves the watermark forward, never backward. A scoped
// resync can legitimately observe a maximum id below the stored watermark;
// regressing it would only cause harmless re-upserts, but the checkpoint is
// documented as monotonic, so keep it that way.
func advanceCheckpoint(cp *Checkpoints, key string, observedMax int64) error {
	current, err := cp.GetInt(key)
	if err != nil {
		return err
	}
	if observedMax <= current {
		return nil
	}
	return cp.SetInt(key, observedMax)
}
