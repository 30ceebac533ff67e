// internal/sync/orchestrator.go
package sync

import (
	"context"
	"log"
	"sync/atomic"
	"time"

	"etl-service/internal/storage"
	"etl-service/pkg/models"

	"github.com/google/uuid"
)

// ConnOpener yields a fresh source/destination pair per cycle. Satisfied by
// storage.Manager; tests substitute an in-memory pair.
type ConnOpener interface {
	Open(ctx context.Context) (*storage.Conns, error)
}

// CycleSummary is the outcome of one full periodic cycle, kept in memory
// for the /status endpoint.
type CycleSummary struct {
	CycleID         uuid.UUID     `json:"cycle_id"`
	StartedAt       time.Time     `json:"started_at"`
	DurationSeconds float64       `json:"duration_seconds"`
	TotalRecords    int           `json:"total_records"`
	Success         bool          `json:"success"`
	Results         []Result      `json:"results"`
	Validation      []CountResult `json:"validation,omitempty"`
	Error           string        `json:"error,omitempty"`
}

// Orchestrator runs the four table syncers in dependency order on a fixed
// interval. One cycle at a time; a cycle runs to completion before the next
// tick is considered.
type Orchestrator struct {
	opener     ConnOpener
	interval   time.Duration
	syncers    []Syncer
	countPairs []CountPair

	last atomic.Pointer[CycleSummary]
}

func NewOrchestrator(opener ConnOpener, interval time.Duration) *Orchestrator {
	return &Orchestrator{
		opener:   opener,
		interval: interval,
		// teams before players, games before events: syncing referenced
		// entities first narrows transient referential gaps
		syncers: []Syncer{
			NewTeamSyncer(),
			NewPlayerSyncer(),
			NewGameSyncer(),
			NewGameEventSyncer(),
		},
		countPairs: DefaultCountPairs,
	}
}

// LastCycle returns the most recent cycle summary, nil before the first one.
func (o *Orchestrator) LastCycle() *CycleSummary {
	return o.last.Load()
}

// RunOnce executes one full cycle: connect, sync every table regardless of
// individual failures, validate counts if anything was copied, close
// connections. Returns false when any table ended in error.
func (o *Orchestrator) RunOnce(ctx context.Context) bool {
	start := time.Now()
	cycleID := uuid.New()
	summary := &CycleSummary{CycleID: cycleID, StartedAt: start.UTC()}
	defer func() {
		summary.DurationSeconds = round2(time.Since(start).Seconds())
		o.last.Store(summary)
	}()

	log.Printf("🔄 [ETL] Starting sync cycle %s", cycleID)

	conns, err := o.opener.Open(ctx)
	if err != nil {
		log.Printf("❌ [ETL] Cycle %s aborted, connections unavailable: %v", cycleID, err)
		summary.Error = err.Error()
		return false
	}
	defer conns.Close()

	rlog := NewRunLogger(conns.Dest, cycleID)

	total := 0
	failed := 0
	for _, syncer := range o.syncers {
		result := syncer.Sync(conns, rlog)
		summary.Results = append(summary.Results, result)
		total += result.Count
		if result.Status != models.SyncStatusSuccess {
			failed++
			continue
		}
		if result.Count > 0 {
			log.Printf("✅ [ETL] %-12s | %5d records | %.2fs | last id %d",
				result.Table, result.Count, result.Duration, result.LastID)
		}
	}
	summary.TotalRecords = total

	if total > 0 {
		summary.Validation = ValidateCounts(conns, o.countPairs)
		SaveValidation(conns.Dest, cycleID, summary.Validation)
	}

	summary.Success = failed == 0
	if failed > 0 {
		log.Printf("⚠️ [ETL] Cycle %s finished with %d failed table(s), %d records in %.2fs",
			cycleID, failed, total, time.Since(start).Seconds())
	} else {
		log.Printf("✅ [ETL] Cycle %s complete: %d records in %.2fs", cycleID, total, time.Since(start).Seconds())
	}
	return summary.Success
}

// Start blocks, running a cycle immediately and then once per interval
// until ctx is cancelled. Cancellation is only observed between cycles.
func (o *Orchestrator) Start(ctx context.Context) {
	log.Printf("🚀 [ETL] Scheduler started (interval: %s)", o.interval)
	o.RunOnce(ctx)

	ticker := time.NewTicker(o.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Println("🛑 [ETL] Scheduler stopped")
			return
		case <-ticker.C:
			o.RunOnce(ctx)
		}
	}
}
