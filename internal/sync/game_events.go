// internal/sync/game_events.go
package sync

import (
	"fmt"
	"time"

	"etl-service/internal/storage"
	"etl-service/pkg/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// sourceGameEvent is one row of dbo.GameEvents.
type sourceGameEvent struct {
	EventID      int64     `gorm:"column:EventId"`
	GameID       int64     `gorm:"column:GameId"`
	Quarter      int       `gorm:"column:Quarter"`
	Team         string    `gorm:"column:Team"`
	EventType    string    `gorm:"column:EventType"`
	PlayerNumber *int      `gorm:"column:PlayerNumber"`
	PlayerID     *int64    `gorm:"column:PlayerId"`
	FoulType     *string   `gorm:"column:FoulType"`
	CreatedAt    time.Time `gorm:"column:CreatedAt"`
}

type GameEventSyncer struct {
	sourceTable string
}

func NewGameEventSyncer() *GameEventSyncer {
	return &GameEventSyncer{sourceTable: "dbo.GameEvents"}
}

func (s *GameEventSyncer) Name() string { return "game_events" }

func eventConflict() clause.OnConflict {
	return clause.OnConflict{
		Columns: []clause.Column{{Name: "event_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"game_id", "quarter", "team", "event_type", "player_number", "player_id", "foul_type",
		}),
	}
}

func (s *GameEventSyncer) toModels(rows []sourceGameEvent) []models.GameEvent {
	events := make([]models.GameEvent, len(rows))
	for i, row := range rows {
		events[i] = models.GameEvent{
			EventID:      row.EventID,
			GameID:       row.GameID,
			Quarter:      row.Quarter,
			Team:         row.Team,
			EventType:    row.EventType,
			PlayerNumber: row.PlayerNumber,
			PlayerID:     row.PlayerID,
			FoulType:     row.FoulType,
			CreatedAt:    row.CreatedAt,
		}
	}
	return events
}

// Sync is the incremental path: events are append-only upstream, so new ids
// past the checkpoint cover normal operation.
func (s *GameEventSyncer) Sync(conns *storage.Conns, rlog *RunLogger) Result {
	start := time.Now()
	cp := NewCheckpoints(conns.Dest)

	lastID, err := cp.GetInt(checkpointKey(s.Name()))
	if err != nil {
		return failResult(rlog, s.Name(), start, 0, err)
	}

	var rows []sourceGameEvent
	if err := conns.Source.Table(s.sourceTable).
		Where("EventId > ?", lastID).
		Order("EventId").
		Find(&rows).Error; err != nil {
		return failResult(rlog, s.Name(), start, lastID, fmt.Errorf("query source game events: %w", err))
	}

	if len(rows) == 0 {
		return okResult(rlog, s.Name(), start, 0, lastID)
	}

	events := s.toModels(rows)
	err = conns.Dest.Transaction(func(tx *gorm.DB) error {
		return tx.Clauses(eventConflict()).CreateInBatches(&events, 200).Error
	})
	if err != nil {
		return failResult(rlog, s.Name(), start, lastID, fmt.Errorf("upsert game events: %w", err))
	}

	newLastID := rows[len(rows)-1].EventID
	if err := cp.SetInt(checkpointKey(s.Name()), newLastID); err != nil {
		return failResult(rlog, s.Name(), start, lastID, fmt.Errorf("advance game_events checkpoint: %w", err))
	}

	return okResult(rlog, s.Name(), start, len(rows), newLastID)
}

// Resync re-upserts events for the given games (all games when the scope is
// empty) and then deletes destination events in that scope whose id was not
// among the fetched rows. Upstream event deletions (scorekeeper
// corrections) are invisible to the incremental path; this is the only
// place they are reconciled.
func (s *GameEventSyncer) Resync(conns *storage.Conns, rlog *RunLogger, gameIDs []int64) Result {
	start := time.Now()
	cp := NewCheckpoints(conns.Dest)

	query := conns.Source.Table(s.sourceTable).Order("EventId")
	if len(gameIDs) > 0 {
		query = query.Where("GameId IN ?", gameIDs)
	}

	var rows []sourceGameEvent
	if err := query.Find(&rows).Error; err != nil {
		return failResult(rlog, s.Name(), start, 0, fmt.Errorf("query source game events: %w", err))
	}

	events := s.toModels(rows)
	seenIDs := make([]int64, len(rows))
	for i, row := range rows {
		seenIDs[i] = row.EventID
	}

	err := conns.Dest.Transaction(func(tx *gorm.DB) error {
		if len(events) > 0 {
			if err := tx.Clauses(eventConflict()).CreateInBatches(&events, 200).Error; err != nil {
				return err
			}
		}
		// reconcile upstream deletions within the scope
		del := tx.Model(&models.GameEvent{})
		if len(gameIDs) > 0 {
			del = del.Where("game_id IN ?", gameIDs)
		}
		if len(seenIDs) > 0 {
			del = del.Where("event_id NOT IN ?", seenIDs)
		}
		if len(gameIDs) == 0 && len(seenIDs) == 0 {
			// empty upstream, unscoped: everything downstream is an orphan
			del = del.Session(&gorm.Session{AllowGlobalUpdate: true})
		}
		return del.Delete(&models.GameEvent{}).Error
	})
	if err != nil {
		return failResult(rlog, s.Name(), start, 0, fmt.Errorf("reconcile game events: %w", err))
	}

	var newLastID int64
	if len(rows) > 0 {
		newLastID = rows[len(rows)-1].EventID
		if err := advanceCheckpoint(cp, checkpointKey(s.Name()), newLastID); err != nil {
			return failResult(rlog, s.Name(), start, 0, fmt.Errorf("advance game_events checkpoint: %w", err))
		}
	}

	return okResult(rlog, s.Name(), start, len(rows), newLastID)
}
