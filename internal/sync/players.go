// internal/sync/players.go
package sync

import (
	"fmt"
	"time"

	"etl-service/internal/storage"
	"etl-service/pkg/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// sourcePlayer is one row of dbo.Players.
type sourcePlayer struct {
	PlayerID  int64     `gorm:"column:PlayerId"`
	TeamID    int64     `gorm:"column:TeamId"`
	Number    int       `gorm:"column:Number"`
	Name      string    `gorm:"column:Name"`
	Position  *string   `gorm:"column:Position"`
	Active    bool      `gorm:"column:Active"`
	CreatedAt time.Time `gorm:"column:CreatedAt"`
}

type PlayerSyncer struct {
	sourceTable string
}

func NewPlayerSyncer() *PlayerSyncer {
	return &PlayerSyncer{sourceTable: "dbo.Players"}
}

func (s *PlayerSyncer) Name() string { return "players" }

func (s *PlayerSyncer) Sync(conns *storage.Conns, rlog *RunLogger) Result {
	start := time.Now()
	cp := NewCheckpoints(conns.Dest)

	lastID, err := cp.GetInt(checkpointKey(s.Name()))
	if err != nil {
		return failResult(rlog, s.Name(), start, 0, err)
	}

	var rows []sourcePlayer
	if err := conns.Source.Table(s.sourceTable).
		Where("PlayerId > ?", lastID).
		Order("PlayerId").
		Find(&rows).Error; err != nil {
		return failResult(rlog, s.Name(), start, lastID, fmt.Errorf("query source players: %w", err))
	}

	if len(rows) == 0 {
		return okResult(rlog, s.Name(), start, 0, lastID)
	}

	players := make([]models.Player, len(rows))
	for i, row := range rows {
		players[i] = models.Player{
			PlayerID:  row.PlayerID,
			TeamID:    row.TeamID,
			Number:    row.Number,
			Name:      row.Name,
			Position:  row.Position,
			Active:    row.Active,
			CreatedAt: row.CreatedAt,
		}
	}

	err = conns.Dest.Transaction(func(tx *gorm.DB) error {
		return tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "player_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"team_id", "number", "name", "position", "active"}),
		}).CreateInBatches(&players, 200).Error
	})
	if err != nil {
		return failResult(rlog, s.Name(), start, lastID, fmt.Errorf("upsert players: %w", err))
	}

	newLastID := rows[len(rows)-1].PlayerID
	if err := cp.SetInt(checkpointKey(s.Name()), newLastID); err != nil {
		return failResult(rlog, s.Name(), start, lastID, fmt.Errorf("advance players checkpoint: %w", err))
	}

	return okResult(rlog, s.Name(), start, len(rows), newLastID)
}
