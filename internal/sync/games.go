// internal/sync/games.go
package sync

import (
	"fmt"
	"time"

	"etl-service/internal/storage"
	"etl-service/pkg/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// sourceGame is one row of dbo.Games.
type sourceGame struct {
	GameID     int64     `gorm:"column:GameId"`
	HomeTeam   string    `gorm:"column:HomeTeam"`
	AwayTeam   string    `gorm:"column:AwayTeam"`
	HomeTeamID *int64    `gorm:"column:HomeTeamId"`
	AwayTeamID *int64    `gorm:"column:AwayTeamId"`
	Quarter    int       `gorm:"column:Quarter"`
	HomeScore  int       `gorm:"column:HomeScore"`
	AwayScore  int       `gorm:"column:AwayScore"`
	Status     string    `gorm:"column:Status"`
	CreatedAt  time.Time `gorm:"column:CreatedAt"`
}

type GameSyncer struct {
	sourceTable string
}

func NewGameSyncer() *GameSyncer {
	return &GameSyncer{sourceTable: "dbo.Games"}
}

func (s *GameSyncer) Name() string { return "games" }

// gameConflict is the games upsert clause. The reporting service writes the
// live fields (quarter, scores, status) straight into the destination, so
// those columns only take the source value while the destination row is
// still SCHEDULED; afterwards the destination copy wins.
func gameConflict() clause.OnConflict {
	return clause.OnConflict{
		Columns: []clause.Column{{Name: "game_id"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"home_team":    gorm.Expr("excluded.home_team"),
			"away_team":    gorm.Expr("excluded.away_team"),
			"home_team_id": gorm.Expr("excluded.home_team_id"),
			"away_team_id": gorm.Expr("excluded.away_team_id"),
			"quarter":      gorm.Expr("CASE WHEN games.status = 'SCHEDULED' THEN excluded.quarter ELSE games.quarter END"),
			"home_score":   gorm.Expr("CASE WHEN games.status = 'SCHEDULED' THEN excluded.home_score ELSE games.home_score END"),
			"away_score":   gorm.Expr("CASE WHEN games.status = 'SCHEDULED' THEN excluded.away_score ELSE games.away_score END"),
			"status":       gorm.Expr("CASE WHEN games.status = 'SCHEDULED' THEN excluded.status ELSE games.status END"),
		}),
	}
}

func (s *GameSyncer) toModels(rows []sourceGame) []models.Game {
	games := make([]models.Game, len(rows))
	for i, row := range rows {
		games[i] = models.Game{
			GameID:     row.GameID,
			HomeTeam:   row.HomeTeam,
			AwayTeam:   row.AwayTeam,
			HomeTeamID: row.HomeTeamID,
			AwayTeamID: row.AwayTeamID,
			Quarter:    row.Quarter,
			HomeScore:  row.HomeScore,
			AwayScore:  row.AwayScore,
			Status:     row.Status,
			CreatedAt:  row.CreatedAt,
		}
	}
	return games
}

// Sync is the incremental path: only games with id beyond the checkpoint.
func (s *GameSyncer) Sync(conns *storage.Conns, rlog *RunLogger) Result {
	start := time.Now()
	cp := NewCheckpoints(conns.Dest)

	lastID, err := cp.GetInt(checkpointKey(s.Name()))
	if err != nil {
		return failResult(rlog, s.Name(), start, 0, err)
	}

	var rows []sourceGame
	if err := conns.Source.Table(s.sourceTable).
		Where("GameId > ?", lastID).
		Order("GameId").
		Find(&rows).Error; err != nil {
		return failResult(rlog, s.Name(), start, lastID, fmt.Errorf("query source games: %w", err))
	}

	if len(rows) == 0 {
		return okResult(rlog, s.Name(), start, 0, lastID)
	}

	games := s.toModels(rows)
	err = conns.Dest.Transaction(func(tx *gorm.DB) error {
		return tx.Clauses(gameConflict()).CreateInBatches(&games, 200).Error
	})
	if err != nil {
		return failResult(rlog, s.Name(), start, lastID, fmt.Errorf("upsert games: %w", err))
	}

	newLastID := rows[len(rows)-1].GameID
	if err := cp.SetInt(checkpointKey(s.Name()), newLastID); err != nil {
		return failResult(rlog, s.Name(), start, lastID, fmt.Errorf("advance games checkpoint: %w", err))
	}

	return okResult(rlog, s.Name(), start, len(rows), newLastID)
}

// Resync ignores the checkpoint and re-upserts games, optionally limited to
// the given game ids. Used by the on-demand path to refresh mutable rows
// (score, status) the incremental strategy never revisits. Games are never
// deleted here.
func (s *GameSyncer) Resync(conns *storage.Conns, rlog *RunLogger, gameIDs []int64) Result {
	start := time.Now()
	cp := NewCheckpoints(conns.Dest)

	query := conns.Source.Table(s.sourceTable).Order("GameId")
	if len(gameIDs) > 0 {
		query = query.Where("GameId IN ?", gameIDs)
	}

	var rows []sourceGame
	if err := query.Find(&rows).Error; err != nil {
		return failResult(rlog, s.Name(), start, 0, fmt.Errorf("query source games: %w", err))
	}

	if len(rows) == 0 {
		return okResult(rlog, s.Name(), start, 0, 0)
	}

	games := s.toModels(rows)
	err := conns.Dest.Transaction(func(tx *gorm.DB) error {
		return tx.Clauses(gameConflict()).CreateInBatches(&games, 200).Error
	})
	if err != nil {
		return failResult(rlog, s.Name(), start, 0, fmt.Errorf("upsert games: %w", err))
	}

	newLastID := rows[len(rows)-1].GameID
	if err := advanceCheckpoint(cp, checkpointKey(s.Name()), newLastID); err != nil {
		return failResult(rlog, s.Name(), start, 0, fmt.Errorf("advance games checkpoint: %w", err))
	}

	return okResult(rlog, s.Name(), start, len(rows), newLastID)
}
