// internal/sync/teams.go
package sync

import (
	"fmt"
	"time"

	"etl-service/internal/storage"
	"etl-service/pkg/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// sourceTeam is one row of dbo.Teams as the upstream scoreboard stores it.
type sourceTeam struct {
	TeamID    int64     `gorm:"column:TeamId"`
	Name      string    `gorm:"column:Name"`
	City      string    `gorm:"column:City"`
	LogoURL   *string   `gorm:"column:LogoUrl"`
	CreatedAt time.Time `gorm:"column:CreatedAt"`
}

type TeamSyncer struct {
	sourceTable string
}

func NewTeamSyncer() *TeamSyncer {
	return &TeamSyncer{sourceTable: "dbo.Teams"}
}

func (s *TeamSyncer) Name() string { return "teams" }

func (s *TeamSyncer) Sync(conns *storage.Conns, rlog *RunLogger) Result {
	start := time.Now()
	cp := NewCheckpoints(conns.Dest)

	lastID, err := cp.GetInt(checkpointKey(s.Name()))
	if err != nil {
		return failResult(rlog, s.Name(), start, 0, err)
	}

	var rows []sourceTeam
	if err := conns.Source.Table(s.sourceTable).
		Where("TeamId > ?", lastID).
		Order("TeamId").
		Find(&rows).Error; err != nil {
		return failResult(rlog, s.Name(), start, lastID, fmt.Errorf("query source teams: %w", err))
	}

	if len(rows) == 0 {
		return okResult(rlog, s.Name(), start, 0, lastID)
	}

	teams := make([]models.Team, len(rows))
	for i, row := range rows {
		teams[i] = models.Team{
			TeamID:    row.TeamID,
			Name:      row.Name,
			City:      row.City,
			LogoURL:   row.LogoURL,
			CreatedAt: row.CreatedAt,
		}
	}

	err = conns.Dest.Transaction(func(tx *gorm.DB) error {
		return tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "team_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"name", "city", "logo_url"}),
		}).CreateInBatches(&teams, 200).Error
	})
	if err != nil {
		return failResult(rlog, s.Name(), start, lastID, fmt.Errorf("upsert teams: %w", err))
	}

	// rows are fetched in ascending id order, so the last one is the max
	newLastID := rows[len(rows)-1].TeamID
	if err := cp.SetInt(checkpointKey(s.Name()), newLastID); err != nil {
		return failResult(rlog, s.Name(), start, lastID, fmt.Errorf("advance teams checkpoint: %w", err))
	}

	return okResult(rlog, s.Name(), start, len(rows), newLastID)
}
