// internal/sync/validator.go
package sync

import (
	"encoding/json"
	"log"
	"time"

	"etl-service/internal/storage"
	"etl-service/pkg/models"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// CountPair names one source table / destination model pair to compare.
type CountPair struct {
	Name        string
	SourceTable string
	DestModel   interface{}
}

// DefaultCountPairs covers every synced table.
var DefaultCountPairs = []CountPair{
	{Name: "teams", SourceTable: "dbo.Teams", DestModel: &models.Team{}},
	{Name: "players", SourceTable: "dbo.Players", DestModel: &models.Player{}},
	{Name: "games", SourceTable: "dbo.Games", DestModel: &models.Game{}},
	{Name: "game_events", SourceTable: "dbo.GameEvents", DestModel: &models.GameEvent{}},
}

// CountResult is the outcome of comparing one pair.
type CountResult struct {
	Table       string `json:"table"`
	SourceCount int64  `json:"source_count"`
	DestCount   int64  `json:"dest_count"`
	Match       bool   `json:"match"`
}

// ValidateCounts compares row counts per table. Detection only: a mismatch
// is reported, never corrected, and a failure counting one table does not
// stop the rest.
func ValidateCounts(conns *storage.Conns, pairs []CountPair) []CountResult {
	results := make([]CountResult, 0, len(pairs))
	for _, pair := range pairs {
		var sourceCount, destCount int64
		if err := conns.Source.Table(pair.SourceTable).Count(&sourceCount).Error; err != nil {
			log.Printf("⚠️ [VALIDATE] Could not count source %s: %v", pair.Name, err)
			results = append(results, CountResult{Table: pair.Name})
			continue
		}
		if err := conns.Dest.Model(pair.DestModel).Count(&destCount).Error; err != nil {
			log.Printf("⚠️ [VALIDATE] Could not count destination %s: %v", pair.Name, err)
			results = append(results, CountResult{Table: pair.Name})
			continue
		}
		match := sourceCount == destCount
		icon := "✅"
		if !match {
			icon = "❌"
		}
		log.Printf("%s [VALIDATE] %-12s | source: %6d | destination: %6d", icon, pair.Name, sourceCount, destCount)
		results = append(results, CountResult{
			Table:       pair.Name,
			SourceCount: sourceCount,
			DestCount:   destCount,
			Match:       match,
		})
	}
	return results
}

// SaveValidation persists a validation summary row. Best-effort like the
// run log: failures are logged and swallowed.
func SaveValidation(dest *gorm.DB, cycleID uuid.UUID, results []CountResult) {
	payload, err := json.Marshal(results)
	if err != nil {
		log.Printf("⚠️ [VALIDATE] Could not marshal results: %v", err)
		return
	}
	mismatches := 0
	for _, r := range results {
		if !r.Match {
			mismatches++
		}
	}
	row := models.EtlValidation{
		CycleID:    cycleID,
		Results:    datatypes.JSON(payload),
		Mismatches: mismatches,
		ExecutedAt: time.Now().UTC(),
	}
	if err := dest.Create(&row).Error; err != nil {
		log.Printf("⚠️ [VALIDATE] Could not save validation row: %v", err)
	}
}

// RecentValidations returns the newest validation summaries.
func RecentValidations(db *gorm.DB, limit int) ([]models.EtlValidation, error) {
	var rows []models.EtlValidation
	err := db.Order("executed_at DESC, id DESC").Limit(limit).Find(&rows).Error
	return rows, err
}
