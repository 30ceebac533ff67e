// internal/sync/checkpoint.go
package sync

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"etl-service/pkg/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Checkpoints reads and writes the per-table watermarks in etl_state.
// A missing key reads as "0" so the first sync of a table starts from the
// beginning.
type Checkpoints struct {
	db *gorm.DB
}

func NewCheckpoints(db *gorm.DB) *Checkpoints {
	return &Checkpoints{db: db}
}

func checkpointKey(table string) string {
	return table + "_last_id"
}

func (c *Checkpoints) Get(key string) (string, error) {
	var state models.EtlState
	err := c.db.Where("checkpoint_key = ?", key).First(&state).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "0", nil
	}
	if err != nil {
		return "", err
	}
	return state.CheckpointValue, nil
}

func (c *Checkpoints) GetInt(key string) (int64, error) {
	value, err := c.Get(key)
	if err != nil {
		return 0, err
	}
	n, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("checkpoint %s is not numeric (%q): %w", key, value, err)
	}
	return n, nil
}

// Set upserts the checkpoint and commits immediately. Callers advance the
// checkpoint only after the row batch it covers has been committed.
func (c *Checkpoints) Set(key, value string) error {
	state := models.EtlState{
		CheckpointKey:   key,
		CheckpointValue: value,
		UpdatedAt:       time.Now().UTC(),
	}
	return c.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "checkpoint_key"}},
		DoUpdates: clause.AssignmentColumns([]string{"checkpoint_value", "updated_at"}),
	}).Create(&state).Error
}

func (c *Checkpoints) SetInt(key string, value int64) error {
	return c.Set(key, strconv.FormatInt(value, 10))
}
