package sync

import (
	"context"
	"errors"
	"testing"
	"time"

	"etl-service/internal/storage"
	"etl-service/pkg/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeOpener struct {
	conns *storage.Conns
	err   error
	calls int
}

func (o *fakeOpener) Open(ctx context.Context) (*storage.Conns, error) {
	o.calls++
	if o.err != nil {
		return nil, o.err
	}
	return o.conns, nil
}

func TestRunOnceSyncsAllTablesInOrder(t *testing.T) {
	f := newFixture(t)
	f.insertTeam(t, 1, "Lions", "Metro")
	f.insertPlayer(t, 1, 1, 23, "J. Carter")
	f.insertGame(t, 1, "Lions", "Bears", "SCHEDULED", 0, 0, 1)
	f.insertEvent(t, 1, 1, "POINT_2")

	opener := &fakeOpener{conns: f.conns}
	orch := NewOrchestrator(opener, time.Minute)

	ok := orch.RunOnce(context.Background())
	assert.True(t, ok)
	assert.Equal(t, 1, opener.calls)

	summary := orch.LastCycle()
	require.NotNil(t, summary)
	assert.True(t, summary.Success)
	assert.Equal(t, 4, summary.TotalRecords)

	tables := make([]string, len(summary.Results))
	for i, r := range summary.Results {
		tables[i] = r.Table
		assert.Equal(t, models.SyncStatusSuccess, r.Status)
	}
	assert.Equal(t, []string{"teams", "players", "games", "game_events"}, tables)

	// rows were copied, so counts were validated and all match
	require.Len(t, summary.Validation, 4)
	for _, v := range summary.Validation {
		assert.True(t, v.Match, "table %s should match", v.Table)
	}
}

// One broken table must not stop its siblings: players fails, the other
// three still run and succeed, the cycle reports failure overall.
func TestRunOnceIsolatesTableFailure(t *testing.T) {
	f := newFixture(t)
	f.insertTeam(t, 1, "Lions", "Metro")
	f.insertGame(t, 1, "Lions", "Bears", "SCHEDULED", 0, 0, 1)
	f.insertEvent(t, 1, 1, "POINT_2")
	require.NoError(t, f.conns.Source.Exec(`DROP TABLE dbo.Players`).Error)

	orch := NewOrchestrator(&fakeOpener{conns: f.conns}, time.Minute)
	ok := orch.RunOnce(context.Background())
	assert.False(t, ok)

	summary := orch.LastCycle()
	require.NotNil(t, summary)
	assert.False(t, summary.Success)
	require.Len(t, summary.Results, 4)

	byTable := map[string]Result{}
	for _, r := range summary.Results {
		byTable[r.Table] = r
	}
	assert.Equal(t, models.SyncStatusError, byTable["players"].Status)
	assert.Equal(t, models.SyncStatusSuccess, byTable["teams"].Status)
	assert.Equal(t, models.SyncStatusSuccess, byTable["games"].Status)
	assert.Equal(t, models.SyncStatusSuccess, byTable["game_events"].Status)
	assert.Equal(t, 3, summary.TotalRecords)
}

func TestRunOnceSkipsValidationWhenNothingCopied(t *testing.T) {
	f := newFixture(t)

	orch := NewOrchestrator(&fakeOpener{conns: f.conns}, time.Minute)
	ok := orch.RunOnce(context.Background())
	assert.True(t, ok)

	summary := orch.LastCycle()
	require.NotNil(t, summary)
	assert.Equal(t, 0, summary.TotalRecords)
	assert.Empty(t, summary.Validation)
}

func TestRunOnceAbortsCycleWhenConnectionsUnavailable(t *testing.T) {
	opener := &fakeOpener{err: errors.New("source unreachable")}
	orch := NewOrchestrator(opener, time.Minute)

	ok := orch.RunOnce(context.Background())
	assert.False(t, ok)

	summary := orch.LastCycle()
	require.NotNil(t, summary)
	assert.False(t, summary.Success)
	assert.Contains(t, summary.Error, "source unreachable")
	assert.Empty(t, summary.Results, "no partial syncing without both connections")
}
