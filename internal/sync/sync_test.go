package sync

import (
	"testing"
	"time"

	"etl-service/internal/storage"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// openMemDB opens an isolated in-memory sqlite database. Pinned to one
// connection so every query sees the same memory database.
func openMemDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{Logger: gormlogger.Discard})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	return db
}

// newSourceDB builds an in-memory stand-in for the upstream SQL Server: an
// attached "dbo" schema holding the four scoreboard tables.
func newSourceDB(t *testing.T) *gorm.DB {
	t.Helper()
	db := openMemDB(t)
	require.NoError(t, db.Exec("ATTACH DATABASE ':memory:' AS dbo").Error)
	for _, ddl := range []string{
		`CREATE TABLE dbo.Teams (TeamId INTEGER PRIMARY KEY, Name TEXT, City TEXT, LogoUrl TEXT, CreatedAt DATETIME)`,
		`CREATE TABLE dbo.Players (PlayerId INTEGER PRIMARY KEY, TeamId INTEGER, Number INTEGER, Name TEXT, Position TEXT, Active BOOLEAN, CreatedAt DATETIME)`,
		`CREATE TABLE dbo.Games (GameId INTEGER PRIMARY KEY, HomeTeam TEXT, AwayTeam TEXT, HomeTeamId INTEGER, AwayTeamId INTEGER, Quarter INTEGER, HomeScore INTEGER, AwayScore INTEGER, Status TEXT, CreatedAt DATETIME)`,
		`CREATE TABLE dbo.GameEvents (EventId INTEGER PRIMARY KEY, GameId INTEGER, Quarter INTEGER, Team TEXT, EventType TEXT, PlayerNumber INTEGER, PlayerId INTEGER, FoulType TEXT, CreatedAt DATETIME)`,
	} {
		require.NoError(t, db.Exec(ddl).Error)
	}
	return db
}

type fixture struct {
	conns *storage.Conns
	rlog  *RunLogger
	cp    *Checkpoints
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	src := newSourceDB(t)
	dst := openMemDB(t)
	require.NoError(t, storage.Migrate(dst))
	conns := &storage.Conns{Source: src, Dest: dst}
	t.Cleanup(conns.Close)
	return &fixture{
		conns: conns,
		rlog:  NewRunLogger(dst, uuid.New()),
		cp:    NewCheckpoints(dst),
	}
}

func (f *fixture) insertTeam(t *testing.T, id int64, name, city string) {
	t.Helper()
	err := f.conns.Source.Exec(
		`INSERT INTO dbo.Teams (TeamId, Name, City, LogoUrl, CreatedAt) VALUES (?, ?, ?, NULL, ?)`,
		id, name, city, time.Now().UTC(),
	).Error
	require.NoError(t, err)
}

func (f *fixture) insertPlayer(t *testing.T, id, teamID int64, number int, name string) {
	t.Helper()
	err := f.conns.Source.Exec(
		`INSERT INTO dbo.Players (PlayerId, TeamId, Number, Name, Position, Active, CreatedAt) VALUES (?, ?, ?, ?, 'GUARD', 1, ?)`,
		id, teamID, number, name, time.Now().UTC(),
	).Error
	require.NoError(t, err)
}

func (f *fixture) insertGame(t *testing.T, id int64, home, away, status string, homeScore, awayScore, quarter int) {
	t.Helper()
	err := f.conns.Source.Exec(
		`INSERT INTO dbo.Games (GameId, HomeTeam, AwayTeam, HomeTeamId, AwayTeamId, Quarter, HomeScore, AwayScore, Status, CreatedAt)
		 VALUES (?, ?, ?, NULL, NULL, ?, ?, ?, ?, ?)`,
		id, home, away, quarter, homeScore, awayScore, status, time.Now().UTC(),
	).Error
	require.NoError(t, err)
}

func (f *fixture) insertEvent(t *testing.T, id, gameID int64, eventType string) {
	t.Helper()
	err := f.conns.Source.Exec(
		`INSERT INTO dbo.GameEvents (EventId, GameId, Quarter, Team, EventType, PlayerNumber, PlayerId, FoulType, CreatedAt)
		 VALUES (?, ?, 1, 'HOME', ?, NULL, NULL, NULL, ?)`,
		id, gameID, eventType, time.Now().UTC(),
	).Error
	require.NoError(t, err)
}

func (f *fixture) deleteSourceEvent(t *testing.T, id int64) {
	t.Helper()
	require.NoError(t, f.conns.Source.Exec(`DELETE FROM dbo.GameEvents WHERE EventId = ?`, id).Error)
}
