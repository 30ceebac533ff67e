// internal/storage/db.go
package storage

import (
	"context"
	"fmt"
	"log"
	"time"

	"etl-service/internal/config"
	"etl-service/pkg/models"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlserver"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// connectTimeout bounds a single connection attempt; retries are governed
// by the RetryPolicy, not by this.
const connectTimeout = 30 * time.Second

// RetryPolicy controls how connection opening retries. Injected so tests
// can substitute a zero-delay policy.
type RetryPolicy struct {
	MaxAttempts int
	Delay       time.Duration
}

// Conns is one live pair of database handles. Each sync cycle (periodic or
// on-demand) owns its own pair and must Close it when done.
type Conns struct {
	Source *gorm.DB // SQL Server, read-only
	Dest   *gorm.DB // PostgreSQL
}

// Close closes both underlying connections. Safe to call with either side
// nil (partial construction).
func (c *Conns) Close() {
	if c == nil {
		return
	}
	closeDB(c.Source, "source")
	closeDB(c.Dest, "destination")
}

func closeDB(db *gorm.DB, name string) {
	if db == nil {
		return
	}
	sqlDB, err := db.DB()
	if err != nil {
		log.Printf("⚠️ [DB] Could not get %s handle for close: %v", name, err)
		return
	}
	if err := sqlDB.Close(); err != nil {
		log.Printf("⚠️ [DB] Error closing %s connection: %v", name, err)
	}
}

// Manager opens source/destination connection pairs with bounded retry.
type Manager struct {
	policy RetryPolicy

	openSourceFn func() (*gorm.DB, error)
	openDestFn   func() (*gorm.DB, error)
}

func NewManager(cfg *config.Config) *Manager {
	return &Manager{
		policy: RetryPolicy{MaxAttempts: cfg.MaxRetries, Delay: cfg.RetryDelay},
		openSourceFn: func() (*gorm.DB, error) {
			return gorm.Open(sqlserver.Open(cfg.SourceCS), gormConfig())
		},
		openDestFn: func() (*gorm.DB, error) {
			return gorm.Open(postgres.Open(cfg.DestinationCS), gormConfig())
		},
	}
}

func gormConfig() *gorm.Config {
	// gorm's own statement logging is noise next to the sync summaries
	return &gorm.Config{Logger: gormlogger.Default.LogMode(gormlogger.Silent)}
}

// Open returns a live connection pair or an error once both sides have
// exhausted their retries. No pair is returned unless both sides are up.
func (m *Manager) Open(ctx context.Context) (*Conns, error) {
	source, err := m.openWithRetry(ctx, "SQL Server", m.openSourceFn)
	if err != nil {
		return nil, fmt.Errorf("source connection failed: %w", err)
	}
	dest, err := m.openWithRetry(ctx, "PostgreSQL", m.openDestFn)
	if err != nil {
		closeDB(source, "source")
		return nil, fmt.Errorf("destination connection failed: %w", err)
	}
	return &Conns{Source: source, Dest: dest}, nil
}

// OpenDest opens only the destination side. Used at startup for migration
// and then kept alive for the operator read endpoints.
func (m *Manager) OpenDest(ctx context.Context) (*gorm.DB, error) {
	return m.openWithRetry(ctx, "PostgreSQL", m.openDestFn)
}

func (m *Manager) openWithRetry(ctx context.Context, name string, open func() (*gorm.DB, error)) (*gorm.DB, error) {
	var lastErr error
	for attempt := 1; attempt <= m.policy.MaxAttempts; attempt++ {
		db, err := open()
		if err == nil {
			err = ping(ctx, db)
			if err == nil {
				log.Printf("✅ [DB] Connected to %s (attempt %d)", name, attempt)
				return db, nil
			}
			closeDB(db, name)
		}
		lastErr = err
		log.Printf("⚠️ [DB] Error connecting to %s (attempt %d/%d): %v", name, attempt, m.policy.MaxAttempts, err)
		if attempt < m.policy.MaxAttempts {
			if err := sleepCtx(ctx, m.policy.Delay); err != nil {
				log.Printf("🛑 [DB] Giving up on %s: %v", name, err)
				return nil, err
			}
		}
	}
	log.Printf("❌ [DB] Could not connect to %s after %d attempts", name, m.policy.MaxAttempts)
	return nil, lastErr
}

// sleepCtx waits out the retry delay unless ctx is cancelled first, so a
// shutdown signal never blocks on a retry window.
func sleepCtx(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

func ping(ctx context.Context, db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	pingCtx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()
	return sqlDB.PingContext(pingCtx)
}

// Migrate creates the destination-side tables the sync engine owns along
// with the business tables it writes to. Run once at startup.
func Migrate(dest *gorm.DB) error {
	return dest.AutoMigrate(
		&models.EtlState{},
		&models.EtlLog{},
		&models.EtlValidation{},
		&models.Team{},
		&models.Player{},
		&models.Game{},
		&models.GameEvent{},
	)
}
