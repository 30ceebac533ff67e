// internal/config/config.go
package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	ServerPort string

	// Databases
	SourceCS      string // SQL Server (upstream scoreboard, read-only)
	DestinationCS string // PostgreSQL (report store)

	// Sync loop
	SyncInterval time.Duration
	MaxRetries   int
	RetryDelay   time.Duration

	// Auth
	ServiceExpectedToken string
}

func Load() *Config {
	if os.Getenv("ENV") != "production" {
		_ = godotenv.Load() // optional .env for local
	}

	sourceCS := os.Getenv("MSSQL_CS")
	destCS := os.Getenv("POSTGRES_CS")
	if sourceCS == "" || destCS == "" {
		log.Fatalf("❌ MSSQL_CS and POSTGRES_CS must be set")
	}

	return &Config{
		ServerPort: getEnv("PORT", "8086"),

		SourceCS:      sourceCS,
		DestinationCS: destCS,

		SyncInterval: time.Duration(getEnvInt("ETL_INTERVAL_SECONDS", 120)) * time.Second,
		MaxRetries:   getEnvInt("ETL_MAX_RETRIES", 3),
		RetryDelay:   time.Duration(getEnvInt("ETL_RETRY_DELAY_SECONDS", 5)) * time.Second,

		// No default: an empty token means the trigger endpoint rejects everything.
		ServiceExpectedToken: os.Getenv("SERVICE_TOKEN"),
	}
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		log.Fatalf("❌ Invalid %s: %v", key, err)
	}
	return n
}
