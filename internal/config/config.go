// Package config loads application settings from the environment. Binaries
// call godotenv.Load() first so a local .env file can provide them in
// development.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"
)

type Config struct {
	Port        string
	DataBackend string // "sqlite" or "memory"

	SQLiteDBPath string

	// AMQP settings are optional; when AMQPURL is empty, event publishing
	// and the worker pipeline are disabled.
	AMQPURL      string
	AMQPExchange string
	AMQPQueue    string

	// Worker settings.
	AuditInterval       time.Duration
	GoogleSpreadsheetID string
	GoogleSheetName     string
}

func Load() *Config {
	cfg := &Config{
		Port:                getEnv("PORT", "8080"),
		DataBackend:         getEnv("DATA_BACKEND", "sqlite"),
		SQLiteDBPath:        getEnv("SQLITE_DB_PATH", "data/financeapp.db"),
		AMQPURL:             os.Getenv("AMQP_URL"),
		AMQPExchange:        getEnv("AMQP_EXCHANGE", "financeapp"),
		AMQPQueue:           getEnv("AMQP_QUEUE", "transaction-events"),
		GoogleSpreadsheetID: os.Getenv("GOOGLE_SPREADSHEET_ID"),
		GoogleSheetName:     getEnv("GOOGLE_SHEET_NAME", "Transactions"),
	}

	cfg.AuditInterval = 15 * time.Minute
	if v := os.Getenv("AUDIT_INTERVAL"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.AuditInterval = d
		}
	}

	return cfg
}

func (c *Config) Validate() error {
	switch c.DataBackend {
	case "sqlite":
		if c.SQLiteDBPath == "" {
			return fmt.Errorf("SQLITE_DB_PATH is required for the sqlite backend")
		}
	case "memory":
		// No additional settings.
	default:
		return fmt.Errorf("invalid DATA_BACKEND: %s", c.DataBackend)
	}

	if c.AMQPURL != "" {
		if c.AMQPExchange == "" || c.AMQPQueue == "" {
			return fmt.Errorf("AMQP_EXCHANGE and AMQP_QUEUE are required when AMQP_URL is set")
		}
	}

	return nil
}

func getEnv(key, defaultValue string) string {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return defaultValue
	}
	return value
}
