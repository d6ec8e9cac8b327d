package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	Addr             string
	DBPath           string
	LogLevel         string
	AuditWorkerCount int
	AuditQueueSize   int
	SessionTickMs    int
	MaxImportBytes   int
}

// Load reads configuration from a .env file (if present) and environment variables,
// applying sensible defaults when values are missing or invalid.
func Load() Config {
	// Ignore error so the app still starts when .env is absent in production.
	_ = godotenv.Load()

	return Config{
		Addr:             envOr("ADDR", ":8080"),
		DBPath:           envOr("DB_PATH", "file:drillforge.db"),
		LogLevel:         envOr("LOG_LEVEL", "INFO"),
		AuditWorkerCount: envIntOr("AUDIT_WORKER_COUNT", 1),
		AuditQueueSize:   envIntOr("AUDIT_QUEUE_SIZE", 16),
		SessionTickMs:    envIntOr("SESSION_TICK_MS", 1000),
		MaxImportBytes:   envIntOr("MAX_IMPORT_BYTES", 4<<20),
	}
}

// Validate checks the configuration and collects every problem into a
// single error so misconfiguration is reported in one pass.
func (c Config) Validate() error {
	var problems []string

	if c.Addr == "" {
		problems = append(problems, "ADDR cannot be empty")
	}
	if c.DBPath == "" {
		problems = append(problems, "DB_PATH cannot be empty")
	}
	switch strings.ToUpper(c.LogLevel) {
	case "DEBUG", "INFO", "WARN", "WARNING", "ERROR":
	default:
		problems = append(problems, fmt.Sprintf("LOG_LEVEL %q is not one of DEBUG, INFO, WARN, ERROR", c.LogLevel))
	}
	if c.AuditWorkerCount <= 0 {
		problems = append(problems, "AUDIT_WORKER_COUNT must be positive")
	}
	if c.AuditQueueSize <= 0 {
		problems = append(problems, "AUDIT_QUEUE_SIZE must be positive")
	}
	if c.SessionTickMs <= 0 {
		problems = append(problems, "SESSION_TICK_MS must be positive")
	}
	if c.MaxImportBytes <= 0 {
		problems = append(problems, "MAX_IMPORT_BYTES must be positive")
	}

	if len(problems) > 0 {
		return fmt.Errorf("invalid configuration: %s", strings.Join(problems, "; "))
	}
	return nil
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envIntOr(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
		log.Printf("invalid value for %s=%q, using default %d", key, v, def)
	}
	return def
}
