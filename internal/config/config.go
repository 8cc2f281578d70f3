package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Storage backends selectable with STORAGE_BACKEND
const (
	BackendFile     = "file"
	BackendMemory   = "memory"
	BackendRedis    = "redis"
	BackendPostgres = "postgres"
	BackendSQLite   = "sqlite"
)

// Config holds application configuration
type Config struct {
	StorageBackend   string
	DataDir          string
	RedisURL         string
	RedisKeyPrefix   string
	DatabaseURL      string
	SQLitePath       string
	ServerPort       string
	FrontendURL      string
	RabbitMQURL      string
	RabbitMQPrefetch int
	ReminderInterval time.Duration
	SeedSampleData   bool
	StrictIDs        bool
	Timezone         *time.Location
	RateLimit        string
	EnableHSTS       bool
	WorkerDebugMode  bool
	ServerDebugMode  bool
	OTELEnabled      bool
	OTELEndpoint     string
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	return load(os.Getenv)
}

func load(lookup func(string) string) (*Config, error) {
	cfg := &Config{
		StorageBackend:   strings.ToLower(getEnv(lookup, "STORAGE_BACKEND", BackendFile)),
		DataDir:          getEnv(lookup, "DATA_DIR", "./data"),
		RedisURL:         getEnv(lookup, "REDIS_URL", "redis://localhost:6379/0"),
		RedisKeyPrefix:   getEnv(lookup, "REDIS_KEY_PREFIX", "taskboard:"),
		DatabaseURL:      getEnv(lookup, "DATABASE_URL", ""),
		SQLitePath:       getEnv(lookup, "SQLITE_PATH", "./data/taskboard.db"),
		ServerPort:       getEnv(lookup, "SERVER_PORT", "8080"),
		FrontendURL:      getEnv(lookup, "FRONTEND_URL", "http://localhost:4200"),
		RabbitMQURL:      getEnv(lookup, "RABBITMQ_URL", ""),
		RabbitMQPrefetch: getEnvInt(lookup, "RABBITMQ_PREFETCH", 1),
		ReminderInterval: getEnvDuration(lookup, "REMINDER_INTERVAL", time.Minute),
		SeedSampleData:   getEnvBool(lookup, "SEED_SAMPLE_DATA", true),
		StrictIDs:        getEnvBool(lookup, "STRICT_IDS", false),
		RateLimit:        getEnv(lookup, "RATE_LIMIT", "20-S"),
		EnableHSTS:       getEnvBool(lookup, "ENABLE_HSTS", false),
		WorkerDebugMode:  getEnvBool(lookup, "WORKER_DEBUG_MODE", false),
		ServerDebugMode:  getEnvBool(lookup, "SERVER_DEBUG_MODE", false),
		OTELEnabled:      getEnvBool(lookup, "OTEL_ENABLED", false),
		OTELEndpoint:     getEnv(lookup, "OTEL_EXPORTER_OTLP_ENDPOINT", ""),
	}

	loc, err := time.LoadLocation(getEnv(lookup, "TIMEZONE", "Local"))
	if err != nil {
		return nil, fmt.Errorf("invalid TIMEZONE: %w", err)
	}
	cfg.Timezone = loc

	if cfg.ReminderInterval <= 0 {
		return nil, fmt.Errorf("REMINDER_INTERVAL must be positive")
	}

	switch cfg.StorageBackend {
	case BackendFile:
		if cfg.DataDir == "" {
			return nil, fmt.Errorf("DATA_DIR is required for the file backend")
		}
	case BackendMemory:
	case BackendRedis:
		if cfg.RedisURL == "" {
			return nil, fmt.Errorf("REDIS_URL is required for the redis backend")
		}
	case BackendPostgres:
		if cfg.DatabaseURL == "" {
			return nil, fmt.Errorf("DATABASE_URL is required for the postgres backend")
		}
	case BackendSQLite:
		if cfg.SQLitePath == "" {
			return nil, fmt.Errorf("SQLITE_PATH is required for the sqlite backend")
		}
	default:
		return nil, fmt.Errorf("unknown STORAGE_BACKEND %q (must be file, memory, redis, postgres or sqlite)", cfg.StorageBackend)
	}

	return cfg, nil
}

func getEnv(lookup func(string) string, key, defaultValue string) string {
	if value := lookup(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvBool(lookup func(string) string, key string, defaultValue bool) bool {
	if value := lookup(key); value != "" {
		return value == "true" || value == "1" || value == "yes"
	}
	return defaultValue
}

func getEnvInt(lookup func(string) string, key string, defaultValue int) int {
	if value := lookup(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

// getEnvDuration accepts Go durations ("90s") or a bare number of seconds
func getEnvDuration(lookup func(string) string, key string, defaultValue time.Duration) time.Duration {
	value := lookup(key)
	if value == "" {
		return defaultValue
	}
	if d, err := time.ParseDuration(value); err == nil {
		return d
	}
	if secs, err := strconv.Atoi(value); err == nil {
		return time.Duration(secs) * time.Second
	}
	return defaultValue
}
