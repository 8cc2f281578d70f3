package storage

import (
	"context"
	"fmt"

	"github.com/benvon/taskboard/internal/config"
	"github.com/benvon/taskboard/internal/metrics"
)

// Open builds the backend selected by cfg.StorageBackend and wraps it with
// metrics and tracing. A nil m disables metrics.
func Open(ctx context.Context, cfg *config.Config, m *metrics.Metrics) (*InstrumentedKV, error) {
	var (
		kv  KV
		err error
	)

	switch cfg.StorageBackend {
	case config.BackendMemory:
		kv = NewMemoryKV()
	case config.BackendFile:
		kv, err = NewFileKV(cfg.DataDir)
	case config.BackendRedis:
		kv, err = NewRedisKV(cfg.RedisURL, cfg.RedisKeyPrefix)
	case config.BackendPostgres:
		kv, err = NewSQLKV(ctx, DriverPostgres, cfg.DatabaseURL)
	case config.BackendSQLite:
		kv, err = NewSQLKV(ctx, DriverSQLite, cfg.SQLitePath)
	default:
		return nil, fmt.Errorf("unknown storage backend: %s", cfg.StorageBackend)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to open %s storage: %w", cfg.StorageBackend, err)
	}

	return Instrument(kv, cfg.StorageBackend, m), nil
}
