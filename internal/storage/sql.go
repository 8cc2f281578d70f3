package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "github.com/lib/pq"   // Postgres driver
	_ "modernc.org/sqlite" // SQLite driver
)

// Driver names accepted by NewSQLKV
const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

const kvTable = "taskboard_kv"

// SQLKV stores values in a single key/value table on Postgres or SQLite
type SQLKV struct {
	db     *sql.DB
	driver string
}

// NewSQLKV opens the database and ensures the table exists
func NewSQLKV(ctx context.Context, driver, dsn string) (*SQLKV, error) {
	if driver != DriverPostgres && driver != DriverSQLite {
		return nil, fmt.Errorf("unsupported SQL driver: %s", driver)
	}
	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s database: %w", driver, err)
	}
	if driver == DriverSQLite {
		db.SetMaxOpenConns(1) // prevent SQLITE_BUSY
	}

	kv := &SQLKV{db: db, driver: driver}
	if err := kv.migrate(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return kv, nil
}

var (
	_ KV          = (*SQLKV)(nil)
	_ MultiSetter = (*SQLKV)(nil)
)

func (s *SQLKV) migrate(ctx context.Context) error {
	ts := "TIMESTAMPTZ"
	if s.driver == DriverSQLite {
		ts = "DATETIME"
	}
	query := fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS %s (
			kv_key     TEXT PRIMARY KEY,
			kv_value   TEXT NOT NULL,
			updated_at %s NOT NULL
		)`, kvTable, ts)
	if _, err := s.db.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("failed to create %s table: %w", kvTable, err)
	}
	return nil
}

// placeholder returns the n-th bind parameter for the driver
func (s *SQLKV) placeholder(n int) string {
	if s.driver == DriverPostgres {
		return fmt.Sprintf("$%d", n)
	}
	return "?"
}

func (s *SQLKV) upsertQuery() string {
	return fmt.Sprintf(`
		INSERT INTO %s (kv_key, kv_value, updated_at)
		VALUES (%s, %s, %s)
		ON CONFLICT (kv_key) DO UPDATE
		SET kv_value = excluded.kv_value, updated_at = excluded.updated_at`,
		kvTable, s.placeholder(1), s.placeholder(2), s.placeholder(3))
}

// Get returns the value stored under key
func (s *SQLKV) Get(ctx context.Context, key string) ([]byte, error) {
	query := fmt.Sprintf(`SELECT kv_value FROM %s WHERE kv_key = %s`, kvTable, s.placeholder(1))

	var value string
	err := s.db.QueryRowContext(ctx, query, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrKeyNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get %s: %w", key, err)
	}
	return []byte(value), nil
}

// Set upserts a single key
func (s *SQLKV) Set(ctx context.Context, key string, value []byte) error {
	if _, err := s.db.ExecContext(ctx, s.upsertQuery(), key, string(value), time.Now().UTC()); err != nil {
		return fmt.Errorf("failed to set %s: %w", key, err)
	}
	return nil
}

// SetMany upserts all entries in one transaction
func (s *SQLKV) SetMany(ctx context.Context, entries map[string][]byte) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, s.upsertQuery())
	if err != nil {
		return fmt.Errorf("failed to prepare upsert: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	now := time.Now().UTC()
	for key, value := range entries {
		if _, err := stmt.ExecContext(ctx, key, string(value), now); err != nil {
			return fmt.Errorf("failed to set %s: %w", key, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit snapshot: %w", err)
	}
	return nil
}

// Ping verifies the database connection
func (s *SQLKV) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Close closes the database
func (s *SQLKV) Close() error {
	return s.db.Close()
}
