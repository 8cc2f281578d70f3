package storage

import (
	"context"
	"errors"
)

// ErrKeyNotFound is returned by KV.Get when the key has never been written
var ErrKeyNotFound = errors.New("key not found")

// Keys of the three persisted collections
const (
	KeyProjects  = "projects"
	KeyTasks     = "tasks"
	KeyDeadlines = "deadlines"
)

// KV is a durable key-value store holding opaque values
type KV interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Ping(ctx context.Context) error
	Close() error
}

// MultiSetter is implemented by backends that can write several keys in one round trip
type MultiSetter interface {
	SetMany(ctx context.Context, entries map[string][]byte) error
}
