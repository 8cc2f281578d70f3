package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/benvon/taskboard/internal/models"
)

// Snapshot is the full state of the three collections
type Snapshot struct {
	Projects  []models.Project  `json:"projects" yaml:"projects"`
	Tasks     []models.Task     `json:"tasks" yaml:"tasks"`
	Deadlines []models.Deadline `json:"deadlines" yaml:"deadlines"`
}

// Persister loads and saves whole snapshots
type Persister interface {
	Load(ctx context.Context) (Snapshot, error)
	Save(ctx context.Context, snap Snapshot) error
	Ping(ctx context.Context) error
}

// JSONPersister stores each collection as a JSON array under its own key
type JSONPersister struct {
	kv KV
}

// NewJSONPersister creates a persister over the given key-value backend
func NewJSONPersister(kv KV) *JSONPersister {
	return &JSONPersister{kv: kv}
}

var _ Persister = (*JSONPersister)(nil)

// Load reads the three collections. A missing key leaves its collection empty;
// a malformed value is an error.
func (p *JSONPersister) Load(ctx context.Context) (Snapshot, error) {
	var snap Snapshot
	if err := p.loadKey(ctx, KeyProjects, &snap.Projects); err != nil {
		return Snapshot{}, err
	}
	if err := p.loadKey(ctx, KeyTasks, &snap.Tasks); err != nil {
		return Snapshot{}, err
	}
	if err := p.loadKey(ctx, KeyDeadlines, &snap.Deadlines); err != nil {
		return Snapshot{}, err
	}
	return snap, nil
}

func (p *JSONPersister) loadKey(ctx context.Context, key string, dst any) error {
	data, err := p.kv.Get(ctx, key)
	if errors.Is(err, ErrKeyNotFound) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", key, err)
	}
	if len(data) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, dst); err != nil {
		return fmt.Errorf("failed to decode %s: %w", key, err)
	}
	return nil
}

// Save writes all three collections. Backends implementing MultiSetter write them
// together; otherwise each key is written in turn.
func (p *JSONPersister) Save(ctx context.Context, snap Snapshot) error {
	entries := make(map[string][]byte, 3)
	for key, value := range map[string]any{
		KeyProjects:  nonNil(snap.Projects),
		KeyTasks:     nonNil(snap.Tasks),
		KeyDeadlines: nonNil(snap.Deadlines),
	} {
		data, err := json.Marshal(value)
		if err != nil {
			return fmt.Errorf("failed to encode %s: %w", key, err)
		}
		entries[key] = data
	}

	if ms, ok := p.kv.(MultiSetter); ok {
		if err := ms.SetMany(ctx, entries); err != nil {
			return fmt.Errorf("failed to write snapshot: %w", err)
		}
		return nil
	}

	for _, key := range []string{KeyProjects, KeyTasks, KeyDeadlines} {
		if err := p.kv.Set(ctx, key, entries[key]); err != nil {
			return fmt.Errorf("failed to write %s: %w", key, err)
		}
	}
	return nil
}

// nonNil makes empty collections serialise as [] rather than null
func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}

// Ping checks the underlying backend
func (p *JSONPersister) Ping(ctx context.Context) error {
	return p.kv.Ping(ctx)
}
