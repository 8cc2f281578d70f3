package storage

import (
	"context"
	"errors"
	"sort"
	"time"

	"github.com/benvon/taskboard/internal/metrics"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const tracerName = "github.com/benvon/taskboard/internal/storage"

// InstrumentedKV records metrics and trace spans around another backend
type InstrumentedKV struct {
	next    KV
	backend string
	metrics *metrics.Metrics
	tracer  trace.Tracer
}

// Instrument wraps kv. A nil m disables metrics; spans go to the global tracer provider.
func Instrument(kv KV, backend string, m *metrics.Metrics) *InstrumentedKV {
	return &InstrumentedKV{
		next:    kv,
		backend: backend,
		metrics: m,
		tracer:  otel.Tracer(tracerName),
	}
}

var (
	_ KV          = (*InstrumentedKV)(nil)
	_ MultiSetter = (*InstrumentedKV)(nil)
)

func (i *InstrumentedKV) observe(ctx context.Context, op string, keys []string, fn func(context.Context) error) error {
	ctx, span := i.tracer.Start(ctx, "kv."+op, trace.WithAttributes(
		attribute.String("kv.backend", i.backend),
		attribute.StringSlice("kv.keys", keys),
	))
	defer span.End()

	start := time.Now()
	err := fn(ctx)

	result := "ok"
	switch {
	case errors.Is(err, ErrKeyNotFound):
		result = "miss"
	case err != nil:
		result = "error"
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}

	if i.metrics != nil {
		i.metrics.KVOperations.WithLabelValues(i.backend, op, result).Inc()
		i.metrics.KVDuration.WithLabelValues(i.backend, op).Observe(time.Since(start).Seconds())
	}
	return err
}

// Get delegates to the wrapped backend
func (i *InstrumentedKV) Get(ctx context.Context, key string) ([]byte, error) {
	var data []byte
	err := i.observe(ctx, "get", []string{key}, func(ctx context.Context) error {
		var err error
		data, err = i.next.Get(ctx, key)
		return err
	})
	return data, err
}

// Set delegates to the wrapped backend
func (i *InstrumentedKV) Set(ctx context.Context, key string, value []byte) error {
	return i.observe(ctx, "set", []string{key}, func(ctx context.Context) error {
		return i.next.Set(ctx, key, value)
	})
}

// SetMany uses the wrapped backend's batch write when it has one
func (i *InstrumentedKV) SetMany(ctx context.Context, entries map[string][]byte) error {
	keys := make([]string, 0, len(entries))
	for k := range entries {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return i.observe(ctx, "set_many", keys, func(ctx context.Context) error {
		if ms, ok := i.next.(MultiSetter); ok {
			return ms.SetMany(ctx, entries)
		}
		for _, k := range keys {
			if err := i.next.Set(ctx, k, entries[k]); err != nil {
				return err
			}
		}
		return nil
	})
}

// Ping delegates to the wrapped backend
func (i *InstrumentedKV) Ping(ctx context.Context) error {
	return i.next.Ping(ctx)
}

// Unwrap returns the wrapped backend
func (i *InstrumentedKV) Unwrap() KV {
	return i.next
}

// Close delegates to the wrapped backend
func (i *InstrumentedKV) Close() error {
	return i.next.Close()
}
