package queue

import (
	"context"
)

// MessageInterface is a delivered job awaiting acknowledgement
type MessageInterface interface {
	Ack() error
	Nack(requeue bool) error
	GetJob() *Job
}

// JobQueue is the interface for job queues
type JobQueue interface {
	// Enqueue publishes a job
	Enqueue(ctx context.Context, job *Job) error

	// Consume delivers messages asynchronously until ctx is cancelled.
	// prefetchCount bounds how many unacknowledged messages the consumer holds.
	// The caller must Ack or Nack every message received.
	Consume(ctx context.Context, prefetchCount int) (<-chan MessageInterface, <-chan error, error)

	// Close closes the queue connection
	Close() error

	// HealthCheck verifies the queue connection is healthy
	HealthCheck(ctx context.Context) error
}
