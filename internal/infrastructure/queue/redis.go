package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// ProcessingJob is the payload dispatched when a meeting's transcript
// becomes available. The external summarization worker consumes it.
type ProcessingJob struct {
	MeetingID     string `json:"meeting_id"`
	TranscriptURL string `json:"transcript_url"`
}

// Dispatcher enqueues processing jobs onto a Redis list. Dispatch is
// fire-and-forget: exactly one enqueue per event delivery, consumption
// guarantees belong to the worker.
type Dispatcher struct {
	client *redis.Client
	key    string
}

// NewDispatcher creates a dispatcher writing to the given list key
func NewDispatcher(client *redis.Client, key string) *Dispatcher {
	return &Dispatcher{client: client, key: key}
}

// DispatchProcessing enqueues a summarize-transcript job
func (d *Dispatcher) DispatchProcessing(ctx context.Context, job ProcessingJob) error {
	payload, err := json.Marshal(job)
	if err != nil {
		return fmt.Errorf("failed to encode job: %w", err)
	}
	if err := d.client.LPush(ctx, d.key, payload).Err(); err != nil {
		return fmt.Errorf("failed to enqueue job: %w", err)
	}
	return nil
}

// Consumer pops processing jobs from the Redis list
type Consumer struct {
	client     *redis.Client
	key        string
	popTimeout time.Duration
}

// NewConsumer creates a consumer reading from the given list key
func NewConsumer(client *redis.Client, key string, popTimeout time.Duration) *Consumer {
	return &Consumer{client: client, key: key, popTimeout: popTimeout}
}

// ErrNoJob is returned when the pop timeout elapses with an empty queue
var ErrNoJob = errors.New("no job available")

// Next blocks up to the pop timeout for the next job
func (c *Consumer) Next(ctx context.Context) (*ProcessingJob, error) {
	res, err := c.client.BRPop(ctx, c.popTimeout, c.key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrNoJob
		}
		return nil, fmt.Errorf("failed to pop job: %w", err)
	}
	// BRPop returns [key, value]
	if len(res) != 2 {
		return nil, fmt.Errorf("unexpected BRPOP reply of length %d", len(res))
	}

	var job ProcessingJob
	if err := json.Unmarshal([]byte(res[1]), &job); err != nil {
		return nil, fmt.Errorf("failed to decode job: %w", err)
	}
	return &job, nil
}
