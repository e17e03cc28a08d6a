package syncer

import (
	"context"
	"encoding/json"
	"log"
	"sync"
	"time"

	"swachh-backend/internal/offline"
	"swachh-backend/internal/store"
)

// Coordinator states.
type State int

const (
	StateIdle State = iota
	StateDraining
	StateBackoff
)

func (s State) String() string {
	switch s {
	case StateDraining:
		return "draining"
	case StateBackoff:
		return "backoff"
	}
	return "idle"
}

// Uploader replays one buffered record against the backend. A nil error
// confirms delivery; a retryable error (store.IsRetryable) pauses the
// drain; any other error marks the record permanently rejected.
type Uploader interface {
	Upload(ctx context.Context, partition string, payload json.RawMessage) error
}

// Config tunes the coordinator's retry behavior.
type Config struct {
	InitialBackoff time.Duration
	MaxBackoff     time.Duration
}

// Result summarizes one drain pass.
type Result struct {
	Uploaded     int    `json:"uploaded"`
	DeadLettered int    `json:"deadLettered"`
	State        string `json:"state"`
	Error        string `json:"error,omitempty"`
}

// Status is the coordinator's externally visible state.
type Status struct {
	State     string         `json:"state"`
	Pending   map[string]int `json:"pending"`
	LastDrain *time.Time     `json:"lastDrain,omitempty"`
	LastError string         `json:"lastError,omitempty"`
}

// Coordinator drains the offline queue into the backend. One record at
// a time: a confirmed upload removes exactly that record, a retryable
// failure leaves the remainder buffered and backs off exponentially,
// and a permanent rejection is moved to the dead-letter partition
// instead of being retried forever or silently dropped.
type Coordinator struct {
	queue    *offline.Queue
	uploader Uploader

	initialBackoff time.Duration
	maxBackoff     time.Duration

	trigger chan struct{}

	// OnDrain, if set, is invoked after every drain pass (used to push
	// sync results to connected dashboard clients).
	OnDrain func(Result)

	mu        sync.Mutex
	state     State
	backoff   time.Duration
	lastDrain *time.Time
	lastError string
}

func New(queue *offline.Queue, uploader Uploader, cfg Config) *Coordinator {
	if cfg.InitialBackoff <= 0 {
		cfg.InitialBackoff = 5 * time.Second
	}
	if cfg.MaxBackoff <= 0 {
		cfg.MaxBackoff = 5 * time.Minute
	}
	return &Coordinator{
		queue:          queue,
		uploader:       uploader,
		initialBackoff: cfg.InitialBackoff,
		maxBackoff:     cfg.MaxBackoff,
		trigger:        make(chan struct{}, 1),
		backoff:        cfg.InitialBackoff,
	}
}

// Trigger requests a drain pass. Used on connectivity-restored signals
// and by the manual sync endpoint. Non-blocking; triggers coalesce.
func (c *Coordinator) Trigger() {
	select {
	case c.trigger <- struct{}{}:
	default:
	}
}

// State returns the coordinator's current state.
func (c *Coordinator) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Status reports state plus per-partition pending counts.
func (c *Coordinator) Status(ctx context.Context) (Status, error) {
	pending, err := c.queue.Counts(ctx)
	if err != nil {
		return Status{}, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	return Status{
		State:     c.state.String(),
		Pending:   pending,
		LastDrain: c.lastDrain,
		LastError: c.lastError,
	}, nil
}

// Run loops until ctx is cancelled, draining on each trigger and
// retrying on its own timer while in backoff.
func (c *Coordinator) Run(ctx context.Context) {
	log.Println("✅ Sync coordinator started")
	for {
		if c.State() == StateBackoff {
			c.mu.Lock()
			wait := c.backoff
			c.mu.Unlock()

			select {
			case <-ctx.Done():
				return
			case <-c.trigger:
			case <-time.After(wait):
			}
		} else {
			select {
			case <-ctx.Done():
				return
			case <-c.trigger:
			}
		}

		result := c.Drain(ctx)
		if ctx.Err() != nil {
			return
		}
		if c.OnDrain != nil {
			c.OnDrain(result)
		}
	}
}

// Drain runs one pass over every drainable partition. The pass ends in
// Idle when all partitions empty, or in Backoff at the first retryable
// failure, leaving unconfirmed records buffered. Cancelling ctx aborts
// the pass; the unconfirmed remainder is retained.
func (c *Coordinator) Drain(ctx context.Context) Result {
	c.setState(StateDraining)
	log.Println("🔄 Sync drain pass starting")

	var result Result
	for _, partition := range offline.DrainablePartitions() {
		entries, err := c.queue.ReadAll(ctx, partition)
		if err != nil {
			return c.finish(ctx, result, err)
		}

		for _, entry := range entries {
			if ctx.Err() != nil {
				return c.finish(ctx, result, ctx.Err())
			}

			err := c.uploader.Upload(ctx, partition, entry.Payload)
			switch {
			case err == nil:
				if err := c.queue.Remove(ctx, entry.ID); err != nil {
					return c.finish(ctx, result, err)
				}
				result.Uploaded++
				recordsUploaded.WithLabelValues(partition).Inc()

			case store.IsRetryable(err):
				log.Printf("⚠️  Upload from %s failed (retryable), backing off: %v", partition, err)
				return c.finish(ctx, result, err)

			default:
				// Permanently rejected (validation, unknown shape).
				// Preserve it for inspection, never retry.
				log.Printf("❌ Upload from %s rejected permanently, dead-lettering entry %d: %v", partition, entry.ID, err)
				if dlErr := c.queue.MoveToDeadLetter(ctx, entry.ID); dlErr != nil {
					return c.finish(ctx, result, dlErr)
				}
				result.DeadLettered++
				recordsDeadLettered.WithLabelValues(partition).Inc()
			}
		}
	}

	return c.finish(ctx, result, nil)
}

func (c *Coordinator) finish(ctx context.Context, result Result, err error) Result {
	now := time.Now()

	c.mu.Lock()
	c.lastDrain = &now
	if err != nil && ctx.Err() == nil {
		c.state = StateBackoff
		c.lastError = err.Error()
		c.backoff *= 2
		if c.backoff > c.maxBackoff {
			c.backoff = c.maxBackoff
		}
		result.Error = err.Error()
		drainPasses.WithLabelValues("backoff").Inc()
	} else {
		c.state = StateIdle
		c.lastError = ""
		c.backoff = c.initialBackoff
		if err == nil {
			drainPasses.WithLabelValues("success").Inc()
			log.Printf("✅ Sync drain pass complete: %d uploaded, %d dead-lettered", result.Uploaded, result.DeadLettered)
		} else {
			drainPasses.WithLabelValues("cancelled").Inc()
			log.Printf("⚠️  Sync drain pass cancelled after %d uploads", result.Uploaded)
		}
	}
	result.State = c.state.String()
	stateGauge.Set(float64(c.state))
	c.mu.Unlock()

	return result
}

func (c *Coordinator) setState(s State) {
	c.mu.Lock()
	c.state = s
	stateGauge.Set(float64(s))
	c.mu.Unlock()
}
