package jobs

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Job represents a queued background task.
type Job struct {
	ID       string
	Type     string
	Payload  interface{}
	Attempt  int
	Enqueued time.Time
}

// Handler processes a job.
type Handler func(context.Context, Job) error

// DoneFunc is called exactly once per enqueued job with its final outcome.
type DoneFunc func(Job, error)

// QueueConfig configures worker pool behaviour.
type QueueConfig struct {
	Workers    int
	BufferSize int
	// MaxRetries of zero runs each job once.
	MaxRetries int
	RetryDelay time.Duration
	Logger     *zap.Logger
	OnDone     DoneFunc
}

// Queue is a lightweight in-memory job dispatcher backed by goroutines.
type Queue struct {
	name    string
	handler Handler
	onDone  DoneFunc

	workers    int
	maxRetries int
	retryDelay time.Duration
	logger     *zap.Logger

	jobs    chan Job
	ctx     context.Context
	cancel  context.CancelFunc
	wg      sync.WaitGroup
	pending sync.WaitGroup
	mu      sync.Mutex
	started bool
	// sendMu keeps Stop from flushing the buffer while an Enqueue is mid-send.
	sendMu sync.RWMutex
}

// NewQueue builds a new queue with the provided handler.
func NewQueue(name string, handler Handler, cfg QueueConfig) *Queue {
	if cfg.Workers <= 0 {
		cfg.Workers = 1
	}
	if cfg.BufferSize <= 0 {
		cfg.BufferSize = cfg.Workers * 4
	}
	if cfg.MaxRetries < 0 {
		cfg.MaxRetries = 0
	}
	if cfg.RetryDelay <= 0 {
		cfg.RetryDelay = time.Second
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	if cfg.OnDone == nil {
		cfg.OnDone = func(Job, error) {}
	}

	return &Queue{
		name:       name,
		handler:    handler,
		onDone:     cfg.OnDone,
		workers:    cfg.Workers,
		maxRetries: cfg.MaxRetries,
		retryDelay: cfg.RetryDelay,
		logger:     cfg.Logger,
		jobs:       make(chan Job, cfg.BufferSize),
	}
}

// Start begins worker consumption. Safe to call once.
func (q *Queue) Start(ctx context.Context) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.started {
		return
	}
	q.ctx, q.cancel = context.WithCancel(ctx)
	for i := 0; i < q.workers; i++ {
		q.wg.Add(1)
		go q.worker()
	}
	q.started = true
	q.logger.Sugar().Debugw("queue started", "queue", q.name, "workers", q.workers)
}

// Drain waits until every enqueued job has reported, then stops the workers.
// When the queue context ends first, the remaining jobs are reported with
// the cancellation error instead of being run.
func (q *Queue) Drain() {
	q.mu.Lock()
	ctx := q.ctx
	q.mu.Unlock()

	done := make(chan struct{})
	go func() {
		q.pending.Wait()
		close(done)
	}()
	if ctx != nil {
		select {
		case <-done:
		case <-ctx.Done():
		}
	}
	q.Stop()
	<-done
}

// Stop cancels workers and waits for them to exit. Jobs still buffered are
// reported with the cancellation error.
func (q *Queue) Stop() {
	q.mu.Lock()
	if !q.started {
		q.mu.Unlock()
		return
	}
	q.cancel()
	q.started = false
	q.mu.Unlock()

	q.sendMu.Lock()
	defer q.sendMu.Unlock()
	q.wg.Wait()
	for {
		select {
		case job := <-q.jobs:
			q.finish(job, fmt.Errorf("queue %s stopped: %w", q.name, context.Canceled))
		default:
			q.logger.Sugar().Debugw("queue stopped", "queue", q.name)
			return
		}
	}
}

// Enqueue pushes a job onto the queue.
func (q *Queue) Enqueue(job Job) error {
	q.mu.Lock()
	ctx := q.ctx
	started := q.started
	if started {
		q.pending.Add(1)
	}
	q.mu.Unlock()

	if !started {
		return fmt.Errorf("queue %s not started", q.name)
	}
	if job.Enqueued.IsZero() {
		job.Enqueued = time.Now().UTC()
	}

	q.sendMu.RLock()
	defer q.sendMu.RUnlock()
	if err := ctx.Err(); err != nil {
		q.pending.Done()
		return fmt.Errorf("queue %s stopped: %w", q.name, err)
	}
	select {
	case <-ctx.Done():
		q.pending.Done()
		return fmt.Errorf("queue %s stopped: %w", q.name, ctx.Err())
	case q.jobs <- job:
		return nil
	}
}

func (q *Queue) worker() {
	defer q.wg.Done()
	for {
		select {
		case <-q.ctx.Done():
			return
		case job := <-q.jobs:
			q.run(job)
		}
	}
}

func (q *Queue) run(job Job) {
	for {
		err := q.handler(q.ctx, job)
		if err == nil || job.Attempt >= q.maxRetries || q.ctx.Err() != nil {
			if err != nil && q.maxRetries > 0 {
				q.logger.Sugar().Errorw("job exceeded retries", "queue", q.name, "job_id", job.ID, "type", job.Type, "error", err)
			}
			q.finish(job, err)
			return
		}
		job.Attempt++
		q.logger.Sugar().Warnw("job failed, retrying", "queue", q.name, "job_id", job.ID, "type", job.Type, "attempt", job.Attempt, "error", err)

		timer := time.NewTimer(q.retryDelay)
		select {
		case <-q.ctx.Done():
			timer.Stop()
			q.finish(job, err)
			return
		case <-timer.C:
		}
	}
}

func (q *Queue) finish(job Job, err error) {
	q.onDone(job, err)
	q.pending.Done()
}
