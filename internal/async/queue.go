package async

import (
	"context"
	"sync"
	"time"

	"log/slog"

	"github.com/joseph-ayodele/tender-analyzer/internal/pipeline"
)

// Task is one scheduled sequencer run.
type Task struct {
	JobID string
}

// SequencerQueue fans submitted jobs out to a bounded pool of workers, each
// running the pipeline sequencer for one job at a time. The buffered channel
// is the admission queue; enqueues past the buffer block the submitter.
type SequencerQueue struct {
	seq     *pipeline.Sequencer
	logger  *slog.Logger
	workers int
	timeout time.Duration

	ch   chan Task
	wg   sync.WaitGroup
	once sync.Once

	mu     sync.Mutex
	closed bool
}

type Option func(*SequencerQueue)

func WithWorkers(n int) Option {
	return func(q *SequencerQueue) {
		if n > 0 {
			q.workers = n
		}
	}
}
func WithQueueSize(n int) Option {
	return func(q *SequencerQueue) {
		if n > 0 {
			q.ch = make(chan Task, n)
		}
	}
}
func WithJobTimeout(d time.Duration) Option {
	return func(q *SequencerQueue) {
		if d > 0 {
			q.timeout = d
		}
	}
}

func NewSequencerQueue(seq *pipeline.Sequencer, logger *slog.Logger, opts ...Option) *SequencerQueue {
	if logger == nil {
		logger = slog.Default()
	}
	q := &SequencerQueue{
		seq:     seq,
		logger:  logger,
		workers: 8,
		timeout: 10 * time.Minute,
		ch:      make(chan Task, 256),
	}
	for _, o := range opts {
		o(q)
	}
	q.start()
	return q
}

func (q *SequencerQueue) start() {
	q.once.Do(func() {
		for i := 0; i < q.workers; i++ {
			q.wg.Add(1)
			go func(workerID int) {
				defer q.wg.Done()
				q.logger.Info("worker started", "worker_id", workerID)

				for task := range q.ch {
					ctx, cancel := context.WithTimeout(context.Background(), q.timeout)
					q.seq.Run(ctx, task.JobID)
					cancel()
				}

				q.logger.Info("worker stopped", "worker_id", workerID)
			}(i + 1)
		}
	})
}

func (q *SequencerQueue) Enqueue(_ context.Context, task Task) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.closed {
		q.logger.Warn("cannot enqueue: queue is shutting down", "job_id", task.JobID)
		return nil
	}
	select {
	case q.ch <- task:
		q.logger.Info("queued job for analysis", "job_id", task.JobID)
	default:
		q.logger.Warn("queue full, applying backpressure", "job_id", task.JobID)
		q.ch <- task
	}
	return nil
}

func (q *SequencerQueue) Shutdown(ctx context.Context) {
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return
	}
	q.closed = true
	close(q.ch)
	q.mu.Unlock()

	done := make(chan struct{})
	go func() { defer close(done); q.wg.Wait() }()

	select {
	case <-ctx.Done():
		q.logger.Warn("shutdown interrupted by context")
	case <-done:
		q.logger.Info("queue drained, shutdown complete")
	}
}
