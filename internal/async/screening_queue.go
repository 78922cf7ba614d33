package async

import (
	"context"
	"sync"
	"time"

	"log/slog"

	"github.com/google/uuid"

	"github.com/Fr3nn3r/ZurichInnovation/internal/pipeline"
)

// ScreeningQueue fans submitted documents out to a fixed worker pool. Each
// worker runs the full screening pipeline and hands the verdict to the
// sink. A failed document is logged and skipped, never retried here.
type ScreeningQueue struct {
	proc    *pipeline.Processor
	sink    VerdictSink
	runID   uuid.UUID
	logger  *slog.Logger
	workers int
	timeout time.Duration

	ch   chan Job
	wg   sync.WaitGroup
	once sync.Once

	mu     sync.Mutex
	closed bool
}

type Option func(*ScreeningQueue)

func WithWorkers(n int) Option {
	return func(q *ScreeningQueue) {
		if n > 0 {
			q.workers = n
		}
	}
}
func WithQueueSize(n int) Option {
	return func(q *ScreeningQueue) {
		if n > 0 {
			q.ch = make(chan Job, n)
		}
	}
}
func WithProcessTimeout(d time.Duration) Option {
	return func(q *ScreeningQueue) {
		if d > 0 {
			q.timeout = d
		}
	}
}

func NewScreeningQueue(proc *pipeline.Processor, sink VerdictSink, runID uuid.UUID, logger *slog.Logger, opts ...Option) *ScreeningQueue {
	if logger == nil {
		logger = slog.Default()
	}
	q := &ScreeningQueue{
		proc:    proc,
		sink:    sink,
		runID:   runID,
		logger:  logger,
		workers: 4,
		timeout: 3 * time.Minute,
		ch:      make(chan Job, 256),
	}
	for _, o := range opts {
		o(q)
	}
	q.start()
	return q
}

func (q *ScreeningQueue) start() {
	q.once.Do(func() {
		for i := 0; i < q.workers; i++ {
			q.wg.Add(1)
			go func(workerID int) {
				defer q.wg.Done()
				q.logger.Info("worker started", "worker_id", workerID)

				for job := range q.ch {
					ctx, cancel := context.WithTimeout(context.Background(), q.timeout)
					verdict, err := q.proc.Process(ctx, job.Document)
					if err != nil {
						cancel()
						q.logger.Error("screening failed", "worker_id", workerID, "document_id", job.Document.ID, "error", err)
						continue
					}
					if err := q.sink.Put(ctx, q.runID, verdict); err != nil {
						q.logger.Error("verdict sink failed", "worker_id", workerID, "document_id", job.Document.ID, "error", err)
					} else {
						q.logger.Info("screened document",
							"worker_id", workerID,
							"document_id", job.Document.ID,
							"overall", string(verdict.Overall),
						)
					}
					cancel()
				}

				q.logger.Info("worker stopped", "worker_id", workerID)
			}(i + 1)
		}
	})
}

func (q *ScreeningQueue) Enqueue(_ context.Context, job Job) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.closed {
		q.logger.Warn("cannot enqueue: queue is shutting down", "document_id", job.Document.ID)
		return nil
	}
	select {
	case q.ch <- job:
		q.logger.Info("queued document for screening", "document_id", job.Document.ID)
	default:
		q.logger.Warn("queue full, applying backpressure", "document_id", job.Document.ID)
		q.ch <- job
	}
	return nil
}

func (q *ScreeningQueue) Shutdown(ctx context.Context) {
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
