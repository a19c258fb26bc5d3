package async

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/joseph-ayodele/orders-intake/internal/common"
	"github.com/joseph-ayodele/orders-intake/internal/services/orders"
)

// ErrQueueClosed is returned by Enqueue after Shutdown.
var ErrQueueClosed = errors.New("order queue is shutting down")

// Handler processes one message; *orders.Service satisfies it.
type Handler interface {
	Handle(ctx context.Context, message string) (orders.Result, error)
}

// Job is one queued message.
type Job struct {
	RequestID string
	Message   string
}

// OrderQueue runs submitted messages on a fixed pool of workers.
type OrderQueue struct {
	handler Handler
	logger  *slog.Logger
	workers int
	timeout time.Duration
	done    func(Job, orders.Result, error)

	ch   chan Job
	wg   sync.WaitGroup
	once sync.Once

	mu      sync.Mutex
	closed  bool
	quit    chan struct{}  // closed by Shutdown to release blocked senders
	senders sync.WaitGroup // Enqueue calls past the closed check
}

type Option func(*OrderQueue)

func WithWorkers(n int) Option {
	return func(q *OrderQueue) {
		if n > 0 {
			q.workers = n
		}
	}
}
func WithQueueSize(n int) Option {
	return func(q *OrderQueue) {
		if n > 0 {
			q.ch = make(chan Job, n)
		}
	}
}
func WithProcessTimeout(d time.Duration) Option {
	return func(q *OrderQueue) {
		if d > 0 {
			q.timeout = d
		}
	}
}

// WithOnDone registers a callback run by the worker after each job.
func WithOnDone(fn func(Job, orders.Result, error)) Option {
	return func(q *OrderQueue) { q.done = fn }
}

func NewOrderQueue(handler Handler, logger *slog.Logger, opts ...Option) *OrderQueue {
	if logger == nil {
		logger = slog.Default()
	}
	q := &OrderQueue{
		handler: handler,
		logger:  logger,
		workers: 4,
		timeout: time.Minute,
		ch:      make(chan Job, 256),
		quit:    make(chan struct{}),
	}
	for _, o := range opts {
		o(q)
	}
	q.start()
	return q
}

func (q *OrderQueue) start() {
	q.once.Do(func() {
		for i := 0; i < q.workers; i++ {
			q.wg.Add(1)
			go func(workerID int) {
				defer q.wg.Done()
				q.logger.Debug("worker started", "worker_id", workerID)

				for job := range q.ch {
					q.run(workerID, job)
				}

				q.logger.Debug("worker stopped", "worker_id", workerID)
			}(i + 1)
		}
	})
}

func (q *OrderQueue) run(workerID int, job Job) {
	ctx, cancel := context.WithTimeout(context.Background(), q.timeout)
	defer cancel()
	if job.RequestID != "" {
		ctx = common.WithRequestID(ctx, job.RequestID)
	}

	res, err := q.handler.Handle(ctx, job.Message)
	if err != nil {
		q.logger.Error("order processing failed", "worker_id", workerID, "req_id", job.RequestID, "error", err)
	} else {
		q.logger.Info("order processed", "worker_id", workerID, "req_id", job.RequestID,
			"invoice", res.InvoiceID, "saved", res.Saved)
	}
	if q.done != nil {
		q.done(job, res, err)
	}
}

// Enqueue blocks while the buffer is full, until ctx is done or the queue shuts down.
// The lock only guards the closed check, so one blocked caller never stalls others.
func (q *OrderQueue) Enqueue(ctx context.Context, job Job) error {
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		q.logger.Warn("cannot enqueue: queue is shutting down", "req_id", job.RequestID)
		return ErrQueueClosed
	}
	q.senders.Add(1)
	q.mu.Unlock()
	defer q.senders.Done()

	select {
	case q.ch <- job:
		q.logger.Debug("queued order", "req_id", job.RequestID)
		return nil
	default:
	}
	q.logger.Warn("queue full, applying backpressure", "req_id", job.RequestID)
	select {
	case q.ch <- job:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	case <-q.quit:
		return ErrQueueClosed
	}
}

// Shutdown stops intake and waits for queued jobs to drain, or for ctx.
func (q *OrderQueue) Shutdown(ctx context.Context) {
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return
	}
	q.closed = true
	close(q.quit)
	q.mu.Unlock()

	// no send can start after closed is set; wait out the ones in flight
	q.senders.Wait()
	close(q.ch)

	done := make(chan struct{})
	go func() { defer close(done); q.wg.Wait() }()

	select {
	case <-ctx.Done():
		q.logger.Warn("shutdown interrupted by context")
	case <-done:
		q.logger.Info("queue drained, shutdown complete")
	}
}
