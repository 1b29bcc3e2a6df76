package notify

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/example/storefront-service/internal/metrics"
)

// Job is one unit of best-effort follow-up work.
type Job struct {
	Kind string
	Run  func(ctx context.Context) error
}

// Dispatcher runs jobs on a fixed pool of workers fed by a bounded queue.
// Enqueue never blocks: when the queue is full the job is dropped.
type Dispatcher struct {
	queue   chan Job
	timeout time.Duration
	log     *slog.Logger

	mu     sync.RWMutex
	closed bool
	wg     sync.WaitGroup
}

func NewDispatcher(size int, timeout time.Duration, log *slog.Logger) *Dispatcher {
	if size < 1 {
		size = 1
	}
	if log == nil {
		log = slog.Default()
	}
	return &Dispatcher{queue: make(chan Job, size), timeout: timeout, log: log}
}

// Start launches the workers. They exit once Close has been called and the queue is drained.
func (d *Dispatcher) Start(workers int) {
	if workers < 1 {
		workers = 1
	}
	for i := 0; i < workers; i++ {
		d.wg.Add(1)
		go func() {
			defer d.wg.Done()
			for j := range d.queue {
				d.run(j)
			}
		}()
	}
}

func (d *Dispatcher) run(j Job) {
	// не зависит от контекста запроса: ответ провайдеру уже отправлен
	ctx := context.Background()
	if d.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, d.timeout)
		defer cancel()
	}
	if err := j.Run(ctx); err != nil {
		metrics.NotificationsTotal.WithLabelValues(j.Kind, "error").Inc()
		d.log.Error("notification failed", "kind", j.Kind, "error", err)
		return
	}
	metrics.NotificationsTotal.WithLabelValues(j.Kind, "ok").Inc()
}

func (d *Dispatcher) Enqueue(j Job) bool {
	d.mu.RLock()
	defer d.mu.RUnlock()
	if d.closed {
		return false
	}
	select {
	case d.queue <- j:
		return true
	default:
		metrics.NotifyQueueDroppedTotal.Inc()
		return false
	}
}

// Close stops accepting jobs and waits for queued ones to finish.
func (d *Dispatcher) Close() {
	d.mu.Lock()
	if !d.closed {
		d.closed = true
		close(d.queue)
	}
	d.mu.Unlock()
	d.wg.Wait()
}
