package service

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/bnema/photobridge/internal/domain"
	"github.com/bnema/photobridge/internal/infrastructure/logger"
)

type task struct {
	job *domain.Job
	run func() error
}

// WorkerPool runs asynchronous library operations on a fixed set of
// goroutines. Every submitted task runs exactly once, including tasks still
// queued when the pool shuts down.
type WorkerPool struct {
	tasks   chan task
	workers int
	nextID  atomic.Int64

	mu      sync.RWMutex
	running bool
	stopped chan struct{}
	wg      sync.WaitGroup
	// overflow tracks tasks run outside the workers.
	overflow sync.WaitGroup

	statsMu sync.Mutex
	stats   map[domain.JobStatus]int
}

func NewWorkerPool(workers, queueSize int) *WorkerPool {
	if workers < 1 {
		workers = 1
	}
	if queueSize < 0 {
		queueSize = 0
	}
	return &WorkerPool{
		tasks:   make(chan task, queueSize),
		workers: workers,
		stopped: make(chan struct{}),
		stats:   make(map[domain.JobStatus]int),
	}
}

func (wp *WorkerPool) Start(ctx context.Context) {
	wp.mu.Lock()
	wp.running = true
	wp.mu.Unlock()

	for i := range wp.workers {
		wp.wg.Add(1)
		go wp.runWorker(ctx, i)
	}
	logger.Info.Printf("started %d workers", wp.workers)

	go func() {
		<-ctx.Done()
		wp.mu.Lock()
		wp.running = false
		wp.mu.Unlock()

		wp.wg.Wait()
		// Nothing can be queued anymore; finish what is left.
		for {
			select {
			case t := <-wp.tasks:
				wp.execute(-1, t)
			default:
				close(wp.stopped)
				return
			}
		}
	}()
}

// Wait blocks until the pool has stopped, drained its queue and finished
// every task that ran outside the workers.
func (wp *WorkerPool) Wait() {
	<-wp.stopped
	wp.overflow.Wait()
}

// Submit queues run. When the pool is not running or its queue is full the
// task gets its own goroutine rather than being dropped.
func (wp *WorkerPool) Submit(jobType domain.JobType, subject string, run func() error) *domain.Job {
	job := &domain.Job{
		ID:        wp.nextID.Add(1),
		Type:      jobType,
		Subject:   subject,
		Status:    domain.JobStatusPending,
		CreatedAt: time.Now(),
	}
	t := task{job: job, run: run}
	wp.count(domain.JobStatusPending, 1)

	wp.mu.RLock()
	defer wp.mu.RUnlock()
	if wp.running {
		select {
		case wp.tasks <- t:
			return job
		default:
			logger.Warn.Printf("job queue full, running job %d (type=%s) outside the pool", job.ID, job.Type)
		}
	}
	wp.overflow.Add(1)
	go func() {
		defer wp.overflow.Done()
		wp.execute(-1, t)
	}()
	return job
}

func (wp *WorkerPool) runWorker(ctx context.Context, id int) {
	defer wp.wg.Done()
	for {
		select {
		case <-ctx.Done():
			logger.Debug.Printf("worker %d shutting down", id)
			return
		case t := <-wp.tasks:
			wp.execute(id, t)
		}
	}
}

func (wp *WorkerPool) execute(workerID int, t task) {
	job := t.job
	job.Status = domain.JobStatusRunning
	job.StartedAt = time.Now()
	wp.count(domain.JobStatusPending, -1)
	wp.count(domain.JobStatusRunning, 1)

	logger.Debug.Printf("worker %d: processing job %d (type=%s, subject=%s)", workerID, job.ID, job.Type, logger.SanitizeForLog(job.Subject))

	err := t.run()

	job.CompletedAt = time.Now()
	wp.count(domain.JobStatusRunning, -1)
	if err != nil {
		job.Status = domain.JobStatusFailed
		job.ErrorMessage = err.Error()
		wp.count(domain.JobStatusFailed, 1)
		logger.Error.Printf("job %d (type=%s) failed: %v", job.ID, job.Type, err)
		return
	}
	job.Status = domain.JobStatusDone
	wp.count(domain.JobStatusDone, 1)
	logger.Debug.Printf("job %d completed in %s", job.ID, job.CompletedAt.Sub(job.StartedAt))
}

func (wp *WorkerPool) count(status domain.JobStatus, delta int) {
	wp.statsMu.Lock()
	wp.stats[status] += delta
	wp.statsMu.Unlock()
}

// Stats returns job counts per status.
func (wp *WorkerPool) Stats() map[domain.JobStatus]int {
	wp.statsMu.Lock()
	defer wp.statsMu.Unlock()
	out := make(map[domain.JobStatus]int, len(wp.stats))
	for k, v := range wp.stats {
		out[k] = v
	}
	return out
}
