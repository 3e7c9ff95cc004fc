package jobs

import (
	"context"
	"log/slog"
	"sync"
)

// JobHandler processes a single job taken off the queue.
type JobHandler func(ctx context.Context, job Job, workerID int)

// WorkerPool runs a fixed number of goroutines that drain a Queue.
type WorkerPool struct {
	queue       *Queue
	workerCount int
	handle      JobHandler
	wg          sync.WaitGroup
	ctx         context.Context
	cancel      context.CancelFunc
	logger      *slog.Logger
}

// NewWorkerPool creates a pool of workerCount workers. A count below one
// is raised to one.
func NewWorkerPool(queue *Queue, workerCount int, handle JobHandler, logger *slog.Logger) *WorkerPool {
	if workerCount <= 0 {
		logger.Warn("invalid worker count specified, using default",
			"specified_count", workerCount,
			"default_count", 1)
		workerCount = 1
	}

	ctx, cancel := context.WithCancel(context.Background())
	return &WorkerPool{
		queue:       queue,
		workerCount: workerCount,
		handle:      handle,
		ctx:         ctx,
		cancel:      cancel,
		logger:      logger,
	}
}

// Start launches the workers.
func (p *WorkerPool) Start() {
	p.logger.Info("starting worker pool", "worker_count", p.workerCount)
	for i := 0; i < p.workerCount; i++ {
		p.wg.Add(1)
		go p.worker(i)
	}
}

// Stop signals the workers and waits for in-flight jobs to finish.
func (p *WorkerPool) Stop() {
	p.cancel()
	p.wg.Wait()
	p.logger.Info("worker pool stopped")
}

func (p *WorkerPool) worker(id int) {
	defer p.wg.Done()
	p.logger.Debug("starting worker", "worker_id", id)

	for {
		select {
		case <-p.ctx.Done():
			p.logger.Debug("stopping worker", "worker_id", id)
			return
		case job, ok := <-p.queue.Jobs():
			if !ok {
				p.logger.Debug("job queue closed, stopping worker", "worker_id", id)
				return
			}
			p.handle(context.Background(), job, id)
		}
	}
}
