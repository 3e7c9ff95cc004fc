package jobs

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/phrazzld/cadence-api/internal/platform/logger"
	"github.com/phrazzld/cadence-api/internal/store"
)

// RunnerConfig holds configuration for the job runner
type RunnerConfig struct {
	// WorkerCount determines how many concurrent workers process jobs
	WorkerCount int

	// QueueSize determines the buffer size for the in-memory job queue
	QueueSize int

	// StuckJobAge is how long a job may stay in processing before it is
	// reset to pending and requeued
	StuckJobAge time.Duration

	// StuckJobCheckInterval is how often the stuck-job monitor runs.
	// Zero means five minutes.
	StuckJobCheckInterval time.Duration
}

// DefaultRunnerConfig returns a RunnerConfig with reasonable defaults
func DefaultRunnerConfig() RunnerConfig {
	return RunnerConfig{
		WorkerCount:           2,
		QueueSize:             100,
		StuckJobAge:           30 * time.Minute,
		StuckJobCheckInterval: 5 * time.Minute,
	}
}

// Runner persists submitted jobs, feeds them to a worker pool and records
// their outcome. Jobs left pending or processing by a previous process are
// recovered on Start.
type Runner struct {
	store      store.JobStore
	registry   *Registry
	queue      *Queue
	pool       *WorkerPool
	config     RunnerConfig
	logger     *slog.Logger
	errHandler func(job Job, err error)

	monitorCtx    context.Context
	monitorCancel context.CancelFunc
	monitorWG     sync.WaitGroup
	stopOnce      sync.Once
}

// NewRunner creates a Runner. registry rebuilds recovered jobs.
func NewRunner(jobStore store.JobStore, registry *Registry, config RunnerConfig, logger *slog.Logger) *Runner {
	if config.StuckJobCheckInterval <= 0 {
		config.StuckJobCheckInterval = 5 * time.Minute
	}
	log := logger.With("component", "job_runner")

	r := &Runner{
		store:    jobStore,
		registry: registry,
		queue:    NewQueue(config.QueueSize, log),
		config:   config,
		logger:   log,
		errHandler: func(job Job, err error) {
			log.Error("job execution failed",
				"job_id", job.ID(),
				"job_type", job.Type(),
				"error", err)
		},
	}
	r.pool = NewWorkerPool(r.queue, config.WorkerCount, r.process, log)
	r.monitorCtx, r.monitorCancel = context.WithCancel(context.Background())
	return r
}

// SetErrorHandler replaces the function called when a job fails.
func (r *Runner) SetErrorHandler(handler func(job Job, err error)) {
	r.errHandler = handler
}

// Submit persists job as pending and queues it. When the queue is full the
// job stays pending in the store and runs after the next recovery.
func (r *Runner) Submit(ctx context.Context, job Job) error {
	if err := r.store.SaveJob(ctx, recordOf(job, store.JobStatusPending)); err != nil {
		return fmt.Errorf("failed to save job: %w", err)
	}

	if err := r.queue.Enqueue(job); err != nil {
		logger.FromContextOrDefault(ctx, r.logger).Warn("job saved but not queued",
			"job_id", job.ID(),
			"job_type", job.Type(),
			"error", err)
		return err
	}
	return nil
}

// Start recovers unfinished jobs, then starts the workers and the
// stuck-job monitor.
func (r *Runner) Start(ctx context.Context) error {
	if err := r.Recover(ctx); err != nil {
		return fmt.Errorf("failed to recover jobs: %w", err)
	}

	r.pool.Start()

	r.monitorWG.Add(1)
	go r.stuckJobMonitor()

	return nil
}

// Stop stops the monitor, closes the queue and waits for workers.
// Safe to call more than once.
func (r *Runner) Stop() {
	r.stopOnce.Do(func() {
		r.monitorCancel()
		r.monitorWG.Wait()
		r.queue.Close()
		r.pool.Stop()
	})
}

// Recover requeues pending jobs and resets every processing job, which
// can only have been interrupted by a crash.
func (r *Runner) Recover(ctx context.Context) error {
	pending, err := r.store.GetPendingJobs(ctx)
	if err != nil {
		return fmt.Errorf("failed to get pending jobs: %w", err)
	}

	processing, err := r.store.GetProcessingJobs(ctx, 0)
	if err != nil {
		return fmt.Errorf("failed to get processing jobs: %w", err)
	}

	r.logger.Info("recovering unfinished jobs",
		"pending_count", len(pending),
		"processing_count", len(processing))

	for _, record := range pending {
		r.requeue(ctx, record)
	}
	for _, record := range processing {
		if err := r.store.UpdateJobStatus(ctx, record.ID, store.JobStatusPending, "Reset after recovery"); err != nil {
			r.logger.Error("failed to reset processing job status",
				"job_id", record.ID,
				"job_type", record.Type,
				"error", err)
			continue
		}
		r.requeue(ctx, record)
	}

	return nil
}

func (r *Runner) requeue(ctx context.Context, record store.JobRecord) {
	job, err := r.registry.Build(record)
	if err != nil {
		r.logger.Error("cannot rebuild job, marking failed",
			"job_id", record.ID,
			"job_type", record.Type,
			"error", err)
		if updateErr := r.store.UpdateJobStatus(ctx, record.ID, store.JobStatusFailed, err.Error()); updateErr != nil {
			r.logger.Error("failed to mark job failed", "job_id", record.ID, "error", updateErr)
		}
		return
	}

	if err := r.queue.Enqueue(job); err != nil {
		r.logger.Error("failed to requeue job",
			"job_id", record.ID,
			"job_type", record.Type,
			"error", err)
	}
}

// process handles execution of a single job
func (r *Runner) process(ctx context.Context, job Job, workerID int) {
	log := r.logger.With(
		"job_id", job.ID(),
		"job_type", job.Type(),
		"worker_id", workerID,
	)
	ctx = logger.WithLogger(ctx, log)

	if err := r.store.UpdateJobStatus(ctx, job.ID(), store.JobStatusProcessing, ""); err != nil {
		log.Error("failed to update job status to processing", "error", err)
		return
	}

	log.Info("processing job")
	start := time.Now()

	if err := job.Execute(ctx); err != nil {
		if updateErr := r.store.UpdateJobStatus(ctx, job.ID(), store.JobStatusFailed, err.Error()); updateErr != nil {
			log.Error("failed to update job status to failed", "error", updateErr)
		}
		r.errHandler(job, err)
		return
	}

	log.Info("job completed", "duration_ms", time.Since(start).Milliseconds())
	if err := r.store.UpdateJobStatus(ctx, job.ID(), store.JobStatusCompleted, ""); err != nil {
		log.Error("failed to update job status to completed", "error", err)
	}
}

// stuckJobMonitor resets jobs that have been processing for longer than
// StuckJobAge and requeues them.
func (r *Runner) stuckJobMonitor() {
	defer r.monitorWG.Done()

	ticker := time.NewTicker(r.config.StuckJobCheckInterval)
	defer ticker.Stop()

	for {
		select {
		case <-r.monitorCtx.Done():
			return
		case <-ticker.C:
			r.resetStuckJobs(r.monitorCtx)
		}
	}
}

func (r *Runner) resetStuckJobs(ctx context.Context) {
	stuck, err := r.store.GetProcessingJobs(ctx, r.config.StuckJobAge)
	if err != nil {
		r.logger.Error("failed to check for stuck jobs", "error", err)
		return
	}
	if len(stuck) == 0 {
		return
	}

	r.logger.Info("found stuck jobs", "count", len(stuck))
	for _, record := range stuck {
		if err := r.store.UpdateJobStatus(ctx, record.ID, store.JobStatusPending,
			"Reset after being stuck in processing state"); err != nil {
			r.logger.Error("failed to reset stuck job status",
				"job_id", record.ID,
				"job_type", record.Type,
				"error", err)
			continue
		}
		r.requeue(ctx, record)
	}
}
