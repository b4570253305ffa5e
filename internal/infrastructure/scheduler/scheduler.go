package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rwbiz/backend/internal/infrastructure/config"
	"github.com/rwbiz/backend/internal/infrastructure/telemetry"
	"go.uber.org/zap"
)

// JobStatus represents the status of a scheduled job
type JobStatus string

const (
	JobStatusPending JobStatus = "PENDING"
	JobStatusRunning JobStatus = "RUNNING"
	JobStatusSuccess JobStatus = "SUCCESS"
	JobStatusFailed  JobStatus = "FAILED"
)

// Task is one maintenance routine. It returns how many records it changed.
type Task func(ctx context.Context, asOf time.Time) (int, error)

// Job is a single run of a registered task
type Job struct {
	ID          uuid.UUID
	Task        string
	AsOf        time.Time
	Status      JobStatus
	Error       string
	Affected    int
	StartedAt   *time.Time
	CompletedAt *time.Time
	RetryCount  int
	MaxRetries  int
}

// NewJob creates a new job instance
func NewJob(task string, asOf time.Time, maxRetries int) *Job {
	return &Job{
		ID:         uuid.New(),
		Task:       task,
		AsOf:       asOf,
		Status:     JobStatusPending,
		MaxRetries: maxRetries,
	}
}

// Start marks the job as running
func (j *Job) Start() {
	now := time.Now()
	j.Status = JobStatusRunning
	j.StartedAt = &now
	j.Error = ""
}

// Complete marks the job as successful
func (j *Job) Complete(affected int) {
	now := time.Now()
	j.Status = JobStatusSuccess
	j.CompletedAt = &now
	j.Affected = affected
}

// Fail marks the job as failed
func (j *Job) Fail(err string) {
	now := time.Now()
	j.Status = JobStatusFailed
	j.CompletedAt = &now
	j.Error = err
}

// ShouldRetry returns true if the job should be retried
func (j *Job) ShouldRetry() bool {
	return j.Status == JobStatusFailed && j.RetryCount < j.MaxRetries
}

// ScheduleRetry resets the job for another attempt
func (j *Job) ScheduleRetry() {
	j.RetryCount++
	j.Status = JobStatusPending
	j.Error = ""
}

// Config holds scheduler configuration
type Config struct {
	MaxConcurrentJobs int
	JobTimeout        time.Duration
	RetryAttempts     int
	RetryDelay        time.Duration
	QueueSize         int
}

// ConfigFromConfig maps the scheduler section of the app config
func ConfigFromConfig(cfg config.SchedulerConfig) Config {
	return Config{
		MaxConcurrentJobs: cfg.MaxConcurrentJobs,
		JobTimeout:        cfg.JobTimeout,
		RetryAttempts:     cfg.RetryAttempts,
		RetryDelay:        cfg.RetryDelay,
	}
}

// DefaultConfig returns default scheduler configuration
func DefaultConfig() Config {
	return Config{
		MaxConcurrentJobs: 2,
		JobTimeout:        10 * time.Minute,
		RetryAttempts:     3,
		RetryDelay:        time.Minute,
		QueueSize:         32,
	}
}

// Scheduler runs registered tasks on a fixed pool of workers
type Scheduler struct {
	config Config
	logger *zap.Logger
	now    func() time.Time

	tasks    map[string]Task
	inFlight map[string]bool
	jobs     chan *Job
	cancel   context.CancelFunc
	wg       sync.WaitGroup
	retries  sync.WaitGroup
	mu       sync.Mutex
	running  bool
	// OnFinish observes every finished attempt (optional)
	OnFinish func(job *Job)
}

// NewScheduler creates a new scheduler instance
func NewScheduler(cfg Config, logger *zap.Logger) (*Scheduler, error) {
	defaults := DefaultConfig()
	if cfg.MaxConcurrentJobs == 0 {
		cfg.MaxConcurrentJobs = defaults.MaxConcurrentJobs
	}
	if cfg.JobTimeout == 0 {
		cfg.JobTimeout = defaults.JobTimeout
	}
	if cfg.QueueSize == 0 {
		cfg.QueueSize = defaults.QueueSize
	}
	if cfg.MaxConcurrentJobs < 0 || cfg.RetryAttempts < 0 || cfg.RetryDelay < 0 {
		return nil, ErrInvalidConfig
	}
	return &Scheduler{
		config:   cfg,
		logger:   logger,
		now:      time.Now,
		tasks:    make(map[string]Task),
		inFlight: make(map[string]bool),
		jobs:     make(chan *Job, cfg.QueueSize),
	}, nil
}

// Register adds a named task. Registering a name twice replaces the task.
func (s *Scheduler) Register(name string, task Task) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tasks[name] = task
}

// Tasks returns the registered task names
func (s *Scheduler) Tasks() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	names := make([]string, 0, len(s.tasks))
	for name := range s.tasks {
		names = append(names, name)
	}
	return names
}

// Start starts the worker pool
func (s *Scheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return nil
	}
	s.running = true
	s.mu.Unlock()

	ctx, cancel := context.WithCancel(ctx)
	s.cancel = cancel

	for i := 0; i < s.config.MaxConcurrentJobs; i++ {
		s.wg.Add(1)
		go s.worker(ctx, i)
	}

	s.logger.Info("Maintenance scheduler started",
		zap.Int("workers", s.config.MaxConcurrentJobs),
		zap.Duration("job_timeout", s.config.JobTimeout),
	)
	return nil
}

// Stop gracefully stops the scheduler
func (s *Scheduler) Stop(ctx context.Context) error {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return nil
	}
	s.running = false
	s.mu.Unlock()

	if s.cancel != nil {
		s.cancel()
	}

	done := make(chan struct{})
	go func() {
		s.retries.Wait()
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		s.logger.Info("Maintenance scheduler stopped gracefully")
		return nil
	case <-ctx.Done():
		s.logger.Warn("Maintenance scheduler stop timed out")
		return ctx.Err()
	}
}

// Submit queues a run of the named task. A task that is already queued or
// running is not queued twice.
func (s *Scheduler) Submit(task string) (*Job, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.running {
		return nil, ErrStopped
	}
	if _, ok := s.tasks[task]; !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownTask, task)
	}
	if s.inFlight[task] {
		return nil, ErrAlreadyQueued
	}

	job := NewJob(task, s.now(), s.config.RetryAttempts)
	select {
	case s.jobs <- job:
		s.inFlight[task] = true
		s.logger.Debug("Job submitted",
			zap.String("job_id", job.ID.String()),
			zap.String("task", task),
		)
		return job, nil
	default:
		return nil, ErrQueueFull
	}
}

// SubmitAll queues every registered task and returns the jobs that were queued
func (s *Scheduler) SubmitAll() []*Job {
	var jobs []*Job
	for _, name := range s.Tasks() {
		job, err := s.Submit(name)
		if err != nil {
			s.logger.Warn("Task not submitted", zap.String("task", name), zap.Error(err))
			continue
		}
		jobs = append(jobs, job)
	}
	return jobs
}

// worker processes jobs from the queue
func (s *Scheduler) worker(ctx context.Context, workerID int) {
	defer s.wg.Done()

	for {
		select {
		case <-ctx.Done():
			s.logger.Debug("Worker stopping", zap.Int("worker_id", workerID))
			return
		case job := <-s.jobs:
			s.processJob(ctx, job, workerID)
		}
	}
}

// processJob executes a single attempt and schedules a retry on failure
func (s *Scheduler) processJob(ctx context.Context, job *Job, workerID int) {
	s.mu.Lock()
	task := s.tasks[job.Task]
	s.mu.Unlock()

	job.Start()
	jobCtx, cancel := context.WithTimeout(ctx, s.config.JobTimeout)
	affected, err := s.run(jobCtx, job.Task, task, job.AsOf)
	cancel()

	if err == nil {
		job.Complete(affected)
		s.logger.Info("Job completed",
			zap.Int("worker_id", workerID),
			zap.String("job_id", job.ID.String()),
			zap.String("task", job.Task),
			zap.Int("affected", affected),
		)
		s.finish(job)
		return
	}

	job.Fail(err.Error())
	s.logger.Error("Job failed",
		zap.Int("worker_id", workerID),
		zap.String("job_id", job.ID.String()),
		zap.String("task", job.Task),
		zap.Int("retry_count", job.RetryCount),
		zap.Error(err),
	)
	if s.OnFinish != nil {
		s.OnFinish(job)
	}
	if !job.ShouldRetry() || ctx.Err() != nil {
		s.release(job)
		return
	}

	job.ScheduleRetry()
	s.retries.Add(1)
	go func() {
		defer s.retries.Done()
		timer := time.NewTimer(s.config.RetryDelay)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			s.release(job)
		case <-timer.C:
			select {
			case s.jobs <- job:
			case <-ctx.Done():
				s.release(job)
			}
		}
	}()
}

// run executes the task under a job profiling label and turns a panic
// into an error
func (s *Scheduler) run(ctx context.Context, name string, task Task, asOf time.Time) (affected int, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("task panicked: %v", r)
		}
	}()
	telemetry.WithProfilingLabels(ctx, map[string]string{telemetry.ProfilingLabelJob: name}, func(ctx context.Context) {
		affected, err = task(ctx, asOf)
	})
	return affected, err
}

func (s *Scheduler) finish(job *Job) {
	if s.OnFinish != nil {
		s.OnFinish(job)
	}
	s.release(job)
}

func (s *Scheduler) release(job *Job) {
	s.mu.Lock()
	delete(s.inFlight, job.Task)
	s.mu.Unlock()
}
