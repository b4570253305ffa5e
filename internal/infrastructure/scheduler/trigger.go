package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rwbiz/backend/internal/infrastructure/config"
	"go.uber.org/zap"
)

// TriggerConfig holds configuration for the cron trigger
type TriggerConfig struct {
	// Spec is a standard five field cron expression or a descriptor like "@daily"
	Spec string
	// RunOnStart submits every task once when the trigger starts
	RunOnStart bool
	Location   *time.Location
}

// TriggerConfigFromConfig builds the trigger spec from the scheduler section.
// An empty cron expression falls back to "@every <interval>".
func TriggerConfigFromConfig(cfg config.SchedulerConfig) TriggerConfig {
	spec := cfg.Cron
	if spec == "" {
		spec = fmt.Sprintf("@every %s", cfg.Interval)
	}
	return TriggerConfig{Spec: spec, RunOnStart: true, Location: time.UTC}
}

// CronTrigger submits every registered task on the configured schedule
type CronTrigger struct {
	config    TriggerConfig
	scheduler *Scheduler
	logger    *zap.Logger

	cron    *cron.Cron
	mu      sync.Mutex
	running bool
	lastRun time.Time
}

// NewCronTrigger validates the spec and creates a new cron trigger
func NewCronTrigger(cfg TriggerConfig, scheduler *Scheduler, logger *zap.Logger) (*CronTrigger, error) {
	if cfg.Location == nil {
		cfg.Location = time.UTC
	}
	if _, err := cron.ParseStandard(cfg.Spec); err != nil {
		return nil, fmt.Errorf("%w: cron spec %q: %v", ErrInvalidConfig, cfg.Spec, err)
	}
	return &CronTrigger{
		config:    cfg,
		scheduler: scheduler,
		logger:    logger,
		cron:      cron.New(cron.WithLocation(cfg.Location)),
	}, nil
}

// Start registers the schedule and starts the cron runner
func (c *CronTrigger) Start(_ context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.running {
		return nil
	}
	if _, err := c.cron.AddFunc(c.config.Spec, c.Fire); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	c.cron.Start()
	c.running = true

	c.logger.Info("Cron trigger started", zap.String("spec", c.config.Spec))
	if c.config.RunOnStart {
		go c.Fire()
	}
	return nil
}

// Stop stops the cron runner and waits for a running Fire to return
func (c *CronTrigger) Stop(ctx context.Context) error {
	c.mu.Lock()
	if !c.running {
		c.mu.Unlock()
		return nil
	}
	c.running = false
	c.mu.Unlock()

	stopped := c.cron.Stop()
	select {
	case <-stopped.Done():
		c.logger.Info("Cron trigger stopped")
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Fire submits every registered task now
func (c *CronTrigger) Fire() {
	jobs := c.scheduler.SubmitAll()
	c.mu.Lock()
	c.lastRun = time.Now()
	c.mu.Unlock()
	c.logger.Info("Maintenance tasks triggered", zap.Int("jobs", len(jobs)))
}

// LastRun reports when the trigger last fired
func (c *CronTrigger) LastRun() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastRun
}

// Next returns the next scheduled fire time after t
func (c *CronTrigger) Next(t time.Time) time.Time {
	schedule, err := cron.ParseStandard(c.config.Spec)
	if err != nil {
		return time.Time{}
	}
	return schedule.Next(t.In(c.config.Location))
}
