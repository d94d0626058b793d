package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/patrickdauer/Sistema-Prosperar-sub000/internal/infrastructure/cache"
)

// EveryHour in Schedule.Hour fires the schedule every hour at Minute
const EveryHour = -1

// Schedule describes when a job type fires. Empty DaysOfMonth and Weekdays
// match every day.
type Schedule struct {
	Name             string
	Job              JobType
	Minute           int
	Hour             int
	DaysOfMonth      []int
	Weekdays         []time.Weekday
	BusinessDaysOnly bool
}

// Validate checks the schedule fields
func (s Schedule) Validate() error {
	if s.Name == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidSchedule)
	}
	if !s.Job.IsValid() {
		return fmt.Errorf("%w: %s has unknown job %q", ErrInvalidSchedule, s.Name, s.Job)
	}
	if s.Minute < 0 || s.Minute > 59 {
		return fmt.Errorf("%w: %s minute %d out of range", ErrInvalidSchedule, s.Name, s.Minute)
	}
	if s.Hour < EveryHour || s.Hour > 23 {
		return fmt.Errorf("%w: %s hour %d out of range", ErrInvalidSchedule, s.Name, s.Hour)
	}
	for _, d := range s.DaysOfMonth {
		if d < 1 || d > 31 {
			return fmt.Errorf("%w: %s day %d out of range", ErrInvalidSchedule, s.Name, d)
		}
	}
	return nil
}

// Matches reports whether t falls on the schedule's minute slot. Business
// days are checked separately by the trigger.
func (s Schedule) Matches(t time.Time) bool {
	if t.Minute() != s.Minute {
		return false
	}
	if s.Hour != EveryHour && t.Hour() != s.Hour {
		return false
	}
	if len(s.DaysOfMonth) > 0 && !containsInt(s.DaysOfMonth, t.Day()) {
		return false
	}
	if len(s.Weekdays) > 0 {
		found := false
		for _, wd := range s.Weekdays {
			if wd == t.Weekday() {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

func containsInt(values []int, v int) bool {
	for _, x := range values {
		if x == v {
			return true
		}
	}
	return false
}

// DefaultSchedules returns the monthly generation, daily deliveries and
// hourly retry schedules
func DefaultSchedules() []Schedule {
	return []Schedule{
		{Name: "gerar_guias", Job: JobGenerateGuides, Hour: 8, Minute: 0, DaysOfMonth: []int{1}},
		{Name: "envios_programados", Job: JobSendScheduled, Hour: 9, Minute: 0, BusinessDaysOnly: true},
		{Name: "lembretes", Job: JobSendReminders, Hour: 10, Minute: 0, BusinessDaysOnly: true},
		{Name: "retry", Job: JobProcessRetries, Hour: EveryHour, Minute: 15},
	}
}

// BusinessDayChecker decides whether a date is a working day
type BusinessDayChecker interface {
	IsBusinessDay(ctx context.Context, d time.Time) bool
}

// CronTriggerConfig holds configuration for the cron trigger
type CronTriggerConfig struct {
	Location      *time.Location
	CheckInterval time.Duration
	// LockTTL bounds how long a slot lock is held across instances
	LockTTL    time.Duration
	MaxRetries int
	Schedules  []Schedule
}

// DefaultCronTriggerConfig returns default cron trigger configuration
func DefaultCronTriggerConfig() CronTriggerConfig {
	return CronTriggerConfig{
		Location:      time.UTC,
		CheckInterval: 30 * time.Second,
		LockTTL:       10 * time.Minute,
		Schedules:     DefaultSchedules(),
	}
}

// CronTrigger submits scheduled automation jobs
type CronTrigger struct {
	config    CronTriggerConfig
	scheduler *Scheduler
	locker    cache.Locker
	calendar  BusinessDayChecker
	metrics   *Metrics
	logger    *zap.Logger
	now       func() time.Time

	cancel    context.CancelFunc
	wg        sync.WaitGroup
	mu        sync.Mutex
	isRunning bool
	lastSlot  map[string]string
}

// NewCronTrigger creates a new cron trigger. calendar and metrics may be
// nil; without a calendar every day counts as a business day.
func NewCronTrigger(
	config CronTriggerConfig,
	scheduler *Scheduler,
	locker cache.Locker,
	calendar BusinessDayChecker,
	metrics *Metrics,
	logger *zap.Logger,
) (*CronTrigger, error) {
	defaults := DefaultCronTriggerConfig()
	if config.Location == nil {
		config.Location = defaults.Location
	}
	if config.CheckInterval <= 0 {
		config.CheckInterval = defaults.CheckInterval
	}
	if config.LockTTL <= 0 {
		config.LockTTL = defaults.LockTTL
	}
	if len(config.Schedules) == 0 {
		config.Schedules = defaults.Schedules
	}
	for _, s := range config.Schedules {
		if err := s.Validate(); err != nil {
			return nil, err
		}
	}
	return &CronTrigger{
		config:    config,
		scheduler: scheduler,
		locker:    locker,
		calendar:  calendar,
		metrics:   metrics,
		logger:    logger,
		now:       time.Now,
		lastSlot:  make(map[string]string),
	}, nil
}

// Start starts the cron trigger
func (c *CronTrigger) Start(ctx context.Context) error {
	c.mu.Lock()
	if c.isRunning {
		c.mu.Unlock()
		return nil
	}
	c.isRunning = true
	ctx, cancel := context.WithCancel(ctx)
	c.cancel = cancel
	c.mu.Unlock()

	c.wg.Add(1)
	go c.runLoop(ctx)

	c.logger.Info("Cron trigger started",
		zap.String("location", c.config.Location.String()),
		zap.Int("schedules", len(c.config.Schedules)),
		zap.Duration("check_interval", c.config.CheckInterval),
	)

	return nil
}

// Stop stops the cron trigger
func (c *CronTrigger) Stop(ctx context.Context) error {
	c.mu.Lock()
	if !c.isRunning {
		c.mu.Unlock()
		return nil
	}
	c.isRunning = false
	c.mu.Unlock()

	if c.cancel != nil {
		c.cancel()
	}

	done := make(chan struct{})
	go func() {
		c.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		c.logger.Info("Cron trigger stopped")
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (c *CronTrigger) runLoop(ctx context.Context) {
	defer c.wg.Done()

	ticker := time.NewTicker(c.config.CheckInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			c.Tick(ctx)
		}
	}
}

// Tick evaluates every schedule against the current time and returns the
// jobs it submitted
func (c *CronTrigger) Tick(ctx context.Context) []*Job {
	now := c.now().In(c.config.Location)
	slot := now.Format("20060102-1504")

	var submitted []*Job
	for _, s := range c.config.Schedules {
		if !s.Matches(now) || c.alreadyFired(s.Name, slot) {
			continue
		}
		if s.BusinessDaysOnly && c.calendar != nil && !c.calendar.IsBusinessDay(ctx, now) {
			c.logger.Debug("Skipping schedule on non-business day",
				zap.String("schedule", s.Name),
				zap.String("date", now.Format("2006-01-02")),
			)
			continue
		}
		if !c.acquire(ctx, s.Name, slot) {
			continue
		}

		job := NewJob(s.Job, now, c.config.MaxRetries)
		job.Scheduled = true
		if err := c.scheduler.SubmitJob(job); err != nil {
			c.logger.Error("Failed to submit scheduled job",
				zap.String("schedule", s.Name),
				zap.Error(err),
			)
			continue
		}
		c.metrics.IncTriggered(s.Job)
		c.logger.Info("Scheduled job submitted",
			zap.String("schedule", s.Name),
			zap.String("job_id", job.ID.String()),
			zap.String("slot", slot),
		)
		submitted = append(submitted, job)
	}
	return submitted
}

// alreadyFired records slot for name and reports whether it was seen before
func (c *CronTrigger) alreadyFired(name, slot string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.lastSlot[name] == slot {
		return true
	}
	c.lastSlot[name] = slot
	return false
}

// acquire takes the cross-instance lock for a slot. Lock errors fail open so
// a redis outage does not stop the automation.
func (c *CronTrigger) acquire(ctx context.Context, name, slot string) bool {
	if c.locker == nil {
		return true
	}
	ok, err := c.locker.Acquire(ctx, name+":"+slot, c.config.LockTTL)
	if err != nil {
		c.logger.Warn("Failed to acquire schedule lock, running anyway",
			zap.String("schedule", name),
			zap.Error(err),
		)
		return true
	}
	if !ok {
		c.logger.Info("Schedule slot already taken by another instance",
			zap.String("schedule", name),
			zap.String("slot", slot),
		)
	}
	return ok
}
