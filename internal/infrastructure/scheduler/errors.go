package scheduler

import "errors"

var (
	// ErrSchedulerNotRunning is returned when trying to submit a job to a stopped scheduler
	ErrSchedulerNotRunning = errors.New("scheduler is not running")

	// ErrJobQueueFull is returned when the job queue is full
	ErrJobQueueFull = errors.New("job queue is full")

	// ErrInvalidJobType is returned for unknown job types
	ErrInvalidJobType = errors.New("invalid job type")

	// ErrAutomationDisabled is returned for scheduled runs while the
	// automacao_ativa setting is off
	ErrAutomationDisabled = errors.New("DAS-MEI automation is disabled")

	// ErrInvalidSchedule is returned when a schedule can never fire
	ErrInvalidSchedule = errors.New("invalid schedule")
)
