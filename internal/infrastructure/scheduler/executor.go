package scheduler

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	appdasmei "github.com/patrickdauer/Sistema-Prosperar-sub000/internal/application/dasmei"
)

// Automation is the part of the DAS-MEI automation service the executor
// drives
type Automation interface {
	Enabled(ctx context.Context) bool
	GenerateGuides(ctx context.Context, periodo, operador string) (*appdasmei.GenerationSummary, error)
	SendScheduled(ctx context.Context, date time.Time) (*appdasmei.DeliverySummary, error)
	SendReminders(ctx context.Context, date time.Time) (*appdasmei.DeliverySummary, error)
	ProcessRetryQueue(ctx context.Context) (*appdasmei.RetrySummary, error)
}

// DASMEIExecutor runs scheduler jobs against the automation service
type DASMEIExecutor struct {
	automation Automation
	metrics    *Metrics
	logger     *zap.Logger
}

// NewDASMEIExecutor creates a new executor. metrics may be nil.
func NewDASMEIExecutor(automation Automation, metrics *Metrics, logger *zap.Logger) *DASMEIExecutor {
	return &DASMEIExecutor{automation: automation, metrics: metrics, logger: logger}
}

// Execute implements JobExecutor
func (e *DASMEIExecutor) Execute(ctx context.Context, job *Job) error {
	if job.Scheduled && !e.automation.Enabled(ctx) {
		e.logger.Info("Automation disabled, skipping scheduled job",
			zap.String("job_id", job.ID.String()),
			zap.String("job_type", string(job.Type)),
		)
		return nil
	}

	switch job.Type {
	case JobGenerateGuides:
		summary, err := e.automation.GenerateGuides(ctx, job.Periodo, job.Operador)
		if err != nil {
			return fmt.Errorf("generate guides: %w", err)
		}
		e.metrics.AddGuides(summary.Generated, summary.Skipped, summary.Failed)
		e.logger.Info("Guide generation finished",
			zap.String("periodo", summary.Periodo),
			zap.String("provider", summary.Provider),
			zap.Int("total", summary.Total),
			zap.Int("generated", summary.Generated),
			zap.Int("skipped", summary.Skipped),
			zap.Int("failed", summary.Failed),
		)
	case JobSendScheduled:
		summary, err := e.automation.SendScheduled(ctx, job.Date)
		if err != nil {
			return fmt.Errorf("send scheduled guides: %w", err)
		}
		e.observeDelivery(job, summary)
	case JobSendReminders:
		summary, err := e.automation.SendReminders(ctx, job.Date)
		if err != nil {
			return fmt.Errorf("send reminders: %w", err)
		}
		e.observeDelivery(job, summary)
	case JobProcessRetries:
		summary, err := e.automation.ProcessRetryQueue(ctx)
		if err != nil {
			return fmt.Errorf("process retry queue: %w", err)
		}
		e.metrics.AddRetries(summary.Succeeded, summary.Failed, summary.Exhausted)
		if summary.Processed > 0 {
			e.logger.Info("Retry queue processed",
				zap.Int("processed", summary.Processed),
				zap.Int("succeeded", summary.Succeeded),
				zap.Int("failed", summary.Failed),
				zap.Int("exhausted", summary.Exhausted),
			)
		}
	default:
		return fmt.Errorf("%w: %s", ErrInvalidJobType, job.Type)
	}
	return nil
}

func (e *DASMEIExecutor) observeDelivery(job *Job, summary *appdasmei.DeliverySummary) {
	if summary.NotBusinessDay {
		e.logger.Info("Not a business day, nothing sent", zap.String("job_type", string(job.Type)))
		return
	}
	e.metrics.AddMessages(job.Type, summary.Sent, summary.Failed, summary.Skipped)
	e.logger.Info("Delivery run finished",
		zap.String("job_type", string(job.Type)),
		zap.Int("total", summary.Total),
		zap.Int("sent", summary.Sent),
		zap.Int("failed", summary.Failed),
		zap.Int("skipped", summary.Skipped),
	)
}

var _ JobExecutor = (*DASMEIExecutor)(nil)
