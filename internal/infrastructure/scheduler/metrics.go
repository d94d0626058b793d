package scheduler

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	metricsNamespace = "prosperar"
	metricsSubsystem = "dasmei"
)

// Metrics holds the prometheus collectors for automation runs. A nil
// *Metrics is valid and records nothing.
type Metrics struct {
	jobsTotal     *prometheus.CounterVec
	jobDuration   *prometheus.HistogramVec
	triggersTotal *prometheus.CounterVec
	guidesTotal   *prometheus.CounterVec
	messagesTotal *prometheus.CounterVec
	retriesTotal  *prometheus.CounterVec
}

// NewMetrics creates the collectors and registers them with reg
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		jobsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: metricsNamespace,
				Subsystem: metricsSubsystem,
				Name:      "jobs_total",
				Help:      "Automation jobs executed, by type and final status.",
			},
			[]string{"job", "status"},
		),
		jobDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: metricsNamespace,
				Subsystem: metricsSubsystem,
				Name:      "job_duration_seconds",
				Help:      "Duration of automation jobs in seconds.",
				Buckets:   []float64{1, 5, 15, 60, 300, 900, 1800, 3600, 7200},
			},
			[]string{"job"},
		),
		triggersTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: metricsNamespace,
				Subsystem: metricsSubsystem,
				Name:      "schedule_triggers_total",
				Help:      "Jobs submitted by the cron trigger.",
			},
			[]string{"job"},
		),
		guidesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: metricsNamespace,
				Subsystem: metricsSubsystem,
				Name:      "guides_total",
				Help:      "DAS guides processed by generation runs, by outcome.",
			},
			[]string{"outcome"},
		),
		messagesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: metricsNamespace,
				Subsystem: metricsSubsystem,
				Name:      "messages_total",
				Help:      "Guide deliveries and reminders, by job and outcome.",
			},
			[]string{"job", "outcome"},
		),
		retriesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: metricsNamespace,
				Subsystem: metricsSubsystem,
				Name:      "retries_total",
				Help:      "Retry queue items processed, by outcome.",
			},
			[]string{"outcome"},
		),
	}

	for _, c := range []prometheus.Collector{
		m.jobsTotal, m.jobDuration, m.triggersTotal, m.guidesTotal, m.messagesTotal, m.retriesTotal,
	} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// ObserveJob records a finished job
func (m *Metrics) ObserveJob(job JobType, status JobStatus, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.jobsTotal.WithLabelValues(string(job), string(status)).Inc()
	m.jobDuration.WithLabelValues(string(job)).Observe(elapsed.Seconds())
}

// IncTriggered counts a job submitted by a schedule
func (m *Metrics) IncTriggered(job JobType) {
	if m == nil {
		return
	}
	m.triggersTotal.WithLabelValues(string(job)).Inc()
}

// AddGuides adds generation outcomes
func (m *Metrics) AddGuides(generated, skipped, failed int) {
	if m == nil {
		return
	}
	m.guidesTotal.WithLabelValues("generated").Add(float64(generated))
	m.guidesTotal.WithLabelValues("skipped").Add(float64(skipped))
	m.guidesTotal.WithLabelValues("failed").Add(float64(failed))
}

// AddMessages adds delivery outcomes for job
func (m *Metrics) AddMessages(job JobType, sent, failed, skipped int) {
	if m == nil {
		return
	}
	m.messagesTotal.WithLabelValues(string(job), "sent").Add(float64(sent))
	m.messagesTotal.WithLabelValues(string(job), "failed").Add(float64(failed))
	m.messagesTotal.WithLabelValues(string(job), "skipped").Add(float64(skipped))
}

// AddRetries adds retry queue outcomes
func (m *Metrics) AddRetries(succeeded, failed, exhausted int) {
	if m == nil {
		return
	}
	m.retriesTotal.WithLabelValues("succeeded").Add(float64(succeeded))
	m.retriesTotal.WithLabelValues("failed").Add(float64(failed))
	m.retriesTotal.WithLabelValues("exhausted").Add(float64(exhausted))
}
