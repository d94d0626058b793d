package scheduler

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap"

	"github.com/patrickdauer/Sistema-Prosperar-sub000/internal/infrastructure/cache"
)

var brt = time.FixedZone("BRT", -3*60*60)

type fixedCalendar bool

func (f fixedCalendar) IsBusinessDay(context.Context, time.Time) bool { return bool(f) }

type failingLocker struct{}

func (failingLocker) Acquire(context.Context, string, time.Duration) (bool, error) {
	return false, errors.New("redis: connection refused")
}
func (failingLocker) Release(context.Context, string) error { return nil }
func (failingLocker) Close() error                          { return nil }

func noopScheduler(t *testing.T) *Scheduler {
	t.Helper()
	return startScheduler(t, DefaultSchedulerConfig(), funcExecutor(func(context.Context, *Job) error { return nil }))
}

func newTestTrigger(t *testing.T, s *Scheduler, locker cache.Locker, cal BusinessDayChecker, now time.Time) *CronTrigger {
	t.Helper()
	c, err := NewCronTrigger(CronTriggerConfig{Location: brt, MaxRetries: 2}, s, locker, cal, nil, zap.NewNop())
	require.NoError(t, err)
	c.now = func() time.Time { return now }
	return c
}

func jobTypes(jobs []*Job) []JobType {
	types := make([]JobType, 0, len(jobs))
	for _, j := range jobs {
		types = append(types, j.Type)
	}
	return types
}

func TestSchedule_Matches(t *testing.T) {
	monthly := Schedule{Name: "m", Job: JobGenerateGuides, Hour: 8, Minute: 0, DaysOfMonth: []int{1}}
	hourly := Schedule{Name: "h", Job: JobProcessRetries, Hour: EveryHour, Minute: 15}
	weekly := Schedule{Name: "w", Job: JobSendReminders, Hour: 10, Minute: 30, Weekdays: []time.Weekday{time.Monday}}

	tests := []struct {
		name     string
		schedule Schedule
		at       time.Time
		want     bool
	}{
		{"monthly on day 1", monthly, time.Date(2025, time.March, 1, 8, 0, 0, 0, brt), true},
		{"monthly wrong day", monthly, time.Date(2025, time.March, 2, 8, 0, 0, 0, brt), false},
		{"monthly wrong minute", monthly, time.Date(2025, time.March, 1, 8, 1, 0, 0, brt), false},
		{"hourly any hour", hourly, time.Date(2025, time.March, 5, 23, 15, 40, 0, brt), true},
		{"hourly wrong minute", hourly, time.Date(2025, time.March, 5, 23, 16, 0, 0, brt), false},
		{"weekday match", weekly, time.Date(2025, time.March, 3, 10, 30, 0, 0, brt), true},
		{"weekday mismatch", weekly, time.Date(2025, time.March, 4, 10, 30, 0, 0, brt), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.schedule.Matches(tt.at))
		})
	}
}

func TestSchedule_Validate(t *testing.T) {
	for _, s := range DefaultSchedules() {
		assert.NoError(t, s.Validate(), s.Name)
	}

	invalid := []Schedule{
		{Job: JobProcessRetries},
		{Name: "x", Job: "unknown"},
		{Name: "x", Job: JobProcessRetries, Minute: 60},
		{Name: "x", Job: JobProcessRetries, Hour: 24},
		{Name: "x", Job: JobProcessRetries, Hour: -2},
		{Name: "x", Job: JobProcessRetries, DaysOfMonth: []int{32}},
	}
	for _, s := range invalid {
		assert.ErrorIs(t, s.Validate(), ErrInvalidSchedule)
	}

	_, err := NewCronTrigger(CronTriggerConfig{Schedules: invalid[:1]}, nil, nil, nil, nil, zap.NewNop())
	assert.ErrorIs(t, err, ErrInvalidSchedule)
}

func TestCronTrigger_Tick(t *testing.T) {
	defer goleak.VerifyNone(t)

	t.Run("monthly generation on day 1", func(t *testing.T) {
		c := newTestTrigger(t, noopScheduler(t), nil, fixedCalendar(true), time.Date(2025, time.March, 1, 8, 0, 10, 0, brt))

		jobs := c.Tick(context.Background())
		require.Len(t, jobs, 1)
		assert.Equal(t, JobGenerateGuides, jobs[0].Type)
		assert.True(t, jobs[0].Scheduled)
		assert.Equal(t, 2, jobs[0].MaxRetries)
	})

	t.Run("fires once per slot", func(t *testing.T) {
		c := newTestTrigger(t, noopScheduler(t), nil, fixedCalendar(true), time.Date(2025, time.March, 3, 9, 0, 0, 0, brt))

		assert.Equal(t, []JobType{JobSendScheduled}, jobTypes(c.Tick(context.Background())))
		assert.Empty(t, c.Tick(context.Background()))
	})

	t.Run("evaluates in the configured location", func(t *testing.T) {
		// 13:15 UTC is 10:15 in Brasília
		c := newTestTrigger(t, noopScheduler(t), nil, fixedCalendar(true), time.Date(2025, time.March, 3, 13, 15, 0, 0, time.UTC))

		assert.Equal(t, []JobType{JobProcessRetries}, jobTypes(c.Tick(context.Background())))
	})

	t.Run("business day schedules skip holidays", func(t *testing.T) {
		c := newTestTrigger(t, noopScheduler(t), nil, fixedCalendar(false), time.Date(2025, time.March, 4, 10, 0, 0, 0, brt))

		assert.Empty(t, c.Tick(context.Background()))
	})

	t.Run("shared lock lets one instance fire", func(t *testing.T) {
		locker := cache.NewInMemoryLocker()
		defer locker.Close()
		now := time.Date(2025, time.March, 3, 10, 0, 0, 0, brt)
		first := newTestTrigger(t, noopScheduler(t), locker, fixedCalendar(true), now)
		second := newTestTrigger(t, noopScheduler(t), locker, fixedCalendar(true), now)

		assert.Equal(t, []JobType{JobSendReminders}, jobTypes(first.Tick(context.Background())))
		assert.Empty(t, second.Tick(context.Background()))
	})

	t.Run("lock errors fail open", func(t *testing.T) {
		c := newTestTrigger(t, noopScheduler(t), failingLocker{}, fixedCalendar(true), time.Date(2025, time.March, 3, 10, 0, 0, 0, brt))

		assert.Equal(t, []JobType{JobSendReminders}, jobTypes(c.Tick(context.Background())))
	})

	t.Run("stopped scheduler submits nothing", func(t *testing.T) {
		s := NewScheduler(DefaultSchedulerConfig(), nil, nil, zap.NewNop())
		c := newTestTrigger(t, s, nil, nil, time.Date(2025, time.March, 3, 11, 15, 0, 0, brt))

		assert.Empty(t, c.Tick(context.Background()))
	})
}

func TestCronTrigger_StartStop(t *testing.T) {
	defer goleak.VerifyNone(t)

	s := NewScheduler(DefaultSchedulerConfig(), funcExecutor(func(context.Context, *Job) error { return nil }), nil, zap.NewNop())
	require.NoError(t, s.Start(context.Background()))
	c, err := NewCronTrigger(CronTriggerConfig{CheckInterval: 5 * time.Millisecond}, s, nil, nil, nil, zap.NewNop())
	require.NoError(t, err)

	require.NoError(t, c.Start(context.Background()))
	require.NoError(t, c.Start(context.Background()))
	time.Sleep(20 * time.Millisecond)
	require.NoError(t, c.Stop(context.Background()))
	require.NoError(t, c.Stop(context.Background()))
	require.NoError(t, s.Stop(context.Background()))
}
