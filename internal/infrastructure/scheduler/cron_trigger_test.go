package scheduler

import (
	"context"
	"testing"
	"time"

	appattendance "github.com/hrms/backend/internal/application/attendance"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeSweeper struct {
	result *appattendance.SweepResult
	err    error
}

func (f *fakeSweeper) SweepStale(context.Context) (*appattendance.SweepResult, error) {
	return f.result, f.err
}

func TestCronTrigger_Schedule(t *testing.T) {
	s, err := NewScheduler(testConfig(), zap.NewNop())
	require.NoError(t, err)
	loc, err := time.LoadLocation("Asia/Kolkata")
	require.NoError(t, err)

	trigger := NewCronTrigger(s, loc, zap.NewNop())
	assert.Error(t, trigger.Schedule("every day", JobTypeStaleSessionSweep))
	assert.True(t, trigger.Next().IsZero())

	require.NoError(t, trigger.Schedule("5 0 * * *", JobTypeStaleSessionSweep))
	require.NoError(t, trigger.Start(context.Background()))
	defer func() { _ = trigger.Stop(context.Background()) }()

	next := trigger.Next().In(loc)
	require.False(t, next.IsZero())
	assert.Equal(t, 0, next.Hour())
	assert.Equal(t, 5, next.Minute())
}

func TestCronTrigger_ActivationRunsSweep(t *testing.T) {
	s, done := startScheduler(t, testConfig())
	sweeper := &fakeSweeper{result: &appattendance.SweepResult{Scanned: 3, Closed: 2, Failed: 1}}

	var observed *appattendance.SweepResult
	s.Register(JobTypeStaleSessionSweep, NewSweepExecutor(sweeper, func(_ context.Context, r *appattendance.SweepResult, _ time.Duration) {
		observed = r
	}, zap.NewNop()))

	trigger := NewCronTrigger(s, time.UTC, zap.NewNop())
	require.NoError(t, trigger.Schedule("@daily", JobTypeStaleSessionSweep))

	entries := trigger.cron.Entries()
	require.Len(t, entries, 1)
	entries[0].WrappedJob.Run()

	job := waitDone(t, done)
	assert.Equal(t, JobTypeStaleSessionSweep, job.Type)
	assert.Equal(t, JobStatusSuccess, job.Status)
	require.NotNil(t, observed)
	assert.Equal(t, 2, observed.Closed)
}
