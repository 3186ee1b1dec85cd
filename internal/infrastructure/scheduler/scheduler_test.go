package scheduler

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

type countingJob struct {
	calls    atomic.Int64
	affected int64
	err      error
}

func (c *countingJob) run(ctx context.Context) (int64, error) {
	c.calls.Add(1)
	return c.affected, c.err
}

func TestNew_ValidatesJobs(t *testing.T) {
	log := zaptest.NewLogger(t)
	run := func(context.Context) (int64, error) { return 0, nil }

	_, err := New(DefaultConfig(), log, Job{Name: "", Interval: time.Second, Run: run})
	assert.ErrorIs(t, err, ErrInvalidJob)

	_, err = New(DefaultConfig(), log, Job{Name: "a", Interval: 0, Run: run})
	assert.ErrorIs(t, err, ErrInvalidJob)

	_, err = New(DefaultConfig(), log, Job{Name: "a", Interval: time.Second})
	assert.ErrorIs(t, err, ErrInvalidJob)

	_, err = New(DefaultConfig(), log,
		Job{Name: "a", Interval: time.Second, Run: run},
		Job{Name: "a", Interval: time.Minute, Run: run},
	)
	assert.ErrorIs(t, err, ErrDuplicateJob)
}

func TestScheduler_RunsOnStartAndOnTicks(t *testing.T) {
	job := &countingJob{affected: 3}
	s, err := New(DefaultConfig(), zaptest.NewLogger(t), Job{Name: "sweep", Interval: 10 * time.Millisecond, Run: job.run})
	require.NoError(t, err)

	require.NoError(t, s.Start(context.Background()))
	require.NoError(t, s.Start(context.Background()))
	assert.True(t, s.IsRunning())

	require.Eventually(t, func() bool { return job.calls.Load() >= 3 }, time.Second, 5*time.Millisecond)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, s.Stop(ctx))
	assert.False(t, s.IsRunning())

	stats, ok := s.Stats("sweep")
	require.True(t, ok)
	assert.GreaterOrEqual(t, stats.Runs, int64(3))
	assert.Equal(t, int64(3), stats.Affected)
	assert.Zero(t, stats.Failures)

	after := job.calls.Load()
	time.Sleep(30 * time.Millisecond)
	assert.Equal(t, after, job.calls.Load(), "no runs after Stop")
}

func TestScheduler_RecordsFailuresAndPanics(t *testing.T) {
	failing := &countingJob{err: errors.New("db down")}
	panicking := func(context.Context) (int64, error) { panic("boom") }

	cfg := DefaultConfig()
	cfg.JobTimeout = time.Second
	s, err := New(cfg, zaptest.NewLogger(t),
		Job{Name: "failing", Interval: time.Hour, Run: failing.run},
		Job{Name: "panicking", Interval: time.Hour, Run: panicking},
	)
	require.NoError(t, err)
	require.NoError(t, s.Start(context.Background()))
	t.Cleanup(func() { _ = s.Stop(context.Background()) })

	require.Eventually(t, func() bool {
		a, okA := s.Stats("failing")
		b, okB := s.Stats("panicking")
		return okA && okB && a.Runs == 1 && b.Runs == 1
	}, time.Second, 5*time.Millisecond)

	a, _ := s.Stats("failing")
	assert.Equal(t, int64(1), a.Failures)
	assert.Equal(t, "db down", a.LastError)

	b, _ := s.Stats("panicking")
	assert.Equal(t, int64(1), b.Failures)
	assert.Contains(t, b.LastError, "panicked")
}

func TestScheduler_Disabled(t *testing.T) {
	job := &countingJob{}
	s, err := New(Config{Enabled: false}, zaptest.NewLogger(t), Job{Name: "sweep", Interval: time.Millisecond, Run: job.run})
	require.NoError(t, err)

	require.NoError(t, s.Start(context.Background()))
	assert.False(t, s.IsRunning())
	require.NoError(t, s.Stop(context.Background()))
	assert.Zero(t, job.calls.Load())
}

func TestScheduler_JobTimeoutCancelsRun(t *testing.T) {
	cfg := Config{Enabled: true, JobTimeout: 20 * time.Millisecond, RunOnStart: true}
	slow := func(ctx context.Context) (int64, error) {
		<-ctx.Done()
		return 0, ctx.Err()
	}
	s, err := New(cfg, zaptest.NewLogger(t), Job{Name: "slow", Interval: time.Hour, Run: slow})
	require.NoError(t, err)
	require.NoError(t, s.Start(context.Background()))
	t.Cleanup(func() { _ = s.Stop(context.Background()) })

	require.Eventually(t, func() bool {
		st, ok := s.Stats("slow")
		return ok && st.Failures == 1
	}, time.Second, 5*time.Millisecond)
	st, _ := s.Stats("slow")
	assert.Equal(t, context.DeadlineExceeded.Error(), st.LastError)
}

type mockSweeper struct {
	mock.Mock
}

func (m *mockSweeper) ExpireStale(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockSweeper) FailStale(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

func TestSweepJobs(t *testing.T) {
	sweeper := new(mockSweeper)
	sweeper.On("ExpireStale", mock.Anything).Return(int64(2), nil).Once()
	sweeper.On("FailStale", mock.Anything).Return(int64(1), nil).Once()

	inv := InvitationExpiryJob(sweeper, time.Hour)
	doc := StaleDocumentJob(sweeper, time.Minute)
	assert.Equal(t, JobExpireInvitations, inv.Name)
	assert.Equal(t, JobFailStaleDocuments, doc.Name)
	assert.Equal(t, time.Hour, inv.Interval)

	s, err := New(DefaultConfig(), zaptest.NewLogger(t), inv, doc)
	require.NoError(t, err)
	require.NoError(t, s.Start(context.Background()))

	require.Eventually(t, func() bool {
		_, a := s.Stats(JobExpireInvitations)
		_, b := s.Stats(JobFailStaleDocuments)
		return a && b
	}, time.Second, 5*time.Millisecond)
	require.NoError(t, s.Stop(context.Background()))

	st, _ := s.Stats(JobExpireInvitations)
	assert.Equal(t, int64(2), st.Affected)
	sweeper.AssertExpectations(t)
}
