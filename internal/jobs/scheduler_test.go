package jobs

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Ananth-NQI/loadboard-backend/internal/config"
	"github.com/Ananth-NQI/loadboard-backend/internal/logging"
)

type fakeExpirer struct{ calls int32 }

func (f *fakeExpirer) ExpireStale(ctx context.Context) (int64, error) {
	atomic.AddInt32(&f.calls, 1)
	return 3, nil
}

type fakeAlarms struct{ calls int32 }

func (f *fakeAlarms) RunAlarms(ctx context.Context) (int, error) {
	atomic.AddInt32(&f.calls, 1)
	return 0, errors.New("store unavailable")
}

type fakeRefresher struct{ calls int32 }

func (f *fakeRefresher) RefreshAll(ctx context.Context) (int, error) {
	atomic.AddInt32(&f.calls, 1)
	return 1, nil
}

func TestDefaultTasks_SkipsDisabledIntervals(t *testing.T) {
	cfg := config.JobsConfig{
		Enabled:             true,
		ExpirySweepInterval: time.Minute,
		AlarmInterval:       0,
		RateRefreshInterval: time.Hour,
	}

	tasks := DefaultTasks(cfg, &fakeExpirer{}, &fakeAlarms{}, &fakeRefresher{})

	require.Len(t, tasks, 2)
	assert.Equal(t, "expire_postings", tasks[0].Name)
	assert.Equal(t, "refresh_lane_rates", tasks[1].Name)
}

func TestScheduler_RunsTasksUntilStopped(t *testing.T) {
	expirer := &fakeExpirer{}
	alarms := &fakeAlarms{}
	cfg := config.JobsConfig{
		ExpirySweepInterval: 5 * time.Millisecond,
		AlarmInterval:       5 * time.Millisecond,
	}

	s := NewScheduler(logging.Discard(), DefaultTasks(cfg, expirer, alarms, &fakeRefresher{})...)
	s.Start(context.Background())
	s.Start(context.Background())

	assert.Eventually(t, func() bool {
		return atomic.LoadInt32(&expirer.calls) >= 2 && atomic.LoadInt32(&alarms.calls) >= 2
	}, time.Second, 5*time.Millisecond)

	s.Stop()
	stopped := atomic.LoadInt32(&expirer.calls)
	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, stopped, atomic.LoadInt32(&expirer.calls))

	// second stop is a no-op
	s.Stop()
}

func TestScheduler_RunOnceRecoversPanics(t *testing.T) {
	s := NewScheduler(logging.Discard())

	assert.NotPanics(t, func() {
		s.RunOnce(context.Background(), Task{
			Name: "boom",
			Run: func(ctx context.Context) (int, error) {
				panic("boom")
			},
		})
	})
}
