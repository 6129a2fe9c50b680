package jobs

import (
	"context"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/Ananth-NQI/loadboard-backend/internal/config"
)

type PostingExpirer interface {
	ExpireStale(ctx context.Context) (int64, error)
}

type AlarmRunner interface {
	RunAlarms(ctx context.Context) (int, error)
}

type RateRefresher interface {
	RefreshAll(ctx context.Context) (int, error)
}

// Task is one periodic job. Run returns how many records it touched.
type Task struct {
	Name     string
	Interval time.Duration
	Run      func(ctx context.Context) (int, error)
}

// Scheduler runs tasks on tickers until stopped
type Scheduler struct {
	logger *logrus.Logger
	tasks  []Task

	mu     sync.Mutex
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewScheduler creates a scheduler with the given tasks
func NewScheduler(logger *logrus.Logger, tasks ...Task) *Scheduler {
	return &Scheduler{logger: logger, tasks: tasks}
}

// DefaultTasks builds the posting expiry sweep, saved-search alarms and the
// lane rate refresh. A task with a non-positive interval is skipped.
func DefaultTasks(cfg config.JobsConfig, trucks PostingExpirer, alarms AlarmRunner, rates RateRefresher) []Task {
	all := []Task{
		{
			Name:     "expire_postings",
			Interval: cfg.ExpirySweepInterval,
			Run: func(ctx context.Context) (int, error) {
				n, err := trucks.ExpireStale(ctx)
				return int(n), err
			},
		},
		{Name: "search_alarms", Interval: cfg.AlarmInterval, Run: alarms.RunAlarms},
		{Name: "refresh_lane_rates", Interval: cfg.RateRefreshInterval, Run: rates.RefreshAll},
	}

	tasks := make([]Task, 0, len(all))
	for _, t := range all {
		if t.Interval > 0 {
			tasks = append(tasks, t)
		}
	}
	return tasks
}

// Start launches one goroutine per task. Calling Start twice is a no-op.
func (s *Scheduler) Start(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cancel != nil {
		s.logger.Warn("scheduled jobs already running")
		return
	}

	ctx, s.cancel = context.WithCancel(ctx)
	for _, t := range s.tasks {
		s.wg.Add(1)
		go s.loop(ctx, t)
	}
	s.logger.WithField("jobs", len(s.tasks)).Info("scheduled jobs started")
}

// Stop cancels every task and waits for in-flight runs to return
func (s *Scheduler) Stop() {
	s.mu.Lock()
	cancel := s.cancel
	s.cancel = nil
	s.mu.Unlock()

	if cancel == nil {
		return
	}
	cancel()
	s.wg.Wait()
	s.logger.Info("scheduled jobs stopped")
}

func (s *Scheduler) loop(ctx context.Context, t Task) {
	defer s.wg.Done()

	ticker := time.NewTicker(t.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.RunOnce(ctx, t)
		}
	}
}

// RunOnce executes a task immediately and logs the outcome
func (s *Scheduler) RunOnce(ctx context.Context, t Task) {
	start := time.Now()
	entry := s.logger.WithField("job", t.Name)

	defer func() {
		if r := recover(); r != nil {
			entry.WithField("panic", r).Error("scheduled job panicked")
		}
	}()

	n, err := t.Run(ctx)
	entry = entry.WithFields(logrus.Fields{
		"affected": n,
		"duration": time.Since(start).String(),
	})
	if err != nil {
		if ctx.Err() != nil {
			entry.Debug("scheduled job cancelled")
			return
		}
		entry.WithError(err).Error("scheduled job failed")
		return
	}
	entry.Debug("scheduled job finished")
}
