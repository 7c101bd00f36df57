// Package scheduler provides simple periodic task runners driven by
// context cancellation.
package scheduler

import (
	"context"
	"time"

	"github.com/fxgdesigns1/AI-QUANT-sub000/internal/logger"
)

// IntervalScheduler runs a task on a fixed interval. Cancellation is
// cooperative: it is checked between runs, never mid-task.
type IntervalScheduler struct {
	Name           string
	Interval       time.Duration
	RunImmediately bool

	ctx context.Context
}

func NewIntervalScheduler(ctx context.Context, name string, interval time.Duration) *IntervalScheduler {
	if ctx == nil {
		ctx = context.Background()
	}
	return &IntervalScheduler{Name: name, Interval: interval, ctx: ctx}
}

// Start blocks, running task every Interval until the context is done.
func (s *IntervalScheduler) Start(task func()) {
	if s == nil || task == nil {
		return
	}
	if s.Interval <= 0 {
		logger.Warnf("scheduler %s: invalid interval=%s, exit", s.Name, s.Interval)
		return
	}
	logger.Infof("scheduler %s: started interval=%s run_immediately=%v", s.Name, s.Interval, s.RunImmediately)

	if s.RunImmediately {
		task()
	}
	ticker := time.NewTicker(s.Interval)
	defer ticker.Stop()
	for {
		select {
		case <-s.ctx.Done():
			logger.Infof("scheduler %s: context done, exit", s.Name)
			return
		case <-ticker.C:
			task()
		}
	}
}
