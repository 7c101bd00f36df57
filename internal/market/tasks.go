package market

import (
	"context"
	"time"

	"github.com/fxgdesigns1/AI-QUANT-sub000/internal/broker"
	"github.com/fxgdesigns1/AI-QUANT-sub000/internal/logger"
	"github.com/fxgdesigns1/AI-QUANT-sub000/internal/scheduler"
)

// Refresher periodically pulls quotes from a designated broker into the
// cache. It runs independently of the scan loop.
type Refresher struct {
	Cache       *Cache
	Source      broker.Broker
	Instruments []string
	Interval    time.Duration
}

// Run blocks until ctx is done.
func (r *Refresher) Run(ctx context.Context) {
	sched := scheduler.NewIntervalScheduler(ctx, "price-refresh", r.Interval)
	sched.RunImmediately = true
	sched.Start(func() {
		quotes, err := r.Source.Prices(ctx, r.Instruments, true)
		if err != nil {
			logger.Warnf("price refresh failed: %v", err)
			return
		}
		for _, q := range quotes {
			r.Cache.Put(q)
		}
		logger.Debugf("price refresh: %d quotes cached", len(quotes))
	})
}

// Validator periodically drops stale quotes and warns about crossed
// markets so the scan loop never sizes trades off bad data.
type Validator struct {
	Cache    *Cache
	MaxAge   time.Duration
	Interval time.Duration
	nowFn    func() time.Time
}

// Run blocks until ctx is done.
func (v *Validator) Run(ctx context.Context) {
	if v.nowFn == nil {
		v.nowFn = time.Now
	}
	sched := scheduler.NewIntervalScheduler(ctx, "price-validate", v.Interval)
	sched.Start(func() { v.sweep() })
}

func (v *Validator) sweep() {
	now := v.nowFn()
	for _, inst := range v.Cache.Instruments() {
		q, ok := v.Cache.Get(inst)
		if !ok {
			continue
		}
		switch {
		case q.Stale(v.MaxAge, now):
			logger.Warnf("price validate: dropping stale quote %s (age=%s)", inst, now.Sub(q.Time).Truncate(time.Second))
			v.Cache.Drop(inst)
		case !q.Valid():
			logger.Warnf("price validate: dropping crossed quote %s bid=%.5f ask=%.5f", inst, q.Bid, q.Ask)
			v.Cache.Drop(inst)
		}
	}
}
