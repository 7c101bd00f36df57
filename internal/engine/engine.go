// Package engine drives the scan cycle: snapshot prices, run each
// account's strategy, and hand every signal to the order manager. The
// pipeline is deliberately a single sequential loop: per-account counters
// and portfolio math are read-then-written as one logical step per order,
// so serializing the whole pass removes any need for per-account locks.
package engine

import (
	"context"
	"errors"
	"time"

	"github.com/fxgdesigns1/AI-QUANT-sub000/internal/account"
	"github.com/fxgdesigns1/AI-QUANT-sub000/internal/broker"
	"github.com/fxgdesigns1/AI-QUANT-sub000/internal/execution"
	"github.com/fxgdesigns1/AI-QUANT-sub000/internal/logger"
	"github.com/fxgdesigns1/AI-QUANT-sub000/internal/market"
	"github.com/fxgdesigns1/AI-QUANT-sub000/internal/pkg/circuit"
	"github.com/fxgdesigns1/AI-QUANT-sub000/internal/scheduler"
	"github.com/fxgdesigns1/AI-QUANT-sub000/internal/strategy"
)

type Engine struct {
	Accounts    *account.Manager
	Orders      *execution.OrderManager
	Cache       *market.Cache
	Instruments []string
	Interval    time.Duration
	StaleMax    time.Duration

	breaker *circuit.Breaker
	nowFn   func() time.Time
}

type Params struct {
	Accounts    *account.Manager
	Orders      *execution.OrderManager
	Cache       *market.Cache
	Instruments []string
	Interval    time.Duration
	StaleMax    time.Duration
}

func New(p Params) *Engine {
	return &Engine{
		Accounts:    p.Accounts,
		Orders:      p.Orders,
		Cache:       p.Cache,
		Instruments: p.Instruments,
		Interval:    p.Interval,
		StaleMax:    p.StaleMax,
		breaker:     circuit.NewBreaker("scan-loop", 5, 2*time.Minute),
		nowFn:       time.Now,
	}
}

// Run blocks until ctx is cancelled, scanning on the configured interval.
func (e *Engine) Run(ctx context.Context) {
	sched := scheduler.NewIntervalScheduler(ctx, "scan", e.Interval)
	sched.RunImmediately = true
	sched.Start(func() {
		if !e.breaker.Allow() {
			logger.Warnf("scan skipped: circuit open after repeated failures")
			return
		}
		if e.runCycle(ctx) {
			e.breaker.RecordSuccess()
		} else {
			e.breaker.RecordFailure()
		}
	})
}

// runCycle executes one scan pass. It returns false only when the cycle
// produced no usable market data at all.
func (e *Engine) runCycle(ctx context.Context) bool {
	now := e.nowFn()
	snapshot := e.Cache.Snapshot(now)
	if len(snapshot.Quotes) == 0 {
		if !e.seedFromBroker(ctx) {
			logger.Warnf("scan: no prices available, cycle skipped")
			return false
		}
		snapshot = e.Cache.Snapshot(now)
	}

	for _, acc := range e.Accounts.Tradable() {
		if ctx.Err() != nil {
			return true
		}
		signals := acc.Strategy.GenerateSignals(snapshot)
		if len(signals) == 0 {
			continue
		}
		logger.Infof("account %s: strategy %s produced %d signal(s)", acc.ID, acc.Strategy.Name(), len(signals))
		for _, sig := range signals {
			quote, ok := snapshot.Quotes[sig.Instrument]
			if !ok {
				logger.Warnf("account %s: no quote for %s, signal dropped", acc.ID, sig.Instrument)
				continue
			}
			if quote.Stale(e.StaleMax, now) {
				logger.Warnf("account %s: quote for %s is stale, signal dropped", acc.ID, sig.Instrument)
				continue
			}
			e.handle(ctx, acc, quote, sig)
		}
	}
	return true
}

func (e *Engine) handle(ctx context.Context, acc *account.Account, quote broker.PriceQuote, sig strategy.TradingSignal) {
	_, err := e.Orders.HandleSignal(ctx, acc, sig, quote)
	if err == nil {
		return
	}
	var (
		blocked   *execution.BlockedError
		validated *execution.ValidationError
		netErr    *broker.NetworkError
	)
	switch {
	case errors.As(err, &blocked):
		// Already logged by the gate; the signal was still sized and
		// validated for monitoring.
	case errors.As(err, &validated):
		logger.Infof("account %s: signal %s %s rejected: %s", acc.ID, sig.Side, sig.Instrument, validated.Message)
	case errors.As(err, &netErr):
		logger.Warnf("account %s: broker unreachable for %s, will retry next scan: %v", acc.ID, sig.Instrument, netErr)
	default:
		logger.Warnf("account %s: signal %s %s failed: %v", acc.ID, sig.Side, sig.Instrument, err)
	}
}

// seedFromBroker primes the cache from the first tradable account when the
// refresh task has not produced anything yet.
func (e *Engine) seedFromBroker(ctx context.Context) bool {
	for _, acc := range e.Accounts.Tradable() {
		quotes, err := acc.Broker.Prices(ctx, e.Instruments, false)
		if err != nil {
			logger.Warnf("scan: price seed via account %s failed: %v", acc.ID, err)
			continue
		}
		for _, q := range quotes {
			e.Cache.Put(q)
		}
		return len(quotes) > 0
	}
	return false
}
