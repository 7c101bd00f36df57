// Package account models configured trading accounts and binds each one to
// a broker backend at startup.
package account

import (
	"sync"
	"time"

	"github.com/fxgdesigns1/AI-QUANT-sub000/internal/broker"
	"github.com/fxgdesigns1/AI-QUANT-sub000/internal/strategy"
)

// RiskLimits are the per-account ceilings the validator enforces.
type RiskLimits struct {
	MaxRiskPerTradePct  float64
	MaxPortfolioRiskPct float64
	MaxOpenPositions    int
	DailyTradeLimit     int
}

// Account is one configured trading account. Broker is nil when binding
// failed and the account is excluded from trading. Accounts are created at
// startup and never destroyed; only the daily counter mutates.
type Account struct {
	ID       string
	Name     string
	Limits   RiskLimits
	Broker   broker.Broker
	Strategy strategy.Strategy

	// BindingNote records why an account is unbound or fell back to paper.
	BindingNote string

	mu          sync.Mutex
	dailyTrades int
	counterDate string // UTC calendar date the counter belongs to
}

// Tradable reports whether the account has a bound broker.
func (a *Account) Tradable() bool {
	return a != nil && a.Broker != nil
}

// DailyTradesUsed returns today's trade count, resetting it first if the
// UTC calendar date rolled over since the last mutation.
func (a *Account) DailyTradesUsed(now time.Time) int {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.rollIfNeeded(now)
	return a.dailyTrades
}

// IncrementDailyTrades bumps today's counter and returns the new value.
func (a *Account) IncrementDailyTrades(now time.Time) int {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.rollIfNeeded(now)
	a.dailyTrades++
	return a.dailyTrades
}

func (a *Account) rollIfNeeded(now time.Time) {
	date := now.UTC().Format("2006-01-02")
	if a.counterDate != date {
		a.counterDate = date
		a.dailyTrades = 0
	}
}
