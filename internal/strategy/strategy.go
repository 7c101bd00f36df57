// Package strategy defines the contract between signal generators and the
// execution core. The core consumes TradingSignal values through the
// Strategy interface and never imports a concrete implementation.
package strategy

import (
	"time"

	"github.com/fxgdesigns1/AI-QUANT-sub000/internal/broker"
)

type Side string

const (
	SideBuy  Side = "buy"
	SideSell Side = "sell"
)

// TradingSignal is a strategy's proposal for one trade. Immutable once
// produced.
type TradingSignal struct {
	Instrument string
	Side       Side
	StopLoss   float64
	TakeProfit float64
	Confidence float64 // [0,1]; scales risk, never direction
	Strategy   string
	Time       time.Time
}

// Snapshot is the market view handed to a strategy for one scan: the
// latest quote per instrument plus a rolling mid-price history, oldest
// first.
type Snapshot struct {
	Time    time.Time
	Quotes  map[string]broker.PriceQuote
	History map[string][]float64
}

// Strategy turns a market snapshot into zero or more trading signals.
type Strategy interface {
	Name() string
	GenerateSignals(snapshot Snapshot) []TradingSignal
}
