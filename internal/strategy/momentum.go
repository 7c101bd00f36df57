package strategy

import (
	"github.com/markcheno/go-talib"

	"github.com/fxgdesigns1/AI-QUANT-sub000/internal/pkg/instrument"
)

const (
	momentumHistoryMin = 40
	momentumRSIPeriod  = 14
	momentumFastEMA    = 9
	momentumSlowEMA    = 21
	momentumStopPips   = 25
	momentumTargetPips = 50
)

// Momentum is the reference strategy shipped with the service: RSI filter
// plus an EMA crossover. It exists to exercise the registry end to end;
// production deployments register their own implementations.
type Momentum struct{}

func init() {
	Register("momentum", func() Strategy { return &Momentum{} })
}

func (m *Momentum) Name() string { return "momentum" }

func (m *Momentum) GenerateSignals(snapshot Snapshot) []TradingSignal {
	var signals []TradingSignal
	for inst, closes := range snapshot.History {
		if len(closes) < momentumHistoryMin {
			continue
		}
		quote, ok := snapshot.Quotes[inst]
		if !ok || !quote.Valid() {
			continue
		}
		rsi := talib.Rsi(closes, momentumRSIPeriod)
		fast := talib.Ema(closes, momentumFastEMA)
		slow := talib.Ema(closes, momentumSlowEMA)
		last := len(closes) - 1
		if last < 1 {
			continue
		}
		r := rsi[last]
		crossedUp := fast[last] > slow[last] && fast[last-1] <= slow[last-1]
		crossedDown := fast[last] < slow[last] && fast[last-1] >= slow[last-1]

		pip := instrument.PipSize(inst)
		switch {
		case crossedUp && r < 70:
			entry := quote.Ask
			signals = append(signals, TradingSignal{
				Instrument: inst,
				Side:       SideBuy,
				StopLoss:   entry - momentumStopPips*pip,
				TakeProfit: entry + momentumTargetPips*pip,
				Confidence: momentumConfidence(r, true),
				Strategy:   m.Name(),
				Time:       snapshot.Time,
			})
		case crossedDown && r > 30:
			entry := quote.Bid
			signals = append(signals, TradingSignal{
				Instrument: inst,
				Side:       SideSell,
				StopLoss:   entry + momentumStopPips*pip,
				TakeProfit: entry - momentumTargetPips*pip,
				Confidence: momentumConfidence(r, false),
				Strategy:   m.Name(),
				Time:       snapshot.Time,
			})
		}
	}
	return signals
}

// momentumConfidence maps RSI distance from the exhaustion band into
// [0.5, 0.95]. A cross right at the band edge is weak evidence.
func momentumConfidence(rsi float64, long bool) float64 {
	headroom := rsi - 30
	if long {
		headroom = 70 - rsi
	}
	if headroom < 0 {
		headroom = 0
	}
	conf := 0.5 + headroom/40*0.45
	if conf > 0.95 {
		conf = 0.95
	}
	return conf
}
