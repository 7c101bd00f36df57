// Package execution is the signal-to-order pipeline: sizing, risk
// validation, the safety gate, and order placement bookkeeping.
package execution

import (
	"github.com/fxgdesigns1/AI-QUANT-sub000/internal/config"
)

// Reason is a machine-readable explanation of a gate decision.
type Reason string

const (
	ReasonPaperOK          Reason = "ok_paper"
	ReasonLiveOK           Reason = "ok_live"
	ReasonPaperDisabled    Reason = "paper_execution_disabled"
	ReasonLiveNotEnabled   Reason = "live_trading_not_enabled"
	ReasonLiveNotConfirmed Reason = "live_trading_not_confirmed"
)

// Decision is the gate's verdict for one order. Recomputed fresh for every
// order; never cached.
type Decision struct {
	Allowed bool
	Mode    config.TradingMode
	Reason  Reason
}

// Evaluate is the pure gate function. Live execution requires both flags
// independently ("dual confirm"); paper execution requires its own switch.
func Evaluate(f config.Flags) Decision {
	if f.Mode == config.ModeLive {
		switch {
		case !f.LiveTradingEnabled:
			return Decision{Allowed: false, Mode: config.ModeLive, Reason: ReasonLiveNotEnabled}
		case !f.LiveTradingConfirmed:
			return Decision{Allowed: false, Mode: config.ModeLive, Reason: ReasonLiveNotConfirmed}
		default:
			return Decision{Allowed: true, Mode: config.ModeLive, Reason: ReasonLiveOK}
		}
	}
	if !f.PaperExecutionEnabled {
		return Decision{Allowed: false, Mode: config.ModePaper, Reason: ReasonPaperDisabled}
	}
	return Decision{Allowed: true, Mode: config.ModePaper, Reason: ReasonPaperOK}
}

// Gate reads the current flags and decides whether an order may reach the
// broker. It is the single choke point in front of every submission.
type Gate struct {
	flags config.FlagSource
}

func NewGate(flags config.FlagSource) *Gate {
	return &Gate{flags: flags}
}

func (g *Gate) Check() Decision {
	return Evaluate(g.flags.TradingFlags())
}

// BlockedError reports an order stopped by the gate. The signal was still
// sized and risk-checked for monitoring; only the broker call was skipped.
type BlockedError struct {
	Decision Decision
}

func (e *BlockedError) Error() string {
	return "execution blocked: " + string(e.Decision.Reason)
}
