package execution

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/fxgdesigns1/AI-QUANT-sub000/internal/account"
	"github.com/fxgdesigns1/AI-QUANT-sub000/internal/broker"
	"github.com/fxgdesigns1/AI-QUANT-sub000/internal/sizing"
)

// ValidationError rejects a sized trade before it reaches the broker. The
// signal is dropped; nothing else happens.
type ValidationError struct {
	Code    string
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

const (
	CodeDailyLimit    = "daily_trade_limit"
	CodeMaxPositions  = "max_open_positions"
	CodePortfolioRisk = "portfolio_risk_ceiling"
	CodeTradeRisk     = "per_trade_risk_ceiling"
)

// ValidateTrade checks a sized trade against the account's ceilings.
// Returns nil when the trade may proceed.
//
// The portfolio ceiling is accept-at-boundary: a trade that lands the
// ratio exactly on the ceiling passes; only strictly exceeding it rejects.
func ValidateTrade(acc *account.Account, summary broker.AccountSummary, sized sizing.Result, openPositions int, now time.Time) error {
	limits := acc.Limits

	if used := acc.DailyTradesUsed(now); used >= limits.DailyTradeLimit {
		return &ValidationError{
			Code: CodeDailyLimit,
			Message: fmt.Sprintf("daily trade limit reached (%d/%d)",
				used, limits.DailyTradeLimit),
		}
	}

	if openPositions >= limits.MaxOpenPositions {
		return &ValidationError{
			Code: CodeMaxPositions,
			Message: fmt.Sprintf("open position limit reached (%d/%d)",
				openPositions, limits.MaxOpenPositions),
		}
	}

	if summary.Balance > 0 {
		exposure := decimal.NewFromFloat(summary.MarginUsed).
			Add(decimal.NewFromFloat(sized.RiskAmount)).
			Div(decimal.NewFromFloat(summary.Balance)).
			Mul(decimal.NewFromInt(100))
		ceiling := decimal.NewFromFloat(limits.MaxPortfolioRiskPct)
		if exposure.Cmp(ceiling) > 0 {
			return &ValidationError{
				Code: CodePortfolioRisk,
				Message: fmt.Sprintf("portfolio risk %.2f%% would exceed ceiling %.2f%%",
					exposureFloat(exposure), limits.MaxPortfolioRiskPct),
			}
		}

		tradeCap := decimal.NewFromFloat(summary.Balance).
			Mul(decimal.NewFromFloat(limits.MaxRiskPerTradePct)).
			Div(decimal.NewFromInt(100))
		if decimal.NewFromFloat(sized.RiskAmount).Cmp(tradeCap) > 0 {
			return &ValidationError{
				Code: CodeTradeRisk,
				Message: fmt.Sprintf("trade risk %.2f exceeds per-trade cap %.2f (%.2f%% of balance)",
					sized.RiskAmount, exposureFloat(tradeCap), limits.MaxRiskPerTradePct),
			}
		}
	}
	return nil
}

func exposureFloat(d decimal.Decimal) float64 {
	f, _ := d.Float64()
	return f
}
