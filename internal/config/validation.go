package config

import (
	"fmt"
	"strings"

	"github.com/fxgdesigns1/AI-QUANT-sub000/internal/pkg/instrument"
)

func validate(c *Config) error {
	mode := strings.ToLower(strings.TrimSpace(c.Trading.Mode))
	if mode != string(ModePaper) && mode != string(ModeLive) {
		return fmt.Errorf("trading.mode must be %q or %q, got %q", ModePaper, ModeLive, c.Trading.Mode)
	}
	if len(c.Accounts) == 0 {
		return fmt.Errorf("at least one account must be configured")
	}
	seen := make(map[string]bool, len(c.Accounts))
	for i, acc := range c.Accounts {
		if strings.TrimSpace(acc.ID) == "" {
			return fmt.Errorf("accounts[%d]: id cannot be empty", i)
		}
		if seen[acc.ID] {
			return fmt.Errorf("accounts[%d]: duplicate id %q", i, acc.ID)
		}
		seen[acc.ID] = true
		if acc.MaxRiskPerTradePct > 10 {
			return fmt.Errorf("accounts[%d]: max_risk_per_trade_pct %.2f exceeds sanity cap of 10%%", i, acc.MaxRiskPerTradePct)
		}
		if acc.MaxPortfolioRiskPct < acc.MaxRiskPerTradePct {
			return fmt.Errorf("accounts[%d]: max_portfolio_risk_pct %.2f below per-trade risk %.2f",
				i, acc.MaxPortfolioRiskPct, acc.MaxRiskPerTradePct)
		}
	}
	for _, in := range c.Scan.Instruments {
		if !instrument.IsValid(in) {
			return fmt.Errorf("scan.instruments: %q is not a recognizable instrument", in)
		}
	}
	if c.Sizing.ConfidenceThreshold > 1 {
		return fmt.Errorf("sizing.confidence_threshold must be within (0,1], got %.2f", c.Sizing.ConfidenceThreshold)
	}
	if c.Sizing.MinUnits > c.Sizing.MaxUnits {
		return fmt.Errorf("sizing.min_units %d exceeds max_units %d", c.Sizing.MinUnits, c.Sizing.MaxUnits)
	}
	return nil
}
