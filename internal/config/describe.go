package config

import (
	"gopkg.in/yaml.v3"
)

// Describe renders the effective configuration as YAML for the startup
// log. Credential env var names are listed; the values never enter the
// config, so nothing needs redacting.
func (c *Config) Describe() string {
	type accountView struct {
		ID              string  `yaml:"id"`
		Strategy        string  `yaml:"strategy"`
		MaxRiskPerTrade float64 `yaml:"max_risk_per_trade_pct"`
		MaxPortfolio    float64 `yaml:"max_portfolio_risk_pct"`
		MaxPositions    int     `yaml:"max_open_positions"`
		DailyLimit      int     `yaml:"daily_trade_limit"`
	}
	view := struct {
		Mode        string        `yaml:"mode"`
		Instruments []string      `yaml:"instruments"`
		ScanEvery   int           `yaml:"scan_interval_seconds"`
		Accounts    []accountView `yaml:"accounts"`
	}{
		Mode:        string(c.Trading.ResolvedMode()),
		Instruments: c.Scan.Instruments,
		ScanEvery:   c.Scan.IntervalSeconds,
	}
	for _, a := range c.Accounts {
		view.Accounts = append(view.Accounts, accountView{
			ID:              a.ID,
			Strategy:        a.Strategy,
			MaxRiskPerTrade: a.MaxRiskPerTradePct,
			MaxPortfolio:    a.MaxPortfolioRiskPct,
			MaxPositions:    a.MaxOpenPositions,
			DailyLimit:      a.DailyTradeLimit,
		})
	}
	out, err := yaml.Marshal(view)
	if err != nil {
		return ""
	}
	return string(out)
}
