package config

const (
	defaultScanInterval  = 60
	defaultPriceRefresh  = 30
	defaultValidate      = 120
	defaultStaleQuote    = 300
	defaultOandaTimeout  = 15
	defaultOandaAPIURL   = "https://api-fxpractice.oanda.com"
	defaultStorePath     = "data/orders.db"
	defaultHTTPAddr      = ":8090"
	defaultConfThreshold = 0.8
	defaultRiskFloorPct  = 0.3
	defaultMaxLeverage   = 20.0
	defaultMinUnits      = 1
	defaultMaxUnits      = 500000

	defaultMaxRiskPerTrade  = 1.0
	defaultMaxPortfolioRisk = 6.0
	defaultMaxOpenPositions = 5
	defaultDailyTradeLimit  = 20
)

func (c *Config) applyDefaults() {
	if c.App.LogLevel == "" {
		c.App.LogLevel = "info"
	}
	if c.App.HTTPAddr == "" {
		c.App.HTTPAddr = defaultHTTPAddr
	}
	if c.Trading.Mode == "" {
		c.Trading.Mode = string(ModePaper)
	}
	if c.Oanda.APIURL == "" {
		c.Oanda.APIURL = defaultOandaAPIURL
	}
	if c.Oanda.TimeoutSeconds <= 0 {
		c.Oanda.TimeoutSeconds = defaultOandaTimeout
	}
	if c.Scan.IntervalSeconds <= 0 {
		c.Scan.IntervalSeconds = defaultScanInterval
	}
	if c.Scan.PriceRefreshSeconds <= 0 {
		c.Scan.PriceRefreshSeconds = defaultPriceRefresh
	}
	if c.Scan.ValidateSeconds <= 0 {
		c.Scan.ValidateSeconds = defaultValidate
	}
	if c.Scan.StaleQuoteSeconds <= 0 {
		c.Scan.StaleQuoteSeconds = defaultStaleQuote
	}
	if len(c.Scan.Instruments) == 0 {
		c.Scan.Instruments = []string{"EUR_USD", "GBP_USD", "USD_JPY"}
	}
	if c.Sizing.ConfidenceThreshold <= 0 {
		c.Sizing.ConfidenceThreshold = defaultConfThreshold
	}
	if c.Sizing.RiskFloorPct <= 0 {
		c.Sizing.RiskFloorPct = defaultRiskFloorPct
	}
	if c.Sizing.MaxLeverage <= 0 {
		c.Sizing.MaxLeverage = defaultMaxLeverage
	}
	if c.Sizing.MinUnits <= 0 {
		c.Sizing.MinUnits = defaultMinUnits
	}
	if c.Sizing.MaxUnits <= 0 {
		c.Sizing.MaxUnits = defaultMaxUnits
	}
	if c.Store.Path == "" {
		c.Store.Path = defaultStorePath
	}
	for i := range c.Accounts {
		acc := &c.Accounts[i]
		if acc.MaxRiskPerTradePct <= 0 {
			acc.MaxRiskPerTradePct = defaultMaxRiskPerTrade
		}
		if acc.MaxPortfolioRiskPct <= 0 {
			acc.MaxPortfolioRiskPct = defaultMaxPortfolioRisk
		}
		if acc.MaxOpenPositions <= 0 {
			acc.MaxOpenPositions = defaultMaxOpenPositions
		}
		if acc.DailyTradeLimit <= 0 {
			acc.DailyTradeLimit = defaultDailyTradeLimit
		}
	}
}
