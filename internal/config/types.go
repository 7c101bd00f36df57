package config

import "strings"

// Config is the root configuration for the execution service.
type Config struct {
	App      AppConfig       `mapstructure:"app"`
	Trading  TradingConfig   `mapstructure:"trading"`
	Oanda    OandaConfig     `mapstructure:"oanda"`
	Scan     ScanConfig      `mapstructure:"scan"`
	Sizing   SizingConfig    `mapstructure:"sizing"`
	Store    StoreConfig     `mapstructure:"store"`
	Notify   NotifyConfig    `mapstructure:"notify"`
	Accounts []AccountConfig `mapstructure:"accounts"`
}

type AppConfig struct {
	Env      string `mapstructure:"env"`
	LogLevel string `mapstructure:"log_level"`
	LogPath  string `mapstructure:"log_path"`
	HTTPAddr string `mapstructure:"http_addr"`
}

// TradingMode selects paper or live execution for the whole process.
type TradingMode string

const (
	ModePaper TradingMode = "paper"
	ModeLive  TradingMode = "live"
)

// TradingConfig holds the safety flags the execution gate reads before
// every order. These are the only settings re-read at runtime.
type TradingConfig struct {
	Mode                  string `mapstructure:"mode"`
	PaperExecutionEnabled bool   `mapstructure:"paper_execution_enabled"`
	LiveTradingEnabled    bool   `mapstructure:"live_trading_enabled"`
	LiveTradingConfirmed  bool   `mapstructure:"live_trading_confirmed"`
	// AllowNetworkInPaper permits paper-mode accounts with valid
	// credentials to bind the real client for data access.
	AllowNetworkInPaper bool `mapstructure:"allow_network_in_paper"`
}

// ResolvedMode normalizes the configured mode, defaulting to paper.
func (t TradingConfig) ResolvedMode() TradingMode {
	if strings.EqualFold(strings.TrimSpace(t.Mode), string(ModeLive)) {
		return ModeLive
	}
	return ModePaper
}

type OandaConfig struct {
	APIURL         string `mapstructure:"api_url"`
	TimeoutSeconds int    `mapstructure:"timeout_seconds"`
}

type ScanConfig struct {
	Instruments         []string `mapstructure:"instruments"`
	IntervalSeconds     int      `mapstructure:"interval_seconds"`
	PriceRefreshSeconds int      `mapstructure:"price_refresh_seconds"`
	ValidateSeconds     int      `mapstructure:"validate_seconds"`
	StaleQuoteSeconds   int      `mapstructure:"stale_quote_seconds"`
}

// SizingConfig tunes the position sizer shared by all accounts.
type SizingConfig struct {
	ConfidenceThreshold float64 `mapstructure:"confidence_threshold"`
	RiskFloorPct        float64 `mapstructure:"risk_floor_pct"`
	MaxLeverage         float64 `mapstructure:"max_leverage"`
	MinUnits            int     `mapstructure:"min_units"`
	MaxUnits            int     `mapstructure:"max_units"`
}

type StoreConfig struct {
	Path string `mapstructure:"path"`
}

type NotifyConfig struct {
	Telegram TelegramConfig `mapstructure:"telegram"`
}

type TelegramConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	BotToken string `mapstructure:"bot_token"`
	ChatID   string `mapstructure:"chat_id"`
}

// AccountConfig declares one trading account. Credentials are referenced
// by environment variable name, never stored inline.
type AccountConfig struct {
	ID                  string  `mapstructure:"id"`
	Name                string  `mapstructure:"name"`
	Strategy            string  `mapstructure:"strategy"`
	APIKeyEnv           string  `mapstructure:"api_key_env"`
	AccountIDEnv        string  `mapstructure:"account_id_env"`
	MaxRiskPerTradePct  float64 `mapstructure:"max_risk_per_trade_pct"`
	MaxPortfolioRiskPct float64 `mapstructure:"max_portfolio_risk_pct"`
	MaxOpenPositions    int     `mapstructure:"max_open_positions"`
	DailyTradeLimit     int     `mapstructure:"daily_trade_limit"`
}
