package account

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/fxgdesigns1/AI-QUANT-sub000/internal/broker"
	"github.com/fxgdesigns1/AI-QUANT-sub000/internal/broker/paper"
	"github.com/fxgdesigns1/AI-QUANT-sub000/internal/config"
	"github.com/fxgdesigns1/AI-QUANT-sub000/internal/logger"
	"github.com/fxgdesigns1/AI-QUANT-sub000/internal/strategy"
)

const probeTimeout = 20 * time.Second

// Credentials are resolved from the environment at bind time and never
// persisted.
type Credentials struct {
	APIKey    string
	AccountID string
}

func (c Credentials) Valid() bool {
	return c.APIKey != "" && c.AccountID != ""
}

// BindError explains why one account could not be bound. It is fatal for
// that account only.
type BindError struct {
	AccountID string
	Reason    string
	Err       error
}

func (e *BindError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("account %s: %s", e.AccountID, e.Reason)
	}
	return fmt.Sprintf("account %s: %s: %v", e.AccountID, e.Reason, e.Err)
}

func (e *BindError) Unwrap() error { return e.Err }

// RealBrokerFactory builds a networked broker client for one account's
// credentials. Injected so tests can bind fakes.
type RealBrokerFactory func(creds Credentials) (broker.Broker, error)

// Params configures a Manager.
type Params struct {
	Config      *config.Config
	RealFactory RealBrokerFactory
	PaperFn     func() broker.Broker
	LookupEnv   func(string) string
}

// Manager owns the configured accounts. Binding runs exactly once per
// process; nothing rebinds an account's broker at runtime.
type Manager struct {
	accounts []*Account
	byID     map[string]*Account
	errors   []*BindError
}

// NewManager resolves credentials, binds brokers per the mode decision
// table, and returns the manager. Binding failures exclude the affected
// account but never fail the whole process.
func NewManager(ctx context.Context, p Params) (*Manager, error) {
	if p.Config == nil {
		return nil, fmt.Errorf("account manager requires a config")
	}
	if p.PaperFn == nil {
		p.PaperFn = func() broker.Broker { return paper.New() }
	}
	if p.LookupEnv == nil {
		p.LookupEnv = os.Getenv
	}

	m := &Manager{byID: make(map[string]*Account)}
	mode := p.Config.Trading.ResolvedMode()
	for _, accCfg := range p.Config.Accounts {
		acc := m.bind(ctx, mode, p, accCfg)
		m.accounts = append(m.accounts, acc)
		m.byID[acc.ID] = acc
	}
	return m, nil
}

func (m *Manager) bind(ctx context.Context, mode config.TradingMode, p Params, accCfg config.AccountConfig) *Account {
	acc := &Account{
		ID:   accCfg.ID,
		Name: accCfg.Name,
		Limits: RiskLimits{
			MaxRiskPerTradePct:  accCfg.MaxRiskPerTradePct,
			MaxPortfolioRiskPct: accCfg.MaxPortfolioRiskPct,
			MaxOpenPositions:    accCfg.MaxOpenPositions,
			DailyTradeLimit:     accCfg.DailyTradeLimit,
		},
	}

	strat, err := strategy.New(accCfg.Strategy)
	if err != nil {
		m.exclude(acc, "strategy unavailable", err)
		return acc
	}
	acc.Strategy = strat

	creds := Credentials{
		APIKey:    strings.TrimSpace(p.LookupEnv(accCfg.APIKeyEnv)),
		AccountID: strings.TrimSpace(p.LookupEnv(accCfg.AccountIDEnv)),
	}

	switch {
	case mode == config.ModeLive:
		// Live misconfiguration must stay visible: never downgrade a live
		// account to the paper broker.
		if !creds.Valid() {
			m.exclude(acc, "live mode requires credentials", &broker.ConfigurationError{
				Field: accCfg.APIKeyEnv, Reason: "credentials missing from environment",
			})
			return acc
		}
		real, err := m.buildAndProbe(ctx, p, creds)
		if err != nil {
			m.exclude(acc, "live binding failed", err)
			return acc
		}
		acc.Broker = real
		logger.Infof("account %s: bound live broker %s", acc.ID, real.Name())

	case p.Config.Trading.AllowNetworkInPaper && creds.Valid():
		// Paper with network permitted: real data is nice to have, but a
		// failure risks nothing, so fall back to the simulator.
		real, err := m.buildAndProbe(ctx, p, creds)
		if err != nil {
			acc.Broker = p.PaperFn()
			acc.BindingNote = fmt.Sprintf("real client unavailable, using paper broker: %v", err)
			logger.Warnf("account %s: %s", acc.ID, acc.BindingNote)
			return acc
		}
		acc.Broker = real
		logger.Infof("account %s: paper mode with real data feed (%s)", acc.ID, real.Name())

	default:
		acc.Broker = p.PaperFn()
		logger.Infof("account %s: bound paper broker", acc.ID)
	}
	return acc
}

func (m *Manager) buildAndProbe(ctx context.Context, p Params, creds Credentials) (broker.Broker, error) {
	if p.RealFactory == nil {
		return nil, fmt.Errorf("no real broker factory configured")
	}
	real, err := p.RealFactory(creds)
	if err != nil {
		return nil, err
	}
	probeCtx, cancel := context.WithTimeout(ctx, probeTimeout)
	defer cancel()
	if _, err := real.AccountInfo(probeCtx); err != nil {
		return nil, fmt.Errorf("connectivity probe failed: %w", err)
	}
	return real, nil
}

func (m *Manager) exclude(acc *Account, reason string, err error) {
	be := &BindError{AccountID: acc.ID, Reason: reason, Err: err}
	acc.BindingNote = be.Error()
	m.errors = append(m.errors, be)
	logger.Errorf("account %s excluded from trading: %s: %v", acc.ID, reason, err)
}

// Accounts returns every configured account, bound or not.
func (m *Manager) Accounts() []*Account {
	return m.accounts
}

// Tradable returns only accounts with a bound broker.
func (m *Manager) Tradable() []*Account {
	out := make([]*Account, 0, len(m.accounts))
	for _, a := range m.accounts {
		if a.Tradable() {
			out = append(out, a)
		}
	}
	return out
}

// Get looks up an account by id.
func (m *Manager) Get(id string) (*Account, bool) {
	a, ok := m.byID[id]
	return a, ok
}

// BindErrors lists the per-account binding failures from startup.
func (m *Manager) BindErrors() []*BindError {
	return m.errors
}
