// Package app assembles the service: configuration, account binding,
// market data tasks, the scan engine, and the monitoring API.
package app

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/fxgdesigns1/AI-QUANT-sub000/internal/account"
	"github.com/fxgdesigns1/AI-QUANT-sub000/internal/broker"
	"github.com/fxgdesigns1/AI-QUANT-sub000/internal/broker/oanda"
	"github.com/fxgdesigns1/AI-QUANT-sub000/internal/config"
	"github.com/fxgdesigns1/AI-QUANT-sub000/internal/engine"
	"github.com/fxgdesigns1/AI-QUANT-sub000/internal/execution"
	"github.com/fxgdesigns1/AI-QUANT-sub000/internal/logger"
	"github.com/fxgdesigns1/AI-QUANT-sub000/internal/market"
	"github.com/fxgdesigns1/AI-QUANT-sub000/internal/notify"
	"github.com/fxgdesigns1/AI-QUANT-sub000/internal/sizing"
	"github.com/fxgdesigns1/AI-QUANT-sub000/internal/store"
	monhttp "github.com/fxgdesigns1/AI-QUANT-sub000/internal/transport/http"
)

// App holds the wired components for one process lifetime.
type App struct {
	cfg      *config.Config
	watcher  *config.FlagWatcher
	accounts *account.Manager
	engine   *engine.Engine
	refresh  *market.Refresher
	validate *market.Validator
	server   *monhttp.Server
}

// New wires every component from the loaded configuration. cfgPath is kept
// so the flag watcher can re-read the trading section at runtime.
func New(ctx context.Context, cfgPath string, cfg *config.Config) (*App, error) {
	journal, err := openJournal(cfg.Store.Path)
	if err != nil {
		return nil, err
	}

	watcher := config.NewFlagWatcher(cfgPath, cfg.Trading)
	gate := execution.NewGate(watcher)

	accounts, err := account.NewManager(ctx, account.Params{
		Config: cfg,
		RealFactory: func(creds account.Credentials) (broker.Broker, error) {
			return oanda.NewClient(oanda.Config{
				APIURL:         cfg.Oanda.APIURL,
				APIKey:         creds.APIKey,
				AccountID:      creds.AccountID,
				TimeoutSeconds: cfg.Oanda.TimeoutSeconds,
			})
		},
	})
	if err != nil {
		return nil, err
	}
	tradable := accounts.Tradable()
	if len(tradable) == 0 {
		return nil, fmt.Errorf("no account could be bound, refusing to start")
	}
	logger.Infof("bound %d of %d configured account(s)", len(tradable), len(cfg.Accounts))

	orders := execution.NewOrderManager(execution.ManagerParams{
		Sizer:   sizing.NewSizer(cfg.Sizing),
		Gate:    gate,
		Journal: journalOrNil(journal),
		OnFill:  fillCallback(cfg.Notify),
	})

	cache := market.NewCache()
	staleMax := time.Duration(cfg.Scan.StaleQuoteSeconds) * time.Second
	refresh := &market.Refresher{
		Cache:       cache,
		Source:      tradable[0].Broker,
		Instruments: cfg.Scan.Instruments,
		Interval:    time.Duration(cfg.Scan.PriceRefreshSeconds) * time.Second,
	}
	validate := &market.Validator{
		Cache:    cache,
		MaxAge:   staleMax,
		Interval: time.Duration(cfg.Scan.ValidateSeconds) * time.Second,
	}

	eng := engine.New(engine.Params{
		Accounts:    accounts,
		Orders:      orders,
		Cache:       cache,
		Instruments: cfg.Scan.Instruments,
		Interval:    time.Duration(cfg.Scan.IntervalSeconds) * time.Second,
		StaleMax:    staleMax,
	})

	server, err := monhttp.NewServer(monhttp.ServerConfig{
		Addr:     cfg.App.HTTPAddr,
		Accounts: accounts,
		Orders:   orders,
		Gate:     gate,
		Journal:  journal,
	})
	if err != nil {
		return nil, err
	}

	return &App{
		cfg:      cfg,
		watcher:  watcher,
		accounts: accounts,
		engine:   eng,
		refresh:  refresh,
		validate: validate,
		server:   server,
	}, nil
}

// Run starts every background task and blocks until ctx is cancelled or a
// component fails fatally.
func (a *App) Run(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error { return a.watcher.Run(ctx) })
	g.Go(func() error { a.refresh.Run(ctx); return nil })
	g.Go(func() error { a.validate.Run(ctx); return nil })
	g.Go(func() error { a.engine.Run(ctx); return nil })
	g.Go(func() error { return a.server.Start(ctx) })

	return g.Wait()
}

// Accounts exposes the bound account manager, mainly for startup reporting.
func (a *App) Accounts() *account.Manager { return a.accounts }

func openJournal(path string) (*store.Store, error) {
	if path == "" {
		logger.Warnf("order journal disabled: no store path configured")
		return nil, nil
	}
	s, err := store.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening order journal failed: %w", err)
	}
	return s, nil
}

// journalOrNil avoids handing the order manager a typed nil interface.
func journalOrNil(s *store.Store) execution.Journal {
	if s == nil {
		return nil
	}
	return s
}

func fillCallback(cfg config.NotifyConfig) execution.FillCallback {
	if !cfg.Telegram.Enabled {
		return nil
	}
	if cfg.Telegram.BotToken == "" || cfg.Telegram.ChatID == "" {
		logger.Warnf("telegram notifications enabled but bot_token or chat_id missing, disabled")
		return nil
	}
	return notify.FillCallback(notify.NewTelegram(cfg.Telegram.BotToken, cfg.Telegram.ChatID))
}
