package main

import (
	"context"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/fxgdesigns1/AI-QUANT-sub000/internal/app"
	"github.com/fxgdesigns1/AI-QUANT-sub000/internal/config"
	"github.com/fxgdesigns1/AI-QUANT-sub000/internal/logger"
)

const defaultConfigPath = "configs/config.yaml"

func main() {
	if err := godotenv.Load(); err == nil {
		logger.Infof("loaded credentials from .env")
	}

	cfgPath := os.Getenv("QUANTFX_CONFIG")
	if cfgPath == "" {
		cfgPath = defaultConfigPath
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		logger.Errorf("configuration error: %v", err)
		os.Exit(1)
	}

	setupLogOutput(cfg.App.LogPath)
	logger.SetLevel(cfg.App.LogLevel)
	logger.Infof("starting quantfx (mode=%s)\n%s", cfg.Trading.ResolvedMode(), cfg.Describe())

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a, err := app.New(ctx, cfgPath, cfg)
	if err != nil {
		logger.Errorf("startup failed: %v", err)
		os.Exit(1)
	}
	for _, be := range a.Accounts().BindErrors() {
		logger.Warnf("startup: %v", be)
	}

	if err := a.Run(ctx); err != nil && ctx.Err() == nil {
		logger.Errorf("service stopped: %v", err)
		os.Exit(1)
	}
	logger.Infof("shutdown complete")
}

// setupLogOutput mirrors logs to a file when log_path is set; stdout stays
// primary either way.
func setupLogOutput(path string) {
	if path == "" {
		return
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		logger.Warnf("cannot create log directory for %s: %v", path, err)
		return
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		logger.Warnf("cannot open log file %s: %v", path, err)
		return
	}
	logger.SetOutput(io.MultiWriter(os.Stdout, f))
}
