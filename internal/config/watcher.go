package config

import (
	"context"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"

	"github.com/fxgdesigns1/AI-QUANT-sub000/internal/logger"
)

// Flags is the execution-gate snapshot of the trading safety switches.
type Flags struct {
	Mode                  TradingMode
	PaperExecutionEnabled bool
	LiveTradingEnabled    bool
	LiveTradingConfirmed  bool
}

// FlagSource yields the current safety flags. The gate calls this before
// every order so flag edits in a long-running process take effect without
// a restart.
type FlagSource interface {
	TradingFlags() Flags
}

// StaticFlags is a FlagSource frozen at construction, used in tests.
type StaticFlags Flags

func (s StaticFlags) TradingFlags() Flags { return Flags(s) }

// FlagWatcher re-reads the trading section of the config file whenever the
// file changes on disk. Only the safety flags are live-reloaded; structural
// settings still require a restart.
type FlagWatcher struct {
	path string

	mu      sync.RWMutex
	current Flags
}

func NewFlagWatcher(path string, initial TradingConfig) *FlagWatcher {
	return &FlagWatcher{
		path:    path,
		current: flagsFrom(initial),
	}
}

func flagsFrom(t TradingConfig) Flags {
	return Flags{
		Mode:                  t.ResolvedMode(),
		PaperExecutionEnabled: t.PaperExecutionEnabled,
		LiveTradingEnabled:    t.LiveTradingEnabled,
		LiveTradingConfirmed:  t.LiveTradingConfirmed,
	}
}

func (w *FlagWatcher) TradingFlags() Flags {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.current
}

// Run watches the config file until ctx is cancelled. Editors replace
// files rather than write in place, so the parent directory is watched and
// events are filtered by name.
func (w *FlagWatcher) Run(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	dir := filepath.Dir(w.path)
	if err := watcher.Add(dir); err != nil {
		return err
	}
	target := filepath.Clean(w.path)
	logger.Infof("flag watcher: watching %s for trading flag changes", target)

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != target {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			w.reload()
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warnf("flag watcher: %v", err)
		}
	}
}

// reload keeps the last good flags when the file is mid-write or invalid.
func (w *FlagWatcher) reload() {
	cfg, err := Load(w.path)
	if err != nil {
		logger.Warnf("flag watcher: reload skipped: %v", err)
		return
	}
	next := flagsFrom(cfg.Trading)
	w.mu.Lock()
	prev := w.current
	w.current = next
	w.mu.Unlock()
	if prev != next {
		logger.Infof("flag watcher: trading flags updated mode=%s paper_exec=%v live_enabled=%v live_confirmed=%v",
			next.Mode, next.PaperExecutionEnabled, next.LiveTradingEnabled, next.LiveTradingConfirmed)
	}
}
