package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFlagWatcherReloadsOnWrite(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(minimalConfig), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	w := NewFlagWatcher(path, cfg.Trading)
	assert.True(t, w.TradingFlags().PaperExecutionEnabled)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = w.Run(ctx)
	}()

	// Give the watcher a moment to register before rewriting the file.
	time.Sleep(100 * time.Millisecond)
	updated := `
trading:
  mode: paper
  paper_execution_enabled: false
accounts:
  - id: a1
    strategy: momentum
`
	require.NoError(t, os.WriteFile(path, []byte(updated), 0o644))

	require.Eventually(t, func() bool {
		return !w.TradingFlags().PaperExecutionEnabled
	}, 3*time.Second, 20*time.Millisecond, "flag change must be picked up")

	cancel()
	<-done
}

func TestFlagWatcherKeepsLastGoodOnBadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(minimalConfig), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	w := NewFlagWatcher(path, cfg.Trading)

	require.NoError(t, os.WriteFile(path, []byte("trading: ["), 0o644))
	w.reload()
	assert.True(t, w.TradingFlags().PaperExecutionEnabled, "invalid file keeps the previous flags")
}

func TestStaticFlags(t *testing.T) {
	s := StaticFlags{Mode: ModeLive, LiveTradingEnabled: true}
	assert.Equal(t, ModeLive, s.TradingFlags().Mode)
	assert.True(t, s.TradingFlags().LiveTradingEnabled)
}
