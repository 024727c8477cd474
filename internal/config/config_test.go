package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/giellalt/kbddocs/internal/embed"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "kbddocs.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad(t *testing.T) {
	t.Run("defaults applied", func(t *testing.T) {
		path := writeConfig(t, "bundle_root: ./keyboard-sma\n")
		cfg, err := Load(path)
		require.NoError(t, err)

		require.Equal(t, "./keyboard-sma", cfg.BundleRoot)
		require.Equal(t, embed.DefaultBaseURL, cfg.Embed.BaseURL)
		require.Equal(t, "docs", cfg.Output.DocsDir)
		require.True(t, cfg.Output.MirrorEnabled())
		require.Equal(t, "1s", cfg.Watch.QuietWindow)
		require.Equal(t, "10s", cfg.Watch.MaxDelay)
		require.Equal(t, ":9321", cfg.Watch.Listen)
		require.Equal(t, "kbddocs-history.db", cfg.History.Path)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
		require.Error(t, err)
		require.Contains(t, err.Error(), "not found")
	})

	t.Run("invalid yaml", func(t *testing.T) {
		path := writeConfig(t, "bundle_root: [\n")
		_, err := Load(path)
		require.Error(t, err)
	})

	t.Run("environment expansion", func(t *testing.T) {
		t.Setenv("KBDDOCS_TEST_TOKEN", "sekrit")
		path := writeConfig(t, `
repositories:
  - url: https://github.com/giellalt/keyboard-sma.git
    name: keyboard-sma
    auth:
      type: token
      token: ${KBDDOCS_TEST_TOKEN}
`)
		cfg, err := Load(path)
		require.NoError(t, err)
		require.Len(t, cfg.Repositories, 1)
		require.Equal(t, "sekrit", cfg.Repositories[0].Auth.Token)
		require.Equal(t, "main", cfg.Repositories[0].Branch, "default branch applied")
	})

	t.Run("mirror can be disabled", func(t *testing.T) {
		path := writeConfig(t, "output:\n  root_mirror: false\n")
		cfg, err := Load(path)
		require.NoError(t, err)
		require.False(t, cfg.Output.MirrorEnabled())
	})

	t.Run("events defaults only when enabled", func(t *testing.T) {
		path := writeConfig(t, "events:\n  enabled: true\n  url: nats://localhost:4222\n")
		cfg, err := Load(path)
		require.NoError(t, err)
		require.Equal(t, "KBDDOCS", cfg.Events.Stream)
		require.Equal(t, "kbddocs.events", cfg.Events.Subject)

		cfg = Default()
		require.Empty(t, cfg.Events.Stream)
	})
}

func TestWatchDurations(t *testing.T) {
	t.Run("parsed", func(t *testing.T) {
		w := WatchConfig{QuietWindow: "750ms", MaxDelay: "5s", Interval: "1h"}

		quiet, err := w.QuietWindowDuration()
		require.NoError(t, err)
		require.Equal(t, 750*time.Millisecond, quiet)

		maxDelay, err := w.MaxDelayDuration()
		require.NoError(t, err)
		require.Equal(t, 5*time.Second, maxDelay)

		interval, err := w.IntervalDuration()
		require.NoError(t, err)
		require.Equal(t, time.Hour, interval)
	})

	t.Run("empty interval disables", func(t *testing.T) {
		interval, err := WatchConfig{}.IntervalDuration()
		require.NoError(t, err)
		require.Zero(t, interval)
	})

	t.Run("invalid duration", func(t *testing.T) {
		_, err := WatchConfig{QuietWindow: "soon"}.QuietWindowDuration()
		require.Error(t, err)
	})

	t.Run("non-positive rejected", func(t *testing.T) {
		_, err := WatchConfig{MaxDelay: "-5s"}.MaxDelayDuration()
		require.Error(t, err)
	})
}

func TestInit(t *testing.T) {
	t.Run("creates loadable config", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "kbddocs.yaml")
		require.NoError(t, Init(path, false))

		cfg, err := Load(path)
		require.NoError(t, err)
		require.Equal(t, ".", cfg.BundleRoot)
		require.Len(t, cfg.Repositories, 2)
	})

	t.Run("template carries comments", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "kbddocs.yaml")
		require.NoError(t, Init(path, false))

		data, err := os.ReadFile(path)
		require.NoError(t, err)
		require.Contains(t, string(data), "# Keyboard repositories for the fetch command.")
		require.Contains(t, string(data), "# Periodic regeneration; remove to disable.")
	})

	t.Run("refuses to overwrite without force", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "kbddocs.yaml")
		require.NoError(t, Init(path, false))
		require.Error(t, Init(path, false))
		require.NoError(t, Init(path, true))
	})
}
