package commands

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/giellalt/kbddocs/internal/config"
	"github.com/giellalt/kbddocs/internal/kbdgen"
	"github.com/giellalt/kbddocs/internal/lint"
	"github.com/giellalt/kbddocs/internal/logfields"
	"github.com/giellalt/kbddocs/internal/watch"
)

// WatchCmd implements the 'watch' command.
type WatchCmd struct {
	Path  string `arg:"" optional:"" help:"Repository root containing a .kbdgen bundle (defaults to configured bundle_root)"`
	Force bool   `help:"Overwrite manually edited pages on regeneration"`
}

// Run executes the watch command.
func (w *WatchCmd) Run(_ *Global, root *CLI) error {
	cfg, err := loadConfig(root.Config)
	if err != nil {
		return err
	}

	dir := w.Path
	if dir == "" {
		dir = cfg.BundleRoot
	}
	if _, err := os.Stat(dir); err != nil {
		return fmt.Errorf("bundle root does not exist: %s", dir)
	}

	bundle, err := kbdgen.FindBundle(dir)
	if err != nil {
		return err
	}

	quietWindow, err := cfg.Watch.QuietWindowDuration()
	if err != nil {
		return err
	}
	maxDelay, err := cfg.Watch.MaxDelayDuration()
	if err != nil {
		return err
	}
	interval, err := cfg.Watch.IntervalDuration()
	if err != nil {
		return err
	}

	service, err := watch.NewService(watch.ServiceConfig{
		LayoutsDir:  bundle.LayoutsDir(),
		QuietWindow: quietWindow,
		MaxDelay:    maxDelay,
		Interval:    interval,
		Listen:      cfg.Watch.Listen,
	}, func(context.Context) (bool, error) {
		return runGeneration(cfg, dir, w.Force)
	}, func(context.Context) (map[string]int, error) {
		return lintIssueCounts(cfg, dir)
	})
	if err != nil {
		return err
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	slog.Info("Watch mode started",
		logfields.Bundle(bundle.LangCode),
		logfields.Path(bundle.LayoutsDir()),
		slog.String("listen", cfg.Watch.Listen))

	if err := service.Run(ctx); err != nil {
		return err
	}

	slog.Info("Watch mode stopped")
	return nil
}

// lintIssueCounts lints the regenerated pages and returns issue counts
// per severity for the watch-mode lint gauge.
func lintIssueCounts(cfg *config.Config, path string) (map[string]int, error) {
	linter := lint.NewLinter(&lint.Config{
		EmbedBaseURL: cfg.Embed.BaseURL,
		DocsDir:      cfg.Output.DocsDir,
	})
	result, err := linter.LintPath(path)
	if err != nil {
		return nil, err
	}
	return map[string]int{
		"error":   result.ErrorCount(),
		"warning": result.WarningCount(),
		"info":    len(result.Issues) - result.ErrorCount() - result.WarningCount(),
	}, nil
}
