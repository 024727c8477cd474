package commands

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/google/uuid"

	"github.com/giellalt/kbddocs/internal/config"
	"github.com/giellalt/kbddocs/internal/events"
	"github.com/giellalt/kbddocs/internal/history"
	"github.com/giellalt/kbddocs/internal/lint"
	"github.com/giellalt/kbddocs/internal/logfields"
)

// LintCmd implements the 'lint' command.
type LintCmd struct {
	Format string `short:"f" default:"text" help:"Output format (text or json)" enum:"text,json"`
	Quiet  bool   `short:"q" help:"Quiet mode: only show errors, suppress warnings"`

	Path string `arg:"" optional:"" help:"Path to lint (file or directory). Defaults to docs/ when present, else the current directory"`
}

// Run executes the lint command.
func (l *LintCmd) Run(_ *Global, root *CLI) error {
	cfg, err := loadConfig(root.Config)
	if err != nil {
		return err
	}

	path := l.Path
	if path == "" {
		var found bool
		path, found = lint.DetectDefaultPath()
		if root.Verbose && found {
			fmt.Fprintf(os.Stderr, "Detected documentation directory: %s\n", path)
		}
	}

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return fmt.Errorf("path does not exist: %s", path)
	}

	linter := lint.NewLinter(&lint.Config{
		Quiet:        l.Quiet,
		Format:       l.Format,
		EmbedBaseURL: cfg.Embed.BaseURL,
		DocsDir:      cfg.Output.DocsDir,
	})

	start := time.Now()
	result, err := linter.LintPath(path)
	if err != nil {
		return fmt.Errorf("linting failed: %w", err)
	}

	formatter := lint.NewFormatter(l.Format)
	if err := formatter.Format(os.Stdout, result, path); err != nil {
		return fmt.Errorf("formatting output: %w", err)
	}

	runID := uuid.New().String()
	recordRun(cfg, history.Run{
		ID:        runID,
		Kind:      history.RunLint,
		Bundle:    path,
		Errors:    result.ErrorCount(),
		Warnings:  result.WarningCount(),
		Duration:  time.Since(start),
		StartedAt: start,
	})
	publishLint(cfg, runID, path, result)

	// Exit codes: 2 blocks publishing, 1 flags warnings, 0 is clean.
	if result.HasErrors() {
		os.Exit(2)
	} else if result.HasWarnings() && !l.Quiet {
		os.Exit(1)
	}

	return nil
}

func publishLint(cfg *config.Config, runID, path string, result *lint.Result) {
	if !cfg.Events.Enabled {
		return
	}

	publisher, err := events.NewPublisher(cfg.Events)
	if err != nil {
		slog.Warn("Event publishing unavailable", logfields.Error(err))
		return
	}
	defer func() { _ = publisher.Close() }()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	event := events.LintCompletedEvent{
		Path:     path,
		Files:    result.FilesTotal,
		Errors:   result.ErrorCount(),
		Warnings: result.WarningCount(),
		RunID:    runID,
	}
	if err := publisher.PublishLintCompleted(ctx, event); err != nil {
		slog.Warn("Failed to publish lint event", logfields.Error(err))
	}
}
