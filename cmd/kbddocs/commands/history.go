package commands

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/giellalt/kbddocs/internal/history"
)

// HistoryCmd implements the 'history' command.
type HistoryCmd struct {
	Limit int `short:"n" default:"20" help:"Number of runs to show"`
}

// Run executes the history command.
func (h *HistoryCmd) Run(_ *Global, root *CLI) error {
	cfg, err := loadConfig(root.Config)
	if err != nil {
		return err
	}

	if _, err := os.Stat(cfg.History.Path); os.IsNotExist(err) {
		fmt.Fprintln(os.Stdout, "No run history yet.")
		return nil
	}

	store, err := history.NewSQLiteStore(cfg.History.Path)
	if err != nil {
		return fmt.Errorf("open history store: %w", err)
	}
	defer func() { _ = store.Close() }()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	runs, err := store.Recent(ctx, h.Limit)
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Fprintln(os.Stdout, "No run history yet.")
		return nil
	}

	for _, run := range runs {
		line := fmt.Sprintf("%s  %-8s  %s",
			run.StartedAt.Format(time.RFC3339), run.Kind, run.Bundle)
		switch run.Kind {
		case history.RunGenerate:
			line += fmt.Sprintf("  layouts=%d", run.Layouts)
		case history.RunLint:
			line += fmt.Sprintf("  errors=%d warnings=%d", run.Errors, run.Warnings)
		}
		line += fmt.Sprintf("  (%s)", run.Duration.Round(time.Millisecond))
		fmt.Fprintln(os.Stdout, line)
	}

	return nil
}
