// Package commands holds the kbddocs CLI command implementations.
package commands

import (
	"log/slog"
	"os"

	"github.com/alecthomas/kong"

	"github.com/giellalt/kbddocs/internal/config"
)

// Global context passed to subcommands if we need to share global state later.
type Global struct {
	Logger *slog.Logger
}

// CLI definition & global flags - used by commands that need access to root config.
type CLI struct {
	Config  string           `short:"c" help:"Configuration file path" default:"kbddocs.yaml"`
	Verbose bool             `short:"v" help:"Enable verbose logging"`
	Version kong.VersionFlag `name:"version" help:"Show version and exit"`

	Generate GenerateCmd `cmd:"" help:"Generate layout documentation pages from a kbdgen bundle"`
	Discover DiscoverCmd `cmd:"" help:"List bundles, layouts and platforms without writing anything"`
	Lint     LintCmd     `cmd:"" help:"Lint generated layout documentation pages"`
	Fetch    FetchCmd    `cmd:"" help:"Fetch configured keyboard repositories and generate their pages"`
	Watch    WatchCmd    `cmd:"" help:"Watch a bundle and regenerate pages on change"`
	History  HistoryCmd  `cmd:"" help:"Show recent generation and lint runs"`
	Init     InitCmd     `cmd:"" help:"Initialize a new configuration file"`
}

// AfterApply runs after flag parsing; setup logging once.
// nolint:unparam // AfterApply currently never returns an error.
func (c *CLI) AfterApply() error {
	level := slog.LevelInfo
	if c.Verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)
	return nil
}

// loadConfig loads the configuration file, falling back to defaults when
// the file does not exist. Most commands work fine without a config file;
// only fetch requires configured repositories.
func loadConfig(path string) (*config.Config, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return config.Default(), nil
	}
	return config.Load(path)
}
