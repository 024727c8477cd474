package commands

import (
	"log/slog"

	"github.com/giellalt/kbddocs/internal/config"
	"github.com/giellalt/kbddocs/internal/logfields"
)

// InitCmd implements the 'init' command.
type InitCmd struct {
	Force bool `help:"Overwrite existing configuration file"`
}

// Run executes the init command.
func (i *InitCmd) Run(_ *Global, root *CLI) error {
	if err := config.Init(root.Config, i.Force); err != nil {
		return err
	}
	slog.Info("Configuration file created", logfields.Path(root.Config))
	return nil
}
