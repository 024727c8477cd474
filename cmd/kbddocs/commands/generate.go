package commands

import (
	"fmt"
	"os"
)

// GenerateCmd implements the 'generate' command.
type GenerateCmd struct {
	Path  string `arg:"" optional:"" help:"Repository root containing a .kbdgen bundle (defaults to configured bundle_root)"`
	Force bool   `help:"Overwrite pages that were manually edited since generation"`
}

// Run executes the generate command.
func (g *GenerateCmd) Run(_ *Global, root *CLI) error {
	cfg, err := loadConfig(root.Config)
	if err != nil {
		return err
	}

	dir := g.Path
	if dir == "" {
		dir = cfg.BundleRoot
	}
	if _, err := os.Stat(dir); err != nil {
		return fmt.Errorf("bundle root does not exist: %s", dir)
	}

	_, err = runGeneration(cfg, dir, g.Force)
	return err
}
