package main

import (
	"fmt"

	"github.com/alecthomas/kong"

	"github.com/giellalt/kbddocs/cmd/kbddocs/commands"
	"github.com/giellalt/kbddocs/internal/version"
)

func main() {
	cli := &commands.CLI{}
	ctx := kong.Parse(cli,
		kong.Name("kbddocs"),
		kong.Description("Generate and lint keyboard layout documentation for kbdgen bundles"),
		kong.UsageOnError(),
		kong.Vars{
			"version": fmt.Sprintf("kbddocs %s (commit %s, built %s)",
				version.Version, version.GitCommit, version.BuildTime),
		},
	)

	err := ctx.Run(&commands.Global{})
	ctx.FatalIfErrorf(err)
}
