package commands

import (
	"fmt"
	"log/slog"

	"github.com/giellalt/kbddocs/internal/gitrepos"
	"github.com/giellalt/kbddocs/internal/logfields"
	"github.com/giellalt/kbddocs/internal/workspace"
)

// FetchCmd implements the 'fetch' command.
type FetchCmd struct {
	Dir        string `short:"d" default:"./kbddocs-data" help:"Data directory keyboard repositories are fetched into"`
	Update     bool   `short:"u" help:"Pull existing checkouts instead of cloning fresh"`
	NoGenerate bool   `help:"Fetch only; skip layout page generation"`
	Force      bool   `help:"Overwrite manually edited pages when generating"`
	Repository string `short:"r" help:"Fetch a single configured repository by name"`
}

// Run executes the fetch command.
func (f *FetchCmd) Run(_ *Global, root *CLI) error {
	cfg, err := loadConfig(root.Config)
	if err != nil {
		return err
	}
	if len(cfg.Repositories) == 0 {
		return fmt.Errorf("no repositories configured in %s (run: kbddocs init)", root.Config)
	}

	repos := cfg.Repositories
	if f.Repository != "" {
		repos = nil
		for _, repo := range cfg.Repositories {
			if repo.Name == f.Repository {
				repos = append(repos, repo)
				break
			}
		}
		if len(repos) == 0 {
			return fmt.Errorf("repository %q not found in configuration", f.Repository)
		}
	}

	ws := workspace.NewPersistentManager(f.Dir)
	if err := ws.Create(); err != nil {
		return err
	}

	client := gitrepos.NewClient(ws.Path()).WithShallowDepth(1)

	var failed int
	for _, repo := range repos {
		slog.Info("Fetching repository", logfields.Name(repo.Name), logfields.URL(repo.URL))

		var repoPath string
		if f.Update {
			repoPath, err = client.UpdateRepository(repo)
		} else {
			repoPath, err = client.CloneRepository(repo)
		}
		if err != nil {
			slog.Error("Failed to fetch repository", logfields.Name(repo.Name), logfields.Error(err))
			failed++
			continue
		}

		if !f.NoGenerate {
			if _, err := runGeneration(cfg, repoPath, f.Force); err != nil {
				slog.Error("Failed to generate pages", logfields.Name(repo.Name), logfields.Error(err))
				failed++
			}
		}
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d repositories failed", failed, len(repos))
	}

	slog.Info("All repositories fetched", slog.Int("count", len(repos)), logfields.Path(ws.Path()))
	return nil
}
