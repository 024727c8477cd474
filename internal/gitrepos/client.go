// Package gitrepos clones and updates keyboard definition repositories.
package gitrepos

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"

	"github.com/giellalt/kbddocs/internal/config"
	"github.com/giellalt/kbddocs/internal/logfields"
)

// Client handles git operations against a workspace directory.
type Client struct {
	workspaceDir string
	shallowDepth int
}

// NewClient creates a new git client rooted at the workspace directory.
func NewClient(workspaceDir string) *Client { return &Client{workspaceDir: workspaceDir} }

// WithShallowDepth limits clone history depth (fluent helper).
func (c *Client) WithShallowDepth(depth int) *Client { c.shallowDepth = depth; return c }

// CloneRepository clones a repository fresh into the workspace, replacing
// any previous checkout.
func (c *Client) CloneRepository(repo config.Repository) (string, error) {
	repoPath := filepath.Join(c.workspaceDir, repo.Name)
	slog.Debug("Cloning repository", logfields.URL(repo.URL), logfields.Name(repo.Name), slog.String("branch", repo.Branch), logfields.Path(repoPath))

	if err := os.RemoveAll(repoPath); err != nil {
		return "", fmt.Errorf("failed to remove existing directory: %w", err)
	}

	opts := &git.CloneOptions{URL: repo.URL}
	if repo.Branch != "" {
		opts.ReferenceName = plumbing.ReferenceName("refs/heads/" + repo.Branch)
		opts.SingleBranch = true
	}
	if c.shallowDepth > 0 {
		opts.Depth = c.shallowDepth
	}
	if repo.Auth != nil {
		auth, err := buildAuth(repo.Auth)
		if err != nil {
			return "", fmt.Errorf("failed to setup authentication: %w", err)
		}
		opts.Auth = auth
	}

	repository, err := git.PlainClone(repoPath, false, opts)
	if err != nil {
		return "", classifyError("clone", repo.URL, err)
	}

	if ref, herr := repository.Head(); herr == nil {
		slog.Info("Repository cloned", logfields.Name(repo.Name), slog.String("commit", ref.Hash().String()[:8]), logfields.Path(repoPath))
	} else {
		slog.Info("Repository cloned", logfields.Name(repo.Name), logfields.Path(repoPath))
	}
	return repoPath, nil
}

// UpdateRepository pulls an existing checkout, or clones when missing.
func (c *Client) UpdateRepository(repo config.Repository) (string, error) {
	repoPath := filepath.Join(c.workspaceDir, repo.Name)
	if _, err := os.Stat(filepath.Join(repoPath, ".git")); err != nil {
		slog.Debug("Repository missing, cloning", logfields.Name(repo.Name))
		return c.CloneRepository(repo)
	}

	repository, err := git.PlainOpen(repoPath)
	if err != nil {
		return "", fmt.Errorf("open repo: %w", err)
	}
	wt, err := repository.Worktree()
	if err != nil {
		return "", fmt.Errorf("worktree: %w", err)
	}

	opts := &git.PullOptions{RemoteName: "origin"}
	if repo.Branch != "" {
		opts.ReferenceName = plumbing.ReferenceName("refs/heads/" + repo.Branch)
		opts.SingleBranch = true
	}
	if repo.Auth != nil {
		auth, authErr := buildAuth(repo.Auth)
		if authErr != nil {
			return "", fmt.Errorf("failed to setup authentication: %w", authErr)
		}
		opts.Auth = auth
	}

	switch err := wt.Pull(opts); {
	case err == nil:
		slog.Info("Repository updated", logfields.Name(repo.Name), logfields.Path(repoPath))
	case errors.Is(err, git.NoErrAlreadyUpToDate):
		slog.Debug("Repository already up to date", logfields.Name(repo.Name))
	default:
		return "", classifyError("update", repo.URL, err)
	}

	return repoPath, nil
}
