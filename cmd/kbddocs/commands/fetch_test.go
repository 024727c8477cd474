package commands

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/stretchr/testify/require"
)

// initKeyboardRepo creates a local git repository holding one .kbdgen
// bundle, committed on the default branch (master).
func initKeyboardRepo(t *testing.T) string {
	t.Helper()
	src := t.TempDir()
	writeTestBundle(t, src, "sma")

	repo, err := git.PlainInit(src, false)
	require.NoError(t, err)
	wt, err := repo.Worktree()
	require.NoError(t, err)
	_, err = wt.Add(".")
	require.NoError(t, err)
	_, err = wt.Commit("add layouts", &git.CommitOptions{
		Author: &object.Signature{Name: "test", Email: "test@example.com", When: time.Now()},
	})
	require.NoError(t, err)
	return src
}

func writeFetchConfig(t *testing.T, repoURL string) string {
	t.Helper()
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "kbddocs.yaml")
	cfgYAML := "repositories:\n" +
		"  - url: " + repoURL + "\n" +
		"    name: keyboard-sma\n" +
		"    branch: master\n" +
		"history:\n" +
		"  path: " + filepath.Join(dir, "history.db") + "\n"
	require.NoError(t, os.WriteFile(cfgPath, []byte(cfgYAML), 0o644))
	return cfgPath
}

func TestFetchGeneratesByDefault(t *testing.T) {
	src := initKeyboardRepo(t)
	cfgPath := writeFetchConfig(t, src)
	dataDir := filepath.Join(t.TempDir(), "data")

	cmd := &FetchCmd{Dir: dataDir}
	require.NoError(t, cmd.Run(&Global{}, &CLI{Config: cfgPath}))

	repoPath := filepath.Join(dataDir, "repos", "keyboard-sma")
	page, err := os.ReadFile(filepath.Join(repoPath, "docs", "layout.md"))
	require.NoError(t, err)
	require.Contains(t, string(page), "# Keyboard layouts for South Sami")

	mirror, err := os.ReadFile(filepath.Join(repoPath, "layout.md"))
	require.NoError(t, err)
	require.Equal(t, page, mirror)
}

func TestFetchNoGenerateSkipsPages(t *testing.T) {
	src := initKeyboardRepo(t)
	cfgPath := writeFetchConfig(t, src)
	dataDir := filepath.Join(t.TempDir(), "data")

	cmd := &FetchCmd{Dir: dataDir, NoGenerate: true}
	require.NoError(t, cmd.Run(&Global{}, &CLI{Config: cfgPath}))

	repoPath := filepath.Join(dataDir, "repos", "keyboard-sma")
	_, err := os.Stat(filepath.Join(repoPath, "sma.kbdgen"))
	require.NoError(t, err, "repository is checked out")
	_, err = os.Stat(filepath.Join(repoPath, "docs", "layout.md"))
	require.True(t, os.IsNotExist(err))
}

func TestFetchUnknownRepository(t *testing.T) {
	src := initKeyboardRepo(t)
	cfgPath := writeFetchConfig(t, src)

	cmd := &FetchCmd{Dir: filepath.Join(t.TempDir(), "data"), Repository: "keyboard-sme"}
	err := cmd.Run(&Global{}, &CLI{Config: cfgPath})
	require.Error(t, err)
	require.Contains(t, err.Error(), "keyboard-sme")
}
