// Package workspace manages the directories keyboard repositories are
// fetched into.
package workspace

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/giellalt/kbddocs/internal/logfields"
)

// Manager handles workspace operations (both temporary and persistent).
type Manager struct {
	baseDir    string
	dir        string
	persistent bool // persistent workspaces survive Cleanup for incremental updates
}

// NewManager creates a workspace manager with ephemeral timestamped
// directories under baseDir (os.TempDir when empty).
func NewManager(baseDir string) *Manager {
	if baseDir == "" {
		baseDir = os.TempDir()
	}
	return &Manager{baseDir: baseDir}
}

// NewPersistentManager creates a workspace manager that uses a fixed
// directory and keeps it across runs so updates stay incremental.
func NewPersistentManager(baseDir string) *Manager {
	if baseDir == "" {
		baseDir = os.TempDir()
	}
	return &Manager{
		baseDir:    baseDir,
		dir:        filepath.Join(baseDir, "repos"),
		persistent: true,
	}
}

// Create creates the workspace directory.
func (m *Manager) Create() error {
	if m.persistent {
		if err := os.MkdirAll(m.dir, 0o750); err != nil {
			return fmt.Errorf("failed to create persistent workspace directory: %w", err)
		}
		slog.Info("Using persistent workspace", logfields.Path(m.dir))
		return nil
	}

	timestamp := time.Now().Format("20060102-150405")
	dir := filepath.Join(m.baseDir, fmt.Sprintf("kbddocs-%s", timestamp))
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return fmt.Errorf("failed to create workspace directory: %w", err)
	}

	m.dir = dir
	slog.Info("Created workspace", logfields.Path(dir))
	return nil
}

// Path returns the workspace directory.
func (m *Manager) Path() string { return m.dir }

// Cleanup removes ephemeral workspaces; persistent workspaces are kept.
func (m *Manager) Cleanup() error {
	if m.dir == "" || m.persistent {
		return nil
	}

	if err := os.RemoveAll(m.dir); err != nil {
		return fmt.Errorf("failed to cleanup workspace: %w", err)
	}

	slog.Info("Cleaned up workspace", logfields.Path(m.dir))
	m.dir = ""
	return nil
}
