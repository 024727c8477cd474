package watch

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/giellalt/kbddocs/internal/logfields"
	"github.com/giellalt/kbddocs/internal/metrics"
)

// LayoutWatcher monitors a bundle's layouts directory and forwards
// relevant filesystem events to the debouncer.
type LayoutWatcher struct {
	layoutsDir string
	watcher    *fsnotify.Watcher
	debouncer  *Debouncer
	recorder   metrics.Recorder
}

// NewLayoutWatcher creates a watcher over layoutsDir. Events for files
// other than layout YAML files are ignored.
func NewLayoutWatcher(layoutsDir string, debouncer *Debouncer, recorder metrics.Recorder) (*LayoutWatcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create file watcher: %w", err)
	}

	absDir, err := filepath.Abs(layoutsDir)
	if err != nil {
		watcher.Close()
		return nil, fmt.Errorf("failed to resolve layouts directory: %w", err)
	}

	if err := watcher.Add(absDir); err != nil {
		watcher.Close()
		return nil, fmt.Errorf("failed to watch layouts directory %s: %w", absDir, err)
	}

	if recorder == nil {
		recorder = metrics.NopRecorder{}
	}

	return &LayoutWatcher{
		layoutsDir: absDir,
		watcher:    watcher,
		debouncer:  debouncer,
		recorder:   recorder,
	}, nil
}

// Run forwards events until ctx is cancelled.
func (w *LayoutWatcher) Run(ctx context.Context) error {
	slog.Info("Watching layouts directory", logfields.Path(w.layoutsDir))

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}
			if !isLayoutFile(event.Name) {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
				continue
			}

			slog.Debug("Layout change detected",
				logfields.Path(event.Name),
				slog.String("op", event.Op.String()))
			w.recorder.IncWatchEvent(opLabel(event.Op))
			w.debouncer.Request(Request{
				Reason:      "fs_event",
				Path:        event.Name,
				RequestedAt: time.Now(),
			})

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}
			slog.Error("Layout watcher error", logfields.Error(err))
		}
	}
}

// Close closes the underlying filesystem watcher.
func (w *LayoutWatcher) Close() error {
	return w.watcher.Close()
}

func isLayoutFile(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".yaml")
}

func opLabel(op fsnotify.Op) string {
	switch {
	case op&fsnotify.Write != 0:
		return "write"
	case op&fsnotify.Create != 0:
		return "create"
	case op&fsnotify.Remove != 0:
		return "remove"
	case op&fsnotify.Rename != 0:
		return "rename"
	default:
		return "other"
	}
}
