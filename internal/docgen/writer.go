package docgen

import (
	"bytes"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/inful/mdfp"

	"github.com/giellalt/kbddocs/internal/frontmatter"
	"github.com/giellalt/kbddocs/internal/logfields"
)

// PageFilename is the generated page's filename at every publishing target.
const PageFilename = "layout.md"

// ErrManuallyEdited indicates an existing page whose fingerprint no longer
// matches its content, i.e. someone edited it by hand after generation.
var ErrManuallyEdited = errors.New("page was manually edited since generation")

// WriteResult reports what a write pass did per target path.
type WriteResult struct {
	Written   []string // paths created or updated
	Unchanged []string // paths already holding the rendered content
}

// Writer places rendered pages at their publishing targets: docs/layout.md
// and, when mirroring is enabled, a root-level layout.md for GitHub Pages.
type Writer struct {
	DocsDir    string // directory for the docs copy, e.g. "docs"
	RootMirror bool   // also maintain the root-level mirror
	Force      bool   // overwrite pages that were manually edited
}

// Targets returns the page paths the writer maintains under siteRoot.
func (w *Writer) Targets(siteRoot string) []string {
	targets := []string{filepath.Join(siteRoot, w.DocsDir, PageFilename)}
	if w.RootMirror {
		targets = append(targets, filepath.Join(siteRoot, PageFilename))
	}
	return targets
}

// Write renders nothing itself; it writes the already-rendered document to
// every target, skipping targets that already hold identical content and
// refusing to clobber hand-edited pages unless Force is set.
func (w *Writer) Write(siteRoot string, rendered []byte) (*WriteResult, error) {
	result := &WriteResult{}

	for _, target := range w.Targets(siteRoot) {
		existing, err := os.ReadFile(target) // #nosec G304 -- target derives from configuration
		switch {
		case err == nil:
			if bytes.Equal(existing, rendered) {
				result.Unchanged = append(result.Unchanged, target)
				continue
			}
			if !w.Force {
				if editErr := checkManualEdit(target, existing); editErr != nil {
					return result, editErr
				}
			}
		case !os.IsNotExist(err):
			return result, fmt.Errorf("read existing page: %w", err)
		}

		if err := os.MkdirAll(filepath.Dir(target), 0o750); err != nil {
			return result, fmt.Errorf("create page directory: %w", err)
		}
		if err := os.WriteFile(target, rendered, 0o644); err != nil { // #nosec G306 -- published documentation
			return result, fmt.Errorf("write page: %w", err)
		}
		result.Written = append(result.Written, target)
		slog.Debug("Wrote documentation page", logfields.Page(target))
	}

	return result, nil
}

// checkManualEdit returns ErrManuallyEdited when the existing page carries
// a fingerprint that no longer matches its content. Pages without a
// fingerprint (hand-written or produced by an older generator) are
// overwritten silently; there is nothing reliable to protect.
func checkManualEdit(path string, existing []byte) error {
	fm, body, had, _, err := frontmatter.Split(existing)
	if err != nil || !had {
		return nil
	}

	fields, err := frontmatter.ParseYAML(fm)
	if err != nil {
		return nil
	}

	recorded, ok := fields[mdfp.FingerprintField].(string)
	if !ok || strings.TrimSpace(recorded) == "" {
		return nil
	}

	expected, err := ComputeFingerprint(fields, body)
	if err != nil {
		return nil
	}
	if expected != recorded {
		return fmt.Errorf("%s: %w (use --force to overwrite)", path, ErrManuallyEdited)
	}
	return nil
}
