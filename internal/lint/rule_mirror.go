package lint

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// MirrorRule verifies that the docs copy and the root-level copy of the
// layout page stay identical. The two files are intentional mirrors for
// different publishing targets; drift means one audience sees stale docs.
type MirrorRule struct {
	// DocsDir is the configured docs directory; empty means "docs".
	DocsDir string
}

const mirrorRuleName = "mirror-consistency"

func (r *MirrorRule) Name() string { return mirrorRuleName }

func (r *MirrorRule) docsDir() string {
	if r.DocsDir == "" {
		return "docs"
	}
	return filepath.Clean(r.DocsDir)
}

// AppliesTo matches only the docs copy so each mirror pair is checked once.
func (r *MirrorRule) AppliesTo(filePath string) bool {
	if !IsLayoutPage(filePath) {
		return false
	}
	return filepath.Base(filepath.Dir(filePath)) == filepath.Base(r.docsDir())
}

func (r *MirrorRule) Check(filePath string) ([]Issue, error) {
	// The mirror lives next to the whole docs dir, which may be nested.
	dir := filepath.Dir(filePath)
	rootDir := filepath.Dir(dir)
	if suffix := string(filepath.Separator) + r.docsDir(); strings.HasSuffix(dir, suffix) {
		rootDir = dir[:len(dir)-len(suffix)]
	}
	rootCopy := filepath.Join(rootDir, filepath.Base(filePath))

	rootData, err := os.ReadFile(rootCopy) // #nosec G304 -- derived from the lint walk
	if os.IsNotExist(err) {
		// No mirror maintained for this site; nothing to compare.
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read root mirror: %w", err)
	}

	docsData, err := os.ReadFile(filePath) // #nosec G304 -- filePath comes from the lint walk
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}

	if bytes.Equal(docsData, rootData) {
		return nil, nil
	}

	return []Issue{{
		FilePath:    filePath,
		Severity:    SeverityError,
		Rule:        r.Name(),
		Message:     fmt.Sprintf("docs copy differs from root mirror %s", rootCopy),
		Explanation: "Both copies publish the same page to different targets and must stay identical.",
		Fix:         "Run: kbddocs generate (rewrites both copies)",
	}}, nil
}
