package lint

import (
	"io/fs"
	"os"
	"path/filepath"
)

// Linter performs linting operations on layout documentation pages.
type Linter struct {
	cfg   *Config
	rules []Rule
}

// NewLinter creates a new linter with the given configuration.
func NewLinter(cfg *Config) *Linter {
	if cfg == nil {
		cfg = &Config{Format: "text"}
	}

	return &Linter{
		cfg: cfg,
		rules: []Rule{
			&EmbedURLRule{BaseURL: cfg.EmbedBaseURL},
			&SectionEmbedRule{},
			&MirrorRule{DocsDir: cfg.DocsDir},
			&FrontmatterRule{},
			&FingerprintRule{},
			&LayoutTagRule{},
		},
	}
}

// LintPath lints all documentation files in the given path (file or directory).
func (l *Linter) LintPath(path string) (*Result, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}

	result := &Result{Issues: []Issue{}}

	if info.IsDir() {
		err = l.lintDirectory(path, result)
	} else {
		err = l.lintFile(path, result)
		result.FilesTotal = 1
	}

	return result, err
}

// lintDirectory recursively lints all documentation files in a directory.
func (l *Linter) lintDirectory(dirPath string, result *Result) error {
	return filepath.WalkDir(dirPath, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		// Skip hidden directories and files (.git, .kbdgen internals are
		// not documentation).
		if d.Name()[0] == '.' && d.Name() != "." {
			if d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}

		if d.IsDir() {
			return nil
		}

		if !IsDocFile(path) {
			return nil
		}

		result.FilesTotal++
		return l.lintFile(path, result)
	})
}

// lintFile applies all applicable rules to a single file.
func (l *Linter) lintFile(filePath string, result *Result) error {
	for _, rule := range l.rules {
		if !rule.AppliesTo(filePath) {
			continue
		}

		issues, err := rule.Check(filePath)
		if err != nil {
			return err
		}

		for _, issue := range issues {
			if l.cfg.Quiet && issue.Severity != SeverityError {
				continue
			}
			result.Issues = append(result.Issues, issue)
		}
	}

	return nil
}

// DetectDefaultPath returns the conventional documentation location when
// no path is given: docs/ if present, otherwise the current directory.
func DetectDefaultPath() (string, bool) {
	if info, err := os.Stat("docs"); err == nil && info.IsDir() {
		return "docs", true
	}
	return ".", false
}
