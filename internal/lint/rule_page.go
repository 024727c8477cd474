package lint

import (
	"fmt"
	"os"
	"strings"

	"github.com/inful/mdfp"

	"github.com/giellalt/kbddocs/internal/docgen"
)

// FrontmatterRule verifies that a layout page declares the front-matter
// the publishing site generator expects (`layout: default`).
type FrontmatterRule struct{}

const frontmatterRuleName = "front-matter"

func (r *FrontmatterRule) Name() string { return frontmatterRuleName }

func (r *FrontmatterRule) AppliesTo(filePath string) bool { return IsLayoutPage(filePath) }

func (r *FrontmatterRule) Check(filePath string) ([]Issue, error) {
	scan, err := scanFile(filePath)
	if err != nil {
		return nil, err
	}

	if scan.FrontmatterErr != nil {
		return []Issue{{
			FilePath:    filePath,
			Severity:    SeverityWarning,
			Rule:        r.Name(),
			Message:     fmt.Sprintf("invalid front-matter: %v", scan.FrontmatterErr),
			Explanation: "The site generator reads front-matter to pick the page layout.",
			Fix:         "Run: kbddocs generate",
		}}, nil
	}

	if !scan.HadFrontmatter {
		return []Issue{{
			FilePath:    filePath,
			Severity:    SeverityWarning,
			Rule:        r.Name(),
			Message:     "page has no front-matter",
			Explanation: "Generated pages declare `layout: default` so the site generator styles them.",
			Fix:         "Run: kbddocs generate",
		}}, nil
	}

	if layout, _ := scan.FrontmatterFields["layout"].(string); layout != docgen.FrontmatterLayout {
		return []Issue{{
			FilePath:    filePath,
			Severity:    SeverityWarning,
			Rule:        r.Name(),
			Message:     fmt.Sprintf("front-matter layout is %q, expected %q", layout, docgen.FrontmatterLayout),
			Explanation: "Generated pages declare `layout: default` so the site generator styles them.",
			Fix:         "Run: kbddocs generate",
		}}, nil
	}

	return nil, nil
}

// FingerprintRule verifies that the page's front-matter fingerprint
// matches its content. A mismatch means the page was hand-edited after
// generation (or generated by an older tool) and will be lost on the next
// regeneration.
type FingerprintRule struct{}

const fingerprintRuleName = "fingerprint"

func (r *FingerprintRule) Name() string { return fingerprintRuleName }

func (r *FingerprintRule) AppliesTo(filePath string) bool { return IsLayoutPage(filePath) }

func (r *FingerprintRule) Check(filePath string) ([]Issue, error) {
	scan, err := scanFile(filePath)
	if err != nil {
		return nil, err
	}

	if !scan.HadFrontmatter || scan.FrontmatterFields == nil {
		// FrontmatterRule already reports the missing front-matter.
		return nil, nil
	}

	recorded, ok := scan.FrontmatterFields[mdfp.FingerprintField].(string)
	if !ok || strings.TrimSpace(recorded) == "" {
		return []Issue{{
			FilePath:    filePath,
			Severity:    SeverityWarning,
			Rule:        r.Name(),
			Message:     "page carries no content fingerprint",
			Explanation: "Fingerprints let the generator detect manual edits before overwriting a page.",
			Fix:         "Run: kbddocs generate --force",
		}}, nil
	}

	expected, err := docgen.ComputeFingerprint(scan.FrontmatterFields, scan.Body)
	if err != nil {
		return nil, fmt.Errorf("compute fingerprint: %w", err)
	}
	if expected == recorded {
		return nil, nil
	}

	return []Issue{{
		FilePath:    filePath,
		Severity:    SeverityWarning,
		Rule:        r.Name(),
		Message:     "page content no longer matches its fingerprint",
		Explanation: "The page was edited after generation; the next regeneration would discard those edits.",
		Fix:         "Move manual content elsewhere, then run: kbddocs generate --force",
	}}, nil
}

func scanFile(filePath string) (*PageScan, error) {
	data, err := os.ReadFile(filePath) // #nosec G304 -- filePath comes from the lint walk
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}
	return ScanPage(data)
}
