package lint

import (
	"fmt"
	"net/url"
	"os"

	"golang.org/x/text/language"
)

// LayoutTagRule checks that the layout names referenced by a page's
// embeds parse as BCP 47 language tags (sma, sma-NO). A tag the embed
// service cannot resolve usually means a typo in the layout filename.
type LayoutTagRule struct{}

const layoutTagRuleName = "layout-tag"

func (r *LayoutTagRule) Name() string { return layoutTagRuleName }

func (r *LayoutTagRule) AppliesTo(filePath string) bool { return IsDocFile(filePath) }

func (r *LayoutTagRule) Check(filePath string) ([]Issue, error) {
	data, err := os.ReadFile(filePath) // #nosec G304 -- filePath comes from the lint walk
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}

	scan, err := ScanPage(data)
	if err != nil {
		return nil, err
	}

	var issues []Issue
	seen := map[string]bool{}
	for _, item := range scan.Embeds() {
		u, parseErr := url.Parse(item.Src)
		if parseErr != nil {
			continue // embed-url reports malformed URLs
		}
		tag := u.Query().Get("layout")
		if tag == "" || seen[tag] {
			continue
		}
		seen[tag] = true

		if _, tagErr := language.Parse(tag); tagErr != nil {
			issues = append(issues, Issue{
				FilePath:    filePath,
				Severity:    SeverityWarning,
				Rule:        r.Name(),
				Message:     fmt.Sprintf("layout %q is not a valid BCP 47 tag: %v", tag, tagErr),
				Explanation: "Layout names follow BCP 47 (language, optional region) so platform bundles resolve them.",
				Fix:         "Rename the layout file in the .kbdgen bundle and regenerate",
				Line:        item.Line,
			})
		}
	}

	return issues, nil
}
