package lint

import (
	"fmt"
	"net/url"
	"os"
)

// EmbedURLRule verifies that every iframe src on a layout page is a
// well-formed https URL pointing at the configured embed endpoint with
// the full kbd/layout/platform/variant parameter set.
type EmbedURLRule struct {
	// BaseURL is the expected embed endpoint. Empty skips the host/path
	// comparison and checks URL shape only.
	BaseURL string
}

const embedURLRuleName = "embed-url"

func (r *EmbedURLRule) Name() string { return embedURLRuleName }

func (r *EmbedURLRule) AppliesTo(filePath string) bool { return IsDocFile(filePath) }

var requiredEmbedParams = []string{"kbd", "layout", "platform", "variant"}

func (r *EmbedURLRule) Check(filePath string) ([]Issue, error) {
	data, err := os.ReadFile(filePath) // #nosec G304 -- filePath comes from the lint walk
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}

	scan, err := ScanPage(data)
	if err != nil {
		return nil, err
	}

	var expected *url.URL
	if r.BaseURL != "" {
		if expected, err = url.Parse(r.BaseURL); err != nil {
			return nil, fmt.Errorf("parse configured embed base URL: %w", err)
		}
	}

	var issues []Issue
	for _, item := range scan.Embeds() {
		if item.Src == "" {
			issues = append(issues, r.issue(filePath, item.Line, "iframe has no src attribute",
				"Every keyboard embed must reference the visualization service."))
			continue
		}

		u, parseErr := url.Parse(item.Src)
		if parseErr != nil {
			issues = append(issues, r.issue(filePath, item.Line,
				fmt.Sprintf("iframe src is not a valid URL: %v", parseErr),
				"The embed reference cannot be rendered by browsers."))
			continue
		}

		if u.Scheme != "https" {
			issues = append(issues, r.issue(filePath, item.Line,
				fmt.Sprintf("iframe src uses scheme %q, expected https", u.Scheme),
				"Embeds must load over https so pages served via https don't mix content."))
		}

		if expected != nil && (u.Host != expected.Host || u.Path != expected.Path) {
			issues = append(issues, r.issue(filePath, item.Line,
				fmt.Sprintf("iframe src points at %s%s, expected %s%s", u.Host, u.Path, expected.Host, expected.Path),
				"All keyboard embeds must use the configured embed endpoint."))
		}

		q := u.Query()
		for _, param := range requiredEmbedParams {
			if q.Get(param) == "" {
				issues = append(issues, r.issue(filePath, item.Line,
					fmt.Sprintf("iframe src is missing the %q query parameter", param),
					"The embed service needs kbd, layout, platform and variant to select a rendering."))
			}
		}
	}

	return issues, nil
}

func (r *EmbedURLRule) issue(filePath string, line int, message, explanation string) Issue {
	return Issue{
		FilePath:    filePath,
		Severity:    SeverityError,
		Rule:        r.Name(),
		Message:     message,
		Explanation: explanation,
		Fix:         "Run: kbddocs generate (regenerates embed references from the bundle)",
		Line:        line,
	}
}
