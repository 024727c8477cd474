package lint

import (
	"fmt"
	"os"
)

// SectionEmbedRule enforces the page's structural invariant: every
// section heading maps to exactly one embed, and no embed floats outside
// a section.
//
// Mobile platforms use a grouping heading (## Android) whose content is
// device sub-headings; a heading immediately followed by a deeper heading
// is a group and carries no embed of its own.
type SectionEmbedRule struct{}

const sectionEmbedRuleName = "section-embed"

func (r *SectionEmbedRule) Name() string { return sectionEmbedRuleName }

func (r *SectionEmbedRule) AppliesTo(filePath string) bool { return IsLayoutPage(filePath) }

func (r *SectionEmbedRule) Check(filePath string) ([]Issue, error) {
	data, err := os.ReadFile(filePath) // #nosec G304 -- filePath comes from the lint walk
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}

	scan, err := ScanPage(data)
	if err != nil {
		return nil, err
	}

	var issues []Issue

	// Count embeds per section: a section runs from its heading to the
	// next heading. The H1 title owns no embeds.
	type section struct {
		heading PageItem
		embeds  int
		grouped bool // a deeper heading follows directly
	}
	var sections []section
	current := -1

	for _, item := range scan.Items {
		switch item.Kind {
		case ItemHeading:
			if current >= 0 && item.Level > sections[current].heading.Level && sections[current].embeds == 0 {
				sections[current].grouped = true
			}
			sections = append(sections, section{heading: item})
			current = len(sections) - 1
		case ItemEmbed:
			if current < 0 {
				issues = append(issues, Issue{
					FilePath:    filePath,
					Severity:    SeverityError,
					Rule:        r.Name(),
					Message:     "embed appears before any section heading",
					Explanation: "Each iframe embed must belong to a platform or device section.",
					Fix:         "Run: kbddocs generate",
					Line:        item.Line,
				})
				continue
			}
			sections[current].embeds++
		}
	}

	for _, s := range sections {
		if s.heading.Level == 1 {
			// Page title owns no embeds.
			if s.embeds > 0 {
				issues = append(issues, r.countIssue(filePath, s.heading, s.embeds))
			}
			continue
		}
		if s.grouped {
			continue
		}
		if s.embeds != 1 {
			issues = append(issues, r.countIssue(filePath, s.heading, s.embeds))
		}
	}

	return issues, nil
}

func (r *SectionEmbedRule) countIssue(filePath string, heading PageItem, embeds int) Issue {
	message := fmt.Sprintf("section %q has %d embeds, expected exactly 1", heading.Text, embeds)
	if heading.Level == 1 {
		message = fmt.Sprintf("page title %q is followed by %d embeds outside any section", heading.Text, embeds)
	}
	return Issue{
		FilePath:    filePath,
		Severity:    SeverityError,
		Rule:        r.Name(),
		Message:     message,
		Explanation: "Every platform or device heading pairs with exactly one keyboard embed.",
		Fix:         "Run: kbddocs generate",
		Line:        heading.Line,
	}
}
