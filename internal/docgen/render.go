package docgen

import (
	"fmt"
	"strings"

	"github.com/inful/mdfp"

	"github.com/giellalt/kbddocs/internal/frontmatter"
)

// FrontmatterLayout is the front-matter layout value consumed by the
// publishing site generator.
const FrontmatterLayout = "default"

// Render produces the full Markdown document: front-matter carrying
// `layout: default` and a content fingerprint, then the title and the
// embed sections.
func Render(page *Page, baseURL string) ([]byte, error) {
	body, err := renderBody(page, baseURL)
	if err != nil {
		return nil, err
	}

	fields := map[string]any{"layout": FrontmatterLayout}
	fp, err := ComputeFingerprint(fields, body)
	if err != nil {
		return nil, fmt.Errorf("compute page fingerprint: %w", err)
	}
	fields[mdfp.FingerprintField] = fp

	fm, err := frontmatter.SerializeYAML(fields, frontmatter.Style{Newline: "\n"})
	if err != nil {
		return nil, fmt.Errorf("serialize frontmatter: %w", err)
	}

	return frontmatter.Join(fm, body, true, frontmatter.Style{Newline: "\n"}), nil
}

// renderBody emits the Markdown body. Desktop sections and mobile device
// sections each pair one heading with one iframe; mobile platforms add a
// grouping H2 above their device sections.
func renderBody(page *Page, baseURL string) ([]byte, error) {
	var blocks []string
	var group *strings.Builder

	flushGroup := func() {
		if group != nil {
			group.WriteString("\n")
			blocks = append(blocks, group.String())
			group = nil
		}
	}

	for _, section := range page.Sections {
		if section.Level == 2 && section.Ref.Kbd == "" {
			// Mobile grouping heading; devices follow at level 3.
			flushGroup()
			group = &strings.Builder{}
			fmt.Fprintf(group, "## %s", section.Heading)
			continue
		}

		iframe, err := section.Ref.Iframe(baseURL)
		if err != nil {
			return nil, err
		}

		if section.Level == 3 {
			if group == nil {
				group = &strings.Builder{}
			}
			fmt.Fprintf(group, "\n\n### %s\n\n%s", section.Heading, iframe)
			continue
		}

		flushGroup()
		blocks = append(blocks, fmt.Sprintf("## %s\n\n%s\n", section.Heading, iframe))
	}
	flushGroup()

	var out strings.Builder
	out.WriteString("\n")
	out.WriteString(page.Title)
	out.WriteString("\n\n")
	out.WriteString(strings.Join(blocks, "\n"))
	return []byte(out.String()), nil
}

// ComputeFingerprint computes the canonical content fingerprint for a
// page: fields minus the fingerprint itself, serialized with sorted keys
// and LF newlines, a single trailing newline trimmed, hashed together
// with the body by mdfp.
func ComputeFingerprint(fields map[string]any, body []byte) (string, error) {
	forHash := make(map[string]any, len(fields))
	for k, v := range fields {
		if k == mdfp.FingerprintField {
			continue
		}
		forHash[k] = v
	}

	serialized := ""
	if len(forHash) > 0 {
		raw, err := frontmatter.SerializeYAML(forHash, frontmatter.Style{Newline: "\n"})
		if err != nil {
			return "", err
		}
		serialized = strings.TrimSuffix(string(raw), "\n")
	}

	return mdfp.CalculateFingerprintFromParts(serialized, string(body)), nil
}
