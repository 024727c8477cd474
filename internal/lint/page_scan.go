package lint

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/yuin/goldmark"
	gmast "github.com/yuin/goldmark/ast"
	gmtext "github.com/yuin/goldmark/text"
	"golang.org/x/net/html"

	"github.com/giellalt/kbddocs/internal/frontmatter"
)

// ItemKind distinguishes scanned page items.
type ItemKind int

const (
	ItemHeading ItemKind = iota
	ItemEmbed
)

// PageItem is one heading or iframe embed, in document order.
type PageItem struct {
	Kind    ItemKind
	Text    string // heading text
	Level   int    // heading level
	Src     string // iframe src attribute
	Line    int    // 1-based line in the original file
	RawHTML string // raw html chunk the embed came from
}

// PageScan is the structural view of a layout page used by lint rules.
type PageScan struct {
	HadFrontmatter    bool
	FrontmatterFields map[string]any
	FrontmatterErr    error
	Body              []byte
	Items             []PageItem
}

// Headings returns the scanned headings in order.
func (p *PageScan) Headings() []PageItem {
	return p.itemsOfKind(ItemHeading)
}

// Embeds returns the scanned iframe embeds in order.
func (p *PageScan) Embeds() []PageItem {
	return p.itemsOfKind(ItemEmbed)
}

func (p *PageScan) itemsOfKind(kind ItemKind) []PageItem {
	var out []PageItem
	for _, item := range p.Items {
		if item.Kind == kind {
			out = append(out, item)
		}
	}
	return out
}

// ScanPage parses a page into headings and iframe embeds.
//
// Markdown structure comes from the Goldmark AST; iframe attributes are
// pulled out of the raw HTML chunks with the x/net/html tokenizer, which
// tolerates the fragment-level HTML that lives inside Markdown.
func ScanPage(data []byte) (*PageScan, error) {
	scan := &PageScan{}

	fm, body, had, _, err := frontmatter.Split(data)
	if err != nil {
		scan.FrontmatterErr = err
		body = data
	} else {
		scan.HadFrontmatter = had
		if had {
			fields, parseErr := frontmatter.ParseYAML(fm)
			if parseErr != nil {
				scan.FrontmatterErr = parseErr
			} else {
				scan.FrontmatterFields = fields
			}
		}
	}
	scan.Body = body

	bodyOffset := len(data) - len(body)
	lineAt := func(segStart int) int {
		return 1 + bytes.Count(data[:bodyOffset+segStart], []byte("\n"))
	}

	md := goldmark.New()
	root := md.Parser().Parse(gmtext.NewReader(body))

	walkErr := gmast.Walk(root, func(n gmast.Node, entering bool) (gmast.WalkStatus, error) {
		if !entering {
			return gmast.WalkContinue, nil
		}

		switch node := n.(type) {
		case *gmast.Heading:
			item := PageItem{Kind: ItemHeading, Level: node.Level, Text: headingText(node, body)}
			if lines := node.Lines(); lines.Len() > 0 {
				item.Line = lineAt(lines.At(0).Start)
			}
			scan.Items = append(scan.Items, item)

		case *gmast.HTMLBlock:
			raw, start := rawLines(node.Lines(), body)
			appendEmbeds(scan, raw, lineAt(start))

		case *gmast.RawHTML:
			raw, start := rawSegments(node, body)
			appendEmbeds(scan, raw, lineAt(start))
		}
		return gmast.WalkContinue, nil
	})
	if walkErr != nil {
		return nil, fmt.Errorf("walk markdown ast: %w", walkErr)
	}

	return scan, nil
}

func headingText(n *gmast.Heading, src []byte) string {
	var sb strings.Builder
	_ = gmast.Walk(n, func(c gmast.Node, entering bool) (gmast.WalkStatus, error) {
		if !entering {
			return gmast.WalkContinue, nil
		}
		if t, ok := c.(*gmast.Text); ok {
			sb.Write(t.Segment.Value(src))
		}
		return gmast.WalkContinue, nil
	})
	return strings.TrimSpace(sb.String())
}

func rawLines(lines *gmtext.Segments, src []byte) (string, int) {
	if lines.Len() == 0 {
		return "", 0
	}
	var sb strings.Builder
	for i := 0; i < lines.Len(); i++ {
		seg := lines.At(i)
		sb.Write(seg.Value(src))
	}
	return sb.String(), lines.At(0).Start
}

func rawSegments(n *gmast.RawHTML, src []byte) (string, int) {
	if n.Segments.Len() == 0 {
		return "", 0
	}
	var sb strings.Builder
	for i := 0; i < n.Segments.Len(); i++ {
		seg := n.Segments.At(i)
		sb.Write(seg.Value(src))
	}
	return sb.String(), n.Segments.At(0).Start
}

// appendEmbeds tokenizes an HTML chunk and records every iframe start tag.
func appendEmbeds(scan *PageScan, raw string, line int) {
	if !strings.Contains(strings.ToLower(raw), "<iframe") {
		return
	}

	tokenizer := html.NewTokenizer(strings.NewReader(raw))
	for {
		tt := tokenizer.Next()
		if tt == html.ErrorToken {
			return
		}
		if tt != html.StartTagToken && tt != html.SelfClosingTagToken {
			continue
		}

		token := tokenizer.Token()
		if token.Data != "iframe" {
			continue
		}

		item := PageItem{Kind: ItemEmbed, Line: line, RawHTML: raw}
		for _, attr := range token.Attr {
			if attr.Key == "src" {
				item.Src = attr.Val
			}
		}
		scan.Items = append(scan.Items, item)
	}
}
