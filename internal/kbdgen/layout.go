package kbdgen

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"

	"github.com/giellalt/kbddocs/internal/embed"
)

// Layout is one parsed layouts/*.yaml file.
//
// Platform sections are kept as yaml.Node values so variant ordering from
// the source file survives decoding; the documented section order follows
// the author's ordering, not map iteration.
type Layout struct {
	Name         string            // file basename without .yaml, e.g. "sma-NO"
	DisplayNames map[string]string `yaml:"displayNames"`

	MacOS    yaml.Node `yaml:"macOS"`
	Windows  yaml.Node `yaml:"windows"`
	ChromeOS yaml.Node `yaml:"chromeOS"`
	Android  yaml.Node `yaml:"android"`
	IOS      yaml.Node `yaml:"iOS"`
}

// LoadLayout reads and parses a single layout YAML file.
func LoadLayout(path string) (*Layout, error) {
	data, err := os.ReadFile(path) // #nosec G304 -- path comes from bundle discovery
	if err != nil {
		return nil, fmt.Errorf("read layout file: %w", err)
	}

	var layout Layout
	if err := yaml.Unmarshal(data, &layout); err != nil {
		return nil, fmt.Errorf("parse layout yaml: %w", err)
	}

	layout.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	return &layout, nil
}

func (l *Layout) platformNode(p embed.Platform) *yaml.Node {
	switch p {
	case embed.PlatformMacOS:
		return &l.MacOS
	case embed.PlatformWindows:
		return &l.Windows
	case embed.PlatformChromeOS:
		return &l.ChromeOS
	case embed.PlatformAndroid:
		return &l.Android
	case embed.PlatformIOS:
		return &l.IOS
	default:
		return nil
	}
}

// HasPlatform reports whether the layout defines a non-empty section for
// the platform.
func (l *Layout) HasPlatform(p embed.Platform) bool {
	node := l.platformNode(p)
	if node == nil || node.Kind == 0 {
		return false
	}
	if node.Kind == yaml.ScalarNode && node.Tag == "!!null" {
		return false
	}
	if node.Kind == yaml.MappingNode && len(node.Content) == 0 {
		return false
	}
	return true
}

// Variants returns the variant keys of a mobile platform section in source
// order, excluding the reserved "config" key. Desktop platforms and absent
// sections yield nil.
func (l *Layout) Variants(p embed.Platform) []string {
	node := l.platformNode(p)
	if node == nil || node.Kind != yaml.MappingNode {
		return nil
	}

	var variants []string
	for i := 0; i+1 < len(node.Content); i += 2 {
		key := node.Content[i].Value
		if key == "config" {
			continue
		}
		variants = append(variants, key)
	}
	return variants
}

// DisplayName resolves the layout's display name: the layout's own name
// key first, then the bundle language code, then English, then the raw
// layout name.
func (l *Layout) DisplayName(langCode string) string {
	for _, key := range []string{l.Name, langCode, "en"} {
		if name, ok := l.DisplayNames[key]; ok && name != "" {
			return name
		}
	}
	return l.Name
}

// Tag parses the layout name as a BCP 47 language tag. Layout names like
// sma-NO carry a region subtag; a parse failure is reported by lint, not
// treated as fatal here.
func (l *Layout) Tag() (language.Tag, error) {
	return language.Parse(l.Name)
}

var regionLabelRe = regexp.MustCompile(`\(([^)]+)\)`)

// RegionLabel extracts the parenthesized region from a display name,
// e.g. "Åarjelsaemien gïele (Nöörje)" yields "Nöörje". Empty when the
// display name carries no region.
func RegionLabel(displayName string) string {
	m := regionLabelRe.FindStringSubmatch(displayName)
	if m == nil {
		return ""
	}
	return m[1]
}
