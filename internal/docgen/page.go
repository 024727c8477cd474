// Package docgen assembles keyboard layout documentation pages from
// kbdgen bundles and writes them to their publishing locations.
package docgen

import (
	"fmt"
	"strings"

	"github.com/giellalt/kbddocs/internal/embed"
	"github.com/giellalt/kbddocs/internal/kbdgen"
)

// Section is one documented platform or device: a heading paired with
// exactly one embed reference.
type Section struct {
	Heading string
	Level   int // 2 for platforms, 3 for mobile devices
	Ref     embed.Reference
}

// Page is an assembled documentation page for one bundle.
type Page struct {
	Title    string // full H1 line, e.g. "# Keyboard layouts for ..."
	Sections []Section
}

// BuildPage assembles the page for a bundle: desktop sections first
// (macOS, windows, chromeOS; primary variant only), then mobile sections
// (android, iOS; one device sub-heading per variant), per layout file in
// filename order.
func BuildPage(bundle kbdgen.Bundle, layouts []*kbdgen.Layout) (*Page, error) {
	page := &Page{Title: pageTitle(bundle, layouts)}

	for _, layout := range layouts {
		displayName := layout.DisplayName(bundle.LangCode)
		region := kbdgen.RegionLabel(displayName)

		for _, platform := range embed.DesktopPlatforms {
			if !layout.HasPlatform(platform) {
				continue
			}
			heading := platform.DisplayName()
			if region != "" {
				heading = fmt.Sprintf("%s (%s)", heading, region)
			}
			page.Sections = append(page.Sections, Section{
				Heading: heading,
				Level:   2,
				Ref: embed.Reference{
					Kbd:      bundle.LangCode,
					Layout:   layout.Name,
					Platform: platform,
					Variant:  embed.PrimaryVariant,
				},
			})
		}

		for _, platform := range embed.MobilePlatforms {
			if !layout.HasPlatform(platform) {
				continue
			}
			variants := layout.Variants(platform)
			if len(variants) == 0 {
				continue
			}
			page.Sections = append(page.Sections, Section{
				Heading: platform.DisplayName(),
				Level:   2,
			})
			for _, variant := range variants {
				page.Sections = append(page.Sections, Section{
					Heading: embed.DeviceLabel(platform, variant),
					Level:   3,
					Ref: embed.Reference{
						Kbd:      bundle.LangCode,
						Layout:   layout.Name,
						Platform: platform,
						Variant:  variant,
					},
				})
			}
		}
	}

	return page, nil
}

// pageTitle builds the H1 title from the bundle's base layout display
// names. English and native names are both shown only when they differ.
func pageTitle(bundle kbdgen.Bundle, layouts []*kbdgen.Layout) string {
	english := strings.ToUpper(bundle.LangCode)
	native := bundle.LangCode

	for _, layout := range layouts {
		if layout.Name != bundle.LangCode {
			continue
		}
		if name, ok := layout.DisplayNames["en"]; ok && name != "" {
			english = name
		}
		if name, ok := layout.DisplayNames[bundle.LangCode]; ok && name != "" {
			native = name
		}
		break
	}

	if english == native {
		return fmt.Sprintf("# Keyboard layouts for %s", english)
	}
	return fmt.Sprintf("# Keyboard layouts for %s / %s", english, native)
}
