// Package embed builds references to the keyboard.giellalt.org layout
// visualization service.
//
// A reference identifies one rendered keyboard image: language bundle,
// layout, platform and variant. The service consumes them as query
// parameters on a fixed embed endpoint.
package embed

import (
	"fmt"
	"net/url"
)

// DefaultBaseURL is the production embed endpoint of the keyboard
// visualization service.
const DefaultBaseURL = "https://keyboard.giellalt.org/embed"

// Platform identifies a target platform section in a layout file.
type Platform string

const (
	PlatformMacOS    Platform = "macOS"
	PlatformWindows  Platform = "windows"
	PlatformChromeOS Platform = "chromeOS"
	PlatformAndroid  Platform = "android"
	PlatformIOS      Platform = "iOS"
)

// DesktopPlatforms lists desktop platforms in documentation order.
// Desktop sections document only the primary variant.
var DesktopPlatforms = []Platform{PlatformMacOS, PlatformWindows, PlatformChromeOS}

// MobilePlatforms lists mobile platforms in documentation order.
var MobilePlatforms = []Platform{PlatformAndroid, PlatformIOS}

// PrimaryVariant is the variant name used for desktop sections and the
// default mobile form factor.
const PrimaryVariant = "primary"

var platformNames = map[Platform]string{
	PlatformMacOS:    "Mac",
	PlatformWindows:  "Windows",
	PlatformChromeOS: "ChromeOS",
	PlatformAndroid:  "Android",
	PlatformIOS:      "iOS/iPadOS",
}

var deviceLabels = map[string]string{
	"primary":    "Phone",
	"tablet-600": "Tablet",
	"iPad-9in":   `9" iPad`,
	"iPad-12in":  `12" iPad`,
}

// DisplayName returns the human-readable platform name used in section
// headings. Unknown platforms fall back to their raw identifier.
func (p Platform) DisplayName() string {
	if name, ok := platformNames[p]; ok {
		return name
	}
	return string(p)
}

// IsMobile reports whether the platform documents per-device variants.
func (p Platform) IsMobile() bool {
	return p == PlatformAndroid || p == PlatformIOS
}

// DeviceLabel returns the heading label for a mobile variant. The iOS
// primary variant is labelled iPhone rather than Phone; unknown variants
// keep their key.
func DeviceLabel(p Platform, variant string) string {
	if p == PlatformIOS && variant == PrimaryVariant {
		return "iPhone"
	}
	if label, ok := deviceLabels[variant]; ok {
		return label
	}
	return variant
}

// Reference identifies one keyboard rendering at the embed service.
type Reference struct {
	Kbd      string   // language code of the bundle
	Layout   string   // layout name, e.g. "sma-NO"
	Platform Platform // target platform
	Variant  string   // variant within the platform section
}

// URL renders the embed URL with kbd/layout/platform/variant query
// parameters against the given base. An empty base uses DefaultBaseURL.
func (r Reference) URL(base string) (string, error) {
	if base == "" {
		base = DefaultBaseURL
	}
	u, err := url.Parse(base)
	if err != nil {
		return "", fmt.Errorf("parse embed base URL: %w", err)
	}
	q := u.Query()
	q.Set("kbd", r.Kbd)
	q.Set("layout", r.Layout)
	q.Set("platform", string(r.Platform))
	q.Set("variant", r.Variant)
	u.RawQuery = q.Encode()
	return u.String(), nil
}

// Iframe renders the reference as an HTML iframe embed.
func (r Reference) Iframe(base string) (string, error) {
	u, err := r.URL(base)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("<iframe src=%q></iframe>", u), nil
}
