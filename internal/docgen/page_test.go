package docgen

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/giellalt/kbddocs/internal/embed"
	"github.com/giellalt/kbddocs/internal/kbdgen"
)

func testLayout(t *testing.T, name, content string) *kbdgen.Layout {
	t.Helper()
	path := filepath.Join(t.TempDir(), name+".yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	layout, err := kbdgen.LoadLayout(path)
	require.NoError(t, err)
	return layout
}

func TestBuildPage(t *testing.T) {
	bundle := kbdgen.Bundle{Path: "sma.kbdgen", LangCode: "sma"}

	t.Run("desktop sections with region suffix", func(t *testing.T) {
		layout := testLayout(t, "sma-NO", `
displayNames:
  sma-NO: Åarjelsaemien gïele (Nöörje)
macOS:
  primary: {layers: {}}
windows:
  primary: {layers: {}}
`)
		page, err := BuildPage(bundle, []*kbdgen.Layout{layout})
		require.NoError(t, err)
		require.Len(t, page.Sections, 2)

		require.Equal(t, "Mac (Nöörje)", page.Sections[0].Heading)
		require.Equal(t, 2, page.Sections[0].Level)
		require.Equal(t, embed.Reference{
			Kbd: "sma", Layout: "sma-NO", Platform: embed.PlatformMacOS, Variant: "primary",
		}, page.Sections[0].Ref)

		require.Equal(t, "Windows (Nöörje)", page.Sections[1].Heading)
	})

	t.Run("no region suffix without parenthesized name", func(t *testing.T) {
		layout := testLayout(t, "sma", `
displayNames:
  sma: Åarjelsaemien gïele
macOS:
  primary: {layers: {}}
`)
		page, err := BuildPage(bundle, []*kbdgen.Layout{layout})
		require.NoError(t, err)
		require.Len(t, page.Sections, 1)
		require.Equal(t, "Mac", page.Sections[0].Heading)
	})

	t.Run("mobile grouping with device sections", func(t *testing.T) {
		layout := testLayout(t, "sma", `
displayNames:
  sma: Åarjelsaemien gïele
iOS:
  config:
    spellerPath: x
  primary: {layers: {}}
  iPad-9in: {layers: {}}
`)
		page, err := BuildPage(bundle, []*kbdgen.Layout{layout})
		require.NoError(t, err)
		require.Len(t, page.Sections, 3)

		group := page.Sections[0]
		require.Equal(t, "iOS/iPadOS", group.Heading)
		require.Equal(t, 2, group.Level)
		require.Empty(t, group.Ref.Kbd, "grouping heading carries no embed")

		require.Equal(t, "iPhone", page.Sections[1].Heading)
		require.Equal(t, 3, page.Sections[1].Level)
		require.Equal(t, "primary", page.Sections[1].Ref.Variant)

		require.Equal(t, `9" iPad`, page.Sections[2].Heading)
		require.Equal(t, "iPad-9in", page.Sections[2].Ref.Variant)
	})

	t.Run("mobile platform with only config yields no sections", func(t *testing.T) {
		layout := testLayout(t, "sma", `
android:
  config:
    x: y
`)
		page, err := BuildPage(bundle, []*kbdgen.Layout{layout})
		require.NoError(t, err)
		require.Empty(t, page.Sections)
	})

	t.Run("layout order preserved", func(t *testing.T) {
		first := testLayout(t, "sma-NO", "macOS:\n  primary: {layers: {}}\n")
		second := testLayout(t, "sma-SE", "macOS:\n  primary: {layers: {}}\n")

		page, err := BuildPage(bundle, []*kbdgen.Layout{first, second})
		require.NoError(t, err)
		require.Len(t, page.Sections, 2)
		require.Equal(t, "sma-NO", page.Sections[0].Ref.Layout)
		require.Equal(t, "sma-SE", page.Sections[1].Ref.Layout)
	})
}

func TestPageTitle(t *testing.T) {
	bundle := kbdgen.Bundle{Path: "sma.kbdgen", LangCode: "sma"}

	t.Run("english and native differ", func(t *testing.T) {
		base := testLayout(t, "sma", `
displayNames:
  en: South Sami
  sma: Åarjelsaemien gïele
`)
		page, err := BuildPage(bundle, []*kbdgen.Layout{base})
		require.NoError(t, err)
		require.Equal(t, "# Keyboard layouts for South Sami / Åarjelsaemien gïele", page.Title)
	})

	t.Run("identical names collapse", func(t *testing.T) {
		base := testLayout(t, "sma", `
displayNames:
  en: South Sami
  sma: South Sami
`)
		page, err := BuildPage(bundle, []*kbdgen.Layout{base})
		require.NoError(t, err)
		require.Equal(t, "# Keyboard layouts for South Sami", page.Title)
	})

	t.Run("no base layout falls back to language code", func(t *testing.T) {
		layout := testLayout(t, "sma-NO", "macOS:\n  primary: {layers: {}}\n")
		page, err := BuildPage(bundle, []*kbdgen.Layout{layout})
		require.NoError(t, err)
		require.Equal(t, "# Keyboard layouts for SMA / sma", page.Title)
	})
}
