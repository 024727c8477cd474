package kbdgen

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/giellalt/kbddocs/internal/embed"
)

func loadTestLayout(t *testing.T, name, content string) *Layout {
	t.Helper()
	path := filepath.Join(t.TempDir(), name+".yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	layout, err := LoadLayout(path)
	require.NoError(t, err)
	return layout
}

func TestHasPlatform(t *testing.T) {
	layout := loadTestLayout(t, "sma-NO", `
displayNames:
  en: South Sami (Norway)
macOS:
  primary:
    layers: {}
windows: null
android: {}
`)

	require.True(t, layout.HasPlatform(embed.PlatformMacOS))
	require.False(t, layout.HasPlatform(embed.PlatformWindows), "explicit null section")
	require.False(t, layout.HasPlatform(embed.PlatformAndroid), "empty mapping")
	require.False(t, layout.HasPlatform(embed.PlatformChromeOS), "absent section")
	require.False(t, layout.HasPlatform(embed.PlatformIOS))
}

func TestVariants(t *testing.T) {
	t.Run("source order preserved", func(t *testing.T) {
		layout := loadTestLayout(t, "sme", `
iOS:
  config:
    spellerPath: x
  primary:
    layers: {}
  iPad-9in:
    layers: {}
  iPad-12in:
    layers: {}
`)
		require.Equal(t, []string{"primary", "iPad-9in", "iPad-12in"}, layout.Variants(embed.PlatformIOS))
	})

	t.Run("config key excluded", func(t *testing.T) {
		layout := loadTestLayout(t, "sme", `
android:
  config:
    x: y
`)
		require.Empty(t, layout.Variants(embed.PlatformAndroid))
	})

	t.Run("absent platform", func(t *testing.T) {
		layout := loadTestLayout(t, "sme", "displayNames:\n  en: X\n")
		require.Nil(t, layout.Variants(embed.PlatformAndroid))
	})
}

func TestDisplayName(t *testing.T) {
	t.Run("layout name key wins", func(t *testing.T) {
		layout := loadTestLayout(t, "sma-NO", `
displayNames:
  sma-NO: Åarjelsaemien gïele (Nöörje)
  sma: Åarjelsaemien gïele
  en: South Sami (Norway)
`)
		require.Equal(t, "Åarjelsaemien gïele (Nöörje)", layout.DisplayName("sma"))
	})

	t.Run("falls back to lang code", func(t *testing.T) {
		layout := loadTestLayout(t, "sma-NO", `
displayNames:
  sma: Åarjelsaemien gïele
  en: South Sami
`)
		require.Equal(t, "Åarjelsaemien gïele", layout.DisplayName("sma"))
	})

	t.Run("falls back to english", func(t *testing.T) {
		layout := loadTestLayout(t, "sma-NO", `
displayNames:
  en: South Sami (Norway)
`)
		require.Equal(t, "South Sami (Norway)", layout.DisplayName("sma"))
	})

	t.Run("falls back to raw name", func(t *testing.T) {
		layout := loadTestLayout(t, "sma-NO", "macOS:\n  primary: {}\n")
		require.Equal(t, "sma-NO", layout.DisplayName("sma"))
	})
}

func TestTag(t *testing.T) {
	layout := loadTestLayout(t, "sma-NO", "displayNames:\n  en: X\n")
	tag, err := layout.Tag()
	require.NoError(t, err)
	require.Equal(t, "sma-NO", tag.String())

	bad := loadTestLayout(t, "not a tag", "displayNames:\n  en: X\n")
	_, err = bad.Tag()
	require.Error(t, err)
}

func TestRegionLabel(t *testing.T) {
	require.Equal(t, "Nöörje", RegionLabel("Åarjelsaemien gïele (Nöörje)"))
	require.Equal(t, "", RegionLabel("Åarjelsaemien gïele"))
	require.Equal(t, "Sweden", RegionLabel("South Sami (Sweden) keyboard"))
}
