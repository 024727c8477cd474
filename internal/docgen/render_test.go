package docgen

import (
	"testing"

	"github.com/inful/mdfp"
	"github.com/stretchr/testify/require"

	"github.com/giellalt/kbddocs/internal/frontmatter"
	"github.com/giellalt/kbddocs/internal/kbdgen"
)

func TestRender(t *testing.T) {
	bundle := kbdgen.Bundle{Path: "sma.kbdgen", LangCode: "sma"}
	layout := testLayout(t, "sma-NO", `
displayNames:
  sma-NO: Åarjelsaemien gïele (Nöörje)
macOS:
  primary: {layers: {}}
iOS:
  primary: {layers: {}}
  iPad-9in: {layers: {}}
`)
	page, err := BuildPage(bundle, []*kbdgen.Layout{layout})
	require.NoError(t, err)

	rendered, err := Render(page, "")
	require.NoError(t, err)

	fm, body, had, _, err := frontmatter.Split(rendered)
	require.NoError(t, err)
	require.True(t, had)

	t.Run("body shape", func(t *testing.T) {
		expected := "\n# Keyboard layouts for SMA / sma\n\n" +
			"## Mac (Nöörje)\n\n" +
			`<iframe src="https://keyboard.giellalt.org/embed?kbd=sma&layout=sma-NO&platform=macOS&variant=primary"></iframe>` + "\n\n" +
			"## iOS/iPadOS\n\n" +
			"### iPhone\n\n" +
			`<iframe src="https://keyboard.giellalt.org/embed?kbd=sma&layout=sma-NO&platform=iOS&variant=primary"></iframe>` + "\n\n" +
			`### 9" iPad` + "\n\n" +
			`<iframe src="https://keyboard.giellalt.org/embed?kbd=sma&layout=sma-NO&platform=iOS&variant=iPad-9in"></iframe>` + "\n"
		require.Equal(t, expected, string(body))
	})

	t.Run("frontmatter carries layout and fingerprint", func(t *testing.T) {
		fields, err := frontmatter.ParseYAML(fm)
		require.NoError(t, err)
		require.Equal(t, FrontmatterLayout, fields["layout"])

		fp, ok := fields[mdfp.FingerprintField].(string)
		require.True(t, ok)
		require.NotEmpty(t, fp)

		expected, err := ComputeFingerprint(fields, body)
		require.NoError(t, err)
		require.Equal(t, expected, fp)
	})

	t.Run("deterministic", func(t *testing.T) {
		again, err := Render(page, "")
		require.NoError(t, err)
		require.Equal(t, rendered, again)
	})
}

func TestRenderCustomBase(t *testing.T) {
	bundle := kbdgen.Bundle{Path: "sme.kbdgen", LangCode: "sme"}
	layout := testLayout(t, "sme", "windows:\n  primary: {layers: {}}\n")
	page, err := BuildPage(bundle, []*kbdgen.Layout{layout})
	require.NoError(t, err)

	rendered, err := Render(page, "http://localhost:8080/embed")
	require.NoError(t, err)
	require.Contains(t, string(rendered),
		`<iframe src="http://localhost:8080/embed?kbd=sme&layout=sme&platform=windows&variant=primary"></iframe>`)
}

func TestComputeFingerprint(t *testing.T) {
	body := []byte("\n# Title\n")

	t.Run("excludes the fingerprint field itself", func(t *testing.T) {
		without, err := ComputeFingerprint(map[string]any{"layout": "default"}, body)
		require.NoError(t, err)
		with, err := ComputeFingerprint(map[string]any{"layout": "default", mdfp.FingerprintField: "stale"}, body)
		require.NoError(t, err)
		require.Equal(t, without, with)
	})

	t.Run("sensitive to body changes", func(t *testing.T) {
		a, err := ComputeFingerprint(map[string]any{"layout": "default"}, body)
		require.NoError(t, err)
		b, err := ComputeFingerprint(map[string]any{"layout": "default"}, []byte("\n# Other\n"))
		require.NoError(t, err)
		require.NotEqual(t, a, b)
	})

	t.Run("sensitive to field changes", func(t *testing.T) {
		a, err := ComputeFingerprint(map[string]any{"layout": "default"}, body)
		require.NoError(t, err)
		b, err := ComputeFingerprint(map[string]any{"layout": "post"}, body)
		require.NoError(t, err)
		require.NotEqual(t, a, b)
	})
}
