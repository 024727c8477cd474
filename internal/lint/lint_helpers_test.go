package lint

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/inful/mdfp"
	"github.com/stretchr/testify/require"

	"github.com/giellalt/kbddocs/internal/docgen"
	"github.com/giellalt/kbddocs/internal/frontmatter"
)

const validEmbed = `<iframe src="https://keyboard.giellalt.org/embed?kbd=sma&layout=sma-NO&platform=macOS&variant=primary"></iframe>`

// validPageBody is a structurally correct page body: one H1 title, one
// platform section with exactly one embed.
const validPageBody = "\n# Keyboard layouts for Test\n\n## Mac (Nöörje)\n\n" + validEmbed + "\n"

// buildPage assembles a page document the way the generator does: the
// given front-matter fields plus a correct content fingerprint.
func buildPage(t *testing.T, fields map[string]any, body string) []byte {
	t.Helper()
	if fields == nil {
		fields = map[string]any{"layout": docgen.FrontmatterLayout}
	}
	fp, err := docgen.ComputeFingerprint(fields, []byte(body))
	require.NoError(t, err)
	fields[mdfp.FingerprintField] = fp

	fm, err := frontmatter.SerializeYAML(fields, frontmatter.Style{Newline: "\n"})
	require.NoError(t, err)
	return frontmatter.Join(fm, []byte(body), true, frontmatter.Style{Newline: "\n"})
}

// writeLayoutPage writes content as dir/layout.md and returns its path.
func writeLayoutPage(t *testing.T, dir string, content []byte) string {
	t.Helper()
	require.NoError(t, os.MkdirAll(dir, 0o750))
	path := filepath.Join(dir, "layout.md")
	require.NoError(t, os.WriteFile(path, content, 0o644))
	return path
}
