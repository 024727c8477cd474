package commands

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/giellalt/kbddocs/internal/embed"
	"github.com/giellalt/kbddocs/internal/kbdgen"
)

// DiscoverCmd implements the 'discover' command.
type DiscoverCmd struct {
	Path string `arg:"" optional:"" help:"Directory to search for .kbdgen bundles (defaults to configured bundle_root)"`
}

// Run executes the discover command.
func (d *DiscoverCmd) Run(_ *Global, root *CLI) error {
	cfg, err := loadConfig(root.Config)
	if err != nil {
		return err
	}

	dir := d.Path
	if dir == "" {
		dir = cfg.BundleRoot
	}

	return discoverBundles(os.Stdout, dir)
}

func discoverBundles(w io.Writer, dir string) error {
	bundles, err := kbdgen.FindBundles(dir)
	if err != nil {
		return err
	}
	if len(bundles) == 0 {
		return fmt.Errorf("no %s directory found in %s", kbdgen.BundleSuffix, dir)
	}

	for _, bundle := range bundles {
		fmt.Fprintf(w, "%s (lang: %s)\n", bundle.Path, bundle.LangCode)

		layouts, loadErrs, err := bundle.LoadLayouts()
		if err != nil {
			return err
		}
		for _, loadErr := range loadErrs {
			fmt.Fprintf(w, "  ! %v\n", loadErr)
		}

		for _, layout := range layouts {
			fmt.Fprintf(w, "  %s: %s\n", layout.Name, layout.DisplayName(bundle.LangCode))
			if _, err := layout.Tag(); err != nil {
				fmt.Fprintf(w, "    ! %q is not a valid language tag\n", layout.Name)
			}

			var desktop []string
			for _, platform := range embed.DesktopPlatforms {
				if layout.HasPlatform(platform) {
					desktop = append(desktop, string(platform))
				}
			}
			if len(desktop) > 0 {
				fmt.Fprintf(w, "    desktop: %s\n", strings.Join(desktop, ", "))
			}

			for _, platform := range embed.MobilePlatforms {
				if !layout.HasPlatform(platform) {
					continue
				}
				variants := layout.Variants(platform)
				if len(variants) == 0 {
					continue
				}
				fmt.Fprintf(w, "    %s: %s\n", platform, strings.Join(variants, ", "))
			}
		}
	}

	return nil
}
