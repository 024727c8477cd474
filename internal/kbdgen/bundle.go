// Package kbdgen reads keyboard layout definitions from .kbdgen bundles.
//
// A bundle is a directory named <lang>.kbdgen containing layouts/*.yaml
// files, one per layout. The package exposes the subset of the kbdgen
// schema needed for documentation: display names and per-platform variant
// sections.
package kbdgen

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// BundleSuffix is the directory name suffix identifying a kbdgen bundle.
const BundleSuffix = ".kbdgen"

// Bundle is a discovered kbdgen bundle.
type Bundle struct {
	Path     string // absolute or root-relative path to the .kbdgen directory
	LangCode string // directory basename without the .kbdgen suffix
}

// LayoutsDir returns the path of the bundle's layouts directory.
func (b Bundle) LayoutsDir() string {
	return filepath.Join(b.Path, "layouts")
}

// FindBundle locates the first kbdgen bundle directly under root, in
// lexical order. It returns an error when root holds no bundle.
func FindBundle(root string) (Bundle, error) {
	bundles, err := FindBundles(root)
	if err != nil {
		return Bundle{}, err
	}
	if len(bundles) == 0 {
		return Bundle{}, fmt.Errorf("no %s directory found in %s", BundleSuffix, root)
	}
	return bundles[0], nil
}

// FindBundles lists all kbdgen bundles directly under root, sorted by name.
func FindBundles(root string) ([]Bundle, error) {
	entries, err := os.ReadDir(root)
	if err != nil {
		return nil, fmt.Errorf("read bundle root: %w", err)
	}

	var bundles []Bundle
	for _, entry := range entries {
		if !entry.IsDir() || !strings.HasSuffix(entry.Name(), BundleSuffix) {
			continue
		}
		bundles = append(bundles, Bundle{
			Path:     filepath.Join(root, entry.Name()),
			LangCode: strings.TrimSuffix(entry.Name(), BundleSuffix),
		})
	}

	sort.Slice(bundles, func(i, j int) bool { return bundles[i].Path < bundles[j].Path })
	return bundles, nil
}

// LayoutFiles lists the bundle's layout YAML files sorted by filename.
func (b Bundle) LayoutFiles() ([]string, error) {
	pattern := filepath.Join(b.LayoutsDir(), "*.yaml")
	files, err := filepath.Glob(pattern)
	if err != nil {
		return nil, fmt.Errorf("glob layout files: %w", err)
	}
	if len(files) == 0 {
		if _, statErr := os.Stat(b.LayoutsDir()); statErr != nil {
			return nil, fmt.Errorf("layouts directory not found: %s", b.LayoutsDir())
		}
	}
	sort.Strings(files)
	return files, nil
}

// LoadLayouts loads every layout in the bundle, sorted by filename.
// Layouts that fail to parse are skipped with their error collected into
// the returned error slice so one broken file does not hide the rest.
func (b Bundle) LoadLayouts() ([]*Layout, []error, error) {
	files, err := b.LayoutFiles()
	if err != nil {
		return nil, nil, err
	}

	var layouts []*Layout
	var loadErrs []error
	for _, file := range files {
		layout, err := LoadLayout(file)
		if err != nil {
			loadErrs = append(loadErrs, fmt.Errorf("%s: %w", filepath.Base(file), err))
			continue
		}
		layouts = append(layouts, layout)
	}
	return layouts, loadErrs, nil
}

// BaseLayout returns the bundle's base layout (layouts/<lang>.yaml), or
// nil when the bundle has none.
func (b Bundle) BaseLayout() (*Layout, error) {
	path := filepath.Join(b.LayoutsDir(), b.LangCode+".yaml")
	if _, err := os.Stat(path); err != nil {
		return nil, nil
	}
	return LoadLayout(path)
}
