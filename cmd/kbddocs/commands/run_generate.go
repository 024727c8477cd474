package commands

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/inful/mdfp"

	"github.com/giellalt/kbddocs/internal/config"
	"github.com/giellalt/kbddocs/internal/docgen"
	"github.com/giellalt/kbddocs/internal/events"
	"github.com/giellalt/kbddocs/internal/frontmatter"
	"github.com/giellalt/kbddocs/internal/history"
	"github.com/giellalt/kbddocs/internal/kbdgen"
	"github.com/giellalt/kbddocs/internal/logfields"
)

// bundleReport describes the outcome of generating one bundle's page.
type bundleReport struct {
	Bundle      kbdgen.Bundle
	Layouts     int
	Fingerprint string
	Written     []string
	Unchanged   []string
}

// generateDocs generates the layout page for every bundle directly under
// root and writes it to the bundle's publishing targets.
func generateDocs(cfg *config.Config, root string, force bool) ([]bundleReport, error) {
	bundles, err := kbdgen.FindBundles(root)
	if err != nil {
		return nil, err
	}
	if len(bundles) == 0 {
		return nil, fmt.Errorf("no %s directory found in %s", kbdgen.BundleSuffix, root)
	}

	var reports []bundleReport
	for _, bundle := range bundles {
		report, err := generateBundle(cfg, root, bundle, force)
		if err != nil {
			return reports, fmt.Errorf("bundle %s: %w", bundle.LangCode, err)
		}
		reports = append(reports, *report)
	}

	return reports, nil
}

func generateBundle(cfg *config.Config, siteRoot string, bundle kbdgen.Bundle, force bool) (*bundleReport, error) {
	layouts, loadErrs, err := bundle.LoadLayouts()
	if err != nil {
		return nil, err
	}
	for _, loadErr := range loadErrs {
		slog.Warn("Skipping unreadable layout", logfields.Bundle(bundle.LangCode), logfields.Error(loadErr))
	}
	if len(layouts) == 0 {
		return nil, fmt.Errorf("no readable layouts in %s", bundle.LayoutsDir())
	}

	page, err := docgen.BuildPage(bundle, layouts)
	if err != nil {
		return nil, err
	}

	rendered, err := docgen.Render(page, cfg.Embed.BaseURL)
	if err != nil {
		return nil, err
	}

	writer := &docgen.Writer{
		DocsDir:    cfg.Output.DocsDir,
		RootMirror: cfg.Output.MirrorEnabled(),
		Force:      force,
	}
	result, err := writer.Write(siteRoot, rendered)
	if err != nil {
		return nil, err
	}

	for _, path := range result.Written {
		slog.Info("Wrote layout page", logfields.Bundle(bundle.LangCode), logfields.Page(path))
	}
	for _, path := range result.Unchanged {
		slog.Debug("Layout page unchanged", logfields.Bundle(bundle.LangCode), logfields.Page(path))
	}

	return &bundleReport{
		Bundle:      bundle,
		Layouts:     len(layouts),
		Fingerprint: renderedFingerprint(rendered),
		Written:     result.Written,
		Unchanged:   result.Unchanged,
	}, nil
}

// renderedFingerprint extracts the fingerprint a rendered page carries in
// its front matter.
func renderedFingerprint(rendered []byte) string {
	fm, _, had, _, err := frontmatter.Split(rendered)
	if err != nil || !had {
		return ""
	}
	fields, err := frontmatter.ParseYAML(fm)
	if err != nil {
		return ""
	}
	fp, _ := fields[mdfp.FingerprintField].(string)
	return fp
}

// recordRun appends a run to the history store. History failures are
// logged, never fatal: they must not break generation.
func recordRun(cfg *config.Config, run history.Run) {
	store, err := history.NewSQLiteStore(cfg.History.Path)
	if err != nil {
		slog.Warn("Run history unavailable", logfields.Path(cfg.History.Path), logfields.Error(err))
		return
	}
	defer func() {
		if err := store.Close(); err != nil {
			slog.Warn("Failed to close history store", logfields.Error(err))
		}
	}()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := store.Append(ctx, run); err != nil {
		slog.Warn("Failed to record run", logfields.RunID(run.ID), logfields.Error(err))
	}
}

// publishGenerated emits one page event per generated bundle when event
// publishing is enabled. Publishing failures are logged, never fatal.
func publishGenerated(cfg *config.Config, runID string, reports []bundleReport, forced bool) {
	if !cfg.Events.Enabled {
		return
	}

	publisher, err := events.NewPublisher(cfg.Events)
	if err != nil {
		slog.Warn("Event publishing unavailable", logfields.Error(err))
		return
	}
	defer func() { _ = publisher.Close() }()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	for _, report := range reports {
		if len(report.Written) == 0 {
			continue
		}
		event := events.PageGeneratedEvent{
			Bundle:      report.Bundle.Path,
			LangCode:    report.Bundle.LangCode,
			Page:        report.Written[0],
			Fingerprint: report.Fingerprint,
			Layouts:     report.Layouts,
			Forced:      forced,
			RunID:       runID,
		}
		if err := publisher.PublishPageGenerated(ctx, event); err != nil {
			slog.Warn("Failed to publish page event", logfields.Bundle(report.Bundle.LangCode), logfields.Error(err))
		}
	}
}

// runGeneration is the shared generate pass used by the generate and
// watch commands: generate, record history, publish events.
func runGeneration(cfg *config.Config, root string, force bool) (changed bool, err error) {
	runID := uuid.New().String()
	start := time.Now()

	reports, err := generateDocs(cfg, root, force)
	duration := time.Since(start)

	layouts := 0
	var langCodes []string
	type bundleDetail struct {
		Lang    string   `json:"lang"`
		Layouts int      `json:"layouts"`
		Written []string `json:"written,omitempty"`
	}
	var details []bundleDetail
	for _, report := range reports {
		layouts += report.Layouts
		langCodes = append(langCodes, report.Bundle.LangCode)
		details = append(details, bundleDetail{
			Lang:    report.Bundle.LangCode,
			Layouts: report.Layouts,
			Written: report.Written,
		})
		if len(report.Written) > 0 {
			changed = true
		}
	}
	payload, _ := json.Marshal(details)

	run := history.Run{
		ID:        runID,
		Kind:      history.RunGenerate,
		Bundle:    strings.Join(langCodes, ","),
		Layouts:   layouts,
		Duration:  duration,
		StartedAt: start,
		Payload:   payload,
	}
	if run.Bundle == "" {
		run.Bundle = root
	}
	if err != nil {
		run.Errors = 1
	}
	recordRun(cfg, run)

	if err != nil {
		if errors.Is(err, docgen.ErrManuallyEdited) {
			return changed, err
		}
		return changed, fmt.Errorf("generation failed: %w", err)
	}

	publishGenerated(cfg, runID, reports, force)
	return changed, nil
}
