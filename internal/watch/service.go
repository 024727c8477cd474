package watch

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/giellalt/kbddocs/internal/logfields"
	"github.com/giellalt/kbddocs/internal/metrics"
)

// RegenerateFunc performs one regeneration pass. It returns whether any
// page changed on disk.
type RegenerateFunc func(ctx context.Context) (changed bool, err error)

// LintFunc checks the generated pages after a regeneration and returns
// issue counts keyed by severity label ("error", "warning", "info").
type LintFunc func(ctx context.Context) (map[string]int, error)

// ServiceConfig configures a watch service.
type ServiceConfig struct {
	LayoutsDir  string
	QuietWindow time.Duration
	MaxDelay    time.Duration
	Interval    time.Duration // zero disables periodic regeneration
	Listen      string        // empty disables the health server
}

// Service ties the layout watcher, debouncer, scheduler and health
// server together around a regeneration callback.
type Service struct {
	cfg        ServiceConfig
	regenerate RegenerateFunc
	lint       LintFunc
	recorder   metrics.Recorder
	registry   *prometheus.Registry

	running atomic.Bool
}

// NewService validates cfg and builds the service. lint may be nil, in
// which case the lint issue gauge is not maintained.
func NewService(cfg ServiceConfig, regenerate RegenerateFunc, lint LintFunc) (*Service, error) {
	if cfg.LayoutsDir == "" {
		return nil, fmt.Errorf("layouts directory is required")
	}
	if regenerate == nil {
		return nil, fmt.Errorf("regenerate callback is required")
	}

	registry := prometheus.NewRegistry()
	return &Service{
		cfg:        cfg,
		regenerate: regenerate,
		lint:       lint,
		recorder:   metrics.NewPrometheusRecorder(registry),
		registry:   registry,
	}, nil
}

// Run blocks until ctx is cancelled. It performs one regeneration at
// startup so pages are current before watching begins.
func (s *Service) Run(ctx context.Context) error {
	var wg sync.WaitGroup

	// Regeneration runs on its own goroutine so the debouncer keeps
	// draining requests while a run is in flight; running is marked
	// before dispatch so CheckRunning cannot miss the window.
	debouncer, err := NewDebouncer(DebouncerConfig{
		QuietWindow:  s.cfg.QuietWindow,
		MaxDelay:     s.cfg.MaxDelay,
		CheckRunning: s.running.Load,
	}, func(ctx context.Context, batch Batch) {
		s.running.Store(true)
		wg.Add(1)
		go func() {
			defer wg.Done()
			s.runRegeneration(ctx, batch)
		}()
	})
	if err != nil {
		return err
	}

	watcher, err := NewLayoutWatcher(s.cfg.LayoutsDir, debouncer, s.recorder)
	if err != nil {
		return err
	}
	defer watcher.Close()

	var scheduler *Scheduler
	if s.cfg.Interval > 0 {
		scheduler, err = NewScheduler(debouncer)
		if err != nil {
			return err
		}
		if _, err := scheduler.SchedulePeriodicRegeneration(s.cfg.Interval); err != nil {
			return err
		}
		scheduler.Start()
		defer func() {
			if err := scheduler.Stop(); err != nil {
				slog.Error("Scheduler shutdown failed", logfields.Error(err))
			}
		}()
	}

	wg.Add(2)
	go func() {
		defer wg.Done()
		_ = debouncer.Run(ctx)
	}()
	go func() {
		defer wg.Done()
		_ = watcher.Run(ctx)
	}()

	if s.cfg.Listen != "" {
		server := NewServer(s.cfg.Listen, s.registry)
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := server.Run(ctx); err != nil {
				slog.Error("Health server failed", logfields.Error(err))
			}
		}()
	}

	debouncer.Request(Request{Reason: "startup", RequestedAt: time.Now()})

	<-ctx.Done()
	wg.Wait()
	return nil
}

func (s *Service) runRegeneration(ctx context.Context, batch Batch) {
	defer s.running.Store(false)

	slog.Info("Regenerating layout pages",
		slog.String("cause", batch.DebounceCause),
		slog.String("reason", batch.LastReason),
		slog.Int("requests", batch.RequestCount))

	start := time.Now()
	changed, err := s.regenerate(ctx)
	duration := time.Since(start)

	s.recorder.ObserveGenerateDuration(duration)
	switch {
	case err != nil:
		s.recorder.IncGenerateOutcome(metrics.OutcomeFailed)
		slog.Error("Regeneration failed", logfields.Error(err), logfields.DurationMS(float64(duration.Milliseconds())))
	case changed:
		s.recorder.IncGenerateOutcome(metrics.OutcomeSuccess)
		slog.Info("Regeneration complete", logfields.DurationMS(float64(duration.Milliseconds())))
	default:
		s.recorder.IncGenerateOutcome(metrics.OutcomeSkipped)
		slog.Info("Pages already up to date", logfields.DurationMS(float64(duration.Milliseconds())))
	}

	s.runLint(ctx)
}

// runLint refreshes the lint issue gauge after a regeneration.
func (s *Service) runLint(ctx context.Context) {
	if s.lint == nil {
		return
	}
	counts, err := s.lint(ctx)
	if err != nil {
		slog.Warn("Lint pass failed", logfields.Error(err))
		return
	}
	for severity, count := range counts {
		s.recorder.SetLintIssues(severity, count)
	}
}
