package watch

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestNewServiceValidation(t *testing.T) {
	_, err := NewService(ServiceConfig{}, func(context.Context) (bool, error) { return false, nil }, nil)
	require.Error(t, err)

	_, err = NewService(ServiceConfig{LayoutsDir: t.TempDir()}, nil, nil)
	require.Error(t, err)
}

func TestRunRegenerationUpdatesLintGauge(t *testing.T) {
	svc, err := NewService(ServiceConfig{
		LayoutsDir:  t.TempDir(),
		QuietWindow: 50 * time.Millisecond,
		MaxDelay:    time.Second,
	}, func(context.Context) (bool, error) {
		return true, nil
	}, func(context.Context) (map[string]int, error) {
		return map[string]int{"error": 2, "warning": 1, "info": 0}, nil
	})
	require.NoError(t, err)

	svc.runRegeneration(context.Background(), Batch{DebounceCause: "quiet"})

	families, err := svc.registry.Gather()
	require.NoError(t, err)

	values := map[string]float64{}
	for _, mf := range families {
		if mf.GetName() != "kbddocs_lint_issues" {
			continue
		}
		for _, m := range mf.GetMetric() {
			for _, label := range m.GetLabel() {
				if label.GetName() == "severity" {
					values[label.GetValue()] = m.GetGauge().GetValue()
				}
			}
		}
	}
	require.Equal(t, map[string]float64{"error": 2, "warning": 1, "info": 0}, values)
}

func TestRunRegenerationLintFailureKeepsGaugeAbsent(t *testing.T) {
	svc, err := NewService(ServiceConfig{
		LayoutsDir:  t.TempDir(),
		QuietWindow: 50 * time.Millisecond,
		MaxDelay:    time.Second,
	}, func(context.Context) (bool, error) {
		return false, nil
	}, func(context.Context) (map[string]int, error) {
		return nil, fmt.Errorf("unreadable page")
	})
	require.NoError(t, err)

	svc.runRegeneration(context.Background(), Batch{DebounceCause: "quiet"})

	families, err := svc.registry.Gather()
	require.NoError(t, err)
	for _, mf := range families {
		require.NotEqual(t, "kbddocs_lint_issues", mf.GetName())
	}
}

func TestServiceFollowUpAfterInFlightRun(t *testing.T) {
	layoutsDir := t.TempDir()

	var runs atomic.Int32
	release := make(chan struct{})
	svc, err := NewService(ServiceConfig{
		LayoutsDir:  layoutsDir,
		QuietWindow: 30 * time.Millisecond,
		MaxDelay:    5 * time.Second,
	}, func(context.Context) (bool, error) {
		if runs.Add(1) == 1 {
			<-release
		}
		return true, nil
	}, nil)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		_ = svc.Run(ctx)
		close(done)
	}()

	// The startup regeneration is now blocked inside the callback.
	require.Eventually(t, func() bool { return runs.Load() == 1 }, 3*time.Second, 10*time.Millisecond)

	// A layout change during the in-flight run must be held and replayed
	// as exactly one follow-up once the run finishes.
	require.NoError(t, os.WriteFile(filepath.Join(layoutsDir, "sma.yaml"), []byte("displayNames: {}\n"), 0o644))
	time.Sleep(150 * time.Millisecond)
	require.Equal(t, int32(1), runs.Load(), "no second run while the first is in flight")

	close(release)
	require.Eventually(t, func() bool { return runs.Load() >= 2 }, 3*time.Second, 10*time.Millisecond)

	cancel()
	select {
	case <-done:
	case <-time.After(3 * time.Second):
		t.Fatal("service did not stop")
	}
}
