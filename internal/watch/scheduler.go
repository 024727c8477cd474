package watch

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/go-co-op/gocron/v2"
)

// Scheduler wraps gocron for periodic regeneration, catching changes
// made while the watcher was not running or on filesystems where
// notifications are unreliable.
type Scheduler struct {
	scheduler gocron.Scheduler
	debouncer *Debouncer
}

// NewScheduler creates a scheduler that feeds the debouncer.
func NewScheduler(debouncer *Debouncer) (*Scheduler, error) {
	s, err := gocron.NewScheduler()
	if err != nil {
		return nil, fmt.Errorf("failed to create gocron scheduler: %w", err)
	}

	return &Scheduler{scheduler: s, debouncer: debouncer}, nil
}

// SchedulePeriodicRegeneration requests a regeneration every interval.
func (s *Scheduler) SchedulePeriodicRegeneration(interval time.Duration) (string, error) {
	job, err := s.scheduler.NewJob(
		gocron.DurationJob(interval),
		gocron.NewTask(s.requestRegeneration),
		gocron.WithName("periodic-regeneration"),
	)
	if err != nil {
		return "", fmt.Errorf("failed to create periodic regeneration job: %w", err)
	}

	return job.ID().String(), nil
}

func (s *Scheduler) requestRegeneration() {
	slog.Debug("Scheduled regeneration tick")
	s.debouncer.Request(Request{
		Reason:      "schedule",
		RequestedAt: time.Now(),
	})
}

// Start begins the scheduler.
func (s *Scheduler) Start() {
	slog.Info("Starting scheduler")
	s.scheduler.Start()
}

// Stop gracefully shuts down the scheduler.
func (s *Scheduler) Stop() error {
	slog.Info("Stopping scheduler")
	return s.scheduler.Shutdown()
}
