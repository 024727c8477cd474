// Package metrics records operational metrics for watch mode.
package metrics

import "time"

// Outcome labels a finished generation run.
type Outcome string

const (
	OutcomeSuccess Outcome = "success"
	OutcomeSkipped Outcome = "skipped" // pages already up to date
	OutcomeFailed  Outcome = "failed"
)

// Recorder receives generation and watch events. Implementations must be
// safe for concurrent use.
type Recorder interface {
	ObserveGenerateDuration(d time.Duration)
	IncGenerateOutcome(outcome Outcome)
	IncWatchEvent(op string)
	SetLintIssues(severity string, count int)
}

// NopRecorder discards all metrics; useful for one-shot commands and tests.
type NopRecorder struct{}

func (NopRecorder) ObserveGenerateDuration(time.Duration) {}
func (NopRecorder) IncGenerateOutcome(Outcome)            {}
func (NopRecorder) IncWatchEvent(string)                  {}
func (NopRecorder) SetLintIssues(string, int)             {}
