// Package history persists a record of generation and lint runs.
package history

import (
	"context"
	"time"
)

// RunKind distinguishes recorded runs.
type RunKind string

const (
	RunGenerate RunKind = "generate"
	RunLint     RunKind = "lint"
)

// Run is one recorded generation or lint pass.
type Run struct {
	ID        string // uuid assigned by the caller
	Kind      RunKind
	Bundle    string // bundle path or language code
	Layouts   int    // layouts documented (generate runs)
	Errors    int    // error-level lint issues
	Warnings  int    // warning-level lint issues
	Duration  time.Duration
	StartedAt time.Time
	Payload   []byte // optional JSON detail
}

// Store records runs and lists them most-recent-first.
type Store interface {
	Append(ctx context.Context, run Run) error
	Recent(ctx context.Context, limit int) ([]Run, error)
	Close() error
}
