// Package watch keeps generated layout pages current while layout files
// change on disk.
package watch

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// Request is one regeneration trigger observed by the watcher or scheduler.
type Request struct {
	Reason      string // "fs_event", "schedule", "startup"
	Path        string // file that changed, when known
	RequestedAt time.Time
}

// Batch describes the coalesced requests handed to the regeneration callback.
type Batch struct {
	TriggeredAt   time.Time
	RequestCount  int
	LastReason    string
	LastPath      string
	FirstRequest  time.Time
	LastRequest   time.Time
	DebounceCause string // "quiet", "max_delay", "after_running"
}

// DebouncerConfig configures regeneration coalescing.
type DebouncerConfig struct {
	QuietWindow time.Duration
	MaxDelay    time.Duration

	// CheckRunning reports whether a regeneration is currently in flight.
	// When true the debouncer holds the batch and schedules exactly one
	// follow-up once the run finishes.
	CheckRunning func() bool

	// PollInterval controls how often the debouncer checks for run
	// completion once it has detected an in-flight regeneration.
	PollInterval time.Duration
}

// Debouncer coalesces bursts of regeneration requests into single
// callback invocations: a quiet window after the last request, a max
// delay so regeneration cannot be postponed indefinitely, and exactly
// one follow-up when requests arrive while a run is in flight.
//
// It is safe to run as a single goroutine.
type Debouncer struct {
	cfg  DebouncerConfig
	emit func(context.Context, Batch)

	requests chan Request

	mu              sync.Mutex
	pending         bool
	pendingAfterRun bool
	pollingAfterRun bool
	firstRequestAt  time.Time
	lastRequestAt   time.Time
	lastReason      string
	lastPath        string
	requestCount    int
}

// NewDebouncer validates cfg and wires emit as the regeneration callback.
func NewDebouncer(cfg DebouncerConfig, emit func(context.Context, Batch)) (*Debouncer, error) {
	if emit == nil {
		return nil, fmt.Errorf("emit callback is required")
	}
	if cfg.QuietWindow <= 0 {
		return nil, fmt.Errorf("quiet window must be > 0")
	}
	if cfg.MaxDelay <= 0 {
		return nil, fmt.Errorf("max delay must be > 0")
	}
	if cfg.CheckRunning == nil {
		cfg.CheckRunning = func() bool { return false }
	}
	if cfg.PollInterval <= 0 {
		cfg.PollInterval = 250 * time.Millisecond
	}

	return &Debouncer{
		cfg:      cfg,
		emit:     emit,
		requests: make(chan Request, 64),
	}, nil
}

// Request enqueues a regeneration trigger. It never blocks; when the
// queue is full the request is dropped, which is harmless because an
// earlier queued request already guarantees a regeneration.
func (d *Debouncer) Request(req Request) {
	select {
	case d.requests <- req:
	default:
	}
}

// Run processes requests until ctx is cancelled.
func (d *Debouncer) Run(ctx context.Context) error {
	quietTimer := newStoppedTimer()
	maxTimer := newStoppedTimer()
	pollTimer := newStoppedTimer()

	var (
		quietC <-chan time.Time
		maxC   <-chan time.Time
		pollC  <-chan time.Time
	)

	for {
		select {
		case <-ctx.Done():
			return nil
		case req := <-d.requests:
			d.onRequest(req)

			resetTimer(quietTimer, d.cfg.QuietWindow)
			quietC = quietTimer.C

			if d.shouldStartMaxTimer() {
				resetTimer(maxTimer, d.cfg.MaxDelay)
				maxC = maxTimer.C
			}

		case <-quietC:
			if d.tryEmit(ctx, "quiet") {
				quietC = nil
				maxC = nil
			}
			// else: run in flight; pendingAfterRun holds the follow-up.

		case <-maxC:
			if d.tryEmit(ctx, "max_delay") {
				quietC = nil
				maxC = nil
			}

		case <-pollC:
			if d.tryEmitAfterRunning(ctx) {
				pollC = nil
				quietC = nil
				maxC = nil
				continue
			}
			resetTimer(pollTimer, d.cfg.PollInterval)
			pollC = pollTimer.C
		}

		if d.shouldPollAfterRun() && pollC == nil {
			resetTimer(pollTimer, d.cfg.PollInterval)
			pollC = pollTimer.C
		}
	}
}

func (d *Debouncer) onRequest(req Request) {
	d.mu.Lock()
	defer d.mu.Unlock()

	now := req.RequestedAt
	if now.IsZero() {
		now = time.Now()
	}

	if !d.pending {
		d.pending = true
		d.firstRequestAt = now
		d.requestCount = 0
	}

	d.lastRequestAt = now
	d.lastReason = req.Reason
	d.lastPath = req.Path
	d.requestCount++
}

func (d *Debouncer) shouldStartMaxTimer() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.pending && d.requestCount == 1
}

func (d *Debouncer) shouldPollAfterRun() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.pendingAfterRun && !d.pollingAfterRun
}

func (d *Debouncer) tryEmit(ctx context.Context, cause string) bool {
	d.mu.Lock()
	if !d.pending {
		d.mu.Unlock()
		return true
	}
	first := d.firstRequestAt
	last := d.lastRequestAt
	count := d.requestCount
	reason := d.lastReason
	path := d.lastPath

	if d.cfg.CheckRunning() {
		d.pendingAfterRun = true
		d.mu.Unlock()
		return false
	}

	d.pending = false
	d.pendingAfterRun = false
	d.pollingAfterRun = false
	d.mu.Unlock()

	d.emit(ctx, Batch{
		TriggeredAt:   time.Now(),
		RequestCount:  count,
		LastReason:    reason,
		LastPath:      path,
		FirstRequest:  first,
		LastRequest:   last,
		DebounceCause: cause,
	})
	return true
}

func (d *Debouncer) tryEmitAfterRunning(ctx context.Context) bool {
	d.mu.Lock()
	if !d.pendingAfterRun {
		d.mu.Unlock()
		return true
	}
	d.pollingAfterRun = true
	d.mu.Unlock()

	if d.cfg.CheckRunning() {
		return false
	}

	// Run finished; emit exactly one follow-up.
	return d.tryEmit(ctx, "after_running")
}

func newStoppedTimer() *time.Timer {
	t := time.NewTimer(time.Hour)
	if !t.Stop() {
		select {
		case <-t.C:
		default:
		}
	}
	return t
}

func resetTimer(t *time.Timer, after time.Duration) {
	if !t.Stop() {
		select {
		case <-t.C:
		default:
		}
	}
	t.Reset(after)
}
