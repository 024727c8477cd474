// Package events publishes generation results to NATS JetStream so
// downstream consumers (site deployers, notification bots) can react to
// documentation changes.
package events

import "time"

// PageGeneratedEvent is published after a layout page has been written.
type PageGeneratedEvent struct {
	Bundle      string    `json:"bundle"`       // bundle path
	LangCode    string    `json:"lang_code"`    // language code derived from the bundle name
	Page        string    `json:"page"`         // generated page path
	Fingerprint string    `json:"fingerprint"`  // content fingerprint of the page
	Layouts     int       `json:"layouts"`      // layouts documented on the page
	Forced      bool      `json:"forced"`       // manual-edit protection was overridden
	RunID       string    `json:"run_id"`       // identifier shared with the run history
	Timestamp   time.Time `json:"timestamp"`
}

// LintCompletedEvent is published after a lint pass finishes.
type LintCompletedEvent struct {
	Path      string    `json:"path"`   // linted file or directory
	Files     int       `json:"files"`  // markdown files examined
	Errors    int       `json:"errors"`
	Warnings  int       `json:"warnings"`
	RunID     string    `json:"run_id"`
	Timestamp time.Time `json:"timestamp"`
}
