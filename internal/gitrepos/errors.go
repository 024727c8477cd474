package gitrepos

import (
	"fmt"
	"strings"
)

// AuthError indicates the remote rejected our credentials.
type AuthError struct {
	Op  string
	URL string
	Err error
}

func (e *AuthError) Error() string {
	return fmt.Sprintf("%s %s: authentication failed: %v", e.Op, e.URL, e.Err)
}
func (e *AuthError) Unwrap() error { return e.Err }

// NotFoundError indicates the remote repository does not exist (or is not
// visible with the given credentials).
type NotFoundError struct {
	Op  string
	URL string
	Err error
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %s: repository not found: %v", e.Op, e.URL, e.Err)
}
func (e *NotFoundError) Unwrap() error { return e.Err }

// NetworkTimeoutError indicates a transient network failure; the caller
// may retry.
type NetworkTimeoutError struct {
	Op  string
	URL string
	Err error
}

func (e *NetworkTimeoutError) Error() string {
	return fmt.Sprintf("%s %s: network timeout: %v", e.Op, e.URL, e.Err)
}
func (e *NetworkTimeoutError) Unwrap() error { return e.Err }

// classifyError wraps underlying go-git errors into typed failures so
// callers can react without string parsing.
func classifyError(op, url string, err error) error {
	l := strings.ToLower(err.Error())
	switch {
	case strings.Contains(l, "authentication") || strings.Contains(l, "not authorized") || strings.Contains(l, "invalid username or password") || strings.Contains(l, "invalid credentials"):
		return &AuthError{Op: op, URL: url, Err: err}
	case strings.Contains(l, "repository not found") || strings.Contains(l, "not found") || strings.Contains(l, "does not exist"):
		return &NotFoundError{Op: op, URL: url, Err: err}
	case strings.Contains(l, "timeout") || strings.Contains(l, "i/o timeout") || strings.Contains(l, "connection reset") || strings.Contains(l, "no route to host"):
		return &NetworkTimeoutError{Op: op, URL: url, Err: err}
	}
	return fmt.Errorf("failed to %s repository %s: %w", op, url, err)
}
