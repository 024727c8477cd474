package logfields

import "log/slog"

// Canonical log field name constants to avoid drift across packages.
const (
	KeyBundle     = "bundle"
	KeyLayout     = "layout"
	KeyPlatform   = "platform"
	KeyPage       = "page"
	KeyPath       = "path"
	KeyURL        = "url"
	KeyName       = "name"
	KeyRepo       = "repository"
	KeyRunID      = "run_id"
	KeyDurationMS = "duration_ms"
	KeyError      = "error"
)

// Simple helpers returning slog.Attr. Keeping each granular means callers can compose.
func Bundle(b string) slog.Attr       { return slog.String(KeyBundle, b) }
func Layout(l string) slog.Attr       { return slog.String(KeyLayout, l) }
func Platform(p string) slog.Attr     { return slog.String(KeyPlatform, p) }
func Page(p string) slog.Attr         { return slog.String(KeyPage, p) }
func Path(p string) slog.Attr         { return slog.String(KeyPath, p) }
func URL(u string) slog.Attr          { return slog.String(KeyURL, u) }
func Name(n string) slog.Attr         { return slog.String(KeyName, n) }
func Repository(r string) slog.Attr   { return slog.String(KeyRepo, r) }
func RunID(id string) slog.Attr       { return slog.String(KeyRunID, id) }
func DurationMS(ms float64) slog.Attr { return slog.Float64(KeyDurationMS, ms) }
func Error(err error) slog.Attr {
	if err == nil {
		return slog.String(KeyError, "")
	}
	return slog.String(KeyError, err.Error())
}
