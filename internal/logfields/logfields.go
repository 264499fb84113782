package logfields

import "log/slog"

// Canonical log field name constants to avoid drift across packages.
const (
	KeyBuildID     = "build_id"
	KeyPath        = "path"
	KeySource      = "source"
	KeyDestination = "destination"
	KeyFiles       = "files"
	KeyStage       = "stage"
	KeyDurationMS  = "duration_ms"
	KeyError       = "error"
)

// Simple helpers returning slog.Attr. Keeping each granular means callers can compose.
func BuildID(id string) slog.Attr     { return slog.String(KeyBuildID, id) }
func Path(p string) slog.Attr         { return slog.String(KeyPath, p) }
func Source(p string) slog.Attr       { return slog.String(KeySource, p) }
func Destination(p string) slog.Attr  { return slog.String(KeyDestination, p) }
func Files(n int) slog.Attr           { return slog.Int(KeyFiles, n) }
func Stage(i int) slog.Attr           { return slog.Int(KeyStage, i) }
func DurationMS(ms float64) slog.Attr { return slog.Float64(KeyDurationMS, ms) }

func Error(err error) slog.Attr {
	if err == nil {
		return slog.String(KeyError, "")
	}
	return slog.String(KeyError, err.Error())
}
