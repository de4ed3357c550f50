package logfields

import "log/slog"

// Canonical log field name constants to avoid drift across packages.
const (
	KeyRunID      = "run_id"
	KeyStage      = "stage"
	KeyDurationMS = "duration_ms"
	KeyPath       = "path"
	KeyFile       = "file"
	KeyTool       = "tool"
	KeyArgs       = "args"
	KeyAttempt    = "attempt"
	KeyExitCode   = "exit_code"
	KeyJobs       = "jobs"
	KeyCount      = "count"
	KeyReason     = "reason"
	KeyProfile    = "profile"
	KeyError      = "error"
)

// Simple helpers returning slog.Attr. Keeping each granular means callers can compose.
func RunID(id string) slog.Attr       { return slog.String(KeyRunID, id) }
func Stage(name string) slog.Attr     { return slog.String(KeyStage, name) }
func DurationMS(ms float64) slog.Attr { return slog.Float64(KeyDurationMS, ms) }
func Path(p string) slog.Attr         { return slog.String(KeyPath, p) }
func File(f string) slog.Attr         { return slog.String(KeyFile, f) }
func Tool(t string) slog.Attr         { return slog.String(KeyTool, t) }
func Args(a []string) slog.Attr       { return slog.Any(KeyArgs, a) }
func Attempt(n int) slog.Attr         { return slog.Int(KeyAttempt, n) }
func ExitCode(c int) slog.Attr        { return slog.Int(KeyExitCode, c) }
func Jobs(n int) slog.Attr            { return slog.Int(KeyJobs, n) }
func Count(n int) slog.Attr           { return slog.Int(KeyCount, n) }
func Reason(r string) slog.Attr       { return slog.String(KeyReason, r) }
func Profile(p string) slog.Attr      { return slog.String(KeyProfile, p) }
func Error(err error) slog.Attr {
	if err == nil {
		return slog.String(KeyError, "")
	}
	return slog.String(KeyError, err.Error())
}
