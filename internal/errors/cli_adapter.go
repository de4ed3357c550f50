package errors

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"sort"
	"strings"
)

// CLIErrorAdapter handles error presentation and exit code determination for CLI applications.
type CLIErrorAdapter struct {
	verbose bool
	logger  *slog.Logger
	out     io.Writer
	exit    func(int)
}

// NewCLIErrorAdapter creates a new CLI error adapter.
func NewCLIErrorAdapter(verbose bool, logger *slog.Logger) *CLIErrorAdapter {
	if logger == nil {
		logger = slog.Default()
	}
	return &CLIErrorAdapter{
		verbose: verbose,
		logger:  logger,
		out:     os.Stderr,
		exit:    os.Exit,
	}
}

// ExitCodeFor determines the appropriate exit code for an error.
func (a *CLIErrorAdapter) ExitCodeFor(err error) int {
	if err == nil {
		return 0
	}

	if be, ok := AsBuildError(err); ok {
		return a.exitCodeFromBuildError(be)
	}

	return 1
}

// exitCodeFromBuildError maps BuildError to exit codes.
func (a *CLIErrorAdapter) exitCodeFromBuildError(err *BuildError) int {
	switch err.Category {
	case CategoryEnvironment:
		return 6
	case CategoryConfiguration:
		return 7
	case CategoryInternal:
		return 10
	case CategoryExternalTool:
		return 11
	default:
		return 1
	}
}

// FormatError formats an error for display. Captured tool output is always
// included; verbose mode appends the context fields, sorted by key.
func (a *CLIErrorAdapter) FormatError(err error) string {
	if err == nil {
		return ""
	}

	be, ok := AsBuildError(err)
	if !ok {
		return fmt.Sprintf("Error: %v", err)
	}
	msg := be.Diagnostics()
	if !a.verbose || len(be.Context) == 0 {
		return msg
	}

	keys := make([]string, 0, len(be.Context))
	for k := range be.Context {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	var b strings.Builder
	b.WriteString(msg)
	b.WriteString("\ncontext:")
	for _, k := range keys {
		fmt.Fprintf(&b, "\n  %s=%v", k, be.Context[k])
	}
	return b.String()
}

// HandleError processes an error and exits the program with appropriate code.
func (a *CLIErrorAdapter) HandleError(err error) {
	if err == nil {
		return
	}

	exitCode := a.ExitCodeFor(err)
	message := a.FormatError(err)

	a.logError(err)

	_, _ = fmt.Fprintf(a.out, "%s\n", message)
	a.exit(exitCode)
}

// logError logs an error with its classification attributes.
func (a *CLIErrorAdapter) logError(err error) {
	if be, ok := AsBuildError(err); ok {
		attrs := []any{
			slog.String("category", string(be.Category)),
			slog.String("severity", string(be.Severity)),
		}
		for k, v := range be.Context {
			attrs = append(attrs, slog.Any(k, v))
		}
		a.logger.Error(be.Message, attrs...)
		return
	}
	a.logger.Error("Unclassified error", "error", err)
}
