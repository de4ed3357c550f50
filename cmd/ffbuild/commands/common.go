package commands

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/alecthomas/kong"

	"git.home.luguber.info/inful/ffbuild/internal/envprobe"
)

// Global carries process-wide state into subcommands.
type Global struct {
	Ctx    context.Context
	Logger *slog.Logger
	// Stdout receives link directives and nothing else.
	Stdout io.Writer
}

// CLI definition & global flags.
type CLI struct {
	Verbose bool             `short:"v" help:"Enable verbose logging"`
	Version kong.VersionFlag `name:"version" help:"Show version and exit"`

	Build BuildCmd   `cmd:"" default:"1" help:"Run the build pipeline once (default)"`
	Watch WatchCmd   `cmd:"" help:"Run the pipeline, then rerun it whenever the header list or manifest changes (header list edits regenerate bindings)"`
	Info  VersionCmd `cmd:"" name:"version" help:"Show version and build information"`
}

// AfterApply runs after flag parsing; setup logging once. Logs always go to
// stderr since stdout carries directives.
// nolint:unparam // AfterApply currently never returns an error.
func (c *CLI) AfterApply() error {
	level := parseLogLevel(c.Verbose, envprobe.New())
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)
	return nil
}

// parseLogLevel honours --verbose first, then FFBUILD_LOG_LEVEL.
func parseLogLevel(verbose bool, p envprobe.Probe) slog.Level {
	if verbose {
		return slog.LevelDebug
	}
	v, _ := p.Lookup(envprobe.KeyLogLevel)
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
