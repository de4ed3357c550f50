// Package compile runs the parallel make over the staged tree.
package compile

import (
	"context"
	"fmt"
	"log/slog"
	"runtime"

	ferrors "git.home.luguber.info/inful/ffbuild/internal/errors"
	"git.home.luguber.info/inful/ffbuild/internal/logfields"
	"git.home.luguber.info/inful/ffbuild/internal/process"
)

// Runner invokes make. Build failures are deterministic given a validated
// configuration, so there is no retry.
type Runner struct {
	Proc process.Runner
	Make string
}

// NewRunner returns a Runner using the make found on PATH.
func NewRunner(proc process.Runner) *Runner {
	return &Runner{Proc: proc, Make: "make"}
}

// Command returns the make invocation for root with the given job count.
// A non-positive count falls back to the number of logical CPUs.
func (r *Runner) Command(root string, jobs int) process.Command {
	if jobs <= 0 {
		jobs = runtime.NumCPU()
	}
	return process.Command{
		Program: r.Make,
		Args:    []string{"-C", root, "-f", "Makefile", fmt.Sprintf("-j%d", jobs)},
	}
}

// Run builds the staged tree. A nonzero exit is fatal with both output
// streams attached verbatim.
func (r *Runner) Run(ctx context.Context, root string, jobs int) error {
	cmd := r.Command(root, jobs)
	slog.Info("Compiling staged tree", logfields.Path(root), logfields.Args(cmd.Args))

	res := r.Proc.Run(ctx, cmd)
	if !res.Success {
		return ferrors.ToolFailed("make", res.Err, res.Sections()).
			WithContext("command", cmd.String()).
			WithContext("exit_code", res.ExitCode)
	}
	slog.Debug("Compilation finished", logfields.DurationMS(float64(res.Duration.Milliseconds())))
	return nil
}
