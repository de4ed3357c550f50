package configure

import (
	"context"
	"log/slog"

	ferrors "git.home.luguber.info/inful/ffbuild/internal/errors"
	"git.home.luguber.info/inful/ffbuild/internal/logfields"
	"git.home.luguber.info/inful/ffbuild/internal/process"
)

// Outcome describes a successful configure run.
type Outcome struct {
	Flags    FlagSet
	Attempts int
	Retried  bool
}

// Runner invokes the configure script in the staged root.
type Runner struct {
	Proc process.Runner
}

// NewRunner returns a configure Runner using proc for invocation.
func NewRunner(proc process.Runner) *Runner {
	return &Runner{Proc: proc}
}

func command(root string, flags FlagSet, env map[string]string) process.Command {
	args := make([]string, 0, len(flags)+1)
	args = append(args, "./configure")
	args = append(args, flags...)
	return process.Command{Program: "bash", Args: args, Dir: root, Env: env}
}

// Run executes configure with plan's flags. When the first attempt fails with
// the MissingAssembler signature it appends --disable-x86asm and tries exactly
// once more. Any other failure, or a failed retry, is fatal and carries the
// full captured output.
func (r *Runner) Run(ctx context.Context, root string, plan Plan) (Outcome, error) {
	flags := make(FlagSet, len(plan.Flags))
	copy(flags, plan.Flags)

	slog.Info("Running configure", logfields.Path(root), logfields.Args(flags))
	res := r.Proc.Run(ctx, command(root, flags, plan.Env))
	if res.Success {
		return Outcome{Flags: flags, Attempts: 1}, nil
	}

	sig := Classify(res)
	if sig != MissingAssembler {
		return Outcome{Flags: flags, Attempts: 1},
			ferrors.ToolFailed("configure", res.Err, res.Stderr+"\n"+res.Stdout).
				WithContext("signature", sig.String())
	}

	flags = append(flags, FlagDisableX86Asm)
	slog.Warn("Assembler missing or too old; retrying configure without x86 assembly",
		logfields.Attempt(2), logfields.Reason(sig.String()))

	res = r.Proc.Run(ctx, command(root, flags, plan.Env))
	if !res.Success {
		return Outcome{Flags: flags, Attempts: 2, Retried: true},
			ferrors.ToolFailed("configure", res.Err, res.Stderr+"\n"+res.Stdout).
				WithContext("signature", sig.String()).
				WithContext("retried", true)
	}
	return Outcome{Flags: flags, Attempts: 2, Retried: true}, nil
}
