// Package process is the single place external tools are invoked. Every
// pipeline stage describes a Command and gets back a Result carrying exit
// status and both captured output streams.
package process

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os/exec"
	"sort"
	"strings"
	"time"

	"git.home.luguber.info/inful/ffbuild/internal/logfields"
)

// Command describes one external invocation.
type Command struct {
	Program string
	Args    []string
	Dir     string
	// Env holds variables set for the child on top of BaseEnv.
	Env map[string]string
}

// String renders the command line for logs and diagnostics.
func (c Command) String() string {
	if len(c.Args) == 0 {
		return c.Program
	}
	return c.Program + " " + strings.Join(c.Args, " ")
}

// Result is the uniform outcome of an external invocation. A command that
// could not be started at all is reported with Success=false, ExitCode -1
// and the start error in Err.
type Result struct {
	Success  bool
	ExitCode int
	Stdout   string
	Stderr   string
	Err      error
	Duration time.Duration
}

// Combined returns stdout and stderr joined by a newline.
func (r Result) Combined() string {
	switch {
	case r.Stdout == "":
		return r.Stderr
	case r.Stderr == "":
		return r.Stdout
	default:
		return r.Stdout + "\n" + r.Stderr
	}
}

// Sections renders both streams under labelled headers.
func (r Result) Sections() string {
	return fmt.Sprintf("* stderr:\n%s\n\n* stdout:\n%s", r.Stderr, r.Stdout)
}

// Runner executes commands and blocks until they finish.
type Runner interface {
	Run(ctx context.Context, cmd Command) Result
}

// ExecRunner runs commands with os/exec. BaseEnv is the full environment each
// child starts from; PATH is always carried explicitly.
type ExecRunner struct {
	BaseEnv []string
	Logger  *slog.Logger
}

// NewExecRunner returns a runner whose children see baseEnv plus an explicit PATH.
func NewExecRunner(baseEnv []string, path string) *ExecRunner {
	env := make([]string, 0, len(baseEnv)+1)
	for _, kv := range baseEnv {
		if !strings.HasPrefix(kv, "PATH=") {
			env = append(env, kv)
		}
	}
	env = append(env, "PATH="+path)
	return &ExecRunner{BaseEnv: env}
}

// Run executes cmd and captures its output.
func (r *ExecRunner) Run(ctx context.Context, cmd Command) Result {
	logger := r.Logger
	if logger == nil {
		logger = slog.Default()
	}

	c := exec.CommandContext(ctx, cmd.Program, cmd.Args...)
	c.Dir = cmd.Dir
	c.Env = mergeEnv(r.BaseEnv, cmd.Env)
	var stdout, stderr bytes.Buffer
	c.Stdout = &stdout
	c.Stderr = &stderr

	logger.Debug("Running external command",
		logfields.Tool(cmd.Program),
		logfields.Args(cmd.Args),
		logfields.Path(cmd.Dir))

	t0 := time.Now()
	err := c.Run()
	res := Result{
		Success:  err == nil,
		Stdout:   stdout.String(),
		Stderr:   stderr.String(),
		Err:      err,
		Duration: time.Since(t0),
	}

	var exitErr *exec.ExitError
	switch {
	case err == nil:
		res.ExitCode = 0
	case errors.As(err, &exitErr):
		res.ExitCode = exitErr.ExitCode()
	default:
		res.ExitCode = -1
	}

	if !res.Success {
		logger.Debug("External command failed",
			logfields.Tool(cmd.Program),
			logfields.ExitCode(res.ExitCode),
			logfields.Error(err))
	}
	return res
}

// mergeEnv overlays extra onto base; keys in extra replace existing entries.
// Extra keys are appended in sorted order so the child environment is stable.
func mergeEnv(base []string, extra map[string]string) []string {
	if len(extra) == 0 {
		return base
	}
	out := make([]string, 0, len(base)+len(extra))
	for _, kv := range base {
		key, _, _ := strings.Cut(kv, "=")
		if _, replaced := extra[key]; replaced {
			continue
		}
		out = append(out, kv)
	}
	keys := make([]string, 0, len(extra))
	for k := range extra {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		out = append(out, k+"="+extra[k])
	}
	return out
}
