// Package processtest provides a scripted process.Runner for stage tests.
package processtest

import (
	"context"
	"sync"

	"git.home.luguber.info/inful/ffbuild/internal/process"
)

// FakeRunner records commands and answers them from a script.
type FakeRunner struct {
	mu    sync.Mutex
	Calls []process.Command
	// Handler computes the result for a call; nil means success with no output.
	Handler func(call int, cmd process.Command) process.Result
}

// Run records cmd and returns the scripted result.
func (f *FakeRunner) Run(_ context.Context, cmd process.Command) process.Result {
	f.mu.Lock()
	f.Calls = append(f.Calls, cmd)
	n := len(f.Calls) - 1
	f.mu.Unlock()
	if f.Handler == nil {
		return process.Result{Success: true}
	}
	return f.Handler(n, cmd)
}

// Programs lists the program name of every recorded call.
func (f *FakeRunner) Programs() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, len(f.Calls))
	for i, c := range f.Calls {
		out[i] = c.Program
	}
	return out
}

// Failed builds a failing result with the given output.
func Failed(code int, stdout, stderr string) process.Result {
	return process.Result{Success: false, ExitCode: code, Stdout: stdout, Stderr: stderr}
}
