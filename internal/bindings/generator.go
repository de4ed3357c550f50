// Package bindings validates the declared header list against the staged
// tree and drives header-to-binding code generation.
package bindings

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"git.home.luguber.info/inful/ffbuild/internal/cache"
	"git.home.luguber.info/inful/ffbuild/internal/config"
	ferrors "git.home.luguber.info/inful/ffbuild/internal/errors"
	"git.home.luguber.info/inful/ffbuild/internal/logfields"
	"git.home.luguber.info/inful/ffbuild/internal/process"
)

// Options configures one generation run.
type Options struct {
	Headers       []string
	IncludeDirs   []string
	IgnoredMacros []string
	Output        string

	LayoutTests        bool
	Comments           bool
	DetectIncludePaths bool
}

// DefaultOptions holds the fixed generation settings: layout checks are left
// to the consumer's compiler, comments are carried over and system include
// paths are detected by the tool.
func DefaultOptions() Options {
	return Options{LayoutTests: false, Comments: true, DetectIncludePaths: true}
}

// Result summarises a generator invocation.
type Result struct {
	Skipped bool
	Reason  string
	Headers int
	Output  string
}

// Generator runs the bindgen command line tool.
type Generator struct {
	Proc    process.Runner
	Program string
}

// NewGenerator returns a Generator using bindgen from PATH.
func NewGenerator(proc process.Runner) *Generator {
	return &Generator{Proc: proc, Program: "bindgen"}
}

// Args returns the bindgen argument list for the given wrapper header and
// temporary output path.
func (g *Generator) Args(wrapper, tmpOut string, opts Options) []string {
	args := []string{wrapper, "-o", tmpOut}
	if !opts.LayoutTests {
		args = append(args, "--no-layout-tests")
	}
	if !opts.Comments {
		args = append(args, "--no-doc-comments")
	}
	if !opts.DetectIncludePaths {
		args = append(args, "--no-include-path-detection")
	}
	for _, m := range opts.IgnoredMacros {
		args = append(args, "--blocklist-item", m)
	}
	args = append(args, "--")
	for _, dir := range opts.IncludeDirs {
		args = append(args, "-I"+dir)
	}
	return args
}

// Generate writes a wrapper header and runs the tool once over it. Output is
// written to a temporary file and renamed into place, so a failed run leaves
// no bindings artifact behind.
func (g *Generator) Generate(ctx context.Context, opts Options) error {
	wrapper := opts.Output + ".wrapper.h"
	tmpOut := opts.Output + ".tmp"

	if err := os.MkdirAll(filepath.Dir(opts.Output), 0o750); err != nil {
		return ferrors.InternalError("create bindings directory", err)
	}
	if err := os.WriteFile(wrapper, wrapperSource(opts.Headers), 0o600); err != nil {
		return ferrors.InternalError("write wrapper header", err)
	}

	cmd := process.Command{Program: g.Program, Args: g.Args(wrapper, tmpOut, opts)}
	res := g.Proc.Run(ctx, cmd)
	if !res.Success {
		_ = os.Remove(tmpOut)
		return ferrors.ToolFailed("binding generation", res.Err, res.Combined()).
			WithContext("command", cmd.String())
	}
	if err := os.Rename(tmpOut, opts.Output); err != nil {
		_ = os.Remove(tmpOut)
		return ferrors.ToolFailed("binding generation", fmt.Errorf("write bindings: %w", err), res.Combined())
	}
	return nil
}

// Run is the binding stage: load and validate the header list, honour the
// existence cache, resolve every header against root and generate.
func (g *Generator) Run(ctx context.Context, cfg config.BuildConfig, m *config.Manifest) (Result, error) {
	headers, err := LoadHeaderList(cfg.HeadersFile)
	if err != nil {
		return Result{}, err
	}

	out := cfg.BindingsPath()
	decision := cache.ShouldSkipBindings(cfg, out)
	if decision.Skip {
		slog.Info("Bindings up to date; skipping generation", logfields.File(out), logfields.Reason(decision.Reason))
		return Result{Skipped: true, Reason: decision.Reason, Headers: len(headers), Output: out}, nil
	}

	root := cfg.StagedRoot()
	resolved, err := Resolve(root, headers)
	if err != nil {
		return Result{Reason: decision.Reason}, err
	}

	opts := DefaultOptions()
	opts.Headers = resolved
	opts.IncludeDirs = []string{root}
	opts.IgnoredMacros = m.IgnoredMacros
	opts.Output = out

	slog.Info("Generating bindings", logfields.Count(len(resolved)), logfields.File(out), logfields.Reason(decision.Reason))
	if err := g.Generate(ctx, opts); err != nil {
		return Result{Reason: decision.Reason, Headers: len(resolved)}, err
	}
	return Result{Reason: decision.Reason, Headers: len(resolved), Output: out}, nil
}
