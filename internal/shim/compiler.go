// Package shim compiles the small local C adapter sources against the staged
// tree's headers into one static archive. It runs on every invocation.
package shim

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"

	"git.home.luguber.info/inful/ffbuild/internal/config"
	ferrors "git.home.luguber.info/inful/ffbuild/internal/errors"
	"git.home.luguber.info/inful/ffbuild/internal/link"
	"git.home.luguber.info/inful/ffbuild/internal/logfields"
	"git.home.luguber.info/inful/ffbuild/internal/process"
)

// Compiler drives the C compiler and archiver.
type Compiler struct {
	Proc process.Runner
	CC   string
	AR   string
}

// NewCompiler returns a Compiler using the tools named in cfg.
func NewCompiler(proc process.Runner, cfg config.BuildConfig) *Compiler {
	return &Compiler{Proc: proc, CC: cfg.CC, AR: cfg.AR}
}

// Result describes the produced archive.
type Result struct {
	Archive string
	Objects []string
	// Directives link the archive into the consumer.
	Directives []link.Directive
}

// ArchivePath is where the archive for shim name is written.
func ArchivePath(outDir, name string) string {
	return filepath.Join(outDir, "lib"+name+".a")
}

// Compile builds every source in sc (relative to crateDir) with include as an
// include path, then archives the objects into outDir. Any tool failure is fatal.
func (c *Compiler) Compile(ctx context.Context, crateDir, include, outDir string, sc config.ShimConfig) (Result, error) {
	if len(sc.Sources) == 0 {
		return Result{}, nil
	}

	objDir := filepath.Join(outDir, "shim")
	if err := os.MkdirAll(objDir, 0o750); err != nil {
		return Result{}, ferrors.InternalError("create shim object directory", err)
	}

	objects := make([]string, 0, len(sc.Sources))
	for _, src := range sc.Sources {
		obj := filepath.Join(objDir, sc.ObjectName(src))
		cmd := process.Command{
			Program: c.CC,
			Args:    []string{"-c", "-fPIC", "-I" + include, filepath.Join(crateDir, src), "-o", obj},
		}
		slog.Debug("Compiling shim source", logfields.File(src))
		res := c.Proc.Run(ctx, cmd)
		if !res.Success {
			return Result{}, ferrors.ToolFailed("shim compile", res.Err, res.Combined()).
				WithContext("source", src).
				WithContext("command", cmd.String())
		}
		objects = append(objects, obj)
	}

	archive := ArchivePath(outDir, sc.Name)
	_ = os.Remove(archive)
	cmd := process.Command{Program: c.AR, Args: append([]string{"crs", archive}, objects...)}
	res := c.Proc.Run(ctx, cmd)
	if !res.Success {
		return Result{}, ferrors.ToolFailed("shim archive", res.Err, res.Combined()).
			WithContext("command", cmd.String())
	}

	slog.Info("Compiled shim archive", logfields.File(archive), logfields.Count(len(objects)))
	return Result{
		Archive:    archive,
		Objects:    objects,
		Directives: []link.Directive{link.SearchNative(outDir), link.StaticLib(sc.Name)},
	}, nil
}
