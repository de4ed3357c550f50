// Package staging materialises the working copy of the pristine source tree
// that configure and make operate on.
package staging

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	ferrors "git.home.luguber.info/inful/ffbuild/internal/errors"
	"git.home.luguber.info/inful/ffbuild/internal/logfields"
	"git.home.luguber.info/inful/ffbuild/internal/process"
)

// Stager copies Source into Root through the process runner.
type Stager struct {
	Source string
	Root   string
	Runner process.Runner
}

// New returns a Stager for the given pristine tree and staged root.
func New(source, root string, runner process.Runner) *Stager {
	return &Stager{Source: source, Root: root, Runner: runner}
}

// NeedsCopy reports whether a full copy is required: the staged root is
// absent, or the build is not being skipped.
func (s *Stager) NeedsCopy(skipBuild bool) bool {
	if _, err := os.Stat(s.Root); err != nil {
		return true
	}
	return !skipBuild
}

// Stage performs a full recursive copy when NeedsCopy holds, overwriting what
// is already there. It reports whether a copy happened. Any failure is fatal:
// without a source tree nothing downstream can run.
func (s *Stager) Stage(ctx context.Context, skipBuild bool) (bool, error) {
	if !s.NeedsCopy(skipBuild) {
		slog.Debug("Staged source tree reused", logfields.Path(s.Root))
		return false, nil
	}

	info, err := os.Stat(s.Source)
	if err != nil || !info.IsDir() {
		return false, ferrors.SourceTreeMissing(s.Source)
	}
	if err := os.MkdirAll(s.Root, 0o750); err != nil {
		return false, ferrors.Wrap(err, ferrors.CategoryExternalTool, "create staged root").
			WithContext("path", s.Root)
	}

	// "src/." copies the contents of src into an existing root instead of
	// nesting src inside it.
	cmd := process.Command{
		Program: "cp",
		Args:    []string{"-R", filepath.Clean(s.Source) + string(filepath.Separator) + ".", s.Root},
	}
	slog.Info("Staging source tree", logfields.Path(s.Root), slog.String("source", s.Source))
	res := s.Runner.Run(ctx, cmd)
	if !res.Success {
		return false, ferrors.ToolFailed("copy of source tree", res.Err, res.Combined()).
			WithContext("command", cmd.String())
	}

	if _, err := os.Stat(s.Root); err != nil {
		return false, ferrors.Wrap(fmt.Errorf("staged root missing after copy: %w", err),
			ferrors.CategoryExternalTool, "copy of source tree failed")
	}
	return true, nil
}
