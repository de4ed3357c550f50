package commands

import (
	"context"
	"log/slog"
	"path/filepath"

	"git.home.luguber.info/inful/ffbuild/internal/envprobe"
	"git.home.luguber.info/inful/ffbuild/internal/logfields"
	"git.home.luguber.info/inful/ffbuild/internal/watch"
)

// WatchCmd implements the 'watch' command.
type WatchCmd struct {
	BuildOptions `embed:""`
}

func (w *WatchCmd) Run(g *Global, _ *CLI) error {
	probe := envprobe.New()
	cfg, _, err := Prepare(w.BuildOptions, probe)
	if err != nil {
		return err
	}

	rebuild := func(ctx context.Context, changed string) {
		opts := rerunOptions(w.BuildOptions, cfg.HeadersFile, changed)
		if changed != "" {
			slog.Info("Rebuilding after change", logfields.File(changed), slog.Bool("regenerate", opts.Regenerate))
		}
		if err := RunBuild(ctx, opts, probe, g.Stdout); err != nil {
			slog.Error("Build failed; waiting for the next change", logfields.Error(err))
		}
	}

	watcher, err := watch.New([]string{cfg.HeadersFile, w.Manifest}, rebuild)
	if err != nil {
		return err
	}
	rebuild(g.Ctx, "")
	return watcher.Run(g.Ctx)
}

// rerunOptions returns the options for a rerun triggered by changed. Bindings
// are cached on existence alone, so an edit to the header list forces them to
// be regenerated.
func rerunOptions(base BuildOptions, headersFile, changed string) BuildOptions {
	if changed == "" {
		return base
	}
	a, errA := filepath.Abs(headersFile)
	b, errB := filepath.Abs(changed)
	if errA == nil && errB == nil && a == b {
		base.Regenerate = true
	}
	return base
}
