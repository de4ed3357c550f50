package commands

import (
	"context"
	"io"
	"log/slog"
	"os"

	"git.home.luguber.info/inful/ffbuild/internal/config"
	"git.home.luguber.info/inful/ffbuild/internal/envprobe"
	ferrors "git.home.luguber.info/inful/ffbuild/internal/errors"
	"git.home.luguber.info/inful/ffbuild/internal/logfields"
	"git.home.luguber.info/inful/ffbuild/internal/metrics"
	"git.home.luguber.info/inful/ffbuild/internal/pipeline"
	"git.home.luguber.info/inful/ffbuild/internal/process"
)

// BuildOptions are the flags shared by build and watch.
type BuildOptions struct {
	CrateDir    string `name:"crate-dir" help:"Directory holding the header list, shim sources and pristine tree (default: working directory)" type:"path"`
	OutDir      string `name:"out-dir" help:"Output directory; overrides OUT_DIR" type:"path"`
	SourceDir   string `name:"source-dir" help:"Pristine FFmpeg source tree (default: <crate-dir>/ffmpeg-src)" type:"path"`
	Headers     string `name:"headers" help:"Header list file (default: <crate-dir>/headers)" type:"path"`
	Manifest    string `name:"manifest" help:"Build manifest YAML overriding the built-in library layout" type:"path"`
	Jobs        int    `name:"jobs" short:"j" help:"Parallel make jobs (default: logical CPU count)"`
	MetricsFile string `name:"metrics-file" help:"Write Prometheus textfile metrics to this path after the run" type:"path"`
	ReportFile  string `name:"report-file" help:"Write a YAML build report to this path after the run" type:"path"`
	NoDotEnv    bool   `name:"no-dotenv" help:"Do not load .env files from the crate directory"`
	Regenerate  bool   `name:"regenerate" help:"Regenerate bindings even when they exist (same as FFDEV2=2)"`
}

// BuildCmd implements the 'build' command.
type BuildCmd struct {
	BuildOptions `embed:""`
}

func (b *BuildCmd) Run(g *Global, _ *CLI) error {
	return RunBuild(g.Ctx, b.BuildOptions, envprobe.New(), g.Stdout)
}

func (o BuildOptions) overrides() config.Overrides {
	return config.Overrides{
		CrateDir:    o.CrateDir,
		OutDir:      o.OutDir,
		SourceDir:   o.SourceDir,
		HeadersFile: o.Headers,
		Jobs:        o.Jobs,

		ForceRegenerate: o.Regenerate,
	}
}

// Prepare loads env files, snapshots the configuration and loads the manifest.
func Prepare(opts BuildOptions, probe envprobe.Probe) (config.BuildConfig, *config.Manifest, error) {
	if !opts.NoDotEnv {
		dir := opts.CrateDir
		if dir == "" {
			dir = "."
		}
		if _, err := config.LoadDotEnv(dir); err != nil {
			return config.BuildConfig{}, nil, ferrors.Wrap(err, ferrors.CategoryConfiguration, "load env file")
		}
	}

	cfg, err := config.FromEnv(probe, opts.overrides())
	if err != nil {
		return config.BuildConfig{}, nil, err
	}

	var m *config.Manifest
	if opts.Manifest != "" {
		m, err = config.LoadManifest(opts.Manifest)
	} else {
		m, err = config.DefaultManifest()
	}
	if err != nil {
		return config.BuildConfig{}, nil, err
	}
	return cfg, m, nil
}

// RunBuild runs the pipeline once and writes the optional report and metrics.
func RunBuild(ctx context.Context, opts BuildOptions, probe envprobe.Probe, stdout io.Writer) error {
	cfg, m, err := Prepare(opts, probe)
	if err != nil {
		return err
	}

	var rec metrics.Recorder = metrics.NoopRecorder{}
	var prom *metrics.PrometheusRecorder
	if opts.MetricsFile != "" {
		prom = metrics.NewPrometheusRecorder(nil)
		rec = prom
	}

	proc := process.NewExecRunner(os.Environ(), cfg.Path)
	report, runErr := pipeline.NewRunner(proc, stdout).WithRecorder(rec).Run(ctx, cfg, m)

	if opts.ReportFile != "" {
		if err := report.WriteYAML(opts.ReportFile); err != nil {
			slog.Warn("Failed to write build report", logfields.File(opts.ReportFile), logfields.Error(err))
		}
	}
	if prom != nil {
		if err := prom.WriteTextfile(opts.MetricsFile); err != nil {
			slog.Warn("Failed to write metrics", logfields.File(opts.MetricsFile), logfields.Error(err))
		}
	}
	return runErr
}
