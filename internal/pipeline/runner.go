// Package pipeline sequences the build stages: cache check, staging,
// configure, compile, link emission, binding generation and the shim.
package pipeline

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"git.home.luguber.info/inful/ffbuild/internal/config"
	ferrors "git.home.luguber.info/inful/ffbuild/internal/errors"
	"git.home.luguber.info/inful/ffbuild/internal/link"
	"git.home.luguber.info/inful/ffbuild/internal/logfields"
	"git.home.luguber.info/inful/ffbuild/internal/metrics"
	"git.home.luguber.info/inful/ffbuild/internal/process"
)

// Runner executes the full pipeline for one configuration snapshot.
type Runner struct {
	Proc     process.Runner
	Recorder metrics.Recorder
	// Out receives link directives. It is normally stdout.
	Out    io.Writer
	Logger *slog.Logger
}

// NewRunner returns a Runner with a no-op recorder and the default logger.
func NewRunner(proc process.Runner, out io.Writer) *Runner {
	return &Runner{Proc: proc, Recorder: metrics.NoopRecorder{}, Out: out, Logger: slog.Default()}
}

// WithRecorder sets the metrics recorder.
func (r *Runner) WithRecorder(rec metrics.Recorder) *Runner {
	if rec == nil {
		rec = metrics.NoopRecorder{}
	}
	r.Recorder = rec
	return r
}

// DefaultStages returns the canonical stage order.
func DefaultStages() []StageDef {
	skipBuild := func(st *State) bool { return st.SkipBuild() }
	return NewPipeline().
		Add(StageCheckCache, stageCheckCache).
		Add(StageStageSource, stageSource).
		AddUnless(skipBuild, StageConfigure, stageConfigure).
		AddUnless(skipBuild, StageCompile, stageCompile).
		Add(StageEmitLink, stageEmitLink).
		Add(StageGenerateBindings, stageGenerateBindings).
		Add(StageCompileShim, stageCompileShim).
		Build()
}

// Run executes the default stages. The returned report is always non-nil.
func (r *Runner) Run(ctx context.Context, cfg config.BuildConfig, m *config.Manifest) (*Report, error) {
	return r.RunWith(ctx, cfg, m, DefaultStages())
}

// RunWith executes defs in order and stops at the first error.
func (r *Runner) RunWith(ctx context.Context, cfg config.BuildConfig, m *config.Manifest, defs []StageDef) (*Report, error) {
	runID := uuid.NewString()
	logger := r.Logger
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With(logfields.RunID(runID))
	rec := r.Recorder
	if rec == nil {
		rec = metrics.NoopRecorder{}
	}

	st := &State{
		Config:   cfg,
		Manifest: m,
		RunID:    runID,
		Proc:     r.Proc,
		Emitter:  link.NewEmitter(r.Out),
		Recorder: rec,
		Logger:   logger,
		Report:   newReport(runID),
	}
	st.Report.Profile = cfg.Profile
	st.Report.StagedRoot = cfg.StagedRoot()

	logger.Info("Build started", logfields.Profile(cfg.Profile), logfields.Path(cfg.StagedRoot()), logfields.Jobs(cfg.Jobs))
	err := RunStages(ctx, st, defs)

	for _, d := range st.Emitter.Emitted() {
		st.Report.Directives = append(st.Report.Directives, d.String())
	}

	outcome := OutcomeSuccess
	outcomeLabel := metrics.OutcomeSuccess
	if err != nil {
		outcome = OutcomeFailed
		outcomeLabel = metrics.OutcomeFailed
		st.Report.Error = err.Error()
		st.Report.ErrorCategory = string(ferrors.GetCategory(err))
		var se *StageError
		if errors.As(err, &se) {
			st.Report.FailedStage = se.Stage
		}
	}
	st.Report.finish(outcome)
	rec.ObserveBuildDuration(st.Report.Duration)
	rec.IncBuildOutcome(outcomeLabel)

	if err != nil {
		logger.Error("Build failed", logfields.Error(err), logfields.DurationMS(float64(st.Report.Duration.Milliseconds())))
	} else {
		logger.Info("Build finished", logfields.DurationMS(float64(st.Report.Duration.Milliseconds())))
	}
	return st.Report, err
}

// RunStages executes stages in order, recording timing and stopping on the
// first error.
func RunStages(ctx context.Context, st *State, defs []StageDef) error {
	for _, def := range defs {
		select {
		case <-ctx.Done():
			st.Report.record(def.Name, StageResultFatal, 0)
			st.Recorder.IncStageResult(string(def.Name), metrics.ResultFatal)
			return &StageError{Stage: def.Name, Err: canceled(ctx, nil)}
		default:
		}

		if def.Skip != nil && def.Skip(st) {
			st.Logger.Info("Stage skipped", logfields.Stage(string(def.Name)), logfields.Reason(st.Build.Reason))
			st.Report.record(def.Name, StageResultSkipped, 0)
			st.Recorder.IncStageResult(string(def.Name), metrics.ResultSkipped)
			continue
		}

		t0 := time.Now()
		err := def.Fn(ctx, st)
		dur := time.Since(t0)
		st.Recorder.ObserveStageDuration(string(def.Name), dur)

		if err != nil {
			if ctx.Err() != nil {
				err = canceled(ctx, err)
			}
			st.Report.record(def.Name, StageResultFatal, dur)
			st.Recorder.IncStageResult(string(def.Name), metrics.ResultFatal)
			return &StageError{Stage: def.Name, Err: err}
		}
		st.Report.record(def.Name, StageResultSuccess, dur)
		st.Recorder.IncStageResult(string(def.Name), metrics.ResultSuccess)
		st.Logger.Debug("Stage complete", logfields.Stage(string(def.Name)), logfields.DurationMS(float64(dur.Milliseconds())))
	}
	return nil
}

// canceled reports an interrupted run as internal, whatever the interrupted
// tool returned. The tool's captured output is kept.
func canceled(ctx context.Context, stageErr error) error {
	be := ferrors.InternalError("build canceled", ctx.Err())
	if stageErr != nil {
		be.WithContext("stage_error", stageErr.Error())
		if inner, ok := ferrors.AsBuildError(stageErr); ok {
			be.WithOutput(inner.Output)
		}
	}
	return be
}
