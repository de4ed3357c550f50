package pipeline

import (
	"context"

	"git.home.luguber.info/inful/ffbuild/internal/bindings"
	"git.home.luguber.info/inful/ffbuild/internal/cache"
	"git.home.luguber.info/inful/ffbuild/internal/compile"
	"git.home.luguber.info/inful/ffbuild/internal/configure"
	"git.home.luguber.info/inful/ffbuild/internal/link"
	"git.home.luguber.info/inful/ffbuild/internal/logfields"
	"git.home.luguber.info/inful/ffbuild/internal/shim"
	"git.home.luguber.info/inful/ffbuild/internal/staging"
)

func stageCheckCache(_ context.Context, st *State) error {
	root := st.Config.StagedRoot()
	st.Artifacts = cache.CheckArtifacts(root, st.Manifest.StaticLibs)
	st.Build = cache.ShouldSkipBuild(st.Config, st.Artifacts)
	st.Report.BuildSkipped = st.Build.Skip
	st.Report.BuildReason = st.Build.Reason
	st.Recorder.IncCacheDecision("build", st.Build.Skip)
	st.Logger.Info("Artifact cache checked",
		logfields.Reason(st.Build.Reason),
		logfields.Count(len(st.Artifacts.Missing)))
	return nil
}

func stageSource(ctx context.Context, st *State) error {
	s := staging.New(st.Config.SourceDir, st.Config.StagedRoot(), st.Proc)
	copied, err := s.Stage(ctx, st.Build.Skip)
	st.Report.SourceCopied = copied
	return err
}

func stageConfigure(ctx context.Context, st *State) error {
	plan := configure.Compose(st.Config)
	out, err := configure.NewRunner(st.Proc).Run(ctx, st.Config.StagedRoot(), plan)
	st.Report.ConfigureFlags = out.Flags
	st.Report.ConfigureAttempts = out.Attempts
	st.Report.ConfigureRetried = out.Retried
	if out.Retried {
		st.Recorder.IncConfigureRetry(configure.MissingAssembler.String())
	}
	return err
}

func stageCompile(ctx context.Context, st *State) error {
	return compile.NewRunner(st.Proc).Run(ctx, st.Config.StagedRoot(), st.Config.Jobs)
}

// stageEmitLink emits the library descriptor plus the feature-dependent
// directives. Both depend only on the configuration, so a cached run emits
// the same lines as a full one.
func stageEmitLink(_ context.Context, st *State) error {
	ds := link.Descriptor(st.Config.StagedRoot(), st.Manifest)
	ds = append(ds, configure.Compose(st.Config).Directives...)
	return st.Emitter.Emit(ds...)
}

func stageGenerateBindings(ctx context.Context, st *State) error {
	if err := st.Emitter.Emit(link.RerunIfChanged(st.Config.HeadersFile)); err != nil {
		return err
	}
	res, err := bindings.NewGenerator(st.Proc).Run(ctx, st.Config, st.Manifest)
	st.Report.BindingsSkipped = res.Skipped
	st.Report.BindingsReason = res.Reason
	st.Report.BindingsHeaders = res.Headers
	st.Report.BindingsPath = res.Output
	if err == nil {
		st.Recorder.IncCacheDecision("bindings", res.Skipped)
	}
	return err
}

func stageCompileShim(ctx context.Context, st *State) error {
	c := shim.NewCompiler(st.Proc, st.Config)
	res, err := c.Compile(ctx, st.Config.CrateDir, st.Config.StagedRoot(), st.Config.OutDir, st.Manifest.Shim)
	if err != nil {
		return err
	}
	st.Report.ShimArchive = res.Archive
	return st.Emitter.Emit(res.Directives...)
}
