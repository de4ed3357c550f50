package pipeline

import (
	"log/slog"

	"git.home.luguber.info/inful/ffbuild/internal/cache"
	"git.home.luguber.info/inful/ffbuild/internal/config"
	"git.home.luguber.info/inful/ffbuild/internal/link"
	"git.home.luguber.info/inful/ffbuild/internal/metrics"
	"git.home.luguber.info/inful/ffbuild/internal/process"
)

// State is the mutable per-run state shared by stages. Config and Manifest
// are read-only snapshots taken before the run starts.
type State struct {
	Config   config.BuildConfig
	Manifest *config.Manifest
	RunID    string

	Proc     process.Runner
	Emitter  *link.Emitter
	Recorder metrics.Recorder
	Logger   *slog.Logger

	Artifacts cache.ArtifactStatus
	Build     cache.Decision

	Report *Report
}

// SkipBuild reports whether the cache check decided the native build can be skipped.
func (s *State) SkipBuild() bool { return s.Build.Skip }
