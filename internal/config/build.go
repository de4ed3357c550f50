package config

import (
	"os"
	"path/filepath"
	"runtime"

	"git.home.luguber.info/inful/ffbuild/internal/envprobe"
)

// Profile names recognised in PROFILE.
const (
	ProfileRelease = "release"
	ProfileDebug   = "debug"
)

// Default file and directory names relative to the crate root / OUT_DIR.
const (
	DefaultSourceDirName = "ffmpeg-src"
	DefaultHeadersFile   = "headers"
	DefaultBindingsFile  = "bindings_ffmpeg.rs"
)

// BuildConfig is an immutable snapshot of every environment signal the
// pipeline consults. It is captured once by FromEnv and passed explicitly to
// each stage; nothing downstream reads the environment again.
type BuildConfig struct {
	Profile  string
	OptLevel string

	GPL  bool
	X264 bool

	// ForceRebuild disables artifact reuse (FFDEV1=1).
	ForceRebuild bool
	// ForceRegenerate disables bindings reuse (FFDEV2=2).
	ForceRegenerate bool

	// CrateDir is the directory holding the pristine source, headers list and shims.
	CrateDir    string
	OutDir      string
	SourceDir   string
	HeadersFile string

	PkgConfigPath    string
	HasPkgConfigPath bool
	X264Libs         string
	X264PkgConfig    string

	Path string
	CC   string
	AR   string
	Jobs int
}

// Overrides lets the CLI replace individual snapshot values. Empty fields keep
// the environment-derived value.
type Overrides struct {
	CrateDir    string
	OutDir      string
	SourceDir   string
	HeadersFile string
	Jobs        int
	// ForceRegenerate turns the bindings override on regardless of FFDEV2.
	ForceRegenerate bool
}

// FromEnv snapshots the build configuration from p. PATH and OUT_DIR are
// required; the x264 variables are required only when the feature is on.
func FromEnv(p envprobe.Probe, o Overrides) (BuildConfig, error) {
	cfg := BuildConfig{
		OptLevel:        p.GetOr(envprobe.KeyOptLevel, ""),
		GPL:             p.Has(envprobe.KeyFeatureGPL),
		X264:            p.Has(envprobe.KeyFeatureX264),
		ForceRebuild:    p.Equals(envprobe.KeyForceRebuild, envprobe.ForceRebuildValue),
		ForceRegenerate: p.Equals(envprobe.KeyForceRegenerate, envprobe.ForceRegenerateValue),
		CC:              p.GetOr(envprobe.KeyCC, "cc"),
		AR:              p.GetOr(envprobe.KeyAR, "ar"),
		Jobs:            runtime.NumCPU(),
	}
	switch {
	case p.IsProfile(ProfileRelease):
		cfg.Profile = ProfileRelease
	case p.IsProfile(ProfileDebug):
		cfg.Profile = ProfileDebug
	default:
		cfg.Profile, _ = p.Lookup(envprobe.KeyProfile)
	}

	var err error
	if cfg.Path, err = p.Require(envprobe.KeyPath); err != nil {
		return BuildConfig{}, err
	}

	cfg.OutDir = o.OutDir
	if cfg.OutDir == "" {
		if cfg.OutDir, err = p.Require(envprobe.KeyOutDir); err != nil {
			return BuildConfig{}, err
		}
	}

	cfg.CrateDir = o.CrateDir
	if cfg.CrateDir == "" {
		if cfg.CrateDir, err = os.Getwd(); err != nil {
			return BuildConfig{}, err
		}
	}

	cfg.SourceDir = o.SourceDir
	if cfg.SourceDir == "" {
		cfg.SourceDir = filepath.Join(cfg.CrateDir, DefaultSourceDirName)
	}
	cfg.HeadersFile = o.HeadersFile
	if cfg.HeadersFile == "" {
		cfg.HeadersFile = filepath.Join(cfg.CrateDir, DefaultHeadersFile)
	}
	if o.Jobs > 0 {
		cfg.Jobs = o.Jobs
	}
	if o.ForceRegenerate {
		cfg.ForceRegenerate = true
	}

	cfg.PkgConfigPath, cfg.HasPkgConfigPath = p.Lookup(envprobe.KeyPkgConfigPath)

	if cfg.X264 {
		if cfg.X264Libs, err = p.Require(envprobe.KeyX264Libs); err != nil {
			return BuildConfig{}, err
		}
		if cfg.X264PkgConfig, err = p.Require(envprobe.KeyX264PkgConfig); err != nil {
			return BuildConfig{}, err
		}
	}

	return cfg, nil
}

// IsRelease reports whether the snapshot was taken for a release profile.
func (c BuildConfig) IsRelease() bool { return c.Profile == ProfileRelease }

// IsDebug reports whether the snapshot was taken for a debug profile.
func (c BuildConfig) IsDebug() bool { return c.Profile == ProfileDebug }

// FastDebug reports the debug + opt-level 0 combination that enables the
// quick-compile configure flags.
func (c BuildConfig) FastDebug() bool { return c.IsDebug() && c.OptLevel == "0" }

// StagedRoot is the working copy of the source tree under OUT_DIR.
func (c BuildConfig) StagedRoot() string {
	return filepath.Join(c.OutDir, DefaultSourceDirName)
}

// BindingsPath is the generated bindings artifact under OUT_DIR.
func (c BuildConfig) BindingsPath() string {
	return filepath.Join(c.OutDir, DefaultBindingsFile)
}
