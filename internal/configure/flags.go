// Package configure composes the FFmpeg configure flag set from the build
// configuration and runs the configure script, with one retry for a missing
// or outdated assembler.
package configure

import (
	"os"

	"git.home.luguber.info/inful/ffbuild/internal/config"
	"git.home.luguber.info/inful/ffbuild/internal/envprobe"
	"git.home.luguber.info/inful/ffbuild/internal/link"
)

// Configure flags.
const (
	FlagDisablePrograms      = "--disable-programs"
	FlagDisableDoc           = "--disable-doc"
	FlagDisableAutodetect    = "--disable-autodetect"
	FlagEnableGPL            = "--enable-gpl"
	FlagEnableLibx264        = "--enable-libx264"
	FlagDisableOptimizations = "--disable-optimizations"
	FlagEnableDebug          = "--enable-debug"
	FlagDisableStripping     = "--disable-stripping"
	FlagDisableX86Asm        = "--disable-x86asm"
)

// FlagSet is the ordered list of flags passed to configure.
type FlagSet []string

// Contains reports whether flag is in the set.
func (f FlagSet) Contains(flag string) bool {
	for _, v := range f {
		if v == flag {
			return true
		}
	}
	return false
}

// Plan is everything a configure invocation needs: flags, child environment,
// and directives the consumer must receive because of enabled features.
type Plan struct {
	Flags      FlagSet
	Env        map[string]string
	Directives []link.Directive
}

// Compose builds a fresh Plan from cfg.
func Compose(cfg config.BuildConfig) Plan {
	p := Plan{
		Flags: FlagSet{FlagDisablePrograms, FlagDisableDoc, FlagDisableAutodetect},
		Env:   map[string]string{},
	}

	pkgConfig, hasPkgConfig := cfg.PkgConfigPath, cfg.HasPkgConfigPath

	if cfg.GPL {
		p.Flags = append(p.Flags, FlagEnableGPL)
	}

	if cfg.X264 {
		p.Flags = append(p.Flags, FlagEnableLibx264)
		p.Directives = append(p.Directives,
			link.SearchNative(cfg.X264Libs),
			link.StaticLib("x264"))
		// x264's metadata goes first so it wins on name collisions.
		if hasPkgConfig {
			pkgConfig = cfg.X264PkgConfig + string(os.PathListSeparator) + pkgConfig
		} else {
			pkgConfig = cfg.X264PkgConfig
		}
		hasPkgConfig = true
	}

	if cfg.FastDebug() {
		p.Flags = append(p.Flags, FlagDisableOptimizations, FlagEnableDebug, FlagDisableStripping)
	}

	if hasPkgConfig {
		p.Env[envprobe.KeyPkgConfigPath] = pkgConfig
	}
	return p
}
