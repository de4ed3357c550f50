// Package cache makes the reuse decisions for the two expensive outputs: the
// compiled static archives and the generated bindings.
//
// Both decisions are keyed on file existence alone. No fingerprint of the
// configuration that produced an artifact is recorded, so changing feature
// flags between runs without clearing OUT_DIR reuses artifacts built under the
// old flags. Release builds and the force overrides are the only escape hatches.
package cache

import (
	"os"
	"path/filepath"

	"git.home.luguber.info/inful/ffbuild/internal/config"
)

// Skip reasons reported in logs and the build report.
const (
	ReasonCached         = "artifacts_present"
	ReasonMissing        = "artifacts_missing"
	ReasonRelease        = "release_profile"
	ReasonForceRebuild   = "force_rebuild"
	ReasonBindingsCached = "bindings_present"
	ReasonBindingsAbsent = "bindings_missing"
	ReasonForceRegen     = "force_regenerate"
)

// ArtifactStatus lists, in manifest order, which expected archives exist.
type ArtifactStatus struct {
	Present []string
	Missing []string
}

// AllPresent reports whether every expected artifact exists.
func (s ArtifactStatus) AllPresent() bool {
	return len(s.Missing) == 0 && len(s.Present) > 0
}

// Decision is a reuse verdict plus the reason behind it.
type Decision struct {
	Skip   bool
	Reason string
}

// CheckArtifacts stats every declared archive under root.
func CheckArtifacts(root string, libs []config.StaticLibrary) ArtifactStatus {
	var st ArtifactStatus
	for _, lib := range libs {
		p := filepath.Join(root, lib.Path)
		if exists(p) {
			st.Present = append(st.Present, p)
		} else {
			st.Missing = append(st.Missing, p)
		}
	}
	return st
}

// ShouldSkipBuild decides whether staging, configure and make can be skipped.
// Skipping requires every artifact to exist, a non-release profile and no
// force-rebuild override.
func ShouldSkipBuild(cfg config.BuildConfig, st ArtifactStatus) Decision {
	switch {
	case !st.AllPresent():
		return Decision{Skip: false, Reason: ReasonMissing}
	case cfg.IsRelease():
		return Decision{Skip: false, Reason: ReasonRelease}
	case cfg.ForceRebuild:
		return Decision{Skip: false, Reason: ReasonForceRebuild}
	default:
		return Decision{Skip: true, Reason: ReasonCached}
	}
}

// ShouldSkipBindings decides whether binding generation can be skipped: the
// output exists and no force-regenerate override is set.
func ShouldSkipBindings(cfg config.BuildConfig, output string) Decision {
	switch {
	case !exists(output):
		return Decision{Skip: false, Reason: ReasonBindingsAbsent}
	case cfg.ForceRegenerate:
		return Decision{Skip: false, Reason: ReasonForceRegen}
	default:
		return Decision{Skip: true, Reason: ReasonBindingsCached}
	}
}

func exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
