// Package version holds build metadata stamped in at link time:
//
//	go build -ldflags "-X git.home.luguber.info/inful/ffbuild/internal/version.Version=v0.3.0"
package version

import "fmt"

var (
	Version   = "unknown"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

// String renders the one-line description shown by `ffbuild version`.
func String() string {
	return fmt.Sprintf("ffbuild %s (commit %s, built %s)", Version, GitCommit, BuildTime)
}
