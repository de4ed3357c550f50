package commands

import (
	"fmt"

	"git.home.luguber.info/inful/ffbuild/internal/version"
)

// VersionCmd prints build metadata.
type VersionCmd struct{}

func (v *VersionCmd) Run(g *Global, _ *CLI) error {
	_, err := fmt.Fprintln(g.Stdout, version.String())
	return err
}
