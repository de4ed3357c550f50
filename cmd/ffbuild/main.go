package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/alecthomas/kong"

	"git.home.luguber.info/inful/ffbuild/cmd/ffbuild/commands"
	ferrors "git.home.luguber.info/inful/ffbuild/internal/errors"
	"git.home.luguber.info/inful/ffbuild/internal/version"
)

func main() {
	var cli commands.CLI
	parser := kong.Parse(&cli,
		kong.Name("ffbuild"),
		kong.Description("Build the vendored FFmpeg tree and emit link metadata and bindings."),
		kong.Vars{"version": version.Version},
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err := parser.Run(&commands.Global{Ctx: ctx, Logger: slog.Default(), Stdout: os.Stdout}, &cli)
	stop()
	ferrors.NewCLIErrorAdapter(cli.Verbose, slog.Default()).HandleError(err)
}
