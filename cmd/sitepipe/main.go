package main

import (
	"log/slog"
	"os"

	"github.com/alecthomas/kong"

	"git.home.luguber.info/inful/sitepipe/cmd/sitepipe/commands"
	"git.home.luguber.info/inful/sitepipe/internal/logfields"
)

func main() {
	var cli commands.CLI
	ctx := kong.Parse(&cli,
		kong.Name("sitepipe"),
		kong.Description("Minimal static-content build pipeline: read a tree, run stages, write the result."),
		kong.UsageOnError(),
	)

	commands.SetupLogging(cli.Verbose)

	if err := ctx.Run(&cli); err != nil {
		slog.Error("Command failed", logfields.Error(err))
		os.Exit(1)
	}
}
