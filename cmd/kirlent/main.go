package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/alecthomas/kong"

	"git.home.luguber.info/inful/kirlent/cmd/kirlent/commands"
	"git.home.luguber.info/inful/kirlent/internal/foundation/errors"
	"git.home.luguber.info/inful/kirlent/internal/version"
)

func main() {
	cli := &commands.CLI{}
	parser := kong.Parse(cli,
		kong.Name("kirlent"),
		kong.Description("Render docutils XML or Markdown documents as HTML5 pages and slide decks."),
		kong.UsageOnError(),
		kong.Vars{"version": fmt.Sprintf("%s (commit %s, built %s)", version.Version, version.GitCommit, version.BuildTime)},
	)

	global := &commands.Global{Logger: slog.Default(), Stdout: os.Stdout, Stderr: os.Stderr}
	if err := parser.Run(global, cli); err != nil {
		adapter := errors.NewCLIErrorAdapter(cli.Verbose, slog.Default()).
			WithProgram(commands.ProgramName(parser.Command()))
		adapter.HandleError(err)
	}
}
