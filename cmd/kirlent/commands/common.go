// Package commands implements the kirlent command line.
package commands

import (
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/alecthomas/kong"

	"git.home.luguber.info/inful/kirlent/internal/config"
	"git.home.luguber.info/inful/kirlent/internal/writer"
)

// Global carries process-wide handles into the commands.
type Global struct {
	Logger *slog.Logger
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
}

// CLI definition & global flags.
type CLI struct {
	Config  string           `short:"c" type:"path" help:"Configuration file path (default: KIRLENT_CONFIG env, else ./kirlent.yaml)"`
	Verbose bool             `short:"v" help:"Enable verbose logging"`
	Version kong.VersionFlag `name:"version" help:"Show version and exit"`

	HTML5     HTML5Cmd     `cmd:"" name:"html5" passthrough:"" help:"Render a document as an HTML5 page"`
	Slides    SlidesCmd    `cmd:"" passthrough:"" help:"Render a document as a plain HTML slide deck"`
	ImpressJS ImpressJSCmd `cmd:"" name:"impressjs" passthrough:"" help:"Render a document as an impress.js presentation"`
	RevealJS  RevealJSCmd  `cmd:"" name:"revealjs" passthrough:"" help:"Render a document as a reveal.js presentation"`
	Tree      TreeCmd      `cmd:"" help:"Print the document tree read from a source"`
	Preview   PreviewCmd   `cmd:"" help:"Serve a rendered document and re-render it on change"`
	Writers   WritersCmd   `cmd:"" help:"List the available writers"`
}

// AfterApply runs after flag parsing; setup logging once.
// nolint:unparam // AfterApply currently never returns an error.
func (c *CLI) AfterApply() error {
	level := slog.LevelInfo
	if c.Verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)
	return nil
}

// ProgramName turns a kong command path such as "slides <args> ..." into the
// diagnostic prefix "kirlent slides".
func ProgramName(command string) string {
	fields := strings.Fields(command)
	if len(fields) == 0 {
		return "kirlent"
	}
	return "kirlent " + fields[0]
}

func (c *CLI) loadConfig() (*config.Config, error) {
	path := config.Locate(c.Config)
	if path == "" {
		return config.Default(), nil
	}
	return config.Load(path)
}

// configuredWriter looks up a writer and applies the option defaults from
// the configuration file.
func configuredWriter(cfg *config.Config, name string) (*writer.Writer, error) {
	w, err := writer.Lookup(name)
	if err != nil {
		return nil, err
	}
	return w.WithDefaults(cfg.WriterDefaults(name), cfg.Mode())
}

func (g *Global) logger() *slog.Logger {
	if g == nil || g.Logger == nil {
		return slog.Default()
	}
	return g.Logger
}

func (g *Global) stdout() io.Writer {
	if g == nil || g.Stdout == nil {
		return os.Stdout
	}
	return g.Stdout
}

func (g *Global) stdin() io.Reader {
	if g == nil || g.Stdin == nil {
		return os.Stdin
	}
	return g.Stdin
}
