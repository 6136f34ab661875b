package commands

import (
	"context"
	stderrors "errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"git.home.luguber.info/inful/kirlent/internal/foundation/errors"
	"git.home.luguber.info/inful/kirlent/internal/settings"
	"git.home.luguber.info/inful/kirlent/internal/writer"
)

// The writer commands hand their arguments to the writer's own option
// parser, so writer options and --help behave the same with or without a
// configuration file.

// HTML5Cmd renders with the html5 writer.
type HTML5Cmd struct {
	Args []string `arg:"" optional:"" help:"Writer options, then [<source> [<destination>]]"`
}

func (c *HTML5Cmd) Run(g *Global, cli *CLI) error { return runWriter("html5", c.Args, g, cli) }

// SlidesCmd renders with the slides writer.
type SlidesCmd struct {
	Args []string `arg:"" optional:"" help:"Writer options, then [<source> [<destination>]]"`
}

func (c *SlidesCmd) Run(g *Global, cli *CLI) error { return runWriter("slides", c.Args, g, cli) }

// ImpressJSCmd renders with the impressjs writer.
type ImpressJSCmd struct {
	Args []string `arg:"" optional:"" help:"Writer options, then [<source> [<destination>]]"`
}

func (c *ImpressJSCmd) Run(g *Global, cli *CLI) error { return runWriter("impressjs", c.Args, g, cli) }

// RevealJSCmd renders with the revealjs writer.
type RevealJSCmd struct {
	Args []string `arg:"" optional:"" help:"Writer options, then [<source> [<destination>]]"`
}

func (c *RevealJSCmd) Run(g *Global, cli *CLI) error { return runWriter("revealjs", c.Args, g, cli) }

func runWriter(name string, args []string, g *Global, cli *CLI) error {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()
	return render(ctx, name, args, g, cli)
}

func render(ctx context.Context, name string, args []string, g *Global, cli *CLI) error {
	cfg, err := cli.loadConfig()
	if err != nil {
		return err
	}
	w, err := configuredWriter(cfg, name)
	if err != nil {
		return err
	}

	values, positional, err := w.Parse(args)
	if stderrors.Is(err, settings.ErrHelp) {
		_, _ = fmt.Fprintln(g.stdout(), w.Help())
		return nil
	}
	if err != nil {
		return err
	}
	if len(positional) > 2 {
		return errors.ValidationError(fmt.Sprintf("too many arguments: %q", positional[2:])).
			WithContext("writer", name).
			Build()
	}
	req := writer.Request{Writer: w, Values: values}
	if len(positional) > 0 {
		req.Source = positional[0]
	}
	if len(positional) > 1 {
		req.Destination = positional[1]
	}

	publisher := writer.NewPublisher(
		writer.WithLogger(g.logger()),
		writer.WithStdio(g.stdin(), g.stdout()),
	)
	_, err = publisher.Publish(ctx, req)
	return err
}
