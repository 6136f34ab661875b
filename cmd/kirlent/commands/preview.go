package commands

import (
	"context"
	stderrors "errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"git.home.luguber.info/inful/kirlent/internal/foundation/errors"
	"git.home.luguber.info/inful/kirlent/internal/preview"
	"git.home.luguber.info/inful/kirlent/internal/settings"
)

// PreviewCmd serves one document with live reload. Writer options follow
// the source after "--".
type PreviewCmd struct {
	Source   string        `arg:"" help:"Source document to watch"`
	Options  []string      `arg:"" optional:"" passthrough:"" help:"Writer options"`
	Writer   string        `short:"w" help:"Writer used for rendering (default from config, else slides)"`
	Addr     string        `help:"Listen address (default from config, else 127.0.0.1:8000)"`
	Debounce time.Duration `help:"Quiet period before re-rendering after a change"`
}

func (p *PreviewCmd) Run(g *Global, cli *CLI) error {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	srv, err := p.server(g, cli)
	if err != nil || srv == nil {
		return err
	}
	return srv.Run(ctx)
}

// server builds the preview server; it returns nil without error when the
// writer help was printed instead.
func (p *PreviewCmd) server(g *Global, cli *CLI) (*preview.Server, error) {
	cfg, err := cli.loadConfig()
	if err != nil {
		return nil, err
	}
	name := p.Writer
	if name == "" {
		name = cfg.Preview.Writer
	}
	w, err := configuredWriter(cfg, name)
	if err != nil {
		return nil, err
	}
	values, positional, err := w.Parse(p.Options)
	if stderrors.Is(err, settings.ErrHelp) {
		_, _ = fmt.Fprintln(g.stdout(), w.Help())
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if len(positional) > 0 {
		return nil, errors.ValidationError(fmt.Sprintf("unexpected arguments: %q", positional)).Build()
	}

	addr := p.Addr
	if addr == "" {
		addr = cfg.Preview.Addr
	}
	debounce := p.Debounce
	if debounce <= 0 {
		debounce = cfg.Preview.Debounce
	}
	return preview.New(preview.Config{
		Addr:     addr,
		Debounce: debounce,
		Source:   p.Source,
		Writer:   w,
		Values:   values,
		Logger:   g.logger(),
	})
}
