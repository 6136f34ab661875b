package writer

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"git.home.luguber.info/inful/kirlent/internal/doctree"
	"git.home.luguber.info/inful/kirlent/internal/foundation/errors"
	"git.home.luguber.info/inful/kirlent/internal/logfields"
	"git.home.luguber.info/inful/kirlent/internal/metrics"
	"git.home.luguber.info/inful/kirlent/internal/reader"
	"git.home.luguber.info/inful/kirlent/internal/settings"
	"git.home.luguber.info/inful/kirlent/internal/translator"
)

// Request names what to publish. An empty or "-" Source reads stdin; an
// empty or "-" Destination writes stdout.
type Request struct {
	Writer      *Writer
	Values      settings.Values
	Source      string
	Destination string
}

// Result is a rendered document.
type Result struct {
	Writer   string
	Parts    *translator.Parts
	Output   []byte
	Settings *settings.Settings
	// Assets are bundled stylesheets linked from the output.
	Assets []string

	copies []asset
}

// Publisher renders documents. It is safe for concurrent use; every render
// gets its own translator.
type Publisher struct {
	recorder metrics.Recorder
	log      *slog.Logger
	stdin    io.Reader
	stdout   io.Writer
}

// Option configures a Publisher.
type Option func(*Publisher)

// WithRecorder reports render metrics to r.
func WithRecorder(r metrics.Recorder) Option {
	return func(p *Publisher) {
		if r != nil {
			p.recorder = r
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(p *Publisher) {
		if l != nil {
			p.log = l
		}
	}
}

// WithStdio replaces standard input and output.
func WithStdio(in io.Reader, out io.Writer) Option {
	return func(p *Publisher) {
		p.stdin, p.stdout = in, out
	}
}

// NewPublisher returns a Publisher with a noop recorder and the default logger.
func NewPublisher(opts ...Option) *Publisher {
	p := &Publisher{
		recorder: metrics.NoopRecorder{},
		log:      slog.Default(),
		stdin:    os.Stdin,
		stdout:   os.Stdout,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Publish renders the request and writes the destination.
func (p *Publisher) Publish(ctx context.Context, req Request) (*Result, error) {
	res, err := p.Render(ctx, req)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, errors.WrapError(err, errors.CategoryRuntime, "publish canceled").Build()
	}
	if err := p.write(req.Destination, res); err != nil {
		return nil, err
	}
	return res, nil
}

// Render reads and renders the source without writing anything.
func (p *Publisher) Render(ctx context.Context, req Request) (res *Result, err error) {
	if req.Writer == nil {
		return nil, errors.InternalError("publish request has no writer").Build()
	}
	name := req.Writer.Name
	log := p.log.With(logfields.Writer(name), logfields.Source(sourceName(req.Source)))
	start := time.Now()
	defer func() {
		elapsed := time.Since(start)
		p.recorder.ObserveRenderDuration(name, elapsed)
		switch {
		case err == nil:
			p.recorder.IncRenderOutcome(name, metrics.OutcomeSuccess)
			p.recorder.ObserveDocumentSize(name, len(res.Output))
			log.Debug("Rendered document", logfields.Elapsed(elapsed))
		case ctx.Err() != nil:
			p.recorder.IncRenderOutcome(name, metrics.OutcomeCanceled)
		default:
			p.recorder.IncRenderOutcome(name, metrics.OutcomeFailed)
		}
	}()

	values := req.Values
	if values == nil {
		values = req.Writer.Defaults()
	}
	s, err := settings.Resolve(req.Writer.Apply(values))
	if err != nil {
		return nil, err
	}
	s.Source = req.Source
	s.Destination = req.Destination

	doc, err := p.read(ctx, req.Source, reader.Format(s.InputFormat))
	if err != nil {
		return nil, err
	}
	res, err = p.renderTree(doc, s, req.Writer.Profile, log)
	if err != nil {
		return nil, err
	}
	res.Writer = name
	return res, nil
}

func (p *Publisher) read(ctx context.Context, source string, format reader.Format) (*doctree.Node, error) {
	if err := ctx.Err(); err != nil {
		return nil, errors.WrapError(err, errors.CategoryRuntime, "render canceled").Build()
	}
	if !isFile(source) {
		return reader.Read(p.stdin, source, format)
	}
	f, err := os.Open(source)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.NotFoundError("source not found: " + source).
				WithContext("source", source).
				Build()
		}
		return nil, errors.WrapError(err, errors.CategoryFileSystem, "cannot open "+source).
			WithContext("source", source).
			Build()
	}
	defer func() { _ = f.Close() }()
	return reader.Read(f, source, format)
}

func (p *Publisher) renderTree(doc *doctree.Node, s *settings.Settings, profile translator.Profile, log *slog.Logger) (*Result, error) {
	baseDir := "."
	if isFile(s.Source) {
		baseDir = filepath.Dir(s.Source)
	}
	tr, err := translator.New(doc, s, profile, translator.WithLogger(log), translator.WithBaseDir(baseDir))
	if err != nil {
		return nil, err
	}
	parts, err := tr.Translate()
	if err != nil {
		return nil, err
	}

	styles, copies, err := stylesheetMarkup(s, log)
	if err != nil {
		return nil, err
	}
	parts.Stylesheet = styles
	parts.HTMLHead += styles

	body, err := loadTemplate(s.Template)
	if err != nil {
		return nil, err
	}
	out, err := assemble(body, parts)
	if err != nil {
		return nil, err
	}

	res := &Result{Parts: parts, Output: out, Settings: s, copies: copies}
	for _, a := range copies {
		res.Assets = append(res.Assets, a.name)
	}
	return res, nil
}

func (p *Publisher) write(destination string, res *Result) error {
	if !isFile(destination) {
		if _, err := p.stdout.Write(res.Output); err != nil {
			return errors.WrapError(err, errors.CategoryFileSystem, "cannot write output").Build()
		}
		return nil
	}
	if err := os.WriteFile(destination, res.Output, 0o644); err != nil {
		return errors.WrapError(err, errors.CategoryFileSystem, "cannot write "+destination).
			WithContext("destination", destination).
			Build()
	}
	if err := writeAssets(filepath.Dir(destination), res.copies, p.log); err != nil {
		return err
	}
	p.log.Info("Wrote document", logfields.Writer(res.Writer), logfields.Destination(destination))
	return nil
}

func sourceName(source string) string {
	if !isFile(source) {
		return "<stdin>"
	}
	return source
}
