// Package translator turns a document tree into HTML5 markup.
//
// One traversal engine serves every output dialect. A Profile selects the
// dialect: the rule table layered over the base HTML rules, the directive
// names that become slide attributes, the pause class, head templates and the
// document wrapper. Transient per-node state lives in a side table owned by
// the Translator, so a tree can be rendered any number of times.
package translator

import (
	"fmt"
	"log/slog"
	"strings"

	"git.home.luguber.info/inful/kirlent/internal/doctree"
	"git.home.luguber.info/inful/kirlent/internal/foundation/errors"
	"git.home.luguber.info/inful/kirlent/internal/logfields"
	"git.home.luguber.info/inful/kirlent/internal/settings"
	"git.home.luguber.info/inful/kirlent/internal/version"
)

// Parts are the rendered regions of one document.
type Parts struct {
	HeadPrefix     string
	Head           string
	Meta           string
	Stylesheet     string
	BodyPrefix     string
	BodyPreDocinfo string
	Docinfo        string
	Body           string
	BodySuffix     string

	Title        string
	Subtitle     string
	HTMLTitle    string
	HTMLSubtitle string
	HTMLHead     string
	HTMLBody     string
	Fragment     string
}

// Geometry is the resolved slide geometry.
type Geometry struct {
	Width      int
	Height     int
	FontSize   int
	ImageScale settings.ImageScale
}

// Option configures a Translator.
type Option func(*Translator)

// WithLogger sets the logger used for render diagnostics.
func WithLogger(l *slog.Logger) Option {
	return func(t *Translator) { t.log = l }
}

// WithBaseDir sets the directory that relative image paths are resolved against.
func WithBaseDir(dir string) Option {
	return func(t *Translator) { t.baseDir = dir }
}

// Translator renders one document. It is not safe for concurrent use.
type Translator struct {
	doc      *doctree.Node
	settings *settings.Settings
	profile  Profile
	geometry Geometry
	rules    map[doctree.Kind]rule
	log      *slog.Logger
	baseDir  string

	headPrefix     []string
	head           []string
	meta           []string
	bodyPrefix     []string
	bodyPreDocinfo []string
	docinfo        []string
	body           []string
	bodySuffix     []string
	htmlTitle      []string
	htmlSubtitle   []string
	htmlHead       []string
	htmlBody       []string
	fragment       []string
	title          []string
	subtitle       []string

	// docTitle is latched from the document metadata for the docinfo slide.
	docTitle        string
	sectionLevel    int
	inDocumentTitle int
	inDocinfo       bool

	// fields holds directives captured from the most recent field list.
	fields    map[string]string
	seeded    map[string]bool
	phase     phaseStack
	fieldName strings.Builder
	fieldBody strings.Builder

	state  sideTable
	warned map[doctree.Kind]bool
	err    error
}

// New prepares a translator for doc. Settings that cannot be turned into
// slide geometry are reported as configuration errors here, before any
// traversal happens.
func New(doc *doctree.Node, s *settings.Settings, p Profile, opts ...Option) (*Translator, error) {
	if doc == nil || doc.Kind != doctree.KindDocument {
		return nil, errors.InternalError("translator needs a document node").Build()
	}
	t := &Translator{
		doc:      doc,
		settings: s,
		profile:  p,
		log:      slog.Default(),
		fields:   make(map[string]string),
		seeded:   make(map[string]bool),
		state:    make(sideTable),
		warned:   make(map[doctree.Kind]bool),
	}
	for _, opt := range opts {
		opt(t)
	}
	t.log = t.log.With(logfields.Writer(p.Name))

	if p.Slides {
		g, err := geometryFor(s)
		if err != nil {
			return nil, err
		}
		t.geometry = g
		if p.StartFields != nil {
			for k, v := range p.StartFields(g) {
				t.fields[k] = v
				t.seeded[k] = true
			}
		}
	}
	t.rules = rulesFor(p)
	return t, nil
}

func geometryFor(s *settings.Settings) (Geometry, error) {
	size := s.SlideSize
	if size == "" {
		size = settings.DefaultSlideSize
	}
	w, h, err := settings.ParseSlideSize(size)
	if err != nil {
		return Geometry{}, errors.WrapError(err, errors.CategoryConfig, "invalid value for --slide-size").
			WithContext("option", "--slide-size").
			Build()
	}
	if s.FontSize < 0 {
		return Geometry{}, errors.ConfigError(fmt.Sprintf("invalid value for --font-size: %d", s.FontSize)).
			WithContext("option", "--font-size").
			Build()
	}
	scale, err := settings.ParseImageScale(s.ImageScale)
	if err != nil {
		return Geometry{}, errors.WrapError(err, errors.CategoryConfig, "invalid value for --image-scale").
			WithContext("option", "--image-scale").
			Build()
	}
	fontSize := s.FontSize
	if fontSize == 0 {
		fontSize = settings.AutoFontSize(w, h)
	}
	return Geometry{Width: w, Height: h, FontSize: fontSize, ImageScale: scale}, nil
}

// Geometry returns the resolved slide geometry; zero for non-slide profiles.
func (t *Translator) Geometry() Geometry {
	return t.geometry
}

// Translate walks the document and returns the rendered parts. Rendering is
// all or nothing: on error no parts are returned.
func (t *Translator) Translate() (*Parts, error) {
	err := doctree.Walk(t.doc, func(n *doctree.Node, entering bool) (doctree.WalkStatus, error) {
		status := t.dispatch(n, entering)
		return status, t.err
	})
	if err != nil {
		return nil, err
	}
	return t.parts(), nil
}

func (t *Translator) ruleFor(n *doctree.Node) rule {
	if r, ok := t.rules[n.Kind]; ok {
		return r
	}
	if !t.warned[n.Kind] {
		t.warned[n.Kind] = true
		t.log.Warn("No markup rule for node kind, rendering children only", logfields.NodeKind(string(n.Kind)))
	}
	return rule{}
}

// fail records the first error; the walk stops after the current callback.
func (t *Translator) fail(err error) {
	if t.err == nil {
		t.err = err
	}
}

func (t *Translator) emit(s ...string) {
	t.body = append(t.body, s...)
}

func (t *Translator) parts() *Parts {
	join := func(s []string) string { return strings.Join(s, "") }
	return &Parts{
		HeadPrefix:     join(t.headPrefix),
		Head:           join(t.head),
		Meta:           join(t.meta),
		BodyPrefix:     join(t.bodyPrefix),
		BodyPreDocinfo: join(t.bodyPreDocinfo),
		Docinfo:        join(t.docinfo),
		Body:           join(t.body),
		BodySuffix:     join(t.bodySuffix),
		Title:          join(t.title),
		Subtitle:       join(t.subtitle),
		HTMLTitle:      join(t.htmlTitle),
		HTMLSubtitle:   join(t.htmlSubtitle),
		HTMLHead:       join(t.htmlHead),
		HTMLBody:       join(t.htmlBody),
		Fragment:       join(t.fragment),
	}
}

func generatorMeta() string {
	return `<meta name="generator" content="` + attval(version.Generator()) + `"/>` + "\n"
}
