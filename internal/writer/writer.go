// Package writer defines the kirlent writers and publishes documents with
// them.
//
// A Writer couples an option set, derived from the base HTML options by
// removing retired flags and rewriting defaults, with fixed settings and a
// translator profile. A Publisher reads a source, resolves settings, renders
// the parts and assembles the page.
package writer

import (
	"fmt"
	"slices"
	"sort"
	"strings"

	"git.home.luguber.info/inful/kirlent/internal/foundation/errors"
	"git.home.luguber.info/inful/kirlent/internal/settings"
	"git.home.luguber.info/inful/kirlent/internal/translator"
)

// Writer is one output format.
type Writer struct {
	Name        string
	Description string
	Spec        settings.Spec
	// Fixed values are applied after parsing; their options are not exposed.
	Fixed   settings.Values
	Profile translator.Profile
}

var (
	html5Styles     = []string{"minimal.css", "plain.css"}
	slidesStyles    = []string{"minimal.css", "plain.css", "slides-base.css", "slides-simple.css"}
	impressjsStyles = []string{"minimal.css", "plain.css", "slides-base.css", "impressjs-base.css"}
	revealjsStyles  = []string{"minimal.css", "plain.css", "slides-base.css", "revealjs-base.css"}
)

func stylesheetOverride(names []string) settings.Override {
	return settings.Override{
		Default:     slices.Clone(names),
		HelpDefault: fmt.Sprintf("%q.", strings.Join(names, ",")),
	}
}

func define(name, description string, base settings.Spec, styles []string, p translator.Profile) *Writer {
	spec, err := settings.Modify(base, retiredFlags, map[string]settings.Override{
		"--stylesheet-path": stylesheetOverride(styles),
	}, settings.Strict)
	if err != nil {
		panic(fmt.Sprintf("writer %s: %v", name, err))
	}
	return &Writer{
		Name:        name,
		Description: description,
		Spec:        spec,
		Fixed:       settings.Values{"table_style": []string{"colwidths-auto"}},
		Profile:     p,
	}
}

var registry = map[string]*Writer{}

func register(w *Writer) {
	registry[w.Name] = w
}

func init() {
	register(define("html5", "Plain HTML5 document.",
		baseSpec(), html5Styles, translator.HTML5))
	register(define("slides", "HTML5 slides without a presentation engine.",
		settings.Join(baseSpec(), settings.Spec{Groups: []settings.Group{slidesGroup}}),
		slidesStyles, translator.Slides))
	register(define("impressjs", "Presentation for impress.js.",
		settings.Join(baseSpec(), settings.Spec{Groups: []settings.Group{slidesGroup, impressGroup}}),
		impressjsStyles, translator.ImpressJS))
	register(define("revealjs", "Presentation for reveal.js.",
		settings.Join(baseSpec(), settings.Spec{Groups: []settings.Group{slidesGroup, revealGroup}}),
		revealjsStyles, translator.RevealJS))
}

// Lookup returns the writer registered under name.
func Lookup(name string) (*Writer, error) {
	w, ok := registry[name]
	if !ok {
		return nil, errors.ValidationError(fmt.Sprintf("unknown writer: %s", name)).
			WithContext("writer", name).
			WithContext("available", strings.Join(Names(), ",")).
			Build()
	}
	return w, nil
}

// Names lists the registered writers in sorted order.
func Names() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// WithDefaults returns a copy of w whose option defaults are replaced by
// defaults, typically read from a config file. In strict mode unknown keys
// are configuration errors.
func (w *Writer) WithDefaults(defaults map[string]any, mode settings.Mode) (*Writer, error) {
	if len(defaults) == 0 {
		return w, nil
	}
	spec, err := settings.WithDefaults(w.Spec, defaults, mode)
	if err != nil {
		return nil, errors.WrapError(err, errors.CategoryConfig, fmt.Sprintf("writers.%s", w.Name)).
			WithContext("writer", w.Name).
			Build()
	}
	cp := *w
	cp.Spec = spec
	return &cp, nil
}

// Parse reads writer options from args and returns the values, fixed values
// included, and the positional arguments.
func (w *Writer) Parse(args []string) (settings.Values, []string, error) {
	values, positional, err := w.Spec.Parse(args)
	if err != nil {
		return nil, nil, err
	}
	return w.Apply(values), positional, nil
}

// Defaults returns the option defaults with fixed values applied.
func (w *Writer) Defaults() settings.Values {
	return w.Apply(w.Spec.Defaults())
}

// Apply overlays the writer's fixed values on a copy of v.
func (w *Writer) Apply(v settings.Values) settings.Values {
	out := v.Clone()
	for k, fixed := range w.Fixed {
		out[k] = fixed
	}
	return out
}

// Help formats the writer's option reference.
func (w *Writer) Help() string {
	usage := fmt.Sprintf("kirlent %s [options] [<source> [<destination>]]", w.Name)
	return w.Description + "\n\n" + w.Spec.Help(usage)
}
