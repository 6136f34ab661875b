package translator

import (
	"fmt"
	"strconv"
	"strings"

	"git.home.luguber.info/inful/kirlent/internal/settings"
)

// Root decorates the element that wraps the whole document body.
type Root struct {
	IDs     []string
	Classes []string
	Attrs   map[string]string
}

// Profile selects an output dialect.
type Profile struct {
	Name string
	// Slides enables directive capture, slide sections and annotations.
	Slides bool
	// SectionClasses lead the classes of every slide section.
	SectionClasses []string
	// DataAttrs are the directive names copied onto the next slide as attributes.
	DataAttrs []string
	// PauseClass is added to the element that follows a pause directive.
	PauseClass string
	// StartFields seeds the directive table before the walk.
	StartFields func(Geometry) map[string]string
	Root        func(Geometry, *settings.Settings) Root
	// Head returns blocks appended to the document head after the base ones.
	Head func(Geometry, *settings.Settings) []string
	// BodyOpen and BodyClose wrap every slide inside the root element.
	BodyOpen  string
	BodyClose string
}

const (
	roughNotationURL = "https://unpkg.com/rough-notation@0.5.1/lib/rough-notation.iife.js"
	impressJSURL     = "https://cdn.jsdelivr.net/gh/impress/impress.js@2.0.0/js/impress.js"
	revealJSBase     = "https://cdn.jsdelivr.net/npm/reveal.js@4.6.0/dist/"

	annotationPrefix = "annotate://"
	annotationColor  = "--color-annotation-"
)

const (
	scriptDeferTemplate = "<script defer src=\"%s\"></script>\n"
	scriptTemplate      = "<script>%s</script>\n"
	styleTemplate       = "<style>\n%s</style>\n"
	linkTemplate        = "<link rel=\"stylesheet\" href=\"%s\"/>\n"
)

var annotateScript = `
  function annotate(el, eff, cat) {
      const c = getComputedStyle(el).getPropertyValue('` + annotationColor + `' + cat);
      const a = RoughNotation.annotate(el, {type: eff, color: c});
      a.show();
  }
`

const rootFontStyle = `
  :root {
    font-size: %dpx;
  }
`

const impressInit = `
  window.addEventListener('DOMContentLoaded', () => {
      impress().init();
  }, false);
`

const impressStepStyle = `
  .step {
    width: %dpx;
    height: %dpx;
  }
`

const revealInit = `
  window.addEventListener('DOMContentLoaded', () => {
      Reveal.initialize({
          width: %d,
          height: %d,
          center: %t,
          transition: '%s',
          minScale: %s,
          maxScale: %s,
          plugins: [RevealNotes]
      });
  }, false);
`

// HTML5 renders plain documents.
var HTML5 = Profile{Name: "html5"}

// Slides renders one section per slide without a presentation engine.
var Slides = Profile{
	Name:           "slides",
	Slides:         true,
	SectionClasses: []string{"slide"},
	Head:           slideHead,
}

// ImpressJS renders steps for impress.js.
var ImpressJS = Profile{
	Name:           "impressjs",
	Slides:         true,
	SectionClasses: []string{"slide", "step"},
	DataAttrs: []string{
		"data-x", "data-y", "data-z",
		"data-rel-x", "data-rel-y", "data-rel-z",
		"data-rotate-x", "data-rotate-y", "data-rotate-z",
		"data-rotate", "data-rotate-order",
		"data-scale",
	},
	PauseClass: "substep",
	StartFields: func(g Geometry) map[string]string {
		return map[string]string{"data-rel-x": strconv.Itoa(g.Width)}
	},
	Root: func(g Geometry, s *settings.Settings) Root {
		return Root{
			IDs: []string{"impress"},
			Attrs: map[string]string{
				"data-width":               strconv.Itoa(g.Width),
				"data-height":              strconv.Itoa(g.Height),
				"data-transition-duration": strconv.Itoa(s.TransitionDuration),
				"data-min-scale":           formatFloat(s.MinScale),
				"data-max-scale":           formatFloat(s.MaxScale),
			},
		}
	},
	Head: func(g Geometry, s *settings.Settings) []string {
		return append(slideHead(g, s),
			fmt.Sprintf(scriptDeferTemplate, impressJSURL),
			fmt.Sprintf(scriptTemplate, impressInit),
			fmt.Sprintf(styleTemplate, fmt.Sprintf(impressStepStyle, g.Width, g.Height)),
		)
	},
}

// RevealJS renders a reveal.js deck.
var RevealJS = Profile{
	Name:           "revealjs",
	Slides:         true,
	SectionClasses: []string{"slide"},
	PauseClass:     "fragment",
	Root: func(Geometry, *settings.Settings) Root {
		return Root{Classes: []string{"reveal"}}
	},
	Head: func(g Geometry, s *settings.Settings) []string {
		transition := s.Transition
		if transition == "" {
			transition = "none"
		}
		return append(slideHead(g, s),
			fmt.Sprintf(linkTemplate, revealJSBase+"reveal.css"),
			fmt.Sprintf(scriptDeferTemplate, revealJSBase+"reveal.js"),
			fmt.Sprintf(scriptDeferTemplate, revealJSBase+"plugin/notes/notes.js"),
			fmt.Sprintf(scriptTemplate, fmt.Sprintf(revealInit,
				g.Width, g.Height, s.CenterVertical, transition,
				formatFloat(s.MinScale), formatFloat(s.MaxScale))),
		)
	},
	BodyOpen:  "<div class=\"slides\">\n",
	BodyClose: "</div>\n",
}

// Profiles lists the built-in dialects by name.
var Profiles = map[string]Profile{
	HTML5.Name:     HTML5,
	Slides.Name:    Slides,
	ImpressJS.Name: ImpressJS,
	RevealJS.Name:  RevealJS,
}

func slideHead(g Geometry, _ *settings.Settings) []string {
	return []string{
		fmt.Sprintf(scriptDeferTemplate, roughNotationURL),
		fmt.Sprintf(scriptTemplate, annotateScript),
		fmt.Sprintf(styleTemplate, fmt.Sprintf(rootFontStyle, g.FontSize)),
	}
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// StyleBlock wraps css in a <style> element for the document head.
func StyleBlock(css string) string {
	if css != "" && !strings.HasSuffix(css, "\n") {
		css += "\n"
	}
	return fmt.Sprintf(styleTemplate, css)
}

// StylesheetLink returns a <link> element referencing href.
func StylesheetLink(href string) string {
	return fmt.Sprintf(linkTemplate, attval(href))
}
