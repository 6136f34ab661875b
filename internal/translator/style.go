package translator

import (
	"strings"

	"github.com/aymerick/douceur/parser"

	"git.home.luguber.info/inful/kirlent/internal/foundation/errors"
)

// applyStyle adds the declarations of a style directive to a slide.
func (t *Translator) applyStyle(st *nodeState, text string) error {
	// the parser only completes declarations that are terminated
	if trimmed := strings.TrimSpace(text); trimmed != "" && !strings.HasSuffix(trimmed, ";") {
		text = trimmed + ";"
	}
	decls, err := parser.ParseDeclarations(text)
	if err != nil {
		return errors.WrapError(err, errors.CategoryInput, "invalid style directive").
			WithContext("style", text).
			Build()
	}
	for _, d := range decls {
		value := d.Value
		if d.Important {
			value += " !important"
		}
		st.setStyle(d.Property, value)
	}
	return nil
}
