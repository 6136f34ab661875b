package translator

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"git.home.luguber.info/inful/kirlent/internal/doctree"
)

var titleCaser = cases.Title(language.English)

// label is the English display name of a node kind, e.g. "Note" or "Copyright".
func label(kind doctree.Kind) string {
	return titleCaser.String(strings.ReplaceAll(string(kind), "_", " "))
}
