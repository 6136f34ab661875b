package reader

import (
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

// Format names a source syntax.
type Format string

const (
	FormatAuto     Format = "auto"
	FormatXML      Format = "xml"
	FormatMarkdown Format = "markdown"
)

var suffixFormats = map[string]Format{
	".xml":      FormatXML,
	".md":       FormatMarkdown,
	".markdown": FormatMarkdown,
}

// Detect picks a format from the file suffix, then from the content.
// Anything that does not sniff as XML is read as Markdown.
func Detect(name string, content []byte) Format {
	if f, ok := suffixFormats[strings.ToLower(filepath.Ext(name))]; ok {
		return f
	}
	for m := mimetype.Detect(content); m != nil; m = m.Parent() {
		if m.Is("text/xml") {
			return FormatXML
		}
	}
	return FormatMarkdown
}
