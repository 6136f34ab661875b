// Package markdown configures the goldmark parser used by the Markdown reader.
package markdown

import (
	"github.com/yuin/goldmark"
	gmast "github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"
	"github.com/yuin/goldmark/util"
)

// containerPriority places ::: containers ahead of fenced code blocks.
const containerPriority = 650

// New returns a goldmark instance with the extensions kirlent documents use:
// tables, definition lists, heading attributes and ::: containers.
func New() goldmark.Markdown {
	return goldmark.New(
		goldmark.WithExtensions(extension.Table, extension.DefinitionList),
		goldmark.WithParserOptions(
			parser.WithAttribute(),
			parser.WithBlockParsers(util.Prioritized(NewContainerParser(), containerPriority)),
		),
	)
}

// Parse parses a Markdown body (front matter already removed) into a goldmark AST.
// Node segments refer to body.
func Parse(body []byte) gmast.Node {
	return New().Parser().Parse(text.NewReader(body))
}
