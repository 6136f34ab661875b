// Package reader turns source documents into document trees.
//
// Two front ends are supported: the XML written by docutils
// (`docutils --writer=xml`) and Markdown with YAML front matter.
package reader

import (
	"fmt"
	"io"

	"git.home.luguber.info/inful/kirlent/internal/doctree"
	"git.home.luguber.info/inful/kirlent/internal/foundation/errors"
)

// Read parses the whole of r. name is used for format detection and in
// error messages; "-" or "" stand for standard input.
func Read(r io.Reader, name string, format Format) (*doctree.Node, error) {
	content, err := io.ReadAll(r)
	if err != nil {
		return nil, errors.WrapError(err, errors.CategoryFileSystem, "cannot read "+displayName(name)).
			WithContext("source", name).Build()
	}
	return Parse(content, name, format)
}

// Parse converts content that has already been read.
func Parse(content []byte, name string, format Format) (*doctree.Node, error) {
	if format == "" || format == FormatAuto {
		format = Detect(name, content)
	}
	var (
		doc *doctree.Node
		err error
	)
	switch format {
	case FormatXML:
		doc, err = readXML(content, name)
	case FormatMarkdown:
		doc, err = readMarkdown(content, name)
	default:
		return nil, errors.ValidationError(fmt.Sprintf("unknown input format %q", format)).Build()
	}
	if err != nil {
		return nil, err
	}
	if name != "" && name != "-" {
		doc.Set("source", name)
	}
	return doc, nil
}

func displayName(name string) string {
	if name == "" || name == "-" {
		return "<stdin>"
	}
	return name
}

func inputError(name, message string, cause error) error {
	msg := displayName(name) + ": " + message
	if cause == nil {
		return errors.InputError(msg).WithContext("source", name).Build()
	}
	return errors.WrapError(cause, errors.CategoryInput, msg).WithContext("source", name).Build()
}
