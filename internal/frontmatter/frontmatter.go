// Package frontmatter reads the YAML metadata block at the top of Markdown
// sources.
package frontmatter

import (
	"bytes"
	"errors"
	"fmt"

	"gopkg.in/yaml.v3"
)

// ErrMissingClosingDelimiter indicates the document started with a YAML
// front matter delimiter but did not contain a closing delimiter.
var ErrMissingClosingDelimiter = errors.New("yaml front matter start delimiter found but closing delimiter is missing")

// Field is one metadata entry in source order. Sequences keep one value per item.
type Field struct {
	Name   string
	Values []string
}

// Meta is the document metadata carried by front matter.
type Meta struct {
	Title    string
	Subtitle string
	// Fields holds every other scalar or list entry, in source order.
	Fields []Field
}

// Lookup returns the values of a field.
func (m *Meta) Lookup(name string) ([]string, bool) {
	for _, f := range m.Fields {
		if f.Name == name {
			return f.Values, true
		}
	}
	return nil, false
}

// Split separates YAML front matter (`---` delimited) from the body.
//
// If the document does not start with a delimiter line, had is false and
// body is the full input.
func Split(content []byte) (front []byte, body []byte, had bool, err error) {
	nl := newline(content)
	open := []byte("---" + nl)
	if !bytes.HasPrefix(content, open) {
		return nil, content, false, nil
	}

	start := len(open)
	if bytes.HasPrefix(content[start:], open) {
		return []byte{}, content[start+len(open):], true, nil
	}

	closeSeq := []byte(nl + "---" + nl)
	idx := bytes.Index(content[start:], closeSeq)
	if idx < 0 {
		// a closing delimiter on the very last line has no newline after it
		if bytes.HasSuffix(content, []byte(nl+"---")) {
			end := len(content) - len("---")
			return content[start:end], []byte{}, true, nil
		}
		return nil, nil, false, ErrMissingClosingDelimiter
	}
	return content[start : start+idx+len(nl)], content[start+idx+len(closeSeq):], true, nil
}

// Parse splits content and decodes its front matter. Documents without front
// matter yield an empty Meta and the unchanged body.
func Parse(content []byte) (*Meta, []byte, error) {
	front, body, had, err := Split(content)
	if err != nil {
		return nil, nil, err
	}
	meta := &Meta{}
	if !had || len(bytes.TrimSpace(front)) == 0 {
		return meta, body, nil
	}

	var root yaml.Node
	if err := yaml.Unmarshal(front, &root); err != nil {
		return nil, nil, fmt.Errorf("front matter: %w", err)
	}
	if len(root.Content) == 0 {
		return meta, body, nil
	}
	mapping := root.Content[0]
	if mapping.Kind != yaml.MappingNode {
		return nil, nil, fmt.Errorf("front matter: expected a mapping, found %s", kindName(mapping.Kind))
	}

	for i := 0; i+1 < len(mapping.Content); i += 2 {
		key, value := mapping.Content[i].Value, mapping.Content[i+1]
		values, ok := scalars(value)
		if !ok {
			continue
		}
		switch key {
		case "title":
			meta.Title = first(values)
		case "subtitle":
			meta.Subtitle = first(values)
		default:
			meta.Fields = append(meta.Fields, Field{Name: key, Values: values})
		}
	}
	return meta, body, nil
}

// scalars flattens a scalar or a sequence of scalars. Nested mappings are not metadata.
func scalars(n *yaml.Node) ([]string, bool) {
	switch n.Kind {
	case yaml.ScalarNode:
		return []string{n.Value}, true
	case yaml.SequenceNode:
		out := make([]string, 0, len(n.Content))
		for _, c := range n.Content {
			if c.Kind != yaml.ScalarNode {
				return nil, false
			}
			out = append(out, c.Value)
		}
		return out, true
	case yaml.AliasNode:
		return scalars(n.Alias)
	default:
		return nil, false
	}
}

func first(values []string) string {
	if len(values) == 0 {
		return ""
	}
	return values[0]
}

func kindName(k yaml.Kind) string {
	switch k {
	case yaml.SequenceNode:
		return "a sequence"
	case yaml.ScalarNode:
		return "a scalar"
	default:
		return "an unexpected node"
	}
}

func newline(content []byte) string {
	if i := bytes.IndexByte(content, '\n'); i > 0 && content[i-1] == '\r' {
		return "\r\n"
	}
	return "\n"
}
