package reader

import (
	"strings"
	"unicode"

	"github.com/beevik/etree"

	"git.home.luguber.info/inful/kirlent/internal/doctree"
)

func readXML(content []byte, name string) (*doctree.Node, error) {
	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(content); err != nil {
		return nil, inputError(name, "malformed XML", err)
	}
	root := doc.Root()
	if root == nil {
		return nil, inputError(name, "no root element", nil)
	}
	if root.Tag != string(doctree.KindDocument) {
		return nil, inputError(name, "root element is <"+root.FullTag()+">, not <document>", nil)
	}
	return convertElement(root), nil
}

func convertElement(e *etree.Element) *doctree.Node {
	n := doctree.New(doctree.Kind(e.Tag))
	for _, a := range e.Attr {
		key := a.Key
		if a.Space != "" {
			key = a.Space + ":" + a.Key
		}
		switch key {
		case "ids":
			n.IDs = splitEscaped(a.Value)
		case "names":
			n.Names = splitEscaped(a.Value)
		case "classes":
			n.Classes = splitEscaped(a.Value)
		default:
			n.Set(key, a.Value)
		}
	}

	keepSpace := n.Kind.IsTextElement()
	for _, tok := range e.Child {
		switch t := tok.(type) {
		case *etree.Element:
			n.Append(convertElement(t))
		case *etree.CharData:
			if !keepSpace && strings.TrimSpace(t.Data) == "" {
				continue
			}
			appendText(n, t.Data)
		}
	}
	return n
}

// appendText adds s to the trailing text child of n, or starts a new one.
func appendText(n *doctree.Node, s string) {
	if s == "" {
		return
	}
	if last := len(n.Children) - 1; last >= 0 && n.Children[last].Kind == doctree.KindText {
		n.Children[last].Value += s
		return
	}
	n.Append(doctree.NewText(s))
}

// splitEscaped splits a docutils list attribute on whitespace. A backslash
// escapes the following character, so "a\ b c" yields "a b" and "c".
func splitEscaped(s string) []string {
	var (
		out     []string
		cur     strings.Builder
		escaped bool
	)
	flush := func() {
		if cur.Len() > 0 {
			out = append(out, cur.String())
			cur.Reset()
		}
	}
	for _, r := range s {
		switch {
		case escaped:
			cur.WriteRune(r)
			escaped = false
		case r == '\\':
			escaped = true
		case unicode.IsSpace(r):
			flush()
		default:
			cur.WriteRune(r)
		}
	}
	flush()
	return out
}
