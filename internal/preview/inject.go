package preview

import (
	"bytes"
	"strconv"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"git.home.luguber.info/inful/kirlent/internal/foundation/errors"
)

const (
	scriptPath     = "/livereload.js"
	generationAttr = "data-kirlent-generation"
)

// injectReload marks the page with its render generation and appends the
// live reload script to the body.
func injectReload(page []byte, gen int64) ([]byte, error) {
	doc, err := html.Parse(bytes.NewReader(page))
	if err != nil {
		return nil, errors.WrapError(err, errors.CategoryRender, "cannot parse rendered page").Build()
	}

	root := findElement(doc, atom.Html)
	body := findElement(doc, atom.Body)
	if root == nil || body == nil {
		return nil, errors.RenderError("rendered page has no body").Build()
	}
	setAttr(root, generationAttr, strconv.FormatInt(gen, 10))
	body.AppendChild(&html.Node{
		Type:     html.ElementNode,
		DataAtom: atom.Script,
		Data:     "script",
		Attr:     []html.Attribute{{Key: "src", Val: scriptPath}},
	})

	var buf bytes.Buffer
	if err := html.Render(&buf, doc); err != nil {
		return nil, errors.WrapError(err, errors.CategoryRender, "cannot render page").Build()
	}
	return buf.Bytes(), nil
}

func findElement(n *html.Node, a atom.Atom) *html.Node {
	if n.Type == html.ElementNode && n.DataAtom == a {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := findElement(c, a); found != nil {
			return found
		}
	}
	return nil
}

func setAttr(n *html.Node, key, val string) {
	for i := range n.Attr {
		if n.Attr[i].Key == key {
			n.Attr[i].Val = val
			return
		}
	}
	n.Attr = append(n.Attr, html.Attribute{Key: key, Val: val})
}
