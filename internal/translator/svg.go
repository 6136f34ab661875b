package translator

import (
	"math"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/beevik/etree"

	"git.home.luguber.info/inful/kirlent/internal/doctree"
	"git.home.luguber.info/inful/kirlent/internal/foundation/errors"
	"git.home.luguber.info/inful/kirlent/internal/logfields"
)

// diagramIDPrefix marks SVG files written by mermaid.
const diagramIDPrefix = "mermaid-"

func isRemote(uri string) bool {
	return strings.Contains(uri, "://") || strings.HasPrefix(uri, "data:")
}

// diagramHeight returns the scaled height of a diagram image. It reports
// false for images that are not diagrams.
func (t *Translator) diagramHeight(uri string) (string, bool, error) {
	if isRemote(uri) || !strings.EqualFold(filepath.Ext(uri), ".svg") {
		return "", false, nil
	}
	path := uri
	if !filepath.IsAbs(path) {
		path = filepath.Join(t.baseDir, filepath.FromSlash(uri))
	}

	doc := etree.NewDocument()
	if err := doc.ReadFromFile(path); err != nil {
		return "", false, errors.WrapError(err, errors.CategoryAsset, "cannot read image "+uri).
			WithContext("path", path).
			Build()
	}
	root := doc.Root()
	if root == nil {
		return "", false, errors.AssetError("image " + uri + " has no root element").
			WithContext("path", path).
			Build()
	}
	if !strings.HasPrefix(root.SelectAttrValue("id", ""), diagramIDPrefix) {
		return "", false, nil
	}

	raw := strings.TrimSuffix(strings.TrimSpace(root.SelectAttrValue("height", "")), "px")
	height, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return "", false, errors.WrapError(err, errors.CategoryAsset, "diagram "+uri+" has no usable height").
			WithContext("path", path).
			Build()
	}
	factor := t.geometry.ImageScale.FactorFor(t.geometry.FontSize)
	scaled := int(math.Round(height * factor))
	t.log.Debug("Scaled diagram height", logfields.Path(path), "height", scaled)
	return strconv.Itoa(scaled), true, nil
}

func visitSlideImage(t *Translator, n *doctree.Node) doctree.WalkStatus {
	if _, ok := n.Get("height"); !ok {
		h, ok, err := t.diagramHeight(n.Attr("uri"))
		if err != nil {
			t.fail(err)
			return doctree.WalkStop
		}
		if ok {
			t.state.of(n).height = h
		}
	}
	return visitImage(t, n)
}
