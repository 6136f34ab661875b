package translator

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/kirlent/internal/doctree"
	"git.home.luguber.info/inful/kirlent/internal/foundation/errors"
)

func field(name, value string) *doctree.Node {
	body := doctree.New(doctree.KindFieldBody)
	if value != "" {
		body.Append(para(value))
	}
	return doctree.New(doctree.KindField, text(doctree.KindFieldName, name), body)
}

func fields(pairs ...string) *doctree.Node {
	fl := doctree.New(doctree.KindFieldList)
	for i := 0; i+1 < len(pairs); i += 2 {
		fl.Append(field(pairs[i], pairs[i+1]))
	}
	return fl
}

func query(t *testing.T, html string) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	require.NoError(t, err)
	return doc
}

func TestSlideSectionWrapsContent(t *testing.T) {
	parts := render(t, Slides, testSettings(), document(section("Intro", para("Hi"))))
	assert.Equal(t,
		"<section class=\"slide\">\n<header>\n<h2>Intro</h2>\n</header>\n<div class=\"content\">\n<p>Hi</p>\n</div>\n</section>\n",
		parts.Body)
}

func TestFieldListsAreNotRendered(t *testing.T) {
	doc := document(fields("unknown", "value"), section("A", para("x")))
	parts := render(t, Slides, testSettings(), doc)
	assert.NotContains(t, parts.Body, "<dl")
	assert.NotContains(t, parts.Body, "unknown")
	assert.NotContains(t, parts.Body, "value")
}

func TestImpressDataAttributes(t *testing.T) {
	doc := document(
		fields("data-x", "100", "data-rotate", "90", "color", "red"),
		section("One", para("a")),
		section("Two", para("b")),
	)
	parts := render(t, ImpressJS, testSettings(), doc)

	dom := query(t, parts.Body)
	steps := dom.Find("section")
	require.Equal(t, 2, steps.Length())

	first := steps.First()
	assert.Equal(t, "slide step", first.AttrOr("class", ""))
	assert.Equal(t, "100", first.AttrOr("data-x", ""))
	assert.Equal(t, "90", first.AttrOr("data-rotate", ""))
	assert.Equal(t, "1280", first.AttrOr("data-rel-x", ""))
	_, hasColor := first.Attr("color")
	assert.False(t, hasColor)

	second := steps.Eq(1)
	_, hasX := second.Attr("data-x")
	assert.False(t, hasX, "directives apply to one slide only")
	_, hasRel := second.Attr("data-rel-x")
	assert.False(t, hasRel)
}

func TestSlidesIgnoreEngineAttributes(t *testing.T) {
	doc := document(fields("data-x", "100"), section("One", para("a")))
	parts := render(t, RevealJS, testSettings(), doc)
	assert.NotContains(t, parts.Body, "data-x")
}

func TestPauseMarksNextElement(t *testing.T) {
	tests := []struct {
		profile Profile
		want    string
	}{
		{ImpressJS, "<p class=\"substep\">b</p>"},
		{RevealJS, "<p class=\"fragment\">b</p>"},
		{Slides, "<p>b</p>"},
	}
	for _, tt := range tests {
		t.Run(tt.profile.Name, func(t *testing.T) {
			doc := document(section("S", para("a"), fields("pause", ""), para("b"), para("c")))
			parts := render(t, tt.profile, testSettings(), doc)
			assert.Contains(t, parts.Body, tt.want)
			assert.Contains(t, parts.Body, "<p>c</p>")
			if tt.profile.PauseClass != "" {
				assert.Equal(t, 1, strings.Count(parts.Body, tt.profile.PauseClass))
			}
		})
	}
}

func TestLayoutDirective(t *testing.T) {
	area := doctree.New(doctree.KindContainer, para("main text")).WithClasses("layout-main", "boxed")
	doc := document(fields("layout", "head head\nmain side"), section("Grid", area))
	parts := render(t, Slides, testSettings(), doc)

	assert.Contains(t, parts.Body,
		"<div class=\"content\" style=\"grid-template-areas: 'head head' 'main side';\">\n")
	assert.Contains(t, parts.Body, "<div class=\"boxed\" style=\"grid-area: main;\">\n")
	assert.Equal(t, []string{"layout-main", "boxed"}, area.Classes)
}

func TestStyleDirective(t *testing.T) {
	doc := document(fields("style", "background: navy; color: white !important"), section("S", para("x")))
	parts := render(t, Slides, testSettings(), doc)
	assert.Contains(t, parts.Body,
		"<section class=\"slide\" style=\"background: navy; color: white !important;\">\n")
}

func TestTransitionSuppressedInSlides(t *testing.T) {
	doc := document(section("A", para("x")), doctree.New(doctree.KindTransition), section("B", para("y")))
	parts := render(t, Slides, testSettings(), doc)
	assert.NotContains(t, parts.Body, "<hr")
}

func TestAnnotationReferences(t *testing.T) {
	ref := func(uri, label string) *doctree.Node {
		return doctree.New(doctree.KindReference, doctree.NewText(label)).Set("refuri", uri)
	}
	doc := document(section("A", doctree.New(doctree.KindParagraph,
		ref("annotate://box/warn", "boxed"),
		doctree.NewText(" "),
		ref("annotate://circle", "circled"),
		doctree.NewText(" "),
		ref("annotate://underline/a/b", "lined"),
		doctree.NewText(" "),
		ref("https://example.com", "link"),
	)))
	parts := render(t, Slides, testSettings(), doc)

	assert.Contains(t, parts.Body, `<span onclick="annotate(this, 'box', 'warn')">boxed</span>`)
	assert.Contains(t, parts.Body, `<span onclick="annotate(this, 'circle', 'default')">circled</span>`)
	assert.Contains(t, parts.Body, `<span onclick="annotate(this, 'underline', 'default')">lined</span>`)
	assert.Contains(t, parts.Body, `<a href="https://example.com">link</a>`)
}

func TestEmphasisAnnotations(t *testing.T) {
	doc := func() *doctree.Node {
		return document(section("A", doctree.New(doctree.KindParagraph,
			text(doctree.KindEmphasis, "[key]"),
			doctree.NewText(" "),
			text(doctree.KindEmphasis, "=marked="),
			doctree.NewText(" "),
			text(doctree.KindEmphasis, "plain"),
		)))
	}

	s := testSettings()
	parts := render(t, Slides, s, doc())
	assert.Contains(t, parts.Body, "<em>[key]</em>")

	s.EmphasisAnnotations = true
	parts = render(t, Slides, s, doc())
	assert.Contains(t, parts.Body, `<span onclick="annotate(this, 'box', 'default')">key</span>`)
	assert.Contains(t, parts.Body, `<span onclick="annotate(this, 'highlight', 'default')">marked</span>`)
	assert.Contains(t, parts.Body, "<em>plain</em>")
}

func writeSVG(t *testing.T, dir, name, root string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(root), 0o600))
}

func TestDiagramHeightScaling(t *testing.T) {
	dir := t.TempDir()
	writeSVG(t, dir, "flow.svg", `<svg xmlns="http://www.w3.org/2000/svg" id="mermaid-1700" width="100%" height="50.4"></svg>`)
	writeSVG(t, dir, "chart.svg", `<svg xmlns="http://www.w3.org/2000/svg" id="chart" height="50"></svg>`)

	img := func(uri string) *doctree.Node { return doctree.New(doctree.KindImage).Set("uri", uri) }
	s := testSettings()
	s.FontSize = 32

	parts := render(t, Slides, s, document(section("D", img("flow.svg"), img("chart.svg"))), WithBaseDir(dir))
	assert.Contains(t, parts.Body, `<img alt="flow.svg" src="flow.svg" style="height: 101px;"/>`)
	assert.Contains(t, parts.Body, `<img alt="chart.svg" src="chart.svg"/>`)

	s.ImageScale = "3"
	parts = render(t, Slides, s, document(section("D", img("flow.svg"))), WithBaseDir(dir))
	assert.Contains(t, parts.Body, `style="height: 151px;"`)

	explicit := img("flow.svg").Set("height", "20")
	parts = render(t, Slides, s, document(section("D", explicit)), WithBaseDir(dir))
	assert.Contains(t, parts.Body, `style="height: 20px;"`)
}

func TestMissingDiagramIsAnAssetError(t *testing.T) {
	doc := document(section("D", doctree.New(doctree.KindImage).Set("uri", "gone.svg")))
	tr, err := New(doc, testSettings(), Slides, WithBaseDir(t.TempDir()))
	require.NoError(t, err)

	parts, err := tr.Translate()
	require.Error(t, err)
	assert.Nil(t, parts)
	assert.Equal(t, errors.CategoryAsset, errors.GetCategory(err))
}

func TestInvalidGeometryIsAConfigError(t *testing.T) {
	s := testSettings()
	s.SlideSize = "wide"
	_, err := New(document(), s, Slides)
	require.Error(t, err)
	assert.Equal(t, errors.CategoryConfig, errors.GetCategory(err))

	s = testSettings()
	s.FontSize = -1
	_, err = New(document(), s, ImpressJS)
	assert.Equal(t, errors.CategoryConfig, errors.GetCategory(err))
}

func TestDocinfoSlide(t *testing.T) {
	doc := document(doctree.New(doctree.KindDocinfo, text(doctree.KindAuthor, "Ann")), section("A", para("x")))
	doc.Set("title", "Deck")

	parts := render(t, ImpressJS, testSettings(), doc)
	assert.Equal(t,
		"<section class=\"slide step\" id=\"docinfo\">\n<h1>Deck</h1>\n"+
			"<dl class=\"docinfo\">\n<dt class=\"author\">Author<span class=\"colon\">:</span></dt>\n<dd class=\"author\">Ann</dd>\n</dl>\n"+
			"</section>\n",
		parts.Docinfo)
}

func TestDocinfoFieldsRenderInSlides(t *testing.T) {
	info := doctree.New(doctree.KindDocinfo, field("venue", "Room 1"))
	parts := render(t, Slides, testSettings(), document(info))
	assert.Contains(t, parts.Docinfo, "<dt>venue<span class=\"colon\">:</span></dt>\n<dd>Room 1</dd>\n")
}

func TestImpressRootAndHead(t *testing.T) {
	parts := render(t, ImpressJS, testSettings(), document(section("A", para("x"))))

	assert.Equal(t,
		"</head>\n<body>\n<main data-height=\"720\" data-max-scale=\"3\" data-min-scale=\"0\" data-transition-duration=\"1000\" data-width=\"1280\" id=\"impress\">\n",
		parts.BodyPrefix)
	assert.Contains(t, parts.Head, "impress().init();")
	assert.Contains(t, parts.Head, "  .step {\n    width: 1280px;\n    height: 720px;\n  }\n")
	assert.Contains(t, parts.Head, "rough-notation")
	assert.Contains(t, parts.Head, "font-size: 30px;")
}

func TestRevealRootAndHead(t *testing.T) {
	s := testSettings()
	s.SlideSize = "a4"
	s.Transition = "fade"
	s.CenterVertical = true
	s.MinScale = 0.2
	s.MaxScale = 2

	parts := render(t, RevealJS, s, document(section("A", para("x"))))

	assert.Equal(t, "</head>\n<body>\n<main class=\"reveal\">\n", parts.BodyPrefix)
	assert.True(t, strings.HasSuffix(parts.BodyPreDocinfo, "<div class=\"slides\">\n"))
	assert.True(t, strings.HasSuffix(parts.Body, "</section>\n</div>\n"))
	assert.Contains(t, parts.Head, "reveal.css")
	assert.Contains(t, parts.Head, "plugin/notes/notes.js")
	assert.Contains(t, parts.Head, "width: 1125,")
	assert.Contains(t, parts.Head, "height: 795,")
	assert.Contains(t, parts.Head, "center: true,")
	assert.Contains(t, parts.Head, "transition: 'fade',")
	assert.Contains(t, parts.Head, "minScale: 0.2,")

	dom := query(t, "<html><body>"+parts.HTMLBody+"</body></html>")
	assert.Equal(t, 1, dom.Find("main.reveal > div.slides > section.slide").Length())
}

func TestHTML5HasNoSlideHead(t *testing.T) {
	parts := render(t, HTML5, testSettings(), document(section("A", para("x"))))
	assert.NotContains(t, parts.Head, "rough-notation")
	assert.NotContains(t, parts.Body, "<header>")
}
