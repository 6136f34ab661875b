package writer

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/kirlent/internal/foundation/errors"
	"git.home.luguber.info/inful/kirlent/internal/metrics"
)

const talk = `# Intro

Hello *world*.

# Next

Second slide.
`

type countingRecorder struct {
	mu       sync.Mutex
	outcomes map[metrics.Outcome]int
	sizes    int
}

func (c *countingRecorder) ObserveRenderDuration(string, time.Duration) {}

func (c *countingRecorder) IncRenderOutcome(_ string, o metrics.Outcome) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.outcomes == nil {
		c.outcomes = map[metrics.Outcome]int{}
	}
	c.outcomes[o]++
}

func (c *countingRecorder) ObserveDocumentSize(string, int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sizes++
}

func (c *countingRecorder) SetPreviewClients(int) {}

func writeFile(t *testing.T, path, content string) string {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func publish(t *testing.T, p *Publisher, writer string, args ...string) (*Result, error) {
	t.Helper()
	w := mustLookup(t, writer)
	values, positional, err := w.Parse(args)
	require.NoError(t, err)
	req := Request{Writer: w, Values: values}
	if len(positional) > 0 {
		req.Source = positional[0]
	}
	if len(positional) > 1 {
		req.Destination = positional[1]
	}
	return p.Publish(context.Background(), req)
}

func parseHTML(t *testing.T, data []byte) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(data))
	require.NoError(t, err)
	return doc
}

func TestPublishSlidesToFile(t *testing.T) {
	dir := t.TempDir()
	src := writeFile(t, filepath.Join(dir, "talk.md"), talk)
	dst := filepath.Join(dir, "talk.html")

	res, err := publish(t, NewPublisher(), "slides", src, dst)
	require.NoError(t, err)
	assert.Empty(t, res.Assets)

	data, err := os.ReadFile(dst)
	require.NoError(t, err)
	assert.Equal(t, res.Output, data)

	html := string(data)
	assert.True(t, strings.HasPrefix(html, "<!DOCTYPE html>"))
	assert.True(t, strings.HasSuffix(html, "</html>\n"))

	doc := parseHTML(t, data)
	assert.Equal(t, 2, doc.Find("main > section.slide").Length())
	assert.Equal(t, "talk", doc.Find("title").Text())
	assert.Equal(t, 0, doc.Find(`link[rel="stylesheet"]`).Length())

	styles := doc.Find("head style").Text()
	assert.Contains(t, styles, "grid-template-columns: max-content auto;")
	assert.Contains(t, styles, "--color-annotation-default")
}

func TestPublishHTML5HasNoSlides(t *testing.T) {
	dir := t.TempDir()
	src := writeFile(t, filepath.Join(dir, "doc.md"), talk)
	var out bytes.Buffer

	_, err := publish(t, NewPublisher(WithStdio(nil, &out)), "html5", src)
	require.NoError(t, err)

	doc := parseHTML(t, out.Bytes())
	assert.Equal(t, 0, doc.Find("section.slide").Length())
	assert.Equal(t, 2, doc.Find("main > section").Length())
	assert.NotContains(t, out.String(), "rough-notation")
}

func TestPublishReadsStdin(t *testing.T) {
	var out bytes.Buffer
	p := NewPublisher(WithStdio(strings.NewReader(talk), &out))

	_, err := publish(t, p, "revealjs", "--transition", "fade", "-")
	require.NoError(t, err)

	doc := parseHTML(t, out.Bytes())
	assert.Equal(t, 1, doc.Find("main.reveal > div.slides").Length())
	assert.Contains(t, out.String(), "transition: 'fade',")
}

func TestPublishLinkedBundledStylesheetsAreCopied(t *testing.T) {
	dir := t.TempDir()
	src := writeFile(t, filepath.Join(dir, "talk.md"), talk)
	dst := filepath.Join(dir, "out", "talk.html")
	require.NoError(t, os.MkdirAll(filepath.Dir(dst), 0o755))

	res, err := publish(t, NewPublisher(), "impressjs", "--link-stylesheet", src, dst)
	require.NoError(t, err)
	assert.Equal(t, []string{"minimal.css", "plain.css", "slides-base.css", "impressjs-base.css"}, res.Assets)

	doc := parseHTML(t, res.Output)
	var hrefs []string
	doc.Find(`link[rel="stylesheet"]`).Each(func(_ int, s *goquery.Selection) {
		href, _ := s.Attr("href")
		hrefs = append(hrefs, href)
	})
	assert.Equal(t, res.Assets, hrefs)
	for _, name := range res.Assets {
		assert.FileExists(t, filepath.Join(dir, "out", name))
	}
}

func TestPublishLinkedLocalStylesheetIsRelative(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "styles", "theme.css"), "body { color: red; }\n")
	src := writeFile(t, filepath.Join(dir, "src", "talk.md"), talk)
	dst := filepath.Join(dir, "out", "talk.html")
	require.NoError(t, os.MkdirAll(filepath.Dir(dst), 0o755))

	res, err := publish(t, NewPublisher(), "html5",
		"--link-stylesheet",
		"--stylesheet-path", "theme.css",
		"--stylesheet-dirs", filepath.Join(dir, "styles"),
		src, dst)
	require.NoError(t, err)

	href, ok := parseHTML(t, res.Output).Find(`link[rel="stylesheet"]`).Attr("href")
	require.True(t, ok)
	assert.Equal(t, "../styles/theme.css", href)
}

func TestPublishSourceDirectoryIsSearched(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "deck", "theme.css"), ".slide { color: teal; }\n")
	src := writeFile(t, filepath.Join(dir, "deck", "talk.md"), talk)
	var out bytes.Buffer

	_, err := publish(t, NewPublisher(WithStdio(nil, &out)), "slides", "--stylesheet-path", "theme.css", src)
	require.NoError(t, err)
	assert.Contains(t, out.String(), "<style>\n.slide { color: teal; }\n</style>\n")
}

func TestPublishStdoutEmbedsLinkedBundledStylesheets(t *testing.T) {
	var out bytes.Buffer
	p := NewPublisher(WithStdio(strings.NewReader(talk), &out))

	res, err := publish(t, p, "html5", "--link-stylesheet")
	require.NoError(t, err)
	assert.Empty(t, res.Assets)
	assert.Equal(t, 2, parseHTML(t, out.Bytes()).Find("head style").Length())
}

func TestPublishStylesheetURLsAreLinkedVerbatim(t *testing.T) {
	var out bytes.Buffer
	p := NewPublisher(WithStdio(strings.NewReader(talk), &out))

	_, err := publish(t, p, "html5", "--stylesheet", "https://cdn.example.com/a.css,theme/b.css")
	require.NoError(t, err)
	assert.Contains(t, out.String(), "<link rel=\"stylesheet\" href=\"https://cdn.example.com/a.css\"/>\n")
	assert.Contains(t, out.String(), "<link rel=\"stylesheet\" href=\"theme/b.css\"/>\n")
}

func TestPublishMissingStylesheet(t *testing.T) {
	dir := t.TempDir()
	src := writeFile(t, filepath.Join(dir, "talk.md"), talk)
	rec := &countingRecorder{}

	_, err := publish(t, NewPublisher(WithRecorder(rec)), "slides", "--stylesheet-path", "nowhere.css", src, filepath.Join(dir, "talk.html"))
	require.Error(t, err)
	assert.True(t, errors.HasCategory(err, errors.CategoryNotFound))
	assert.NoFileExists(t, filepath.Join(dir, "talk.html"))
	assert.Equal(t, 1, rec.outcomes[metrics.OutcomeFailed])
}

func TestPublishMissingSource(t *testing.T) {
	_, err := publish(t, NewPublisher(), "html5", filepath.Join(t.TempDir(), "missing.md"))
	require.Error(t, err)
	assert.True(t, errors.HasCategory(err, errors.CategoryNotFound))
}

func TestPublishCustomTemplate(t *testing.T) {
	dir := t.TempDir()
	src := writeFile(t, filepath.Join(dir, "talk.md"), talk)
	tpl := writeFile(t, filepath.Join(dir, "page.tmpl"), "<!-- {{.Encoding}} -->\n{{.Fragment}}")
	var out bytes.Buffer

	_, err := publish(t, NewPublisher(WithStdio(nil, &out)), "html5", "--template", tpl, src)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out.String(), "<!-- utf-8 -->\n<section"))
	assert.NotContains(t, out.String(), "<head>")
}

func TestPublishTemplateErrors(t *testing.T) {
	dir := t.TempDir()
	src := writeFile(t, filepath.Join(dir, "talk.md"), talk)

	bad := writeFile(t, filepath.Join(dir, "bad.tmpl"), "{{.NoSuchPart}}")
	_, err := publish(t, NewPublisher(WithStdio(nil, &bytes.Buffer{})), "html5", "--template", bad, src)
	require.Error(t, err)
	assert.True(t, errors.HasCategory(err, errors.CategoryRender))

	_, err = publish(t, NewPublisher(WithStdio(nil, &bytes.Buffer{})), "html5", "--template", filepath.Join(dir, "absent.tmpl"), src)
	require.Error(t, err)
	assert.True(t, errors.HasCategory(err, errors.CategoryNotFound))
}

func TestPublishRecordsSuccess(t *testing.T) {
	rec := &countingRecorder{}
	p := NewPublisher(WithRecorder(rec), WithStdio(strings.NewReader(talk), &bytes.Buffer{}))

	_, err := publish(t, p, "slides")
	require.NoError(t, err)
	assert.Equal(t, 1, rec.outcomes[metrics.OutcomeSuccess])
	assert.Equal(t, 1, rec.sizes)
}

func TestPublishCanceled(t *testing.T) {
	rec := &countingRecorder{}
	p := NewPublisher(WithRecorder(rec), WithStdio(strings.NewReader(talk), &bytes.Buffer{}))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	w := mustLookup(t, "slides")
	_, err := p.Publish(ctx, Request{Writer: w})
	require.Error(t, err)
	assert.True(t, errors.HasCategory(err, errors.CategoryRuntime))
	assert.Equal(t, 1, rec.outcomes[metrics.OutcomeCanceled])
}

func TestPublishXMLSource(t *testing.T) {
	dir := t.TempDir()
	src := writeFile(t, filepath.Join(dir, "doc.xml"), `<?xml version="1.0" encoding="utf-8"?>
<document source="doc.rst" title="Deck">
  <title>Deck</title>
  <section ids="one" names="one">
    <title>One</title>
    <paragraph>First.</paragraph>
  </section>
</document>
`)
	var out bytes.Buffer
	_, err := publish(t, NewPublisher(WithStdio(nil, &out)), "slides", src)
	require.NoError(t, err)

	doc := parseHTML(t, out.Bytes())
	assert.Equal(t, "Deck", doc.Find("head title").Text())
	assert.Equal(t, 1, doc.Find("section#one.slide").Length())
}
