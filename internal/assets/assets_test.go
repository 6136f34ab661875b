package assets

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBundledStylesheets(t *testing.T) {
	names := Stylesheets()
	for _, want := range []string{
		"impressjs-base.css", "minimal.css", "plain.css",
		"revealjs-base.css", "slides-base.css", "slides-simple.css",
	} {
		assert.Contains(t, names, want)
	}

	data, ok := Stylesheet("slides-base.css")
	require.True(t, ok)
	assert.Contains(t, string(data), "--color-annotation-default")
}

func TestStylesheetRejectsPaths(t *testing.T) {
	_, ok := Stylesheet("../assets.go")
	assert.False(t, ok)
	_, ok = Stylesheet("missing.css")
	assert.False(t, ok)
}

func TestDocumentTemplate(t *testing.T) {
	tpl := DocumentTemplate()
	assert.True(t, strings.HasPrefix(tpl, "{{.HeadPrefix}}"))
	assert.Contains(t, tpl, "{{.Stylesheet}}")
}
