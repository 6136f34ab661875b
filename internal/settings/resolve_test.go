package settings

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/kirlent/internal/foundation/errors"
)

func TestParseSlideSize(t *testing.T) {
	tests := []struct {
		in            string
		width, height int
		wantErr       bool
	}{
		{in: "a4", width: 1125, height: 795},
		{in: "A4", width: 1125, height: 795},
		{in: "42x35", width: 42, height: 35},
		{in: "1280x720", width: 1280, height: 720},
		{in: "1280", wantErr: true},
		{in: "wide", wantErr: true},
		{in: "0x10", wantErr: true},
		{in: "10xabc", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			w, h, err := ParseSlideSize(tt.in)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.width, w)
			assert.Equal(t, tt.height, h)
		})
	}
}

func TestAutoFontSize(t *testing.T) {
	assert.Equal(t, 30, AutoFontSize(1280, 720))
	assert.Equal(t, 28, AutoFontSize(1125, 795))
	assert.Equal(t, 1, AutoFontSize(42, 35))
}

func TestParseImageScale(t *testing.T) {
	s, err := ParseImageScale("auto")
	require.NoError(t, err)
	assert.True(t, s.Auto)
	assert.InDelta(t, 2.0, s.FactorFor(32), 1e-9)

	s, err = ParseImageScale("3")
	require.NoError(t, err)
	assert.InDelta(t, 3.0, s.FactorFor(32), 1e-9)

	_, err = ParseImageScale("-1")
	require.Error(t, err)
}

func TestResolve(t *testing.T) {
	values := Values{
		"language_code":        "pt-br",
		"slide_size":           "a4",
		"font_size":            0,
		"stylesheet_path":      []string{"minimal.css"},
		"embed_stylesheet":     true,
		"min_scale":            0.0,
		"max_scale":            3.0,
		"transition":           "fade",
		"initial_header_level": 2,
	}
	s, err := Resolve(values)
	require.NoError(t, err)
	assert.Equal(t, "pt-BR", s.Language)
	assert.Equal(t, "auto", s.InputFormat)
	assert.Equal(t, "a4", s.SlideSize)
	assert.Equal(t, []string{"minimal.css"}, s.StylesheetPaths)
	assert.True(t, s.EmbedStylesheet)
	assert.Equal(t, "fade", s.Transition)
}

func TestResolve_ConfigErrors(t *testing.T) {
	tests := []struct {
		name   string
		values Values
		option string
	}{
		{"slide size", Values{"slide_size": "huge"}, "--slide-size"},
		{"transition", Values{"transition": "spin"}, "--transition"},
		{"font size", Values{"font_size": -1}, "--font-size"},
		{"scale order", Values{"min_scale": 2.0, "max_scale": 1.0}, "--max-scale"},
		{"header level", Values{"initial_header_level": 9}, "--initial-header-level"},
		{"language", Values{"language_code": "not a tag"}, "--language"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Resolve(tt.values)
			require.Error(t, err)
			c, ok := errors.AsClassified(err)
			require.True(t, ok)
			assert.Equal(t, errors.CategoryConfig, c.Category())
			assert.Contains(t, c.Message(), tt.option)
		})
	}
}
