package settings

import (
	"fmt"
	"strconv"
	"strings"
)

// Named slide sizes in pixels.
var namedSlideSizes = map[string][2]int{
	"a4": {1125, 795},
}

// DefaultSlideSize is used by every slide writer when --slide-size is not given.
const DefaultSlideSize = "1280x720"

// ParseSlideSize reads "WxH" or a named size such as "a4".
func ParseSlideSize(raw string) (width, height int, err error) {
	s := strings.ToLower(strings.TrimSpace(raw))
	if size, ok := namedSlideSizes[s]; ok {
		return size[0], size[1], nil
	}
	ws, hs, ok := strings.Cut(s, "x")
	if !ok {
		return 0, 0, fmt.Errorf("slide size %q is not WIDTHxHEIGHT or a named size", raw)
	}
	width, werr := strconv.Atoi(strings.TrimSpace(ws))
	height, herr := strconv.Atoi(strings.TrimSpace(hs))
	if werr != nil || herr != nil || width <= 0 || height <= 0 {
		return 0, 0, fmt.Errorf("slide size %q must have positive integer dimensions", raw)
	}
	return width, height, nil
}

// AutoFontSize fits 40 characters per line and 24 lines per screen.
func AutoFontSize(width, height int) int {
	return min(width/40, height/24)
}

// ReferenceFontSize is the font size diagram tools assume when writing SVG dimensions.
const ReferenceFontSize = 16

// ImageScale selects how vector diagram heights are scaled on slides.
type ImageScale struct {
	// Auto derives the factor from the slide font size.
	Auto   bool
	Factor float64
}

// ParseImageScale reads "auto" or a positive multiplier such as "3".
func ParseImageScale(raw string) (ImageScale, error) {
	s := strings.TrimSpace(raw)
	if s == "" || strings.EqualFold(s, "auto") {
		return ImageScale{Auto: true}, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || f <= 0 {
		return ImageScale{}, fmt.Errorf("image scale %q is neither auto nor a positive number", raw)
	}
	return ImageScale{Factor: f}, nil
}

// FactorFor returns the multiplier for the given font size.
func (s ImageScale) FactorFor(fontSize int) float64 {
	if s.Auto {
		return float64(fontSize) / ReferenceFontSize
	}
	return s.Factor
}
