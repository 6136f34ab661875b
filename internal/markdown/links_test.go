package markdown

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLocalAssets_ImagesAndLinks(t *testing.T) {
	src := []byte("![Diagram](img/diagram.svg)\n\nSee [notes](./notes.md#part) and [site](https://example.com).\n")
	require.Equal(t, []string{"img/diagram.svg", "notes.md"}, LocalAssets(src))
}

func TestLocalAssets_SkipsFragmentsAbsoluteAndDuplicates(t *testing.T) {
	src := []byte("[a](#top) [b](/abs.png) ![c](x.png) ![d](x.png) [e](mailto:me@example.com)\n")
	require.Equal(t, []string{"x.png"}, LocalAssets(src))
}

func TestLocalAssets_ReferenceLinks(t *testing.T) {
	src := []byte("See [API][ref].\n\n[ref]: api.md\n")
	require.Equal(t, []string{"api.md"}, LocalAssets(src))
}

func TestLocalAssets_SkipsCode(t *testing.T) {
	src := []byte("" +
		"Inline code: `[Link](./ignored-inline.md)`\n" +
		"\n" +
		"```\n" +
		"[Link](./ignored-fence.md)\n" +
		"```\n" +
		"\n" +
		"Real: [OK](./real.md)\n")
	require.Equal(t, []string{"real.md"}, LocalAssets(src))
}
