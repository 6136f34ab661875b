// Package assets bundles the default stylesheets and the document template.
package assets

import (
	"embed"
	"io/fs"
	"path"
	"sort"
)

//go:embed css/*.css
var stylesheets embed.FS

//go:embed templates/document.html
var documentTemplate string

// Stylesheet returns the content of a bundled stylesheet by file name.
func Stylesheet(name string) ([]byte, bool) {
	if name != path.Base(name) {
		return nil, false
	}
	data, err := stylesheets.ReadFile(path.Join("css", name))
	if err != nil {
		return nil, false
	}
	return data, true
}

// Stylesheets lists the bundled stylesheet names in sorted order.
func Stylesheets() []string {
	entries, err := fs.ReadDir(stylesheets, "css")
	if err != nil {
		return nil
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name())
	}
	sort.Strings(names)
	return names
}

// DocumentTemplate is the default text/template that assembles a whole page
// from rendered parts.
func DocumentTemplate() string {
	return documentTemplate
}
