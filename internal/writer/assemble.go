package writer

import (
	"bytes"
	"fmt"
	"os"
	"text/template"

	"git.home.luguber.info/inful/kirlent/internal/assets"
	"git.home.luguber.info/inful/kirlent/internal/foundation/errors"
	"git.home.luguber.info/inful/kirlent/internal/translator"
	"git.home.luguber.info/inful/kirlent/internal/version"
)

// templateData exposes the rendered parts to a page template. Unknown keys
// fail the render.
func templateData(p *translator.Parts) map[string]any {
	return map[string]any{
		"HeadPrefix":     p.HeadPrefix,
		"Head":           p.Head,
		"Meta":           p.Meta,
		"Stylesheet":     p.Stylesheet,
		"BodyPrefix":     p.BodyPrefix,
		"BodyPreDocinfo": p.BodyPreDocinfo,
		"Docinfo":        p.Docinfo,
		"Body":           p.Body,
		"BodySuffix":     p.BodySuffix,
		"Title":          p.Title,
		"Subtitle":       p.Subtitle,
		"HTMLTitle":      p.HTMLTitle,
		"HTMLSubtitle":   p.HTMLSubtitle,
		"HTMLHead":       p.HTMLHead,
		"HTMLBody":       p.HTMLBody,
		"Fragment":       p.Fragment,
		"Encoding":       "utf-8",
		"Version":        version.Version,
	}
}

// loadTemplate returns the page template: the file named by path, or the
// bundled default when path is empty.
func loadTemplate(path string) (string, error) {
	if path == "" {
		return assets.DocumentTemplate(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", errors.NotFoundError(fmt.Sprintf("template not found: %s", path)).
				WithContext("path", path).
				Build()
		}
		return "", errors.WrapError(err, errors.CategoryFileSystem, "cannot read template "+path).
			WithContext("path", path).
			Build()
	}
	return string(data), nil
}

// assemble executes the page template over the parts.
func assemble(body string, p *translator.Parts) ([]byte, error) {
	tpl, err := template.New("document").Option("missingkey=error").Parse(body)
	if err != nil {
		return nil, errors.WrapError(err, errors.CategoryConfig, "parse template").Build()
	}
	var buf bytes.Buffer
	if err := tpl.Execute(&buf, templateData(p)); err != nil {
		return nil, errors.WrapError(err, errors.CategoryRender, "render template").Build()
	}
	return buf.Bytes(), nil
}
