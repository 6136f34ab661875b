package markdown

import (
	"net/url"
	"path"
	"strings"

	gmast "github.com/yuin/goldmark/ast"
)

// LocalAssets lists the relative image and link destinations of a Markdown
// body, in document order and without duplicates. Remote URLs, fragments and
// absolute paths are skipped.
func LocalAssets(body []byte) []string {
	root := Parse(body)
	seen := make(map[string]bool)
	var out []string
	_ = gmast.Walk(root, func(n gmast.Node, entering bool) (gmast.WalkStatus, error) {
		if !entering {
			return gmast.WalkContinue, nil
		}
		var dest string
		switch node := n.(type) {
		case *gmast.Image:
			dest = string(node.Destination)
		case *gmast.Link:
			dest = string(node.Destination)
		default:
			return gmast.WalkContinue, nil
		}
		if p, ok := localPath(dest); ok && !seen[p] {
			seen[p] = true
			out = append(out, p)
		}
		return gmast.WalkContinue, nil
	})
	return out
}

func localPath(dest string) (string, bool) {
	if dest == "" || strings.HasPrefix(dest, "#") || strings.HasPrefix(dest, "/") {
		return "", false
	}
	u, err := url.Parse(dest)
	if err != nil || u.Scheme != "" || u.Host != "" || u.Path == "" {
		return "", false
	}
	return path.Clean(u.Path), true
}
