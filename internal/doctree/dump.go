package doctree

import (
	"fmt"
	"sort"
	"strings"

	tp "github.com/xlab/treeprint"
)

// Dump renders the subtree as an indented outline, one node per line.
func Dump(n *Node) string {
	root := tp.New()
	root.SetValue(label(n))
	for _, c := range n.Children {
		dumpNode(root, c)
	}
	return root.String()
}

func dumpNode(p tp.Tree, n *Node) {
	if len(n.Children) == 0 {
		p.AddNode(label(n))
		return
	}
	branch := p.AddBranch(label(n))
	for _, c := range n.Children {
		dumpNode(branch, c)
	}
}

func label(n *Node) string {
	if n.Kind == KindText {
		return fmt.Sprintf("%q", n.Value)
	}
	var b strings.Builder
	b.WriteString("<" + string(n.Kind))
	if len(n.IDs) > 0 {
		fmt.Fprintf(&b, " ids=%q", strings.Join(n.IDs, " "))
	}
	if len(n.Names) > 0 {
		fmt.Fprintf(&b, " names=%q", strings.Join(n.Names, " "))
	}
	if len(n.Classes) > 0 {
		fmt.Fprintf(&b, " classes=%q", strings.Join(n.Classes, " "))
	}
	keys := make([]string, 0, len(n.Attrs))
	for k := range n.Attrs {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Fprintf(&b, " %s=%q", k, n.Attrs[k])
	}
	b.WriteString(">")
	return b.String()
}
