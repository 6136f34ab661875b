package doctree

// WalkStatus tells Walk how to continue after a callback.
type WalkStatus int

const (
	// WalkContinue descends into children.
	WalkContinue WalkStatus = iota
	// WalkSkipChildren does not descend; the leaving call still happens.
	WalkSkipChildren
	// WalkStop ends the traversal.
	WalkStop
)

// Walker is called twice per node: entering before its children and leaving after.
type Walker func(n *Node, entering bool) (WalkStatus, error)

// Walk traverses the subtree rooted at n in document order.
func Walk(n *Node, walker Walker) error {
	_, err := walk(n, walker)
	return err
}

func walk(n *Node, walker Walker) (WalkStatus, error) {
	status, err := walker(n, true)
	if err != nil || status == WalkStop {
		return WalkStop, err
	}
	if status != WalkSkipChildren {
		// children may be rewritten by the callback; iterate over a snapshot
		children := append([]*Node(nil), n.Children...)
		for _, c := range children {
			if st, err := walk(c, walker); err != nil || st == WalkStop {
				return WalkStop, err
			}
		}
	}
	status, err = walker(n, false)
	if err != nil || status == WalkStop {
		return WalkStop, err
	}
	return WalkContinue, nil
}

// Find returns the first node in document order for which match is true.
func Find(n *Node, match func(*Node) bool) *Node {
	var found *Node
	_ = Walk(n, func(c *Node, entering bool) (WalkStatus, error) {
		if entering && match(c) {
			found = c
			return WalkStop, nil
		}
		return WalkContinue, nil
	})
	return found
}

// FindAll returns every node of the given kind in document order.
func FindAll(n *Node, kind Kind) []*Node {
	var out []*Node
	_ = Walk(n, func(c *Node, entering bool) (WalkStatus, error) {
		if entering && c.Kind == kind {
			out = append(out, c)
		}
		return WalkContinue, nil
	})
	return out
}
