package translator

import (
	"slices"

	"git.home.luguber.info/inful/kirlent/internal/doctree"
)

// declaration is one inline CSS property.
type declaration struct {
	property string
	value    string
}

// nodeState is the transient render state the translator keeps for a node.
// It lives in a side table for one render pass; document nodes are never
// mutated.
type nodeState struct {
	// leading classes injected ahead of the author's classes, e.g. "slide".
	leading []string
	// classes replaces the author's classes when non-nil.
	classes []string
	// trailing classes follow the author's classes, e.g. "reveal".
	trailing []string
	// ids are rendered ahead of the node's own ids.
	ids []string
	// paused marks a node that received the pause directive.
	paused bool
	custom map[string]string
	styles []declaration
	// singleP marks a paragraph rendered without its wrapper.
	singleP bool
	// annotation marks a reference or emphasis rendered as an annotation span.
	annotation bool
	// text replaces the content of a text node.
	text *string
	// height overrides the height attribute of an image.
	height string
	// contentOpen marks a slide whose content wrapper is still open.
	contentOpen bool
	// closing is the end tag emitted on departure.
	closing string
	// mark is a body offset remembered between visit and depart.
	mark int
}

type sideTable map[*doctree.Node]*nodeState

func (s sideTable) of(n *doctree.Node) *nodeState {
	st, ok := s[n]
	if !ok {
		st = &nodeState{}
		s[n] = st
	}
	return st
}

func (s sideTable) peek(n *doctree.Node) *nodeState {
	return s[n]
}

// setStyle adds or replaces a declaration, keeping insertion order.
func (st *nodeState) setStyle(property, value string) {
	for i, d := range st.styles {
		if d.property == property {
			st.styles[i].value = value
			return
		}
	}
	st.styles = append(st.styles, declaration{property: property, value: value})
}

func (st *nodeState) setCustom(name, value string) {
	if st.custom == nil {
		st.custom = make(map[string]string)
	}
	st.custom[name] = value
}

// fieldPhase tracks where the walk is inside a captured field list.
type fieldPhase int

const (
	phaseNone fieldPhase = iota
	phaseName
	phaseBody
)

// phaseStack is pushed on entering a field name or body and popped on leaving.
type phaseStack []fieldPhase

func (p *phaseStack) push(ph fieldPhase) { *p = append(*p, ph) }

func (p *phaseStack) pop() {
	if len(*p) > 0 {
		*p = (*p)[:len(*p)-1]
	}
}

func (p phaseStack) current() fieldPhase {
	if len(p) == 0 {
		return phaseNone
	}
	return p[len(p)-1]
}

// effectiveClasses returns the classes a node renders with before framework classes.
func (t *Translator) effectiveClasses(n *doctree.Node) []string {
	st := t.state.peek(n)
	if st == nil {
		return slices.Clone(n.Classes)
	}
	classes := n.Classes
	if st.classes != nil {
		classes = st.classes
	}
	out := append(slices.Clone(st.leading), classes...)
	out = append(out, st.trailing...)
	if st.paused && t.profile.PauseClass != "" {
		out = append(out, t.profile.PauseClass)
	}
	return out
}
