package translator

import (
	"maps"

	"git.home.luguber.info/inful/kirlent/internal/doctree"
)

// rule is the markup behavior for one node kind. A nil visit renders the
// children; a nil depart emits nothing.
type rule struct {
	visit  func(*Translator, *doctree.Node) doctree.WalkStatus
	depart func(*Translator, *doctree.Node)
}

// rulesFor builds the rule table for a profile. Slide rules replace base
// rules kind by kind and call the base functions by name where they extend them.
func rulesFor(p Profile) map[doctree.Kind]rule {
	rules := htmlRules()
	if p.Slides {
		maps.Copy(rules, slideRules())
	}
	return rules
}

// captured kinds keep their rules while a field name or body is being read.
var captured = map[doctree.Kind]bool{
	doctree.KindText:      true,
	doctree.KindFieldName: true,
	doctree.KindFieldBody: true,
}

func (t *Translator) dispatch(n *doctree.Node, entering bool) doctree.WalkStatus {
	if ph := t.phase.current(); ph != phaseNone && !captured[n.Kind] {
		// markup inside a directive is flattened to its text
		if entering && ph == phaseBody && n.Kind == doctree.KindParagraph && t.fieldBody.Len() > 0 {
			t.fieldBody.WriteString("\n")
		}
		return doctree.WalkContinue
	}

	r := t.ruleFor(n)
	if entering {
		if r.visit == nil {
			return doctree.WalkContinue
		}
		return r.visit(t, n)
	}
	if r.depart != nil {
		r.depart(t, n)
	}
	return doctree.WalkContinue
}

// pair renders an element with a fixed tag and optional framework classes.
func pair(tag, suffix, classes, closing string) rule {
	return rule{
		visit: func(t *Translator, n *doctree.Node) doctree.WalkStatus {
			t.emit(t.starttag(n, tag, suffix, class(classes)))
			return doctree.WalkContinue
		},
		depart: func(t *Translator, _ *doctree.Node) { t.emit(closing) },
	}
}

func inline(tag, classes string) rule {
	return pair(tag, "", classes, "</"+tag+">")
}

func block(tag, classes string) rule {
	return pair(tag, "\n", classes, "</"+tag+">\n")
}

// passthrough renders the children of a node without markup of its own.
var passthrough = rule{}

// skip drops a node and its subtree.
var skip = rule{
	visit: func(*Translator, *doctree.Node) doctree.WalkStatus { return doctree.WalkSkipChildren },
}
