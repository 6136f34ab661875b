package translator

import (
	"strings"
	"unicode/utf8"

	"git.home.luguber.info/inful/kirlent/internal/doctree"
)

const defaultAnnotationCategory = "default"

// emphasisEffects maps the delimiters around emphasized text to a
// rough-notation effect.
var emphasisEffects = map[[2]rune]string{
	{'+', '+'}: "underline",
	{'[', ']'}: "box",
	{'(', ')'}: "circle",
	{'=', '='}: "highlight",
	{'~', '~'}: "strike-through",
	{'/', '/'}: "crossed-off",
	{'{', '}'}: "bracket",
}

func annotationMarkup(effect, category string) string {
	return `<span onclick="annotate(this, '` + encode(effect) + `', '` + encode(category) + `')">`
}

// parseAnnotation splits "effect[/category]". The category is only honored
// when exactly one segment follows the effect.
func parseAnnotation(spec string) (effect, category string) {
	parts := strings.Split(spec, "/")
	effect, category = parts[0], defaultAnnotationCategory
	if len(parts) == 2 && parts[1] != "" {
		category = parts[1]
	}
	return effect, category
}

func visitSlideReference(t *Translator, n *doctree.Node) doctree.WalkStatus {
	spec, ok := strings.CutPrefix(n.Attr("refuri"), annotationPrefix)
	if !ok {
		return visitReference(t, n)
	}
	t.emit(annotationMarkup(parseAnnotation(spec)))
	t.state.of(n).annotation = true
	return doctree.WalkContinue
}

func departSlideReference(t *Translator, n *doctree.Node) {
	if st := t.state.peek(n); st != nil && st.annotation {
		t.emit("</span>")
		return
	}
	departReference(t, n)
}

// emphasisAnnotation recognizes *[boxed]* style emphasis when enabled.
func emphasisAnnotation(n *doctree.Node) (effect, inner string, ok bool) {
	if len(n.Children) != 1 || n.Children[0].Kind != doctree.KindText {
		return "", "", false
	}
	text := n.Children[0].Value
	if utf8.RuneCountInString(text) < 3 {
		return "", "", false
	}
	first, fs := utf8.DecodeRuneInString(text)
	last, ls := utf8.DecodeLastRuneInString(text)
	effect, ok = emphasisEffects[[2]rune{first, last}]
	if !ok {
		return "", "", false
	}
	return effect, text[fs : len(text)-ls], true
}

func visitSlideEmphasis(t *Translator, n *doctree.Node) doctree.WalkStatus {
	if t.settings.EmphasisAnnotations {
		if effect, inner, ok := emphasisAnnotation(n); ok {
			t.emit(annotationMarkup(effect, defaultAnnotationCategory))
			t.state.of(n).annotation = true
			t.state.of(n.Children[0]).text = &inner
			return doctree.WalkContinue
		}
	}
	t.emit(t.starttag(n, "em", ""))
	return doctree.WalkContinue
}

func departSlideEmphasis(t *Translator, n *doctree.Node) {
	if st := t.state.peek(n); st != nil && st.annotation {
		t.emit("</span>")
		return
	}
	t.emit("</em>")
}
