package translator

import (
	"regexp"
	"slices"
	"sort"
	"strings"

	"git.home.luguber.info/inful/kirlent/internal/doctree"
)

// attr is a tag attribute requested by a rule. The "class" attribute carries
// framework classes that are subject to unwanted-class filtering.
type attr struct {
	name  string
	value string
}

func class(names string) attr { return attr{name: "class", value: names} }

func with(name, value string) attr { return attr{name: name, value: value} }

// unwantedClasses are framework marker classes dropped per node kind unless the
// author attached the same class to the node.
var unwantedClasses = map[doctree.Kind][]string{
	doctree.KindContainer:  {"container", "docutils"},
	doctree.KindLiteral:    {"docutils"},
	doctree.KindTransition: {"docutils"},
	doctree.KindEntry:      {"head"},
	doctree.KindReference:  {"reference", "external", "internal"},
	doctree.KindTable:      {"colwidths-auto", "colwidths-given", "colwidths-grid", "docutils"},
}

// sequential kinds get extra ids as empty spans in front of the element.
var sequential = map[doctree.Kind]bool{
	doctree.KindBulletList: true,
	doctree.KindEnumList:   true,
	doctree.KindDefList:    true,
	doctree.KindFieldList:  true,
	doctree.KindDocinfo:    true,
	doctree.KindTable:      true,
}

var (
	spaceBeforeSlash = regexp.MustCompile(`\s+/>$`)
	classAttribute   = regexp.MustCompile(` class="[^"]*"`)
	whitespace       = regexp.MustCompile(`\s+`)
)

var textEscaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	`"`, "&quot;",
	">", "&gt;",
	"@", "&#64;",
)

// encode escapes text for HTML. Apostrophes are left alone so that grid
// template rows such as 'aa' 'bb' survive.
func encode(text string) string {
	return textEscaper.Replace(text)
}

// attval encodes an attribute value with whitespace collapsed.
func attval(text string) string {
	return encode(whitespace.ReplaceAllString(text, " "))
}

// starttag renders an opening tag for n. Classes come from the node's
// effective classes followed by framework classes; unwanted framework classes
// are filtered, a pending pause directive is applied, and custom attributes
// and styles from the side table are merged in. Attributes are sorted by name.
func (t *Translator) starttag(n *doctree.Node, tagname, suffix string, attrs ...attr) string {
	return t.buildTag(n, tagname, suffix, false, attrs)
}

// emptytag renders a self-closing tag without a space before the slash.
func (t *Translator) emptytag(n *doctree.Node, tagname string, attrs ...attr) string {
	return spaceBeforeSlash.ReplaceAllString(t.buildTag(n, tagname, "", true, attrs), "/>")
}

func (t *Translator) buildTag(n *doctree.Node, tagname, suffix string, empty bool, attrs []attr) string {
	if t.profile.Slides && n.Kind != doctree.KindDocument {
		if _, ok := t.fields["pause"]; ok {
			delete(t.fields, "pause")
			t.state.of(n).paused = true
		}
	}

	atts := make(map[string]string)
	var framework []string
	for _, a := range attrs {
		if a.name == "class" {
			framework = append(framework, strings.Fields(a.value)...)
			continue
		}
		atts[strings.ToLower(a.name)] = a.value
	}

	var classes []string
	var lang string
	for _, c := range t.effectiveClasses(n) {
		switch {
		case strings.HasPrefix(c, "language-"):
			if lang == "" {
				lang = strings.TrimPrefix(c, "language-")
			}
		case strings.TrimSpace(c) != "" && !slices.Contains(classes, c):
			classes = append(classes, c)
		}
	}
	unwanted := unwantedClasses[n.Kind]
	for _, c := range framework {
		if slices.Contains(unwanted, c) && !n.HasClass(c) {
			continue
		}
		if !slices.Contains(classes, c) {
			classes = append(classes, c)
		}
	}
	if lang != "" {
		atts["lang"] = lang
	}
	if len(classes) > 0 {
		atts["class"] = strings.Join(classes, " ")
	}

	if st := t.state.peek(n); st != nil {
		for k, v := range st.custom {
			atts[k] = v
		}
		if len(st.styles) > 0 {
			decls := make([]string, 0, len(st.styles))
			for _, d := range st.styles {
				decls = append(decls, d.property+": "+d.value+";")
			}
			style := strings.Join(decls, " ")
			if existing, ok := atts["style"]; ok && existing != "" {
				style = strings.TrimSpace(existing) + " " + style
			}
			atts["style"] = style
		}
	}

	ids := n.IDs
	if st := t.state.peek(n); st != nil && len(st.ids) > 0 {
		ids = append(slices.Clone(st.ids), ids...)
	}
	var prefix strings.Builder
	if len(ids) > 0 {
		atts["id"] = ids[0]
		for _, id := range ids[1:] {
			span := `<span id="` + attval(id) + `"></span>`
			if empty || sequential[n.Kind] {
				prefix.WriteString(span)
			} else {
				suffix += span
			}
		}
	}

	names := make([]string, 0, len(atts))
	for k := range atts {
		names = append(names, k)
	}
	sort.Strings(names)

	var b strings.Builder
	b.WriteString(prefix.String())
	b.WriteString("<" + strings.ToLower(tagname))
	for _, k := range names {
		b.WriteString(" " + k + `="` + attval(atts[k]) + `"`)
	}
	if empty {
		b.WriteString(" />")
	} else {
		b.WriteString(">")
	}
	b.WriteString(suffix)
	return b.String()
}

// stripClass removes every class attribute from a rendered tag.
func stripClass(tag string) string {
	return classAttribute.ReplaceAllString(tag, "")
}
