package translator

import (
	"slices"
	"strings"

	"git.home.luguber.info/inful/kirlent/internal/doctree"
	"git.home.luguber.info/inful/kirlent/internal/logfields"
)

const layoutPrefix = "layout-"

func slideRules() map[doctree.Kind]rule {
	return map[doctree.Kind]rule{
		doctree.KindText:       {visit: visitSlideText},
		doctree.KindSection:    {visit: visitSlide, depart: departSlide},
		doctree.KindTitle:      {visit: visitSlideTitle, depart: departSlideTitle},
		doctree.KindContainer:  {visit: visitSlideContainer, depart: departContainer},
		doctree.KindTransition: skip,
		doctree.KindReference:  {visit: visitSlideReference, depart: departSlideReference},
		doctree.KindEmphasis:   {visit: visitSlideEmphasis, depart: departSlideEmphasis},
		doctree.KindImage:      {visit: visitSlideImage},
		doctree.KindDocinfo:    {visit: visitDocinfo, depart: departSlideDocinfo},
		doctree.KindFieldList:  {visit: visitDirectives, depart: departDirectives},
		doctree.KindFieldName:  {visit: visitDirectiveName, depart: departDirectiveName},
		doctree.KindFieldBody:  {visit: visitDirectiveBody, depart: departDirectiveBody},
	}
}

// Field lists outside docinfo carry directives for the next slide element
// instead of rendering.

func visitDirectives(t *Translator, n *doctree.Node) doctree.WalkStatus {
	if t.inDocinfo {
		return visitFieldList(t, n)
	}
	for name := range t.fields {
		if !t.seeded[name] {
			t.log.Debug("Dropping unused directive", logfields.Field(name))
			delete(t.fields, name)
		}
	}
	return doctree.WalkContinue
}

func departDirectives(t *Translator, n *doctree.Node) {
	if t.inDocinfo {
		departFieldList(t, n)
	}
}

func visitDirectiveName(t *Translator, n *doctree.Node) doctree.WalkStatus {
	if t.inDocinfo {
		return visitFieldName(t, n)
	}
	t.phase.push(phaseName)
	t.fieldName.Reset()
	return doctree.WalkContinue
}

func departDirectiveName(t *Translator, n *doctree.Node) {
	if t.inDocinfo {
		departFieldName(t, n)
		return
	}
	t.phase.pop()
}

func visitDirectiveBody(t *Translator, n *doctree.Node) doctree.WalkStatus {
	if t.inDocinfo {
		return visitFieldBody(t, n)
	}
	t.phase.push(phaseBody)
	t.fieldBody.Reset()
	return doctree.WalkContinue
}

func departDirectiveBody(t *Translator, n *doctree.Node) {
	if t.inDocinfo {
		departFieldBody(t, n)
		return
	}
	name := strings.TrimSpace(t.fieldName.String())
	t.fields[name] = strings.TrimSpace(t.fieldBody.String())
	t.phase.pop()
}

func visitSlideText(t *Translator, n *doctree.Node) doctree.WalkStatus {
	switch t.phase.current() {
	case phaseName:
		t.fieldName.WriteString(n.Value)
	case phaseBody:
		t.fieldBody.WriteString(n.Value)
	default:
		return visitText(t, n)
	}
	return doctree.WalkContinue
}

// take removes a pending directive.
func (t *Translator) take(name string) (string, bool) {
	v, ok := t.fields[name]
	if ok {
		delete(t.fields, name)
	}
	return v, ok
}

func visitSlide(t *Translator, n *doctree.Node) doctree.WalkStatus {
	st := t.state.of(n)
	st.leading = slices.Clone(t.profile.SectionClasses)
	for _, name := range t.profile.DataAttrs {
		if v, ok := t.take(name); ok {
			st.setCustom(name, v)
		}
	}
	if v, ok := t.take("style"); ok {
		if err := t.applyStyle(st, v); err != nil {
			t.fail(err)
			return doctree.WalkStop
		}
	}
	return visitSection(t, n)
}

func departSlide(t *Translator, n *doctree.Node) {
	if st := t.state.peek(n); st != nil && st.contentOpen {
		t.emit("</div>\n")
	}
	departSection(t, n)
}

func isSlideTitle(n *doctree.Node) bool {
	return n.Parent != nil && n.Parent.Kind == doctree.KindSection
}

func visitSlideTitle(t *Translator, n *doctree.Node) doctree.WalkStatus {
	if isSlideTitle(n) {
		t.emit("<header>\n")
	}
	return visitTitle(t, n)
}

func departSlideTitle(t *Translator, n *doctree.Node) {
	departTitle(t, n)
	if !isSlideTitle(n) {
		return
	}
	t.emit("</header>\n")

	// the rest of the slide goes into a content wrapper
	content := doctree.New(doctree.KindContainer).WithClasses("content")
	if layout, ok := t.take("layout"); ok {
		t.state.of(content).setStyle("grid-template-areas", gridAreas(layout))
	}
	visitSlideContainer(t, content)
	t.state.of(n.Parent).contentOpen = true
}

// gridAreas quotes each line of a layout directive as a grid row.
func gridAreas(layout string) string {
	var rows []string
	for _, line := range strings.Split(layout, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			rows = append(rows, "'"+line+"'")
		}
	}
	return strings.Join(rows, " ")
}

func visitSlideContainer(t *Translator, n *doctree.Node) doctree.WalkStatus {
	kept := []string{}
	placed := false
	for _, c := range n.Classes {
		if area, ok := strings.CutPrefix(c, layoutPrefix); ok {
			t.state.of(n).setStyle("grid-area", area)
			placed = true
			continue
		}
		kept = append(kept, c)
	}
	if placed {
		t.state.of(n).classes = kept
	}
	return visitContainer(t, n)
}

func departSlideDocinfo(t *Translator, n *doctree.Node) {
	start := len(t.docinfo)
	departDocinfo(t, n)

	slide := doctree.New(doctree.KindSection).WithIDs("docinfo")
	t.state.of(slide).leading = slices.Clone(t.profile.SectionClasses)
	open := []string{
		t.starttag(slide, "section", "\n"),
		"<h1>" + encode(t.docTitle) + "</h1>\n",
	}
	t.docinfo = slices.Insert(t.docinfo, start, open...)
	t.docinfo = append(t.docinfo, "</section>\n")
}
