package translator

import (
	"fmt"
	"path/filepath"
	"regexp"
	"slices"
	"strconv"
	"strings"

	"git.home.luguber.info/inful/kirlent/internal/doctree"
)

const (
	doctype      = "<!DOCTYPE html>\n"
	charsetMeta  = "<meta charset=\"utf-8\"/>\n"
	viewportMeta = "<meta name=\"viewport\" content=\"width=device-width, initial-scale=1\"/>\n"
)

// simpleBlocks hold a lone paragraph without a <p> wrapper.
var simpleBlocks = map[doctree.Kind]bool{
	doctree.KindDefinition: true,
	doctree.KindEntry:      true,
	doctree.KindFieldBody:  true,
	doctree.KindListItem:   true,
}

// docinfoMeta maps bibliographic kinds to the meta names they publish.
var docinfoMeta = map[doctree.Kind]string{
	doctree.KindAuthor:    "author",
	doctree.KindDate:      "dcterms.date",
	doctree.KindCopyright: "dcterms.rights",
}

var numericLength = regexp.MustCompile(`^[0-9.]+$`)

func htmlRules() map[doctree.Kind]rule {
	rules := map[doctree.Kind]rule{
		doctree.KindDocument: {visit: visitDocument, depart: departDocument},
		doctree.KindSection:  {visit: visitSection, depart: departSection},
		doctree.KindTitle:    {visit: visitTitle, depart: departTitle},
		doctree.KindSubtitle: {visit: visitSubtitle, depart: departSubtitle},
		doctree.KindText:     {visit: visitText},

		doctree.KindParagraph:      {visit: visitParagraph, depart: departParagraph},
		doctree.KindEmphasis:       inline("em", ""),
		doctree.KindStrong:         inline("strong", ""),
		doctree.KindTitleReference: inline("cite", ""),
		doctree.KindSubscript:      inline("sub", ""),
		doctree.KindSuperscript:    inline("sup", ""),
		doctree.KindInline:         inline("span", ""),
		doctree.KindAbbreviation:   inline("abbr", ""),
		doctree.KindLiteral:        pair("span", "", "docutils literal", "</span>"),
		doctree.KindReference:      {visit: visitReference, depart: departReference},
		doctree.KindTarget:         {visit: visitTarget, depart: departTarget},
		doctree.KindProblematic:    {visit: visitProblematic, depart: departProblematic},

		doctree.KindBulletList:    block("ul", ""),
		doctree.KindEnumList:      {visit: visitEnumList, depart: departEnumList},
		doctree.KindListItem:      pair("li", "", "", "</li>\n"),
		doctree.KindDefList:       block("dl", ""),
		doctree.KindDefListItem:   passthrough,
		doctree.KindTerm:          {visit: visitTerm, depart: departTerm},
		doctree.KindClassifier:    {visit: visitClassifier, depart: departClassifier},
		doctree.KindDefinition:    pair("dd", "", "", "</dd>\n"),
		doctree.KindFieldList:     {visit: visitFieldList, depart: departFieldList},
		doctree.KindField:         passthrough,
		doctree.KindFieldName:     {visit: visitFieldName, depart: departFieldName},
		doctree.KindFieldBody:     {visit: visitFieldBody, depart: departFieldBody},
		doctree.KindLineBlock:     passthrough,
		doctree.KindLine:          {depart: departLine},
		doctree.KindLiteralBlock:  pair("pre", "", "literal-block", "</pre>\n"),
		doctree.KindBlockQuote:    block("blockquote", ""),
		doctree.KindAttribution:   pair("p", "&mdash; ", "attribution", "</p>\n"),
		doctree.KindContainer:     {visit: visitContainer, depart: departContainer},
		doctree.KindTransition:    {visit: visitTransition},
		doctree.KindTopic:         block("aside", "topic"),
		doctree.KindSidebar:       block("aside", "sidebar"),
		doctree.KindRubric:        pair("p", "", "rubric", "</p>\n"),
		doctree.KindFigure:        {visit: visitFigure, depart: departFigure},
		doctree.KindCaption:       {visit: visitCaption, depart: departCaption},
		doctree.KindLegend:        {visit: visitLegend, depart: departLegend},
		doctree.KindImage:         {visit: visitImage},
		doctree.KindComment:       {visit: visitComment},
		doctree.KindRaw:           {visit: visitRaw},
		doctree.KindSubstitution:  skip,
		doctree.KindSystemMessage: {visit: visitSystemMessage, depart: departSystemMessage},
		doctree.KindDecoration:    passthrough,
		doctree.KindHeader:        block("header", ""),
		doctree.KindFooter:        block("footer", ""),
		doctree.KindAdmonition:    {visit: visitAdmonition, depart: departAdmonition},

		doctree.KindTable:   {visit: visitTable, depart: departTable},
		doctree.KindTGroup:  passthrough,
		doctree.KindColSpec: skip,
		doctree.KindTHead:   block("thead", ""),
		doctree.KindTBody:   block("tbody", ""),
		doctree.KindRow:     block("tr", ""),
		doctree.KindEntry:   {visit: visitEntry, depart: departEntry},

		doctree.KindDocinfo: {visit: visitDocinfo, depart: departDocinfo},
		doctree.KindAuthors: passthrough,
	}
	for _, k := range doctree.Admonitions {
		rules[k] = rule{visit: visitAdmonition, depart: departAdmonition}
	}
	for _, k := range doctree.DocinfoItems {
		if k == doctree.KindAuthors {
			continue
		}
		rules[k] = rule{visit: visitDocinfoItem, depart: departDocinfoItem}
	}
	return rules
}

// documentTitle picks the <title> text: the --title setting, then the
// document's own title, then the source file name.
func (t *Translator) documentTitle(n *doctree.Node) string {
	if t.settings.Title != "" {
		return t.settings.Title
	}
	if title := n.Attr("title"); title != "" {
		return title
	}
	if src := t.settings.Source; src != "" && src != "-" {
		base := filepath.Base(src)
		return strings.TrimSuffix(base, filepath.Ext(base))
	}
	return ""
}

func visitDocument(t *Translator, n *doctree.Node) doctree.WalkStatus {
	t.docTitle = t.documentTitle(n)
	t.meta = []string{viewportMeta, generatorMeta()}
	t.head = slices.Clone(t.meta)
	t.head = append(t.head, "<title>"+encode(t.docTitle)+"</title>\n")
	return doctree.WalkContinue
}

func departDocument(t *Translator, n *doctree.Node) {
	t.meta = slices.Insert(t.meta, 0, charsetMeta)
	t.head = slices.Insert(t.head, 0, charsetMeta)
	if t.profile.Head != nil {
		t.head = append(t.head, t.profile.Head(t.geometry, t.settings)...)
	}
	t.headPrefix = []string{
		doctype,
		fmt.Sprintf("<html lang=\"%s\">\n<head>\n", attval(t.settings.Language)),
	}

	if t.profile.Root != nil {
		root := t.profile.Root(t.geometry, t.settings)
		st := t.state.of(n)
		st.ids = root.IDs
		st.trailing = root.Classes
		for k, v := range root.Attrs {
			st.setCustom(k, v)
		}
	}
	if t.profile.BodyOpen != "" {
		t.bodyPreDocinfo = append(t.bodyPreDocinfo, t.profile.BodyOpen)
		t.body = append(t.body, t.profile.BodyClose)
	}
	t.bodyPrefix = []string{"</head>\n<body>\n", t.starttag(n, "main", "\n")}
	t.bodySuffix = []string{"</main>\n", "</body>\n</html>\n"}

	t.htmlHead = slices.Clone(t.head)
	t.htmlBody = slices.Concat(t.bodyPrefix[1:], t.bodyPreDocinfo, t.docinfo, t.body, t.bodySuffix[:1])
	t.fragment = slices.Clone(t.body)
}

func visitSection(t *Translator, n *doctree.Node) doctree.WalkStatus {
	t.sectionLevel++
	t.emit(t.starttag(n, "section", "\n"))
	return doctree.WalkContinue
}

func departSection(t *Translator, _ *doctree.Node) {
	t.sectionLevel--
	t.emit("</section>\n")
}

func visitTitle(t *Translator, n *doctree.Node) doctree.WalkStatus {
	st := t.state.of(n)
	parent := n.Parent
	switch {
	case parent == nil:
		st.closing = ""
	case parent.Kind == doctree.KindDocument:
		t.emit(t.starttag(n, "h1", "", class("title")))
		t.inDocumentTitle = len(t.body)
		st.closing = "</h1>\n"
	case parent.Kind == doctree.KindSection:
		level := min(t.sectionLevel+t.settings.InitialHeaderLevel-1, 6)
		tag := "h" + strconv.Itoa(level)
		t.emit(t.starttag(n, tag, ""))
		st.closing = "</" + tag + ">\n"
	case parent.Kind == doctree.KindTable:
		t.emit(t.starttag(n, "caption", ""))
		st.closing = "</caption>\n"
	case parent.Kind == doctree.KindTopic:
		t.emit(t.starttag(n, "p", "", class("topic-title")))
		st.closing = "</p>\n"
	case parent.Kind == doctree.KindSidebar:
		t.emit(t.starttag(n, "p", "", class("sidebar-title")))
		st.closing = "</p>\n"
	case parent.Kind == doctree.KindAdmonition:
		t.emit(t.starttag(n, "p", "", class("admonition-title")))
		st.closing = "</p>\n"
	default:
		t.emit(t.starttag(n, "p", "", class("title")))
		st.closing = "</p>\n"
	}
	return doctree.WalkContinue
}

func departTitle(t *Translator, n *doctree.Node) {
	t.emit(t.state.of(n).closing)
	if n.Parent == nil || n.Parent.Kind != doctree.KindDocument {
		return
	}
	// the document title leaves the body for its own parts
	start := t.inDocumentTitle
	t.title = slices.Clone(t.body[start : len(t.body)-1])
	t.htmlTitle = slices.Clone(t.body[start-1:])
	t.bodyPreDocinfo = append(t.bodyPreDocinfo, t.body...)
	t.body = nil
	t.inDocumentTitle = 0
}

func visitSubtitle(t *Translator, n *doctree.Node) doctree.WalkStatus {
	switch {
	case n.Parent != nil && n.Parent.Kind == doctree.KindDocument:
		t.emit(t.starttag(n, "p", "", class("subtitle")))
		t.state.of(n).mark = len(t.body)
	case n.Parent != nil && n.Parent.Kind == doctree.KindSidebar:
		t.emit(t.starttag(n, "p", "", class("sidebar-subtitle")))
	default:
		t.emit(t.starttag(n, "p", "", class("section-subtitle")))
	}
	return doctree.WalkContinue
}

func departSubtitle(t *Translator, n *doctree.Node) {
	t.emit("</p>\n")
	if n.Parent == nil || n.Parent.Kind != doctree.KindDocument {
		return
	}
	start := t.state.of(n).mark
	t.subtitle = slices.Clone(t.body[start : len(t.body)-1])
	t.htmlSubtitle = slices.Clone(t.body[start-1:])
	t.bodyPreDocinfo = append(t.bodyPreDocinfo, t.body...)
	t.body = nil
}

func visitText(t *Translator, n *doctree.Node) doctree.WalkStatus {
	text := n.Value
	if st := t.state.peek(n); st != nil && st.text != nil {
		text = *st.text
	}
	t.emit(encode(text))
	return doctree.WalkContinue
}

func visitParagraph(t *Translator, n *doctree.Node) doctree.WalkStatus {
	if p := n.Parent; p != nil && simpleBlocks[p.Kind] && len(p.Children) < 2 {
		t.state.of(n).singleP = true
		return doctree.WalkContinue
	}
	t.emit(t.starttag(n, "p", ""))
	return doctree.WalkContinue
}

func departParagraph(t *Translator, n *doctree.Node) {
	if st := t.state.peek(n); st != nil && st.singleP {
		return
	}
	t.emit("</p>\n")
}

func visitReference(t *Translator, n *doctree.Node) doctree.WalkStatus {
	href, ok := n.Get("refuri")
	if !ok {
		href = "#" + n.Attr("refid")
	}
	t.emit(t.starttag(n, "a", "", class("reference"), with("href", href)))
	return doctree.WalkContinue
}

func departReference(t *Translator, _ *doctree.Node) {
	t.emit("</a>")
}

// targets only render when they anchor something in place.
func isInlineTarget(n *doctree.Node) bool {
	for _, k := range []string{"refuri", "refid", "refname"} {
		if _, ok := n.Get(k); ok {
			return false
		}
	}
	return true
}

func visitTarget(t *Translator, n *doctree.Node) doctree.WalkStatus {
	if isInlineTarget(n) {
		t.emit(t.starttag(n, "span", "", class("target")))
	}
	return doctree.WalkContinue
}

func departTarget(t *Translator, n *doctree.Node) {
	if isInlineTarget(n) {
		t.emit("</span>")
	}
}

func visitProblematic(t *Translator, n *doctree.Node) doctree.WalkStatus {
	if id := n.Attr("refid"); id != "" {
		t.emit(t.starttag(n, "a", "", class("problematic"), with("href", "#"+id)))
		t.state.of(n).closing = "</a>"
	} else {
		t.emit(t.starttag(n, "span", "", class("problematic")))
		t.state.of(n).closing = "</span>"
	}
	return doctree.WalkContinue
}

func departProblematic(t *Translator, n *doctree.Node) {
	t.emit(t.state.of(n).closing)
}

func visitEnumList(t *Translator, n *doctree.Node) doctree.WalkStatus {
	enumtype := n.Attr("enumtype")
	if enumtype == "" {
		enumtype = "arabic"
	}
	attrs := []attr{class(enumtype)}
	if start := n.Attr("start"); start != "" && start != "1" {
		attrs = append(attrs, with("start", start))
	}
	t.emit(t.starttag(n, "ol", "\n", attrs...))
	return doctree.WalkContinue
}

func departEnumList(t *Translator, _ *doctree.Node) {
	t.emit("</ol>\n")
}

func nextIsClassifier(n *doctree.Node) bool {
	if n.Parent == nil {
		return false
	}
	i := n.Index()
	return i+1 < len(n.Parent.Children) && n.Parent.Children[i+1].Kind == doctree.KindClassifier
}

func visitTerm(t *Translator, n *doctree.Node) doctree.WalkStatus {
	t.emit(t.starttag(n, "dt", ""))
	return doctree.WalkContinue
}

func departTerm(t *Translator, n *doctree.Node) {
	if !nextIsClassifier(n) {
		t.emit("</dt>\n")
	}
}

func visitClassifier(t *Translator, n *doctree.Node) doctree.WalkStatus {
	t.emit(` <span class="classifier-delimiter">:</span> `)
	t.emit(t.starttag(n, "span", "", class("classifier")))
	return doctree.WalkContinue
}

func departClassifier(t *Translator, n *doctree.Node) {
	t.emit("</span>")
	if !nextIsClassifier(n) {
		t.emit("</dt>\n")
	}
}

func visitFieldList(t *Translator, n *doctree.Node) doctree.WalkStatus {
	t.emit(t.starttag(n, "dl", "\n", class("field-list")))
	return doctree.WalkContinue
}

func departFieldList(t *Translator, _ *doctree.Node) {
	t.emit("</dl>\n")
}

// field classes are rendered on the name and body of the field.
func fieldClasses(n *doctree.Node) string {
	if n.Parent == nil {
		return ""
	}
	return strings.Join(n.Parent.Classes, " ")
}

func visitFieldName(t *Translator, n *doctree.Node) doctree.WalkStatus {
	t.emit(t.starttag(n, "dt", "", class(fieldClasses(n))))
	return doctree.WalkContinue
}

func departFieldName(t *Translator, _ *doctree.Node) {
	t.emit("<span class=\"colon\">:</span></dt>\n")
}

func visitFieldBody(t *Translator, n *doctree.Node) doctree.WalkStatus {
	t.emit(t.starttag(n, "dd", "", class(fieldClasses(n))))
	return doctree.WalkContinue
}

func departFieldBody(t *Translator, _ *doctree.Node) {
	t.emit("</dd>\n")
}

func departLine(t *Translator, _ *doctree.Node) {
	t.emit("<br/>\n")
}

func visitContainer(t *Translator, n *doctree.Node) doctree.WalkStatus {
	t.emit(t.starttag(n, "div", "\n", class("docutils container")))
	return doctree.WalkContinue
}

func departContainer(t *Translator, _ *doctree.Node) {
	t.emit("</div>\n")
}

func visitTransition(t *Translator, n *doctree.Node) doctree.WalkStatus {
	t.emit(t.emptytag(n, "hr", class("docutils")), "\n")
	return doctree.WalkContinue
}

func visitFigure(t *Translator, n *doctree.Node) doctree.WalkStatus {
	attrs := []attr{}
	if align := n.Attr("align"); align != "" {
		attrs = append(attrs, class("align-"+align))
	}
	if width := n.Attr("width"); width != "" {
		attrs = append(attrs, with("style", "width: "+pixels(width)+";"))
	}
	t.emit(t.starttag(n, "figure", "\n", attrs...))
	return doctree.WalkContinue
}

func departFigure(t *Translator, _ *doctree.Node) {
	t.emit("</figure>\n")
}

func hasLegend(n *doctree.Node) bool {
	return n.Parent != nil && n.Parent.ChildOfKind(doctree.KindLegend) != nil
}

func visitCaption(t *Translator, n *doctree.Node) doctree.WalkStatus {
	if n.Parent != nil && n.Parent.Kind == doctree.KindFigure {
		t.emit("<figcaption>\n")
	}
	t.emit(t.starttag(n, "p", ""))
	return doctree.WalkContinue
}

func departCaption(t *Translator, n *doctree.Node) {
	t.emit("</p>\n")
	if n.Parent != nil && n.Parent.Kind == doctree.KindFigure && !hasLegend(n) {
		t.emit("</figcaption>\n")
	}
}

func visitLegend(t *Translator, n *doctree.Node) doctree.WalkStatus {
	if n.Parent != nil && n.Parent.ChildOfKind(doctree.KindCaption) == nil {
		t.emit("<figcaption>\n")
	}
	t.emit(t.starttag(n, "div", "\n", class("legend")))
	return doctree.WalkContinue
}

func departLegend(t *Translator, _ *doctree.Node) {
	t.emit("</div>\n</figcaption>\n")
}

// pixels gives unitless lengths a px unit.
func pixels(length string) string {
	if numericLength.MatchString(length) {
		return length + "px"
	}
	return length
}

func (t *Translator) imageHeight(n *doctree.Node) string {
	if st := t.state.peek(n); st != nil && st.height != "" {
		return st.height
	}
	return n.Attr("height")
}

func visitImage(t *Translator, n *doctree.Node) doctree.WalkStatus {
	uri := n.Attr("uri")
	alt, ok := n.Get("alt")
	if !ok {
		alt = uri
	}
	attrs := []attr{with("src", uri), with("alt", alt)}

	var style []string
	if w := n.Attr("width"); w != "" {
		style = append(style, "width: "+pixels(w)+";")
	}
	if h := t.imageHeight(n); h != "" {
		style = append(style, "height: "+pixels(h)+";")
	}
	if len(style) > 0 {
		attrs = append(attrs, with("style", strings.Join(style, " ")))
	}
	if align := n.Attr("align"); align != "" {
		attrs = append(attrs, class("align-"+align))
	}

	t.emit(t.emptytag(n, "img", attrs...))
	if !inlineContext(n) {
		t.emit("\n")
	}
	return doctree.WalkSkipChildren
}

// inlineContext reports whether an image sits inside running text.
func inlineContext(n *doctree.Node) bool {
	p := n.Parent
	if p == nil {
		return false
	}
	if p.Kind == doctree.KindReference {
		return p.Parent != nil && p.Parent.Kind.IsTextElement()
	}
	return p.Kind.IsTextElement()
}

func visitComment(t *Translator, n *doctree.Node) doctree.WalkStatus {
	text := strings.ReplaceAll(n.AsText(), "--", "- -")
	t.emit("<!-- " + encode(text) + " -->\n")
	return doctree.WalkSkipChildren
}

func visitRaw(t *Translator, n *doctree.Node) doctree.WalkStatus {
	if !slices.Contains(strings.Fields(n.Attr("format")), "html") {
		return doctree.WalkSkipChildren
	}
	open, closing := "", ""
	if len(n.Classes) > 0 {
		tag := "span"
		if n.Parent == nil || !n.Parent.Kind.IsTextElement() {
			tag = "div"
		}
		open = t.starttag(n, tag, "")
		closing = "</" + tag + ">"
	}
	t.emit(open, n.AsText(), closing)
	return doctree.WalkSkipChildren
}

func visitSystemMessage(t *Translator, n *doctree.Node) doctree.WalkStatus {
	t.emit(t.starttag(n, "aside", "\n", class("system-message")))
	label := "System Message: " + n.Attr("type")
	if level := n.Attr("level"); level != "" {
		label += "/" + level
	}
	if line := n.Attr("line"); line != "" {
		label += " (line " + line + ")"
	}
	t.emit("<p class=\"system-message-title\">" + encode(label) + "</p>\n")
	return doctree.WalkContinue
}

func departSystemMessage(t *Translator, _ *doctree.Node) {
	t.emit("</aside>\n")
}

func visitAdmonition(t *Translator, n *doctree.Node) doctree.WalkStatus {
	classes := "admonition"
	if n.Kind != doctree.KindAdmonition {
		classes += " " + string(n.Kind)
	}
	t.emit(t.starttag(n, "aside", "\n", class(classes)))
	if n.Kind != doctree.KindAdmonition {
		t.emit("<p class=\"admonition-title\">" + encode(label(n.Kind)) + "</p>\n")
	}
	return doctree.WalkContinue
}

func departAdmonition(t *Translator, _ *doctree.Node) {
	t.emit("</aside>\n")
}

func visitTable(t *Translator, n *doctree.Node) doctree.WalkStatus {
	classes := append([]string{"docutils"}, t.settings.TableStyle...)
	attrs := []attr{class(strings.Join(classes, " "))}
	if align := n.Attr("align"); align != "" {
		attrs = append(attrs, class("align-"+align))
	}
	if width := n.Attr("width"); width != "" {
		attrs = append(attrs, with("style", "width: "+pixels(width)+";"))
	}
	t.emit(t.starttag(n, "table", "\n", attrs...))
	return doctree.WalkContinue
}

func departTable(t *Translator, _ *doctree.Node) {
	t.emit("</table>\n")
}

func inTableHead(n *doctree.Node) bool {
	return n.Parent != nil && n.Parent.Parent != nil && n.Parent.Parent.Kind == doctree.KindTHead
}

func visitEntry(t *Translator, n *doctree.Node) doctree.WalkStatus {
	tag, attrs := "td", []attr{}
	if inTableHead(n) {
		tag = "th"
		attrs = append(attrs, class("head"))
	}
	if rows, err := strconv.Atoi(n.Attr("morerows")); err == nil && rows > 0 {
		attrs = append(attrs, with("rowspan", strconv.Itoa(rows+1)))
	}
	if cols, err := strconv.Atoi(n.Attr("morecols")); err == nil && cols > 0 {
		attrs = append(attrs, with("colspan", strconv.Itoa(cols+1)))
	}
	t.emit(stripClass(t.starttag(n, tag, "", attrs...)))
	return doctree.WalkContinue
}

func departEntry(t *Translator, n *doctree.Node) {
	if inTableHead(n) {
		t.emit("</th>\n")
		return
	}
	t.emit("</td>\n")
}

func visitDocinfo(t *Translator, n *doctree.Node) doctree.WalkStatus {
	t.inDocinfo = true
	t.state.of(n).mark = len(t.body)
	t.emit(t.starttag(n, "dl", "\n", class("docinfo")))
	return doctree.WalkContinue
}

func departDocinfo(t *Translator, n *doctree.Node) {
	t.emit("</dl>\n")
	start := t.state.of(n).mark
	t.docinfo = append(t.docinfo, t.body[start:]...)
	t.body = t.body[:start]
	t.inDocinfo = false
}

func visitDocinfoItem(t *Translator, n *doctree.Node) doctree.WalkStatus {
	if name, ok := docinfoMeta[n.Kind]; ok {
		tag := "<meta name=\"" + name + "\" content=\"" + attval(n.AsText()) + "\"/>\n"
		t.meta = append(t.meta, tag)
		t.head = append(t.head, tag)
	}
	name := string(n.Kind)
	t.emit("<dt class=\"" + name + "\">" + encode(label(n.Kind)) + "<span class=\"colon\">:</span></dt>\n")
	t.emit(t.starttag(n, "dd", "", class(name)))
	return doctree.WalkContinue
}

func departDocinfoItem(t *Translator, _ *doctree.Node) {
	t.emit("</dd>\n")
}
