package reader

import (
	"bytes"
	"regexp"
	"strconv"
	"strings"
	"unicode"

	gmast "github.com/yuin/goldmark/ast"
	east "github.com/yuin/goldmark/extension/ast"
	"github.com/yuin/goldmark/util"
	"golang.org/x/text/unicode/norm"

	"git.home.luguber.info/inful/kirlent/internal/doctree"
	"git.home.luguber.info/inful/kirlent/internal/frontmatter"
	"git.home.luguber.info/inful/kirlent/internal/markdown"
)

// fieldLine matches ":name: value" at the start of a paragraph line.
var fieldLine = regexp.MustCompile(`^:([^:\s][^:]*):(?:\s+(.*))?$`)

// bibliographic maps front matter keys to docinfo kinds.
var bibliographic = map[string]doctree.Kind{
	"author":       doctree.KindAuthor,
	"authors":      doctree.KindAuthors,
	"organization": doctree.KindOrganization,
	"address":      doctree.KindAddress,
	"contact":      doctree.KindContact,
	"version":      doctree.KindVersion,
	"revision":     doctree.KindRevision,
	"status":       doctree.KindStatus,
	"date":         doctree.KindDate,
	"copyright":    doctree.KindCopyright,
}

type mdConverter struct {
	source []byte
	ids    map[string]int
}

func readMarkdown(content []byte, name string) (*doctree.Node, error) {
	meta, body, err := frontmatter.Parse(content)
	if err != nil {
		return nil, inputError(name, "invalid front matter", err)
	}
	c := &mdConverter{source: body, ids: make(map[string]int)}
	doc := doctree.New(doctree.KindDocument)
	c.sections(doc, markdown.Parse(body))

	if meta != nil && meta.Title != "" {
		at := 0
		doc.Insert(at, doctree.New(doctree.KindTitle, doctree.NewText(meta.Title)))
		doc.Set("title", meta.Title)
		if meta.Subtitle != "" {
			at++
			doc.Insert(at, doctree.New(doctree.KindSubtitle, doctree.NewText(meta.Subtitle)))
		}
	} else {
		promoteTitle(doc)
	}
	if meta != nil {
		if info := docinfo(meta.Fields); info != nil {
			doc.Insert(titleEnd(doc), info)
		}
	}
	return doc, nil
}

type frame struct {
	level int
	node  *doctree.Node
}

// sections nests top-level blocks under their headings. A heading closes
// every open section of the same or a deeper level.
func (c *mdConverter) sections(doc *doctree.Node, root gmast.Node) {
	stack := []frame{{0, doc}}
	for n := root.FirstChild(); n != nil; n = n.NextSibling() {
		h, ok := n.(*gmast.Heading)
		if !ok {
			c.block(stack[len(stack)-1].node, n)
			continue
		}
		for len(stack) > 1 && stack[len(stack)-1].level >= h.Level {
			stack = stack[:len(stack)-1]
		}
		sec := c.section(h)
		stack[len(stack)-1].node.Append(sec)
		stack = append(stack, frame{h.Level, sec})
	}
}

func (c *mdConverter) section(h *gmast.Heading) *doctree.Node {
	title := doctree.New(doctree.KindTitle)
	c.inlines(title, h)
	text := title.AsText()

	sec := doctree.New(doctree.KindSection, title)
	id := slug(text)
	if v, ok := h.AttributeString("id"); ok {
		if b, ok := v.([]byte); ok && len(b) > 0 {
			id = string(b)
		}
	}
	sec.IDs = []string{c.uniqueID(id)}
	if v, ok := h.AttributeString("class"); ok {
		if b, ok := v.([]byte); ok {
			sec.Classes = strings.Fields(string(b))
		}
	}
	if name := strings.ToLower(strings.Join(strings.Fields(text), " ")); name != "" {
		sec.Names = []string{name}
	}
	return sec
}

func (c *mdConverter) uniqueID(id string) string {
	n := c.ids[id]
	c.ids[id] = n + 1
	if n == 0 {
		return id
	}
	return id + "-" + strconv.Itoa(n)
}

// slug derives an element id from a title: ASCII letters and digits with
// runs of anything else collapsed to single hyphens.
func slug(s string) string {
	var b strings.Builder
	hyphen := false
	for _, r := range norm.NFKD.String(strings.ToLower(s)) {
		switch {
		case r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r)):
			if hyphen && b.Len() > 0 {
				b.WriteByte('-')
			}
			hyphen = false
			b.WriteRune(r)
		case unicode.Is(unicode.Mn, r):
		default:
			hyphen = true
		}
	}
	id := strings.TrimLeft(b.String(), "0123456789-")
	if id == "" {
		return "section"
	}
	return id
}

func (c *mdConverter) blocks(parent *doctree.Node, n gmast.Node) {
	for ch := n.FirstChild(); ch != nil; ch = ch.NextSibling() {
		c.block(parent, ch)
	}
}

func (c *mdConverter) block(parent *doctree.Node, n gmast.Node) {
	switch n := n.(type) {
	case *gmast.Paragraph, *gmast.TextBlock:
		c.paragraph(parent, n)
	case *gmast.Heading:
		// sections cannot nest inside body elements
		rubric := doctree.New(doctree.KindRubric)
		c.inlines(rubric, n)
		parent.Append(rubric)
	case *gmast.ThematicBreak:
		parent.Append(doctree.New(doctree.KindTransition))
	case *gmast.FencedCodeBlock:
		lit := doctree.New(doctree.KindLiteralBlock, doctree.NewText(c.lines(n)))
		if lang := n.Language(c.source); len(lang) > 0 {
			lit.Classes = []string{"code", string(lang)}
		}
		parent.Append(lit)
	case *gmast.CodeBlock:
		parent.Append(doctree.New(doctree.KindLiteralBlock, doctree.NewText(c.lines(n))))
	case *gmast.HTMLBlock:
		parent.Append(c.htmlBlock(n))
	case *gmast.Blockquote:
		quote := doctree.New(doctree.KindBlockQuote)
		c.blocks(quote, n)
		parent.Append(quote)
	case *gmast.List:
		parent.Append(c.list(n))
	case *east.Table:
		parent.Append(c.table(n))
	case *east.DefinitionList:
		parent.Append(c.definitionList(n))
	case *markdown.Container:
		box := doctree.New(doctree.KindContainer).WithClasses(n.Classes...)
		c.blocks(box, n)
		parent.Append(box)
	default:
		c.blocks(parent, n)
	}
}

// lines returns the raw source lines of a block.
func (c *mdConverter) lines(n gmast.Node) string {
	var b bytes.Buffer
	lines := n.Lines()
	for i := 0; i < lines.Len(); i++ {
		seg := lines.At(i)
		b.Write(seg.Value(c.source))
	}
	return strings.TrimSuffix(b.String(), "\n")
}

func (c *mdConverter) htmlBlock(n *gmast.HTMLBlock) *doctree.Node {
	src := c.lines(n)
	if n.HasClosure() {
		src += "\n" + strings.TrimSuffix(string(n.ClosureLine.Value(c.source)), "\n")
	}
	src = strings.TrimSpace(src)
	if n.HTMLBlockType == gmast.HTMLBlockType2 {
		body := strings.TrimSuffix(strings.TrimPrefix(src, "<!--"), "-->")
		return doctree.New(doctree.KindComment, doctree.NewText(strings.TrimSpace(body)))
	}
	return doctree.New(doctree.KindRaw, doctree.NewText(src)).Set("format", "html")
}

func (c *mdConverter) paragraph(parent *doctree.Node, n gmast.Node) {
	if c.fieldList(parent, n) {
		return
	}
	if img, ok := n.FirstChild().(*gmast.Image); ok && n.ChildCount() == 1 {
		parent.Append(c.image(img))
		return
	}
	if hasHardBreak(n) {
		parent.Append(c.lineBlock(n))
		return
	}
	p := doctree.New(doctree.KindParagraph)
	c.inlines(p, n)
	parent.Append(p)
}

// fieldList turns a paragraph of ":name: value" lines into fields. Lines
// that do not start a field continue the previous value. Adjacent field
// lists merge.
func (c *mdConverter) fieldList(parent *doctree.Node, n gmast.Node) bool {
	lines := n.Lines()
	if lines.Len() == 0 {
		return false
	}
	var fields []*doctree.Node
	var name string
	var value []string
	flush := func() {
		body := doctree.New(doctree.KindFieldBody)
		if v := strings.Join(value, "\n"); v != "" {
			body.Append(doctree.New(doctree.KindParagraph, doctree.NewText(v)))
		}
		fields = append(fields, doctree.New(doctree.KindField,
			doctree.New(doctree.KindFieldName, doctree.NewText(name)), body))
	}
	for i := 0; i < lines.Len(); i++ {
		seg := lines.At(i)
		line := strings.TrimSpace(string(seg.Value(c.source)))
		m := fieldLine.FindStringSubmatch(line)
		switch {
		case m != nil:
			if i > 0 {
				flush()
			}
			name, value = m[1], nil
			if m[2] != "" {
				value = append(value, m[2])
			}
		case i == 0:
			return false
		case line != "":
			value = append(value, line)
		}
	}
	flush()

	var list *doctree.Node
	if last := len(parent.Children) - 1; last >= 0 && parent.Children[last].Kind == doctree.KindFieldList {
		list = parent.Children[last]
	} else {
		list = doctree.New(doctree.KindFieldList)
		parent.Append(list)
	}
	for _, f := range fields {
		list.Append(f)
	}
	return true
}

func hasHardBreak(n gmast.Node) bool {
	for ch := n.FirstChild(); ch != nil; ch = ch.NextSibling() {
		if t, ok := ch.(*gmast.Text); ok && t.HardLineBreak() && ch.NextSibling() != nil {
			return true
		}
	}
	return false
}

// lineBlock splits a paragraph into lines at every line break.
func (c *mdConverter) lineBlock(n gmast.Node) *doctree.Node {
	block := doctree.New(doctree.KindLineBlock)
	line := doctree.New(doctree.KindLine)
	for ch := n.FirstChild(); ch != nil; ch = ch.NextSibling() {
		t, isText := ch.(*gmast.Text)
		if !isText {
			c.inline(line, ch)
			continue
		}
		appendText(line, c.textValue(t))
		if t.HardLineBreak() || t.SoftLineBreak() {
			block.Append(line)
			line = doctree.New(doctree.KindLine)
		}
	}
	if len(line.Children) > 0 {
		block.Append(line)
	}
	return block
}

func (c *mdConverter) list(n *gmast.List) *doctree.Node {
	var list *doctree.Node
	if n.IsOrdered() {
		list = doctree.New(doctree.KindEnumList).
			Set("enumtype", "arabic").
			Set("prefix", "").
			Set("suffix", string(n.Marker))
		if n.Start != 1 {
			list.Set("start", strconv.Itoa(n.Start))
		}
	} else {
		list = doctree.New(doctree.KindBulletList).Set("bullet", string(n.Marker))
	}
	for item := n.FirstChild(); item != nil; item = item.NextSibling() {
		li := doctree.New(doctree.KindListItem)
		c.blocks(li, item)
		list.Append(li)
	}
	return list
}

func (c *mdConverter) table(n *east.Table) *doctree.Node {
	cols := len(n.Alignments)
	group := doctree.New(doctree.KindTGroup).Set("cols", strconv.Itoa(cols))
	for range cols {
		group.Append(doctree.New(doctree.KindColSpec).Set("colwidth", "1"))
	}
	var head, body *doctree.Node
	for r := n.FirstChild(); r != nil; r = r.NextSibling() {
		switch r.(type) {
		case *east.TableHeader:
			if head == nil {
				head = doctree.New(doctree.KindTHead)
			}
			head.Append(c.row(r))
		default:
			if body == nil {
				body = doctree.New(doctree.KindTBody)
			}
			body.Append(c.row(r))
		}
	}
	if head != nil {
		group.Append(head)
	}
	if body != nil {
		group.Append(body)
	}
	return doctree.New(doctree.KindTable, group)
}

func (c *mdConverter) row(r gmast.Node) *doctree.Node {
	row := doctree.New(doctree.KindRow)
	for cell := r.FirstChild(); cell != nil; cell = cell.NextSibling() {
		entry := doctree.New(doctree.KindEntry)
		if cell.HasChildren() {
			p := doctree.New(doctree.KindParagraph)
			c.inlines(p, cell)
			entry.Append(p)
		}
		row.Append(entry)
	}
	return row
}

// definitionList groups goldmark's flat term/description sequence into
// items; each term opens an item, descriptions join the current one.
func (c *mdConverter) definitionList(n *east.DefinitionList) *doctree.Node {
	list := doctree.New(doctree.KindDefList)
	var item, def *doctree.Node
	for ch := n.FirstChild(); ch != nil; ch = ch.NextSibling() {
		switch ch.(type) {
		case *east.DefinitionTerm:
			term := doctree.New(doctree.KindTerm)
			c.inlines(term, ch)
			item = doctree.New(doctree.KindDefListItem, term)
			def = nil
			list.Append(item)
		case *east.DefinitionDescription:
			if item == nil {
				item = doctree.New(doctree.KindDefListItem, doctree.New(doctree.KindTerm))
				list.Append(item)
			}
			if def == nil {
				def = doctree.New(doctree.KindDefinition)
				item.Append(def)
			}
			c.blocks(def, ch)
		}
	}
	return list
}

func (c *mdConverter) inlines(parent *doctree.Node, n gmast.Node) {
	for ch := n.FirstChild(); ch != nil; ch = ch.NextSibling() {
		c.inline(parent, ch)
	}
}

func (c *mdConverter) inline(parent *doctree.Node, n gmast.Node) {
	switch n := n.(type) {
	case *gmast.Text:
		appendText(parent, c.textValue(n))
		if n.SoftLineBreak() || n.HardLineBreak() {
			appendText(parent, "\n")
		}
	case *gmast.String:
		v := n.Value
		if !n.IsRaw() && !n.IsCode() {
			v = unescape(v)
		}
		appendText(parent, string(v))
	case *gmast.CodeSpan:
		var b strings.Builder
		for ch := n.FirstChild(); ch != nil; ch = ch.NextSibling() {
			switch t := ch.(type) {
			case *gmast.Text:
				b.Write(bytes.ReplaceAll(t.Value(c.source), []byte("\n"), []byte(" ")))
			case *gmast.String:
				b.Write(t.Value)
			}
		}
		parent.Append(doctree.New(doctree.KindLiteral, doctree.NewText(b.String())))
	case *gmast.Emphasis:
		kind := doctree.KindEmphasis
		if n.Level >= 2 {
			kind = doctree.KindStrong
		}
		em := doctree.New(kind)
		c.inlines(em, n)
		parent.Append(em)
	case *gmast.Link:
		ref := doctree.New(doctree.KindReference).Set("refuri", string(n.Destination))
		c.inlines(ref, n)
		parent.Append(ref)
	case *gmast.AutoLink:
		uri := string(n.URL(c.source))
		if n.AutoLinkType == gmast.AutoLinkEmail && !strings.HasPrefix(uri, "mailto:") {
			uri = "mailto:" + uri
		}
		parent.Append(doctree.New(doctree.KindReference, doctree.NewText(string(n.Label(c.source)))).
			Set("refuri", uri))
	case *gmast.Image:
		parent.Append(c.image(n))
	case *gmast.RawHTML:
		var b bytes.Buffer
		for i := 0; i < n.Segments.Len(); i++ {
			seg := n.Segments.At(i)
			b.Write(seg.Value(c.source))
		}
		parent.Append(doctree.New(doctree.KindRaw, doctree.NewText(b.String())).Set("format", "html"))
	default:
		c.inlines(parent, n)
	}
}

func (c *mdConverter) image(n *gmast.Image) *doctree.Node {
	alt := doctree.New(doctree.KindInline)
	c.inlines(alt, n)
	img := doctree.New(doctree.KindImage).Set("uri", string(n.Destination))
	if text := alt.AsText(); text != "" {
		img.Set("alt", text)
	}
	return img
}

func (c *mdConverter) textValue(t *gmast.Text) string {
	v := t.Value(c.source)
	if t.IsRaw() {
		return string(v)
	}
	return string(unescape(v))
}

// unescape resolves character references and backslash escapes.
func unescape(v []byte) []byte {
	return util.UnescapePunctuations(util.ResolveNumericReferences(util.ResolveEntityNames(v)))
}

// promoteTitle lifts a lone top-level section into the document title, and
// a lone subsection of it into the subtitle.
func promoteTitle(doc *doctree.Node) {
	sec := loneSection(doc, 0)
	if sec == nil {
		return
	}
	title := liftSection(doc, sec, 0)
	adopt(doc, sec)
	doc.Set("title", title.AsText())

	if sub := loneSection(doc, 1); sub != nil {
		subtitle := liftSection(doc, sub, 1)
		subtitle.Kind = doctree.KindSubtitle
		adopt(subtitle, sub)
	}
}

// adopt moves the identifying attributes of a lifted section to n.
func adopt(n, sec *doctree.Node) {
	n.IDs = append(n.IDs, sec.IDs...)
	n.Names = append(n.Names, sec.Names...)
	n.Classes = append(n.Classes, sec.Classes...)
}

// loneSection returns the first child at or after index from when it is a
// section and also the last child, skipping leading comments and targets.
func loneSection(doc *doctree.Node, from int) *doctree.Node {
	for i := from; i < len(doc.Children); i++ {
		c := doc.Children[i]
		switch c.Kind {
		case doctree.KindComment, doctree.KindTarget, doctree.KindSubstitution, doctree.KindDecoration:
			continue
		case doctree.KindSection:
			if i == len(doc.Children)-1 {
				return c
			}
		}
		return nil
	}
	return nil
}

// liftSection replaces sec with its title at position at and appends the
// remaining section content to doc.
func liftSection(doc, sec *doctree.Node, at int) *doctree.Node {
	doc.Remove(sec)
	title := sec.ChildOfKind(doctree.KindTitle)
	sec.Remove(title)
	doc.Insert(at, title)
	for _, c := range append([]*doctree.Node(nil), sec.Children...) {
		sec.Remove(c)
		doc.Append(c)
	}
	return title
}

// titleEnd is the index just past the document title and subtitle.
func titleEnd(doc *doctree.Node) int {
	i := 0
	for i < len(doc.Children) && (doc.Children[i].Kind == doctree.KindTitle || doc.Children[i].Kind == doctree.KindSubtitle) {
		i++
	}
	return i
}

// docinfo builds the bibliographic block from front matter fields. Known
// keys become their docinfo kinds, the rest generic fields.
func docinfo(fields []frontmatter.Field) *doctree.Node {
	if len(fields) == 0 {
		return nil
	}
	info := doctree.New(doctree.KindDocinfo)
	for _, f := range fields {
		kind, known := bibliographic[strings.ToLower(f.Name)]
		switch {
		case known && (kind == doctree.KindAuthors || (kind == doctree.KindAuthor && len(f.Values) > 1)):
			authors := doctree.New(doctree.KindAuthors)
			for _, v := range f.Values {
				authors.Append(doctree.New(doctree.KindAuthor, doctree.NewText(v)))
			}
			info.Append(authors)
		case known && kind == doctree.KindAddress:
			info.Append(doctree.New(kind, doctree.NewText(strings.Join(f.Values, "\n"))))
		case known:
			info.Append(doctree.New(kind, doctree.NewText(strings.Join(f.Values, ", "))))
		default:
			body := doctree.New(doctree.KindFieldBody)
			if v := strings.Join(f.Values, ", "); v != "" {
				body.Append(doctree.New(doctree.KindParagraph, doctree.NewText(v)))
			}
			info.Append(doctree.New(doctree.KindField,
				doctree.New(doctree.KindFieldName, doctree.NewText(f.Name)), body).
				WithClasses(slug(f.Name)))
		}
	}
	return info
}
