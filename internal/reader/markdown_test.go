package reader

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/kirlent/internal/doctree"
	"git.home.luguber.info/inful/kirlent/internal/foundation/errors"
)

func parseMarkdown(t *testing.T, src string) *doctree.Node {
	t.Helper()
	doc, err := Parse([]byte(src), "deck.md", FormatAuto)
	require.NoError(t, err)
	return doc
}

func kinds(nodes []*doctree.Node) []doctree.Kind {
	out := make([]doctree.Kind, 0, len(nodes))
	for _, n := range nodes {
		out = append(out, n.Kind)
	}
	return out
}

func TestMarkdown_SectionsNestByLevel(t *testing.T) {
	doc := parseMarkdown(t, "# One\n\ntext\n\n## Sub\n\nmore\n\n# Two\n")
	require.Equal(t, []doctree.Kind{doctree.KindSection, doctree.KindSection}, kinds(doc.Children))
	one := doc.Children[0]
	assert.Equal(t, []string{"one"}, one.IDs)
	assert.Equal(t, []string{"one"}, one.Names)
	assert.Equal(t, []doctree.Kind{doctree.KindTitle, doctree.KindParagraph, doctree.KindSection}, kinds(one.Children))
	assert.Equal(t, "Sub", one.Children[2].FirstChild().AsText())
	assert.Equal(t, "deck.md", doc.Attr("source"))
}

func TestMarkdown_HeadingAttributesAndDuplicateIDs(t *testing.T) {
	doc := parseMarkdown(t, "# A\n\n## Intro {#start .dark .wide}\n\n## Intro\n\n## Intro\n")
	secs := doctree.FindAll(doc, doctree.KindSection)
	require.Len(t, secs, 3)
	assert.Equal(t, []string{"start"}, secs[0].IDs)
	assert.Equal(t, []string{"dark", "wide"}, secs[0].Classes)
	assert.Equal(t, []string{"intro"}, secs[1].IDs)
	assert.Equal(t, []string{"intro-1"}, secs[2].IDs)
}

func TestMarkdown_PromotesLoneSectionToTitle(t *testing.T) {
	doc := parseMarkdown(t, "# Deck\n\n## Only slide\n\nbody\n")
	assert.Equal(t, "Deck", doc.Attr("title"))
	assert.Equal(t, []string{"deck"}, doc.IDs)
	require.Equal(t, []doctree.Kind{doctree.KindTitle, doctree.KindSubtitle, doctree.KindParagraph}, kinds(doc.Children))
	assert.Equal(t, []string{"only-slide"}, doc.Children[1].IDs)
}

func TestMarkdown_NoPromotionWithSeveralSections(t *testing.T) {
	doc := parseMarkdown(t, "# Deck\n\n## First\n\n## Second\n")
	assert.Equal(t, "Deck", doc.Attr("title"))
	assert.Equal(t, []doctree.Kind{doctree.KindTitle, doctree.KindSection, doctree.KindSection}, kinds(doc.Children))

	doc = parseMarkdown(t, "intro\n\n# A\n")
	assert.Empty(t, doc.Attr("title"))
}

func TestMarkdown_FrontMatterTitleAndDocinfo(t *testing.T) {
	src := "---\ntitle: Talk\nsubtitle: Part 1\nauthors: [Ann, Bob]\ndate: 2024-05-01\nvenue: Room 3\n---\n# Slide\n"
	doc := parseMarkdown(t, src)
	assert.Equal(t, "Talk", doc.Attr("title"))
	require.Equal(t, []doctree.Kind{doctree.KindTitle, doctree.KindSubtitle, doctree.KindDocinfo, doctree.KindSection}, kinds(doc.Children))

	info := doc.Children[2]
	require.Equal(t, []doctree.Kind{doctree.KindAuthors, doctree.KindDate, doctree.KindField}, kinds(info.Children))
	assert.Equal(t, "AnnBob", info.Children[0].AsText())
	assert.Equal(t, "2024-05-01", info.Children[1].AsText())
	assert.Equal(t, "venue", info.Children[2].ChildOfKind(doctree.KindFieldName).AsText())
	assert.Equal(t, "Room 3", info.Children[2].ChildOfKind(doctree.KindFieldBody).AsText())
}

func TestMarkdown_FieldLists(t *testing.T) {
	src := ":data-x: 100\n:layout: a b\n  c d\n\n:style: color: red\n\nplain\n"
	doc := parseMarkdown(t, src)
	require.Equal(t, []doctree.Kind{doctree.KindFieldList, doctree.KindParagraph}, kinds(doc.Children))
	fields := doc.Children[0].Children
	require.Len(t, fields, 3)
	values := map[string]string{}
	for _, f := range fields {
		values[f.ChildOfKind(doctree.KindFieldName).AsText()] = f.ChildOfKind(doctree.KindFieldBody).AsText()
	}
	assert.Equal(t, map[string]string{"data-x": "100", "layout": "a b\nc d", "style": "color: red"}, values)
}

func TestMarkdown_InlineMarkup(t *testing.T) {
	doc := parseMarkdown(t, "Some *em* and **strong**, `code`, [link](annotate://box/red) and \\*star\\*.\n")
	p := doc.FirstChild()
	require.Equal(t, doctree.KindParagraph, p.Kind)
	assert.Equal(t, []doctree.Kind{
		doctree.KindText, doctree.KindEmphasis, doctree.KindText, doctree.KindStrong, doctree.KindText,
		doctree.KindLiteral, doctree.KindText, doctree.KindReference, doctree.KindText,
	}, kinds(p.Children))
	assert.Equal(t, "annotate://box/red", p.Children[7].Attr("refuri"))
	assert.Equal(t, " and *star*.", p.Children[8].Value)
}

func TestMarkdown_EmphasisTextIsOneNode(t *testing.T) {
	doc := parseMarkdown(t, "*[boxed]*\n")
	em := doc.FirstChild().FirstChild()
	require.Equal(t, doctree.KindEmphasis, em.Kind)
	require.Len(t, em.Children, 1)
	assert.Equal(t, "[boxed]", em.Children[0].Value)
}

func TestMarkdown_LoneImageIsBlock(t *testing.T) {
	doc := parseMarkdown(t, "![A diagram](flow.svg)\n\ntext ![icon](i.png) here\n")
	img := doc.Children[0]
	require.Equal(t, doctree.KindImage, img.Kind)
	assert.Equal(t, "flow.svg", img.Attr("uri"))
	assert.Equal(t, "A diagram", img.Attr("alt"))
	assert.Equal(t, doctree.KindParagraph, doc.Children[1].Kind)
	assert.Equal(t, doctree.KindImage, doc.Children[1].Children[1].Kind)
}

func TestMarkdown_HardBreaksMakeLineBlock(t *testing.T) {
	doc := parseMarkdown(t, "roses are red\\\nviolets are blue\n")
	block := doc.FirstChild()
	require.Equal(t, doctree.KindLineBlock, block.Kind)
	require.Len(t, block.Children, 2)
	assert.Equal(t, "roses are red", block.Children[0].AsText())
	assert.Equal(t, "violets are blue", block.Children[1].AsText())
}

func TestMarkdown_CodeHTMLAndBreaks(t *testing.T) {
	src := "```go\nfmt.Println(1)\n```\n\n<div>raw</div>\n\n<!-- note -->\n\n---\n\n    indented\n"
	doc := parseMarkdown(t, src)
	require.Equal(t, []doctree.Kind{
		doctree.KindLiteralBlock, doctree.KindRaw, doctree.KindComment,
		doctree.KindTransition, doctree.KindLiteralBlock,
	}, kinds(doc.Children))
	assert.Equal(t, []string{"code", "go"}, doc.Children[0].Classes)
	assert.Equal(t, "fmt.Println(1)", doc.Children[0].AsText())
	assert.Equal(t, "html", doc.Children[1].Attr("format"))
	assert.Equal(t, "<div>raw</div>", doc.Children[1].AsText())
	assert.Equal(t, "note", doc.Children[2].AsText())
	assert.Equal(t, "indented", doc.Children[4].AsText())
}

func TestMarkdown_Lists(t *testing.T) {
	doc := parseMarkdown(t, "- a\n- b\n\n3. c\n4. d\n")
	require.Equal(t, []doctree.Kind{doctree.KindBulletList, doctree.KindEnumList}, kinds(doc.Children))
	assert.Len(t, doc.Children[0].Children, 2)
	enum := doc.Children[1]
	assert.Equal(t, "3", enum.Attr("start"))
	assert.Equal(t, "arabic", enum.Attr("enumtype"))
	assert.Equal(t, doctree.KindParagraph, enum.Children[0].FirstChild().Kind)
}

func TestMarkdown_Table(t *testing.T) {
	doc := parseMarkdown(t, "| a | b |\n|---|---|\n| 1 |   |\n")
	table := doc.FirstChild()
	require.Equal(t, doctree.KindTable, table.Kind)
	group := table.FirstChild()
	assert.Equal(t, "2", group.Attr("cols"))
	assert.Equal(t, []doctree.Kind{doctree.KindColSpec, doctree.KindColSpec, doctree.KindTHead, doctree.KindTBody}, kinds(group.Children))
	body := group.ChildOfKind(doctree.KindTBody)
	cells := body.FirstChild().Children
	require.Len(t, cells, 2)
	assert.Equal(t, "1", cells[0].AsText())
	assert.Empty(t, cells[1].Children)
}

func TestMarkdown_DefinitionList(t *testing.T) {
	doc := parseMarkdown(t, "Term\n:   Meaning\n\nOther\n:   More\n")
	list := doc.FirstChild()
	require.Equal(t, doctree.KindDefList, list.Kind)
	require.Len(t, list.Children, 2)
	item := list.Children[0]
	assert.Equal(t, []doctree.Kind{doctree.KindTerm, doctree.KindDefinition}, kinds(item.Children))
	assert.Equal(t, "Meaning", item.Children[1].AsText())
}

func TestMarkdown_ContainersAndRubrics(t *testing.T) {
	doc := parseMarkdown(t, "# S\n\n::: layout-left note\n### Inside\n\ntext\n:::\n\n> quoted\n\n# T\n")
	sec := doc.FirstChild()
	require.Equal(t, []doctree.Kind{doctree.KindTitle, doctree.KindContainer, doctree.KindBlockQuote}, kinds(sec.Children))
	box := sec.Children[1]
	assert.Equal(t, []string{"layout-left", "note"}, box.Classes)
	assert.Equal(t, []doctree.Kind{doctree.KindRubric, doctree.KindParagraph}, kinds(box.Children))
}

func TestMarkdown_AutoLinks(t *testing.T) {
	doc := parseMarkdown(t, "<https://example.com> <me@example.com>\n")
	refs := doctree.FindAll(doc, doctree.KindReference)
	require.Len(t, refs, 2)
	assert.Equal(t, "https://example.com", refs[0].Attr("refuri"))
	assert.Equal(t, "mailto:me@example.com", refs[1].Attr("refuri"))
	assert.Equal(t, "me@example.com", refs[1].AsText())
}

func TestMarkdown_BadFrontMatterIsInputError(t *testing.T) {
	_, err := Parse([]byte("---\ntitle: [unclosed\n---\nbody\n"), "bad.md", FormatMarkdown)
	require.Error(t, err)
	ce, ok := errors.AsClassified(err)
	require.True(t, ok)
	assert.Equal(t, errors.CategoryInput, ce.Category())
	assert.True(t, strings.Contains(err.Error(), "bad.md"))
}

func TestSlug(t *testing.T) {
	for in, want := range map[string]string{
		"Hello, World!":   "hello-world",
		"Ünïcödé Title":   "unicode-title",
		"2024 Roadmap":    "roadmap",
		"***":             "section",
		"  spaced  out  ": "spaced-out",
	} {
		assert.Equal(t, want, slug(in), in)
	}
}
