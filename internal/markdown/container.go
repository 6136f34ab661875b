package markdown

import (
	"strings"

	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"
	"github.com/yuin/goldmark/util"
)

const fenceChar = ':'

// KindContainer is the goldmark node kind of a fenced ::: container.
var KindContainer = ast.NewNodeKind("Container")

// Container is a block that groups its children under a set of classes:
//
//	::: columns
//	...
//	:::
//
// Containers nest when the outer fence is longer than the inner one.
type Container struct {
	ast.BaseBlock
	Classes []string
	fence   int
}

// Kind implements ast.Node.
func (n *Container) Kind() ast.NodeKind { return KindContainer }

// Dump implements ast.Node.
func (n *Container) Dump(source []byte, level int) {
	ast.DumpHelper(n, source, level, map[string]string{
		"Classes": strings.Join(n.Classes, " "),
	}, nil)
}

type containerParser struct{}

// NewContainerParser returns a block parser for ::: containers.
func NewContainerParser() parser.BlockParser {
	return &containerParser{}
}

func (b *containerParser) Trigger() []byte {
	return []byte{fenceChar}
}

// fenceLength counts the leading colons of line starting at pos.
func fenceLength(line []byte, pos int) int {
	i := pos
	for i < len(line) && line[i] == fenceChar {
		i++
	}
	return i - pos
}

func (b *containerParser) Open(_ ast.Node, reader text.Reader, pc parser.Context) (ast.Node, parser.State) {
	line, segment := reader.PeekLine()
	pos := pc.BlockOffset()
	if pos < 0 || line[pos] != fenceChar {
		return nil, parser.NoChildren
	}
	length := fenceLength(line, pos)
	if length < 3 {
		return nil, parser.NoChildren
	}
	classes := parseClasses(string(line[pos+length:]))
	if len(classes) == 0 {
		return nil, parser.NoChildren
	}
	reader.Advance(segment.Len() - trailingNewline(line) + segment.Padding)
	return &Container{Classes: classes, fence: length}, parser.HasChildren
}

func (b *containerParser) Continue(node ast.Node, reader text.Reader, pc parser.Context) parser.State {
	line, segment := reader.PeekLine()
	w, pos := util.IndentWidth(line, reader.LineOffset())
	if w < 4 && pos < len(line) {
		length := fenceLength(line, pos)
		if length >= node.(*Container).fence && util.IsBlank(line[pos+length:]) {
			reader.Advance(segment.Len() - trailingNewline(line) + segment.Padding)
			return parser.Close
		}
	}
	return parser.Continue | parser.HasChildren
}

func (b *containerParser) Close(ast.Node, text.Reader, parser.Context) {}

func (b *containerParser) CanInterruptParagraph() bool { return true }

func (b *containerParser) CanAcceptIndentedLine() bool { return false }

func trailingNewline(line []byte) int {
	if len(line) > 0 && line[len(line)-1] == '\n' {
		return 1
	}
	return 0
}

// parseClasses reads the info string of an opening fence. Both
// "::: a b" and "::: {.a .b}" forms are accepted.
func parseClasses(info string) []string {
	info = strings.TrimSpace(info)
	info = strings.TrimSuffix(strings.TrimPrefix(info, "{"), "}")
	var classes []string
	for _, f := range strings.Fields(info) {
		if f = strings.TrimPrefix(f, "."); f != "" {
			classes = append(classes, f)
		}
	}
	return classes
}
