package document

import (
	"bytes"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	extast "github.com/yuin/goldmark/extension/ast"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"
	"github.com/yuin/goldmark/util"
)

// newMarkdown configures goldmark for component documents. Component
// children are indented in source, so indented code blocks are not
// recognized; lowercase HTML is kept as literal text.
func newMarkdown() goldmark.Markdown {
	p := parser.NewParser(
		parser.WithBlockParsers(
			util.Prioritized(parser.NewSetextHeadingParser(), 100),
			util.Prioritized(parser.NewThematicBreakParser(), 200),
			util.Prioritized(parser.NewListParser(), 300),
			util.Prioritized(parser.NewListItemParser(), 400),
			util.Prioritized(parser.NewATXHeadingParser(), 600),
			util.Prioritized(parser.NewFencedCodeBlockParser(), 700),
			util.Prioritized(parser.NewBlockquoteParser(), 800),
			util.Prioritized(parser.NewParagraphParser(), 1000),
		),
		parser.WithInlineParsers(
			util.Prioritized(parser.NewCodeSpanParser(), 100),
			util.Prioritized(parser.NewLinkParser(), 200),
			util.Prioritized(parser.NewAutoLinkParser(), 300),
			util.Prioritized(parser.NewEmphasisParser(), 500),
		),
		parser.WithParagraphTransformers(parser.DefaultParagraphTransformers()...),
	)
	return goldmark.New(
		goldmark.WithParser(p),
		goldmark.WithExtensions(extension.GFM),
	)
}

// markdown parses one span of plain markdown into nodes.
func (p *Parser) markdown(src []byte) []Node {
	if len(bytes.TrimSpace(src)) == 0 {
		return nil
	}
	doc := p.md.Parser().Parse(text.NewReader(src))
	c := converter{src: src}
	return c.children(doc)
}

type converter struct {
	src []byte
}

func (c *converter) children(n ast.Node) []Node {
	var out []Node
	for child := n.FirstChild(); child != nil; child = child.NextSibling() {
		for _, converted := range c.convert(child) {
			out = appendInline(out, converted)
		}
	}
	return out
}

func (c *converter) convert(n ast.Node) []Node {
	switch n := n.(type) {
	case *ast.Paragraph:
		return []Node{&Paragraph{Children: c.children(n)}}
	case *ast.TextBlock:
		return c.children(n)
	case *ast.Heading:
		children := c.children(n)
		return []Node{&Heading{
			Level:    n.Level,
			Children: children,
			Anchor:   Anchor(strings.TrimSpace(PlainText(children))),
		}}
	case *ast.ThematicBreak:
		return []Node{&ThematicBreak{}}
	case *ast.FencedCodeBlock:
		return []Node{c.codeBlock(n)}
	case *ast.CodeBlock:
		return []Node{&CodeBlock{Text: c.lines(n)}}
	case *ast.Blockquote:
		return []Node{&BlockQuote{Children: c.children(n)}}
	case *ast.List:
		return []Node{c.list(n)}
	case *ast.Text:
		return c.text(n)
	case *ast.String:
		return []Node{&Text{Value: string(n.Value)}}
	case *ast.CodeSpan:
		return []Node{&InlineCode{Code: c.raw(n)}}
	case *ast.Emphasis:
		if n.Level >= 2 {
			return []Node{&Strong{Children: c.children(n)}}
		}
		return []Node{&Emphasis{Children: c.children(n)}}
	case *ast.Link:
		return []Node{&Link{URL: string(n.Destination), Title: string(n.Title), Children: c.children(n)}}
	case *ast.AutoLink:
		url := string(n.URL(c.src))
		if n.AutoLinkType == ast.AutoLinkEmail && !strings.HasPrefix(strings.ToLower(url), "mailto:") {
			url = "mailto:" + url
		}
		return []Node{&Link{URL: url, Children: []Node{&Text{Value: string(n.Label(c.src))}}}}
	case *ast.Image:
		return []Node{&Image{URL: string(n.Destination), Title: string(n.Title), Alt: PlainText(c.children(n))}}
	case *ast.HTMLBlock, *ast.RawHTML:
		return []Node{&Text{Value: c.raw(n)}}
	case *extast.Strikethrough:
		return []Node{&Strikethrough{Children: c.children(n)}}
	case *extast.Table:
		return []Node{c.table(n)}
	case *extast.TaskCheckBox:
		return nil
	default:
		return c.children(n)
	}
}

func (c *converter) text(n *ast.Text) []Node {
	value := n.Segment.Value(c.src)
	if !n.IsRaw() {
		value = util.UnescapePunctuations(value)
		value = util.ResolveNumericReferences(value)
		value = util.ResolveEntityNames(value)
	}
	s := string(value)
	if n.SoftLineBreak() {
		s += "\n"
	}
	out := []Node{&Text{Value: s}}
	if n.HardLineBreak() {
		out = append(out, &LineBreak{})
	}
	return out
}

func (c *converter) codeBlock(n *ast.FencedCodeBlock) *CodeBlock {
	cb := &CodeBlock{Lang: string(n.Language(c.src)), Text: c.lines(n)}
	if n.Info != nil {
		cb.Title = infoAttr(string(n.Info.Segment.Value(c.src)), "title")
	}
	return cb
}

func (c *converter) lines(n ast.Node) string {
	var b strings.Builder
	lines := n.Lines()
	for i := 0; i < lines.Len(); i++ {
		seg := lines.At(i)
		b.Write(seg.Value(c.src))
	}
	return b.String()
}

// raw concatenates the source text of n's descendants.
func (c *converter) raw(n ast.Node) string {
	var b strings.Builder
	if n.Type() == ast.TypeBlock {
		return c.lines(n)
	}
	if h, ok := n.(*ast.RawHTML); ok {
		for i := 0; i < h.Segments.Len(); i++ {
			seg := h.Segments.At(i)
			b.Write(seg.Value(c.src))
		}
		return b.String()
	}
	for child := n.FirstChild(); child != nil; child = child.NextSibling() {
		switch t := child.(type) {
		case *ast.Text:
			b.Write(t.Segment.Value(c.src))
		case *ast.String:
			b.Write(t.Value)
		}
	}
	return b.String()
}

func (c *converter) list(n *ast.List) *List {
	l := &List{Kind: ListBullet, Start: n.Start, Tight: n.IsTight}
	if n.IsOrdered() {
		l.Kind = ListOrdered
	}
	for child := n.FirstChild(); child != nil; child = child.NextSibling() {
		item := &ListItem{Checked: taskState(child)}
		item.Children = c.children(child)
		if item.Checked != nil {
			l.Kind = ListTask
			if len(item.Children) > 0 {
				if t, ok := item.Children[0].(*Text); ok {
					t.Value = strings.TrimLeft(t.Value, " \t")
				}
			}
		}
		l.Items = append(l.Items, item)
	}
	return l
}

// taskState returns the checkbox state of a list item, or nil when the
// item is not a task.
func taskState(item ast.Node) *bool {
	first := item.FirstChild()
	if first == nil {
		return nil
	}
	if box, ok := first.FirstChild().(*extast.TaskCheckBox); ok {
		checked := box.IsChecked
		return &checked
	}
	return nil
}

func (c *converter) table(n *extast.Table) *Table {
	t := &Table{}
	for _, a := range n.Alignments {
		t.Align = append(t.Align, alignment(a))
	}
	for child := n.FirstChild(); child != nil; child = child.NextSibling() {
		switch row := child.(type) {
		case *extast.TableHeader:
			t.Header = c.cells(row)
		case *extast.TableRow:
			t.Rows = append(t.Rows, c.cells(row))
		}
	}
	return t
}

func (c *converter) cells(row ast.Node) []Cell {
	var cells []Cell
	for cell := row.FirstChild(); cell != nil; cell = cell.NextSibling() {
		cells = append(cells, Cell{Children: c.children(cell)})
	}
	return cells
}

func alignment(a extast.Alignment) Alignment {
	switch a {
	case extast.AlignLeft:
		return AlignLeft
	case extast.AlignCenter:
		return AlignCenter
	case extast.AlignRight:
		return AlignRight
	default:
		return AlignNone
	}
}

// appendInline appends n, merging it into a trailing Text node.
func appendInline(nodes []Node, n Node) []Node {
	if t, ok := n.(*Text); ok && len(nodes) > 0 {
		if last, ok := nodes[len(nodes)-1].(*Text); ok {
			last.Value += t.Value
			return nodes
		}
	}
	return append(nodes, n)
}

// infoAttr extracts key="value" or key=value from a fence info string.
func infoAttr(info, key string) string {
	i := strings.Index(info, key+"=")
	if i < 0 || (i > 0 && info[i-1] != ' ') {
		return ""
	}
	rest := info[i+len(key)+1:]
	if rest == "" {
		return ""
	}
	if q := rest[0]; q == '"' || q == '\'' {
		if end := strings.IndexByte(rest[1:], q); end >= 0 {
			return rest[1 : 1+end]
		}
		return rest[1:]
	}
	if end := strings.IndexByte(rest, ' '); end >= 0 {
		return rest[:end]
	}
	return rest
}
