package document

// Node is an element of a parsed document. The set of implementations is
// closed: renderers switch over the concrete types declared in this file.
type Node interface {
	node()
}

// Text is literal text. Soft line breaks are kept as "\n".
type Text struct {
	Value string
}

// Paragraph is a block of inline content.
type Paragraph struct {
	Children []Node
}

// Heading is a section title. Anchor is derived from the heading's plain text.
type Heading struct {
	Level    int
	Children []Node
	Anchor   string
}

// ThematicBreak is a horizontal rule.
type ThematicBreak struct{}

// ListKind distinguishes bullet, ordered and task lists.
type ListKind int

// List kinds.
const (
	ListBullet ListKind = iota
	ListOrdered
	ListTask
)

// String returns the list kind name.
func (k ListKind) String() string {
	switch k {
	case ListOrdered:
		return "ordered"
	case ListTask:
		return "task"
	default:
		return "bullet"
	}
}

// List holds items of one kind. Nested lists live in an item's Children,
// so nesting depth is carried by the tree rather than by indentation.
type List struct {
	Kind  ListKind
	Start int
	Tight bool
	Items []*ListItem
}

// ListItem is one entry of a List. Checked is set for task list items only.
type ListItem struct {
	Checked  *bool
	Children []Node
}

// Alignment is the horizontal alignment of a table column.
type Alignment int

// Column alignments.
const (
	AlignNone Alignment = iota
	AlignLeft
	AlignCenter
	AlignRight
)

// Cell is one table cell holding inline content.
type Cell struct {
	Children []Node
}

// Table is a grid of cells. Header is nil when the table has no header row.
type Table struct {
	Align  []Alignment
	Header []Cell
	Rows   [][]Cell
}

// CodeBlock is a fenced block of raw text.
type CodeBlock struct {
	Lang  string
	Title string
	Text  string
}

// BlockQuote is a quoted sequence of blocks.
type BlockQuote struct {
	Children []Node
}

// Component is an embedded component tag. Children hold the enclosed content
// parsed as a full document.
type Component struct {
	Name        string
	Attrs       map[string]string
	Children    []Node
	SelfClosing bool
	// Inline is set when the tag opened mid-line, inside running text.
	Inline bool
	Line   int
}

// Attr returns the attribute value, or def when absent.
func (c *Component) Attr(name, def string) string {
	if v, ok := c.Attrs[name]; ok {
		return v
	}
	return def
}

// Emphasis is emphasized inline content.
type Emphasis struct {
	Children []Node
}

// Strong is strongly emphasized inline content.
type Strong struct {
	Children []Node
}

// Strikethrough is struck-through inline content.
type Strikethrough struct {
	Children []Node
}

// Link is a hyperlink.
type Link struct {
	URL      string
	Title    string
	Children []Node
}

// Image is an inline image.
type Image struct {
	URL   string
	Title string
	Alt   string
}

// InlineCode is a code span.
type InlineCode struct {
	Code string
}

// LineBreak is a hard line break.
type LineBreak struct{}

func (*Text) node()          {}
func (*Paragraph) node()     {}
func (*Heading) node()       {}
func (*ThematicBreak) node() {}
func (*List) node()          {}
func (*ListItem) node()      {}
func (*Table) node()         {}
func (*CodeBlock) node()     {}
func (*BlockQuote) node()    {}
func (*Component) node()     {}
func (*Emphasis) node()      {}
func (*Strong) node()        {}
func (*Strikethrough) node() {}
func (*Link) node()          {}
func (*Image) node()         {}
func (*InlineCode) node()    {}
func (*LineBreak) node()     {}

// Children returns the direct children of n, or nil for leaf nodes.
// Table cells and list items are flattened in document order.
func Children(n Node) []Node {
	switch n := n.(type) {
	case *Paragraph:
		return n.Children
	case *Heading:
		return n.Children
	case *List:
		out := make([]Node, len(n.Items))
		for i, item := range n.Items {
			out[i] = item
		}
		return out
	case *ListItem:
		return n.Children
	case *Table:
		var out []Node
		for _, c := range n.Header {
			out = append(out, c.Children...)
		}
		for _, row := range n.Rows {
			for _, c := range row {
				out = append(out, c.Children...)
			}
		}
		return out
	case *BlockQuote:
		return n.Children
	case *Component:
		return n.Children
	case *Emphasis:
		return n.Children
	case *Strong:
		return n.Children
	case *Strikethrough:
		return n.Children
	case *Link:
		return n.Children
	default:
		return nil
	}
}

// Walk visits nodes depth-first in document order. If fn returns false the
// children of that node are skipped.
func Walk(nodes []Node, fn func(Node) bool) {
	for _, n := range nodes {
		if fn(n) {
			Walk(Children(n), fn)
		}
	}
}
