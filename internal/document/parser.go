package document

import (
	"bytes"
	"fmt"
	"sort"
	"strings"

	"github.com/yuin/goldmark"
)

// Parser turns extended markdown into a Node tree. Component tags are
// matched with an explicit stack; the markdown between tags is handed to
// goldmark. A Parser is safe for concurrent use.
type Parser struct {
	md goldmark.Markdown
}

// NewParser returns a parser with GFM tables, strikethrough, task lists and
// autolinks enabled. Indented code blocks and raw HTML are disabled.
func NewParser() *Parser {
	return &Parser{md: newMarkdown()}
}

// Parse parses body, the document text that follows its front matter.
// lineOffset is the number of file lines preceding body so that reported
// positions match the source file.
func (p *Parser) Parse(path string, body []byte, lineOffset int) ([]Node, error) {
	s := &scanner{
		parser: p,
		path:   path,
		src:    body,
		offset: lineOffset,
		lines:  lineStarts(body),
	}
	return s.run()
}

// piece is either a span of markdown text or a finished component.
type piece struct {
	start, end int
	comp       *Component
}

// frame is an open component tag and the content collected so far.
// The bottom frame has no component and represents the document.
type frame struct {
	comp   *Component
	col    int
	pieces []piece
}

type scanner struct {
	parser    *Parser
	path      string
	src       []byte
	offset    int
	lines     []int
	pos       int
	textStart int
	stack     []*frame
	fence     fence
}

func (s *scanner) run() ([]Node, error) {
	s.stack = []*frame{{}}

	for s.pos < len(s.src) {
		if s.atLineStart() {
			end := s.lineEnd(s.pos)
			if s.fence.line(s.src[s.pos:end]) || s.fence.open() {
				s.pos = end
				continue
			}
		}

		switch c := s.src[s.pos]; {
		case c == '\\':
			s.pos = min(s.pos+2, len(s.src))
		case c == '`':
			s.skipCodeSpan()
		case c == '<' && isUpper(s.peek(1)) && !s.atAutolink():
			if err := s.openTag(); err != nil {
				return nil, err
			}
		case c == '<' && s.peek(1) == '/' && isUpper(s.peek(2)):
			if err := s.closeTag(); err != nil {
				return nil, err
			}
		default:
			s.pos++
		}
	}

	s.flush(len(s.src))
	if len(s.stack) > 1 {
		top := s.stack[len(s.stack)-1]
		return nil, s.errorAtLine(top.comp.Line, top.col, top.comp.Name, "tag is never closed")
	}
	return s.build(s.stack[0].pieces), nil
}

func (s *scanner) openTag() error {
	start := s.pos
	nameEnd := s.identEnd(start + 1)
	name := string(s.src[start+1 : nameEnd])

	attrs := make(map[string]string)
	selfClosing := false
	i := nameEnd
	for {
		i = s.skipSpace(i)
		if i >= len(s.src) {
			return s.errorAt(start, name, "tag is not terminated")
		}
		if s.src[i] == '>' {
			i++
			break
		}
		if s.src[i] == '/' && s.peekAt(i+1) == '>' {
			selfClosing = true
			i += 2
			break
		}
		if !isAttrStart(s.src[i]) {
			return s.errorAt(i, name, fmt.Sprintf("unexpected %q in tag", s.src[i]))
		}
		if !isSpace(s.src[i-1]) {
			return s.errorAt(i, name, "attributes must be separated by whitespace")
		}

		keyEnd := i
		for keyEnd < len(s.src) && isAttrChar(s.src[keyEnd]) {
			keyEnd++
		}
		key := string(s.src[i:keyEnd])
		value := "true"

		j := s.skipSpace(keyEnd)
		if s.peekAt(j) == '=' {
			j = s.skipSpace(j + 1)
			quote := s.peekAt(j)
			if quote != '"' && quote != '\'' {
				return s.errorAt(j, name, fmt.Sprintf("value of attribute %q must be quoted", key))
			}
			closeAt := bytes.IndexByte(s.src[j+1:], quote)
			if closeAt < 0 {
				return s.errorAt(j, name, fmt.Sprintf("value of attribute %q is not terminated", key))
			}
			value = string(s.src[j+1 : j+1+closeAt])
			keyEnd = j + 1 + closeAt + 1
		}

		if _, dup := attrs[key]; dup {
			return s.errorAt(i, name, fmt.Sprintf("duplicate attribute %q", key))
		}
		attrs[key] = value
		i = keyEnd
	}

	if s.inTableRow(start) {
		return s.errorAt(start, name, "components are not supported in table cells")
	}

	line, col := s.position(start)
	comp := &Component{
		Name:        name,
		Attrs:       attrs,
		SelfClosing: selfClosing,
		Line:        line,
	}
	comp.Inline = s.hasTextBefore(start) || (selfClosing && s.hasTextAfter(i))

	s.flush(start)
	s.pos, s.textStart = i, i

	if selfClosing {
		s.top().pieces = append(s.top().pieces, piece{comp: comp})
		return nil
	}
	s.stack = append(s.stack, &frame{comp: comp, col: col})
	return nil
}

func (s *scanner) closeTag() error {
	start := s.pos
	nameEnd := s.identEnd(start + 2)
	name := string(s.src[start+2 : nameEnd])

	end := s.skipSpace(nameEnd)
	if s.peekAt(end) != '>' {
		return s.errorAt(start, name, "closing tag is not terminated")
	}

	top := s.top()
	if top.comp == nil {
		return s.errorAt(start, name, "closing tag has no matching opening tag")
	}
	if top.comp.Name != name {
		return s.errorAt(start, name, fmt.Sprintf("closing tag does not match <%s> opened at line %d", top.comp.Name, top.comp.Line))
	}

	s.flush(start)
	s.stack = s.stack[:len(s.stack)-1]
	top.comp.Children = s.build(top.pieces)
	s.top().pieces = append(s.top().pieces, piece{comp: top.comp})

	s.pos, s.textStart = end+1, end+1
	return nil
}

// build converts the pieces of one frame into nodes. Inline components are
// merged into the paragraph or heading of the surrounding text.
func (s *scanner) build(pieces []piece) []Node {
	var out []Node
	var open *[]Node

	for _, pc := range pieces {
		if pc.comp != nil {
			if !pc.comp.Inline {
				open = nil
				out = append(out, pc.comp)
				continue
			}
			if open == nil {
				para := &Paragraph{}
				out = append(out, para)
				open = &para.Children
			}
			*open = appendInline(*open, pc.comp)
			continue
		}

		raw := s.src[pc.start:pc.end]
		midLine := pc.start > 0 && s.src[pc.start-1] != '\n'
		nodes := s.parser.markdown(dedent(raw, midLine))

		if open != nil && continuesLine(raw) && len(nodes) > 0 {
			if children := inlineChildren(nodes[0]); children != nil {
				if startsWithSpace(raw) {
					*open = appendSpace(*open)
				}
				for _, c := range *children {
					*open = appendInline(*open, c)
				}
				nodes = nodes[1:]
			}
		}
		open = nil
		out = append(out, nodes...)

		if pc.end < len(s.src) && endsMidLine(raw) && len(out) > 0 {
			if children := inlineChildren(out[len(out)-1]); children != nil {
				open = children
				if endsWithSpace(raw) {
					*open = appendSpace(*open)
				}
			}
		}
	}

	for _, n := range out {
		if h, ok := n.(*Heading); ok {
			h.Anchor = Anchor(strings.TrimSpace(PlainText(h.Children)))
		}
	}
	return out
}

func (s *scanner) flush(upTo int) {
	if upTo > s.textStart {
		s.top().pieces = append(s.top().pieces, piece{start: s.textStart, end: upTo})
	}
	s.textStart = upTo
}

func (s *scanner) top() *frame { return s.stack[len(s.stack)-1] }

// skipCodeSpan moves past a backtick code span. An unmatched run, or one
// whose closer would lie beyond a blank line, is skipped as plain text.
func (s *scanner) skipCodeSpan() {
	n := s.runLength(s.pos, '`')
	for i := s.pos + n; i < len(s.src); {
		switch s.src[i] {
		case '`':
			m := s.runLength(i, '`')
			if m == n {
				s.pos = i + m
				return
			}
			i += m
		case '\n':
			next := s.skipBlanks(i + 1)
			if next >= len(s.src) || s.src[next] == '\n' {
				s.pos += n
				return
			}
			i++
		default:
			i++
		}
	}
	s.pos += n
}

func (s *scanner) hasTextBefore(pos int) bool {
	lineStart := bytes.LastIndexByte(s.src[:pos], '\n') + 1
	return len(bytes.TrimSpace(s.src[lineStart:pos])) > 0
}

func (s *scanner) hasTextAfter(pos int) bool {
	end := s.lineEnd(pos)
	return len(bytes.TrimSpace(s.src[pos:end])) > 0
}

// inTableRow reports whether pos lies on a line of a GFM table: a run of
// non-blank lines containing pipes, one of which is a delimiter row.
func (s *scanner) inTableRow(pos int) bool {
	start := bytes.LastIndexByte(s.src[:pos], '\n') + 1
	end := s.lineEnd(pos)
	if bytes.IndexByte(s.src[start:end], '|') < 0 {
		return false
	}

	// The delimiter row may follow the header row.
	if end < len(s.src) && isDelimiterRow(s.src[end:s.lineEnd(end)]) {
		return true
	}
	for end > 0 {
		line := s.src[start:end]
		if isDelimiterRow(line) {
			return true
		}
		if len(bytes.TrimSpace(line)) == 0 || bytes.IndexByte(line, '|') < 0 || start == 0 {
			return false
		}
		end = start
		start = bytes.LastIndexByte(s.src[:start-1], '\n') + 1
	}
	return false
}

func (s *scanner) atLineStart() bool {
	return s.pos == 0 || s.src[s.pos-1] == '\n'
}

// lineEnd returns the offset just past the newline ending the line at pos.
func (s *scanner) lineEnd(pos int) int {
	if i := bytes.IndexByte(s.src[pos:], '\n'); i >= 0 {
		return pos + i + 1
	}
	return len(s.src)
}

// atAutolink reports whether the '<' at the current position starts a
// CommonMark autolink such as <HTTPS://example.com> or <Ann@example.com>,
// which goldmark renders as a link.
func (s *scanner) atAutolink() bool {
	i := s.pos + 1
	for i < len(s.src) && isSchemeChar(s.src[i]) {
		i++
	}
	if n := i - s.pos - 1; i < len(s.src) && s.src[i] == ':' && n >= 2 && n <= 32 {
		return true
	}
	for i < len(s.src) && isEmailChar(s.src[i]) {
		i++
	}
	return i < len(s.src) && s.src[i] == '@'
}

func (s *scanner) identEnd(i int) int {
	for i < len(s.src) && isIdentChar(s.src[i]) {
		i++
	}
	return i
}

func (s *scanner) skipSpace(i int) int {
	for i < len(s.src) && isSpace(s.src[i]) {
		i++
	}
	return i
}

func (s *scanner) skipBlanks(i int) int {
	for i < len(s.src) && (s.src[i] == ' ' || s.src[i] == '\t' || s.src[i] == '\r') {
		i++
	}
	return i
}

func (s *scanner) runLength(i int, c byte) int {
	n := 0
	for i+n < len(s.src) && s.src[i+n] == c {
		n++
	}
	return n
}

func (s *scanner) peek(n int) byte { return s.peekAt(s.pos + n) }

func (s *scanner) peekAt(i int) byte {
	if i < 0 || i >= len(s.src) {
		return 0
	}
	return s.src[i]
}

// position returns the 1-based file line and column of a body offset.
func (s *scanner) position(pos int) (int, int) {
	idx := sort.Search(len(s.lines), func(i int) bool { return s.lines[i] > pos }) - 1
	return idx + 1 + s.offset, pos - s.lines[idx] + 1
}

func (s *scanner) errorAt(pos int, tag, msg string) error {
	line, col := s.position(pos)
	return s.errorAtLine(line, col, tag, msg)
}

func (s *scanner) errorAtLine(line, col int, tag, msg string) error {
	return &ParseError{Path: s.path, Tag: tag, Line: line, Column: col, Msg: msg}
}

// fence tracks whether the scanner is inside a fenced code block.
type fence struct {
	char byte
	n    int
}

func (f *fence) open() bool { return f.n > 0 }

// line reports whether l opens or closes a fence, updating the state.
func (f *fence) line(l []byte) bool {
	t := bytes.TrimLeft(l, " \t")
	if len(t) == 0 || (t[0] != '`' && t[0] != '~') {
		return false
	}
	n := 0
	for n < len(t) && t[n] == t[0] {
		n++
	}
	if n < 3 {
		return false
	}
	if !f.open() {
		f.char, f.n = t[0], n
		return true
	}
	if t[0] == f.char && n >= f.n && len(bytes.TrimSpace(t[n:])) == 0 {
		f.n = 0
		return true
	}
	return false
}

func lineStarts(src []byte) []int {
	starts := []int{0}
	for i, c := range src {
		if c == '\n' {
			starts = append(starts, i+1)
		}
	}
	return starts
}

// dedent removes the indentation shared by all non-blank lines. When the
// text starts mid-line its first line does not count.
func dedent(b []byte, midLine bool) []byte {
	lines := bytes.SplitAfter(b, []byte("\n"))
	indent := -1
	for i, l := range lines {
		if (i == 0 && midLine) || len(bytes.TrimSpace(l)) == 0 {
			continue
		}
		if n := leadingSpace(l); indent < 0 || n < indent {
			indent = n
		}
	}
	if indent <= 0 {
		return b
	}

	out := make([]byte, 0, len(b))
	for i, l := range lines {
		if i == 0 && midLine {
			out = append(out, l...)
			continue
		}
		out = append(out, l[min(indent, leadingSpace(l)):]...)
	}
	return out
}

func leadingSpace(l []byte) int {
	n := 0
	for n < len(l) && (l[n] == ' ' || l[n] == '\t') {
		n++
	}
	return n
}

func continuesLine(raw []byte) bool {
	end := bytes.IndexByte(raw, '\n')
	if end < 0 {
		end = len(raw)
	}
	return len(bytes.TrimSpace(raw[:end])) > 0
}

func endsMidLine(raw []byte) bool {
	start := bytes.LastIndexByte(raw, '\n') + 1
	return len(bytes.TrimSpace(raw[start:])) > 0
}

func startsWithSpace(raw []byte) bool {
	return len(raw) > 0 && (raw[0] == ' ' || raw[0] == '\t')
}

func endsWithSpace(raw []byte) bool {
	return len(raw) > 0 && (raw[len(raw)-1] == ' ' || raw[len(raw)-1] == '\t')
}

// appendSpace separates inline content with a single space.
func appendSpace(nodes []Node) []Node {
	if len(nodes) > 0 {
		if t, ok := nodes[len(nodes)-1].(*Text); ok && strings.HasSuffix(t.Value, " ") {
			return nodes
		}
	}
	return appendInline(nodes, &Text{Value: " "})
}

func inlineChildren(n Node) *[]Node {
	switch n := n.(type) {
	case *Paragraph:
		return &n.Children
	case *Heading:
		return &n.Children
	default:
		return nil
	}
}

// isDelimiterRow matches a table delimiter row such as "|---|:-:|".
func isDelimiterRow(line []byte) bool {
	line = bytes.TrimSpace(line)
	if bytes.IndexByte(line, '|') < 0 || bytes.IndexByte(line, '-') < 0 {
		return false
	}
	for _, c := range line {
		if c != '|' && c != '-' && c != ':' && c != ' ' && c != '\t' {
			return false
		}
	}
	return true
}

func isSchemeChar(c byte) bool {
	return c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c >= '0' && c <= '9' || c == '+' || c == '.' || c == '-'
}

func isEmailChar(c byte) bool {
	return isSchemeChar(c) || strings.IndexByte("!#$%&'*/=?^_`{|}~", c) >= 0
}

func isUpper(c byte) bool { return c >= 'A' && c <= 'Z' }

func isIdentChar(c byte) bool {
	return isUpper(c) || (c >= 'a' && c <= 'z') || (c >= '0' && c <= '9') || c == '_'
}

func isAttrStart(c byte) bool {
	return (c >= 'a' && c <= 'z') || isUpper(c) || c == '_' || c == ':'
}

func isAttrChar(c byte) bool {
	return isIdentChar(c) || c == '-' || c == ':' || c == '.'
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r'
}
