package document

import (
	"strings"
	"unicode"
)

// Anchor derives a heading id from its rendered text: the text is lowercased
// and every run of spaces and underscores becomes a single hyphen. Other
// characters are kept as-is. Duplicate headings yield duplicate anchors.
func Anchor(text string) string {
	var b strings.Builder
	b.Grow(len(text))

	inRun := false
	for _, r := range strings.ToLower(text) {
		if r == '_' || unicode.IsSpace(r) {
			if !inRun {
				b.WriteByte('-')
				inRun = true
			}
			continue
		}
		inRun = false
		b.WriteRune(r)
	}
	return b.String()
}

// PlainText returns the concatenated text content of nodes, without markup.
func PlainText(nodes []Node) string {
	var b strings.Builder
	Walk(nodes, func(n Node) bool {
		switch n := n.(type) {
		case *Text:
			b.WriteString(n.Value)
		case *InlineCode:
			b.WriteString(n.Code)
		case *Image:
			b.WriteString(n.Alt)
		case *LineBreak:
			b.WriteByte(' ')
		}
		return true
	})
	return b.String()
}

// TOCEntry is one heading in a document outline.
type TOCEntry struct {
	Level  int
	Text   string
	Anchor string
}

// Outline lists the top-level headings of nodes up to maxLevel.
// Headings nested inside components are not part of the outline.
func Outline(nodes []Node, maxLevel int) []TOCEntry {
	var toc []TOCEntry
	for _, n := range nodes {
		if h, ok := n.(*Heading); ok && h.Level <= maxLevel {
			toc = append(toc, TOCEntry{Level: h.Level, Text: PlainText(h.Children), Anchor: h.Anchor})
		}
	}
	return toc
}
