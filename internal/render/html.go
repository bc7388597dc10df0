package render

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/aymerick/raymond"
	"golang.org/x/net/html"

	"github.com/alnah/go-codex/internal/component"
	"github.com/alnah/go-codex/internal/document"
)

type htmlEmitter struct {
	r   *Renderer
	ctx *component.Context
}

func (e *htmlEmitter) blocks(b *strings.Builder, nodes []document.Node) error {
	for _, n := range nodes {
		if err := e.node(b, n); err != nil {
			return err
		}
	}
	return nil
}

func (e *htmlEmitter) node(b *strings.Builder, n document.Node) error {
	switch n := n.(type) {
	case *document.Text:
		b.WriteString(html.EscapeString(n.Value))
	case *document.Paragraph:
		return e.wrap(b, "<p>", n.Children, "</p>\n")
	case *document.Heading:
		open := fmt.Sprintf("<h%d id=\"%s\">", n.Level, html.EscapeString(n.Anchor))
		return e.wrap(b, open, n.Children, fmt.Sprintf("</h%d>\n", n.Level))
	case *document.ThematicBreak:
		b.WriteString("<hr>\n")
	case *document.List:
		return e.list(b, n)
	case *document.Table:
		return e.table(b, n)
	case *document.CodeBlock:
		return e.code(b, n)
	case *document.BlockQuote:
		return e.wrap(b, "<blockquote>\n", n.Children, "</blockquote>\n")
	case *document.Component:
		return e.r.expand(b, e.ctx, n, e.blocks)
	case *document.Emphasis:
		return e.wrap(b, "<em>", n.Children, "</em>")
	case *document.Strong:
		return e.wrap(b, "<strong>", n.Children, "</strong>")
	case *document.Strikethrough:
		return e.wrap(b, "<del>", n.Children, "</del>")
	case *document.Link:
		open := `<a href="` + html.EscapeString(n.URL) + `"`
		if n.Title != "" {
			open += ` title="` + html.EscapeString(n.Title) + `"`
		}
		return e.wrap(b, open+">", n.Children, "</a>")
	case *document.Image:
		fmt.Fprintf(b, `<img src="%s" alt="%s"`, html.EscapeString(n.URL), html.EscapeString(n.Alt))
		if n.Title != "" {
			fmt.Fprintf(b, ` title="%s"`, html.EscapeString(n.Title))
		}
		b.WriteString(">")
	case *document.InlineCode:
		b.WriteString("<code>" + html.EscapeString(n.Code) + "</code>")
	case *document.LineBreak:
		b.WriteString("<br>\n")
	}
	return nil
}

func (e *htmlEmitter) wrap(b *strings.Builder, open string, children []document.Node, closing string) error {
	b.WriteString(open)
	if err := e.blocks(b, children); err != nil {
		return err
	}
	b.WriteString(closing)
	return nil
}

func (e *htmlEmitter) list(b *strings.Builder, l *document.List) error {
	tag := "ul"
	switch {
	case l.Kind == document.ListOrdered:
		tag = "ol"
		if l.Start > 1 {
			b.WriteString(`<ol start="` + strconv.Itoa(l.Start) + `">` + "\n")
		} else {
			b.WriteString("<ol>\n")
		}
	case l.Kind == document.ListTask:
		b.WriteString(`<ul class="task-list">` + "\n")
	default:
		b.WriteString("<ul>\n")
	}

	for _, item := range l.Items {
		b.WriteString("<li>")
		if item.Checked != nil {
			if *item.Checked {
				b.WriteString(`<input type="checkbox" checked disabled> `)
			} else {
				b.WriteString(`<input type="checkbox" disabled> `)
			}
		}
		for _, child := range item.Children {
			var err error
			if p, ok := child.(*document.Paragraph); ok && l.Tight {
				err = e.blocks(b, p.Children)
			} else {
				err = e.node(b, child)
			}
			if err != nil {
				return err
			}
		}
		b.WriteString("</li>\n")
	}
	b.WriteString("</" + tag + ">\n")
	return nil
}

var htmlAlign = map[document.Alignment]string{
	document.AlignLeft:   ` style="text-align: left"`,
	document.AlignCenter: ` style="text-align: center"`,
	document.AlignRight:  ` style="text-align: right"`,
}

func (e *htmlEmitter) table(b *strings.Builder, t *document.Table) error {
	row := func(cells []document.Cell, tag string) error {
		b.WriteString("<tr>")
		for i, c := range cells {
			var align string
			if i < len(t.Align) {
				align = htmlAlign[t.Align[i]]
			}
			if err := e.wrap(b, "<"+tag+align+">", c.Children, "</"+tag+">"); err != nil {
				return err
			}
		}
		b.WriteString("</tr>\n")
		return nil
	}

	b.WriteString("<table>\n")
	if t.Header != nil {
		b.WriteString("<thead>\n")
		if err := row(t.Header, "th"); err != nil {
			return err
		}
		b.WriteString("</thead>\n")
	}
	if len(t.Rows) > 0 {
		b.WriteString("<tbody>\n")
		for _, cells := range t.Rows {
			if err := row(cells, "td"); err != nil {
				return err
			}
		}
		b.WriteString("</tbody>\n")
	}
	b.WriteString("</table>\n")
	return nil
}

func (e *htmlEmitter) code(b *strings.Builder, c *document.CodeBlock) error {
	highlighted, err := e.r.highlighter.HTML(c.Text, c.Lang)
	if err != nil {
		return &component.RenderError{Component: "code", Err: err}
	}
	out, err := e.r.execute(CodeTemplate, nil, map[string]any{
		"lang":  c.Lang,
		"title": c.Title,
		"code":  raymond.SafeString(highlighted),
	})
	if err != nil {
		return &component.RenderError{Component: "code", Err: err}
	}
	b.WriteString(out)
	return nil
}
