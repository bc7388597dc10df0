package render

import (
	"fmt"
	"strings"

	"github.com/alnah/go-codex/internal/component"
	"github.com/alnah/go-codex/internal/document"
	"github.com/alnah/go-codex/internal/texutil"
)

// latexSections maps document heading levels below the article's own
// \section.
var latexSections = []string{`\subsection*`, `\subsubsection*`, `\paragraph*`, `\subparagraph*`}

var hrefEscaper = strings.NewReplacer(`\`, `\\`, `#`, `\#`, `%`, `\%`, `{`, `\{`, `}`, `\}`)

type latexEmitter struct {
	r    *Renderer
	ctx  *component.Context
	base string
}

func (e *latexEmitter) blocks(b *strings.Builder, nodes []document.Node) error {
	for _, n := range nodes {
		if err := e.node(b, n); err != nil {
			return err
		}
	}
	return nil
}

func (e *latexEmitter) node(b *strings.Builder, n document.Node) error {
	switch n := n.(type) {
	case *document.Text:
		b.WriteString(texutil.Escape(n.Value))
	case *document.Paragraph:
		return e.wrap(b, "", n.Children, "\n\n")
	case *document.Heading:
		cmd := latexSections[min(n.Level, len(latexSections))-1]
		return e.wrap(b, cmd+"{", n.Children, "}\n\n")
	case *document.ThematicBreak:
		b.WriteString("\\noindent\\rule{\\linewidth}{0.4pt}\n\n")
	case *document.List:
		return e.list(b, n)
	case *document.Table:
		return e.table(b, n)
	case *document.CodeBlock:
		e.code(b, n)
	case *document.BlockQuote:
		return e.wrap(b, "\\begin{quote}\n", n.Children, "\\end{quote}\n\n")
	case *document.Component:
		return e.r.expand(b, e.ctx, n, e.blocks)
	case *document.Emphasis:
		return e.wrap(b, `\emph{`, n.Children, "}")
	case *document.Strong:
		return e.wrap(b, `\textbf{`, n.Children, "}")
	case *document.Strikethrough:
		return e.wrap(b, `\st{`, n.Children, "}")
	case *document.Link:
		if label, ok := e.internalLabel(n.URL); ok {
			return e.wrap(b, `\hyperref[`+label+`]{`, n.Children, "}")
		}
		return e.wrap(b, `\href{`+hrefEscaper.Replace(n.URL)+`}{`, n.Children, "}")
	case *document.Image:
		// Images are not embedded; the alternative text stands in for them.
		b.WriteString(`\textit{[` + texutil.Escape(n.Alt) + `]}`)
	case *document.InlineCode:
		b.WriteString(`\texttt{` + texutil.Escape(n.Code) + `}`)
	case *document.LineBreak:
		b.WriteString("\\newline\n")
	}
	return nil
}

func (e *latexEmitter) wrap(b *strings.Builder, open string, children []document.Node, closing string) error {
	b.WriteString(open)
	if err := e.blocks(b, children); err != nil {
		return err
	}
	b.WriteString(closing)
	return nil
}

// internalLabel maps a root-relative link to the label of the section it
// points at. Fragments are dropped since only articles carry labels.
func (e *latexEmitter) internalLabel(url string) (string, bool) {
	if !strings.HasPrefix(url, "/") || strings.HasPrefix(url, "//") {
		return "", false
	}
	url, _, _ = strings.Cut(url, "#")
	return texutil.Label(stripBase(url, e.base)), true
}

func (e *latexEmitter) list(b *strings.Builder, l *document.List) error {
	env := "itemize"
	if l.Kind == document.ListOrdered {
		env = "enumerate"
	}
	b.WriteString(`\begin{` + env + "}\n")
	if l.Kind == document.ListOrdered && l.Start > 1 {
		fmt.Fprintf(b, "\\setcounter{enumi}{%d}\n", l.Start-1)
	}

	for _, item := range l.Items {
		switch {
		case item.Checked == nil:
			b.WriteString(`\item `)
		case *item.Checked:
			b.WriteString(`\item[\texttt{[x]}] `)
		default:
			b.WriteString(`\item[\texttt{[ ]}] `)
		}
		for _, child := range item.Children {
			var err error
			if p, ok := child.(*document.Paragraph); ok && l.Tight {
				err = e.blocks(b, p.Children)
				b.WriteString("\n")
			} else {
				err = e.node(b, child)
			}
			if err != nil {
				return err
			}
		}
	}
	b.WriteString(`\end{` + env + "}\n\n")
	return nil
}

var latexAlign = map[document.Alignment]string{
	document.AlignNone:   "l",
	document.AlignLeft:   "l",
	document.AlignCenter: "c",
	document.AlignRight:  "r",
}

func (e *latexEmitter) table(b *strings.Builder, t *document.Table) error {
	cols := len(t.Align)
	if cols == 0 && t.Header != nil {
		cols = len(t.Header)
	}
	layout := make([]string, cols)
	for i := range layout {
		layout[i] = "l"
		if i < len(t.Align) {
			layout[i] = latexAlign[t.Align[i]]
		}
	}

	row := func(cells []document.Cell, bold bool) error {
		for i, c := range cells {
			if i > 0 {
				b.WriteString(" & ")
			}
			open, closing := "", ""
			if bold {
				open, closing = `\textbf{`, "}"
			}
			if err := e.wrap(b, open, c.Children, closing); err != nil {
				return err
			}
		}
		b.WriteString(" \\\\\n\\hline\n")
		return nil
	}

	b.WriteString("\\begin{tabular}{|" + strings.Join(layout, "|") + "|}\n\\hline\n")
	if t.Header != nil {
		if err := row(t.Header, true); err != nil {
			return err
		}
	}
	for _, cells := range t.Rows {
		if err := row(cells, false); err != nil {
			return err
		}
	}
	b.WriteString("\\end{tabular}\n\n")
	return nil
}

func (e *latexEmitter) code(b *strings.Builder, c *document.CodeBlock) {
	b.WriteString(`\begin{lstlisting}`)
	if c.Title != "" {
		b.WriteString(`[title={` + texutil.Escape(c.Title) + `}]`)
	}
	b.WriteString("\n" + c.Text)
	if !strings.HasSuffix(c.Text, "\n") {
		b.WriteString("\n")
	}
	b.WriteString("\\end{lstlisting}\n\n")
}
