package render

import (
	"strings"

	"github.com/alnah/go-codex/internal/component"
	"github.com/alnah/go-codex/internal/nav"
	"github.com/alnah/go-codex/internal/project"
	"github.com/alnah/go-codex/internal/texutil"
)

// Printable returns the articles that belong in a printed document: the
// menu's articles in navigation order, minus the pdf_exclude ones.
func (r *Renderer) Printable() []*project.Article {
	var out []*project.Article
	for _, a := range r.menu.Flatten() {
		if !a.PDFExclude {
			out = append(out, a)
		}
	}
	return out
}

// LaTeX assembles the document from bodies rendered for the LaTeX target.
// A group opens a \part when at least one of its articles is emitted.
func (r *Renderer) LaTeX(bodies map[*project.Article]string) ([]byte, error) {
	emitted := func(a *project.Article) bool {
		if a == nil || a.PDFExclude {
			return false
		}
		_, ok := bodies[a]
		return ok
	}

	prelude, err := r.execute(PreludeTemplate, nil, map[string]any{
		"project": component.ProjectData(r.project.Config, r.project.Resolver.BaseURL(), component.LaTeX),
	})
	if err != nil {
		return nil, err
	}

	var b strings.Builder
	b.WriteString(prelude)
	if !strings.HasSuffix(prelude, "\n") {
		b.WriteString("\n")
	}

	r.menu.Walk(func(e *nav.Entry, depth int) bool {
		if e.Kind == nav.KindGroup && depth > 0 && hasEmitted(e, emitted) {
			b.WriteString(`\part{` + texutil.Escape(e.Title) + "}\n\n")
		}
		if emitted(e.Article) {
			a := e.Article
			b.WriteString(`\section{` + texutil.Escape(a.Title) + `}\label{` + texutil.Label(r.stripBase(a.URL)) + "}\n\n")
			b.WriteString(bodies[a])
			b.WriteString("\\pagebreak\n\n")
		}
		return true
	})

	b.WriteString("\\end{document}\n")
	return []byte(b.String()), nil
}

func hasEmitted(e *nav.Entry, emitted func(*project.Article) bool) bool {
	found := false
	e.Walk(func(entry *nav.Entry, _ int) bool {
		if emitted(entry.Article) {
			found = true
		}
		return !found
	})
	return found
}
