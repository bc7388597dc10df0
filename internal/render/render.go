package render

import (
	"fmt"
	"strings"

	"github.com/aymerick/raymond"

	"github.com/alnah/go-codex/internal/assets"
	"github.com/alnah/go-codex/internal/component"
	"github.com/alnah/go-codex/internal/document"
	"github.com/alnah/go-codex/internal/highlight"
	"github.com/alnah/go-codex/internal/nav"
	"github.com/alnah/go-codex/internal/project"
)

// TemplatesDir holds the page templates. A project overrides one by placing
// a file of the same name under its own _internal/templates.
const TemplatesDir = "_internal/templates"

// Page template names.
const (
	ArticleTemplate  = "article.html"
	NavEntryTemplate = "nav_entry.html"
	CodeTemplate     = "code.html"
	NotFoundTemplate = "404.html"
	BookTemplate     = "book.html"
	PreludeTemplate  = "prelude.tex"
)

// TOCDepth is the deepest heading level listed in a page's table of contents.
const TOCDepth = 3

// Renderer renders the articles of one loaded project. It only reads the
// project and the menu, so one Renderer serves every worker of a
// compilation.
type Renderer struct {
	project     *project.Project
	menu        *nav.Entry
	engine      *component.Engine
	highlighter *highlight.Highlighter
	parser      *document.Parser
	templates   map[string]template
}

type template struct {
	path   assets.Path
	source string
}

// New loads the page templates of p. The menu is the one built from p.
func New(p *project.Project, menu *nav.Entry, engine *component.Engine, hl *highlight.Highlighter) (*Renderer, error) {
	r := &Renderer{
		project:     p,
		menu:        menu,
		engine:      engine,
		highlighter: hl,
		parser:      document.NewParser(),
		templates:   make(map[string]template),
	}
	for _, name := range []string{ArticleTemplate, NavEntryTemplate, CodeTemplate, NotFoundTemplate, BookTemplate, PreludeTemplate} {
		path, err := p.Resolver.Path(TemplatesDir + "/" + name)
		if err != nil {
			return nil, err
		}
		src, _, err := p.Resolver.Read(path)
		if err != nil {
			return nil, fmt.Errorf("loading template %s: %w", name, err)
		}
		r.templates[name] = template{path: path, source: string(src)}
	}
	return r, nil
}

func (r *Renderer) execute(name string, partials map[string]string, data any) (string, error) {
	t := r.templates[name]
	return r.engine.Execute(t.path, t.source, partials, data)
}

// context returns a fresh component context for one render of a.
func (r *Renderer) context(a *project.Article, target component.Target) *component.Context {
	return &component.Context{
		Document: a.Path,
		Title:    a.Title,
		URL:      a.URL,
		Project:  r.project.Config,
		Resolver: r.project.Resolver,
		Parser:   r.parser,
		Target:   target,
	}
}

// Body renders the article's content for target, without page chrome.
func (r *Renderer) Body(a *project.Article, target component.Target) (string, error) {
	nodes, err := a.Nodes()
	if err != nil {
		return "", err
	}

	var b strings.Builder
	ctx := r.context(a, target)
	if target == component.LaTeX {
		e := &latexEmitter{r: r, ctx: ctx, base: r.project.Resolver.BaseURL()}
		err = e.blocks(&b, nodes)
	} else {
		e := &htmlEmitter{r: r, ctx: ctx}
		err = e.blocks(&b, nodes)
	}
	if err != nil {
		return "", err
	}
	return b.String(), nil
}

// Page renders the full HTML page of a, with the menu marked at a's URL.
func (r *Renderer) Page(a *project.Article) ([]byte, error) {
	body, err := r.Body(a, component.HTML)
	if err != nil {
		return nil, err
	}
	base := r.project.Resolver.BaseURL()
	body, err = RewriteBaseURL(body, base)
	if err != nil {
		return nil, fmt.Errorf("rewriting links of %s: %w", a.Path, err)
	}

	nodes, _ := a.Nodes()
	toc := make([]map[string]any, 0)
	for _, entry := range document.Outline(nodes, TOCDepth) {
		toc = append(toc, map[string]any{"level": entry.Level, "text": entry.Text, "anchor": entry.Anchor})
	}

	data := map[string]any{
		"project":  component.ProjectData(r.project.Config, base, component.HTML),
		"base_url": base,
		"nav":      r.menu.WithActive(a.URL).Data(),
		"document": documentData(a),
		"body":     raymond.SafeString(body),
		"toc":      toc,
	}
	out, err := r.execute(ArticleTemplate, map[string]string{
		strings.TrimSuffix(NavEntryTemplate, ".html"): r.templates[NavEntryTemplate].source,
	}, data)
	if err != nil {
		return nil, err
	}
	return []byte(out), nil
}

func documentData(a *project.Article) map[string]any {
	return map[string]any{
		"path":     a.Path.Rel(),
		"title":    a.Title,
		"subtitle": a.Subtitle,
		"tags":     a.Tags,
		"url":      a.URL,
		"date":     a.Date,
	}
}

// NotFound renders the 404 page.
func (r *Renderer) NotFound() ([]byte, error) {
	base := r.project.Resolver.BaseURL()
	out, err := r.execute(NotFoundTemplate, nil, map[string]any{
		"project":  component.ProjectData(r.project.Config, base, component.HTML),
		"base_url": base,
	})
	if err != nil {
		return nil, err
	}
	return []byte(out), nil
}

// HighlightCSS returns the stylesheet of the highlighting style.
func (r *Renderer) HighlightCSS() (string, error) {
	return r.highlighter.CSS()
}

// Chapter is one article of a multi-article output with its rendered body.
type Chapter struct {
	Article *project.Article
	Body    string
}

// Book renders every chapter into one printable HTML page. The site
// stylesheets are inlined so the page has no external references.
func (r *Renderer) Book(chapters []Chapter) ([]byte, error) {
	css, err := r.HighlightCSS()
	if err != nil {
		return nil, err
	}
	path, err := r.project.Resolver.Path(assets.StaticDir + "/css/codex.css")
	if err != nil {
		return nil, err
	}
	if site, _, err := r.project.Resolver.Read(path); err == nil {
		css = string(site) + "\n" + css
	}

	items := make([]map[string]any, len(chapters))
	for i, c := range chapters {
		items[i] = map[string]any{
			"anchor":   ChapterID(r.stripBase(c.Article.URL)),
			"title":    c.Article.Title,
			"subtitle": c.Article.Subtitle,
			"body":     raymond.SafeString(c.Body),
		}
	}

	out, err := r.execute(BookTemplate, nil, map[string]any{
		"project":  component.ProjectData(r.project.Config, r.project.Resolver.BaseURL(), component.HTML),
		"css":      raymond.SafeString(css),
		"chapters": items,
	})
	if err != nil {
		return nil, err
	}
	return []byte(out), nil
}

// ChapterID derives the element id of a chapter from its root-relative URL.
func ChapterID(url string) string {
	url = strings.Trim(url, "/")
	if url == "" {
		return "chapter-index"
	}
	return "chapter-" + strings.ReplaceAll(url, "/", "-")
}

// stripBase returns url relative to the site root, without the base URL.
func (r *Renderer) stripBase(url string) string {
	return stripBase(url, r.project.Resolver.BaseURL())
}

func stripBase(url, base string) string {
	if base == "" {
		return url
	}
	if url == base {
		return "/"
	}
	if rest, ok := strings.CutPrefix(url, base+"/"); ok {
		return "/" + rest
	}
	return url
}

// PagePath returns the slash-separated output file of a page URL, relative
// to the build directory: "/" maps to "index.html" and "/a/b" to
// "a/b/index.html".
func (r *Renderer) PagePath(url string) string {
	rel := strings.Trim(r.stripBase(url), "/")
	if rel == "" {
		return "index.html"
	}
	return rel + "/index.html"
}
