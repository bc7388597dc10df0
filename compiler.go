package codex

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/alnah/go-codex/internal/assets"
	"github.com/alnah/go-codex/internal/component"
	"github.com/alnah/go-codex/internal/document"
	"github.com/alnah/go-codex/internal/fileutil"
	"github.com/alnah/go-codex/internal/highlight"
	"github.com/alnah/go-codex/internal/nav"
	"github.com/alnah/go-codex/internal/pdf"
	"github.com/alnah/go-codex/internal/project"
	"github.com/alnah/go-codex/internal/render"
)

// Engine names a PDF backend.
type Engine = pdf.Engine

// Supported PDF engines.
const (
	EnginePDFLaTeX = pdf.PDFLaTeX
	EngineXeLaTeX  = pdf.XeLaTeX
	EngineLuaLaTeX = pdf.LuaLaTeX
	EngineTectonic = pdf.Tectonic
	EngineChrome   = pdf.Chrome
)

// ParseEngine validates an engine name; the empty string selects pdflatex.
func ParseEngine(name string) (Engine, error) {
	return pdf.ParseEngine(name)
}

// Printer renders an HTML file to PDF bytes.
type Printer interface {
	Print(ctx context.Context, htmlPath string) ([]byte, error)
	Close() error
}

// Compile-time interface implementation checks.
var (
	_ Printer           = (*pdf.ChromePrinter)(nil)
	_ pdf.CommandRunner = pdf.ExecRunner{}
)

// Compiler builds documentation projects. Each call loads the project
// afresh, so a Compiler can be reused across builds and shared between
// goroutines. Only template and highlight caches persist between calls.
type Compiler struct {
	cfg         compilerConfig
	engine      *component.Engine
	highlighter *highlight.Highlighter
	parser      *document.Parser
	runner      pdf.CommandRunner
	printer     Printer
}

// New creates a Compiler. Use options to customize logging, concurrency
// and the built-in asset set.
func New(opts ...Option) (*Compiler, error) {
	c := &Compiler{
		cfg: compilerConfig{
			highlightStyle: highlight.DefaultStyle,
			browserTimeout: pdf.DefaultTimeout,
			getenv:         os.Getenv,
		},
		parser: document.NewParser(),
		runner: pdf.ExecRunner{},
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.cfg.logger == nil {
		c.cfg.logger = slog.New(slog.DiscardHandler)
	}

	var err error
	if c.engine, err = component.NewEngine(); err != nil {
		return nil, err
	}
	if c.highlighter, err = highlight.New(c.cfg.highlightStyle); err != nil {
		return nil, err
	}
	return c, nil
}

// BuildResult describes a published site.
type BuildResult struct {
	// Dir is the absolute build directory.
	Dir string
	// Pages counts the article pages written, excluding 404.html.
	Pages int
	// Assets counts the static files written, including highlight.css.
	Assets int
}

// session is the immutable snapshot one compilation renders from.
type session struct {
	resolver *assets.Resolver
	project  *project.Project
	menu     *nav.Entry
	renderer *render.Renderer
}

func (s *session) buildDir() string {
	return filepath.Join(s.resolver.Root(), filepath.FromSlash(s.project.Config.BuildDir()))
}

// artifact returns the path of a single-file output named after the project.
func (s *session) artifact(ext string) string {
	return filepath.Join(s.buildDir(), Slug(s.project.Config.Name)+ext)
}

// load reads the project in dir and prepares its navigation and renderer.
func (c *Compiler) load(dir string) (*session, error) {
	var ropts []assets.ResolverOption
	if c.cfg.embedded != nil {
		ropts = append(ropts, assets.WithEmbedded(c.cfg.embedded))
	}
	res, err := assets.NewResolver(dir, ropts...)
	if err != nil {
		return nil, err
	}

	p, err := project.Load(res, project.WithParser(c.parser), project.WithLogger(c.cfg.logger))
	if err != nil {
		return nil, loadError(err)
	}
	menu := nav.Build(p)
	r, err := render.New(p, menu, c.engine, c.highlighter)
	if err != nil {
		return nil, err
	}
	return &session{resolver: p.Resolver, project: p, menu: menu, renderer: r}, nil
}

// loadError scopes the front matter errors collected by the loader to
// their documents. Other errors are returned as is.
func loadError(err error) error {
	joined, ok := err.(interface{ Unwrap() []error })
	if !ok {
		return err
	}
	var docs []*DocumentError
	for _, e := range joined.Unwrap() {
		var pe *document.ParseError
		if !errors.As(e, &pe) {
			return err
		}
		docs = append(docs, &DocumentError{Path: pe.Path, Err: e})
	}
	return joinDocumentErrors(docs)
}

func joinDocumentErrors(docs []*DocumentError) error {
	slices.SortStableFunc(docs, func(a, b *DocumentError) int {
		return strings.Compare(a.Path, b.Path)
	})
	errs := make([]error, len(docs))
	for i, d := range docs {
		errs[i] = d
	}
	return errors.Join(errs...)
}

// renderEach renders every article with fn on the worker pool. Per-article
// failures are collected into one error ordered by document path.
func renderEach[T any](ctx context.Context, c *Compiler, articles []*project.Article, fn func(*project.Article) (T, error)) ([]T, error) {
	results, errs := runJobs(ctx, ResolveWorkers(c.cfg.workers), len(articles), func(i int) (T, error) {
		return fn(articles[i])
	})
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var docs []*DocumentError
	for i, err := range errs {
		if err != nil {
			docs = append(docs, &DocumentError{Path: articles[i].Path.Rel(), Err: err})
		}
	}
	if len(docs) > 0 {
		return nil, joinDocumentErrors(docs)
	}
	return results, nil
}

// Build renders every article of the project in dir, including those
// excluded from the menu, and publishes the site into the build directory.
// Nothing is written unless every article renders.
func (c *Compiler) Build(ctx context.Context, dir string) (*BuildResult, error) {
	start := time.Now()
	s, err := c.load(dir)
	if err != nil {
		return nil, err
	}

	articles := slices.Clone(s.project.Articles())
	slices.SortFunc(articles, func(a, b *project.Article) int {
		return strings.Compare(a.Path.Rel(), b.Path.Rel())
	})
	pages, err := renderEach(ctx, c, articles, s.renderer.Page)
	if err != nil {
		return nil, err
	}
	c.cfg.logger.Debug("articles rendered", slog.Int("count", len(pages)))

	result, err := c.publish(ctx, s, articles, pages)
	if err != nil {
		return nil, err
	}
	c.cfg.logger.Info("build complete",
		slog.String("dir", result.Dir),
		slog.Int("pages", result.Pages),
		slog.Int("assets", result.Assets),
		slog.Duration("duration", time.Since(start)))
	return result, nil
}

// publish writes the site into a staging directory and swaps it into
// place once every file is written.
func (c *Compiler) publish(ctx context.Context, s *session, articles []*project.Article, pages [][]byte) (*BuildResult, error) {
	result := &BuildResult{Dir: s.buildDir()}
	stage, err := fileutil.Stage(result.Dir)
	if err != nil {
		return nil, ioError("staging build", err)
	}
	defer stage.Discard()

	for i, a := range articles {
		if err := stage.WriteFile(s.renderer.PagePath(a.URL), pages[i]); err != nil {
			return nil, ioError("writing page", err)
		}
	}
	result.Pages = len(articles)

	statics, err := s.resolver.StaticFiles()
	if err != nil {
		return nil, ioError("listing static files", err)
	}
	for _, p := range statics {
		if err := s.resolver.WriteTo(p, stage.Dir()); err != nil {
			return nil, ioError("copying static file", err)
		}
	}
	css, err := s.renderer.HighlightCSS()
	if err != nil {
		return nil, err
	}
	if err := stage.WriteFile(assets.StaticDir+"/css/highlight.css", []byte(css)); err != nil {
		return nil, ioError("writing highlight.css", err)
	}
	result.Assets = len(statics) + 1

	notFound, err := s.renderer.NotFound()
	if err != nil {
		return nil, err
	}
	if err := stage.WriteFile("404.html", notFound); err != nil {
		return nil, ioError("writing 404.html", err)
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := stage.Commit(); err != nil {
		return nil, ioError("publishing build", err)
	}
	c.cfg.logger.Debug("artifacts written", slog.String("dir", result.Dir))
	return result, nil
}

// latexDocument renders the printable articles for the LaTeX target and
// assembles the document.
func (c *Compiler) latexDocument(ctx context.Context, s *session) ([]byte, error) {
	printable := s.renderer.Printable()
	bodies, err := renderEach(ctx, c, printable, func(a *project.Article) (string, error) {
		return s.renderer.Body(a, component.LaTeX)
	})
	if err != nil {
		return nil, err
	}

	byArticle := make(map[*project.Article]string, len(printable))
	for i, a := range printable {
		byArticle[a] = bodies[i]
	}
	return s.renderer.LaTeX(byArticle)
}

// Latex writes the project as one LaTeX document to
// <build>/<slug(name)>.tex and returns its path.
func (c *Compiler) Latex(ctx context.Context, dir string) (string, error) {
	s, err := c.load(dir)
	if err != nil {
		return "", err
	}
	doc, err := c.latexDocument(ctx, s)
	if err != nil {
		return "", err
	}

	out := s.artifact(".tex")
	if err := fileutil.WriteFileAtomic(out, doc); err != nil {
		return "", ioError("writing LaTeX document", err)
	}
	c.cfg.logger.Debug("artifacts written", slog.String("file", out))
	return out, nil
}

// PDF writes the project as <build>/<slug(name)>.pdf and returns its path.
// LaTeX engines typeset the LaTeX document; the chrome engine prints the
// HTML book.
func (c *Compiler) PDF(ctx context.Context, dir string, engine Engine) (string, error) {
	if _, err := pdf.ParseEngine(string(engine)); err != nil {
		return "", err
	}
	s, err := c.load(dir)
	if err != nil {
		return "", err
	}

	var data []byte
	if engine.IsLaTeX() {
		data, err = c.typeset(ctx, s, engine)
	} else {
		data, err = c.print(ctx, s)
	}
	if err != nil {
		return "", err
	}

	out := s.artifact(".pdf")
	if err := fileutil.WriteFileAtomic(out, data); err != nil {
		return "", ioError("writing PDF", err)
	}
	c.cfg.logger.Debug("artifacts written", slog.String("file", out), slog.String("engine", string(engine)))
	return out, nil
}

func (c *Compiler) typeset(ctx context.Context, s *session, engine Engine) ([]byte, error) {
	if _, ok := c.runner.(pdf.ExecRunner); ok {
		if _, err := pdf.LookPath(engine, c.cfg.getenv); err != nil {
			return nil, err
		}
	}
	doc, err := c.latexDocument(ctx, s)
	if err != nil {
		return nil, err
	}

	work, err := os.MkdirTemp("", "codex-latex-*")
	if err != nil {
		return nil, ioError("creating LaTeX work directory", err)
	}
	defer func() { _ = os.RemoveAll(work) }()

	tex := filepath.Join(work, Slug(s.project.Config.Name)+".tex")
	if err := os.WriteFile(tex, doc, fileutil.FilePermissions); err != nil { // #nosec G306 -- engine input
		return nil, ioError("writing LaTeX document", err)
	}
	out, err := (&pdf.LaTeXCompiler{Engine: engine, Runner: c.runner}).Compile(ctx, tex)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(out) // #nosec G304 -- produced by the engine in our work directory
	if err != nil {
		return nil, fmt.Errorf("%w: reading %s: %v", pdf.ErrPDFGeneration, filepath.Base(out), err)
	}
	return data, nil
}

func (c *Compiler) print(ctx context.Context, s *session) ([]byte, error) {
	printable := s.renderer.Printable()
	bodies, err := renderEach(ctx, c, printable, func(a *project.Article) (string, error) {
		return s.renderer.Body(a, component.HTML)
	})
	if err != nil {
		return nil, err
	}

	chapters := make([]render.Chapter, len(printable))
	for i, a := range printable {
		chapters[i] = render.Chapter{Article: a, Body: bodies[i]}
	}
	book, err := s.renderer.Book(chapters)
	if err != nil {
		return nil, err
	}

	path, cleanup, err := fileutil.WriteTempFile(string(book), "html")
	if err != nil {
		return nil, ioError("writing book", err)
	}
	defer cleanup()

	printer := c.printer
	if printer == nil {
		chrome := pdf.NewChromePrinter(c.cfg.browserTimeout, c.cfg.getenv)
		defer func() { _ = chrome.Close() }()
		printer = chrome
	}
	return printer.Print(ctx, path)
}

// NavTree returns the navigation menu of the project in dir as a text tree.
func (c *Compiler) NavTree(dir string) (string, error) {
	s, err := c.load(dir)
	if err != nil {
		return "", err
	}
	return s.menu.Tree(), nil
}
