package project

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"path"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/alnah/go-codex/internal/assets"
	"github.com/alnah/go-codex/internal/config"
	"github.com/alnah/go-codex/internal/dateutil"
	"github.com/alnah/go-codex/internal/document"
)

// ErrDuplicateURL indicates two documents that publish to the same URL,
// such as guide.md and guide/index.md.
var ErrDuplicateURL = fmt.Errorf("%w: duplicate document URL", config.ErrConfig)

// Directories never scanned for documents, besides the build output and
// names starting with "." or "_".
var skippedDirs = map[string]bool{
	assets.StaticDir: true,
	"_internal":      true,
	"node_modules":   true,
}

// Option configures Load.
type Option func(*loader)

// WithParser shares a document parser across loads.
func WithParser(p *document.Parser) Option {
	return func(l *loader) { l.parser = p }
}

// WithLogger sets the logger for load diagnostics.
func WithLogger(logger *slog.Logger) Option {
	return func(l *loader) { l.logger = logger }
}

type loader struct {
	resolver *assets.Resolver
	cfg      *config.Project
	parser   *document.Parser
	logger   *slog.Logger
	title    cases.Caser
	groups   map[string]*Group
	project  *Project
	errs     []error
}

// Load reads codex.yml and walks the project directory. Configuration
// problems abort immediately; front matter problems are collected per
// document and returned together.
func Load(r *assets.Resolver, opts ...Option) (*Project, error) {
	cfgPath, err := r.Path(config.ProjectFile)
	if err != nil {
		return nil, err
	}
	if !r.ExistsOnDisk(cfgPath) {
		return nil, fmt.Errorf("%w in %s", config.ErrConfigNotFound, r.Root())
	}
	data, _, err := r.Read(cfgPath)
	if err != nil {
		return nil, err
	}
	cfg, err := config.ParseProject(data)
	if err != nil {
		return nil, err
	}

	r = r.WithBase(cfg.BaseURL)
	l := &loader{
		resolver: r,
		cfg:      cfg,
		title:    cases.Title(language.English),
		groups:   make(map[string]*Group),
		project: &Project{
			Config:   cfg,
			Resolver: r,
			byURL:    make(map[string]*Article),
		},
	}
	for _, opt := range opts {
		opt(l)
	}
	if l.parser == nil {
		l.parser = document.NewParser()
	}
	if l.logger == nil {
		l.logger = slog.New(slog.DiscardHandler)
	}

	if err := r.WalkDisk(l.visit); err != nil {
		return nil, err
	}
	if len(l.errs) > 0 {
		return nil, errors.Join(l.errs...)
	}

	l.logger.Debug("project loaded",
		slog.String("name", cfg.Name),
		slog.Int("articles", len(l.project.articles)),
		slog.Int("groups", len(l.groups)))
	return l.project, nil
}

func (l *loader) visit(rel string, d fs.DirEntry, err error) error {
	if err != nil {
		return fmt.Errorf("walking %s: %w", rel, err)
	}
	if d.IsDir() {
		if rel != "." && l.skipDir(rel, d.Name()) {
			return fs.SkipDir
		}
		return l.addGroup(rel, d.Name())
	}
	if path.Ext(rel) != ".md" || !d.Type().IsRegular() {
		return nil
	}
	return l.addArticle(rel)
}

func (l *loader) skipDir(rel, name string) bool {
	if strings.HasPrefix(name, ".") || strings.HasPrefix(name, "_") || skippedDirs[name] {
		return true
	}
	return rel == l.cfg.BuildDir()
}

func (l *loader) addGroup(rel, name string) error {
	p, err := l.resolver.Path(rel)
	if err != nil {
		return err
	}

	menu := config.Menu{Name: name}
	if rel == "." {
		menu.Name = l.cfg.Name
	}

	overridePath, err := p.Join(config.GroupFile)
	if err != nil {
		return err
	}
	if l.resolver.ExistsOnDisk(overridePath) {
		data, _, err := l.resolver.Read(overridePath)
		if err != nil {
			return err
		}
		override, err := config.ParseGroup(data)
		if err != nil {
			return fmt.Errorf("%s: %w", overridePath, err)
		}
		menu = override.Apply(menu)
	}

	g := &Group{Path: p, Name: menu.Name, Position: menu.Position, Exclude: menu.Exclude}
	l.groups[rel] = g
	if rel == "." {
		l.project.Root = g
		return nil
	}
	parent := l.groups[path.Dir(rel)]
	parent.Groups = append(parent.Groups, g)
	return nil
}

func (l *loader) addArticle(rel string) error {
	p, err := l.resolver.Path(rel)
	if err != nil {
		return err
	}
	src, _, err := l.resolver.Read(p)
	if err != nil {
		return err
	}

	var fm config.FrontMatter
	body, offset, err := document.SplitFrontMatter(rel, src, &fm)
	if err != nil {
		l.errs = append(l.errs, err)
		return nil
	}
	if err := fm.Validate(); err != nil {
		l.errs = append(l.errs, &document.ParseError{Path: rel, Line: 1, Column: 1, Msg: err.Error()})
		return nil
	}

	a := &Article{
		Path:       p,
		URL:        l.resolver.URL(p),
		Tags:       fm.Tags,
		body:       body,
		lineOffset: offset,
		parser:     l.parser,
	}
	menu := fm.Apply(config.Menu{Name: l.defaultTitle(p)})
	a.Title, a.Position, a.Exclude = menu.Name, menu.Position, menu.Exclude
	if fm.Subtitle != nil {
		a.Subtitle = *fm.Subtitle
	}
	if fm.JSONSchema != nil {
		a.JSONSchema = *fm.JSONSchema
	}
	if fm.PDFExclude != nil {
		a.PDFExclude = *fm.PDFExclude
	}
	if fm.Date != nil {
		date, err := dateutil.FormatDate(*fm.Date, l.cfg.DateFormat)
		if err != nil {
			l.errs = append(l.errs, &document.ParseError{Path: rel, Line: 1, Column: 1, Msg: "front matter: " + err.Error()})
			return nil
		}
		a.Date = date
	}

	key := urlKey(a.URL)
	if other, dup := l.project.byURL[key]; dup {
		return fmt.Errorf("%w: %s and %s both publish %s", ErrDuplicateURL, other.Path, p, a.URL)
	}
	l.project.byURL[key] = a
	l.project.articles = append(l.project.articles, a)

	g := l.groups[path.Dir(rel)]
	g.Articles = append(g.Articles, a)
	if a.IsIndex() {
		g.Index = a
	}
	return nil
}

// defaultTitle title-cases the file stem: "getting-started" becomes
// "Getting Started". An index takes its directory's name, or the project
// name at the root.
func (l *loader) defaultTitle(p assets.Path) string {
	stem := p.Stem()
	if stem == "index" {
		dir := p.Dir().Rel()
		if dir == "." {
			return l.cfg.Name
		}
		stem = path.Base(dir)
	}
	words := strings.NewReplacer("-", " ", "_", " ").Replace(stem)
	return l.title.String(words)
}
