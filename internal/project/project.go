// Package project loads a documentation tree into Groups and Articles.
package project

import (
	"strings"
	"sync"

	"github.com/alnah/go-codex/internal/assets"
	"github.com/alnah/go-codex/internal/config"
	"github.com/alnah/go-codex/internal/document"
)

// Project is a loaded documentation tree. It is immutable after Load.
type Project struct {
	Config   *config.Project
	Resolver *assets.Resolver
	Root     *Group

	articles []*Article
	byURL    map[string]*Article
}

// Articles returns every article depth-first in discovery order.
func (p *Project) Articles() []*Article {
	return p.articles
}

// ArticleByURL finds the article served at url. A trailing slash is ignored.
func (p *Project) ArticleByURL(url string) (*Article, bool) {
	a, ok := p.byURL[urlKey(url)]
	return a, ok
}

// urlKey drops the trailing slash of url, so "/proj/" and "/proj" match.
func urlKey(url string) string {
	if len(url) > 1 {
		return strings.TrimSuffix(url, "/")
	}
	return url
}

// Group is one directory of the project.
type Group struct {
	Path     assets.Path
	Name     string
	Position int
	Exclude  bool

	// Index is the group's index.md, if any. It is also listed in Articles.
	Index    *Article
	Groups   []*Group
	Articles []*Article
}

// Article is one markdown document.
type Article struct {
	Path       assets.Path
	URL        string
	Title      string
	Subtitle   string
	Tags       []string
	Position   int
	Exclude    bool
	JSONSchema string
	Date       string
	PDFExclude bool

	body       []byte
	lineOffset int
	parser     *document.Parser

	once  sync.Once
	nodes []document.Node
	err   error
}

// IsIndex reports whether the article is its directory's index.md.
func (a *Article) IsIndex() bool {
	return a.Path.Stem() == "index"
}

// Nodes parses the article body on first use and caches the result.
// A json_schema reference appends Fields and Example sections.
func (a *Article) Nodes() ([]document.Node, error) {
	a.once.Do(func() {
		a.nodes, a.err = a.parser.Parse(a.Path.Rel(), a.body, a.lineOffset)
		if a.err == nil && a.JSONSchema != "" {
			a.nodes = append(a.nodes, schemaSections(a.JSONSchema)...)
		}
	})
	return a.nodes, a.err
}

func schemaSections(file string) []document.Node {
	heading := func(text string) *document.Heading {
		return &document.Heading{
			Level:    2,
			Children: []document.Node{&document.Text{Value: text}},
			Anchor:   document.Anchor(text),
		}
	}
	return []document.Node{
		heading("Fields"),
		&document.Component{Name: "JsonSchemaFields", Attrs: map[string]string{"file": file}, SelfClosing: true},
		heading("Example"),
		&document.Component{Name: "JsonSchemaExample", Attrs: map[string]string{"file": file}, SelfClosing: true},
	}
}
