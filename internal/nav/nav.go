// Package nav derives the ordered navigation menu of a project.
package nav

import (
	"fmt"
	"slices"
	"strings"

	"github.com/disiqueira/gotree/v3"
	"golang.org/x/text/cases"

	"github.com/alnah/go-codex/internal/project"
)

// Kind distinguishes group entries from article entries.
type Kind int

// Entry kinds.
const (
	KindGroup Kind = iota
	KindArticle
)

// String returns the kind name as seen by templates.
func (k Kind) String() string {
	if k == KindArticle {
		return "article"
	}
	return "group"
}

// Entry is one node of the navigation menu. A tree returned by Build is
// shared by every render and must not be modified; use WithActive to get a
// marked copy.
type Entry struct {
	Title    string
	URL      string
	Position int
	Kind     Kind
	Active   bool
	Children []*Entry

	// Article is the page behind the entry: the article itself, or a
	// group's index. It is nil for groups without an index.
	Article *project.Article
}

// Build derives the menu. Excluded groups and articles are left out, along
// with everything below an excluded group. A group's index becomes the
// group's own URL instead of a child entry; a group whose index is missing
// or excluded has no URL.
func Build(p *project.Project) *Entry {
	b := builder{fold: cases.Fold()}
	root := b.group(p.Root)
	root.Title = p.Config.Name
	return root
}

type builder struct {
	fold cases.Caser
}

func (b *builder) group(g *project.Group) *Entry {
	e := &Entry{Title: g.Name, Position: g.Position, Kind: KindGroup}
	if g.Index != nil && !g.Index.Exclude {
		e.URL, e.Article = g.Index.URL, g.Index
	}

	for _, a := range g.Articles {
		if a == g.Index || a.Exclude {
			continue
		}
		e.Children = append(e.Children, &Entry{
			Title:    a.Title,
			URL:      a.URL,
			Position: a.Position,
			Kind:     KindArticle,
			Article:  a,
		})
	}
	for _, sub := range g.Groups {
		if !sub.Exclude {
			e.Children = append(e.Children, b.group(sub))
		}
	}

	b.sort(e.Children)
	return e
}

// sort orders siblings by position, then case-folded title, then exact
// title, then URL, which makes the order total.
func (b *builder) sort(entries []*Entry) {
	keys := make(map[*Entry]string, len(entries))
	for _, e := range entries {
		keys[e] = b.fold.String(e.Title)
	}
	slices.SortStableFunc(entries, func(x, y *Entry) int {
		if x.Position != y.Position {
			return x.Position - y.Position
		}
		if c := strings.Compare(keys[x], keys[y]); c != 0 {
			return c
		}
		if c := strings.Compare(x.Title, y.Title); c != 0 {
			return c
		}
		return strings.Compare(x.URL, y.URL)
	})
}

// Walk visits e and its descendants depth-first with their depth. The root
// has depth 0. Returning false skips the children of that entry.
func (e *Entry) Walk(fn func(entry *Entry, depth int) bool) {
	e.walk(fn, 0)
}

func (e *Entry) walk(fn func(*Entry, int) bool, depth int) {
	if !fn(e, depth) {
		return
	}
	for _, c := range e.Children {
		c.walk(fn, depth+1)
	}
}

// Flatten returns every article reachable from the menu in navigation
// order. A group's index precedes the group's children.
func (e *Entry) Flatten() []*project.Article {
	var out []*project.Article
	e.Walk(func(entry *Entry, _ int) bool {
		if entry.Article != nil {
			out = append(out, entry.Article)
		}
		return true
	})
	return out
}

// WithActive returns a deep copy in which the entry for url and all its
// ancestors are marked active.
func (e *Entry) WithActive(url string) *Entry {
	c, _ := e.copyActive(url)
	return c
}

func (e *Entry) copyActive(url string) (*Entry, bool) {
	c := *e
	c.Active = e.URL == url
	c.Children = make([]*Entry, len(e.Children))
	for i, child := range e.Children {
		cc, active := child.copyActive(url)
		c.Children[i] = cc
		c.Active = c.Active || active
	}
	return &c, c.Active
}

// Tree renders the menu as a text tree for terminals.
func (e *Entry) Tree() string {
	t := gotree.New(e.label())
	addTree(t, e.Children)
	return t.Print()
}

func addTree(t gotree.Tree, entries []*Entry) {
	for _, e := range entries {
		addTree(t.Add(e.label()), e.Children)
	}
}

func (e *Entry) label() string {
	if e.URL == "" {
		return e.Title
	}
	return fmt.Sprintf("%s (%s)", e.Title, e.URL)
}

// Data converts the tree into the maps consumed by page templates.
func (e *Entry) Data() map[string]any {
	children := make([]map[string]any, len(e.Children))
	for i, c := range e.Children {
		children[i] = c.Data()
	}
	return map[string]any{
		"title":    e.Title,
		"url":      e.URL,
		"kind":     e.Kind.String(),
		"active":   e.Active,
		"position": e.Position,
		"children": children,
	}
}
