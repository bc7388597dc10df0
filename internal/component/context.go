package component

import (
	"errors"
	"fmt"
	"hash/fnv"
	"strings"

	"github.com/aymerick/raymond"

	"github.com/alnah/go-codex/internal/assets"
	"github.com/alnah/go-codex/internal/config"
	"github.com/alnah/go-codex/internal/document"
	"github.com/alnah/go-codex/internal/texutil"
)

// Context carries what a component needs to render inside one document.
// A Context belongs to a single document render and is not safe for
// concurrent use.
type Context struct {
	Document assets.Path
	Title    string
	URL      string
	Project  *config.Project
	Resolver *assets.Resolver
	Parser   *document.Parser
	Target   Target

	seq int
}

// NextID returns the next component id of the document. Ids depend only on
// the document path and the order of components, so rebuilds reproduce them.
func (c *Context) NextID() string {
	h := fnv.New32a()
	_, _ = h.Write([]byte(c.Document.Rel()))
	c.seq++
	return fmt.Sprintf("c%08x-%d", h.Sum32(), c.seq)
}

// ReadFile reads the file named by the component's "file" attribute.
// A relative name is looked up in the document's directory first, then
// from the project root. Names starting with "/" are always root-relative.
func (c *Context) ReadFile(comp *document.Component) (assets.Path, []byte, error) {
	file := comp.Attr("file", "")
	if file == "" {
		return assets.Path{}, nil, &TransformError{Component: comp.Name, Err: errors.New(`missing "file" attribute`)}
	}

	p, err := c.Document.Dir().Join(file)
	if err != nil {
		return assets.Path{}, nil, &TransformError{File: file, Component: comp.Name, Err: err}
	}
	if !c.Resolver.Exists(p) && !strings.HasPrefix(file, "/") {
		if fromRoot, err := c.Resolver.Path(file); err == nil && c.Resolver.Exists(fromRoot) {
			p = fromRoot
		}
	}

	data, _, err := c.Resolver.Read(p)
	if err != nil {
		return assets.Path{}, nil, &TransformError{File: p.Rel(), Component: comp.Name, Err: err}
	}
	return p, data, nil
}

// documentData is the "document" value seen by templates.
func (c *Context) documentData() map[string]any {
	return map[string]any{
		"path":  c.Document.Rel(),
		"title": c.text(c.Title),
		"url":   c.URL,
	}
}

// text prepares a string for interpolation in the current target.
func (c *Context) text(s string) any {
	if c.Target == LaTeX {
		return raymond.SafeString(texutil.Escape(s))
	}
	return s
}

// ProjectData is the "project" value seen by templates. Values are escaped
// for LaTeX when target is LaTeX; HTML escaping is left to the template.
func ProjectData(p *config.Project, baseURL string, target Target) map[string]any {
	if p == nil {
		return map[string]any{"base_url": baseURL}
	}
	ctx := &Context{Target: target}
	return map[string]any{
		"name":        ctx.text(p.Name),
		"author":      ctx.text(p.Author),
		"repo_url":    p.RepoURL,
		"project_url": p.ProjectURL,
		"base_url":    baseURL,
	}
}
