package component

import (
	"fmt"
	"slices"
	"sort"
	"strings"

	"github.com/aymerick/raymond"
	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/alnah/go-codex/internal/assets"
	"github.com/alnah/go-codex/internal/document"
	"github.com/alnah/go-codex/internal/texutil"
)

// DefaultTemplateCacheSize bounds the number of compiled templates kept.
const DefaultTemplateCacheSize = 256

// Engine resolves component names and renders templates. Compiled templates
// are memoized, so an Engine is meant to be shared by all render workers of
// a compilation; it is safe for concurrent use once constructed.
type Engine struct {
	natives   map[string]Native
	templates *lru.Cache[string, *raymond.Template]
}

// Option configures an Engine.
type Option func(*Engine)

// WithNative registers a native transform under name, replacing any
// built-in of the same name.
func WithNative(name string, fn TransformFunc) Option {
	return func(e *Engine) {
		e.natives[name] = Native{Name: name, Transform: fn}
	}
}

// NewEngine returns an Engine with the built-in native components
// registered: CsvTable, JsonSchemaFields, JsonSchemaExample and CodeFile.
func NewEngine(opts ...Option) (*Engine, error) {
	cache, err := lru.New[string, *raymond.Template](DefaultTemplateCacheSize)
	if err != nil {
		return nil, fmt.Errorf("creating template cache: %w", err)
	}

	e := &Engine{
		natives:   make(map[string]Native),
		templates: cache,
	}
	for name, fn := range builtinNatives() {
		e.natives[name] = Native{Name: name, Transform: fn}
	}
	for _, opt := range opts {
		opt(e)
	}
	return e, nil
}

// Resolve finds the definition of a component for the context's target.
// A project template on disk shadows a native of the same name, which in
// turn shadows the embedded template.
func (e *Engine) Resolve(ctx *Context, name string) (Definition, error) {
	p, err := ctx.Resolver.Path(TemplatePath(name, ctx.Target))
	if err != nil {
		return nil, &ResolutionError{Document: ctx.Document.Rel(), Component: name}
	}

	if ctx.Resolver.ExistsOnDisk(p) {
		return e.readTemplate(ctx, p)
	}
	if native, ok := e.natives[name]; ok {
		return native, nil
	}
	if ctx.Resolver.ExistsEmbedded(p) {
		return e.readTemplate(ctx, p)
	}
	return nil, &ResolutionError{Document: ctx.Document.Rel(), Component: name}
}

func (e *Engine) readTemplate(ctx *Context, p assets.Path) (Templated, error) {
	src, _, err := ctx.Resolver.Read(p)
	if err != nil {
		return Templated{}, fmt.Errorf("reading template %s: %w", p, err)
	}
	return Templated{Path: p, Source: string(src)}, nil
}

// Render evaluates a templated component. children is the component's body,
// already rendered for the context's target; templates inject it raw with
// {{{children}}}.
func (e *Engine) Render(ctx *Context, def Templated, c *document.Component, children string) (string, error) {
	attrs, err := checkAttrs(c)
	if err != nil {
		return "", &RenderError{Component: c.Name, Err: err}
	}

	data := make(map[string]any, len(attrs)+4)
	for k, v := range attrs {
		switch {
		case v == "false":
			data[k] = false
		case ctx.Target == LaTeX:
			data[k] = raymond.SafeString(texutil.Escape(v))
		default:
			data[k] = v
		}
	}
	data["children"] = raymond.SafeString(children)
	data["id"] = ctx.NextID()
	data["document"] = ctx.documentData()
	data["project"] = ProjectData(ctx.Project, ctx.Resolver.BaseURL(), ctx.Target)

	out, err := e.Execute(def.Path, def.Source, nil, data)
	if err != nil {
		return "", &RenderError{Component: c.Name, Err: err}
	}
	return out, nil
}

// Execute renders a template with data. Partials are registered by name on
// the compiled template. Compilation is memoized on path, source and
// partials.
func (e *Engine) Execute(p assets.Path, source string, partials map[string]string, data any) (string, error) {
	tpl, err := e.compile(p, source, partials)
	if err != nil {
		return "", err
	}
	out, err := tpl.Exec(data)
	if err != nil {
		return "", fmt.Errorf("executing %s: %w", p, err)
	}
	return out, nil
}

func (e *Engine) compile(p assets.Path, source string, partials map[string]string) (*raymond.Template, error) {
	names := make([]string, 0, len(partials))
	for name := range partials {
		names = append(names, name)
	}
	sort.Strings(names)

	var key strings.Builder
	key.WriteString(p.Rel())
	key.WriteByte(0)
	key.WriteString(source)
	for _, name := range names {
		key.WriteByte(0)
		key.WriteString(name)
		key.WriteByte(0)
		key.WriteString(partials[name])
	}

	if tpl, ok := e.templates.Get(key.String()); ok {
		return tpl, nil
	}

	tpl, err := raymond.Parse(source)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", p, err)
	}
	// Partials are parsed here: raymond parses string partials lazily on
	// first use, which is unsafe once the template is shared by workers.
	for _, name := range names {
		partial, err := raymond.Parse(partials[name])
		if err != nil {
			return nil, fmt.Errorf("parsing partial %s of %s: %w", name, p, err)
		}
		tpl.RegisterPartialTemplate(name, partial)
	}
	e.templates.Add(key.String(), tpl)
	return tpl, nil
}

// attrRule constrains the attributes of a built-in tag surface.
type attrRule struct {
	defaults map[string]string
	enums    map[string][]string
}

var attrRules = map[string]attrRule{
	"Alert": {
		defaults: map[string]string{"style": "info"},
		enums:    map[string][]string{"style": {"info", "success", "warning", "danger"}},
	},
	"Badge": {
		defaults: map[string]string{"style": "info"},
	},
}

// checkAttrs applies defaults and enumerations to the attributes of c.
// It returns a copy; the node is left untouched.
func checkAttrs(c *document.Component) (map[string]string, error) {
	attrs := make(map[string]string, len(c.Attrs)+1)
	for k, v := range c.Attrs {
		attrs[k] = v
	}

	rule, ok := attrRules[c.Name]
	if !ok {
		return attrs, nil
	}
	for k, v := range rule.defaults {
		if _, set := attrs[k]; !set {
			attrs[k] = v
		}
	}
	for k, allowed := range rule.enums {
		if !slices.Contains(allowed, attrs[k]) {
			return nil, fmt.Errorf("%s %q is not one of %s", k, attrs[k], strings.Join(allowed, ", "))
		}
	}
	return attrs, nil
}
