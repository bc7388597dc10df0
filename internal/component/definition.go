package component

import (
	"github.com/alnah/go-codex/internal/assets"
	"github.com/alnah/go-codex/internal/document"
)

// Definition is what a component name resolves to: either Templated or
// Native.
type Definition interface {
	definition()
}

// Templated is a handlebars template loaded from disk or the embedded set.
type Templated struct {
	Path   assets.Path
	Source string
}

// TransformFunc synthesizes the nodes that replace a native component.
type TransformFunc func(ctx *Context, c *document.Component) ([]document.Node, error)

// Native is a built-in transform over structured input.
type Native struct {
	Name      string
	Transform TransformFunc
}

func (Templated) definition() {}
func (Native) definition()    {}

var (
	_ Definition = Templated{}
	_ Definition = Native{}
)
