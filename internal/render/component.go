package render

import (
	"strings"

	"github.com/alnah/go-codex/internal/component"
	"github.com/alnah/go-codex/internal/document"
)

// emitFunc writes nodes for one target.
type emitFunc func(b *strings.Builder, nodes []document.Node) error

// expand resolves c and writes its output. Native components expand into
// nodes handed back to emit; templated ones receive their emitted body.
func (r *Renderer) expand(b *strings.Builder, ctx *component.Context, c *document.Component, emit emitFunc) error {
	def, err := r.engine.Resolve(ctx, c.Name)
	if err != nil {
		return err
	}

	switch d := def.(type) {
	case component.Native:
		nodes, err := d.Transform(ctx, c)
		if err != nil {
			return err
		}
		return emit(b, nodes)
	case component.Templated:
		var children strings.Builder
		if err := emit(&children, inlineBody(c)); err != nil {
			return err
		}
		out, err := r.engine.Render(ctx, d, c, children.String())
		if err != nil {
			return err
		}
		b.WriteString(out)
	}
	return nil
}

// inlineBody unwraps the single paragraph of an inline component so its
// body stays in running text.
func inlineBody(c *document.Component) []document.Node {
	if c.Inline && len(c.Children) == 1 {
		if p, ok := c.Children[0].(*document.Paragraph); ok {
			return p.Children
		}
	}
	return c.Children
}
