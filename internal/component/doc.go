// Package component resolves and renders component tags.
//
// A component name resolves to a Definition. Project templates under
// _internal/components/ take precedence, then the native transforms
// registered on the Engine, then the embedded default templates:
//
//	_internal/components/<snake_case(name)>.html   HTML target
//	_internal/components/<snake_case(name)>.tex    LaTeX target
//
// Native definitions return replacement nodes that the caller renders like
// any other node. Templated definitions are rendered with handlebars against
// the component's attributes and its already rendered children.
package component
