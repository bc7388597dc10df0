// Package render turns parsed articles into HTML pages and a LaTeX document.
//
// Both targets walk the same node tree. Components are resolved through a
// component.Engine: templated components are rendered from their template
// with the already emitted body as children, native components expand into
// nodes that are emitted in place.
package render
