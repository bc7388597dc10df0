// Package document parses extended markdown into a node tree.
//
// Besides CommonMark and the GFM extensions, a document may embed component
// tags: an opening tag is "<" followed by a name starting with an uppercase
// letter, string attributes and ">" or "/>". Component bodies are full
// documents and may nest. Tags are matched with an explicit stack, so
// nesting depth never grows the goroutine stack.
//
//	<Alert style="info" title="Heads up">
//	  Components may contain **markdown** and <Badge text="inline"/> tags.
//	</Alert>
package document
