package component

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"path"

	"github.com/alnah/go-codex/internal/document"
	"github.com/alnah/go-codex/internal/highlight"
)

func builtinNatives() map[string]TransformFunc {
	return map[string]TransformFunc{
		"CsvTable":          csvTable,
		"JsonSchemaFields":  jsonSchemaFields,
		"JsonSchemaExample": jsonSchemaExample,
		"CodeFile":          codeFile,
	}
}

// csvTable turns a CSV file into a table. With headers="true", the default,
// the first record is the header row.
func csvTable(ctx *Context, c *document.Component) ([]document.Node, error) {
	p, data, err := ctx.ReadFile(c)
	if err != nil {
		return nil, err
	}

	records, err := csv.NewReader(bytes.NewReader(data)).ReadAll()
	if err != nil {
		return nil, &TransformError{File: p.Rel(), Component: c.Name, Err: err}
	}
	if len(records) == 0 {
		return nil, &TransformError{File: p.Rel(), Component: c.Name, Err: errors.New("file has no records")}
	}

	table := &document.Table{Align: make([]document.Alignment, len(records[0]))}
	if c.Attr("headers", "true") == "true" {
		table.Header = csvRow(records[0])
		records = records[1:]
	}
	for _, rec := range records {
		table.Rows = append(table.Rows, csvRow(rec))
	}
	return []document.Node{table}, nil
}

func csvRow(rec []string) []document.Cell {
	cells := make([]document.Cell, len(rec))
	for i, v := range rec {
		cells[i] = document.Cell{Children: []document.Node{&document.Text{Value: v}}}
	}
	return cells
}

// codeFile embeds a source file as a titled code block, optionally folded
// into a Collapse component.
func codeFile(ctx *Context, c *document.Component) ([]document.Node, error) {
	p, data, err := ctx.ReadFile(c)
	if err != nil {
		return nil, err
	}

	title := path.Base(c.Attr("file", p.Rel()))
	block := &document.CodeBlock{
		Lang:  c.Attr("lang", highlight.LanguageForFile(p.Base())),
		Title: c.Attr("title", title),
		Text:  string(data),
	}

	if c.Attr("collapse", c.Attr("collapsed", "false")) != "true" {
		return []document.Node{block}, nil
	}
	return []document.Node{&document.Component{
		Name:     "Collapse",
		Attrs:    map[string]string{"title": block.Title},
		Children: []document.Node{block},
		Line:     c.Line,
	}}, nil
}

// parseMarkdown parses synthesized markdown in the context of the current
// document.
func parseMarkdown(ctx *Context, c *document.Component, src string) ([]document.Node, error) {
	parser := ctx.Parser
	if parser == nil {
		parser = document.NewParser()
	}
	nodes, err := parser.Parse(ctx.Document.Rel(), []byte(src), 0)
	if err != nil {
		return nil, &TransformError{File: c.Attr("file", ""), Component: c.Name, Err: fmt.Errorf("description: %w", err)}
	}
	return nodes, nil
}
