package component

import (
	"errors"
	"slices"
	"strings"

	"github.com/tidwall/gjson"
	"github.com/tidwall/pretty"
	"github.com/tidwall/sjson"

	"github.com/alnah/go-codex/internal/document"
)

var errInvalidJSON = errors.New("invalid JSON")

// exampleStyle formats synthesized examples: two-space indent, sorted keys.
var exampleStyle = &pretty.Options{Width: 80, Prefix: "", Indent: "  ", SortKeys: true}

// schemaField is one flattened property of a JSON Schema.
type schemaField struct {
	name        string
	typ         string
	required    bool
	deprecated  bool
	description string
	format      string
}

// jsonSchemaFields lists every property of a schema as a Field component.
// Nested objects, and objects inside arrays, are flattened into dotted names.
func jsonSchemaFields(ctx *Context, c *document.Component) ([]document.Node, error) {
	schema, err := readSchema(ctx, c)
	if err != nil {
		return nil, err
	}

	var fields []schemaField
	collectFields(schema, "", &fields)
	slices.SortStableFunc(fields, func(a, b schemaField) int { return strings.Compare(a.name, b.name) })

	nodes := make([]document.Node, 0, len(fields))
	for _, f := range fields {
		attrs := map[string]string{"name": f.name, "type": f.typ}
		if f.required {
			attrs["required"] = "true"
		}
		if f.deprecated {
			attrs["deprecated"] = "true"
		}

		body := f.description
		if f.format != "" {
			body += "\n\n---\n\n**Format:** " + f.format + "\n"
		}
		children, err := parseMarkdown(ctx, c, body)
		if err != nil {
			return nil, err
		}

		nodes = append(nodes, &document.Component{
			Name:     "Field",
			Attrs:    attrs,
			Children: children,
			Line:     c.Line,
		})
	}
	return nodes, nil
}

// jsonSchemaExample synthesizes an example document for a schema.
func jsonSchemaExample(ctx *Context, c *document.Component) ([]document.Node, error) {
	schema, err := readSchema(ctx, c)
	if err != nil {
		return nil, err
	}

	example, err := exampleValue(schema)
	if err != nil {
		return nil, &TransformError{File: c.Attr("file", ""), Component: c.Name, Err: err}
	}
	return []document.Node{&document.CodeBlock{
		Lang: "json",
		Text: string(pretty.PrettyOptions([]byte(example), exampleStyle)),
	}}, nil
}

func readSchema(ctx *Context, c *document.Component) (gjson.Result, error) {
	p, data, err := ctx.ReadFile(c)
	if err != nil {
		return gjson.Result{}, err
	}
	if !gjson.ValidBytes(data) {
		return gjson.Result{}, &TransformError{File: p.Rel(), Component: c.Name, Err: errInvalidJSON}
	}
	schema := gjson.ParseBytes(data)
	if !schema.IsObject() {
		return gjson.Result{}, &TransformError{File: p.Rel(), Component: c.Name, Err: errors.New("schema must be a JSON object")}
	}
	return schema, nil
}

func collectFields(schema gjson.Result, prefix string, out *[]schemaField) {
	required := make(map[string]bool)
	for _, r := range schema.Get("required").Array() {
		required[r.String()] = true
	}

	schema.Get("properties").ForEach(func(key, prop gjson.Result) bool {
		name := key.String()
		if prefix != "" {
			name = prefix + "." + name
		}
		*out = append(*out, schemaField{
			name:        name,
			typ:         typeName(prop),
			required:    required[key.String()],
			deprecated:  prop.Get("deprecated").Bool(),
			description: prop.Get("description").String(),
			format:      prop.Get("format").String(),
		})

		switch {
		case hasType(prop, "object"):
			collectFields(prop, name, out)
		case hasType(prop, "array") && hasType(prop.Get("items"), "object"):
			collectFields(prop.Get("items"), name, out)
		}
		return true
	})
}

// schemaTypes returns the declared types of a schema node. A node without a
// type is an object.
func schemaTypes(schema gjson.Result) []string {
	t := schema.Get("type")
	switch {
	case !t.Exists():
		return []string{"object"}
	case t.IsArray():
		var types []string
		for _, v := range t.Array() {
			types = append(types, v.String())
		}
		return types
	default:
		return []string{t.String()}
	}
}

func hasType(schema gjson.Result, want string) bool {
	return slices.Contains(schemaTypes(schema), want)
}

func typeName(schema gjson.Result) string {
	types := schemaTypes(schema)
	names := make([]string, 0, len(types))
	for _, t := range types {
		switch t {
		case "string":
			names = append(names, "String")
		case "number":
			names = append(names, "Number")
		case "integer":
			names = append(names, "Integer")
		case "boolean":
			names = append(names, "Boolean")
		case "null":
			names = append(names, "null")
		case "array":
			if items := schema.Get("items"); items.Exists() {
				names = append(names, "Array("+typeName(items)+")")
			} else {
				names = append(names, "Array")
			}
		default:
			names = append(names, "Object")
		}
	}
	return strings.Join(names, " | ")
}

// exampleValue returns the raw JSON example for a schema node. Union types
// use their first non-null member.
func exampleValue(schema gjson.Result) (string, error) {
	kind := "null"
	for _, t := range schemaTypes(schema) {
		if t != "null" {
			kind = t
			break
		}
	}

	switch kind {
	case "string":
		return `"Value"`, nil
	case "number", "integer":
		return "42", nil
	case "boolean":
		return "false", nil
	case "null":
		return "null", nil
	case "array":
		items := schema.Get("items")
		if !items.Exists() {
			return "[]", nil
		}
		item, err := exampleValue(items)
		if err != nil {
			return "", err
		}
		return "[" + item + "]", nil
	default:
		obj := "{}"
		var err error
		schema.Get("properties").ForEach(func(key, prop gjson.Result) bool {
			var v string
			if v, err = exampleValue(prop); err != nil {
				return false
			}
			obj, err = sjson.SetRaw(obj, escapeKey(key.String()), v)
			return err == nil
		})
		return obj, err
	}
}

// escapeKey quotes the characters sjson treats as path syntax.
func escapeKey(key string) string {
	var b strings.Builder
	for _, r := range key {
		if strings.ContainsRune(`.*?|#@\:`, r) {
			b.WriteByte('\\')
		}
		b.WriteRune(r)
	}
	return b.String()
}
