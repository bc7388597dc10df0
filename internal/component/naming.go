package component

import (
	"path"
	"strings"
	"unicode"
)

// ComponentsDir holds component templates, on disk or embedded.
const ComponentsDir = "_internal/components"

// SnakeCase converts a component name to its template file stem:
// "JsonSchemaFields" becomes "json_schema_fields", "HTTPStatus" becomes
// "http_status".
func SnakeCase(name string) string {
	runes := []rune(name)
	var b strings.Builder
	b.Grow(len(name) + 4)

	for i, r := range runes {
		if unicode.IsUpper(r) && i > 0 {
			prev := runes[i-1]
			nextLower := i+1 < len(runes) && unicode.IsLower(runes[i+1])
			if unicode.IsLower(prev) || unicode.IsDigit(prev) || (unicode.IsUpper(prev) && nextLower) {
				b.WriteByte('_')
			}
		}
		b.WriteRune(unicode.ToLower(r))
	}
	return b.String()
}

// TemplatePath returns the relative template path of a component.
func TemplatePath(name string, target Target) string {
	return path.Join(ComponentsDir, SnakeCase(name)+"."+target.Ext())
}
