package codex

import (
	"strings"
	"unicode"
)

// defaultSlug names artifacts of a project whose name has no usable runes.
const defaultSlug = "codex"

// Slug turns a project name into a file name stem: lowercase letters and
// digits, with every other run of characters collapsed to one hyphen.
func Slug(name string) string {
	var b strings.Builder
	pending := false
	for _, r := range strings.ToLower(name) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			if pending && b.Len() > 0 {
				b.WriteByte('-')
			}
			pending = false
			b.WriteRune(r)
			continue
		}
		pending = true
	}
	if b.Len() == 0 {
		return defaultSlug
	}
	return b.String()
}
