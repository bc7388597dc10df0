// Package highlight renders code with chroma using CSS classes.
package highlight

import (
	"bytes"
	"fmt"
	"path"
	"strings"

	"github.com/alecthomas/chroma/v2"
	chromahtml "github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
	lru "github.com/hashicorp/golang-lru/v2"
)

// DefaultStyle is the chroma style used for the generated stylesheet.
const DefaultStyle = "solarized-dark"

// DefaultCacheSize bounds the number of memoized snippets.
const DefaultCacheSize = 1024

type cacheKey struct {
	lang string
	code string
}

// Highlighter turns code into class-annotated HTML spans. Results are
// memoized, so a Highlighter is meant to be shared across render workers.
type Highlighter struct {
	style     *chroma.Style
	formatter *chromahtml.Formatter
	cache     *lru.Cache[cacheKey, string]
}

// New returns a Highlighter for the named chroma style.
// Unknown style names fall back to chroma's default style.
func New(styleName string) (*Highlighter, error) {
	cache, err := lru.New[cacheKey, string](DefaultCacheSize)
	if err != nil {
		return nil, fmt.Errorf("creating highlight cache: %w", err)
	}
	return &Highlighter{
		style: styles.Get(styleName),
		formatter: chromahtml.New(
			chromahtml.WithClasses(true),
			chromahtml.PreventSurroundingPre(true),
		),
		cache: cache,
	}, nil
}

// HTML returns the highlighted markup for code, without a surrounding <pre>.
// Languages chroma does not know are rendered as escaped plain text.
func (h *Highlighter) HTML(code, lang string) (string, error) {
	key := cacheKey{lang: lang, code: code}
	if out, ok := h.cache.Get(key); ok {
		return out, nil
	}

	lexer := lexers.Get(lang)
	if lexer == nil {
		lexer = lexers.Fallback
	}
	lexer = chroma.Coalesce(lexer)

	iterator, err := lexer.Tokenise(nil, code)
	if err != nil {
		return "", fmt.Errorf("tokenizing %s code: %w", lang, err)
	}

	var buf bytes.Buffer
	if err := h.formatter.Format(&buf, h.style, iterator); err != nil {
		return "", fmt.Errorf("formatting %s code: %w", lang, err)
	}

	out := buf.String()
	h.cache.Add(key, out)
	return out, nil
}

// CSS returns the stylesheet for the highlighter's style.
func (h *Highlighter) CSS() (string, error) {
	var buf bytes.Buffer
	if err := h.formatter.WriteCSS(&buf, h.style); err != nil {
		return "", fmt.Errorf("writing highlight css: %w", err)
	}
	return buf.String(), nil
}

// LanguageForFile guesses a language name from a file name.
// It returns "" when no lexer matches.
func LanguageForFile(name string) string {
	lexer := lexers.Match(path.Base(name))
	if lexer == nil {
		return ""
	}
	cfg := lexer.Config()
	if len(cfg.Aliases) > 0 {
		return cfg.Aliases[0]
	}
	return strings.ToLower(cfg.Name)
}
