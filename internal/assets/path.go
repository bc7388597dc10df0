package assets

import (
	"path"
	"strings"
)

// Path is a project-relative virtual path.
// Two Paths are equal when they share the same root and relative path.
type Path struct {
	root string
	rel  string
}

// Root returns the project root the path is relative to.
func (p Path) Root() string { return p.root }

// Rel returns the slash-separated path relative to the root.
func (p Path) Rel() string { return p.rel }

// String returns the relative path.
func (p Path) String() string { return p.rel }

// IsZero reports whether p is the zero Path.
func (p Path) IsZero() bool { return p.root == "" && p.rel == "" }

// Base returns the last element of the path.
func (p Path) Base() string { return path.Base(p.rel) }

// Ext returns the file name extension, including the dot.
func (p Path) Ext() string { return path.Ext(p.rel) }

// Stem returns the base name without its extension.
func (p Path) Stem() string { return strings.TrimSuffix(p.Base(), p.Ext()) }

// Dir returns the parent directory. The parent of a top-level entry is ".".
func (p Path) Dir() Path {
	return Path{root: p.root, rel: path.Dir(p.rel)}
}

// Join resolves elem against p, treating p as a directory.
// An element starting with "/" restarts from the root.
func (p Path) Join(elem ...string) (Path, error) {
	base := p.rel
	parts := make([]string, 0, len(elem)+1)
	for _, e := range elem {
		if strings.HasPrefix(e, "/") {
			base = "."
			parts = parts[:0]
			e = strings.TrimLeft(e, "/")
		}
		parts = append(parts, e)
	}

	rel, err := ValidatePath(path.Join(append([]string{base}, parts...)...))
	if err != nil {
		return Path{}, err
	}
	return Path{root: p.root, rel: rel}, nil
}

// HasPrefix reports whether p lives under the directory dir.
func (p Path) HasPrefix(dir string) bool {
	return p.rel == dir || strings.HasPrefix(p.rel, dir+"/")
}

// documentURL derives the root-relative URL of a document path.
// The extension is dropped and a trailing "index" maps to its parent.
func documentURL(rel string) string {
	rel = strings.TrimSuffix(rel, path.Ext(rel))

	segments := make([]string, 0, strings.Count(rel, "/")+1)
	for _, s := range strings.Split(rel, "/") {
		if s != "" && s != "." {
			segments = append(segments, s)
		}
	}
	if n := len(segments); n > 0 && segments[n-1] == "index" {
		segments = segments[:n-1]
	}

	return "/" + strings.Join(segments, "/")
}

// normalizeBase trims surrounding slashes and whitespace from a base URL.
func normalizeBase(base string) string {
	return strings.Trim(strings.TrimSpace(base), "/")
}

// withBase prefixes a root-relative URL with the base, if any.
func withBase(base, url string) string {
	if base == "" {
		return url
	}
	return "/" + base + url
}
