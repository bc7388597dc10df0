package assets

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"
)

// StaticDir is the subtree copied verbatim into every HTML build.
const StaticDir = "static"

// Source identifies where a resolved file came from.
type Source int

// Resolution sources.
const (
	SourceNone Source = iota
	SourceDisk
	SourceEmbedded
)

// String returns a readable name for the source.
func (s Source) String() string {
	switch s {
	case SourceDisk:
		return "disk"
	case SourceEmbedded:
		return "embedded"
	default:
		return "none"
	}
}

// Resolver unifies the project directory and the embedded defaults into one
// read-only virtual filesystem. Disk content takes precedence.
// A Resolver is immutable and safe for concurrent use.
type Resolver struct {
	disk     *diskSource
	embedded fs.FS
	base     string
}

// ResolverOption configures a Resolver.
type ResolverOption func(*Resolver)

// WithEmbedded replaces the embedded default set.
func WithEmbedded(fsys fs.FS) ResolverOption {
	return func(r *Resolver) {
		r.embedded = fsys
	}
}

// WithBaseURL sets the prefix applied to every public URL.
// Surrounding slashes are trimmed: "/proj/" and "proj" are equivalent.
func WithBaseURL(base string) ResolverOption {
	return func(r *Resolver) {
		r.base = normalizeBase(base)
	}
}

// NewResolver creates a Resolver rooted at the project directory.
// Returns ErrInvalidRoot if root is not a readable directory.
func NewResolver(root string, opts ...ResolverOption) (*Resolver, error) {
	disk, err := newDiskSource(root)
	if err != nil {
		return nil, err
	}

	r := &Resolver{disk: disk, embedded: Defaults()}
	for _, opt := range opts {
		opt(r)
	}
	return r, nil
}

// WithBase returns a copy of r that prefixes public URLs with base.
func (r *Resolver) WithBase(base string) *Resolver {
	c := *r
	c.base = normalizeBase(base)
	return &c
}

// Root returns the absolute project root.
func (r *Resolver) Root() string {
	return r.disk.basePath
}

// Path creates a virtual path from a slash-separated relative path.
func (r *Resolver) Path(rel string) (Path, error) {
	clean, err := ValidatePath(rel)
	if err != nil {
		return Path{}, err
	}
	return Path{root: r.disk.basePath, rel: clean}, nil
}

// ExistsOnDisk reports whether p is a regular file in the project directory.
func (r *Resolver) ExistsOnDisk(p Path) bool {
	return r.disk.exists(p.rel)
}

// ExistsEmbedded reports whether p is part of the embedded default set.
func (r *Resolver) ExistsEmbedded(p Path) bool {
	info, err := fs.Stat(r.embedded, p.rel)
	return err == nil && !info.IsDir()
}

// Exists reports whether p resolves from either source.
func (r *Resolver) Exists(p Path) bool {
	return r.ExistsOnDisk(p) || r.ExistsEmbedded(p)
}

// Read returns the content of p and the source that satisfied it.
// Disk content wins when both sources hold the path.
// Returns ErrNotFound naming the path if neither source holds it.
func (r *Resolver) Read(p Path) ([]byte, Source, error) {
	content, err := r.disk.readFile(p.rel)
	if err == nil {
		return content, SourceDisk, nil
	}

	// Only fall back for "not found" errors, not traversal or I/O errors
	if !errors.Is(err, ErrNotFound) {
		return nil, SourceNone, err
	}

	content, err = fs.ReadFile(r.embedded, p.rel)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, SourceNone, fmt.Errorf("%w: %q", ErrNotFound, p.rel)
		}
		return nil, SourceNone, fmt.Errorf("%w: %v", ErrAssetRead, err)
	}
	return content, SourceEmbedded, nil
}

// URL returns the public URL of a document path.
// The extension is stripped, index files map to their directory,
// and the configured base URL prefixes the result.
func (r *Resolver) URL(p Path) string {
	return withBase(r.base, documentURL(p.rel))
}

// AssetURL returns the public URL of a static file, keeping its extension.
func (r *Resolver) AssetURL(p Path) string {
	return withBase(r.base, "/"+p.rel)
}

// BaseURL returns the base prefix as "/base", or "" when none is configured.
func (r *Resolver) BaseURL() string {
	return withBase(r.base, "")
}

// WriteTo materializes p under destRoot, mirroring its relative path.
// Disk files are copied byte-for-byte; embedded files are written out.
func (r *Resolver) WriteTo(p Path, destRoot string) error {
	dest := filepath.Join(destRoot, filepath.FromSlash(p.rel))
	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return fmt.Errorf("%w: %v", ErrAssetWrite, err)
	}

	if r.disk.exists(p.rel) {
		return copyFile(r.disk.abs(p.rel), dest)
	}

	content, err := fs.ReadFile(r.embedded, p.rel)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("%w: %q", ErrNotFound, p.rel)
		}
		return fmt.Errorf("%w: %v", ErrAssetRead, err)
	}
	if err := os.WriteFile(dest, content, 0o644); err != nil { // #nosec G306 -- published site file
		return fmt.Errorf("%w: %v", ErrAssetWrite, err)
	}
	return nil
}

// StaticFiles lists every file under the static subtree from both sources,
// sorted by path. A file present in both is listed once.
func (r *Resolver) StaticFiles() ([]Path, error) {
	seen := make(map[string]bool)

	collect := func(fsys fs.FS) error {
		err := fs.WalkDir(fsys, StaticDir, func(rel string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if !d.IsDir() {
				seen[rel] = true
			}
			return nil
		})
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return err
	}

	if err := collect(r.disk.fsys()); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrAssetRead, err)
	}
	if err := collect(r.embedded); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrAssetRead, err)
	}

	paths := make([]Path, 0, len(seen))
	for rel := range seen {
		paths = append(paths, Path{root: r.disk.basePath, rel: rel})
	}
	slices.SortFunc(paths, func(a, b Path) int {
		return strings.Compare(a.rel, b.rel)
	})
	return paths, nil
}

// EmbeddedFiles lists every file in the embedded default set.
func (r *Resolver) EmbeddedFiles() ([]Path, error) {
	var paths []Path
	err := fs.WalkDir(r.embedded, ".", func(rel string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			paths = append(paths, Path{root: r.disk.basePath, rel: rel})
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrAssetRead, err)
	}
	return paths, nil
}

// WalkDisk walks the project directory in lexical order.
func (r *Resolver) WalkDisk(fn fs.WalkDirFunc) error {
	return fs.WalkDir(r.disk.fsys(), ".", fn)
}

// copyFile copies src to dest byte-for-byte.
func copyFile(src, dest string) (err error) {
	in, err := os.Open(src) // #nosec G304 -- src validated by caller
	if err != nil {
		return fmt.Errorf("%w: %v", ErrAssetRead, err)
	}
	defer in.Close()

	out, err := os.OpenFile(dest, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644) // #nosec G302,G304 -- published site file under build root
	if err != nil {
		return fmt.Errorf("%w: %v", ErrAssetWrite, err)
	}
	defer func() {
		if cerr := out.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("%w: %v", ErrAssetWrite, cerr)
		}
	}()

	if _, err := io.Copy(out, in); err != nil {
		return fmt.Errorf("%w: %v", ErrAssetWrite, err)
	}
	return nil
}
