package assets

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"testing/fstest"
)

// newTestResolver creates a project directory with the given disk files and a
// resolver whose embedded set is the given map.
func newTestResolver(t *testing.T, disk map[string]string, embedded fstest.MapFS, opts ...ResolverOption) *Resolver {
	t.Helper()

	root := t.TempDir()
	for rel, content := range disk {
		full := filepath.Join(root, filepath.FromSlash(rel))
		if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
			t.Fatalf("MkdirAll() error = %v", err)
		}
		if err := os.WriteFile(full, []byte(content), 0o644); err != nil {
			t.Fatalf("WriteFile() error = %v", err)
		}
	}

	opts = append([]ResolverOption{WithEmbedded(embedded)}, opts...)
	r, err := NewResolver(root, opts...)
	if err != nil {
		t.Fatalf("NewResolver() error = %v", err)
	}
	return r
}

func mustPath(t *testing.T, r *Resolver, rel string) Path {
	t.Helper()
	p, err := r.Path(rel)
	if err != nil {
		t.Fatalf("Path(%q) error = %v", rel, err)
	}
	return p
}

// ---------------------------------------------------------------------------
// TestNewResolver - Root Validation
// ---------------------------------------------------------------------------

func TestNewResolver(t *testing.T) {
	t.Parallel()

	t.Run("valid root", func(t *testing.T) {
		t.Parallel()

		r, err := NewResolver(t.TempDir())
		if err != nil {
			t.Fatalf("NewResolver() error = %v", err)
		}
		if !filepath.IsAbs(r.Root()) {
			t.Errorf("Root() = %q, want absolute path", r.Root())
		}
	})

	t.Run("missing root", func(t *testing.T) {
		t.Parallel()

		_, err := NewResolver("/nonexistent/path/abc123xyz")
		if !errors.Is(err, ErrInvalidRoot) {
			t.Errorf("NewResolver() error = %v, want ErrInvalidRoot", err)
		}
	})

	t.Run("file as root", func(t *testing.T) {
		t.Parallel()

		file := filepath.Join(t.TempDir(), "file.txt")
		if err := os.WriteFile(file, []byte("x"), 0o644); err != nil {
			t.Fatal(err)
		}
		_, err := NewResolver(file)
		if !errors.Is(err, ErrInvalidRoot) {
			t.Errorf("NewResolver() error = %v, want ErrInvalidRoot", err)
		}
	})

	t.Run("empty root", func(t *testing.T) {
		t.Parallel()

		_, err := NewResolver("")
		if !errors.Is(err, ErrInvalidRoot) {
			t.Errorf("NewResolver() error = %v, want ErrInvalidRoot", err)
		}
	})
}

// ---------------------------------------------------------------------------
// TestResolver_Read - Disk Precedence and Fallback
// ---------------------------------------------------------------------------

func TestResolver_Read(t *testing.T) {
	t.Parallel()

	embedded := fstest.MapFS{
		"_internal/components/alert.html": {Data: []byte("embedded alert")},
		"static/css/codex.css":            {Data: []byte("embedded css")},
	}
	r := newTestResolver(t, map[string]string{
		"_internal/components/alert.html": "disk alert",
		"docs/page.md":                    "# Page",
	}, embedded)

	tests := []struct {
		name       string
		rel        string
		wantBody   string
		wantSource Source
		wantErr    error
	}{
		{"disk wins over embedded", "_internal/components/alert.html", "disk alert", SourceDisk, nil},
		{"disk only", "docs/page.md", "# Page", SourceDisk, nil},
		{"embedded fallback", "static/css/codex.css", "embedded css", SourceEmbedded, nil},
		{"neither source", "missing.md", "", SourceNone, ErrNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, src, err := r.Read(mustPath(t, r, tt.rel))
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("Read(%q) error = %v, want %v", tt.rel, err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("Read(%q) unexpected error: %v", tt.rel, err)
			}
			if string(got) != tt.wantBody {
				t.Errorf("Read(%q) = %q, want %q", tt.rel, got, tt.wantBody)
			}
			if src != tt.wantSource {
				t.Errorf("Read(%q) source = %v, want %v", tt.rel, src, tt.wantSource)
			}
		})
	}
}

func TestResolver_ReadNotFoundNamesPath(t *testing.T) {
	t.Parallel()

	r := newTestResolver(t, nil, fstest.MapFS{})
	_, _, err := r.Read(mustPath(t, r, "guide/missing.md"))
	if err == nil {
		t.Fatal("Read() expected error")
	}
	if want := `path not found: "guide/missing.md"`; err.Error() != want {
		t.Errorf("Read() error = %q, want %q", err.Error(), want)
	}
}

func TestResolver_Exists(t *testing.T) {
	t.Parallel()

	r := newTestResolver(t,
		map[string]string{"disk.md": "d", "both.md": "b"},
		fstest.MapFS{"embedded.md": {Data: []byte("e")}, "both.md": {Data: []byte("b")}},
	)

	tests := []struct {
		rel                        string
		onDisk, inEmbedded, exists bool
	}{
		{"disk.md", true, false, true},
		{"embedded.md", false, true, true},
		{"both.md", true, true, true},
		{"none.md", false, false, false},
	}

	for _, tt := range tests {
		t.Run(tt.rel, func(t *testing.T) {
			t.Parallel()

			p := mustPath(t, r, tt.rel)
			if got := r.ExistsOnDisk(p); got != tt.onDisk {
				t.Errorf("ExistsOnDisk(%q) = %v, want %v", tt.rel, got, tt.onDisk)
			}
			if got := r.ExistsEmbedded(p); got != tt.inEmbedded {
				t.Errorf("ExistsEmbedded(%q) = %v, want %v", tt.rel, got, tt.inEmbedded)
			}
			if got := r.Exists(p); got != tt.exists {
				t.Errorf("Exists(%q) = %v, want %v", tt.rel, got, tt.exists)
			}
		})
	}
}

func TestResolver_SymlinkEscape(t *testing.T) {
	t.Parallel()

	outside := t.TempDir()
	secret := filepath.Join(outside, "secret.txt")
	if err := os.WriteFile(secret, []byte("secret"), 0o644); err != nil {
		t.Fatal(err)
	}

	r := newTestResolver(t, nil, fstest.MapFS{})
	link := filepath.Join(r.Root(), "link.txt")
	if err := os.Symlink(secret, link); err != nil {
		t.Skipf("symlinks not supported: %v", err)
	}

	_, _, err := r.Read(mustPath(t, r, "link.txt"))
	if !errors.Is(err, ErrPathTraversal) {
		t.Errorf("Read() error = %v, want ErrPathTraversal", err)
	}
}

// ---------------------------------------------------------------------------
// TestResolver_URL - Public URL Derivation
// ---------------------------------------------------------------------------

func TestResolver_URL(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		base string
		rel  string
		want string
	}{
		{"root index", "", "index.md", "/"},
		{"nested index maps to directory", "", "a/index.md", "/a"},
		{"sibling of index", "", "a/b.md", "/a/b"},
		{"scenario path", "", "overview/getting-started.md", "/overview/getting-started"},
		{"deep path", "", "a/b/c/d.md", "/a/b/c/d"},
		{"base prefix", "proj", "overview/getting-started.md", "/proj/overview/getting-started"},
		{"base trimmed of slashes", "/proj/", "a/b.md", "/proj/a/b"},
		{"base root index", "proj", "index.md", "/proj/"},
		{"base nested index", "proj", "guide/index.md", "/proj/guide"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			r := newTestResolver(t, nil, fstest.MapFS{}, WithBaseURL(tt.base))
			if got := r.URL(mustPath(t, r, tt.rel)); got != tt.want {
				t.Errorf("URL(%q) = %q, want %q", tt.rel, got, tt.want)
			}
		})
	}
}

func TestResolver_AssetURLAndBase(t *testing.T) {
	t.Parallel()

	r := newTestResolver(t, nil, fstest.MapFS{})
	p := mustPath(t, r, "static/css/codex.css")

	if got := r.AssetURL(p); got != "/static/css/codex.css" {
		t.Errorf("AssetURL() = %q, want %q", got, "/static/css/codex.css")
	}
	if got := r.BaseURL(); got != "" {
		t.Errorf("BaseURL() = %q, want empty", got)
	}

	based := r.WithBase("docs")
	if got := based.AssetURL(p); got != "/docs/static/css/codex.css" {
		t.Errorf("AssetURL() = %q, want %q", got, "/docs/static/css/codex.css")
	}
	if got := based.BaseURL(); got != "/docs" {
		t.Errorf("BaseURL() = %q, want %q", got, "/docs")
	}
	if got := r.BaseURL(); got != "" {
		t.Errorf("WithBase() mutated original, BaseURL() = %q", got)
	}
}

// ---------------------------------------------------------------------------
// TestResolver_WriteTo - Materializing Assets
// ---------------------------------------------------------------------------

func TestResolver_WriteTo(t *testing.T) {
	t.Parallel()

	r := newTestResolver(t,
		map[string]string{"static/img/logo.svg": "<svg/>"},
		fstest.MapFS{"static/css/codex.css": {Data: []byte("body{}")}},
	)
	dest := t.TempDir()

	for rel, want := range map[string]string{
		"static/img/logo.svg":  "<svg/>",
		"static/css/codex.css": "body{}",
	} {
		if err := r.WriteTo(mustPath(t, r, rel), dest); err != nil {
			t.Fatalf("WriteTo(%q) error = %v", rel, err)
		}
		got, err := os.ReadFile(filepath.Join(dest, filepath.FromSlash(rel)))
		if err != nil {
			t.Fatalf("ReadFile(%q) error = %v", rel, err)
		}
		if string(got) != want {
			t.Errorf("WriteTo(%q) wrote %q, want %q", rel, got, want)
		}
	}

	err := r.WriteTo(mustPath(t, r, "static/missing.css"), dest)
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("WriteTo(missing) error = %v, want ErrNotFound", err)
	}
}

func TestResolver_StaticFiles(t *testing.T) {
	t.Parallel()

	r := newTestResolver(t,
		map[string]string{
			"static/css/codex.css": "disk css",
			"static/img/logo.png":  "png",
			"docs/page.md":         "# Page",
		},
		fstest.MapFS{
			"static/css/codex.css":       {Data: []byte("embedded css")},
			"static/js/codex.js":         {Data: []byte("js")},
			"_internal/templates/a.html": {Data: []byte("a")},
		},
	)

	paths, err := r.StaticFiles()
	if err != nil {
		t.Fatalf("StaticFiles() error = %v", err)
	}

	want := []string{"static/css/codex.css", "static/img/logo.png", "static/js/codex.js"}
	if len(paths) != len(want) {
		t.Fatalf("StaticFiles() returned %d paths, want %d: %v", len(paths), len(want), paths)
	}
	for i, p := range paths {
		if p.Rel() != want[i] {
			t.Errorf("StaticFiles()[%d] = %q, want %q", i, p.Rel(), want[i])
		}
	}
}

func TestDefaults_ContainsBuiltins(t *testing.T) {
	t.Parallel()

	r, err := NewResolver(t.TempDir())
	if err != nil {
		t.Fatalf("NewResolver() error = %v", err)
	}

	for _, rel := range []string{
		"_internal/components/alert.html",
		"_internal/components/field.tex",
		"_internal/templates/article.html",
		"_internal/templates/nav_entry.html",
		"_internal/templates/prelude.tex",
		"static/css/codex.css",
	} {
		if !r.ExistsEmbedded(mustPath(t, r, rel)) {
			t.Errorf("embedded defaults missing %q", rel)
		}
	}
}
