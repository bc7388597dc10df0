package codex

import (
	"bytes"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/alnah/go-codex/internal/assets"
	"github.com/alnah/go-codex/internal/config"
	"github.com/alnah/go-codex/internal/fileutil"
	"github.com/alnah/go-codex/internal/yamlutil"
)

// ErrProjectExists is returned by Init when dir already holds a codex.yml.
var ErrProjectExists = fmt.Errorf("%w: %s already exists", ErrConfig, config.ProjectFile)

// indexTemplate is the landing page written by Init, after its front matter.
const indexTemplate = `
Welcome to the %s documentation.

<Alert style="info" title="Next steps">
Add markdown files next to this one. Every directory becomes a menu group.
</Alert>
`

// Init scaffolds a project named name in dir: a codex.yml and an index.md.
// dir is created if needed. An existing index.md is left untouched.
func (c *Compiler) Init(dir, name string) ([]string, error) {
	cfg := &config.Project{Name: name}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if err := os.MkdirAll(dir, fileutil.DirPermissions); err != nil {
		return nil, ioError("creating project directory", err)
	}

	cfgPath := filepath.Join(dir, config.ProjectFile)
	if fileutil.FileExists(cfgPath) {
		return nil, fmt.Errorf("%w in %s", ErrProjectExists, dir)
	}
	data, err := yamlutil.Marshal(cfg)
	if err != nil {
		return nil, err
	}
	if err := fileutil.WriteFileAtomic(cfgPath, data); err != nil {
		return nil, ioError("writing "+config.ProjectFile, err)
	}
	written := []string{config.ProjectFile}

	indexPath := filepath.Join(dir, "index.md")
	if !fileutil.FileExists(indexPath) {
		index, err := indexPage(name)
		if err != nil {
			return nil, err
		}
		if err := fileutil.WriteFileAtomic(indexPath, index); err != nil {
			return nil, ioError("writing index.md", err)
		}
		written = append(written, "index.md")
	}

	c.cfg.logger.Debug("project initialized", slog.String("dir", dir), slog.Int("files", len(written)))
	return written, nil
}

// indexPage renders the landing page. The front matter is marshaled so
// that names with YAML syntax such as ": " stay a plain string.
func indexPage(name string) ([]byte, error) {
	fm, err := yamlutil.Marshal(struct {
		Title string `yaml:"title"`
	}{Title: name})
	if err != nil {
		return nil, err
	}
	var b bytes.Buffer
	b.WriteString("---\n")
	b.Write(fm)
	if !bytes.HasSuffix(fm, []byte("\n")) {
		b.WriteByte('\n')
	}
	b.WriteString("---\n")
	fmt.Fprintf(&b, indexTemplate, name)
	return b.Bytes(), nil
}

// Eject copies the built-in templates, components and static files into
// dir so they can be customized. Files already present on disk are kept.
// It returns the relative paths written, in lexical order.
func (c *Compiler) Eject(dir string) ([]string, error) {
	var ropts []assets.ResolverOption
	if c.cfg.embedded != nil {
		ropts = append(ropts, assets.WithEmbedded(c.cfg.embedded))
	}
	res, err := assets.NewResolver(dir, ropts...)
	if err != nil {
		return nil, err
	}

	files, err := res.EmbeddedFiles()
	if err != nil {
		return nil, err
	}
	var written []string
	for _, p := range files {
		if res.ExistsOnDisk(p) {
			continue
		}
		if err := res.WriteTo(p, res.Root()); err != nil {
			return nil, ioError("ejecting "+p.Rel(), err)
		}
		written = append(written, p.Rel())
	}

	c.cfg.logger.Debug("defaults ejected", slog.String("dir", res.Root()), slog.Int("files", len(written)))
	return written, nil
}
