package assets

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// diskSource reads files from the project directory.
type diskSource struct {
	basePath string
}

// newDiskSource creates a diskSource for the given project root.
// Returns ErrInvalidRoot if the path is not a valid, readable directory.
func newDiskSource(basePath string) (*diskSource, error) {
	if basePath == "" {
		return nil, fmt.Errorf("%w: empty path", ErrInvalidRoot)
	}

	absPath, err := filepath.Abs(basePath)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidRoot, err)
	}

	// Resolve symlinks in the root so containment checks compare real paths
	if realPath, err := filepath.EvalSymlinks(absPath); err == nil {
		absPath = realPath
	}

	info, err := os.Stat(absPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: directory does not exist: %s", ErrInvalidRoot, absPath)
		}
		return nil, fmt.Errorf("%w: %v", ErrInvalidRoot, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%w: not a directory: %s", ErrInvalidRoot, absPath)
	}

	return &diskSource{basePath: absPath}, nil
}

// abs returns the absolute disk location of rel.
func (d *diskSource) abs(rel string) string {
	return filepath.Join(d.basePath, filepath.FromSlash(rel))
}

// exists reports whether rel is a regular file on disk.
func (d *diskSource) exists(rel string) bool {
	filePath := d.abs(rel)
	if d.verifyPathContainment(filePath) != nil {
		return false
	}
	info, err := os.Stat(filePath)
	return err == nil && !info.IsDir()
}

// readFile reads rel from disk. A missing file is reported as ErrNotFound.
func (d *diskSource) readFile(rel string) ([]byte, error) {
	filePath := d.abs(rel)
	if err := d.verifyPathContainment(filePath); err != nil {
		return nil, err
	}

	content, err := os.ReadFile(filePath) // #nosec G304 -- path validated above
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %q", ErrNotFound, rel)
		}
		return nil, fmt.Errorf("%w: %v", ErrAssetRead, err)
	}
	return content, nil
}

// fsys exposes the project directory as an fs.FS for walking.
func (d *diskSource) fsys() fs.FS {
	return os.DirFS(d.basePath)
}

// verifyPathContainment ensures the resolved file path is within basePath.
// Symlinks are resolved so a link pointing outside the root is rejected.
func (d *diskSource) verifyPathContainment(filePath string) error {
	absFilePath, err := filepath.Abs(filePath)
	if err != nil {
		return fmt.Errorf("%w: cannot resolve path", ErrPathTraversal)
	}

	// If EvalSymlinks fails (file does not exist yet) the prefix check still applies
	if realPath, err := filepath.EvalSymlinks(absFilePath); err == nil {
		absFilePath = realPath
	}

	if absFilePath != d.basePath &&
		!strings.HasPrefix(absFilePath, d.basePath+string(filepath.Separator)) {
		return fmt.Errorf("%w: path escapes project root", ErrPathTraversal)
	}
	return nil
}
