// Package fileutil writes build artifacts so that readers never observe a
// half-written output.
package fileutil

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// File permission constants.
const (
	DirPermissions  = 0o755 // rwxr-xr-x: published site directories
	FilePermissions = 0o644 // rw-r--r--: published site files
)

// Sentinel errors for file utility operations.
var (
	ErrExtensionEmpty         = errors.New("extension cannot be empty")
	ErrExtensionPathTraversal = errors.New("extension contains path separator or null byte")
	ErrUnsafePath             = errors.New("path escapes the staging directory")
)

// Staging is a temporary directory created beside a destination directory.
// Files are written into it and the whole tree replaces the destination on
// Commit. Until then the destination is untouched.
type Staging struct {
	dest string
	dir  string
}

// Stage creates the staging directory for dest. The parent of dest is
// created when missing.
func Stage(dest string) (*Staging, error) {
	dest = filepath.Clean(dest)
	parent := filepath.Dir(dest)
	if err := os.MkdirAll(parent, DirPermissions); err != nil {
		return nil, fmt.Errorf("creating %s: %w", parent, err)
	}
	dir, err := os.MkdirTemp(parent, "."+filepath.Base(dest)+"-staging-*")
	if err != nil {
		return nil, fmt.Errorf("creating staging directory: %w", err)
	}
	return &Staging{dest: dest, dir: dir}, nil
}

// Dir returns the staging directory.
func (s *Staging) Dir() string {
	return s.dir
}

// WriteFile writes data at the slash-separated path rel inside the staging
// directory, creating parent directories.
func (s *Staging) WriteFile(rel string, data []byte) error {
	full, err := s.path(rel)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(full), DirPermissions); err != nil {
		return err
	}
	return os.WriteFile(full, data, FilePermissions) // #nosec G306 -- published site file
}

func (s *Staging) path(rel string) (string, error) {
	full := filepath.Join(s.dir, filepath.FromSlash(rel))
	if full != s.dir && !strings.HasPrefix(full, s.dir+string(filepath.Separator)) {
		return "", fmt.Errorf("%w: %q", ErrUnsafePath, rel)
	}
	return full, nil
}

// Commit replaces the destination with the staged tree. The previous
// destination is moved aside first and removed once the swap succeeded.
func (s *Staging) Commit() error {
	backup := ""
	if _, err := os.Lstat(s.dest); err == nil {
		backup = s.dir + ".old"
		if err := os.Rename(s.dest, backup); err != nil {
			return fmt.Errorf("moving %s aside: %w", s.dest, err)
		}
	}
	if err := os.Rename(s.dir, s.dest); err != nil {
		if backup != "" {
			_ = os.Rename(backup, s.dest)
		}
		return fmt.Errorf("publishing %s: %w", s.dest, err)
	}
	if backup != "" {
		return os.RemoveAll(backup)
	}
	return nil
}

// Discard removes the staging directory. It is a no-op after Commit.
func (s *Staging) Discard() {
	_ = os.RemoveAll(s.dir)
}

// WriteFileAtomic writes data to path through a temporary file in the same
// directory, so the file is either absent, old or complete.
func WriteFileAtomic(path string, data []byte) (err error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, DirPermissions); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+"-*")
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = os.Remove(tmp.Name())
		}
	}()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Chmod(tmp.Name(), FilePermissions); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}

// WriteTempFile creates a temporary file with the given content and extension.
// Returns the file path and a cleanup function to remove the file.
func WriteTempFile(content, extension string) (path string, cleanup func(), err error) {
	if err := ValidateExtension(extension); err != nil {
		return "", nil, err
	}

	tmpFile, err := os.CreateTemp("", "codex-*."+extension)
	if err != nil {
		return "", nil, fmt.Errorf("creating temp file: %w", err)
	}

	path = tmpFile.Name()
	cleanup = func() { _ = os.Remove(path) }

	if _, writeErr := tmpFile.WriteString(content); writeErr != nil {
		_ = tmpFile.Close()
		cleanup()
		return "", nil, fmt.Errorf("writing temp file: %w", writeErr)
	}

	if closeErr := tmpFile.Close(); closeErr != nil {
		cleanup()
		return "", nil, fmt.Errorf("closing temp file: %w", closeErr)
	}

	return path, cleanup, nil
}

// ValidateExtension checks that the extension is safe for use in temp file names.
func ValidateExtension(extension string) error {
	if extension == "" {
		return ErrExtensionEmpty
	}
	if strings.ContainsAny(extension, "/\\\x00") {
		return ErrExtensionPathTraversal
	}
	return nil
}

// FileExists returns true if the path exists and is a regular file.
func FileExists(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return !info.IsDir()
}
