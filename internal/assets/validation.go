package assets

import (
	"fmt"
	"path"
	"strings"
)

// ValidatePath checks that rel is a clean, slash-separated path under the root.
// Returns the cleaned path, or ErrInvalidPath if rel is empty, absolute,
// contains a backslash or null byte, or climbs out of the root.
func ValidatePath(rel string) (string, error) {
	if rel == "" {
		return "", fmt.Errorf("%w: empty path", ErrInvalidPath)
	}
	if strings.ContainsAny(rel, "\\\x00") {
		return "", fmt.Errorf("%w: %q", ErrInvalidPath, rel)
	}
	if strings.HasPrefix(rel, "/") {
		return "", fmt.Errorf("%w: %q is absolute", ErrInvalidPath, rel)
	}

	clean := path.Clean(rel)
	if clean == ".." || strings.HasPrefix(clean, "../") {
		return "", fmt.Errorf("%w: %q escapes the root", ErrInvalidPath, rel)
	}
	return clean, nil
}
