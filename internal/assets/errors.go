package assets

import "errors"

// Sentinel errors for asset operations.
var (
	// ErrNotFound indicates the path exists neither on disk nor in the embedded set.
	ErrNotFound = errors.New("path not found")

	// ErrInvalidPath indicates a relative path that is empty, absolute,
	// or contains traversal sequences.
	ErrInvalidPath = errors.New("invalid path")

	// ErrInvalidRoot indicates the project root is not a readable directory.
	ErrInvalidRoot = errors.New("invalid project root")

	// ErrAssetRead indicates an I/O error occurred while reading a file.
	ErrAssetRead = errors.New("failed to read asset")

	// ErrAssetWrite indicates an I/O error occurred while materializing a file.
	ErrAssetWrite = errors.New("failed to write asset")

	// ErrPathTraversal indicates an attempt to access files outside the root.
	ErrPathTraversal = errors.New("path traversal detected")
)
