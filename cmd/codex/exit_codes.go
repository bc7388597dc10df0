package main

import (
	"errors"
	"os"

	codex "github.com/alnah/go-codex"
)

// Exit codes for the codex CLI.
// Follows Unix conventions: 0=success, 1=general, 2=usage, and custom codes < 126.
const (
	ExitSuccess  = 0 // Successful compilation
	ExitGeneral  = 1 // General/unexpected error
	ExitUsage    = 2 // Invalid flags or project configuration
	ExitIO       = 3 // File not found, permission denied, artifact write failure
	ExitDocument = 4 // Parse, resolution, transform or render errors
	ExitPDF      = 5 // Missing or failing PDF engine
)

// exitCodeFor returns the appropriate exit code for an error.
// It uses errors.Is to check wrapped errors, so callers must use fmt.Errorf("%w", err).
func exitCodeFor(err error) int {
	if err == nil {
		return ExitSuccess
	}

	// Document errors (exit 4)
	if len(codex.DocumentErrors(err)) > 0 ||
		errors.Is(err, codex.ErrParse) ||
		errors.Is(err, codex.ErrUnknownComponent) ||
		errors.Is(err, codex.ErrTransform) ||
		errors.Is(err, codex.ErrRender) {
		return ExitDocument
	}

	// PDF engine errors (exit 5)
	if errors.Is(err, codex.ErrPDF) {
		return ExitPDF
	}

	// Usage/config errors (exit 2)
	if errors.Is(err, codex.ErrConfig) ||
		errors.Is(err, ErrUnknownCommand) ||
		errors.Is(err, ErrInvalidWorkerCount) ||
		errors.Is(err, ErrTooManyArgs) {
		return ExitUsage
	}

	// I/O errors (exit 3)
	if errors.Is(err, codex.ErrIO) ||
		errors.Is(err, codex.ErrNotFound) ||
		errors.Is(err, os.ErrNotExist) ||
		errors.Is(err, os.ErrPermission) {
		return ExitIO
	}

	return ExitGeneral
}
