package codex

import (
	"errors"
	"fmt"

	"github.com/alnah/go-codex/internal/assets"
	"github.com/alnah/go-codex/internal/component"
	"github.com/alnah/go-codex/internal/config"
	"github.com/alnah/go-codex/internal/document"
	"github.com/alnah/go-codex/internal/pdf"
)

// Sentinel errors for library operations. Every error returned by a
// Compiler matches at least one of them with errors.Is.
var (
	// Configuration: codex.yml or group.yml is missing, malformed or invalid.
	ErrConfig         = config.ErrConfig
	ErrConfigNotFound = config.ErrConfigNotFound
	ErrConfigParse    = config.ErrConfigParse
	ErrMissingName    = config.ErrMissingName

	// NotFound: a referenced file exists neither in the project nor in the
	// built-in defaults.
	ErrNotFound = assets.ErrNotFound

	// Document errors, reported per document through DocumentError.
	ErrParse            = document.ErrParse
	ErrUnknownComponent = component.ErrUnknownComponent
	ErrTransform        = component.ErrTransform
	ErrRender           = component.ErrRender

	// ErrPDF reports a missing or failing PDF engine.
	ErrPDF = pdf.ErrPDF

	// ErrIO reports a failure writing build artifacts.
	ErrIO = errors.New("I/O error")
)

// Structured error types carried inside DocumentError.
type (
	ParseError      = document.ParseError
	ResolutionError = component.ResolutionError
	TransformError  = component.TransformError
	RenderError     = component.RenderError
)

// DocumentError scopes a parse, resolution, transform or render failure to
// the document that caused it. Path is relative to the project root.
type DocumentError struct {
	Path string
	Err  error
}

func (e *DocumentError) Error() string {
	return fmt.Sprintf("%s: %v", e.Path, e.Err)
}

// Unwrap returns the underlying error.
func (e *DocumentError) Unwrap() error { return e.Err }

// DocumentErrors returns every DocumentError joined into err, in order.
func DocumentErrors(err error) []*DocumentError {
	var out []*DocumentError
	var walk func(error)
	walk = func(err error) {
		if de, ok := err.(*DocumentError); ok {
			out = append(out, de)
			return
		}
		if joined, ok := err.(interface{ Unwrap() []error }); ok {
			for _, e := range joined.Unwrap() {
				walk(e)
			}
		}
	}
	if err != nil {
		walk(err)
	}
	return out
}

// ioError marks err as an artifact write failure.
func ioError(op string, err error) error {
	return fmt.Errorf("%w: %s: %w", ErrIO, op, err)
}
