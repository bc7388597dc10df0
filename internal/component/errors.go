package component

import (
	"errors"
	"fmt"
)

// Sentinel errors for component operations.
var (
	ErrUnknownComponent = errors.New("unknown component")
	ErrTransform        = errors.New("component transform failed")
	ErrRender           = errors.New("component render failed")
)

// ResolutionError reports a component name that matches no definition.
type ResolutionError struct {
	Document  string
	Component string
}

func (e *ResolutionError) Error() string {
	return fmt.Sprintf("%v <%s> referenced by %s", ErrUnknownComponent, e.Component, e.Document)
}

// Unwrap lets errors.Is match ErrUnknownComponent.
func (e *ResolutionError) Unwrap() error { return ErrUnknownComponent }

// TransformError reports a native component that could not read or parse
// its input file.
type TransformError struct {
	File      string
	Component string
	Err       error
}

func (e *TransformError) Error() string {
	if e.File == "" {
		return fmt.Sprintf("%v: <%s>: %v", ErrTransform, e.Component, e.Err)
	}
	return fmt.Sprintf("%v: <%s> file %q: %v", ErrTransform, e.Component, e.File, e.Err)
}

// Unwrap returns both the kind and the cause, so errors.Is matches
// ErrTransform as well as the underlying error (such as assets.ErrNotFound).
func (e *TransformError) Unwrap() []error { return []error{ErrTransform, e.Err} }

// RenderError reports a template that failed to evaluate or attributes that
// the component does not accept.
type RenderError struct {
	Component string
	Err       error
}

func (e *RenderError) Error() string {
	return fmt.Sprintf("%v: <%s>: %v", ErrRender, e.Component, e.Err)
}

// Unwrap returns both the kind and the cause.
func (e *RenderError) Unwrap() []error { return []error{ErrRender, e.Err} }
