package document

import (
	"errors"
	"fmt"
)

// ErrParse is the kind of every document parse failure.
var ErrParse = errors.New("parse error")

// ParseError reports malformed component markup with its location.
type ParseError struct {
	Path   string
	Tag    string
	Line   int
	Column int
	Msg    string
}

func (e *ParseError) Error() string {
	loc := e.Path
	if e.Line > 0 {
		loc = fmt.Sprintf("%s:%d:%d", e.Path, e.Line, e.Column)
	}
	if e.Tag != "" {
		return fmt.Sprintf("%s: %v: <%s>: %s", loc, ErrParse, e.Tag, e.Msg)
	}
	return fmt.Sprintf("%s: %v: %s", loc, ErrParse, e.Msg)
}

// Unwrap lets errors.Is match ErrParse.
func (e *ParseError) Unwrap() error { return ErrParse }
