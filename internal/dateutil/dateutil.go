// Package dateutil formats article dates with user-friendly layouts.
//
// A format is made of tokens (YYYY, YY, MMMM, MMM, MM, M, DD, D) and literal
// text. Text inside brackets is always literal, so "[Day] D" renders as
// "Day 5". A preset name (iso, us, european, long) may stand for a format.
package dateutil

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

var (
	// ErrInvalidDateFormat indicates an invalid date format string.
	ErrInvalidDateFormat = errors.New("invalid date format")

	// ErrInvalidDate indicates a date value that is not an ISO date.
	ErrInvalidDate = errors.New("invalid date")
)

// MaxDateFormatLength limits format string length to prevent abuse.
const MaxDateFormatLength = 50

// Presets maps preset names to their formats.
var Presets = map[string]string{
	"iso":      "YYYY-MM-DD",
	"european": "DD/MM/YYYY",
	"us":       "MM/DD/YYYY",
	"long":     "MMMM D, YYYY",
}

// tokens maps format tokens to Go layout elements, longest first so that
// matching is greedy.
var tokens = []struct {
	token  string
	layout string
}{
	{"YYYY", "2006"},
	{"MMMM", "January"},
	{"MMM", "Jan"},
	{"YY", "06"},
	{"MM", "01"},
	{"DD", "02"},
	{"M", "1"},
	{"D", "2"},
}

// inputLayouts lists the accepted layouts for date values.
var inputLayouts = []string{time.DateOnly, time.RFC3339}

// part is either a Go layout element or literal text.
type part struct {
	text    string
	literal bool
}

// Format is a compiled date format. The zero value formats nothing.
type Format struct {
	parts []part
}

// Compile parses a preset name (case-insensitive) or a token format.
// It fails with ErrInvalidDateFormat when the format is empty, too long or
// has an unclosed bracket.
func Compile(format string) (Format, error) {
	if preset, ok := Presets[strings.ToLower(format)]; ok {
		format = preset
	}
	if format == "" {
		return Format{}, fmt.Errorf("%w: format cannot be empty", ErrInvalidDateFormat)
	}
	if len(format) > MaxDateFormatLength {
		return Format{}, fmt.Errorf("%w: format exceeds %d characters", ErrInvalidDateFormat, MaxDateFormatLength)
	}

	var f Format
	for i := 0; i < len(format); {
		if format[i] == '[' {
			end := strings.IndexByte(format[i+1:], ']')
			if end < 0 {
				return Format{}, fmt.Errorf("%w: unclosed bracket at position %d", ErrInvalidDateFormat, i)
			}
			f.literal(format[i+1 : i+1+end])
			i += end + 2
			continue
		}
		if tok, layout, ok := matchToken(format[i:]); ok {
			f.parts = append(f.parts, part{text: layout})
			i += len(tok)
			continue
		}
		f.literal(format[i : i+1])
		i++
	}
	return f, nil
}

func matchToken(s string) (token, layout string, ok bool) {
	for _, t := range tokens {
		if strings.HasPrefix(s, t.token) {
			return t.token, t.layout, true
		}
	}
	return "", "", false
}

// literal appends text, merging it with a preceding literal part.
func (f *Format) literal(text string) {
	if text == "" {
		return
	}
	if n := len(f.parts); n > 0 && f.parts[n-1].literal {
		f.parts[n-1].text += text
		return
	}
	f.parts = append(f.parts, part{text: text, literal: true})
}

// Time renders t. Literal text is copied as is, never interpreted as a Go
// layout element.
func (f Format) Time(t time.Time) string {
	var b strings.Builder
	for _, p := range f.parts {
		if p.literal {
			b.WriteString(p.text)
		} else {
			b.WriteString(t.Format(p.text))
		}
	}
	return b.String()
}

// Date renders an ISO date value (YYYY-MM-DD or RFC 3339).
func (f Format) Date(value string) (string, error) {
	value = strings.TrimSpace(value)
	for _, layout := range inputLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return f.Time(t), nil
		}
	}
	return "", fmt.Errorf("%w: %q (want YYYY-MM-DD)", ErrInvalidDate, value)
}

// FormatDate renders value with format. An empty format returns the value
// unchanged and an empty value returns "". The output depends only on the
// inputs, never on the current time.
func FormatDate(value, format string) (string, error) {
	value = strings.TrimSpace(value)
	if value == "" || format == "" {
		return value, nil
	}

	f, err := Compile(format)
	if err != nil {
		return "", err
	}
	return f.Date(value)
}
