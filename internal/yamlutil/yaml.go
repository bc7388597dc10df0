// Package yamlutil wraps YAML decoding for project configuration and front matter.
// Callers never import the YAML library directly.
package yamlutil

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/goccy/go-yaml"
)

// MaxInputSize limits YAML input to prevent memory exhaustion (default 1MB).
var MaxInputSize = 1 << 20

var (
	ErrNilData        = errors.New("yamlutil: nil or empty data")
	ErrNilDestination = errors.New("yamlutil: nil destination pointer")
	ErrInputTooLarge  = errors.New("yamlutil: input exceeds maximum size")
)

// DecodeError reports a YAML syntax or type error with its source position.
type DecodeError struct {
	// Msg is the decoder message prefixed with "[line:column]" when known.
	Msg string
	Err error
}

func (e *DecodeError) Error() string { return "yamlutil: " + e.Msg }

func (e *DecodeError) Unwrap() error { return e.Err }

func validateInput(data []byte, v any) error {
	if len(data) == 0 {
		return ErrNilData
	}
	if len(data) > MaxInputSize {
		return fmt.Errorf("%w: %d bytes (max %d)", ErrInputTooLarge, len(data), MaxInputSize)
	}
	if v == nil {
		return ErrNilDestination
	}
	return nil
}

func decodeError(err error) error {
	return &DecodeError{Msg: yaml.FormatError(err, false, false), Err: err}
}

// Unmarshal decodes data into v, ignoring unknown keys.
func Unmarshal(data []byte, v any) error {
	if err := validateInput(data, v); err != nil {
		return err
	}
	if err := yaml.Unmarshal(data, v); err != nil {
		return decodeError(err)
	}
	return nil
}

// UnmarshalStrict rejects unknown fields in the input.
func UnmarshalStrict(data []byte, v any) error {
	if err := validateInput(data, v); err != nil {
		return err
	}
	if err := yaml.UnmarshalWithOptions(data, v, yaml.Strict()); err != nil {
		return decodeError(err)
	}
	return nil
}

// UnmarshalOptional behaves like Unmarshal (or UnmarshalStrict when strict is set)
// but treats blank input as an empty document and leaves v untouched.
func UnmarshalOptional(data []byte, v any, strict bool) error {
	if len(bytes.TrimSpace(data)) == 0 {
		if v == nil {
			return ErrNilDestination
		}
		return nil
	}
	if strict {
		return UnmarshalStrict(data, v)
	}
	return Unmarshal(data, v)
}

// Marshal encodes v as YAML.
func Marshal(v any) ([]byte, error) {
	result, err := yaml.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("yamlutil: %w", err)
	}
	return result, nil
}
