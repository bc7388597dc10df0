package yamlutil_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/alnah/go-codex/internal/yamlutil"
)

type testProject struct {
	Name     string   `yaml:"name"`
	Position *int     `yaml:"menu_position"`
	Exclude  *bool    `yaml:"menu_exclude"`
	Tags     []string `yaml:"tags"`
}

// ---------------------------------------------------------------------------
// TestUnmarshal - Lenient decoding (front matter)
// ---------------------------------------------------------------------------

func TestUnmarshal(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		data    []byte
		dest    any
		wantErr error
		check   func(t *testing.T, v any)
	}{
		{
			name: "valid YAML",
			data: []byte("name: Guide\nmenu_position: -1\ntags: [a, b]"),
			dest: &testProject{},
			check: func(t *testing.T, v any) {
				p := v.(*testProject)
				if p.Name != "Guide" {
					t.Errorf("Name = %q, want %q", p.Name, "Guide")
				}
				if p.Position == nil || *p.Position != -1 {
					t.Errorf("Position = %v, want -1", p.Position)
				}
				if len(p.Tags) != 2 || p.Tags[0] != "a" || p.Tags[1] != "b" {
					t.Errorf("Tags = %v, want [a b]", p.Tags)
				}
			},
		},
		{
			name: "omitted pointer fields stay nil",
			data: []byte("name: Guide"),
			dest: &testProject{},
			check: func(t *testing.T, v any) {
				p := v.(*testProject)
				if p.Position != nil || p.Exclude != nil {
					t.Errorf("Position = %v, Exclude = %v, want both nil", p.Position, p.Exclude)
				}
			},
		},
		{
			name: "unknown keys ignored",
			data: []byte("name: Guide\nlayout: wide"),
			dest: &testProject{},
			check: func(t *testing.T, v any) {
				if v.(*testProject).Name != "Guide" {
					t.Error("known field not decoded")
				}
			},
		},
		{
			name:    "nil data",
			data:    nil,
			dest:    &testProject{},
			wantErr: yamlutil.ErrNilData,
		},
		{
			name:    "nil destination",
			data:    []byte("name: test"),
			dest:    nil,
			wantErr: yamlutil.ErrNilDestination,
		},
		{
			name:    "invalid YAML syntax",
			data:    []byte("name: [unclosed"),
			dest:    &testProject{},
			wantErr: errors.New("yamlutil:"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := yamlutil.Unmarshal(tt.data, tt.dest)
			if tt.wantErr != nil {
				if err == nil {
					t.Fatalf("expected error containing %q, got nil", tt.wantErr)
				}
				if errors.Is(err, tt.wantErr) {
					return
				}
				if !strings.Contains(err.Error(), tt.wantErr.Error()) {
					t.Fatalf("error = %q, want containing %q", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if tt.check != nil {
				tt.check(t, tt.dest)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// TestUnmarshalStrict - Rejects unknown fields (codex.yml, group.yml)
// ---------------------------------------------------------------------------

func TestUnmarshalStrict(t *testing.T) {
	t.Parallel()

	t.Run("known fields", func(t *testing.T) {
		t.Parallel()

		var p testProject
		if err := yamlutil.UnmarshalStrict([]byte("name: strict"), &p); err != nil {
			t.Fatalf("UnmarshalStrict() error = %v", err)
		}
		if p.Name != "strict" {
			t.Errorf("Name = %q, want %q", p.Name, "strict")
		}
	})

	t.Run("unknown field is a decode error", func(t *testing.T) {
		t.Parallel()

		var p testProject
		err := yamlutil.UnmarshalStrict([]byte("name: x\nproject_page: y"), &p)
		var decErr *yamlutil.DecodeError
		if !errors.As(err, &decErr) {
			t.Fatalf("UnmarshalStrict() error = %v, want *DecodeError", err)
		}
		if !strings.HasPrefix(err.Error(), "yamlutil:") {
			t.Errorf("error = %q, want prefix 'yamlutil:'", err)
		}
	})

	t.Run("type mismatch unwraps to decoder error", func(t *testing.T) {
		t.Parallel()

		var p testProject
		err := yamlutil.UnmarshalStrict([]byte("name: x\nmenu_position: high"), &p)
		var decErr *yamlutil.DecodeError
		if !errors.As(err, &decErr) {
			t.Fatalf("UnmarshalStrict() error = %v, want *DecodeError", err)
		}
		if decErr.Unwrap() == nil {
			t.Error("DecodeError.Unwrap() = nil, want decoder error")
		}
	})
}

// ---------------------------------------------------------------------------
// TestUnmarshalOptional - Blank documents are empty overrides
// ---------------------------------------------------------------------------

func TestUnmarshalOptional(t *testing.T) {
	t.Parallel()

	for _, data := range [][]byte{nil, {}, []byte("  \n\t\n")} {
		p := testProject{Name: "kept"}
		if err := yamlutil.UnmarshalOptional(data, &p, true); err != nil {
			t.Errorf("UnmarshalOptional(%q) error = %v", data, err)
		}
		if p.Name != "kept" {
			t.Errorf("UnmarshalOptional(%q) changed destination: %+v", data, p)
		}
	}

	var p testProject
	if err := yamlutil.UnmarshalOptional([]byte("name: x\nother: 1"), &p, true); err == nil {
		t.Error("UnmarshalOptional(strict) accepted unknown field")
	}
	if err := yamlutil.UnmarshalOptional([]byte("name: x\nother: 1"), &p, false); err != nil {
		t.Errorf("UnmarshalOptional(lenient) error = %v", err)
	}
	if err := yamlutil.UnmarshalOptional(nil, nil, false); !errors.Is(err, yamlutil.ErrNilDestination) {
		t.Errorf("UnmarshalOptional(nil dest) error = %v, want ErrNilDestination", err)
	}
}

// ---------------------------------------------------------------------------
// TestMarshal - Scaffolded configuration output
// ---------------------------------------------------------------------------

func TestMarshal(t *testing.T) {
	t.Parallel()

	data, err := yamlutil.Marshal(struct {
		Name      string `yaml:"name"`
		BuildPath string `yaml:"build_path,omitempty"`
	}{Name: "Demo"})
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	if got := strings.TrimSpace(string(data)); got != "name: Demo" {
		t.Errorf("Marshal() = %q, want %q", got, "name: Demo")
	}
}

// ---------------------------------------------------------------------------
// TestInputSizeLimit - Verifies MaxInputSize enforcement
// ---------------------------------------------------------------------------

// Note: This test modifies the global MaxInputSize variable, so it cannot
// run in parallel with other tests to avoid data races.

func TestInputSizeLimit(t *testing.T) {
	originalMax := yamlutil.MaxInputSize
	t.Cleanup(func() { yamlutil.MaxInputSize = originalMax })

	t.Run("input exceeding limit fails", func(t *testing.T) {
		yamlutil.MaxInputSize = 100
		data := make([]byte, 101)
		copy(data, []byte("name: x"))
		var p testProject
		err := yamlutil.Unmarshal(data, &p)
		if !errors.Is(err, yamlutil.ErrInputTooLarge) {
			t.Errorf("errors.Is(err, ErrInputTooLarge) = false, got: %v", err)
		}
	})

	t.Run("error message includes sizes", func(t *testing.T) {
		yamlutil.MaxInputSize = 50
		var p testProject
		err := yamlutil.UnmarshalStrict(make([]byte, 100), &p)
		if err == nil {
			t.Fatal("expected error, got nil")
		}
		if msg := err.Error(); !strings.Contains(msg, "100 bytes") || !strings.Contains(msg, "max 50") {
			t.Errorf("error should contain sizes, got: %s", msg)
		}
	})
}
