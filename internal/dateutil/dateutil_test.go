package dateutil

import (
	"errors"
	"strings"
	"testing"
	"time"
)

// reference is Friday 5 March 2027.
var reference = time.Date(2027, time.March, 5, 9, 4, 0, 0, time.UTC)

// ---------------------------------------------------------------------------
// TestCompile - Tokens, literals and presets
// ---------------------------------------------------------------------------

func TestCompile(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		format string
		want   string
	}{
		{"full year", "YYYY", "2027"},
		{"short year", "YY", "27"},
		{"month name", "MMMM", "March"},
		{"short month name", "MMM", "Mar"},
		{"padded month", "MM", "03"},
		{"month", "M", "3"},
		{"padded day", "DD", "05"},
		{"day", "D", "5"},
		{"separators kept", "YYYY/MM/DD", "2027/03/05"},
		{"parentheses kept", "(DD.MM.YY)", "(05.03.27)"},
		{"bare D is a token", "Due D", "5ue 5"},
		{"bracketed text", "[Due] D", "Due 5"},
		{"bracketed tokens", "[YYYY]-MM", "YYYY-03"},
		{"empty brackets", "YYYY[]MM", "202703"},
		{"first closing bracket wins", "[a[b]c", "a[bc"},
		{"layout digits stay literal", "DD.MM 15h", "05.03 15h"},
		{"layout words stay literal", "[Jan Monday PM] D", "Jan Monday PM 5"},
		{"multibyte literal", "D·M", "5·3"},
		{"iso preset", "iso", "2027-03-05"},
		{"preset case", "LONG", "March 5, 2027"},
		{"european preset", "european", "05/03/2027"},
		{"us preset", "us", "03/05/2027"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			f, err := Compile(tt.format)
			if err != nil {
				t.Fatalf("Compile(%q) error = %v", tt.format, err)
			}
			if got := f.Time(reference); got != tt.want {
				t.Errorf("Compile(%q).Time() = %q, want %q", tt.format, got, tt.want)
			}
		})
	}
}

func TestCompile_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		format string
	}{
		{"empty", ""},
		{"too long", strings.Repeat("-", MaxDateFormatLength+1)},
		{"unclosed bracket", "[Due YYYY"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if _, err := Compile(tt.format); !errors.Is(err, ErrInvalidDateFormat) {
				t.Errorf("Compile(%q) error = %v, want %v", tt.format, err, ErrInvalidDateFormat)
			}
		})
	}
}

func TestCompile_MaxLength(t *testing.T) {
	t.Parallel()

	format := strings.Repeat("-", MaxDateFormatLength)
	f, err := Compile(format)
	if err != nil {
		t.Fatalf("Compile() error = %v", err)
	}
	if got := f.Time(reference); got != format {
		t.Errorf("Time() = %q, want %q", got, format)
	}
}

// ---------------------------------------------------------------------------
// TestFormatDate - Date values
// ---------------------------------------------------------------------------

func TestFormatDate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		value   string
		format  string
		want    string
		wantErr error
	}{
		{name: "empty format passthrough", value: "2024-03-15", format: "", want: "2024-03-15"},
		{name: "empty value", value: "", format: "long", want: ""},
		{name: "long preset", value: "2024-03-15", format: "long", want: "March 15, 2024"},
		{name: "european preset", value: "2024-03-15", format: "european", want: "15/03/2024"},
		{name: "custom tokens", value: "2024-03-15", format: "MMM YYYY", want: "Mar 2024"},
		{name: "escaped literal", value: "2024-03-15", format: "[Updated] DD.MM.YY", want: "Updated 15.03.24"},
		{name: "RFC3339 input", value: "2024-03-15T10:30:00Z", format: "iso", want: "2024-03-15"},
		{name: "surrounding spaces", value: " 2024-03-15 ", format: "iso", want: "2024-03-15"},
		{name: "not a date", value: "Q1 2024", format: "iso", wantErr: ErrInvalidDate},
		{name: "invalid format", value: "2024-03-15", format: "[unclosed", wantErr: ErrInvalidDateFormat},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := FormatDate(tt.value, tt.format)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("FormatDate(%q, %q) error = %v, want %v", tt.value, tt.format, err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("FormatDate(%q, %q) error = %v", tt.value, tt.format, err)
			}
			if got != tt.want {
				t.Errorf("FormatDate(%q, %q) = %q, want %q", tt.value, tt.format, got, tt.want)
			}
		})
	}
}
