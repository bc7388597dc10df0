package main

import (
	"errors"
	"io"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	flag "github.com/spf13/pflag"
)

func TestParseCommandFlags(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name           string
		cmd            string
		args           []string
		want           commandFlags
		wantPositional []string
		wantErr        error
	}{
		{
			name:           "build defaults",
			cmd:            "build",
			args:           []string{},
			wantPositional: []string{},
		},
		{
			name:           "build with workers and dir",
			cmd:            "build",
			args:           []string{"-w", "3", "--verbose", "docs"},
			want:           commandFlags{workers: 3, common: commonFlags{verbose: true}},
			wantPositional: []string{"docs"},
		},
		{
			name:           "pdf engine and timeout",
			cmd:            "pdf",
			args:           []string{"--engine", "chrome", "--timeout", "90s", "-q"},
			want:           commandFlags{engine: "chrome", timeout: 90 * time.Second, common: commonFlags{quiet: true}},
			wantPositional: []string{},
		},
		{
			name:           "serve address",
			cmd:            "serve",
			args:           []string{"--addr", ":9000", "site"},
			want:           commandFlags{addr: ":9000"},
			wantPositional: []string{"site"},
		},
		{
			name:           "init name",
			cmd:            "init",
			args:           []string{"-n", "Handbook"},
			want:           commandFlags{name: "Handbook"},
			wantPositional: []string{},
		},
		{
			name:           "doctor json",
			cmd:            "doctor",
			args:           []string{"--json", "-e", "xelatex"},
			want:           commandFlags{json: true, engine: "xelatex"},
			wantPositional: []string{},
		},
		{
			name:    "engine is a pdf flag only",
			cmd:     "build",
			args:    []string{"--engine", "xelatex"},
			wantErr: errors.New("unknown flag: --engine"),
		},
		{
			name:    "negative workers",
			cmd:     "latex",
			args:    []string{"--workers=-2"},
			wantErr: ErrInvalidWorkerCount,
		},
		{
			name:    "too many args",
			cmd:     "nav",
			args:    []string{"a", "b"},
			wantErr: ErrTooManyArgs,
		},
		{
			name:    "unknown command",
			cmd:     "publish",
			wantErr: ErrUnknownCommand,
		},
		{
			name:    "help",
			cmd:     "eject",
			args:    []string{"--help"},
			wantErr: flag.ErrHelp,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, positional, err := parseCommandFlags(tt.cmd, tt.args, io.Discard)
			if tt.wantErr != nil {
				if err == nil {
					t.Fatalf("parseCommandFlags() error = nil, want %v", tt.wantErr)
				}
				if !errors.Is(err, tt.wantErr) && err.Error() != tt.wantErr.Error() {
					t.Errorf("parseCommandFlags() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("parseCommandFlags() error = %v", err)
			}
			if diff := cmp.Diff(tt.want, *got, cmp.AllowUnexported(commandFlags{}, commonFlags{})); diff != "" {
				t.Errorf("parseCommandFlags() flags mismatch (-want +got):\n%s", diff)
			}
			if diff := cmp.Diff(tt.wantPositional, positional); diff != "" {
				t.Errorf("parseCommandFlags() positional mismatch (-want +got):\n%s", diff)
			}
		})
	}
}
