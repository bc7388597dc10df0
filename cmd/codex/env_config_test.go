package main

import (
	"bytes"
	"strings"
	"testing"
	"time"
)

// mapEnv returns a getenv function backed by vars.
func mapEnv(vars map[string]string) func(string) string {
	return func(key string) string { return vars[key] }
}

// ---------------------------------------------------------------------------
// TestLoadEnvConfig - Environment variable loading
// ---------------------------------------------------------------------------

func TestLoadEnvConfig(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		vars map[string]string
		want envConfig
	}{
		{
			name: "empty",
			vars: map[string]string{},
			want: envConfig{},
		},
		{
			name: "all set",
			vars: map[string]string{
				"CODEX_WORKERS": "4",
				"CODEX_ENGINE":  "xelatex",
				"CODEX_TIMEOUT": "2m",
				"CODEX_ADDR":    ":9000",
			},
			want: envConfig{Workers: 4, Engine: "xelatex", Timeout: 2 * time.Minute, Addr: ":9000"},
		},
		{
			name: "malformed numbers ignored",
			vars: map[string]string{
				"CODEX_WORKERS": "many",
				"CODEX_TIMEOUT": "soon",
			},
			want: envConfig{},
		},
		{
			name: "non-positive numbers ignored",
			vars: map[string]string{
				"CODEX_WORKERS": "-2",
				"CODEX_TIMEOUT": "-1s",
			},
			want: envConfig{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := loadEnvConfig(mapEnv(tt.vars))
			if *got != tt.want {
				t.Errorf("loadEnvConfig() = %+v, want %+v", *got, tt.want)
			}
		})
	}
}

func TestWarnUnknownEnvVars(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	warnUnknownEnvVars(&buf, []string{
		"CODEX_WORKERS=2",
		"CODEX_WORKER=2",
		"HOME=/root",
		"CODEX_ENGIN=xelatex",
	})

	got := buf.String()
	for _, want := range []string{"CODEX_WORKER ", "CODEX_ENGIN "} {
		if !strings.Contains(got, want) {
			t.Errorf("warnings missing %q in:\n%s", want, got)
		}
	}
	if strings.Contains(got, "CODEX_WORKERS") || strings.Contains(got, "HOME") {
		t.Errorf("warned about a known or foreign variable:\n%s", got)
	}
}

func TestApplyEnvConfig(t *testing.T) {
	t.Parallel()

	env := &envConfig{Workers: 4, Engine: "tectonic", Timeout: time.Minute, Addr: ":9000"}

	t.Run("fills unset flags", func(t *testing.T) {
		t.Parallel()

		f := &commandFlags{}
		applyEnvConfig(env, f)
		if f.workers != 4 || f.engine != "tectonic" || f.timeout != time.Minute || f.addr != ":9000" {
			t.Errorf("applyEnvConfig() = %+v, want env values", *f)
		}
	})

	t.Run("flags win", func(t *testing.T) {
		t.Parallel()

		f := &commandFlags{workers: 1, engine: "chrome", timeout: time.Second, addr: ":1"}
		applyEnvConfig(env, f)
		if f.workers != 1 || f.engine != "chrome" || f.timeout != time.Second || f.addr != ":1" {
			t.Errorf("applyEnvConfig() = %+v, want flag values kept", *f)
		}
	})
}
