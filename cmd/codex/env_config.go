package main

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"
)

// envPrefix marks the environment variables read by codex.
const envPrefix = "CODEX_"

// envConfig holds configuration from environment variables.
// Provides CI/CD-friendly overrides without requiring flags.
type envConfig struct {
	Workers int           // CODEX_WORKERS: parallel renderers
	Engine  string        // CODEX_ENGINE: PDF engine
	Timeout time.Duration // CODEX_TIMEOUT: browser page load timeout
	Addr    string        // CODEX_ADDR: preview server address
}

// knownEnvVars lists valid CODEX_* environment variables.
// Used to detect typos and warn users about unknown variables.
var knownEnvVars = map[string]bool{
	"CODEX_WORKERS": true,
	"CODEX_ENGINE":  true,
	"CODEX_TIMEOUT": true,
	"CODEX_ADDR":    true,
}

// loadEnvConfig reads configuration from environment variables.
// Malformed numbers and durations are ignored.
func loadEnvConfig(getenv func(string) string) *envConfig {
	cfg := &envConfig{
		Engine: getenv("CODEX_ENGINE"),
		Addr:   getenv("CODEX_ADDR"),
	}

	if workers := getenv("CODEX_WORKERS"); workers != "" {
		if w, err := strconv.Atoi(workers); err == nil && w > 0 {
			cfg.Workers = w
		}
	}
	if timeout := getenv("CODEX_TIMEOUT"); timeout != "" {
		if d, err := time.ParseDuration(timeout); err == nil && d > 0 {
			cfg.Timeout = d
		}
	}

	return cfg
}

// warnUnknownEnvVars prints a warning for every unrecognized CODEX_*
// variable, such as CODEX_WORKER instead of CODEX_WORKERS.
func warnUnknownEnvVars(w io.Writer, environ []string) {
	for _, env := range environ {
		name, _, _ := strings.Cut(env, "=")
		if strings.HasPrefix(name, envPrefix) && !knownEnvVars[name] {
			fmt.Fprintf(w, "warning: unknown environment variable %s (typo?)\n", name)
		}
	}
}

// applyEnvConfig fills flags the user left unset from the environment.
// Priority: CLI flags > env vars > defaults.
func applyEnvConfig(env *envConfig, f *commandFlags) {
	if env.Workers > 0 && f.workers == 0 {
		f.workers = env.Workers
	}
	if env.Engine != "" && f.engine == "" {
		f.engine = env.Engine
	}
	if env.Timeout > 0 && f.timeout == 0 {
		f.timeout = env.Timeout
	}
	if env.Addr != "" && f.addr == "" {
		f.addr = env.Addr
	}
}
