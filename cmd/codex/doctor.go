package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/alnah/go-codex/internal/hints"
	"github.com/alnah/go-codex/internal/pdf"
)

// doctorResult holds all diagnostic information.
type doctorResult struct {
	Status   string       `json:"status"` // "ready", "warnings", "errors"
	Engine   string       `json:"engine"`
	Engines  []engineInfo `json:"engines"`
	Chrome   chromeInfo   `json:"chrome"`
	Env      envInfo      `json:"environment"`
	System   systemInfo   `json:"system"`
	Warnings []string     `json:"warnings,omitempty"`
	Errors   []string     `json:"errors,omitempty"`
}

// engineInfo holds LaTeX engine detection results.
type engineInfo struct {
	Name  string `json:"name"`
	Found bool   `json:"found"`
	Path  string `json:"path,omitempty"`
}

// chromeInfo holds Chrome/Chromium detection results.
type chromeInfo struct {
	Found   bool   `json:"found"`
	Path    string `json:"path,omitempty"`
	Version string `json:"version,omitempty"`
	Sandbox bool   `json:"sandbox"`
}

// envInfo holds environment detection results.
type envInfo struct {
	OS            string `json:"os"`
	Arch          string `json:"arch"`
	Container     bool   `json:"container"`
	ContainerHint string `json:"container_hint,omitempty"`
	CI            bool   `json:"ci"`
	NoSandbox     string `json:"rod_no_sandbox"`
	BrowserBin    string `json:"rod_browser_bin"`
}

// systemInfo holds system check results.
type systemInfo struct {
	TempWritable bool `json:"temp_writable"`
}

// lookupFunc locates the executable of an engine.
type lookupFunc func(pdf.Engine, func(string) string) (string, error)

// runDoctorCmd executes the doctor command and returns an exit code.
// Exit codes: 0 = OK (including warnings), 5 = the selected engine is
// missing, 1 = other errors.
func runDoctorCmd(f *commandFlags, env *Environment) int {
	engine, err := pdf.ParseEngine(f.engine)
	if err != nil {
		fmt.Fprintf(env.Stderr, "Error: %v\n", err)
		return ExitUsage
	}

	result := runDoctor(engine, env.Getenv, pdf.LookPath)

	if f.json {
		enc := json.NewEncoder(env.Stdout)
		enc.SetIndent("", "  ")
		_ = enc.Encode(result)
	} else {
		printDoctorResult(env.Stdout, result)
	}

	switch {
	case result.Status != "errors":
		return ExitSuccess
	case !engineFound(result, engine):
		return ExitPDF
	default:
		return ExitGeneral
	}
}

// runDoctor performs all diagnostic checks for the selected engine.
func runDoctor(engine pdf.Engine, getenv func(string) string, lookup lookupFunc) *doctorResult {
	result := &doctorResult{
		Status: "ready",
		Engine: string(engine),
		Env: envInfo{
			OS:         runtime.GOOS,
			Arch:       runtime.GOARCH,
			NoSandbox:  getenv("ROD_NO_SANDBOX"),
			BrowserBin: getenv("ROD_BROWSER_BIN"),
		},
	}

	checkEngines(result, engine, getenv, lookup)
	checkChrome(result, engine, getenv, lookup)
	checkEnvironment(result, getenv)
	checkSystem(result)

	// Determine final status
	if len(result.Errors) > 0 {
		result.Status = "errors"
	} else if len(result.Warnings) > 0 {
		result.Status = "warnings"
	}

	return result
}

// checkEngines detects every LaTeX engine. Only the selected one is required.
func checkEngines(result *doctorResult, selected pdf.Engine, getenv func(string) string, lookup lookupFunc) {
	for _, e := range pdf.Engines {
		if !e.IsLaTeX() {
			continue
		}
		info := engineInfo{Name: string(e)}
		if path, err := lookup(e, getenv); err == nil {
			info.Found, info.Path = true, path
		} else if e == selected {
			result.Errors = append(result.Errors,
				fmt.Sprintf("%s not found in PATH.%s", e, hints.ForEngineNotFound(string(e))))
		}
		result.Engines = append(result.Engines, info)
	}
}

// checkChrome detects Chrome/Chromium. It is required for the chrome engine
// and optional otherwise.
func checkChrome(result *doctorResult, selected pdf.Engine, getenv func(string) string, lookup lookupFunc) {
	chromePath, err := lookup(pdf.Chrome, getenv)
	if err != nil {
		msg := "Chrome/Chromium not found. Install Chrome or set ROD_BROWSER_BIN"
		if selected == pdf.Chrome {
			result.Errors = append(result.Errors, msg)
		} else {
			result.Warnings = append(result.Warnings, msg+" to use --engine chrome")
		}
		return
	}

	// Verify it exists
	if _, err := os.Stat(chromePath); err != nil {
		result.Errors = append(result.Errors,
			fmt.Sprintf("Chrome not found at %s", chromePath))
		return
	}

	result.Chrome.Found = true
	result.Chrome.Path = chromePath

	// Get version by running chrome --version
	out, err := exec.Command(chromePath, "--version").Output() // #nosec G204 -- path from ROD_BROWSER_BIN or rod's lookup
	if err == nil {
		result.Chrome.Version = strings.TrimSpace(string(out))
	} else {
		result.Warnings = append(result.Warnings,
			fmt.Sprintf("Could not get Chrome version: %v", err))
	}

	// Sandbox status: disabled if ROD_NO_SANDBOX=1
	result.Chrome.Sandbox = result.Env.NoSandbox != "1"
}

// checkEnvironment detects container and CI environments.
func checkEnvironment(result *doctorResult, getenv func(string) string) {
	result.Env.ContainerHint = hints.ContainerSignal(getenv)
	result.Env.Container = result.Env.ContainerHint != ""
	result.Env.CI = hints.InCI(getenv)

	// Warn if container/CI without sandbox disabled
	if result.Chrome.Found && (result.Env.Container || result.Env.CI) && result.Env.NoSandbox != "1" {
		result.Warnings = append(result.Warnings,
			"Container/CI detected but ROD_NO_SANDBOX not set. Set ROD_NO_SANDBOX=1")
	}
}

// checkSystem verifies the temp directory used for engine runs is writable.
func checkSystem(result *doctorResult) {
	tmpDir := os.TempDir()
	testFile := filepath.Join(tmpDir, "codex-doctor-test")
	if err := os.WriteFile(testFile, []byte("test"), 0o600); err != nil {
		result.Errors = append(result.Errors,
			fmt.Sprintf("Temp directory not writable: %s", tmpDir))
	} else {
		_ = os.Remove(testFile)
		result.System.TempWritable = true
	}
}

// engineFound reports whether the selected engine was located.
func engineFound(r *doctorResult, engine pdf.Engine) bool {
	if engine == pdf.Chrome {
		return r.Chrome.Found
	}
	for _, e := range r.Engines {
		if e.Name == string(engine) {
			return e.Found
		}
	}
	return false
}

// printDoctorResult outputs human-readable diagnostic results.
func printDoctorResult(w io.Writer, r *doctorResult) {
	fmt.Fprintln(w, "codex doctor")
	fmt.Fprintln(w)

	fmt.Fprintln(w, "LaTeX engines")
	for _, e := range r.Engines {
		marker := ""
		if e.Name == r.Engine {
			marker = " (selected)"
		}
		if e.Found {
			fmt.Fprintf(w, "  [OK] %s%s: %s\n", e.Name, marker, e.Path)
		} else {
			fmt.Fprintf(w, "  [--] %s%s: not found\n", e.Name, marker)
		}
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Chrome/Chromium")
	if r.Chrome.Found {
		fmt.Fprintf(w, "  [OK] Found at %s\n", r.Chrome.Path)
		if r.Chrome.Version != "" {
			fmt.Fprintf(w, "  [OK] Version: %s\n", r.Chrome.Version)
		}
		if r.Chrome.Sandbox {
			fmt.Fprintln(w, "  [OK] Sandbox: enabled")
		} else {
			fmt.Fprintln(w, "  [OK] Sandbox: disabled (ROD_NO_SANDBOX=1)")
		}
	} else {
		fmt.Fprintln(w, "  [--] Not found")
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Environment")
	fmt.Fprintf(w, "  [OK] Platform: %s/%s\n", r.Env.OS, r.Env.Arch)
	if r.Env.Container {
		fmt.Fprintf(w, "  [OK] Container: detected (%s)\n", r.Env.ContainerHint)
	}
	if r.Env.CI {
		fmt.Fprintln(w, "  [OK] CI: detected")
	}
	if r.System.TempWritable {
		fmt.Fprintln(w, "  [OK] Temp directory: writable")
	} else {
		fmt.Fprintln(w, "  [ERROR] Temp directory: not writable")
	}
	fmt.Fprintln(w)

	if len(r.Warnings) > 0 {
		fmt.Fprintln(w, "Warnings:")
		for _, warn := range r.Warnings {
			fmt.Fprintf(w, "  [WARN] %s\n", warn)
		}
		fmt.Fprintln(w)
	}

	if len(r.Errors) > 0 {
		fmt.Fprintln(w, "Errors:")
		for _, err := range r.Errors {
			fmt.Fprintf(w, "  [ERROR] %s\n", err)
		}
		fmt.Fprintln(w)
	}

	switch r.Status {
	case "ready":
		fmt.Fprintf(w, "Status: Ready to compile with %s\n", r.Engine)
	case "warnings":
		fmt.Fprintf(w, "Status: Ready to compile with %s, with warnings\n", r.Engine)
	case "errors":
		fmt.Fprintln(w, "Status: Not ready (see errors above)")
	}
}
