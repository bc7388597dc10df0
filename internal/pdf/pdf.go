// Package pdf turns an emitted LaTeX document or an HTML book into a PDF.
package pdf

import (
	"errors"
	"fmt"
	"os/exec"
	"slices"
	"strings"

	"github.com/go-rod/rod/lib/launcher"
)

// Engine names a PDF backend.
type Engine string

// Supported engines. Chrome prints the HTML book; the others typeset the
// LaTeX document.
const (
	PDFLaTeX Engine = "pdflatex"
	XeLaTeX  Engine = "xelatex"
	LuaLaTeX Engine = "lualatex"
	Tectonic Engine = "tectonic"
	Chrome   Engine = "chrome"
)

// DefaultEngine is used when no engine is configured.
const DefaultEngine = PDFLaTeX

// Engines lists every supported engine.
var Engines = []Engine{PDFLaTeX, XeLaTeX, LuaLaTeX, Tectonic, Chrome}

// ErrPDF is the kind shared by every PDF engine failure.
var ErrPDF = errors.New("PDF engine failed")

// Sentinel errors for PDF generation.
var (
	ErrUnknownEngine  = fmt.Errorf("%w: unknown engine", ErrPDF)
	ErrEngineNotFound = fmt.Errorf("%w: engine not found", ErrPDF)
	ErrBrowserConnect = fmt.Errorf("%w: failed to connect to browser", ErrPDF)
	ErrPageLoad       = fmt.Errorf("%w: failed to load page", ErrPDF)
	ErrPDFGeneration  = fmt.Errorf("%w: PDF generation failed", ErrPDF)
)

// ParseEngine validates an engine name. Case and surrounding spaces are
// ignored; the empty string selects DefaultEngine.
func ParseEngine(name string) (Engine, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		return DefaultEngine, nil
	}
	e := Engine(name)
	if !slices.Contains(Engines, e) {
		return "", fmt.Errorf("%w %q (want one of %s)", ErrUnknownEngine, name, engineList())
	}
	return e, nil
}

func engineList() string {
	names := make([]string, len(Engines))
	for i, e := range Engines {
		names[i] = string(e)
	}
	return strings.Join(names, ", ")
}

// IsLaTeX reports whether the engine typesets the LaTeX document.
func (e Engine) IsLaTeX() bool {
	return e != Chrome
}

// passes is how many times the engine runs so the table of contents and
// cross references resolve. Tectonic reruns on its own.
func (e Engine) passes() int {
	if e == Tectonic {
		return 1
	}
	return 2
}

// LookPath finds the engine's executable. For Chrome, ROD_BROWSER_BIN takes
// precedence over the browsers rod knows about.
func LookPath(e Engine, getenv func(string) string) (string, error) {
	if e == Chrome {
		if bin := getenv("ROD_BROWSER_BIN"); bin != "" {
			return bin, nil
		}
		if path, found := launcher.LookPath(); found {
			return path, nil
		}
		return "", fmt.Errorf("%w: chrome", ErrEngineNotFound)
	}
	path, err := exec.LookPath(string(e))
	if err != nil {
		return "", fmt.Errorf("%w: %s", ErrEngineNotFound, e)
	}
	return path, nil
}
