package pdf

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/alnah/go-codex/internal/process"
)

// CommandRunner abstracts command execution to enable testing without real
// subprocesses.
type CommandRunner interface {
	Run(ctx context.Context, dir, name string, args ...string) (process.Result, error)
}

// ExecRunner implements CommandRunner with internal/process.
type ExecRunner struct{}

// Run executes the command in its own process group.
func (ExecRunner) Run(ctx context.Context, dir, name string, args ...string) (process.Result, error) {
	return process.Run(ctx, dir, name, args...)
}

var _ CommandRunner = ExecRunner{}

// logTail bounds how much engine output an error carries.
const logTail = 20

// LaTeXCompiler typesets a .tex file with a LaTeX engine.
type LaTeXCompiler struct {
	Engine Engine
	Runner CommandRunner
}

// NewLaTeXCompiler returns a compiler running engine as a subprocess.
func NewLaTeXCompiler(engine Engine) *LaTeXCompiler {
	return &LaTeXCompiler{Engine: engine, Runner: ExecRunner{}}
}

// Compile typesets texPath and returns the path of the produced PDF, next to
// the source. Auxiliary files stay beside it.
func (c *LaTeXCompiler) Compile(ctx context.Context, texPath string) (string, error) {
	if !c.Engine.IsLaTeX() {
		return "", fmt.Errorf("%w: %s does not typeset LaTeX", ErrUnknownEngine, c.Engine)
	}

	dir, file := filepath.Split(texPath)
	if dir == "" {
		dir = "."
	}
	args := []string{"-interaction=nonstopmode", "-halt-on-error", file}
	if c.Engine == Tectonic {
		args = []string{"--keep-logs", file}
	}

	for pass := 0; pass < c.Engine.passes(); pass++ {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		res, err := c.Runner.Run(ctx, dir, string(c.Engine), args...)
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		if err != nil {
			return "", fmt.Errorf("%w: %s: %v\n%s", ErrPDF, c.Engine, err, tail(res.Stdout+res.Stderr, logTail))
		}
	}

	out := filepath.Join(dir, strings.TrimSuffix(file, filepath.Ext(file))+".pdf")
	if _, err := os.Stat(out); err != nil {
		return "", fmt.Errorf("%w: %s produced no %s", ErrPDFGeneration, c.Engine, filepath.Base(out))
	}
	return out, nil
}

// tail returns the last n lines of s.
func tail(s string, n int) string {
	lines := strings.Split(strings.TrimRight(s, "\n"), "\n")
	if len(lines) > n {
		lines = lines[len(lines)-n:]
	}
	return strings.Join(lines, "\n")
}
