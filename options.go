package codex

import (
	"io/fs"
	"log/slog"
	"time"

	"github.com/alnah/go-codex/internal/pdf"
)

// Option configures a Compiler.
type Option func(*Compiler)

// compilerConfig holds internal configuration for Compiler.
type compilerConfig struct {
	logger         *slog.Logger
	workers        int
	embedded       fs.FS
	highlightStyle string
	browserTimeout time.Duration
	getenv         func(string) string
}

// WithLogger sets the logger. The default discards everything.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Compiler) {
		c.cfg.logger = logger
	}
}

// WithWorkers sets how many articles render concurrently.
// Zero selects the default derived from GOMAXPROCS.
// Panics if n < 0 (programmer error, similar to time.NewTicker).
func WithWorkers(n int) Option {
	if n < 0 {
		panic("codex: WithWorkers count must not be negative")
	}
	return func(c *Compiler) {
		c.cfg.workers = n
	}
}

// WithEmbedded replaces the built-in default set of templates, components
// and static files. fsys is laid out like a project directory.
func WithEmbedded(fsys fs.FS) Option {
	return func(c *Compiler) {
		c.cfg.embedded = fsys
	}
}

// WithHighlightStyle selects the chroma style used for code blocks.
func WithHighlightStyle(name string) Option {
	return func(c *Compiler) {
		c.cfg.highlightStyle = name
	}
}

// WithBrowserTimeout bounds how long Chrome may take to load the book.
// Panics if d <= 0 (programmer error, similar to time.NewTicker).
func WithBrowserTimeout(d time.Duration) Option {
	if d <= 0 {
		panic("codex: WithBrowserTimeout duration must be positive")
	}
	return func(c *Compiler) {
		c.cfg.browserTimeout = d
	}
}

// WithGetenv sets the environment lookup used to configure the browser
// (ROD_BROWSER_BIN, ROD_NO_SANDBOX, CI). The default is os.Getenv.
func WithGetenv(getenv func(string) string) Option {
	return func(c *Compiler) {
		c.cfg.getenv = getenv
	}
}

// WithCommandRunner replaces how LaTeX engines are executed.
func WithCommandRunner(r pdf.CommandRunner) Option {
	return func(c *Compiler) {
		c.runner = r
	}
}

// WithPrinter replaces the headless Chrome printer used by the chrome
// engine.
func WithPrinter(p Printer) Option {
	return func(c *Compiler) {
		c.printer = p
	}
}
