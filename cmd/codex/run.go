package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"path/filepath"
	"time"

	flag "github.com/spf13/pflag"

	codex "github.com/alnah/go-codex"
	"github.com/alnah/go-codex/internal/pdf"
)

// Sentinel errors for CLI operations.
var (
	ErrUnknownCommand     = errors.New("unknown command")
	ErrInvalidWorkerCount = errors.New("invalid worker count")
	ErrTooManyArgs        = errors.New("expected at most one project directory")
)

// shutdownTimeout bounds how long the preview server drains requests.
const shutdownTimeout = 5 * time.Second

// commandFunc runs one command against the project directory.
type commandFunc func(ctx context.Context, c *codex.Compiler, dir string, f *commandFlags, env *Environment) error

// commands maps command names to their implementation.
var commands = map[string]commandFunc{
	"build": runBuild,
	"latex": runLatex,
	"pdf":   runPDF,
	"serve": runServe,
	"nav":   runNav,
	"init":  runInit,
	"eject": runEject,
}

// runMain dispatches args to a command and returns the process exit code.
func runMain(args []string, env *Environment) int {
	if len(args) < 2 {
		printUsage(env.Stderr)
		return ExitUsage
	}

	cmd, rest := args[1], args[2:]
	switch cmd {
	case "help", "-h", "--help":
		return runHelp(rest, env)
	case "version", "--version":
		fmt.Fprintf(env.Stdout, "codex %s\n", Version)
		return ExitSuccess
	}

	f, positional, err := parseCommandFlags(cmd, rest, env.Stderr)
	if errors.Is(err, flag.ErrHelp) {
		return ExitSuccess
	}
	if errors.Is(err, ErrUnknownCommand) {
		fmt.Fprintf(env.Stderr, "Unknown command: %s\n", cmd)
		printUsage(env.Stderr)
		return ExitUsage
	}
	if err != nil {
		fmt.Fprintf(env.Stderr, "Error: %v\n", err)
		return ExitUsage
	}

	warnUnknownEnvVars(env.Stderr, env.Environ())
	applyEnvConfig(loadEnvConfig(env.Getenv), f)

	dir := "."
	if len(positional) == 1 {
		dir = positional[0]
	}

	if cmd == "doctor" {
		return runDoctorCmd(f, env)
	}

	engine, err := pdf.ParseEngine(f.engine)
	if err != nil {
		reportError(env.Stderr, err, engine, env.Getenv)
		return exitCodeFor(err)
	}

	c, err := newCompiler(f, env)
	if err != nil {
		reportError(env.Stderr, err, engine, env.Getenv)
		return exitCodeFor(err)
	}

	ctx, stop := notifyContext(context.Background())
	defer stop()

	if err := commands[cmd](ctx, c, dir, f, env); err != nil {
		if errors.Is(err, context.Canceled) {
			fmt.Fprintln(env.Stderr, "Interrupted")
			return ExitGeneral
		}
		reportError(env.Stderr, err, engine, env.Getenv)
		return exitCodeFor(err)
	}
	return ExitSuccess
}

// newLogger writes library logs to stderr: every phase at Debug with
// --verbose, warnings only otherwise.
func newLogger(f *commandFlags, env *Environment) *slog.Logger {
	level := slog.LevelWarn
	if f.common.verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(env.Stderr, &slog.HandlerOptions{Level: level}))
}

// newCompiler builds a Compiler configured from the command flags.
func newCompiler(f *commandFlags, env *Environment) (*codex.Compiler, error) {
	opts := []codex.Option{
		codex.WithLogger(newLogger(f, env)),
		codex.WithWorkers(f.workers),
		codex.WithGetenv(env.Getenv),
	}
	if f.timeout > 0 {
		opts = append(opts, codex.WithBrowserTimeout(f.timeout))
	}
	return codex.New(opts...)
}

func runBuild(ctx context.Context, c *codex.Compiler, dir string, f *commandFlags, env *Environment) error {
	start := env.Now()
	result, err := c.Build(ctx, dir)
	if err != nil {
		return err
	}
	if !f.common.quiet {
		fmt.Fprintf(env.Stdout, "Built %d pages and %d assets into %s (%v)\n",
			result.Pages, result.Assets, result.Dir, env.Now().Sub(start).Round(time.Millisecond))
	}
	return nil
}

func runLatex(ctx context.Context, c *codex.Compiler, dir string, f *commandFlags, env *Environment) error {
	out, err := c.Latex(ctx, dir)
	if err != nil {
		return err
	}
	if !f.common.quiet {
		fmt.Fprintf(env.Stdout, "Wrote %s\n", out)
	}
	return nil
}

func runPDF(ctx context.Context, c *codex.Compiler, dir string, f *commandFlags, env *Environment) error {
	engine, err := codex.ParseEngine(f.engine)
	if err != nil {
		return err
	}
	start := env.Now()
	out, err := c.PDF(ctx, dir, engine)
	if err != nil {
		return err
	}
	if !f.common.quiet {
		fmt.Fprintf(env.Stdout, "Wrote %s with %s (%v)\n", out, engine, env.Now().Sub(start).Round(time.Millisecond))
	}
	return nil
}

func runNav(_ context.Context, c *codex.Compiler, dir string, _ *commandFlags, env *Environment) error {
	tree, err := c.NavTree(dir)
	if err != nil {
		return err
	}
	fmt.Fprint(env.Stdout, tree)
	return nil
}

func runInit(_ context.Context, c *codex.Compiler, dir string, f *commandFlags, env *Environment) error {
	name := f.name
	if name == "" {
		abs, err := filepath.Abs(dir)
		if err != nil {
			return err
		}
		name = filepath.Base(abs)
	}
	written, err := c.Init(dir, name)
	if err != nil {
		return err
	}
	if !f.common.quiet {
		for _, rel := range written {
			fmt.Fprintf(env.Stdout, "Created %s\n", filepath.Join(dir, rel))
		}
	}
	return nil
}

func runEject(_ context.Context, c *codex.Compiler, dir string, f *commandFlags, env *Environment) error {
	written, err := c.Eject(dir)
	if err != nil {
		return err
	}
	if f.common.quiet {
		return nil
	}
	if len(written) == 0 {
		fmt.Fprintln(env.Stdout, "Nothing to eject: every default is already in the project")
		return nil
	}
	for _, rel := range written {
		fmt.Fprintf(env.Stdout, "Ejected %s\n", rel)
	}
	return nil
}

// runServe previews the project until ctx is canceled.
func runServe(ctx context.Context, c *codex.Compiler, dir string, f *commandFlags, env *Environment) error {
	addr := f.addr
	if addr == "" {
		addr = defaultAddr
	}
	srv := &http.Server{
		Addr:              addr,
		Handler:           c.Handler(dir),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()
	if !f.common.quiet {
		fmt.Fprintf(env.Stdout, "Serving %s at http://%s (Ctrl+C to stop)\n", dir, addr)
	}

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
