package main

import (
	"io"
	"time"

	flag "github.com/spf13/pflag"
)

// defaultAddr is where the preview server listens unless told otherwise.
const defaultAddr = "localhost:8000"

// commonFlags holds flags shared across commands.
type commonFlags struct {
	quiet   bool
	verbose bool
}

// commandFlags holds every flag a command may define. Each command only
// registers the ones it uses.
type commandFlags struct {
	common  commonFlags
	workers int
	engine  string
	timeout time.Duration
	addr    string
	name    string
	json    bool
}

// addCommonFlags adds common flags to a FlagSet.
func addCommonFlags(fs *flag.FlagSet, f *commonFlags) {
	fs.BoolVarP(&f.quiet, "quiet", "q", false, "only show errors")
	fs.BoolVarP(&f.verbose, "verbose", "v", false, "log every compilation phase")
}

// addWorkerFlags adds the render concurrency flag to a FlagSet.
func addWorkerFlags(fs *flag.FlagSet, f *commandFlags) {
	fs.IntVarP(&f.workers, "workers", "w", 0, "parallel renderers (0 = auto)")
}

// addPDFFlags adds PDF engine flags to a FlagSet.
func addPDFFlags(fs *flag.FlagSet, f *commandFlags) {
	fs.StringVarP(&f.engine, "engine", "e", "", "PDF engine: pdflatex, xelatex, lualatex, tectonic, chrome")
	fs.DurationVarP(&f.timeout, "timeout", "t", 0, "browser page load timeout for --engine chrome (e.g., 30s, 2m)")
}

// newFlagSet returns the FlagSet of a command, or nil for unknown commands.
func newFlagSet(cmd string, f *commandFlags, usage io.Writer) *flag.FlagSet {
	fs := flag.NewFlagSet(cmd, flag.ContinueOnError)
	fs.SetOutput(usage)
	addCommonFlags(fs, &f.common)

	switch cmd {
	case "build", "latex":
		addWorkerFlags(fs, f)
	case "pdf":
		addWorkerFlags(fs, f)
		addPDFFlags(fs, f)
	case "serve":
		fs.StringVarP(&f.addr, "addr", "a", "", "listen address (default "+defaultAddr+")")
	case "init":
		fs.StringVarP(&f.name, "name", "n", "", "project name (default: directory name)")
	case "doctor":
		fs.StringVarP(&f.engine, "engine", "e", "", "PDF engine to check")
		fs.BoolVar(&f.json, "json", false, "print the report as JSON")
	case "eject", "nav":
	default:
		return nil
	}

	fs.Usage = func() { printCommandUsage(usage, cmd) }
	return fs
}

// parseCommandFlags parses the flags of cmd and returns positional args.
func parseCommandFlags(cmd string, args []string, usage io.Writer) (*commandFlags, []string, error) {
	f := &commandFlags{}
	fs := newFlagSet(cmd, f, usage)
	if fs == nil {
		return nil, nil, ErrUnknownCommand
	}
	if err := fs.Parse(args); err != nil {
		return nil, nil, err
	}
	if f.workers < 0 {
		return nil, nil, ErrInvalidWorkerCount
	}
	if len(fs.Args()) > 1 {
		return nil, nil, ErrTooManyArgs
	}
	return f, fs.Args(), nil
}
