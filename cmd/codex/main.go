package main

import (
	"fmt"
	"os"

	"go.uber.org/automaxprocs/maxprocs"
)

// Version is set at build time via ldflags.
var Version = "dev"

func main() {
	// Configure GOMAXPROCS before the worker count is derived from it.
	// Error ignored: maxprocs.Set only fails if GOMAXPROCS env is invalid,
	// in which case Go runtime defaults apply and the program continues safely.
	_, _ = maxprocs.Set(maxprocs.Logger(func(format string, args ...interface{}) {
		if isVerbose(os.Args) {
			fmt.Fprintf(os.Stderr, format+"\n", args...)
		}
	}))

	os.Exit(runMain(os.Args, DefaultEnv()))
}

// isVerbose reports whether --verbose or -v appears among the arguments.
func isVerbose(args []string) bool {
	for _, arg := range args {
		if arg == "--verbose" || arg == "-v" {
			return true
		}
	}
	return false
}
