package main

import (
	"fmt"
	"io"
)

// printUsage prints the main usage message.
func printUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: codex <command> [flags] [project-dir]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  build      Publish the static site into the build directory")
	fmt.Fprintln(w, "  latex      Write the project as one LaTeX document")
	fmt.Fprintln(w, "  pdf        Write the project as one PDF")
	fmt.Fprintln(w, "  serve      Preview the site, rendering pages on request")
	fmt.Fprintln(w, "  nav        Print the navigation tree")
	fmt.Fprintln(w, "  init       Create codex.yml and index.md")
	fmt.Fprintln(w, "  eject      Copy the built-in templates and styles into the project")
	fmt.Fprintln(w, "  doctor     Check the PDF engines and the environment")
	fmt.Fprintln(w, "  version    Show version information")
	fmt.Fprintln(w, "  help       Show help for a command")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "The project directory defaults to the current directory.")
	fmt.Fprintln(w, "Run 'codex help <command>' for details on a specific command.")
}

// commandSummaries describes each command for its usage message.
var commandSummaries = map[string]string{
	"build":  "Render every article and replace the build directory with the new site.\nNothing is written if any document fails.",
	"latex":  "Render the printable articles into <build>/<name>.tex.",
	"pdf":    "Typeset <build>/<name>.pdf with a LaTeX engine, or print the HTML book\nwith headless Chrome (--engine chrome).",
	"serve":  "Serve the project without building it. Every request reloads the\nproject, so edits show up on the next page load.",
	"nav":    "Print the navigation menu as a tree.",
	"init":   "Create codex.yml and index.md in the project directory.",
	"eject":  "Copy the built-in templates, components and styles into the project.\nExisting files are kept.",
	"doctor": "Check that the PDF engine and Chrome are installed.",
}

// printCommandUsage prints usage for one command, flags included.
func printCommandUsage(w io.Writer, cmd string) {
	fmt.Fprintf(w, "Usage: codex %s [flags] [project-dir]\n", cmd)
	fmt.Fprintln(w)
	fmt.Fprintln(w, commandSummaries[cmd])
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Flags:")

	f := &commandFlags{}
	fs := newFlagSet(cmd, f, w)
	fmt.Fprint(w, fs.FlagUsages())

	switch cmd {
	case "build", "latex", "pdf":
		fmt.Fprintln(w)
		fmt.Fprintln(w, "Environment:")
		fmt.Fprintln(w, "  CODEX_WORKERS    default for --workers")
		if cmd == "pdf" {
			fmt.Fprintln(w, "  CODEX_ENGINE     default for --engine (pdflatex)")
			fmt.Fprintln(w, "  CODEX_TIMEOUT    default for --timeout")
		}
	case "serve":
		fmt.Fprintln(w)
		fmt.Fprintln(w, "Environment:")
		fmt.Fprintln(w, "  CODEX_ADDR       default for --addr")
	}
}

// runHelp prints help for a specific command.
func runHelp(args []string, env *Environment) int {
	if len(args) == 0 {
		printUsage(env.Stdout)
		return ExitSuccess
	}

	switch args[0] {
	case "version":
		fmt.Fprintln(env.Stdout, "Usage: codex version")
		fmt.Fprintln(env.Stdout)
		fmt.Fprintln(env.Stdout, "Show version information.")
	case "help":
		fmt.Fprintln(env.Stdout, "Usage: codex help [command]")
		fmt.Fprintln(env.Stdout)
		fmt.Fprintln(env.Stdout, "Show help for a command.")
	default:
		if _, ok := commandSummaries[args[0]]; !ok {
			fmt.Fprintf(env.Stderr, "Unknown command: %s\n", args[0])
			printUsage(env.Stderr)
			return ExitUsage
		}
		printCommandUsage(env.Stdout, args[0])
	}
	return ExitSuccess
}
