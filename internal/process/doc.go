// Package process manages the external programs a build starts: the LaTeX
// engine and the headless browser. Each runs in its own process group so
// that cancelling a build also stops the helpers those programs spawn.
package process
