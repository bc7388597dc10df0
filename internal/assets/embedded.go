package assets

import (
	"embed"
	"io/fs"
	"sync"
)

//go:embed all:defaults
var defaults embed.FS

// Defaults returns the built-in asset set, rooted like a project directory.
// The table is built once per process and never mutated.
var Defaults = sync.OnceValue(func() fs.FS {
	sub, err := fs.Sub(defaults, "defaults")
	if err != nil {
		// fs.Sub only fails on an invalid directory name, which is a constant here
		panic(err)
	}
	return sub
})
