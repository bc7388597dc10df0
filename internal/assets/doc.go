// Package assets resolves project files against an embedded default set.
//
// # Virtual Paths
//
// Every file a project touches is addressed by a Path: the project root plus a
// slash-separated path relative to it. A Path never carries an absolute disk
// location beyond its root, so the same Path identifies a file whether it is
// satisfied from disk or from the embedded defaults.
//
// # Resolution
//
// The Resolver layers two sources:
//
//	Resolver
//	    │
//	    ├── disk      - the project directory (wins when both exist)
//	    └── embedded  - default templates, components and static files
//
// Call sites never ask where a file lives; they call Read and get bytes back
// together with the Source that satisfied them.
//
// # Directory Structure
//
// The embedded set mirrors the layout a project uses to override it:
//
//	{root}/
//	├── _internal/
//	│   ├── components/
//	│   │   └── {name}.html|.tex   # component templates
//	│   └── templates/
//	│       └── {name}             # page, navigation and LaTeX templates
//	└── static/
//	    └── ...                    # copied verbatim into the build
//
// # Security
//
// Relative paths are validated to stay under the root. Disk reads resolve
// symlinks and verify the real path is still contained in the root.
package assets
