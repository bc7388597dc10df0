// Package codex compiles a directory of extended markdown into a static
// documentation site, a LaTeX document or a PDF.
//
// # Quick Start
//
// Create a compiler and build the project in a directory:
//
//	c, err := codex.New()
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	result, err := c.Build(ctx, "docs")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(result.Pages, "pages written to", result.Dir)
//
// # Project Layout
//
// A project is a directory holding codex.yml and markdown files:
//
//	docs/
//	├── codex.yml          # name, build_path, base_url, date_format...
//	├── index.md           # the landing page, served at "/"
//	├── overview/
//	│   ├── group.yml      # optional: name, menu_position, menu_exclude
//	│   └── getting-started.md
//	├── static/            # copied verbatim into the site
//	└── _internal/         # optional template and component overrides
//
// Every directory becomes a menu group and every markdown file an article.
// Files under _internal/ and static/ shadow the built-in defaults with the
// same relative path. Run Eject to copy the defaults into a project.
//
// # Components
//
// Markdown may embed component tags. Tags nest and their bodies are
// markdown:
//
//	<Alert style="warning" title="Careful">
//	  Read the <Badge text="beta"/> notes first.
//	</Alert>
//
// Built-in components are Alert, Badge, Collapse, Field, CodeFile,
// CsvTable, JsonSchemaFields and JsonSchemaExample. A project adds its own
// by placing a template named after the component in snake_case under
// _internal/components/, with the .html extension for the site and .tex
// for LaTeX.
//
// # Outputs
//
// Build publishes one index.html per article URL, the static files and
// 404.html. The build directory is replaced only once every page
// rendered, so a failed build leaves the previous site in place.
//
// Latex and PDF emit a single document named after the project. PDF runs
// a LaTeX engine, or prints the HTML book through headless Chrome:
//
//	path, err := c.PDF(ctx, "docs", codex.EngineXeLaTeX)
//
// # Error Handling
//
// Problems with configuration abort the compilation immediately. Problems
// inside documents are collected: the returned error joins one
// *DocumentError per offending file, ordered by path.
//
//	_, err := c.Build(ctx, "docs")
//	for _, de := range codex.DocumentErrors(err) {
//	    fmt.Println("FAILED", de.Path, de.Err)
//	}
//	if errors.Is(err, codex.ErrUnknownComponent) {
//	    // at least one document used a component that does not exist
//	}
//
// # Preview
//
// Handler serves a project without building it, rendering each requested
// page on the fly:
//
//	http.ListenAndServe("localhost:8000", c.Handler("docs"))
package codex
