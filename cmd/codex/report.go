package main

import (
	"errors"
	"fmt"
	"io"
	"slices"

	codex "github.com/alnah/go-codex"
	"github.com/alnah/go-codex/internal/component"
	"github.com/alnah/go-codex/internal/hints"
	"github.com/alnah/go-codex/internal/pdf"
)

// reportError prints err for the user: one FAILED line per offending
// document, or the error itself, followed by actionable hints.
func reportError(w io.Writer, err error, engine pdf.Engine, getenv hints.Getenv) {
	docs := codex.DocumentErrors(err)
	if len(docs) == 0 {
		fmt.Fprintf(w, "Error: %v%s\n", err, hintFor(err, engine, getenv))
		return
	}

	for _, de := range docs {
		fmt.Fprintf(w, "FAILED %s: %v\n", de.Path, de.Err)
	}
	fmt.Fprintf(w, "%d document(s) failed%s\n", len(docs), hintForDocuments(docs))
}

// hintFor returns hints for whole-project failures.
func hintFor(err error, engine pdf.Engine, getenv hints.Getenv) string {
	switch {
	case errors.Is(err, codex.ErrConfigNotFound):
		return hints.ForConfigNotFound()
	case errors.Is(err, pdf.ErrEngineNotFound):
		return hints.ForEngineNotFound(string(engine))
	case errors.Is(err, pdf.ErrBrowserConnect):
		return hints.ForBrowserConnect(getenv)
	case errors.Is(err, codex.ErrIO):
		return hints.ForOutputDirectory()
	}
	return ""
}

// hintForDocuments suggests fixes for the document failures: where the
// templates of unknown components would be looked up, how component files
// are resolved and how tags are closed. Each hint appears once.
func hintForDocuments(docs []*codex.DocumentError) string {
	var (
		files                  []string
		missingInput, unclosed bool
	)
	for _, de := range docs {
		var (
			re *codex.ResolutionError
			pe *codex.ParseError
		)
		switch {
		case errors.As(de.Err, &re):
			file := component.TemplatePath(re.Component, component.HTML)
			if !slices.Contains(files, file) {
				files = append(files, file)
			}
		case errors.Is(de.Err, codex.ErrTransform) && errors.Is(de.Err, codex.ErrNotFound):
			missingInput = true
		case errors.As(de.Err, &pe) && pe.Tag != "":
			unclosed = true
		}
	}

	out := hints.ForUnknownComponents(files)
	if missingInput {
		out += hints.ForMissingInput()
	}
	if unclosed {
		out += hints.ForUnclosedTag()
	}
	return out
}
