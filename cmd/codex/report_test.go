package main

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
	"testing"

	codex "github.com/alnah/go-codex"
	"github.com/alnah/go-codex/internal/pdf"
)

func TestReportError(t *testing.T) {
	t.Parallel()

	unknown := func(doc, name string) error {
		return &codex.DocumentError{Path: doc, Err: fmt.Errorf("rendering: %w", &codex.ResolutionError{Document: doc, Component: name})}
	}

	tests := []struct {
		name    string
		err     error
		engine  pdf.Engine
		want    []string
		notWant []string
	}{
		{
			name:   "document errors",
			err:    errors.Join(unknown("a.md", "Foo"), unknown("b.md", "Foo"), unknown("c.md", "MyBox")),
			engine: pdf.PDFLaTeX,
			want: []string{
				"FAILED a.md: ",
				"FAILED c.md: ",
				"3 document(s) failed",
				"_internal/components/foo.html, _internal/components/my_box.html",
			},
		},
		{
			name: "missing input and unclosed tag",
			err: errors.Join(
				&codex.DocumentError{Path: "a.md", Err: &codex.TransformError{File: "data.csv", Component: "CsvTable", Err: codex.ErrNotFound}},
				&codex.DocumentError{Path: "b.md", Err: &codex.ParseError{Path: "b.md", Tag: "Alert", Line: 3, Column: 1, Msg: "unterminated"}},
			),
			want:    []string{"2 document(s) failed", "hint: file attributes are relative", "hint: close every component"},
			notWant: []string{"codex eject"},
		},
		{
			name:   "browser connect",
			err:    fmt.Errorf("%w: no sandbox", pdf.ErrBrowserConnect),
			engine: pdf.Chrome,
			want:   []string{"hint: set ROD_BROWSER_BIN"},
		},
		{
			name:    "config not found",
			err:     codex.ErrConfigNotFound,
			want:    []string{"Error: ", "hint: run 'codex init'"},
			notWant: []string{"FAILED"},
		},
		{
			name:   "engine not found",
			err:    fmt.Errorf("%w: xelatex", pdf.ErrEngineNotFound),
			engine: pdf.XeLaTeX,
			want:   []string{"hint: install a TeX distribution providing xelatex"},
		},
		{
			name: "write failure",
			err:  fmt.Errorf("%w: writing page", codex.ErrIO),
			want: []string{"hint: check the build_path directory is writable"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var buf bytes.Buffer
			reportError(&buf, tt.err, tt.engine, func(string) string { return "" })

			got := buf.String()
			for _, want := range tt.want {
				if !strings.Contains(got, want) {
					t.Errorf("reportError() missing %q in:\n%s", want, got)
				}
			}
			for _, notWant := range tt.notWant {
				if strings.Contains(got, notWant) {
					t.Errorf("reportError() contains %q in:\n%s", notWant, got)
				}
			}
		})
	}
}
