package document

import (
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func parse(t *testing.T, src string) []Node {
	t.Helper()
	nodes, err := NewParser().Parse("guide/page.md", []byte(src), 0)
	if err != nil {
		t.Fatalf("Parse() unexpected error: %v", err)
	}
	return nodes
}

// ---------------------------------------------------------------------------
// TestParse_Markdown - Standard constructs
// ---------------------------------------------------------------------------

func TestParse_Markdown(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		src  string
		want []Node
	}{
		{
			name: "heading and paragraph",
			src:  "# Hello World\n\nSome *text*.\n",
			want: []Node{
				&Heading{Level: 1, Children: []Node{&Text{Value: "Hello World"}}, Anchor: "hello-world"},
				&Paragraph{Children: []Node{
					&Text{Value: "Some "},
					&Emphasis{Children: []Node{&Text{Value: "text"}}},
					&Text{Value: "."},
				}},
			},
		},
		{
			name: "fenced code keeps tags literal",
			src:  "```html\n<Foo>\n```\n",
			want: []Node{&CodeBlock{Lang: "html", Text: "<Foo>\n"}},
		},
		{
			name: "fence title",
			src:  "```go title=\"main.go\"\npackage main\n```\n",
			want: []Node{&CodeBlock{Lang: "go", Title: "main.go", Text: "package main\n"}},
		},
		{
			name: "code span keeps tags literal",
			src:  "Use `<Foo/>` here\n",
			want: []Node{&Paragraph{Children: []Node{
				&Text{Value: "Use "},
				&InlineCode{Code: "<Foo/>"},
				&Text{Value: " here"},
			}}},
		},
		{
			name: "lowercase html is text",
			src:  "<div>hi</div>\n",
			want: []Node{&Paragraph{Children: []Node{&Text{Value: "<div>hi</div>"}}}},
		},
		{
			name: "indented text is not code",
			src:  "    indented prose\n",
			want: []Node{&Paragraph{Children: []Node{&Text{Value: "indented prose"}}}},
		},
		{
			name: "strikethrough and strong",
			src:  "~~old~~ **new**\n",
			want: []Node{&Paragraph{Children: []Node{
				&Strikethrough{Children: []Node{&Text{Value: "old"}}},
				&Text{Value: " "},
				&Strong{Children: []Node{&Text{Value: "new"}}},
			}}},
		},
		{
			name: "link",
			src:  "[Docs](/guide/intro \"Intro\")\n",
			want: []Node{&Paragraph{Children: []Node{
				&Link{URL: "/guide/intro", Title: "Intro", Children: []Node{&Text{Value: "Docs"}}},
			}}},
		},
		{
			name: "uppercase scheme autolink is not a tag",
			src:  "See <HTTPS://example.com>\n",
			want: []Node{&Paragraph{Children: []Node{
				&Text{Value: "See "},
				&Link{URL: "HTTPS://example.com", Children: []Node{&Text{Value: "HTTPS://example.com"}}},
			}}},
		},
		{
			name: "capitalized email autolink is not a tag",
			src:  "<Ann@example.com>\n",
			want: []Node{&Paragraph{Children: []Node{
				&Link{URL: "mailto:Ann@example.com", Children: []Node{&Text{Value: "Ann@example.com"}}},
			}}},
		},
		{
			name: "thematic break",
			src:  "---\n",
			want: []Node{&ThematicBreak{}},
		},
		{
			name: "empty",
			src:  "\n\n",
			want: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := parse(t, tt.src)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("Parse() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestParse_Lists(t *testing.T) {
	t.Parallel()

	t.Run("task list", func(t *testing.T) {
		t.Parallel()

		nodes := parse(t, "- [x] done\n- [ ] todo\n")
		if len(nodes) != 1 {
			t.Fatalf("len(nodes) = %d, want 1", len(nodes))
		}
		list, ok := nodes[0].(*List)
		if !ok {
			t.Fatalf("nodes[0] = %T, want *List", nodes[0])
		}
		if list.Kind != ListTask {
			t.Errorf("Kind = %v, want %v", list.Kind, ListTask)
		}
		if len(list.Items) != 2 {
			t.Fatalf("len(Items) = %d, want 2", len(list.Items))
		}
		if c := list.Items[0].Checked; c == nil || !*c {
			t.Errorf("Items[0].Checked = %v, want true", c)
		}
		if c := list.Items[1].Checked; c == nil || *c {
			t.Errorf("Items[1].Checked = %v, want false", c)
		}
		if got := PlainText(list.Items[1].Children); got != "todo" {
			t.Errorf("Items[1] text = %q, want %q", got, "todo")
		}
	})

	t.Run("ordered list nests structurally", func(t *testing.T) {
		t.Parallel()

		nodes := parse(t, "3. one\n   - inner\n4. two\n")
		list := nodes[0].(*List)
		if list.Kind != ListOrdered || list.Start != 3 {
			t.Errorf("list = {Kind: %v, Start: %d}, want {ordered, 3}", list.Kind, list.Start)
		}
		var nested *List
		for _, c := range list.Items[0].Children {
			if l, ok := c.(*List); ok {
				nested = l
			}
		}
		if nested == nil || nested.Kind != ListBullet || len(nested.Items) != 1 {
			t.Errorf("nested list = %+v, want one bullet item", nested)
		}
	})
}

func TestParse_Table(t *testing.T) {
	t.Parallel()

	nodes := parse(t, "| a | b |\n|---|:-:|\n| 1 | **2** |\n| 3 | 4 |\n")
	table, ok := nodes[0].(*Table)
	if !ok {
		t.Fatalf("nodes[0] = %T, want *Table", nodes[0])
	}
	if diff := cmp.Diff([]Alignment{AlignNone, AlignCenter}, table.Align); diff != "" {
		t.Errorf("Align mismatch (-want +got):\n%s", diff)
	}
	if len(table.Header) != 2 || len(table.Rows) != 2 {
		t.Fatalf("table has %d header cells and %d rows, want 2 and 2", len(table.Header), len(table.Rows))
	}
	if _, ok := table.Rows[0][1].Children[0].(*Strong); !ok {
		t.Errorf("cell [0][1] = %T, want inline-parsed *Strong", table.Rows[0][1].Children[0])
	}
}

// ---------------------------------------------------------------------------
// TestParse_Components - Tag stack
// ---------------------------------------------------------------------------

func TestParse_Components(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		src  string
		want []Node
	}{
		{
			name: "block component with markdown body",
			src:  "<Alert style=\"info\">\n  Hello **world**\n</Alert>\n",
			want: []Node{&Component{
				Name:  "Alert",
				Attrs: map[string]string{"style": "info"},
				Children: []Node{&Paragraph{Children: []Node{
					&Text{Value: "Hello "},
					&Strong{Children: []Node{&Text{Value: "world"}}},
				}}},
				Line: 1,
			}},
		},
		{
			name: "self-closing with bare and single-quoted attributes",
			src:  "<Field name='id' required/>\n",
			want: []Node{&Component{
				Name:        "Field",
				Attrs:       map[string]string{"name": "id", "required": "true"},
				SelfClosing: true,
				Line:        1,
			}},
		},
		{
			name: "multi-line attribute value",
			src:  "<Alert title=\"first\nsecond\" style=\"warning\"/>\n",
			want: []Node{&Component{
				Name:        "Alert",
				Attrs:       map[string]string{"title": "first\nsecond", "style": "warning"},
				SelfClosing: true,
				Line:        1,
			}},
		},
		{
			name: "nested components",
			src:  "<Collapse title=\"More\">\n  <Alert style=\"danger\">\n    inner\n  </Alert>\n</Collapse>\n",
			want: []Node{&Component{
				Name:  "Collapse",
				Attrs: map[string]string{"title": "More"},
				Children: []Node{&Component{
					Name:     "Alert",
					Attrs:    map[string]string{"style": "danger"},
					Children: []Node{&Paragraph{Children: []Node{&Text{Value: "inner"}}}},
					Line:     2,
				}},
				Line: 1,
			}},
		},
		{
			name: "inline component merges into paragraph",
			src:  "See <Badge text=\"new\"/> here.\n",
			want: []Node{&Paragraph{Children: []Node{
				&Text{Value: "See "},
				&Component{
					Name:        "Badge",
					Attrs:       map[string]string{"text": "new"},
					SelfClosing: true,
					Inline:      true,
					Line:        1,
				},
				&Text{Value: " here."},
			}}},
		},
		{
			name: "closing tag inside fence is ignored",
			src:  "<Collapse title=\"x\">\n```\n</Collapse>\n```\n</Collapse>\n",
			want: []Node{&Component{
				Name:     "Collapse",
				Attrs:    map[string]string{"title": "x"},
				Children: []Node{&CodeBlock{Text: "</Collapse>\n"}},
				Line:     1,
			}},
		},
		{
			name: "escaped tag stays text",
			src:  "\\<Foo/> is literal\n",
			want: []Node{&Paragraph{Children: []Node{&Text{Value: "<Foo/> is literal"}}}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := parse(t, tt.src)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("Parse() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestParse_ComponentChildrenMatchReparse(t *testing.T) {
	t.Parallel()

	body := "## Inside\n\n- a\n- b\n\nText with <Badge text=\"x\"/> inline.\n"
	wrapped := parse(t, "<Collapse title=\"t\">\n"+body+"</Collapse>\n")
	alone := parse(t, body)

	comp, ok := wrapped[0].(*Component)
	if !ok {
		t.Fatalf("wrapped[0] = %T, want *Component", wrapped[0])
	}
	// Line numbers differ by the opening tag line.
	ignoreLine := cmp.FilterPath(func(p cmp.Path) bool {
		return p.Last().String() == ".Line"
	}, cmp.Ignore())
	if diff := cmp.Diff(alone, comp.Children, ignoreLine); diff != "" {
		t.Errorf("children differ from standalone parse (-alone +children):\n%s", diff)
	}
}

func TestParse_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		src      string
		offset   int
		wantTag  string
		wantLine int
		wantMsg  string
	}{
		{"mismatched close", "<A>\n<B>\n</A>\n</B>\n", 0, "A", 3, "does not match <B>"},
		{"stray close", "text\n</A>\n", 0, "A", 2, "no matching opening tag"},
		{"unterminated", "intro\n<A>\nbody\n", 0, "A", 2, "never closed"},
		{"unterminated nested", "<A>\n<B>\n</B>\n", 0, "A", 1, "never closed"},
		{"unterminated opening tag", "<A title=\"x\"", 0, "A", 1, "not terminated"},
		{"unterminated attribute value", "<A title=\"x>\n", 0, "A", 1, "not terminated"},
		{"unquoted value", "<A title=x/>\n", 0, "A", 1, "must be quoted"},
		{"duplicate attribute", "<A a=\"1\" a=\"2\"/>\n", 0, "A", 1, "duplicate attribute"},
		{"line offset applied", "</A>\n", 4, "A", 5, "no matching opening tag"},
		{"component in table cell", "| a | b |\n|---|---|\n| <Badge text=\"x\"/> | y |\n", 0, "Badge", 3, "not supported in table cells"},
		{"component in table header", "<Badge/> | b\n---|---\n1 | 2\n", 0, "Badge", 1, "not supported in table cells"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := NewParser().Parse("guide/page.md", []byte(tt.src), tt.offset)
			if !errors.Is(err, ErrParse) {
				t.Fatalf("Parse() error = %v, want ErrParse", err)
			}
			var pe *ParseError
			if !errors.As(err, &pe) {
				t.Fatalf("Parse() error type = %T, want *ParseError", err)
			}
			if pe.Tag != tt.wantTag || pe.Line != tt.wantLine {
				t.Errorf("ParseError{Tag: %q, Line: %d}, want {Tag: %q, Line: %d}", pe.Tag, pe.Line, tt.wantTag, tt.wantLine)
			}
			if pe.Path != "guide/page.md" {
				t.Errorf("Path = %q, want %q", pe.Path, "guide/page.md")
			}
			if !strings.Contains(pe.Msg, tt.wantMsg) {
				t.Errorf("Msg = %q, want to contain %q", pe.Msg, tt.wantMsg)
			}
		})
	}
}

func TestParse_PipeOutsideTable(t *testing.T) {
	t.Parallel()

	nodes := parse(t, "a | b <Badge text=\"x\"/>\n\n| c |\n")
	p, ok := nodes[0].(*Paragraph)
	if !ok {
		t.Fatalf("nodes[0] = %T, want *Paragraph", nodes[0])
	}
	if _, ok := p.Children[len(p.Children)-1].(*Component); !ok {
		t.Errorf("last child = %T, want inline *Component", p.Children[len(p.Children)-1])
	}
}

func TestParse_DeepNestingIsIterative(t *testing.T) {
	t.Parallel()

	const depth = 2000
	var b strings.Builder
	for range depth {
		b.WriteString("<A>")
	}
	b.WriteString("</B>")

	_, err := NewParser().Parse("deep.md", []byte(b.String()), 0)
	if !errors.Is(err, ErrParse) {
		t.Fatalf("Parse() error = %v, want ErrParse", err)
	}
}

// ---------------------------------------------------------------------------
// TestSplitFrontMatter - Leading YAML block
// ---------------------------------------------------------------------------

func TestSplitFrontMatter(t *testing.T) {
	t.Parallel()

	type meta struct {
		Title *string `yaml:"title"`
	}

	t.Run("with front matter", func(t *testing.T) {
		t.Parallel()

		var m meta
		body, offset, err := SplitFrontMatter("a.md", []byte("---\ntitle: Hi\nextra: 1\n---\n# Body\n"), &m)
		if err != nil {
			t.Fatalf("SplitFrontMatter() error = %v", err)
		}
		if m.Title == nil || *m.Title != "Hi" {
			t.Errorf("Title = %v, want %q", m.Title, "Hi")
		}
		if strings.TrimSpace(string(body)) != "# Body" {
			t.Errorf("body = %q, want %q", body, "# Body\n")
		}
		if offset != 4 {
			t.Errorf("offset = %d, want 4", offset)
		}
	})

	t.Run("without front matter", func(t *testing.T) {
		t.Parallel()

		var m meta
		src := "# Only body\n"
		body, offset, err := SplitFrontMatter("a.md", []byte(src), &m)
		if err != nil {
			t.Fatalf("SplitFrontMatter() error = %v", err)
		}
		if string(body) != src || offset != 0 || m.Title != nil {
			t.Errorf("SplitFrontMatter() = (%q, %d, %+v), want body unchanged", body, offset, m)
		}
	})

	t.Run("invalid yaml", func(t *testing.T) {
		t.Parallel()

		var m meta
		_, _, err := SplitFrontMatter("a.md", []byte("---\ntitle: [\n---\nbody\n"), &m)
		if !errors.Is(err, ErrParse) {
			t.Errorf("SplitFrontMatter() error = %v, want ErrParse", err)
		}
	})
}
