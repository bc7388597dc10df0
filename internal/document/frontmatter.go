package document

import (
	"bytes"

	"github.com/adrg/frontmatter"

	"github.com/alnah/go-codex/internal/yamlutil"
)

// yamlFrontMatter matches a leading "---" block. Unknown keys are tolerated.
var yamlFrontMatter = frontmatter.NewFormat("---", "---", func(data []byte, v any) error {
	return yamlutil.UnmarshalOptional(data, v, false)
})

// SplitFrontMatter decodes the leading YAML block of src into v and returns
// the body that follows it, along with the number of lines the block
// occupied. A document without front matter is returned unchanged.
func SplitFrontMatter(path string, src []byte, v any) ([]byte, int, error) {
	body, err := frontmatter.Parse(bytes.NewReader(src), v, yamlFrontMatter)
	if err != nil {
		return nil, 0, &ParseError{Path: path, Line: 1, Column: 1, Msg: "front matter: " + err.Error()}
	}

	offset := 0
	if bytes.HasSuffix(src, body) {
		offset = bytes.Count(src[:len(src)-len(body)], []byte("\n"))
	}
	return body, offset, nil
}
