package render

import (
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// urlAttrs lists the attributes holding links, per element.
var urlAttrs = map[atom.Atom]string{
	atom.A:      "href",
	atom.Img:    "src",
	atom.Source: "src",
	atom.Video:  "src",
	atom.Audio:  "src",
	atom.Link:   "href",
	atom.Script: "src",
}

// RewriteBaseURL prefixes root-relative links of an HTML fragment with base.
// Links already under base are left alone. With no base, the fragment is
// returned unchanged.
func RewriteBaseURL(fragment, base string) (string, error) {
	if base == "" || strings.TrimSpace(fragment) == "" {
		return fragment, nil
	}

	context := &html.Node{Type: html.ElementNode, DataAtom: atom.Body, Data: "body"}
	nodes, err := html.ParseFragment(strings.NewReader(fragment), context)
	if err != nil {
		return "", err
	}

	var buf strings.Builder
	for _, n := range nodes {
		rewriteNode(n, base)
		if err := html.Render(&buf, n); err != nil {
			return "", err
		}
	}
	return buf.String(), nil
}

func rewriteNode(n *html.Node, base string) {
	if n.Type == html.ElementNode {
		if key, ok := urlAttrs[n.DataAtom]; ok {
			for i, attr := range n.Attr {
				if attr.Key == key && needsBase(attr.Val, base) {
					n.Attr[i].Val = base + attr.Val
				}
			}
		}
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		rewriteNode(c, base)
	}
}

// needsBase reports whether url is root-relative and not yet under base.
// Protocol-relative URLs ("//host") are absolute.
func needsBase(url, base string) bool {
	if !strings.HasPrefix(url, "/") || strings.HasPrefix(url, "//") {
		return false
	}
	return url != base && !strings.HasPrefix(url, base+"/") && !strings.HasPrefix(url, base+"#")
}
