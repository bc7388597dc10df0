// Package texutil escapes text for LaTeX output.
package texutil

import "strings"

var escaper = strings.NewReplacer(
	`\`, `\textbackslash{}`,
	`&`, `\&`,
	`%`, `\%`,
	`$`, `\$`,
	`#`, `\#`,
	`_`, `\_`,
	`{`, `\{`,
	`}`, `\}`,
	`~`, `\textasciitilde{}`,
	`^`, `\textasciicircum{}`,
)

// Escape makes s safe to place in LaTeX running text.
func Escape(s string) string {
	return escaper.Replace(s)
}

// Label turns a document URL into a label usable with \label and \hyperref.
func Label(url string) string {
	url = strings.Trim(url, "/")
	if url == "" {
		return "sec:index"
	}
	return "sec:" + strings.NewReplacer("#", ":", "%", "", "_", "-", " ", "-").Replace(url)
}
