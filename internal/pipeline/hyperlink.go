package pipeline

import (
	"regexp"
	"strings"
)

// linkPattern matches [title](target) with the shortest possible span.
var linkPattern = regexp.MustCompile(`\[.+?\]\(.+?\)`)

// Links maps symbolic link targets to concrete URLs.
// An empty URL means "use the target literally".
type Links map[string]string

// Resolve returns the href for target.
func (l Links) Resolve(target string) string {
	if href := l[target]; href != "" {
		return href
	}
	return target
}

// Apply replaces every [title](target) span in s with an anchor.
// The split happens on the last "](" inside the span. Titles are inserted
// as they are; they have already been escaped and ruby-annotated.
func (l Links) Apply(s string) string {
	return linkPattern.ReplaceAllStringFunc(s, func(span string) string {
		sep := strings.LastIndex(span, "](")
		title := span[1:sep]
		target := span[sep+2 : len(span)-1]
		return `<a href="` + l.Resolve(target) + `">` + title + `</a>`
	})
}
