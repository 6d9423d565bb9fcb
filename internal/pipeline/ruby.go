package pipeline

import (
	"regexp"
	"strings"
)

// rubyPattern matches [base|reading] with the shortest possible span.
// The base may not contain '[', which lets "[link [kanji|kana]](url)"
// annotate only the inner span.
var rubyPattern = regexp.MustCompile(`\[[^\[]+?\|.+?\]`)

// Ruby replaces every [base|reading] span with an annotated unit.
// The split happens on the last '|' inside the brackets. Text between
// spans is copied unchanged.
func Ruby(s string) string {
	return rubyPattern.ReplaceAllStringFunc(s, func(span string) string {
		base, reading := splitRuby(span)
		return `<span data-ruby="` + reading + `">` + base + `</span>`
	})
}

// StripRuby replaces every [base|reading] span with its base text.
// It produces the plain-text page title.
func StripRuby(s string) string {
	return rubyPattern.ReplaceAllStringFunc(s, func(span string) string {
		base, _ := splitRuby(span)
		return base
	})
}

// splitRuby splits a matched "[base|reading]" span.
func splitRuby(span string) (base, reading string) {
	sep := strings.LastIndexByte(span, '|')
	return span[1:sep], span[sep+1 : len(span)-1]
}
