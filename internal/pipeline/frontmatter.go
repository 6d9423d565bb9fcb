package pipeline

import (
	"errors"
	"strings"
)

// ErrMalformedDocument indicates the document lacks the two section delimiters.
var ErrMalformedDocument = errors.New("document must contain two --- delimiters")

// sectionDelimiter separates the prefix, frontmatter and body sections.
const sectionDelimiter = "---"

// DefaultLang is the document language when no lang directive is present.
const DefaultLang = "ja"

// Kind values with special handling.
const KindArticle = "article"

// Attributes holds the page metadata read from frontmatter.
type Attributes struct {
	Lang  string
	Title string
	Kind  string
	Time  string
	Place string
}

// SlideImage is one entry of the page-top image strip.
type SlideImage struct {
	URL string
	Alt string
}

// SplitDocument returns the frontmatter and body sections of md.
// The text before the first delimiter is ignored; the body is everything
// after the second delimiter.
func SplitDocument(md string) (front, body string, err error) {
	parts := strings.SplitN(md, sectionDelimiter, 3)
	if len(parts) < 3 {
		return "", "", ErrMalformedDocument
	}
	return parts[1], parts[2], nil
}

// ParseFrontmatter scans frontmatter lines for directives.
//
// Directive prefixes are tested in a fixed order and the first match wins.
// Unknown lines are ignored. An alt directive updates the most recently
// added slide and is dropped when no slide exists yet.
func ParseFrontmatter(front string) (Attributes, []SlideImage) {
	attrs := Attributes{Lang: DefaultLang}
	var slides []SlideImage

	for _, line := range strings.Split(front, "\n") {
		switch {
		case strings.HasPrefix(line, sectionDelimiter):
			return attrs, slides
		case strings.HasPrefix(line, "lang: "):
			attrs.Lang = quotedValue(line)
		case strings.HasPrefix(line, "name: "):
			attrs.Title = quotedValue(line)
		case strings.HasPrefix(line, "type: "):
			attrs.Kind = quotedValue(line)
		case strings.HasPrefix(line, "time: "):
			attrs.Time = quotedValue(line)
		case strings.HasPrefix(line, "place: "):
			attrs.Place = quotedValue(line)
		case strings.HasPrefix(line, "image"):
			slides = append(slides, SlideImage{URL: quotedValue(line)})
		case strings.HasPrefix(line, "alt"):
			if len(slides) > 0 {
				slides[len(slides)-1].Alt = quotedValue(line)
			}
		}
	}
	return attrs, slides
}

// quotedValue returns the text strictly between the first and last double
// quote of line. Embedded quotes are not escapable, so a value containing
// '"' keeps everything up to the last one. Lines with fewer than two quotes
// yield "".
func quotedValue(line string) string {
	first := strings.IndexByte(line, '"')
	last := strings.LastIndexByte(line, '"')
	if first < 0 || last <= first {
		return ""
	}
	return line[first+1 : last]
}
