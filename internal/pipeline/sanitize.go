package pipeline

import "strings"

// lineBreakTag is the only markup authors may write by hand.
const lineBreakTag = "<br>"

var angleEscaper = strings.NewReplacer("<", "&lt;", ">", "&gt;")

// EscapeTags escapes every < and > in s except those forming a literal <br>.
// Each segment between <br> markers is escaped on its own and the markers
// are put back verbatim, so a <br> is never turned into entities.
// Other characters, including &, pass through untouched.
func EscapeTags(s string) string {
	if !strings.ContainsAny(s, "<>") {
		return s
	}
	segments := strings.Split(s, lineBreakTag)
	for i, seg := range segments {
		segments[i] = angleEscaper.Replace(seg)
	}
	return strings.Join(segments, lineBreakTag)
}
