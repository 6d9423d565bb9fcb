package pipeline

import (
	"errors"
	"fmt"
	"maps"
	"regexp"
	"strings"
)

// Sentinel errors for localized label lookups.
var (
	ErrUnknownKind = errors.New("unknown page kind")
	ErrUnknownTime = errors.New("unknown time slot")
	ErrUnknownLang = errors.New("unknown language")
)

var (
	// Two or more newlines separate body blocks.
	blockSeparator = regexp.MustCompile(`\n{2,}`)

	// Figure blocks: ![caption](src), matched anywhere in the block.
	figurePattern = regexp.MustCompile(`!\[.+?\]\(.+?\)`)
)

// PlaceFormat renders a place label by wrapping the raw place value.
type PlaceFormat struct {
	Prefix string
	Suffix string
}

// Format returns the localized label for place.
func (p PlaceFormat) Format(place string) string {
	return p.Prefix + place + p.Suffix
}

// Labels holds the localized strings used in the page header.
// Kinds and Times are keyed by value, then by language.
type Labels struct {
	Kinds  map[string]map[string]string
	Times  map[string]map[string]string
	Places map[string]PlaceFormat
}

// Clone returns a deep copy of l.
func (l Labels) Clone() Labels {
	out := Labels{
		Kinds:  make(map[string]map[string]string, len(l.Kinds)),
		Times:  make(map[string]map[string]string, len(l.Times)),
		Places: maps.Clone(l.Places),
	}
	for k, v := range l.Kinds {
		out.Kinds[k] = maps.Clone(v)
	}
	for k, v := range l.Times {
		out.Times[k] = maps.Clone(v)
	}
	if out.Places == nil {
		out.Places = map[string]PlaceFormat{}
	}
	return out
}

func (l Labels) kind(kind, lang string) (string, error) {
	byLang, ok := l.Kinds[kind]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownKind, kind)
	}
	label, ok := byLang[lang]
	if !ok {
		return "", fmt.Errorf("%w: %q has no label for kind %q", ErrUnknownLang, lang, kind)
	}
	return label, nil
}

func (l Labels) time(slot, lang string) (string, error) {
	byLang, ok := l.Times[slot]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownTime, slot)
	}
	label, ok := byLang[lang]
	if !ok {
		return "", fmt.Errorf("%w: %q has no label for time %q", ErrUnknownLang, lang, slot)
	}
	return label, nil
}

func (l Labels) place(place, lang string) (string, error) {
	format, ok := l.Places[lang]
	if !ok {
		return "", fmt.Errorf("%w: %q has no place format", ErrUnknownLang, lang)
	}
	return format.Format(place), nil
}

// Assembler builds the article HTML from parsed sections.
// Its tables are copied at construction and only read afterwards, so one
// Assembler may be shared between goroutines.
type Assembler struct {
	labels Labels
	links  Links
}

// NewAssembler creates an Assembler owning copies of labels and links.
func NewAssembler(labels Labels, links Links) *Assembler {
	return &Assembler{
		labels: labels.Clone(),
		links:  Links(maps.Clone(links)),
	}
}

// blockKind classifies a body block.
type blockKind int

const (
	blockParagraph blockKind = iota
	blockBullet
	blockNumbered
	blockHeading2
	blockHeading3
	blockHeading4
	blockFigure
)

// listState tracks which list, if any, is currently open.
type listState int

const (
	listNone listState = iota
	listBullet
	listNumbered
)

// Assemble renders the page header, slide strip and body blocks.
// Label lookups are skipped entirely for article pages.
func (a *Assembler) Assemble(attrs Attributes, slides []SlideImage, body string) (string, error) {
	var b strings.Builder

	if err := a.writeHeader(&b, attrs); err != nil {
		return "", err
	}
	writeSlides(&b, slides)
	a.writeBody(&b, body)

	return b.String(), nil
}

// Inline runs the three text stages in order: tag escaping, ruby, links.
// Escaping comes first so generated markup is never escaped; ruby comes
// before links because link titles may carry ruby spans.
func (a *Assembler) Inline(s string) string {
	return a.links.Apply(Ruby(EscapeTags(s)))
}

func (a *Assembler) writeHeader(b *strings.Builder, attrs Attributes) error {
	isArticle := attrs.Kind == KindArticle

	b.WriteString(`<div class="page-heading">`)
	if !isArticle {
		label, err := a.labels.kind(attrs.Kind, attrs.Lang)
		if err != nil {
			return err
		}
		b.WriteString("<p>" + label + "</p>")
	}
	b.WriteString("<h1>" + Ruby(EscapeTags(attrs.Title)) + "</h1></div>")

	if isArticle {
		return nil
	}

	timeLabel, err := a.labels.time(attrs.Time, attrs.Lang)
	if err != nil {
		return err
	}
	placeLabel, err := a.labels.place(EscapeTags(attrs.Place), attrs.Lang)
	if err != nil {
		return err
	}
	b.WriteString(`<div class="chip-container">`)
	b.WriteString(`<div class="chip">` + timeLabel + `</div>`)
	b.WriteString(`<div class="chip">` + placeLabel + `</div>`)
	b.WriteString(`</div>`)
	return nil
}

func writeSlides(b *strings.Builder, slides []SlideImage) {
	if len(slides) == 0 {
		return
	}
	b.WriteString(`<div class="slide-show">`)
	for _, s := range slides {
		b.WriteString(`<img src="` + EscapeTags(s.URL) + `" alt="` + EscapeTags(s.Alt) + `">`)
	}
	b.WriteString(`</div>`)
}

// SplitBlocks splits body text into blocks on blank lines and folds the
// remaining single newlines into spaces. A lone newline at either edge of a
// block, such as the one ending the closing delimiter line, is dropped
// before folding. Blank blocks are dropped.
func SplitBlocks(body string) []string {
	var blocks []string
	for _, raw := range blockSeparator.Split(body, -1) {
		block := strings.ReplaceAll(strings.Trim(raw, "\n"), "\n", " ")
		if strings.TrimSpace(block) == "" {
			continue
		}
		blocks = append(blocks, block)
	}
	return blocks
}

func (a *Assembler) writeBody(b *strings.Builder, body string) {
	state := listNone

	for _, block := range SplitBlocks(body) {
		kind := classify(block)
		state = transition(b, state, kind)

		switch kind {
		case blockBullet, blockNumbered:
			b.WriteString("<li>" + a.Inline(markerText(block)) + "</li>")
		case blockHeading2:
			b.WriteString("<h2>" + a.Inline(markerText(block)) + "</h2>")
		case blockHeading3:
			b.WriteString("<h3>" + a.Inline(markerText(block)) + "</h3>")
		case blockHeading4:
			b.WriteString("<h4>" + a.Inline(markerText(block)) + "</h4>")
		case blockFigure:
			caption, src := figureParts(block)
			b.WriteString(`<div class="image-with-title"><img src="` + EscapeTags(src) + `">`)
			b.WriteString("<p>" + a.Inline(caption) + "</p></div>")
		default:
			b.WriteString("<p>" + a.Inline(block) + "</p>")
		}
	}

	transition(b, state, blockParagraph)
}

// classify returns the kind of block; the first matching rule wins.
func classify(block string) blockKind {
	switch {
	case strings.HasPrefix(block, "* "):
		return blockBullet
	case strings.HasPrefix(block, "1. "):
		return blockNumbered
	case strings.HasPrefix(block, "## "):
		return blockHeading2
	case strings.HasPrefix(block, "### "):
		return blockHeading3
	case strings.HasPrefix(block, "#### "):
		return blockHeading4
	case figurePattern.MatchString(block):
		return blockFigure
	default:
		return blockParagraph
	}
}

// transition emits list open/close tags needed before a block of kind next
// and returns the new list state.
func transition(b *strings.Builder, state listState, next blockKind) listState {
	want := listNone
	switch next {
	case blockBullet:
		want = listBullet
	case blockNumbered:
		want = listNumbered
	}
	if want == state {
		return state
	}

	switch state {
	case listBullet:
		b.WriteString("</ul>")
	case listNumbered:
		b.WriteString("</ol>")
	}
	switch want {
	case listBullet:
		b.WriteString("<ul>")
	case listNumbered:
		b.WriteString("<ol>")
	}
	return want
}

// markerText drops the block marker token and the space after it.
func markerText(block string) string {
	return block[strings.IndexByte(block, ' ')+1:]
}

// figureParts extracts caption and src from a figure block using the first
// "![", the first "](" after it, and the last ")".
func figureParts(block string) (caption, src string) {
	open := strings.Index(block, "![") + 2
	mid := open + strings.Index(block[open:], "](")
	end := strings.LastIndexByte(block, ')')
	return block[open:mid], block[mid+2 : end]
}
