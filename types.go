package eventpage

import (
	"maps"

	"github.com/alnah/go-eventpage/internal/pipeline"
)

// Kind is the page category declared by the type directive.
type Kind string

// Known page kinds. Article pages carry no kind label or chips.
const (
	KindBooth   Kind = "booth"
	KindShow    Kind = "show"
	KindAtelier Kind = "atelier"
	KindArticle Kind = "article"
)

// TimeSlot is the opening-hours category declared by the time directive.
type TimeSlot string

// Known time slots.
const (
	TimeAlways    TimeSlot = "always"
	TimeScheduled TimeSlot = "scheduled"
)

// Attributes holds the page metadata read from frontmatter.
// Values are kept verbatim; they are checked only when labels are looked up.
type Attributes struct {
	Lang  string
	Title string // raw, may contain ruby spans
	Kind  Kind
	Time  TimeSlot
	Place string
}

// SlideImage is one entry of the page-top image strip.
type SlideImage struct {
	URL string
	Alt string
}

// Result is the output of one conversion.
type Result struct {
	// Title is plain text with ruby annotations removed.
	Title string
	// Article is an HTML fragment for the page's content container.
	Article string

	Attributes Attributes
	Slides     []SlideImage
}

// PlaceFormat renders a localized place label around the raw place value,
// e.g. Suffix "教室" turns "104" into "104教室".
type PlaceFormat struct {
	Prefix string `yaml:"prefix"`
	Suffix string `yaml:"suffix"`
}

// Labels holds the localized strings used in the page header.
// Kinds and Times are keyed by value, then by language code.
type Labels struct {
	Kinds  map[Kind]map[string]string
	Times  map[TimeSlot]map[string]string
	Places map[string]PlaceFormat
}

// LinkTemplates maps symbolic link targets to URLs.
// An empty URL makes the target be used literally.
type LinkTemplates map[string]string

// Link template keys recognized in [title](key) spans.
const (
	LinkTop       = "top"
	LinkTimetable = "timetable"
	LinkRoom1     = "room1"
	LinkRoom2     = "room2"
)

// DefaultLabels returns the built-in Japanese and English labels.
func DefaultLabels() Labels {
	return Labels{
		Kinds: map[Kind]map[string]string{
			KindBooth:   {"ja": "ブース発表", "en": "Booth Exhibit"},
			KindShow:    {"ja": "サイエンスショー", "en": "Science Show"},
			KindAtelier: {"ja": "科学工作（アトリエ）", "en": "Craft Workshop"},
			KindArticle: {"ja": "", "en": ""},
		},
		Times: map[TimeSlot]map[string]string{
			TimeAlways:    {"ja": "常時開催", "en": "Always Open"},
			TimeScheduled: {"ja": "タイムテーブル", "en": "See Timetable"},
		},
		Places: map[string]PlaceFormat{
			"ja": {Suffix: "教室"},
			"en": {Prefix: "Room "},
		},
	}
}

// DefaultLinkTemplates returns the built-in link table. Only top is bound;
// the others fall back to their literal key until configured.
func DefaultLinkTemplates() LinkTemplates {
	return LinkTemplates{
		LinkTop:       "/",
		LinkTimetable: "",
		LinkRoom1:     "",
		LinkRoom2:     "",
	}
}

// Merge returns a copy of l with every entry of override applied on top.
func (l Labels) Merge(override Labels) Labels {
	out := Labels{
		Kinds:  make(map[Kind]map[string]string, len(l.Kinds)),
		Times:  make(map[TimeSlot]map[string]string, len(l.Times)),
		Places: maps.Clone(l.Places),
	}
	if out.Places == nil {
		out.Places = make(map[string]PlaceFormat)
	}
	for k, v := range l.Kinds {
		out.Kinds[k] = maps.Clone(v)
	}
	for k, v := range l.Times {
		out.Times[k] = maps.Clone(v)
	}

	for k, byLang := range override.Kinds {
		if out.Kinds[k] == nil {
			out.Kinds[k] = make(map[string]string, len(byLang))
		}
		maps.Copy(out.Kinds[k], byLang)
	}
	for k, byLang := range override.Times {
		if out.Times[k] == nil {
			out.Times[k] = make(map[string]string, len(byLang))
		}
		maps.Copy(out.Times[k], byLang)
	}
	maps.Copy(out.Places, override.Places)
	return out
}

// toPipelineLabels converts public labels to the pipeline representation.
func toPipelineLabels(l Labels) pipeline.Labels {
	out := pipeline.Labels{
		Kinds:  make(map[string]map[string]string, len(l.Kinds)),
		Times:  make(map[string]map[string]string, len(l.Times)),
		Places: make(map[string]pipeline.PlaceFormat, len(l.Places)),
	}
	for k, v := range l.Kinds {
		out.Kinds[string(k)] = v
	}
	for k, v := range l.Times {
		out.Times[string(k)] = v
	}
	for lang, f := range l.Places {
		out.Places[lang] = pipeline.PlaceFormat(f)
	}
	return out
}

func fromPipelineAttributes(a pipeline.Attributes) Attributes {
	return Attributes{
		Lang:  a.Lang,
		Title: a.Title,
		Kind:  Kind(a.Kind),
		Time:  TimeSlot(a.Time),
		Place: a.Place,
	}
}

func fromPipelineSlides(slides []pipeline.SlideImage) []SlideImage {
	if len(slides) == 0 {
		return nil
	}
	out := make([]SlideImage, len(slides))
	for i, s := range slides {
		out[i] = SlideImage(s)
	}
	return out
}
