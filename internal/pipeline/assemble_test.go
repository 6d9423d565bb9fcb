package pipeline

// Notes:
// - Structural assertions parse the produced fragment with x/net/html and
//   query it with cascadia selectors; exact-string checks are used where the
//   byte layout itself is the contract (list open/close order)
// - Labels used here are the built-in Japanese/English tables of the root
//   package, duplicated to keep this package free of upward imports

import (
	"errors"
	"strings"
	"testing"

	"github.com/andybalholm/cascadia"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// ---------------------------------------------------------------------------
// Test Infrastructure
// ---------------------------------------------------------------------------

func testLabels() Labels {
	return Labels{
		Kinds: map[string]map[string]string{
			"booth":   {"ja": "ブース発表", "en": "Booth Exhibit"},
			"show":    {"ja": "サイエンスショー", "en": "Science Show"},
			"atelier": {"ja": "科学工作（アトリエ）", "en": "Craft Workshop"},
			"article": {"ja": "", "en": ""},
		},
		Times: map[string]map[string]string{
			"always":    {"ja": "常時開催", "en": "Always Open"},
			"scheduled": {"ja": "タイムテーブル", "en": "See Timetable"},
		},
		Places: map[string]PlaceFormat{
			"ja": {Suffix: "教室"},
			"en": {Prefix: "Room "},
		},
	}
}

func testAssembler() *Assembler {
	return NewAssembler(testLabels(), Links{"top": "/", "timetable": "", "room1": "", "room2": ""})
}

func boothAttrs() Attributes {
	return Attributes{Lang: "ja", Title: "企画", Kind: "booth", Time: "always", Place: "104"}
}

func parseFragment(t *testing.T, fragment string) *html.Node {
	t.Helper()

	body := &html.Node{Type: html.ElementNode, DataAtom: atom.Body, Data: "body"}
	nodes, err := html.ParseFragment(strings.NewReader(fragment), body)
	if err != nil {
		t.Fatalf("parsing fragment: %v", err)
	}
	root := &html.Node{Type: html.DocumentNode}
	for _, n := range nodes {
		root.AppendChild(n)
	}
	return root
}

func selectAll(root *html.Node, selector string) []*html.Node {
	return cascadia.MustCompile(selector).MatchAll(root)
}

func textOf(n *html.Node) string {
	var b strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			b.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return b.String()
}

func attrOf(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

// ---------------------------------------------------------------------------
// TestSplitBlocks - Blank-line blocks and soft wraps
// ---------------------------------------------------------------------------

func TestSplitBlocks(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		body string
		want []string
	}{
		{"leading blank dropped", "\n\na\n\nb", []string{"a", "b"}},
		{"soft wrap joined", "\n\nline one\nline two", []string{"line one line two"}},
		{"many newlines one boundary", "a\n\n\n\nb", []string{"a", "b"}},
		{"br kept", "a<br>\nb", []string{"a<br> b"}},
		{"trailing blank dropped", "a\n\n", []string{"a"}},
		{"whitespace-only block dropped", "a\n\n   \n\nb", []string{"a", "b"}},
		{"empty body", "", nil},
		{"single leading newline trimmed", "\n## a\nb", []string{"## a b"}},
		{"trailing newline trimmed", "a\n", []string{"a"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := SplitBlocks(tt.body)
			if len(got) != len(tt.want) {
				t.Fatalf("SplitBlocks(%q) = %q, want %q", tt.body, got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("block %d = %q, want %q", i, got[i], tt.want[i])
				}
			}
		})
	}
}

// ---------------------------------------------------------------------------
// TestAssemble_Header - Heading, chips and slides
// ---------------------------------------------------------------------------

func TestAssemble_Header(t *testing.T) {
	t.Parallel()

	a := testAssembler()
	attrs := boothAttrs()
	attrs.Title = "[企画|きかく]名"

	out, err := a.Assemble(attrs, nil, "")
	if err != nil {
		t.Fatalf("Assemble() error = %v", err)
	}

	wantPrefix := `<div class="page-heading"><p>ブース発表</p><h1><span data-ruby="きかく">企画</span>名</h1></div>` +
		`<div class="chip-container"><div class="chip">常時開催</div><div class="chip">104教室</div></div>`
	if out != wantPrefix {
		t.Errorf("Assemble() =\n%s\nwant\n%s", out, wantPrefix)
	}
}

func TestAssemble_English(t *testing.T) {
	t.Parallel()

	attrs := Attributes{Lang: "en", Title: "Slime Lab", Kind: "atelier", Time: "scheduled", Place: "3F"}
	out, err := testAssembler().Assemble(attrs, nil, "")
	if err != nil {
		t.Fatalf("Assemble() error = %v", err)
	}

	root := parseFragment(t, out)
	if got := textOf(selectAll(root, ".page-heading p")[0]); got != "Craft Workshop" {
		t.Errorf("kind label = %q, want %q", got, "Craft Workshop")
	}
	chips := selectAll(root, ".chip-container .chip")
	if len(chips) != 2 {
		t.Fatalf("got %d chips, want 2", len(chips))
	}
	if got := textOf(chips[0]); got != "See Timetable" {
		t.Errorf("time chip = %q, want %q", got, "See Timetable")
	}
	if got := textOf(chips[1]); got != "Room 3F" {
		t.Errorf("place chip = %q, want %q", got, "Room 3F")
	}
}

func TestAssemble_ArticleKind(t *testing.T) {
	t.Parallel()

	// Unknown lang and empty time are never looked up for article pages.
	attrs := Attributes{Lang: "fr", Title: "お知らせ", Kind: "article"}
	out, err := testAssembler().Assemble(attrs, nil, "\n\n本文")
	if err != nil {
		t.Fatalf("Assemble() error = %v", err)
	}

	want := `<div class="page-heading"><h1>お知らせ</h1></div><p>本文</p>`
	if out != want {
		t.Errorf("Assemble() = %q, want %q", out, want)
	}
}

func TestAssemble_Slides(t *testing.T) {
	t.Parallel()

	slides := []SlideImage{
		{URL: "./cover.png", Alt: "cover"},
		{URL: "./b.jpg"},
	}
	out, err := testAssembler().Assemble(boothAttrs(), slides, "")
	if err != nil {
		t.Fatalf("Assemble() error = %v", err)
	}

	want := `<div class="slide-show"><img src="./cover.png" alt="cover"><img src="./b.jpg" alt=""></div>`
	if !strings.HasSuffix(out, want) {
		t.Errorf("Assemble() = %q, want suffix %q", out, want)
	}
}

func TestAssemble_HeaderEscaping(t *testing.T) {
	t.Parallel()

	attrs := boothAttrs()
	attrs.Title = "<b>太字</b>"
	attrs.Place = "<i>1</i>"

	out, err := testAssembler().Assemble(attrs, nil, "")
	if err != nil {
		t.Fatalf("Assemble() error = %v", err)
	}
	for _, want := range []string{"&lt;b&gt;太字&lt;/b&gt;", "&lt;i&gt;1&lt;/i&gt;教室"} {
		if !strings.Contains(out, want) {
			t.Errorf("Assemble() = %q, want to contain %q", out, want)
		}
	}
}

// ---------------------------------------------------------------------------
// TestAssemble_LookupErrors - Unknown enumeration values
// ---------------------------------------------------------------------------

func TestAssemble_LookupErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		mutate  func(*Attributes)
		wantErr error
	}{
		{"unknown kind", func(a *Attributes) { a.Kind = "lecture" }, ErrUnknownKind},
		{"missing kind", func(a *Attributes) { a.Kind = "" }, ErrUnknownKind},
		{"unknown time", func(a *Attributes) { a.Time = "sometimes" }, ErrUnknownTime},
		{"missing time", func(a *Attributes) { a.Time = "" }, ErrUnknownTime},
		{"unknown lang", func(a *Attributes) { a.Lang = "fr" }, ErrUnknownLang},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			attrs := boothAttrs()
			tt.mutate(&attrs)
			out, err := testAssembler().Assemble(attrs, nil, "\n\nbody")
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("Assemble() error = %v, want %v", err, tt.wantErr)
			}
			if out != "" {
				t.Errorf("Assemble() returned partial output %q", out)
			}
		})
	}
}

func TestAssemble_PlaceFormatMissing(t *testing.T) {
	t.Parallel()

	labels := testLabels()
	labels.Kinds["booth"]["de"] = "Stand"
	labels.Times["always"]["de"] = "Immer"
	a := NewAssembler(labels, nil)

	attrs := boothAttrs()
	attrs.Lang = "de"
	if _, err := a.Assemble(attrs, nil, ""); !errors.Is(err, ErrUnknownLang) {
		t.Errorf("Assemble() error = %v, want ErrUnknownLang", err)
	}
}

func TestNewAssembler_CopiesTables(t *testing.T) {
	t.Parallel()

	labels := testLabels()
	links := Links{"top": "/"}
	a := NewAssembler(labels, links)

	labels.Kinds["booth"]["ja"] = "changed"
	labels.Places["ja"] = PlaceFormat{Suffix: "号室"}
	links["top"] = "/changed"

	out, err := a.Assemble(boothAttrs(), nil, "\n\n[Top](top)")
	if err != nil {
		t.Fatalf("Assemble() error = %v", err)
	}
	for _, want := range []string{"ブース発表", "104教室", `<a href="/">Top</a>`} {
		if !strings.Contains(out, want) {
			t.Errorf("Assemble() = %q, want to contain %q", out, want)
		}
	}
}

// ---------------------------------------------------------------------------
// TestAssemble_Blocks - Block classification
// ---------------------------------------------------------------------------

func TestAssemble_Blocks(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		body string
		want string
	}{
		{
			name: "paragraph",
			body: "\n\nこんにちは",
			want: "<p>こんにちは</p>",
		},
		{
			name: "heading 2 keeps ruby",
			body: "\n\n## [話題|わだい]",
			want: `<h2><span data-ruby="わだい">話題</span></h2>`,
		},
		{
			name: "heading 3",
			body: "\n\n### コラムの話題1",
			want: "<h3>コラムの話題1</h3>",
		},
		{
			name: "heading 4",
			body: "\n\n#### 小見出し",
			want: "<h4>小見出し</h4>",
		},
		{
			name: "heading marker needs space",
			body: "\n\n##見出し",
			want: "<p>##見出し</p>",
		},
		{
			name: "five hashes is a paragraph",
			body: "\n\n##### deep",
			want: "<p>##### deep</p>",
		},
		{
			name: "figure with ruby caption",
			body: "\n\n![[画像|がぞう]の解説](./img.png)",
			want: `<div class="image-with-title"><img src="./img.png"><p><span data-ruby="がぞう">画像</span>の解説</p></div>`,
		},
		{
			name: "link with ruby title",
			body: "\n\n[リンク[先|さき]のタイトル](top)",
			want: `<p><a href="/">リンク<span data-ruby="さき">先</span>のタイトル</a></p>`,
		},
		{
			name: "escaped url text",
			body: "\n\n<URL>は受け付けない",
			want: "<p>&lt;URL&gt;は受け付けない</p>",
		},
		{
			name: "manual line break",
			body: "\n\n一行目<br>二行目",
			want: "<p>一行目<br>二行目</p>",
		},
		{
			name: "soft wrap becomes space",
			body: "\n\nfirst\nsecond",
			want: "<p>first second</p>",
		},
		{
			name: "heading text after first space only",
			body: "\n\n##  two spaces",
			want: "<h2> two spaces</h2>",
		},
		{
			name: "heading right after delimiter line",
			body: "\n## 見出し\n\n本文",
			want: "<h2>見出し</h2><p>本文</p>",
		},
		{
			name: "bullet right after delimiter line",
			body: "\n* a\n\n* b",
			want: "<ul><li>a</li><li>b</li></ul>",
		},
		{
			name: "numbered right after delimiter line",
			body: "\n1. x",
			want: "<ol><li>x</li></ol>",
		},
		{
			name: "trailing newline not folded",
			body: "\n\nWelcome\n",
			want: "<p>Welcome</p>",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			out, err := testAssembler().Assemble(Attributes{Lang: "ja", Kind: "article"}, nil, tt.body)
			if err != nil {
				t.Fatalf("Assemble() error = %v", err)
			}
			got := strings.TrimPrefix(out, `<div class="page-heading"><h1></h1></div>`)
			if got != tt.want {
				t.Errorf("body = %q, want %q", got, tt.want)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// TestAssemble_Lists - List state machine
// ---------------------------------------------------------------------------

func TestAssemble_Lists(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		body string
		want string
	}{
		{
			name: "bullets then paragraph then numbered",
			body: "\n\n* a\n\n* b\n\nplain\n\n1. x",
			want: "<ul><li>a</li><li>b</li></ul><p>plain</p><ol><li>x</li></ol>",
		},
		{
			name: "bullet directly to numbered",
			body: "\n\n* a\n\n1. x\n\n* b",
			want: "<ul><li>a</li></ul><ol><li>x</li></ol><ul><li>b</li></ul>",
		},
		{
			name: "list closed before heading",
			body: "\n\n1. one\n\n1. two\n\n## next",
			want: "<ol><li>one</li><li>two</li></ol><h2>next</h2>",
		},
		{
			name: "list closed at end",
			body: "\n\n* only",
			want: "<ul><li>only</li></ul>",
		},
		{
			name: "items keep inline transforms",
			body: "\n\n* [明日|あした]は[Top](top)",
			want: `<ul><li><span data-ruby="あした">明日</span>は<a href="/">Top</a></li></ul>`,
		},
		{
			name: "star without space is a paragraph",
			body: "\n\n*a",
			want: "<p>*a</p>",
		},
		{
			name: "two-digit marker is a paragraph",
			body: "\n\n2. b",
			want: "<p>2. b</p>",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			out, err := testAssembler().Assemble(Attributes{Lang: "ja", Kind: "article"}, nil, tt.body)
			if err != nil {
				t.Fatalf("Assemble() error = %v", err)
			}
			got := strings.TrimPrefix(out, `<div class="page-heading"><h1></h1></div>`)
			if got != tt.want {
				t.Errorf("body = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestAssemble_ListStructure(t *testing.T) {
	t.Parallel()

	out, err := testAssembler().Assemble(Attributes{Lang: "ja", Kind: "article"}, nil,
		"\n\n* a\n\n* b\n\nplain\n\n1. x")
	if err != nil {
		t.Fatalf("Assemble() error = %v", err)
	}
	root := parseFragment(t, out)

	if n := len(selectAll(root, "ul")); n != 1 {
		t.Errorf("got %d <ul>, want 1", n)
	}
	if n := len(selectAll(root, "ol")); n != 1 {
		t.Errorf("got %d <ol>, want 1", n)
	}
	items := selectAll(root, "ul > li")
	if len(items) != 2 || textOf(items[0]) != "a" || textOf(items[1]) != "b" {
		t.Errorf("bullet items = %d, want [a b]", len(items))
	}
	if got := selectAll(root, "ol > li"); len(got) != 1 || textOf(got[0]) != "x" {
		t.Errorf("numbered items wrong: %d", len(got))
	}
	if got := selectAll(root, "ul + p"); len(got) != 1 || textOf(got[0]) != "plain" {
		t.Error("paragraph should follow the bullet list")
	}
}

func TestAssemble_FigureSrc(t *testing.T) {
	t.Parallel()

	out, err := testAssembler().Assemble(Attributes{Lang: "ja", Kind: "article"}, nil,
		"\n\n![会場の様子](https://example.com/a.png)")
	if err != nil {
		t.Fatalf("Assemble() error = %v", err)
	}
	imgs := selectAll(parseFragment(t, out), ".image-with-title img")
	if len(imgs) != 1 {
		t.Fatalf("got %d figure images, want 1", len(imgs))
	}
	if got := attrOf(imgs[0], "src"); got != "https://example.com/a.png" {
		t.Errorf("src = %q, want %q", got, "https://example.com/a.png")
	}
}
