// Package eventpage converts event-page drafts into HTML for a science
// festival site.
//
// A draft is plain text with a short frontmatter section followed by a body:
//
//	---
//	lang: "ja"
//	name: "[企画|きかく]名"
//	type: "booth"
//	time: "always"
//	place: "104"
//	image: "images/stage.jpg"
//	alt: "ステージの様子"
//	---
//	## [話題|わだい]
//
//	* first item
//	* second item
//
//	![会場の写真](images/hall.jpg)
//
// # Quick Start
//
//	res, err := eventpage.Convert(draft)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(res.Title)   // 企画名
//	fmt.Println(res.Article) // HTML fragment
//
// # Conversion Pipeline
//
//  1. Split the draft on its first two --- delimiters
//  2. Read lang, name, type, time, place, image and alt directives
//  3. Render the page heading, kind label, time and place chips
//  4. Render the slide strip from image/alt pairs
//  5. Split the body on blank lines and classify each block
//     (## ### #### headings, * and 1. list items, ![caption](src) figures,
//     paragraphs)
//  6. Escape < and > (keeping <br>), expand [base|reading] ruby spans and
//     [title](target) links
//
// # Configuration
//
// Use functional options to customize the converter:
//
//	conv, err := eventpage.NewConverter(
//	    eventpage.WithLinkTemplates(eventpage.LinkTemplates{
//	        eventpage.LinkTimetable: "/timetable/",
//	    }),
//	    eventpage.WithLabels(eventpage.Labels{
//	        Places: map[string]eventpage.PlaceFormat{"fr": {Prefix: "Salle "}},
//	    }),
//	    eventpage.WithStyle(eventpage.PrintStyle),
//	)
//
// # Pages and PDF
//
// Converter.Page wraps a result into a standalone HTML document. PDFRenderer
// prints such a page with headless Chrome; RendererPool manages several
// renderers for batch export:
//
//	pool := eventpage.NewRendererPool(eventpage.ResolvePoolSize(0))
//	defer pool.Close()
//
//	r, err := pool.Acquire(ctx)
//	if err != nil {
//	    return err
//	}
//	defer pool.Release(r)
//	pdf, err := r.Render(ctx, page, filepath.Dir(draftPath))
//
// # Browser Requirements
//
// PDF generation requires Chrome/Chromium. The go-rod library automatically
// downloads a managed Chromium instance on first run (~/.cache/rod/browser/).
// Use ROD_BROWSER_BIN to specify a custom Chrome binary; the sandbox is
// disabled when it is set or when CI=true.
package eventpage
