// Package assets provides the CSS styles and the page template used to wrap
// a converted article into a standalone HTML document.
//
// Assets are embedded at compile time:
//
//	styles/
//	├── default.css    # screen preview: chips, slide strip, ruby annotations
//	└── print.css      # A4 print layout used for PDF export
//	templates/
//	└── page.html      # html/template document shell
//
// Asset names are plain identifiers; names containing path separators or
// dots are rejected before any lookup.
package assets
