// Package pipeline implements the event-page conversion pipeline.
//
// The stages, in the order the root eventpage package runs them:
//   - Document splitting into frontmatter and body sections
//   - Frontmatter directive scanning (attributes and slide images)
//   - Page heading, metadata chips and slide strip assembly
//   - Body block classification (lists, headings, figures, paragraphs)
//   - Inline transforms: tag escaping, ruby annotation, hyperlinks
//
// Every stage is a pure function of its input and the read-only tables
// held by an Assembler. Relative image path rewriting (RewriteImagePaths)
// is used only when a finished page is handed to the PDF renderer.
package pipeline
