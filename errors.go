package eventpage

import (
	"errors"

	"github.com/alnah/go-eventpage/internal/assets"
	"github.com/alnah/go-eventpage/internal/pipeline"
)

// Sentinel errors for document conversion. Check with errors.Is.
var (
	// ErrMalformedDocument means fewer than two --- delimiters were found.
	ErrMalformedDocument = pipeline.ErrMalformedDocument

	// Lookup misses in the localized label tables.
	ErrUnknownKind = pipeline.ErrUnknownKind
	ErrUnknownTime = pipeline.ErrUnknownTime
	ErrUnknownLang = pipeline.ErrUnknownLang

	ErrEmptyDocument = errors.New("document cannot be empty")
	ErrPageRender    = errors.New("page template rendering failed")
)

// Sentinel errors for PDF rendering.
var (
	ErrPDFGeneration  = errors.New("PDF generation failed")
	ErrBrowserConnect = errors.New("failed to connect to browser")
	ErrPageCreate     = errors.New("failed to create browser page")
	ErrPageLoad       = errors.New("failed to load page")

	ErrInvalidPageSize = errors.New("invalid page size")
)

// Sentinel errors for asset loading.
var (
	ErrStyleNotFound    = assets.ErrStyleNotFound
	ErrTemplateNotFound = assets.ErrTemplateNotFound
)
