package main

import (
	"errors"
	"os"

	eventpage "github.com/alnah/go-eventpage"
	"github.com/alnah/go-eventpage/internal/config"
	"github.com/alnah/go-eventpage/internal/draft"
	"github.com/alnah/go-eventpage/internal/preview"
)

// Exit codes for the eventpage CLI.
// Follows Unix conventions: 0=success, 1=general, 2=usage, and custom codes < 126.
const (
	ExitSuccess  = 0 // Successful run
	ExitGeneral  = 1 // General/unexpected error
	ExitUsage    = 2 // Invalid flags, config, or validation
	ExitIO       = 3 // File not found, permission denied
	ExitBrowser  = 4 // Browser/Chrome errors
	ExitDocument = 5 // Draft content rejected by the converter
)

// exitCodeFor returns the appropriate exit code for an error.
// It uses errors.Is to check wrapped errors, so callers must use fmt.Errorf("%w", err).
func exitCodeFor(err error) int {
	if err == nil {
		return ExitSuccess
	}

	// Document errors (exit 5)
	if errors.Is(err, eventpage.ErrMalformedDocument) ||
		errors.Is(err, eventpage.ErrUnknownKind) ||
		errors.Is(err, eventpage.ErrUnknownTime) ||
		errors.Is(err, eventpage.ErrUnknownLang) {
		return ExitDocument
	}

	// Browser errors (exit 4)
	if errors.Is(err, eventpage.ErrBrowserConnect) ||
		errors.Is(err, eventpage.ErrPageCreate) ||
		errors.Is(err, eventpage.ErrPageLoad) ||
		errors.Is(err, eventpage.ErrPDFGeneration) {
		return ExitBrowser
	}

	// I/O errors (exit 3)
	if errors.Is(err, os.ErrNotExist) ||
		errors.Is(err, os.ErrPermission) ||
		errors.Is(err, ErrReadDraft) ||
		errors.Is(err, ErrWriteOutput) ||
		errors.Is(err, ErrNoInput) ||
		errors.Is(err, ErrNoDrafts) ||
		errors.Is(err, ErrDraftNotFound) {
		return ExitIO
	}

	// Usage/config/validation errors (exit 2)
	if errors.Is(err, ErrUsage) ||
		errors.Is(err, ErrUnknownCommand) ||
		errors.Is(err, ErrInvalidExtension) ||
		errors.Is(err, ErrInvalidWorkerCount) ||
		errors.Is(err, ErrConflictingModes) ||
		errors.Is(err, config.ErrConfigNotFound) ||
		errors.Is(err, config.ErrEmptyConfigName) ||
		errors.Is(err, config.ErrConfigParse) ||
		errors.Is(err, config.ErrConfigTooLarge) ||
		errors.Is(err, config.ErrFieldTooLong) ||
		errors.Is(err, config.ErrInvalidLanguage) ||
		errors.Is(err, config.ErrUnknownKey) ||
		errors.Is(err, config.ErrInvalidValue) ||
		errors.Is(err, eventpage.ErrInvalidPageSize) ||
		errors.Is(err, eventpage.ErrStyleNotFound) ||
		errors.Is(err, draft.ErrInvalidKey) ||
		errors.Is(err, draft.ErrTooLarge) ||
		errors.Is(err, preview.ErrNoDraftPath) {
		return ExitUsage
	}

	return ExitGeneral
}
