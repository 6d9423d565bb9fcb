package main

import (
	"errors"
	"strings"

	eventpage "github.com/alnah/go-eventpage"
	"github.com/alnah/go-eventpage/internal/config"
	"github.com/alnah/go-eventpage/internal/draft"
	"github.com/alnah/go-eventpage/internal/hints"
)

// Sentinel errors for CLI operations.
var (
	ErrUsage              = errors.New("invalid usage")
	ErrUnknownCommand     = errors.New("unknown command")
	ErrNoInput            = errors.New("no input specified")
	ErrNoDrafts           = errors.New("no drafts found")
	ErrReadDraft          = errors.New("failed to read draft")
	ErrWriteOutput        = errors.New("failed to write output")
	ErrDraftNotFound      = errors.New("no draft stored")
	ErrInvalidExtension   = errors.New("file must have .md or .markdown extension")
	ErrInvalidWorkerCount = errors.New("invalid worker count")
	ErrConflictingModes   = errors.New("--page and --pdf are mutually exclusive")
)

// withHint returns the error message followed by an actionable hint when
// one applies.
func withHint(err error) string {
	msg := err.Error()

	switch {
	case errors.Is(err, eventpage.ErrMalformedDocument):
		return msg + hints.ForMalformedDocument()
	case errors.Is(err, eventpage.ErrUnknownKind):
		return msg + hints.ForUnknownLabel("type", []string{
			string(eventpage.KindBooth), string(eventpage.KindShow),
			string(eventpage.KindAtelier), string(eventpage.KindArticle),
		})
	case errors.Is(err, eventpage.ErrUnknownTime):
		return msg + hints.ForUnknownLabel("time", []string{
			string(eventpage.TimeAlways), string(eventpage.TimeScheduled),
		})
	case errors.Is(err, eventpage.ErrBrowserConnect):
		return msg + hints.ForBrowserConnect()
	case errors.Is(err, eventpage.ErrPageLoad):
		return msg + hints.ForTimeout()
	case errors.Is(err, eventpage.ErrStyleNotFound):
		return msg + hints.ForStyleNotFound(eventpage.StyleNames())
	case errors.Is(err, config.ErrConfigNotFound):
		return msg + hints.ForConfigNotFound(triedPaths(msg))
	case errors.Is(err, draft.ErrInvalidKey):
		return msg + hints.ForDraftKey()
	case errors.Is(err, ErrWriteOutput):
		return msg + hints.ForOutputDirectory()
	}
	return msg
}

// triedPaths extracts the searched locations from a config lookup error.
func triedPaths(msg string) []string {
	_, list, ok := strings.Cut(msg, "tried ")
	if !ok {
		return nil
	}
	return strings.Split(list, ", ")
}
