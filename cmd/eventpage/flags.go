package main

import (
	"io"

	flag "github.com/spf13/pflag"
)

// commonFlags holds flags shared across commands.
type commonFlags struct {
	config  string
	quiet   bool
	verbose bool
}

// draftStoreFlags selects the draft slot.
type draftStoreFlags struct {
	key string
	dir string
}

// convertFlags holds all flags for the convert command.
type convertFlags struct {
	common   commonFlags
	output   string
	workers  int
	timeout  string
	style    string
	pageSize string
	page     bool // Full HTML page instead of a fragment
	pdf      bool // PDF through headless Chrome
}

// draftFlags holds flags for the draft subcommands.
type draftFlags struct {
	common commonFlags
	store  draftStoreFlags
	output string
}

// serveFlags holds flags for the serve command.
type serveFlags struct {
	common    commonFlags
	store     draftStoreFlags
	addr      string
	autosave  string
	style     string
	logFormat string
	logLevel  string
}

// addCommonFlags adds common flags to a FlagSet.
func addCommonFlags(fs *flag.FlagSet, f *commonFlags) {
	fs.StringVarP(&f.config, "config", "c", "", "config file name or path")
	fs.BoolVarP(&f.quiet, "quiet", "q", false, "only show errors")
	fs.BoolVarP(&f.verbose, "verbose", "v", false, "show detailed timing")
}

// addDraftStoreFlags adds draft slot flags to a FlagSet.
func addDraftStoreFlags(fs *flag.FlagSet, f *draftStoreFlags) {
	fs.StringVarP(&f.key, "key", "k", "", "draft storage key")
	fs.StringVar(&f.dir, "dir", "", "draft store directory")
}

// newFlagSet creates a FlagSet that reports errors instead of exiting.
func newFlagSet(name string, usage func(io.Writer), w io.Writer) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(w)
	fs.Usage = func() { usage(w) }
	return fs
}

// parseConvertFlags parses convert command flags and returns positional args.
func parseConvertFlags(args []string, w io.Writer) (*convertFlags, []string, error) {
	f := &convertFlags{}
	fs := newFlagSet("convert", printConvertUsage, w)

	fs.StringVarP(&f.output, "output", "o", "", "output file or directory")
	fs.IntVarP(&f.workers, "workers", "w", 0, "parallel workers (0 = auto)")
	fs.StringVarP(&f.timeout, "timeout", "t", "", "PDF generation timeout (e.g., 30s, 2m)")
	fs.StringVar(&f.style, "style", "", "CSS style name or file path")
	fs.StringVarP(&f.pageSize, "page-size", "p", "", "PDF page size: a4, letter")
	fs.BoolVar(&f.page, "page", false, "write full HTML pages")
	fs.BoolVar(&f.pdf, "pdf", false, "write PDF files")
	addCommonFlags(fs, &f.common)

	if err := fs.Parse(args); err != nil {
		return nil, nil, err
	}
	return f, fs.Args(), nil
}

// parseDraftFlags parses flags shared by the draft subcommands.
func parseDraftFlags(sub string, args []string, w io.Writer) (*draftFlags, []string, error) {
	f := &draftFlags{}
	fs := newFlagSet("draft "+sub, printDraftUsage, w)

	addDraftStoreFlags(fs, &f.store)
	if sub == "load" {
		fs.StringVarP(&f.output, "output", "o", "", "write the draft to a file instead of stdout")
	}
	addCommonFlags(fs, &f.common)

	if err := fs.Parse(args); err != nil {
		return nil, nil, err
	}
	return f, fs.Args(), nil
}

// parseServeFlags parses serve command flags and returns positional args.
func parseServeFlags(args []string, w io.Writer) (*serveFlags, []string, error) {
	f := &serveFlags{}
	fs := newFlagSet("serve", printServeUsage, w)

	fs.StringVarP(&f.addr, "addr", "a", "", "listen address (default 127.0.0.1:8080)")
	fs.StringVar(&f.autosave, "autosave", "", "interval between draft saves (default 5s)")
	fs.StringVar(&f.style, "style", "", "CSS style name or file path")
	fs.StringVar(&f.logFormat, "log-format", "text", "log format: text, json")
	fs.StringVar(&f.logLevel, "log-level", "", "log level: debug, info, warn, error")
	addDraftStoreFlags(fs, &f.store)
	addCommonFlags(fs, &f.common)

	if err := fs.Parse(args); err != nil {
		return nil, nil, err
	}
	return f, fs.Args(), nil
}
