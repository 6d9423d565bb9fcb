package main

import (
	"fmt"
	"io"
)

// printUsage prints the main usage message.
func printUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: eventpage <command> [flags] [args]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  convert    Convert event page drafts to HTML or PDF")
	fmt.Fprintln(w, "  draft      Save or load the stored draft")
	fmt.Fprintln(w, "  serve      Preview a draft live in the browser")
	fmt.Fprintln(w, "  doctor     Check the environment for PDF export")
	fmt.Fprintln(w, "  version    Show version information")
	fmt.Fprintln(w, "  help       Show help for a command")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Run 'eventpage help <command>' for details on a specific command.")
}

// printConvertUsage prints usage for the convert command.
func printConvertUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: eventpage convert <input> [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Convert event page drafts. By default each draft becomes an HTML")
	fmt.Fprintln(w, "fragment (.html) for the page's content container.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Arguments:")
	fmt.Fprintln(w, "  input    Draft file or directory (optional if config has input.defaultDir)")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Input/Output:")
	fmt.Fprintln(w, "  -o, --output <path>       Output file or directory")
	fmt.Fprintln(w, "  -c, --config <name>       Config file name or path")
	fmt.Fprintln(w, "  -w, --workers <n>         Parallel workers (0 = auto)")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Output Format:")
	fmt.Fprintln(w, "      --page                Write full HTML pages with embedded style")
	fmt.Fprintln(w, "      --pdf                 Write PDF files (requires Chrome)")
	fmt.Fprintln(w, "      --style <name|path>   Style: default, print, or a CSS file")
	fmt.Fprintln(w, "  -p, --page-size <s>       PDF page size: a4, letter")
	fmt.Fprintln(w, "  -t, --timeout <d>         PDF generation timeout (e.g., 30s, 2m)")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Output Control:")
	fmt.Fprintln(w, "  -q, --quiet               Only show errors")
	fmt.Fprintln(w, "  -v, --verbose             Show detailed timing")
}

// printDraftUsage prints usage for the draft command.
func printDraftUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: eventpage draft <save|load|path> [flags] [file]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Manage the stored draft.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Subcommands:")
	fmt.Fprintln(w, "  save <file>               Store a draft file (\"-\" reads stdin)")
	fmt.Fprintln(w, "  load                      Print the stored draft")
	fmt.Fprintln(w, "  path                      Print the file backing the draft")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Flags:")
	fmt.Fprintln(w, "  -k, --key <key>           Draft storage key")
	fmt.Fprintln(w, "      --dir <path>          Draft store directory")
	fmt.Fprintln(w, "  -o, --output <path>       (load) Write to a file instead of stdout")
	fmt.Fprintln(w, "  -c, --config <name>       Config file name or path")
	fmt.Fprintln(w, "  -q, --quiet               Only show errors")
}

// printServeUsage prints usage for the serve command.
func printServeUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: eventpage serve <file> [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Preview a draft in the browser. The page updates on every save and")
	fmt.Fprintln(w, "the draft is stored periodically. A missing file is restored from")
	fmt.Fprintln(w, "the store.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Flags:")
	fmt.Fprintln(w, "  -a, --addr <host:port>    Listen address (default 127.0.0.1:8080)")
	fmt.Fprintln(w, "      --autosave <d>        Interval between draft saves (default 5s)")
	fmt.Fprintln(w, "      --style <name|path>   Preview style")
	fmt.Fprintln(w, "  -k, --key <key>           Draft storage key")
	fmt.Fprintln(w, "      --dir <path>          Draft store directory")
	fmt.Fprintln(w, "      --log-format <s>      Log format: text, json")
	fmt.Fprintln(w, "      --log-level <s>       Log level: debug, info, warn, error")
	fmt.Fprintln(w, "  -c, --config <name>       Config file name or path")
	fmt.Fprintln(w, "  -q, --quiet               Log warnings and errors only")
	fmt.Fprintln(w, "  -v, --verbose             Log every conversion")
}

// runHelp prints help for a specific command.
func runHelp(args []string, env *Environment) int {
	if len(args) == 0 {
		printUsage(env.Stdout)
		return ExitSuccess
	}

	switch args[0] {
	case "convert":
		printConvertUsage(env.Stdout)
	case "draft":
		printDraftUsage(env.Stdout)
	case "serve":
		printServeUsage(env.Stdout)
	case "doctor":
		fmt.Fprintln(env.Stdout, "Usage: eventpage doctor [--json] [--dir <path>]")
		fmt.Fprintln(env.Stdout)
		fmt.Fprintln(env.Stdout, "Check Chrome, container and draft store setup.")
	case "version":
		fmt.Fprintln(env.Stdout, "Usage: eventpage version")
		fmt.Fprintln(env.Stdout)
		fmt.Fprintln(env.Stdout, "Show version information.")
	case "help":
		fmt.Fprintln(env.Stdout, "Usage: eventpage help [command]")
		fmt.Fprintln(env.Stdout)
		fmt.Fprintln(env.Stdout, "Show help for a command.")
	default:
		fmt.Fprintf(env.Stderr, "Unknown command: %s\n", args[0])
		printUsage(env.Stderr)
		return ExitUsage
	}
	return ExitSuccess
}
