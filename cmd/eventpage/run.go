package main

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"slices"

	flag "github.com/spf13/pflag"

	eventpage "github.com/alnah/go-eventpage"
	"github.com/alnah/go-eventpage/internal/config"
)

// commands lists the recognized command names.
var commands = []string{"convert", "draft", "serve", "doctor", "version", "help"}

// isCommand reports whether arg names a command.
func isCommand(arg string) bool {
	return slices.Contains(commands, arg)
}

// looksLikeMarkdown reports whether arg has a draft file extension.
// A bare draft path runs convert.
func looksLikeMarkdown(arg string) bool {
	ext := filepath.Ext(arg)
	return ext == ".md" || ext == ".markdown"
}

// runMain dispatches args (os.Args layout) and returns the exit code.
func runMain(args []string, env *Environment) int {
	if len(args) < 2 {
		printUsage(env.Stderr)
		return ExitUsage
	}

	warnUnknownEnvVars(env.Stderr, env.environ())

	cmd, rest := args[1], args[2:]
	if !isCommand(cmd) && looksLikeMarkdown(cmd) {
		cmd, rest = "convert", args[1:]
	}

	ctx, stop := notifyContext(context.Background())
	defer stop()

	var err error
	switch cmd {
	case "convert":
		err = runConvert(ctx, rest, env)
	case "draft":
		err = runDraft(rest, env)
	case "serve":
		err = runServe(ctx, rest, env)
	case "doctor":
		return runDoctorCmd(rest, env)
	case "version":
		fmt.Fprintf(env.Stdout, "go-eventpage %s\n", Version)
		return ExitSuccess
	case "help", "--help", "-h":
		return runHelp(rest, env)
	default:
		err = fmt.Errorf("%w: %s", ErrUnknownCommand, cmd)
		fmt.Fprintf(env.Stderr, "unknown command: %s\n", cmd)
		printUsage(env.Stderr)
		return exitCodeFor(err)
	}

	if errors.Is(err, flag.ErrHelp) {
		return ExitSuccess
	}
	if err != nil {
		fmt.Fprintln(env.Stderr, withHint(err))
		return exitCodeFor(err)
	}
	return ExitSuccess
}

// usageError marks flag parsing failures as usage errors.
func usageError(err error) error {
	if err == nil || errors.Is(err, flag.ErrHelp) {
		return err
	}
	return fmt.Errorf("%w: %v", ErrUsage, err)
}

// converterOptions maps config sections onto converter options.
// style overrides cfg.Style when set.
func converterOptions(cfg *config.Config, loader eventpage.AssetLoader, style string) []eventpage.Option {
	if style == "" {
		style = cfg.Style
	}

	opts := []eventpage.Option{
		eventpage.WithAssetLoader(loader),
		eventpage.WithStyle(style),
		eventpage.WithLabels(labelsFromConfig(cfg.Labels)),
	}
	if len(cfg.Links) > 0 {
		opts = append(opts, eventpage.WithLinkTemplates(eventpage.LinkTemplates(cfg.Links)))
	}
	return opts
}

// labelsFromConfig converts the YAML label tables.
func labelsFromConfig(lc config.LabelsConfig) eventpage.Labels {
	l := eventpage.Labels{
		Kinds:  make(map[eventpage.Kind]map[string]string, len(lc.Kinds)),
		Times:  make(map[eventpage.TimeSlot]map[string]string, len(lc.Times)),
		Places: make(map[string]eventpage.PlaceFormat, len(lc.Places)),
	}
	for kind, byLang := range lc.Kinds {
		l.Kinds[eventpage.Kind(kind)] = byLang
	}
	for slot, byLang := range lc.Times {
		l.Times[eventpage.TimeSlot(slot)] = byLang
	}
	for lang, p := range lc.Places {
		l.Places[lang] = eventpage.PlaceFormat{Prefix: p.Prefix, Suffix: p.Suffix}
	}
	return l
}
