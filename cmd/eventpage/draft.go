package main

import (
	"fmt"
	"io"
	"os"

	"github.com/alnah/go-eventpage/internal/config"
	"github.com/alnah/go-eventpage/internal/draft"
	"github.com/alnah/go-eventpage/internal/fileutil"
)

// runDraft dispatches the draft subcommands.
func runDraft(args []string, env *Environment) error {
	if len(args) == 0 {
		printDraftUsage(env.Stderr)
		return fmt.Errorf("%w: draft requires a subcommand", ErrUsage)
	}

	sub, rest := args[0], args[1:]
	switch sub {
	case "save", "load", "path":
	case "help", "--help", "-h":
		printDraftUsage(env.Stdout)
		return nil
	default:
		printDraftUsage(env.Stderr)
		return fmt.Errorf("%w: draft %s", ErrUnknownCommand, sub)
	}

	flags, positional, err := parseDraftFlags(sub, rest, env.Stderr)
	if err != nil {
		return usageError(err)
	}

	cfg, err := loadConfig(flags.common.config, loadEnvConfig(env.getenv))
	if err != nil {
		return err
	}
	key := resolveDraftKey(flags.store.key, cfg)
	store := draft.NewFileStore(resolveDraftDir(flags.store.dir, cfg))

	switch sub {
	case "save":
		return draftSave(store, key, positional, flags, env)
	case "load":
		return draftLoad(store, key, flags, env)
	default:
		path, err := store.Path(key)
		if err != nil {
			return err
		}
		fmt.Fprintln(env.Stdout, path)
		return nil
	}
}

// resolveDraftKey picks the storage key.
// Priority: flag > env/config > draft.DefaultKey.
func resolveDraftKey(flagValue string, cfg *config.Config) string {
	if flagValue != "" {
		return flagValue
	}
	if cfg.Draft.Key != "" {
		return cfg.Draft.Key
	}
	return draft.DefaultKey
}

// resolveDraftDir picks the store directory. Empty means the XDG default.
func resolveDraftDir(flagValue string, cfg *config.Config) string {
	if flagValue != "" {
		return flagValue
	}
	return cfg.Draft.Dir
}

// draftSave stores a draft file, or stdin for "-".
func draftSave(store draft.Store, key string, args []string, flags *draftFlags, env *Environment) error {
	if len(args) != 1 {
		return fmt.Errorf("%w: draft save takes exactly one file", ErrUsage)
	}

	var (
		content []byte
		err     error
	)
	if args[0] == "-" {
		content, err = io.ReadAll(io.LimitReader(env.Stdin, draft.MaxDraftSize+1))
	} else {
		content, err = os.ReadFile(args[0]) // #nosec G304 -- user-provided path
	}
	if err != nil {
		return fmt.Errorf("%w: %w", ErrReadDraft, err)
	}

	if err := store.Save(key, string(content)); err != nil {
		return err
	}
	if !flags.common.quiet {
		fmt.Fprintf(env.Stdout, "Saved draft %s (%d bytes)\n", key, len(content))
	}
	return nil
}

// draftLoad prints the stored draft or writes it to the -o file.
func draftLoad(store draft.Store, key string, flags *draftFlags, env *Environment) error {
	value, ok, err := store.Load(key)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("%w: %s", ErrDraftNotFound, key)
	}

	if flags.output == "" {
		_, err := io.WriteString(env.Stdout, value)
		return err
	}

	if err := fileutil.WriteFileAtomic(flags.output, []byte(value)); err != nil {
		return fmt.Errorf("%w: %w", ErrWriteOutput, err)
	}
	if !flags.common.quiet {
		fmt.Fprintf(env.Stdout, "Created %s\n", flags.output)
	}
	return nil
}
