package main

import (
	"context"
	"fmt"
	"log/slog"

	eventpage "github.com/alnah/go-eventpage"
	"github.com/alnah/go-eventpage/internal/draft"
	"github.com/alnah/go-eventpage/internal/logging"
	"github.com/alnah/go-eventpage/internal/preview"
)

// runServe starts the live preview for one draft and blocks until ctx ends.
func runServe(ctx context.Context, args []string, env *Environment) error {
	flags, positional, err := parseServeFlags(args, env.Stderr)
	if err != nil {
		return usageError(err)
	}
	if len(positional) != 1 {
		return fmt.Errorf("%w: serve takes exactly one draft file", ErrUsage)
	}

	format, err := parseLogFormat(flags.logFormat)
	if err != nil {
		return err
	}
	level, err := serveLogLevel(flags)
	if err != nil {
		return err
	}

	cfg, err := loadConfig(flags.common.config, loadEnvConfig(env.getenv))
	if err != nil {
		return err
	}
	if flags.addr != "" {
		cfg.Serve.Addr = flags.addr
	}
	if flags.autosave != "" {
		cfg.Serve.Autosave = flags.autosave
	}
	autosave, err := cfg.Serve.AutosaveInterval()
	if err != nil {
		return fmt.Errorf("%w: %w", ErrUsage, err)
	}

	conv, err := eventpage.NewConverter(converterOptions(cfg, env.AssetLoader, flags.style)...)
	if err != nil {
		return err
	}

	logger := logging.New(logging.Config{
		Level:  level,
		Format: format,
		Output: env.Stderr,
	})

	srv, err := preview.New(preview.Config{
		Addr:     cfg.Serve.Addr,
		Path:     positional[0],
		Key:      resolveDraftKey(flags.store.key, cfg),
		CSS:      conv.Style(),
		Autosave: autosave,
	}, conv, draft.NewFileStore(resolveDraftDir(flags.store.dir, cfg)), logger)
	if err != nil {
		return err
	}

	return srv.Run(ctx)
}

// parseLogFormat validates the --log-format value.
func parseLogFormat(name string) (logging.Format, error) {
	switch f := logging.Format(name); f {
	case logging.FormatText, logging.FormatJSON:
		return f, nil
	default:
		return "", fmt.Errorf("%w: invalid log format %q (must be text or json)", ErrUsage, name)
	}
}

// serveLogLevel picks the log level. --log-level wins over -q and -v.
func serveLogLevel(f *serveFlags) (slog.Level, error) {
	if f.logLevel != "" {
		level, err := logging.ParseLevel(f.logLevel)
		if err != nil {
			return 0, fmt.Errorf("%w: %w", ErrUsage, err)
		}
		return level, nil
	}
	switch {
	case f.common.verbose:
		return slog.LevelDebug, nil
	case f.common.quiet:
		return slog.LevelWarn, nil
	default:
		return slog.LevelInfo, nil
	}
}
