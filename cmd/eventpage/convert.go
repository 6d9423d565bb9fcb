package main

import (
	"context"
	"fmt"
	"strings"
	"time"

	eventpage "github.com/alnah/go-eventpage"
	"github.com/alnah/go-eventpage/internal/config"
)

// outputMode selects what convert writes for each draft.
type outputMode int

const (
	modeFragment outputMode = iota // Article HTML only
	modePage                       // Standalone HTML document
	modePDF                        // PDF through headless Chrome
)

// ext returns the output file extension for the mode.
func (m outputMode) ext() string {
	if m == modePDF {
		return ".pdf"
	}
	return ".html"
}

func (m outputMode) String() string {
	switch m {
	case modePage:
		return "page"
	case modePDF:
		return "pdf"
	default:
		return "fragment"
	}
}

// runConvert orchestrates the conversion process.
func runConvert(ctx context.Context, args []string, env *Environment) error {
	flags, positional, err := parseConvertFlags(args, env.Stderr)
	if err != nil {
		return usageError(err)
	}
	if flags.page && flags.pdf {
		return ErrConflictingModes
	}

	envCfg := loadEnvConfig(env.getenv)

	workers := flags.workers
	if workers == 0 {
		workers = envCfg.Workers
	}
	if err := validateWorkers(workers); err != nil {
		return err
	}

	cfg, err := loadConfig(flags.common.config, envCfg)
	if err != nil {
		return err
	}
	mergeConvertFlags(flags, cfg)

	mode := outputModeFor(flags)

	timeout, err := resolveTimeoutWithEnv(flags.timeout, envCfg.Timeout, cfg.PDF.Timeout)
	if err != nil {
		return err
	}

	inputPath, err := resolveInputPath(positional, cfg)
	if err != nil {
		return err
	}
	outputDir := resolveOutputDir(flags.output, cfg)

	files, err := discoverFiles(inputPath, outputDir, mode.ext())
	if err != nil {
		return fmt.Errorf("discovering drafts: %w", err)
	}
	if len(files) == 0 {
		return fmt.Errorf("%w in %s", ErrNoDrafts, inputPath)
	}

	style := cfg.Style
	if style == "" && mode == modePDF {
		style = eventpage.PrintStyle
	}
	conv, err := eventpage.NewConverter(converterOptions(cfg, env.AssetLoader, style)...)
	if err != nil {
		return err
	}

	poolSize := min(eventpage.ResolvePoolSize(workers), len(files))
	if flags.common.verbose {
		fmt.Fprintf(env.Stderr, "Mode: %s, workers: %d\n", mode, poolSize)
	}

	params := &conversionParams{conv: conv, mode: mode}
	if mode == modePDF {
		pool := eventpage.NewRendererPool(poolSize, rendererOptions(cfg, timeout)...)
		defer pool.Close()
		params.renderers = &poolAdapter{pool: pool}
	}

	results := convertBatch(ctx, poolSize, files, params)

	failed := printResultsWithWriter(results, flags.common.quiet, flags.common.verbose, env)
	if failed > 0 {
		return &batchError{failed: failed, total: len(results), first: firstError(results)}
	}
	return nil
}

// mergeConvertFlags merges CLI flags into config. CLI values override config values.
func mergeConvertFlags(flags *convertFlags, cfg *config.Config) {
	if flags.style != "" {
		cfg.Style = flags.style
	}
	if flags.pageSize != "" {
		cfg.PDF.PageSize = flags.pageSize
	}
}

// outputModeFor returns the mode selected by flags.
func outputModeFor(flags *convertFlags) outputMode {
	switch {
	case flags.pdf:
		return modePDF
	case flags.page:
		return modePage
	default:
		return modeFragment
	}
}

// rendererOptions builds PDF renderer options from config.
func rendererOptions(cfg *config.Config, timeout time.Duration) []eventpage.RendererOption {
	var opts []eventpage.RendererOption
	if timeout > 0 {
		opts = append(opts, eventpage.WithTimeout(timeout))
	}
	if cfg.PDF.PageSize != "" {
		opts = append(opts, eventpage.WithPageSize(eventpage.PageSize(strings.ToLower(cfg.PDF.PageSize))))
	}
	return opts
}

// resolveTimeoutWithEnv picks the PDF timeout.
// Priority: flag > environment > config. Zero means the renderer default.
func resolveTimeoutWithEnv(flagValue string, envValue time.Duration, configValue string) (time.Duration, error) {
	if flagValue != "" {
		d, err := time.ParseDuration(flagValue)
		if err != nil {
			return 0, fmt.Errorf("%w: invalid timeout %q: %v", ErrUsage, flagValue, err)
		}
		if d <= 0 {
			return 0, fmt.Errorf("%w: timeout must be positive, got %s", ErrUsage, flagValue)
		}
		return d, nil
	}
	if envValue > 0 {
		return envValue, nil
	}
	return config.PDFConfig{Timeout: configValue}.TimeoutDuration()
}

// resolveInputPath determines the input path from args or config.
func resolveInputPath(args []string, cfg *config.Config) (string, error) {
	if len(args) > 0 {
		return args[0], nil
	}
	if cfg.Input.DefaultDir != "" {
		return cfg.Input.DefaultDir, nil
	}
	return "", ErrNoInput
}

// resolveOutputDir determines the output directory from flag or config.
func resolveOutputDir(flagOutput string, cfg *config.Config) string {
	if flagOutput != "" {
		return flagOutput
	}
	return cfg.Output.DefaultDir
}

// batchError reports failed conversions. It unwraps to the first failure
// so the exit code reflects its class.
type batchError struct {
	failed int
	total  int
	first  error
}

func (e *batchError) Error() string {
	return fmt.Sprintf("%d of %d conversion(s) failed", e.failed, e.total)
}

func (e *batchError) Unwrap() error {
	return e.first
}

func firstError(results []ConversionResult) error {
	for _, r := range results {
		if r.Err != nil {
			return r.Err
		}
	}
	return nil
}
