package main

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/alnah/go-eventpage/internal/config"
)

// envPrefix starts every recognized environment variable.
const envPrefix = "EVENTPAGE_"

// envConfig holds configuration from environment variables.
// Provides CI/CD-friendly overrides without requiring YAML files.
type envConfig struct {
	ConfigPath string        // EVENTPAGE_CONFIG: config file name or path
	Style      string        // EVENTPAGE_STYLE: CSS style name or path
	Timeout    time.Duration // EVENTPAGE_TIMEOUT: PDF generation timeout

	InputDir  string // EVENTPAGE_INPUT_DIR: default input directory
	OutputDir string // EVENTPAGE_OUTPUT_DIR: default output directory
	PageSize  string // EVENTPAGE_PAGE_SIZE: a4, letter
	Workers   int    // EVENTPAGE_WORKERS: parallel workers

	DraftKey string // EVENTPAGE_DRAFT_KEY: draft storage key
	DraftDir string // EVENTPAGE_DRAFT_DIR: draft store directory
	Addr     string // EVENTPAGE_ADDR: preview listen address
}

// knownEnvVars lists valid EVENTPAGE_* environment variables.
// Used to detect typos and warn users about unknown variables.
var knownEnvVars = map[string]bool{
	"EVENTPAGE_CONFIG":     true,
	"EVENTPAGE_STYLE":      true,
	"EVENTPAGE_TIMEOUT":    true,
	"EVENTPAGE_INPUT_DIR":  true,
	"EVENTPAGE_OUTPUT_DIR": true,
	"EVENTPAGE_PAGE_SIZE":  true,
	"EVENTPAGE_WORKERS":    true,
	"EVENTPAGE_DRAFT_KEY":  true,
	"EVENTPAGE_DRAFT_DIR":  true,
	"EVENTPAGE_ADDR":       true,
	"EVENTPAGE_CONTAINER":  true, // read by doctor
}

// loadEnvConfig reads configuration from environment variables.
// Invalid durations and counts are ignored.
func loadEnvConfig(getenv func(string) string) *envConfig {
	cfg := &envConfig{
		ConfigPath: getenv("EVENTPAGE_CONFIG"),
		Style:      getenv("EVENTPAGE_STYLE"),
		InputDir:   getenv("EVENTPAGE_INPUT_DIR"),
		OutputDir:  getenv("EVENTPAGE_OUTPUT_DIR"),
		PageSize:   getenv("EVENTPAGE_PAGE_SIZE"),
		DraftKey:   getenv("EVENTPAGE_DRAFT_KEY"),
		DraftDir:   getenv("EVENTPAGE_DRAFT_DIR"),
		Addr:       getenv("EVENTPAGE_ADDR"),
	}

	if timeout := getenv("EVENTPAGE_TIMEOUT"); timeout != "" {
		if d, err := time.ParseDuration(timeout); err == nil && d > 0 {
			cfg.Timeout = d
		}
	}

	if workers := getenv("EVENTPAGE_WORKERS"); workers != "" {
		if w, err := strconv.Atoi(workers); err == nil && w > 0 {
			cfg.Workers = w
		}
	}

	return cfg
}

// warnUnknownEnvVars warns about unrecognized EVENTPAGE_* variables,
// e.g. EVENTPAGE_OUTDIR instead of EVENTPAGE_OUTPUT_DIR.
func warnUnknownEnvVars(w io.Writer, environ []string) {
	for _, kv := range environ {
		if !strings.HasPrefix(kv, envPrefix) {
			continue
		}
		name, _, _ := strings.Cut(kv, "=")
		if !knownEnvVars[name] {
			fmt.Fprintf(w, "warning: unknown environment variable %s (typo?)\n", name)
		}
	}
}

// applyEnvConfig applies environment variable values to config.
// Only sets values if the env var is set AND the config value is empty.
// This ensures: CLI flags > env vars > config file > defaults
// (CLI flags are applied later via the merge functions).
func applyEnvConfig(env *envConfig, cfg *config.Config) {
	if env.Style != "" && cfg.Style == "" {
		cfg.Style = env.Style
	}
	if env.InputDir != "" && cfg.Input.DefaultDir == "" {
		cfg.Input.DefaultDir = env.InputDir
	}
	if env.OutputDir != "" && cfg.Output.DefaultDir == "" {
		cfg.Output.DefaultDir = env.OutputDir
	}
	if env.PageSize != "" && cfg.PDF.PageSize == "" {
		cfg.PDF.PageSize = env.PageSize
	}
	if env.DraftKey != "" && cfg.Draft.Key == "" {
		cfg.Draft.Key = env.DraftKey
	}
	if env.DraftDir != "" && cfg.Draft.Dir == "" {
		cfg.Draft.Dir = env.DraftDir
	}
	if env.Addr != "" && cfg.Serve.Addr == "" {
		cfg.Serve.Addr = env.Addr
	}
}

// loadConfig loads the config named by the flag, falling back to
// EVENTPAGE_CONFIG, then applies environment overrides.
func loadConfig(flagValue string, envCfg *envConfig) (*config.Config, error) {
	name := flagValue
	if name == "" {
		name = envCfg.ConfigPath
	}

	cfg := config.DefaultConfig()
	if name != "" {
		var err error
		cfg, err = config.LoadConfig(name)
		if err != nil {
			return nil, fmt.Errorf("loading config: %w", err)
		}
	}

	applyEnvConfig(envCfg, cfg)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
