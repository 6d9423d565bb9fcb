package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/adrg/xdg"
	"github.com/goccy/go-yaml"
	"golang.org/x/text/language"
)

// Sentinel errors for config operations.
var (
	ErrConfigNotFound  = errors.New("config file not found")
	ErrEmptyConfigName = errors.New("config name cannot be empty")
	ErrConfigParse     = errors.New("failed to parse config")
	ErrConfigTooLarge  = errors.New("config file too large")
	ErrFieldTooLong    = errors.New("field exceeds maximum length")
	ErrInvalidLanguage = errors.New("invalid language tag")
	ErrUnknownKey      = errors.New("unknown table key")
	ErrInvalidValue    = errors.New("invalid value")
)

// AppName is the directory name used under XDG base directories.
const AppName = "go-eventpage"

// MaxFileSize limits config input to prevent memory exhaustion.
const MaxFileSize = 1 << 20

// Field length limits.
const (
	MaxPathLength  = 4096 // Filesystem paths
	MaxURLLength   = 2048 // Browser limit
	MaxLabelLength = 100  // Kind/time label, place prefix or suffix
	MaxKeyLength   = 100  // Draft storage key
	MaxAddrLength  = 255  // host:port
)

// Recognized table keys; config entries outside them are rejected.
var (
	KnownKinds    = []string{"booth", "show", "atelier", "article"}
	KnownTimes    = []string{"always", "scheduled"}
	KnownLinkKeys = []string{"top", "timetable", "room1", "room2"}
)

// Config holds all configuration for the CLI.
type Config struct {
	Input  InputConfig       `yaml:"input"`
	Output OutputConfig      `yaml:"output"`
	Style  string            `yaml:"style"` // Embedded style name or CSS file path
	Labels LabelsConfig      `yaml:"labels"`
	Links  map[string]string `yaml:"links"`
	Draft  DraftConfig       `yaml:"draft"`
	PDF    PDFConfig         `yaml:"pdf"`
	Serve  ServeConfig       `yaml:"serve"`
}

// InputConfig defines input source options.
type InputConfig struct {
	DefaultDir string `yaml:"defaultDir"` // Default input directory (empty = must specify)
}

// OutputConfig defines output destination options.
type OutputConfig struct {
	DefaultDir string `yaml:"defaultDir"` // Default output directory (empty = same as source)
}

// LabelsConfig overrides the localized header labels.
// Kinds and Times are keyed by value, then by language tag.
type LabelsConfig struct {
	Kinds  map[string]map[string]string `yaml:"kinds"`
	Times  map[string]map[string]string `yaml:"times"`
	Places map[string]PlaceConfig       `yaml:"places"`
}

// PlaceConfig wraps the raw place value for one language.
type PlaceConfig struct {
	Prefix string `yaml:"prefix"`
	Suffix string `yaml:"suffix"`
}

// DraftConfig defines where drafts are persisted.
type DraftConfig struct {
	Key string `yaml:"key"` // Storage slot name (empty = default key)
	Dir string `yaml:"dir"` // Store directory (empty = XDG data dir)
}

// PDFConfig defines PDF export options.
type PDFConfig struct {
	Timeout  string `yaml:"timeout"`  // Go duration, e.g. "45s" (empty = 30s)
	PageSize string `yaml:"pageSize"` // "a4" or "letter" (empty = a4)
}

// ServeConfig defines live preview options.
type ServeConfig struct {
	Addr     string `yaml:"addr"`     // Listen address (empty = 127.0.0.1:8080)
	Autosave string `yaml:"autosave"` // Go duration between saves (empty = 5s)
}

// TimeoutDuration parses Timeout. Empty yields zero.
func (p PDFConfig) TimeoutDuration() (time.Duration, error) {
	return parseDuration("pdf.timeout", p.Timeout)
}

// AutosaveInterval parses Autosave. Empty yields zero.
func (s ServeConfig) AutosaveInterval() (time.Duration, error) {
	return parseDuration("serve.autosave", s.Autosave)
}

func parseDuration(field, value string) (time.Duration, error) {
	if value == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("%w: %s: %v", ErrInvalidValue, field, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("%w: %s must be positive, got %s", ErrInvalidValue, field, value)
	}
	return d, nil
}

// Validate checks field lengths, language tags and table keys.
// Called automatically by LoadConfig, but available for consumers
// who construct Config manually.
func (c *Config) Validate() error {
	if err := validateFieldLength("input.defaultDir", c.Input.DefaultDir, MaxPathLength); err != nil {
		return err
	}
	if err := validateFieldLength("output.defaultDir", c.Output.DefaultDir, MaxPathLength); err != nil {
		return err
	}
	if err := validateFieldLength("style", c.Style, MaxPathLength); err != nil {
		return err
	}

	if err := validateLabelTable("labels.kinds", c.Labels.Kinds, KnownKinds); err != nil {
		return err
	}
	if err := validateLabelTable("labels.times", c.Labels.Times, KnownTimes); err != nil {
		return err
	}
	for lang, p := range c.Labels.Places {
		field := "labels.places." + lang
		if err := validateLanguage(field, lang); err != nil {
			return err
		}
		if err := validateFieldLength(field+".prefix", p.Prefix, MaxLabelLength); err != nil {
			return err
		}
		if err := validateFieldLength(field+".suffix", p.Suffix, MaxLabelLength); err != nil {
			return err
		}
	}

	for key, url := range c.Links {
		if !slices.Contains(KnownLinkKeys, key) {
			return fmt.Errorf("%w: links.%s (must be one of %s)", ErrUnknownKey, key, strings.Join(KnownLinkKeys, ", "))
		}
		if err := validateFieldLength("links."+key, url, MaxURLLength); err != nil {
			return err
		}
	}

	if err := validateFieldLength("draft.key", c.Draft.Key, MaxKeyLength); err != nil {
		return err
	}
	if err := validateFieldLength("draft.dir", c.Draft.Dir, MaxPathLength); err != nil {
		return err
	}

	if _, err := c.PDF.TimeoutDuration(); err != nil {
		return err
	}
	if c.PDF.PageSize != "" {
		switch strings.ToLower(c.PDF.PageSize) {
		case "a4", "letter":
			// valid
		default:
			return fmt.Errorf("%w: pdf.pageSize %q (must be a4 or letter)", ErrInvalidValue, c.PDF.PageSize)
		}
	}

	if err := validateFieldLength("serve.addr", c.Serve.Addr, MaxAddrLength); err != nil {
		return err
	}
	if _, err := c.Serve.AutosaveInterval(); err != nil {
		return err
	}

	return nil
}

// validateLabelTable checks a value -> language -> label table.
func validateLabelTable(field string, table map[string]map[string]string, known []string) error {
	for value, byLang := range table {
		if !slices.Contains(known, value) {
			return fmt.Errorf("%w: %s.%s (must be one of %s)", ErrUnknownKey, field, value, strings.Join(known, ", "))
		}
		for lang, label := range byLang {
			name := field + "." + value + "." + lang
			if err := validateLanguage(name, lang); err != nil {
				return err
			}
			if err := validateFieldLength(name, label, MaxLabelLength); err != nil {
				return err
			}
		}
	}
	return nil
}

// validateLanguage checks that lang is a well-formed BCP 47 tag.
func validateLanguage(field, lang string) error {
	if _, err := language.Parse(lang); err != nil {
		return fmt.Errorf("%w: %s: %q", ErrInvalidLanguage, field, lang)
	}
	return nil
}

// validateFieldLength checks if a field exceeds its maximum allowed length.
func validateFieldLength(fieldName, value string, maxLength int) error {
	if len(value) > maxLength {
		return fmt.Errorf("%w: %s (%d chars, max %d)", ErrFieldTooLong, fieldName, len(value), maxLength)
	}
	return nil
}

// DefaultConfig returns a configuration that keeps every built-in default.
func DefaultConfig() *Config {
	return &Config{}
}

// LoadConfig loads configuration from a file path or config name.
// If nameOrPath contains a path separator, it's treated as a file path.
// Otherwise, it's treated as a config name and searched in the current
// directory, then in the XDG config directories.
// Returns error if the file is not found (no silent fallback).
func LoadConfig(nameOrPath string) (*Config, error) {
	if nameOrPath == "" {
		return nil, ErrEmptyConfigName
	}

	configPath := nameOrPath
	if !isFilePath(nameOrPath) {
		dirs := append([]string{xdg.ConfigHome}, xdg.ConfigDirs...)
		var err error
		configPath, err = resolveConfigPath(nameOrPath, dirs)
		if err != nil {
			return nil, err
		}
	}

	data, err := os.ReadFile(configPath) // #nosec G304 -- config path is user-provided
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrConfigNotFound, configPath)
		}
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	return Parse(data)
}

// Parse decodes and validates YAML config data. Unknown fields are rejected.
func Parse(data []byte) (*Config, error) {
	if len(data) > MaxFileSize {
		return nil, fmt.Errorf("%w: %d bytes (max %d)", ErrConfigTooLarge, len(data), MaxFileSize)
	}

	cfg := DefaultConfig()
	if len(strings.TrimSpace(string(data))) > 0 {
		if err := yaml.UnmarshalWithOptions(data, cfg, yaml.Strict()); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrConfigParse, err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// isFilePath returns true if the string looks like a file path.
func isFilePath(s string) bool {
	return strings.ContainsAny(s, "/\\")
}

// resolveConfigPath searches for a config file by name.
// Tries extensions in order: .yaml, .yml
// Tries locations in order: current directory, then <dir>/go-eventpage/ for
// each of dirs.
func resolveConfigPath(name string, dirs []string) (string, error) {
	extensions := []string{".yaml", ".yml"}
	triedPaths := make([]string, 0, len(extensions)*(len(dirs)+1))

	for _, ext := range extensions {
		localPath := name + ext
		if fileExists(localPath) {
			return localPath, nil
		}
		triedPaths = append(triedPaths, localPath)
	}

	for _, dir := range dirs {
		if dir == "" {
			continue
		}
		for _, ext := range extensions {
			userPath := filepath.Join(dir, AppName, name+ext)
			if fileExists(userPath) {
				return userPath, nil
			}
			triedPaths = append(triedPaths, userPath)
		}
	}

	return "", fmt.Errorf("%w: tried %s", ErrConfigNotFound, strings.Join(triedPaths, ", "))
}

// fileExists returns true if the path exists and is a regular file.
func fileExists(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return !info.IsDir()
}
