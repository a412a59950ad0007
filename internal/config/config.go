// Package config provides configuration management for the perron build.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"

	"perrons/internal/normalizer"
	"perrons/pkg/utils"
)

// Configuration validation errors.
var (
	ErrInvalidField             = errors.New("invalid configuration field")
	ErrMissingInputPath         = errors.New("input.path is required")
	ErrMissingStationsSource    = errors.New("either stations.path or stations.url is required")
	ErrAmbiguousStationsSource  = errors.New("stations.path and stations.url are mutually exclusive")
	ErrMissingOutputPath        = errors.New("output.path is required")
	ErrInvalidMaxAttempts       = errors.New("stations.retry.max_attempts must be at least 1")
	ErrInvalidInitialDelay      = errors.New("stations.retry.initial_delay_ms must be non-negative")
	ErrInvalidBackoffMultiplier = errors.New("stations.retry.backoff_multiplier must be >= 1.0")
	ErrInvalidTimeout           = errors.New("stations.retry.timeout_sec must be at least 1")
	ErrInvalidLocale            = errors.New("numbers.locale is not a valid BCP 47 tag")
)

// Environment variables overriding file settings.
const (
	EnvConfig   = "PERRONS_CONFIG"
	EnvInput    = "PERRONS_INPUT"
	EnvStations = "PERRONS_STATIONS"
	EnvOutput   = "PERRONS_OUTPUT"
	EnvLogLevel = "PERRONS_LOG_LEVEL"
)

// Input formats.
const (
	FormatJSON = "json"
	FormatCSV  = "csv"
)

// Config represents the complete build configuration.
type Config struct {
	Input      InputConfig      `yaml:"input"`
	Stations   StationsConfig   `yaml:"stations"`
	Output     OutputConfig     `yaml:"output"`
	Numbers    NumbersConfig    `yaml:"numbers"`
	Logging    LoggingConfig    `yaml:"logging"`
	Exceptions ExceptionsConfig `yaml:"exceptions"`
}

// InputConfig locates the raw perron dataset.
type InputConfig struct {
	Path      string `yaml:"path"`
	Format    string `yaml:"format" validate:"omitempty,oneof=json csv"`
	Delimiter string `yaml:"delimiter" validate:"omitempty,len=1"`
}

// StationsConfig locates the station registry.
type StationsConfig struct {
	Path  string      `yaml:"path"`
	URL   string      `yaml:"url" validate:"omitempty,url"`
	Retry RetryPolicy `yaml:"retry"`
}

// IsLocalFile returns true if the registry is read from disk.
func (s *StationsConfig) IsLocalFile() bool {
	return s.Path != ""
}

// GetSource returns the file path if local, or URL if remote.
func (s *StationsConfig) GetSource() string {
	if s.IsLocalFile() {
		return s.Path
	}

	return s.URL
}

// RetryPolicy defines retry behavior for registry downloads.
type RetryPolicy struct {
	MaxAttempts       int     `yaml:"max_attempts"`
	InitialDelayMs    int     `yaml:"initial_delay_ms"`
	MaxDelayMs        int     `yaml:"max_delay_ms"`
	BackoffMultiplier float64 `yaml:"backoff_multiplier"`
	TimeoutSec        int     `yaml:"timeout_sec"`
}

// OutputConfig defines output behavior. A path of "-" writes to stdout.
type OutputConfig struct {
	Path        string `yaml:"path"`
	ReportPath  string `yaml:"report_path"`
	PrettyPrint bool   `yaml:"pretty_print"`
}

// NumbersConfig is the decimal-symbol table of the dataset and the locale
// used when printing numbers in reports.
type NumbersConfig struct {
	Decimal string `yaml:"decimal" validate:"required,len=1"`
	Group   string `yaml:"group" validate:"omitempty,len=1,nefield=Decimal"`
	Locale  string `yaml:"locale"`
}

// Symbols returns the parsing table.
func (n NumbersConfig) Symbols() normalizer.NumberSymbols {
	return normalizer.NumberSymbols{Decimal: n.Decimal, Group: n.Group}
}

// Tag returns the report locale, falling back to German.
func (n NumbersConfig) Tag() language.Tag {
	tag, err := language.Parse(n.Locale)
	if err != nil {
		return language.German
	}

	return tag
}

// ExceptionsConfig holds the known data-quality exceptions of the dataset.
type ExceptionsConfig struct {
	MissingStationNumbers []string `yaml:"missing_station_numbers" validate:"dive,required"`
	BrokenTrackIDs        []string `yaml:"broken_track_ids" validate:"dive,required,contains=:"`
}

// LoggingConfig defines logging behavior.
type LoggingConfig struct {
	Level string `yaml:"level" validate:"oneof=debug info warn error"`
}

// Default returns a configuration with the exception lists, number table
// and retry policy of the published perron dataset.
func Default() *Config {
	return &Config{
		Input: InputConfig{
			Delimiter: ";",
		},
		Stations: StationsConfig{
			Retry: RetryPolicy{
				MaxAttempts:       3,
				InitialDelayMs:    500,
				MaxDelayMs:        20000,
				BackoffMultiplier: 2.0,
				TimeoutSec:        30,
			},
		},
		Output: OutputConfig{
			PrettyPrint: true,
		},
		Numbers: NumbersConfig{
			Decimal: normalizer.GermanSymbols.Decimal,
			Group:   normalizer.GermanSymbols.Group,
			Locale:  "de-DE",
		},
		Logging: LoggingConfig{
			Level: "info",
		},
		Exceptions: ExceptionsConfig{
			MissingStationNumbers: append([]string(nil), normalizer.DefaultMissingStationNumbers...),
			BrokenTrackIDs:        append([]string(nil), normalizer.DefaultBrokenTrackIDs...),
		},
	}
}

// LoadConfig loads configuration from a YAML file on top of Default. Only the
// field formats are checked here; required paths may still come from the
// environment or flags, so callers run Validate once all layers are applied.
func LoadConfig(filepath string) (*Config, error) {
	data, err := os.ReadFile(filepath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := cfg.ValidateFields(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// LoadEnvFiles loads .env style files into the process environment. Missing
// files are ignored; with no arguments ".env" is tried.
func LoadEnvFiles(files ...string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}

	for _, f := range files {
		if _, err := os.Stat(f); errors.Is(err, os.ErrNotExist) {
			continue
		}

		if err := godotenv.Load(f); err != nil {
			return fmt.Errorf("failed to load env file %s: %w", f, err)
		}
	}

	return nil
}

// ApplyEnv overrides settings from PERRONS_* environment variables.
func (c *Config) ApplyEnv() {
	c.Input.Path = getEnv(EnvInput, c.Input.Path)
	c.Output.Path = getEnv(EnvOutput, c.Output.Path)
	c.Logging.Level = getEnv(EnvLogLevel, c.Logging.Level)

	if src := os.Getenv(EnvStations); src != "" {
		c.SetStationsSource(src)
	}
}

// SetStationsSource sets the registry location, choosing URL or path by scheme.
func (c *Config) SetStationsSource(src string) {
	if utils.IsHTTPURL(src) {
		c.Stations.URL, c.Stations.Path = src, ""
		return
	}

	c.Stations.Path, c.Stations.URL = src, ""
}

// ValidateFields checks the struct tag rules of every set field.
func (c *Config) ValidateFields() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidField, err)
	}

	return nil
}

// Validate validates the complete configuration.
func (c *Config) Validate() error {
	if err := c.ValidateFields(); err != nil {
		return err
	}

	if c.Input.Path == "" {
		return ErrMissingInputPath
	}

	if c.Stations.Path == "" && c.Stations.URL == "" {
		return ErrMissingStationsSource
	}

	if c.Stations.Path != "" && c.Stations.URL != "" {
		return ErrAmbiguousStationsSource
	}

	if c.Output.Path == "" {
		return ErrMissingOutputPath
	}

	// Validate retry policy
	if c.Stations.Retry.MaxAttempts < 1 {
		return ErrInvalidMaxAttempts
	}

	if c.Stations.Retry.InitialDelayMs < 0 {
		return ErrInvalidInitialDelay
	}

	if c.Stations.Retry.BackoffMultiplier < 1.0 {
		return ErrInvalidBackoffMultiplier
	}

	if c.Stations.Retry.TimeoutSec < 1 {
		return ErrInvalidTimeout
	}

	if c.Numbers.Locale != "" {
		if _, err := language.Parse(c.Numbers.Locale); err != nil {
			return fmt.Errorf("%w: %w", ErrInvalidLocale, err)
		}
	}

	return nil
}

// InputFormat returns the configured input format, inferred from the file
// extension when unset.
func (c *Config) InputFormat() string {
	if c.Input.Format != "" {
		return c.Input.Format
	}

	if strings.EqualFold(filepath.Ext(c.Input.Path), ".csv") {
		return FormatCSV
	}

	return FormatJSON
}

// GetRetryDelay calculates exponential backoff delay for attempt number.
func (rp *RetryPolicy) GetRetryDelay(attempt int) time.Duration {
	if attempt <= 1 {
		return 0
	}

	delayMs := float64(rp.InitialDelayMs)
	for i := 1; i < attempt; i++ {
		delayMs *= rp.BackoffMultiplier
	}

	// Cap at max delay
	if int(delayMs) > rp.MaxDelayMs {
		delayMs = float64(rp.MaxDelayMs)
	}

	return time.Duration(int(delayMs)) * time.Millisecond
}

// GetTimeout returns the timeout duration.
func (rp *RetryPolicy) GetTimeout() time.Duration {
	return time.Duration(rp.TimeoutSec) * time.Second
}

// String returns a string representation of the config.
func (c *Config) String() string {
	return fmt.Sprintf(
		"Config{Input: %s, Stations: %s, Output: %s}",
		c.Input.Path,
		c.Stations.GetSource(),
		c.Output.Path,
	)
}

// getEnv gets an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	return value
}
