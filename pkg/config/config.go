// Package config loads hibmigrate settings from defaults, an optional YAML
// file, and HIBMIGRATE_* environment variables.
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/spf13/viper"
)

// Sentinel validation errors.
var (
	ErrInvalidWorkers     = errors.New("workers must not be negative")
	ErrInvalidLogLevel    = errors.New("invalid log level")
	ErrInvalidLogFormat   = errors.New("invalid log format")
	ErrInvalidSampleRatio = errors.New("sample ratio must be within [0, 1]")
	ErrInvalidPattern     = errors.New("invalid glob pattern")
)

// EnvPrefix prefixes every environment override, e.g. HIBMIGRATE_RUN_WORKERS.
const EnvPrefix = "HIBMIGRATE"

// Config holds all hibmigrate settings.
type Config struct {
	Run       RunConfig       `mapstructure:"run"`
	Recipes   RecipesConfig   `mapstructure:"recipes"`
	Catalog   CatalogConfig   `mapstructure:"catalog"`
	Logging   LoggingConfig   `mapstructure:"logging"`
	Telemetry TelemetryConfig `mapstructure:"telemetry"`
}

// RunConfig controls file discovery and execution.
type RunConfig struct {
	Include    []string `mapstructure:"include"`
	Exclude    []string `mapstructure:"exclude"`
	Workers    int      `mapstructure:"workers"`
	DryRun     bool     `mapstructure:"dry_run"`
	GitTracked bool     `mapstructure:"git_tracked"`
}

// RecipesConfig lists extra declarative recipe files.
type RecipesConfig struct {
	Files []string `mapstructure:"files"`
}

// CatalogConfig lists extra type catalog files merged over the built-in one.
type CatalogConfig struct {
	Files []string `mapstructure:"files"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// TelemetryConfig holds OpenTelemetry export settings.
type TelemetryConfig struct {
	OTLPEndpoint string  `mapstructure:"otlp_endpoint"`
	Environment  string  `mapstructure:"environment"`
	SampleRatio  float64 `mapstructure:"sample_ratio"`
	OTLPInsecure bool    `mapstructure:"otlp_insecure"`
}

// LoadConfig reads configPath, or searches for hibmigrate.yaml when it is
// empty. A missing searched file is not an error; a missing explicit one is.
func LoadConfig(configPath string) (*Config, error) {
	v := viper.New()

	setDefaults(v)

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("hibmigrate")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
		v.AddConfigPath("$HOME/.config/hibmigrate")
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	readErr := v.ReadInConfig()
	if readErr != nil {
		var notFoundErr viper.ConfigFileNotFoundError
		if !errors.As(readErr, &notFoundErr) {
			return nil, fmt.Errorf("failed to read config file: %w", readErr)
		}
	}

	var cfg Config

	err := v.Unmarshal(&cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	err = cfg.Validate()
	if err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("run.workers", DefaultWorkers)
	v.SetDefault("run.dry_run", DefaultDryRun)
	v.SetDefault("run.git_tracked", DefaultGitTracked)
	v.SetDefault("run.include", []string{})
	v.SetDefault("run.exclude", DefaultExclude)

	v.SetDefault("recipes.files", []string{})
	v.SetDefault("catalog.files", []string{})

	v.SetDefault("logging.level", DefaultLogLevel)
	v.SetDefault("logging.format", DefaultLogFormat)

	v.SetDefault("telemetry.otlp_endpoint", "")
	v.SetDefault("telemetry.otlp_insecure", DefaultOTLPInsecure)
	v.SetDefault("telemetry.environment", "")
	v.SetDefault("telemetry.sample_ratio", DefaultSampleRatio)
}

// Validate checks every section, joining all problems found.
func (c *Config) Validate() error {
	var errs []error

	if c.Run.Workers < 0 {
		errs = append(errs, fmt.Errorf("%w: %d", ErrInvalidWorkers, c.Run.Workers))
	}

	for _, pattern := range append(append([]string{}, c.Run.Include...), c.Run.Exclude...) {
		if !doublestar.ValidatePattern(pattern) {
			errs = append(errs, fmt.Errorf("%w: %q", ErrInvalidPattern, pattern))
		}
	}

	switch strings.ToLower(c.Logging.Level) {
	case "debug", "info", "warn", "error":
	default:
		errs = append(errs, fmt.Errorf("%w: %q", ErrInvalidLogLevel, c.Logging.Level))
	}

	switch c.Logging.Format {
	case "text", "json":
	default:
		errs = append(errs, fmt.Errorf("%w: %q", ErrInvalidLogFormat, c.Logging.Format))
	}

	if c.Telemetry.SampleRatio < 0 || c.Telemetry.SampleRatio > 1 {
		errs = append(errs, fmt.Errorf("%w: %v", ErrInvalidSampleRatio, c.Telemetry.SampleRatio))
	}

	return errors.Join(errs...)
}
