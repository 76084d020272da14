package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sumatoshi-tech/hibmigrate/pkg/config"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "hibmigrate.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	return path
}

func TestLoadConfig_EmptyFileUsesDefaults(t *testing.T) {
	t.Parallel()

	cfg, err := config.LoadConfig(writeConfig(t, ""))
	require.NoError(t, err)

	assert.Equal(t, config.DefaultWorkers, cfg.Run.Workers)
	assert.Equal(t, config.DefaultExclude, cfg.Run.Exclude)
	assert.Empty(t, cfg.Run.Include)
	assert.False(t, cfg.Run.DryRun)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, "text", cfg.Logging.Format)
	assert.InDelta(t, 1.0, cfg.Telemetry.SampleRatio, 0)
	assert.Empty(t, cfg.Telemetry.OTLPEndpoint)
}

func TestLoadConfig_FileValues(t *testing.T) {
	t.Parallel()

	cfg, err := config.LoadConfig(writeConfig(t, `
run:
  workers: 4
  dry_run: true
  git_tracked: true
  include: ["src/main/**"]
  exclude: []
recipes:
  files: [team-recipes.yaml]
catalog:
  files: [catalog.yaml]
logging:
  level: debug
  format: json
telemetry:
  otlp_endpoint: localhost:4317
  otlp_insecure: true
  environment: ci
  sample_ratio: 0.25
`))
	require.NoError(t, err)

	assert.Equal(t, 4, cfg.Run.Workers)
	assert.True(t, cfg.Run.DryRun)
	assert.True(t, cfg.Run.GitTracked)
	assert.Equal(t, []string{"src/main/**"}, cfg.Run.Include)
	assert.Empty(t, cfg.Run.Exclude)
	assert.Equal(t, []string{"team-recipes.yaml"}, cfg.Recipes.Files)
	assert.Equal(t, []string{"catalog.yaml"}, cfg.Catalog.Files)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "json", cfg.Logging.Format)
	assert.Equal(t, "localhost:4317", cfg.Telemetry.OTLPEndpoint)
	assert.True(t, cfg.Telemetry.OTLPInsecure)
	assert.Equal(t, "ci", cfg.Telemetry.Environment)
	assert.InDelta(t, 0.25, cfg.Telemetry.SampleRatio, 0.0001)
}

// Not parallel: t.Setenv.
func TestLoadConfig_EnvOverridesFile(t *testing.T) {
	t.Setenv("HIBMIGRATE_RUN_WORKERS", "6")
	t.Setenv("HIBMIGRATE_LOGGING_FORMAT", "json")

	cfg, err := config.LoadConfig(writeConfig(t, "run:\n  workers: 2\n"))
	require.NoError(t, err)

	assert.Equal(t, 6, cfg.Run.Workers)
	assert.Equal(t, "json", cfg.Logging.Format)
}

func TestLoadConfig_MissingExplicitFile(t *testing.T) {
	t.Parallel()

	_, err := config.LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
}

func TestLoadConfig_Invalid(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		content string
		want    error
	}{
		{"negative workers", "run:\n  workers: -1\n", config.ErrInvalidWorkers},
		{"bad level", "logging:\n  level: loud\n", config.ErrInvalidLogLevel},
		{"bad format", "logging:\n  format: xml\n", config.ErrInvalidLogFormat},
		{"bad ratio", "telemetry:\n  sample_ratio: 2\n", config.ErrInvalidSampleRatio},
		{"bad glob", "run:\n  include: [\"src/[\"]\n", config.ErrInvalidPattern},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := config.LoadConfig(writeConfig(t, tt.content))
			require.ErrorIs(t, err, tt.want)
		})
	}
}

func TestValidate_JoinsErrors(t *testing.T) {
	t.Parallel()

	cfg := config.Config{
		Run:     config.RunConfig{Workers: -2},
		Logging: config.LoggingConfig{Level: "info", Format: "yaml"},
	}

	err := cfg.Validate()
	require.ErrorIs(t, err, config.ErrInvalidWorkers)
	require.ErrorIs(t, err, config.ErrInvalidLogFormat)
}
