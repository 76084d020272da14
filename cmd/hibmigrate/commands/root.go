// Package commands implements the hibmigrate CLI commands.
package commands

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Sumatoshi-tech/hibmigrate/pkg/config"
	"github.com/Sumatoshi-tech/hibmigrate/pkg/jtypes"
	"github.com/Sumatoshi-tech/hibmigrate/pkg/observability"
	"github.com/Sumatoshi-tech/hibmigrate/pkg/recipe"
	"github.com/Sumatoshi-tech/hibmigrate/pkg/recipes"
	"github.com/Sumatoshi-tech/hibmigrate/pkg/version"
)

type globalFlags struct {
	verbose    bool
	quiet      bool
	configPath string
}

// NewRootCommand builds the hibmigrate command tree.
func NewRootCommand() *cobra.Command {
	g := &globalFlags{}

	root := &cobra.Command{
		Use:   "hibmigrate",
		Short: "Migrate Java sources from Hibernate 5 to Hibernate 6",
		Long: `hibmigrate rewrites Java sources for Hibernate 6.0, 6.1 and 6.2.

Commands:
  run       Apply a recipe to Java files
  list      List available recipes
  describe  Show a recipe and its steps
  mcp       Serve recipes over the Model Context Protocol`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().BoolVarP(&g.verbose, "verbose", "v", false, "verbose output")
	root.PersistentFlags().BoolVarP(&g.quiet, "quiet", "q", false, "suppress output")
	root.PersistentFlags().StringVar(&g.configPath, "config", "", "config file (default: hibmigrate.yaml in ., ./config or ~/.config/hibmigrate)")

	root.AddCommand(
		newRunCommand(g),
		newListCommand(g),
		newDescribeCommand(g),
		newMCPCommand(g),
		newVersionCommand(),
	)

	return root
}

// session bundles what every command needs once configuration is loaded.
type session struct {
	cfg       *config.Config
	providers observability.Providers
	registry  *recipe.Registry
	catalog   *jtypes.Catalog
}

func (g *globalFlags) open(cmd *cobra.Command, mode observability.AppMode) (*session, error) {
	cfg, err := config.LoadConfig(g.configPath)
	if err != nil {
		return nil, err
	}

	err = cfg.Validate()
	if err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	providers, err := observability.InitWithWriter(g.observabilityConfig(cfg, mode), cmd.ErrOrStderr())
	if err != nil {
		return nil, fmt.Errorf("init observability: %w", err)
	}

	s := &session{cfg: cfg, providers: providers}

	s.registry, err = recipes.Registry(cfg.Recipes.Files...)
	if err != nil {
		return nil, s.closeWith(err)
	}

	s.catalog, err = loadCatalog(cfg.Catalog.Files)
	if err != nil {
		return nil, s.closeWith(err)
	}

	return s, nil
}

func (g *globalFlags) observabilityConfig(cfg *config.Config, mode observability.AppMode) observability.Config {
	obs := observability.DefaultConfig()
	obs.ServiceVersion = version.Version
	obs.Mode = mode
	obs.Environment = cfg.Telemetry.Environment
	obs.SampleRatio = cfg.Telemetry.SampleRatio
	obs.OTLPEndpoint = cfg.Telemetry.OTLPEndpoint
	obs.OTLPInsecure = cfg.Telemetry.OTLPInsecure || os.Getenv("OTEL_EXPORTER_OTLP_INSECURE") == "true"
	obs.OTLPHeaders = observability.ParseOTLPHeaders(os.Getenv("OTEL_EXPORTER_OTLP_HEADERS"))
	obs.LogJSON = cfg.Logging.Format == "json" || mode == observability.ModeMCP

	if obs.OTLPEndpoint == "" {
		obs.OTLPEndpoint = os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT")
	}

	var level slog.Level

	// Validate has already rejected unknown levels.
	_ = level.UnmarshalText([]byte(strings.ToLower(cfg.Logging.Level)))

	switch {
	case g.verbose:
		level = slog.LevelDebug
		obs.TraceVerbose = true
	case g.quiet:
		level = slog.LevelError
	}

	obs.LogLevel = level

	return obs
}

func loadCatalog(files []string) (*jtypes.Catalog, error) {
	cat := jtypes.DefaultCatalog()

	for _, file := range files {
		data, err := os.ReadFile(file)
		if err != nil {
			return nil, fmt.Errorf("read catalog %s: %w", file, err)
		}

		extra, err := jtypes.LoadCatalog(data)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", file, err)
		}

		cat = cat.Merge(extra)
	}

	return cat, nil
}

func (s *session) engine() *recipe.Engine {
	engine := recipe.NewEngine(s.catalog, s.providers.Logger)
	engine.Tracer = s.providers.Tracer

	return engine
}

func (s *session) close() error {
	err := s.providers.Shutdown(context.Background())
	if err != nil {
		return fmt.Errorf("observability shutdown: %w", err)
	}

	return nil
}

func (s *session) closeWith(cause error) error {
	shutdownErr := s.close()
	if shutdownErr != nil {
		s.providers.Logger.Warn("observability shutdown failed", "error", shutdownErr)
	}

	return cause
}
