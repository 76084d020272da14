package commands

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/Sumatoshi-tech/hibmigrate/pkg/mcp"
	"github.com/Sumatoshi-tech/hibmigrate/pkg/observability"
)

func newMCPCommand(g *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "mcp",
		Short: "Start MCP server for AI agent integration",
		Long: `Start a Model Context Protocol (MCP) server on stdio transport.

Tools:
  - hibmigrate_list_recipes: list recipes with their kind and description
  - hibmigrate_apply: run a recipe over inline Java source and return the
    rewritten source, a diff and any warnings`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) (err error) {
			s, err := g.open(cmd, observability.ModeMCP)
			if err != nil {
				return err
			}

			defer func() {
				err = errors.Join(err, s.close())
			}()

			red, err := observability.NewREDMetrics(s.providers.Meter)
			if err != nil {
				return err
			}

			srv := mcp.NewServer(mcp.ServerDeps{
				Registry: s.registry,
				Engine:   s.engine(),
				Logger:   s.providers.Logger,
				Metrics:  red,
				Tracer:   s.providers.Tracer,
			})

			return srv.Run(cmd.Context())
		},
	}
}
