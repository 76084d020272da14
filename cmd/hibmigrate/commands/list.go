package commands

import (
	"errors"
	"fmt"
	"io"
	"maps"
	"slices"
	"strings"

	"github.com/jedib0t/go-pretty/v6/list"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/Sumatoshi-tech/hibmigrate/pkg/observability"
	"github.com/Sumatoshi-tech/hibmigrate/pkg/recipe"
)

// ErrInvalidKind is returned by list for an unknown --kind value.
var ErrInvalidKind = errors.New("kind must be one of rule, composite, external")

func newListCommand(g *globalFlags) *cobra.Command {
	var kind string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List available recipes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) (err error) {
			switch kind {
			case "", "rule", "composite", "external":
			default:
				return fmt.Errorf("%w: %q", ErrInvalidKind, kind)
			}

			s, err := g.open(cmd, observability.ModeCLI)
			if err != nil {
				return err
			}

			defer func() {
				err = errors.Join(err, s.close())
			}()

			return writeRecipeTable(cmd.OutOrStdout(), s.registry.All(), kind)
		},
	}

	cmd.Flags().StringVar(&kind, "kind", "", "only list recipes of this kind: rule, composite or external")

	return cmd
}

func writeRecipeTable(w io.Writer, all []recipe.Recipe, kind string) error {
	tbl := table.NewWriter()
	tbl.SetStyle(table.StyleLight)
	tbl.Style().Options.DrawBorder = false
	tbl.Style().Options.SeparateColumns = false
	tbl.AppendHeader(table.Row{"Name", "Kind", "Description"})

	count := 0

	for _, r := range all {
		if kind != "" && recipe.Kind(r) != kind {
			continue
		}

		tbl.AppendRow(table.Row{r.Name(), recipe.Kind(r), r.DisplayName()})

		count++
	}

	tbl.AppendFooter(table.Row{fmt.Sprintf("Total: %d recipes", count)})

	_, err := fmt.Fprintln(w, tbl.Render())

	return err
}

func newDescribeCommand(g *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "describe <recipe>",
		Short: "Show a recipe and its steps",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) (err error) {
			s, err := g.open(cmd, observability.ModeCLI)
			if err != nil {
				return err
			}

			defer func() {
				err = errors.Join(err, s.close())
			}()

			rec, err := s.registry.Lookup(args[0])
			if err != nil {
				return err
			}

			return describeRecipe(cmd.OutOrStdout(), rec)
		},
	}
}

func describeRecipe(w io.Writer, rec recipe.Recipe) error {
	var b strings.Builder

	fmt.Fprintf(&b, "%s (%s)\n", rec.Name(), recipe.Kind(rec))

	if rec.DisplayName() != "" {
		fmt.Fprintf(&b, "  %s\n", rec.DisplayName())
	}

	if rec.Description() != "" {
		fmt.Fprintf(&b, "\n%s\n", rec.Description())
	}

	if composite, ok := rec.(*recipe.Composite); ok {
		steps := list.NewWriter()
		steps.SetStyle(list.StyleConnectedLight)
		appendSteps(steps, composite)

		fmt.Fprintf(&b, "\nSteps:\n%s\n", steps.Render())
	}

	if external, ok := rec.(*recipe.External); ok && len(external.Options) > 0 {
		b.WriteString("\nOptions:\n")

		for _, key := range slices.Sorted(maps.Keys(external.Options)) {
			fmt.Fprintf(&b, "  %s: %s\n", key, external.Options[key])
		}
	}

	_, err := io.WriteString(w, b.String())

	return err
}

func appendSteps(l list.Writer, composite *recipe.Composite) {
	for _, step := range composite.Steps {
		l.AppendItem(step.Name())

		if nested, ok := step.(*recipe.Composite); ok {
			l.Indent()
			appendSteps(l, nested)
			l.UnIndent()
		}
	}
}
