package report

import (
	"fmt"
	"io"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/Sumatoshi-tech/hibmigrate/pkg/pipeline"
)

// WriteSummary renders the run totals, the per-recipe change counts, any
// warnings, and any failed files as plain tables. Paths are shown relative
// to base when possible.
func WriteSummary(w io.Writer, s *pipeline.Summary, base string) error {
	var b strings.Builder

	mode := "applied"
	if s.DryRun {
		mode = "dry run"
	}

	fmt.Fprintf(&b, "%s (%s)\n\n", s.Recipe, mode)

	totals := newTable()
	totals.AppendRows([]table.Row{
		{"Files scanned", humanize.Comma(int64(len(s.Files)))},
		{"Files changed", humanize.Comma(int64(s.Changed))},
		{"Warnings", humanize.Comma(int64(s.Warnings))},
		{"Failed", humanize.Comma(int64(s.Failed))},
		{"Lines scanned", humanize.Comma(s.LinesScanned)},
		{"Bytes scanned", humanize.Bytes(uint64(max(s.BytesScanned, 0)))},
		{"Duration", s.Duration.Round(time.Millisecond).String()},
	})
	b.WriteString(totals.Render())
	b.WriteString("\n")

	if len(s.RecipeChanges) > 0 {
		changes := newTable()
		changes.AppendHeader(table.Row{"Recipe", "Files"})

		for _, name := range sortedRecipes(s.RecipeChanges) {
			changes.AppendRow(table.Row{name, humanize.Comma(int64(s.RecipeChanges[name]))})
		}

		b.WriteString("\n")
		b.WriteString(changes.Render())
		b.WriteString("\n")
	}

	if s.Warnings > 0 {
		warnings := newTable()
		warnings.AppendHeader(table.Row{"Location", "Recipe", "Message"})

		for _, f := range s.Files {
			for _, wn := range f.Warnings {
				warnings.AppendRow(table.Row{fmt.Sprintf("%s:%d", relative(base, f.Path), wn.Line), wn.Recipe, wn.Message})
			}
		}

		b.WriteString("\n")
		b.WriteString(warnings.Render())
		b.WriteString("\n")
	}

	if failures := s.Failures(); len(failures) > 0 {
		failed := newTable()
		failed.AppendHeader(table.Row{"File", "Error"})

		for _, f := range failures {
			failed.AppendRow(table.Row{relative(base, f.Path), f.Error})
		}

		b.WriteString("\n")
		b.WriteString(failed.Render())
		b.WriteString("\n")
	}

	if len(s.Skipped) > 0 {
		b.WriteString("\nNot applied to Java sources:\n")

		for _, step := range s.Skipped {
			fmt.Fprintf(&b, "  %s\n", step)
		}
	}

	_, err := io.WriteString(w, b.String())
	if err != nil {
		return fmt.Errorf("write summary: %w", err)
	}

	return nil
}

func newTable() table.Writer {
	tbl := table.NewWriter()
	tbl.SetStyle(table.StyleLight)
	tbl.Style().Options.DrawBorder = false
	tbl.Style().Options.SeparateColumns = false
	tbl.Style().Options.SeparateRows = false

	return tbl
}

// sortedRecipes orders recipe names by change count, then by name.
func sortedRecipes(changes map[string]int) []string {
	names := make([]string, 0, len(changes))
	for name := range changes {
		names = append(names, name)
	}

	sort.Slice(names, func(i, j int) bool {
		if changes[names[i]] != changes[names[j]] {
			return changes[names[i]] > changes[names[j]]
		}

		return names[i] < names[j]
	})

	return names
}

func relative(base, path string) string {
	if base == "" {
		return path
	}

	rel, err := filepath.Rel(base, path)
	if err != nil || strings.HasPrefix(rel, "..") {
		return path
	}

	return filepath.ToSlash(rel)
}
