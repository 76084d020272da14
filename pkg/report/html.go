package report

import (
	"fmt"
	"io"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/Sumatoshi-tech/hibmigrate/pkg/pipeline"
)

const labelRotation = 30

// WriteHTML renders a standalone page with a bar chart of changed files per
// recipe.
func WriteHTML(w io.Writer, s *pipeline.Summary) error {
	names := sortedRecipes(s.RecipeChanges)
	data := make([]opts.BarData, 0, len(names))
	labels := make([]string, 0, len(names))

	for _, name := range names {
		labels = append(labels, shortName(name))
		data = append(data, opts.BarData{Name: name, Value: s.RecipeChanges[name]})
	}

	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{
			PageTitle: "hibmigrate report",
			Width:     "1200px",
			Height:    "600px",
		}),
		charts.WithTitleOpts(opts.Title{
			Title: s.Recipe,
			Subtitle: fmt.Sprintf("%d of %d files changed, %d warnings, %d failed",
				s.Changed, len(s.Files), s.Warnings, s.Failed),
		}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithXAxisOpts(opts.XAxis{
			Name:      "Recipe",
			AxisLabel: &opts.AxisLabel{Rotate: labelRotation, Interval: "0"},
		}),
		charts.WithYAxisOpts(opts.YAxis{Name: "Files"}),
	)

	bar.SetXAxis(labels).AddSeries("Files changed", data)

	err := bar.Render(w)
	if err != nil {
		return fmt.Errorf("render html report: %w", err)
	}

	return nil
}

// shortName drops the package qualifier of a recipe name.
func shortName(name string) string {
	for i := len(name) - 1; i >= 0; i-- {
		if name[i] == '.' {
			return name[i+1:]
		}
	}

	return name
}
