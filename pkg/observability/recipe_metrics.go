package observability

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const (
	metricFilesTotal    = "hibmigrate.files.total"
	metricFilesChanged  = "hibmigrate.files.changed"
	metricRecipeChanges = "hibmigrate.recipe.changes"
	metricWarningsTotal = "hibmigrate.warnings.total"
	metricErrorsTotal   = "hibmigrate.errors.total"
	metricFileDuration  = "hibmigrate.file.duration.seconds"

	attrRecipe = "recipe"
)

var fileBuckets = []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5}

// RecipeMetrics holds the instruments recorded once per migrated file.
type RecipeMetrics struct {
	filesTotal    metric.Int64Counter
	filesChanged  metric.Int64Counter
	recipeChanges metric.Int64Counter
	warningsTotal metric.Int64Counter
	errorsTotal   metric.Int64Counter
	fileDuration  metric.Float64Histogram
}

// FileStats is the outcome of one file, decoupled from pipeline types.
type FileStats struct {
	Changed bool
	// Rules are the rules that changed the file.
	Rules    []string
	Warnings int
	Failed   bool
	Duration time.Duration
}

// NewRecipeMetrics creates the per-file instruments from the given meter.
func NewRecipeMetrics(mt metric.Meter) (*RecipeMetrics, error) {
	b := newMetricBuilder(mt)

	rm := &RecipeMetrics{
		filesTotal:    b.counter(metricFilesTotal, "Java files processed", "{file}"),
		filesChanged:  b.counter(metricFilesChanged, "Java files rewritten", "{file}"),
		recipeChanges: b.counter(metricRecipeChanges, "Files changed per recipe", "{file}"),
		warningsTotal: b.counter(metricWarningsTotal, "Warning markers inserted", "{warning}"),
		errorsTotal:   b.counter(metricErrorsTotal, "Files that failed to migrate", "{file}"),
		fileDuration:  b.histogram(metricFileDuration, "Per-file migration time in seconds", "s", fileBuckets...),
	}

	if b.err != nil {
		return nil, b.err
	}

	return rm, nil
}

// RecordFile records one file. Safe to call on a nil receiver (no-op).
func (rm *RecipeMetrics) RecordFile(ctx context.Context, stats FileStats) {
	if rm == nil {
		return
	}

	rm.filesTotal.Add(ctx, 1)
	rm.fileDuration.Record(ctx, stats.Duration.Seconds())

	if stats.Failed {
		rm.errorsTotal.Add(ctx, 1)

		return
	}

	if stats.Changed {
		rm.filesChanged.Add(ctx, 1)
	}

	for _, rule := range stats.Rules {
		rm.recipeChanges.Add(ctx, 1, metric.WithAttributes(attribute.String(attrRecipe, rule)))
	}

	if stats.Warnings > 0 {
		rm.warningsTotal.Add(ctx, int64(stats.Warnings))
	}
}
