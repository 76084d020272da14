package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"runtime"
	"slices"
	"sort"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"github.com/Sumatoshi-tech/hibmigrate/pkg/observability"
	"github.com/Sumatoshi-tech/hibmigrate/pkg/recipe"
	"github.com/Sumatoshi-tech/hibmigrate/pkg/textutil"
)

var (
	// ErrInvalidWorkers is returned for a negative worker count.
	ErrInvalidWorkers = errors.New("workers must not be negative")
	// ErrBinaryContent marks a .java file that holds binary data.
	ErrBinaryContent = errors.New("file has binary content")
)

// Options configures one run.
type Options struct {
	Paths  []string
	Filter Filter
	// Workers bounds parallelism. Zero uses GOMAXPROCS.
	Workers int
	// DryRun computes results without writing files.
	DryRun bool
}

// FileResult is the outcome for one file.
type FileResult struct {
	Path     string           `json:"path"`
	Changed  bool             `json:"changed"`
	Rules    []string         `json:"rules,omitempty"`
	Warnings []recipe.Warning `json:"warnings,omitempty"`
	Error    string           `json:"error,omitempty"`
	Bytes    int              `json:"bytes"`
	Lines    int              `json:"lines"`
	Duration time.Duration    `json:"duration_ns"`

	Before []byte `json:"-"`
	After  []byte `json:"-"`
	Err    error  `json:"-"`
}

// Summary aggregates a run.
type Summary struct {
	Recipe string       `json:"recipe"`
	DryRun bool         `json:"dry_run"`
	Files  []FileResult `json:"files"`
	// RecipeChanges counts changed files per rule.
	RecipeChanges map[string]int `json:"recipe_changes"`
	// Skipped lists the external steps that do not apply to Java sources.
	Skipped      []string      `json:"skipped,omitempty"`
	Changed      int           `json:"changed"`
	Warnings     int           `json:"warnings"`
	Failed       int           `json:"failed"`
	BytesScanned int64         `json:"bytes_scanned"`
	LinesScanned int64         `json:"lines_scanned"`
	Duration     time.Duration `json:"duration_ns"`
}

// Failures returns the results whose file could not be migrated.
func (s *Summary) Failures() []FileResult {
	var out []FileResult

	for _, f := range s.Files {
		if f.Err != nil {
			out = append(out, f)
		}
	}

	return out
}

// Runner migrates files with an engine. The zero value uses a default
// engine, the default logger and the global tracer.
type Runner struct {
	Engine  *recipe.Engine
	Logger  *slog.Logger
	Tracer  trace.Tracer
	Metrics *observability.RecipeMetrics
}

func (r *Runner) engine() *recipe.Engine {
	if r.Engine != nil {
		return r.Engine
	}

	return recipe.NewEngine(nil, r.logger())
}

func (r *Runner) logger() *slog.Logger {
	if r.Logger != nil {
		return r.Logger
	}

	return slog.Default()
}

func (r *Runner) tracer() trace.Tracer {
	if r.Tracer != nil {
		return r.Tracer
	}

	return otel.Tracer(observability.TracerName)
}

// Run discovers files and applies rec to each. A failing file is recorded in
// the summary and the batch continues; only discovery problems and
// cancellation abort the run.
func (r *Runner) Run(ctx context.Context, rec recipe.Recipe, opts Options) (*Summary, error) {
	if opts.Workers < 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidWorkers, opts.Workers)
	}

	ctx, span := r.tracer().Start(ctx, "hibmigrate.pipeline",
		trace.WithAttributes(
			attribute.String("recipe.name", rec.Name()),
			attribute.Bool("pipeline.dry_run", opts.DryRun),
		))
	defer span.End()

	start := time.Now()

	files, err := Discover(opts.Paths, opts.Filter)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())

		return nil, err
	}

	span.SetAttributes(attribute.Int("pipeline.files", len(files)))
	r.logger().InfoContext(ctx, "migrating", "recipe", rec.Name(), "files", len(files), "dry_run", opts.DryRun)

	results := make([]FileResult, len(files))
	engine := r.engine()

	workers := opts.Workers
	if workers == 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for i, path := range files {
		g.Go(func() error {
			if gctx.Err() != nil {
				return gctx.Err()
			}

			results[i] = r.migrateFile(gctx, engine, rec, path, opts.DryRun)

			return nil
		})
	}

	err = g.Wait()
	if err != nil {
		span.SetStatus(codes.Error, err.Error())

		return nil, fmt.Errorf("migration cancelled: %w", err)
	}

	summary := summarize(rec, opts.DryRun, results)
	summary.Duration = time.Since(start)

	span.SetAttributes(
		attribute.Int("pipeline.changed", summary.Changed),
		attribute.Int("pipeline.failed", summary.Failed),
	)

	return summary, nil
}

func (r *Runner) migrateFile(ctx context.Context, engine *recipe.Engine, rec recipe.Recipe, path string, dryRun bool) (res FileResult) {
	ctx, span := r.tracer().Start(ctx, "hibmigrate.file", trace.WithAttributes(attribute.String("file.path", path)))
	defer span.End()

	start := time.Now()
	res.Path = path

	defer func() {
		res.Duration = time.Since(start)
		r.Metrics.RecordFile(ctx, observability.FileStats{
			Changed:  res.Changed,
			Rules:    res.Rules,
			Warnings: len(res.Warnings),
			Failed:   res.Err != nil,
			Duration: res.Duration,
		})
	}()

	fail := func(err error) FileResult {
		res.Err = err
		res.Error = err.Error()

		span.SetStatus(codes.Error, err.Error())
		r.logger().WarnContext(ctx, "file not migrated", "file", path, "error", err)

		return res
	}

	info, err := os.Stat(path)
	if err != nil {
		return fail(fmt.Errorf("stat: %w", err))
	}

	src, err := os.ReadFile(path)
	if err != nil {
		return fail(fmt.Errorf("read: %w", err))
	}

	res.Bytes = len(src)
	res.Before = src
	res.After = src

	if textutil.IsBinary(src) {
		return fail(ErrBinaryContent)
	}

	res.Lines = textutil.CountLines(src)

	out, err := engine.Run(ctx, rec, path, src)
	if err != nil {
		return fail(err)
	}

	res.After = out.After
	res.Rules = out.Rules
	res.Warnings = out.Warnings
	res.Changed = out.Changed()

	if res.Changed && !dryRun {
		err = os.WriteFile(path, out.After, info.Mode().Perm())
		if err != nil {
			return fail(fmt.Errorf("write: %w", err))
		}
	}

	span.SetAttributes(attribute.Bool("file.changed", res.Changed))

	if res.Changed {
		r.logger().DebugContext(ctx, "file migrated", "file", path, "rules", res.Rules, "warnings", len(res.Warnings))
	}

	return res
}

func summarize(rec recipe.Recipe, dryRun bool, results []FileResult) *Summary {
	summary := &Summary{
		Recipe:        rec.Name(),
		DryRun:        dryRun,
		Files:         results,
		RecipeChanges: make(map[string]int),
	}

	for _, f := range results {
		summary.BytesScanned += int64(f.Bytes)
		summary.LinesScanned += int64(f.Lines)
		summary.Warnings += len(f.Warnings)

		if f.Err != nil {
			summary.Failed++

			continue
		}

		if f.Changed {
			summary.Changed++
		}

		for _, rule := range f.Rules {
			summary.RecipeChanges[rule]++
		}
	}

	for _, step := range recipe.Flatten(rec) {
		if recipe.Kind(step) == "external" && !slices.Contains(summary.Skipped, step.Name()) {
			summary.Skipped = append(summary.Skipped, step.Name())
		}
	}

	sort.Slice(summary.Files, func(i, j int) bool { return summary.Files[i].Path < summary.Files[j].Path })

	return summary
}
