package recipe

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/Sumatoshi-tech/hibmigrate/pkg/imports"
	"github.com/Sumatoshi-tech/hibmigrate/pkg/jast"
	"github.com/Sumatoshi-tech/hibmigrate/pkg/jtypes"
)

// ErrSyntax is returned for files the Java grammar cannot parse cleanly.
var ErrSyntax = errors.New("java syntax error")

// tracerName is the default OTel tracer name for recipe execution.
const tracerName = "hibmigrate"

// Result describes what a recipe did to one file.
type Result struct {
	Path   string
	Before []byte
	After  []byte
	// Rules lists the rules that changed the file, in execution order.
	Rules    []string
	Warnings []Warning
	// Skipped lists external steps that do not apply to Java sources.
	Skipped []string
}

// Changed reports whether the output differs from the input.
func (r *Result) Changed() bool {
	return !bytes.Equal(r.Before, r.After)
}

// Engine runs recipes over Java source. The zero value is usable and an
// Engine is safe for concurrent use.
type Engine struct {
	// Catalog supplies type information. When nil, the built-in catalog is used.
	Catalog *jtypes.Catalog
	Logger  *slog.Logger
	// Tracer creates per-step spans. When nil, falls back to otel.Tracer("hibmigrate").
	Tracer trace.Tracer

	parserOnce sync.Once
	parser     *jast.Parser
}

// NewEngine creates an engine using the given catalog.
func NewEngine(cat *jtypes.Catalog, logger *slog.Logger) *Engine {
	return &Engine{Catalog: cat, Logger: logger}
}

func (e *Engine) tracer() trace.Tracer {
	if e.Tracer != nil {
		return e.Tracer
	}

	return otel.Tracer(tracerName)
}

func (e *Engine) logger() *slog.Logger {
	if e.Logger != nil {
		return e.Logger
	}

	return slog.Default()
}

func (e *Engine) catalog() *jtypes.Catalog {
	if e.Catalog != nil {
		return e.Catalog
	}

	return jtypes.DefaultCatalog()
}

func (e *Engine) parse(ctx context.Context, path string, src []byte) (*jast.File, error) {
	e.parserOnce.Do(func() { e.parser = jast.NewParser() })

	file, err := e.parser.Parse(ctx, path, src)
	if err != nil {
		return nil, err
	}

	if file.HasErrors() {
		return nil, fmt.Errorf("%w: %s", ErrSyntax, path)
	}

	return file, nil
}

// Run applies r to src. A failing step aborts this file only; the caller
// decides whether the batch continues.
func (e *Engine) Run(ctx context.Context, r Recipe, path string, src []byte) (*Result, error) {
	res := &Result{Path: path, Before: src, After: src}

	err := e.run(ctx, r, res)
	if err != nil {
		return nil, err
	}

	return res, nil
}

func (e *Engine) run(ctx context.Context, r Recipe, res *Result) error {
	switch step := r.(type) {
	case *Composite:
		return e.runComposite(ctx, step, res)
	case *External:
		res.Skipped = append(res.Skipped, step.Name())

		return nil
	case Rule:
		return e.runRule(ctx, step, res)
	default:
		return fmt.Errorf("%w: %s has no executable form", ErrUnknownRecipe, r.Name())
	}
}

func (e *Engine) runComposite(ctx context.Context, composite *Composite, res *Result) error {
	if composite.Precondition != nil {
		file, err := e.parse(ctx, res.Path, res.After)
		if err != nil {
			return err
		}

		if !composite.Precondition.Check(jtypes.NewScope(file, e.catalog())) {
			return nil
		}
	}

	for _, step := range composite.Steps {
		err := e.run(ctx, step, res)
		if err != nil {
			return err
		}
	}

	return nil
}

func (e *Engine) runRule(ctx context.Context, rule Rule, res *Result) error {
	ctx, span := e.tracer().Start(ctx, "hibmigrate.recipe",
		trace.WithAttributes(
			attribute.String("recipe.name", rule.Name()),
			attribute.String("file.path", res.Path),
		))
	defer span.End()

	file, err := e.parse(ctx, res.Path, res.After)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())

		return err
	}

	scope := jtypes.NewScope(file, e.catalog())
	if !rule.Gate().Check(scope) {
		span.SetAttributes(attribute.Bool("recipe.gated", true))

		return nil
	}

	rc := NewContext(rule.Name(), scope, e.logger())

	err = rule.Visit(rc)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())

		return fmt.Errorf("%s: %w", rule.Name(), err)
	}

	out, err := e.finish(ctx, rc)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())

		return fmt.Errorf("%s: %w", rule.Name(), err)
	}

	span.SetAttributes(attribute.Int("recipe.edits", rc.Edits()))
	rc.Logger.DebugContext(ctx, "recipe visited", "edits", rc.Edits())

	res.Warnings = append(res.Warnings, rc.Warnings()...)

	if !bytes.Equal(out, res.After) {
		res.Rules = append(res.Rules, rule.Name())
		res.After = out
	}

	return nil
}

// finish applies queued edits and then reconciles imports on the re-parsed
// output, so reference counts reflect the rewritten code.
func (e *Engine) finish(ctx context.Context, rc *Context) ([]byte, error) {
	out, err := rc.buf.Apply()
	if err != nil {
		return nil, err
	}

	if rc.plan.Empty() {
		return out, nil
	}

	file, err := e.parse(ctx, rc.File.Path, out)
	if err != nil {
		return nil, fmt.Errorf("reparse rewritten source: %w", err)
	}

	return imports.Reconcile(file, e.catalog(), rc.plan)
}
