package commands

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"go.opentelemetry.io/otel/metric"

	"github.com/Sumatoshi-tech/hibmigrate/pkg/config"
	"github.com/Sumatoshi-tech/hibmigrate/pkg/observability"
	"github.com/Sumatoshi-tech/hibmigrate/pkg/pipeline"
	"github.com/Sumatoshi-tech/hibmigrate/pkg/recipe"
	"github.com/Sumatoshi-tech/hibmigrate/pkg/report"
)

// ErrFilesFailed is returned when at least one file could not be migrated.
var ErrFilesFailed = errors.New("some files could not be migrated")

type runCommand struct {
	g *globalFlags

	dryRun      bool
	diff        bool
	noColor     bool
	gitTracked  bool
	workers     int
	include     []string
	exclude     []string
	reportJSON  string
	reportHTML  string
	metricsFile string
}

func newRunCommand(g *globalFlags) *cobra.Command {
	rc := &runCommand{g: g}

	cmd := &cobra.Command{
		Use:   "run <recipe> [paths...]",
		Short: "Apply a recipe to Java files",
		Long: `Apply a recipe to every Java file under the given paths (default: the
current directory). Files are rewritten in place unless --dry-run is set.`,
		Example: `  hibmigrate run hibmigrate.hibernate.MigrateToHibernate62 src/
  hibmigrate run hibmigrate.hibernate.MigrateToHibernate60 --dry-run --diff .`,
		Args: cobra.MinimumNArgs(1),
		RunE: rc.run,
	}

	cmd.Flags().BoolVar(&rc.dryRun, "dry-run", config.DefaultDryRun, "compute changes without writing files")
	cmd.Flags().BoolVar(&rc.diff, "diff", false, "print a unified diff of every changed file")
	cmd.Flags().BoolVar(&rc.noColor, "no-color", false, "disable colored diff output")
	cmd.Flags().IntVar(&rc.workers, "workers", config.DefaultWorkers, "parallel workers (0 = GOMAXPROCS)")
	cmd.Flags().StringSliceVar(&rc.include, "include", nil, "only migrate files matching these globs (relative to each path)")
	cmd.Flags().StringSliceVar(&rc.exclude, "exclude", nil, "skip files matching these globs (relative to each path)")
	cmd.Flags().BoolVar(&rc.gitTracked, "git-tracked", config.DefaultGitTracked, "only migrate files tracked by git")
	cmd.Flags().StringVar(&rc.reportJSON, "report-json", "", "write a JSON report to this file")
	cmd.Flags().StringVar(&rc.reportHTML, "report-html", "", "write an HTML chart of changes per recipe to this file")
	cmd.Flags().StringVar(&rc.metricsFile, "metrics-file", "", "write run metrics in Prometheus text format to this file")

	return cmd
}

// options merges the loaded configuration with flags the user set explicitly.
func (rc *runCommand) options(cmd *cobra.Command, cfg *config.Config, paths []string) pipeline.Options {
	opts := pipeline.Options{
		Paths: paths,
		Filter: pipeline.Filter{
			Include:    cfg.Run.Include,
			Exclude:    cfg.Run.Exclude,
			GitTracked: cfg.Run.GitTracked,
		},
		Workers: cfg.Run.Workers,
		DryRun:  cfg.Run.DryRun,
	}

	flags := cmd.Flags()

	if flags.Changed("include") {
		opts.Filter.Include = rc.include
	}

	if flags.Changed("exclude") {
		opts.Filter.Exclude = rc.exclude
	}

	if flags.Changed("git-tracked") {
		opts.Filter.GitTracked = rc.gitTracked
	}

	if flags.Changed("workers") {
		opts.Workers = rc.workers
	}

	if flags.Changed("dry-run") {
		opts.DryRun = rc.dryRun
	}

	return opts
}

func (rc *runCommand) run(cmd *cobra.Command, args []string) (err error) {
	paths := args[1:]
	if len(paths) == 0 {
		paths = []string{"."}
	}

	s, err := rc.g.open(cmd, observability.ModeCLI)
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

	meter := s.providers.Meter

	var textfile *observability.Textfile

	if rc.metricsFile != "" {
		textfile, err = observability.NewTextfile()
		if err != nil {
			return err
		}

		defer func() {
			err = errors.Join(err, textfile.Shutdown(cmd.Context()))
		}()

		meter = textfile.Meter()
	}

	summary, err := rc.migrate(cmd, s, meter, rec, paths)
	if err != nil {
		return err
	}

	err = rc.writeOutputs(cmd.OutOrStdout(), summary)
	if err != nil {
		return err
	}

	if textfile != nil {
		err = textfile.Write(rc.metricsFile)
		if err != nil {
			return err
		}
	}

	if summary.Failed > 0 {
		return fmt.Errorf("%w: %d of %d files", ErrFilesFailed, summary.Failed, len(summary.Files))
	}

	return nil
}

func (rc *runCommand) migrate(
	cmd *cobra.Command, s *session, meter metric.Meter, rec recipe.Recipe, paths []string,
) (*pipeline.Summary, error) {
	metrics, err := observability.NewRecipeMetrics(meter)
	if err != nil {
		return nil, err
	}

	runner := &pipeline.Runner{
		Engine:  s.engine(),
		Logger:  s.providers.Logger,
		Tracer:  s.providers.Tracer,
		Metrics: metrics,
	}

	return runner.Run(cmd.Context(), rec, rc.options(cmd, s.cfg, paths))
}

func (rc *runCommand) writeOutputs(out io.Writer, summary *pipeline.Summary) error {
	base, err := os.Getwd()
	if err != nil {
		base = ""
	}

	if rc.diff {
		for _, f := range summary.Files {
			if !f.Changed {
				continue
			}

			diff := report.UnifiedDiff(displayPath(base, f.Path), f.Before, f.After)

			err = report.WriteDiff(out, diff, rc.noColor)
			if err != nil {
				return err
			}
		}
	}

	if !rc.g.quiet {
		err = report.WriteSummary(out, summary, base)
		if err != nil {
			return err
		}
	}

	if rc.reportJSON != "" {
		err = writeFile(rc.reportJSON, func(w io.Writer) error { return report.WriteJSON(w, summary) })
		if err != nil {
			return err
		}
	}

	if rc.reportHTML != "" {
		err = writeFile(rc.reportHTML, func(w io.Writer) error { return report.WriteHTML(w, summary) })
		if err != nil {
			return err
		}
	}

	return nil
}

func displayPath(base, path string) string {
	if base == "" {
		return filepath.ToSlash(path)
	}

	rel, err := filepath.Rel(base, path)
	if err != nil || strings.HasPrefix(rel, "..") {
		return filepath.ToSlash(path)
	}

	return filepath.ToSlash(rel)
}

func writeFile(path string, write func(io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}

	err = write(f)

	return errors.Join(err, f.Close())
}
