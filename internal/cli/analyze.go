package cli

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"

	"rlsummary/internal/analysis"
	"rlsummary/internal/config"
	"rlsummary/internal/console"
	"rlsummary/internal/duckdb"
	"rlsummary/internal/output"
	"rlsummary/internal/plot"
	"rlsummary/internal/report"
	"rlsummary/internal/runs"
)

// analyzeOptions are the resolved settings of one analyze invocation.
type analyzeOptions struct {
	ResultsDir string
	Pattern    string
	DBPath     string
	HTML       bool
	Color      console.ColorMode
}

// renderPlots is a test seam for the PNG renderer.
var renderPlots = plot.RenderGroup

// runAnalyze builds the handler for the analyze command.
func runAnalyze(cmd *Command) func(args []string, stdout, stderr io.Writer) int {
	return func(args []string, stdout, stderr io.Writer) int {
		if wantsHelp(args) {
			printCommandUsage(cmd, stdout)
			return ExitOK
		}

		fs := flag.NewFlagSet(cmd.Name, flag.ContinueOnError)
		fs.SetOutput(stderr)
		var inputs inputFlags
		inputs.register(fs)
		dbPath := fs.String("db", "", "Append the analysis to this DuckDB database")
		html := fs.Bool("html", false, "Also write "+output.ReportFileName)
		verbose := fs.Bool("verbose", false, "Print progress details to stderr")
		colorFlag := fs.String("color", string(console.ColorAuto), "Color output: auto|always|never")
		if code, ok := parseFlags(cmd, fs, args, stdout, stderr); !ok {
			return code
		}

		colorMode, err := console.ParseColorMode(*colorFlag)
		if err != nil {
			fmt.Fprintf(stderr, "invalid arguments: %v\n", err)
			return ExitUsage
		}
		logger := console.NewLogger(stderr, *verbose, colorMode.Enabled(stderr))

		cfg, err := inputs.resolveConfig(fs)
		if err != nil {
			fmt.Fprintf(stderr, "Failed to load config:\n%v\n", err)
			return ExitError
		}
		opts := optionsFromConfig(cfg, colorMode)
		fs.Visit(func(fl *flag.Flag) {
			switch fl.Name {
			case "db":
				opts.DBPath = *dbPath
			case "html":
				opts.HTML = *html
			}
		})

		if err := analyze(context.Background(), opts, stdout, logger); err != nil {
			if errors.Is(err, runs.ErrNoRunFiles) {
				fmt.Fprintf(stderr, "No CSV files found in %s matching %s\n", opts.ResultsDir, opts.Pattern)
				return ExitError
			}
			fmt.Fprintf(stderr, "Analysis failed: %v\n", err)
			return ExitError
		}
		return ExitOK
	}
}

func optionsFromConfig(cfg config.Config, color console.ColorMode) analyzeOptions {
	return analyzeOptions{
		ResultsDir: cfg.ResultsDir,
		Pattern:    cfg.Pattern,
		DBPath:     cfg.DB,
		HTML:       cfg.HTML,
		Color:      color,
	}
}

// analyze runs the full pipeline: discover, parse, group, aggregate, plot,
// then write the summary and the optional report and database export.
func analyze(ctx context.Context, opts analyzeOptions, stdout io.Writer, logger *console.Logger) error {
	paths, err := output.NewPaths(opts.ResultsDir)
	if err != nil {
		return err
	}
	files, err := runs.Discover(opts.ResultsDir, opts.Pattern)
	if err != nil {
		return err
	}
	logger.Verbosef(console.StyleDefault, "found %d run files in %s", len(files), opts.ResultsDir)

	loaded, err := runs.Load(files, func(path string, err error) {
		logger.Warnf("Failed to read %s: %v", path, err)
	})
	if err != nil {
		return err
	}
	groups := runs.GroupByAlgorithm(loaded)
	results, err := analysis.AggregateAll(groups)
	if err != nil {
		return err
	}

	labels := make([]string, len(results))
	for i, result := range results {
		labels[i] = result.Summary.Algorithm
	}
	plotFiles := output.PlotFilesFor(labels)
	summaries := make([]analysis.Summary, len(results))
	for i, result := range results {
		summaries[i] = result.Summary
		logger.Verbosef(console.StyleGroup, "%s: %d runs, %d episodes aligned, window %d, %d converged",
			result.Summary.Algorithm, result.Summary.Runs, result.Summary.EpisodesUsed, result.Window, result.Summary.RunsConverged)
		written, err := renderPlots(paths.Dir, labels[i], plotFiles[i], result.Curves)
		if err != nil {
			return err
		}
		for _, path := range written {
			logger.Verbosef(console.StyleOutput, "wrote %s", path)
		}
	}

	if err := output.WriteSummaryCSV(paths.SummaryPath(), summaries); err != nil {
		return err
	}
	fmt.Fprintln(stdout, console.SummaryTable(summaries, opts.Color.Enabled(stdout)))
	fmt.Fprintf(stdout, "Wrote summary to %s\n", paths.SummaryPath())
	fmt.Fprintf(stdout, "Saved per-algorithm PNGs in %s\n", paths.Dir)

	if opts.HTML {
		page, err := report.NewPage(paths.Dir, results, plotFiles)
		if err != nil {
			return err
		}
		if err := report.WriteReport(ctx, paths.ReportPath(), page); err != nil {
			return err
		}
		fmt.Fprintf(stdout, "Wrote report to %s\n", paths.ReportPath())
	}

	if opts.DBPath != "" {
		id, err := exportAnalysis(ctx, opts, groups, results)
		if err != nil {
			return err
		}
		fmt.Fprintf(stdout, "Exported analysis %s to %s\n", id, opts.DBPath)
	}

	fmt.Fprintln(stdout, "Done")
	return nil
}

func exportAnalysis(ctx context.Context, opts analyzeOptions, groups []runs.Group, results []analysis.Result) (string, error) {
	db, err := duckdb.Open(ctx, opts.DBPath)
	if err != nil {
		return "", err
	}
	defer db.Close()
	return duckdb.ExportAnalysis(ctx, db, duckdb.AnalysisMeta{
		ResultsDir: opts.ResultsDir,
		Pattern:    opts.Pattern,
	}, groups, results)
}
