package cli

import (
	"errors"
	"flag"
	"fmt"
	"io"

	"rlsummary/internal/runs"
)

// runValidate builds the handler for the validate command.
func runValidate(cmd *Command) func(args []string, stdout, stderr io.Writer) int {
	return func(args []string, stdout, stderr io.Writer) int {
		if wantsHelp(args) {
			printCommandUsage(cmd, stdout)
			return ExitOK
		}

		fs := flag.NewFlagSet(cmd.Name, flag.ContinueOnError)
		fs.SetOutput(stderr)
		var inputs inputFlags
		inputs.register(fs)
		if code, ok := parseFlags(cmd, fs, args, stdout, stderr); !ok {
			return code
		}

		cfg, err := inputs.resolveConfig(fs)
		if err != nil {
			fmt.Fprintf(stderr, "Validation failed:\n%v\n", err)
			return ExitError
		}

		files, err := runs.Discover(cfg.ResultsDir, cfg.Pattern)
		if err != nil {
			if errors.Is(err, runs.ErrNoRunFiles) {
				fmt.Fprintf(stderr, "No CSV files found in %s matching %s\n", cfg.ResultsDir, cfg.Pattern)
				return ExitError
			}
			fmt.Fprintf(stderr, "Validation failed:\n%v\n", err)
			return ExitError
		}

		failed := 0
		for _, path := range files {
			run, err := runs.ParseFile(path)
			if err != nil {
				failed++
				fmt.Fprintf(stdout, "fail %s: %v\n", path, err)
				continue
			}
			fmt.Fprintf(stdout, "ok %s algorithm=%s episodes=%d alpha=%s gamma=%s epsilon=%s\n",
				path, run.Algorithm, run.DeclaredEpisodes,
				orDash(run.Params.Alpha), orDash(run.Params.Gamma), orDash(run.Params.Epsilon))
		}
		if failed > 0 {
			fmt.Fprintf(stderr, "Validation failed: %d of %d files did not parse\n", failed, len(files))
			return ExitError
		}
		return ExitOK
	}
}

func orDash(value string) string {
	if value == "" {
		return "-"
	}
	return value
}
