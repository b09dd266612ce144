package cli

import (
	"flag"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"rlsummary/internal/config"
)

// findConfigPath is a test seam for locating the config file.
var findConfigPath = config.FindConfigPath

// inputFlags are the flags shared by every command that reads a results
// directory.
type inputFlags struct {
	results    string
	pattern    string
	configPath string
}

func (f *inputFlags) register(fs *flag.FlagSet) {
	fs.StringVar(&f.results, "results", config.DefaultResultsDir, "Directory holding run CSVs and outputs")
	fs.StringVar(&f.pattern, "pattern", config.DefaultPattern, "Glob matching run CSV file names")
	fs.StringVar(&f.configPath, "config", "", "Path to config file (default: search for "+config.FileName+")")
}

// resolveConfig loads the config file and applies explicitly set flags on
// top of it.
func (f *inputFlags) resolveConfig(fs *flag.FlagSet) (config.Config, error) {
	path, err := resolveConfigPath(f.configPath)
	if err != nil {
		return config.Config{}, err
	}
	cfg, err := config.LoadOptional(path)
	if err != nil {
		return config.Config{}, err
	}
	fs.Visit(func(fl *flag.Flag) {
		switch fl.Name {
		case "results":
			cfg.ResultsDir = f.results
		case "pattern":
			cfg.Pattern = f.pattern
		}
	})
	if err := config.Validate(cfg); err != nil {
		return config.Config{}, err
	}
	return cfg, nil
}

// resolveConfigPath normalizes a config path or finds it from CWD.
func resolveConfigPath(configPath string) (string, error) {
	if strings.TrimSpace(configPath) == "" {
		return findConfigPath("")
	}
	abs, err := filepath.Abs(configPath)
	if err != nil {
		return "", fmt.Errorf("resolve config path: %w", err)
	}
	return abs, nil
}

// parseFlags parses args, mapping help and errors to exit codes. ok is false
// when the command should return code immediately.
func parseFlags(cmd *Command, fs *flag.FlagSet, args []string, stdout, stderr io.Writer) (code int, ok bool) {
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			printCommandUsage(cmd, stdout)
			return ExitOK, false
		}
		fmt.Fprintf(stderr, "invalid arguments: %v\n", err)
		printCommandUsage(cmd, stderr)
		return ExitUsage, false
	}
	if fs.NArg() > 0 {
		fmt.Fprintf(stderr, "unexpected arguments: %s\n", strings.Join(fs.Args(), " "))
		printCommandUsage(cmd, stderr)
		return ExitUsage, false
	}
	return ExitOK, true
}
