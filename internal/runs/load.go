package runs

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// DefaultPattern matches the run files exported by the trainer.
const DefaultPattern = "run-*.csv"

// WarnFunc receives files that were skipped while loading.
type WarnFunc func(path string, err error)

// Discover lists the regular files in dir matching pattern, in lexical order.
func Discover(dir, pattern string) ([]string, error) {
	if pattern == "" {
		pattern = DefaultPattern
	}
	matches, err := filepath.Glob(filepath.Join(dir, pattern))
	if err != nil {
		return nil, fmt.Errorf("discover runs: %w", err)
	}
	files := make([]string, 0, len(matches))
	for _, match := range matches {
		info, err := os.Stat(match)
		if err != nil || info.IsDir() {
			continue
		}
		files = append(files, match)
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("%w in %s matching %s", ErrNoRunFiles, dir, pattern)
	}
	return files, nil
}

// Load parses every path. Unparsable files are reported to warn and skipped;
// a missing required column aborts the load.
func Load(paths []string, warn WarnFunc) ([]Run, error) {
	out := make([]Run, 0, len(paths))
	for _, path := range paths {
		run, err := ParseFile(path)
		if err != nil {
			if errors.Is(err, ErrUnparsable) {
				if warn != nil {
					warn(path, err)
				}
				continue
			}
			return nil, err
		}
		out = append(out, run)
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("%w (%d skipped)", ErrNoValidRuns, len(paths))
	}
	return out, nil
}
