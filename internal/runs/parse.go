package runs

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// ParseFile reads a run CSV from disk.
func ParseFile(path string) (Run, error) {
	file, err := os.Open(path)
	if err != nil {
		return Run{}, fmt.Errorf("%w: %v", ErrUnparsable, err)
	}
	defer file.Close()
	return Parse(file, path)
}

// Parse reads a run CSV. source names the run in errors and provides the
// grouping label when the file has no algorithm column.
func Parse(r io.Reader, source string) (Run, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return Run{}, fmt.Errorf("%w: empty file", ErrUnparsable)
	}
	if err != nil {
		return Run{}, fmt.Errorf("%w: %v", ErrUnparsable, err)
	}
	cols := indexColumns(header)
	for _, name := range RequiredColumns {
		if _, ok := cols[name]; !ok {
			return Run{}, fmt.Errorf("%s: %w %q", source, ErrMissingColumn, name)
		}
	}

	var (
		episodes []Episode
		first    []string
	)
	line := 1
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		line++
		if err != nil {
			return Run{}, fmt.Errorf("%w: %v", ErrUnparsable, err)
		}
		if first == nil {
			first = record
		}
		ep, err := parseEpisode(record, cols)
		if err != nil {
			return Run{}, fmt.Errorf("%w: line %d: %v", ErrUnparsable, line, err)
		}
		episodes = append(episodes, ep)
	}
	if len(episodes) == 0 {
		return Run{}, fmt.Errorf("%w: no episodes", ErrUnparsable)
	}

	run := NewRun(source, filepath.Base(source), episodes)
	if label := cell(first, cols, ColAlgorithm); label != "" {
		run.Algorithm = label
	}
	if declared := cell(first, cols, ColEpisodes); declared != "" {
		n, err := parseCount(declared)
		if err != nil {
			return Run{}, fmt.Errorf("%w: episodes: %v", ErrUnparsable, err)
		}
		run.DeclaredEpisodes = n
	}
	run.Params = Hyperparameters{
		Alpha:   cell(first, cols, ColAlpha),
		Gamma:   cell(first, cols, ColGamma),
		Epsilon: cell(first, cols, ColEpsilon),
	}
	return run, nil
}

func indexColumns(header []string) map[string]int {
	cols := make(map[string]int, len(header))
	for i, name := range header {
		name = strings.TrimSpace(strings.TrimPrefix(name, "\ufeff"))
		if _, ok := cols[name]; ok {
			continue
		}
		cols[name] = i
	}
	return cols
}

func cell(record []string, cols map[string]int, name string) string {
	i, ok := cols[name]
	if !ok || i >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[i])
}

func parseEpisode(record []string, cols map[string]int) (Episode, error) {
	number, err := parseCount(cell(record, cols, ColEpisode))
	if err != nil {
		return Episode{}, fmt.Errorf("episode: %w", err)
	}
	reward, err := strconv.ParseFloat(cell(record, cols, ColReward), 64)
	if err != nil {
		return Episode{}, fmt.Errorf("reward: %w", err)
	}
	steps, err := parseCount(cell(record, cols, ColSteps))
	if err != nil {
		return Episode{}, fmt.Errorf("steps: %w", err)
	}
	reached, err := parseFlag(cell(record, cols, ColReached))
	if err != nil {
		return Episode{}, fmt.Errorf("reached: %w", err)
	}
	return Episode{Number: number, Reward: reward, Steps: steps, Reached: reached}, nil
}

// parseCount accepts integers and integral floats such as "12.0".
func parseCount(value string) (int, error) {
	if n, err := strconv.Atoi(value); err == nil {
		return n, nil
	}
	f, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid integer %q", value)
	}
	if f != math.Trunc(f) || math.IsInf(f, 0) {
		return 0, fmt.Errorf("invalid integer %q", value)
	}
	return int(f), nil
}

func parseFlag(value string) (bool, error) {
	if b, err := strconv.ParseBool(value); err == nil {
		return b, nil
	}
	f, err := strconv.ParseFloat(value, 64)
	if err == nil && (f == 0 || f == 1) {
		return f == 1, nil
	}
	return false, fmt.Errorf("invalid flag %q", value)
}
