//go:build cucumber

package cli

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/cucumber/godog"

	"rlsummary/internal/output"
	"rlsummary/internal/testutil"
)

// TestAnalyzeScenarios runs the analyze feature scenarios.
func TestAnalyzeScenarios(t *testing.T) {
	stubConfigSearch(t)
	featurePath := filepath.Join("..", "..", "spec", "features", "analyze.feature")
	suite := godog.TestSuite{
		Name:                "analyze",
		ScenarioInitializer: InitializeAnalyzeScenario,
		Options: &godog.Options{
			Format:    "pretty",
			Paths:     []string{featurePath},
			Strict:    true,
			TestingT:  t,
			Randomize: 0,
		},
	}
	if suite.Run() != 0 {
		t.Fatalf("non-zero godog status")
	}
}

// InitializeAnalyzeScenario wires steps for analyze feature scenarios.
func InitializeAnalyzeScenario(ctx *godog.ScenarioContext) {
	state := &analyzeScenarioState{}
	ctx.Before(func(ctx context.Context, _ *godog.Scenario) (context.Context, error) {
		return ctx, state.reset()
	})
	ctx.After(func(ctx context.Context, _ *godog.Scenario, err error) (context.Context, error) {
		if state.dir != "" {
			_ = os.RemoveAll(state.dir)
		}
		return ctx, err
	})

	ctx.Step(`^a run file "([^"]+)" for "([^"]+)" with rewards "([^"]+)" steps "([^"]+)" reached "([^"]+)"$`, state.givenSeriesRunFile)
	ctx.Step(`^a run file "([^"]+)" for "([^"]+)" with (\d+) successful episodes of reward "([^"]+)"$`, state.givenSuccessfulRunFile)
	ctx.Step(`^a run file "([^"]+)" for "([^"]+)" with (\d+) failed episodes of reward "([^"]+)"$`, state.givenFailedRunFile)
	ctx.Step(`^a corrupt run file "([^"]+)"$`, state.givenCorruptRunFile)
	ctx.Step(`^I run the analysis$`, state.whenIRunTheAnalysis)
	ctx.Step(`^the exit code is (\d+)$`, state.thenExitCode)
	ctx.Step(`^stderr contains "([^"]+)"$`, state.thenStderrContains)
	ctx.Step(`^the summary for "([^"]+)" has "([^"]+)" equal to "([^"]*)"$`, state.thenSummaryValue)
	ctx.Step(`^the plots for "([^"]+)" exist$`, state.thenPlotsExist)
	ctx.Step(`^the results directory has no outputs$`, state.thenNoOutputs)
}

// analyzeScenarioState holds scenario state for analyze feature tests.
type analyzeScenarioState struct {
	dir      string
	inputs   map[string]bool
	exitCode int
	stdout   bytes.Buffer
	stderr   bytes.Buffer
}

// reset creates a fresh results directory.
func (s *analyzeScenarioState) reset() error {
	dir, err := os.MkdirTemp("", "rlsummary-feature-*")
	if err != nil {
		return err
	}
	s.dir = dir
	s.inputs = map[string]bool{}
	s.exitCode = -1
	s.stdout.Reset()
	s.stderr.Reset()
	return nil
}

func (s *analyzeScenarioState) writeRun(name string, f testutil.RunFile) error {
	s.inputs[name] = true
	return os.WriteFile(filepath.Join(s.dir, name), []byte(testutil.RunCSV(f)), 0o644)
}

func (s *analyzeScenarioState) givenSeriesRunFile(name, algorithm, rewards, steps, reached string) error {
	r, err := parseFloats(rewards)
	if err != nil {
		return err
	}
	st, err := parseInts(steps)
	if err != nil {
		return err
	}
	re, err := parseInts(reached)
	if err != nil {
		return err
	}
	if len(st) != len(r) || len(re) != len(r) {
		return fmt.Errorf("series lengths differ: %d/%d/%d", len(r), len(st), len(re))
	}
	return s.writeRun(name, testutil.RunFile{Algorithm: algorithm, Rows: testutil.Series(r, st, re)})
}

func (s *analyzeScenarioState) givenSuccessfulRunFile(name, algorithm string, n int, reward string) error {
	value, err := strconv.ParseFloat(reward, 64)
	if err != nil {
		return err
	}
	return s.writeRun(name, testutil.RunFile{Algorithm: algorithm, Rows: testutil.Constant(n, value, 10, true)})
}

func (s *analyzeScenarioState) givenFailedRunFile(name, algorithm string, n int, reward string) error {
	value, err := strconv.ParseFloat(reward, 64)
	if err != nil {
		return err
	}
	return s.writeRun(name, testutil.RunFile{Algorithm: algorithm, Rows: testutil.Constant(n, value, 50, false)})
}

func (s *analyzeScenarioState) givenCorruptRunFile(name string) error {
	s.inputs[name] = true
	return os.WriteFile(filepath.Join(s.dir, name), []byte("episode,reward,steps,reached\n1,\"broken,2,1\n"), 0o644)
}

func (s *analyzeScenarioState) whenIRunTheAnalysis() error {
	s.exitCode = Run([]string{"analyze", "--results", s.dir, "--color", "never"}, &s.stdout, &s.stderr)
	return nil
}

func (s *analyzeScenarioState) thenExitCode(want int) error {
	if s.exitCode != want {
		return fmt.Errorf("expected exit code %d, got %d (stderr: %s)", want, s.exitCode, s.stderr.String())
	}
	return nil
}

func (s *analyzeScenarioState) thenStderrContains(text string) error {
	if !strings.Contains(s.stderr.String(), text) {
		return fmt.Errorf("expected stderr to contain %q, got %q", text, s.stderr.String())
	}
	return nil
}

func (s *analyzeScenarioState) thenSummaryValue(algorithm, column, want string) error {
	file, err := os.Open(filepath.Join(s.dir, output.SummaryFileName))
	if err != nil {
		return err
	}
	defer file.Close()
	records, err := csv.NewReader(file).ReadAll()
	if err != nil {
		return err
	}
	if len(records) == 0 {
		return fmt.Errorf("summary is empty")
	}
	col := -1
	for i, name := range records[0] {
		if name == column {
			col = i
		}
	}
	if col < 0 {
		return fmt.Errorf("summary has no column %q", column)
	}
	for _, record := range records[1:] {
		if record[0] != algorithm {
			continue
		}
		if record[col] != want {
			return fmt.Errorf("%s %s: expected %q, got %q", algorithm, column, want, record[col])
		}
		return nil
	}
	return fmt.Errorf("summary has no row for %q", algorithm)
}

func (s *analyzeScenarioState) thenPlotsExist(algorithm string) error {
	for _, name := range output.PlotFilesFor([]string{algorithm})[0].All() {
		if _, err := os.Stat(filepath.Join(s.dir, name)); err != nil {
			return fmt.Errorf("expected plot %s: %w", name, err)
		}
	}
	return nil
}

func (s *analyzeScenarioState) thenNoOutputs() error {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return err
	}
	for _, entry := range entries {
		if !s.inputs[entry.Name()] {
			return fmt.Errorf("unexpected output %s", entry.Name())
		}
	}
	return nil
}

func parseFloats(list string) ([]float64, error) {
	parts := strings.Split(list, ",")
	out := make([]float64, len(parts))
	for i, part := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(part), 64)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

func parseInts(list string) ([]int, error) {
	parts := strings.Split(list, ",")
	out := make([]int, len(parts))
	for i, part := range parts {
		v, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}
