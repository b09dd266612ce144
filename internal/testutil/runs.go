package testutil

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// RunRow is one episode line of a run fixture.
type RunRow struct {
	Episode int
	Reward  float64
	Steps   int
	Reached bool
}

// RunFile describes a run CSV fixture in the trainer's export layout.
type RunFile struct {
	Algorithm string
	// NoAlgorithm drops the algorithm column entirely.
	NoAlgorithm bool
	Alpha       string
	Gamma       string
	Epsilon     string
	Rows        []RunRow
}

// Series zips per-episode values into rows numbered from 1.
func Series(rewards []float64, steps []int, reached []int) []RunRow {
	rows := make([]RunRow, len(rewards))
	for i := range rewards {
		rows[i] = RunRow{
			Episode: i + 1,
			Reward:  rewards[i],
			Steps:   steps[i],
			Reached: reached[i] != 0,
		}
	}
	return rows
}

// Constant returns n identical episodes.
func Constant(n int, reward float64, steps int, reached bool) []RunRow {
	rows := make([]RunRow, n)
	for i := range rows {
		rows[i] = RunRow{Episode: i + 1, Reward: reward, Steps: steps, Reached: reached}
	}
	return rows
}

// RunCSV renders a fixture as CSV text.
func RunCSV(f RunFile) string {
	var sb strings.Builder
	if f.NoAlgorithm {
		sb.WriteString("episode,reward,steps,reached\n")
	} else {
		sb.WriteString("algorithm,episodes,alpha,gamma,epsilon,episode,reward,steps,reached\n")
	}
	for _, row := range f.Rows {
		reached := 0
		if row.Reached {
			reached = 1
		}
		if !f.NoAlgorithm {
			fmt.Fprintf(&sb, "%s,%d,%s,%s,%s,", f.Algorithm, len(f.Rows), f.Alpha, f.Gamma, f.Epsilon)
		}
		fmt.Fprintf(&sb, "%d,%.4f,%d,%d\n", row.Episode, row.Reward, row.Steps, reached)
	}
	return sb.String()
}

// WriteRunCSV writes a run fixture into dir and returns its path.
func WriteRunCSV(t testing.TB, dir, name string, f RunFile) string {
	t.Helper()
	return WriteFile(t, dir, name, RunCSV(f))
}

// WriteFile writes raw content into dir and returns its path.
func WriteFile(t testing.TB, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("create fixture dir: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write fixture %s: %v", name, err)
	}
	return path
}
