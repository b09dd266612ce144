// Package output names and writes the files an analysis produces.
package output

import (
	"fmt"
	"path/filepath"
	"strconv"
	"strings"
)

// File names written into the results directory.
const (
	SummaryFileName = "analysis_summary.csv"
	ReportFileName  = "analysis_report.html"
)

// Paths describes filesystem locations for analysis outputs.
type Paths struct {
	Dir string
}

// NewPaths validates and constructs output paths metadata.
func NewPaths(dir string) (Paths, error) {
	if strings.TrimSpace(dir) == "" {
		return Paths{}, fmt.Errorf("output directory is empty")
	}
	return Paths{Dir: dir}, nil
}

// SummaryPath returns the path to analysis_summary.csv.
func (p Paths) SummaryPath() string {
	return filepath.Join(p.Dir, SummaryFileName)
}

// ReportPath returns the path to the HTML report.
func (p Paths) ReportPath() string {
	return filepath.Join(p.Dir, ReportFileName)
}

// PlotFiles are the four image file names rendered for one algorithm.
type PlotFiles struct {
	Reward       string
	Steps        string
	RewardShaded string
	StepsShaded  string
}

// All lists the file names in render order.
func (f PlotFiles) All() []string {
	return []string{f.Reward, f.Steps, f.RewardShaded, f.StepsShaded}
}

// PlotFilesFor assigns image file names to labels, in order. Labels are made
// filesystem-safe; labels that collide after that get a numeric suffix.
func PlotFilesFor(labels []string) []PlotFiles {
	taken := map[string]bool{}
	out := make([]PlotFiles, len(labels))
	for i, label := range labels {
		base := SafeName(label)
		name := base
		for n := 2; taken[name]; n++ {
			name = base + "-" + strconv.Itoa(n)
		}
		taken[name] = true
		out[i] = PlotFiles{
			Reward:       "avg_reward_" + name + ".png",
			Steps:        "avg_steps_" + name + ".png",
			RewardShaded: "avg_reward_shaded_" + name + ".png",
			StepsShaded:  "avg_steps_shaded_" + name + ".png",
		}
	}
	return out
}

// SafeName replaces every character outside [A-Za-z0-9._-] with '_'.
func SafeName(label string) string {
	if label == "" {
		return "_"
	}
	var sb strings.Builder
	for _, r := range label {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '.', r == '_', r == '-':
			sb.WriteRune(r)
		default:
			sb.WriteByte('_')
		}
	}
	return sb.String()
}
