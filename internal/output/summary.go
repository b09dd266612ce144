package output

import (
	"database/sql"
	"encoding/csv"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"rlsummary/internal/analysis"
)

// SummaryColumns is the header of analysis_summary.csv.
var SummaryColumns = []string{
	"algorithm",
	"runs",
	"episodes_used",
	"mean_reward_last_window",
	"std_reward_last_window",
	"mean_steps_last_window",
	"success_rate_last_window_mean",
	"mean_convergence_episode",
	"std_convergence_episode",
	"runs_converged",
}

// SummaryRecords renders summaries as CSV records, header excluded. Null
// values become empty cells.
func SummaryRecords(summaries []analysis.Summary) [][]string {
	records := make([][]string, 0, len(summaries))
	for _, s := range summaries {
		records = append(records, []string{
			s.Algorithm,
			strconv.Itoa(s.Runs),
			strconv.Itoa(s.EpisodesUsed),
			FormatFloat(s.MeanRewardLastWindow),
			formatNull(s.StdRewardLastWindow),
			FormatFloat(s.MeanStepsLastWindow),
			FormatFloat(s.SuccessRateLastWindowMean),
			formatNull(s.MeanConvergenceEpisode),
			formatNull(s.StdConvergenceEpisode),
			strconv.Itoa(s.RunsConverged),
		})
	}
	return records
}

// WriteSummaryCSV writes the header and one record per summary to path.
func WriteSummaryCSV(path string, summaries []analysis.Summary) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", filepath.Base(path), err)
	}
	w := csv.NewWriter(file)
	if err := w.Write(SummaryColumns); err != nil {
		_ = file.Close()
		return fmt.Errorf("write %s: %w", filepath.Base(path), err)
	}
	if err := w.WriteAll(SummaryRecords(summaries)); err != nil {
		_ = file.Close()
		return fmt.Errorf("write %s: %w", filepath.Base(path), err)
	}
	if err := file.Close(); err != nil {
		return fmt.Errorf("close %s: %w", filepath.Base(path), err)
	}
	return nil
}

// FormatFloat prints the shortest round-trip form, keeping a trailing ".0" on
// integral values and switching to exponent form for very large or small
// magnitudes.
func FormatFloat(v float64) string {
	switch {
	case math.IsNaN(v):
		return "nan"
	case math.IsInf(v, 1):
		return "inf"
	case math.IsInf(v, -1):
		return "-inf"
	}
	abs := math.Abs(v)
	if abs >= 1e16 || (abs != 0 && abs < 1e-4) {
		return strconv.FormatFloat(v, 'e', -1, 64)
	}
	s := strconv.FormatFloat(v, 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}

func formatNull(v sql.NullFloat64) string {
	if !v.Valid {
		return ""
	}
	return FormatFloat(v.Float64)
}
