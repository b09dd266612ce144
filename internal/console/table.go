package console

import (
	"database/sql"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"rlsummary/internal/analysis"
	"rlsummary/internal/output"
)

// SummaryTable renders summaries as a bordered table with the summary file's
// column names.
func SummaryTable(summaries []analysis.Summary, color bool) string {
	rows := make([][]string, 0, len(summaries))
	for _, s := range summaries {
		rows = append(rows, SummaryRow(s))
	}

	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers(output.SummaryColumns...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			style := lipgloss.NewStyle().Padding(0, 1)
			if col > 0 && row != table.HeaderRow {
				style = style.Align(lipgloss.Right)
			}
			if color && row == table.HeaderRow {
				style = style.Bold(true).Foreground(lipgloss.Color("252"))
			}
			return style
		})
	return t.Render()
}

// SummaryRow formats one summary for display, in column order.
func SummaryRow(s analysis.Summary) []string {
	return []string{
		s.Algorithm,
		strconv.Itoa(s.Runs),
		strconv.Itoa(s.EpisodesUsed),
		DisplayFloat(s.MeanRewardLastWindow),
		displayNull(s.StdRewardLastWindow),
		DisplayFloat(s.MeanStepsLastWindow),
		DisplayFloat(s.SuccessRateLastWindowMean),
		displayNull(s.MeanConvergenceEpisode),
		displayNull(s.StdConvergenceEpisode),
		strconv.Itoa(s.RunsConverged),
	}
}

// DisplayFloat rounds to four decimals and trims trailing zeros, keeping one.
func DisplayFloat(v float64) string {
	s := strconv.FormatFloat(v, 'f', 4, 64)
	s = strings.TrimRight(s, "0")
	if strings.HasSuffix(s, ".") {
		s += "0"
	}
	return s
}

func displayNull(v sql.NullFloat64) string {
	if !v.Valid {
		return "n/a"
	}
	return DisplayFloat(v.Float64)
}
