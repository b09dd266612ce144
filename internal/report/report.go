// Package report renders the HTML report of an analysis.
package report

import (
	"context"
	"fmt"
	"os"

	"rlsummary/internal/analysis"
	"rlsummary/internal/output"
)

// Group is one algorithm section of the report.
type Group struct {
	Summary analysis.Summary
	Window  int
	Images  output.PlotFiles
	Runs    []analysis.RunDetail
}

// Page is the data rendered by ReportPage.
type Page struct {
	Title      string
	ResultsDir string
	Groups     []Group
}

// NewPage pairs results with their image files. results and files must be
// index-aligned.
func NewPage(resultsDir string, results []analysis.Result, files []output.PlotFiles) (Page, error) {
	if len(results) != len(files) {
		return Page{}, fmt.Errorf("report: %d results but %d plot sets", len(results), len(files))
	}
	page := Page{Title: "RL run summary", ResultsDir: resultsDir}
	for i, result := range results {
		page.Groups = append(page.Groups, Group{
			Summary: result.Summary,
			Window:  result.Window,
			Images:  files[i],
			Runs:    result.Runs,
		})
	}
	return page, nil
}

// BuildReportHTML renders the report page, returning an empty string on error.
func BuildReportHTML(page Page) string {
	html, err := RenderReportHTML(context.Background(), page)
	if err != nil {
		return ""
	}
	return html
}

// WriteReport renders the report page into path.
func WriteReport(ctx context.Context, path string, page Page) error {
	html, err := RenderReportHTML(ctx, page)
	if err != nil {
		return fmt.Errorf("render report: %w", err)
	}
	if err := os.WriteFile(path, []byte(html), 0o644); err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	return nil
}
