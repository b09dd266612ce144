package report

import (
	"context"
	"strings"
)

// RenderReportHTML renders the report component into a string.
func RenderReportHTML(ctx context.Context, page Page) (string, error) {
	var builder strings.Builder
	if err := ReportPage(page).Render(ctx, &builder); err != nil {
		return "", err
	}
	return builder.String(), nil
}

// RenderIndexHTML renders the fallback index for a results directory.
func RenderIndexHTML(ctx context.Context, index Index) (string, error) {
	var builder strings.Builder
	if err := IndexPage(index).Render(ctx, &builder); err != nil {
		return "", err
	}
	return builder.String(), nil
}
