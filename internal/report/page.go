package report

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"strconv"

	"github.com/a-h/templ"

	"rlsummary/internal/console"
	"rlsummary/internal/output"
)

const pageStyle = `body{font-family:sans-serif;margin:2rem;color:#222}
table{border-collapse:collapse;margin:1rem 0}
th,td{border:1px solid #ccc;padding:.25rem .5rem}
td.num{text-align:right}
section{margin-top:2rem}
img{display:block;margin:.5rem 0}`

// ReportPage renders the full report: summary table then one section per
// algorithm with its images and per-run details.
func ReportPage(page Page) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if err := header(page.Title).Render(ctx, w); err != nil {
			return err
		}
		if err := summaryTable(page.Groups).Render(ctx, w); err != nil {
			return err
		}
		for _, group := range page.Groups {
			if err := groupSection(group).Render(ctx, w); err != nil {
				return err
			}
		}
		return footer().Render(ctx, w)
	})
}

func header(title string) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		_, err := fmt.Fprintf(w, `<!doctype html>
<html lang="en">
<head>
<meta charset="utf-8" />
<title>%s</title>
<style>%s</style>
</head>
<body>
<h1>%s</h1>
`, templ.EscapeString(title), pageStyle, templ.EscapeString(title))
		return err
	})
}

func footer() templ.Component {
	return templ.Raw("</body>\n</html>\n")
}

func summaryTable(groups []Group) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		if _, err := io.WriteString(w, "<table>\n<thead><tr>"); err != nil {
			return err
		}
		for _, column := range output.SummaryColumns {
			if _, err := fmt.Fprintf(w, "<th>%s</th>", templ.EscapeString(column)); err != nil {
				return err
			}
		}
		if _, err := io.WriteString(w, "</tr></thead>\n<tbody>\n"); err != nil {
			return err
		}
		for _, group := range groups {
			if _, err := io.WriteString(w, "<tr>"); err != nil {
				return err
			}
			for i, cell := range console.SummaryRow(group.Summary) {
				class := ""
				if i > 0 {
					class = ` class="num"`
				}
				if _, err := fmt.Fprintf(w, "<td%s>%s</td>", class, templ.EscapeString(cell)); err != nil {
					return err
				}
			}
			if _, err := io.WriteString(w, "</tr>\n"); err != nil {
				return err
			}
		}
		_, err := io.WriteString(w, "</tbody>\n</table>\n")
		return err
	})
}

func groupSection(group Group) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		label := templ.EscapeString(group.Summary.Algorithm)
		if _, err := fmt.Fprintf(w, "<section>\n<h2>%s</h2>\n<p>%d runs, %d episodes aligned, last window of %d episodes.</p>\n",
			label, group.Summary.Runs, group.Summary.EpisodesUsed, group.Window); err != nil {
			return err
		}
		for _, name := range group.Images.All() {
			if err := image(name, group.Summary.Algorithm).Render(ctx, w); err != nil {
				return err
			}
		}
		if err := runTable(group).Render(ctx, w); err != nil {
			return err
		}
		_, err := io.WriteString(w, "</section>\n")
		return err
	})
}

func image(name, alt string) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		src := (&url.URL{Path: name}).String()
		_, err := fmt.Fprintf(w, "<img src=\"%s\" alt=\"%s\" width=\"800\" height=\"300\" />\n",
			templ.EscapeString(src), templ.EscapeString(alt))
		return err
	})
}

func runTable(group Group) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		if len(group.Runs) == 0 {
			return nil
		}
		if _, err := io.WriteString(w, "<table>\n<thead><tr><th>run</th><th>success_rate_last_window</th><th>convergence_episode</th></tr></thead>\n<tbody>\n"); err != nil {
			return err
		}
		for _, run := range group.Runs {
			convergence := "n/a"
			if run.Converged {
				convergence = strconv.Itoa(run.ConvergenceEpisode)
			}
			if _, err := fmt.Fprintf(w, "<tr><td>%s</td><td class=\"num\">%s</td><td class=\"num\">%s</td></tr>\n",
				templ.EscapeString(run.Source), console.DisplayFloat(run.SuccessRate), convergence); err != nil {
				return err
			}
		}
		_, err := io.WriteString(w, "</tbody>\n</table>\n")
		return err
	})
}
