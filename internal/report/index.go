package report

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"os"
	"sort"
	"strings"

	"github.com/a-h/templ"
)

// Index lists the files of a results directory that has no HTML report.
type Index struct {
	Dir   string
	Files []string
}

// ScanIndex lists regular files in dir whose names end in .csv or .png.
func ScanIndex(dir string) (Index, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return Index{}, fmt.Errorf("read results dir: %w", err)
	}
	index := Index{Dir: dir}
	for _, entry := range entries {
		if !entry.Type().IsRegular() {
			continue
		}
		name := entry.Name()
		if strings.HasSuffix(name, ".csv") || strings.HasSuffix(name, ".png") {
			index.Files = append(index.Files, name)
		}
	}
	sort.Strings(index.Files)
	return index, nil
}

// IndexPage renders links to every listed file, inlining images.
func IndexPage(index Index) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if err := header("Results in " + index.Dir).Render(ctx, w); err != nil {
			return err
		}
		if len(index.Files) == 0 {
			if _, err := io.WriteString(w, "<p>No results yet.</p>\n"); err != nil {
				return err
			}
		}
		for _, name := range index.Files {
			href := "/files/" + (&url.URL{Path: name}).String()
			if _, err := fmt.Fprintf(w, "<p><a href=\"%s\">%s</a></p>\n", templ.EscapeString(href), templ.EscapeString(name)); err != nil {
				return err
			}
			if strings.HasSuffix(name, ".png") {
				if err := image("/files/"+name, name).Render(ctx, w); err != nil {
					return err
				}
			}
		}
		return footer().Render(ctx, w)
	})
}
