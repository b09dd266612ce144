// Package reportserver serves an analysis results directory over HTTP.
package reportserver

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"rlsummary/internal/output"
	"rlsummary/internal/report"
)

const filesPrefix = "/files/"

// NewHandler builds the HTTP handler for the report page and result files.
func NewHandler(cfg Config) (http.Handler, error) {
	if cfg.Dir == "" {
		return nil, errors.New("reportserver: results dir is required")
	}
	info, err := os.Stat(cfg.Dir)
	if err != nil {
		return nil, fmt.Errorf("reportserver: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("reportserver: %s is not a directory", cfg.Dir)
	}

	mux := http.NewServeMux()
	mux.Handle(filesPrefix, serveFiles(cfg.Dir, filesPrefix))
	// The report references its images by bare name, so the root also
	// serves files.
	mux.Handle("/", rootHandler(cfg.Dir))
	return mux, nil
}

func rootHandler(dir string) http.Handler {
	files := serveFiles(dir, "/")
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/" {
			files.ServeHTTP(w, r)
			return
		}
		if !allowRead(w, r) {
			return
		}
		reportPath := filepath.Join(dir, output.ReportFileName)
		if info, err := os.Stat(reportPath); err == nil && info.Mode().IsRegular() {
			w.Header().Set("Content-Type", "text/html; charset=utf-8")
			http.ServeFile(w, r, reportPath)
			return
		}
		serveIndex(w, r, dir)
	})
}

// serveIndex writes a generated page listing the directory's results.
func serveIndex(w http.ResponseWriter, r *http.Request, dir string) {
	index, err := report.ScanIndex(dir)
	if err != nil {
		http.Error(w, "results unavailable", http.StatusInternalServerError)
		return
	}
	html, err := report.RenderIndexHTML(r.Context(), index)
	if err != nil {
		http.Error(w, "render failed", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if r.Method == http.MethodHead {
		return
	}
	_, _ = io.WriteString(w, html)
}

// serveFiles serves regular files directly inside dir. Nested paths, hidden
// files, and directories are not found.
func serveFiles(dir, prefix string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !allowRead(w, r) {
			return
		}
		name := strings.TrimPrefix(r.URL.Path, prefix)
		if name == "" || strings.ContainsAny(name, `/\`) || strings.HasPrefix(name, ".") {
			http.NotFound(w, r)
			return
		}
		path := filepath.Join(dir, name)
		info, err := os.Stat(path)
		if err != nil || !info.Mode().IsRegular() {
			http.NotFound(w, r)
			return
		}
		http.ServeFile(w, r, path)
	})
}

func allowRead(w http.ResponseWriter, r *http.Request) bool {
	if r.Method == http.MethodGet || r.Method == http.MethodHead {
		return true
	}
	w.Header().Set("Allow", "GET, HEAD")
	http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	return false
}
