package console

import (
	"fmt"
	"io"
)

const verbosePrefix = "[verbose]"

const (
	ansiReset  = "\x1b[0m"
	ansiBold   = "\x1b[1m"
	ansiDim    = "\x1b[2m"
	ansiGray   = "\x1b[90m"
	ansiGreen  = "\x1b[32m"
	ansiYellow = "\x1b[33m"
	ansiBlue   = "\x1b[34m"
)

// Style picks the color of a verbose line.
type Style int

const (
	StyleDefault Style = iota
	StyleGroup
	StyleOutput
)

// Logger writes diagnostics. Warnings are always written; verbose lines only
// when enabled. A nil Logger discards everything.
type Logger struct {
	w       io.Writer
	verbose bool
	color   bool
}

// NewLogger creates a logger writing to w.
func NewLogger(w io.Writer, verbose, color bool) *Logger {
	return &Logger{w: w, verbose: verbose, color: color}
}

// Warnf writes a "Warning:" line.
func (l *Logger) Warnf(format string, args ...any) {
	if l == nil || l.w == nil {
		return
	}
	prefix := "Warning:"
	if l.color {
		prefix = ansiBold + ansiYellow + prefix + ansiReset
	}
	fmt.Fprintf(l.w, "%s %s\n", prefix, fmt.Sprintf(format, args...))
}

// Verbosef writes a "[verbose]" line when verbose output is on.
func (l *Logger) Verbosef(style Style, format string, args ...any) {
	if l == nil || !l.verbose || l.w == nil {
		return
	}
	line := fmt.Sprintf(format, args...)
	fmt.Fprintf(l.w, "%s %s\n", l.prefix(verbosePrefix), l.apply(style, line))
}

func (l *Logger) prefix(text string) string {
	if !l.color {
		return text
	}
	return ansiDim + ansiGray + text + ansiReset
}

func (l *Logger) apply(style Style, text string) string {
	if !l.color {
		return text
	}
	switch style {
	case StyleGroup:
		return ansiBold + ansiBlue + text + ansiReset
	case StyleOutput:
		return ansiBold + ansiGreen + text + ansiReset
	default:
		return text
	}
}
