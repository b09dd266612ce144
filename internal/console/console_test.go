package console

import (
	"bytes"
	"database/sql"
	"io"
	"strings"
	"testing"

	"rlsummary/internal/analysis"
)

// TestParseColorMode verifies accepted and rejected --color values.
func TestParseColorMode(t *testing.T) {
	for in, want := range map[string]ColorMode{"": ColorAuto, "AUTO": ColorAuto, "always": ColorAlways, " never ": ColorNever} {
		got, err := ParseColorMode(in)
		if err != nil {
			t.Fatalf("%q: unexpected error %v", in, err)
		}
		if got != want {
			t.Fatalf("%q: expected %s, got %s", in, want, got)
		}
	}
	if _, err := ParseColorMode("rainbow"); err == nil {
		t.Fatalf("expected error for invalid mode")
	}
}

// TestColorModeEnabled verifies auto mode follows TTY detection and env overrides.
func TestColorModeEnabled(t *testing.T) {
	orig := isTerminal
	t.Cleanup(func() { isTerminal = orig })
	isTerminal = func(io.Writer) bool { return true }
	t.Setenv("NO_COLOR", "")
	t.Setenv("TERM", "xterm-256color")
	t.Setenv("CLICOLOR", "")

	var buf bytes.Buffer
	if !ColorAuto.Enabled(&buf) {
		t.Fatalf("expected auto to enable styling on a terminal")
	}
	if ColorNever.Enabled(&buf) {
		t.Fatalf("expected never to disable styling")
	}
	t.Setenv("NO_COLOR", "1")
	if ColorAuto.Enabled(&buf) {
		t.Fatalf("expected NO_COLOR to disable styling")
	}
	if !ColorAlways.Enabled(&buf) {
		t.Fatalf("expected always to ignore NO_COLOR")
	}

	isTerminal = defaultIsTerminal
	t.Setenv("NO_COLOR", "")
	if ColorAuto.Enabled(&buf) {
		t.Fatalf("expected a buffer not to be treated as a terminal")
	}
}

// TestLoggerWarnAndVerbose verifies gating and plain formatting.
func TestLoggerWarnAndVerbose(t *testing.T) {
	var buf bytes.Buffer
	quiet := NewLogger(&buf, false, false)
	quiet.Verbosef(StyleDefault, "hidden %d", 1)
	quiet.Warnf("Failed to read %s", "run-a.csv")
	if got := buf.String(); got != "Warning: Failed to read run-a.csv\n" {
		t.Fatalf("unexpected output %q", got)
	}

	buf.Reset()
	loud := NewLogger(&buf, true, false)
	loud.Verbosef(StyleGroup, "group %s", "Q")
	if got := buf.String(); got != "[verbose] group Q\n" {
		t.Fatalf("unexpected verbose output %q", got)
	}

	buf.Reset()
	colored := NewLogger(&buf, true, true)
	colored.Verbosef(StyleOutput, "wrote")
	if !strings.Contains(buf.String(), "\x1b[") {
		t.Fatalf("expected ANSI styling, got %q", buf.String())
	}

	var nilLogger *Logger
	nilLogger.Warnf("ignored")
	nilLogger.Verbosef(StyleDefault, "ignored")
}

// TestSummaryTable verifies headers, values and null rendering.
func TestSummaryTable(t *testing.T) {
	out := SummaryTable([]analysis.Summary{
		{
			Algorithm:                 "Q",
			Runs:                      2,
			EpisodesUsed:              5,
			MeanRewardLastWindow:      3,
			StdRewardLastWindow:       sql.NullFloat64{Float64: 1.490712, Valid: true},
			MeanStepsLastWindow:       8,
			SuccessRateLastWindowMean: 0.4,
		},
	}, false)
	for _, token := range []string{"algorithm", "runs_converged", "Q", "3.0", "1.4907", "0.4", "n/a"} {
		if !strings.Contains(out, token) {
			t.Fatalf("expected %q in table:\n%s", token, out)
		}
	}
	if strings.Contains(out, "\x1b[") {
		t.Fatalf("expected no ANSI styling without color:\n%s", out)
	}
}

// TestDisplayFloat verifies console rounding.
func TestDisplayFloat(t *testing.T) {
	cases := map[float64]string{3: "3.0", 0.4: "0.4", 1.4907119849998598: "1.4907", 12.5: "12.5", -0.25: "-0.25"}
	for in, want := range cases {
		if got := DisplayFloat(in); got != want {
			t.Fatalf("DisplayFloat(%v) = %q, want %q", in, got, want)
		}
	}
}
