package runloop

import (
	"strings"
	"testing"
)

func TestFormatFeedback(t *testing.T) {
	cases := []struct {
		name     string
		label    string
		summary  string
		out      Outcome
		expected string
	}{
		{
			"output",
			"shell", "ls",
			Output("a.txt\nb.txt"),
			"[shell] ls\na.txt\nb.txt",
		},
		{
			"no output",
			"write_file", "a.txt",
			NoOutput(),
			"[write_file] a.txt\nOK",
		},
		{
			"error",
			"read_file", "missing.txt",
			Errorf("file not found: missing.txt"),
			"[read_file] missing.txt\n[ERROR] file not found: missing.txt",
		},
	}

	for _, tc := range cases {
		got := FormatFeedback(tc.label, tc.summary, tc.out)
		if got != tc.expected {
			t.Errorf("%s: got %q, want %q", tc.name, got, tc.expected)
		}
	}
}

func TestFormatFeedbackDeterministic(t *testing.T) {
	out := Output("same")
	first := FormatFeedback("shell", "echo same", out)
	second := FormatFeedback("shell", "echo same", out)
	if first != second {
		t.Errorf("formatting must be deterministic: %q vs %q", first, second)
	}
}

func TestSummaryPrecedence(t *testing.T) {
	reg, err := NewRegistry(nil)
	if err != nil {
		t.Fatalf("NewRegistry failed: %v", err)
	}

	// Default summaries derive from the action's payload.
	if got := reg.summaryFor(NewShell("make test")); got != "make test" {
		t.Errorf("shell default summary = %q", got)
	}
	if got := reg.summaryFor(NewReadFile("x.go")); got != "x.go" {
		t.Errorf("read_file default summary = %q", got)
	}

	// A model-provided description wins.
	act := NewShell("make test")
	act.Description = "run the test suite"
	if got := reg.summaryFor(act); got != "run the test suite" {
		t.Errorf("description should win, got %q", got)
	}
}

func TestFeedbackTruncatesOversizedOutput(t *testing.T) {
	reg, err := NewRegistry(nil)
	if err != nil {
		t.Fatalf("NewRegistry failed: %v", err)
	}

	huge := strings.Repeat("x", DefaultCharLimits[string(KindShell)]+5000)
	text := reg.feedbackFor(NewShell("cat big"), Output(huge), nil, nil)
	if len(text) >= len(huge) {
		t.Error("oversized output not truncated")
	}
	if !strings.Contains(text, "truncated") {
		t.Error("truncation marker missing")
	}
}
