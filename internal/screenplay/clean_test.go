package screenplay

import "testing"

func TestClean_StripsBOMAndControlChars(t *testing.T) {
	in := "\uFEFFDEXTER\x00\x01 speaks\x7f"
	want := "DEXTER speaks"
	if got := Clean(in); got != want {
		t.Errorf("expected %q, got %q", want, got)
	}
}

func TestClean_StripsZeroWidthSpace(t *testing.T) {
	in := "DEX\u200BTER"
	if got := Clean(in); got != "DEXTER" {
		t.Errorf("expected %q, got %q", "DEXTER", got)
	}
}

func TestClean_CollapsesNewlineRuns(t *testing.T) {
	in := "one\n\n\n\n\ntwo\n\nthree"
	want := "one\n\ntwo\n\nthree"
	if got := Clean(in); got != want {
		t.Errorf("expected %q, got %q", want, got)
	}
}

func TestClean_FormFeedBecomesNewline(t *testing.T) {
	in := "page one\fpage two"
	want := "page one\npage two"
	if got := Clean(in); got != want {
		t.Errorf("expected %q, got %q", want, got)
	}
}

func TestClean_TrimsResult(t *testing.T) {
	if got := Clean("\n\n  text  \n\n"); got != "text" {
		t.Errorf("expected %q, got %q", "text", got)
	}
}

func TestClean_KeepsTabs(t *testing.T) {
	if got := Clean("a\tb"); got != "a\tb" {
		t.Errorf("expected tab preserved, got %q", got)
	}
}

func TestClean_EmptyInput(t *testing.T) {
	if got := Clean(""); got != "" {
		t.Errorf("expected empty output, got %q", got)
	}
}

func TestSplitLines_StripsTrailingWhitespace(t *testing.T) {
	lines := SplitLines("DEXTER   \nhello\t\nplain")
	want := []string{"DEXTER", "hello", "plain"}
	if len(lines) != len(want) {
		t.Fatalf("expected %d lines, got %d", len(want), len(lines))
	}
	for i, w := range want {
		if lines[i] != w {
			t.Errorf("line %d: expected %q, got %q", i, w, lines[i])
		}
	}
}

func TestSplitLines_KeepsLeadingWhitespace(t *testing.T) {
	lines := SplitLines("  indented")
	if lines[0] != "  indented" {
		t.Errorf("expected leading whitespace preserved, got %q", lines[0])
	}
}
