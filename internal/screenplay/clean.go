package screenplay

import (
	"regexp"
	"strings"
)

var multiNewline = regexp.MustCompile(`\n{3,}`)

// Clean strips extraction artifacts from a raw text blob: BOM and zero-width
// characters, stray control characters (form feeds become newlines), and
// runs of three or more newlines collapse to a paragraph break.
func Clean(text string) string {
	var b strings.Builder
	b.Grow(len(text))
	for _, r := range text {
		switch {
		case r == '\uFEFF' || r == '\u200B':
			// swallow
		case r == '\n' || r == '\t':
			b.WriteRune(r)
		case r == '\f':
			b.WriteByte('\n')
		case r < 0x20 || r == 0x7f:
			// swallow
		default:
			b.WriteRune(r)
		}
	}
	return strings.TrimSpace(multiNewline.ReplaceAllString(b.String(), "\n\n"))
}

// SplitLines splits text on newlines, stripping trailing whitespace from
// each line. Position within the document is implicit in slice order.
func SplitLines(text string) []string {
	raw := strings.Split(text, "\n")
	lines := make([]string, len(raw))
	for i, l := range raw {
		lines[i] = strings.TrimRight(l, " \t\r")
	}
	return lines
}
