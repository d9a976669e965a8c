package screenplay

import "strings"

// Three visually-distinct characters stand in for an apostrophe in extracted
// text: the typographic right quote, the accented O a bad PDF text layer
// substitutes for it, and a backtick.
var apostrophes = strings.NewReplacer("’", "'", "Õ", "'", "`", "'")

// misdecodedContd is CONT'D after the curly apostrophe has decayed into a
// two-character sequence through a double-decoded PDF text layer.
const misdecodedContd = "CONTÃ•D"

// NormalizeApostrophes collapses the apostrophe stand-ins to ASCII.
func NormalizeApostrophes(s string) string {
	return apostrophes.Replace(s)
}

// NormalizeAnnotation canonicalizes a raw parenthetical token: uppercase,
// trimmed, apostrophe variants collapsed to ASCII, mis-decoded CONT'D
// restored.
func NormalizeAnnotation(tok string) string {
	s := strings.ToUpper(strings.TrimSpace(tok))
	s = apostrophes.Replace(s)
	return strings.ReplaceAll(s, misdecodedContd, "CONT'D")
}

// ResolveMode maps parenthetical annotation tokens to a delivery mode.
// Token order is irrelevant and voice-over wins over off-screen. CONT'D and
// any other annotation resolve to no mode.
func ResolveMode(tokens []string) Mode {
	mode := ModeNone
	for _, tok := range tokens {
		s := NormalizeAnnotation(tok)
		switch {
		case strings.Contains(s, "V.O") || s == "VO":
			return ModeVoiceOver
		case strings.Contains(s, "O.S") || s == "OS":
			mode = ModeOffScreen
		}
	}
	return mode
}
