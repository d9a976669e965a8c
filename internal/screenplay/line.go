package screenplay

import (
	"regexp"
	"strings"
)

// HeaderMatch is the result of classifying a speaker-header line.
type HeaderMatch struct {
	Speaker     string   // trimmed caps-case speaker name
	Annotations []string // raw parenthetical contents, in order (0-2 entries)
}

// ClassifierConfig controls header-line detection.
type ClassifierConfig struct {
	// ScenePrefixes are line prefixes that look like speaker headers
	// (all-caps) but are scene headings or transition cues.
	ScenePrefixes []string
	// Denylist holds exact all-caps strings that structurally match a
	// speaker name but are known action-description fragments.
	Denylist []string
}

// DefaultClassifierConfig returns the prefix and denylist sets tuned against
// extracted hour-drama scripts.
func DefaultClassifierConfig() ClassifierConfig {
	return ClassifierConfig{
		ScenePrefixes: []string{
			"INT.", "EXT.", "INT/EXT", "INT./EXT", "I/E.", "EST.",
			"FADE IN", "FADE OUT", "FADE TO", "CUT TO", "SMASH CUT",
			"DISSOLVE", "ANGLE ON", "CLOSE ON", "CONTINUED", "OMITTED",
			"TITLE:", "SUPER:",
		},
		Denylist: []string{
			"SERIES OF SHOTS",
			"QUICK CUTS",
			"MONTAGE",
			"MAIN TITLES",
			"THE END",
			"END OF EPISODE",
		},
	}
}

// Classifier decides whether a single line is a speaker header.
type Classifier struct {
	prefixes []string
	denylist map[string]bool
}

func NewClassifier(cfg ClassifierConfig) *Classifier {
	deny := make(map[string]bool, len(cfg.Denylist))
	for _, d := range cfg.Denylist {
		deny[d] = true
	}
	return &Classifier{
		prefixes: cfg.ScenePrefixes,
		denylist: deny,
	}
}

// headerPattern matches a candidate speaker name (2-41 chars of uppercase
// letters, digits, apostrophe, space, period, hyphen) followed by up to two
// non-nested parenthetical groups and optional trailing whitespace.
var headerPattern = regexp.MustCompile(`^([A-Z0-9'. -]{2,41}?)\s*(?:\(([^()]*)\))?\s*(?:\(([^()]*)\))?\s*$`)

// Classify reports whether line is a speaker header. Malformed lines never
// error; failure to classify is the common case, not a fault.
func (c *Classifier) Classify(line string) (HeaderMatch, bool) {
	trimmed := strings.TrimSpace(line)
	if trimmed == "" {
		return HeaderMatch{}, false
	}
	for _, p := range c.prefixes {
		if strings.HasPrefix(trimmed, p) {
			return HeaderMatch{}, false
		}
	}

	groups := headerPattern.FindStringSubmatch(line)
	if groups == nil {
		return HeaderMatch{}, false
	}
	name := strings.TrimSpace(groups[1])
	if name == "" || c.denylist[name] {
		return HeaderMatch{}, false
	}

	var annotations []string
	for _, g := range groups[2:] {
		if g != "" {
			annotations = append(annotations, g)
		}
	}
	return HeaderMatch{Speaker: name, Annotations: annotations}, true
}
