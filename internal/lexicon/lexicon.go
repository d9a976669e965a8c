// Package lexicon computes bucketed lexical statistics over filtered
// dialogue. Buckets are configuration, not hard-coded: each rule names a
// bucket and matches tokens either by substring fragment or by exact word.
package lexicon

import (
	"regexp"
	"strings"

	"github.com/dgallion1/screenlex/internal/screenplay"
)

// Rule is one lexical bucket. Exactly one of Fragment (substring match) or
// Word (exact match) should be set.
type Rule struct {
	Name     string `yaml:"name"`
	Fragment string `yaml:"fragment,omitempty"`
	Word     string `yaml:"word,omitempty"`
}

func (r Rule) matches(tok string) bool {
	if r.Fragment != "" {
		return strings.Contains(tok, r.Fragment)
	}
	if r.Word != "" {
		return tok == r.Word
	}
	return false
}

// DefaultRules is the stock profanity bucket set.
func DefaultRules() []Rule {
	return []Rule{
		{Name: "FUCK*", Fragment: "fuck"},
		{Name: "SHIT*", Fragment: "shit"},
		{Name: "BITCH*", Fragment: "bitch"},
		{Name: "DICK*", Fragment: "dick"},
		{Name: "HELL", Word: "hell"},
		{Name: "DAMN", Word: "damn"},
	}
}

// Bucket is the matches collected for one rule. Tokens preserve duplicates
// in order of occurrence.
type Bucket struct {
	Count  int      `json:"count"`
	Tokens []string `json:"tokens"`
}

// Stats is the aggregate over one character's filtered dialogue. Only
// non-zero buckets are present; absence means zero. A token matching two
// rules counts once per matching bucket, so TotalSwearWords can exceed the
// number of distinct swearing tokens.
type Stats struct {
	TotalWords      int               `json:"total_words"`
	Buckets         map[string]Bucket `json:"buckets"`
	TotalSwearWords int               `json:"total_swear_words"`
	SwearPct        float64           `json:"swear_pct"`
}

// wordPattern extracts maximal runs of lowercase letters and apostrophes.
// Everything else is a separator and is discarded.
var wordPattern = regexp.MustCompile(`[a-z']+`)

// Tokenize normalizes apostrophe variants, lowercases, and splits text into
// word tokens. Its output length is the authoritative word count.
func Tokenize(text string) []string {
	s := strings.ToLower(screenplay.NormalizeApostrophes(text))
	return wordPattern.FindAllString(s, -1)
}

// Analyze tokenizes the blocks' texts (joined in block order) and partitions
// tokens into buckets. Pure function: same blocks and rules always yield the
// same Stats.
func Analyze(blocks []screenplay.DialogueBlock, rules []Rule) Stats {
	parts := make([]string, 0, len(blocks))
	for _, b := range blocks {
		parts = append(parts, b.Text)
	}
	tokens := Tokenize(strings.Join(parts, "\n"))

	stats := Stats{
		TotalWords: len(tokens),
		Buckets:    make(map[string]Bucket),
	}
	for _, rule := range rules {
		var matched []string
		for _, tok := range tokens {
			if rule.matches(tok) {
				matched = append(matched, tok)
			}
		}
		if len(matched) == 0 {
			continue
		}
		stats.Buckets[rule.Name] = Bucket{Count: len(matched), Tokens: matched}
		stats.TotalSwearWords += len(matched)
	}

	// 0.0 when there are no words at all; "no data" and "no swearing" are
	// indistinguishable here, which is accepted.
	if stats.TotalWords > 0 {
		stats.SwearPct = 100 * float64(stats.TotalSwearWords) / float64(stats.TotalWords)
	}
	return stats
}
