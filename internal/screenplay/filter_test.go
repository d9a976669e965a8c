package screenplay

import (
	"errors"
	"testing"
)

var debraConfig = SpeakerConfig{
	Aliases: []string{"DEBRA", "DEB", "DEBRA MORGAN"},
	Prefix:  "DEBRA",
}

func TestFilter_AliasAndPrefixMatching(t *testing.T) {
	blocks := []DialogueBlock{
		{Speaker: "DEB", Text: "a"},
		{Speaker: "DEBRA MORGAN", Text: "b"},
		{Speaker: "DEBORAH", Text: "c"},
		{Speaker: "DEXTER", Text: "d"},
	}
	got, err := Filter(blocks, debraConfig)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 matching blocks, got %d", len(got))
	}
	if got[0].Speaker != "DEB" || got[1].Speaker != "DEBRA MORGAN" {
		t.Errorf("unexpected speakers %q, %q", got[0].Speaker, got[1].Speaker)
	}
}

func TestFilter_PrefixOverMatchIsAccepted(t *testing.T) {
	// Compound names beginning with the prefix match, including mis-merged
	// adjacent text. Documented behavior, not a defect.
	blocks := []DialogueBlock{
		{Speaker: "DEBRA TURNS AWAY", Text: "a"},
	}
	got, err := Filter(blocks, debraConfig)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 1 {
		t.Errorf("expected prefix over-match to be kept, got %d blocks", len(got))
	}
}

func TestFilter_CaseAndWhitespaceInsensitive(t *testing.T) {
	blocks := []DialogueBlock{
		{Speaker: "  debra  ", Text: "a"},
	}
	got, err := Filter(blocks, SpeakerConfig{Aliases: []string{"debra"}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 1 {
		t.Errorf("expected case-insensitive alias match, got %d blocks", len(got))
	}
}

func TestFilter_EmptyConfigFailsFast(t *testing.T) {
	_, err := Filter([]DialogueBlock{{Speaker: "DEBRA", Text: "a"}}, SpeakerConfig{})
	if err == nil {
		t.Fatal("expected error for empty speaker config")
	}
	if !errors.Is(err, ErrNoSpeakerConfig) {
		t.Errorf("expected ErrNoSpeakerConfig, got %v", err)
	}
}

func TestFilter_NoMatchesIsNotAnError(t *testing.T) {
	got, err := Filter([]DialogueBlock{{Speaker: "DEXTER", Text: "a"}}, debraConfig)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("expected no matches, got %d", len(got))
	}
}

func TestSpeakerConfig_Validate(t *testing.T) {
	if err := (SpeakerConfig{}).Validate(); !errors.Is(err, ErrNoSpeakerConfig) {
		t.Errorf("expected ErrNoSpeakerConfig, got %v", err)
	}
	if err := (SpeakerConfig{Prefix: "   "}).Validate(); !errors.Is(err, ErrNoSpeakerConfig) {
		t.Errorf("expected ErrNoSpeakerConfig for blank prefix, got %v", err)
	}
	if err := (SpeakerConfig{Prefix: "DEBRA"}).Validate(); err != nil {
		t.Errorf("expected prefix-only config to validate, got %v", err)
	}
	if err := (SpeakerConfig{Aliases: []string{"DEB"}}).Validate(); err != nil {
		t.Errorf("expected alias-only config to validate, got %v", err)
	}
}
