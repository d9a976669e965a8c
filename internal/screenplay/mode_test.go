package screenplay

import "testing"

func TestResolveMode_VoiceOver(t *testing.T) {
	cases := [][]string{
		{"V.O."},
		{"V.O"},
		{"VO"},
		{"v.o."},
		{" vo "},
		{"CONT'D", "V.O."},
	}
	for _, tokens := range cases {
		if got := ResolveMode(tokens); got != ModeVoiceOver {
			t.Errorf("tokens %v: expected %q, got %q", tokens, ModeVoiceOver, got)
		}
	}
}

func TestResolveMode_OffScreen(t *testing.T) {
	cases := [][]string{
		{"O.S."},
		{"O.S"},
		{"OS"},
		{"o.s."},
	}
	for _, tokens := range cases {
		if got := ResolveMode(tokens); got != ModeOffScreen {
			t.Errorf("tokens %v: expected %q, got %q", tokens, ModeOffScreen, got)
		}
	}
}

func TestResolveMode_VoiceOverWinsOverOffScreen(t *testing.T) {
	// Implausible, but the priority is fixed regardless of token order.
	if got := ResolveMode([]string{"O.S.", "V.O."}); got != ModeVoiceOver {
		t.Errorf("expected %q, got %q", ModeVoiceOver, got)
	}
	if got := ResolveMode([]string{"V.O.", "O.S."}); got != ModeVoiceOver {
		t.Errorf("expected %q, got %q", ModeVoiceOver, got)
	}
}

func TestResolveMode_NoneForOtherAnnotations(t *testing.T) {
	cases := [][]string{
		nil,
		{},
		{"CONT'D"},
		{"beat"},
		{"into phone"},
		{"CONT’D"},
	}
	for _, tokens := range cases {
		if got := ResolveMode(tokens); got != ModeNone {
			t.Errorf("tokens %v: expected no mode, got %q", tokens, got)
		}
	}
}

func TestNormalizeAnnotation_ApostropheVariants(t *testing.T) {
	cases := map[string]string{
		"CONT’D": "CONT'D", // typographic right quote
		"CONTÕD": "CONT'D", // accented-O decode artifact
		"CONT`D":      "CONT'D", // backtick
		"cont'd ":     "CONT'D",
	}
	for in, want := range cases {
		if got := NormalizeAnnotation(in); got != want {
			t.Errorf("NormalizeAnnotation(%q): expected %q, got %q", in, want, got)
		}
	}
}

func TestNormalizeAnnotation_MisdecodedContd(t *testing.T) {
	// A double-decoded text layer turns the apostrophe into two characters.
	if got := NormalizeAnnotation("CONTÃ•D"); got != "CONT'D" {
		t.Errorf("expected %q, got %q", "CONT'D", got)
	}
}
