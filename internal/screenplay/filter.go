package screenplay

import (
	"errors"
	"strings"
)

// ErrNoSpeakerConfig is returned when the filter has neither aliases nor a
// prefix. Failing fast here keeps "bad config" distinguishable from
// "character has no dialogue", which would otherwise look identical.
var ErrNoSpeakerConfig = errors.New("speaker filter: no aliases or prefix configured")

// SpeakerConfig selects which character's dialogue survives filtering.
type SpeakerConfig struct {
	Aliases []string `yaml:"aliases"`
	Prefix  string   `yaml:"prefix"`
}

func (c SpeakerConfig) Validate() error {
	if len(c.Aliases) == 0 && strings.TrimSpace(c.Prefix) == "" {
		return ErrNoSpeakerConfig
	}
	return nil
}

// Filter returns the blocks whose speaker, uppercased and trimmed, exactly
// equals one of the aliases or starts with the prefix. Prefix matching
// over-matches compound names ("DEBRA MORGAN", mis-merged adjacent text);
// that is accepted behavior, not a defect.
func Filter(blocks []DialogueBlock, cfg SpeakerConfig) ([]DialogueBlock, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	aliases := make(map[string]bool, len(cfg.Aliases))
	for _, a := range cfg.Aliases {
		aliases[strings.ToUpper(strings.TrimSpace(a))] = true
	}
	prefix := strings.ToUpper(strings.TrimSpace(cfg.Prefix))

	var out []DialogueBlock
	for _, b := range blocks {
		name := strings.ToUpper(strings.TrimSpace(b.Speaker))
		if aliases[name] || (prefix != "" && strings.HasPrefix(name, prefix)) {
			out = append(out, b)
		}
	}
	return out, nil
}
