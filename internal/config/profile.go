package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/dgallion1/screenlex/internal/lexicon"
	"github.com/dgallion1/screenlex/internal/screenplay"
)

// Profile is the target-speaker configuration plus optional bucket-rule
// overrides, loadable from a YAML file for per-deployment tuning.
type Profile struct {
	Speaker screenplay.SpeakerConfig `yaml:"speaker"`
	Buckets []lexicon.Rule           `yaml:"buckets"`
}

// DefaultProfile targets Debra with the stock profanity buckets.
func DefaultProfile() Profile {
	return Profile{
		Speaker: screenplay.SpeakerConfig{
			Aliases: []string{"DEBRA", "DEB", "DEBRA MORGAN"},
			Prefix:  "DEBRA",
		},
		Buckets: lexicon.DefaultRules(),
	}
}

// LoadProfile reads a YAML profile from path, or returns the default profile
// when path is empty. An unusable speaker section fails here rather than
// silently matching nothing later.
func LoadProfile(path string) (Profile, error) {
	if path == "" {
		return DefaultProfile(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return Profile{}, fmt.Errorf("read speaker profile: %w", err)
	}

	var p Profile
	if err := yaml.Unmarshal(data, &p); err != nil {
		return Profile{}, fmt.Errorf("parse speaker profile: %w", err)
	}
	if len(p.Buckets) == 0 {
		p.Buckets = lexicon.DefaultRules()
	}
	if err := p.Speaker.Validate(); err != nil {
		return Profile{}, fmt.Errorf("speaker profile %s: %w", path, err)
	}
	return p, nil
}
