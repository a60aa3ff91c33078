package matching

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// VocabEntry maps a free-text token to a property amenity key. A feature
// matches when it contains the token and the property has the amenity.
type VocabEntry struct {
	Token   string `yaml:"token"`
	Amenity string `yaml:"amenity"`
}

// Vocabulary is the replaceable lookup table for free-text feature matching
// in the soft strategy. New tokens are data, not evaluator changes.
type Vocabulary []VocabEntry

// DefaultVocabulary returns the built-in Hebrew feature vocabulary.
func DefaultVocabulary() Vocabulary {
	return Vocabulary{
		{Token: "חניה", Amenity: "parking"},
		{Token: "מעלית", Amenity: "elevator"},
		{Token: "מזגן", Amenity: "air_conditioning"},
	}
}

// LoadVocabulary reads a vocabulary from a YAML file. An empty path returns
// the default vocabulary.
func LoadVocabulary(path string) (Vocabulary, error) {
	if strings.TrimSpace(path) == "" {
		return DefaultVocabulary(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read vocabulary: %w", err)
	}

	var vocab Vocabulary
	if err := yaml.Unmarshal(data, &vocab); err != nil {
		return nil, fmt.Errorf("parse vocabulary: %w", err)
	}
	if len(vocab) == 0 {
		return DefaultVocabulary(), nil
	}
	return vocab, nil
}

// MatchFeature reports whether the free-text feature resolves to an amenity
// the property has.
func (v Vocabulary) MatchFeature(feature string, prop Property) bool {
	lowered := strings.ToLower(feature)
	for _, entry := range v {
		if strings.Contains(lowered, entry.Token) && prop.HasAmenity(entry.Amenity) {
			return true
		}
	}
	return false
}
