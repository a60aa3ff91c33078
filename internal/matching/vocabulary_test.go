package matching

import (
	"os"
	"path/filepath"
	"testing"
)

func TestVocabulary_MatchFeature(t *testing.T) {
	vocab := DefaultVocabulary()
	prop := Property{Amenities: map[string]bool{"parking": true}}

	if !vocab.MatchFeature("חניה", prop) {
		t.Fatal("expected parking token to match")
	}
	if !vocab.MatchFeature("חניה פרטית", prop) {
		t.Fatal("token match is substring-based")
	}
	if vocab.MatchFeature("מעלית", prop) {
		t.Fatal("property has no elevator")
	}
	if vocab.MatchFeature("בריכה", prop) {
		t.Fatal("unknown token must not match")
	}
}

func TestVocabulary_LegacyAttrsFallback(t *testing.T) {
	vocab := DefaultVocabulary()
	prop := Property{Attrs: map[string]bool{"elevator": true}}

	if !vocab.MatchFeature("מעלית", prop) {
		t.Fatal("flat attributes should satisfy vocabulary lookups")
	}
}

func TestLoadVocabulary_EmptyPath(t *testing.T) {
	vocab, err := LoadVocabulary("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(vocab) != len(DefaultVocabulary()) {
		t.Fatalf("expected default vocabulary, got %d entries", len(vocab))
	}
}

func TestLoadVocabulary_FromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "vocab.yaml")
	content := "- token: \"גינה\"\n  amenity: \"garden\"\n"
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	vocab, err := LoadVocabulary(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(vocab) != 1 || vocab[0].Amenity != "garden" {
		t.Fatalf("unexpected vocabulary: %+v", vocab)
	}

	prop := Property{Amenities: map[string]bool{"garden": true}}
	if !vocab.MatchFeature("גינה מטופחת", prop) {
		t.Fatal("loaded vocabulary should drive matching")
	}
}

func TestLoadVocabulary_MissingFile(t *testing.T) {
	if _, err := LoadVocabulary("/nonexistent/vocab.yaml"); err == nil {
		t.Fatal("expected error for missing file")
	}
}
