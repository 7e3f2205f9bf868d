package discovery

import (
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestTokenize(t *testing.T) {
	words := tokenize("The History of Oil: Black Gold!")
	expected := map[string]bool{
		"the": true, "history": true, "of": true, "oil": true,
		"black": true, "gold": true,
	}
	if len(words) != len(expected) {
		t.Fatalf("expected %d words, got %v", len(expected), words)
	}
	for _, word := range words {
		if !expected[word] {
			t.Errorf("unexpected token %q", word)
		}
	}
}

func TestTokenizeDeduplicatesAndDropsFragments(t *testing.T) {
	words := tokenize("AI ai a AI-powered")
	if len(words) != 2 {
		t.Fatalf("expected [ai powered], got %v", words)
	}
	if words[0] != "ai" || words[1] != "powered" {
		t.Fatalf("expected [ai powered], got %v", words)
	}
}

func TestTokenizeKeepsNonLatinText(t *testing.T) {
	words := tokenize("الثقافة العربية")
	if len(words) != 2 {
		t.Fatalf("expected 2 tokens, got %v", words)
	}
}

func TestDocumentKeywordsCoverTitleDescriptionTags(t *testing.T) {
	doc := Document{
		ID:          uuid.New(),
		Title:       "Mars Mission",
		Description: "Documentary about space",
		Tags:        []string{"exploration"},
		IndexedAt:   time.Now(),
	}

	found := make(map[string]bool)
	for _, word := range doc.keywords() {
		found[word] = true
	}
	for _, want := range []string{"mars", "mission", "documentary", "about", "space", "exploration"} {
		if !found[want] {
			t.Errorf("expected keyword %q, got %v", want, doc.keywords())
		}
	}
}
