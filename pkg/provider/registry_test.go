package provider

import (
	"testing"
	"time"
)

func TestRegistryLookup(t *testing.T) {
	mock := NewMock(true, 0)
	registry := NewRegistry(
		mock,
		NewYouTube(YouTubeConfig{BaseURL: "https://example.invalid", Timeout: time.Second}),
	)

	p, ok := registry.Get("mock")
	if !ok {
		t.Fatal("expected mock provider to be registered")
	}
	if p.Name() != "mock" {
		t.Fatalf("unexpected provider name: %s", p.Name())
	}

	if _, ok := registry.Get("Mock"); ok {
		t.Fatal("expected lookup to be case-sensitive")
	}
	if _, ok := registry.Get("spotify"); ok {
		t.Fatal("expected unknown provider to be absent")
	}
}

func TestRegistryNamesSorted(t *testing.T) {
	registry := NewRegistry(
		NewYouTube(YouTubeConfig{Timeout: time.Second}),
		NewMock(true, 0),
	)

	names := registry.Names()
	if len(names) != 2 {
		t.Fatalf("expected 2 names, got %d", len(names))
	}
	if names[0] != "mock" || names[1] != "youtube" {
		t.Fatalf("expected sorted names, got %v", names)
	}
}

func TestFilterByDateRangeInclusive(t *testing.T) {
	start := time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, 1, 20, 0, 0, 0, 0, time.UTC)

	items := []ExternalItem{
		{Title: "before", PublishedAt: start.Add(-time.Second)},
		{Title: "on start", PublishedAt: start},
		{Title: "inside", PublishedAt: start.AddDate(0, 0, 5)},
		{Title: "on end", PublishedAt: end},
		{Title: "after", PublishedAt: end.Add(time.Second)},
	}

	filtered := filterByDateRange(items, start, end)
	if len(filtered) != 3 {
		t.Fatalf("expected 3 items, got %d", len(filtered))
	}
	if filtered[0].Title != "on start" || filtered[2].Title != "on end" {
		t.Fatalf("window boundaries are not inclusive: %v", filtered)
	}
}
