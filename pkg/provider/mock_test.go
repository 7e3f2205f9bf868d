package provider

import (
	"context"
	"testing"
	"time"
)

func TestMockFetchReturnsCatalog(t *testing.T) {
	mock := NewMock(true, 0)
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC)

	items, err := mock.Fetch(context.Background(), "technology", start, end)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(items) != 7 {
		t.Fatalf("expected 7 items for a wide window, got %d", len(items))
	}

	for _, item := range items {
		if item.PublishedAt.Before(start) || item.PublishedAt.After(end) {
			t.Errorf("item %q published outside window: %s", item.Title, item.PublishedAt)
		}
		if item.SourceProvider != "mock" {
			t.Errorf("item %q has wrong source provider: %s", item.Title, item.SourceProvider)
		}
		if item.ExternalID == "" {
			t.Errorf("item %q has no external id", item.Title)
		}
	}
}

func TestMockFetchNarrowWindowFilters(t *testing.T) {
	mock := NewMock(true, 0)
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	end := start.Add(48 * time.Hour)

	items, err := mock.Fetch(context.Background(), "technology", start, end)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(items) >= 7 {
		t.Fatalf("expected a narrow window to drop items, got %d", len(items))
	}
	for _, item := range items {
		if item.PublishedAt.Before(start) || item.PublishedAt.After(end) {
			t.Errorf("item %q published outside window: %s", item.Title, item.PublishedAt)
		}
	}
}

func TestMockAvailability(t *testing.T) {
	if !NewMock(true, 0).IsAvailable() {
		t.Fatal("expected enabled mock to be available")
	}
	if NewMock(false, 0).IsAvailable() {
		t.Fatal("expected disabled mock to be unavailable")
	}
}

func TestMockFetchCancelledDuringLatency(t *testing.T) {
	mock := NewMock(true, time.Second)
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := mock.Fetch(ctx, "technology", time.Now(), time.Now())
	if err == nil {
		t.Fatal("expected cancellation error")
	}
}
