package provider

import (
	"context"
	"time"

	"github.com/mediaforge/cms-platform/pkg/common/logger"
)

const mockProviderName = "mock"

// Mock generates a deterministic sample catalog, used for demos and tests.
type Mock struct {
	enabled bool
	latency time.Duration
}

func NewMock(enabled bool, latency time.Duration) *Mock {
	return &Mock{enabled: enabled, latency: latency}
}

func (m *Mock) Name() string {
	return mockProviderName
}

func (m *Mock) IsAvailable() bool {
	return m.enabled
}

func (m *Mock) MaxBatchSize() int {
	return 25
}

func (m *Mock) RateLimitPerMinute() int {
	return 120
}

func (m *Mock) Fetch(ctx context.Context, topic string, start, end time.Time) ([]ExternalItem, error) {
	logger.Log.WithFields(map[string]interface{}{
		"provider": mockProviderName,
		"topic":    topic,
		"start":    start.Format("2006-01-02"),
		"end":      end.Format("2006-01-02"),
	}).Info("Fetching mock content")

	if m.latency > 0 {
		select {
		case <-time.After(m.latency):
		case <-ctx.Done():
			return nil, NewError(mockProviderName, "fetch cancelled", ctx.Err())
		}
	}

	items := m.sampleItems(start, end)
	// The generator pins dates relative to the requested window, but a very
	// narrow window can still push some outside it.
	return filterByDateRange(items, start, end), nil
}

func (m *Mock) sampleItems(start, end time.Time) []ExternalItem {
	day := 24 * time.Hour
	return []ExternalItem{
		{
			Type:            "podcast",
			Title:           "Tech Talk: AI Revolution",
			Description:     "Deep dive into artificial intelligence and its impact on society, featuring interviews with leading AI researchers and industry experts.",
			Language:        "en",
			DurationSeconds: 3600,
			PublishedAt:     start.Add(1 * day),
			ExternalID:      "mock_ai_revolution_123",
			SourceProvider:  mockProviderName,
		},
		{
			Type:            "documentary",
			Title:           "The History of Oil: Black Gold",
			Description:     "A comprehensive documentary exploring the discovery, extraction, and global impact of petroleum throughout human history.",
			Language:        "en",
			DurationSeconds: 5400,
			PublishedAt:     start.Add(2 * day),
			ExternalID:      "mock_oil_history_456",
			SourceProvider:  mockProviderName,
		},
		{
			Type:            "podcast",
			Title:           "Startup Stories: From Garage to IPO",
			Description:     "Inspiring stories of entrepreneurs who built successful companies from humble beginnings.",
			Language:        "en",
			DurationSeconds: 2700,
			PublishedAt:     start.Add(3 * day),
			ExternalID:      "mock_startup_stories_789",
			SourceProvider:  mockProviderName,
		},
		{
			Type:            "documentary",
			Title:           "Climate Change: The Tipping Point",
			Description:     "Scientific analysis of climate change effects and potential solutions for a sustainable future.",
			Language:        "en",
			DurationSeconds: 4800,
			PublishedAt:     end.Add(-2 * day),
			ExternalID:      "mock_climate_change_101",
			SourceProvider:  mockProviderName,
		},
		{
			Type:            "podcast",
			Title:           "الثقافة العربية في العصر الرقمي",
			Description:     "نقاش حول تأثير التكنولوجيا على الثقافة العربية والهوية في العصر الحديث",
			Language:        "ar",
			DurationSeconds: 3300,
			PublishedAt:     end.Add(-1 * day),
			ExternalID:      "mock_arabic_culture_202",
			SourceProvider:  mockProviderName,
		},
		{
			Type:            "documentary",
			Title:           "Space Exploration: Mars Mission",
			Description:     "Documentary about the latest Mars exploration missions and future plans for human colonization of the red planet.",
			Language:        "en",
			DurationSeconds: 4200,
			PublishedAt:     start.Add(4 * day),
			ExternalID:      "mock_mars_mission_303",
			SourceProvider:  mockProviderName,
		},
		{
			Type:            "podcast",
			Title:           "Cybersecurity in 2024",
			Description:     "Discussion about the latest cybersecurity threats and protection strategies for individuals and organizations.",
			Language:        "en",
			DurationSeconds: 2850,
			PublishedAt:     start.Add(5 * day),
			ExternalID:      "mock_cybersecurity_404",
			SourceProvider:  mockProviderName,
		},
	}
}
