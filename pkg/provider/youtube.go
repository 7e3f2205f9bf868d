package provider

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/mediaforge/cms-platform/pkg/common/logger"
)

const youtubeProviderName = "youtube"

type YouTubeConfig struct {
	APIKey     string
	BaseURL    string
	MaxResults int
	Timeout    time.Duration
}

// YouTube searches the YouTube Data API. The upstream supports server-side
// date filtering via publishedAfter/publishedBefore, so no client-side
// filtering is needed.
type YouTube struct {
	cfg    YouTubeConfig
	client *resty.Client
}

func NewYouTube(cfg YouTubeConfig) *YouTube {
	client := resty.New().
		SetBaseURL(cfg.BaseURL).
		SetTimeout(cfg.Timeout)

	return &YouTube{cfg: cfg, client: client}
}

func (y *YouTube) Name() string {
	return youtubeProviderName
}

func (y *YouTube) IsAvailable() bool {
	return y.cfg.APIKey != ""
}

func (y *YouTube) MaxBatchSize() int {
	return y.cfg.MaxResults
}

func (y *YouTube) RateLimitPerMinute() int {
	return 100
}

type youtubeSearchResponse struct {
	Items []struct {
		ID struct {
			VideoID string `json:"videoId"`
		} `json:"id"`
		Snippet struct {
			Title                string `json:"title"`
			Description          string `json:"description"`
			PublishedAt          string `json:"publishedAt"`
			DefaultAudioLanguage string `json:"defaultAudioLanguage"`
		} `json:"snippet"`
	} `json:"items"`
}

func (y *YouTube) Fetch(ctx context.Context, topic string, start, end time.Time) ([]ExternalItem, error) {
	if y.cfg.APIKey == "" {
		return nil, NewError(youtubeProviderName, "API key is not configured", nil)
	}

	logger.Log.WithFields(map[string]interface{}{
		"provider": youtubeProviderName,
		"topic":    topic,
		"start":    start.Format("2006-01-02"),
		"end":      end.Format("2006-01-02"),
	}).Info("Fetching YouTube content")

	var result youtubeSearchResponse
	resp, err := y.client.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"key":             y.cfg.APIKey,
			"q":               topic,
			"part":            "snippet,id",
			"type":            "video",
			"order":           "date",
			"maxResults":      strconv.Itoa(y.cfg.MaxResults),
			"publishedAfter":  start.UTC().Format(time.RFC3339),
			"publishedBefore": end.UTC().Add(24*time.Hour - time.Second).Format(time.RFC3339),
		}).
		SetResult(&result).
		Get("/search")
	if err != nil {
		return nil, NewError(youtubeProviderName, "failed to fetch content", err)
	}
	if resp.IsError() {
		return nil, NewError(youtubeProviderName,
			fmt.Sprintf("API error: %s - %s", resp.Status(), resp.String()), nil)
	}

	items := make([]ExternalItem, 0, len(result.Items))
	for _, entry := range result.Items {
		if entry.ID.VideoID == "" {
			continue
		}
		publishedAt, err := time.Parse(time.RFC3339, entry.Snippet.PublishedAt)
		if err != nil {
			logger.Log.WithError(err).WithField("video_id", entry.ID.VideoID).
				Warn("Skipping item with unparseable published date")
			continue
		}
		language := entry.Snippet.DefaultAudioLanguage
		if language == "" {
			language = "en"
		}
		items = append(items, ExternalItem{
			Type:           "video",
			Title:          entry.Snippet.Title,
			Description:    entry.Snippet.Description,
			Language:       language,
			PublishedAt:    publishedAt,
			ExternalID:     entry.ID.VideoID,
			SourceProvider: youtubeProviderName,
		})
	}
	return items, nil
}
