package provider

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/mediaforge/cms-platform/pkg/common/logger"
	"golang.org/x/oauth2/clientcredentials"
)

const vimeoProviderName = "vimeo"

type VimeoConfig struct {
	ClientID     string
	ClientSecret string
	BaseURL      string
	TokenURL     string
	Timeout      time.Duration
}

// Vimeo searches the Vimeo API using a client-credentials token. The search
// endpoint has no date filter, so results are filtered client-side against
// the inclusive [start, end] window.
type Vimeo struct {
	cfg    VimeoConfig
	client *resty.Client
}

func NewVimeo(cfg VimeoConfig) *Vimeo {
	oauth := &clientcredentials.Config{
		ClientID:     cfg.ClientID,
		ClientSecret: cfg.ClientSecret,
		TokenURL:     cfg.TokenURL,
		Scopes:       []string{"public"},
	}

	client := resty.NewWithClient(oauth.Client(context.Background())).
		SetBaseURL(cfg.BaseURL).
		SetTimeout(cfg.Timeout).
		SetHeader("Accept", "application/vnd.vimeo.*+json;version=3.4")

	return &Vimeo{cfg: cfg, client: client}
}

func (v *Vimeo) Name() string {
	return vimeoProviderName
}

func (v *Vimeo) IsAvailable() bool {
	return v.cfg.ClientID != "" && v.cfg.ClientSecret != ""
}

func (v *Vimeo) MaxBatchSize() int {
	return 25
}

func (v *Vimeo) RateLimitPerMinute() int {
	return 60
}

type vimeoSearchResponse struct {
	Data []struct {
		URI         string `json:"uri"`
		Name        string `json:"name"`
		Description string `json:"description"`
		Duration    int    `json:"duration"`
		ReleaseTime string `json:"release_time"`
		Language    string `json:"language"`
	} `json:"data"`
}

func (v *Vimeo) Fetch(ctx context.Context, topic string, start, end time.Time) ([]ExternalItem, error) {
	if !v.IsAvailable() {
		return nil, NewError(vimeoProviderName, "client credentials are not configured", nil)
	}

	logger.Log.WithFields(map[string]interface{}{
		"provider": vimeoProviderName,
		"topic":    topic,
		"start":    start.Format("2006-01-02"),
		"end":      end.Format("2006-01-02"),
	}).Info("Fetching Vimeo content")

	var result vimeoSearchResponse
	resp, err := v.client.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"query":    topic,
			"per_page": "25",
			"sort":     "date",
		}).
		SetResult(&result).
		Get("/videos")
	if err != nil {
		return nil, NewError(vimeoProviderName, "failed to fetch content", err)
	}
	if resp.IsError() {
		return nil, NewError(vimeoProviderName,
			fmt.Sprintf("API error: %s - %s", resp.Status(), resp.String()), nil)
	}

	items := make([]ExternalItem, 0, len(result.Data))
	for _, entry := range result.Data {
		publishedAt, err := time.Parse(time.RFC3339, entry.ReleaseTime)
		if err != nil {
			logger.Log.WithError(err).WithField("uri", entry.URI).
				Warn("Skipping item with unparseable release time")
			continue
		}
		language := entry.Language
		if language == "" {
			language = "en"
		}
		items = append(items, ExternalItem{
			Type:            "video",
			Title:           entry.Name,
			Description:     entry.Description,
			Language:        language,
			DurationSeconds: entry.Duration,
			PublishedAt:     publishedAt,
			ExternalID:      entry.URI,
			SourceProvider:  vimeoProviderName,
		})
	}
	// Vimeo search cannot filter by date server-side.
	return filterByDateRange(items, start, end.Add(24*time.Hour-time.Second)), nil
}
