package discovery

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/mediaforge/cms-platform/pkg/shows"
)

const (
	docKeyPrefix     = "discovery:show:"
	keywordKeyPrefix = "discovery:keyword:"
	allShowsKey      = "discovery:shows"
)

// Document is the denormalized view of a show held in the search index.
type Document struct {
	ID              uuid.UUID  `json:"id"`
	Type            string     `json:"type"`
	Title           string     `json:"title"`
	Description     string     `json:"description"`
	Language        string     `json:"language"`
	DurationSeconds int        `json:"duration_seconds"`
	PublishedAt     *time.Time `json:"published_at,omitempty"`
	Tags            []string   `json:"tags,omitempty"`
	SourceProvider  string     `json:"source_provider,omitempty"`
	IndexedAt       time.Time  `json:"indexed_at"`
}

// Index maintains show documents and inverted keyword sets in Redis.
type Index struct {
	client *redis.Client
}

func NewIndex(client *redis.Client) *Index {
	return &Index{client: client}
}

// IndexShow upserts the document and rebuilds its keyword memberships.
// Re-indexing the same show is safe: stale keywords are removed first.
func (i *Index) IndexShow(ctx context.Context, show shows.Show) error {
	doc := documentFromShow(show)
	keywords := doc.keywords()

	previous, err := i.documentKeywords(ctx, doc.ID)
	if err != nil {
		return fmt.Errorf("failed to load previous keywords: %w", err)
	}

	payload, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("failed to marshal document: %w", err)
	}

	pipe := i.client.TxPipeline()
	for _, word := range previous {
		pipe.SRem(ctx, keywordKeyPrefix+word, doc.ID.String())
	}
	pipe.Set(ctx, docKeyPrefix+doc.ID.String(), payload, 0)
	pipe.SAdd(ctx, allShowsKey, doc.ID.String())
	for _, word := range keywords {
		pipe.SAdd(ctx, keywordKeyPrefix+word, doc.ID.String())
	}
	_, err = pipe.Exec(ctx)
	return err
}

// RemoveShow deletes the document and all of its keyword memberships.
func (i *Index) RemoveShow(ctx context.Context, id uuid.UUID) error {
	previous, err := i.documentKeywords(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to load previous keywords: %w", err)
	}

	pipe := i.client.TxPipeline()
	for _, word := range previous {
		pipe.SRem(ctx, keywordKeyPrefix+word, id.String())
	}
	pipe.SRem(ctx, allShowsKey, id.String())
	pipe.Del(ctx, docKeyPrefix+id.String())
	_, err = pipe.Exec(ctx)
	return err
}

func (i *Index) getDocument(ctx context.Context, id string) (*Document, error) {
	payload, err := i.client.Get(ctx, docKeyPrefix+id).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var doc Document
	if err := json.Unmarshal(payload, &doc); err != nil {
		return nil, err
	}
	return &doc, nil
}

func (i *Index) documentKeywords(ctx context.Context, id uuid.UUID) ([]string, error) {
	doc, err := i.getDocument(ctx, id.String())
	if err != nil || doc == nil {
		return nil, err
	}
	return doc.keywords(), nil
}

func documentFromShow(show shows.Show) Document {
	return Document{
		ID:              show.ID,
		Type:            show.Type,
		Title:           show.Title,
		Description:     show.Description,
		Language:        show.Language,
		DurationSeconds: show.DurationSeconds,
		PublishedAt:     show.PublishedAt,
		Tags:            []string(show.Tags),
		SourceProvider:  show.SourceProvider,
		IndexedAt:       time.Now().UTC(),
	}
}

func (d Document) keywords() []string {
	text := d.Title + " " + d.Description + " " + strings.Join(d.Tags, " ")
	return tokenize(text)
}

// tokenize lowercases the text and splits it on anything that is not a
// letter or digit. Single-character fragments are dropped.
func tokenize(text string) []string {
	fields := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !isWordRune(r)
	})

	seen := make(map[string]struct{}, len(fields))
	words := make([]string, 0, len(fields))
	for _, field := range fields {
		if len([]rune(field)) < 2 {
			continue
		}
		if _, ok := seen[field]; ok {
			continue
		}
		seen[field] = struct{}{}
		words = append(words, field)
	}
	return words
}

func isWordRune(r rune) bool {
	return r == '_' ||
		(r >= 'a' && r <= 'z') ||
		(r >= '0' && r <= '9') ||
		r > 127
}
