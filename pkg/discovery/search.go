package discovery

import (
	"context"
	"sort"

	"github.com/redis/go-redis/v9"
)

const defaultSearchLimit = 20

type SearchQuery struct {
	Query    string
	Type     string
	Language string
	Limit    int
}

type SearchResult struct {
	Items []Document `json:"items"`
	Total int        `json:"total"`
}

// Searcher answers keyword queries against the Redis index. A query matches
// a show when every query keyword appears in the show's title, description
// or tags. An empty query matches everything.
type Searcher struct {
	client *redis.Client
	index  *Index
}

func NewSearcher(client *redis.Client) *Searcher {
	return &Searcher{client: client, index: NewIndex(client)}
}

func (s *Searcher) Search(ctx context.Context, query SearchQuery) (*SearchResult, error) {
	ids, err := s.candidateIDs(ctx, query.Query)
	if err != nil {
		return nil, err
	}

	matches := make([]Document, 0, len(ids))
	for _, id := range ids {
		doc, err := s.index.getDocument(ctx, id)
		if err != nil {
			return nil, err
		}
		if doc == nil {
			continue
		}
		if query.Type != "" && doc.Type != query.Type {
			continue
		}
		if query.Language != "" && doc.Language != query.Language {
			continue
		}
		matches = append(matches, *doc)
	}

	sort.Slice(matches, func(a, b int) bool {
		left, right := matches[a], matches[b]
		if left.PublishedAt != nil && right.PublishedAt != nil && !left.PublishedAt.Equal(*right.PublishedAt) {
			return left.PublishedAt.After(*right.PublishedAt)
		}
		if (left.PublishedAt != nil) != (right.PublishedAt != nil) {
			return left.PublishedAt != nil
		}
		return left.Title < right.Title
	})

	total := len(matches)
	limit := query.Limit
	if limit <= 0 {
		limit = defaultSearchLimit
	}
	if len(matches) > limit {
		matches = matches[:limit]
	}

	return &SearchResult{Items: matches, Total: total}, nil
}

func (s *Searcher) candidateIDs(ctx context.Context, query string) ([]string, error) {
	keywords := tokenize(query)
	if len(keywords) == 0 {
		return s.client.SMembers(ctx, allShowsKey).Result()
	}

	keys := make([]string, len(keywords))
	for i, word := range keywords {
		keys[i] = keywordKeyPrefix + word
	}
	return s.client.SInter(ctx, keys...).Result()
}
