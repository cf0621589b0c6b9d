package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"forumweb/internal/api"
	"forumweb/internal/models"
	"forumweb/internal/utils"
)

const statsCacheKey = "forum:stats"

// SearchService runs global searches and serves forum statistics.
type SearchService struct {
	api      *api.SearchAPI
	cache    *utils.TTLCache
	cacheTTL time.Duration
}

// NewSearchService caches stats in cache for ttl; a nil cache or zero ttl disables caching.
func NewSearchService(a *api.SearchAPI, cache *utils.TTLCache, ttl time.Duration) *SearchService {
	return &SearchService{api: a, cache: cache, cacheTTL: ttl}
}

// GlobalSearch searches topics and users. A blank query returns an empty
// result without calling the backend.
func (s *SearchService) GlobalSearch(ctx context.Context, query string) (*models.SearchResult, error) {
	q := strings.TrimSpace(query)
	if q == "" {
		return models.EmptySearchResult(), nil
	}
	res, err := s.api.Global(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("search %q: %w", q, err)
	}
	return res, nil
}

// ForumStats returns member, topic and message counts.
func (s *SearchService) ForumStats(ctx context.Context) (*models.ForumStats, error) {
	if s.cache != nil {
		if cached, ok := s.cache.Get(statsCacheKey).(models.ForumStats); ok {
			return &cached, nil
		}
	}
	stats, err := s.api.Stats(ctx)
	if err != nil {
		return nil, fmt.Errorf("forum stats: %w", err)
	}
	if s.cache != nil {
		s.cache.Set(statsCacheKey, *stats, s.cacheTTL)
	}
	return stats, nil
}
