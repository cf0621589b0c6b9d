package api

import (
	"context"
	"net/url"

	"forumweb/internal/models"
)

// SearchAPI wraps the search/ resource group.
type SearchAPI struct {
	c *Client
}

func NewSearchAPI(c *Client) *SearchAPI {
	return &SearchAPI{c: c}
}

// Global searches topics and users in one call.
func (s *SearchAPI) Global(ctx context.Context, query string) (*models.SearchResult, error) {
	out := models.EmptySearchResult()
	if err := s.c.get(ctx, "", url.Values{"q": {query}}, out); err != nil {
		return nil, err
	}
	if out.Topics == nil {
		out.Topics = []models.Topic{}
	}
	if out.Users == nil {
		out.Users = []models.User{}
	}
	if err := checkAll("search topics", out.Topics); err != nil {
		return nil, err
	}
	if err := checkAll("search users", out.Users); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *SearchAPI) Stats(ctx context.Context) (*models.ForumStats, error) {
	var out models.ForumStats
	if err := s.c.get(ctx, "stats/", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
