package services

import (
	"net/http"
	"time"

	"forumweb/internal/api"
	"forumweb/internal/config"
	"forumweb/internal/session"
	"forumweb/internal/utils"
)

// Backend holds what every visitor shares: the REST base address, the
// pooled HTTP client and the stats cache.
type Backend struct {
	BaseURL       string
	HTTP          *http.Client
	StatsCache    *utils.TTLCache
	StatsCacheTTL time.Duration
}

// NewBackend builds the shared backend handle from configuration.
func NewBackend(cfg config.AppConfig) *Backend {
	return &Backend{
		BaseURL:       cfg.APIBaseURL,
		HTTP:          &http.Client{Timeout: cfg.HTTPTimeout},
		StatsCache:    utils.GetCache(),
		StatsCacheTTL: cfg.StatsCacheTTL,
	}
}

// Forum bundles the controllers bound to one visitor's session store.
type Forum struct {
	Session *SessionController
	Topics  *TopicService
	Search  *SearchService
}

// For binds one API client per resource group to store; every call those
// clients make carries the token found in store at send time.
func (b *Backend) For(store session.Store) (*Forum, error) {
	tokens := api.TokenInterceptor(store)

	authClient, err := api.NewClient(b.BaseURL, api.GroupAuth, b.HTTP, tokens)
	if err != nil {
		return nil, err
	}
	topicsClient, err := api.NewClient(b.BaseURL, api.GroupTopics, b.HTTP, tokens)
	if err != nil {
		return nil, err
	}
	searchClient, err := api.NewClient(b.BaseURL, api.GroupSearch, b.HTTP, tokens)
	if err != nil {
		return nil, err
	}

	return &Forum{
		Session: NewSessionController(store, api.NewAuthAPI(authClient)),
		Topics:  NewTopicService(api.NewTopicsAPI(topicsClient)),
		Search:  NewSearchService(api.NewSearchAPI(searchClient), b.StatsCache, b.StatsCacheTTL),
	}, nil
}
