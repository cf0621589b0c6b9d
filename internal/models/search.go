package models

// SearchResult is produced per query and never persisted.
type SearchResult struct {
	Topics []Topic `json:"topics"`
	Users  []User  `json:"users"`
}

// EmptySearchResult has non-nil, empty slices so it renders as {"topics":[],"users":[]}.
func EmptySearchResult() *SearchResult {
	return &SearchResult{Topics: []Topic{}, Users: []User{}}
}

// ForumStats are the aggregate counts shown on the home page.
type ForumStats struct {
	Members  int `json:"total_users"`
	Topics   int `json:"total_topics"`
	Messages int `json:"total_replies"`
}
