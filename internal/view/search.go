package view

import (
	"context"
	"strings"

	"forumweb/internal/models"
)

const (
	TabTopics = "topics"
	TabUsers  = "users"

	msgSearchFailed = "Erreur lors de la recherche"
)

type SearchPage struct {
	base
	Query  string
	Tab    string
	Result *models.SearchResult
}

func NewSearchPage(env Env) *SearchPage {
	return &SearchPage{base: newBase(env), Tab: TabTopics, Result: models.EmptySearchResult()}
}

// Load runs the search. A blank query shows the empty page.
func (p *SearchPage) Load(ctx context.Context, query, tab string) {
	p.start()
	p.Query = strings.TrimSpace(query)
	p.Tab = TabTopics
	if tab == TabUsers {
		p.Tab = TabUsers
	}

	res, err := p.env.Forum.Search.GlobalSearch(ctx, p.Query)
	if err != nil {
		p.Result = models.EmptySearchResult()
		p.fail(err, msgSearchFailed)
		return
	}
	p.Result = res
	p.ready()
}

func (p *SearchPage) TopicCount() int { return len(p.Result.Topics) }
func (p *SearchPage) UserCount() int  { return len(p.Result.Users) }
