package view

import (
	"context"

	"forumweb/internal/models"
)

type HomePage struct {
	base
	Stats         models.ForumStats
	Authenticated bool
	User          *models.User
}

func NewHomePage(env Env) *HomePage {
	return &HomePage{base: newBase(env)}
}

// Load fills the stats. Stats are decorative: a failure leaves zero counts.
func (p *HomePage) Load(ctx context.Context) {
	p.start()
	p.Authenticated = p.env.Forum.Session.IsAuthenticated()
	p.User, _ = p.env.Forum.Session.CurrentUserLocal()

	stats, err := p.env.Forum.Search.ForumStats(ctx)
	if err != nil {
		logFailure(err)
	} else {
		p.Stats = *stats
	}
	p.ready()
}
