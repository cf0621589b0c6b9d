package handlers

import (
	"forumweb/internal/view"

	"github.com/gin-gonic/gin"
)

type SearchHandler struct {
	base
}

func NewSearchHandler(guard *view.Guard) *SearchHandler {
	return &SearchHandler{base: newBase(guard)}
}

// Search - /search?q=...&tab=topics|users
func (h *SearchHandler) Search(c *gin.Context) {
	page := view.NewSearchPage(h.env(c))
	page.Load(c.Request.Context(), c.Query("q"), c.DefaultQuery("tab", view.TabTopics))
	Render(c, pageStatus(page.State), "search.html", gin.H{"Page": page})
}
