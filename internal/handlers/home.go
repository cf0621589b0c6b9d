package handlers

import (
	"net/http"

	"forumweb/internal/view"

	"github.com/gin-gonic/gin"
)

type HomeHandler struct {
	base
}

func NewHomeHandler(guard *view.Guard) *HomeHandler {
	return &HomeHandler{base: newBase(guard)}
}

func (h *HomeHandler) Index(c *gin.Context) {
	page := view.NewHomePage(h.env(c))
	page.Load(c.Request.Context())
	Render(c, http.StatusOK, "home.html", gin.H{"Page": page})
}

// Health answers load balancer checks without touching the backend.
func (h *HomeHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
