package handlers

import (
	"net/http"

	"forumweb/internal/config"
	"forumweb/internal/middleware"
	"forumweb/internal/utils"
	"forumweb/internal/view"

	"github.com/gin-gonic/gin"
)

// Render helper to inject common variables like 'current user'
func Render(c *gin.Context, code int, name string, obj gin.H) {
	if obj == nil {
		obj = gin.H{}
	}

	if user := middleware.CurrentUser(c); user != nil {
		obj["CurrentUser"] = user
	}
	if _, exists := c.Get(middleware.ForumKey); exists {
		obj["IsAuthenticated"] = middleware.Forum(c).Session.IsAuthenticated()
	}
	obj["ForumName"] = config.Get().ForumName
	obj["CurrentPath"] = c.Request.URL.Path
	obj["RequestID"] = c.GetString(middleware.RequestIDKey)

	c.HTML(code, name, obj)
}

// RenderError renders the dead-end page with a link back to the listing.
func RenderError(c *gin.Context, code int, message string) {
	Render(c, code, "error.html", gin.H{"Error": message})
}

// base carries what every page handler shares. The guard must be the same
// for all requests so a visitor cannot send one form twice concurrently.
type base struct {
	guard *view.Guard
}

// newBase falls back to a private guard when none is given.
func newBase(guard *view.Guard) base {
	if guard == nil {
		guard = view.NewGuard()
	}
	return base{guard: guard}
}

// env binds a page coordinator to the visitor.
func (b base) env(c *gin.Context) view.Env {
	return view.Env{Forum: middleware.Forum(c), Guard: b.guard, Visitor: middleware.Visitor(c)}
}

// pageStatus maps a loaded page to its HTTP status.
func pageStatus(s view.State) int {
	switch {
	case s.NotFound:
		return http.StatusNotFound
	case s.NeedsLogin:
		return http.StatusUnauthorized
	case s.Phase == view.PhaseError:
		return http.StatusBadGateway
	}
	return http.StatusOK
}

// formStatus is the status of a form page rendered back to the visitor.
func formStatus(s view.State) int {
	if s.Error != "" {
		return http.StatusBadRequest
	}
	return pageStatus(s)
}

// followRedirect sends the browser on when the page asked for it.
func followRedirect(c *gin.Context, s view.State) bool {
	if s.Redirect == "" {
		return false
	}
	c.Redirect(http.StatusFound, s.Redirect)
	return true
}

func paramID(c *gin.Context, name string) (int, bool) {
	id, ok := utils.ParseID(c.Param(name))
	if !ok {
		RenderError(c, http.StatusNotFound, "Page introuvable")
	}
	return id, ok
}
