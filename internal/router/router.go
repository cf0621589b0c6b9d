package router

import (
	"forumweb/internal/handlers"
	"forumweb/internal/middleware"
	"forumweb/internal/services"
	"forumweb/internal/view"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// Deps is what the routes need from boot.
type Deps struct {
	Backend *services.Backend
	// DB holds server-side sessions; nil keeps them in the cookie.
	DB *gorm.DB
	// Captcha challenges registrations when set.
	Captcha *services.Captcha
	Limiter *middleware.RateLimiter
	// Guard rejects a second submission of a form still in flight; nil
	// makes a fresh one shared by all handlers.
	Guard         *view.Guard
	TopicsPerPage int
}

// RegisterRoutes mounts the site. The engine must already run the cookie
// sessions middleware.
func RegisterRoutes(r *gin.Engine, d Deps) {
	// Handlers
	guard := d.Guard
	if guard == nil {
		guard = view.NewGuard()
	}
	homeHandler := handlers.NewHomeHandler(guard)
	authHandler := handlers.NewAuthHandler(guard, d.Captcha)
	topicHandler := handlers.NewTopicHandler(guard, d.TopicsPerPage)
	profileHandler := handlers.NewProfileHandler(guard)
	searchHandler := handlers.NewSearchHandler(guard)
	seoHandler := handlers.NewSEOHandler()

	r.GET("/healthz", homeHandler.Health)
	r.GET("/robots.txt", seoHandler.RobotsTxt)

	site := r.Group("/")
	site.Use(
		middleware.SessionStore(d.DB),
		middleware.BindForum(d.Backend),
		middleware.LoadUser(),
	)
	if d.Limiter != nil {
		site.Use(d.Limiter.Middleware())
	}

	// Public Routes
	site.GET("/", homeHandler.Index)
	site.GET("/sitemap.xml", seoHandler.SitemapXML)
	site.GET("/topics", topicHandler.List)
	site.GET("/topics/:id", topicHandler.Detail)
	site.GET("/search", searchHandler.Search)

	auth := site.Group("/auth")
	{
		auth.GET("/login", authHandler.ShowLogin)
		auth.POST("/login", authHandler.Login)
		auth.GET("/register", authHandler.ShowRegister)
		auth.POST("/register", authHandler.Register)
		auth.POST("/logout", authHandler.Logout)
	}

	// Protected Routes
	authorized := site.Group("/")
	authorized.Use(middleware.AuthRequired())
	{
		authorized.GET("/topics/new", topicHandler.ShowCreate)
		authorized.POST("/topics/new", topicHandler.Create)
		authorized.GET("/topics/:id/edit", topicHandler.ShowEdit)
		authorized.POST("/topics/:id/edit", topicHandler.Update)
		authorized.POST("/topics/:id/delete", topicHandler.Delete)
		authorized.POST("/topics/:id/replies", topicHandler.Reply)

		authorized.POST("/replies/:id/edit", topicHandler.EditReply)
		authorized.POST("/replies/:id/delete", topicHandler.DeleteReply)

		authorized.GET("/profile", profileHandler.Show)
		authorized.POST("/profile", profileHandler.Update)
	}
}
