package main

import (
	"log"
	"time"

	"forumweb/internal/config"
	"forumweb/internal/db"
	"forumweb/internal/handlers"
	"forumweb/internal/middleware"
	"forumweb/internal/router"
	"forumweb/internal/services"
	"forumweb/internal/utils"
	"forumweb/internal/view"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

const (
	sessionMaxAge          = 30 * 24 * time.Hour
	sessionCleanupInterval = time.Hour
)

func main() {
	cfg := config.Load()

	if err := utils.InitLogger(cfg); err != nil {
		log.Fatalf("init logger: %v", err)
	}
	defer utils.Logger.Sync()

	gin.SetMode(cfg.GinMode)
	r := gin.New()
	r.Use(
		middleware.RequestID(),
		middleware.AccessLog(utils.Logger),
		middleware.Recovery(utils.Logger),
	)

	// Setup Sessions
	store := cookie.NewStore([]byte(cfg.SessionSecret))
	store.Options(sessions.Options{
		Path:     "/",
		MaxAge:   int(sessionMaxAge / time.Second),
		HttpOnly: true,
	})
	r.Use(sessions.Sessions(cfg.SessionName, store))

	var database *gorm.DB
	if cfg.SessionBackend == config.SessionBackendPostgres {
		var err error
		database, err = db.Open(cfg.DatabaseURL)
		if err != nil {
			utils.Sugar.Fatalw("session database unavailable", "err", err)
		}
		stop := make(chan struct{})
		defer close(stop)
		db.StartSessionCleanup(database, sessionMaxAge, sessionCleanupInterval, stop)
	}

	renderer, err := handlers.LoadTemplates(cfg.TemplatesDir)
	if err != nil {
		utils.Sugar.Fatalw("load templates", "dir", cfg.TemplatesDir, "err", err)
	}
	r.HTMLRender = renderer

	// Static Assets
	r.Static("/static", cfg.StaticDir)

	var captcha *services.Captcha
	if cfg.RegisterCaptcha {
		captcha = services.NewCaptcha()
	}

	router.RegisterRoutes(r, router.Deps{
		Backend:       services.NewBackend(cfg),
		DB:            database,
		Captcha:       captcha,
		Limiter:       middleware.NewRateLimiter(cfg.RateLimitPerMinute),
		Guard:         view.NewGuard(),
		TopicsPerPage: cfg.TopicsPerPage,
	})

	utils.Sugar.Infow("forum frontend starting",
		"port", cfg.AppPort, "api", cfg.APIBaseURL, "sessions", cfg.SessionBackend)
	if err := utils.GraceServer(":"+cfg.AppPort, r); err != nil {
		utils.Sugar.Fatalw("server stopped", "err", err)
	}
}
