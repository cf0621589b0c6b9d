package middleware

import (
	"net/http"

	"forumweb/internal/models"
	"forumweb/internal/services"
	"forumweb/internal/session"
	"forumweb/internal/utils"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	CheckUserKey  = "user"
	StoreKey      = "session_store"
	ForumKey      = "forum"
	VisitorKey    = "visitor"
	LoginPath     = "/auth/login"
	sessionIDName = "sid"
)

// SessionStore binds the visitor's session.Store to the request. Every
// visitor gets an opaque id in the cookie session; with a database the
// entries live in session_entries under that id, otherwise in the cookie.
// The cookie is saved once, right before the response headers are written.
func SessionStore(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		sess := sessions.Default(c)
		sid, _ := sess.Get(sessionIDName).(string)
		if sid == "" {
			sid = uuid.NewString()
			sess.Set(sessionIDName, sid)
		}

		var store session.Store = session.NewCookieStore(sess)
		if db != nil {
			store = session.NewDBStore(db, sid)
		}
		c.Set(VisitorKey, sid)
		c.Set(StoreKey, store)

		sw := &sessionWriter{ResponseWriter: c.Writer, sess: sess}
		c.Writer = sw
		c.Next()
		if !sw.Written() {
			sw.save()
		}
	}
}

// sessionWriter flushes the pending session before the first header write.
type sessionWriter struct {
	gin.ResponseWriter
	sess sessions.Session
}

func (w *sessionWriter) save() {
	if err := w.sess.Save(); err != nil {
		utils.Sugar.Errorw("save session failed", "err", err)
	}
}

func (w *sessionWriter) WriteHeader(code int) {
	if !w.Written() {
		w.save()
	}
	w.ResponseWriter.WriteHeader(code)
}

func (w *sessionWriter) WriteHeaderNow() {
	if !w.Written() {
		w.save()
	}
	w.ResponseWriter.WriteHeaderNow()
}

func (w *sessionWriter) Write(b []byte) (int, error) {
	if !w.Written() {
		w.save()
	}
	return w.ResponseWriter.Write(b)
}

func (w *sessionWriter) WriteString(s string) (int, error) {
	if !w.Written() {
		w.save()
	}
	return w.ResponseWriter.WriteString(s)
}

// BindForum builds the visitor's controllers on top of the session store.
func BindForum(backend *services.Backend) gin.HandlerFunc {
	return func(c *gin.Context) {
		f, err := backend.For(Store(c))
		if err != nil {
			utils.Sugar.Errorw("bind forum services failed", "err", err)
			c.AbortWithStatus(http.StatusInternalServerError)
			return
		}
		c.Set(ForumKey, f)
		c.Next()
	}
}

// LoadUser puts the cached user snapshot into the context. It never calls
// the backend.
func LoadUser() gin.HandlerFunc {
	return func(c *gin.Context) {
		if u, err := Forum(c).Session.CurrentUserLocal(); err != nil {
			utils.Sugar.Warnw("unreadable user snapshot", "visitor", Visitor(c), "err", err)
		} else if u != nil {
			c.Set(CheckUserKey, u)
		}
		c.Next()
	}
}

// AuthRequired sends visitors without a token to the login page.
func AuthRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !Forum(c).Session.IsAuthenticated() {
			c.Redirect(http.StatusFound, LoginPath)
			c.Abort()
			return
		}
		c.Next()
	}
}

func Store(c *gin.Context) session.Store {
	return c.MustGet(StoreKey).(session.Store)
}

func Forum(c *gin.Context) *services.Forum {
	return c.MustGet(ForumKey).(*services.Forum)
}

func Visitor(c *gin.Context) string {
	return c.GetString(VisitorKey)
}

// CurrentUser is the snapshot loaded by LoadUser, nil for anonymous visitors.
func CurrentUser(c *gin.Context) *models.User {
	if v, ok := c.Get(CheckUserKey); ok {
		if u, ok := v.(*models.User); ok {
			return u
		}
	}
	return nil
}
