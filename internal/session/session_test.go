package session

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"forumweb/internal/models"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
)

func TestUserSnapshotRoundTrip(t *testing.T) {
	s := NewMemoryStore()

	u, err := LoadUser(s)
	if err != nil || u != nil {
		t.Fatalf("empty store: LoadUser() = %v, %v", u, err)
	}

	want := &models.User{ID: 1, Username: "alice", Email: "a@x.com"}
	if err := SaveUser(s, want); err != nil {
		t.Fatalf("SaveUser: %v", err)
	}
	got, err := LoadUser(s)
	if err != nil {
		t.Fatalf("LoadUser: %v", err)
	}
	if got.ID != 1 || got.Username != "alice" || got.Email != "a@x.com" {
		t.Errorf("LoadUser() = %+v", got)
	}
}

func TestSnapshotLeavesOutBio(t *testing.T) {
	s := NewMemoryStore()
	u := &models.User{ID: 2, Username: "bob", FirstName: "Bob", Bio: strings.Repeat("😀", 500)}
	if err := SaveUser(s, u); err != nil {
		t.Fatalf("SaveUser: %v", err)
	}
	raw, _, _ := s.Get(UserKey)
	if len(raw) > 256 {
		t.Errorf("snapshot is %d bytes", len(raw))
	}
	got, _ := LoadUser(s)
	if got.FirstName != "Bob" || got.Bio != "" {
		t.Errorf("LoadUser() = %+v", got)
	}
	if u.Bio == "" {
		t.Error("SaveUser modified its argument")
	}
}

func TestLoadUserRejectsGarbage(t *testing.T) {
	s := NewMemoryStore()
	_ = s.Set(UserKey, "{not json")
	if _, err := LoadUser(s); err == nil {
		t.Error("expected decode error")
	}
}

func TestClearIsIdempotent(t *testing.T) {
	s := NewMemoryStore()
	_ = s.Set(TokenKey, "T1")
	_ = SaveUser(s, &models.User{ID: 1, Username: "alice"})

	for i := 0; i < 2; i++ {
		if err := Clear(s); err != nil {
			t.Fatalf("Clear #%d: %v", i+1, err)
		}
	}
	if tok, _ := Token(s); tok != "" {
		t.Errorf("token survived Clear: %q", tok)
	}
	if _, ok, _ := s.Get(UserKey); ok {
		t.Error("user survived Clear")
	}
}

func TestCookieStorePersistsAcrossRequests(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(sessions.Sessions("test_session", cookie.NewStore([]byte("test-secret"))))
	r.GET("/set", func(c *gin.Context) {
		store := NewCookieStore(sessions.Default(c))
		if err := store.Set(TokenKey, "T1"); err != nil {
			t.Errorf("Set: %v", err)
		}
		if err := store.Save(); err != nil {
			t.Errorf("Save: %v", err)
		}
		c.Status(http.StatusNoContent)
	})
	r.GET("/get", func(c *gin.Context) {
		tok, err := Token(NewCookieStore(sessions.Default(c)))
		if err != nil {
			t.Errorf("Token: %v", err)
		}
		c.String(http.StatusOK, tok)
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/set", nil))
	cookies := w.Result().Cookies()
	if len(cookies) == 0 {
		t.Fatal("no session cookie issued")
	}

	req := httptest.NewRequest(http.MethodGet, "/get", nil)
	for _, ck := range cookies {
		req.AddCookie(ck)
	}
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Body.String() != "T1" {
		t.Errorf("token after reload = %q, want T1", w.Body.String())
	}
}

func TestCookieStoreRefusesOversizedValues(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(sessions.Sessions("test_session", cookie.NewStore([]byte("test-secret"))))
	r.GET("/big", func(c *gin.Context) {
		store := NewCookieStore(sessions.Default(c))
		err := store.Set(UserKey, strings.Repeat("x", maxCookieValue+1))
		if !errors.Is(err, ErrValueTooLarge) {
			t.Errorf("Set oversized: err = %v", err)
		}
		if _, ok, _ := store.Get(UserKey); ok {
			t.Error("oversized value was kept")
		}
		if err := store.Set(TokenKey, "T1"); err != nil {
			t.Errorf("Set token: %v", err)
		}
		if err := store.Save(); err != nil {
			t.Errorf("Save: %v", err)
		}
		c.Status(http.StatusNoContent)
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/big", nil))
	if len(w.Result().Cookies()) != 1 {
		t.Errorf("cookies = %d, want 1", len(w.Result().Cookies()))
	}
}
