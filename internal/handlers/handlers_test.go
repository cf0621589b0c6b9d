package handlers_test

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"forumweb/internal/forumtest"
	"forumweb/internal/handlers"
	"forumweb/internal/middleware"
	"forumweb/internal/models"
	"forumweb/internal/router"
	"forumweb/internal/services"
	"forumweb/internal/utils"
	"forumweb/internal/view"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const templatesDir = "../../web/templates"

func newSite(t *testing.T, fb *forumtest.Backend, captcha *services.Captcha) http.Handler {
	t.Helper()
	gin.SetMode(gin.TestMode)

	r := gin.New()
	r.Use(middleware.RequestID(), middleware.Recovery(zap.NewNop()))
	r.Use(sessions.Sessions("test_session", cookie.NewStore([]byte("test-secret"))))

	renderer, err := handlers.LoadTemplates(templatesDir)
	if err != nil {
		t.Fatalf("LoadTemplates: %v", err)
	}
	r.HTMLRender = renderer

	router.RegisterRoutes(r, router.Deps{
		Backend: &services.Backend{
			BaseURL:       fb.URL,
			HTTP:          fb.Client(),
			StatsCache:    utils.NewTTLCache(16),
			StatsCacheTTL: time.Minute,
		},
		Captcha:       captcha,
		Guard:         view.NewGuard(),
		TopicsPerPage: 2,
	})
	return r
}

// browser replays the cookies it receives.
type browser struct {
	h       http.Handler
	cookies map[string]*http.Cookie
}

func newBrowser(h http.Handler) *browser {
	return &browser{h: h, cookies: map[string]*http.Cookie{}}
}

func (b *browser) send(req *http.Request) *httptest.ResponseRecorder {
	for _, ck := range b.cookies {
		req.AddCookie(ck)
	}
	w := httptest.NewRecorder()
	b.h.ServeHTTP(w, req)
	for _, ck := range w.Result().Cookies() {
		b.cookies[ck.Name] = ck
	}
	return w
}

func (b *browser) get(path string) *httptest.ResponseRecorder {
	return b.send(httptest.NewRequest(http.MethodGet, path, nil))
}

func (b *browser) post(path string, form url.Values) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return b.send(req)
}

func (b *browser) login(t *testing.T, username, password string) {
	t.Helper()
	w := b.post("/auth/login", url.Values{"username": {username}, "password": {password}})
	if w.Code != http.StatusFound {
		t.Fatalf("login %s: %d %s", username, w.Code, w.Body.String())
	}
}

func assertContains(t *testing.T, w *httptest.ResponseRecorder, want ...string) {
	t.Helper()
	body := w.Body.String()
	for _, s := range want {
		if !strings.Contains(body, s) {
			t.Errorf("body does not contain %q", s)
		}
	}
}

func TestHealthAndHome(t *testing.T) {
	fb := forumtest.New(t)
	fb.AddUser("alice", "a@x.com", "secret1")
	b := newBrowser(newSite(t, fb, nil))

	if w := b.get("/healthz"); w.Code != http.StatusOK || !strings.Contains(w.Body.String(), `"ok"`) {
		t.Errorf("healthz: %d %s", w.Code, w.Body.String())
	}
	if fb.TotalCalls() != 0 {
		t.Errorf("healthz reached the backend")
	}

	w := b.get("/")
	if w.Code != http.StatusOK {
		t.Fatalf("home: %d", w.Code)
	}
	assertContains(t, w, "Membres", "Rejoindre la communauté")
}

func TestRegisterThenProfile(t *testing.T) {
	fb := forumtest.New(t)
	b := newBrowser(newSite(t, fb, nil))

	if w := b.get("/profile"); w.Code != http.StatusFound || w.Header().Get("Location") != "/auth/login" {
		t.Fatalf("anonymous profile: %d %q", w.Code, w.Header().Get("Location"))
	}

	w := b.post("/auth/register", url.Values{
		"username":         {"alice"},
		"email":            {"a@x.com"},
		"password":         {"secret1"},
		"confirm_password": {"secret1"},
	})
	if w.Code != http.StatusFound || w.Header().Get("Location") != "/topics" {
		t.Fatalf("register: %d %s", w.Code, w.Body.String())
	}

	w = b.get("/profile")
	if w.Code != http.StatusOK {
		t.Fatalf("profile: %d", w.Code)
	}
	assertContains(t, w, "@alice", "a@x.com")

	// a logged-in visitor is sent away from the login form
	if w := b.get("/auth/login"); w.Code != http.StatusFound {
		t.Errorf("login page while logged in: %d", w.Code)
	}

	// logging out takes a POST; a cross-site GET must not end the session
	if w := b.get("/auth/logout"); w.Code == http.StatusFound {
		t.Errorf("GET logout redirected to %q", w.Header().Get("Location"))
	}
	if w := b.get("/profile"); w.Code != http.StatusOK {
		t.Errorf("profile after GET logout: %d", w.Code)
	}

	b.post("/auth/logout", nil)
	if w := b.get("/profile"); w.Code != http.StatusFound {
		t.Errorf("profile after logout: %d", w.Code)
	}
}

func TestRegisterValidation(t *testing.T) {
	fb := forumtest.New(t)
	fb.AddUser("alice", "a@x.com", "secret1")
	b := newBrowser(newSite(t, fb, nil))

	w := b.post("/auth/register", url.Values{
		"username": {"bob"}, "email": {"b@x.com"},
		"password": {"secret1"}, "confirm_password": {"other1"},
	})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("mismatch: %d", w.Code)
	}
	assertContains(t, w, "Les mots de passe ne correspondent pas", `value="bob"`)
	if fb.TotalCalls() != 0 {
		t.Errorf("client-side validation reached the backend")
	}

	w = b.post("/auth/register", url.Values{
		"username": {"alice"}, "email": {"new@x.com"},
		"password": {"secret1"}, "confirm_password": {"secret1"},
	})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("duplicate: %d", w.Code)
	}
	assertContains(t, w, "déjà utilisé")
}

func TestLoginFailureShowsBackendMessage(t *testing.T) {
	fb := forumtest.New(t)
	fb.AddUser("alice", "a@x.com", "secret1")
	b := newBrowser(newSite(t, fb, nil))

	w := b.post("/auth/login", url.Values{"username": {"alice"}, "password": {"wrong"}})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("bad login: %d", w.Code)
	}
	assertContains(t, w, "mot de passe incorrect", `value="alice"`)
	if strings.Contains(w.Body.String(), "wrong") {
		t.Error("password echoed back")
	}
}

func TestTopicListAndDetail(t *testing.T) {
	fb := forumtest.New(t)
	u, _ := fb.AddUser("alice", "a@x.com", "secret1")
	fb.AddTopic(models.Topic{Title: "Premier", Content: "a", AuthorID: u.ID, Category: models.CategoryGeneral})
	fb.AddTopic(models.Topic{Title: "Deuxième", Content: "b", AuthorID: u.ID, Category: models.CategoryHelp})
	pinned := fb.AddTopic(models.Topic{
		Title: "Règles", Content: "**lire**", AuthorID: u.ID, Category: models.CategoryGeneral, IsPinned: true,
		Replies: []models.Reply{{AuthorID: u.ID, AuthorUsername: "alice", Content: "Bien noté"}},
	})
	b := newBrowser(newSite(t, fb, nil))

	w := b.get("/topics")
	if w.Code != http.StatusOK {
		t.Fatalf("list: %d", w.Code)
	}
	assertContains(t, w, "Règles", "Page 1 / 2")

	w = b.get("/topics?category=aide")
	assertContains(t, w, "Deuxième")
	if strings.Contains(w.Body.String(), "Premier") {
		t.Error("category filter leaked another category")
	}

	w = b.get(fmt.Sprintf("/topics/%d", pinned.ID))
	if w.Code != http.StatusOK {
		t.Fatalf("detail: %d", w.Code)
	}
	assertContains(t, w, "<strong>lire</strong>", "Bien noté", "Connectez-vous")

	if w := b.get("/topics/999"); w.Code != http.StatusNotFound {
		t.Errorf("missing topic: %d", w.Code)
	}
	if w := b.get("/topics/abc"); w.Code != http.StatusNotFound {
		t.Errorf("bad id: %d", w.Code)
	}
}

func TestCreateTopicAndReply(t *testing.T) {
	fb := forumtest.New(t)
	fb.AddUser("alice", "a@x.com", "secret1")
	b := newBrowser(newSite(t, fb, nil))

	if w := b.get("/topics/new"); w.Code != http.StatusFound {
		t.Errorf("anonymous new topic: %d", w.Code)
	}
	b.login(t, "alice", "secret1")

	w := b.post("/topics/new", url.Values{"title": {"  "}, "content": {"x"}})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("blank title: %d", w.Code)
	}
	assertContains(t, w, "Veuillez remplir tous les champs")

	w = b.post("/topics/new", url.Values{"title": {"Bonjour"}, "content": {"Premier message"}, "category": {"questions"}})
	if w.Code != http.StatusFound {
		t.Fatalf("create: %d %s", w.Code, w.Body.String())
	}
	loc := w.Header().Get("Location")
	if !strings.HasPrefix(loc, "/topics/") {
		t.Fatalf("Location = %q", loc)
	}

	w = b.post(loc+"/replies", url.Values{"content": {"Une réponse"}})
	if w.Code != http.StatusFound || w.Header().Get("Location") != loc {
		t.Fatalf("reply: %d %q", w.Code, w.Header().Get("Location"))
	}
	assertContains(t, b.get(loc), "Une réponse", "1 réponse")

	w = b.post(loc+"/replies", url.Values{"content": {"   "}})
	if w.Code != http.StatusBadRequest {
		t.Errorf("empty reply: %d", w.Code)
	}
	assertContains(t, w, "La réponse ne peut pas être vide")
}

func TestReplyToClosedTopicNeverPosts(t *testing.T) {
	fb := forumtest.New(t)
	u, _ := fb.AddUser("alice", "a@x.com", "secret1")
	topic := fb.AddTopic(models.Topic{Title: "Archivé", Content: "x", AuthorID: u.ID, IsClosed: true})
	b := newBrowser(newSite(t, fb, nil))
	b.login(t, "alice", "secret1")

	path := fmt.Sprintf("/topics/%d", topic.ID)
	assertContains(t, b.get(path), "il n'accepte plus de réponses")

	w := b.post(path+"/replies", url.Values{"content": {"trop tard"}})
	if w.Code != http.StatusBadRequest {
		t.Errorf("reply to closed: %d", w.Code)
	}
	if n := fb.Calls(http.MethodPost, fmt.Sprintf("/topics/%d/replies/", topic.ID)); n != 0 {
		t.Errorf("backend saw %d reply posts", n)
	}
}

func TestEditAndDeleteTopic(t *testing.T) {
	fb := forumtest.New(t)
	alice, _ := fb.AddUser("alice", "a@x.com", "secret1")
	fb.AddUser("bob", "b@x.com", "secret1")
	topic := fb.AddTopic(models.Topic{Title: "Avant", Content: "x", AuthorID: alice.ID})
	edit := fmt.Sprintf("/topics/%d/edit", topic.ID)

	bob := newBrowser(newSite(t, fb, nil))
	bob.login(t, "bob", "secret1")
	if w := bob.get(edit); w.Code != http.StatusForbidden {
		t.Errorf("non-author edit page: %d", w.Code)
	}

	site := newSite(t, fb, nil)
	b := newBrowser(site)
	b.login(t, "alice", "secret1")

	w := b.get(edit)
	if w.Code != http.StatusOK {
		t.Fatalf("edit page: %d", w.Code)
	}
	assertContains(t, w, `value="Avant"`)

	w = b.post(edit, url.Values{"title": {"Après"}, "content": {"y"}, "category": {"general"}})
	if w.Code != http.StatusFound {
		t.Fatalf("update: %d %s", w.Code, w.Body.String())
	}
	assertContains(t, b.get(w.Header().Get("Location")), "Après")

	w = b.post(fmt.Sprintf("/topics/%d/delete", topic.ID), nil)
	if w.Code != http.StatusFound || w.Header().Get("Location") != "/topics" {
		t.Fatalf("delete: %d %q", w.Code, w.Header().Get("Location"))
	}
	if w := b.get(fmt.Sprintf("/topics/%d", topic.ID)); w.Code != http.StatusNotFound {
		t.Errorf("deleted topic: %d", w.Code)
	}
}

func TestEditAndDeleteReply(t *testing.T) {
	fb := forumtest.New(t)
	alice, _ := fb.AddUser("alice", "a@x.com", "secret1")
	topic := fb.AddTopic(models.Topic{
		Title: "Sujet", Content: "x", AuthorID: alice.ID,
		Replies: []models.Reply{{AuthorID: alice.ID, AuthorUsername: "alice", Content: "brouillon"}},
	})
	replyID := topic.Replies[0].ID
	b := newBrowser(newSite(t, fb, nil))
	b.login(t, "alice", "secret1")

	topicField := fmt.Sprint(topic.ID)
	topicPath := view.TopicPath(topic.ID)
	w := b.post(fmt.Sprintf("/replies/%d/edit", replyID), url.Values{"topic_id": {topicField}, "content": {"version finale"}})
	if w.Code != http.StatusFound || w.Header().Get("Location") != topicPath {
		t.Fatalf("edit reply: %d %q", w.Code, w.Header().Get("Location"))
	}
	assertContains(t, b.get(topicPath), "version finale")

	w = b.post(fmt.Sprintf("/replies/%d/delete", replyID), url.Values{"topic_id": {topicField}})
	if w.Code != http.StatusFound || w.Header().Get("Location") != topicPath {
		t.Fatalf("delete reply: %d %q", w.Code, w.Header().Get("Location"))
	}
	assertContains(t, b.get(topicPath), "Aucune réponse pour le moment")

	if w := b.post(fmt.Sprintf("/replies/%d/delete", replyID), nil); w.Code != http.StatusBadRequest {
		t.Errorf("missing topic_id: %d", w.Code)
	}
}

func TestProfileUpdate(t *testing.T) {
	fb := forumtest.New(t)
	fb.AddUser("alice", "a@x.com", "secret1")
	b := newBrowser(newSite(t, fb, nil))
	b.login(t, "alice", "secret1")

	w := b.post("/profile", url.Values{"first_name": {"Alice"}, "last_name": {"Martin"}, "email": {"alice@x.com"}})
	if w.Code != http.StatusOK {
		t.Fatalf("update: %d %s", w.Code, w.Body.String())
	}
	assertContains(t, w, "Profil mis à jour", "Alice Martin", "alice@x.com")

	w = b.post("/profile", url.Values{"email": {""}})
	if w.Code != http.StatusBadRequest {
		t.Errorf("blank email: %d", w.Code)
	}
	assertContains(t, w, "obligatoire")
}

func TestLongBioKeepsNavbarFresh(t *testing.T) {
	fb := forumtest.New(t)
	fb.AddUser("alice", "a@x.com", "secret1")
	b := newBrowser(newSite(t, fb, nil))
	b.login(t, "alice", "secret1")

	w := b.post("/profile", url.Values{
		"first_name": {"Alicia"},
		"email":      {"a@x.com"},
		"bio":        {strings.Repeat("😀", 500)},
	})
	if w.Code != http.StatusOK {
		t.Fatalf("update: %d %s", w.Code, w.Body.String())
	}

	assertContains(t, b.get("/"), "Bon retour, Alicia")
	if w := b.get("/profile"); !strings.Contains(w.Body.String(), strings.Repeat("😀", 10)) {
		t.Error("bio missing from profile page")
	}
}

func TestSearch(t *testing.T) {
	fb := forumtest.New(t)
	u, _ := fb.AddUser("gopher", "g@x.com", "secret1")
	fb.AddTopic(models.Topic{Title: "Go generics", Content: "x", AuthorID: u.ID, AuthorUsername: "gopher"})
	b := newBrowser(newSite(t, fb, nil))

	w := b.get("/search")
	if w.Code != http.StatusOK {
		t.Fatalf("empty search: %d", w.Code)
	}
	if n := fb.Calls(http.MethodGet, "/search/"); n != 0 {
		t.Errorf("blank query hit the backend %d times", n)
	}

	assertContains(t, b.get("/search?q=generics"), "Go generics", "Topics (1)")
	assertContains(t, b.get("/search?q=gopher&tab=users"), "@gopher")
}

func TestRobotsAndSitemap(t *testing.T) {
	fb := forumtest.New(t)
	u, _ := fb.AddUser("alice", "a@x.com", "secret1")
	topic := fb.AddTopic(models.Topic{Title: "Indexé", Content: "x", AuthorID: u.ID})
	b := newBrowser(newSite(t, fb, nil))

	w := b.get("/robots.txt")
	if w.Code != http.StatusOK {
		t.Fatalf("robots: %d", w.Code)
	}
	assertContains(t, w, "Sitemap: ", "/sitemap.xml", "Disallow: /auth/")

	w = b.get("/sitemap.xml")
	if w.Code != http.StatusOK {
		t.Fatalf("sitemap: %d", w.Code)
	}
	assertContains(t, w, "<urlset", fmt.Sprintf("/topics/%d</loc>", topic.ID))
}

func TestRegisterCaptcha(t *testing.T) {
	fb := forumtest.New(t)
	b := newBrowser(newSite(t, fb, services.NewCaptchaWithSeed(1)))

	w := b.get("/auth/register")
	if w.Code != http.StatusOK {
		t.Fatalf("register page: %d", w.Code)
	}
	assertContains(t, w, "Combien font")

	w = b.post("/auth/register", url.Values{
		"username": {"alice"}, "email": {"a@x.com"},
		"password": {"secret1"}, "confirm_password": {"secret1"},
		"captcha": {"-1"},
	})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("wrong captcha: %d", w.Code)
	}
	assertContains(t, w, "Le résultat du calcul est incorrect")
	if n := fb.Calls(http.MethodPost, "/authentification/register/"); n != 0 {
		t.Errorf("backend saw %d registrations", n)
	}
}
