// Package forumtest provides an in-memory stand-in for the forum REST
// backend, used by tests across packages.
package forumtest

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"forumweb/internal/models"
)

// Call is one request seen by the backend.
type Call struct {
	Method string
	Path   string
	Auth   string
}

// Backend serves the REST surface from memory.
type Backend struct {
	*httptest.Server

	mu        sync.Mutex
	calls     []Call
	users     map[int]*models.User
	passwords map[string]string
	tokens    map[string]int
	topics    map[int]*models.Topic
	order     []int
	nextUser  int
	nextTopic int
	nextReply int
	now       time.Time
}

// New starts a backend that is closed when the test ends.
func New(t testing.TB) *Backend {
	b := &Backend{
		users:     map[int]*models.User{},
		passwords: map[string]string{},
		tokens:    map[string]int{},
		topics:    map[int]*models.Topic{},
		nextUser:  1,
		nextTopic: 1,
		nextReply: 1,
		now:       time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC),
	}

	mux := http.NewServeMux()
	mux.HandleFunc("POST /authentification/register/{$}", b.register)
	mux.HandleFunc("POST /authentification/login/{$}", b.login)
	mux.HandleFunc("GET /authentification/me/{$}", b.me)
	mux.HandleFunc("PUT /authentification/profile/{$}", b.profile)
	mux.HandleFunc("GET /topics/{$}", b.listTopics)
	mux.HandleFunc("POST /topics/{$}", b.createTopic)
	mux.HandleFunc("GET /topics/{id}/{$}", b.getTopic)
	mux.HandleFunc("PUT /topics/{id}/{$}", b.updateTopic)
	mux.HandleFunc("DELETE /topics/{id}/{$}", b.deleteTopic)
	mux.HandleFunc("GET /topics/{id}/replies/{$}", b.listReplies)
	mux.HandleFunc("POST /topics/{id}/replies/{$}", b.createReply)
	mux.HandleFunc("PUT /topics/replies/{id}/{$}", b.updateReply)
	mux.HandleFunc("DELETE /topics/replies/{id}/{$}", b.deleteReply)
	mux.HandleFunc("GET /search/{$}", b.search)
	mux.HandleFunc("GET /search/stats/{$}", b.stats)

	b.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b.mu.Lock()
		b.calls = append(b.calls, Call{Method: r.Method, Path: r.URL.Path, Auth: r.Header.Get("Authorization")})
		b.mu.Unlock()
		mux.ServeHTTP(w, r)
	}))
	t.Cleanup(b.Server.Close)
	return b
}

// AddUser creates an account and returns it with a valid token.
func (b *Backend) AddUser(username, email, password string) (*models.User, string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	u := b.addUserLocked(username, email, password)
	return u, b.tokenLocked(u.ID)
}

// AddTopic stores t (its replies included) and returns the stored copy.
func (b *Backend) AddTopic(t models.Topic) models.Topic {
	b.mu.Lock()
	defer b.mu.Unlock()
	t.ID = b.nextTopic
	b.nextTopic++
	if t.CreatedAt.IsZero() {
		t.CreatedAt = b.now
	}
	for i := range t.Replies {
		t.Replies[i].ID = b.nextReply
		t.Replies[i].TopicID = t.ID
		b.nextReply++
	}
	t.ReplyCount = len(t.Replies)
	b.topics[t.ID] = &t
	b.order = append(b.order, t.ID)
	return t
}

// Calls returns how many requests matched method and path exactly.
func (b *Backend) Calls(method, path string) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	n := 0
	for _, c := range b.calls {
		if c.Method == method && c.Path == path {
			n++
		}
	}
	return n
}

// TotalCalls counts every request received.
func (b *Backend) TotalCalls() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.calls)
}

// LastCall returns the most recent request.
func (b *Backend) LastCall() Call {
	b.mu.Lock()
	defer b.mu.Unlock()
	if len(b.calls) == 0 {
		return Call{}
	}
	return b.calls[len(b.calls)-1]
}

func (b *Backend) addUserLocked(username, email, password string) *models.User {
	u := &models.User{ID: b.nextUser, Username: username, Email: email, DateInscription: b.now}
	b.nextUser++
	b.users[u.ID] = u
	b.passwords[username] = password
	return u
}

func (b *Backend) tokenLocked(userID int) string {
	tok := fmt.Sprintf("T%d", userID)
	b.tokens[tok] = userID
	return tok
}

// caller returns the authenticated user, or nil.
func (b *Backend) callerLocked(r *http.Request) *models.User {
	tok, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Token ")
	if !ok {
		return nil
	}
	return b.users[b.tokens[tok]]
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func unauthenticated(w http.ResponseWriter) {
	writeJSON(w, http.StatusUnauthorized, map[string]string{"detail": "Authentication credentials were not provided."})
}

func notFound(w http.ResponseWriter) {
	writeJSON(w, http.StatusNotFound, map[string]string{"detail": "Not found."})
}

func pathID(r *http.Request) int {
	id, _ := strconv.Atoi(r.PathValue("id"))
	return id
}

func (b *Backend) register(w http.ResponseWriter, r *http.Request) {
	var in struct{ Username, Email, Password string }
	_ = json.NewDecoder(r.Body).Decode(&in)

	b.mu.Lock()
	defer b.mu.Unlock()
	errs := map[string][]string{}
	for _, u := range b.users {
		if u.Username == in.Username {
			errs["username"] = []string{"A user with that username already exists."}
		}
		if u.Email == in.Email {
			errs["email"] = []string{"user with this Email already exists."}
		}
	}
	if len(errs) > 0 {
		writeJSON(w, http.StatusBadRequest, errs)
		return
	}
	u := b.addUserLocked(in.Username, in.Email, in.Password)
	writeJSON(w, http.StatusCreated, models.AuthResult{
		Token: b.tokenLocked(u.ID),
		User:  models.User{ID: u.ID, Username: u.Username, Email: u.Email},
	})
}

func (b *Backend) login(w http.ResponseWriter, r *http.Request) {
	var in struct{ Username, Password string }
	_ = json.NewDecoder(r.Body).Decode(&in)

	b.mu.Lock()
	defer b.mu.Unlock()
	if in.Username == "" || in.Password == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Veuillez fournir un nom d'utilisateur et un mot de passe"})
		return
	}
	pw, ok := b.passwords[in.Username]
	if !ok || pw != in.Password {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "Nom d'utilisateur ou mot de passe incorrect"})
		return
	}
	for _, u := range b.users {
		if u.Username == in.Username {
			writeJSON(w, http.StatusOK, models.AuthResult{
				Token: b.tokenLocked(u.ID),
				User:  models.User{ID: u.ID, Username: u.Username, Email: u.Email},
			})
			return
		}
	}
}

func (b *Backend) me(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	defer b.mu.Unlock()
	u := b.callerLocked(r)
	if u == nil {
		unauthenticated(w)
		return
	}
	writeJSON(w, http.StatusOK, u)
}

func (b *Backend) profile(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	defer b.mu.Unlock()
	u := b.callerLocked(r)
	if u == nil {
		unauthenticated(w)
		return
	}

	fields := map[string]string{}
	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/") {
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
			return
		}
		for k, v := range r.MultipartForm.Value {
			fields[k] = v[0]
		}
		if fh, ok := r.MultipartForm.File["avatar"]; ok && len(fh) > 0 {
			u.Avatar = "/media/avatars/" + fh[0].Filename
		}
	} else if err := json.NewDecoder(r.Body).Decode(&fields); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "JSON invalide"})
		return
	}

	if email, ok := fields["email"]; ok {
		if !strings.Contains(email, "@") {
			writeJSON(w, http.StatusBadRequest, map[string][]string{"email": {"Enter a valid email address."}})
			return
		}
		u.Email = email
	}
	if v, ok := fields["first_name"]; ok {
		u.FirstName = v
	}
	if v, ok := fields["last_name"]; ok {
		u.LastName = v
	}
	if v, ok := fields["bio"]; ok {
		u.Bio = v
	}
	writeJSON(w, http.StatusOK, u)
}

func summary(t *models.Topic) models.Topic {
	s := *t
	s.Content = ""
	s.Replies = nil
	return s
}

func (b *Backend) listTopics(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]models.Topic, 0, len(b.order))
	for _, id := range b.order {
		if t, ok := b.topics[id]; ok {
			out = append(out, summary(t))
		}
	}
	writeJSON(w, http.StatusOK, out)
}

func (b *Backend) getTopic(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	defer b.mu.Unlock()
	t, ok := b.topics[pathID(r)]
	if !ok {
		notFound(w)
		return
	}
	t.Views++
	writeJSON(w, http.StatusOK, t)
}

func decodeTopicInput(w http.ResponseWriter, r *http.Request) (models.TopicInput, bool) {
	var in models.TopicInput
	_ = json.NewDecoder(r.Body).Decode(&in)
	errs := map[string][]string{}
	if in.Title == "" {
		errs["title"] = []string{"This field may not be blank."}
	}
	if in.Content == "" {
		errs["content"] = []string{"This field may not be blank."}
	}
	if len(errs) > 0 {
		writeJSON(w, http.StatusBadRequest, errs)
		return in, false
	}
	return in, true
}

func (b *Backend) createTopic(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	defer b.mu.Unlock()
	u := b.callerLocked(r)
	if u == nil {
		unauthenticated(w)
		return
	}
	in, ok := decodeTopicInput(w, r)
	if !ok {
		return
	}
	t := &models.Topic{
		ID: b.nextTopic, Title: in.Title, Content: in.Content, Category: in.Category,
		AuthorID: u.ID, AuthorUsername: u.Username, CreatedAt: b.now, UpdatedAt: b.now,
		Replies: []models.Reply{},
	}
	b.nextTopic++
	b.topics[t.ID] = t
	b.order = append(b.order, t.ID)
	writeJSON(w, http.StatusCreated, t)
}

func (b *Backend) updateTopic(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	defer b.mu.Unlock()
	u := b.callerLocked(r)
	if u == nil {
		unauthenticated(w)
		return
	}
	t, ok := b.topics[pathID(r)]
	if !ok {
		notFound(w)
		return
	}
	if t.AuthorID != u.ID {
		writeJSON(w, http.StatusForbidden, map[string]string{"error": "Vous ne pouvez modifier que vos propres topics"})
		return
	}
	in, ok := decodeTopicInput(w, r)
	if !ok {
		return
	}
	t.Title, t.Content, t.Category = in.Title, in.Content, in.Category
	writeJSON(w, http.StatusOK, t)
}

func (b *Backend) deleteTopic(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	defer b.mu.Unlock()
	u := b.callerLocked(r)
	if u == nil {
		unauthenticated(w)
		return
	}
	t, ok := b.topics[pathID(r)]
	if !ok {
		notFound(w)
		return
	}
	if t.AuthorID != u.ID {
		writeJSON(w, http.StatusForbidden, map[string]string{"error": "Vous ne pouvez supprimer que vos propres topics"})
		return
	}
	delete(b.topics, t.ID)
	w.WriteHeader(http.StatusNoContent)
}

func (b *Backend) listReplies(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	defer b.mu.Unlock()
	t, ok := b.topics[pathID(r)]
	if !ok {
		writeJSON(w, http.StatusOK, []models.Reply{})
		return
	}
	writeJSON(w, http.StatusOK, t.Replies)
}

func (b *Backend) createReply(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	defer b.mu.Unlock()
	u := b.callerLocked(r)
	if u == nil {
		unauthenticated(w)
		return
	}
	t, ok := b.topics[pathID(r)]
	if !ok {
		notFound(w)
		return
	}
	if t.IsClosed {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Ce topic est fermé"})
		return
	}
	var in struct{ Content string }
	_ = json.NewDecoder(r.Body).Decode(&in)
	if strings.TrimSpace(in.Content) == "" {
		writeJSON(w, http.StatusBadRequest, map[string][]string{"content": {"This field may not be blank."}})
		return
	}
	reply := models.Reply{
		ID: b.nextReply, TopicID: t.ID, AuthorID: u.ID, AuthorUsername: u.Username,
		Content: in.Content, CreatedAt: b.now, UpdatedAt: b.now,
	}
	b.nextReply++
	t.Replies = append(t.Replies, reply)
	t.ReplyCount = len(t.Replies)
	writeJSON(w, http.StatusCreated, reply)
}

// findReplyLocked returns the topic and index holding reply id.
func (b *Backend) findReplyLocked(id int) (*models.Topic, int) {
	for _, t := range b.topics {
		for i := range t.Replies {
			if t.Replies[i].ID == id {
				return t, i
			}
		}
	}
	return nil, -1
}

func (b *Backend) updateReply(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	defer b.mu.Unlock()
	u := b.callerLocked(r)
	if u == nil {
		unauthenticated(w)
		return
	}
	t, i := b.findReplyLocked(pathID(r))
	if t == nil {
		notFound(w)
		return
	}
	if t.Replies[i].AuthorID != u.ID {
		writeJSON(w, http.StatusForbidden, map[string]string{"error": "Vous ne pouvez modifier que vos propres réponses"})
		return
	}
	var in struct{ Content string }
	_ = json.NewDecoder(r.Body).Decode(&in)
	t.Replies[i].Content = in.Content
	writeJSON(w, http.StatusOK, t.Replies[i])
}

func (b *Backend) deleteReply(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	defer b.mu.Unlock()
	u := b.callerLocked(r)
	if u == nil {
		unauthenticated(w)
		return
	}
	t, i := b.findReplyLocked(pathID(r))
	if t == nil {
		notFound(w)
		return
	}
	if t.Replies[i].AuthorID != u.ID {
		writeJSON(w, http.StatusForbidden, map[string]string{"error": "Vous ne pouvez supprimer que vos propres réponses"})
		return
	}
	t.Replies = append(t.Replies[:i], t.Replies[i+1:]...)
	t.ReplyCount = len(t.Replies)
	w.WriteHeader(http.StatusNoContent)
}

func (b *Backend) search(w http.ResponseWriter, r *http.Request) {
	q := strings.ToLower(strings.TrimSpace(r.URL.Query().Get("q")))

	b.mu.Lock()
	defer b.mu.Unlock()
	res := models.EmptySearchResult()
	if q == "" {
		writeJSON(w, http.StatusOK, res)
		return
	}
	for _, id := range b.order {
		t, ok := b.topics[id]
		if ok && (strings.Contains(strings.ToLower(t.Title), q) || strings.Contains(strings.ToLower(t.Content), q)) {
			res.Topics = append(res.Topics, summary(t))
		}
	}
	for id := 1; id < b.nextUser; id++ {
		if u, ok := b.users[id]; ok && strings.Contains(strings.ToLower(u.Username+" "+u.Bio), q) {
			res.Users = append(res.Users, *u)
		}
	}
	writeJSON(w, http.StatusOK, res)
}

func (b *Backend) stats(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	defer b.mu.Unlock()
	s := models.ForumStats{Members: len(b.users), Topics: len(b.topics)}
	for _, t := range b.topics {
		s.Messages += len(t.Replies)
	}
	writeJSON(w, http.StatusOK, s)
}
