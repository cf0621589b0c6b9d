// Package view holds one coordinator per page. A coordinator runs the
// page's reads and form submissions against the visitor's services.Forum
// and keeps everything the template needs; errors never leave it.
package view

import (
	"errors"
	"sync"

	"forumweb/internal/api"
	"forumweb/internal/services"
	"forumweb/internal/utils"
)

// Phase of a page.
type Phase int

const (
	PhaseLoading Phase = iota
	PhaseReady
	PhaseError
)

func (p Phase) String() string {
	switch p {
	case PhaseReady:
		return "ready"
	case PhaseError:
		return "error"
	}
	return "loading"
}

// State is shared by every page.
type State struct {
	Phase Phase
	// Error is the message shown to the visitor, inline on forms.
	Error      string
	NotFound   bool
	NeedsLogin bool
	Submitting bool
	// Redirect is set when the page wants the browser to go elsewhere.
	Redirect string
}

func (s *State) start() {
	s.Phase = PhaseLoading
	s.Error = ""
	s.NotFound = false
	s.NeedsLogin = false
}

func (s *State) ready() {
	s.Phase = PhaseReady
}

// fail moves a page that could not load into the error phase.
func (s *State) fail(err error, fallback string) {
	s.Phase = PhaseError
	s.Error = Message(err, fallback)
	s.NotFound = isNotFound(err)
	s.NeedsLogin = isUnauthenticated(err)
	logFailure(err)
}

// reject shows an inline form error; the page stays usable.
func (s *State) reject(msg string) {
	s.Phase = PhaseReady
	s.Error = msg
}

// ErrSubmitInProgress is returned when the same form is already being sent.
var ErrSubmitInProgress = errors.New("submission already in progress")

// Guard tracks in-flight submissions, keyed by visitor and form. One Guard
// is shared by every request of the process.
type Guard struct {
	mu       sync.Mutex
	inflight map[string]struct{}
}

func NewGuard() *Guard {
	return &Guard{inflight: make(map[string]struct{})}
}

func (g *Guard) acquire(key string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	if _, busy := g.inflight[key]; busy {
		return false
	}
	g.inflight[key] = struct{}{}
	return true
}

func (g *Guard) release(key string) {
	g.mu.Lock()
	delete(g.inflight, key)
	g.mu.Unlock()
}

// Env is what a page needs from the outside.
type Env struct {
	Forum *services.Forum
	// Guard defaults to a guard private to the page.
	Guard *Guard
	// Visitor scopes the guard, usually the session id.
	Visitor string
}

type base struct {
	State
	env Env
}

func newBase(env Env) base {
	if env.Guard == nil {
		env.Guard = NewGuard()
	}
	return base{State: State{Phase: PhaseLoading}, env: env}
}

// submit runs fn unless the same form of the same visitor is in flight.
func (b *base) submit(form string, fn func() error) error {
	key := b.env.Visitor + "|" + form
	if !b.env.Guard.acquire(key) {
		b.reject(msgInProgress)
		return ErrSubmitInProgress
	}
	b.Submitting = true
	b.Error = ""
	defer func() {
		b.Submitting = false
		b.env.Guard.release(key)
	}()
	return fn()
}

// logFailure records errors the visitor cannot fix by editing the form.
func logFailure(err error) {
	var (
		ne *api.NetworkError
		de *api.DecodeError
		re *api.ResponseError
	)
	if errors.As(err, &ne) || errors.As(err, &de) || errors.As(err, &re) {
		utils.Sugar.Warnw("backend call failed", "err", err)
	}
}
