package handlers

import (
	"testing"

	"forumweb/internal/view"
)

func TestHandlersShareInjectedGuard(t *testing.T) {
	g := view.NewGuard()
	if h := NewTopicHandler(g, 10); h.guard != g {
		t.Error("topic handler ignored the guard")
	}
	if h := NewAuthHandler(g, nil); h.guard != g {
		t.Error("auth handler ignored the guard")
	}
	if h := NewProfileHandler(g); h.guard != g {
		t.Error("profile handler ignored the guard")
	}

	if h := NewHomeHandler(nil); h.guard == nil {
		t.Error("nil guard not replaced")
	}
}
