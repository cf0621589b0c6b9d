package session

import (
	"testing"

	"forumweb/internal/forumtest"
	"forumweb/internal/models"
)

func TestDBStoreUpsertAndRemove(t *testing.T) {
	s := NewDBStore(forumtest.SessionDB(t), "sid-1")

	if _, ok, err := s.Get(TokenKey); ok || err != nil {
		t.Fatalf("empty store: ok=%v err=%v", ok, err)
	}
	if err := s.Set(TokenKey, "T1"); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if err := s.Set(TokenKey, "T2"); err != nil {
		t.Fatalf("Set again: %v", err)
	}
	if tok, _ := Token(s); tok != "T2" {
		t.Errorf("token = %q, want T2", tok)
	}

	for i := 0; i < 2; i++ {
		if err := s.Remove(TokenKey); err != nil {
			t.Fatalf("Remove #%d: %v", i+1, err)
		}
	}
	if _, ok, _ := s.Get(TokenKey); ok {
		t.Error("token survived Remove")
	}
}

func TestDBStoreClearAndIsolation(t *testing.T) {
	db := forumtest.SessionDB(t)
	alice := NewDBStore(db, "sid-alice")
	bob := NewDBStore(db, "sid-bob")

	_ = alice.Set(TokenKey, "TA")
	_ = SaveUser(alice, &models.User{ID: 1, Username: "alice"})
	_ = bob.Set(TokenKey, "TB")

	if tok, _ := Token(bob); tok != "TB" {
		t.Errorf("bob token = %q", tok)
	}
	if u, _ := LoadUser(alice); u == nil || u.Username != "alice" {
		t.Errorf("alice snapshot = %+v", u)
	}

	if err := Clear(alice); err != nil {
		t.Fatalf("Clear: %v", err)
	}
	if tok, _ := Token(alice); tok != "" {
		t.Errorf("alice token after Clear = %q", tok)
	}
	if u, _ := LoadUser(alice); u != nil {
		t.Errorf("alice snapshot after Clear = %+v", u)
	}
	if tok, _ := Token(bob); tok != "TB" {
		t.Errorf("Clear leaked into bob: %q", tok)
	}

	var n int64
	db.Model(&models.SessionEntry{}).Count(&n)
	if n != 1 {
		t.Errorf("rows left = %d, want 1", n)
	}
}
