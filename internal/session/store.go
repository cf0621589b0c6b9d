// Package session holds the visitor's auth token and cached user snapshot.
package session

import (
	"encoding/json"
	"fmt"

	"forumweb/internal/models"
)

// Keys used by the forum. Absence of TokenKey is the only logged-out signal.
const (
	TokenKey = "token"
	UserKey  = "user"
)

// Store is a durable string key/value store scoped to one visitor.
type Store interface {
	// Get returns the value and whether the key is present.
	Get(key string) (string, bool, error)
	Set(key, value string) error
	Remove(key string) error
}

// Token returns the stored token, "" when logged out.
func Token(s Store) (string, error) {
	tok, ok, err := s.Get(TokenKey)
	if err != nil || !ok {
		return "", err
	}
	return tok, nil
}

// SaveUser serialises u into the user key. The snapshot leaves out Bio,
// which only the profile page shows and which it reads from the backend.
func SaveUser(s Store, u *models.User) error {
	snap := *u
	snap.Bio = ""
	b, err := json.Marshal(&snap)
	if err != nil {
		return fmt.Errorf("encode user snapshot: %w", err)
	}
	return s.Set(UserKey, string(b))
}

// LoadUser returns the cached user snapshot, nil when absent.
func LoadUser(s Store) (*models.User, error) {
	raw, ok, err := s.Get(UserKey)
	if err != nil || !ok || raw == "" {
		return nil, err
	}
	var u models.User
	if err := json.Unmarshal([]byte(raw), &u); err != nil {
		return nil, fmt.Errorf("decode user snapshot: %w", err)
	}
	return &u, nil
}

// Clear removes both the token and the user snapshot.
func Clear(s Store) error {
	if err := s.Remove(TokenKey); err != nil {
		return err
	}
	return s.Remove(UserKey)
}
