package session

import (
	"errors"
	"fmt"

	"github.com/gin-contrib/sessions"
)

// maxCookieValue bounds a single entry so the signed, base64'd cookie stays
// under the 4096 bytes securecookie and browsers accept.
const maxCookieValue = 2048

// ErrValueTooLarge is returned by CookieStore.Set for entries that would not
// fit in the cookie.
var ErrValueTooLarge = errors.New("session value too large for cookie")

// CookieStore keeps the entries inside the signed gin session cookie.
// Writes only mark the session dirty; Save (or the SessionStore middleware,
// right before the headers go out) writes the cookie once.
type CookieStore struct {
	s sessions.Session
}

func NewCookieStore(s sessions.Session) *CookieStore {
	return &CookieStore{s: s}
}

func (c *CookieStore) Get(key string) (string, bool, error) {
	v := c.s.Get(key)
	if v == nil {
		return "", false, nil
	}
	str, ok := v.(string)
	if !ok {
		return "", false, fmt.Errorf("session key %q holds %T, want string", key, v)
	}
	return str, true, nil
}

func (c *CookieStore) Set(key, value string) error {
	if len(value) > maxCookieValue {
		return fmt.Errorf("session key %q (%d bytes): %w", key, len(value), ErrValueTooLarge)
	}
	c.s.Set(key, value)
	return nil
}

func (c *CookieStore) Remove(key string) error {
	c.s.Delete(key)
	return nil
}

// Save writes pending changes. It is a no-op when nothing changed.
func (c *CookieStore) Save() error {
	return c.s.Save()
}
