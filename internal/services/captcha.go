package services

import (
	"fmt"
	"math/rand"
	"strconv"
	"strings"
	"sync"
	"time"

	"forumweb/internal/session"
)

// CaptchaKey holds the expected answer in the visitor's session store.
const CaptchaKey = "captcha"

// Captcha issues small arithmetic challenges for the registration form.
type Captcha struct {
	mu  sync.Mutex
	rnd *rand.Rand
}

func NewCaptcha() *Captcha {
	return NewCaptchaWithSeed(time.Now().UnixNano())
}

func NewCaptchaWithSeed(seed int64) *Captcha {
	return &Captcha{rnd: rand.New(rand.NewSource(seed))}
}

// Problem returns a question such as "3 + 5" and its answer. Subtractions
// never go negative.
func (c *Captcha) Problem() (string, int) {
	c.mu.Lock()
	a, b, op := c.rnd.Intn(10), c.rnd.Intn(10), c.rnd.Intn(2)
	c.mu.Unlock()

	if op == 0 {
		return fmt.Sprintf("%d + %d", a, b), a + b
	}
	if a < b {
		a, b = b, a
	}
	return fmt.Sprintf("%d - %d", a, b), a - b
}

// Issue stores a fresh answer in store and returns the question to show.
func (c *Captcha) Issue(store session.Store) (string, error) {
	q, answer := c.Problem()
	if err := store.Set(CaptchaKey, strconv.Itoa(answer)); err != nil {
		return "", fmt.Errorf("store captcha: %w", err)
	}
	return q, nil
}

// Verify compares input with the stored answer. The answer is consumed
// whatever the outcome.
func (c *Captcha) Verify(store session.Store, input string) (bool, error) {
	want, ok, err := store.Get(CaptchaKey)
	if err != nil {
		return false, fmt.Errorf("load captcha: %w", err)
	}
	if err := store.Remove(CaptchaKey); err != nil {
		return false, fmt.Errorf("clear captcha: %w", err)
	}
	return ok && want != "" && strings.TrimSpace(input) == want, nil
}
