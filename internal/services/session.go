package services

import (
	"context"
	"fmt"

	"forumweb/internal/api"
	"forumweb/internal/models"
	"forumweb/internal/session"
	"forumweb/internal/utils"
)

// SessionController is the single owner of the visitor's login state.
type SessionController struct {
	store session.Store
	auth  *api.AuthAPI
}

func NewSessionController(store session.Store, auth *api.AuthAPI) *SessionController {
	return &SessionController{store: store, auth: auth}
}

// Register creates the account and logs the visitor in.
func (s *SessionController) Register(ctx context.Context, username, email, password string) (*models.AuthResult, error) {
	res, err := s.auth.Register(ctx, username, email, password)
	if err != nil {
		return nil, fmt.Errorf("register %q: %w", username, err)
	}
	if err := s.persist(res); err != nil {
		return nil, err
	}
	return res, nil
}

// Login stores the token and user snapshot on success.
func (s *SessionController) Login(ctx context.Context, username, password string) (*models.AuthResult, error) {
	res, err := s.auth.Login(ctx, username, password)
	if err != nil {
		return nil, fmt.Errorf("login %q: %w", username, err)
	}
	if err := s.persist(res); err != nil {
		return nil, err
	}
	return res, nil
}

func (s *SessionController) persist(res *models.AuthResult) error {
	if err := s.store.Set(session.TokenKey, res.Token); err != nil {
		return fmt.Errorf("store token: %w", err)
	}
	if err := session.SaveUser(s.store, &res.User); err != nil {
		return fmt.Errorf("store user: %w", err)
	}
	return nil
}

// Logout forgets the token and user. It never calls the backend and may be
// called any number of times.
func (s *SessionController) Logout() error {
	return session.Clear(s.store)
}

// CurrentUserLocal returns the cached snapshot without a network round-trip.
// It may be stale; nil means nobody is logged in.
func (s *SessionController) CurrentUserLocal() (*models.User, error) {
	return session.LoadUser(s.store)
}

// CurrentUser asks the backend who owns the token. A missing or rejected
// token surfaces as *api.AuthError.
func (s *SessionController) CurrentUser(ctx context.Context) (*models.User, error) {
	u, err := s.auth.Me(ctx)
	if err != nil {
		return nil, fmt.Errorf("current user: %w", err)
	}
	s.refreshSnapshot(u)
	return u, nil
}

// UpdateProfile applies a partial update and returns the authoritative user.
func (s *SessionController) UpdateProfile(ctx context.Context, upd models.ProfileUpdate) (*models.User, error) {
	u, err := s.auth.UpdateProfile(ctx, upd)
	if err != nil {
		return nil, fmt.Errorf("update profile: %w", err)
	}
	s.refreshSnapshot(u)
	return u, nil
}

// IsAuthenticated reports whether a token is stored. The token itself is not
// checked against the backend.
func (s *SessionController) IsAuthenticated() bool {
	tok, err := session.Token(s.store)
	if err != nil {
		utils.Sugar.Warnw("session store unreadable", "err", err)
		return false
	}
	return tok != ""
}

func (s *SessionController) refreshSnapshot(u *models.User) {
	if !s.IsAuthenticated() {
		return
	}
	if err := session.SaveUser(s.store, u); err != nil {
		utils.Sugar.Warnw("refresh user snapshot failed", "user_id", u.ID, "err", err)
		// A stale snapshot is worse than none.
		if err := s.store.Remove(session.UserKey); err != nil {
			utils.Sugar.Warnw("drop user snapshot failed", "user_id", u.ID, "err", err)
		}
	}
}
