package models

import (
	"fmt"
	"time"
)

// User mirrors the backend user serializer. The server holds the
// authoritative copy; the session keeps a possibly stale snapshot.
type User struct {
	ID              int       `json:"id"`
	Username        string    `json:"username"`
	Email           string    `json:"email"`
	FirstName       string    `json:"first_name,omitempty"`
	LastName        string    `json:"last_name,omitempty"`
	Bio             string    `json:"bio,omitempty"`    // nullable on the backend
	Avatar          string    `json:"avatar,omitempty"` // URL, nullable
	DateInscription time.Time `json:"date_inscription"`
	PostCount       int       `json:"nombre_posts"`
}

// Validate rejects payloads without an identity.
func (u *User) Validate() error {
	if u.ID <= 0 {
		return fmt.Errorf("user: missing id")
	}
	if u.Username == "" {
		return fmt.Errorf("user %d: missing username", u.ID)
	}
	return nil
}

// DisplayName prefers "First Last" and falls back to the username.
func (u *User) DisplayName() string {
	switch {
	case u.FirstName != "" && u.LastName != "":
		return u.FirstName + " " + u.LastName
	case u.FirstName != "":
		return u.FirstName
	}
	return u.Username
}

// Initial is the avatar placeholder letter.
func (u *User) Initial() string {
	for _, r := range u.Username {
		return string(r)
	}
	return "?"
}

// AuthResult is returned by register and login.
type AuthResult struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}

func (a *AuthResult) Validate() error {
	if a.Token == "" {
		return fmt.Errorf("auth result: missing token")
	}
	return a.User.Validate()
}
