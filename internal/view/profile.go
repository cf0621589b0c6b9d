package view

import (
	"context"
	"errors"
	"strings"

	"forumweb/internal/models"
)

const (
	msgProfileUnavailable = "Impossible de charger le profil"
	msgProfileFailed      = "Erreur lors de la mise à jour du profil"
	msgEmailRequired      = "L'adresse email est obligatoire"

	loginPath = "/auth/login"
)

type ProfileForm struct {
	FirstName string               `form:"first_name"`
	LastName  string               `form:"last_name"`
	Email     string               `form:"email"`
	Bio       string               `form:"bio"`
	Avatar    *models.AvatarUpload `form:"-"`
}

type ProfilePage struct {
	base
	User    *models.User
	Form    ProfileForm
	Editing bool
	Saved   bool
}

func NewProfilePage(env Env) *ProfilePage {
	return &ProfilePage{base: newBase(env)}
}

// Load asks the backend for the visitor's profile. A rejected or missing
// token sends the visitor to the login page.
func (p *ProfilePage) Load(ctx context.Context) {
	p.start()
	u, err := p.env.Forum.Session.CurrentUser(ctx)
	if err != nil {
		p.fail(err, msgProfileUnavailable)
		if p.NeedsLogin {
			p.Redirect = loginPath
		}
		return
	}
	p.setUser(u)
	p.ready()
}

func (p *ProfilePage) setUser(u *models.User) {
	p.User = u
	p.Form = ProfileForm{FirstName: u.FirstName, LastName: u.LastName, Email: u.Email, Bio: u.Bio}
}

// Submit sends the form and reloads the authoritative profile.
func (p *ProfilePage) Submit(ctx context.Context, form ProfileForm) error {
	p.Form = ProfileForm{
		FirstName: strings.TrimSpace(form.FirstName),
		LastName:  strings.TrimSpace(form.LastName),
		Email:     strings.TrimSpace(form.Email),
		Bio:       strings.TrimSpace(form.Bio),
	}
	p.Editing = true
	if p.Form.Email == "" {
		p.reject(msgEmailRequired)
		return errors.New(msgEmailRequired)
	}

	upd := models.ProfileUpdate{
		FirstName: &p.Form.FirstName,
		LastName:  &p.Form.LastName,
		Email:     &p.Form.Email,
		Bio:       &p.Form.Bio,
		Avatar:    form.Avatar,
	}
	return p.submit("profile", func() error {
		if _, err := p.env.Forum.Session.UpdateProfile(ctx, upd); err != nil {
			p.reject(Message(err, msgProfileFailed))
			if isUnauthenticated(err) {
				p.NeedsLogin = true
				p.Redirect = loginPath
			}
			logFailure(err)
			return err
		}
		p.Load(ctx)
		if p.Phase == PhaseReady {
			p.Editing = false
			p.Saved = true
		}
		return nil
	})
}
