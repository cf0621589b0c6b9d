package view

import (
	"context"
	"errors"
	"strings"
	"unicode/utf8"

	"forumweb/internal/api"
)

const (
	msgLoginFailed     = "Une erreur est survenue lors de la connexion"
	msgRegisterFailed  = "Une erreur est survenue lors de l'inscription"
	msgPasswordsDiffer = "Les mots de passe ne correspondent pas"
	msgPasswordShort   = "Le mot de passe doit contenir au moins 6 caractères"
	msgUsernameTaken   = "Ce nom d'utilisateur est déjà utilisé"
	msgEmailTaken      = "Cette adresse email est déjà utilisée"

	minPasswordLen = 6
	afterAuthPath  = "/topics"
)

type LoginForm struct {
	Username string `form:"username"`
	Password string `form:"password"`
}

type LoginPage struct {
	base
	Form LoginForm
}

func NewLoginPage(env Env) *LoginPage {
	p := &LoginPage{base: newBase(env)}
	p.ready()
	return p
}

// Submit logs the visitor in and points Redirect at the topic list.
func (p *LoginPage) Submit(ctx context.Context, form LoginForm) error {
	p.Form = LoginForm{Username: strings.TrimSpace(form.Username)}
	return p.submit("login", func() error {
		if _, err := p.env.Forum.Session.Login(ctx, p.Form.Username, form.Password); err != nil {
			p.reject(loginMessage(err))
			logFailure(err)
			return err
		}
		p.Redirect = afterAuthPath
		return nil
	})
}

func loginMessage(err error) string {
	var de *api.DecodeError
	if errors.As(err, &de) {
		return msgLoginFailed
	}
	if msg, ok := api.ErrorMessage(err); ok {
		return msg
	}
	return msgNetwork
}

type RegisterForm struct {
	Username        string `form:"username"`
	Email           string `form:"email"`
	Password        string `form:"password"`
	ConfirmPassword string `form:"confirm_password"`
}

type RegisterPage struct {
	base
	Form RegisterForm
}

func NewRegisterPage(env Env) *RegisterPage {
	p := &RegisterPage{base: newBase(env)}
	p.ready()
	return p
}

// Submit validates the form locally, then creates the account.
func (p *RegisterPage) Submit(ctx context.Context, form RegisterForm) error {
	p.Form = RegisterForm{
		Username: strings.TrimSpace(form.Username),
		Email:    strings.TrimSpace(form.Email),
	}

	if msg := validateRegistration(p.Form, form.Password, form.ConfirmPassword); msg != "" {
		p.reject(msg)
		return errors.New(msg)
	}

	return p.submit("register", func() error {
		if _, err := p.env.Forum.Session.Register(ctx, p.Form.Username, p.Form.Email, form.Password); err != nil {
			p.reject(registerMessage(err))
			logFailure(err)
			return err
		}
		p.Redirect = afterAuthPath
		return nil
	})
}

func validateRegistration(f RegisterForm, password, confirm string) string {
	switch {
	case password != confirm:
		return msgPasswordsDiffer
	case utf8.RuneCountInString(password) < minPasswordLen:
		return msgPasswordShort
	case f.Username == "" || f.Email == "":
		return msgFillAll
	}
	return ""
}

func registerMessage(err error) string {
	var (
		ve *api.ValidationError
		de *api.DecodeError
	)
	switch {
	case errors.As(err, &ve) && ve.HasField("username"):
		return msgUsernameTaken
	case errors.As(err, &ve) && ve.HasField("email"):
		return msgEmailTaken
	case errors.As(err, &de):
		return msgRegisterFailed
	}
	if body := api.ResponseBody(err); body != "" {
		return body
	}
	return msgNetwork
}
