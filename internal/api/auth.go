package api

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"sort"

	"forumweb/internal/models"
)

// AuthAPI wraps the authentification/ resource group.
type AuthAPI struct {
	c *Client
}

func NewAuthAPI(c *Client) *AuthAPI {
	return &AuthAPI{c: c}
}

// Register creates an account. Duplicate username or email come back as a
// ValidationError keyed by the offending field.
func (a *AuthAPI) Register(ctx context.Context, username, email, password string) (*models.AuthResult, error) {
	var out models.AuthResult
	payload := map[string]string{"username": username, "email": email, "password": password}
	if err := a.c.sendJSON(ctx, http.MethodPost, "register/", payload, &out); err != nil {
		return nil, err
	}
	if err := check("register", &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Login exchanges credentials for a token. Bad credentials are an AuthError.
func (a *AuthAPI) Login(ctx context.Context, username, password string) (*models.AuthResult, error) {
	var out models.AuthResult
	payload := map[string]string{"username": username, "password": password}
	if err := a.c.sendJSON(ctx, http.MethodPost, "login/", payload, &out); err != nil {
		return nil, err
	}
	if err := check("login", &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Me fetches the authoritative profile of the token's owner.
func (a *AuthAPI) Me(ctx context.Context) (*models.User, error) {
	var out models.User
	if err := a.c.get(ctx, "me/", nil, &out); err != nil {
		return nil, err
	}
	if err := check("me", &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateProfile sends a partial update, as JSON or, when an avatar is
// attached, as multipart/form-data.
func (a *AuthAPI) UpdateProfile(ctx context.Context, upd models.ProfileUpdate) (*models.User, error) {
	var out models.User
	var err error
	if upd.Avatar != nil {
		body, contentType, berr := profileMultipart(upd)
		if berr != nil {
			return nil, berr
		}
		err = a.c.do(ctx, http.MethodPut, "profile/", nil, body, contentType, &out)
	} else {
		err = a.c.sendJSON(ctx, http.MethodPut, "profile/", upd.Fields(), &out)
	}
	if err != nil {
		return nil, err
	}
	if err := check("profile", &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func profileMultipart(upd models.ProfileUpdate) (io.Reader, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	fields := upd.Fields()
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if err := w.WriteField(k, fields[k]); err != nil {
			return nil, "", fmt.Errorf("write field %s: %w", k, err)
		}
	}

	av := upd.Avatar
	contentType := av.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="avatar"; filename=%q`, av.Filename))
	h.Set("Content-Type", contentType)
	part, err := w.CreatePart(h)
	if err != nil {
		return nil, "", fmt.Errorf("create avatar part: %w", err)
	}
	if _, err := io.Copy(part, av.Content); err != nil {
		return nil, "", fmt.Errorf("copy avatar: %w", err)
	}
	if err := w.Close(); err != nil {
		return nil, "", fmt.Errorf("close multipart body: %w", err)
	}
	return &buf, w.FormDataContentType(), nil
}
