package models

import "io"

// ProfileUpdate carries a partial profile update. Nil fields are left
// untouched by the backend.
type ProfileUpdate struct {
	FirstName *string `json:"first_name,omitempty"`
	LastName  *string `json:"last_name,omitempty"`
	Email     *string `json:"email,omitempty"`
	Bio       *string `json:"bio,omitempty"`

	// Avatar switches the request to multipart/form-data.
	Avatar *AvatarUpload `json:"-"`
}

// AvatarUpload is an image attached to a profile update.
type AvatarUpload struct {
	Filename    string
	ContentType string
	Content     io.Reader
}

// Fields lists the text fields that are set, keyed by their wire name.
func (p ProfileUpdate) Fields() map[string]string {
	out := make(map[string]string, 4)
	set := func(k string, v *string) {
		if v != nil {
			out[k] = *v
		}
	}
	set("first_name", p.FirstName)
	set("last_name", p.LastName)
	set("email", p.Email)
	set("bio", p.Bio)
	return out
}

// IsEmpty reports whether the update would change nothing.
func (p ProfileUpdate) IsEmpty() bool {
	return p.Avatar == nil && len(p.Fields()) == 0
}
