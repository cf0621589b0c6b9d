package handlers

import (
	"net/http"

	"forumweb/internal/models"
	"forumweb/internal/view"

	"github.com/gin-gonic/gin"
)

const maxAvatarBytes = 5 << 20

type ProfileHandler struct {
	base
}

func NewProfileHandler(guard *view.Guard) *ProfileHandler {
	return &ProfileHandler{base: newBase(guard)}
}

// Show - /profile
func (h *ProfileHandler) Show(c *gin.Context) {
	page := view.NewProfilePage(h.env(c))
	page.Load(c.Request.Context())
	if followRedirect(c, page.State) {
		return
	}
	page.Editing = c.Query("edit") == "1"
	Render(c, pageStatus(page.State), "user/profile.html", gin.H{"Page": page})
}

func (h *ProfileHandler) Update(c *gin.Context) {
	var form view.ProfileForm
	_ = c.ShouldBind(&form)

	page := view.NewProfilePage(h.env(c))

	if fh, err := c.FormFile("avatar"); err == nil && fh.Size > 0 {
		if fh.Size > maxAvatarBytes {
			page.Phase = view.PhaseReady
			page.Editing = true
			page.Form = form
			page.Error = "L'image est trop volumineuse (5 Mo maximum)"
			Render(c, http.StatusBadRequest, "user/profile.html", gin.H{"Page": page})
			return
		}
		f, err := fh.Open()
		if err != nil {
			RenderError(c, http.StatusBadRequest, "Impossible de lire l'image envoyée")
			return
		}
		defer f.Close()
		form.Avatar = &models.AvatarUpload{
			Filename:    fh.Filename,
			ContentType: fh.Header.Get("Content-Type"),
			Content:     f,
		}
	}

	_ = page.Submit(c.Request.Context(), form)
	if page.NeedsLogin && followRedirect(c, page.State) {
		return
	}
	Render(c, formStatus(page.State), "user/profile.html", gin.H{"Page": page})
}
