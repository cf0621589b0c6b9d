package handlers

import (
	"net/http"

	"forumweb/internal/middleware"
	"forumweb/internal/services"
	"forumweb/internal/utils"
	"forumweb/internal/view"

	"github.com/gin-gonic/gin"
)

const msgCaptchaWrong = "Le résultat du calcul est incorrect"

type AuthHandler struct {
	base
	// captcha is nil when registration is not challenged.
	captcha *services.Captcha
}

func NewAuthHandler(guard *view.Guard, captcha *services.Captcha) *AuthHandler {
	return &AuthHandler{base: newBase(guard), captcha: captcha}
}

func (h *AuthHandler) ShowLogin(c *gin.Context) {
	if middleware.Forum(c).Session.IsAuthenticated() {
		c.Redirect(http.StatusFound, "/topics")
		return
	}
	Render(c, http.StatusOK, "auth/login.html", gin.H{"Page": view.NewLoginPage(h.env(c))})
}

func (h *AuthHandler) Login(c *gin.Context) {
	var form view.LoginForm
	_ = c.ShouldBind(&form)

	page := view.NewLoginPage(h.env(c))
	_ = page.Submit(c.Request.Context(), form)
	if followRedirect(c, page.State) {
		return
	}
	Render(c, formStatus(page.State), "auth/login.html", gin.H{"Page": page})
}

func (h *AuthHandler) ShowRegister(c *gin.Context) {
	page := view.NewRegisterPage(h.env(c))
	Render(c, http.StatusOK, "auth/register.html", h.registerData(c, page))
}

func (h *AuthHandler) Register(c *gin.Context) {
	var form view.RegisterForm
	_ = c.ShouldBind(&form)
	page := view.NewRegisterPage(h.env(c))

	if h.captcha != nil {
		ok, err := h.captcha.Verify(middleware.Store(c), c.PostForm("captcha"))
		if err != nil {
			utils.Sugar.Warnw("captcha check failed", "visitor", middleware.Visitor(c), "err", err)
		}
		if !ok {
			page.Form = view.RegisterForm{Username: form.Username, Email: form.Email}
			page.Error = msgCaptchaWrong
			Render(c, http.StatusBadRequest, "auth/register.html", h.registerData(c, page))
			return
		}
	}

	_ = page.Submit(c.Request.Context(), form)
	if followRedirect(c, page.State) {
		return
	}
	Render(c, formStatus(page.State), "auth/register.html", h.registerData(c, page))
}

// registerData issues a new challenge each time the form is shown.
func (h *AuthHandler) registerData(c *gin.Context, page *view.RegisterPage) gin.H {
	data := gin.H{"Page": page}
	if h.captcha == nil {
		return data
	}
	question, err := h.captcha.Issue(middleware.Store(c))
	if err != nil {
		utils.Sugar.Errorw("issue captcha failed", "err", err)
		return data
	}
	data["Captcha"] = question
	return data
}

func (h *AuthHandler) Logout(c *gin.Context) {
	if err := middleware.Forum(c).Session.Logout(); err != nil {
		utils.Sugar.Errorw("logout failed", "visitor", middleware.Visitor(c), "err", err)
	}
	c.Redirect(http.StatusFound, "/")
}
