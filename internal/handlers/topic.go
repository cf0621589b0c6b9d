package handlers

import (
	"net/http"

	"forumweb/internal/utils"
	"forumweb/internal/view"

	"github.com/gin-gonic/gin"
)

type TopicHandler struct {
	base
	perPage int
}

func NewTopicHandler(guard *view.Guard, perPage int) *TopicHandler {
	return &TopicHandler{base: newBase(guard), perPage: perPage}
}

func (h *TopicHandler) List(c *gin.Context) {
	page := view.NewTopicListPage(h.env(c), h.perPage)
	page.Load(c.Request.Context(), c.Query("category"), utils.StringToInt(c.DefaultQuery("page", "1")))
	Render(c, pageStatus(page.State), "topic/list.html", gin.H{
		"Page":               page,
		"ShowNewTopicButton": true,
	})
}

func (h *TopicHandler) Detail(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	page := view.NewTopicDetailPage(h.env(c))
	page.Load(c.Request.Context(), id)
	h.renderDetail(c, page, pageStatus(page.State))
}

func (h *TopicHandler) renderDetail(c *gin.Context, page *view.TopicDetailPage, code int) {
	if page.NotFound {
		RenderError(c, http.StatusNotFound, page.Error)
		return
	}
	Render(c, code, "topic/detail.html", gin.H{"Page": page})
}

// loadDetail loads the topic a mutation applies to. It renders the failure
// itself and returns nil when the topic is unavailable.
func (h *TopicHandler) loadDetail(c *gin.Context, id int) *view.TopicDetailPage {
	page := view.NewTopicDetailPage(h.env(c))
	page.Load(c.Request.Context(), id)
	if page.Phase != view.PhaseReady {
		h.renderDetail(c, page, pageStatus(page.State))
		return nil
	}
	return page
}

// finishMutation sends the browser back to the topic once a reply change
// went through; errors are rendered in place.
func (h *TopicHandler) finishMutation(c *gin.Context, page *view.TopicDetailPage, topicID int) {
	if page.Error != "" {
		h.renderDetail(c, page, formStatus(page.State))
		return
	}
	c.Redirect(http.StatusFound, view.TopicPath(topicID))
}

func (h *TopicHandler) Reply(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	page := h.loadDetail(c, id)
	if page == nil {
		return
	}
	_ = page.SubmitReply(c.Request.Context(), c.PostForm("content"))
	h.finishMutation(c, page, id)
}

func (h *TopicHandler) EditReply(c *gin.Context) {
	replyID, ok := paramID(c, "id")
	if !ok {
		return
	}
	topicID, ok := utils.ParseID(c.PostForm("topic_id"))
	if !ok {
		RenderError(c, http.StatusBadRequest, "Topic manquant")
		return
	}
	page := h.loadDetail(c, topicID)
	if page == nil {
		return
	}
	_ = page.EditReply(c.Request.Context(), replyID, c.PostForm("content"))
	h.finishMutation(c, page, topicID)
}

func (h *TopicHandler) DeleteReply(c *gin.Context) {
	replyID, ok := paramID(c, "id")
	if !ok {
		return
	}
	topicID, ok := utils.ParseID(c.PostForm("topic_id"))
	if !ok {
		RenderError(c, http.StatusBadRequest, "Topic manquant")
		return
	}
	page := h.loadDetail(c, topicID)
	if page == nil {
		return
	}
	_ = page.DeleteReply(c.Request.Context(), replyID)
	h.finishMutation(c, page, topicID)
}

func (h *TopicHandler) Delete(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	page := h.loadDetail(c, id)
	if page == nil {
		return
	}
	_ = page.DeleteTopic(c.Request.Context())
	if followRedirect(c, page.State) {
		return
	}
	h.renderDetail(c, page, formStatus(page.State))
}

func (h *TopicHandler) ShowCreate(c *gin.Context) {
	page := view.NewNewTopicPage(h.env(c))
	if cat := c.Query("category"); cat != "" {
		page.Form.Category = cat
	}
	Render(c, http.StatusOK, "topic/new.html", gin.H{"Page": page})
}

func (h *TopicHandler) Create(c *gin.Context) {
	var form view.TopicForm
	_ = c.ShouldBind(&form)

	page := view.NewNewTopicPage(h.env(c))
	_ = page.Submit(c.Request.Context(), form)
	if followRedirect(c, page.State) {
		return
	}
	Render(c, formStatus(page.State), "topic/new.html", gin.H{"Page": page})
}

func (h *TopicHandler) ShowEdit(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	page := view.NewEditTopicPage(h.env(c))
	page.Load(c.Request.Context(), id)
	switch {
	case page.Forbidden:
		RenderError(c, http.StatusForbidden, page.Error)
	case page.Phase == view.PhaseError:
		RenderError(c, pageStatus(page.State), page.Error)
	default:
		Render(c, pageStatus(page.State), "topic/edit.html", gin.H{"Page": page})
	}
}

func (h *TopicHandler) Update(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var form view.TopicForm
	_ = c.ShouldBind(&form)

	page := view.NewEditTopicPage(h.env(c))
	_ = page.Submit(c.Request.Context(), id, form)
	if followRedirect(c, page.State) {
		return
	}
	Render(c, formStatus(page.State), "topic/edit.html", gin.H{"Page": page})
}
