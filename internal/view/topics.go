package view

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"forumweb/internal/api"
	"forumweb/internal/models"
)

const (
	msgTopicsUnavailable = "Impossible de charger les discussions"
	msgTopicUnavailable  = "Impossible de charger ce topic"
	msgCreateLogin       = "Vous devez être connecté pour créer un topic"
	msgCreateFailed      = "Erreur lors de la création du topic"
	msgEditLogin         = "Vous devez être connecté pour modifier un topic"
	msgEditFailed        = "Erreur lors de la modification du topic"
	msgNotTopicAuthor    = "Vous ne pouvez modifier que vos propres topics"
	msgReplyFailed       = "Erreur lors de l'envoi de la réponse"
	msgDeleteFailed      = "Erreur lors de la suppression"

	topicsPath      = "/topics"
	defaultPerPage  = 20
	defaultCategory = models.CategoryGeneral
)

// TopicPath is the page of topic id.
func TopicPath(id int) string {
	return fmt.Sprintf("/topics/%d", id)
}

type TopicListPage struct {
	base
	Topics     []models.Topic
	Categories []models.Category
	Category   models.Category
	Page       int
	PerPage    int
	Total      int
	Pages      int
}

func NewTopicListPage(env Env, perPage int) *TopicListPage {
	if perPage <= 0 {
		perPage = defaultPerPage
	}
	return &TopicListPage{base: newBase(env), PerPage: perPage, Categories: models.Categories}
}

// Load lists the topics of category ("" for all), pinned first, and keeps
// the requested page. Out of range pages are clamped.
func (p *TopicListPage) Load(ctx context.Context, category string, page int) {
	p.start()
	p.Category = models.Category(strings.TrimSpace(category))

	all, err := p.env.Forum.Topics.ListTopics(ctx)
	if err != nil {
		p.Topics = nil
		p.fail(err, msgTopicsUnavailable)
		return
	}

	filtered := make([]models.Topic, 0, len(all))
	for _, t := range all {
		if p.Category == "" || t.Category == p.Category {
			filtered = append(filtered, t)
		}
	}
	sort.SliceStable(filtered, func(i, j int) bool {
		return filtered[i].IsPinned && !filtered[j].IsPinned
	})

	p.Total = len(filtered)
	p.Pages = (p.Total + p.PerPage - 1) / p.PerPage
	if p.Pages == 0 {
		p.Pages = 1
	}
	p.Page = min(max(page, 1), p.Pages)

	start := (p.Page - 1) * p.PerPage
	end := min(start+p.PerPage, p.Total)
	p.Topics = filtered[start:end]
	p.ready()
}

func (p *TopicListPage) HasPrev() bool { return p.Page > 1 }
func (p *TopicListPage) HasNext() bool { return p.Page < p.Pages }

type TopicDetailPage struct {
	base
	Topic      *models.Topic
	User       *models.User
	ReplyDraft string
	// EditingReply is the reply whose edit failed, 0 otherwise.
	EditingReply int
	EditDraft    string
}

func NewTopicDetailPage(env Env) *TopicDetailPage {
	return &TopicDetailPage{base: newBase(env)}
}

// Load fetches the topic with its replies.
func (p *TopicDetailPage) Load(ctx context.Context, id int) {
	p.start()
	p.User, _ = p.env.Forum.Session.CurrentUserLocal()

	t, err := p.env.Forum.Topics.GetTopic(ctx, id)
	if err != nil {
		p.Topic = nil
		p.fail(err, msgTopicUnavailable)
		return
	}
	p.Topic = t
	p.ready()
}

// IsAuthor reports whether the visitor wrote the topic.
func (p *TopicDetailPage) IsAuthor() bool {
	return p.Topic != nil && p.Topic.IsAuthor(p.User)
}

// CanReply is false for closed topics and anonymous visitors.
func (p *TopicDetailPage) CanReply() bool {
	return p.Topic != nil && !p.Topic.IsClosed && p.env.Forum.Session.IsAuthenticated()
}

// refresh reloads the topic after a mutation, keeping the inline error.
func (p *TopicDetailPage) refresh(ctx context.Context) {
	msg := p.Error
	p.Load(ctx, p.Topic.ID)
	if p.Phase == PhaseReady {
		p.Error = msg
	}
}

// SubmitReply posts content to the loaded topic and reloads it.
func (p *TopicDetailPage) SubmitReply(ctx context.Context, content string) error {
	if p.Topic == nil {
		return errors.New("topic not loaded")
	}
	return p.submit("reply", func() error {
		if _, err := p.env.Forum.Topics.ReplyTo(ctx, p.Topic, content); err != nil {
			p.ReplyDraft = content
			p.reject(Message(err, msgReplyFailed))
			logFailure(err)
			return err
		}
		p.ReplyDraft = ""
		p.refresh(ctx)
		return nil
	})
}

// EditReply changes the content of one of the visitor's replies.
func (p *TopicDetailPage) EditReply(ctx context.Context, replyID int, content string) error {
	if p.Topic == nil {
		return errors.New("topic not loaded")
	}
	return p.submit(fmt.Sprintf("reply-edit-%d", replyID), func() error {
		if _, err := p.env.Forum.Topics.UpdateReply(ctx, replyID, content); err != nil {
			p.EditingReply, p.EditDraft = replyID, content
			p.reject(Message(err, msgReplyFailed))
			logFailure(err)
			return err
		}
		p.EditingReply, p.EditDraft = 0, ""
		p.refresh(ctx)
		return nil
	})
}

// DeleteReply removes one of the visitor's replies.
func (p *TopicDetailPage) DeleteReply(ctx context.Context, replyID int) error {
	if p.Topic == nil {
		return errors.New("topic not loaded")
	}
	return p.submit(fmt.Sprintf("reply-delete-%d", replyID), func() error {
		if err := p.env.Forum.Topics.DeleteReply(ctx, replyID); err != nil {
			p.reject(Message(err, msgDeleteFailed))
			logFailure(err)
			return err
		}
		p.refresh(ctx)
		return nil
	})
}

// DeleteTopic removes the loaded topic and points Redirect at the list.
func (p *TopicDetailPage) DeleteTopic(ctx context.Context) error {
	if p.Topic == nil {
		return errors.New("topic not loaded")
	}
	return p.submit("topic-delete", func() error {
		if err := p.env.Forum.Topics.DeleteTopic(ctx, p.Topic.ID); err != nil {
			p.reject(Message(err, msgDeleteFailed))
			logFailure(err)
			return err
		}
		p.Redirect = topicsPath
		return nil
	})
}

// TopicForm backs the create and edit pages.
type TopicForm struct {
	Title    string `form:"title"`
	Content  string `form:"content"`
	Category string `form:"category"`
}

func (f TopicForm) normalized() TopicForm {
	f.Title = strings.TrimSpace(f.Title)
	f.Category = strings.TrimSpace(f.Category)
	if f.Category == "" {
		f.Category = string(defaultCategory)
	}
	return f
}

func (f TopicForm) blank() bool {
	return f.Title == "" || strings.TrimSpace(f.Content) == ""
}

// topicFormMessage maps a create/update failure: 401 asks for a login,
// other backend answers show their body.
func topicFormMessage(err error, loginMsg, fallback string) string {
	if isUnauthenticated(err) {
		return loginMsg
	}
	if body := api.ResponseBody(err); body != "" {
		return body
	}
	return fallback
}

type NewTopicPage struct {
	base
	Form       TopicForm
	Categories []models.Category
}

func NewNewTopicPage(env Env) *NewTopicPage {
	p := &NewTopicPage{
		base:       newBase(env),
		Form:       TopicForm{Category: string(defaultCategory)},
		Categories: models.Categories,
	}
	p.ready()
	return p
}

// Submit creates the topic and points Redirect at it.
func (p *NewTopicPage) Submit(ctx context.Context, form TopicForm) error {
	p.Form = form.normalized()
	if p.Form.blank() {
		p.reject(msgFillAll)
		return errors.New(msgFillAll)
	}
	return p.submit("topic-new", func() error {
		t, err := p.env.Forum.Topics.CreateTopic(ctx, p.Form.Title, p.Form.Content, models.Category(p.Form.Category))
		if err != nil {
			p.reject(topicFormMessage(err, msgCreateLogin, msgCreateFailed))
			logFailure(err)
			return err
		}
		p.Redirect = TopicPath(t.ID)
		return nil
	})
}

type EditTopicPage struct {
	base
	TopicID    int
	Form       TopicForm
	Categories []models.Category
	// Forbidden is set when the visitor did not write the topic.
	Forbidden bool
}

func NewEditTopicPage(env Env) *EditTopicPage {
	return &EditTopicPage{base: newBase(env), Categories: models.Categories}
}

// Load prefills the form. Only the author may edit.
func (p *EditTopicPage) Load(ctx context.Context, id int) {
	p.start()
	p.TopicID = id

	t, err := p.env.Forum.Topics.GetTopic(ctx, id)
	if err != nil {
		p.fail(err, msgTopicUnavailable)
		return
	}
	u, _ := p.env.Forum.Session.CurrentUserLocal()
	if !t.IsAuthor(u) {
		p.Phase = PhaseError
		p.Error = msgNotTopicAuthor
		p.Forbidden = true
		return
	}
	p.Form = TopicForm{Title: t.Title, Content: t.Content, Category: string(t.Category)}
	p.ready()
}

// Submit saves the changes and points Redirect at the topic.
func (p *EditTopicPage) Submit(ctx context.Context, id int, form TopicForm) error {
	p.TopicID = id
	p.Form = form.normalized()
	if p.Form.blank() {
		p.reject(msgFillAll)
		return errors.New(msgFillAll)
	}
	return p.submit(fmt.Sprintf("topic-edit-%d", id), func() error {
		_, err := p.env.Forum.Topics.UpdateTopic(ctx, id, p.Form.Title, p.Form.Content, models.Category(p.Form.Category))
		if err != nil {
			p.reject(topicFormMessage(err, msgEditLogin, msgEditFailed))
			logFailure(err)
			return err
		}
		p.Redirect = TopicPath(id)
		return nil
	})
}
