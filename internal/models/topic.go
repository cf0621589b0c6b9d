package models

import (
	"fmt"
	"time"
)

// Category is one of the backend's topic categories. Unknown values are
// passed through untouched.
type Category string

const (
	CategoryGeneral   Category = "general"
	CategoryQuestions Category = "questions"
	CategoryHelp      Category = "aide"
	CategoryAnnounces Category = "annonces"
)

// Categories is the known set, in display order.
var Categories = []Category{CategoryGeneral, CategoryQuestions, CategoryHelp, CategoryAnnounces}

var categoryLabels = map[Category]string{
	CategoryGeneral:   "Général",
	CategoryQuestions: "Questions",
	CategoryHelp:      "Aide",
	CategoryAnnounces: "Annonces",
}

// Label is the French display name, or the raw value for unknown categories.
func (c Category) Label() string {
	if l, ok := categoryLabels[c]; ok {
		return l
	}
	return string(c)
}

// Topic is a discussion thread. List and search endpoints omit Content and Replies.
type Topic struct {
	ID             int       `json:"id"`
	Title          string    `json:"title"`
	Content        string    `json:"content,omitempty"`
	Category       Category  `json:"category"`
	AuthorID       int       `json:"author"`
	AuthorUsername string    `json:"author_username"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
	Views          int       `json:"views"`
	IsPinned       bool      `json:"is_pinned"`
	IsClosed       bool      `json:"is_closed"`
	ReplyCount     int       `json:"reply_count"`
	Replies        []Reply   `json:"replies,omitempty"`
}

func (t *Topic) Validate() error {
	if t.ID <= 0 {
		return fmt.Errorf("topic: missing id")
	}
	for i := range t.Replies {
		if err := t.Replies[i].Validate(); err != nil {
			return fmt.Errorf("topic %d: %w", t.ID, err)
		}
	}
	return nil
}

// IsAuthor reports whether u wrote the topic.
func (t *Topic) IsAuthor(u *User) bool {
	return u != nil && u.ID == t.AuthorID
}

// Reply always belongs to exactly one topic; TopicID never changes after creation.
type Reply struct {
	ID             int       `json:"id"`
	TopicID        int       `json:"topic"`
	AuthorID       int       `json:"author"`
	AuthorUsername string    `json:"author_username"`
	Content        string    `json:"content"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
	Likes          int       `json:"likes"`
}

func (r *Reply) Validate() error {
	if r.ID <= 0 {
		return fmt.Errorf("reply: missing id")
	}
	return nil
}

// IsAuthor reports whether u wrote the reply.
func (r *Reply) IsAuthor(u *User) bool {
	return u != nil && u.ID == r.AuthorID
}

// TopicInput is the payload of topic creation and update.
type TopicInput struct {
	Title    string   `json:"title"`
	Content  string   `json:"content"`
	Category Category `json:"category"`
}
