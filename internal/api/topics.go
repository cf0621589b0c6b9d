package api

import (
	"context"
	"fmt"
	"net/http"

	"forumweb/internal/models"
)

// TopicsAPI wraps the topics/ resource group, replies included.
type TopicsAPI struct {
	c *Client
}

func NewTopicsAPI(c *Client) *TopicsAPI {
	return &TopicsAPI{c: c}
}

func (t *TopicsAPI) List(ctx context.Context) ([]models.Topic, error) {
	var out []models.Topic
	if err := t.c.get(ctx, "", nil, &out); err != nil {
		return nil, err
	}
	if err := checkAll("topics", out); err != nil {
		return nil, err
	}
	return out, nil
}

// Get returns the topic with its nested replies.
func (t *TopicsAPI) Get(ctx context.Context, id int) (*models.Topic, error) {
	var out models.Topic
	if err := t.c.get(ctx, fmt.Sprintf("%d/", id), nil, &out); err != nil {
		return nil, err
	}
	if err := check("topic", &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (t *TopicsAPI) Create(ctx context.Context, in models.TopicInput) (*models.Topic, error) {
	var out models.Topic
	if err := t.c.sendJSON(ctx, http.MethodPost, "", in, &out); err != nil {
		return nil, err
	}
	if err := check("topic", &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (t *TopicsAPI) Update(ctx context.Context, id int, in models.TopicInput) (*models.Topic, error) {
	var out models.Topic
	if err := t.c.sendJSON(ctx, http.MethodPut, fmt.Sprintf("%d/", id), in, &out); err != nil {
		return nil, err
	}
	if err := check("topic", &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (t *TopicsAPI) Delete(ctx context.Context, id int) error {
	return t.c.delete(ctx, fmt.Sprintf("%d/", id))
}

func (t *TopicsAPI) Replies(ctx context.Context, topicID int) ([]models.Reply, error) {
	var out []models.Reply
	if err := t.c.get(ctx, fmt.Sprintf("%d/replies/", topicID), nil, &out); err != nil {
		return nil, err
	}
	if err := checkAll("replies", out); err != nil {
		return nil, err
	}
	return out, nil
}

func (t *TopicsAPI) CreateReply(ctx context.Context, topicID int, content string) (*models.Reply, error) {
	var out models.Reply
	payload := map[string]string{"content": content}
	if err := t.c.sendJSON(ctx, http.MethodPost, fmt.Sprintf("%d/replies/", topicID), payload, &out); err != nil {
		return nil, err
	}
	if err := check("reply", &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateReply only sends content; the owning topic cannot be changed.
func (t *TopicsAPI) UpdateReply(ctx context.Context, id int, content string) (*models.Reply, error) {
	var out models.Reply
	payload := map[string]string{"content": content}
	if err := t.c.sendJSON(ctx, http.MethodPut, fmt.Sprintf("replies/%d/", id), payload, &out); err != nil {
		return nil, err
	}
	if err := check("reply", &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (t *TopicsAPI) DeleteReply(ctx context.Context, id int) error {
	return t.c.delete(ctx, fmt.Sprintf("replies/%d/", id))
}
