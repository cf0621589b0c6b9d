package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"forumweb/internal/api"
	"forumweb/internal/models"
)

var (
	// ErrEmptyContent rejects a blank reply before any network call.
	ErrEmptyContent = errors.New("content must not be empty")
	// ErrTopicClosed rejects a reply to a closed topic before any network call.
	ErrTopicClosed = errors.New("topic is closed to new replies")
)

// TopicService exposes topic and reply operations. Authorization rides on
// the API client's token interceptor.
type TopicService struct {
	api *api.TopicsAPI
}

func NewTopicService(a *api.TopicsAPI) *TopicService {
	return &TopicService{api: a}
}

func (s *TopicService) ListTopics(ctx context.Context) ([]models.Topic, error) {
	topics, err := s.api.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list topics: %w", err)
	}
	return topics, nil
}

func (s *TopicService) GetTopic(ctx context.Context, id int) (*models.Topic, error) {
	t, err := s.api.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get topic %d: %w", id, err)
	}
	return t, nil
}

func (s *TopicService) CreateTopic(ctx context.Context, title, content string, category models.Category) (*models.Topic, error) {
	t, err := s.api.Create(ctx, models.TopicInput{Title: title, Content: content, Category: category})
	if err != nil {
		return nil, fmt.Errorf("create topic: %w", err)
	}
	return t, nil
}

func (s *TopicService) UpdateTopic(ctx context.Context, id int, title, content string, category models.Category) (*models.Topic, error) {
	t, err := s.api.Update(ctx, id, models.TopicInput{Title: title, Content: content, Category: category})
	if err != nil {
		return nil, fmt.Errorf("update topic %d: %w", id, err)
	}
	return t, nil
}

func (s *TopicService) DeleteTopic(ctx context.Context, id int) error {
	if err := s.api.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete topic %d: %w", id, err)
	}
	return nil
}

func (s *TopicService) GetReplies(ctx context.Context, topicID int) ([]models.Reply, error) {
	replies, err := s.api.Replies(ctx, topicID)
	if err != nil {
		return nil, fmt.Errorf("list replies of topic %d: %w", topicID, err)
	}
	return replies, nil
}

// CreateReply posts a reply. Blank content is rejected locally.
func (s *TopicService) CreateReply(ctx context.Context, topicID int, content string) (*models.Reply, error) {
	if strings.TrimSpace(content) == "" {
		return nil, ErrEmptyContent
	}
	r, err := s.api.CreateReply(ctx, topicID, content)
	if err != nil {
		return nil, fmt.Errorf("reply to topic %d: %w", topicID, err)
	}
	return r, nil
}

// ReplyTo posts a reply after checking the already loaded topic is open.
func (s *TopicService) ReplyTo(ctx context.Context, t *models.Topic, content string) (*models.Reply, error) {
	if t.IsClosed {
		return nil, ErrTopicClosed
	}
	return s.CreateReply(ctx, t.ID, content)
}

func (s *TopicService) UpdateReply(ctx context.Context, id int, content string) (*models.Reply, error) {
	if strings.TrimSpace(content) == "" {
		return nil, ErrEmptyContent
	}
	r, err := s.api.UpdateReply(ctx, id, content)
	if err != nil {
		return nil, fmt.Errorf("update reply %d: %w", id, err)
	}
	return r, nil
}

func (s *TopicService) DeleteReply(ctx context.Context, id int) error {
	if err := s.api.DeleteReply(ctx, id); err != nil {
		return fmt.Errorf("delete reply %d: %w", id, err)
	}
	return nil
}
