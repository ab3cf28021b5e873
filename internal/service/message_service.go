package service

import (
	"context"
	"strings"

	"taskboard/internal/domain"

	"github.com/microcosm-cc/bluemonday"
)

type MessageService struct {
	messages MessageRepository
	notifier Notifier
	policy   *bluemonday.Policy
	limit    int
}

func NewMessageService(messages MessageRepository, notifier Notifier, historyLimit int) *MessageService {
	return &MessageService{
		messages: messages,
		notifier: notifier,
		policy:   bluemonday.StrictPolicy(),
		limit:    historyLimit,
	}
}

// List returns the most recent history, oldest first. Rooms are not applied here.
func (s *MessageService) List(ctx context.Context) ([]*domain.Message, error) {
	return s.messages.Recent(ctx, s.limit)
}

// Post stores the sanitized text and publishes it to room, or to everyone when
// room is blank.
func (s *MessageService) Post(ctx context.Context, senderID int64, text, room string) (*domain.Message, error) {
	if strings.TrimSpace(text) == "" {
		return nil, domain.NewValidationError("Text required")
	}

	clean := strings.TrimSpace(s.sanitize(text))
	if clean == "" {
		return nil, domain.NewValidationError("Text required")
	}

	m := &domain.Message{SenderID: senderID, Text: clean}
	if err := s.messages.Create(ctx, m); err != nil {
		return nil, err
	}

	if room = strings.TrimSpace(room); room != "" {
		s.notifier.BroadcastToRoom(room, domain.EventChatMessage, m)
	} else {
		s.notifier.Broadcast(domain.EventChatMessage, m)
	}
	return m, nil
}

// sanitize strips all markup. Remaining text comes back HTML-escaped, so the
// stored value is safe to render as-is.
func (s *MessageService) sanitize(text string) string {
	return s.policy.Sanitize(text)
}
