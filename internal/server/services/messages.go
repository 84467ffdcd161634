package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/dmitrijs2005/photofeed/internal/common"
	"github.com/dmitrijs2005/photofeed/internal/server/events"
	"github.com/dmitrijs2005/photofeed/internal/server/models"
	"github.com/google/uuid"
)

const (
	maxMessageLength = 1000
	pushPreviewRunes = 80
)

// MessageService carries direct messages between two users. A conversation
// is the set of messages exchanged by a pair, in either direction.
type MessageService struct {
	deps   Deps
	pusher *events.Pusher
}

func NewMessageService(d Deps) *MessageService {
	d = d.withDefaults()
	d.Logger = d.Logger.With("module", "messages")
	return &MessageService{deps: d, pusher: events.NewPusher(d.Bus)}
}

// Send stores text from actorID to toID and asks for a device push to the
// recipient.
func (s *MessageService) Send(ctx context.Context, actorID, toID, text string) (*models.Message, error) {
	if err := requireActor(actorID); err != nil {
		return nil, err
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, fmt.Errorf("%w: empty message", common.ErrValidation)
	}
	if len(text) > maxMessageLength {
		return nil, fmt.Errorf("%w: message too long", common.ErrValidation)
	}
	if toID == actorID {
		return nil, fmt.Errorf("%w: cannot message yourself", common.ErrValidation)
	}

	conn := s.deps.DB.Conn()
	recipient, err := s.deps.Repos.Users(conn).GetByID(ctx, toID)
	if err != nil {
		return nil, err
	}

	m := &models.Message{
		ID:        uuid.NewString(),
		FromID:    actorID,
		ToID:      toID,
		Text:      text,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.deps.Repos.Messages(conn).Create(ctx, m); err != nil {
		return nil, err
	}
	s.deps.Metrics.MessageSent()

	publish(ctx, s.deps, events.SubjectMessageSent, events.MessageSent{
		ID:        m.ID,
		FromID:    m.FromID,
		ToID:      m.ToID,
		Text:      m.Text,
		CreatedAt: m.CreatedAt,
	})
	s.push(ctx, recipient, m)
	return m, nil
}

func (s *MessageService) push(ctx context.Context, recipient *models.User, m *models.Message) {
	if recipient.DeviceToken == "" {
		return
	}

	title := "New message"
	if sender, err := s.deps.Repos.Users(s.deps.DB.Conn()).GetByID(ctx, m.FromID); err == nil {
		title = sender.Username
	}

	data := map[string]string{"message_id": m.ID, "from_id": m.FromID}
	if err := s.pusher.Send(ctx, recipient.DeviceToken, title, preview(m.Text), data); err != nil {
		s.deps.Metrics.PublishFailed(events.SubjectPushDeliver)
		s.deps.Logger.Warn(ctx, "push failed", "recipient_id", recipient.ID, "error", err)
	}
}

func preview(text string) string {
	r := []rune(text)
	if len(r) <= pushPreviewRunes {
		return text
	}
	return string(r[:pushPreviewRunes-1]) + "…"
}

// Conversation returns the messages between actorID and partnerID, newest
// first.
func (s *MessageService) Conversation(ctx context.Context, actorID, partnerID string, limit, offset int) ([]*models.Message, error) {
	if err := requireActor(actorID); err != nil {
		return nil, err
	}
	if partnerID == "" {
		return nil, fmt.Errorf("%w: missing partner", common.ErrValidation)
	}
	return s.deps.Repos.Messages(s.deps.DB.Conn()).ListConversation(ctx, actorID, partnerID, pageSize(limit), max(offset, 0))
}

// Conversations lists the actor's conversations by their latest message,
// most recent first.
func (s *MessageService) Conversations(ctx context.Context, actorID string, limit int) ([]*models.Conversation, error) {
	if err := requireActor(actorID); err != nil {
		return nil, err
	}
	latest, err := s.deps.Repos.Messages(s.deps.DB.Conn()).ListConversations(ctx, actorID, pageSize(limit))
	if err != nil {
		return nil, err
	}

	out := make([]*models.Conversation, 0, len(latest))
	for _, m := range latest {
		out = append(out, &models.Conversation{PartnerID: m.PartnerID(actorID), Last: m})
	}
	return out, nil
}
