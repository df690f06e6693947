// Package service provides business logic for the parent assistant API.
package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/parentbridge/parent-assistant/internal/apperr"
	"github.com/parentbridge/parent-assistant/internal/events"
	"github.com/parentbridge/parent-assistant/internal/llm"
	"github.com/parentbridge/parent-assistant/internal/model"
	"github.com/parentbridge/parent-assistant/internal/store"
	"github.com/parentbridge/parent-assistant/pkg/logger"
	"github.com/parentbridge/parent-assistant/pkg/metrics"
)

// Replier produces one bot reply for an ordered, role-tagged history.
// Satisfied by llm.Gateway.
type Replier interface {
	Reply(ctx context.Context, history []llm.ChatMessage) (string, error)
	Provider() string
}

// ConversationService handles conversation operations against the
// injected store and completion gateway.
type ConversationService struct {
	store   store.ConversationStore
	gateway Replier
	events  events.Publisher
	logger  *logger.Logger
	now     func() time.Time
}

// NewConversationService creates a new conversation service.
func NewConversationService(
	st store.ConversationStore,
	gateway Replier,
	pub events.Publisher,
	log *logger.Logger,
) *ConversationService {
	if pub == nil {
		pub = events.NewNoop()
	}
	return &ConversationService{
		store:   st,
		gateway: gateway,
		events:  pub,
		logger:  log,
		now:     time.Now,
	}
}

// Create creates a conversation for a user. An optional initial message
// is stored as the opening bot greeting.
func (s *ConversationService) Create(ctx context.Context, req *model.CreateConversationRequest) (*model.Conversation, error) {
	if strings.TrimSpace(req.UserID) == "" {
		return nil, apperr.Validation("user_id is required")
	}

	now := s.now().UTC()

	title := strings.TrimSpace(req.Title)
	if title == "" {
		title = "Chat " + now.Format("2006-01-02")
	}

	conv := &model.Conversation{
		ID:        uuid.Must(uuid.NewV7()).String(),
		UserID:    req.UserID,
		Title:     title,
		Messages:  []model.Message{},
		CreatedAt: now,
		UpdatedAt: now,
	}

	if greeting := strings.TrimSpace(req.InitialMessage); greeting != "" {
		conv.Messages = append(conv.Messages, model.Message{
			ID:        uuid.Must(uuid.NewV7()).String(),
			Sender:    model.SenderBot,
			Text:      greeting,
			CreatedAt: now,
		})
	}

	if err := s.store.Create(ctx, conv); err != nil {
		s.logger.Error("failed to create conversation", zap.String("user_id", req.UserID), zap.Error(err))
		return nil, err
	}

	metrics.ConversationsTotal.Inc()
	s.publish(ctx, &model.ConversationEvent{
		ConversationID: conv.ID,
		UserID:         conv.UserID,
		Type:           model.EventConversationCreated,
	})

	s.logger.Info("conversation created",
		zap.String("conversation_id", conv.ID),
		zap.String("user_id", conv.UserID),
	)

	return conv, nil
}

// AppendMessageAndReply appends a message to the conversation and, when
// the sender is a user, obtains and appends a bot reply. On a gateway
// failure the already-appended user message stays persisted; the error
// is returned so the caller can report it.
//
// The operation intentionally detaches from the caller's cancellation:
// once started it runs to completion and persists its result even if
// the client disconnects mid-flight.
func (s *ConversationService) AppendMessageAndReply(ctx context.Context, conversationID string, req *model.AppendMessageRequest) (*model.Conversation, error) {
	if strings.TrimSpace(req.Text) == "" {
		return nil, apperr.Validation("text is required")
	}

	sender := req.Sender
	if sender == "" {
		sender = model.SenderUser
	}
	if !sender.Valid() {
		return nil, apperr.Validation("sender must be %q or %q", model.SenderUser, model.SenderBot)
	}

	ctx = context.WithoutCancel(ctx)

	conv, err := s.store.Get(ctx, conversationID)
	if err != nil {
		return nil, err
	}

	log := s.logger.With(
		zap.String("conversation_id", conv.ID),
		zap.String("user_id", conv.UserID),
	)

	msg := model.Message{
		ID:        uuid.Must(uuid.NewV7()).String(),
		Sender:    sender,
		Text:      req.Text,
		CreatedAt: s.now().UTC(),
	}

	if err := s.store.AppendMessage(ctx, conv.ID, msg); err != nil {
		log.Error("failed to append message", zap.Error(err))
		return nil, err
	}
	conv.Messages = append(conv.Messages, msg)
	conv.UpdatedAt = msg.CreatedAt

	metrics.MessagesTotal.WithLabelValues(string(sender)).Inc()
	s.publish(ctx, &model.ConversationEvent{
		ConversationID: conv.ID,
		UserID:         conv.UserID,
		Type:           model.EventMessageAppended,
		Sender:         sender,
	})

	if sender != model.SenderUser {
		return conv, nil
	}

	start := s.now()
	replyText, err := s.gateway.Reply(ctx, llm.BuildHistory(conv.Messages))
	elapsed := s.now().Sub(start).Seconds()
	if err != nil {
		kind := "error"
		if apperr.IsGatewayTimeout(err) {
			kind = "timeout"
		}
		metrics.RecordGateway(s.gateway.Provider(), kind, elapsed)
		metrics.RecordGatewayFailure(s.gateway.Provider(), kind)
		s.publish(ctx, &model.ConversationEvent{
			ConversationID: conv.ID,
			UserID:         conv.UserID,
			Type:           model.EventGatewayFailed,
			Reason:         err.Error(),
		})
		// The user message above is deliberately not rolled back.
		log.Error("completion gateway failed", zap.Error(err))
		return nil, err
	}
	metrics.RecordGateway(s.gateway.Provider(), "success", elapsed)

	reply := model.Message{
		ID:        uuid.Must(uuid.NewV7()).String(),
		Sender:    model.SenderBot,
		Text:      replyText,
		CreatedAt: s.now().UTC(),
	}

	if err := s.store.AppendMessage(ctx, conv.ID, reply); err != nil {
		log.Error("failed to append bot reply", zap.Error(err))
		return nil, err
	}
	conv.Messages = append(conv.Messages, reply)
	conv.UpdatedAt = reply.CreatedAt

	metrics.MessagesTotal.WithLabelValues(string(model.SenderBot)).Inc()
	s.publish(ctx, &model.ConversationEvent{
		ConversationID: conv.ID,
		UserID:         conv.UserID,
		Type:           model.EventMessageAppended,
		Sender:         model.SenderBot,
	})

	log.Info("turn completed", zap.Int("message_count", len(conv.Messages)))

	return conv, nil
}

// Get returns the full conversation.
func (s *ConversationService) Get(ctx context.Context, conversationID string) (*model.Conversation, error) {
	return s.store.Get(ctx, conversationID)
}

// ListForUser returns a user's conversation summaries, most recently
// created first.
func (s *ConversationService) ListForUser(ctx context.Context, userID string) ([]model.Summary, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, apperr.Validation("user_id is required")
	}

	convs, err := s.store.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	summaries := make([]model.Summary, 0, len(convs))
	for _, conv := range convs {
		summaries = append(summaries, conv.Summarize())
	}
	return summaries, nil
}

// ListMessages returns the conversation's ordered message sequence. An
// unknown id is a NotFoundError, never an empty success.
func (s *ConversationService) ListMessages(ctx context.Context, conversationID string) ([]model.Message, error) {
	conv, err := s.store.Get(ctx, conversationID)
	if err != nil {
		return nil, err
	}
	return conv.Messages, nil
}

// Delete removes the conversation and all its messages. Deleting a
// non-existent id is not an error.
func (s *ConversationService) Delete(ctx context.Context, conversationID string) error {
	if err := s.store.Delete(ctx, conversationID); err != nil {
		s.logger.Error("failed to delete conversation",
			zap.String("conversation_id", conversationID), zap.Error(err))
		return err
	}

	s.publish(ctx, &model.ConversationEvent{
		ConversationID: conversationID,
		Type:           model.EventConversationDeleted,
	})
	return nil
}

func (s *ConversationService) publish(ctx context.Context, event *model.ConversationEvent) {
	event.ID = uuid.Must(uuid.NewV7()).String()
	event.CreatedAt = s.now().UTC()
	if err := s.events.Publish(ctx, event); err != nil {
		s.logger.Warn("failed to publish event",
			zap.String("event_type", string(event.Type)),
			zap.String("conversation_id", event.ConversationID),
			zap.Error(err),
		)
	}
}
