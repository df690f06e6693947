// Package memory provides in-memory store implementations for local
// development and tests. Not persistent.
package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/parentbridge/parent-assistant/internal/apperr"
	"github.com/parentbridge/parent-assistant/internal/model"
)

// ConversationStore is an in-memory store.ConversationStore.
type ConversationStore struct {
	mu            sync.RWMutex
	conversations map[string]*model.Conversation
}

// NewConversationStore creates an empty in-memory conversation store.
func NewConversationStore() *ConversationStore {
	return &ConversationStore{
		conversations: make(map[string]*model.Conversation),
	}
}

// Create inserts a new conversation.
func (s *ConversationStore) Create(ctx context.Context, conv *model.Conversation) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	cp := *conv
	cp.Messages = append([]model.Message(nil), conv.Messages...)
	s.conversations[conv.ID] = &cp
	return nil
}

// Get returns a copy of the stored conversation.
func (s *ConversationStore) Get(ctx context.Context, id string) (*model.Conversation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	conv, ok := s.conversations[id]
	if !ok {
		return nil, apperr.NotFound("conversation", id)
	}

	cp := *conv
	cp.Messages = append([]model.Message(nil), conv.Messages...)
	return &cp, nil
}

// AppendMessage appends one message, preserving insertion order.
func (s *ConversationStore) AppendMessage(ctx context.Context, id string, msg model.Message) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	conv, ok := s.conversations[id]
	if !ok {
		return apperr.NotFound("conversation", id)
	}

	conv.Messages = append(conv.Messages, msg)
	conv.UpdatedAt = msg.CreatedAt
	return nil
}

// ListByUser returns a user's conversations, most recently created first.
func (s *ConversationStore) ListByUser(ctx context.Context, userID string) ([]*model.Conversation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []*model.Conversation
	for _, conv := range s.conversations {
		if conv.UserID != userID {
			continue
		}
		cp := *conv
		cp.Messages = append([]model.Message(nil), conv.Messages...)
		out = append(out, &cp)
	}

	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

// Delete removes a conversation; unknown ids are a no-op.
func (s *ConversationStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.conversations, id)
	return nil
}

// Ping always succeeds.
func (s *ConversationStore) Ping(ctx context.Context) error {
	return nil
}
