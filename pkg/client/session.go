package client

import (
	"context"
	"errors"
	"sync"
)

var (
	errSendInFlight  = errors.New("a send is already in flight")
	errNothingToSend = errors.New("no conversation selected or input empty")
)

// api is the slice of Client the session depends on.
type api interface {
	CreateConversation(ctx context.Context, userID, title, initialMessage string) (*Conversation, error)
	SendMessage(ctx context.Context, conversationID, text string) (*Conversation, error)
	ListConversations(ctx context.Context, userID string) ([]Summary, error)
	ListMessages(ctx context.Context, conversationID string) ([]Message, error)
	DeleteConversation(ctx context.Context, conversationID string) error
}

// Session holds a chat frontend's local view state: the user's
// conversation list, the selected conversation's messages, the input
// box draft and the sending flag.
//
// Send applies the user's message optimistically. When the server call
// fails, the optimistic message is removed and the input text is
// restored so the user can retry. The session never retries on its own.
type Session struct {
	client api
	userID string

	mu            sync.Mutex
	conversations []Summary
	selectedID    string
	messages      []Message
	input         string
	sending       bool
}

// NewSession creates a session for userID backed by client.
func NewSession(client *Client, userID string) *Session {
	return &Session{client: client, userID: userID}
}

// Refresh reloads the conversation list from the server.
func (s *Session) Refresh(ctx context.Context) error {
	convs, err := s.client.ListConversations(ctx, s.userID)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.conversations = convs
	s.mu.Unlock()
	return nil
}

// Select switches the view to conversationID and loads its messages.
func (s *Session) Select(ctx context.Context, conversationID string) error {
	msgs, err := s.client.ListMessages(ctx, conversationID)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.selectedID = conversationID
	s.messages = msgs
	s.mu.Unlock()
	return nil
}

// Start creates a new conversation and selects it.
func (s *Session) Start(ctx context.Context, title, initialMessage string) (*Conversation, error) {
	conv, err := s.client.CreateConversation(ctx, s.userID, title, initialMessage)
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	s.selectedID = conv.ID
	s.messages = append([]Message(nil), conv.Messages...)
	s.mu.Unlock()
	return conv, nil
}

// SetInput replaces the input box draft.
func (s *Session) SetInput(text string) {
	s.mu.Lock()
	s.input = text
	s.mu.Unlock()
}

// Input returns the current input box draft.
func (s *Session) Input() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.input
}

// Sending reports whether a Send is in flight.
func (s *Session) Sending() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sending
}

// Messages returns a copy of the selected conversation's messages,
// optimistic entries included.
func (s *Session) Messages() []Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Message(nil), s.messages...)
}

// Conversations returns a copy of the loaded conversation list.
func (s *Session) Conversations() []Summary {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Summary(nil), s.conversations...)
}

// SelectedID returns the id of the selected conversation, or "".
func (s *Session) SelectedID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.selectedID
}

// Send submits the current input to the selected conversation. The
// message is appended to local state and the input cleared before the
// server call; on failure the appended message is removed and the input
// restored.
func (s *Session) Send(ctx context.Context) error {
	s.mu.Lock()
	if s.sending {
		s.mu.Unlock()
		return errSendInFlight
	}
	text := s.input
	convID := s.selectedID
	if text == "" || convID == "" {
		s.mu.Unlock()
		return errNothingToSend
	}

	optimistic := Message{Sender: "user", Text: text}
	s.messages = append(s.messages, optimistic)
	s.input = ""
	s.sending = true
	s.mu.Unlock()

	conv, err := s.client.SendMessage(ctx, convID, text)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.sending = false

	if err != nil {
		// Roll back: drop the optimistic message, put the text
		// back in the input box.
		s.messages = removeOptimistic(s.messages, text)
		s.input = text
		return err
	}

	// The server returns the authoritative sequence, bot reply and
	// server-assigned ids included.
	if conv.ID == s.selectedID {
		s.messages = append([]Message(nil), conv.Messages...)
	}
	return nil
}

// removeOptimistic drops the last message matching the optimistic send
// (empty id, same text).
func removeOptimistic(msgs []Message, text string) []Message {
	for i := len(msgs) - 1; i >= 0; i-- {
		if msgs[i].ID == "" && msgs[i].Sender == "user" && msgs[i].Text == text {
			return append(msgs[:i:i], msgs[i+1:]...)
		}
	}
	return msgs
}
