// Package model defines data structures for the parent assistant API.
package model

import (
	"time"
)

// Sender identifies the author of a message. Only the two canonical
// values are permitted on the wire.
type Sender string

const (
	SenderUser Sender = "user"
	SenderBot  Sender = "bot"
)

// Valid reports whether s is one of the permitted sender values.
func (s Sender) Valid() bool {
	return s == SenderUser || s == SenderBot
}

// Message is one turn in a conversation. Messages are append-only: once
// stored they are never edited, only deleted together with their parent
// conversation.
type Message struct {
	ID        string    `json:"id" bson:"id"`
	Sender    Sender    `json:"sender" bson:"sender"`
	Text      string    `json:"text" bson:"text"`
	CreatedAt time.Time `json:"created_at" bson:"created_at"`
}

// Conversation is a titled, owned, ordered sequence of messages. The
// slice order is the dialogue order. Turns usually alternate between
// user and bot but nothing enforces that: a conversation may end on an
// unanswered user message, and consumers must tolerate consecutive
// same-sender turns.
type Conversation struct {
	ID        string    `json:"id" bson:"_id"`
	UserID    string    `json:"user_id" bson:"user_id"`
	Title     string    `json:"title" bson:"title"`
	Messages  []Message `json:"messages" bson:"messages"`
	CreatedAt time.Time `json:"created_at" bson:"created_at"`
	UpdatedAt time.Time `json:"updated_at" bson:"updated_at"`
}

// Summary is the list-view projection of a conversation.
type Summary struct {
	ID           string    `json:"id"`
	UserID       string    `json:"user_id"`
	Title        string    `json:"title"`
	MessageCount int       `json:"message_count"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Summarize projects a conversation to its list view.
func (c *Conversation) Summarize() Summary {
	return Summary{
		ID:           c.ID,
		UserID:       c.UserID,
		Title:        c.Title,
		MessageCount: len(c.Messages),
		CreatedAt:    c.CreatedAt,
		UpdatedAt:    c.UpdatedAt,
	}
}

// CreateConversationRequest is the request to create a new conversation.
// InitialMessage, when present, is stored as an opening bot greeting.
type CreateConversationRequest struct {
	UserID         string `json:"user_id"`
	Title          string `json:"title,omitempty"`
	InitialMessage string `json:"initial_message,omitempty"`
}

// AppendMessageRequest is the request to append a message to a
// conversation. Sender defaults to "user" when omitted; only user
// messages trigger a completion reply.
type AppendMessageRequest struct {
	Text   string `json:"text"`
	Sender Sender `json:"sender,omitempty"`
}

// ListConversationsResponse is the response for listing a user's
// conversations, most recently created first.
type ListConversationsResponse struct {
	Conversations []Summary `json:"conversations"`
	Total         int       `json:"total"`
}

// ListMessagesResponse is the response for listing a conversation's
// messages in dialogue order.
type ListMessagesResponse struct {
	Messages []Message `json:"messages"`
	Total    int       `json:"total"`
}

// DeleteConversationResponse confirms a deletion.
type DeleteConversationResponse struct {
	Deleted bool   `json:"deleted"`
	ID      string `json:"id"`
}
