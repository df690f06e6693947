package model

import (
	"time"
)

// EventType represents the type of conversation event published to the
// event feed.
type EventType string

const (
	EventConversationCreated EventType = "conversation_created"
	EventMessageAppended     EventType = "message_appended"
	EventConversationDeleted EventType = "conversation_deleted"
	EventGatewayFailed       EventType = "gateway_failed"
)

// ConversationEvent describes a change to a conversation. Events are a
// best-effort side channel; the persisted conversation document is the
// source of truth.
type ConversationEvent struct {
	ID             string    `json:"id"`
	ConversationID string    `json:"conversation_id"`
	UserID         string    `json:"user_id"`
	Type           EventType `json:"type"`
	Sender         Sender    `json:"sender,omitempty"`
	Reason         string    `json:"reason,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
}
