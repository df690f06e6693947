// Package store defines the persistence ports consumed by the services.
package store

import (
	"context"

	"github.com/parentbridge/parent-assistant/internal/model"
)

// ConversationStore persists conversation documents. Implementations
// must return apperr.NotFoundError when a conversation id does not
// resolve, and keep message order stable under append.
//
// Appends are individual operations with the store's native last-write
// ordering; there is no cross-append transaction. Two concurrent
// appends to the same conversation may interleave in either order.
type ConversationStore interface {
	// Create inserts a new conversation document.
	Create(ctx context.Context, conv *model.Conversation) error

	// Get returns the full conversation, messages included.
	Get(ctx context.Context, id string) (*model.Conversation, error)

	// AppendMessage appends one message to the conversation's sequence.
	AppendMessage(ctx context.Context, id string, msg model.Message) error

	// ListByUser returns a user's conversations, most recently created
	// first.
	ListByUser(ctx context.Context, userID string) ([]*model.Conversation, error)

	// Delete removes a conversation and all its messages. Deleting an
	// unknown id is not an error.
	Delete(ctx context.Context, id string) error
}

// SchoolStore serves the read-only school directory.
type SchoolStore interface {
	// List returns all schools.
	List(ctx context.Context) ([]model.School, error)

	// Nearby returns schools within maxDistanceMeters of the given
	// point, closest first.
	Nearby(ctx context.Context, lng, lat float64, maxDistanceMeters int) ([]model.School, error)
}

// Pinger reports store connectivity, used by the health endpoints.
type Pinger interface {
	Ping(ctx context.Context) error
}
