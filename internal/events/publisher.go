// Package events publishes conversation change events. The feed is a
// best-effort side channel for downstream consumers; publish failures
// are logged and never surfaced to API callers.
package events

import (
	"context"

	"github.com/parentbridge/parent-assistant/internal/model"
)

// Publisher emits conversation events.
type Publisher interface {
	Publish(ctx context.Context, event *model.ConversationEvent) error
}

// Noop is the publisher used when no event transport is configured and
// in tests.
type Noop struct{}

// NewNoop creates a no-op publisher.
func NewNoop() *Noop {
	return &Noop{}
}

// Publish discards the event.
func (n *Noop) Publish(ctx context.Context, event *model.ConversationEvent) error {
	return nil
}
