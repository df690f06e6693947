package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/nats-io/nats.go/jetstream"

	"github.com/parentbridge/parent-assistant/internal/model"
	natsclient "github.com/parentbridge/parent-assistant/internal/nats"
)

const (
	// StreamName is the name of the conversation events stream.
	StreamName = "CONVERSATION_EVENTS"

	// SubjectPrefix is the prefix for all event subjects.
	SubjectPrefix = "conv"
)

// NATSPublisher publishes conversation events to a JetStream stream.
type NATSPublisher struct {
	client *natsclient.Client
}

// NewNATSPublisher creates a publisher over an established NATS client.
func NewNATSPublisher(client *natsclient.Client) *NATSPublisher {
	return &NATSPublisher{client: client}
}

// EnsureStream ensures the events stream exists.
func (p *NATSPublisher) EnsureStream(ctx context.Context) error {
	js := p.client.JetStream()

	if _, err := js.Stream(ctx, StreamName); err == nil {
		return nil
	}

	_, err := js.CreateStream(ctx, jetstream.StreamConfig{
		Name:        StreamName,
		Subjects:    []string{fmt.Sprintf("%s.>", SubjectPrefix)},
		Retention:   jetstream.LimitsPolicy,
		MaxAge:      30 * 24 * time.Hour,
		Storage:     jetstream.FileStorage,
		Replicas:    1,
		Description: "Conversation change events",
	})
	if err != nil {
		return fmt.Errorf("failed to create events stream: %w", err)
	}
	return nil
}

// EventSubject returns the subject for an event.
func EventSubject(conversationID string, eventType model.EventType) string {
	return fmt.Sprintf("%s.%s.event.%s", SubjectPrefix, conversationID, eventType)
}

// Publish publishes one event.
func (p *NATSPublisher) Publish(ctx context.Context, event *model.ConversationEvent) error {
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	subject := EventSubject(event.ConversationID, event.Type)
	if _, err := p.client.JetStream().Publish(ctx, subject, data); err != nil {
		return fmt.Errorf("failed to publish event: %w", err)
	}
	return nil
}
