package llm

import (
	"context"
	"errors"
	"time"

	"github.com/parentbridge/parent-assistant/internal/apperr"
)

// DefaultGatewayTimeout bounds a single completion call.
const DefaultGatewayTimeout = 10 * time.Second

// Gateway wraps a provider client with the bounded wait the service
// contract requires: every call runs under an explicit timeout, and a
// timeout is surfaced as a distinguishable error kind. No retry.
type Gateway struct {
	client  Client
	model   string
	timeout time.Duration
}

// NewGateway creates a gateway around client. model may be empty to use
// the provider default; timeout <= 0 falls back to DefaultGatewayTimeout.
func NewGateway(client Client, model string, timeout time.Duration) *Gateway {
	if timeout <= 0 {
		timeout = DefaultGatewayTimeout
	}
	return &Gateway{
		client:  client,
		model:   model,
		timeout: timeout,
	}
}

// Reply produces one bot reply for the given ordered history. The
// history already includes the user's latest message; SystemPreamble is
// applied as the system instruction.
func (g *Gateway) Reply(ctx context.Context, history []ChatMessage) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	resp, err := g.client.Complete(ctx, &CompletionRequest{
		Model:       g.model,
		System:      SystemPreamble,
		Messages:    history,
		Temperature: 0.7,
	})
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return "", &apperr.GatewayError{Err: err, Timeout: true}
		}
		return "", &apperr.GatewayError{Err: err}
	}

	if resp.Content == "" {
		return "", &apperr.GatewayError{Err: errors.New("provider returned empty reply")}
	}

	return resp.Content, nil
}

// Provider returns the underlying provider name, for logs and health
// output.
func (g *Gateway) Provider() string {
	return g.client.Name()
}
