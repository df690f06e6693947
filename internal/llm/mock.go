package llm

import (
	"context"
)

// MockClient is a canned-response client for local development and
// tests, used when no provider API key is configured.
type MockClient struct {
	Reply string
	Err   error
}

// NewMockClient creates a mock client with a default canned reply.
func NewMockClient() *MockClient {
	return &MockClient{
		Reply: "Gracias por su pregunta. Un momento mientras busco esa información.",
	}
}

// Name returns the provider name.
func (c *MockClient) Name() string {
	return "mock"
}

// Models returns available models.
func (c *MockClient) Models() []string {
	return []string{"mock"}
}

// Complete returns the canned reply, honoring context cancellation.
func (c *MockClient) Complete(ctx context.Context, req *CompletionRequest) (*CompletionResponse, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if c.Err != nil {
		return nil, c.Err
	}
	return &CompletionResponse{
		Content: c.Reply,
		Model:   "mock",
	}, nil
}
