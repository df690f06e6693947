// Package client provides a Go client for the parent assistant API and
// the view-state helper used by chat frontends.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// Client calls the parent assistant HTTP API.
type Client struct {
	baseURL    string
	httpClient *http.Client
	token      string
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient sets a custom *http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithToken sets a bearer token, for deployments with auth enabled.
func WithToken(token string) Option {
	return func(c *Client) {
		c.token = token
	}
}

// New creates a client for the API at baseURL.
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Conversation mirrors the server's conversation representation.
type Conversation struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Title     string    `json:"title"`
	Messages  []Message `json:"messages"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Summary mirrors the server's conversation list entry.
type Summary struct {
	ID           string    `json:"id"`
	UserID       string    `json:"user_id"`
	Title        string    `json:"title"`
	MessageCount int       `json:"message_count"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Message mirrors the server's message representation.
type Message struct {
	ID        string    `json:"id"`
	Sender    string    `json:"sender"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"created_at"`
}

// APIError is an error response from the server.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error %d: %s", e.StatusCode, e.Message)
}

// CreateConversation creates a conversation for userID. initialMessage
// may be empty.
func (c *Client) CreateConversation(ctx context.Context, userID, title, initialMessage string) (*Conversation, error) {
	body := map[string]string{"user_id": userID}
	if title != "" {
		body["title"] = title
	}
	if initialMessage != "" {
		body["initial_message"] = initialMessage
	}

	var conv Conversation
	if err := c.do(ctx, http.MethodPost, "/api/conversations", body, &conv); err != nil {
		return nil, err
	}
	return &conv, nil
}

// SendMessage appends a user message and returns the full updated
// conversation, bot reply included on gateway success.
func (c *Client) SendMessage(ctx context.Context, conversationID, text string) (*Conversation, error) {
	body := map[string]string{"text": text, "sender": "user"}

	var conv Conversation
	path := "/api/conversations/" + conversationID + "/messages"
	if err := c.do(ctx, http.MethodPost, path, body, &conv); err != nil {
		return nil, err
	}
	return &conv, nil
}

// ListConversations returns userID's conversations, newest first.
func (c *Client) ListConversations(ctx context.Context, userID string) ([]Summary, error) {
	var resp struct {
		Conversations []Summary `json:"conversations"`
	}
	path := "/api/users/" + userID + "/conversations"
	if err := c.do(ctx, http.MethodGet, path, nil, &resp); err != nil {
		return nil, err
	}
	return resp.Conversations, nil
}

// ListMessages returns the conversation's ordered message sequence.
func (c *Client) ListMessages(ctx context.Context, conversationID string) ([]Message, error) {
	var resp struct {
		Messages []Message `json:"messages"`
	}
	path := "/api/conversations/" + conversationID + "/messages"
	if err := c.do(ctx, http.MethodGet, path, nil, &resp); err != nil {
		return nil, err
	}
	return resp.Messages, nil
}

// DeleteConversation deletes a conversation. Deleting an unknown id is
// not an error.
func (c *Client) DeleteConversation(ctx context.Context, conversationID string) error {
	return c.do(ctx, http.MethodDelete, "/api/conversations/"+conversationID, nil, nil)
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		var apiErr struct {
			Error string `json:"error"`
		}
		_ = json.NewDecoder(resp.Body).Decode(&apiErr)
		if apiErr.Error == "" {
			apiErr.Error = http.StatusText(resp.StatusCode)
		}
		return &APIError{StatusCode: resp.StatusCode, Message: apiErr.Error}
	}

	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
