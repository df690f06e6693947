package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
)

// fakeServer is a minimal stand-in for the API: one conversation, and a
// switch to make sends fail.
type fakeServer struct {
	failSends atomic.Bool
	messages  []Message
}

func (s *fakeServer) handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("POST /api/conversations/conv-1/messages", func(w http.ResponseWriter, r *http.Request) {
		if s.failSends.Load() {
			w.WriteHeader(http.StatusGatewayTimeout)
			json.NewEncoder(w).Encode(map[string]string{"error": "assistant did not respond in time"})
			return
		}
		var req struct {
			Text string `json:"text"`
		}
		json.NewDecoder(r.Body).Decode(&req)
		s.messages = append(s.messages,
			Message{ID: "m-user", Sender: "user", Text: req.Text},
			Message{ID: "m-bot", Sender: "bot", Text: "Necesita identificación."},
		)
		json.NewEncoder(w).Encode(Conversation{ID: "conv-1", UserID: "user-1", Messages: s.messages})
	})

	mux.HandleFunc("GET /api/conversations/conv-1/messages", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{"messages": s.messages, "total": len(s.messages)})
	})

	mux.HandleFunc("GET /api/users/user-1/conversations", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{
			"conversations": []Summary{{ID: "conv-1", UserID: "user-1", MessageCount: len(s.messages)}},
			"total":         1,
		})
	})

	return mux
}

func newTestSession(t *testing.T) (*Session, *fakeServer) {
	t.Helper()

	fake := &fakeServer{}
	srv := httptest.NewServer(fake.handler())
	t.Cleanup(srv.Close)

	sess := NewSession(New(srv.URL), "user-1")
	if err := sess.Select(context.Background(), "conv-1"); err != nil {
		t.Fatalf("Select: %v", err)
	}
	return sess, fake
}

func TestSendSuccessReplacesOptimisticState(t *testing.T) {
	sess, _ := newTestSession(t)

	sess.SetInput("¿Qué documentos necesito?")
	if err := sess.Send(context.Background()); err != nil {
		t.Fatalf("Send: %v", err)
	}

	if sess.Input() != "" {
		t.Errorf("input = %q, want cleared", sess.Input())
	}
	msgs := sess.Messages()
	if len(msgs) != 2 {
		t.Fatalf("messages = %d, want 2", len(msgs))
	}
	if msgs[0].ID == "" {
		t.Error("optimistic message not replaced by server copy")
	}
	if msgs[1].Sender != "bot" {
		t.Errorf("second message sender = %q", msgs[1].Sender)
	}
	if sess.Sending() {
		t.Error("sending flag still set")
	}
}

func TestSendFailureRollsBackAndRestoresInput(t *testing.T) {
	sess, fake := newTestSession(t)
	fake.failSends.Store(true)

	const text = "¿Qué documentos necesito?"
	sess.SetInput(text)
	err := sess.Send(context.Background())
	if err == nil {
		t.Fatal("expected send error")
	}

	apiErr, ok := err.(*APIError)
	if !ok {
		t.Fatalf("error type = %T", err)
	}
	if apiErr.StatusCode != http.StatusGatewayTimeout {
		t.Errorf("status = %d, want 504", apiErr.StatusCode)
	}

	// The optimistic message is gone and the draft is back so the
	// user can retry by hand. No automatic retry happens.
	if got := sess.Messages(); len(got) != 0 {
		t.Errorf("messages after rollback = %+v, want none", got)
	}
	if sess.Input() != text {
		t.Errorf("input = %q, want restored draft", sess.Input())
	}
	if sess.Sending() {
		t.Error("sending flag still set")
	}
}

func TestSendWithEmptyInput(t *testing.T) {
	sess, _ := newTestSession(t)

	if err := sess.Send(context.Background()); err == nil {
		t.Fatal("expected error for empty input")
	}
}

func TestRefreshLoadsConversationList(t *testing.T) {
	sess, _ := newTestSession(t)

	if err := sess.Refresh(context.Background()); err != nil {
		t.Fatalf("Refresh: %v", err)
	}
	convs := sess.Conversations()
	if len(convs) != 1 || convs[0].ID != "conv-1" {
		t.Fatalf("conversations = %+v", convs)
	}
}
