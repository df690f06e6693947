package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/parentbridge/parent-assistant/internal/apperr"
	"github.com/parentbridge/parent-assistant/internal/llm"
	"github.com/parentbridge/parent-assistant/internal/model"
	"github.com/parentbridge/parent-assistant/internal/service"
	"github.com/parentbridge/parent-assistant/internal/store/memory"
	"github.com/parentbridge/parent-assistant/pkg/logger"
)

type fixedGateway struct {
	reply string
	err   error
}

func (g *fixedGateway) Reply(ctx context.Context, history []llm.ChatMessage) (string, error) {
	if g.err != nil {
		return "", g.err
	}
	return g.reply, nil
}

func (g *fixedGateway) Provider() string { return "fixed" }

// newTestRouter wires the conversation and message handlers onto the
// same routes main uses.
func newTestRouter(gw service.Replier) chi.Router {
	log := logger.NewNop()
	svc := service.NewConversationService(memory.NewConversationStore(), gw, nil, log)
	convs := NewConversationHandler(svc, log)
	msgs := NewMessageHandler(svc, log)

	r := chi.NewRouter()
	r.Route("/api", func(r chi.Router) {
		r.Route("/conversations", func(r chi.Router) {
			r.Post("/", convs.Create)
			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", convs.Get)
				r.Delete("/", convs.Delete)
				r.Get("/messages", msgs.List)
				r.Post("/messages", msgs.Append)
			})
		})
		r.Get("/users/{userID}/conversations", convs.ListForUser)
	})
	return r
}

func doJSON(t *testing.T, r chi.Router, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func createConversation(t *testing.T, r chi.Router, userID string) model.Conversation {
	t.Helper()

	rec := doJSON(t, r, http.MethodPost, "/api/conversations", map[string]string{"user_id": userID})
	if rec.Code != http.StatusCreated {
		t.Fatalf("create status = %d, body %s", rec.Code, rec.Body.String())
	}
	var conv model.Conversation
	if err := json.Unmarshal(rec.Body.Bytes(), &conv); err != nil {
		t.Fatalf("decode conversation: %v", err)
	}
	return conv
}

func TestCreateConversationEndpoint(t *testing.T) {
	r := newTestRouter(&fixedGateway{reply: "ok"})

	conv := createConversation(t, r, "user-1")
	if conv.UserID != "user-1" {
		t.Errorf("user_id = %q", conv.UserID)
	}
	if _, err := uuid.Parse(conv.ID); err != nil {
		t.Errorf("id %q is not a uuid: %v", conv.ID, err)
	}
}

func TestCreateConversationRejectsMissingUserID(t *testing.T) {
	r := newTestRouter(&fixedGateway{})

	rec := doJSON(t, r, http.MethodPost, "/api/conversations", map[string]string{"title": "no owner"})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestAppendMessageReturnsUpdatedConversation(t *testing.T) {
	r := newTestRouter(&fixedGateway{reply: "Necesita identificación."})
	conv := createConversation(t, r, "user-1")

	rec := doJSON(t, r, http.MethodPost, "/api/conversations/"+conv.ID+"/messages",
		map[string]string{"text": "¿Qué documentos necesito?"})
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}

	var updated model.Conversation
	if err := json.Unmarshal(rec.Body.Bytes(), &updated); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(updated.Messages) != 2 {
		t.Fatalf("expected 2 messages, got %d", len(updated.Messages))
	}
	if updated.Messages[0].Sender != model.SenderUser {
		t.Errorf("first sender = %q", updated.Messages[0].Sender)
	}
	if updated.Messages[1].Sender != model.SenderBot || updated.Messages[1].Text != "Necesita identificación." {
		t.Errorf("bot reply = %s %q", updated.Messages[1].Sender, updated.Messages[1].Text)
	}
}

func TestAppendMessageGatewayTimeoutIs504(t *testing.T) {
	r := newTestRouter(&fixedGateway{
		err: &apperr.GatewayError{Err: context.DeadlineExceeded, Timeout: true},
	})
	conv := createConversation(t, r, "user-1")

	rec := doJSON(t, r, http.MethodPost, "/api/conversations/"+conv.ID+"/messages",
		map[string]string{"text": "slow"})
	if rec.Code != http.StatusGatewayTimeout {
		t.Fatalf("status = %d, want 504", rec.Code)
	}

	// The user message must still be readable after the failure.
	list := doJSON(t, r, http.MethodGet, "/api/conversations/"+conv.ID+"/messages", nil)
	if list.Code != http.StatusOK {
		t.Fatalf("list status = %d", list.Code)
	}
	var resp model.ListMessagesResponse
	if err := json.Unmarshal(list.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Total != 1 || resp.Messages[0].Text != "slow" {
		t.Errorf("persisted messages = %+v", resp.Messages)
	}
}

func TestAppendMessageGatewayFailureIs500(t *testing.T) {
	r := newTestRouter(&fixedGateway{
		err: &apperr.GatewayError{Err: errors.New("upstream 503")},
	})
	conv := createConversation(t, r, "user-1")

	rec := doJSON(t, r, http.MethodPost, "/api/conversations/"+conv.ID+"/messages",
		map[string]string{"text": "hi"})
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", rec.Code)
	}
}

func TestAppendMessageRejectsEmptyText(t *testing.T) {
	r := newTestRouter(&fixedGateway{reply: "ok"})
	conv := createConversation(t, r, "user-1")

	rec := doJSON(t, r, http.MethodPost, "/api/conversations/"+conv.ID+"/messages",
		map[string]string{"text": ""})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestGetUnknownConversationIs404(t *testing.T) {
	r := newTestRouter(&fixedGateway{})
	missing := uuid.Must(uuid.NewV7()).String()

	rec := doJSON(t, r, http.MethodGet, "/api/conversations/"+missing, nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
}

func TestListMessagesUnknownConversationIs404(t *testing.T) {
	r := newTestRouter(&fixedGateway{})
	missing := uuid.Must(uuid.NewV7()).String()

	rec := doJSON(t, r, http.MethodGet, "/api/conversations/"+missing+"/messages", nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
}

func TestMalformedConversationIDIs400(t *testing.T) {
	r := newTestRouter(&fixedGateway{})

	rec := doJSON(t, r, http.MethodGet, "/api/conversations/not-a-uuid", nil)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestDeleteConversationIsIdempotent(t *testing.T) {
	r := newTestRouter(&fixedGateway{})
	conv := createConversation(t, r, "user-1")

	for i := 0; i < 2; i++ {
		rec := doJSON(t, r, http.MethodDelete, "/api/conversations/"+conv.ID, nil)
		if rec.Code != http.StatusOK {
			t.Fatalf("delete attempt %d status = %d", i+1, rec.Code)
		}
		var resp model.DeleteConversationResponse
		if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
			t.Fatalf("decode: %v", err)
		}
		if !resp.Deleted || resp.ID != conv.ID {
			t.Errorf("delete response = %+v", resp)
		}
	}

	rec := doJSON(t, r, http.MethodGet, "/api/conversations/"+conv.ID, nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("get after delete status = %d, want 404", rec.Code)
	}
}

func TestListForUserEndpoint(t *testing.T) {
	r := newTestRouter(&fixedGateway{})
	createConversation(t, r, "user-1")
	createConversation(t, r, "user-1")
	createConversation(t, r, "user-2")

	rec := doJSON(t, r, http.MethodGet, "/api/users/user-1/conversations", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var resp model.ListConversationsResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Total != 2 {
		t.Fatalf("total = %d, want 2", resp.Total)
	}
}
