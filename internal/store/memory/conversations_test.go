package memory

import (
	"context"
	"testing"
	"time"

	"github.com/parentbridge/parent-assistant/internal/apperr"
	"github.com/parentbridge/parent-assistant/internal/model"
)

func TestListByUserNewestFirst(t *testing.T) {
	st := NewConversationStore()
	ctx := context.Background()
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	for i, id := range []string{"c1", "c2", "c3"} {
		err := st.Create(ctx, &model.Conversation{
			ID:        id,
			UserID:    "user-1",
			CreatedAt: base.Add(time.Duration(i) * time.Minute),
		})
		if err != nil {
			t.Fatalf("Create %s: %v", id, err)
		}
	}

	convs, err := st.ListByUser(ctx, "user-1")
	if err != nil {
		t.Fatalf("ListByUser: %v", err)
	}
	if len(convs) != 3 {
		t.Fatalf("len = %d", len(convs))
	}
	for i, want := range []string{"c3", "c2", "c1"} {
		if convs[i].ID != want {
			t.Errorf("convs[%d] = %q, want %q", i, convs[i].ID, want)
		}
	}
}

func TestGetReturnsIsolatedCopy(t *testing.T) {
	st := NewConversationStore()
	ctx := context.Background()

	if err := st.Create(ctx, &model.Conversation{ID: "c1", UserID: "user-1"}); err != nil {
		t.Fatalf("Create: %v", err)
	}

	first, err := st.Get(ctx, "c1")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	first.Messages = append(first.Messages, model.Message{ID: "m1", Sender: model.SenderUser, Text: "hi"})

	second, err := st.Get(ctx, "c1")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if len(second.Messages) != 0 {
		t.Fatal("mutating a returned copy leaked into the store")
	}
}

func TestAppendMessageUnknownConversation(t *testing.T) {
	st := NewConversationStore()

	err := st.AppendMessage(context.Background(), "missing", model.Message{ID: "m1"})
	if !apperr.IsNotFound(err) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestDeleteUnknownConversationIsNoOp(t *testing.T) {
	st := NewConversationStore()

	if err := st.Delete(context.Background(), "missing"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
}
