package middleware

import (
	"strings"
	"testing"

	"github.com/google/uuid"
)

func TestValidateMessageText(t *testing.T) {
	if err := ValidateMessageText("¿Qué documentos necesito?"); err != nil {
		t.Errorf("valid text rejected: %v", err)
	}
	if err := ValidateMessageText(""); err == nil {
		t.Error("empty text accepted")
	}
	if err := ValidateMessageText(strings.Repeat("a", 100001)); err == nil {
		t.Error("oversized text accepted")
	}
	if err := ValidateMessageText(string([]byte{0xff, 0xfe})); err == nil {
		t.Error("invalid UTF-8 accepted")
	}
}

func TestValidateConversationID(t *testing.T) {
	if err := ValidateConversationID(uuid.Must(uuid.NewV7()).String()); err != nil {
		t.Errorf("valid uuid rejected: %v", err)
	}
	if err := ValidateConversationID("not-a-uuid"); err == nil {
		t.Error("malformed id accepted")
	}
	if err := ValidateConversationID(""); err == nil {
		t.Error("empty id accepted")
	}
}

func TestValidateUserID(t *testing.T) {
	if err := ValidateUserID("user-1"); err != nil {
		t.Errorf("valid user id rejected: %v", err)
	}
	if err := ValidateUserID(""); err == nil {
		t.Error("empty user id accepted")
	}
	if err := ValidateUserID(strings.Repeat("x", 129)); err == nil {
		t.Error("oversized user id accepted")
	}
}

func TestValidateTitle(t *testing.T) {
	if err := ValidateTitle(""); err != nil {
		t.Errorf("empty title rejected: %v", err)
	}
	if err := ValidateTitle(strings.Repeat("t", 257)); err == nil {
		t.Error("oversized title accepted")
	}
}
