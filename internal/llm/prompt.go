package llm

import (
	"github.com/parentbridge/parent-assistant/internal/model"
)

// SystemPreamble is the fixed instruction prefixed to every completion
// call.
const SystemPreamble = "You are an assistant helping Latino parents understand the rules " +
	"and regulations of LAUSD non-traditional high schools. Respond in Spanish or English " +
	"as appropriate, with clear and empathetic explanations."

// BuildHistory converts a conversation's message sequence into the
// role-tagged history expected by the providers. Bot turns map to the
// assistant role; anything else maps to user, so a malformed sender
// never breaks the call.
func BuildHistory(messages []model.Message) []ChatMessage {
	out := make([]ChatMessage, 0, len(messages))
	for _, m := range messages {
		role := "user"
		if m.Sender == model.SenderBot {
			role = "assistant"
		}
		out = append(out, ChatMessage{Role: role, Content: m.Text})
	}
	return out
}
