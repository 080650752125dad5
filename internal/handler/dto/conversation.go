package dto

import "github.com/onatvural/onboarding-demo/internal/domain"

// ChatMessage is one transcript turn as sent by the client.
type ChatMessage struct {
	Role    string `json:"role"`    // user, assistant
	Content string `json:"content"` // message text
}

// ChatRequest is the body of POST /api/chat and /api/chat/text.
type ChatRequest struct {
	Messages []ChatMessage `json:"messages"`
}

// ToDomain converts the wire request to the internal format.
func (r *ChatRequest) ToDomain() *domain.ConversationRequest {
	messages := make([]domain.ChatMessage, len(r.Messages))
	for i, m := range r.Messages {
		messages[i] = domain.ChatMessage{Role: m.Role, Content: m.Content}
	}
	return &domain.ConversationRequest{Messages: messages}
}

// ErrorFrame is the terminal line written when a stream fails after the
// headers already went out. Clients detect it by the error key before
// treating a line as a snapshot.
type ErrorFrame struct {
	Error string `json:"error"`
}
