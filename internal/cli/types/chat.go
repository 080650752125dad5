package types

import "github.com/onatvural/onboarding-demo/internal/domain/entity"

// ChatMessage is one transcript turn sent to the server.
type ChatMessage struct {
	Role    string `json:"role"`    // user, assistant
	Content string `json:"content"` // message text
}

// ChatRequest is the body of the streaming chat endpoints.
type ChatRequest struct {
	Messages []ChatMessage `json:"messages"`
}

// StreamFrame is one NDJSON line of the snapshot stream. A regular frame is
// a snapshot; a terminal failure carries the error key instead.
type StreamFrame struct {
	entity.Snapshot
	Error string `json:"error,omitempty"`
}
