package domain

import (
	"context"

	"github.com/onatvural/onboarding-demo/internal/domain/entity"
)

// ChatMessage is one turn of the transcript as received over the wire.
type ChatMessage struct {
	Role    string // user, assistant
	Content string
}

// ConversationRequest is the internal request passed to the usecase.
type ConversationRequest struct {
	Messages []ChatMessage
}

// ObjectGenerator is the schema-constrained generative backend. It is
// consumed as an opaque producer of ever-more-complete snapshots; prompt
// construction and model selection live behind this interface.
type ObjectGenerator interface {
	// StreamObject starts a generation constrained to the snapshot schema
	// and returns the increments as they are produced. The channel is
	// closed after the terminal chunk (IsEnd or Error set).
	StreamObject(ctx context.Context, system string, messages []ChatMessage) (<-chan entity.SnapshotChunk, error)

	// StreamText starts a free-form text generation for the plain-text
	// sibling endpoint.
	StreamText(ctx context.Context, system string, messages []ChatMessage) (<-chan entity.TextChunk, error)
}

// FundCatalog is the reference dataset injected into the system instruction
// once the conversation reaches the recommendation step.
type FundCatalog interface {
	All() []entity.FundDetail
	Recommend(riskProfile string, interested bool) []entity.FundDetail
}

// ConversationUsecase drives one onboarding exchange.
type ConversationUsecase interface {
	// StreamConversation validates the request and returns the paced,
	// invariant-guarded snapshot stream for the assistant's reply.
	StreamConversation(ctx context.Context, req *ConversationRequest) (<-chan entity.SnapshotChunk, error)

	// StreamText is the free-form Q&A variant with no schema constraint.
	StreamText(ctx context.Context, req *ConversationRequest) (<-chan entity.TextChunk, error)
}
