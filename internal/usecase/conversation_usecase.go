package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/onatvural/onboarding-demo/internal/config"
	"github.com/onatvural/onboarding-demo/internal/domain"
	"github.com/onatvural/onboarding-demo/internal/domain/entity"
	"github.com/onatvural/onboarding-demo/pkg/stream"
)

const (
	maxMessageLength = 10000
	maxMessageCount  = 200

	outChanBuffer = 16
)

// conversationUsecase drives one onboarding exchange: it validates the
// transcript, builds the system instruction, and pipes the generator's
// increments through the invariant guard and the pacing transform.
type conversationUsecase struct {
	generator domain.ObjectGenerator
	catalog   domain.FundCatalog
	cfg       config.ChatConfig
	logger    *slog.Logger
}

// NewConversationUsecase creates a conversation usecase instance.
func NewConversationUsecase(
	generator domain.ObjectGenerator,
	catalog domain.FundCatalog,
	cfg config.ChatConfig,
	logger *slog.Logger,
) domain.ConversationUsecase {
	return &conversationUsecase{
		generator: generator,
		catalog:   catalog,
		cfg:       cfg,
		logger:    logger,
	}
}

// StreamConversation starts a turn of the onboarding flow and returns the
// snapshot stream for the assistant's reply. The channel is closed after
// the terminal chunk.
func (u *conversationUsecase) StreamConversation(ctx context.Context, req *domain.ConversationRequest) (<-chan entity.SnapshotChunk, error) {
	if err := u.validateRequest(req); err != nil {
		return nil, err
	}

	// Side signals and known answers are computed from the full transcript;
	// only the windowed tail is forwarded to the model.
	signals := detectSignals(req.Messages)
	known := extractAnswers(req.Messages)
	system := buildObjectInstruction(signals, known, u.catalog)
	window := u.windowMessages(req.Messages)

	genCh, err := u.generator.StreamObject(ctx, system, window)
	if err != nil {
		u.logger.Error("failed to start object stream", "error", err)
		return nil, domain.NewUpstreamError(err)
	}

	u.logger.Info("conversation turn started",
		"messages", len(req.Messages),
		"window", len(window),
		"form_data", signals.formData,
		"catalog_injected", signals.pastForm,
	)

	out := make(chan entity.SnapshotChunk, outChanBuffer)
	go u.pump(ctx, genCh, out)
	return out, nil
}

// pump forwards generator chunks to the consumer, enforcing monotonicity
// across snapshots and the minimum emission interval. Every snapshot is
// delivered; pacing delays, it never drops.
func (u *conversationUsecase) pump(ctx context.Context, in <-chan entity.SnapshotChunk, out chan<- entity.SnapshotChunk) {
	defer close(out)

	pacer := stream.NewPacer(u.cfg.PacingMinInterval)

	idle := time.NewTimer(u.cfg.StreamIdleTimeout)
	defer idle.Stop()

	var prev *entity.Snapshot

	for {
		select {
		case chunk, ok := <-in:
			if !ok {
				// Defensive close without a terminal chunk.
				select {
				case out <- entity.SnapshotChunk{IsEnd: true}:
				case <-ctx.Done():
				}
				return
			}
			if !idle.Stop() {
				<-idle.C
			}
			idle.Reset(u.cfg.StreamIdleTimeout)

			if chunk.IsEnd || chunk.Error != "" {
				u.finishTurn(prev)
				select {
				case out <- chunk:
				case <-ctx.Done():
				}
				return
			}

			merged := entity.MergeMonotonic(prev, chunk.Snapshot)
			if merged == nil {
				continue
			}
			prev = merged

			if err := pacer.Pace(ctx); err != nil {
				return
			}
			select {
			case out <- entity.SnapshotChunk{Snapshot: merged}:
			case <-ctx.Done():
				return
			}

		case <-idle.C:
			u.logger.Error("object stream idle timeout", "timeout", u.cfg.StreamIdleTimeout)
			select {
			case out <- entity.SnapshotChunk{IsEnd: true, Error: "generation stalled"}:
			case <-ctx.Done():
			}
			return

		case <-ctx.Done():
			return
		}
	}
}

// finishTurn logs the shape of the finished turn. A complete snapshot with
// fewer than three recommendations is degraded but still served.
func (u *conversationUsecase) finishTurn(last *entity.Snapshot) {
	if last == nil {
		u.logger.Warn("turn ended without any valid snapshot")
		return
	}
	complete, ok := last.Complete()
	if !ok {
		u.logger.Info("turn finished", "step", last.Step, "complete", false)
		return
	}
	if complete.Degraded {
		u.logger.Warn("turn finished with degraded summary",
			"step", complete.Step,
			"funds", len(complete.Summary.OnerilecekFonlar),
		)
		return
	}
	u.logger.Info("turn finished", "step", complete.Step, "complete", true)
}

// StreamText starts a free-form Q&A turn with no schema constraint.
func (u *conversationUsecase) StreamText(ctx context.Context, req *domain.ConversationRequest) (<-chan entity.TextChunk, error) {
	if err := u.validateRequest(req); err != nil {
		return nil, err
	}

	window := u.windowMessages(req.Messages)
	out, err := u.generator.StreamText(ctx, buildTextInstruction(), window)
	if err != nil {
		u.logger.Error("failed to start text stream", "error", err)
		return nil, domain.NewUpstreamError(err)
	}
	return out, nil
}

// windowMessages keeps the most recent HistoryWindow messages.
func (u *conversationUsecase) windowMessages(messages []domain.ChatMessage) []domain.ChatMessage {
	if n := u.cfg.HistoryWindow; n > 0 && len(messages) > n {
		return messages[len(messages)-n:]
	}
	return messages
}

func (u *conversationUsecase) validateRequest(req *domain.ConversationRequest) error {
	if req == nil || len(req.Messages) == 0 {
		return domain.NewInvalidInputError("messages are required")
	}
	if len(req.Messages) > maxMessageCount {
		return domain.NewInvalidInputError(fmt.Sprintf("too many messages (max %d)", maxMessageCount))
	}
	for i, m := range req.Messages {
		if m.Role != "user" && m.Role != "assistant" {
			return domain.NewInvalidInputError(fmt.Sprintf("message %d: invalid role %q", i, m.Role))
		}
		if len(m.Content) > maxMessageLength {
			return domain.NewInvalidInputError(fmt.Sprintf("message %d too long (max %d characters)", i, maxMessageLength))
		}
	}
	if req.Messages[len(req.Messages)-1].Role != "user" {
		return domain.NewInvalidInputError("last message must be from the user")
	}
	return nil
}
