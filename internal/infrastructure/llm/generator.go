// Package llm adapts an OpenAI-compatible chat model into the domain's
// ObjectGenerator: the model is instructed to emit JSON constrained to the
// snapshot schema, its content deltas are accumulated, and every decodable
// prefix of the growing document is surfaced as a partial snapshot.
package llm

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/cloudwego/eino-ext/components/model/openai"
	"github.com/cloudwego/eino/schema"

	"github.com/onatvural/onboarding-demo/internal/config"
	"github.com/onatvural/onboarding-demo/internal/domain"
	"github.com/onatvural/onboarding-demo/internal/domain/entity"
)

const snapshotChanBuffer = 16

// Generator implements domain.ObjectGenerator on top of eino's openai
// chat model component.
type Generator struct {
	model  *openai.ChatModel
	logger *slog.Logger
}

// NewGenerator creates the generator from model configuration.
func NewGenerator(ctx context.Context, cfg config.ModelConfig, logger *slog.Logger) (domain.ObjectGenerator, error) {
	model, err := openai.NewChatModel(ctx, &openai.ChatModelConfig{
		BaseURL: cfg.BaseURL,
		APIKey:  cfg.APIKey,
		Model:   cfg.Name,
		Timeout: cfg.Timeout,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create chat model: %w", err)
	}

	logger.Info("chat model created", "model", cfg.Name, "base_url", cfg.BaseURL)

	return &Generator{
		model:  model,
		logger: logger,
	}, nil
}

// StreamObject starts a schema-constrained generation and converts the raw
// token stream into partial snapshots in a background goroutine.
func (g *Generator) StreamObject(ctx context.Context, system string, messages []domain.ChatMessage) (<-chan entity.SnapshotChunk, error) {
	reader, err := g.model.Stream(ctx, toEinoMessages(system, messages))
	if err != nil {
		return nil, fmt.Errorf("failed to start object stream: %w", err)
	}

	out := make(chan entity.SnapshotChunk, snapshotChanBuffer)
	go g.convertObjectStream(ctx, reader, out)
	return out, nil
}

// convertObjectStream accumulates content deltas and emits a snapshot each
// time the coerced document decodes to something new. Frames the coercer
// cannot validate yet are simply held back until more tokens arrive.
func (g *Generator) convertObjectStream(ctx context.Context, reader *schema.StreamReader[*schema.Message], out chan<- entity.SnapshotChunk) {
	defer close(out)
	defer reader.Close()

	var (
		acc      bytes.Buffer
		lastSent []byte
	)

	for {
		msg, err := reader.Recv()
		if err != nil {
			if errors.Is(err, io.EOF) {
				out <- entity.SnapshotChunk{IsEnd: true}
				return
			}
			g.logger.Error("object stream failed", "error", err)
			out <- entity.SnapshotChunk{IsEnd: true, Error: "generation failed"}
			return
		}
		if msg == nil || msg.Content == "" {
			continue
		}
		acc.WriteString(msg.Content)

		doc, ok := completePartialJSON(acc.Bytes())
		if !ok || bytes.Equal(doc, lastSent) {
			continue
		}

		snap, err := entity.ValidatePartial(doc)
		if err != nil {
			// A structurally invalid intermediate object is expected while
			// fields are half-written; wait for more tokens.
			g.logger.Debug("partial object not yet valid", "error", err)
			continue
		}

		lastSent = doc
		select {
		case out <- entity.SnapshotChunk{Snapshot: snap}:
		case <-ctx.Done():
			return
		}
	}
}

// StreamText starts a free-form generation for the plain-text endpoint.
func (g *Generator) StreamText(ctx context.Context, system string, messages []domain.ChatMessage) (<-chan entity.TextChunk, error) {
	reader, err := g.model.Stream(ctx, toEinoMessages(system, messages))
	if err != nil {
		return nil, fmt.Errorf("failed to start text stream: %w", err)
	}

	out := make(chan entity.TextChunk, snapshotChanBuffer)
	go func() {
		defer close(out)
		defer reader.Close()

		for {
			msg, err := reader.Recv()
			if err != nil {
				if errors.Is(err, io.EOF) {
					out <- entity.TextChunk{IsEnd: true}
					return
				}
				g.logger.Error("text stream failed", "error", err)
				out <- entity.TextChunk{IsEnd: true, Error: "generation failed"}
				return
			}
			if msg == nil || msg.Content == "" {
				continue
			}
			select {
			case out <- entity.TextChunk{Text: msg.Content}:
			case <-ctx.Done():
				return
			}
		}
	}()
	return out, nil
}

// toEinoMessages maps the wire transcript onto eino's message types.
func toEinoMessages(system string, messages []domain.ChatMessage) []*schema.Message {
	out := make([]*schema.Message, 0, len(messages)+1)
	if system != "" {
		out = append(out, schema.SystemMessage(system))
	}
	for _, m := range messages {
		switch m.Role {
		case "assistant":
			out = append(out, schema.AssistantMessage(m.Content, nil))
		default:
			out = append(out, schema.UserMessage(m.Content))
		}
	}
	return out
}
