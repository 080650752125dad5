package handler

import (
	"context"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/cloudwego/hertz/pkg/protocol/consts"
	"github.com/cloudwego/hertz/pkg/protocol/http1/resp"

	"github.com/onatvural/onboarding-demo/internal/domain"
	"github.com/onatvural/onboarding-demo/internal/handler/dto"
	"github.com/onatvural/onboarding-demo/pkg/logger"
	"github.com/onatvural/onboarding-demo/pkg/ndjson"
)

// ConversationHandler serves the streaming conversation endpoints.
type ConversationHandler struct {
	usecase domain.ConversationUsecase
}

// NewConversationHandler creates the conversation handler.
func NewConversationHandler(usecase domain.ConversationUsecase) *ConversationHandler {
	return &ConversationHandler{
		usecase: usecase,
	}
}

// StreamChat handles POST /api/chat. The response is NDJSON: one snapshot
// of the assistant's reply per line, each line replacing the previous one
// on the client. The stream ends by closing; a failure after headers went
// out is reported as a terminal error line.
func (h *ConversationHandler) StreamChat(ctx context.Context, c *app.RequestContext) {
	log := logger.FromContext(ctx)

	var req dto.ChatRequest
	if err := c.BindJSON(&req); err != nil {
		log.Error("failed to bind chat request", "error", err)
		ErrorResponse(c, domain.NewInvalidInputError("invalid request body"))
		return
	}

	streamCh, err := h.usecase.StreamConversation(ctx, req.ToDomain())
	if err != nil {
		log.Error("failed to start conversation stream", "error", err)
		ErrorResponse(c, err)
		return
	}

	c.SetStatusCode(consts.StatusOK)
	c.Response.Header.Set("Content-Type", "application/x-ndjson; charset=utf-8")
	c.Response.Header.Set("Cache-Control", "no-cache")
	c.Response.HijackWriter(resp.NewChunkedBodyWriter(&c.Response, c.GetWriter()))

	w := ndjson.NewWriter(c)
	for chunk := range streamCh {
		switch {
		case chunk.Error != "":
			log.Error("conversation stream failed", "error", chunk.Error)
			if err := w.WriteFrame(dto.ErrorFrame{Error: chunk.Error}); err != nil {
				log.Error("failed to write error frame", "error", err)
			}
			return
		case chunk.IsEnd:
			return
		default:
			if err := w.WriteFrame(chunk.Snapshot); err != nil {
				// Client went away; drain is handled by the usecase ctx.
				log.Warn("failed to write snapshot frame", "error", err)
				return
			}
		}
	}
}

// StreamChatText handles POST /api/chat/text, the free-form plain-text
// sibling of StreamChat. Deltas are written as they arrive.
func (h *ConversationHandler) StreamChatText(ctx context.Context, c *app.RequestContext) {
	log := logger.FromContext(ctx)

	var req dto.ChatRequest
	if err := c.BindJSON(&req); err != nil {
		log.Error("failed to bind chat request", "error", err)
		ErrorResponse(c, domain.NewInvalidInputError("invalid request body"))
		return
	}

	streamCh, err := h.usecase.StreamText(ctx, req.ToDomain())
	if err != nil {
		log.Error("failed to start text stream", "error", err)
		ErrorResponse(c, err)
		return
	}

	c.SetStatusCode(consts.StatusOK)
	c.Response.Header.Set("Content-Type", "text/plain; charset=utf-8")
	c.Response.Header.Set("Cache-Control", "no-cache")
	c.Response.HijackWriter(resp.NewChunkedBodyWriter(&c.Response, c.GetWriter()))

	for chunk := range streamCh {
		if chunk.Error != "" {
			log.Error("text stream failed", "error", chunk.Error)
			return
		}
		if chunk.IsEnd {
			return
		}
		if _, err := c.Write([]byte(chunk.Text)); err != nil {
			log.Warn("failed to write text delta", "error", err)
			return
		}
		if err := c.Flush(); err != nil {
			log.Warn("failed to flush text delta", "error", err)
			return
		}
	}
}
