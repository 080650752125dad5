package handler

import (
	"context"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/cloudwego/hertz/pkg/common/utils"
)

// HealthHandler serves the liveness and readiness probes. Readiness runs an
// optional dependency check supplied at construction.
type HealthHandler struct {
	readyCheck func(ctx context.Context) error
}

// NewHealthHandler creates the health handler. readyCheck may be nil when
// the service has no external dependency to probe.
func NewHealthHandler(readyCheck func(ctx context.Context) error) *HealthHandler {
	return &HealthHandler{readyCheck: readyCheck}
}

// Ping answers GET /ping.
func (h *HealthHandler) Ping(ctx context.Context, c *app.RequestContext) {
	c.JSON(200, utils.H{
		"status":  "ok",
		"message": "pong",
	})
}

// Readiness answers GET /health/ready.
func (h *HealthHandler) Readiness(ctx context.Context, c *app.RequestContext) {
	if h.readyCheck != nil {
		if err := h.readyCheck(ctx); err != nil {
			c.JSON(503, utils.H{
				"status": "not_ready",
				"error":  err.Error(),
			})
			return
		}
	}
	c.JSON(200, utils.H{
		"status": "ready",
	})
}

// Liveness answers GET /health/live.
func (h *HealthHandler) Liveness(ctx context.Context, c *app.RequestContext) {
	c.JSON(200, utils.H{
		"status": "alive",
	})
}
