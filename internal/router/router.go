package router

import (
	"github.com/cloudwego/hertz/pkg/app/server"

	"github.com/onatvural/onboarding-demo/internal/handler"
	"github.com/onatvural/onboarding-demo/internal/middleware"
)

// Setup registers all routes and global middleware.
func Setup(
	h *server.Hertz,
	conversationHandler *handler.ConversationHandler,
	healthHandler *handler.HealthHandler,
) {
	h.Use(middleware.Recovery())
	h.Use(middleware.Logger())
	h.Use(middleware.CORS())

	h.GET("/ping", healthHandler.Ping)
	h.GET("/health/ready", healthHandler.Readiness)
	h.GET("/health/live", healthHandler.Liveness)

	api := h.Group("/api")
	{
		// Onboarding conversation: NDJSON snapshot stream.
		api.POST("/chat", conversationHandler.StreamChat)
		// Free-form Q&A: plain-text delta stream.
		api.POST("/chat/text", conversationHandler.StreamChatText)
	}
}
