package client

const (
	// Streaming conversation endpoints
	endpointChat     = "/api/chat"      // POST - NDJSON snapshot stream
	endpointChatText = "/api/chat/text" // POST - plain-text delta stream

	// Health endpoint
	endpointPing = "/ping" // GET
)
