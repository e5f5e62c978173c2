// Package api provides the HTTP handlers for the chat relay.
package api

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/goudachat/chatrelay/relay"
	"github.com/goudachat/chatrelay/session"
	"github.com/goudachat/chatrelay/store"
	"github.com/goudachat/chatrelay/streamcache"
)

// Handler handles HTTP requests.
type Handler struct {
	sessions *session.Store
	cache    *streamcache.Cache
	engine   *relay.Engine
	events   store.Store
}

// NewHandler creates a new handler.
func NewHandler(sessions *session.Store, cache *streamcache.Cache, engine *relay.Engine, events store.Store) *Handler {
	return &Handler{
		sessions: sessions,
		cache:    cache,
		engine:   engine,
		events:   events,
	}
}

// RegisterRoutes registers routes with the echo server.
func (h *Handler) RegisterRoutes(e *echo.Echo) {
	// Handshake protocol
	e.POST("/api/chat/initiate", h.InitiateChat)
	e.GET("/api/chat/stream/:stream_id", h.StreamChat)

	// Session introspection
	e.GET("/api/chat/sessions/:session_id/messages", h.GetSessionMessages)
	e.GET("/api/chat/sessions/:session_id/events", h.GetSessionEvents)

	e.GET("/health", h.Health)
}

// Health returns health status.
func (h *Handler) Health(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{
		"status":  "healthy",
		"version": "0.1.0",
	})
}
