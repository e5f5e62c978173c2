package api

import (
	"log"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/goudachat/chatrelay/domain"
)

// GetSessionMessages returns the current history snapshot for a session.
// GET /api/chat/sessions/:session_id/messages
func (h *Handler) GetSessionMessages(c echo.Context) error {
	sessionID := c.Param("session_id")

	messages := h.sessions.Snapshot(sessionID)
	if messages == nil {
		messages = []domain.Message{}
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"sessionId": sessionID,
		"messages":  messages,
	})
}

// GetSessionEvents returns the stream trace events for a session.
// GET /api/chat/sessions/:session_id/events
func (h *Handler) GetSessionEvents(c echo.Context) error {
	ctx := c.Request().Context()
	sessionID := c.Param("session_id")

	afterTs, _ := strconv.ParseInt(c.QueryParam("after_ts"), 10, 64)
	var types []string
	if typesStr := c.QueryParam("types"); typesStr != "" {
		types = strings.Split(typesStr, ",")
	}
	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	if limit <= 0 {
		limit = 100
	}

	events, err := h.events.GetEvents(ctx, sessionID, afterTs, types, limit)
	if err != nil {
		log.Printf("ERROR: failed to get events: %v", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "failed to get events"})
	}
	if events == nil {
		events = []domain.StreamEvent{}
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"sessionId": sessionID,
		"events":    events,
	})
}
