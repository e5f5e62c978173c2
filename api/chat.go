package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/goudachat/chatrelay/domain"
)

// clientErrorMessage is the only failure text a client ever sees; the
// detailed upstream error stays in the server log.
const clientErrorMessage = "Er is een serverfout opgetreden tijdens het streamen."

// InitiateChat starts the handshake: it validates the request, captures a
// StreamContext in the token cache and hands the client an opaque stream
// id to connect with. Session history is not touched here.
// POST /api/chat/initiate
func (h *Handler) InitiateChat(c echo.Context) error {
	var req domain.InitiateRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request payload"})
	}
	if strings.TrimSpace(req.SessionID) == "" || strings.TrimSpace(req.Message) == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "sessionId and message are required"})
	}

	streamID := strings.ReplaceAll(uuid.New().String(), "-", "")
	h.cache.Put(streamID, domain.StreamContext{
		SessionID:          req.SessionID,
		UserMessage:        req.Message,
		CustomInstructions: req.CustomInstructions,
	})

	if err := h.recordEvent(c.Request().Context(), streamID, req.SessionID, domain.EventTypeStreamInitiated, domain.StreamInitiatedPayload{
		MessageChars:    len(req.Message),
		HasInstructions: strings.TrimSpace(req.CustomInstructions) != "",
	}); err != nil {
		log.Printf("WARN: failed to record stream_initiated event: %v", err)
	}

	log.Printf("Chat stream initiated. session=%s stream=%s", req.SessionID, streamID)
	return c.JSON(http.StatusOK, domain.InitiateResponse{StreamID: streamID})
}

// StreamChat completes the handshake: it redeems the stream token, appends
// the user message, relays upstream chunks to the client as server-sent
// events and commits the assistant reply once the stream drains cleanly.
// GET /api/chat/stream/:stream_id
func (h *Handler) StreamChat(c echo.Context) error {
	streamID := c.Param("stream_id")

	streamCtx, ok := h.cache.TryGet(streamID)
	if !ok {
		log.Printf("WARN: stream context not found or expired for stream %s", streamID)
		return writeSSEError(c, http.StatusNotFound, "Invalid or expired stream ID.")
	}
	// Tokens are single-use: a redeemed id cannot re-run the same prompt.
	h.cache.Delete(streamID)

	flusher, ok := c.Response().Writer.(http.Flusher)
	if !ok {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "streaming not supported"})
	}

	c.Response().Header().Set(echo.HeaderContentType, "text/event-stream")
	c.Response().Header().Set("Cache-Control", "no-cache")
	c.Response().Header().Set("Connection", "keep-alive")
	c.Response().WriteHeader(http.StatusOK)

	// The user message lands in history before the upstream call, so a
	// retry of the conversation keeps it even when streaming fails.
	h.sessions.AppendUser(streamCtx.SessionID, streamCtx.UserMessage)

	ctx := c.Request().Context()
	// Terminal events must be recordable after the client is gone.
	recordCtx := context.WithoutCancel(ctx)
	start := time.Now()

	var full strings.Builder
	chunks := 0
	stream := h.engine.Stream(ctx, streamCtx)
	for chunk := range stream.Chunks() {
		full.WriteString(chunk)
		chunks++
		// SSE forbids raw newlines inside a data line.
		formatted := strings.ReplaceAll(chunk, "\n", "<br>")
		fmt.Fprintf(c.Response().Writer, "data: %s\n\n", formatted)
		flusher.Flush()
	}

	err := stream.Err()
	latencyMs := time.Since(start).Milliseconds()

	switch {
	case err == nil:
		fmt.Fprint(c.Response().Writer, "event: close\ndata: Stream finished.\n\n")
		flusher.Flush()
		h.commitAssistant(streamCtx.SessionID, full.String())
		if recErr := h.recordEvent(recordCtx, streamID, streamCtx.SessionID, domain.EventTypeStreamCompleted, domain.StreamCompletedPayload{
			Chunks:        chunks,
			ResponseChars: full.Len(),
			LatencyMs:     latencyMs,
		}); recErr != nil {
			log.Printf("WARN: failed to record stream_completed event: %v", recErr)
		}
		log.Printf("Stream completed. session=%s stream=%s chunks=%d", streamCtx.SessionID, streamID, chunks)

	case errors.Is(err, context.Canceled):
		// Client went away; the connection is gone, no event to send.
		if recErr := h.recordEvent(recordCtx, streamID, streamCtx.SessionID, domain.EventTypeStreamCancelled, domain.StreamCancelledPayload{
			Chunks:    chunks,
			LatencyMs: latencyMs,
		}); recErr != nil {
			log.Printf("WARN: failed to record stream_cancelled event: %v", recErr)
		}
		log.Printf("WARN: stream cancelled by client. session=%s stream=%s", streamCtx.SessionID, streamID)

	default:
		log.Printf("ERROR: streaming failed. session=%s stream=%s: %v", streamCtx.SessionID, streamID, err)
		payload, _ := json.Marshal(map[string]string{"message": clientErrorMessage})
		fmt.Fprintf(c.Response().Writer, "event: error\ndata: %s\n\n", payload)
		flusher.Flush()
		if recErr := h.recordEvent(recordCtx, streamID, streamCtx.SessionID, domain.EventTypeStreamFailed, domain.StreamFailedPayload{
			Error:     err.Error(),
			Chunks:    chunks,
			LatencyMs: latencyMs,
		}); recErr != nil {
			log.Printf("WARN: failed to record stream_failed event: %v", recErr)
		}
	}

	return nil
}

// commitAssistant writes the accumulated reply into session history. The
// response has already been delivered, so a commit failure must never
// reach the client.
func (h *Handler) commitAssistant(sessionID, response string) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("ERROR: failed to commit assistant response for session %s: %v", sessionID, r)
		}
	}()
	h.sessions.AppendAssistant(sessionID, response)
}

// writeSSEError responds with the given status and a single terminal
// error event.
func writeSSEError(c echo.Context, status int, message string) error {
	c.Response().Header().Set(echo.HeaderContentType, "text/event-stream")
	c.Response().Header().Set("Cache-Control", "no-cache")
	c.Response().WriteHeader(status)
	payload, _ := json.Marshal(map[string]string{"message": message})
	_, err := fmt.Fprintf(c.Response().Writer, "event: error\ndata: %s\n\n", payload)
	return err
}
