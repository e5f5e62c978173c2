package api

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/goudachat/chatrelay/domain"
)

// recordEvent records a stream trace event to the event log.
func (h *Handler) recordEvent(ctx context.Context, streamID, sessionID string, eventType domain.EventType, payload interface{}) error {
	payloadBytes, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal payload: %w", err)
	}

	event := &domain.StreamEvent{
		EventID:   "evt_" + uuid.New().String()[:8],
		StreamID:  streamID,
		SessionID: sessionID,
		Ts:        time.Now().UnixMilli(),
		Type:      eventType,
		Payload:   payloadBytes,
	}

	return h.events.CreateEvent(ctx, event)
}
