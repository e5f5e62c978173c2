// Package domain defines the core domain models for the chat relay.
package domain

import "encoding/json"

// Role identifies the author of a chat message.
type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message is a single entry in a session's conversation history.
// Messages are immutable once appended.
type Message struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// StreamContext is the pending-request payload captured at initiate time
// and redeemed at connect time via the stream token cache.
type StreamContext struct {
	SessionID          string `json:"session_id"`
	UserMessage        string `json:"user_message"`
	CustomInstructions string `json:"custom_instructions,omitempty"`
}

// EventType represents the type of a stream trace event.
type EventType string

const (
	EventTypeStreamInitiated EventType = "stream_initiated"
	EventTypeStreamCompleted EventType = "stream_completed"
	EventTypeStreamFailed    EventType = "stream_failed"
	EventTypeStreamCancelled EventType = "stream_cancelled"
)

// StreamEvent is one entry in the server-side trace of a handshake.
type StreamEvent struct {
	EventID   string          `json:"event_id"`
	StreamID  string          `json:"stream_id"`
	SessionID string          `json:"session_id"`
	Ts        int64           `json:"ts"` // Unix milliseconds
	Type      EventType       `json:"type"`
	Payload   json.RawMessage `json:"payload,omitempty"`
}

// InitiateRequest is the body of POST /api/chat/initiate.
type InitiateRequest struct {
	SessionID          string `json:"sessionId"`
	Message            string `json:"message"`
	CustomInstructions string `json:"customInstructions,omitempty"`
}

// InitiateResponse is the body returned by a successful initiate.
type InitiateResponse struct {
	StreamID string `json:"streamId"`
}
