package domain

// StreamInitiatedPayload is the payload for stream_initiated events.
type StreamInitiatedPayload struct {
	MessageChars    int  `json:"message_chars"`
	HasInstructions bool `json:"has_instructions"`
}

// StreamCompletedPayload is the payload for stream_completed events.
type StreamCompletedPayload struct {
	Chunks        int   `json:"chunks"`
	ResponseChars int   `json:"response_chars"`
	LatencyMs     int64 `json:"latency_ms"`
}

// StreamFailedPayload is the payload for stream_failed events.
type StreamFailedPayload struct {
	Error     string `json:"error"`
	Chunks    int    `json:"chunks"`
	LatencyMs int64  `json:"latency_ms"`
}

// StreamCancelledPayload is the payload for stream_cancelled events.
type StreamCancelledPayload struct {
	Chunks    int   `json:"chunks"`
	LatencyMs int64 `json:"latency_ms"`
}
