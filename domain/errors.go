package domain

import "fmt"

// UpstreamError reports a failure surfaced by the LLM provider while
// streaming. Code and Message carry the provider's own error details and
// are logged server-side only; clients see a generic message.
type UpstreamError struct {
	Code    string
	Message string
}

func (e *UpstreamError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("upstream error: %s (code: %s)", e.Message, e.Code)
	}
	return fmt.Sprintf("upstream error: %s", e.Message)
}
