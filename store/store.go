// Package store defines the stream event log interface and implementations.
package store

import (
	"context"

	"github.com/goudachat/chatrelay/domain"
)

// Store records the server-side trace of chat stream handshakes. It is
// diagnostic state only; conversation history never lives here.
type Store interface {
	CreateEvent(ctx context.Context, event *domain.StreamEvent) error
	GetEvents(ctx context.Context, sessionID string, afterTs int64, types []string, limit int) ([]domain.StreamEvent, error)

	// Lifecycle
	Close() error
}
