// Package relay drives the upstream LLM call and exposes its output as a
// lazy, finite sequence of text chunks.
package relay

import (
	"context"
	"errors"
	"strings"

	"github.com/goudachat/chatrelay/domain"
	"github.com/goudachat/chatrelay/llm"
)

// HistoryProvider supplies the conversation state the engine reads when
// building an upstream request. The engine never writes history.
type HistoryProvider interface {
	Instructions(sessionID string) string
	Snapshot(sessionID string) []domain.Message
}

// Upstream is the streaming chat completion provider.
type Upstream interface {
	CreateChatCompletionStream(ctx context.Context, req *llm.ChatCompletionRequest, callback llm.StreamCallback) error
}

// Engine converts upstream completion chunks into an ordered chunk stream.
type Engine struct {
	upstream  Upstream
	history   HistoryProvider
	model     string
	maxTokens int
}

// NewEngine creates a relay engine over the given upstream and history.
func NewEngine(upstream Upstream, history HistoryProvider, model string, maxTokens int) *Engine {
	return &Engine{
		upstream:  upstream,
		history:   history,
		model:     model,
		maxTokens: maxTokens,
	}
}

// Stream is a finite, non-restartable sequence of text chunks. Receive
// from Chunks until it closes, then check Err.
type Stream struct {
	chunks chan string
	err    error
}

// Chunks returns the chunk channel. It closes when the sequence ends,
// successfully or not.
func (s *Stream) Chunks() <-chan string {
	return s.chunks
}

// Err reports why the sequence ended. It must only be called after Chunks
// is closed. A nil error means the upstream was drained completely; a
// *domain.UpstreamError means the provider failed; context.Canceled means
// the caller went away.
func (s *Stream) Err() error {
	return s.err
}

// Stream starts the upstream call for the given request context and
// returns its chunk sequence. The session history snapshot is taken here,
// so the caller must have appended the user message already. Chunk sends
// block until the consumer is ready; cancelling ctx tears the upstream
// call down promptly.
func (e *Engine) Stream(ctx context.Context, streamCtx domain.StreamContext) *Stream {
	s := &Stream{chunks: make(chan string)}

	instructions := strings.TrimSpace(streamCtx.CustomInstructions)
	if instructions == "" {
		instructions = e.history.Instructions(streamCtx.SessionID)
	}

	messages := []llm.ChatMessage{{Role: string(domain.RoleSystem), Content: instructions}}
	for _, m := range e.history.Snapshot(streamCtx.SessionID) {
		messages = append(messages, llm.ChatMessage{Role: string(m.Role), Content: m.Content})
	}

	req := &llm.ChatCompletionRequest{
		Model:    e.model,
		Messages: messages,
	}
	if e.maxTokens > 0 {
		req.MaxTokens = &e.maxTokens
	}

	go func() {
		defer close(s.chunks)
		s.err = normalizeErr(e.run(ctx, req, s.chunks))
	}()

	return s
}

// run drives the upstream stream, forwarding non-empty text chunks.
func (e *Engine) run(ctx context.Context, req *llm.ChatCompletionRequest, out chan<- string) error {
	return e.upstream.CreateChatCompletionStream(ctx, req, func(chunk *llm.StreamChunk) error {
		if chunk.Error != nil {
			message := chunk.Error.Message
			if message == "" {
				message = "unknown upstream error"
			}
			return &domain.UpstreamError{Code: chunk.Error.Code, Message: message}
		}

		text := chunk.DeltaContent()
		if text == "" {
			return nil
		}

		select {
		case out <- text:
			return nil
		case <-ctx.Done():
			return ctx.Err()
		}
	})
}

// normalizeErr folds transport-level upstream failures into the
// UpstreamError taxonomy while leaving cancellation untouched.
func normalizeErr(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	var upstreamErr *domain.UpstreamError
	if errors.As(err, &upstreamErr) {
		return upstreamErr
	}
	return &domain.UpstreamError{Message: err.Error()}
}
