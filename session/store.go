// Package session holds per-session conversation history in memory.
package session

import (
	"sync"

	"github.com/goudachat/chatrelay/domain"
)

// state is the mutable record for one session. All access goes through
// the owning Store's lock.
type state struct {
	instructions string
	history      []domain.Message
}

// Store is a concurrency-safe map of session id to conversation history.
// It is the single writer of record: history mutates only through its
// append methods, and appends to the same session never clobber one
// another. Sessions are created lazily and live for the process lifetime.
type Store struct {
	mu                  sync.RWMutex
	sessions            map[string]*state
	defaultInstructions string
	maxHistoryItems     int
}

// NewStore creates a session store. Sessions created by it carry
// defaultInstructions and their history is capped at maxHistoryItems.
func NewStore(defaultInstructions string, maxHistoryItems int) *Store {
	return &Store{
		sessions:            make(map[string]*state),
		defaultInstructions: defaultInstructions,
		maxHistoryItems:     maxHistoryItems,
	}
}

// getOrCreate returns the session state, creating it on first reference.
// Callers must hold s.mu.
func (s *Store) getOrCreate(sessionID string) *state {
	sess, ok := s.sessions[sessionID]
	if !ok {
		sess = &state{instructions: s.defaultInstructions}
		s.sessions[sessionID] = sess
	}
	return sess
}

// Instructions returns the session's stored system prompt, creating the
// session if it does not exist yet.
func (s *Store) Instructions(sessionID string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.getOrCreate(sessionID).instructions
}

// AppendUser appends a user message to the session's history.
func (s *Store) AppendUser(sessionID, content string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess := s.getOrCreate(sessionID)
	sess.history = append(sess.history, domain.Message{Role: domain.RoleUser, Content: content})
}

// AppendAssistant commits an assistant reply to the session's history and
// trims the history to the configured cap. Empty replies are dropped. The
// commit is idempotent: if the last stored message is already an assistant
// message with identical content, nothing changes.
func (s *Store) AppendAssistant(sessionID, content string) {
	if content == "" {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	sess := s.getOrCreate(sessionID)

	if n := len(sess.history); n > 0 {
		last := sess.history[n-1]
		if last.Role == domain.RoleAssistant && last.Content == content {
			return
		}
	}

	sess.history = append(sess.history, domain.Message{Role: domain.RoleAssistant, Content: content})
	sess.history = Trim(sess.history, s.maxHistoryItems)
}

// Snapshot returns a copy of the session's history, safe to iterate while
// other requests keep appending to the same session.
func (s *Store) Snapshot(sessionID string) []domain.Message {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sess, ok := s.sessions[sessionID]
	if !ok {
		return nil
	}
	history := make([]domain.Message, len(sess.history))
	copy(history, sess.history)
	return history
}
