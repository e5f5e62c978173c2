package session

import "github.com/goudachat/chatrelay/domain"

// Trim bounds a history slice to at most maxItems entries by dropping the
// oldest ones. Removal is pair-aligned: if the overflow is odd, one extra
// entry goes with it so a reply at the front never survives its prompt.
// At least one full pair is always retained. Trim is a pure function; it
// returns the input slice unchanged when nothing needs to go.
func Trim(history []domain.Message, maxItems int) []domain.Message {
	if maxItems <= 0 || len(history) <= maxItems {
		return history
	}

	remove := len(history) - maxItems
	if remove%2 != 0 {
		remove++
	}
	if max := len(history) - 2; remove > max {
		remove = max
	}
	if remove <= 0 {
		return history
	}
	return history[remove:]
}
