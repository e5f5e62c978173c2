package session

import (
	"fmt"
	"testing"

	"github.com/goudachat/chatrelay/domain"
)

// pairs builds n alternating user/assistant messages.
func pairs(n int) []domain.Message {
	history := make([]domain.Message, 0, n)
	for i := 0; i < n; i++ {
		role := domain.RoleUser
		if i%2 == 1 {
			role = domain.RoleAssistant
		}
		history = append(history, domain.Message{Role: role, Content: fmt.Sprintf("m%d", i)})
	}
	return history
}

func TestTrimUnderCap(t *testing.T) {
	history := pairs(6)
	trimmed := Trim(history, 20)
	if len(trimmed) != 6 {
		t.Fatalf("expected history untouched, got %d items", len(trimmed))
	}
}

func TestTrimRemovesFromFront(t *testing.T) {
	history := pairs(24)
	trimmed := Trim(history, 20)
	if len(trimmed) != 20 {
		t.Fatalf("expected 20 items, got %d", len(trimmed))
	}
	if trimmed[0].Content != "m4" {
		t.Fatalf("expected oldest surviving item m4, got %s", trimmed[0].Content)
	}
	if trimmed[0].Role != domain.RoleUser {
		t.Fatalf("trimmed history must start with a user message, got %s", trimmed[0].Role)
	}
	if trimmed[len(trimmed)-1].Role != domain.RoleAssistant {
		t.Fatalf("trimmed history must end with an assistant message, got %s", trimmed[len(trimmed)-1].Role)
	}
}

func TestTrimPairAlignment(t *testing.T) {
	// 23 items over a cap of 20 would remove 3; pair alignment rounds the
	// removal up to 4.
	history := pairs(23)
	trimmed := Trim(history, 20)
	if len(trimmed) != 19 {
		t.Fatalf("expected 19 items after pair-aligned removal, got %d", len(trimmed))
	}
	if trimmed[0].Content != "m4" || trimmed[0].Role != domain.RoleUser {
		t.Fatalf("expected trimmed history to start at m4 (user), got %s (%s)", trimmed[0].Content, trimmed[0].Role)
	}
}

func TestTrimKeepsAtLeastOnePair(t *testing.T) {
	history := pairs(4)
	trimmed := Trim(history, 1)
	if len(trimmed) != 2 {
		t.Fatalf("expected one surviving pair, got %d items", len(trimmed))
	}
	if trimmed[0].Content != "m2" {
		t.Fatalf("expected the newest pair to survive, got %s", trimmed[0].Content)
	}
}

func TestTrimNoCap(t *testing.T) {
	history := pairs(8)
	if got := Trim(history, 0); len(got) != 8 {
		t.Fatalf("cap of 0 must disable trimming, got %d items", len(got))
	}
}
