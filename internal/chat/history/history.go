// Package history keeps the titled list of recent chat sessions.
package history

import (
	"context"
	"time"

	"github.com/google/uuid"

	"facility-chat/internal/models"
)

const (
	// DefaultLimit is how many sessions a listing returns.
	DefaultLimit = 20
	titleRunes   = 40
)

// Recorder stores the latest user message of a session as its title.
type Recorder interface {
	Record(ctx context.Context, sessionID, text string) error
}

// Lister returns sessions, most recently updated first.
type Lister interface {
	List(ctx context.Context, limit int) ([]models.ChatSession, error)
}

type Store interface {
	Recorder
	Lister
}

// Title truncates text to 40 runes, marking a cut with an ellipsis.
func Title(text string) string {
	runes := []rune(text)
	if len(runes) <= titleRunes {
		return text
	}
	return string(runes[:titleRunes]) + "…"
}

// NewSessionID returns an id of the form s-<uuid>.
func NewSessionID() string {
	return "s-" + uuid.NewString()
}

func normalizeLimit(limit int) int {
	if limit <= 0 || limit > DefaultLimit {
		return DefaultLimit
	}
	return limit
}

type clock func() time.Time
