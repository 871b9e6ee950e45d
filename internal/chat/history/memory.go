package history

import (
	"context"
	"sort"
	"sync"
	"time"

	"facility-chat/internal/models"
)

// MemoryStore is a process-local Store.
type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[string]*models.ChatSession
	now      clock
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{sessions: make(map[string]*models.ChatSession), now: time.Now}
}

func (s *MemoryStore) Record(_ context.Context, sessionID, text string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now().UTC()
	sess, ok := s.sessions[sessionID]
	if !ok {
		sess = &models.ChatSession{ID: sessionID, CreatedAt: now}
		s.sessions[sessionID] = sess
	}
	sess.Title = Title(text)
	sess.UpdatedAt = now
	return nil
}

func (s *MemoryStore) List(_ context.Context, limit int) ([]models.ChatSession, error) {
	s.mu.RLock()
	out := make([]models.ChatSession, 0, len(s.sessions))
	for _, sess := range s.sessions {
		out = append(out, *sess)
	}
	s.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		if out[i].UpdatedAt.Equal(out[j].UpdatedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].UpdatedAt.After(out[j].UpdatedAt)
	})

	if n := normalizeLimit(limit); len(out) > n {
		out = out[:n]
	}
	return out, nil
}
