package orchestrator

import (
	"sync"
	"sync/atomic"
)

// Session is the per-conversation state passed into every pipeline. The
// connected flag is read by the gate and written only by Connect.
type Session struct {
	ID        string
	connected atomic.Bool
	mu        sync.Mutex
}

func NewSession(id string, connected bool) *Session {
	s := &Session{ID: id}
	s.connected.Store(connected)
	return s
}

func (s *Session) Connected() bool {
	return s.connected.Load()
}

func (s *Session) SetConnected(v bool) {
	s.connected.Store(v)
}
