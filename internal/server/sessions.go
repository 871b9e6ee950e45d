package server

import (
	"context"
	"sync"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"

	"facility-chat/internal/chat/orchestrator"
)

const (
	defaultSessionCacheSize = 1024
	defaultSessionTTL       = time.Hour
)

// SessionCache keeps live sessions in memory. A miss is restored from the
// connection store, so an evicted session comes back with its persisted flag.
type SessionCache struct {
	mu      sync.Mutex
	lru     *expirable.LRU[string, *orchestrator.Session]
	restore func(ctx context.Context, id string) *orchestrator.Session
}

func NewSessionCache(size int, ttl time.Duration, restore func(ctx context.Context, id string) *orchestrator.Session) *SessionCache {
	if size <= 0 {
		size = defaultSessionCacheSize
	}
	if ttl <= 0 {
		ttl = defaultSessionTTL
	}
	return &SessionCache{
		lru:     expirable.NewLRU[string, *orchestrator.Session](size, nil, ttl),
		restore: restore,
	}
}

func (c *SessionCache) Get(ctx context.Context, id string) *orchestrator.Session {
	c.mu.Lock()
	defer c.mu.Unlock()

	if s, ok := c.lru.Get(id); ok {
		return s
	}
	s := c.restore(ctx, id)
	c.lru.Add(id, s)
	return s
}

func (c *SessionCache) Len() int {
	return c.lru.Len()
}
