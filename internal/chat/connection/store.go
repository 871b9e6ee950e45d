package connection

import (
	"context"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"facility-chat/internal/models"
)

// State is what survives a restart for one session. Credentials never
// include the password.
type State struct {
	Connected   bool               `json:"connected"`
	Credentials models.Credentials `json:"credentials"`
	UpdatedAt   time.Time          `json:"updatedAt"`
}

// Store persists connection state per session. Load of an unknown session
// returns the zero State.
type Store interface {
	Load(ctx context.Context, sessionID string) (State, error)
	Save(ctx context.Context, sessionID string, connected bool) error
	SaveCredentials(ctx context.Context, sessionID string, creds models.Credentials) error
}

// MemoryStore is a process-local Store.
type MemoryStore struct {
	mu     sync.RWMutex
	states map[string]State
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{states: make(map[string]State)}
}

func (s *MemoryStore) Load(_ context.Context, sessionID string) (State, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.states[sessionID], nil
}

func (s *MemoryStore) Save(_ context.Context, sessionID string, connected bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	st := s.states[sessionID]
	st.Connected = connected
	st.UpdatedAt = time.Now().UTC()
	s.states[sessionID] = st
	return nil
}

func (s *MemoryStore) SaveCredentials(_ context.Context, sessionID string, creds models.Credentials) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	st := s.states[sessionID]
	st.Credentials = creds.Redacted()
	st.UpdatedAt = time.Now().UTC()
	s.states[sessionID] = st
	return nil
}

const connKeyPrefix = "facility:conn:"

// RedisStore keeps one hash per session under facility:conn:<session>.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisStore expires idle entries after ttl; zero keeps them forever.
func NewRedisStore(client *redis.Client, ttl time.Duration) *RedisStore {
	return &RedisStore{client: client, ttl: ttl}
}

func (s *RedisStore) key(sessionID string) string {
	return connKeyPrefix + sessionID
}

func (s *RedisStore) Load(ctx context.Context, sessionID string) (State, error) {
	fields, err := s.client.HGetAll(ctx, s.key(sessionID)).Result()
	if err != nil {
		return State{}, fmt.Errorf("load connection state: %w", err)
	}
	if len(fields) == 0 {
		return State{}, nil
	}

	connected, _ := strconv.ParseBool(fields["connected"])
	var updated time.Time
	if ms, err := strconv.ParseInt(fields["updatedAt"], 10, 64); err == nil {
		updated = time.UnixMilli(ms).UTC()
	}
	return State{
		Connected: connected,
		Credentials: models.Credentials{
			Username: fields["username"],
			Region:   fields["region"],
		},
		UpdatedAt: updated,
	}, nil
}

func (s *RedisStore) Save(ctx context.Context, sessionID string, connected bool) error {
	return s.write(ctx, sessionID, "connected", strconv.FormatBool(connected))
}

func (s *RedisStore) SaveCredentials(ctx context.Context, sessionID string, creds models.Credentials) error {
	safe := creds.Redacted()
	return s.write(ctx, sessionID, "username", safe.Username, "region", safe.Region)
}

func (s *RedisStore) write(ctx context.Context, sessionID string, values ...interface{}) error {
	key := s.key(sessionID)
	values = append(values, "updatedAt", time.Now().UTC().UnixMilli())

	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.HSet(ctx, key, values...)
		if s.ttl > 0 {
			pipe.Expire(ctx, key, s.ttl)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("save connection state: %w", err)
	}
	return nil
}
