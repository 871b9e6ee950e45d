package history

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"facility-chat/internal/models"
)

const (
	sessionKeyPrefix = "facility:session:"
	sessionIndexKey  = "facility:sessions"
)

// RedisStore keeps one hash per session and a sorted set of session ids
// scored by last update.
type RedisStore struct {
	client *redis.Client
	now    clock
}

func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client, now: time.Now}
}

func (s *RedisStore) Record(ctx context.Context, sessionID, text string) error {
	now := s.now().UTC().UnixMilli()
	key := sessionKeyPrefix + sessionID

	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.HSetNX(ctx, key, "createdAt", now)
		pipe.HSet(ctx, key, "id", sessionID, "title", Title(text), "updatedAt", now)
		pipe.ZAdd(ctx, sessionIndexKey, redis.Z{Score: float64(now), Member: sessionID})
		return nil
	})
	if err != nil {
		return fmt.Errorf("record session %s: %w", sessionID, err)
	}
	return nil
}

func (s *RedisStore) List(ctx context.Context, limit int) ([]models.ChatSession, error) {
	ids, err := s.client.ZRevRange(ctx, sessionIndexKey, 0, int64(normalizeLimit(limit)-1)).Result()
	if err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}
	if len(ids) == 0 {
		return []models.ChatSession{}, nil
	}

	cmds := make([]*redis.MapStringStringCmd, len(ids))
	_, err = s.client.Pipelined(ctx, func(pipe redis.Pipeliner) error {
		for i, id := range ids {
			cmds[i] = pipe.HGetAll(ctx, sessionKeyPrefix+id)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("load sessions: %w", err)
	}

	out := make([]models.ChatSession, 0, len(ids))
	for i, cmd := range cmds {
		fields := cmd.Val()
		if len(fields) == 0 {
			continue
		}
		out = append(out, models.ChatSession{
			ID:        ids[i],
			Title:     fields["title"],
			CreatedAt: fromMillis(fields["createdAt"]),
			UpdatedAt: fromMillis(fields["updatedAt"]),
		})
	}
	return out, nil
}

func fromMillis(s string) time.Time {
	ms, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return time.Time{}
	}
	return time.UnixMilli(ms).UTC()
}
