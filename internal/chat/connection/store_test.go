package connection

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"facility-chat/internal/models"
)

func setupRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return mr, client
}

// exerciseStore runs the same contract against every Store.
func exerciseStore(t *testing.T, s Store) {
	ctx := context.Background()

	st, err := s.Load(ctx, "s-unknown")
	require.NoError(t, err)
	assert.False(t, st.Connected)
	assert.Empty(t, st.Credentials.Username)

	require.NoError(t, s.Save(ctx, "s-1", true))
	require.NoError(t, s.SaveCredentials(ctx, "s-1", models.Credentials{Username: "jdoe", Password: "secret", Region: "EU"}))

	st, err = s.Load(ctx, "s-1")
	require.NoError(t, err)
	assert.True(t, st.Connected)
	assert.Equal(t, models.Credentials{Username: "jdoe", Region: "EU"}, st.Credentials)
	assert.False(t, st.UpdatedAt.IsZero())

	require.NoError(t, s.Save(ctx, "s-1", false))
	st, err = s.Load(ctx, "s-1")
	require.NoError(t, err)
	assert.False(t, st.Connected)
	assert.Equal(t, "jdoe", st.Credentials.Username)
}

func TestMemoryStore(t *testing.T) {
	exerciseStore(t, NewMemoryStore())
}

func TestRedisStore(t *testing.T) {
	_, client := setupRedis(t)
	exerciseStore(t, NewRedisStore(client, 0))
}

func TestRedisStore_PasswordNeverWritten(t *testing.T) {
	mr, client := setupRedis(t)
	s := NewRedisStore(client, time.Hour)

	require.NoError(t, s.SaveCredentials(context.Background(), "s-2", models.Credentials{Username: "jdoe", Password: "secret"}))

	assert.Equal(t, "jdoe", mr.HGet("facility:conn:s-2", "username"))
	assert.Empty(t, mr.HGet("facility:conn:s-2", "password"))
	assert.Equal(t, time.Hour, mr.TTL("facility:conn:s-2"))
}
