package history

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// steppingClock advances one second per call.
func steppingClock(start time.Time) clock {
	var mu sync.Mutex
	t := start
	return func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		t = t.Add(time.Second)
		return t
	}
}

func TestTitle(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"short", "Show open work orders", "Show open work orders"},
		{"exactly forty", strings.Repeat("a", 40), strings.Repeat("a", 40)},
		{"truncated", strings.Repeat("b", 41), strings.Repeat("b", 40) + "…"},
		{"multibyte runes", strings.Repeat("é", 45), strings.Repeat("é", 40) + "…"},
		{"empty", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Title(tt.in))
		})
	}
}

func TestNewSessionID(t *testing.T) {
	id := NewSessionID()
	assert.Regexp(t, regexp.MustCompile(`^s-[0-9a-f-]{36}$`), id)
	assert.NotEqual(t, id, NewSessionID())
}

// ==========================
// Memory Store
// ==========================

func TestMemoryStore_RecordUpdatesTitle(t *testing.T) {
	s := NewMemoryStore()
	s.now = steppingClock(time.Date(2025, 2, 24, 0, 0, 0, 0, time.UTC))
	ctx := context.Background()

	require.NoError(t, s.Record(ctx, "s-1", "Show open work orders"))
	require.NoError(t, s.Record(ctx, "s-1", "Top 5 assets by cost"))

	list, err := s.List(ctx, 0)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "Top 5 assets by cost", list[0].Title)
	assert.True(t, list[0].UpdatedAt.After(list[0].CreatedAt))
}

func TestMemoryStore_ListOrderAndLimit(t *testing.T) {
	s := NewMemoryStore()
	s.now = steppingClock(time.Date(2025, 2, 24, 0, 0, 0, 0, time.UTC))
	ctx := context.Background()

	for i := 0; i < 25; i++ {
		require.NoError(t, s.Record(ctx, fmt.Sprintf("s-%02d", i), "message"))
	}
	require.NoError(t, s.Record(ctx, "s-00", "back to the first"))

	list, err := s.List(ctx, 100)
	require.NoError(t, err)
	assert.Len(t, list, DefaultLimit)
	assert.Equal(t, "s-00", list[0].ID)
	assert.Equal(t, "s-24", list[1].ID)

	few, err := s.List(ctx, 3)
	require.NoError(t, err)
	assert.Len(t, few, 3)
}
