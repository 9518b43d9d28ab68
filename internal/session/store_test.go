package session

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func TestMemoryStore_TouchAndList(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	store := NewMemoryStore(time.Minute)
	a, b := uuid.New(), uuid.New()

	store.Touch(ctx, Session{UserID: a, Name: "alice", Role: "STUDENT"})
	store.Touch(ctx, Session{UserID: b, Name: "bob", Role: "LIBRARIAN"})
	time.Sleep(time.Millisecond)
	store.Touch(ctx, Session{UserID: a, Name: "alice", Role: "STUDENT"})

	got := store.List(ctx)
	require.Len(t, got, 2)
	// most recently seen first
	require.Equal(t, a, got[0].UserID)
	require.False(t, got[0].LastSeen.IsZero())
}

func TestMemoryStore_Revoke(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	store := NewMemoryStore(time.Minute)
	id := uuid.New()

	require.False(t, store.Revoke(ctx, id))

	store.Touch(ctx, Session{UserID: id, Name: "alice", Role: "STUDENT"})
	require.True(t, store.Revoke(ctx, id))
	require.Empty(t, store.List(ctx))
}

func TestMemoryStore_ExpiresIdleSessions(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	store := &memoryStore{
		ttl:      30 * time.Minute,
		sessions: make(map[uuid.UUID]Session),
		nowFn:    func() time.Time { return now },
	}
	stale, fresh := uuid.New(), uuid.New()

	store.Touch(ctx, Session{UserID: stale, Name: "alice", Role: "STUDENT"})

	now = now.Add(20 * time.Minute)
	store.Touch(ctx, Session{UserID: fresh, Name: "bob", Role: "LIBRARIAN"})

	now = now.Add(15 * time.Minute)
	got := store.List(ctx)
	require.Len(t, got, 1)
	require.Equal(t, fresh, got[0].UserID)
}
