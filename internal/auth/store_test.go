package auth

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) (*SessionStore, *miniredis.Miniredis) {
	t.Helper()

	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("miniredis run failed: %v", err)
	}
	t.Cleanup(mr.Close)

	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	return NewSessionStore(rdb), mr
}

func TestSessionStore_SetGetDelete(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	_, err := store.Get(ctx, 1)
	require.ErrorIs(t, err, ErrNoSession)

	require.NoError(t, store.Set(ctx, 1, "tok-1", time.Hour))
	v, err := store.Get(ctx, 1)
	require.NoError(t, err)
	require.Equal(t, "tok-1", v)

	require.NoError(t, store.Delete(ctx, 1))
	_, err = store.Get(ctx, 1)
	require.ErrorIs(t, err, ErrNoSession)

	// Deleting an absent key is a no-op.
	require.NoError(t, store.Delete(ctx, 1))
}

func TestSessionStore_OverwriteIsUnconditional(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, 5, "old", time.Hour))
	require.NoError(t, store.Set(ctx, 5, "new", time.Hour))

	v, err := store.Get(ctx, 5)
	require.NoError(t, err)
	require.Equal(t, "new", v)
}

func TestSessionStore_KeyShape(t *testing.T) {
	store, mr := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, 42, "tok", time.Hour))

	// The key shape is a wire contract shared with operational tooling.
	got, err := mr.Get("REFRESH_TOKEN_42")
	require.NoError(t, err)
	require.Equal(t, "tok", got)
}

func TestSessionStore_TTLExpiry(t *testing.T) {
	store, mr := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, 3, "tok", time.Minute))
	mr.FastForward(2 * time.Minute)

	_, err := store.Get(ctx, 3)
	require.ErrorIs(t, err, ErrNoSession)
}
