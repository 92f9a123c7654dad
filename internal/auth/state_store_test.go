package auth

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T, ttl time.Duration) (*StateStore, *miniredis.Miniredis) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return NewStateStore(rdb, "oauth", ttl), mr
}

func TestStateStore_ConsumeOnce(t *testing.T) {
	s, _ := newTestStore(t, time.Minute)
	ctx := context.Background()

	tok, err := s.Issue(ctx, "candidate-login")
	require.NoError(t, err)
	assert.NotEmpty(t, tok)

	v, err := s.Consume(ctx, tok)
	require.NoError(t, err)
	assert.Equal(t, "candidate-login", v)

	_, err = s.Consume(ctx, tok)
	assert.ErrorIs(t, err, ErrStateNotFound)
}

func TestStateStore_LookupDoesNotConsume(t *testing.T) {
	s, _ := newTestStore(t, time.Minute)
	ctx := context.Background()

	tok, err := s.Issue(ctx, "company-1")
	require.NoError(t, err)

	for i := 0; i < 2; i++ {
		v, err := s.Lookup(ctx, tok)
		require.NoError(t, err)
		assert.Equal(t, "company-1", v)
	}
}

func TestStateStore_Expires(t *testing.T) {
	s, mr := newTestStore(t, time.Minute)
	ctx := context.Background()

	tok, err := s.Issue(ctx, "x")
	require.NoError(t, err)
	mr.FastForward(2 * time.Minute)

	_, err = s.Lookup(ctx, tok)
	assert.ErrorIs(t, err, ErrStateNotFound)
}

func TestStateStore_UnknownAndEmpty(t *testing.T) {
	s, _ := newTestStore(t, time.Minute)
	ctx := context.Background()

	_, err := s.Consume(ctx, "")
	assert.ErrorIs(t, err, ErrStateNotFound)
	_, err = s.Consume(ctx, "nope")
	assert.ErrorIs(t, err, ErrStateNotFound)
}

func TestStateStore_TokensAreUnique(t *testing.T) {
	s, _ := newTestStore(t, time.Minute)
	ctx := context.Background()

	seen := map[string]bool{}
	for i := 0; i < 20; i++ {
		tok, err := s.Issue(ctx, "v")
		require.NoError(t, err)
		assert.False(t, seen[tok])
		seen[tok] = true
	}
}
