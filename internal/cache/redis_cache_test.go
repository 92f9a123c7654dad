package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCache(t *testing.T) (*RedisCache, *miniredis.Miniredis) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return NewRedisCache(rdb), mr
}

type location struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

func TestRedisCache_SetGet(t *testing.T) {
	c, _ := newTestCache(t)
	ctx := context.Background()

	in := []location{{ID: "1", Name: "São Paulo"}, {ID: "2", Name: "Campinas"}}
	require.NoError(t, c.SetJSON(ctx, Key("catalog", "locations", "sp"), in, time.Minute))

	var out []location
	hit, err := c.GetJSON(ctx, Key("catalog", "locations", "sp"), &out)
	require.NoError(t, err)
	assert.True(t, hit)
	assert.Equal(t, in, out)
}

func TestRedisCache_Miss(t *testing.T) {
	c, _ := newTestCache(t)

	var out []location
	hit, err := c.GetJSON(context.Background(), "missing", &out)
	require.NoError(t, err)
	assert.False(t, hit)
}

func TestRedisCache_CorruptEntryIsDropped(t *testing.T) {
	c, mr := newTestCache(t)
	require.NoError(t, mr.Set("k", "{not json"))

	var out []location
	hit, err := c.GetJSON(context.Background(), "k", &out)
	require.NoError(t, err)
	assert.False(t, hit)
	assert.False(t, mr.Exists("k"))
}

func TestRedisCache_TTL(t *testing.T) {
	c, mr := newTestCache(t)
	ctx := context.Background()

	require.NoError(t, c.SetJSON(ctx, "k", "v", time.Minute))
	mr.FastForward(2 * time.Minute)

	var out string
	hit, err := c.GetJSON(ctx, "k", &out)
	require.NoError(t, err)
	assert.False(t, hit)
}

func TestKey(t *testing.T) {
	assert.Equal(t, "recrutai:catalog:locations:sp", Key("catalog", "locations", "sp"))
	assert.Equal(t, "recrutai", Key())
}
