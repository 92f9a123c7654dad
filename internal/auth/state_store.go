package auth

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"time"

	"github.com/recrutai/platform/internal/cache"
	"github.com/redis/go-redis/v9"
)

var ErrStateNotFound = errors.New("state not found or expired")

// StateStore keeps short-lived correlation values between the two legs of a
// redirect flow (OAuth state, hosted-link connect tokens).
type StateStore struct {
	rdb       *redis.Client
	namespace string
	ttl       time.Duration
}

func NewStateStore(rdb *redis.Client, namespace string, ttl time.Duration) *StateStore {
	return &StateStore{rdb: rdb, namespace: namespace, ttl: ttl}
}

// Issue generates a random token bound to value.
func (s *StateStore) Issue(ctx context.Context, value string) (string, error) {
	token, err := randomToken()
	if err != nil {
		return "", err
	}
	if err := s.rdb.Set(ctx, s.key(token), value, s.ttl).Err(); err != nil {
		return "", err
	}
	return token, nil
}

// Consume returns the bound value and deletes it. A token is accepted once.
func (s *StateStore) Consume(ctx context.Context, token string) (string, error) {
	if token == "" {
		return "", ErrStateNotFound
	}
	v, err := s.rdb.GetDel(ctx, s.key(token)).Result()
	if errors.Is(err, redis.Nil) {
		return "", ErrStateNotFound
	}
	return v, err
}

// Lookup returns the bound value without consuming it.
func (s *StateStore) Lookup(ctx context.Context, token string) (string, error) {
	if token == "" {
		return "", ErrStateNotFound
	}
	v, err := s.rdb.Get(ctx, s.key(token)).Result()
	if errors.Is(err, redis.Nil) {
		return "", ErrStateNotFound
	}
	return v, err
}

func (s *StateStore) TTL() time.Duration { return s.ttl }

func (s *StateStore) key(token string) string {
	return cache.Key("state", s.namespace, token)
}

func randomToken() (string, error) {
	b := make([]byte, 24)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}
