// Package tracker proxies the two external GPS platforms: Cartrack for
// trucks and uContainers for containers. Both platforms hand out session
// cookies on login; those cookies live in Redis with a TTL so every
// instance shares one upstream session instead of each request logging in.
package tracker

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// errNoSession signals that a provider session must be (re)established.
var errNoSession = errors.New("tracker: no stored session")

// SessionStore keeps upstream session cookies in Redis.
type SessionStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewSessionStore constructs a SessionStore. TTL should sit comfortably
// below the upstream's own session lifetime.
func NewSessionStore(client *redis.Client, ttl time.Duration) *SessionStore {
	return &SessionStore{client: client, ttl: ttl}
}

func (s *SessionStore) key(provider string) string {
	return "fleetdesk:tracker:" + provider + ":session"
}

// Get returns the stored cookie for provider, or errNoSession.
func (s *SessionStore) Get(ctx context.Context, provider string) (string, error) {
	cookie, err := s.client.Get(ctx, s.key(provider)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", errNoSession
		}
		return "", err
	}
	if cookie == "" {
		return "", errNoSession
	}
	return cookie, nil
}

// Set stores the cookie for provider.
func (s *SessionStore) Set(ctx context.Context, provider, cookie string) error {
	return s.client.Set(ctx, s.key(provider), cookie, s.ttl).Err()
}

// Drop discards the stored cookie, forcing the next call to log in again.
func (s *SessionStore) Drop(ctx context.Context, provider string) error {
	err := s.client.Del(ctx, s.key(provider)).Err()
	if errors.Is(err, redis.Nil) {
		return nil
	}
	return err
}
