package presence

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// Store holds the per-user active-conversation marker in Redis. The marker
// is advisory: it only suppresses redundant push notifications, so every
// write carries a TTL and a missing key simply reads as "not viewing".
type Store struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

func NewStore(client *redis.Client, prefix string, ttl time.Duration) *Store {
	return &Store{client: client, prefix: prefix, ttl: ttl}
}

func (s *Store) key(userID string) string {
	return s.prefix + ":active_chat:" + userID
}

// SetActive marks the user as viewing the given conversation.
func (s *Store) SetActive(ctx context.Context, userID, convID string) error {
	return s.client.Set(ctx, s.key(userID), convID, s.ttl).Err()
}

// Clear removes the marker. Called on session close; safe to call twice.
func (s *Store) Clear(ctx context.Context, userID string) error {
	return s.client.Del(ctx, s.key(userID)).Err()
}

// Active returns the conversation the user is viewing, or "" if none.
func (s *Store) Active(ctx context.Context, userID string) (string, error) {
	v, err := s.client.Get(ctx, s.key(userID)).Result()
	if errors.Is(err, redis.Nil) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return v, nil
}
