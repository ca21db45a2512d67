package session

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"helpdesk-console/internal/model"
)

// RedisStore persists encrypted session entries in Redis so multiple console
// instances can share sessions. Every read goes to the server; there is no
// in-process cache, so concurrent readers always observe the latest write.
type RedisStore struct {
	client *redis.Client
	box    *cipherBox
	ttl    time.Duration
}

func NewRedisStore(client *redis.Client, secret string, ttl time.Duration) (*RedisStore, error) {
	box, err := newCipherBox(secret)
	if err != nil {
		return nil, err
	}

	if ttl <= 0 {
		ttl = 12 * time.Hour
	}

	return &RedisStore{client: client, box: box, ttl: ttl}, nil
}

func (s *RedisStore) SaveToken(ctx context.Context, sid string, token string) error {
	return s.save(ctx, sid, entryToken, token)
}

func (s *RedisStore) Token(ctx context.Context, sid string) (string, bool) {
	var token string
	if !s.load(ctx, sid, entryToken, &token) || token == "" {
		return "", false
	}
	return token, true
}

func (s *RedisStore) SaveProfile(ctx context.Context, sid string, profile *model.UserProfile) error {
	return s.save(ctx, sid, entryProfile, profile)
}

func (s *RedisStore) Profile(ctx context.Context, sid string) (*model.UserProfile, bool) {
	var profile model.UserProfile
	if !s.load(ctx, sid, entryProfile, &profile) {
		return nil, false
	}
	return &profile, true
}

func (s *RedisStore) Clear(ctx context.Context, sid string) error {
	return s.client.Del(ctx, sessionKey(sid, entryToken), sessionKey(sid, entryProfile)).Err()
}

func (s *RedisStore) save(ctx context.Context, sid string, entry string, value any) error {
	serialized, err := json.Marshal(value)
	if err != nil {
		return err
	}

	sealed, err := s.box.seal(serialized)
	if err != nil {
		return err
	}

	return s.client.Set(ctx, sessionKey(sid, entry), sealed, s.ttl).Err()
}

func (s *RedisStore) load(ctx context.Context, sid string, entry string, out any) bool {
	sealed, err := s.client.Get(ctx, sessionKey(sid, entry)).Result()
	if err != nil {
		// A missing key is the normal logged-out path; anything else is a
		// storage fault that still reads as "no session".
		if err != redis.Nil {
			slog.Warn("session read failed", "entry", entry, "error", err)
		}
		return false
	}

	plaintext, ok := s.box.open(sealed)
	if !ok {
		return false
	}

	return json.Unmarshal(plaintext, out) == nil
}
