// Package session persists per-browser sessions: the backend bearer token
// and the user profile that feeds permission checks. Values are encrypted at
// rest; any entry that is missing, undecryptable, or unparseable reads back
// as absent, so corrupted state degrades to "logged out" instead of failing.
package session

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"helpdesk-console/internal/model"
)

const (
	entryToken   = "token"
	entryProfile = "profile"
)

// Store is the session persistence contract. Reads never return errors:
// absence and corruption are both reported as ok=false.
type Store interface {
	SaveToken(ctx context.Context, sid string, token string) error
	Token(ctx context.Context, sid string) (string, bool)
	SaveProfile(ctx context.Context, sid string, profile *model.UserProfile) error
	Profile(ctx context.Context, sid string) (*model.UserProfile, bool)
	Clear(ctx context.Context, sid string) error
}

// MemoryStore keeps encrypted session entries in process memory. Suitable
// for single-instance deployments; use the Redis store behind a balancer.
type MemoryStore struct {
	box *cipherBox
	ttl time.Duration

	mu      sync.RWMutex
	entries map[string]memoryEntry
}

type memoryEntry struct {
	value     string
	expiresAt time.Time
}

func NewMemoryStore(secret string, ttl time.Duration) (*MemoryStore, error) {
	box, err := newCipherBox(secret)
	if err != nil {
		return nil, err
	}

	if ttl <= 0 {
		ttl = 12 * time.Hour
	}

	return &MemoryStore{
		box:     box,
		ttl:     ttl,
		entries: map[string]memoryEntry{},
	}, nil
}

func (s *MemoryStore) SaveToken(_ context.Context, sid string, token string) error {
	return s.save(sid, entryToken, token)
}

func (s *MemoryStore) Token(_ context.Context, sid string) (string, bool) {
	var token string
	if !s.load(sid, entryToken, &token) || token == "" {
		return "", false
	}
	return token, true
}

func (s *MemoryStore) SaveProfile(_ context.Context, sid string, profile *model.UserProfile) error {
	return s.save(sid, entryProfile, profile)
}

func (s *MemoryStore) Profile(_ context.Context, sid string) (*model.UserProfile, bool) {
	var profile model.UserProfile
	if !s.load(sid, entryProfile, &profile) {
		return nil, false
	}
	return &profile, true
}

func (s *MemoryStore) Clear(_ context.Context, sid string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.entries, sessionKey(sid, entryToken))
	delete(s.entries, sessionKey(sid, entryProfile))
	return nil
}

func (s *MemoryStore) save(sid string, entry string, value any) error {
	serialized, err := json.Marshal(value)
	if err != nil {
		return err
	}

	sealed, err := s.box.seal(serialized)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.entries[sessionKey(sid, entry)] = memoryEntry{
		value:     sealed,
		expiresAt: time.Now().Add(s.ttl),
	}
	return nil
}

func (s *MemoryStore) load(sid string, entry string, out any) bool {
	s.mu.RLock()
	stored, exists := s.entries[sessionKey(sid, entry)]
	s.mu.RUnlock()

	if !exists || time.Now().After(stored.expiresAt) {
		return false
	}

	plaintext, ok := s.box.open(stored.value)
	if !ok {
		return false
	}

	return json.Unmarshal(plaintext, out) == nil
}

func sessionKey(sid string, entry string) string {
	return "session:" + sid + ":" + entry
}
