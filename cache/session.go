package cache

import (
	"context"
	"sync"
	"time"
)

// SessionStore records revoked access tokens. Tokens are stateless, so logout and
// password changes are enforced by checking this store on every request.
type SessionStore interface {
	// RevokeToken blocks a single token id until it would have expired anyway.
	RevokeToken(ctx context.Context, tokenID string, expiresAt time.Time) error
	IsTokenRevoked(ctx context.Context, tokenID string) (bool, error)
	// RevokeUser blocks every token of userID issued at or before at.
	RevokeUser(ctx context.Context, userID string, at time.Time, ttl time.Duration) error
	// UserRevokedAt returns the zero time when the user has no revocation mark.
	UserRevokedAt(ctx context.Context, userID string) (time.Time, error)
}

// MemorySessionStore is a process-local SessionStore used when Redis is disabled.
type MemorySessionStore struct {
	mu     sync.Mutex
	tokens map[string]time.Time
	users  map[string]userMark
	now    func() time.Time
}

type userMark struct {
	at      time.Time
	expires time.Time
}

// NewMemorySessionStore 创建内存会话存储
func NewMemorySessionStore() *MemorySessionStore {
	return &MemorySessionStore{
		tokens: make(map[string]time.Time),
		users:  make(map[string]userMark),
		now:    time.Now,
	}
}

func (s *MemorySessionStore) RevokeToken(_ context.Context, tokenID string, expiresAt time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.gc()
	if expiresAt.After(s.now()) {
		s.tokens[tokenID] = expiresAt
	}
	return nil
}

func (s *MemorySessionStore) IsTokenRevoked(_ context.Context, tokenID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	exp, ok := s.tokens[tokenID]
	return ok && exp.After(s.now()), nil
}

func (s *MemorySessionStore) RevokeUser(_ context.Context, userID string, at time.Time, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.gc()
	s.users[userID] = userMark{at: at, expires: s.now().Add(ttl)}
	return nil
}

func (s *MemorySessionStore) UserRevokedAt(_ context.Context, userID string) (time.Time, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	m, ok := s.users[userID]
	if !ok || !m.expires.After(s.now()) {
		return time.Time{}, nil
	}
	return m.at, nil
}

// gc drops expired entries. Callers hold mu.
func (s *MemorySessionStore) gc() {
	now := s.now()
	for id, exp := range s.tokens {
		if !exp.After(now) {
			delete(s.tokens, id)
		}
	}
	for id, m := range s.users {
		if !m.expires.After(now) {
			delete(s.users, id)
		}
	}
}
