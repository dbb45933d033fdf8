// Package devotp keeps the last plaintext code per email for local
// development, where no real mail provider is configured.
package devotp

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

type entry struct {
	code      string
	expiresAt time.Time
}

// Store holds plaintext codes in memory. It is only wired when the dev
// delivery provider is active, which config refuses in production.
type Store struct {
	mu   sync.RWMutex
	m    map[string]entry
	nowF func() time.Time
}

func NewStore() *Store {
	return &Store{m: make(map[string]entry), nowF: time.Now}
}

// SendCode records the code in place of delivering it.
func (s *Store) SendCode(ctx context.Context, to, code string, ttlMinutes int) error {
	s.mu.Lock()
	s.m[to] = entry{code: code, expiresAt: s.nowF().Add(time.Duration(ttlMinutes) * time.Minute)}
	s.mu.Unlock()
	slog.InfoContext(ctx, "dev delivery: code stored for retrieval", "email", to, "ttl_minutes", ttlMinutes)
	return nil
}

// Get returns the stored code for email if present and not expired.
func (s *Store) Get(_ context.Context, email string) (string, bool) {
	s.mu.RLock()
	e, ok := s.m[email]
	s.mu.RUnlock()
	if !ok {
		return "", false
	}
	if !e.expiresAt.After(s.nowF()) {
		s.mu.Lock()
		delete(s.m, email)
		s.mu.Unlock()
		return "", false
	}
	return e.code, true
}
