// Package memory holds in-process adapters, used by default and in tests.
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/kiranfashion/console/internal/domain"
	"github.com/kiranfashion/console/internal/domain/repository"
)

var _ repository.TokenStore = (*TokenStore)(nil)

type entry struct {
	token     string
	expiresAt time.Time
}

// TokenStore keeps session tokens in a map. Tokens are lost on restart.
type TokenStore struct {
	mu      sync.RWMutex
	entries map[string]entry
	now     func() time.Time
}

// NewTokenStore returns an empty store.
func NewTokenStore() *TokenStore {
	return &TokenStore{entries: make(map[string]entry), now: time.Now}
}

func (s *TokenStore) Save(_ context.Context, sessionID, token string, expiresAt time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[sessionID] = entry{token: token, expiresAt: expiresAt}
	return nil
}

func (s *TokenStore) Load(_ context.Context, sessionID string) (string, error) {
	s.mu.RLock()
	e, ok := s.entries[sessionID]
	s.mu.RUnlock()
	if !ok || !s.now().Before(e.expiresAt) {
		return "", domain.ErrSessionNotFound
	}
	return e.token, nil
}

func (s *TokenStore) Delete(_ context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, sessionID)
	return nil
}

// PurgeExpired drops expired entries and reports how many went.
func (s *TokenStore) PurgeExpired(_ context.Context) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now()
	var n int64
	for id, e := range s.entries {
		if !now.Before(e.expiresAt) {
			delete(s.entries, id)
			n++
		}
	}
	return n, nil
}
