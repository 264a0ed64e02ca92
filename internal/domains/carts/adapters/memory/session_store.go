package memory

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/monochra/storefront/internal/domains/carts/ports"
)

var _ ports.SessionStore = (*SessionStore)(nil)

// SessionStore tracks guest sessions in memory.
type SessionStore struct {
	mu       sync.Mutex
	ttl      time.Duration
	sessions map[string]time.Time
}

func NewSessionStore(ttl time.Duration) *SessionStore {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &SessionStore{ttl: ttl, sessions: map[string]time.Time{}}
}

func (s *SessionStore) Touch(_ context.Context, key string) error {
	key = strings.TrimSpace(key)
	if key == "" {
		return errors.New("session key is required")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[key] = time.Now().Add(s.ttl)
	return nil
}

func (s *SessionStore) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, key)
	return nil
}

func (s *SessionStore) PurgeExpired(_ context.Context) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := time.Now()
	var keys []string
	for key, expiry := range s.sessions {
		if expiry.Before(now) {
			keys = append(keys, key)
			delete(s.sessions, key)
		}
	}
	return keys, nil
}
