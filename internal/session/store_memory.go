package session

import (
	"context"
	"encoding/json"
	"sync"

	"auracare/internal/domain"
)

// InMemoryStore keeps the session in process memory, which gives it exactly
// the tab-scoped lifetime the app wants: it survives view navigation and is
// gone when the process exits. The identity is held serialized, the same
// shape a durable backend would hold, so decode failures degrade to empty
// here too.
type InMemoryStore struct {
	mu       sync.RWMutex
	token    string
	identity []byte
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{}
}

func (s *InMemoryStore) Save(_ context.Context, identity domain.Identity, token string) error {
	raw, err := json.Marshal(identity)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = token
	s.identity = raw
	return nil
}

func (s *InMemoryStore) Load(_ context.Context) (domain.Identity, string, bool) {
	s.mu.RLock()
	token, raw := s.token, s.identity
	s.mu.RUnlock()

	if token == "" || len(raw) == 0 {
		return domain.Identity{}, "", false
	}
	var identity domain.Identity
	if err := json.Unmarshal(raw, &identity); err != nil {
		return domain.Identity{}, "", false
	}
	return identity, token, true
}

func (s *InMemoryStore) Clear(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = ""
	s.identity = nil
	return nil
}
