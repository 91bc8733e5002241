package memory

import (
	"context"
	"sync"
)

// SessionStore is an in-memory SessionStore implementation keyed by token.
type SessionStore struct {
	sessions sync.Map
}

func NewSessionStore() *SessionStore {
	return &SessionStore{}
}

func (s *SessionStore) Save(_ context.Context, token, username string) error {
	s.sessions.Store(token, username)
	return nil
}

func (s *SessionStore) Resolve(_ context.Context, token string) (string, error) {
	if value, ok := s.sessions.Load(token); ok {
		return value.(string), nil
	}
	return "", nil
}

func (s *SessionStore) Delete(_ context.Context, token string) error {
	s.sessions.Delete(token)
	return nil
}
