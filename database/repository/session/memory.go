// File: database/repository/session/memory.go
package sessionRepo

import (
	"context"
	"sync"

	"dulai/models"

	"github.com/google/uuid"
)

// memorySessionStore keeps sessions in process memory for the process
// lifetime. Callers share the returned *models.Session, so Save only needs to
// exist for parity with durable backends.
type memorySessionStore struct {
	mu       sync.Mutex
	sessions map[string]*models.Session
}

// NewMemorySessionStore constructs the in-memory SessionStore.
func NewMemorySessionStore() SessionStore {
	return &memorySessionStore{
		sessions: make(map[string]*models.Session),
	}
}

func (s *memorySessionStore) GetOrCreate(ctx context.Context, token string) (*models.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if token != "" {
		if sess, ok := s.sessions[token]; ok {
			return sess, nil
		}
	}
	sess := &models.Session{
		ID:      uuid.NewString(),
		Fields:  make(map[string]any),
		History: []models.Message{},
	}
	s.sessions[sess.ID] = sess
	return sess, nil
}

func (s *memorySessionStore) Save(ctx context.Context, session *models.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[session.ID] = session
	return nil
}
