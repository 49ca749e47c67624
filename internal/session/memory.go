package session

import (
	"context"
	"sync"

	"github.com/lkn-labs/supportbot/internal/domain"
)

// MemoryStore keeps sessions in a mutex-guarded map.
type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[int64]*domain.Session
}

// NewMemoryStore creates an empty in-process store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{sessions: make(map[int64]*domain.Session)}
}

func (s *MemoryStore) Get(ctx context.Context, userID int64) (*domain.Session, error) {
	s.mu.RLock()
	sess, ok := s.sessions[userID]
	s.mu.RUnlock()
	if !ok {
		return domain.NewSession(userID), nil
	}
	copied := *sess
	copied.Context = make(map[string]string, len(sess.Context))
	for k, v := range sess.Context {
		copied.Context[k] = v
	}
	return &copied, nil
}

func (s *MemoryStore) SetState(ctx context.Context, userID int64, state domain.DialogState) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[userID]
	if !ok {
		sess = domain.NewSession(userID)
		s.sessions[userID] = sess
	}
	sess.State = state
	return nil
}

func (s *MemoryStore) UpdateContext(ctx context.Context, userID int64, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[userID]
	if !ok {
		sess = domain.NewSession(userID)
		s.sessions[userID] = sess
	}
	if sess.Context == nil {
		sess.Context = map[string]string{}
	}
	sess.Context[key] = value
	return nil
}

func (s *MemoryStore) Clear(ctx context.Context, userID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, userID)
	return nil
}
