package memory

import (
	"context"
	"sync"

	"github.com/inesrocha/temper/internal/domain"
)

type OpponentStore struct {
	mu       sync.RWMutex
	profiles map[domain.SessionID]*domain.OpponentProfile
}

func NewOpponentStore() *OpponentStore {
	return &OpponentStore{
		profiles: make(map[domain.SessionID]*domain.OpponentProfile),
	}
}

func (s *OpponentStore) SaveOpponentProfile(_ context.Context, sessionID domain.SessionID, p *domain.OpponentProfile) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	cp := *p
	s.profiles[sessionID] = &cp
	return nil
}

func (s *OpponentStore) GetOpponentProfile(_ context.Context, sessionID domain.SessionID) (*domain.OpponentProfile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.profiles[sessionID]
	if !ok {
		return nil, domain.ErrNotFound
	}

	cp := *p
	return &cp, nil
}
