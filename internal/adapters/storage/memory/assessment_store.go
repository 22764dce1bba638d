package memory

import (
	"context"
	"sync"

	"github.com/inesrocha/temper/internal/domain"
)

type AssessmentStore struct {
	mu        sync.RWMutex
	bySession map[domain.SessionID][]*domain.SessionAssessment
}

func NewAssessmentStore() *AssessmentStore {
	return &AssessmentStore{
		bySession: make(map[domain.SessionID][]*domain.SessionAssessment),
	}
}

func (s *AssessmentStore) SaveAssessment(_ context.Context, a *domain.SessionAssessment) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	cp := *a
	s.bySession[a.SessionID] = append(s.bySession[a.SessionID], &cp)
	return nil
}

func (s *AssessmentStore) LatestAssessment(_ context.Context, sessionID domain.SessionID) (*domain.SessionAssessment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snapshots := s.bySession[sessionID]
	if len(snapshots) == 0 {
		return nil, domain.ErrNotFound
	}

	cp := *snapshots[len(snapshots)-1]
	return &cp, nil
}
