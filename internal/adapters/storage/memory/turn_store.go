package memory

import (
	"context"
	"sync"

	"github.com/inesrocha/temper/internal/domain"
)

type TurnStore struct {
	mu    sync.RWMutex
	turns map[domain.SessionID][]*domain.Turn
}

func NewTurnStore() *TurnStore {
	return &TurnStore{
		turns: make(map[domain.SessionID][]*domain.Turn),
	}
}

func (s *TurnStore) AppendTurn(_ context.Context, turn *domain.Turn) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	cp := *turn
	s.turns[turn.SessionID] = append(s.turns[turn.SessionID], &cp)
	return nil
}

func (s *TurnStore) TurnsBySession(_ context.Context, sessionID domain.SessionID) ([]*domain.Turn, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stored := s.turns[sessionID]
	out := make([]*domain.Turn, len(stored))
	for i, t := range stored {
		cp := *t
		out[i] = &cp
	}
	return out, nil
}

func (s *TurnStore) CountTurns(_ context.Context, sessionID domain.SessionID) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.turns[sessionID]), nil
}
