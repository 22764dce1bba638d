package analysis

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/inesrocha/temper/internal/domain"
	"github.com/inesrocha/temper/internal/observability"
)

// Service runs whole-session analyses and persists the snapshots so the
// dashboard can fetch the latest one without recomputing.
type Service struct {
	analyzer    *Analyzer
	sessions    domain.SessionStore
	turns       domain.TurnStore
	assessments domain.AssessmentStore

	now   func() time.Time
	newID func() string
}

func NewService(
	analyzer *Analyzer,
	sessions domain.SessionStore,
	turns domain.TurnStore,
	assessments domain.AssessmentStore,
) *Service {
	return &Service{
		analyzer:    analyzer,
		sessions:    sessions,
		turns:       turns,
		assessments: assessments,
		now:         time.Now,
		newID:       uuid.NewString,
	}
}

// AnalyzeSession recomputes the session assessment from the full turn
// history and stores a snapshot. A session with no turns yields
// ErrInsufficientData.
func (s *Service) AnalyzeSession(ctx context.Context, sessionID domain.SessionID) (*domain.SessionAssessment, error) {
	if _, err := s.sessions.GetSession(ctx, sessionID); err != nil {
		return nil, err
	}

	turns, err := s.turns.TurnsBySession(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	assessment, err := s.analyzer.AnalyzeConversation(ctx, turns)
	if err != nil {
		return nil, err
	}

	snapshot := &domain.SessionAssessment{
		ID:         domain.AssessmentID(s.newID()),
		SessionID:  sessionID,
		CreatedAt:  s.now(),
		Assessment: assessment,
	}

	if err := s.assessments.SaveAssessment(ctx, snapshot); err != nil {
		observability.LoggerFromContext(ctx).Error("failed to save assessment",
			"session_id", sessionID, "error", err)
		return nil, err
	}

	return snapshot, nil
}

// LatestAssessment returns the most recent stored snapshot.
func (s *Service) LatestAssessment(ctx context.Context, sessionID domain.SessionID) (*domain.SessionAssessment, error) {
	return s.assessments.LatestAssessment(ctx, sessionID)
}

// Turns exposes the ordered history for the pipeline view.
func (s *Service) Turns(ctx context.Context, sessionID domain.SessionID) ([]*domain.Turn, error) {
	return s.turns.TurnsBySession(ctx, sessionID)
}
