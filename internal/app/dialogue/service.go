package dialogue

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/inesrocha/temper/internal/app/analysis"
	"github.com/inesrocha/temper/internal/domain"
	"github.com/inesrocha/temper/internal/observability"
)

// Service owns the session/turn lifecycle: every turn is analyzed on
// ingestion and stored with its analysis attached.
type Service struct {
	analyzer *analysis.Analyzer
	sessions domain.SessionStore
	turns    domain.TurnStore

	now   func() time.Time
	newID func() string
}

func NewService(
	analyzer *analysis.Analyzer,
	sessions domain.SessionStore,
	turns domain.TurnStore,
) *Service {
	return &Service{
		analyzer: analyzer,
		sessions: sessions,
		turns:    turns,
		now:      time.Now,
		newID:    uuid.NewString,
	}
}

type CreateSessionInput struct {
	UserID domain.UserID
	Name   string
}

func (s *Service) CreateSession(ctx context.Context, in CreateSessionInput) (*domain.Session, error) {
	if in.UserID == "" {
		return nil, fmt.Errorf("%w: user id is required", domain.ErrValidation)
	}

	now := s.now()

	log := observability.LoggerFromContext(ctx).With("user_id", in.UserID)
	log.Info("creating session")

	name := in.Name
	if name == "" {
		name = "Session " + now.UTC().Format("2006-01-02 15:04")
	}

	session := &domain.Session{
		ID:        domain.SessionID(s.newID()),
		UserID:    in.UserID,
		Name:      name,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.sessions.CreateSession(ctx, session); err != nil {
		log.Error("failed to create session", "error", err)
		return nil, err
	}

	log.Info("session created", "session_id", session.ID)
	return session, nil
}

type AddTurnInput struct {
	SessionID domain.SessionID
	Speaker   domain.Speaker
	Text      string
}

// AddTurn analyzes the message and appends it as the session's next
// turn. The turn index is assigned here: turns are immutable once
// recorded and strictly ordered.
func (s *Service) AddTurn(ctx context.Context, in AddTurnInput) (*domain.Turn, error) {
	if in.Speaker != domain.SpeakerUser && in.Speaker != domain.SpeakerOpponent {
		return nil, fmt.Errorf("%w: unknown speaker %q", domain.ErrValidation, in.Speaker)
	}
	if strings.TrimSpace(in.Text) == "" {
		return nil, fmt.Errorf("%w: text is required", domain.ErrValidation)
	}

	session, err := s.sessions.GetSession(ctx, in.SessionID)
	if err != nil {
		return nil, err
	}

	log := observability.LoggerFromContext(ctx).With(
		"session_id", session.ID,
		"speaker", in.Speaker,
	)

	result, err := s.analyzer.AnalyzeTurn(ctx, in.Text)
	if err != nil {
		log.Error("turn analysis failed", "error", err)
		return nil, err
	}

	count, err := s.turns.CountTurns(ctx, session.ID)
	if err != nil {
		return nil, err
	}

	turn := &domain.Turn{
		ID:        domain.TurnID(s.newID()),
		SessionID: session.ID,
		Index:     count,
		Speaker:   in.Speaker,
		Text:      in.Text,
		CreatedAt: s.now(),
		Analysis:  result,
	}

	if err := s.turns.AppendTurn(ctx, turn); err != nil {
		log.Error("failed to append turn", "error", err)
		return nil, err
	}

	session.UpdatedAt = s.now()
	if err := s.sessions.UpdateSession(ctx, session); err != nil {
		log.Error("failed to update session", "error", err)
		return nil, err
	}

	log.Info("turn recorded",
		"turn_index", turn.Index,
		"conflict_score", turn.Analysis.ConflictScore,
	)

	return turn, nil
}

// GetSession returns the session together with its turn count.
func (s *Service) GetSession(ctx context.Context, id domain.SessionID) (*domain.Session, int, error) {
	session, err := s.sessions.GetSession(ctx, id)
	if err != nil {
		return nil, 0, err
	}

	count, err := s.turns.CountTurns(ctx, id)
	if err != nil {
		return nil, 0, err
	}

	return session, count, nil
}

// Turns returns the session's full ordered history.
func (s *Service) Turns(ctx context.Context, sessionID domain.SessionID) ([]*domain.Turn, error) {
	if _, err := s.sessions.GetSession(ctx, sessionID); err != nil {
		return nil, err
	}
	return s.turns.TurnsBySession(ctx, sessionID)
}

func (s *Service) ListUserSessions(ctx context.Context, userID domain.UserID, limit int) ([]*domain.Session, error) {
	return s.sessions.ListSessionsByUser(ctx, userID, limit)
}
