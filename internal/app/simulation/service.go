// Package simulation runs the digital-twin simulator: given a draft
// message, predict the opponent's likely reply and how the exchange
// would move the session's escalation picture.
package simulation

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/inesrocha/temper/internal/app/analysis"
	"github.com/inesrocha/temper/internal/domain"
	"github.com/inesrocha/temper/internal/observability"
)

type Service struct {
	analyzer  *analysis.Analyzer
	twin      domain.TwinClient
	sessions  domain.SessionStore
	turns     domain.TurnStore
	opponents domain.OpponentStore

	now func() time.Time
}

func NewService(
	analyzer *analysis.Analyzer,
	twin domain.TwinClient,
	sessions domain.SessionStore,
	turns domain.TurnStore,
	opponents domain.OpponentStore,
) *Service {
	return &Service{
		analyzer:  analyzer,
		twin:      twin,
		sessions:  sessions,
		turns:     turns,
		opponents: opponents,
		now:       time.Now,
	}
}

type SimulateInput struct {
	SessionID domain.SessionID
	Draft     string
}

type SimulateResult struct {
	Draft               string
	SimulatedReply      string
	ReplyAnalysis       domain.TurnAnalysis
	PredictedEscalation float64
	ConflictScoreChange float64
	Recommendation      string
	Profile             domain.OpponentProfile
}

// simState is threaded through the simulation stages; each stage fills
// in the next piece, like the agent chain this pipeline grew out of.
type simState struct {
	session   *domain.Session
	history   []*domain.Turn
	profile   domain.OpponentProfile
	draftTurn *domain.Turn
	replyTurn *domain.Turn
	baseline  float64 // overall conflict before the simulated exchange
	projected domain.Assessment
}

type stage struct {
	name string
	run  func(ctx context.Context, st *simState) error
}

// Simulate plays the draft against the opponent's digital twin without
// touching the recorded history.
func (s *Service) Simulate(ctx context.Context, in SimulateInput) (*SimulateResult, error) {
	if strings.TrimSpace(in.Draft) == "" {
		return nil, fmt.Errorf("%w: draft is required", domain.ErrValidation)
	}

	session, err := s.sessions.GetSession(ctx, in.SessionID)
	if err != nil {
		return nil, err
	}

	log := observability.LoggerFromContext(ctx).With("session_id", session.ID)

	st := &simState{session: session}

	stages := []stage{
		{"load_history", s.loadHistory},
		{"opponent_profile", s.loadProfile},
		{"analyze_draft", s.analyzeDraft(in.Draft)},
		{"twin_reply", s.twinReply},
		{"project_escalation", s.project},
	}

	for _, sg := range stages {
		start := s.now()
		if err := sg.run(ctx, st); err != nil {
			log.Error("simulation stage failed", "stage", sg.name, "error", err)
			return nil, fmt.Errorf("simulation stage %s: %w", sg.name, err)
		}
		log.Info("simulation stage done", "stage", sg.name, "elapsed_ms", time.Since(start).Milliseconds())
	}

	return &SimulateResult{
		Draft:               in.Draft,
		SimulatedReply:      st.replyTurn.Text,
		ReplyAnalysis:       st.replyTurn.Analysis,
		PredictedEscalation: st.projected.EscalationProbability,
		ConflictScoreChange: st.projected.OverallConflictScore - st.baseline,
		Recommendation:      simRecommendation(st.projected.EscalationProbability),
		Profile:             st.profile,
	}, nil
}

func (s *Service) loadHistory(ctx context.Context, st *simState) error {
	history, err := s.turns.TurnsBySession(ctx, st.session.ID)
	if err != nil {
		return err
	}
	st.history = history
	return nil
}

func (s *Service) loadProfile(ctx context.Context, st *simState) error {
	profile, err := s.profileFor(ctx, st.session.ID, st.history)
	if err != nil {
		if errors.Is(err, domain.ErrNoOpponentData) {
			// Brand-new or one-sided session: simulate against the
			// default persona rather than refusing.
			st.profile = defaultOpponentProfile()
			return nil
		}
		return err
	}
	st.profile = *profile
	return nil
}

func (s *Service) analyzeDraft(draft string) func(ctx context.Context, st *simState) error {
	return func(ctx context.Context, st *simState) error {
		result, err := s.analyzer.AnalyzeTurn(ctx, draft)
		if err != nil {
			return err
		}
		st.draftTurn = &domain.Turn{
			SessionID: st.session.ID,
			Index:     len(st.history),
			Speaker:   domain.SpeakerUser,
			Text:      draft,
			CreatedAt: s.now(),
			Analysis:  result,
		}
		return nil
	}
}

func (s *Service) twinReply(ctx context.Context, st *simState) error {
	reply, err := s.twin.Reply(ctx, st.draftTurn, st.profile, st.history)
	if err != nil {
		return err
	}

	result, err := s.analyzer.AnalyzeTurn(ctx, reply)
	if err != nil {
		return err
	}

	st.replyTurn = &domain.Turn{
		SessionID: st.session.ID,
		Index:     st.draftTurn.Index + 1,
		Speaker:   domain.SpeakerOpponent,
		Text:      reply,
		CreatedAt: s.now(),
		Analysis:  result,
	}
	return nil
}

func (s *Service) project(ctx context.Context, st *simState) error {
	if len(st.history) > 0 {
		baseline, err := s.analyzer.AnalyzeConversation(ctx, st.history)
		if err != nil {
			return err
		}
		st.baseline = baseline.OverallConflictScore
	}

	extended := make([]*domain.Turn, 0, len(st.history)+2)
	extended = append(extended, st.history...)
	extended = append(extended, st.draftTurn, st.replyTurn)

	projected, err := s.analyzer.AnalyzeConversation(ctx, extended)
	if err != nil {
		return err
	}
	st.projected = projected
	return nil
}

// OpponentProfile returns (building and caching if needed) the twin
// profile for a session. ErrNoOpponentData if the opponent has not
// spoken yet.
func (s *Service) OpponentProfile(ctx context.Context, sessionID domain.SessionID) (*domain.OpponentProfile, error) {
	if _, err := s.sessions.GetSession(ctx, sessionID); err != nil {
		return nil, err
	}

	turns, err := s.turns.TurnsBySession(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	return s.profileFor(ctx, sessionID, turns)
}

func (s *Service) profileFor(ctx context.Context, sessionID domain.SessionID, history []*domain.Turn) (*domain.OpponentProfile, error) {
	cached, err := s.opponents.GetOpponentProfile(ctx, sessionID)
	if err == nil {
		return cached, nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}

	profile, err := BuildOpponentProfile(history)
	if err != nil {
		return nil, err
	}

	if err := s.opponents.SaveOpponentProfile(ctx, sessionID, profile); err != nil {
		return nil, err
	}
	return profile, nil
}

func simRecommendation(escalation float64) string {
	switch {
	case escalation > 0.7:
		return "High escalation risk. Consider rephrasing to be less confrontational."
	case escalation > 0.5:
		return "Moderate escalation likely. Adding 'I feel' statements might help."
	default:
		return "This approach seems balanced."
	}
}
