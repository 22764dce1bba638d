package analysis

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inesrocha/temper/internal/adapters/storage/memory"
	"github.com/inesrocha/temper/internal/domain"
)

func seedSession(t *testing.T, sessions *memory.SessionStore, turns *memory.TurnStore, scores []float64) domain.SessionID {
	t.Helper()
	ctx := context.Background()

	session := &domain.Session{ID: "s1", UserID: "u1", Name: "test", CreatedAt: time.Now()}
	require.NoError(t, sessions.CreateSession(ctx, session))

	for i, score := range scores {
		require.NoError(t, turns.AppendTurn(ctx, &domain.Turn{
			ID:        domain.TurnID(time.Now().Format("150405.000000000")),
			SessionID: session.ID,
			Index:     i,
			Speaker:   domain.SpeakerUser,
			Text:      "text",
			Analysis:  domain.TurnAnalysis{ConflictScore: score},
		}))
	}
	return session.ID
}

func TestAnalyzeSessionPersistsSnapshot(t *testing.T) {
	sessions := memory.NewSessionStore()
	turns := memory.NewTurnStore()
	assessments := memory.NewAssessmentStore()

	svc := NewService(NewAnalyzer(neutralInference()), sessions, turns, assessments)
	sessionID := seedSession(t, sessions, turns, []float64{0.2, 0.4, 0.6})

	snapshot, err := svc.AnalyzeSession(context.Background(), sessionID)
	require.NoError(t, err)
	assert.NotEmpty(t, snapshot.ID)
	assert.Equal(t, domain.TrendEscalating, snapshot.Assessment.Trend)

	latest, err := svc.LatestAssessment(context.Background(), sessionID)
	require.NoError(t, err)
	assert.Equal(t, snapshot.ID, latest.ID)
}

func TestAnalyzeSessionEmptyHistory(t *testing.T) {
	sessions := memory.NewSessionStore()
	turns := memory.NewTurnStore()

	svc := NewService(NewAnalyzer(neutralInference()), sessions, turns, memory.NewAssessmentStore())
	sessionID := seedSession(t, sessions, turns, nil)

	_, err := svc.AnalyzeSession(context.Background(), sessionID)
	assert.ErrorIs(t, err, domain.ErrInsufficientData)
}

func TestAnalyzeSessionUnknownSession(t *testing.T) {
	svc := NewService(
		NewAnalyzer(neutralInference()),
		memory.NewSessionStore(),
		memory.NewTurnStore(),
		memory.NewAssessmentStore(),
	)

	_, err := svc.AnalyzeSession(context.Background(), "missing")
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)
}

func TestLatestAssessmentMissing(t *testing.T) {
	svc := NewService(
		NewAnalyzer(neutralInference()),
		memory.NewSessionStore(),
		memory.NewTurnStore(),
		memory.NewAssessmentStore(),
	)

	_, err := svc.LatestAssessment(context.Background(), "s1")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
