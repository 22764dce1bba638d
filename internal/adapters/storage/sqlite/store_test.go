package sqlite

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inesrocha/temper/internal/domain"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()

	store, err := NewStore(filepath.Join(t.TempDir(), "temper.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func TestSessionLifecycle(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	now := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)
	session := &domain.Session{ID: "s1", UserID: "u1", Name: "first", CreatedAt: now, UpdatedAt: now}

	require.NoError(t, store.CreateSession(ctx, session))
	assert.ErrorIs(t, store.CreateSession(ctx, session), domain.ErrSessionExists)

	got, err := store.GetSession(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, "first", got.Name)
	assert.Equal(t, domain.UserID("u1"), got.UserID)

	got.Name = "renamed"
	got.UpdatedAt = now.Add(time.Hour)
	require.NoError(t, store.UpdateSession(ctx, got))

	got, err = store.GetSession(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, "renamed", got.Name)

	_, err = store.GetSession(ctx, "missing")
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)

	assert.ErrorIs(t, store.UpdateSession(ctx, &domain.Session{ID: "missing"}), domain.ErrSessionNotFound)
}

func TestListSessionsByUserOrderAndLimit(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	base := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	for i, id := range []domain.SessionID{"a", "b", "c"} {
		require.NoError(t, store.CreateSession(ctx, &domain.Session{
			ID:        id,
			UserID:    "u1",
			Name:      string(id),
			CreatedAt: base.Add(time.Duration(i) * time.Hour),
			UpdatedAt: base,
		}))
	}
	require.NoError(t, store.CreateSession(ctx, &domain.Session{
		ID: "other", UserID: "u2", Name: "other", CreatedAt: base, UpdatedAt: base,
	}))

	sessions, err := store.ListSessionsByUser(ctx, "u1", 2)
	require.NoError(t, err)
	require.Len(t, sessions, 2)
	assert.Equal(t, domain.SessionID("c"), sessions[0].ID)
	assert.Equal(t, domain.SessionID("b"), sessions[1].ID)
}

func TestTurnRoundTrip(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	now := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)
	require.NoError(t, store.CreateSession(ctx, &domain.Session{
		ID: "s1", UserID: "u1", Name: "s", CreatedAt: now, UpdatedAt: now,
	}))

	turn := &domain.Turn{
		ID:        "t1",
		SessionID: "s1",
		Index:     0,
		Speaker:   domain.SpeakerUser,
		Text:      "You always do this!",
		CreatedAt: now,
		Analysis: domain.TurnAnalysis{
			Sentiment:              domain.Sentiment{Label: "NEGATIVE", Score: 0.9, Polarity: -0.9},
			AggressionScore:        0.5,
			PassiveAggressionScore: 0.1,
			ConflictScore:          0.6,
			BiasTags: []domain.BiasTag{
				{Type: domain.BiasOvergeneralization, Description: "always/never", Severity: domain.SeverityMedium},
			},
		},
	}
	require.NoError(t, store.AppendTurn(ctx, turn))

	count, err := store.CountTurns(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	turns, err := store.TurnsBySession(ctx, "s1")
	require.NoError(t, err)
	require.Len(t, turns, 1)

	got := turns[0]
	assert.Equal(t, turn.Text, got.Text)
	assert.Equal(t, turn.Analysis.ConflictScore, got.Analysis.ConflictScore)
	require.Len(t, got.Analysis.BiasTags, 1)
	assert.Equal(t, domain.BiasOvergeneralization, got.Analysis.BiasTags[0].Type)
	assert.Equal(t, domain.SeverityMedium, got.Analysis.BiasTags[0].Severity)
}

func TestAssessmentLatestWins(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	base := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)

	_, err := store.LatestAssessment(ctx, "s1")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	require.NoError(t, store.SaveAssessment(ctx, &domain.SessionAssessment{
		ID: "a1", SessionID: "s1", CreatedAt: base,
		Assessment: domain.Assessment{EscalationProbability: 0.3, Trend: domain.TrendStable},
	}))
	require.NoError(t, store.SaveAssessment(ctx, &domain.SessionAssessment{
		ID: "a2", SessionID: "s1", CreatedAt: base.Add(time.Minute),
		Assessment: domain.Assessment{EscalationProbability: 0.7, Trend: domain.TrendEscalating},
	}))

	latest, err := store.LatestAssessment(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, domain.AssessmentID("a2"), latest.ID)
	assert.Equal(t, domain.TrendEscalating, latest.Assessment.Trend)
}

func TestOpponentProfileUpsert(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	_, err := store.GetOpponentProfile(ctx, "s1")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	require.NoError(t, store.SaveOpponentProfile(ctx, "s1", &domain.OpponentProfile{
		Style:              domain.StyleAvoidant,
		AggressionBaseline: 0.2,
	}))
	require.NoError(t, store.SaveOpponentProfile(ctx, "s1", &domain.OpponentProfile{
		Style:              domain.StylePassiveAggressive,
		AggressionBaseline: 0.4,
		TriggerPhrases:     []string{"Whatever."},
	}))

	got, err := store.GetOpponentProfile(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, domain.StylePassiveAggressive, got.Style)
	assert.Equal(t, []string{"Whatever."}, got.TriggerPhrases)
}
