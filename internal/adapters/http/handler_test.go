package httpadapter_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	httpadapter "github.com/inesrocha/temper/internal/adapters/http"
	"github.com/inesrocha/temper/internal/adapters/ml"
	"github.com/inesrocha/temper/internal/adapters/storage/memory"
	"github.com/inesrocha/temper/internal/adapters/twin"
	"github.com/inesrocha/temper/internal/app/analysis"
	"github.com/inesrocha/temper/internal/app/dialogue"
	"github.com/inesrocha/temper/internal/app/profile"
	"github.com/inesrocha/temper/internal/app/simulation"
)

func newTestServer(t *testing.T) http.Handler {
	t.Helper()

	sessions := memory.NewSessionStore()
	turns := memory.NewTurnStore()
	assessments := memory.NewAssessmentStore()
	opponents := memory.NewOpponentStore()

	analyzer := analysis.NewAnalyzer(ml.NewHeuristic())

	dialogueSvc := dialogue.NewService(analyzer, sessions, turns)
	analysisSvc := analysis.NewService(analyzer, sessions, turns, assessments)
	simulationSvc := simulation.NewService(analyzer, twin.NewTemplateTwin(), sessions, turns, opponents)
	profileSvc := profile.NewService(sessions, turns)

	return httpadapter.NewServer(dialogueSvc, analysisSvc, simulationSvc, profileSvc, analyzer)
}

func doJSON(t *testing.T, srv http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}

	req := httptest.NewRequest(method, path, &buf)
	w := httptest.NewRecorder()
	srv.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()

	var out map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	return out
}

func createSession(t *testing.T, srv http.Handler, userID string) string {
	t.Helper()

	w := doJSON(t, srv, http.MethodPost, "/api/dialogue/session/create", map[string]string{
		"user_id": userID,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	id, ok := decode(t, w)["session_id"].(string)
	require.True(t, ok)
	require.NotEmpty(t, id)
	return id
}

func addTurn(t *testing.T, srv http.Handler, sessionID, speaker, text string) {
	t.Helper()

	w := doJSON(t, srv, http.MethodPost, "/api/dialogue/session/"+sessionID+"/turn", map[string]string{
		"speaker": speaker,
		"text":    text,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
}

func TestHealthz(t *testing.T) {
	srv := newTestServer(t)

	w := doJSON(t, srv, http.MethodGet, "/healthz", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
}

func TestCreateSessionAndAddTurn(t *testing.T) {
	srv := newTestServer(t)

	sessionID := createSession(t, srv, "test-user")

	w := doJSON(t, srv, http.MethodPost, "/api/dialogue/session/"+sessionID+"/turn", map[string]string{
		"speaker": "user",
		"text":    "You always ignore what I say!",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	body := decode(t, w)
	require.Equal(t, "user", body["speaker"])
	require.Greater(t, body["conflict_score"].(float64), 0.0)

	// Session view should show the turn count.
	w = doJSON(t, srv, http.MethodGet, "/api/dialogue/session/"+sessionID, nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, float64(1), decode(t, w)["turn_count"])
}

func TestCreateSessionRequiresUserID(t *testing.T) {
	srv := newTestServer(t)

	w := doJSON(t, srv, http.MethodPost, "/api/dialogue/session/create", map[string]string{})
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAddTurnRejectsUnknownSpeaker(t *testing.T) {
	srv := newTestServer(t)
	sessionID := createSession(t, srv, "test-user")

	w := doJSON(t, srv, http.MethodPost, "/api/dialogue/session/"+sessionID+"/turn", map[string]string{
		"speaker": "moderator",
		"text":    "hello",
	})
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAddTurnUnknownSessionIs404(t *testing.T) {
	srv := newTestServer(t)

	w := doJSON(t, srv, http.MethodPost, "/api/dialogue/session/missing/turn", map[string]string{
		"speaker": "user",
		"text":    "hello",
	})
	require.Equal(t, http.StatusNotFound, w.Code)
}

func TestAnalyzeSessionFlow(t *testing.T) {
	srv := newTestServer(t)
	sessionID := createSession(t, srv, "test-user")

	addTurn(t, srv, sessionID, "user", "You never listen to me!")
	addTurn(t, srv, sessionID, "opponent", "Whatever. Do what you want.")
	addTurn(t, srv, sessionID, "user", "This is ridiculous, I hate this!")

	w := doJSON(t, srv, http.MethodPost, "/api/analysis/session/"+sessionID+"/analyze", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	body := decode(t, w)
	esc := body["escalation_probability"].(float64)
	require.GreaterOrEqual(t, esc, 0.0)
	require.LessOrEqual(t, esc, 1.0)
	require.Contains(t, []string{"escalating", "de-escalating", "stable"}, body["trend"])

	// The snapshot is now retrievable.
	w = doJSON(t, srv, http.MethodGet, "/api/analysis/session/"+sessionID+"/analysis/latest", nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, body["analysis_id"], decode(t, w)["analysis_id"])
}

func TestAnalyzeEmptySessionIs400(t *testing.T) {
	srv := newTestServer(t)
	sessionID := createSession(t, srv, "test-user")

	w := doJSON(t, srv, http.MethodPost, "/api/analysis/session/"+sessionID+"/analyze", nil)
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestPipelineView(t *testing.T) {
	srv := newTestServer(t)
	sessionID := createSession(t, srv, "test-user")

	addTurn(t, srv, sessionID, "user", "You always do this.")
	doJSON(t, srv, http.MethodPost, "/api/analysis/session/"+sessionID+"/analyze", nil)

	w := doJSON(t, srv, http.MethodGet, "/api/analysis/session/"+sessionID+"/pipeline", nil)
	require.Equal(t, http.StatusOK, w.Code)

	steps := decode(t, w)["pipeline"].([]any)
	require.Len(t, steps, 1)
	stages := steps[0].(map[string]any)["stages"].([]any)
	require.Len(t, stages, 5)
}

func TestSimulateFlow(t *testing.T) {
	srv := newTestServer(t)
	sessionID := createSession(t, srv, "test-user")

	addTurn(t, srv, sessionID, "user", "Why did you cancel again?")
	addTurn(t, srv, sessionID, "opponent", "Whatever. I was busy.")

	w := doJSON(t, srv, http.MethodPost, "/api/simulation/session/"+sessionID+"/simulate", map[string]string{
		"user_draft": "You clearly never cared about our plans!",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	body := decode(t, w)
	require.NotEmpty(t, body["simulated_opponent_response"])
	require.NotEmpty(t, body["recommendation"])
	esc := body["predicted_escalation"].(float64)
	require.GreaterOrEqual(t, esc, 0.0)
	require.LessOrEqual(t, esc, 1.0)
}

func TestSimulateRequiresDraft(t *testing.T) {
	srv := newTestServer(t)
	sessionID := createSession(t, srv, "test-user")

	w := doJSON(t, srv, http.MethodPost, "/api/simulation/session/"+sessionID+"/simulate", map[string]string{})
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestOpponentProfileRequiresOpponentTurns(t *testing.T) {
	srv := newTestServer(t)
	sessionID := createSession(t, srv, "test-user")

	addTurn(t, srv, sessionID, "user", "Hello there.")

	w := doJSON(t, srv, http.MethodGet, "/api/simulation/session/"+sessionID+"/opponent-profile", nil)
	require.Equal(t, http.StatusNotFound, w.Code)

	addTurn(t, srv, sessionID, "opponent", "Whatever. Do what you want.")

	w = doJSON(t, srv, http.MethodGet, "/api/simulation/session/"+sessionID+"/opponent-profile", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	p := decode(t, w)["opponent_profile"].(map[string]any)
	require.NotEmpty(t, p["communication_style"])
}

func TestUserProfileAndDashboard(t *testing.T) {
	srv := newTestServer(t)

	for i := 0; i < 2; i++ {
		sessionID := createSession(t, srv, "profiled-user")
		addTurn(t, srv, sessionID, "user", fmt.Sprintf("You never help me, round %d!", i))
		addTurn(t, srv, sessionID, "opponent", "I guess that's fine.")
	}

	w := doJSON(t, srv, http.MethodGet, "/api/profile/user/profiled-user", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	body := decode(t, w)
	require.Equal(t, float64(2), body["total_conflicts"])
	require.Equal(t, float64(1), body["you_statements_percentage"])

	w = doJSON(t, srv, http.MethodGet, "/api/profile/user/profiled-user/dashboard", nil)
	require.Equal(t, http.StatusOK, w.Code)

	dash := decode(t, w)
	require.Len(t, dash["recent_sessions"].([]any), 2)
}

func TestRealtimeScore(t *testing.T) {
	srv := newTestServer(t)

	w := doJSON(t, srv, http.MethodPost, "/api/realtime/score", map[string]string{
		"text": "You always ruin everything, I hate this!",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	body := decode(t, w)
	require.Contains(t, []string{"safe", "caution", "danger"}, body["warning_level"])
	require.Contains(t, []string{"green", "yellow", "red"}, body["color"])
	require.NotEmpty(t, body["quick_tip"])
}

func TestRealtimeScoreEmptyTextIsSafe(t *testing.T) {
	srv := newTestServer(t)

	w := doJSON(t, srv, http.MethodPost, "/api/realtime/score", map[string]string{"text": "   "})
	require.Equal(t, http.StatusOK, w.Code)

	body := decode(t, w)
	require.Equal(t, "safe", body["warning_level"])
	require.Equal(t, float64(0), body["conflict_score"])
}
