package httpadapter

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/inesrocha/temper/internal/app/analysis"
	"github.com/inesrocha/temper/internal/app/dialogue"
	"github.com/inesrocha/temper/internal/app/profile"
	"github.com/inesrocha/temper/internal/app/simulation"
	"github.com/inesrocha/temper/internal/domain"
)

type Server struct {
	dialogue   *dialogue.Service
	analysis   *analysis.Service
	simulation *simulation.Service
	profile    *profile.Service
	realtime   *realtimeHandler
}

func NewServer(
	dialogueSvc *dialogue.Service,
	analysisSvc *analysis.Service,
	simulationSvc *simulation.Service,
	profileSvc *profile.Service,
	analyzer *analysis.Analyzer,
) http.Handler {
	s := &Server{
		dialogue:   dialogueSvc,
		analysis:   analysisSvc,
		simulation: simulationSvc,
		profile:    profileSvc,
		realtime:   newRealtimeHandler(analyzer),
	}

	mux := http.NewServeMux()

	// Dialogue
	mux.HandleFunc("POST /api/dialogue/session/create", s.handleCreateSession)
	mux.HandleFunc("POST /api/dialogue/session/{id}/turn", s.handleAddTurn)
	mux.HandleFunc("GET /api/dialogue/session/{id}/turns", s.handleGetTurns)
	mux.HandleFunc("GET /api/dialogue/session/{id}", s.handleGetSession)
	mux.HandleFunc("GET /api/dialogue/sessions/user/{id}", s.handleUserSessions)

	// Analysis
	mux.HandleFunc("POST /api/analysis/session/{id}/analyze", s.handleAnalyzeSession)
	mux.HandleFunc("GET /api/analysis/session/{id}/analysis/latest", s.handleLatestAnalysis)
	mux.HandleFunc("GET /api/analysis/session/{id}/pipeline", s.handlePipeline)

	// Simulation
	mux.HandleFunc("POST /api/simulation/session/{id}/simulate", s.handleSimulate)
	mux.HandleFunc("GET /api/simulation/session/{id}/opponent-profile", s.handleOpponentProfile)

	// Profile
	mux.HandleFunc("GET /api/profile/user/{id}", s.handleUserProfile)
	mux.HandleFunc("GET /api/profile/user/{id}/dashboard", s.handleDashboard)

	// Realtime conflict thermometer
	mux.HandleFunc("POST /api/realtime/score", s.realtime.handleScore)
	mux.HandleFunc("GET /api/realtime/ws/{client_id}", s.realtime.handleWS)

	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.HandleFunc("GET /readyz", s.handleHealth)

	return chainMiddlewares(mux, withCORS, withRequestID, withLogging)
}

// ─────────────────────────────────────────────
// DTOs (request/response)
// ─────────────────────────────────────────────

type createSessionRequest struct {
	UserID      string `json:"user_id"`
	SessionName string `json:"session_name,omitempty"`
}

type sessionResponse struct {
	SessionID   string    `json:"session_id"`
	UserID      string    `json:"user_id"`
	SessionName string    `json:"session_name"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
	TurnCount   int       `json:"turn_count"`
}

type addTurnRequest struct {
	Speaker string `json:"speaker"`
	Text    string `json:"text"`
}

type turnResponse struct {
	TurnID                 string           `json:"turn_id"`
	Index                  int              `json:"turn_index"`
	Speaker                string           `json:"speaker"`
	Text                   string           `json:"text"`
	Timestamp              time.Time        `json:"timestamp"`
	Sentiment              domain.Sentiment `json:"sentiment"`
	AggressionScore        float64          `json:"aggression_score"`
	PassiveAggressionScore float64          `json:"passive_aggression_score"`
	ConflictScore          float64          `json:"conflict_score"`
	BiasTags               []domain.BiasTag `json:"bias_tags"`
}

type assessmentResponse struct {
	AnalysisID             string                  `json:"analysis_id"`
	SessionID              string                  `json:"session_id"`
	OverallConflictScore   float64                 `json:"overall_conflict_score"`
	EscalationProbability  float64                 `json:"escalation_probability"`
	PassiveAggressionIndex float64                 `json:"passive_aggression_index"`
	Trend                  string                  `json:"trend"`
	CognitiveBiases        []domain.BiasTag        `json:"cognitive_biases"`
	NVCAnalysis            domain.NVCAnalysis      `json:"nvc_analysis"`
	Recommendations        []domain.Recommendation `json:"recommendations"`
	Metrics                metricsResponse         `json:"metrics"`
	CreatedAt              time.Time               `json:"created_at"`
}

type metricsResponse struct {
	AvgAggression float64 `json:"avg_aggression"`
	MaxConflict   float64 `json:"max_conflict"`
	TotalBiases   int     `json:"total_biases"`
}

type simulateRequest struct {
	UserDraft string `json:"user_draft"`
}

type simulateResponse struct {
	UserDraft                 string                  `json:"user_draft"`
	SimulatedOpponentResponse string                  `json:"simulated_opponent_response"`
	ResponseAnalysis          turnAnalysisResponse    `json:"response_analysis"`
	PredictedEscalation       float64                 `json:"predicted_escalation"`
	ConflictScoreChange       float64                 `json:"conflict_score_change"`
	Recommendation            string                  `json:"recommendation"`
	OpponentProfile           opponentProfileResponse `json:"opponent_profile"`
}

type turnAnalysisResponse struct {
	Sentiment              domain.Sentiment `json:"sentiment"`
	AggressionScore        float64          `json:"aggression_score"`
	PassiveAggressionScore float64          `json:"passive_aggression_score"`
	ConflictScore          float64          `json:"conflict_score"`
	BiasTags               []domain.BiasTag `json:"bias_tags"`
}

type opponentProfileResponse struct {
	CommunicationStyle        string                   `json:"communication_style"`
	SentimentBaseline         float64                  `json:"sentiment_baseline"`
	AggressionBaseline        float64                  `json:"aggression_baseline"`
	PassiveAggressionBaseline float64                  `json:"passive_aggression_baseline"`
	TriggerPhrases            []string                 `json:"trigger_phrases"`
	ResponsePatterns          []domain.ResponsePattern `json:"response_patterns"`
}

// ─────────────────────────────────────────────
// Dialogue handlers
// ─────────────────────────────────────────────

func (s *Server) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	var req createSessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		badRequest(w, "invalid JSON body")
		return
	}

	session, err := s.dialogue.CreateSession(r.Context(), dialogue.CreateSessionInput{
		UserID: domain.UserID(req.UserID),
		Name:   req.SessionName,
	})
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{
		"session_id":   string(session.ID),
		"session_name": session.Name,
		"created_at":   session.CreatedAt,
	})
}

func (s *Server) handleAddTurn(w http.ResponseWriter, r *http.Request) {
	var req addTurnRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		badRequest(w, "invalid JSON body")
		return
	}

	turn, err := s.dialogue.AddTurn(r.Context(), dialogue.AddTurnInput{
		SessionID: domain.SessionID(r.PathValue("id")),
		Speaker:   domain.Speaker(strings.ToLower(strings.TrimSpace(req.Speaker))),
		Text:      req.Text,
	})
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, toTurnResponse(turn))
}

func (s *Server) handleGetTurns(w http.ResponseWriter, r *http.Request) {
	sessionID := domain.SessionID(r.PathValue("id"))

	turns, err := s.dialogue.Turns(r.Context(), sessionID)
	if err != nil {
		writeError(w, err)
		return
	}

	out := make([]turnResponse, 0, len(turns))
	for _, t := range turns {
		out = append(out, toTurnResponse(t))
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"session_id": string(sessionID),
		"turns":      out,
	})
}

func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	session, count, err := s.dialogue.GetSession(r.Context(), domain.SessionID(r.PathValue("id")))
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, sessionResponse{
		SessionID:   string(session.ID),
		UserID:      string(session.UserID),
		SessionName: session.Name,
		CreatedAt:   session.CreatedAt,
		UpdatedAt:   session.UpdatedAt,
		TurnCount:   count,
	})
}

func (s *Server) handleUserSessions(w http.ResponseWriter, r *http.Request) {
	userID := domain.UserID(r.PathValue("id"))

	sessions, err := s.dialogue.ListUserSessions(r.Context(), userID, 0)
	if err != nil {
		writeError(w, err)
		return
	}

	type item struct {
		SessionID   string    `json:"session_id"`
		SessionName string    `json:"session_name"`
		CreatedAt   time.Time `json:"created_at"`
	}

	out := make([]item, 0, len(sessions))
	for _, sess := range sessions {
		out = append(out, item{
			SessionID:   string(sess.ID),
			SessionName: sess.Name,
			CreatedAt:   sess.CreatedAt,
		})
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"user_id":  string(userID),
		"sessions": out,
	})
}

// ─────────────────────────────────────────────
// Analysis handlers
// ─────────────────────────────────────────────

func (s *Server) handleAnalyzeSession(w http.ResponseWriter, r *http.Request) {
	snapshot, err := s.analysis.AnalyzeSession(r.Context(), domain.SessionID(r.PathValue("id")))
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toAssessmentResponse(snapshot))
}

func (s *Server) handleLatestAnalysis(w http.ResponseWriter, r *http.Request) {
	snapshot, err := s.analysis.LatestAssessment(r.Context(), domain.SessionID(r.PathValue("id")))
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toAssessmentResponse(snapshot))
}

// handlePipeline renders the per-turn analysis pipeline the way the
// frontend visualizes it: input, emotion, bias, need, risk.
func (s *Server) handlePipeline(w http.ResponseWriter, r *http.Request) {
	sessionID := domain.SessionID(r.PathValue("id"))

	turns, err := s.analysis.Turns(r.Context(), sessionID)
	if err != nil {
		writeError(w, err)
		return
	}
	if len(turns) == 0 {
		notFound(w, "no turns found")
		return
	}

	var latest *domain.SessionAssessment
	if snap, err := s.analysis.LatestAssessment(r.Context(), sessionID); err == nil {
		latest = snap
	}

	type pipelineStage struct {
		Stage   string `json:"stage"`
		Label   string `json:"label"`
		Content any    `json:"content"`
	}
	type pipelineStep struct {
		TurnIndex int             `json:"turn_index"`
		Speaker   string          `json:"speaker"`
		Stages    []pipelineStage `json:"stages"`
	}

	steps := make([]pipelineStep, 0, len(turns))
	for _, t := range turns {
		var nvc any = map[string]any{}
		var escalation float64
		if latest != nil {
			nvc = latest.Assessment.NVC
			escalation = latest.Assessment.EscalationProbability
		}

		steps = append(steps, pipelineStep{
			TurnIndex: t.Index,
			Speaker:   string(t.Speaker),
			Stages: []pipelineStage{
				{Stage: "input", Label: "Said", Content: t.Text},
				{Stage: "emotion", Label: "Detected Emotion", Content: map[string]any{
					"sentiment":          t.Analysis.Sentiment.Label,
					"aggression":         t.Analysis.AggressionScore,
					"passive_aggression": t.Analysis.PassiveAggressionScore,
				}},
				{Stage: "bias", Label: "Cognitive Biases", Content: t.Analysis.BiasTags},
				{Stage: "nvc", Label: "Hidden Need", Content: nvc},
				{Stage: "risk", Label: "Escalation Risk", Content: map[string]any{
					"conflict_score":     t.Analysis.ConflictScore,
					"overall_escalation": escalation,
				}},
			},
		})
	}

	var recommendations []domain.Recommendation
	if latest != nil {
		recommendations = latest.Assessment.Recommendations
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"session_id":      string(sessionID),
		"pipeline":        steps,
		"recommendations": recommendations,
	})
}

// ─────────────────────────────────────────────
// Simulation handlers
// ─────────────────────────────────────────────

func (s *Server) handleSimulate(w http.ResponseWriter, r *http.Request) {
	var req simulateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		badRequest(w, "invalid JSON body")
		return
	}

	result, err := s.simulation.Simulate(r.Context(), simulation.SimulateInput{
		SessionID: domain.SessionID(r.PathValue("id")),
		Draft:     req.UserDraft,
	})
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, simulateResponse{
		UserDraft:                 result.Draft,
		SimulatedOpponentResponse: result.SimulatedReply,
		ResponseAnalysis:          toTurnAnalysisResponse(result.ReplyAnalysis),
		PredictedEscalation:       result.PredictedEscalation,
		ConflictScoreChange:       result.ConflictScoreChange,
		Recommendation:            result.Recommendation,
		OpponentProfile:           toOpponentProfileResponse(result.Profile),
	})
}

func (s *Server) handleOpponentProfile(w http.ResponseWriter, r *http.Request) {
	sessionID := domain.SessionID(r.PathValue("id"))

	p, err := s.simulation.OpponentProfile(r.Context(), sessionID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"session_id":       string(sessionID),
		"opponent_profile": toOpponentProfileResponse(*p),
	})
}

// ─────────────────────────────────────────────
// Profile handlers
// ─────────────────────────────────────────────

func (s *Server) handleUserProfile(w http.ResponseWriter, r *http.Request) {
	p, err := s.profile.UserProfile(r.Context(), domain.UserID(r.PathValue("id")))
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toUserProfileResponse(p))
}

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	d, err := s.profile.Dashboard(r.Context(), domain.UserID(r.PathValue("id")))
	if err != nil {
		writeError(w, err)
		return
	}

	type sessionSummary struct {
		SessionID   string    `json:"session_id"`
		SessionName string    `json:"session_name"`
		CreatedAt   time.Time `json:"created_at"`
		TurnCount   int       `json:"turn_count"`
	}

	recent := make([]sessionSummary, 0, len(d.RecentSessions))
	for _, sess := range d.RecentSessions {
		recent = append(recent, sessionSummary{
			SessionID:   string(sess.SessionID),
			SessionName: sess.SessionName,
			CreatedAt:   sess.CreatedAt,
			TurnCount:   sess.TurnCount,
		})
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"profile":                toUserProfileResponse(d.Profile),
		"recent_sessions":        recent,
		"improvement_percentage": d.ImprovementPercentage,
		"insights":               d.Insights,
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// ─────────────────────────────────────────────
// Response mapping
// ─────────────────────────────────────────────

func toTurnResponse(t *domain.Turn) turnResponse {
	return turnResponse{
		TurnID:                 string(t.ID),
		Index:                  t.Index,
		Speaker:                string(t.Speaker),
		Text:                   t.Text,
		Timestamp:              t.CreatedAt,
		Sentiment:              t.Analysis.Sentiment,
		AggressionScore:        t.Analysis.AggressionScore,
		PassiveAggressionScore: t.Analysis.PassiveAggressionScore,
		ConflictScore:          t.Analysis.ConflictScore,
		BiasTags:               t.Analysis.BiasTags,
	}
}

func toTurnAnalysisResponse(a domain.TurnAnalysis) turnAnalysisResponse {
	return turnAnalysisResponse{
		Sentiment:              a.Sentiment,
		AggressionScore:        a.AggressionScore,
		PassiveAggressionScore: a.PassiveAggressionScore,
		ConflictScore:          a.ConflictScore,
		BiasTags:               a.BiasTags,
	}
}

func toAssessmentResponse(snap *domain.SessionAssessment) assessmentResponse {
	a := snap.Assessment
	return assessmentResponse{
		AnalysisID:             string(snap.ID),
		SessionID:              string(snap.SessionID),
		OverallConflictScore:   a.OverallConflictScore,
		EscalationProbability:  a.EscalationProbability,
		PassiveAggressionIndex: a.PassiveAggressionIndex,
		Trend:                  string(a.Trend),
		CognitiveBiases:        a.CognitiveBiases,
		NVCAnalysis:            a.NVC,
		Recommendations:        a.Recommendations,
		Metrics: metricsResponse{
			AvgAggression: a.Metrics.AvgAggression,
			MaxConflict:   a.Metrics.MaxConflict,
			TotalBiases:   a.Metrics.TotalBiases,
		},
		CreatedAt: snap.CreatedAt,
	}
}

func toOpponentProfileResponse(p domain.OpponentProfile) opponentProfileResponse {
	return opponentProfileResponse{
		CommunicationStyle:        string(p.Style),
		SentimentBaseline:         p.SentimentBaseline,
		AggressionBaseline:        p.AggressionBaseline,
		PassiveAggressionBaseline: p.PassiveAggressionBaseline,
		TriggerPhrases:            p.TriggerPhrases,
		ResponsePatterns:          p.ResponsePatterns,
	}
}

func toUserProfileResponse(p *domain.UserProfile) map[string]any {
	styles := make(map[string]float64, len(p.StyleDistribution))
	for style, v := range p.StyleDistribution {
		styles[string(style)] = v
	}

	return map[string]any{
		"user_id":                   string(p.UserID),
		"total_conflicts":           p.TotalConflicts,
		"blame_frequency":           p.BlameFrequency,
		"you_statements_percentage": p.YouStatementsShare,
		"escalation_contribution":   p.EscalationContribution,
		"dominant_style":            string(p.DominantStyle),
		"style_distribution":        styles,
		"conflict_history":          p.ConflictHistory,
	}
}

// ─────────────────────────────────────────────
// HTTP Helpers
// ─────────────────────────────────────────────

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError maps domain sentinel errors onto HTTP status codes.
func writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrValidation), errors.Is(err, domain.ErrInsufficientData):
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
	case errors.Is(err, domain.ErrSessionNotFound),
		errors.Is(err, domain.ErrNotFound),
		errors.Is(err, domain.ErrNoOpponentData):
		writeJSON(w, http.StatusNotFound, map[string]string{"error": err.Error()})
	case errors.Is(err, domain.ErrSessionExists):
		writeJSON(w, http.StatusConflict, map[string]string{"error": err.Error()})
	default:
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
	}
}

func badRequest(w http.ResponseWriter, msg string) {
	writeJSON(w, http.StatusBadRequest, map[string]string{
		"error": msg,
	})
}

func notFound(w http.ResponseWriter, msg string) {
	writeJSON(w, http.StatusNotFound, map[string]string{
		"error": msg,
	})
}
