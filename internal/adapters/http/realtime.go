package httpadapter

import (
	"encoding/json"
	"net/http"
	"strings"
	"sync"

	"github.com/gorilla/websocket"
	"golang.org/x/time/rate"

	"github.com/inesrocha/temper/internal/app/analysis"
	"github.com/inesrocha/temper/internal/domain"
	"github.com/inesrocha/temper/internal/observability"
)

// realtimeHandler serves the conflict thermometer: instant scoring of
// text as it is typed, over plain POST and over a websocket.
type realtimeHandler struct {
	analyzer *analysis.Analyzer
	limiter  *rate.Limiter
	upgrader websocket.Upgrader

	mu      sync.Mutex
	clients map[string]*websocket.Conn
}

func newRealtimeHandler(analyzer *analysis.Analyzer) *realtimeHandler {
	return &realtimeHandler{
		analyzer: analyzer,
		// Typing generates bursts; 20 rps with headroom keeps one
		// frontend responsive without letting a loop hammer the models.
		limiter: rate.NewLimiter(rate.Limit(20), 40),
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		clients: make(map[string]*websocket.Conn),
	}
}

type scoreRequest struct {
	Text      string `json:"text"`
	SessionID string `json:"session_id,omitempty"`
}

type scoreResponse struct {
	Type                   string  `json:"type,omitempty"`
	ConflictScore          float64 `json:"conflict_score"`
	AggressionScore        float64 `json:"aggression_score"`
	PassiveAggressionScore float64 `json:"passive_aggression_score"`
	Sentiment              string  `json:"sentiment"`
	WarningLevel           string  `json:"warning_level"`
	Color                  string  `json:"color"`
	QuickTip               string  `json:"quick_tip"`
}

func (h *realtimeHandler) handleScore(w http.ResponseWriter, r *http.Request) {
	if !h.limiter.Allow() {
		writeJSON(w, http.StatusTooManyRequests, map[string]string{"error": "rate limit exceeded"})
		return
	}

	var req scoreRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		badRequest(w, "invalid JSON body")
		return
	}

	if strings.TrimSpace(req.Text) == "" {
		writeJSON(w, http.StatusOK, scoreResponse{
			Sentiment:    "neutral",
			WarningLevel: "safe",
			Color:        "green",
		})
		return
	}

	result, err := h.analyzer.AnalyzeTurn(r.Context(), req.Text)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toScoreResponse(result, ""))
}

func (h *realtimeHandler) handleWS(w http.ResponseWriter, r *http.Request) {
	clientID := r.PathValue("client_id")
	log := observability.LoggerFromContext(r.Context()).With("client_id", clientID)

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Error("websocket upgrade failed", "error", err)
		return
	}

	h.mu.Lock()
	h.clients[clientID] = conn
	h.mu.Unlock()

	defer func() {
		h.mu.Lock()
		delete(h.clients, clientID)
		h.mu.Unlock()
		conn.Close()
		log.Info("websocket closed")
	}()

	log.Info("websocket connected")

	for {
		var req scoreRequest
		if err := conn.ReadJSON(&req); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Error("websocket read failed", "error", err)
			}
			return
		}

		if strings.TrimSpace(req.Text) == "" {
			continue
		}

		result, err := h.analyzer.AnalyzeTurn(r.Context(), req.Text)
		if err != nil {
			log.Error("realtime analysis failed", "error", err)
			continue
		}

		if err := conn.WriteJSON(toScoreResponse(result, "score_update")); err != nil {
			log.Error("websocket write failed", "error", err)
			return
		}
	}
}

func toScoreResponse(a domain.TurnAnalysis, msgType string) scoreResponse {
	level, color := warningLevel(a.ConflictScore)
	return scoreResponse{
		Type:                   msgType,
		ConflictScore:          a.ConflictScore,
		AggressionScore:        a.AggressionScore,
		PassiveAggressionScore: a.PassiveAggressionScore,
		Sentiment:              a.Sentiment.Label,
		WarningLevel:           level,
		Color:                  color,
		QuickTip:               quickTip(a),
	}
}

func warningLevel(conflictScore float64) (string, string) {
	switch {
	case conflictScore < 0.3:
		return "safe", "green"
	case conflictScore < 0.6:
		return "caution", "yellow"
	default:
		return "danger", "red"
	}
}

func quickTip(a domain.TurnAnalysis) string {
	if a.ConflictScore < 0.3 {
		return "Tone is constructive"
	}

	for _, b := range a.BiasTags {
		switch b.Type {
		case domain.BiasOvergeneralization:
			return "Avoid 'always' and 'never'"
		case domain.BiasMindReading:
			return "Ask instead of assuming"
		}
	}

	if a.AggressionScore > 0.6 {
		return "High aggression detected"
	}
	if a.PassiveAggressionScore > 0.5 {
		return "Sounds passive-aggressive"
	}

	return "Consider rephrasing"
}
