package analysis

import (
	"strings"

	"github.com/inesrocha/temper/internal/domain"
)

// Nonviolent-communication mapping: dominant emotion → the need most
// likely behind it.
var emotionNeeds = map[string]string{
	"anger":    "respect, fairness, autonomy",
	"fear":     "safety, security, predictability",
	"sadness":  "connection, understanding, support",
	"joy":      "celebration, appreciation, contribution",
	"disgust":  "integrity, authenticity, order",
	"surprise": "clarity, information, understanding",
}

const defaultNeed = "understanding, connection"

var evaluationMarkers = []string{"always", "never", "should", "must"}

// nvcFromTurn maps the latest message onto the NVC frame, reusing the
// emotion reading already stored on the turn.
func nvcFromTurn(turn *domain.Turn) domain.NVCAnalysis {
	emotion := turn.Analysis.Emotions.Dominant
	if emotion == "" {
		emotion = "neutral"
	}

	need, ok := emotionNeeds[emotion]
	if !ok {
		need = defaultNeed
	}

	lower := strings.ToLower(turn.Text)
	hasEvaluation := false
	for _, marker := range evaluationMarkers {
		if strings.Contains(lower, marker) {
			hasEvaluation = true
			break
		}
	}

	// Evaluations score low on the NVC scale; plain observations high.
	score := 0.7
	if hasEvaluation {
		score = 0.3
	}

	return domain.NVCAnalysis{
		Observation:   turn.Text,
		HasEvaluation: hasEvaluation,
		Emotion:       emotion,
		LikelyNeed:    need,
		Score:         score,
	}
}
