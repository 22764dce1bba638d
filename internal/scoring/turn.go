package scoring

import (
	"math"

	"github.com/inesrocha/temper/internal/domain"
)

// Per-turn conflict score weights. They must sum to 1.
const (
	weightAggression          = 0.35
	weightPassiveAggression   = 0.25
	weightSentimentNegativity = 0.20
	weightBiasSeverity        = 0.20
)

// TurnScore computes the conflict intensity of a single message from its
// component signals. sentimentPolarity is in [-1,+1]; aggression and
// passiveAggression are in [0,1]. The result is capped at 1.
func TurnScore(aggression, passiveAggression, sentimentPolarity float64, biases []domain.BiasTag) float64 {
	// Convert polarity to a 0..1 negativity scale.
	negativity := (1 - sentimentPolarity) / 2

	var biasScore float64
	if len(biases) > 0 {
		for _, b := range biases {
			biasScore += b.Severity.Weight()
		}
		biasScore /= float64(len(biases))
	}

	score := weightAggression*aggression +
		weightPassiveAggression*passiveAggression +
		weightSentimentNegativity*negativity +
		weightBiasSeverity*biasScore

	return math.Min(score, 1.0)
}
