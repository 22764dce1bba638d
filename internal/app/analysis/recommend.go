package analysis

import "github.com/inesrocha/temper/internal/domain"

// recommend derives actionable suggestions from the session picture.
// Rule order is fixed so the output is deterministic.
func recommend(conflictScore, escalationProb float64, biases []domain.BiasTag) []domain.Recommendation {
	var recs []domain.Recommendation

	if conflictScore > 0.7 {
		recs = append(recs, domain.Recommendation{
			Priority:    "high",
			Category:    "de-escalation",
			Action:      "Take a break",
			Description: "Conflict intensity is high. Consider pausing the conversation to cool down.",
		})
	}

	if escalationProb > 0.6 {
		recs = append(recs, domain.Recommendation{
			Priority:    "high",
			Category:    "intervention",
			Action:      "Change communication approach",
			Description: "Conversation is escalating. Try using 'I' statements and focus on specific behaviors.",
		})
	}

	if hasBias(biases, domain.BiasOvergeneralization) {
		recs = append(recs, domain.Recommendation{
			Priority:    "medium",
			Category:    "cognitive",
			Action:      "Avoid absolute terms",
			Description: "Replace 'always' and 'never' with specific examples.",
		})
	}

	if hasBias(biases, domain.BiasMindReading) {
		recs = append(recs, domain.Recommendation{
			Priority:    "medium",
			Category:    "cognitive",
			Action:      "Ask instead of assume",
			Description: "Ask about intentions rather than assuming them.",
		})
	}

	if hasBias(biases, domain.BiasGaslighting) {
		recs = append(recs, domain.Recommendation{
			Priority:    "critical",
			Category:    "safety",
			Action:      "Set boundaries",
			Description: "Gaslighting detected. Consider documenting the conversation and setting clear boundaries.",
		})
	}

	if conflictScore < 0.3 {
		recs = append(recs, domain.Recommendation{
			Priority:    "low",
			Category:    "positive",
			Action:      "Continue constructive dialogue",
			Description: "Communication style is constructive. Keep it up!",
		})
	}

	return recs
}

func hasBias(biases []domain.BiasTag, want domain.BiasType) bool {
	for _, b := range biases {
		if b.Type == want {
			return true
		}
	}
	return false
}
