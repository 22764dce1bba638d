// Package signals implements the rule-based text detectors: passive
// aggression, cognitive biases and surface linguistic features. These
// are deliberate pattern tables, not learned models; the transformer
// side of the pipeline lives behind domain.InferenceClient.
package signals

import (
	"regexp"
	"strings"

	"github.com/inesrocha/temper/internal/domain"
)

type weightedPattern struct {
	re     *regexp.Regexp
	weight float64
}

var passiveAggressivePatterns = []weightedPattern{
	{regexp.MustCompile(`\bsure\b\.?$`), 0.3},
	{regexp.MustCompile(`\bwhatever\b`), 0.4},
	{regexp.MustCompile(`\bdo what you want\b`), 0.5},
	{regexp.MustCompile(`\bif you say so\b`), 0.4},
	{regexp.MustCompile(`\bfine\b\.?$`), 0.3},
	{regexp.MustCompile(`\bi guess\b`), 0.2},
	{regexp.MustCompile(`\bno worries\b.*\bbut\b`), 0.4},
	{regexp.MustCompile(`\bsorry you feel that way\b`), 0.5},
	{regexp.MustCompile(`\bmust be nice\b`), 0.4},
	{regexp.MustCompile(`\bgood for you\b`), 0.3},
}

// PassiveAggression scores a message in [0,1] using the pattern table
// plus two weaker signals: sarcasm punctuation and the emotion mix
// (disgust without open anger reads passive-aggressive).
func PassiveAggression(text string, emotions domain.EmotionReading) float64 {
	lower := strings.ToLower(text)

	var score float64
	for _, p := range passiveAggressivePatterns {
		if p.re.MatchString(lower) {
			score += p.weight
		}
	}

	if strings.Contains(text, "...") || strings.Contains(text, "!!") {
		score += 0.1
	}

	if emotions.Aggression < 0.3 && emotions.Scores["disgust"] > 0.3 {
		score += 0.2
	}

	if score > 1 {
		score = 1
	}
	return score
}
