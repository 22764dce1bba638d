// Package ml provides the sentiment/emotion inference adapters: a
// hosted HuggingFace client and a local lexicon heuristic for dev and
// tests.
package ml

import (
	"context"
	"strings"
	"unicode"

	"github.com/inesrocha/temper/internal/domain"
)

// Heuristic is a deterministic, in-process stand-in for the hosted
// sentiment and emotion models. Useful in local mode and in tests; the
// lexicons are intentionally small.
type Heuristic struct{}

func NewHeuristic() *Heuristic {
	return &Heuristic{}
}

var positiveLexicon = wordSet(
	"love", "great", "glad", "happy", "thanks", "thank", "appreciate",
	"wonderful", "good", "helps", "agree", "understand", "together",
)

var negativeLexicon = wordSet(
	"hate", "angry", "furious", "stupid", "ridiculous", "terrible",
	"awful", "worst", "annoying", "fault", "never", "ruined", "sick",
	"pathetic", "disgusting", "hurt", "wrong", "liar",
)

var emotionLexicons = map[string]map[string]bool{
	"anger":    wordSet("angry", "furious", "hate", "stupid", "ridiculous", "fault", "liar", "unfair", "sick"),
	"fear":     wordSet("afraid", "scared", "worried", "anxious", "nervous", "terrified"),
	"sadness":  wordSet("sad", "hurt", "lonely", "miss", "crying", "disappointed"),
	"joy":      wordSet("happy", "glad", "love", "great", "wonderful", "excited"),
	"disgust":  wordSet("disgusting", "gross", "pathetic", "awful"),
	"surprise": wordSet("wow", "unbelievable", "shocked", "suddenly"),
}

func wordSet(words ...string) map[string]bool {
	m := make(map[string]bool, len(words))
	for _, w := range words {
		m[w] = true
	}
	return m
}

func (h *Heuristic) Sentiment(_ context.Context, text string) (domain.Sentiment, error) {
	var pos, neg int
	for _, w := range lowerWords(text) {
		if positiveLexicon[w] {
			pos++
		}
		if negativeLexicon[w] {
			neg++
		}
	}

	switch {
	case neg > pos:
		total := float64(pos + neg)
		return domain.Sentiment{
			Label:    "NEGATIVE",
			Score:    0.5 + 0.5*float64(neg-pos)/total,
			Polarity: -1,
		}, nil
	case pos > neg:
		total := float64(pos + neg)
		return domain.Sentiment{
			Label:    "POSITIVE",
			Score:    0.5 + 0.5*float64(pos-neg)/total,
			Polarity: 1,
		}, nil
	default:
		return domain.Sentiment{Label: "NEUTRAL", Score: 0.5, Polarity: 0}, nil
	}
}

func (h *Heuristic) Emotions(_ context.Context, text string) (domain.EmotionReading, error) {
	counts := map[string]int{}
	total := 0
	for _, w := range lowerWords(text) {
		for emotion, lexicon := range emotionLexicons {
			if lexicon[w] {
				counts[emotion]++
				total++
			}
		}
	}

	if total == 0 {
		return domain.EmotionReading{Dominant: "neutral"}, nil
	}

	scores := make(map[string]float64, len(counts))
	dominant := ""
	best := 0
	for emotion, c := range counts {
		scores[emotion] = float64(c) / float64(total)
		// Break score ties alphabetically so output is deterministic.
		if c > best || (c == best && (dominant == "" || emotion < dominant)) {
			best = c
			dominant = emotion
		}
	}

	return domain.EmotionReading{
		Scores:     scores,
		Dominant:   dominant,
		Aggression: scores["anger"],
	}, nil
}

func lowerWords(text string) []string {
	return strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && r != '\''
	})
}
