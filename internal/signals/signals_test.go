package signals

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/inesrocha/temper/internal/domain"
)

func TestPassiveAggressionPatterns(t *testing.T) {
	neutral := domain.EmotionReading{}

	cases := []struct {
		text string
		min  float64
	}{
		{"Whatever.", 0.4},
		{"Sure", 0.3},
		{"Fine.", 0.3},
		{"Do what you want", 0.5},
		{"I'm sorry you feel that way", 0.5},
		{"Must be nice to have so much free time", 0.4},
		{"I guess we could try...", 0.3}, // pattern + sarcasm ellipsis
	}

	for _, tc := range cases {
		score := PassiveAggression(tc.text, neutral)
		assert.GreaterOrEqual(t, score, tc.min, "text=%q", tc.text)
		assert.LessOrEqual(t, score, 1.0, "text=%q", tc.text)
	}
}

func TestPassiveAggressionCleanText(t *testing.T) {
	score := PassiveAggression("Thanks for explaining, that helps a lot.", domain.EmotionReading{})
	assert.Zero(t, score)
}

func TestPassiveAggressionEmotionBump(t *testing.T) {
	text := "Okay then."
	base := PassiveAggression(text, domain.EmotionReading{Aggression: 0.5})

	// Disgust without open anger adds 0.2.
	bumped := PassiveAggression(text, domain.EmotionReading{
		Aggression: 0.1,
		Scores:     map[string]float64{"disgust": 0.6},
	})

	assert.InDelta(t, base+0.2, bumped, 1e-12)
}

func TestPassiveAggressionCapped(t *testing.T) {
	// Stack several patterns plus sarcasm markers.
	text := "whatever... do what you want!! sorry you feel that way, must be nice, i guess"
	score := PassiveAggression(text, domain.EmotionReading{
		Scores: map[string]float64{"disgust": 0.9},
	})
	assert.Equal(t, 1.0, score)
}

func TestDetectBiases(t *testing.T) {
	cases := []struct {
		text string
		want domain.BiasType
	}{
		{"You ALWAYS do this", domain.BiasOvergeneralization},
		{"you just want to win the argument", domain.BiasMindReading},
		{"This evening is ruined", domain.BiasCatastrophizing},
		{"You make me so angry", domain.BiasPersonalization},
		{"you're imagining things", domain.BiasGaslighting},
	}

	for _, tc := range cases {
		tags := DetectBiases(tc.text)
		found := false
		for _, tag := range tags {
			if tag.Type == tc.want {
				found = true
				assert.NotEmpty(t, tag.Description)
				assert.NotEmpty(t, tag.Severity)
			}
		}
		assert.True(t, found, "expected %s in %q, got %v", tc.want, tc.text, tags)
	}
}

func TestDetectBiasesSeverities(t *testing.T) {
	tags := DetectBiases("it's your fault that everything is ruined, you're crazy")

	got := map[domain.BiasType]domain.Severity{}
	for _, tag := range tags {
		got[tag.Type] = tag.Severity
	}

	assert.Equal(t, domain.SeverityHigh, got[domain.BiasCatastrophizing])
	assert.Equal(t, domain.SeverityHigh, got[domain.BiasPersonalization])
	assert.Equal(t, domain.SeverityCritical, got[domain.BiasGaslighting])
}

func TestDetectBiasesNone(t *testing.T) {
	assert.Empty(t, DetectBiases("I felt hurt when the plans changed this morning."))
}

func TestDetectBiasesOneTagPerType(t *testing.T) {
	tags := DetectBiases("you always do this, every time, to everyone")
	assert.Len(t, tags, 1)
	assert.Equal(t, domain.BiasOvergeneralization, tags[0].Type)
}

func TestExtractFeatures(t *testing.T) {
	f := ExtractFeatures("You never listen. I told you twice! Why would I bother?")

	assert.Equal(t, 2, f.YouStatements)
	assert.Equal(t, 2, f.IStatements)
	assert.Equal(t, 1, f.QuestionCount)
	assert.Equal(t, 3, f.SentenceCount)
	assert.Equal(t, 11, f.WordCount)
}

func TestExtractFeaturesEmpty(t *testing.T) {
	f := ExtractFeatures("")
	assert.Zero(t, f.WordCount)
	assert.Zero(t, f.SentenceCount)
}
