package simulation

import (
	"github.com/inesrocha/temper/internal/domain"
)

const (
	maxTriggerPhrases   = 5
	maxResponsePatterns = 5
	// Short, punchy messages in high-conflict turns are the ones the
	// twin throws back later.
	triggerConflictScore = 0.6
	triggerMaxLen        = 50
	patternSnippetLen    = 50
)

// BuildOpponentProfile derives the twin persona from the opponent's
// recorded turns. Returns ErrNoOpponentData when the opponent has not
// spoken yet.
func BuildOpponentProfile(history []*domain.Turn) (*domain.OpponentProfile, error) {
	var opponent []*domain.Turn
	for _, t := range history {
		if t.Speaker == domain.SpeakerOpponent {
			opponent = append(opponent, t)
		}
	}
	if len(opponent) == 0 {
		return nil, domain.ErrNoOpponentData
	}

	n := float64(len(opponent))

	var sentiment, aggression, passive float64
	var features domain.LinguisticFeatures
	for _, t := range opponent {
		s := t.Analysis.Sentiment.Score
		if t.Analysis.Sentiment.Label != "POSITIVE" {
			s = -s
		}
		sentiment += s
		aggression += t.Analysis.AggressionScore
		passive += t.Analysis.PassiveAggressionScore

		features.YouStatements += t.Analysis.Features.YouStatements
		features.IStatements += t.Analysis.Features.IStatements
		features.QuestionCount += t.Analysis.Features.QuestionCount
		features.SentenceCount += t.Analysis.Features.SentenceCount
		features.WordCount += t.Analysis.Features.WordCount
	}

	profile := &domain.OpponentProfile{
		SentimentBaseline:         sentiment / n,
		AggressionBaseline:        aggression / n,
		PassiveAggressionBaseline: passive / n,
		TriggerPhrases:            triggerPhrases(opponent),
		ResponsePatterns:          responsePatterns(history),
		Features:                  features,
	}
	profile.Style = determineStyle(profile.AggressionBaseline, profile.PassiveAggressionBaseline, features)

	return profile, nil
}

func defaultOpponentProfile() domain.OpponentProfile {
	return domain.OpponentProfile{
		Style:                     domain.StyleNeutral,
		SentimentBaseline:         0,
		AggressionBaseline:        0.3,
		PassiveAggressionBaseline: 0.2,
	}
}

func determineStyle(aggression, passive float64, f domain.LinguisticFeatures) domain.CommunicationStyle {
	switch {
	case aggression > 0.6:
		return domain.StyleAggressive
	case passive > 0.5:
		return domain.StylePassiveAggressive
	case f.YouStatements > f.IStatements*2:
		return domain.StyleAggressive
	case f.QuestionCount < 1 && aggression < 0.3:
		return domain.StyleAvoidant
	case aggression < 0.3 && passive < 0.3:
		return domain.StyleConstructive
	default:
		return domain.StyleNeutral
	}
}

func triggerPhrases(opponent []*domain.Turn) []string {
	var phrases []string
	for _, t := range opponent {
		if t.Analysis.ConflictScore > triggerConflictScore && len(t.Text) < triggerMaxLen {
			phrases = append(phrases, t.Text)
			if len(phrases) == maxTriggerPhrases {
				break
			}
		}
	}
	return phrases
}

func responsePatterns(history []*domain.Turn) []domain.ResponsePattern {
	var patterns []domain.ResponsePattern
	for i := 1; i < len(history); i++ {
		if history[i].Speaker != domain.SpeakerOpponent {
			continue
		}
		patterns = append(patterns, domain.ResponsePattern{
			Trigger:  snippet(history[i-1].Text),
			Response: snippet(history[i].Text),
		})
		if len(patterns) == maxResponsePatterns {
			break
		}
	}
	return patterns
}

func snippet(s string) string {
	if len(s) > patternSnippetLen {
		return s[:patternSnippetLen]
	}
	return s
}
