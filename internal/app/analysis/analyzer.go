package analysis

import (
	"context"
	"fmt"

	"github.com/inesrocha/temper/internal/domain"
	"github.com/inesrocha/temper/internal/observability"
	"github.com/inesrocha/temper/internal/scoring"
	"github.com/inesrocha/temper/internal/signals"
)

// Analyzer combines the inference client with the rule-based detectors
// and the scoring kernels. It holds no mutable state; the same input
// always produces the same assessment.
type Analyzer struct {
	inference domain.InferenceClient
}

func NewAnalyzer(inference domain.InferenceClient) *Analyzer {
	return &Analyzer{inference: inference}
}

// AnalyzeTurn produces the full per-message signal set for one turn.
func (a *Analyzer) AnalyzeTurn(ctx context.Context, text string) (domain.TurnAnalysis, error) {
	sentiment, err := a.inference.Sentiment(ctx, text)
	if err != nil {
		return domain.TurnAnalysis{}, fmt.Errorf("sentiment inference: %w", err)
	}

	emotions, err := a.inference.Emotions(ctx, text)
	if err != nil {
		return domain.TurnAnalysis{}, fmt.Errorf("emotion inference: %w", err)
	}

	passive := signals.PassiveAggression(text, emotions)
	biases := signals.DetectBiases(text)
	features := signals.ExtractFeatures(text)

	conflict := scoring.TurnScore(emotions.Aggression, passive, sentiment.Polarity, biases)

	return domain.TurnAnalysis{
		Sentiment:              sentiment,
		Emotions:               emotions,
		AggressionScore:        emotions.Aggression,
		PassiveAggressionScore: passive,
		ConflictScore:          conflict,
		BiasTags:               biases,
		Features:               features,
	}, nil
}

// AnalyzeConversation derives the session-level assessment from the
// ordered turn history. Empty history is ErrInsufficientData; a
// non-chronological history is ErrValidation.
func (a *Analyzer) AnalyzeConversation(ctx context.Context, turns []*domain.Turn) (domain.Assessment, error) {
	if len(turns) == 0 {
		return domain.Assessment{}, domain.ErrInsufficientData
	}

	log := observability.LoggerFromContext(ctx).With(
		"session_id", turns[0].SessionID,
		"turn_count", len(turns),
	)

	scores := make([]float64, len(turns))
	var passiveSum, aggressionSum, maxConflict float64
	var allBiases []domain.BiasTag

	prevIndex := -1
	for i, t := range turns {
		if t.Index <= prevIndex {
			return domain.Assessment{}, fmt.Errorf("%w: turn %d out of order (index %d after %d)",
				domain.ErrValidation, i, t.Index, prevIndex)
		}
		prevIndex = t.Index

		scores[i] = t.Analysis.ConflictScore
		passiveSum += t.Analysis.PassiveAggressionScore
		aggressionSum += t.Analysis.AggressionScore
		if t.Analysis.ConflictScore > maxConflict {
			maxConflict = t.Analysis.ConflictScore
		}
		allBiases = append(allBiases, t.Analysis.BiasTags...)
	}

	res, err := scoring.Escalation(scores)
	if err != nil {
		return domain.Assessment{}, err
	}

	n := float64(len(turns))
	assessment := domain.Assessment{
		OverallConflictScore:   res.OverallConflictScore,
		EscalationProbability:  res.EscalationProbability,
		PassiveAggressionIndex: passiveSum / n,
		Trend:                  res.Trend,
		CognitiveBiases:        allBiases,
		NVC:                    nvcFromTurn(turns[len(turns)-1]),
		Metrics: domain.ConversationMetrics{
			AvgAggression: aggressionSum / n,
			MaxConflict:   maxConflict,
			TotalBiases:   len(allBiases),
		},
	}
	assessment.Recommendations = recommend(assessment.OverallConflictScore, assessment.EscalationProbability, allBiases)

	log.Info("conversation analyzed",
		"overall_conflict", assessment.OverallConflictScore,
		"escalation_probability", assessment.EscalationProbability,
		"trend", assessment.Trend,
	)

	return assessment, nil
}
