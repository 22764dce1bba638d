// Package scoring holds the numeric kernels of the conflict analyzer:
// the per-turn conflict score and the session-level escalation/trend
// model. Everything here is pure computation over validated input.
package scoring

import (
	"fmt"
	"math"

	"github.com/inesrocha/temper/internal/domain"
)

// Escalation model constants. Fixed so results are reproducible.
const (
	// Window is how many of the most recent turns feed the model. With
	// fewer turns available, the whole history is used.
	Window = 5

	// slopeScale maps the raw per-turn regression slope into [0,1]:
	// +0.1 conflict per turn counts as a maximal escalating trend.
	slopeScale = 10.0

	// volatilityScale maps the window's standard deviation into [0,1].
	// Scores are bounded to [0,1], so the stddev can reach at most 0.5.
	volatilityScale = 2.0

	// TrendEpsilon is the dead zone around zero slope: within ±ε per
	// turn the trend reads stable. The same ε (and the same raw slope)
	// backs both the trend label and the escalation formula.
	TrendEpsilon = 0.05
)

// Escalation formula weights. They must sum to 1.
const (
	weightRecentAvg  = 0.4
	weightSlope      = 0.4
	weightVolatility = 0.2
)

// Result is the outcome of the escalation model for one session history.
type Result struct {
	EscalationProbability float64
	Trend                 domain.Trend
	OverallConflictScore  float64

	// Window terms, exposed for display and tests.
	RecentAvg  float64
	Slope      float64 // raw, sign-preserving, per turn
	Volatility float64 // raw stddev over the window
}

// Escalation computes the escalation probability and trend label from a
// session's chronologically ordered conflict scores. It is a pure
// function of its input: the same history yields a bit-identical result.
//
// An empty history is ErrInsufficientData; a score outside [0,1] is
// ErrValidation (upstream corruption is not clamped away).
func Escalation(scores []float64) (Result, error) {
	if len(scores) == 0 {
		return Result{}, domain.ErrInsufficientData
	}
	for i, v := range scores {
		if math.IsNaN(v) || v < 0 || v > 1 {
			return Result{}, fmt.Errorf("%w: conflict score %v at turn %d outside [0,1]", domain.ErrValidation, v, i)
		}
	}

	window := scores
	if len(window) > Window {
		window = window[len(window)-Window:]
	}

	recentAvg := mean(window)
	slope := regressionSlope(window)
	vol := stddev(window)

	// Only a worsening trend contributes: negative slopes clamp to 0.
	p := weightRecentAvg*recentAvg +
		weightSlope*clamp01(slope*slopeScale) +
		weightVolatility*clamp01(vol*volatilityScale)

	return Result{
		EscalationProbability: clamp01(p),
		Trend:                 classifyTrend(slope),
		OverallConflictScore:  mean(scores),
		RecentAvg:             recentAvg,
		Slope:                 slope,
		Volatility:            vol,
	}, nil
}

func classifyTrend(slope float64) domain.Trend {
	switch {
	case slope > TrendEpsilon:
		return domain.TrendEscalating
	case slope < -TrendEpsilon:
		return domain.TrendDeEscalating
	default:
		return domain.TrendStable
	}
}

// regressionSlope is the least-squares slope of score against turn
// position within the window. A single sample has no defined slope and
// yields 0.
func regressionSlope(ys []float64) float64 {
	n := len(ys)
	if n < 2 {
		return 0
	}

	xMean := float64(n-1) / 2
	yMean := mean(ys)

	var num, den float64
	for i, y := range ys {
		dx := float64(i) - xMean
		num += dx * (y - yMean)
		den += dx * dx
	}
	return num / den
}

func mean(vs []float64) float64 {
	if len(vs) == 0 {
		return 0
	}
	var sum float64
	for _, v := range vs {
		sum += v
	}
	return sum / float64(len(vs))
}

// stddev is the population standard deviation.
func stddev(vs []float64) float64 {
	if len(vs) < 2 {
		return 0
	}
	m := mean(vs)
	var sum float64
	for _, v := range vs {
		d := v - m
		sum += d * d
	}
	return math.Sqrt(sum / float64(len(vs)))
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
