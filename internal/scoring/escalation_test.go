package scoring

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inesrocha/temper/internal/domain"
)

func TestEscalationEmptyHistory(t *testing.T) {
	_, err := Escalation(nil)
	require.ErrorIs(t, err, domain.ErrInsufficientData)

	_, err = Escalation([]float64{})
	require.ErrorIs(t, err, domain.ErrInsufficientData)
}

func TestEscalationSingleTurn(t *testing.T) {
	for _, v := range []float64{0, 0.25, 0.5, 1} {
		res, err := Escalation([]float64{v})
		require.NoError(t, err)

		assert.InDelta(t, 0.4*v, res.EscalationProbability, 1e-12)
		assert.Equal(t, domain.TrendStable, res.Trend)
		assert.Zero(t, res.Slope)
		assert.Zero(t, res.Volatility)
		assert.Equal(t, v, res.OverallConflictScore)
	}
}

func TestEscalationIncreasingSequence(t *testing.T) {
	up := []float64{0.1, 0.3, 0.5, 0.7, 0.9}
	down := []float64{0.9, 0.7, 0.5, 0.3, 0.1}

	upRes, err := Escalation(up)
	require.NoError(t, err)
	downRes, err := Escalation(down)
	require.NoError(t, err)

	assert.Equal(t, domain.TrendEscalating, upRes.Trend)
	assert.Equal(t, domain.TrendDeEscalating, downRes.Trend)
	assert.Greater(t, upRes.EscalationProbability, downRes.EscalationProbability)

	// Both directions share the same mean and volatility; only the
	// slope term separates them.
	assert.InDelta(t, upRes.RecentAvg, downRes.RecentAvg, 1e-12)
	assert.InDelta(t, upRes.Volatility, downRes.Volatility, 1e-12)
	assert.InDelta(t, upRes.Slope, -downRes.Slope, 1e-12)
}

func TestEscalationConstantSequence(t *testing.T) {
	res, err := Escalation([]float64{0.4, 0.4, 0.4, 0.4})
	require.NoError(t, err)

	assert.Equal(t, domain.TrendStable, res.Trend)
	assert.Zero(t, res.Slope)
	assert.Zero(t, res.Volatility)
	// With slope and volatility at zero only the recent average remains.
	assert.InDelta(t, 0.4*0.4, res.EscalationProbability, 1e-12)
}

func TestEscalationUsesRecentWindow(t *testing.T) {
	// Ten turns; only the last five (all 0.2) should feed the window
	// terms, while the overall score still covers the full history.
	history := []float64{1, 1, 1, 1, 1, 0.2, 0.2, 0.2, 0.2, 0.2}

	res, err := Escalation(history)
	require.NoError(t, err)

	assert.InDelta(t, 0.2, res.RecentAvg, 1e-12)
	assert.Zero(t, res.Slope)
	assert.Zero(t, res.Volatility)
	assert.InDelta(t, 0.6, res.OverallConflictScore, 1e-12)
	assert.Equal(t, domain.TrendStable, res.Trend)
}

func TestEscalationIdempotent(t *testing.T) {
	history := []float64{0.2, 0.8, 0.1, 0.9, 0.5, 0.6}

	first, err := Escalation(history)
	require.NoError(t, err)
	second, err := Escalation(history)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestEscalationBoundedUnderAdversarialInput(t *testing.T) {
	cases := map[string][]float64{
		"all ones":    {1, 1, 1, 1, 1, 1, 1},
		"all zeros":   {0, 0, 0, 0, 0, 0, 0},
		"alternating": {0, 1, 0, 1, 0, 1, 0, 1},
		"spike":       {0, 0, 0, 0, 1},
		"cliff":       {1, 1, 1, 1, 0},
	}

	for name, history := range cases {
		res, err := Escalation(history)
		require.NoError(t, err, name)

		assert.GreaterOrEqual(t, res.EscalationProbability, 0.0, name)
		assert.LessOrEqual(t, res.EscalationProbability, 1.0, name)
	}
}

func TestEscalationRejectsOutOfRangeScores(t *testing.T) {
	for name, history := range map[string][]float64{
		"above one": {0.2, 1.5},
		"negative":  {-0.1, 0.3},
	} {
		_, err := Escalation(history)
		assert.ErrorIs(t, err, domain.ErrValidation, name)
	}
}

func TestEscalationWeightsSumToOne(t *testing.T) {
	assert.Equal(t, 1.0, weightRecentAvg+weightSlope+weightVolatility)
}

func TestClassifyTrendEpsilon(t *testing.T) {
	assert.Equal(t, domain.TrendStable, classifyTrend(TrendEpsilon))
	assert.Equal(t, domain.TrendStable, classifyTrend(-TrendEpsilon))
	assert.Equal(t, domain.TrendEscalating, classifyTrend(TrendEpsilon+1e-9))
	assert.Equal(t, domain.TrendDeEscalating, classifyTrend(-TrendEpsilon-1e-9))
	assert.Equal(t, domain.TrendStable, classifyTrend(0))
}

func TestRegressionSlope(t *testing.T) {
	// Perfectly linear data recovers the exact step.
	assert.InDelta(t, 0.2, regressionSlope([]float64{0.1, 0.3, 0.5, 0.7, 0.9}), 1e-12)
	assert.InDelta(t, -0.2, regressionSlope([]float64{0.9, 0.7, 0.5, 0.3, 0.1}), 1e-12)
	assert.Zero(t, regressionSlope([]float64{0.5}))
}
