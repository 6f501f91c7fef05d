package calculation

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMonteCarloZeroVarianceMatchesDeterministic(t *testing.T) {
	plan := testPlan()

	strategy, err := NewTaxEvasionStrategy(plan)
	require.NoError(t, err)
	baseline, err := strategy.StartFire()
	require.NoError(t, err)

	cfg := MonteCarloConfig{Simulations: 8, Seed: 42}
	result, err := RunMonteCarlo(plan, cfg)
	require.NoError(t, err)

	assert.Equal(t, 8, result.Simulations)
	assert.True(t, result.SuccessRate.Equal(decimal.NewFromInt(1)))
	for _, run := range result.Runs {
		assert.Equal(t, baseline.RetirementYear, run.RetirementYear)
		assert.True(t, run.FinalNetWorth.Equal(baseline.FinalNetWorth()))
	}
	assert.Equal(t, baseline.RetirementYear, result.RetirementYears.P50)
}

func TestMonteCarloReproducibleWithSeed(t *testing.T) {
	plan := testPlan()
	cfg := DefaultMonteCarloConfig(7)
	cfg.Simulations = 16

	first, err := RunMonteCarlo(plan, cfg)
	require.NoError(t, err)
	second, err := RunMonteCarlo(plan, cfg)
	require.NoError(t, err)

	require.Len(t, second.Runs, len(first.Runs))
	for i := range first.Runs {
		assert.True(t, first.Runs[i].GrowthPercent.Equal(second.Runs[i].GrowthPercent), "run %d", i)
		assert.Equal(t, first.Runs[i].RetirementYear, second.Runs[i].RetirementYear, "run %d", i)
	}
}

func TestMonteCarloRejectsBadConfig(t *testing.T) {
	_, err := RunMonteCarlo(testPlan(), MonteCarloConfig{Simulations: 0})
	assert.Error(t, err)

	plan := testPlan()
	plan.Years = 0
	_, err = RunMonteCarlo(plan, MonteCarloConfig{Simulations: 4})
	assert.Error(t, err, "Should surface plan validation errors before fanning out")
}

func TestPercentileInt(t *testing.T) {
	sorted := []int{2024, 2025, 2026, 2027, 2028}
	assert.Equal(t, 2024, percentileInt(sorted, 10))
	assert.Equal(t, 2026, percentileInt(sorted, 50))
	assert.Equal(t, 2027, percentileInt(sorted, 90))
	assert.Equal(t, 0, percentileInt(nil, 50))
}
