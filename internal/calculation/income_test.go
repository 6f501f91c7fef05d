package calculation

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/d-chambers/simplefire/internal/domain"
)

func earner(income, growth, match int64) domain.EarnerConfig {
	return domain.EarnerConfig{
		AnnualIncome:         decimal.NewFromInt(income),
		IncomeGrowthPercent:  decimal.NewFromInt(growth),
		EmployerMatchPercent: decimal.NewFromInt(match),
	}
}

func TestIncomeSeries(t *testing.T) {
	h := mustHorizon(t, 2020, 3)
	inc, err := NewIncome(earner(75000, 1, 5), h)
	require.NoError(t, err)

	s := inc.Series()
	assert.True(t, s.Get(2020).Equal(decimal.NewFromInt(75000)))
	assert.True(t, s.Get(2021).Equal(decimal.NewFromInt(75750)))

	match := inc.MatchSeries()
	assert.True(t, match.Get(2020).Equal(decimal.NewFromInt(3750)), "5%% of salary")
}

func TestNewIncomeValidation(t *testing.T) {
	h := mustHorizon(t, 2020, 1)

	_, err := NewIncome(earner(-1, 0, 0), h)
	assert.Error(t, err)

	_, err = NewIncome(earner(1000, 0, -5), h)
	assert.Error(t, err)
}

func TestFamilyIncomeRejectsTooManyEarners(t *testing.T) {
	h := mustHorizon(t, 2020, 1)

	_, err := NewFamilyIncome(nil, h)
	assert.Error(t, err, "Should require at least one earner")

	three := []domain.EarnerConfig{earner(1, 0, 0), earner(2, 0, 0), earner(3, 0, 0)}
	_, err = NewFamilyIncome(three, h)
	assert.Error(t, err, "Should reject more than two earners")
}

func TestFamilyTableAggregates(t *testing.T) {
	h := mustHorizon(t, 2020, 2)
	fi, err := NewFamilyIncome([]domain.EarnerConfig{
		earner(75000, 0, 4),
		earner(50000, 0, 5),
	}, h)
	require.NoError(t, err)

	table, err := fi.Table()
	require.NoError(t, err)

	assert.True(t, table.Income.Get(2020).Equal(decimal.NewFromInt(125000)))
	// 4% of 75k + 5% of 50k = 3000 + 2500
	assert.True(t, table.EmployerMatch.Get(2020).Equal(decimal.NewFromInt(5500)))
	assert.True(t, table.MatchContribution.Get(2020).Equal(decimal.NewFromInt(5500)))
	// Two earners, $19,500 cap each.
	assert.True(t, table.ContributionLimit.Get(2020).Equal(decimal.NewFromInt(39000)))
}

func TestFamilyTableSingleEarnerLimit(t *testing.T) {
	h := mustHorizon(t, 2020, 1)
	fi, err := NewFamilyIncome([]domain.EarnerConfig{earner(75000, 1, 0)}, h)
	require.NoError(t, err)

	table, err := fi.Table()
	require.NoError(t, err)
	assert.True(t, table.ContributionLimit.Get(2020).Equal(decimal.NewFromInt(19500)))
	assert.True(t, table.EmployerMatch.Get(2020).IsZero())
}
