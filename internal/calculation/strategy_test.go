package calculation

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/d-chambers/simplefire/internal/domain"
)

func testPlan() domain.Plan {
	return domain.Plan{
		StartYear:               2020,
		Years:                   45,
		InvestmentGrowthPercent: decimal.NewFromInt(7),
		Household: domain.HouseholdConfig{
			FilingStatus:          domain.StatusMarried,
			ChildrenAges:          []int{5, 8},
			AnnualSpending:        decimal.NewFromInt(35000),
			SpendingGrowthPercent: decimal.NewFromInt(2),
		},
		Earners: []domain.EarnerConfig{
			{
				AnnualIncome:         decimal.NewFromInt(120000),
				IncomeGrowthPercent:  decimal.NewFromInt(1),
				EmployerMatchPercent: decimal.NewFromInt(5),
			},
			{
				AnnualIncome:         decimal.NewFromInt(60000),
				IncomeGrowthPercent:  decimal.NewFromInt(1),
				EmployerMatchPercent: decimal.NewFromInt(4),
			},
		},
	}
}

func TestNewTaxEvasionStrategyValidation(t *testing.T) {
	plan := testPlan()
	plan.Years = 0
	_, err := NewTaxEvasionStrategy(plan)
	assert.Error(t, err, "Should reject empty horizon")

	plan = testPlan()
	plan.Household.FilingStatus = "confused"
	_, err = NewTaxEvasionStrategy(plan)
	assert.Error(t, err)

	plan = testPlan()
	plan.RetireGoalMultiplier = decimal.NewFromInt(-1)
	_, err = NewTaxEvasionStrategy(plan)
	assert.Error(t, err)
}

func TestStartFireFullHorizon(t *testing.T) {
	strategy, err := NewTaxEvasionStrategy(testPlan())
	require.NoError(t, err)

	result, err := strategy.StartFire()
	require.NoError(t, err)

	assert.Len(t, result.Rows, 45)
	require.Len(t, result.Ledgers, 4)

	// Every account's table must be fully populated: no open years left.
	for _, ledger := range result.Ledgers {
		assert.Len(t, ledger.Years, 45, "account %s", ledger.Kind)
		for _, yr := range ledger.Years {
			assert.True(t, yr.Closed, "account %s year %d left open", ledger.Kind, yr.Year)
			assert.True(t, yr.EndBalance.Equal(yr.StartBalance.Add(yr.Transfer).Add(yr.Gains).Add(yr.Contribution)),
				"account %s year %d ledger identity", ledger.Kind, yr.Year)
			assert.False(t, yr.Basis.IsNegative(), "account %s year %d basis", ledger.Kind, yr.Year)
		}
	}
}

func TestRetirementHappensExactlyOnce(t *testing.T) {
	strategy, err := NewTaxEvasionStrategy(testPlan())
	require.NoError(t, err)

	result, err := strategy.StartFire()
	require.NoError(t, err)

	require.True(t, result.Retired, "a high-saving household should reach the trigger")
	require.Greater(t, result.RetirementYear, 2020)

	transitions := 0
	for i := 1; i < len(result.Rows); i++ {
		if result.Rows[i].Retired && !result.Rows[i-1].Retired {
			transitions++
		}
		if result.Rows[i-1].Retired {
			assert.True(t, result.Rows[i].Retired, "retirement is one-way")
		}
	}
	assert.Equal(t, 1, transitions)
}

func TestRetirementTriggerThreshold(t *testing.T) {
	strategy, err := NewTaxEvasionStrategy(testPlan())
	require.NoError(t, err)

	result, err := strategy.StartFire()
	require.NoError(t, err)
	require.True(t, result.Retired)

	// The year the trigger fired must show passive income above 1.2x spending.
	var triggerRow domain.YearRow
	for _, row := range result.Rows {
		if row.Year == result.RetirementYear {
			triggerRow = row
			break
		}
	}
	goal := triggerRow.Spending.Mul(decimal.NewFromFloat(1.2))
	assert.True(t, triggerRow.PassiveIncome.GreaterThan(goal),
		"passive %s vs goal %s", triggerRow.PassiveIncome, goal)
}

func TestEmployerPlanRolledOverAtRetirement(t *testing.T) {
	strategy, err := NewTaxEvasionStrategy(testPlan())
	require.NoError(t, err)

	result, err := strategy.StartFire()
	require.NoError(t, err)
	require.True(t, result.Retired)

	var employer, tradIRA domain.AccountLedger
	for _, ledger := range result.Ledgers {
		switch ledger.Kind {
		case domain.AccountPreTaxEmployer:
			employer = ledger
		case domain.AccountTraditionalIRA:
			tradIRA = ledger
		}
	}

	// The rollover year and every year after it close the employer plan at
	// exactly zero: a trustee transfer moves the whole balance, including the
	// growth the money earns that year, into the traditional IRA.
	rolloverIdx := result.RetirementYear - result.StartYear + 1
	if rolloverIdx < len(employer.Years) {
		rolled := employer.Years[rolloverIdx].Transfer.Neg()
		assert.True(t, rolled.IsPositive(), "rollover should move a positive balance")
		for _, yr := range employer.Years[rolloverIdx:] {
			assert.True(t, yr.EndBalance.IsZero(),
				"employer plan should be emptied, got %s in year %d", yr.EndBalance, yr.Year)
		}
		assert.True(t, tradIRA.Years[rolloverIdx].Transfer.Equal(rolled),
			"traditional IRA should receive the full rolled balance")
	}
}

func TestRetiredYearsFundSpending(t *testing.T) {
	strategy, err := NewTaxEvasionStrategy(testPlan())
	require.NoError(t, err)

	result, err := strategy.StartFire()
	require.NoError(t, err)
	require.True(t, result.Retired)

	for _, row := range result.Rows {
		if !row.Retired || row.Year == result.RetirementYear {
			continue
		}
		assert.True(t, row.SpendingWithdrawn.Equal(row.Spending),
			"year %d: withdrew %s of %s", row.Year, row.SpendingWithdrawn, row.Spending)
		assert.True(t, row.Income.IsZero(), "no wage income once retired")
	}
}

func TestHarvestNeverExceedsHeadroom(t *testing.T) {
	strategy, err := NewTaxEvasionStrategy(testPlan())
	require.NoError(t, err)

	result, err := strategy.StartFire()
	require.NoError(t, err)

	hh, err := NewHousehold(testPlan().Household, mustHorizon(t, 2020, 45))
	require.NoError(t, err)
	for _, row := range result.Rows {
		headroom := hh.TaxFreeCapitalGains().Get(row.Year)
		// Spending withdrawals may realize gains beyond the 0% window, but
		// the harvest itself only ever fills what the window has left.
		remaining := decimal.Max(headroom.Sub(row.TaxableRealized), decimal.Zero)
		assert.True(t, row.HarvestedGains.LessThanOrEqual(remaining.Add(decimal.NewFromFloat(0.01))),
			"year %d: harvested %s over remaining headroom %s", row.Year, row.HarvestedGains, remaining)
	}
}

func TestLowIncomeNeverRetires(t *testing.T) {
	plan := testPlan()
	plan.Earners = []domain.EarnerConfig{{
		AnnualIncome:        decimal.NewFromInt(36000),
		IncomeGrowthPercent: decimal.NewFromInt(1),
	}}
	plan.Years = 10

	strategy, err := NewTaxEvasionStrategy(plan)
	require.NoError(t, err)

	result, err := strategy.StartFire()
	require.NoError(t, err)
	assert.False(t, result.Retired)
	assert.Zero(t, result.RetirementYear)
	assert.Len(t, result.Rows, 10)
}
