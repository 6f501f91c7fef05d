package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/d-chambers/simplefire/internal/domain"
)

func writePlanFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "plan.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadFromFile(t *testing.T) {
	path := writePlanFile(t, `
start_year: 2020
years: 30
investment_growth_percent: 7
household:
  filing_status: married
  children_ages: [4, 9]
  annual_spending: 40000
  spending_growth_percent: 2
earners:
  - annual_income: 95000
    income_growth_percent: 1
    employer_match_percent: 5
  - annual_income: 55000
    income_growth_percent: 1
    employer_match_percent: 4
`)

	parser := NewInputParser()
	plan, err := parser.LoadFromFile(path)
	require.NoError(t, err)

	assert.Equal(t, 2020, plan.StartYear)
	assert.Equal(t, 30, plan.Years)
	assert.Equal(t, domain.StatusMarried, plan.Household.FilingStatus)
	assert.Len(t, plan.Earners, 2)
	assert.True(t, plan.Earners[0].AnnualIncome.Equal(decimal.NewFromInt(95000)))

	// Defaulted by the parser.
	assert.True(t, plan.RetireGoalMultiplier.Equal(decimal.NewFromFloat(1.2)))
}

func TestLoadFromFileMissing(t *testing.T) {
	parser := NewInputParser()
	_, err := parser.LoadFromFile("does_not_exist.yaml")
	assert.Error(t, err)
}

func TestLoadFromFileBadYAML(t *testing.T) {
	path := writePlanFile(t, "earners: [not: valid: yaml")
	parser := NewInputParser()
	_, err := parser.LoadFromFile(path)
	assert.ErrorContains(t, err, "failed to parse YAML")
}

func TestValidatePlan(t *testing.T) {
	parser := NewInputParser()

	tests := []struct {
		name    string
		mutate  func(p *domain.Plan)
		wantErr string
	}{
		{
			name:   "default plan is valid",
			mutate: func(p *domain.Plan) {},
		},
		{
			name:    "invalid filing status",
			mutate:  func(p *domain.Plan) { p.Household.FilingStatus = "married_but_single" },
			wantErr: "invalid filing status",
		},
		{
			name:    "no earners",
			mutate:  func(p *domain.Plan) { p.Earners = nil },
			wantErr: "at least one earner",
		},
		{
			name: "too many earners",
			mutate: func(p *domain.Plan) {
				p.Earners = append(p.Earners, p.Earners[0], p.Earners[0])
			},
			wantErr: "at most 2 earners",
		},
		{
			name:    "negative income",
			mutate:  func(p *domain.Plan) { p.Earners[0].AnnualIncome = decimal.NewFromInt(-1) },
			wantErr: "annual income must be non-negative",
		},
		{
			name:    "negative spending",
			mutate:  func(p *domain.Plan) { p.Household.AnnualSpending = decimal.NewFromInt(-500) },
			wantErr: "annual spending must be non-negative",
		},
		{
			name:    "horizon too long",
			mutate:  func(p *domain.Plan) { p.Years = 150 },
			wantErr: "1-100 years",
		},
		{
			name:    "match over 100 percent",
			mutate:  func(p *domain.Plan) { p.Earners[0].EmployerMatchPercent = decimal.NewFromInt(120) },
			wantErr: "employer match",
		},
		{
			name:    "zero goal multiplier",
			mutate:  func(p *domain.Plan) { p.RetireGoalMultiplier = decimal.Zero },
			wantErr: "retire goal multiplier",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			plan := DefaultPlan()
			tc.mutate(&plan)
			err := parser.ValidatePlan(&plan)
			if tc.wantErr == "" {
				assert.NoError(t, err)
			} else {
				assert.ErrorContains(t, err, tc.wantErr)
			}
		})
	}
}
