package domain

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// FilingStatus is a federal tax filing status.
type FilingStatus string

const (
	StatusSingle          FilingStatus = "single"
	StatusMarried         FilingStatus = "married"
	StatusHeadOfHousehold FilingStatus = "head_of_household"
)

// ParseFilingStatus validates a filing status string.
func ParseFilingStatus(s string) (FilingStatus, error) {
	switch FilingStatus(s) {
	case StatusSingle, StatusMarried, StatusHeadOfHousehold:
		return FilingStatus(s), nil
	}
	return "", fmt.Errorf("invalid filing status %q (want single, married or head_of_household)", s)
}

// EarnerConfig describes one wage earner.
type EarnerConfig struct {
	AnnualIncome         decimal.Decimal `yaml:"annual_income"`
	IncomeGrowthPercent  decimal.Decimal `yaml:"income_growth_percent"`
	EmployerMatchPercent decimal.Decimal `yaml:"employer_match_percent"`
}

// HouseholdConfig describes the household's filing situation and spending.
type HouseholdConfig struct {
	FilingStatus          FilingStatus    `yaml:"filing_status"`
	ChildrenAges          []int           `yaml:"children_ages"`
	AnnualSpending        decimal.Decimal `yaml:"annual_spending"`
	SpendingGrowthPercent decimal.Decimal `yaml:"spending_growth_percent"`
}

// Plan is the full input to a simulation run.
type Plan struct {
	StartYear               int             `yaml:"start_year"`
	Years                   int             `yaml:"years"`
	InvestmentGrowthPercent decimal.Decimal `yaml:"investment_growth_percent"`
	RetireGoalMultiplier    decimal.Decimal `yaml:"retire_goal_multiplier"`
	Household               HouseholdConfig `yaml:"household"`
	Earners                 []EarnerConfig  `yaml:"earners"`
}
