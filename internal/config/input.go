package config

import (
	"fmt"
	"os"
	"time"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"github.com/d-chambers/simplefire/internal/domain"
)

// InputParser handles parsing of plan configuration files.
type InputParser struct{}

// NewInputParser creates a new input parser.
func NewInputParser() *InputParser {
	return &InputParser{}
}

// DefaultPlan returns the stock example plan: a married couple with two
// kids, a single $75k earner, $35k of spending, 7% growth over 45 years.
func DefaultPlan() domain.Plan {
	return domain.Plan{
		StartYear:               time.Now().Year(),
		Years:                   45,
		InvestmentGrowthPercent: decimal.NewFromInt(7),
		RetireGoalMultiplier:    decimal.NewFromFloat(1.2),
		Household: domain.HouseholdConfig{
			FilingStatus:          domain.StatusMarried,
			ChildrenAges:          []int{3, 6},
			AnnualSpending:        decimal.NewFromInt(35000),
			SpendingGrowthPercent: decimal.NewFromInt(1),
		},
		Earners: []domain.EarnerConfig{{
			AnnualIncome:         decimal.NewFromInt(75000),
			IncomeGrowthPercent:  decimal.NewFromInt(1),
			EmployerMatchPercent: decimal.NewFromInt(4),
		}},
	}
}

// LoadFromFile loads a plan from a YAML file, applies defaults, and
// validates it.
func (ip *InputParser) LoadFromFile(filename string) (*domain.Plan, error) {
	raw, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %s: %w", filename, err)
	}

	var plan domain.Plan
	if err := yaml.Unmarshal(raw, &plan); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	ip.applyDefaults(&plan)
	if err := ip.ValidatePlan(&plan); err != nil {
		return nil, fmt.Errorf("plan validation failed: %w", err)
	}
	return &plan, nil
}

func (ip *InputParser) applyDefaults(plan *domain.Plan) {
	if plan.StartYear == 0 {
		plan.StartYear = time.Now().Year()
	}
	if plan.Years == 0 {
		plan.Years = 45
	}
	if plan.RetireGoalMultiplier.IsZero() {
		plan.RetireGoalMultiplier = decimal.NewFromFloat(1.2)
	}
}

// ValidatePlan validates a plan's structure and ranges.
func (ip *InputParser) ValidatePlan(plan *domain.Plan) error {
	if plan.StartYear < 1900 || plan.StartYear > 2200 {
		return fmt.Errorf("start year %d out of range", plan.StartYear)
	}
	if plan.Years < 1 || plan.Years > 100 {
		return fmt.Errorf("horizon must cover 1-100 years, got %d", plan.Years)
	}
	if plan.InvestmentGrowthPercent.LessThan(decimal.NewFromInt(-50)) ||
		plan.InvestmentGrowthPercent.GreaterThan(decimal.NewFromInt(50)) {
		return fmt.Errorf("investment growth must be between -50%% and 50%%, got %s%%", plan.InvestmentGrowthPercent)
	}
	if !plan.RetireGoalMultiplier.IsPositive() {
		return fmt.Errorf("retire goal multiplier must be positive, got %s", plan.RetireGoalMultiplier)
	}
	if err := ip.validateHousehold(&plan.Household); err != nil {
		return fmt.Errorf("household validation failed: %w", err)
	}
	if len(plan.Earners) == 0 {
		return fmt.Errorf("at least one earner is required")
	}
	if len(plan.Earners) > 2 {
		return fmt.Errorf("a household supports at most 2 earners, got %d", len(plan.Earners))
	}
	for i, earner := range plan.Earners {
		if err := ip.validateEarner(&earner); err != nil {
			return fmt.Errorf("earner %d validation failed: %w", i, err)
		}
	}
	return nil
}

func (ip *InputParser) validateHousehold(h *domain.HouseholdConfig) error {
	if _, err := domain.ParseFilingStatus(string(h.FilingStatus)); err != nil {
		return err
	}
	if h.AnnualSpending.IsNegative() {
		return fmt.Errorf("annual spending must be non-negative, got %s", h.AnnualSpending)
	}
	for _, age := range h.ChildrenAges {
		if age < 0 || age > 30 {
			return fmt.Errorf("child age %d out of range", age)
		}
	}
	return nil
}

func (ip *InputParser) validateEarner(e *domain.EarnerConfig) error {
	if e.AnnualIncome.IsNegative() {
		return fmt.Errorf("annual income must be non-negative, got %s", e.AnnualIncome)
	}
	if e.EmployerMatchPercent.IsNegative() || e.EmployerMatchPercent.GreaterThan(decimal.NewFromInt(100)) {
		return fmt.Errorf("employer match must be between 0%% and 100%%, got %s%%", e.EmployerMatchPercent)
	}
	if e.IncomeGrowthPercent.LessThan(decimal.NewFromInt(-50)) ||
		e.IncomeGrowthPercent.GreaterThan(decimal.NewFromInt(50)) {
		return fmt.Errorf("income growth must be between -50%% and 50%%, got %s%%", e.IncomeGrowthPercent)
	}
	return nil
}
