package calculation

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/d-chambers/simplefire/internal/data"
	"github.com/d-chambers/simplefire/internal/domain"
	"github.com/d-chambers/simplefire/pkg/series"
)

// Income models a single earner's wage income over the horizon. Immutable
// once constructed.
type Income struct {
	Annual       decimal.Decimal
	Growth       decimal.Decimal // annual growth percent
	MatchPercent decimal.Decimal // employer match, percent of salary
	Horizon      series.Horizon
}

// NewIncome validates and creates an earner income model.
func NewIncome(cfg domain.EarnerConfig, horizon series.Horizon) (Income, error) {
	if cfg.AnnualIncome.IsNegative() {
		return Income{}, fmt.Errorf("annual income must be non-negative, got %s", cfg.AnnualIncome)
	}
	if cfg.EmployerMatchPercent.IsNegative() {
		return Income{}, fmt.Errorf("employer match percent must be non-negative, got %s", cfg.EmployerMatchPercent)
	}
	return Income{
		Annual:       cfg.AnnualIncome,
		Growth:       cfg.IncomeGrowthPercent,
		MatchPercent: cfg.EmployerMatchPercent,
		Horizon:      horizon,
	}, nil
}

// Series returns the earner's projected wage income per year.
func (inc Income) Series() series.Series {
	return series.Grow(inc.Horizon, inc.Annual, inc.Growth)
}

// MatchSeries returns the employer match dollars per year, MatchPercent of
// each year's wage.
func (inc Income) MatchSeries() series.Series {
	return inc.Series().Scale(inc.MatchPercent.Div(hundred))
}

// FamilyTable aggregates the household's earners into per-year columns.
type FamilyTable struct {
	Horizon           series.Horizon
	Income            series.Series // total wage income
	EmployerMatch     series.Series // total employer match dollars
	MatchContribution series.Series // employee contribution required to capture the match
	ContributionLimit series.Series // total employee contribution cap across earners
}

// FamilyIncome combines one or two earner incomes. More than two earners is
// rejected: the household model covers at most a married couple.
type FamilyIncome struct {
	Earners []Income
	Horizon series.Horizon
}

// NewFamilyIncome builds the family income model from earner configs.
func NewFamilyIncome(earners []domain.EarnerConfig, horizon series.Horizon) (*FamilyIncome, error) {
	if len(earners) == 0 {
		return nil, fmt.Errorf("at least one earner is required")
	}
	if len(earners) > 2 {
		return nil, fmt.Errorf("a household supports at most 2 earners, got %d", len(earners))
	}
	fi := &FamilyIncome{Horizon: horizon}
	for i, cfg := range earners {
		inc, err := NewIncome(cfg, horizon)
		if err != nil {
			return nil, fmt.Errorf("earner %d: %w", i, err)
		}
		fi.Earners = append(fi.Earners, inc)
	}
	return fi, nil
}

// Table computes the aggregate per-year columns. The employer plan limit
// comes from the external dataset, extended to the horizon and summed across
// earners. Match capture is modeled dollar-for-dollar up to the match
// percent of salary.
func (fi *FamilyIncome) Table() (FamilyTable, error) {
	limits, err := data.ReadTable("employer_plan_limit", "", fi.Horizon)
	if err != nil {
		return FamilyTable{}, fmt.Errorf("failed to read employer plan limits: %w", err)
	}

	table := FamilyTable{
		Horizon:           fi.Horizon,
		Income:            series.New(fi.Horizon),
		EmployerMatch:     series.New(fi.Horizon),
		MatchContribution: series.New(fi.Horizon),
		ContributionLimit: series.New(fi.Horizon),
	}
	for _, inc := range fi.Earners {
		if table.Income, err = table.Income.Add(inc.Series()); err != nil {
			return FamilyTable{}, err
		}
		match := inc.MatchSeries()
		if table.EmployerMatch, err = table.EmployerMatch.Add(match); err != nil {
			return FamilyTable{}, err
		}
		if table.MatchContribution, err = table.MatchContribution.Add(match); err != nil {
			return FamilyTable{}, err
		}
	}
	earnerCount := decimal.NewFromInt(int64(len(fi.Earners)))
	for _, year := range fi.Horizon.Years() {
		if err := table.ContributionLimit.Set(year, limits.Amount(year).Mul(earnerCount)); err != nil {
			return FamilyTable{}, err
		}
	}
	return table, nil
}
