package calculation

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/d-chambers/simplefire/internal/data"
	"github.com/d-chambers/simplefire/internal/domain"
	"github.com/d-chambers/simplefire/pkg/series"
)

const childCreditAgeCutoff = 18

var two = decimal.NewFromInt(2)

// Household derives the per-year tax position of the family: spending,
// the tax-free income threshold, IRA limits, and the 0%-bracket capital
// gains headroom. All series are computed once at construction.
type Household struct {
	Status       domain.FilingStatus
	ChildrenAges []int
	Horizon      series.Horizon

	spending            series.Series
	taxFreeIncome       series.Series
	iraLimit            series.Series
	taxFreeCapitalGains series.Series
}

// NewHousehold builds the household model, reading the deduction, credit and
// limit datasets and converting credits to income equivalents.
func NewHousehold(cfg domain.HouseholdConfig, horizon series.Horizon) (*Household, error) {
	status, err := domain.ParseFilingStatus(string(cfg.FilingStatus))
	if err != nil {
		return nil, err
	}
	if cfg.AnnualSpending.IsNegative() {
		return nil, fmt.Errorf("annual spending must be non-negative, got %s", cfg.AnnualSpending)
	}
	for _, age := range cfg.ChildrenAges {
		if age < 0 {
			return nil, fmt.Errorf("child age must be non-negative, got %d", age)
		}
	}

	h := &Household{
		Status:       status,
		ChildrenAges: append([]int(nil), cfg.ChildrenAges...),
		Horizon:      horizon,
		spending:     series.Grow(horizon, cfg.AnnualSpending, cfg.SpendingGrowthPercent),
	}

	if err := h.deriveTaxFreeIncome(); err != nil {
		return nil, err
	}
	if err := h.deriveIRALimit(); err != nil {
		return nil, err
	}
	if err := h.deriveTaxFreeCapitalGains(); err != nil {
		return nil, err
	}
	return h, nil
}

// Spending returns projected annual spending.
func (h *Household) Spending() series.Series { return h.spending }

// TaxFreeIncome returns the income threshold below which no federal tax is
// owed: standard deduction plus the income equivalent of claimable child tax
// credits. Always at least the standard deduction.
func (h *Household) TaxFreeIncome() series.Series { return h.taxFreeIncome }

// IRALimit returns the household's total IRA contribution limit per year.
func (h *Household) IRALimit() series.Series { return h.iraLimit }

// TaxFreeCapitalGains returns the gains realizable each year within the 0%
// capital-gains bracket.
func (h *Household) TaxFreeCapitalGains() series.Series { return h.taxFreeCapitalGains }

// EligibleChildren counts children aged 18 or under in the given year.
func (h *Household) EligibleChildren(year int) int {
	elapsed := year - h.Horizon.Start
	count := 0
	for _, age := range h.ChildrenAges {
		if age+elapsed <= childCreditAgeCutoff {
			count++
		}
	}
	return count
}

func (h *Household) deriveTaxFreeIncome() error {
	deduction, err := data.ReadTable("standard_deduction", h.Status, h.Horizon)
	if err != nil {
		return fmt.Errorf("failed to read standard deduction: %w", err)
	}
	credit, err := data.ReadTable("child_tax_credit", "", h.Horizon)
	if err != nil {
		return fmt.Errorf("failed to read child tax credit: %w", err)
	}
	incomeTable, err := data.ReadTable("income", h.Status, h.Horizon)
	if err != nil {
		return fmt.Errorf("failed to read income brackets: %w", err)
	}

	credits := series.New(h.Horizon)
	for _, year := range h.Horizon.Years() {
		kids := decimal.NewFromInt(int64(h.EligibleChildren(year)))
		if err := credits.Set(year, credit.Amount(year).Mul(kids)); err != nil {
			return err
		}
	}
	creditIncome, err := TaxToIncome(credits, incomeTable)
	if err != nil {
		return fmt.Errorf("failed to convert child credits to income: %w", err)
	}

	h.taxFreeIncome = series.New(h.Horizon)
	for _, year := range h.Horizon.Years() {
		total := deduction.Amount(year).Add(creditIncome.Get(year))
		if err := h.taxFreeIncome.Set(year, total); err != nil {
			return err
		}
	}
	return nil
}

func (h *Household) deriveIRALimit() error {
	limits, err := data.ReadTable("ira_limit", "", h.Horizon)
	if err != nil {
		return fmt.Errorf("failed to read IRA limits: %w", err)
	}
	h.iraLimit = series.New(h.Horizon)
	for _, year := range h.Horizon.Years() {
		limit := limits.Amount(year)
		if h.Status == domain.StatusMarried {
			// Two spouses, two IRAs.
			limit = limit.Mul(two)
		}
		if err := h.iraLimit.Set(year, limit); err != nil {
			return err
		}
	}
	return nil
}

func (h *Household) deriveTaxFreeCapitalGains() error {
	gains, err := data.ReadTable("capital_gains", h.Status, h.Horizon)
	if err != nil {
		return fmt.Errorf("failed to read capital gains brackets: %w", err)
	}
	h.taxFreeCapitalGains = series.New(h.Horizon)
	for _, year := range h.Horizon.Years() {
		if err := h.taxFreeCapitalGains.Set(year, zeroRateCeiling(gains.Rows(year))); err != nil {
			return err
		}
	}
	return nil
}
