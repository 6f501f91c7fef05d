package calculation

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/d-chambers/simplefire/internal/domain"
	"github.com/d-chambers/simplefire/pkg/series"
)

// DefaultRetireGoalMultiplier is the safety margin applied to spending when
// evaluating the retirement trigger.
var DefaultRetireGoalMultiplier = decimal.NewFromFloat(1.2)

// TaxEvasionStrategy owns the household, the family income, and the four
// investment accounts, and sequences contributions and withdrawals each year
// to minimize lifetime tax while meeting the spending need. Retirement is a
// one-way transition evaluated after each working year.
type TaxEvasionStrategy struct {
	plan       domain.Plan
	horizon    series.Horizon
	household  *Household
	family     FamilyTable
	growthRate decimal.Decimal // fraction per year
	retireGoal decimal.Decimal

	taxable  *Investment
	employer *Investment
	tradIRA  *Investment
	rothIRA  *Investment

	retired        bool
	retirementYear int
	logger         Logger
}

// NewTaxEvasionStrategy builds the strategy from a validated plan.
func NewTaxEvasionStrategy(plan domain.Plan) (*TaxEvasionStrategy, error) {
	horizon, err := series.NewHorizon(plan.StartYear, plan.Years)
	if err != nil {
		return nil, err
	}
	household, err := NewHousehold(plan.Household, horizon)
	if err != nil {
		return nil, fmt.Errorf("invalid household: %w", err)
	}
	familyIncome, err := NewFamilyIncome(plan.Earners, horizon)
	if err != nil {
		return nil, fmt.Errorf("invalid earners: %w", err)
	}
	family, err := familyIncome.Table()
	if err != nil {
		return nil, err
	}

	retireGoal := plan.RetireGoalMultiplier
	if retireGoal.IsZero() {
		retireGoal = DefaultRetireGoalMultiplier
	}
	if !retireGoal.IsPositive() {
		return nil, fmt.Errorf("retire goal multiplier must be positive, got %s", retireGoal)
	}

	growth := plan.InvestmentGrowthPercent
	s := &TaxEvasionStrategy{
		plan:       plan,
		horizon:    horizon,
		household:  household,
		family:     family,
		growthRate: growth.Div(hundred),
		retireGoal: retireGoal,
		taxable:    NewInvestment(domain.AccountTaxableBrokerage, growth, horizon),
		employer: NewInvestment(domain.AccountPreTaxEmployer, growth, horizon,
			WithContributionLimit(family.ContributionLimit)),
		tradIRA: NewInvestment(domain.AccountTraditionalIRA, growth, horizon),
		rothIRA: NewInvestment(domain.AccountRothIRA, growth, horizon),
		logger:  NopLogger{},
	}
	return s, nil
}

// SetLogger installs a logger; nil restores the no-op default.
func (s *TaxEvasionStrategy) SetLogger(l Logger) {
	if l == nil {
		s.logger = NopLogger{}
		return
	}
	s.logger = l
}

func (s *TaxEvasionStrategy) accounts() []*Investment {
	return []*Investment{s.taxable, s.employer, s.tradIRA, s.rothIRA}
}

// StartFire runs the simulation over the full horizon and returns the
// completed plan.
func (s *TaxEvasionStrategy) StartFire() (*domain.FirePlan, error) {
	result := &domain.FirePlan{
		StartYear: s.horizon.Start,
		Years:     s.horizon.Count,
		Rows:      make([]domain.YearRow, 0, s.horizon.Count),
	}

	for _, year := range s.horizon.Years() {
		var row domain.YearRow
		var err error
		if s.retired {
			row, err = s.retiredYear(year)
		} else {
			row, err = s.workingYear(year)
		}
		if err != nil {
			return nil, fmt.Errorf("year %d: %w", year, err)
		}
		result.Rows = append(result.Rows, row)
	}

	for _, acct := range s.accounts() {
		result.Ledgers = append(result.Ledgers, acct.Ledger())
	}
	result.Retired = s.retired
	result.RetirementYear = s.retirementYear
	return result, nil
}

// workingYear captures the employer match, defers income down to the
// tax-free threshold, allocates the surplus to Roth then taxable, harvests
// tax-free gains, closes every account, and finally evaluates the
// retirement trigger.
func (s *TaxEvasionStrategy) workingYear(year int) (domain.YearRow, error) {
	income := s.family.Income.Get(year)
	spending := s.household.Spending().Get(year)
	taxFree := s.household.TaxFreeIncome().Get(year)
	iraLimit := s.household.IRALimit().Get(year)
	headroom := s.household.TaxFreeCapitalGains().Get(year)
	planLimit := s.family.ContributionLimit.Get(year)

	row := domain.YearRow{Year: year, Income: income, Spending: spending, TaxFreeIncome: taxFree}

	// Free match capture first.
	matchRequired := decimal.Min(s.family.MatchContribution.Get(year), planLimit)
	match := s.family.EmployerMatch.Get(year)
	if err := s.employer.Contribute(matchRequired, true); err != nil {
		return row, fmt.Errorf("match contribution: %w", err)
	}
	if err := s.employer.Contribute(match, false); err != nil {
		return row, fmt.Errorf("employer match: %w", err)
	}
	remaining := income.Sub(matchRequired)

	// Defer enough extra pre-tax income to land on the tax-free threshold.
	deferral := decimal.Min(
		decimal.Max(remaining.Sub(taxFree), decimal.Zero),
		planLimit.Sub(matchRequired),
	)
	if deferral.IsPositive() {
		if err := s.employer.Contribute(deferral, true); err != nil {
			return row, fmt.Errorf("pre-tax deferral: %w", err)
		}
		remaining = remaining.Sub(deferral)
	}
	row.PreTaxContribution = matchRequired.Add(deferral)
	row.EmployerMatch = match

	// Surplus after spending goes to Roth up to the IRA limit, the rest to
	// the taxable brokerage.
	surplus := remaining.Sub(spending)
	if surplus.IsNegative() {
		s.logger.Warnf("year %d: spending %s exceeds take-home income %s", year, spending, remaining)
		surplus = decimal.Zero
	}
	rothContribution := decimal.Min(surplus, iraLimit)
	if rothContribution.IsPositive() {
		if err := s.rothIRA.Contribute(rothContribution, true); err != nil {
			return row, fmt.Errorf("roth contribution: %w", err)
		}
	}
	taxableContribution := surplus.Sub(rothContribution)
	if taxableContribution.IsPositive() {
		if err := s.taxable.Contribute(taxableContribution, true); err != nil {
			return row, fmt.Errorf("taxable contribution: %w", err)
		}
	}
	row.RothContribution = rothContribution
	row.TaxableContribution = taxableContribution

	// Harvest gains inside the 0% capital-gains window and immediately
	// re-buy to step up basis.
	harvested, err := s.harvest(headroom)
	if err != nil {
		return row, err
	}
	row.HarvestedGains = harvested

	if err := s.closeAll(); err != nil {
		return row, err
	}
	row.PassiveIncome = s.passiveIncome()
	row.NetWorth = s.netWorth()

	// Retirement trigger: passive income must beat spending with margin.
	goal := spending.Mul(s.retireGoal)
	if row.PassiveIncome.GreaterThan(goal) {
		s.logger.Infof("year %d: passive income %s exceeds goal %s, retiring", year, row.PassiveIncome, goal)
		if err := s.retire(year); err != nil {
			return row, err
		}
	}
	row.Retired = s.retired
	return row, nil
}

// retire flips the one-way retirement switch and rolls the employer plan
// into the traditional IRA. The roll is a trustee transfer: nothing taxable
// is realized and the balance keeps compounding uninterrupted, so the
// employer plan closes the rollover year at exactly zero.
func (s *TaxEvasionStrategy) retire(year int) error {
	s.retired = true
	s.retirementYear = year

	if year >= s.horizon.End() {
		return nil
	}
	balance := s.employer.Balance()
	if !balance.IsPositive() {
		return nil
	}
	if err := s.employer.TransferOut(balance); err != nil {
		return fmt.Errorf("employer plan rollover: %w", err)
	}
	if err := s.tradIRA.TransferIn(balance); err != nil {
		return fmt.Errorf("employer plan rollover: %w", err)
	}
	s.logger.Debugf("rolled %s from employer plan into traditional IRA", balance)
	return nil
}

// retiredYear converts a ladder rung from traditional to Roth, funds
// spending from taxable then Roth basis, harvests the remaining tax-free
// gains headroom, and closes every account.
func (s *TaxEvasionStrategy) retiredYear(year int) (domain.YearRow, error) {
	spending := s.household.Spending().Get(year)
	taxFree := s.household.TaxFreeIncome().Get(year)
	headroom := s.household.TaxFreeCapitalGains().Get(year)

	row := domain.YearRow{Year: year, Spending: spending, TaxFreeIncome: taxFree, Retired: true}

	// Roth ladder: convert up to the tax-free income threshold.
	ladder := decimal.Min(taxFree, s.tradIRA.Balance())
	if ladder.IsPositive() {
		w, err := s.tradIRA.Withdraw(ladder, domain.WithdrawGainsFirst)
		if err != nil {
			return row, fmt.Errorf("ladder conversion: %w", err)
		}
		if err := s.rothIRA.Contribute(w.Amount, true); err != nil {
			return row, fmt.Errorf("ladder conversion: %w", err)
		}
		row.LadderConversion = w.Amount
	}

	// Spending comes from taxable gains first, then Roth basis.
	fromTaxable := decimal.Min(spending, s.taxable.Balance())
	realizedGains := decimal.Zero
	if fromTaxable.IsPositive() {
		w, err := s.taxable.Withdraw(fromTaxable, domain.WithdrawGainsFirst)
		if err != nil {
			return row, fmt.Errorf("spending withdrawal: %w", err)
		}
		realizedGains = w.TaxOwed
	}
	shortfall := spending.Sub(fromTaxable)
	rothDraw := decimal.Zero
	if shortfall.IsPositive() {
		rothDraw = decimal.Min(shortfall, s.rothIRA.Balance())
		if rothDraw.IsPositive() {
			if _, err := s.rothIRA.Withdraw(rothDraw, domain.WithdrawBasisFirst); err != nil {
				return row, fmt.Errorf("roth basis withdrawal: %w", err)
			}
		}
		if rothDraw.LessThan(shortfall) {
			s.logger.Warnf("year %d: spending shortfall of %s not covered by any account", year, shortfall.Sub(rothDraw))
		}
	}
	row.SpendingWithdrawn = fromTaxable.Add(rothDraw)
	row.TaxableRealized = realizedGains

	// Harvest whatever 0% headroom the spending withdrawal left unused.
	remainingHeadroom := decimal.Max(headroom.Sub(realizedGains), decimal.Zero)
	harvested, err := s.harvest(remainingHeadroom)
	if err != nil {
		return row, err
	}
	row.HarvestedGains = harvested

	if err := s.closeAll(); err != nil {
		return row, err
	}
	row.PassiveIncome = s.passiveIncome()
	row.NetWorth = s.netWorth()
	return row, nil
}

// harvest realizes up to headroom of taxable-account gains and re-buys
// immediately, stepping up basis at the 0% rate.
func (s *TaxEvasionStrategy) harvest(headroom decimal.Decimal) (decimal.Decimal, error) {
	amount := decimal.Min(decimal.Min(headroom, s.taxable.Gains()), s.taxable.Balance())
	if !amount.IsPositive() {
		return decimal.Zero, nil
	}
	w, err := s.taxable.Withdraw(amount, domain.WithdrawGainsFirst)
	if err != nil {
		return decimal.Zero, fmt.Errorf("gain harvest: %w", err)
	}
	if err := s.taxable.Contribute(w.Amount, true); err != nil {
		return decimal.Zero, fmt.Errorf("gain harvest re-buy: %w", err)
	}
	return w.TaxOwed, nil
}

func (s *TaxEvasionStrategy) closeAll() error {
	for _, acct := range s.accounts() {
		if err := acct.CloseYear(); err != nil {
			return err
		}
	}
	return nil
}

// passiveIncome is the yield every account would produce at the growth rate.
func (s *TaxEvasionStrategy) passiveIncome() decimal.Decimal {
	total := decimal.Zero
	for _, acct := range s.accounts() {
		total = total.Add(acct.Balance().Mul(s.growthRate))
	}
	return total
}

func (s *TaxEvasionStrategy) netWorth() decimal.Decimal {
	total := decimal.Zero
	for _, acct := range s.accounts() {
		total = total.Add(acct.Balance())
	}
	return total
}
