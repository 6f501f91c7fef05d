package calculation

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/d-chambers/simplefire/internal/domain"
	"github.com/d-chambers/simplefire/pkg/series"
)

var (
	// ErrContributionLimitExceeded indicates an employee contribution would
	// exceed the year's cap. The contribution is rejected with no effect.
	ErrContributionLimitExceeded = errors.New("contribution limit exceeded")
	// ErrBalanceUndetermined indicates closing a year whose start balance has
	// not been set, a sequencing error.
	ErrBalanceUndetermined = errors.New("start balance undetermined")
	// ErrInsufficientBalance indicates a withdrawal larger than the year's
	// available funds. The withdrawal is rejected with no effect.
	ErrInsufficientBalance = errors.New("insufficient balance")
)

type accountYear struct {
	startBalance decimal.Decimal
	startSet     bool
	basis        decimal.Decimal
	contribution decimal.Decimal
	transfer     decimal.Decimal // net trustee-to-trustee transfers, excluded from the mid-year term
	employee     decimal.Decimal // employee-sourced contributions, counted against the cap
	gains        decimal.Decimal
	endBalance   decimal.Decimal
	closed       bool
}

// Investment is a year-indexed account ledger. Each year is open (mutable
// via Contribute/Withdraw) until CloseYear compounds it and seeds the next
// year. Years are append-only; a closed year is never reopened.
type Investment struct {
	kind       domain.AccountKind
	flags      domain.AccountFlags
	growthRate decimal.Decimal // fraction per year, e.g. 0.07
	horizon    series.Horizon
	years      []accountYear
	limit      *series.Series // optional per-year cap on employee contributions
}

// InvestmentOption configures account construction.
type InvestmentOption func(*Investment)

// WithStartingBalance seeds the first year's balance and basis.
func WithStartingBalance(balance, basis decimal.Decimal) InvestmentOption {
	return func(inv *Investment) {
		inv.years[0].startBalance = balance
		inv.years[0].basis = basis
	}
}

// WithContributionLimit caps employee contributions per year.
func WithContributionLimit(limit series.Series) InvestmentOption {
	return func(inv *Investment) { inv.limit = &limit }
}

// NewInvestment creates an account of the given kind with an annual growth
// rate in percent. The first year opens with a zero balance unless
// WithStartingBalance overrides it.
func NewInvestment(kind domain.AccountKind, growthPercent decimal.Decimal, horizon series.Horizon, opts ...InvestmentOption) *Investment {
	inv := &Investment{
		kind:       kind,
		flags:      kind.Flags(),
		growthRate: growthPercent.Div(hundred),
		horizon:    horizon,
		years:      make([]accountYear, horizon.Count),
	}
	inv.years[0].startSet = true
	for _, opt := range opts {
		opt(inv)
	}
	return inv
}

// Kind returns the account's kind.
func (inv *Investment) Kind() domain.AccountKind { return inv.kind }

// CurrentYear returns the earliest year whose end balance is not yet set.
// ok is false once every year in the horizon has been closed.
func (inv *Investment) CurrentYear() (year int, ok bool) {
	i, err := inv.openIndex()
	if err != nil {
		return 0, false
	}
	return inv.horizon.Start + i, true
}

func (inv *Investment) openIndex() (int, error) {
	for i := range inv.years {
		if !inv.years[i].closed {
			return i, nil
		}
	}
	return 0, fmt.Errorf("account %s: every year in the horizon is closed", inv.kind)
}

// Balance returns the current year's available funds (start balance plus
// contributions to date). After the final close it returns the final end
// balance.
func (inv *Investment) Balance() decimal.Decimal {
	i, err := inv.openIndex()
	if err != nil {
		return inv.years[len(inv.years)-1].endBalance
	}
	yr := inv.years[i]
	return yr.startBalance.Add(yr.transfer).Add(yr.contribution)
}

// Gains returns the current year's unrealized appreciation, start balance
// plus transfers less basis.
func (inv *Investment) Gains() decimal.Decimal {
	i, err := inv.openIndex()
	if err != nil {
		last := inv.years[len(inv.years)-1]
		return decimal.Max(last.endBalance.Sub(last.basis), decimal.Zero)
	}
	yr := inv.years[i]
	return decimal.Max(yr.startBalance.Add(yr.transfer).Sub(yr.basis), decimal.Zero)
}

// Contribute adds amount to the current year. Employee contributions count
// against the year's limit and raise basis; employer-sourced contributions
// bypass both. A contribution that would exceed the limit is rejected whole.
func (inv *Investment) Contribute(amount decimal.Decimal, employee bool) error {
	if amount.IsNegative() {
		return fmt.Errorf("account %s: contribution must be non-negative, got %s", inv.kind, amount)
	}
	i, err := inv.openIndex()
	if err != nil {
		return err
	}
	yr := &inv.years[i]
	year := inv.horizon.Start + i
	if employee && inv.limit != nil {
		limit := inv.limit.Get(year)
		if yr.employee.Add(amount).GreaterThan(limit) {
			return fmt.Errorf("%w: account %s year %d: %s over cap %s",
				ErrContributionLimitExceeded, inv.kind, year, yr.employee.Add(amount), limit)
		}
	}
	yr.contribution = yr.contribution.Add(amount)
	if employee {
		yr.employee = yr.employee.Add(amount)
		yr.basis = yr.basis.Add(amount)
	}
	return nil
}

// TransferOut moves amount out as a trustee-to-trustee transfer. Unlike a
// withdrawal it carries no tax consequence and no mid-year growth haircut:
// the amount simply stops compounding here. Basis leaves with the money,
// basis-first.
func (inv *Investment) TransferOut(amount decimal.Decimal) error {
	if amount.IsNegative() {
		return fmt.Errorf("account %s: transfer must be non-negative, got %s", inv.kind, amount)
	}
	i, err := inv.openIndex()
	if err != nil {
		return err
	}
	yr := &inv.years[i]
	available := yr.startBalance.Add(yr.transfer).Add(yr.contribution)
	if amount.GreaterThan(available) {
		return fmt.Errorf("%w: account %s year %d: requested %s, available %s",
			ErrInsufficientBalance, inv.kind, inv.horizon.Start+i, amount, available)
	}
	yr.transfer = yr.transfer.Sub(amount)
	yr.basis = decimal.Max(yr.basis.Sub(amount), decimal.Zero)
	return nil
}

// TransferIn receives a trustee-to-trustee transfer. The amount compounds for
// the full year, as if it had been part of the start balance.
func (inv *Investment) TransferIn(amount decimal.Decimal) error {
	if amount.IsNegative() {
		return fmt.Errorf("account %s: transfer must be non-negative, got %s", inv.kind, amount)
	}
	i, err := inv.openIndex()
	if err != nil {
		return err
	}
	inv.years[i].transfer = inv.years[i].transfer.Add(amount)
	return nil
}

// CloseYear closes the current open year: gains accrue at the growth rate on
// the start balance plus half the year's net contributions (mid-year
// convention), and the resulting end balance seeds the next year.
func (inv *Investment) CloseYear() error {
	i, err := inv.openIndex()
	if err != nil {
		return err
	}
	return inv.closeIndex(i)
}

// CloseYearAt closes a specific year. Closing a year whose start balance has
// not been determined (a year beyond the current open one) fails.
func (inv *Investment) CloseYearAt(year int) error {
	i, ok := inv.horizon.Index(year)
	if !ok {
		return fmt.Errorf("account %s: year %d outside horizon", inv.kind, year)
	}
	if inv.years[i].closed {
		return fmt.Errorf("account %s: year %d already closed", inv.kind, year)
	}
	return inv.closeIndex(i)
}

func (inv *Investment) closeIndex(i int) error {
	yr := &inv.years[i]
	if !yr.startSet {
		return fmt.Errorf("%w: account %s year %d", ErrBalanceUndetermined, inv.kind, inv.horizon.Start+i)
	}
	// Transfers compound for the full year; only regular contributions get
	// the mid-year half-growth treatment.
	yr.gains = inv.growthRate.Mul(yr.startBalance.Add(yr.transfer)).Add(inv.growthRate.Div(two).Mul(yr.contribution))
	yr.endBalance = yr.startBalance.Add(yr.transfer).Add(yr.gains).Add(yr.contribution)
	yr.closed = true
	if i+1 < len(inv.years) {
		next := &inv.years[i+1]
		next.startBalance = yr.endBalance
		next.startSet = true
		next.basis = yr.basis
	}
	return nil
}

// Withdraw removes amount from the current year, splitting it between basis
// and gains per the strategy. It fails if amount exceeds the year's start
// balance plus contributions; on failure the account is unchanged.
func (inv *Investment) Withdraw(amount decimal.Decimal, strategy domain.WithdrawalStrategy) (domain.Withdrawal, error) {
	if amount.IsNegative() {
		return domain.Withdrawal{}, fmt.Errorf("account %s: withdrawal must be non-negative, got %s", inv.kind, amount)
	}
	i, err := inv.openIndex()
	if err != nil {
		return domain.Withdrawal{}, err
	}
	yr := &inv.years[i]

	available := yr.startBalance.Add(yr.transfer).Add(yr.contribution)
	if amount.GreaterThan(available) {
		return domain.Withdrawal{}, fmt.Errorf("%w: account %s year %d: requested %s, available %s",
			ErrInsufficientBalance, inv.kind, inv.horizon.Start+i, amount, available)
	}

	basis := yr.basis
	unrealized := decimal.Max(available.Sub(basis), decimal.Zero)

	var taxable, fromBasis decimal.Decimal
	switch strategy {
	case domain.WithdrawBasisFirst:
		fromBasis = decimal.Min(amount, basis)
		taxable = amount.Sub(fromBasis)
	case domain.WithdrawGainsFirst:
		// The shortfall beyond gains comes out of basis untaxed. This mirrors
		// the modeling assumption that basis is never taxed on the way out.
		taxable = decimal.Min(amount, unrealized)
		fromBasis = amount.Sub(taxable)
	case domain.WithdrawBalanced:
		total := basis.Add(unrealized)
		if total.IsPositive() {
			taxable = amount.Mul(unrealized.Div(total))
		}
		fromBasis = amount.Sub(taxable)
	default:
		return domain.Withdrawal{}, fmt.Errorf("account %s: unknown withdrawal strategy %q", inv.kind, strategy)
	}

	yr.contribution = yr.contribution.Sub(amount)
	yr.basis = decimal.Max(basis.Sub(fromBasis), decimal.Zero)

	if inv.flags.TaxFree {
		taxable = decimal.Zero
	} else if inv.flags.PreTax {
		taxable = amount
	}
	category := domain.TaxCategoryIncome
	if inv.flags.CapitalGainsTaxed {
		category = domain.TaxCategoryCapitalGains
	}
	return domain.Withdrawal{Amount: amount, TaxOwed: taxable, Category: category}, nil
}

// Ledger returns the account's full per-year history.
func (inv *Investment) Ledger() domain.AccountLedger {
	ledger := domain.AccountLedger{Kind: inv.kind, Years: make([]domain.AccountYear, len(inv.years))}
	for i, yr := range inv.years {
		ledger.Years[i] = domain.AccountYear{
			Year:         inv.horizon.Start + i,
			StartBalance: yr.startBalance,
			Contribution: yr.contribution,
			Transfer:     yr.transfer,
			Gains:        yr.gains,
			EndBalance:   yr.endBalance,
			Basis:        yr.basis,
			Closed:       yr.closed,
		}
	}
	return ledger
}
