package domain

import "github.com/shopspring/decimal"

// AccountKind identifies one of the four modeled investment account types.
type AccountKind string

const (
	AccountTaxableBrokerage AccountKind = "taxable_brokerage"
	AccountPreTaxEmployer   AccountKind = "pretax_employer_plan"
	AccountTraditionalIRA   AccountKind = "traditional_ira"
	AccountRothIRA          AccountKind = "roth_ira"
)

// AccountFlags carries the tax-treatment behavior of an account kind. The
// kinds differ only by these flags; behavior dispatches on flag values, not
// on a type hierarchy.
type AccountFlags struct {
	PreTax            bool // withdrawals fully taxed as ordinary income
	CapitalGainsTaxed bool // taxable portion of withdrawals uses capital-gains rates
	TaxFree           bool // withdrawals never taxed
	Convertible       bool // balance may be rolled into another account
}

// Flags returns the tax-treatment flags for the account kind.
func (k AccountKind) Flags() AccountFlags {
	switch k {
	case AccountTaxableBrokerage:
		return AccountFlags{CapitalGainsTaxed: true}
	case AccountPreTaxEmployer:
		return AccountFlags{PreTax: true, Convertible: true}
	case AccountTraditionalIRA:
		return AccountFlags{PreTax: true, Convertible: true}
	case AccountRothIRA:
		return AccountFlags{TaxFree: true}
	}
	return AccountFlags{}
}

// WithdrawalStrategy selects how a withdrawal is split between basis and
// gains for tax purposes.
type WithdrawalStrategy string

const (
	WithdrawBasisFirst WithdrawalStrategy = "basis"
	WithdrawGainsFirst WithdrawalStrategy = "gains"
	WithdrawBalanced   WithdrawalStrategy = "balanced"
)

// TaxCategory classifies the taxable portion of a withdrawal.
type TaxCategory string

const (
	TaxCategoryIncome       TaxCategory = "income"
	TaxCategoryCapitalGains TaxCategory = "capital_gains"
)

// Withdrawal describes the outcome of a single withdraw operation. TaxOwed
// is the portion of Amount that is subject to tax in Category; the caller
// converts it to tax dollars against the appropriate bracket table.
type Withdrawal struct {
	Amount   decimal.Decimal
	TaxOwed  decimal.Decimal
	Category TaxCategory
}

// AccountYear is one closed or open row of an account's year ledger.
// Transfer is the year's net trustee-to-trustee movement; unlike
// Contribution it compounds for the full year.
type AccountYear struct {
	Year         int
	StartBalance decimal.Decimal
	Contribution decimal.Decimal
	Transfer     decimal.Decimal
	Gains        decimal.Decimal
	EndBalance   decimal.Decimal
	Basis        decimal.Decimal
	Closed       bool
}

// AccountLedger is the full per-year history of one account.
type AccountLedger struct {
	Kind  AccountKind
	Years []AccountYear
}
