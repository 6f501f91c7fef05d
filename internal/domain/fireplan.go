package domain

import "github.com/shopspring/decimal"

// YearRow summarizes what the strategy did in one simulated year.
type YearRow struct {
	Year                int
	Income              decimal.Decimal
	Spending            decimal.Decimal
	TaxFreeIncome       decimal.Decimal
	PreTaxContribution  decimal.Decimal
	EmployerMatch       decimal.Decimal
	RothContribution    decimal.Decimal
	TaxableContribution decimal.Decimal
	HarvestedGains      decimal.Decimal
	LadderConversion    decimal.Decimal
	SpendingWithdrawn   decimal.Decimal
	TaxableRealized     decimal.Decimal
	PassiveIncome       decimal.Decimal
	NetWorth            decimal.Decimal
	Retired             bool
}

// FirePlan is the completed output of a simulation: one row per year plus
// every account's full ledger.
type FirePlan struct {
	StartYear      int
	Years          int
	Rows           []YearRow
	Ledgers        []AccountLedger
	Retired        bool
	RetirementYear int // zero when the horizon ends before the trigger fires
}

// FinalNetWorth returns the net worth at the end of the horizon.
func (fp *FirePlan) FinalNetWorth() decimal.Decimal {
	if len(fp.Rows) == 0 {
		return decimal.Zero
	}
	return fp.Rows[len(fp.Rows)-1].NetWorth
}
