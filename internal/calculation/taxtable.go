package calculation

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/d-chambers/simplefire/internal/data"
	"github.com/d-chambers/simplefire/pkg/series"
)

var hundred = decimal.NewFromInt(100)

// IncomeToTax computes, for each horizon year, the progressive tax owed on
// that year's taxable income under the table's bracket structure. Negative
// incomes are rejected.
func IncomeToTax(income series.Series, table data.Table) (series.Series, error) {
	out := series.New(income.Horizon())
	for _, year := range income.Horizon().Years() {
		amount := income.Get(year)
		if amount.IsNegative() {
			return series.Series{}, fmt.Errorf("taxable income for %d is negative: %s", year, amount)
		}
		rows := table.Rows(year)
		if len(rows) == 0 {
			return series.Series{}, fmt.Errorf("no bracket rows for year %d in dataset %q", year, table.Name)
		}
		if err := out.Set(year, taxForIncome(rows, amount)); err != nil {
			return series.Series{}, err
		}
	}
	return out, nil
}

// TaxToIncome inverts IncomeToTax: for each year it finds the income level
// whose progressive tax equals the given tax (or credit) amount. Amounts
// beyond the top cumulative bracket extrapolate at the top marginal rate.
func TaxToIncome(tax series.Series, table data.Table) (series.Series, error) {
	out := series.New(tax.Horizon())
	for _, year := range tax.Horizon().Years() {
		amount := tax.Get(year)
		if amount.IsNegative() {
			return series.Series{}, fmt.Errorf("tax amount for %d is negative: %s", year, amount)
		}
		rows := table.Rows(year)
		if len(rows) == 0 {
			return series.Series{}, fmt.Errorf("no bracket rows for year %d in dataset %q", year, table.Name)
		}
		income, err := incomeForTax(rows, amount)
		if err != nil {
			return series.Series{}, fmt.Errorf("year %d in dataset %q: %w", year, table.Name, err)
		}
		if err := out.Set(year, income); err != nil {
			return series.Series{}, err
		}
	}
	return out, nil
}

// taxForIncome walks the brackets bottom-up, summing fully-filled brackets
// plus the marginal portion of the bracket the income lands in. Income above
// the top listed bound keeps accruing at the top rate.
func taxForIncome(rows []data.Row, income decimal.Decimal) decimal.Decimal {
	tax := decimal.Zero
	prev := decimal.Zero
	for _, row := range rows {
		rate := row.TaxPercent.Div(hundred)
		if income.LessThanOrEqual(row.Amount) {
			return tax.Add(income.Sub(prev).Mul(rate))
		}
		tax = tax.Add(row.Amount.Sub(prev).Mul(rate))
		prev = row.Amount
	}
	topRate := rows[len(rows)-1].TaxPercent.Div(hundred)
	return tax.Add(income.Sub(prev).Mul(topRate))
}

// incomeForTax locates the cumulative-tax bracket the amount falls into and
// solves linearly within it. A positive tax is unreachable when every
// bracket is 0%, so that combination is an error rather than a divide by
// zero.
func incomeForTax(rows []data.Row, tax decimal.Decimal) (decimal.Decimal, error) {
	if tax.IsZero() {
		return decimal.Zero, nil
	}
	cumulative := decimal.Zero
	prev := decimal.Zero
	for _, row := range rows {
		rate := row.TaxPercent.Div(hundred)
		segment := row.Amount.Sub(prev).Mul(rate)
		if rate.IsPositive() && cumulative.Add(segment).GreaterThanOrEqual(tax) {
			return prev.Add(tax.Sub(cumulative).Div(rate)), nil
		}
		cumulative = cumulative.Add(segment)
		prev = row.Amount
	}
	topRate := rows[len(rows)-1].TaxPercent.Div(hundred)
	if !topRate.IsPositive() {
		return decimal.Decimal{}, fmt.Errorf("no income yields tax %s: every bracket is 0%%", tax)
	}
	return prev.Add(tax.Sub(cumulative).Div(topRate)), nil
}

// zeroRateCeiling returns the upper bound of the leading 0% bracket, the
// amount realizable at zero tax. Zero when the first bracket is taxed.
func zeroRateCeiling(rows []data.Row) decimal.Decimal {
	ceiling := decimal.Zero
	for _, row := range rows {
		if !row.TaxPercent.IsZero() {
			break
		}
		ceiling = row.Amount
	}
	return ceiling
}
