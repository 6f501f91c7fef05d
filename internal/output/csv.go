package output

import (
	"bytes"
	"encoding/csv"
	"strconv"

	"github.com/d-chambers/simplefire/internal/domain"
)

// CSVFormatter writes one row per simulated year.
type CSVFormatter struct{}

func (c CSVFormatter) Name() string { return "csv" }

func (c CSVFormatter) Format(plan *domain.FirePlan) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	header := []string{
		"year", "income", "spending", "tax_free_income",
		"pretax_contribution", "employer_match", "roth_contribution", "taxable_contribution",
		"harvested_gains", "ladder_conversion", "spending_withdrawn", "taxable_realized",
		"passive_income", "net_worth", "retired",
	}
	for _, ledger := range plan.Ledgers {
		header = append(header, string(ledger.Kind)+"_balance")
	}
	if err := writer.Write(header); err != nil {
		return nil, err
	}

	for i, row := range plan.Rows {
		record := []string{
			strconv.Itoa(row.Year),
			row.Income.StringFixed(2),
			row.Spending.StringFixed(2),
			row.TaxFreeIncome.StringFixed(2),
			row.PreTaxContribution.StringFixed(2),
			row.EmployerMatch.StringFixed(2),
			row.RothContribution.StringFixed(2),
			row.TaxableContribution.StringFixed(2),
			row.HarvestedGains.StringFixed(2),
			row.LadderConversion.StringFixed(2),
			row.SpendingWithdrawn.StringFixed(2),
			row.TaxableRealized.StringFixed(2),
			row.PassiveIncome.StringFixed(2),
			row.NetWorth.StringFixed(2),
			strconv.FormatBool(row.Retired),
		}
		for _, ledger := range plan.Ledgers {
			if i < len(ledger.Years) {
				record = append(record, ledger.Years[i].EndBalance.StringFixed(2))
			} else {
				record = append(record, "")
			}
		}
		if err := writer.Write(record); err != nil {
			return nil, err
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
