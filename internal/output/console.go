package output

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"

	"github.com/d-chambers/simplefire/internal/domain"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("39"))

	retiredStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("42"))

	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("250"))
)

// ConsoleFormatter renders a year-by-year table plus a closing summary.
type ConsoleFormatter struct{}

func (c ConsoleFormatter) Name() string { return "console" }

func (c ConsoleFormatter) Format(plan *domain.FirePlan) ([]byte, error) {
	var buf bytes.Buffer

	fmt.Fprintln(&buf, titleStyle.Render("FIRE SIMULATION RESULTS"))
	fmt.Fprintf(&buf, "Horizon: %d-%d (%d years)\n", plan.StartYear, plan.StartYear+plan.Years-1, plan.Years)
	fmt.Fprintln(&buf)

	header := fmt.Sprintf("%-6s %14s %14s %14s %12s %12s %14s %16s %s",
		"Year", "Income", "Spending", "Pre-Tax", "Roth", "Taxable", "Passive", "Net Worth", "Status")
	fmt.Fprintln(&buf, headerStyle.Render(header))
	fmt.Fprintln(&buf, strings.Repeat("-", len(header)))

	for _, row := range plan.Rows {
		status := "working"
		if row.Retired {
			status = "retired"
		}
		fmt.Fprintf(&buf, "%-6d %14s %14s %14s %12s %12s %14s %16s %s\n",
			row.Year,
			FormatCurrency(row.Income),
			FormatCurrency(row.Spending),
			FormatCurrency(row.PreTaxContribution),
			FormatCurrency(row.RothContribution),
			FormatCurrency(row.TaxableContribution),
			FormatCurrency(row.PassiveIncome),
			FormatCurrency(row.NetWorth),
			status)
	}
	fmt.Fprintln(&buf)

	if plan.Retired {
		yearsIn := plan.RetirementYear - plan.StartYear
		fmt.Fprintln(&buf, retiredStyle.Render(
			fmt.Sprintf("Retirement reached in %d (after %d working years)", plan.RetirementYear, yearsIn)))
	} else {
		fmt.Fprintln(&buf, "Retirement not reached within the horizon.")
	}
	fmt.Fprintf(&buf, "Final net worth: %s\n", FormatCurrency(plan.FinalNetWorth()))
	fmt.Fprintln(&buf)

	writeAccountSummary(&buf, plan)

	return buf.Bytes(), nil
}

func writeAccountSummary(buf *bytes.Buffer, plan *domain.FirePlan) {
	fmt.Fprintln(buf, headerStyle.Render("CLOSING ACCOUNT BALANCES"))
	for _, ledger := range plan.Ledgers {
		balance := decimal.Zero
		basis := decimal.Zero
		if n := len(ledger.Years); n > 0 {
			balance = ledger.Years[n-1].EndBalance
			basis = ledger.Years[n-1].Basis
		}
		fmt.Fprintf(buf, "  %-22s %16s  (basis %s)\n",
			string(ledger.Kind), FormatCurrency(balance), FormatCurrency(basis))
	}
}
