package output

import (
	"github.com/shopspring/decimal"

	"github.com/d-chambers/simplefire/internal/domain"
)

// Formatter renders a completed simulation into a byte stream.
type Formatter interface {
	Name() string
	Format(plan *domain.FirePlan) ([]byte, error)
}

var formatters = []Formatter{
	ConsoleFormatter{},
	CSVFormatter{},
	ChartFormatter{},
}

var formatAliases = map[string]string{
	"console": "console",
	"table":   "console",
	"csv":     "csv",
	"chart":   "chart",
	"ascii":   "chart",
}

// GetFormatterByName returns the formatter registered under name or one of
// its aliases, or nil when no such formatter exists.
func GetFormatterByName(name string) Formatter {
	canonical, ok := formatAliases[name]
	if !ok {
		return nil
	}
	for _, f := range formatters {
		if f.Name() == canonical {
			return f
		}
	}
	return nil
}

// AvailableFormatAliases lists every accepted format name.
func AvailableFormatAliases() []string {
	aliases := make([]string, 0, len(formatAliases))
	for alias := range formatAliases {
		aliases = append(aliases, alias)
	}
	return aliases
}

// FormatCurrency formats a decimal as currency.
func FormatCurrency(amount decimal.Decimal) string {
	return "$" + amount.StringFixed(2)
}

// FormatPercentage formats a decimal as percentage.
func FormatPercentage(amount decimal.Decimal) string {
	return amount.StringFixed(2) + "%"
}
