// Package data provides the embedded tax and contribution-limit datasets.
//
// Datasets mirror published IRS figures. Bracket tables hold one row per
// bracket with the bracket's upper bound in the amount column; the top
// bracket's rate extends beyond its listed bound. Years missing from a
// dataset are forward-filled from the most recent year with data.
package data

import (
	"bytes"
	"embed"
	"encoding/csv"
	"errors"
	"fmt"
	"io/fs"
	"sort"
	"strconv"

	"github.com/shopspring/decimal"

	"github.com/d-chambers/simplefire/internal/domain"
	"github.com/d-chambers/simplefire/pkg/series"
)

//go:embed tables
var tables embed.FS

var (
	// ErrDatasetNotFound indicates the dataset/status combination does not exist.
	ErrDatasetNotFound = errors.New("dataset not found")
	// ErrStatusRequired indicates a status-partitioned dataset was requested
	// without a filing status.
	ErrStatusRequired = errors.New("filing status required")
)

// Row is one dataset row. TaxPercent is zero for amount-only datasets.
type Row struct {
	Year       int
	Amount     decimal.Decimal
	TaxPercent decimal.Decimal
}

// Table holds a dataset extrapolated to a year horizon: every horizon year
// has a complete row set.
type Table struct {
	Name    string
	horizon series.Horizon
	byYear  [][]Row
}

// Horizon returns the horizon the table was extrapolated to.
func (t Table) Horizon() series.Horizon { return t.horizon }

// Rows returns the dataset rows for year, sorted ascending by amount.
func (t Table) Rows(year int) []Row {
	i, ok := t.horizon.Index(year)
	if !ok {
		return nil
	}
	return t.byYear[i]
}

// Amount returns the single amount for year on amount-only datasets.
func (t Table) Amount(year int) decimal.Decimal {
	rows := t.Rows(year)
	if len(rows) == 0 {
		return decimal.Zero
	}
	return rows[0].Amount
}

// ReadTable loads a dataset and extrapolates it to the horizon. Datasets
// partitioned by filing status (income, capital_gains, standard_deduction)
// require a status; the rest ignore it.
func ReadTable(name string, status domain.FilingStatus, horizon series.Horizon) (Table, error) {
	path := name + ".csv"
	if info, err := fs.Stat(tables, "tables/"+name); err == nil && info.IsDir() {
		if status == "" {
			return Table{}, fmt.Errorf("%w: dataset %q is partitioned by filing status", ErrStatusRequired, name)
		}
		path = name + "/" + string(status) + ".csv"
	}

	raw, err := tables.ReadFile("tables/" + path)
	if err != nil {
		return Table{}, fmt.Errorf("%w: %q / %q is not a valid dataset combination", ErrDatasetNotFound, name, status)
	}

	rows, err := parseRows(raw)
	if err != nil {
		return Table{}, fmt.Errorf("dataset %q: %w", name, err)
	}

	return extrapolate(name, rows, horizon), nil
}

func parseRows(raw []byte) ([]Row, error) {
	reader := csv.NewReader(bytes.NewReader(raw))
	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to parse CSV: %w", err)
	}
	if len(records) < 2 {
		return nil, fmt.Errorf("dataset has no rows")
	}

	header := records[0]
	col := map[string]int{}
	for i, name := range header {
		col[name] = i
	}
	yearIdx, ok := col["year"]
	if !ok {
		return nil, fmt.Errorf("dataset missing year column")
	}
	amountIdx, ok := col["amount"]
	if !ok {
		return nil, fmt.Errorf("dataset missing amount column")
	}
	pctIdx, hasPct := col["tax_percent"]

	rows := make([]Row, 0, len(records)-1)
	for _, rec := range records[1:] {
		year, err := strconv.Atoi(rec[yearIdx])
		if err != nil {
			return nil, fmt.Errorf("bad year %q: %w", rec[yearIdx], err)
		}
		amount, err := decimal.NewFromString(rec[amountIdx])
		if err != nil {
			return nil, fmt.Errorf("bad amount %q: %w", rec[amountIdx], err)
		}
		row := Row{Year: year, Amount: amount}
		if hasPct {
			pct, err := decimal.NewFromString(rec[pctIdx])
			if err != nil {
				return nil, fmt.Errorf("bad tax_percent %q: %w", rec[pctIdx], err)
			}
			row.TaxPercent = pct
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// extrapolate assigns each horizon year the rows of the most recent dataset
// year at or before it. Horizon years before the earliest dataset year use
// the earliest available rows.
func extrapolate(name string, rows []Row, horizon series.Horizon) Table {
	byDataYear := map[int][]Row{}
	dataYears := []int{}
	for _, r := range rows {
		if _, seen := byDataYear[r.Year]; !seen {
			dataYears = append(dataYears, r.Year)
		}
		byDataYear[r.Year] = append(byDataYear[r.Year], r)
	}
	sort.Ints(dataYears)
	for _, y := range dataYears {
		yearRows := byDataYear[y]
		sort.Slice(yearRows, func(i, j int) bool { return yearRows[i].Amount.LessThan(yearRows[j].Amount) })
	}

	t := Table{Name: name, horizon: horizon, byYear: make([][]Row, horizon.Count)}
	for i, year := range horizon.Years() {
		source := dataYears[0]
		for _, dy := range dataYears {
			if dy > year {
				break
			}
			source = dy
		}
		t.byYear[i] = byDataYear[source]
	}
	return t
}
