package data

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/d-chambers/simplefire/internal/domain"
	"github.com/d-chambers/simplefire/pkg/series"
)

func horizon(t *testing.T, start, count int) series.Horizon {
	t.Helper()
	h, err := series.NewHorizon(start, count)
	require.NoError(t, err)
	return h
}

func TestReadChildTaxCredit(t *testing.T) {
	h := horizon(t, 2020, 5)
	table, err := ReadTable("child_tax_credit", "", h)
	require.NoError(t, err)

	for _, year := range h.Years() {
		assert.True(t, table.Amount(year).Equal(decimal.NewFromInt(2000)), "year %d", year)
	}
}

func TestReadCapitalGains(t *testing.T) {
	h := horizon(t, 2020, 2)
	table, err := ReadTable("capital_gains", domain.StatusMarried, h)
	require.NoError(t, err)

	rows := table.Rows(2020)
	require.Len(t, rows, 3)
	assert.True(t, rows[0].Amount.Equal(decimal.NewFromInt(80000)))
	assert.True(t, rows[0].TaxPercent.IsZero())
	assert.True(t, rows[1].TaxPercent.Equal(decimal.NewFromInt(15)))
}

func TestReadIncomeBracketsSorted(t *testing.T) {
	h := horizon(t, 2020, 1)
	table, err := ReadTable("income", domain.StatusMarried, h)
	require.NoError(t, err)

	rows := table.Rows(2020)
	require.Len(t, rows, 7)
	for i := 1; i < len(rows); i++ {
		assert.True(t, rows[i].Amount.GreaterThan(rows[i-1].Amount), "amounts strictly increasing")
		assert.True(t, rows[i].TaxPercent.GreaterThanOrEqual(rows[i-1].TaxPercent), "rates non-decreasing")
	}
}

func TestMissingStatusFails(t *testing.T) {
	h := horizon(t, 2020, 1)
	_, err := ReadTable("capital_gains", "", h)
	assert.ErrorIs(t, err, ErrStatusRequired)
}

func TestMissingDatasetFails(t *testing.T) {
	h := horizon(t, 2020, 1)

	_, err := ReadTable("not_a_data_type", "", h)
	assert.ErrorIs(t, err, ErrDatasetNotFound)

	_, err = ReadTable("capital_gains", domain.FilingStatus("married_but_single"), h)
	assert.ErrorIs(t, err, ErrDatasetNotFound)
}

func TestForwardFillToHorizon(t *testing.T) {
	// Datasets stop at 2021; later years must carry the 2021 rows forward.
	h := horizon(t, 2020, 46)
	table, err := ReadTable("income", domain.StatusMarried, h)
	require.NoError(t, err)

	last := table.Rows(2065)
	require.Len(t, last, 7)
	assert.True(t, last[0].Amount.Equal(decimal.NewFromInt(19900)), "2065 forward-filled from 2021")

	first := table.Rows(2020)
	assert.True(t, first[0].Amount.Equal(decimal.NewFromInt(19750)))
}

func TestBackFillBeforeEarliestYear(t *testing.T) {
	h := horizon(t, 2018, 3)
	table, err := ReadTable("standard_deduction", domain.StatusSingle, h)
	require.NoError(t, err)

	assert.True(t, table.Amount(2018).Equal(decimal.NewFromInt(12400)), "years before data use earliest rows")
	assert.True(t, table.Amount(2020).Equal(decimal.NewFromInt(12400)))
}
