// Package series provides a year-indexed sequence of decimal values.
//
// Every per-year table in the simulator (income, spending, tax thresholds,
// account ledgers) is aligned to the same Horizon, so a Series is just a
// flat slice indexed by year offset.
package series

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Horizon is a contiguous range of calendar years.
type Horizon struct {
	Start int
	Count int
}

// NewHorizon creates a horizon of count consecutive years beginning at start.
func NewHorizon(start, count int) (Horizon, error) {
	if count <= 0 {
		return Horizon{}, fmt.Errorf("horizon must cover at least one year, got %d", count)
	}
	if start <= 0 {
		return Horizon{}, fmt.Errorf("horizon start year must be positive, got %d", start)
	}
	return Horizon{Start: start, Count: count}, nil
}

// End returns the last year covered by the horizon.
func (h Horizon) End() int { return h.Start + h.Count - 1 }

// Contains reports whether year falls within the horizon.
func (h Horizon) Contains(year int) bool { return year >= h.Start && year <= h.End() }

// Index returns the offset of year within the horizon.
func (h Horizon) Index(year int) (int, bool) {
	if !h.Contains(year) {
		return 0, false
	}
	return year - h.Start, true
}

// Years returns every year in the horizon in ascending order.
func (h Horizon) Years() []int {
	years := make([]int, h.Count)
	for i := range years {
		years[i] = h.Start + i
	}
	return years
}

// Series holds one decimal value per horizon year.
type Series struct {
	horizon Horizon
	values  []decimal.Decimal
}

// New returns a zero-valued series over the given horizon.
func New(h Horizon) Series {
	return Series{horizon: h, values: make([]decimal.Decimal, h.Count)}
}

// Grow returns a series starting at start and compounding by growthPercent
// each year: value[i] = start * (1 + growthPercent/100)^i.
func Grow(h Horizon, start, growthPercent decimal.Decimal) Series {
	s := New(h)
	factor := decimal.NewFromInt(1).Add(growthPercent.Div(decimal.NewFromInt(100)))
	value := start
	for i := range s.values {
		s.values[i] = value
		value = value.Mul(factor)
	}
	return s
}

// Horizon returns the horizon the series is aligned to.
func (s Series) Horizon() Horizon { return s.horizon }

// Get returns the value for year. Years outside the horizon return zero.
func (s Series) Get(year int) decimal.Decimal {
	i, ok := s.horizon.Index(year)
	if !ok {
		return decimal.Zero
	}
	return s.values[i]
}

// Set assigns the value for year.
func (s Series) Set(year int, v decimal.Decimal) error {
	i, ok := s.horizon.Index(year)
	if !ok {
		return fmt.Errorf("year %d outside horizon %d-%d", year, s.horizon.Start, s.horizon.End())
	}
	s.values[i] = v
	return nil
}

// Add returns the element-wise sum of two series sharing a horizon.
func (s Series) Add(other Series) (Series, error) {
	if s.horizon != other.horizon {
		return Series{}, fmt.Errorf("series horizons differ: %v vs %v", s.horizon, other.horizon)
	}
	out := New(s.horizon)
	for i := range s.values {
		out.values[i] = s.values[i].Add(other.values[i])
	}
	return out, nil
}

// Scale returns the series multiplied element-wise by factor.
func (s Series) Scale(factor decimal.Decimal) Series {
	out := New(s.horizon)
	for i := range s.values {
		out.values[i] = s.values[i].Mul(factor)
	}
	return out
}

// Values returns a copy of the underlying values in year order.
func (s Series) Values() []decimal.Decimal {
	out := make([]decimal.Decimal, len(s.values))
	copy(out, s.values)
	return out
}
