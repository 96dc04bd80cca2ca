package quantfolio

import (
	"iter"
	"maps"
	"slices"

	"github.com/shopspring/decimal"
)

// RateTable normalizes money into a single base currency. A rate is the
// amount of base currency one unit of the foreign currency buys; conversions
// use the rate effective at or immediately before the requested date.
type RateTable struct {
	base   string
	series map[string]*timeSeries
}

// NewRateTable returns an empty rate table with the given base currency.
func NewRateTable(base string) *RateTable {
	return &RateTable{
		base:   base,
		series: make(map[string]*timeSeries),
	}
}

// Base returns the table's base currency.
func (t *RateTable) Base() string { return t.base }

// Add records the base-per-unit rate of a currency on a given day, replacing
// any previous point on the same day.
func (t *RateTable) Add(currency string, on Date, rate decimal.Decimal) {
	s, ok := t.series[currency]
	if !ok {
		s = &timeSeries{}
		t.series[currency] = s
	}
	s.set(on, rate)
}

// RateAsOf returns the rate effective at or before the given day.
func (t *RateTable) RateAsOf(currency string, on Date) (decimal.Decimal, error) {
	if currency == t.base {
		return decimal.NewFromInt(1), nil
	}
	s, ok := t.series[currency]
	if !ok {
		return decimal.Zero, &MissingRateError{Currency: currency, Base: t.base, On: on}
	}
	rate, ok := s.asOf(on)
	if !ok {
		return decimal.Zero, &MissingRateError{Currency: currency, Base: t.base, On: on}
	}
	return rate, nil
}

// Convert normalizes an amount into the base currency, using the rate
// effective at or before asOf. Converting the base currency is the identity
// and never fails.
func (t *RateTable) Convert(m Money, asOf Date) (Money, error) {
	if m.Currency() == t.base {
		return m, nil
	}
	rate, err := t.RateAsOf(m.Currency(), asOf)
	if err != nil {
		return Money{}, err
	}
	return M(m.value.Mul(rate), t.base), nil
}

// Rates iterates over a currency's rate points in date order.
func (t *RateTable) Rates(currency string) iter.Seq2[Date, decimal.Decimal] {
	return func(yield func(Date, decimal.Decimal) bool) {
		s, ok := t.series[currency]
		if !ok {
			return
		}
		for i, day := range s.dates {
			if !yield(day, s.values[i]) {
				return
			}
		}
	}
}

// Currencies returns the sorted foreign currencies known to the table.
func (t *RateTable) Currencies() []string {
	currencies := slices.Collect(maps.Keys(t.series))
	slices.Sort(currencies)
	return currencies
}
