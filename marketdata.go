package quantfolio

import (
	"iter"
	"maps"
	"slices"
	"sort"

	"github.com/shopspring/decimal"
)

// timeSeries is a date-indexed series of decimal values, kept sorted, with
// at-or-before lookup.
type timeSeries struct {
	dates  []Date
	values []decimal.Decimal
}

// set inserts or replaces the value on a given day.
func (s *timeSeries) set(on Date, value decimal.Decimal) {
	i := sort.Search(len(s.dates), func(i int) bool { return !s.dates[i].Before(on) })
	if i < len(s.dates) && s.dates[i] == on {
		s.values[i] = value
		return
	}
	s.dates = slices.Insert(s.dates, i, on)
	s.values = slices.Insert(s.values, i, value)
}

// asOf returns the last value at or before the given day.
func (s *timeSeries) asOf(on Date) (decimal.Decimal, bool) {
	i := sort.Search(len(s.dates), func(i int) bool { return s.dates[i].After(on) })
	if i == 0 {
		return decimal.Zero, false
	}
	return s.values[i-1], true
}

// PriceTable holds per-security price points. Prices are per-unit, tagged with
// the security's trading currency.
type PriceTable struct {
	series     map[string]*timeSeries
	currencies map[string]string
}

// NewPriceTable returns an empty price table.
func NewPriceTable() *PriceTable {
	return &PriceTable{
		series:     make(map[string]*timeSeries),
		currencies: make(map[string]string),
	}
}

// Add records the price of a security on a given day, replacing any previous
// point on the same day.
func (t *PriceTable) Add(security string, on Date, price Money) {
	s, ok := t.series[security]
	if !ok {
		s = &timeSeries{}
		t.series[security] = s
	}
	s.set(on, price.value)
	t.currencies[security] = price.Currency()
}

// Has reports whether the table carries any price for the security.
func (t *PriceTable) Has(security string) bool {
	_, ok := t.series[security]
	return ok
}

// PriceAsOf returns the last price at or before the given day. A held
// security with no usable price is a *MissingPriceError, never a silent zero.
func (t *PriceTable) PriceAsOf(security string, on Date) (Money, error) {
	s, ok := t.series[security]
	if !ok {
		return Money{}, &MissingPriceError{Security: security, On: on}
	}
	value, ok := s.asOf(on)
	if !ok {
		return Money{}, &MissingPriceError{Security: security, On: on}
	}
	return M(value, t.currencies[security]), nil
}

// Prices iterates over a security's price points in date order.
func (t *PriceTable) Prices(security string) iter.Seq2[Date, Money] {
	return func(yield func(Date, Money) bool) {
		s, ok := t.series[security]
		if !ok {
			return
		}
		for i, day := range s.dates {
			if !yield(day, M(s.values[i], t.currencies[security])) {
				return
			}
		}
	}
}

// Securities returns the sorted tickers known to the table.
func (t *PriceTable) Securities() []string {
	tickers := slices.Collect(maps.Keys(t.series))
	slices.Sort(tickers)
	return tickers
}
