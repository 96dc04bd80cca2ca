package quantfolio

import "fmt"

// ReturnSeries is a sequence of consecutive percentage returns, each tagged
// with the date it was observed on, plus the sampling period used for
// annualization.
type ReturnSeries struct {
	Dates   []Date
	Returns []float64
	Period  Period
}

// NewReturnSeries derives percentage returns from a snapshot series on total
// value. It needs at least two snapshots, and every prior value must be
// strictly positive: a return over a zero or negative base has no meaning and
// is an error, not a NaN.
func NewReturnSeries(snapshots []PortfolioSnapshot, period Period) (*ReturnSeries, error) {
	if len(snapshots) < 2 {
		return nil, &InsufficientDataError{Metric: "return series", Got: len(snapshots), Need: 2}
	}
	dates := make([]Date, 0, len(snapshots)-1)
	returns := make([]float64, 0, len(snapshots)-1)
	for i := 1; i < len(snapshots); i++ {
		prior := snapshots[i-1].TotalValue.AsFloat()
		if prior <= 0 {
			return nil, fmt.Errorf("cannot compute return over non-positive value %v on %s",
				snapshots[i-1].TotalValue, snapshots[i-1].Date)
		}
		dates = append(dates, snapshots[i].Date)
		returns = append(returns, snapshots[i].TotalValue.AsFloat()/prior-1)
	}
	return &ReturnSeries{Dates: dates, Returns: returns, Period: period}, nil
}

// NewReturnSeriesFromValues derives percentage returns from a raw value
// series, with the same rules as NewReturnSeries.
func NewReturnSeriesFromValues(dates []Date, values []float64, period Period) (*ReturnSeries, error) {
	if len(dates) != len(values) {
		return nil, &AlignmentError{Reason: fmt.Sprintf("%d dates for %d values", len(dates), len(values))}
	}
	if len(values) < 2 {
		return nil, &InsufficientDataError{Metric: "return series", Got: len(values), Need: 2}
	}
	outDates := make([]Date, 0, len(values)-1)
	returns := make([]float64, 0, len(values)-1)
	for i := 1; i < len(values); i++ {
		if values[i-1] <= 0 {
			return nil, fmt.Errorf("cannot compute return over non-positive value %v on %s", values[i-1], dates[i-1])
		}
		outDates = append(outDates, dates[i])
		returns = append(returns, values[i]/values[i-1]-1)
	}
	return &ReturnSeries{Dates: outDates, Returns: returns, Period: period}, nil
}

// Len returns the number of return observations.
func (s *ReturnSeries) Len() int { return len(s.Returns) }

// alignedWith checks that two series can be compared observation by
// observation: same length and same dates.
func (s *ReturnSeries) alignedWith(o *ReturnSeries) error {
	if s.Len() != o.Len() {
		return &AlignmentError{Reason: fmt.Sprintf("lengths differ: %d vs %d", s.Len(), o.Len())}
	}
	for i := range s.Dates {
		if s.Dates[i] != o.Dates[i] {
			return &AlignmentError{Reason: fmt.Sprintf("dates differ at observation %d: %s vs %s", i, s.Dates[i], o.Dates[i])}
		}
	}
	return nil
}
