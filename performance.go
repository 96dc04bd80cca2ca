package quantfolio

// Performance holds the value change of a portfolio over one window.
type Performance struct {
	Start, End Money
	Return     Percent
}

func newPerformance(start, end Money) Performance {
	p := Performance{Start: start, End: end}
	if !start.IsZero() {
		p.Return = Percent(100 * (end.AsFloat()/start.AsFloat() - 1))
	}
	return p
}

// Change returns the absolute value change over the window.
func (p Performance) Change() Money { return p.End.Sub(p.Start) }

// Summary is an at-a-glance view of a portfolio on a date: its total value
// and the value change over each standard to-date window.
type Summary struct {
	Portfolio  string
	Date       Date
	Base       string
	TotalValue Money
	Daily      Performance
	WTD        Performance
	MTD        Performance
	QTD        Performance
	YTD        Performance
}

// NewSummary values the portfolio on the date and on the eve of each standard
// window to derive the to-date performances.
func NewSummary(v *Valuation, portfolio string, on Date) (*Summary, error) {
	end, err := v.Snapshot(portfolio, on)
	if err != nil {
		return nil, err
	}
	summary := &Summary{
		Portfolio:  portfolio,
		Date:       on,
		Base:       v.Base(),
		TotalValue: end.TotalValue,
	}

	startValue := func(eve Date) (Money, error) {
		snap, err := v.Snapshot(portfolio, eve)
		if err != nil {
			return Money{}, err
		}
		return snap.TotalValue, nil
	}

	windows := []struct {
		eve  Date
		perf *Performance
	}{
		{on.Add(-1), &summary.Daily},
		{on.StartOf(Weekly).Add(-1), &summary.WTD},
		{on.StartOf(Monthly).Add(-1), &summary.MTD},
		{on.StartOf(Quarterly).Add(-1), &summary.QTD},
		{on.StartOf(Yearly).Add(-1), &summary.YTD},
	}
	for _, w := range windows {
		start, err := startValue(w.eve)
		if err != nil {
			return nil, err
		}
		*w.perf = newPerformance(start, end.TotalValue)
	}
	return summary, nil
}
