package quantfolio

import "iter"

// Range is an inclusive range of dates.
type Range struct{ From, To Date }

// NewRange creates a range, swapping the bounds when 'from' is after 'to'.
func NewRange(from, to Date) Range {
	if from.After(to) {
		from, to = to, from
	}
	return Range{From: from, To: to}
}

// Contains reports whether date falls inside the range, boundaries included.
func (r Range) Contains(date Date) bool { return !date.Before(r.From) && !date.After(r.To) }

// Days iterates over every date in the range, in order.
func (r Range) Days() iter.Seq[Date] {
	return func(yield func(Date) bool) {
		for d := r.From; !d.After(r.To); d = d.Add(1) {
			if !yield(d) {
				return
			}
		}
	}
}
